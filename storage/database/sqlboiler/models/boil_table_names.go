package models

var TableNames = struct {
	Sesiones string
}{
	Sesiones: "sesiones",
}
