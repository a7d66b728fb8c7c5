package notice

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog(t *testing.T) {
	cat, err := NewCatalog()
	require.NoError(t, err)

	tests := []struct {
		name           string
		acceptLanguage string
		id             string
		data           map[string]interface{}
		wantLang       string
		want           string
	}{
		{name: "default", id: SessionCreated, wantLang: "es", want: "Sesión creada correctamente"},
		{name: "english", acceptLanguage: "en-US,en;q=0.9", id: SessionCreated, wantLang: "en", want: "Session created"},
		{name: "unsupported", acceptLanguage: "de-DE", id: SessionDeleted, wantLang: "es", want: "Sesión eliminada correctamente"},
		{name: "garbage header", acceptLanguage: ";;;", id: SignedOut, wantLang: "es", want: "Sesión cerrada"},
		{
			name:           "template data",
			acceptLanguage: "es-ES",
			id:             PasswordResetSent,
			data:           map[string]interface{}{"Email": "ana@test.local"},
			wantLang:       "es",
			want:           "Se ha enviado un email de recuperación a ana@test.local",
		},
		{name: "missing message", acceptLanguage: "en", id: "nope", wantLang: "en", want: "nope"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantLang, cat.Lang(tt.acceptLanguage))
			assert.Equal(t, tt.want, cat.Message(tt.acceptLanguage, tt.id, tt.data))
		})
	}
}

func TestLoadCatalog(t *testing.T) {
	fsys := fstest.MapFS{
		"l/active.es.json": {Data: []byte(`{"hola": "Hola"}`)},
		"l/README.md":      {Data: []byte(`ignored`)},
	}
	cat, err := LoadCatalog(fsys, "l")
	require.NoError(t, err)
	assert.Equal(t, "Hola", cat.Message("fr", "hola", nil))

	fsys["l/active.en.json"] = &fstest.MapFile{Data: []byte(`{not json`)}
	_, err = LoadCatalog(fsys, "l")
	assert.Error(t, err)

	_, err = LoadCatalog(fsys, "missing")
	assert.Error(t, err)
}
