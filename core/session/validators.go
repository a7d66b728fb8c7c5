package session

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/sesiones/core"
)

var (
	statusTag  = "sessstatus"
	statusText = "{0} debe ser uno de: pendiente, fecha confirmada, realizada, anulada"

	groupTag  = "sessgroup"
	groupText = "{0} debe ser uno de: FIR, Plantilla, Rotante externo, Otros"
)

// InitValidators registers the session validation tags.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(statusTag, oneOfValidation(Statuses))
	core.RegisterCustomTranslation(validate, translator, statusTag, statusText)

	_ = validate.RegisterValidation(groupTag, oneOfValidation(Groups))
	core.RegisterCustomTranslation(validate, translator, groupTag, groupText)
}

func oneOfValidation(allowed []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		val := fl.Field().String()
		for _, a := range allowed {
			if val == a {
				return true
			}
		}
		return false
	}
}
