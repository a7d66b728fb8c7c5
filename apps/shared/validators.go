// Package shared builds the dependencies both binaries are made of.
package shared

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/sesiones/core"
	"github.com/trezcool/sesiones/core/session"
	"github.com/trezcool/sesiones/core/user"
)

// NewValidator returns a validator with every custom tag registered and
// its Spanish translator. policy is the password policy of user forms.
func NewValidator(policy string) (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	session.InitValidators(validate, translator)
	user.InitValidators(validate, translator, policy)
	return validate, translator
}
