package user

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/trezcool/sesiones/core"
)

var (
	userRoleTag  = "userrole"
	userRoleText = "{0} debe ser usuario o administrador"

	// password policy
	pwdMinLen     = 6
	pwdMinLenTag  = "pwdminlen"
	pwdMinLenText = fmt.Sprintf("la contraseña debe tener al menos %d caracteres", pwdMinLen)

	pwdConfirmTag  = "pwdconfirm"
	pwdConfirmText = "las contraseñas no coinciden"

	// strict policy only
	pwdStrictMinLen     = 8
	pwdStrictMinLenTag  = "pwdstrictminlen"
	pwdStrictMinLenText = fmt.Sprintf("la contraseña debe tener al menos %d caracteres", pwdStrictMinLen)

	pwdNoSpaceTag  = "pwdnospace"
	pwdNoSpaceText = "la contraseña no puede contener espacios"

	pwdNotAllNumTag  = "pwdnotallnum"
	pwdNotAllNumText = "la contraseña no puede ser solo numérica"

	pwdComplexityTag  = "pwdcplx"
	pwdComplexityText = "la contraseña debe contener al menos 1 mayúscula, 1 minúscula, 1 dígito y 1 carácter especial"
	specialRegex      = regexp.MustCompile("[^A-Za-z0-9]")

	pwdMaxSim      = .7
	pwdAttrSimTag  = "pwdtoosim"
	pwdAttrSimText = "la contraseña es demasiado parecida a los datos del usuario"
)

// InitValidators registers the user validation tags. policy is core.PasswordPolicyBasic
// or core.PasswordPolicyStrict.
func InitValidators(validate *validator.Validate, translator ut.Translator, policy string) {
	_ = validate.RegisterValidation(userRoleTag, userRoleValidation)
	core.RegisterCustomTranslation(validate, translator, userRoleTag, userRoleText)

	validate.RegisterStructValidation(passwordStructValidation(policy), NewUser{}, ChangePassword{}, ResetPassword{})
	for tag, text := range map[string]string{
		pwdMinLenTag:       pwdMinLenText,
		pwdConfirmTag:      pwdConfirmText,
		pwdStrictMinLenTag: pwdStrictMinLenText,
		pwdNoSpaceTag:      pwdNoSpaceText,
		pwdNotAllNumTag:    pwdNotAllNumText,
		pwdComplexityTag:   pwdComplexityText,
		pwdAttrSimTag:      pwdAttrSimText,
	} {
		core.RegisterCustomTranslation(validate, translator, tag, text)
	}
}

// Custom Validators

// userRoleValidation checks that the role is one of AllRoles
func userRoleValidation(fl validator.FieldLevel) bool {
	role := fl.Field().String()
	for _, r := range AllRoles {
		if role == r {
			return true
		}
	}
	return false
}

// passwordStructValidation does struct level validation of the password fields.
func passwordStructValidation(policy string) validator.StructLevelFunc {
	return func(sl validator.StructLevel) {
		var pwd, confirm string
		var attrs []string
		switch v := sl.Current().Interface().(type) {
		case NewUser:
			pwd, confirm = v.Password, v.PasswordConfirm
			attrs = []string{v.Name, v.Email}
		case ChangePassword:
			pwd, confirm = v.Password, v.PasswordConfirm
		case ResetPassword:
			pwd, confirm = v.Password, v.PasswordConfirm
		default:
			return
		}
		if pwd == "" {
			return // reported by "required"
		}

		if !validatePassword(pwd, policy, attrs, sl) {
			return
		}
		if confirm != "" && confirm != pwd {
			sl.ReportError(confirm, "password_confirm", "PasswordConfirm", pwdConfirmTag, "")
		}
	}
}

// validatePassword applies the password policy to pwd and reports the first failure:
// - basic: minLen 6
// - strict: minLen 8, no whitespace, not all numeric,
//   1 upper, 1 lower, 1 digit and 1 special, not similar to user attrs
func validatePassword(pwd, policy string, attrs []string, sl validator.StructLevel) bool {
	reportErr := func(tag string) bool {
		sl.ReportError(pwd, "password", "Password", tag, "")
		return false
	}

	pwdLen := len([]rune(pwd))
	if pwdLen < pwdMinLen {
		return reportErr(pwdMinLenTag)
	}
	if policy != core.PasswordPolicyStrict {
		return true
	}

	if pwdLen < pwdStrictMinLen {
		return reportErr(pwdStrictMinLenTag)
	}

	var (
		digitCount         int
		hasUpper, hasLower bool
	)
	for _, char := range pwd {
		if unicode.IsSpace(char) {
			return reportErr(pwdNoSpaceTag)
		}
		if unicode.IsDigit(char) {
			digitCount++
		}
		if !hasUpper && unicode.IsUpper(char) {
			hasUpper = true
		}
		if !hasLower && unicode.IsLower(char) {
			hasLower = true
		}
	}

	if digitCount == pwdLen {
		return reportErr(pwdNotAllNumTag)
	}
	if !(hasUpper && hasLower && digitCount > 0 && specialRegex.MatchString(pwd)) {
		return reportErr(pwdComplexityTag)
	}

	getRatio := func(pass, usrAttr string) float64 {
		if usrAttr == "" {
			return 0
		}
		return difflib.NewMatcher(strings.Split(strings.ToLower(pass), ""), strings.Split(strings.ToLower(usrAttr), "")).QuickRatio()
	}
	for _, attr := range attrs {
		if getRatio(pwd, attr) >= pwdMaxSim {
			return reportErr(pwdAttrSimTag)
		}
	}
	return true
}
