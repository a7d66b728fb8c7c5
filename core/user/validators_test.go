package user

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/emersion/go-vcard"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/sesiones/core"
)

func TestPasswordPolicy(t *testing.T) {
	basic := newValidate(core.PasswordPolicyBasic)
	strict := newValidate(core.PasswordPolicyStrict)

	nu := func(pwd string) NewUser {
		return NewUser{Name: "Ana Ruiz", Email: "ana.ruiz@test.local", Role: RoleUser, Password: pwd, PasswordConfirm: pwd}
	}

	tests := []struct {
		name     string
		validate *validator.Validate
		usr      NewUser
		wantTag  string
	}{
		{name: "basic: min length", validate: basic, usr: nu("abc"), wantTag: pwdMinLenTag},
		{name: "basic: 6 chars", validate: basic, usr: nu("abcdef")},
		{name: "basic: numeric allowed", validate: basic, usr: nu("123456")},
		{name: "strict: min length", validate: strict, usr: nu("aB1!x"), wantTag: pwdMinLenTag},
		{name: "strict: strict min length", validate: strict, usr: nu("aB1!xy"), wantTag: pwdStrictMinLenTag},
		{name: "strict: whitespace", validate: strict, usr: nu("aB1! xyzw"), wantTag: pwdNoSpaceTag},
		{name: "strict: all numeric", validate: strict, usr: nu("12345678"), wantTag: pwdNotAllNumTag},
		{name: "strict: complexity", validate: strict, usr: nu("abcdefgh"), wantTag: pwdComplexityTag},
		{name: "strict: similar to email", validate: strict, usr: nu("Ana.Ruiz@test1"), wantTag: pwdAttrSimTag},
		{name: "strict: valid", validate: strict, usr: nu("Kq7#vLp2w")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.validate.Struct(tt.usr)
			if tt.wantTag == "" {
				assert.NoError(t, err)
				return
			}
			var vErrs validator.ValidationErrors
			require.True(t, errors.As(err, &vErrs))
			require.Len(t, vErrs, 1)
			assert.Equal(t, tt.wantTag, vErrs[0].Tag())
			assert.Equal(t, "password", vErrs[0].Field())
		})
	}
}

func TestNewUser_Clean(t *testing.T) {
	nu := NewUser{Name: "  Ana ", Email: " ANA@Test.Local ", Role: " "}
	nu.Clean()
	assert.Equal(t, NewUser{Name: "Ana", Email: "ana@test.local", Role: RoleUser}, nu)
}

func TestEncodeVCards(t *testing.T) {
	var buf bytes.Buffer
	err := EncodeVCards(&buf, "Farmacia", []User{
		{ID: "u1", Name: "Ana Ruiz", Email: "ana@test.local", Role: RoleAdmin},
		{ID: "u2", Name: "Luis Gómez", Role: RoleUser},
	})
	require.NoError(t, err)
	out := buf.String()
	assert.Equal(t, 2, strings.Count(out, "BEGIN:VCARD"))

	dec := vcard.NewDecoder(&buf)
	card, err := dec.Decode()
	require.NoError(t, err)
	assert.Equal(t, "Ana Ruiz", card.PreferredValue(vcard.FieldFormattedName))
	assert.Equal(t, "ana@test.local", card.PreferredValue(vcard.FieldEmail))
	assert.Equal(t, RoleAdmin, card.Value(vcard.FieldRole))
	assert.Equal(t, "4.0", card.Value(vcard.FieldVersion))

	card, err = dec.Decode()
	require.NoError(t, err)
	assert.Equal(t, "u2", card.Value(vcard.FieldUID))
	assert.Empty(t, card.Values(vcard.FieldEmail))
}
