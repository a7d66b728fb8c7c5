package user

import (
	"io"

	"github.com/emersion/go-vcard"
	"github.com/pkg/errors"
)

// EncodeVCards writes the roster as vCard 4.0 contacts.
func EncodeVCards(w io.Writer, org string, users []User) error {
	enc := vcard.NewEncoder(w)
	for _, u := range users {
		card := make(vcard.Card)
		card.SetValue(vcard.FieldUID, u.ID)
		card.SetValue(vcard.FieldFormattedName, u.Name)
		card.SetName(&vcard.Name{GivenName: u.Name})
		if u.Email != "" {
			card.AddValue(vcard.FieldEmail, u.Email)
		}
		if org != "" {
			card.SetValue(vcard.FieldOrganization, org)
		}
		card.SetValue(vcard.FieldRole, u.Role)
		vcard.ToV4(card)
		if err := enc.Encode(card); err != nil {
			return errors.Wrapf(err, "encoding vcard of %s", u.ID)
		}
	}
	return nil
}
