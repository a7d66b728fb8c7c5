// Package notice renders the short success and info messages returned by the API
// in the language the client asks for.
package notice

import (
	"encoding/json"
	"io/fs"
	"path"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pkg/errors"
	"golang.org/x/text/language"

	appfs "github.com/trezcool/sesiones/fs"
)

// Message IDs
const (
	SessionCreated    = "session_created"
	SessionUpdated    = "session_updated"
	SessionDeleted    = "session_deleted"
	UserCreated       = "user_created"
	UserUpdated       = "user_updated"
	UserDeleted       = "user_deleted"
	PasswordChanged   = "password_changed"
	PasswordResetSent = "password_reset_sent"
	PasswordResetDone = "password_reset_done"
	SignedOut         = "signed_out"
	CannotDeleteSelf  = "cannot_delete_self"
	AdminRequired     = "admin_required"
	NotAuthenticated  = "not_authenticated"
)

const localesDir = "locales"

// DefaultLanguage is used when nothing in Accept-Language matches.
var DefaultLanguage = language.Spanish

type Catalog struct {
	bundle  *i18n.Bundle
	tags    []language.Tag
	matcher language.Matcher
}

// NewCatalog loads every embedded locales/active.<lang>.json file.
func NewCatalog() (*Catalog, error) {
	return LoadCatalog(appfs.FS, localesDir)
}

func LoadCatalog(fsys fs.FS, dir string) (*Catalog, error) {
	bundle := i18n.NewBundle(DefaultLanguage)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, errors.Wrap(err, "reading locales")
	}
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "active.") || !strings.HasSuffix(name, ".json") {
			continue
		}
		if _, err := bundle.LoadMessageFileFS(fsys, path.Join(dir, name)); err != nil {
			return nil, errors.Wrapf(err, "loading locale %s", name)
		}
	}

	// default language first: the matcher falls back to the first tag
	tags := []language.Tag{DefaultLanguage}
	for _, tag := range bundle.LanguageTags() {
		if tag != DefaultLanguage {
			tags = append(tags, tag)
		}
	}
	return &Catalog{bundle: bundle, tags: tags, matcher: language.NewMatcher(tags)}, nil
}

// Lang returns the base language ("es", "en") best matching an Accept-Language header.
func (c *Catalog) Lang(acceptLanguage string) string {
	base, _ := c.match(acceptLanguage).Base()
	return base.String()
}

func (c *Catalog) match(acceptLanguage string) language.Tag {
	desired, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(desired) == 0 {
		return c.tags[0]
	}
	_, idx, conf := c.matcher.Match(desired...)
	if conf == language.No {
		return c.tags[0]
	}
	return c.tags[idx]
}

// Localizer returns a localizer for an Accept-Language header.
func (c *Catalog) Localizer(acceptLanguage string) *i18n.Localizer {
	return i18n.NewLocalizer(c.bundle, c.match(acceptLanguage).String())
}

// Message renders a message, falling back to its ID when it is missing.
func (c *Catalog) Message(acceptLanguage, id string, data map[string]interface{}) string {
	msg, err := c.Localizer(acceptLanguage).Localize(&i18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: data,
	})
	if err != nil {
		return id
	}
	return msg
}
