package shared

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/sesiones/core"
	"github.com/trezcool/sesiones/core/auth"
	"github.com/trezcool/sesiones/core/session"
	"github.com/trezcool/sesiones/core/user"
	emailsvc "github.com/trezcool/sesiones/services/email"
	"github.com/trezcool/sesiones/services/identity/gotrue"
	"github.com/trezcool/sesiones/services/identity/local"
	"github.com/trezcool/sesiones/storage/database"
	inmemdb "github.com/trezcool/sesiones/storage/database/inmem"
	boiledrepos "github.com/trezcool/sesiones/storage/database/sqlboiler"
	sqlxrepos "github.com/trezcool/sesiones/storage/database/sqlx"
)

// Repositories are the collections of the table store.
type Repositories struct {
	Sessions session.Repository
	Users    user.Repository
	Close    func() error
}

func noopClose() error { return nil }

// OpenStorage opens the table store selected by conf.Storage.Engine.
// Postgres sessions go through sqlboiler, users through sqlx.
func OpenStorage(ctx context.Context, conf *core.Config) (Repositories, error) {
	switch conf.Storage.Engine {
	case core.StorageMemory:
		db := inmemdb.Open()
		return Repositories{
			Sessions: inmemdb.NewSessionRepository(db),
			Users:    inmemdb.NewUserRepository(db),
			Close:    noopClose,
		}, nil
	case core.StoragePostgres:
		db, err := database.Open(ctx, conf)
		if err != nil {
			return Repositories{}, errors.Wrap(err, "opening database")
		}
		return Repositories{
			Sessions: boiledrepos.NewSessionRepository(db),
			Users:    sqlxrepos.NewUserRepository(db),
			Close:    db.Close,
		}, nil
	}
	return Repositories{}, errors.Errorf("unknown storage engine %q", conf.Storage.Engine)
}

// NewEmailService prints messages in debug mode and sends them through SendGrid otherwise.
func NewEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug || conf.SendgridApiKey == "" {
		return emailsvc.NewConsoleService(conf, logger)
	}
	return emailsvc.NewSendgridService(conf, logger)
}

// OpenIdentity returns the identity provider selected by conf.Identity.Provider.
func OpenIdentity(conf *core.Config, mailSvc core.EmailService) (auth.Provider, func() error, error) {
	switch conf.Identity.Provider {
	case core.IdentityLocal:
		p, err := local.Open(local.NewOptions(conf), mailSvc)
		if err != nil {
			return nil, nil, errors.Wrap(err, "opening local identity store")
		}
		return p, p.Close, nil
	case core.IdentityGoTrue:
		if conf.Identity.URL == "" {
			return nil, nil, errors.New("identity.url is required by the gotrue provider")
		}
		return gotrue.NewClient(conf), noopClose, nil
	}
	return nil, nil, errors.Errorf("unknown identity provider %q", conf.Identity.Provider)
}
