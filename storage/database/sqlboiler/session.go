package boiledrepos

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
	"github.com/volatiletech/sqlboiler/v4/queries/qm"
	"github.com/volatiletech/strmangle"

	"github.com/trezcool/sesiones/core"
	"github.com/trezcool/sesiones/core/query"
	"github.com/trezcool/sesiones/core/session"
	"github.com/trezcool/sesiones/storage/database/sqlboiler/models"
)

type sessionRepository struct {
	exec core.DBExecutor
}

var _ session.Repository = (*sessionRepository)(nil) // interface compliance check

func NewSessionRepository(exec core.DBExecutor) *sessionRepository {
	return &sessionRepository{exec: exec}
}

func nullString(s string) null.String {
	return null.NewString(s, s != "")
}

// nullDate parses a YYYY-MM-DD date; anything else is NULL.
func nullDate(s string) null.Time {
	t, err := time.Parse(core.ISODate, s)
	if err != nil {
		return null.Time{}
	}
	return null.TimeFrom(t)
}

func formatDate(t null.Time) string {
	if !t.Valid {
		return ""
	}
	return t.Time.Format(core.ISODate)
}

func (repo sessionRepository) boil(s session.Session) *models.Sesione {
	return &models.Sesione{
		ID:              s.ID,
		Titulo:          s.Title,
		FechaPrevista:   nullDate(s.ScheduledDate),
		Hora:            nullString(s.Time),
		Ponente:         nullString(s.Speaker),
		Grupo:           nullString(s.Group),
		Estado:          nullString(s.Status),
		FechaExposicion: nullDate(s.ExpositionDate),
		PalabrasClave:   nullString(s.Keywords),
		URLAcceso:       nullString(s.AccessURL),
		Observaciones:   nullString(s.Notes),
		CreatedAt:       s.CreatedAt.UTC(),
	}
}

func (repo sessionRepository) unboil(s *models.Sesione) session.Session {
	if s == nil {
		return session.Session{}
	}
	return session.Session{
		ID:             s.ID,
		Title:          s.Titulo,
		ScheduledDate:  formatDate(s.FechaPrevista),
		Time:           s.Hora.String,
		Speaker:        s.Ponente.String,
		Group:          s.Grupo.String,
		Status:         s.Estado.String,
		ExpositionDate: formatDate(s.FechaExposicion),
		Keywords:       s.PalabrasClave.String,
		AccessURL:      s.URLAcceso.String,
		Notes:          s.Observaciones.String,
		CreatedAt:      s.CreatedAt,
	}
}

func (repo sessionRepository) unboilSlice(slice models.SesioneSlice) []session.Session {
	sessions := make([]session.Session, 0, len(slice))
	for _, s := range slice {
		sessions = append(sessions, repo.unboil(s))
	}
	return sessions
}

// trapNoRowsErr maps psql "no rows" err to session.ErrNotFound
func (repo sessionRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return session.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

// queryMods translates a query.Spec into sqlboiler query mods.
func queryMods(q *query.Spec, allowed map[string]bool) ([]qm.QueryMod, error) {
	if q == nil {
		return nil, nil
	}
	if err := q.Check(allowed); err != nil {
		return nil, err
	}

	var mods []qm.QueryMod
	for _, p := range q.Predicates {
		col := strmangle.IdentQuote('"', '"', p.Field)
		switch p.Op {
		case query.Eq:
			mods = append(mods, qm.Where(col+" = ?", p.Value))
		case query.Neq:
			mods = append(mods, qm.Where(col+" <> ?", p.Value))
		case query.Lt:
			mods = append(mods, qm.Where(col+" < ?", p.Value))
		case query.Lte:
			mods = append(mods, qm.Where(col+" <= ?", p.Value))
		case query.Gte:
			mods = append(mods, qm.Where(col+" >= ?", p.Value))
		case query.ILike:
			mods = append(mods, qm.Where(col+" ILIKE ?", "%"+query.EscapeLike(p.Value)+"%"))
		case query.In:
			if len(p.Values) == 0 {
				mods = append(mods, qm.Where("false"))
				continue
			}
			vals := make([]interface{}, 0, len(p.Values))
			for _, v := range p.Values {
				vals = append(vals, v)
			}
			mods = append(mods, qm.WhereIn(col+" IN ?", vals...))
		}
	}

	if len(q.Orders) > 0 {
		orderList := make([]string, 0, len(q.Orders))
		for _, o := range q.Orders {
			orderList = append(orderList, orderClause(o))
		}
		mods = append(mods, qm.OrderBy(strings.Join(orderList, ", ")))
	}
	if q.Limit > 0 {
		mods = append(mods, qm.Limit(q.Limit))
	}
	return mods, nil
}

func orderClause(o query.Order) string {
	dir, nulls := "DESC", "LAST"
	if o.Ascending {
		dir = "ASC"
	}
	if o.NullsFirst {
		nulls = "FIRST"
	}
	return fmt.Sprintf("%s %s NULLS %s", strmangle.IdentQuote('"', '"', o.Field), dir, nulls)
}

func (repo sessionRepository) QuerySessions(ctx context.Context, q *query.Spec) ([]session.Session, error) {
	mods, err := queryMods(q, session.Columns)
	if err != nil {
		return nil, errors.Wrap(err, "building sessions query")
	}
	sessions, err := models.Sesiones(mods...).All(ctx, repo.exec)
	if err != nil {
		return nil, errors.Wrap(err, "querying sessions")
	}
	return repo.unboilSlice(sessions), nil
}

func (repo sessionRepository) GetSessionByID(ctx context.Context, id string) (session.Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return session.Session{}, session.ErrNotFound
	}
	s, err := models.FindSesione(ctx, repo.exec, id)
	if err != nil {
		return session.Session{}, repo.trapNoRowsErr(err, "finding session by ID")
	}
	return repo.unboil(s), nil
}

func (repo sessionRepository) CreateSession(ctx context.Context, s session.Session) (session.Session, error) {
	s.ID = uuid.New().String()
	m := repo.boil(s)
	if err := m.Insert(ctx, repo.exec); err != nil {
		return session.Session{}, errors.Wrap(err, "inserting session")
	}
	return repo.unboil(m), nil
}

func (repo sessionRepository) UpdateSession(ctx context.Context, s session.Session) (session.Session, error) {
	if _, err := uuid.Parse(s.ID); err != nil {
		return session.Session{}, session.ErrNotFound
	}
	m := repo.boil(s)
	n, err := m.Update(ctx, repo.exec)
	if err != nil {
		return session.Session{}, errors.Wrap(err, "updating session")
	}
	if n == 0 {
		return session.Session{}, session.ErrNotFound
	}
	return repo.unboil(m), nil
}

func (repo sessionRepository) DeleteSession(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return session.ErrNotFound
	}
	n, err := (&models.Sesione{ID: id}).Delete(ctx, repo.exec)
	if err != nil {
		return errors.Wrap(err, "deleting session")
	}
	if n == 0 {
		return session.ErrNotFound
	}
	return nil
}
