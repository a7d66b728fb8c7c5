package session

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/sesiones/core"
	"github.com/trezcool/sesiones/core/query"
)

const (
	DefaultUpcomingLimit = 5
	DefaultRecentLimit   = 5
)

var ErrNotFound = errors.New("sesión no encontrada")

type (
	// Repository is the "sesiones" collection of the table store.
	// GetSessionByID, UpdateSession and DeleteSession return ErrNotFound for unknown ids.
	Repository interface {
		QuerySessions(ctx context.Context, q *query.Spec) ([]Session, error)
		GetSessionByID(ctx context.Context, id string) (Session, error)
		CreateSession(ctx context.Context, s Session) (Session, error)
		UpdateSession(ctx context.Context, s Session) (Session, error)
		DeleteSession(ctx context.Context, id string) error
	}

	Service struct {
		repo     Repository
		clock    core.Clock
		validate *validator.Validate
	}
)

func NewService(repo Repository, clock core.Clock, validate *validator.Validate) *Service {
	if clock == nil {
		clock = core.RealClock{}
	}
	return &Service{repo: repo, clock: clock, validate: validate}
}

// storeErr wraps every store failure except ErrNotFound into a core.OperationError.
func storeErr(op string, err error) error {
	if err == nil || errors.Is(err, ErrNotFound) {
		return err
	}
	return core.NewOperationError(op, err)
}

func (svc *Service) query(ctx context.Context, op string, q *query.Spec) ([]Session, error) {
	sessions, err := svc.repo.QuerySessions(ctx, q)
	if err != nil {
		return nil, storeErr(op, err)
	}
	return sessions, nil
}

// QueryAll lists every session, most recent exposition date first.
func (svc *Service) QueryAll(ctx context.Context) ([]Session, error) {
	return svc.query(ctx, "listando sesiones", query.New().OrderBy(ColExpositionDate, false, false))
}

func (svc *Service) GetByID(ctx context.Context, id string) (Session, error) {
	s, err := svc.repo.GetSessionByID(ctx, id)
	return s, storeErr("obteniendo sesión", err)
}

// Create validates the form and stores a new session.
// Status defaults to pendiente; a missing exposition date copies the scheduled date.
func (svc *Service) Create(ctx context.Context, f Form) (Session, error) {
	if err := f.Validate(svc.validate); err != nil {
		return Session{}, err
	}
	var s Session
	f.apply(&s)
	if s.Status == "" {
		s.Status = StatusPending
	}
	if s.ExpositionDate == "" && s.ScheduledDate != "" {
		s.ExpositionDate = s.ScheduledDate
	}
	s, err := svc.repo.CreateSession(ctx, s)
	return s, storeErr("creando sesión", err)
}

// Update replaces the editable fields of the session.
func (svc *Service) Update(ctx context.Context, id string, f Form) (Session, error) {
	if err := f.Validate(svc.validate); err != nil {
		return Session{}, err
	}
	s, err := svc.GetByID(ctx, id)
	if err != nil {
		return Session{}, err
	}
	f.apply(&s)
	if s.Status == "" {
		s.Status = StatusPending
	}
	s, err = svc.repo.UpdateSession(ctx, s)
	return s, storeErr("actualizando sesión", err)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return storeErr("eliminando sesión", svc.repo.DeleteSession(ctx, id))
}

// Filter applies the present filters on top of the mode's base query.
func (svc *Service) Filter(ctx context.Context, f Filter, mode Mode) ([]Session, error) {
	f.Clean()
	return svc.query(ctx, "filtrando sesiones", BuildQuery(f, mode))
}

// Scheduled lists the sessions not yet completed, soonest first.
func (svc *Service) Scheduled(ctx context.Context) ([]Session, error) {
	return svc.query(ctx, "listando sesiones programadas", BuildQuery(Filter{}, ModeScheduled))
}

// Completed lists the completed sessions, most recent first.
func (svc *Service) Completed(ctx context.Context) ([]Session, error) {
	return svc.query(ctx, "listando sesiones realizadas", BuildQuery(Filter{}, ModeCompleted))
}

// Upcoming lists pending or confirmed sessions, soonest first. limit <= 0 uses the default.
func (svc *Service) Upcoming(ctx context.Context, limit int) ([]Session, error) {
	if limit <= 0 {
		limit = DefaultUpcomingLimit
	}
	q := query.New().
		In(ColStatus, StatusPending, StatusConfirmed).
		OrderBy(ColExpositionDate, true, false).
		Take(limit)
	return svc.query(ctx, "listando próximas sesiones", q)
}

// Recent lists the latest completed sessions. limit <= 0 uses the default.
func (svc *Service) Recent(ctx context.Context, limit int) ([]Session, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	q := query.New().
		Eq(ColStatus, StatusCompleted).
		OrderBy(ColExpositionDate, false, false).
		Take(limit)
	return svc.query(ctx, "listando sesiones recientes", q)
}

// Overdue lists pending sessions whose scheduled date is before today.
func (svc *Service) Overdue(ctx context.Context) ([]Session, error) {
	q := query.New().
		Eq(ColStatus, StatusPending).
		Lt(ColScheduledDate, core.Today(svc.clock)).
		OrderBy(ColScheduledDate, true, false)
	return svc.query(ctx, "listando sesiones atrasadas", q)
}

// ScheduledBetween lists the sessions not yet completed that are exposed on
// [from, to), by date then time.
func (svc *Service) ScheduledBetween(ctx context.Context, from, to string) ([]Session, error) {
	q := query.New().
		Neq(ColStatus, StatusCompleted).
		Gte(ColExpositionDate, from).
		Lt(ColExpositionDate, to).
		OrderBy(ColExpositionDate, true, false).
		OrderBy(ColTime, true, false)
	return svc.query(ctx, "listando sesiones del calendario", q)
}

func (svc *Service) Stats(ctx context.Context) (Stats, error) {
	all, err := svc.QueryAll(ctx)
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(all, core.Today(svc.clock)), nil
}

// Dashboard gathers the counters and the upcoming list of the home page.
func (svc *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	stats, err := svc.Stats(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	upcoming, err := svc.Upcoming(ctx, DefaultUpcomingLimit)
	if err != nil {
		return Dashboard{}, err
	}
	return Dashboard{
		Total:     stats.Total,
		Completed: stats.Completed,
		Pending:   stats.Pending + stats.Confirmed,
		Overdue:   stats.Overdue,
		Upcoming:  upcoming,
	}, nil
}

