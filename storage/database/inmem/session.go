package inmemdb

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/sesiones/core/query"
	"github.com/trezcool/sesiones/core/session"
)

type sessionRepository struct {
	db  *sessionTable
	now func() time.Time
}

var _ session.Repository = (*sessionRepository)(nil) // interface compliance check

func NewSessionRepository(db *DB) *sessionRepository {
	return &sessionRepository{db: db.session, now: db.now}
}

func (repo *sessionRepository) QuerySessions(_ context.Context, q *query.Spec) ([]session.Session, error) {
	if q == nil {
		q = query.New()
	}
	if err := q.Check(session.Columns); err != nil {
		return nil, errors.Wrap(err, "querying sessions")
	}

	repo.db.mutex.RLock()
	records := make([]query.Record, 0, len(repo.db.order))
	for _, id := range repo.db.order {
		records = append(records, *repo.db.table[id])
	}
	repo.db.mutex.RUnlock()

	records = q.Apply(records)
	sessions := make([]session.Session, 0, len(records))
	for _, r := range records {
		sessions = append(sessions, r.(session.Session))
	}
	return sessions, nil
}

func (repo *sessionRepository) GetSessionByID(_ context.Context, id string) (session.Session, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if s, ok := repo.db.table[id]; ok {
		return *s, nil
	}
	return session.Session{}, session.ErrNotFound
}

func (repo *sessionRepository) CreateSession(_ context.Context, s session.Session) (session.Session, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	s.ID = uuid.New().String()
	s.CreatedAt = repo.now().UTC()
	repo.db.table[s.ID] = &s
	repo.db.order = append(repo.db.order, s.ID)
	return s, nil
}

func (repo *sessionRepository) UpdateSession(_ context.Context, s session.Session) (session.Session, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig, ok := repo.db.table[s.ID]
	if !ok {
		return session.Session{}, session.ErrNotFound
	}
	s.CreatedAt = orig.CreatedAt
	repo.db.table[s.ID] = &s
	return s, nil
}

func (repo *sessionRepository) DeleteSession(_ context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return session.ErrNotFound
	}
	delete(repo.db.table, id)
	repo.db.order = remove(repo.db.order, id)
	return nil
}
