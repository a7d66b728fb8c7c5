package inmemdb

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/sesiones/core/query"
	"github.com/trezcool/sesiones/core/user"
)

type userRepository struct {
	db  *userTable
	now func() time.Time
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *DB) *userRepository {
	return &userRepository{db: db.user, now: db.now}
}

func (repo *userRepository) QueryUsers(_ context.Context, q *query.Spec) ([]user.User, error) {
	if q == nil {
		q = query.New()
	}
	if err := q.Check(user.Columns); err != nil {
		return nil, errors.Wrap(err, "querying users")
	}

	repo.db.mutex.RLock()
	records := make([]query.Record, 0, len(repo.db.order))
	for _, id := range repo.db.order {
		records = append(records, *repo.db.table[id])
	}
	repo.db.mutex.RUnlock()

	records = q.Apply(records)
	users := make([]user.User, 0, len(records))
	for _, r := range records {
		users = append(users, r.(user.User))
	}
	return users, nil
}

func (repo *userRepository) GetUserByID(_ context.Context, id string) (user.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if usr, ok := repo.db.table[id]; ok {
		return *usr, nil
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, id := range repo.db.order {
		if usr := repo.db.table[id]; usr.Email == email {
			return *usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) CountUsers(_ context.Context) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return len(repo.db.table), nil
}

func (repo *userRepository) UpsertUser(_ context.Context, usr user.User) (user.User, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if orig, ok := repo.db.table[usr.ID]; ok {
		usr.CreatedAt = orig.CreatedAt
	} else {
		usr.CreatedAt = repo.now().UTC()
		repo.db.order = append(repo.db.order, usr.ID)
	}
	repo.db.table[usr.ID] = &usr
	return usr, nil
}

func (repo *userRepository) UpdateUser(_ context.Context, usr user.User) (user.User, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	// only save editable fields
	origUsr, ok := repo.db.table[usr.ID]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	origUsr.Name = usr.Name
	origUsr.Email = usr.Email
	origUsr.Role = usr.Role
	return *origUsr, nil
}

func (repo *userRepository) DeleteUsersByID(_ context.Context, ids ...string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, id := range ids {
		if _, ok := repo.db.table[id]; ok {
			delete(repo.db.table, id)
			repo.db.order = remove(repo.db.order, id)
		}
	}
	return nil
}
