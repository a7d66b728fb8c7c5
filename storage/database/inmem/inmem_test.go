package inmemdb

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/sesiones/core/query"
	"github.com/trezcool/sesiones/core/session"
	"github.com/trezcool/sesiones/core/user"
)

func openDB() *DB {
	db := Open()
	db.now = func() time.Time { return time.Date(2025, 1, 12, 9, 0, 0, 0, time.UTC) }
	return db
}

func TestSessionRepository(t *testing.T) {
	repo := NewSessionRepository(openDB())
	ctx := context.Background()

	var ids []string
	for _, s := range []session.Session{
		{Title: "Antibióticos", Status: session.StatusCompleted, ExpositionDate: "2025-01-08"},
		{Title: "Anticoagulantes", Status: session.StatusPending},
		{Title: "Nutrición", Status: session.StatusConfirmed, ExpositionDate: "2025-01-20"},
	} {
		created, err := repo.CreateSession(ctx, s)
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, 2025, created.CreatedAt.Year())
		ids = append(ids, created.ID)
	}

	got, err := repo.QuerySessions(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	got, err = repo.QuerySessions(ctx, query.New().
		Neq(session.ColStatus, session.StatusCompleted).
		OrderBy(session.ColExpositionDate, true, false))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Nutrición", got[0].Title)
	assert.Equal(t, "Anticoagulantes", got[1].Title) // NULL last

	got, err = repo.QuerySessions(ctx, query.New().ILike(session.ColTitle, "ANTI").Take(1))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Antibióticos", got[0].Title)

	_, err = repo.QuerySessions(ctx, query.New().Eq("nope", "x"))
	assert.True(t, errors.Is(err, query.ErrUnknownField))

	s, err := repo.GetSessionByID(ctx, ids[1])
	require.NoError(t, err)
	createdAt := s.CreatedAt
	s.Status = session.StatusConfirmed
	s.CreatedAt = time.Time{}
	s, err = repo.UpdateSession(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, session.StatusConfirmed, s.Status)
	assert.Equal(t, createdAt, s.CreatedAt)

	require.NoError(t, repo.DeleteSession(ctx, ids[0]))
	assert.Equal(t, session.ErrNotFound, repo.DeleteSession(ctx, ids[0]))
	_, err = repo.GetSessionByID(ctx, ids[0])
	assert.Equal(t, session.ErrNotFound, err)
	_, err = repo.UpdateSession(ctx, session.Session{ID: ids[0]})
	assert.Equal(t, session.ErrNotFound, err)

	got, err = repo.QuerySessions(ctx, query.New())
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, ids[1], got[0].ID) // insertion order kept
}

func TestUserRepository(t *testing.T) {
	repo := NewUserRepository(openDB())
	ctx := context.Background()

	for _, u := range []user.User{
		{ID: "u1", Name: "Luis", Email: "luis@test.local", Role: user.RoleUser},
		{ID: "u2", Name: "Ana", Email: "ana@test.local", Role: user.RoleAdmin},
		{ID: "u3", Name: "Bea", Email: "bea@test.local", Role: user.RoleUser},
	} {
		_, err := repo.UpsertUser(ctx, u)
		require.NoError(t, err)
	}

	n, err := repo.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	// upserting keeps created_at and the row count
	usr, err := repo.UpsertUser(ctx, user.User{ID: "u1", Name: "Luis M.", Email: "luis@test.local", Role: user.RoleUser})
	require.NoError(t, err)
	assert.Equal(t, "Luis M.", usr.Name)
	assert.False(t, usr.CreatedAt.IsZero())
	n, _ = repo.CountUsers(ctx)
	assert.Equal(t, 3, n)

	users, err := repo.QueryUsers(ctx, query.New().Eq(user.ColRole, user.RoleUser).OrderBy(user.ColName, true, false))
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "Bea", users[0].Name)
	assert.Equal(t, "Luis M.", users[1].Name)

	usr, err = repo.GetUserByEmail(ctx, "ana@test.local")
	require.NoError(t, err)
	assert.Equal(t, "u2", usr.ID)
	_, err = repo.GetUserByEmail(ctx, "nadie@test.local")
	assert.Equal(t, user.ErrNotFound, err)

	usr.Role = user.RoleUser
	usr, err = repo.UpdateUser(ctx, usr)
	require.NoError(t, err)
	assert.Equal(t, user.RoleUser, usr.Role)
	_, err = repo.UpdateUser(ctx, user.User{ID: "nope"})
	assert.Equal(t, user.ErrNotFound, err)

	require.NoError(t, repo.DeleteUsersByID(ctx, "u1", "u3", "nope"))
	_, err = repo.GetUserByID(ctx, "u1")
	assert.Equal(t, user.ErrNotFound, err)
	usr, err = repo.GetUserByID(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, "Ana", usr.Name)
}
