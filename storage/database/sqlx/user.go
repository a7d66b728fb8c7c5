package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/sesiones/core/query"
	"github.com/trezcool/sesiones/core/user"
)

const userColumns = `"id", "nombre", "email", "perfil", "created_at"`

type userRow struct {
	ID        string      `db:"id"`
	Name      null.String `db:"nombre"`
	Email     null.String `db:"email"`
	Role      null.String `db:"perfil"`
	CreatedAt time.Time   `db:"created_at"`
}

func (r userRow) user() user.User {
	return user.User{
		ID:        r.ID,
		Name:      r.Name.String,
		Email:     r.Email.String,
		Role:      r.Role.String,
		CreatedAt: r.CreatedAt,
	}
}

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) *userRepository {
	return &userRepository{db: db}
}

// selectUsers builds the SELECT statement of a query.Spec in the "?" bindvar style.
func selectUsers(q *query.Spec) (string, []interface{}, error) {
	stmt := fmt.Sprintf(`SELECT %s FROM "%s"`, userColumns, user.Table)
	if q == nil {
		return stmt, nil, nil
	}
	where, args, err := whereClause(q, user.Columns)
	if err != nil {
		return "", nil, err
	}
	return stmt + where + orderClause(q) + limitClause(q), args, nil
}

func (repo userRepository) QueryUsers(ctx context.Context, q *query.Spec) ([]user.User, error) {
	stmt, args, err := selectUsers(q)
	if err != nil {
		return nil, errors.Wrap(err, "building users query")
	}
	var rows []userRow
	if err := repo.db.SelectContext(ctx, &rows, repo.db.Rebind(stmt), args...); err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	users := make([]user.User, 0, len(rows))
	for _, r := range rows {
		users = append(users, r.user())
	}
	return users, nil
}

func (repo userRepository) getUser(ctx context.Context, col, val string) (user.User, error) {
	stmt := fmt.Sprintf(`SELECT %s FROM "%s" WHERE "%s" = ?`, userColumns, user.Table, col)
	var r userRow
	if err := repo.db.GetContext(ctx, &r, repo.db.Rebind(stmt), val); err != nil {
		if err == sql.ErrNoRows {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrapf(err, "finding user by %s", col)
	}
	return r.user(), nil
}

func (repo userRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	return repo.getUser(ctx, user.ColID, id)
}

func (repo userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	return repo.getUser(ctx, user.ColEmail, email)
}

func (repo userRepository) CountUsers(ctx context.Context) (int, error) {
	var n int
	if err := repo.db.GetContext(ctx, &n, fmt.Sprintf(`SELECT COUNT(*) FROM "%s"`, user.Table)); err != nil {
		return 0, errors.Wrap(err, "counting users")
	}
	return n, nil
}

func (repo userRepository) UpsertUser(ctx context.Context, u user.User) (user.User, error) {
	stmt := fmt.Sprintf(`INSERT INTO "%s" ("id", "nombre", "email", "perfil") VALUES (?, ?, ?, ?)
		ON CONFLICT ("id") DO UPDATE SET "nombre" = EXCLUDED."nombre", "email" = EXCLUDED."email", "perfil" = EXCLUDED."perfil"
		RETURNING %s`, user.Table, userColumns)
	var r userRow
	err := repo.db.GetContext(ctx, &r, repo.db.Rebind(stmt), u.ID, u.Name, u.Email, u.Role)
	if err != nil {
		return user.User{}, errors.Wrap(err, "upserting user")
	}
	return r.user(), nil
}

func (repo userRepository) UpdateUser(ctx context.Context, u user.User) (user.User, error) {
	stmt := fmt.Sprintf(`UPDATE "%s" SET "nombre" = ?, "email" = ?, "perfil" = ? WHERE "id" = ? RETURNING %s`,
		user.Table, userColumns)
	var r userRow
	err := repo.db.GetContext(ctx, &r, repo.db.Rebind(stmt), u.Name, u.Email, u.Role, u.ID)
	if err != nil {
		if err == sql.ErrNoRows {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "updating user")
	}
	return r.user(), nil
}

func (repo userRepository) DeleteUsersByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	stmt, args, err := sqlx.In(fmt.Sprintf(`DELETE FROM "%s" WHERE "id" IN (?)`, user.Table), ids)
	if err != nil {
		return errors.Wrap(err, "building delete")
	}
	if _, err := repo.db.ExecContext(ctx, repo.db.Rebind(stmt), args...); err != nil {
		return errors.Wrap(err, "deleting users")
	}
	return nil
}

// whereClause renders the predicates of q, expanding In lists with sqlx.In.
func whereClause(q *query.Spec, allowed map[string]bool) (string, []interface{}, error) {
	if err := q.Check(allowed); err != nil {
		return "", nil, err
	}
	if len(q.Predicates) == 0 {
		return "", nil, nil
	}

	conds := make([]string, 0, len(q.Predicates))
	var args []interface{}
	for _, p := range q.Predicates {
		col := `"` + p.Field + `"`
		switch p.Op {
		case query.Eq:
			conds = append(conds, col+" = ?")
		case query.Neq:
			conds = append(conds, col+" <> ?")
		case query.Lt:
			conds = append(conds, col+" < ?")
		case query.Lte:
			conds = append(conds, col+" <= ?")
		case query.Gte:
			conds = append(conds, col+" >= ?")
		case query.ILike:
			conds = append(conds, col+" ILIKE ?")
			args = append(args, "%"+query.EscapeLike(p.Value)+"%")
			continue
		case query.In:
			if len(p.Values) == 0 {
				conds = append(conds, "false")
				continue
			}
			cond, inArgs, err := sqlx.In(col+" IN (?)", p.Values)
			if err != nil {
				return "", nil, err
			}
			conds = append(conds, cond)
			args = append(args, inArgs...)
			continue
		}
		args = append(args, p.Value)
	}
	return " WHERE " + strings.Join(conds, " AND "), args, nil
}

func orderClause(q *query.Spec) string {
	if len(q.Orders) == 0 {
		return ""
	}
	orderList := make([]string, 0, len(q.Orders))
	for _, o := range q.Orders {
		dir, nulls := "DESC", "LAST"
		if o.Ascending {
			dir = "ASC"
		}
		if o.NullsFirst {
			nulls = "FIRST"
		}
		orderList = append(orderList, fmt.Sprintf(`"%s" %s NULLS %s`, o.Field, dir, nulls))
	}
	return " ORDER BY " + strings.Join(orderList, ", ")
}

func limitClause(q *query.Spec) string {
	if q.Limit <= 0 {
		return ""
	}
	return fmt.Sprintf(" LIMIT %d", q.Limit)
}
