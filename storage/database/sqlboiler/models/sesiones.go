package models

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/friendsofgo/errors"
	"github.com/volatiletech/null/v8"
	"github.com/volatiletech/sqlboiler/v4/boil"
	"github.com/volatiletech/sqlboiler/v4/queries"
	"github.com/volatiletech/sqlboiler/v4/queries/qm"
	"github.com/volatiletech/sqlboiler/v4/queries/qmhelper"
	"github.com/volatiletech/strmangle"
)

// Sesione is an object representing the database table.
type Sesione struct {
	ID              string      `boil:"id" json:"id" toml:"id" yaml:"id"`
	Titulo          string      `boil:"titulo" json:"titulo" toml:"titulo" yaml:"titulo"`
	FechaPrevista   null.Time   `boil:"fecha_prevista" json:"fecha_prevista,omitempty" toml:"fecha_prevista" yaml:"fecha_prevista,omitempty"`
	Hora            null.String `boil:"hora" json:"hora,omitempty" toml:"hora" yaml:"hora,omitempty"`
	Ponente         null.String `boil:"ponente" json:"ponente,omitempty" toml:"ponente" yaml:"ponente,omitempty"`
	Grupo           null.String `boil:"grupo" json:"grupo,omitempty" toml:"grupo" yaml:"grupo,omitempty"`
	Estado          null.String `boil:"estado" json:"estado,omitempty" toml:"estado" yaml:"estado,omitempty"`
	FechaExposicion null.Time   `boil:"fecha_exposicion" json:"fecha_exposicion,omitempty" toml:"fecha_exposicion" yaml:"fecha_exposicion,omitempty"`
	PalabrasClave   null.String `boil:"palabras_clave" json:"palabras_clave,omitempty" toml:"palabras_clave" yaml:"palabras_clave,omitempty"`
	URLAcceso       null.String `boil:"url_acceso" json:"url_acceso,omitempty" toml:"url_acceso" yaml:"url_acceso,omitempty"`
	Observaciones   null.String `boil:"observaciones" json:"observaciones,omitempty" toml:"observaciones" yaml:"observaciones,omitempty"`
	CreatedAt       time.Time   `boil:"created_at" json:"created_at" toml:"created_at" yaml:"created_at"`
}

var SesioneColumns = struct {
	ID              string
	Titulo          string
	FechaPrevista   string
	Hora            string
	Ponente         string
	Grupo           string
	Estado          string
	FechaExposicion string
	PalabrasClave   string
	URLAcceso       string
	Observaciones   string
	CreatedAt       string
}{
	ID:              "id",
	Titulo:          "titulo",
	FechaPrevista:   "fecha_prevista",
	Hora:            "hora",
	Ponente:         "ponente",
	Grupo:           "grupo",
	Estado:          "estado",
	FechaExposicion: "fecha_exposicion",
	PalabrasClave:   "palabras_clave",
	URLAcceso:       "url_acceso",
	Observaciones:   "observaciones",
	CreatedAt:       "created_at",
}

// Generated where

type whereHelperstring struct{ field string }

func (w whereHelperstring) EQ(x string) qm.QueryMod  { return qmhelper.Where(w.field, qmhelper.EQ, x) }
func (w whereHelperstring) NEQ(x string) qm.QueryMod { return qmhelper.Where(w.field, qmhelper.NEQ, x) }
func (w whereHelperstring) IN(slice []string) qm.QueryMod {
	values := make([]interface{}, 0, len(slice))
	for _, value := range slice {
		values = append(values, value)
	}
	return qm.WhereIn(fmt.Sprintf("%s IN ?", w.field), values...)
}

type whereHelpernull_String struct{ field string }

func (w whereHelpernull_String) EQ(x null.String) qm.QueryMod {
	return qmhelper.WhereNullEQ(w.field, false, x)
}
func (w whereHelpernull_String) NEQ(x null.String) qm.QueryMod {
	return qmhelper.WhereNullEQ(w.field, true, x)
}

type whereHelpernull_Time struct{ field string }

func (w whereHelpernull_Time) EQ(x null.Time) qm.QueryMod {
	return qmhelper.WhereNullEQ(w.field, false, x)
}
func (w whereHelpernull_Time) LT(x null.Time) qm.QueryMod {
	return qmhelper.Where(w.field, qmhelper.LT, x)
}
func (w whereHelpernull_Time) LTE(x null.Time) qm.QueryMod {
	return qmhelper.Where(w.field, qmhelper.LTE, x)
}
func (w whereHelpernull_Time) GTE(x null.Time) qm.QueryMod {
	return qmhelper.Where(w.field, qmhelper.GTE, x)
}

var SesioneWhere = struct {
	ID              whereHelperstring
	Titulo          whereHelperstring
	FechaPrevista   whereHelpernull_Time
	Hora            whereHelpernull_String
	Ponente         whereHelpernull_String
	Grupo           whereHelpernull_String
	Estado          whereHelpernull_String
	FechaExposicion whereHelpernull_Time
	PalabrasClave   whereHelpernull_String
	URLAcceso       whereHelpernull_String
	Observaciones   whereHelpernull_String
}{
	ID:              whereHelperstring{field: "\"sesiones\".\"id\""},
	Titulo:          whereHelperstring{field: "\"sesiones\".\"titulo\""},
	FechaPrevista:   whereHelpernull_Time{field: "\"sesiones\".\"fecha_prevista\""},
	Hora:            whereHelpernull_String{field: "\"sesiones\".\"hora\""},
	Ponente:         whereHelpernull_String{field: "\"sesiones\".\"ponente\""},
	Grupo:           whereHelpernull_String{field: "\"sesiones\".\"grupo\""},
	Estado:          whereHelpernull_String{field: "\"sesiones\".\"estado\""},
	FechaExposicion: whereHelpernull_Time{field: "\"sesiones\".\"fecha_exposicion\""},
	PalabrasClave:   whereHelpernull_String{field: "\"sesiones\".\"palabras_clave\""},
	URLAcceso:       whereHelpernull_String{field: "\"sesiones\".\"url_acceso\""},
	Observaciones:   whereHelpernull_String{field: "\"sesiones\".\"observaciones\""},
}

var (
	sesioneAllColumns = []string{
		"id", "titulo", "fecha_prevista", "hora", "ponente", "grupo", "estado",
		"fecha_exposicion", "palabras_clave", "url_acceso", "observaciones", "created_at",
	}
	sesioneColumnsWithDefault = []string{"created_at"}
	sesionePrimaryKeyColumns  = []string{"id"}
)

// sesioneInsertColumns are written on insert; created_at comes from its column default.
var sesioneInsertColumns = sesioneAllColumns[:len(sesioneAllColumns)-len(sesioneColumnsWithDefault)]

type (
	// SesioneSlice is an alias for a slice of pointers to Sesione.
	SesioneSlice []*Sesione

	sesioneQuery struct {
		*queries.Query
	}
)

// One returns a single sesione record from the query.
func (q sesioneQuery) One(ctx context.Context, exec boil.ContextExecutor) (*Sesione, error) {
	o := &Sesione{}

	queries.SetLimit(q.Query, 1)

	err := q.Bind(ctx, exec, o)
	if err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, errors.Wrap(err, "models: failed to execute a one query for sesiones")
	}

	return o, nil
}

// All returns all Sesione records from the query.
func (q sesioneQuery) All(ctx context.Context, exec boil.ContextExecutor) (SesioneSlice, error) {
	var o []*Sesione

	err := q.Bind(ctx, exec, &o)
	if err != nil {
		return nil, errors.Wrap(err, "models: failed to assign all query results to Sesione slice")
	}

	return o, nil
}

// Count returns the count of all Sesione records in the query.
func (q sesioneQuery) Count(ctx context.Context, exec boil.ContextExecutor) (int64, error) {
	var count int64

	queries.SetSelect(q.Query, nil)
	queries.SetCount(q.Query)

	err := q.Query.QueryRowContext(ctx, exec).Scan(&count)
	if err != nil {
		return 0, errors.Wrap(err, "models: failed to count sesiones rows")
	}

	return count, nil
}

// Sesiones retrieves all the records using an executor.
func Sesiones(mods ...qm.QueryMod) sesioneQuery {
	mods = append(mods, qm.From("\"sesiones\""))
	return sesioneQuery{NewQuery(mods...)}
}

// FindSesione retrieves a single record by ID with an executor.
func FindSesione(ctx context.Context, exec boil.ContextExecutor, iD string) (*Sesione, error) {
	sesioneObj := &Sesione{}

	query := fmt.Sprintf(
		"select %s from \"sesiones\" where %s",
		strings.Join(strmangle.IdentQuoteSlice(dialect.LQ, dialect.RQ, sesioneAllColumns), ","),
		strmangle.WhereClause(string(dialect.LQ), string(dialect.RQ), 1, sesionePrimaryKeyColumns),
	)

	q := queries.Raw(query, iD)

	err := q.Bind(ctx, exec, sesioneObj)
	if err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, errors.Wrap(err, "models: unable to select from sesiones")
	}

	return sesioneObj, nil
}

func (o *Sesione) insertValues() []interface{} {
	return []interface{}{
		o.ID, o.Titulo, o.FechaPrevista, o.Hora, o.Ponente, o.Grupo, o.Estado,
		o.FechaExposicion, o.PalabrasClave, o.URLAcceso, o.Observaciones,
	}
}

// Insert a single record using an executor. Columns with a default are read back.
func (o *Sesione) Insert(ctx context.Context, exec boil.ContextExecutor) error {
	if o == nil {
		return errors.New("models: no sesiones provided for insertion")
	}

	query := fmt.Sprintf(
		"INSERT INTO \"sesiones\" (\"%s\") VALUES (%s) RETURNING \"%s\"",
		strings.Join(sesioneInsertColumns, "\",\""),
		strmangle.Placeholders(dialect.UseIndexPlaceholders, len(sesioneInsertColumns), 1, 1),
		strings.Join(sesioneColumnsWithDefault, "\",\""),
	)

	if boil.IsDebug(ctx) {
		writer := boil.DebugWriterFrom(ctx)
		fmt.Fprintln(writer, query)
		fmt.Fprintln(writer, o.insertValues()...)
	}

	err := exec.QueryRowContext(ctx, query, o.insertValues()...).Scan(&o.CreatedAt)
	if err != nil {
		return errors.Wrap(err, "models: unable to insert into sesiones")
	}
	return nil
}

// Update uses an executor to update the Sesione.
// Returns the number of rows affected by the update.
func (o *Sesione) Update(ctx context.Context, exec boil.ContextExecutor) (int64, error) {
	cols := sesioneInsertColumns[1:] // all but the primary key
	query := fmt.Sprintf(
		"UPDATE \"sesiones\" SET %s WHERE %s",
		strmangle.SetParamNames(string(dialect.LQ), string(dialect.RQ), 1, cols),
		strmangle.WhereClause(string(dialect.LQ), string(dialect.RQ), len(cols)+1, sesionePrimaryKeyColumns),
	)
	values := append(o.insertValues()[1:], o.ID)

	if boil.IsDebug(ctx) {
		writer := boil.DebugWriterFrom(ctx)
		fmt.Fprintln(writer, query)
		fmt.Fprintln(writer, values...)
	}

	result, err := exec.ExecContext(ctx, query, values...)
	if err != nil {
		return 0, errors.Wrap(err, "models: unable to update sesiones row")
	}

	rowsAff, err := result.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "models: failed to get rows affected by update for sesiones")
	}

	return rowsAff, nil
}

// Delete deletes a single Sesione record with an executor.
// Delete will match against the primary key column to find the record to delete.
func (o *Sesione) Delete(ctx context.Context, exec boil.ContextExecutor) (int64, error) {
	if o == nil {
		return 0, errors.New("models: no Sesione provided for delete")
	}

	sql := fmt.Sprintf(
		"DELETE FROM \"sesiones\" WHERE %s",
		strmangle.WhereClause(string(dialect.LQ), string(dialect.RQ), 1, sesionePrimaryKeyColumns),
	)

	if boil.IsDebug(ctx) {
		writer := boil.DebugWriterFrom(ctx)
		fmt.Fprintln(writer, sql)
		fmt.Fprintln(writer, o.ID)
	}

	result, err := exec.ExecContext(ctx, sql, o.ID)
	if err != nil {
		return 0, errors.Wrap(err, "models: unable to delete from sesiones")
	}

	rowsAff, err := result.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "models: failed to get rows affected by delete for sesiones")
	}

	return rowsAff, nil
}
