// Package models maps the store tables the way sqlboiler generated code does:
// one struct per table, column name helpers and typed query mods.
package models

import (
	"github.com/volatiletech/sqlboiler/v4/drivers"
	"github.com/volatiletech/sqlboiler/v4/queries"
	"github.com/volatiletech/sqlboiler/v4/queries/qm"
)

var dialect = drivers.Dialect{
	LQ: 0x22,
	RQ: 0x22,

	UseIndexPlaceholders: true,
	UseLastInsertID:      false,
	UseSchema:            false,
	UseDefaultKeyword:    true,
	UseAutoColumns:       false,
	UseTopClause:         false,
	UseOutputClause:      false,
}

// NewQuery initializes a new Query using the passed in QueryMods
func NewQuery(mods ...qm.QueryMod) *queries.Query {
	q := &queries.Query{}
	queries.SetDialect(q, &dialect)
	qm.Apply(q, mods...)

	return q
}
