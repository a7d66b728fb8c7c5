package session

import (
	"github.com/pkg/errors"

	"github.com/trezcool/sesiones/core"
	"github.com/trezcool/sesiones/core/query"
)

// Mode selects the view a filtered listing belongs to.
type Mode string

const (
	// ModeAll honours the explicit status filter.
	ModeAll Mode = "todas"
	// ModeScheduled always excludes completed sessions.
	ModeScheduled Mode = "programadas"
	// ModeCompleted only keeps completed sessions.
	ModeCompleted Mode = "realizadas"
)

var ErrUnknownMode = errors.New("unknown filter mode")

// ParseMode maps a query value to a Mode; empty means ModeAll.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(core.CleanString(s, true)); m {
	case "":
		return ModeAll, nil
	case ModeAll, ModeScheduled, ModeCompleted:
		return m, nil
	}
	return "", core.NewValidationError(ErrUnknownMode, core.FieldError{Field: "mode", Error: "modo de filtro desconocido"})
}

// Filter holds the user supplied filters. Empty fields are not applied.
type Filter struct {
	Title    string `query:"titulo"`
	Speaker  string `query:"ponente"`
	Keywords string `query:"palabras_clave"`
	Group    string `query:"grupo"`
	Status   string `query:"estado"`
	From     string `query:"fecha_desde" json:"fecha_desde" validate:"omitempty,isodate"`
	To       string `query:"fecha_hasta" json:"fecha_hasta" validate:"omitempty,isodate"`
}

func (f *Filter) Clean() {
	f.Title = core.CleanString(f.Title)
	f.Speaker = core.CleanString(f.Speaker)
	f.Keywords = core.CleanString(f.Keywords)
	f.Group = core.CleanString(f.Group)
	f.Status = core.CleanString(f.Status)
	f.From = core.CleanString(f.From)
	f.To = core.CleanString(f.To)
}

func (f *Filter) IsEmpty() bool {
	return f.Title == "" && f.Speaker == "" && f.Keywords == "" && f.Group == "" &&
		f.Status == "" && f.From == "" && f.To == ""
}

// BuildQuery layers the mode's base predicate and sort under the present filters.
func BuildQuery(f Filter, mode Mode) *query.Spec {
	q := query.New()

	switch mode {
	case ModeScheduled:
		q.Neq(ColStatus, StatusCompleted)
	case ModeCompleted:
		q.Eq(ColStatus, StatusCompleted)
	default:
		if f.Status != "" {
			q.Eq(ColStatus, f.Status)
		}
	}

	if f.Title != "" {
		q.ILike(ColTitle, f.Title)
	}
	if f.Speaker != "" {
		q.ILike(ColSpeaker, f.Speaker)
	}
	if f.Keywords != "" {
		q.ILike(ColKeywords, f.Keywords)
	}
	if f.Group != "" {
		q.Eq(ColGroup, f.Group)
	}
	if f.From != "" {
		q.Gte(ColScheduledDate, f.From)
	}
	if f.To != "" {
		q.Lte(ColScheduledDate, f.To)
	}

	return q.OrderBy(ColExpositionDate, mode == ModeScheduled, false)
}
