package session

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/sesiones/core"
)

// Statuses
const (
	StatusPending   = "pendiente"
	StatusConfirmed = "fecha confirmada"
	StatusCompleted = "realizada"
	StatusCancelled = "anulada"
)

// Groups
const (
	GroupFIR      = "FIR"
	GroupStaff    = "Plantilla"
	GroupExternal = "Rotante externo"
	GroupOther    = "Otros"
)

// Columns of the "sesiones" collection.
const (
	Table = "sesiones"

	ColID             = "id"
	ColTitle          = "titulo"
	ColScheduledDate  = "fecha_prevista"
	ColTime           = "hora"
	ColSpeaker        = "ponente"
	ColGroup          = "grupo"
	ColStatus         = "estado"
	ColExpositionDate = "fecha_exposicion"
	ColKeywords       = "palabras_clave"
	ColAccessURL      = "url_acceso"
	ColNotes          = "observaciones"
	ColCreatedAt      = "created_at"
)

var (
	Statuses = []string{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled}
	Groups   = []string{GroupFIR, GroupStaff, GroupExternal, GroupOther}

	// Columns may appear in a query.Spec over sessions.
	Columns = map[string]bool{
		ColID: true, ColTitle: true, ColScheduledDate: true, ColTime: true,
		ColSpeaker: true, ColGroup: true, ColStatus: true, ColExpositionDate: true,
		ColKeywords: true, ColAccessURL: true, ColNotes: true, ColCreatedAt: true,
	}
)

// Session is a scheduled training talk. Optional columns are empty when NULL.
type Session struct {
	ID             string    `json:"id"`
	Title          string    `json:"titulo"`
	ScheduledDate  string    `json:"fecha_prevista"`
	Time           string    `json:"hora"`
	Speaker        string    `json:"ponente"`
	Group          string    `json:"grupo"`
	Status         string    `json:"estado"`
	ExpositionDate string    `json:"fecha_exposicion"`
	Keywords       string    `json:"palabras_clave"`
	AccessURL      string    `json:"url_acceso"`
	Notes          string    `json:"observaciones"`
	CreatedAt      time.Time `json:"created_at"`
}

// Value implements query.Record.
func (s Session) Value(field string) (string, bool) {
	var v string
	switch field {
	case ColID:
		v = s.ID
	case ColTitle:
		v = s.Title
	case ColScheduledDate:
		v = s.ScheduledDate
	case ColTime:
		v = s.Time
	case ColSpeaker:
		v = s.Speaker
	case ColGroup:
		v = s.Group
	case ColStatus:
		v = s.Status
	case ColExpositionDate:
		v = s.ExpositionDate
	case ColKeywords:
		v = s.Keywords
	case ColAccessURL:
		v = s.AccessURL
	case ColNotes:
		v = s.Notes
	case ColCreatedAt:
		if s.CreatedAt.IsZero() {
			return "", false
		}
		return s.CreatedAt.UTC().Format(time.RFC3339Nano), true
	default:
		return "", false
	}
	return v, v != ""
}

// Rescheduled reports whether the session took place on a date other than planned.
func (s Session) Rescheduled() bool {
	return s.ScheduledDate != "" && s.ExpositionDate != "" && s.ScheduledDate != s.ExpositionDate
}

func (s Session) IsCompleted() bool { return s.Status == StatusCompleted }

// Form holds the editable fields of a Session, for both creation and update.
type Form struct {
	Title          string `json:"titulo" validate:"required"`
	ScheduledDate  string `json:"fecha_prevista" validate:"omitempty,isodate"`
	Time           string `json:"hora" validate:"omitempty,hhmm"`
	Speaker        string `json:"ponente" validate:"required"`
	Group          string `json:"grupo" validate:"omitempty,sessgroup"`
	Status         string `json:"estado" validate:"omitempty,sessstatus"`
	ExpositionDate string `json:"fecha_exposicion" validate:"omitempty,isodate"`
	Keywords       string `json:"palabras_clave"`
	AccessURL      string `json:"url_acceso" validate:"omitempty,url"`
	Notes          string `json:"observaciones"`
}

func (f *Form) Clean() {
	f.Title = core.CleanString(f.Title)
	f.ScheduledDate = core.CleanString(f.ScheduledDate)
	f.Time = core.CleanString(f.Time)
	f.Speaker = core.CleanString(f.Speaker)
	f.Group = core.CleanString(f.Group)
	f.Status = core.CleanString(f.Status)
	f.ExpositionDate = core.CleanString(f.ExpositionDate)
	f.Keywords = core.CleanString(f.Keywords)
	f.AccessURL = core.CleanString(f.AccessURL)
	f.Notes = core.CleanString(f.Notes)
}

func (f *Form) Validate(validate *validator.Validate) error {
	f.Clean()
	return validate.Struct(f)
}

func (f Form) apply(s *Session) {
	s.Title = f.Title
	s.ScheduledDate = f.ScheduledDate
	s.Time = f.Time
	s.Speaker = f.Speaker
	s.Group = f.Group
	s.Status = f.Status
	s.ExpositionDate = f.ExpositionDate
	s.Keywords = f.Keywords
	s.AccessURL = f.AccessURL
	s.Notes = f.Notes
}
