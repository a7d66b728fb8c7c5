package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/sesiones/core/query"
)

func fixtures() []Session {
	return []Session{
		{ID: "1", Title: "Farmacocinética clínica", Speaker: "Ana Ruiz", Group: GroupFIR, Status: StatusPending, ScheduledDate: "2025-01-10", ExpositionDate: "2025-01-15", Keywords: "pk, dosis"},
		{ID: "2", Title: "Nutrición parenteral", Speaker: "Luis Gómez", Group: GroupStaff, Status: StatusCompleted, ScheduledDate: "2024-12-01", ExpositionDate: "2024-12-03"},
		{ID: "3", Title: "Antibióticos en UCI", Speaker: "ana ruiz", Group: GroupFIR, Status: StatusConfirmed, ScheduledDate: "2025-02-01"},
		{ID: "4", Title: "Oncología CLÍNICA", Speaker: "Marta Sanz", Group: GroupExternal, Status: StatusCancelled, ScheduledDate: "2025-01-20", ExpositionDate: "2025-01-08"},
		{ID: "5", Title: "Farmacovigilancia", Speaker: "Luis Gómez", Group: GroupOther, Status: StatusCompleted, ExpositionDate: "2025-01-05", Keywords: "RAM"},
	}
}

func run(q *query.Spec, sessions []Session) []string {
	records := make([]query.Record, len(sessions))
	for i, s := range sessions {
		records[i] = s
	}
	res := make([]string, 0)
	for _, r := range q.Apply(records) {
		res = append(res, r.(Session).ID)
	}
	return res
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{in: "", want: ModeAll},
		{in: "todas", want: ModeAll},
		{in: " Programadas ", want: ModeScheduled},
		{in: "realizadas", want: ModeCompleted},
		{in: "lol", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildQuery(t *testing.T) {
	sessions := fixtures()

	tests := []struct {
		name   string
		filter Filter
		mode   Mode
		want   []string
	}{
		{name: "all, no filters: exposition desc, nulls last", mode: ModeAll, want: []string{"1", "4", "5", "2", "3"}},
		{name: "scheduled, no filters: not completed, asc, nulls last", mode: ModeScheduled, want: []string{"4", "1", "3"}},
		{name: "completed, no filters: desc", mode: ModeCompleted, want: []string{"5", "2"}},
		{name: "title is a case-insensitive substring", filter: Filter{Title: "clínica"}, mode: ModeAll, want: []string{"1", "4"}},
		{name: "title intersected with scheduled base", filter: Filter{Title: "FARMACO"}, mode: ModeScheduled, want: []string{"1"}},
		{name: "title intersected with completed base", filter: Filter{Title: "farmaco"}, mode: ModeCompleted, want: []string{"5"}},
		{name: "speaker substring", filter: Filter{Speaker: "RUIZ"}, mode: ModeAll, want: []string{"1", "3"}},
		{name: "keywords substring", filter: Filter{Keywords: "ram"}, mode: ModeAll, want: []string{"5"}},
		{name: "group is exact", filter: Filter{Group: GroupFIR}, mode: ModeAll, want: []string{"1", "3"}},
		{name: "group is not a substring", filter: Filter{Group: "FI"}, mode: ModeAll, want: []string{}},
		{name: "status applies in all mode", filter: Filter{Status: StatusCompleted}, mode: ModeAll, want: []string{"5", "2"}},
		{name: "status is ignored in scheduled mode", filter: Filter{Status: StatusCompleted}, mode: ModeScheduled, want: []string{"4", "1", "3"}},
		{name: "status is ignored in completed mode", filter: Filter{Status: StatusPending}, mode: ModeCompleted, want: []string{"5", "2"}},
		{name: "inclusive from bound", filter: Filter{From: "2025-01-20"}, mode: ModeAll, want: []string{"4", "3"}},
		{name: "inclusive to bound", filter: Filter{To: "2025-01-10"}, mode: ModeAll, want: []string{"1", "2"}},
		{name: "date range excludes null scheduled dates", filter: Filter{From: "2024-01-01", To: "2026-01-01"}, mode: ModeCompleted, want: []string{"2"}},
		{name: "combined filters", filter: Filter{Speaker: "ruiz", Group: GroupFIR, From: "2025-01-11"}, mode: ModeScheduled, want: []string{"3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := BuildQuery(tt.filter, tt.mode)
			require.NoError(t, q.Check(Columns))
			assert.Equal(t, tt.want, run(q, sessions))
		})
	}
}

func TestBuildQuery_OrderIndependent(t *testing.T) {
	f := Filter{Title: "a", Speaker: "b", Keywords: "c", Group: GroupFIR, Status: StatusPending, From: "2025-01-01", To: "2025-12-31"}
	q := BuildQuery(f, ModeAll)

	// every present filter is one predicate
	assert.Len(t, q.Predicates, 7)

	// reversing the predicates does not change the result
	rev := &query.Spec{Orders: q.Orders}
	for i := len(q.Predicates) - 1; i >= 0; i-- {
		rev.Predicates = append(rev.Predicates, q.Predicates[i])
	}
	sessions := fixtures()
	sessions = append(sessions, Session{ID: "6", Title: "a", Speaker: "b", Keywords: "c", Group: GroupFIR, Status: StatusPending, ScheduledDate: "2025-06-01"})
	assert.Equal(t, run(q, sessions), run(rev, sessions))
	assert.Equal(t, []string{"6"}, run(rev, sessions))
}

func TestBuildQuery_Orders(t *testing.T) {
	for _, tt := range []struct {
		mode Mode
		want query.Order
	}{
		{mode: ModeAll, want: query.Order{Field: ColExpositionDate}},
		{mode: ModeScheduled, want: query.Order{Field: ColExpositionDate, Ascending: true}},
		{mode: ModeCompleted, want: query.Order{Field: ColExpositionDate}},
	} {
		t.Run(string(tt.mode), func(t *testing.T) {
			assert.Equal(t, []query.Order{tt.want}, BuildQuery(Filter{}, tt.mode).Orders)
		})
	}
}
