// Package query describes reads against the tabular store as plain values:
// a conjunction of predicates, a sort order and a limit. Storage adapters
// translate a Spec into their own query language; Apply evaluates it in memory.
package query

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Op is a predicate operator.
type Op string

const (
	Eq    Op = "eq"
	Neq   Op = "neq"
	Lt    Op = "lt"
	Lte   Op = "lte"
	Gte   Op = "gte"
	ILike Op = "ilike" // case-insensitive "contains"
	In    Op = "in"
)

var ErrUnknownField = errors.New("unknown field")

type (
	Predicate struct {
		Field  string
		Op     Op
		Value  string
		Values []string // In only
	}

	Order struct {
		Field      string
		Ascending  bool
		NullsFirst bool
	}

	// Spec is a declarative read: every predicate must hold (AND).
	Spec struct {
		Predicates []Predicate
		Orders     []Order
		Limit      int // 0 means no limit
	}

	// Record is anything a Spec can be evaluated against.
	// Value returns false for a NULL / absent field.
	Record interface {
		Value(field string) (string, bool)
	}
)

func New() *Spec {
	return &Spec{}
}

func (s *Spec) where(field string, op Op, val string) *Spec {
	s.Predicates = append(s.Predicates, Predicate{Field: field, Op: op, Value: val})
	return s
}

func (s *Spec) Eq(field, val string) *Spec    { return s.where(field, Eq, val) }
func (s *Spec) Neq(field, val string) *Spec   { return s.where(field, Neq, val) }
func (s *Spec) Lt(field, val string) *Spec    { return s.where(field, Lt, val) }
func (s *Spec) Lte(field, val string) *Spec   { return s.where(field, Lte, val) }
func (s *Spec) Gte(field, val string) *Spec   { return s.where(field, Gte, val) }
func (s *Spec) ILike(field, val string) *Spec { return s.where(field, ILike, val) }

func (s *Spec) In(field string, vals ...string) *Spec {
	s.Predicates = append(s.Predicates, Predicate{Field: field, Op: In, Values: vals})
	return s
}

func (s *Spec) OrderBy(field string, ascending, nullsFirst bool) *Spec {
	s.Orders = append(s.Orders, Order{Field: field, Ascending: ascending, NullsFirst: nullsFirst})
	return s
}

func (s *Spec) Take(n int) *Spec {
	s.Limit = n
	return s
}

// Check returns ErrUnknownField if the spec references a field outside allowed.
func (s *Spec) Check(allowed map[string]bool) error {
	if s == nil {
		return nil
	}
	for _, p := range s.Predicates {
		if !allowed[p.Field] {
			return errors.Wrapf(ErrUnknownField, "%q", p.Field)
		}
		switch p.Op {
		case Eq, Neq, Lt, Lte, Gte, ILike, In:
		default:
			return fmt.Errorf("unknown operator %q", p.Op)
		}
	}
	for _, o := range s.Orders {
		if !allowed[o.Field] {
			return errors.Wrapf(ErrUnknownField, "%q", o.Field)
		}
	}
	return nil
}

// Matches reports whether the record satisfies the predicate. NULL never does.
func (p Predicate) Matches(r Record) bool {
	val, ok := r.Value(p.Field)
	if !ok {
		return false
	}
	switch p.Op {
	case Eq:
		return val == p.Value
	case Neq:
		return val != p.Value
	case Lt:
		return val < p.Value
	case Lte:
		return val <= p.Value
	case Gte:
		return val >= p.Value
	case ILike:
		return strings.Contains(strings.ToLower(val), strings.ToLower(p.Value))
	case In:
		for _, v := range p.Values {
			if val == v {
				return true
			}
		}
	}
	return false
}

func (s *Spec) Matches(r Record) bool {
	for _, p := range s.Predicates {
		if !p.Matches(r) {
			return false
		}
	}
	return true
}

func (s *Spec) less(a, b Record) bool {
	for _, o := range s.Orders {
		va, aok := a.Value(o.Field)
		vb, bok := b.Value(o.Field)
		switch {
		case !aok && !bok:
			continue
		case !aok:
			return o.NullsFirst
		case !bok:
			return !o.NullsFirst
		case va == vb:
			continue
		case o.Ascending:
			return va < vb
		default:
			return va > vb
		}
	}
	return false
}

// Sort orders records in place; ties keep their input order.
func (s *Spec) Sort(records []Record) {
	if len(s.Orders) == 0 {
		return
	}
	sort.SliceStable(records, func(i, j int) bool { return s.less(records[i], records[j]) })
}

// Apply filters, sorts and limits records.
func (s *Spec) Apply(records []Record) []Record {
	res := make([]Record, 0, len(records))
	for _, r := range records {
		if s.Matches(r) {
			res = append(res, r)
		}
	}
	s.Sort(res)
	if s.Limit > 0 && len(res) > s.Limit {
		res = res[:s.Limit]
	}
	return res
}

// EscapeLike escapes LIKE wildcards so val is matched literally.
func EscapeLike(val string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(val)
}
