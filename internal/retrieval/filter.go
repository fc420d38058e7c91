package retrieval

import (
	"fmt"

	"github.com/Kavirubc/simili-rca/pkg/models"
)

// Op is a per-field predicate
type Op string

const (
	OpEq  Op = "eq"
	OpIn  Op = "in"
	OpNe  Op = "ne"
	OpGte Op = "gte"
)

// Condition is a predicate on one scalar payload field
type Condition struct {
	Field  string
	Op     Op
	Values []any
	Min    float64
}

// Filter is the AND of its conditions. A nil filter matches everything.
type Filter struct {
	Conditions []Condition
}

func Equals(field string, v any) Condition {
	return Condition{Field: field, Op: OpEq, Values: []any{v}}
}

func OneOf(field string, vs ...any) Condition {
	return Condition{Field: field, Op: OpIn, Values: vs}
}

func NotEquals(field string, v any) Condition {
	return Condition{Field: field, Op: OpNe, Values: []any{v}}
}

func AtLeast(field string, min float64) Condition {
	return Condition{Field: field, Op: OpGte, Min: min}
}

// And combines conditions; it returns nil when there are none
func And(conds ...Condition) *Filter {
	if len(conds) == 0 {
		return nil
	}
	return &Filter{Conditions: conds}
}

// Validate checks that every condition is well formed and scalar-valued
func (f *Filter) Validate() error {
	if f == nil {
		return nil
	}
	for i, c := range f.Conditions {
		if c.Field == "" {
			return fmt.Errorf("condition %d: field is required", i)
		}
		switch c.Op {
		case OpEq, OpNe:
			if len(c.Values) != 1 {
				return fmt.Errorf("condition %d (%s): %s takes exactly one value", i, c.Field, c.Op)
			}
		case OpIn:
			if len(c.Values) == 0 {
				return fmt.Errorf("condition %d (%s): in requires at least one value", i, c.Field)
			}
		case OpGte:
			continue
		default:
			return fmt.Errorf("condition %d (%s): unknown op %q", i, c.Field, c.Op)
		}
		for _, v := range c.Values {
			if _, ok := scalar(v); !ok {
				return fmt.Errorf("condition %d (%s): value %v is not a scalar", i, c.Field, v)
			}
		}
	}
	return nil
}

// Match evaluates the filter against a payload
func (f *Filter) Match(payload map[string]any) bool {
	if f == nil {
		return true
	}
	for _, c := range f.Conditions {
		if !c.match(payload) {
			return false
		}
	}
	return true
}

func (c Condition) match(payload map[string]any) bool {
	actual, present := payload[c.Field]
	switch c.Op {
	case OpEq, OpIn:
		if !present {
			return false
		}
		for _, v := range c.Values {
			if equal(actual, v) {
				return true
			}
		}
		return false
	case OpNe:
		return !present || !equal(actual, c.Values[0])
	case OpGte:
		n, _ := scalar(actual)
		f, isNum := n.(float64)
		return isNum && f >= c.Min
	default:
		return false
	}
}

// scalar normalizes numbers to float64 so payload ints compare with filter ints
func scalar(v any) (any, bool) {
	switch t := v.(type) {
	case string, bool:
		return t, true
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case float32:
		return float64(t), true
	case float64:
		return t, true
	default:
		return nil, false
	}
}

func equal(a, b any) bool {
	na, okA := scalar(a)
	nb, okB := scalar(b)
	return okA && okB && na == nb
}

// FilterSpec is the user-facing search filter
type FilterSpec struct {
	Types          []string
	Statuses       []string
	Sprints        []string
	Assignees      []string
	Priorities     []string
	ExcludeTypes   []string
	MinReturnCount *int
	HasPR          *bool
}

// Build converts s into a Filter; list fields with one value become an
// equality, longer lists a one-of.
func (s FilterSpec) Build() *Filter {
	var conds []Condition

	addList := func(field string, values []string) {
		switch len(values) {
		case 0:
		case 1:
			conds = append(conds, Equals(field, values[0]))
		default:
			vs := make([]any, len(values))
			for i, v := range values {
				vs[i] = v
			}
			conds = append(conds, OneOf(field, vs...))
		}
	}

	addList(models.FieldType, s.Types)
	addList(models.FieldStatus, s.Statuses)
	addList(models.FieldSprintID, s.Sprints)
	addList(models.FieldAssignee, s.Assignees)
	addList(models.FieldPriority, s.Priorities)

	if s.MinReturnCount != nil {
		conds = append(conds, AtLeast(models.FieldReturnCount, float64(*s.MinReturnCount)))
	}
	if s.HasPR != nil {
		conds = append(conds, Equals(models.FieldHasPR, *s.HasPR))
	}
	for _, t := range s.ExcludeTypes {
		conds = append(conds, NotEquals(models.FieldType, t))
	}

	return And(conds...)
}
