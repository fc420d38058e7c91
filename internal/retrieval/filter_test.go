package retrieval

import (
	"testing"

	"github.com/Kavirubc/simili-rca/pkg/models"
)

func TestFilter_Match(t *testing.T) {
	payload := map[string]any{
		models.FieldStatus:      "Closed",
		models.FieldType:        "Bug",
		models.FieldReturnCount: int64(2),
		models.FieldHasPR:       true,
	}

	tests := []struct {
		name   string
		filter *Filter
		want   bool
	}{
		{"nil filter", nil, true},
		{"equals", And(Equals(models.FieldStatus, "Closed")), true},
		{"equals mismatch", And(Equals(models.FieldStatus, "Open")), false},
		{"one of", And(OneOf(models.FieldStatus, "Done", "Closed")), true},
		{"not equals", And(NotEquals(models.FieldType, "AnalysisTask")), true},
		{"not equals hit", And(NotEquals(models.FieldType, "Bug")), false},
		{"not equals missing field", And(NotEquals(models.FieldSprintID, "S1")), true},
		{"int payload vs int filter", And(Equals(models.FieldReturnCount, 2)), true},
		{"at least", And(AtLeast(models.FieldReturnCount, 2)), true},
		{"at least above", And(AtLeast(models.FieldReturnCount, 3)), false},
		{"bool", And(Equals(models.FieldHasPR, true)), true},
		{"missing field", And(Equals(models.FieldAssignee, "alice")), false},
		{"and of all", And(Equals(models.FieldStatus, "Closed"), NotEquals(models.FieldType, "Bug")), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Match(payload); got != tt.want {
				t.Errorf("Match() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilter_Validate(t *testing.T) {
	tests := []struct {
		name    string
		filter  *Filter
		wantErr bool
	}{
		{"nil", nil, false},
		{"valid", And(Equals("status", "Closed"), AtLeast("return_count", 1)), false},
		{"missing field", And(Condition{Op: OpEq, Values: []any{"x"}}), true},
		{"empty one-of", And(OneOf("status")), true},
		{"non-scalar value", And(Equals("labels", []string{"a"})), true},
		{"unknown op", And(Condition{Field: "x", Op: "lt"}), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.filter.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFilterSpec_Build(t *testing.T) {
	minReturns := 1
	hasPR := true

	f := FilterSpec{
		Types:          []string{"Bug"},
		Statuses:       []string{"CLOSED", "Closed", "Done", "Resolved"},
		ExcludeTypes:   []string{"AnalysisTask"},
		MinReturnCount: &minReturns,
		HasPR:          &hasPR,
	}.Build()

	if f == nil || len(f.Conditions) != 5 {
		t.Fatalf("Build() = %+v, want 5 conditions", f)
	}
	want := []Op{OpEq, OpIn, OpGte, OpEq, OpNe}
	for i, c := range f.Conditions {
		if c.Op != want[i] {
			t.Errorf("Conditions[%d].Op = %s, want %s", i, c.Op, want[i])
		}
	}
	if err := f.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}

	if got := (FilterSpec{}).Build(); got != nil {
		t.Errorf("empty FilterSpec.Build() = %+v, want nil", got)
	}
}
