package lifecycle

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

// The sweep predicate must only ever match active jobs with a set, passed
// end_date: null end dates and future end dates stay untouched, so running
// the sweep twice back-to-back finds nothing the second time.
func TestExpiredPredicate(t *testing.T) {
	for _, frag := range []string{
		"is_active = true",
		"end_date IS NOT NULL",
		"end_date < $1",
	} {
		if !strings.Contains(expiredPredicate, frag) {
			t.Errorf("expired predicate missing %q: %s", frag, expiredPredicate)
		}
	}
}

func TestBulkCriteria_IsEmpty(t *testing.T) {
	if !(BulkCriteria{}).IsEmpty() {
		t.Error("zero-value criteria should be empty")
	}

	companyID := uuid.New()
	categoryID := 3
	nonEmpty := []BulkCriteria{
		{JobIDs: []uuid.UUID{uuid.New()}},
		{CompanyID: &companyID},
		{CategoryID: &categoryID},
	}
	for _, c := range nonEmpty {
		if c.IsEmpty() {
			t.Errorf("criteria %+v should not be empty", c)
		}
	}
}

// Each supplied criterion adds exactly one condition ANDed with the
// always-present is_active guard, with positional args in supply order.
func TestBulkCriteria_Conditions(t *testing.T) {
	companyID := uuid.New()
	categoryID := 7
	ids := []uuid.UUID{uuid.New(), uuid.New()}

	cases := []struct {
		name      string
		criteria  BulkCriteria
		wantConds []string
		wantArgs  int
	}{
		{
			"ids only",
			BulkCriteria{JobIDs: ids},
			[]string{"is_active = true", "id = ANY($1)"},
			1,
		},
		{
			"company only",
			BulkCriteria{CompanyID: &companyID},
			[]string{"is_active = true", "company_id = $1"},
			1,
		},
		{
			"category only",
			BulkCriteria{CategoryID: &categoryID},
			[]string{"is_active = true", "category_id = $1"},
			1,
		},
		{
			"all three",
			BulkCriteria{JobIDs: ids, CompanyID: &companyID, CategoryID: &categoryID},
			[]string{"is_active = true", "id = ANY($1)", "company_id = $2", "category_id = $3"},
			3,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			conds, args := c.criteria.conditions()
			if len(conds) != len(c.wantConds) {
				t.Fatalf("conditions = %v, want %v", conds, c.wantConds)
			}
			for i := range conds {
				if conds[i] != c.wantConds[i] {
					t.Errorf("condition %d = %q, want %q", i, conds[i], c.wantConds[i])
				}
			}
			if len(args) != c.wantArgs {
				t.Errorf("got %d args, want %d", len(args), c.wantArgs)
			}
		})
	}
}

// Category-scoped bulk deactivation must never touch inactive jobs: the
// is_active guard guarantees the affected count equals the rows flipped.
func TestBulkCriteria_ActiveGuardAlwaysFirst(t *testing.T) {
	categoryID := 1
	conds, _ := (BulkCriteria{CategoryID: &categoryID}).conditions()
	if conds[0] != "is_active = true" {
		t.Errorf("first condition must be the active guard, got %q", conds[0])
	}
}

func TestJoinAnd(t *testing.T) {
	cases := []struct {
		in   []string
		want string
	}{
		{[]string{"a"}, "a"},
		{[]string{"a", "b"}, "a AND b"},
		{[]string{"a", "b", "c"}, "a AND b AND c"},
	}
	for _, c := range cases {
		if got := joinAnd(c.in); got != c.want {
			t.Errorf("joinAnd(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestLargeBatchThreshold(t *testing.T) {
	// Operational signal boundary: 50 is quiet, 51 warns.
	if largeBatchThreshold != 50 {
		t.Errorf("largeBatchThreshold = %d, want 50", largeBatchThreshold)
	}
}
