package search

import (
	"strings"
	"testing"
	"time"
)

var testToday = time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

func mustPagination(t *testing.T, page, limit int) Pagination {
	t.Helper()
	pg, err := NewPagination(page, limit)
	if err != nil {
		t.Fatalf("NewPagination(%d, %d): %v", page, limit, err)
	}
	return pg
}

// Every query, no matter the filter combination, must carry the
// effective-activity predicate as its first condition.
func TestBuildQuery_AlwaysFiltersEffectivelyActive(t *testing.T) {
	remote := true
	filterSets := []Filters{
		{},
		{Query: "engineer"},
		{JobType: TypeContract, IsRemote: &remote, Posted: PostedWeek},
		{Skills: []string{"go", "python"}, Experience: "senior"},
	}
	const activePred = "j.is_active = true AND (j.end_date IS NULL OR j.end_date >= $1)"

	for _, f := range filterSets {
		q := BuildQuery(f, Scope{}, SortDatePosted, mustPagination(t, 1, 20), testToday)
		for _, sql := range []string{q.ListSQL, q.CountSQL} {
			if !strings.Contains(sql, activePred) {
				t.Errorf("query missing effective-activity predicate for filters %+v:\n%s", f, sql)
			}
		}
		if len(q.CountArgs) == 0 || q.CountArgs[0] != any(testToday) {
			t.Errorf("first arg should be today, got %v", q.CountArgs)
		}
	}
}

// Count and data statements must be built from one predicate pass: identical
// WHERE text, and the data args extend the count args only by offset/limit.
func TestBuildQuery_CountAndDataShareConditions(t *testing.T) {
	remote := true
	f := Filters{
		Query:       "backend",
		Experience:  "3 years",
		JobType:     TypeFulltime,
		IsRemote:    &remote,
		Posted:      PostedMonth,
		Skills:      []string{"go"},
		CompanySlug: "stripe",
	}
	scope := Scope{CategorySlug: "software-engineering", LocationSlug: "san-francisco-ca"}
	q := BuildQuery(f, scope, SortViews, mustPagination(t, 3, 25), testToday)

	whereOf := func(sql string) string {
		i := strings.Index(sql, "WHERE")
		if i < 0 {
			t.Fatalf("no WHERE clause in:\n%s", sql)
		}
		rest := sql[i:]
		if j := strings.Index(rest, "ORDER BY"); j >= 0 {
			rest = rest[:j]
		}
		return strings.TrimSpace(rest)
	}

	if listWhere, countWhere := whereOf(q.ListSQL), whereOf(q.CountSQL); listWhere != countWhere {
		t.Errorf("WHERE clauses diverge:\nlist:  %s\ncount: %s", listWhere, countWhere)
	}

	if len(q.ListArgs) != len(q.CountArgs)+2 {
		t.Fatalf("list args should be count args + offset/limit: %d vs %d",
			len(q.ListArgs), len(q.CountArgs))
	}
	for i := range q.CountArgs {
		if q.ListArgs[i] != q.CountArgs[i] {
			t.Errorf("arg %d diverges: %v vs %v", i, q.ListArgs[i], q.CountArgs[i])
		}
	}
	if q.ListArgs[len(q.ListArgs)-2] != any(50) { // (3-1)*25
		t.Errorf("offset arg = %v, want 50", q.ListArgs[len(q.ListArgs)-2])
	}
	if q.ListArgs[len(q.ListArgs)-1] != any(25) {
		t.Errorf("limit arg = %v, want 25", q.ListArgs[len(q.ListArgs)-1])
	}
}

// Supplied filters are ANDed: remote + skills yields both conditions.
func TestBuildConditions_FilterANDComposition(t *testing.T) {
	remote := true
	b := buildConditions(Filters{IsRemote: &remote, Skills: []string{"python"}}, Scope{}, testToday)

	joined := strings.Join(b.conds, "\n")
	if !strings.Contains(joined, "j.is_remote = true") {
		t.Error("missing remote condition")
	}
	if !strings.Contains(joined, "jsonb_array_elements_text(j.skills)") {
		t.Error("missing skills membership condition")
	}
	if got := len(b.conds); got != 3 { // active + remote + one skill
		t.Errorf("expected 3 conditions, got %d: %v", got, b.conds)
	}
}

// IsRemote is tri-state: nil applies nothing, false filters for on-site.
func TestBuildConditions_RemoteTriState(t *testing.T) {
	b := buildConditions(Filters{}, Scope{}, testToday)
	if len(b.conds) != 1 {
		t.Errorf("nil IsRemote should add no condition, got %v", b.conds)
	}

	onsite := false
	b = buildConditions(Filters{IsRemote: &onsite}, Scope{}, testToday)
	if !strings.Contains(strings.Join(b.conds, " "), "j.is_remote = false") {
		t.Errorf("IsRemote=false should filter for on-site jobs, got %v", b.conds)
	}
}

// RemoteOnly scope wins over an explicit IsRemote=false query filter.
func TestBuildConditions_RemoteOnlyScopeOverrides(t *testing.T) {
	onsite := false
	b := buildConditions(Filters{IsRemote: &onsite}, Scope{RemoteOnly: true}, testToday)
	joined := strings.Join(b.conds, " ")
	if !strings.Contains(joined, "j.is_remote = true") {
		t.Errorf("RemoteOnly scope must force the remote condition, got %v", b.conds)
	}
	if strings.Contains(joined, "j.is_remote = false") {
		t.Errorf("RemoteOnly scope must suppress the on-site condition, got %v", b.conds)
	}
}

// Posted-date windows: today is an equality, week/month are lower bounds at
// 7 and 30 days, all adds nothing. A job posted 8 days ago therefore falls
// outside the week window but inside the month window.
func TestBuildConditions_PostedWindows(t *testing.T) {
	cases := []struct {
		posted   PostedFilter
		wantCond string
		wantArg  time.Time
	}{
		{PostedToday, "j.posted_date = $2", testToday},
		{PostedWeek, "j.posted_date >= $2", testToday.AddDate(0, 0, -7)},
		{PostedMonth, "j.posted_date >= $2", testToday.AddDate(0, 0, -30)},
	}
	for _, c := range cases {
		b := buildConditions(Filters{Posted: c.posted}, Scope{}, testToday)
		if len(b.conds) != 2 {
			t.Errorf("%s: expected 2 conditions, got %v", c.posted, b.conds)
			continue
		}
		if b.conds[1] != c.wantCond {
			t.Errorf("%s: condition = %q, want %q", c.posted, b.conds[1], c.wantCond)
		}
		if b.args[1] != any(c.wantArg) {
			t.Errorf("%s: arg = %v, want %v", c.posted, b.args[1], c.wantArg)
		}
	}

	b := buildConditions(Filters{Posted: PostedAll}, Scope{}, testToday)
	if len(b.conds) != 1 {
		t.Errorf("PostedAll should add no condition, got %v", b.conds)
	}

	eightDaysAgo := testToday.AddDate(0, 0, -8)
	weekCutoff := testToday.AddDate(0, 0, -7)
	monthCutoff := testToday.AddDate(0, 0, -30)
	if !eightDaysAgo.Before(weekCutoff) {
		t.Error("a job posted 8 days ago must fail the week cutoff")
	}
	if eightDaysAgo.Before(monthCutoff) {
		t.Error("a job posted 8 days ago must pass the month cutoff")
	}
}

// Each requested skill contributes its own membership test, ANDed with the
// rest, with exact (not substring) element comparison.
func TestBuildConditions_SkillsMembership(t *testing.T) {
	b := buildConditions(Filters{Skills: []string{"Go", "Python"}}, Scope{}, testToday)
	if len(b.conds) != 3 {
		t.Fatalf("expected active + 2 skill conditions, got %v", b.conds)
	}
	for _, cond := range b.conds[1:] {
		if !strings.Contains(cond, "lower(sk.v) = lower(") {
			t.Errorf("skill condition must use exact membership, got %q", cond)
		}
	}
	if b.args[1] != any("Go") || b.args[2] != any("Python") {
		t.Errorf("skill args = %v", b.args[1:])
	}
}

// Free-text search hits title OR description with a single parameter pair.
func TestBuildConditions_FreeTextQuery(t *testing.T) {
	b := buildConditions(Filters{Query: "platform"}, Scope{}, testToday)
	cond := b.conds[len(b.conds)-1]
	if cond != "(j.title ILIKE $2 OR j.description ILIKE $3)" {
		t.Errorf("free-text condition = %q", cond)
	}
	if b.args[1] != any("%platform%") || b.args[2] != any("%platform%") {
		t.Errorf("free-text args = %v", b.args[1:])
	}
}

// TypeAll and the zero value mean "no job type restriction".
func TestBuildConditions_JobTypeSentinel(t *testing.T) {
	for _, jt := range []JobTypeFilter{TypeAll, ""} {
		b := buildConditions(Filters{JobType: jt}, Scope{}, testToday)
		if len(b.conds) != 1 {
			t.Errorf("JobType %q should add no condition, got %v", jt, b.conds)
		}
	}

	b := buildConditions(Filters{JobType: TypeInternship}, Scope{}, testToday)
	if b.conds[1] != "j.job_type = $2" || b.args[1] != any("internship") {
		t.Errorf("internship filter wrong: conds=%v args=%v", b.conds, b.args)
	}
}

// Sort options each render a two-column ORDER BY with a stable tiebreak.
func TestOrderBy(t *testing.T) {
	cases := []struct {
		sort SortOption
		want string
	}{
		{SortDatePosted, "ORDER BY j.posted_date DESC, j.created_at DESC"},
		{SortDatePostedAsc, "ORDER BY j.posted_date ASC, j.created_at ASC"},
		{SortViews, "ORDER BY j.view_count DESC, j.posted_date DESC"},
		// relevance has no ranking yet and falls back to newest-first
		{SortRelevance, "ORDER BY j.posted_date DESC, j.created_at DESC"},
	}
	for _, c := range cases {
		if got := strings.TrimSpace(orderBy(c.sort)); got != c.want {
			t.Errorf("orderBy(%s) = %q, want %q", c.sort, got, c.want)
		}
	}
}

// The count statement must never carry ordering or pagination.
func TestBuildQuery_CountHasNoOrderingOrLimit(t *testing.T) {
	q := BuildQuery(Filters{}, Scope{}, SortViews, mustPagination(t, 2, 10), testToday)
	for _, frag := range []string{"ORDER BY", "LIMIT", "OFFSET"} {
		if strings.Contains(q.CountSQL, frag) {
			t.Errorf("count SQL must not contain %q:\n%s", frag, q.CountSQL)
		}
	}
}

// The detail statement must apply the same effective-activity predicate so
// expired jobs 404 exactly like absent ones.
func TestDetailSQL_EffectivelyActiveOnly(t *testing.T) {
	if !strings.Contains(detailSQL, "j.is_active = true") ||
		!strings.Contains(detailSQL, "(j.end_date IS NULL OR j.end_date >= $2)") {
		t.Errorf("detail SQL missing effective-activity predicate:\n%s", detailSQL)
	}
}

// Scoping slugs arrive pre-validated and are applied as plain equality
// predicates on the joined dimension tables.
func TestBuildConditions_ScopeEquality(t *testing.T) {
	scope := Scope{
		CategorySlug:    "design",
		SubcategorySlug: "ux-research",
		LocationSlug:    "austin-tx",
	}
	b := buildConditions(Filters{CompanySlug: "figma"}, scope, testToday)

	want := []string{
		"cat.slug = $2",
		"sub.slug = $3",
		"l.slug = $4",
		"c.slug = $5",
	}
	if len(b.conds) != len(want)+1 {
		t.Fatalf("expected %d conditions, got %v", len(want)+1, b.conds)
	}
	for i, w := range want {
		if b.conds[i+1] != w {
			t.Errorf("condition %d = %q, want %q", i+1, b.conds[i+1], w)
		}
	}
}
