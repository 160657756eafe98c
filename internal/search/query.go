package search

import (
	"fmt"
	"strings"
	"time"
)

// Shared FROM clause. Company and category are required relations (inner
// joins); location and subcategory are optional (left joins) so jobs without
// either still appear. Both are single-valued per job, so the outer joins can
// never duplicate rows and the count query stays honest.
const fromClause = `
FROM jobs j
JOIN companies c ON c.id = j.company_id
JOIN job_categories cat ON cat.id = j.category_id
LEFT JOIN locations l ON l.id = j.location_id
LEFT JOIN job_subcategories sub ON sub.id = j.subcategory_id`

const listColumns = `
SELECT j.id, j.title, j.slug, j.job_type, j.is_remote, j.salary, j.experience,
       j.skills, j.posted_date,
       c.name, c.slug, c.logo_url,
       l.city, l.state,
       cat.name, cat.slug,
       sub.name, sub.slug`

// Query bundles the data and count statements for one listing request. Both
// are built from a single predicate pass so their WHERE clauses can never
// drift apart.
type Query struct {
	ListSQL   string
	ListArgs  []any
	CountSQL  string
	CountArgs []any
}

// condBuilder accumulates WHERE conditions with positional placeholders.
// Conditions are written with %s markers that are rewritten to $N in the
// order their arguments are appended.
type condBuilder struct {
	conds []string
	args  []any
}

func (b *condBuilder) add(format string, args ...any) {
	ph := make([]any, len(args))
	for i, a := range args {
		b.args = append(b.args, a)
		ph[i] = fmt.Sprintf("$%d", len(b.args))
	}
	b.conds = append(b.conds, fmt.Sprintf(format, ph...))
}

func (b *condBuilder) where() string {
	return "\nWHERE " + strings.Join(b.conds, "\n  AND ")
}

// buildConditions translates the filter set into WHERE conditions. The
// effective-activity predicate is always first; everything else is ANDed
// after it. today is passed in so queries are reproducible in tests.
func buildConditions(f Filters, s Scope, today time.Time) *condBuilder {
	b := &condBuilder{}

	b.add("j.is_active = true AND (j.end_date IS NULL OR j.end_date >= %s)", today)

	if s.CategorySlug != "" {
		b.add("cat.slug = %s", s.CategorySlug)
	}
	if s.SubcategorySlug != "" {
		b.add("sub.slug = %s", s.SubcategorySlug)
	}
	if s.LocationSlug != "" {
		b.add("l.slug = %s", s.LocationSlug)
	}
	if s.RemoteOnly || (f.IsRemote != nil && *f.IsRemote) {
		b.add("j.is_remote = true")
	} else if f.IsRemote != nil {
		b.add("j.is_remote = false")
	}
	if f.JobType != "" && f.JobType != TypeAll {
		b.add("j.job_type = %s", string(f.JobType))
	}
	if f.Experience != "" {
		b.add("j.experience ILIKE %s", "%"+f.Experience+"%")
	}
	switch f.Posted {
	case PostedToday:
		b.add("j.posted_date = %s", today)
	case PostedWeek:
		b.add("j.posted_date >= %s", today.AddDate(0, 0, -7))
	case PostedMonth:
		b.add("j.posted_date >= %s", today.AddDate(0, 0, -30))
	}
	if f.CompanySlug != "" {
		b.add("c.slug = %s", f.CompanySlug)
	}
	// Exact case-insensitive membership against the skills JSONB array; each
	// requested skill must be present.
	for _, skill := range f.Skills {
		b.add("EXISTS (SELECT 1 FROM jsonb_array_elements_text(j.skills) AS sk(v) WHERE lower(sk.v) = lower(%s))", skill)
	}
	if f.Query != "" {
		term := "%" + f.Query + "%"
		b.add("(j.title ILIKE %s OR j.description ILIKE %s)", term, term)
	}

	return b
}

// orderBy renders the ORDER BY tuple for a sort option. Every option carries
// a deterministic tiebreak so pagination is stable across identical values.
func orderBy(sort SortOption) string {
	switch sort {
	case SortDatePostedAsc:
		return "\nORDER BY j.posted_date ASC, j.created_at ASC"
	case SortViews:
		return "\nORDER BY j.view_count DESC, j.posted_date DESC"
	default:
		// SortDatePosted, SortRelevance (no ranking yet) and the zero value.
		return "\nORDER BY j.posted_date DESC, j.created_at DESC"
	}
}

// BuildQuery produces the paired data/count statements for a listing
// request. The count statement shares the exact predicate and join set of
// the data statement; only ordering and the OFFSET/LIMIT tail differ.
func BuildQuery(f Filters, s Scope, sort SortOption, pg Pagination, today time.Time) Query {
	b := buildConditions(f, s, today)

	countSQL := "SELECT COUNT(*)" + fromClause + b.where()
	countArgs := make([]any, len(b.args))
	copy(countArgs, b.args)

	n := len(b.args)
	listSQL := listColumns + fromClause + b.where() + orderBy(sort) +
		fmt.Sprintf("\nOFFSET $%d LIMIT $%d", n+1, n+2)
	listArgs := append(b.args, pg.Offset(), pg.Limit)

	return Query{
		ListSQL:   listSQL,
		ListArgs:  listArgs,
		CountSQL:  countSQL,
		CountArgs: countArgs,
	}
}

// detailSQL fetches one effectively-active job by slug together with the
// full company and location rows. An expired or deactivated job is
// indistinguishable from a missing one by construction.
const detailSQL = `
SELECT j.id, j.title, j.slug, j.job_type, j.is_remote, j.salary, j.experience,
       j.skills, j.description, j.job_url, j.posted_date, j.end_date,
       j.view_count, j.is_active, j.created_at, j.updated_at,
       c.id, c.name, c.slug, c.logo_url, c.website, c.is_verified,
       l.id, l.city, l.state, l.slug,
       cat.name, cat.slug,
       sub.name, sub.slug` + fromClause + `
WHERE j.slug = $1
  AND j.is_active = true
  AND (j.end_date IS NULL OR j.end_date >= $2)`
