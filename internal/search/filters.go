// Package search implements the public job listing queries: dynamic
// filtering, sorting and pagination over the set of effectively active jobs.
//
// A job is effectively active when is_active is true and its end_date is
// either unset or has not passed. Every query issued by this package carries
// that predicate; keeping is_active converged with it over time is the
// lifecycle package's responsibility.
package search

import (
	"fmt"

	"github.com/google/uuid"
)

// PostedFilter restricts results by posted_date.
type PostedFilter string

const (
	PostedToday PostedFilter = "today"
	PostedWeek  PostedFilter = "week"
	PostedMonth PostedFilter = "month"
	PostedAll   PostedFilter = "all"
)

// ParsePostedFilter converts a raw query value to a PostedFilter. The empty
// string means "no restriction" and maps to PostedAll.
func ParsePostedFilter(s string) (PostedFilter, error) {
	if s == "" {
		return PostedAll, nil
	}
	p := PostedFilter(s)
	switch p {
	case PostedToday, PostedWeek, PostedMonth, PostedAll:
		return p, nil
	}
	return "", fmt.Errorf("unknown posted filter %q", s)
}

// JobTypeFilter restricts results by job type. TypeAll is a sentinel for
// "no restriction".
type JobTypeFilter string

const (
	TypeFulltime   JobTypeFilter = "fulltime"
	TypeContract   JobTypeFilter = "contract"
	TypeInternship JobTypeFilter = "internship"
	TypeAll        JobTypeFilter = "all"
)

// ParseJobTypeFilter converts a raw query value to a JobTypeFilter. The empty
// string maps to TypeAll.
func ParseJobTypeFilter(s string) (JobTypeFilter, error) {
	if s == "" {
		return TypeAll, nil
	}
	t := JobTypeFilter(s)
	switch t {
	case TypeFulltime, TypeContract, TypeInternship, TypeAll:
		return t, nil
	}
	return "", fmt.Errorf("unknown job type %q", s)
}

// SortOption selects the result ordering.
type SortOption string

const (
	SortDatePosted    SortOption = "date-posted"
	SortDatePostedAsc SortOption = "date-posted-asc"
	SortViews         SortOption = "views"

	// SortRelevance has no ranking implementation yet and orders by
	// posted date. Kept as a distinct option so clients can request it
	// today and pick up ranking when it lands.
	SortRelevance SortOption = "relevance"
)

// ParseSortOption converts a raw query value to a SortOption. The empty
// string maps to the default SortDatePosted.
func ParseSortOption(s string) (SortOption, error) {
	if s == "" {
		return SortDatePosted, nil
	}
	o := SortOption(s)
	switch o {
	case SortDatePosted, SortDatePostedAsc, SortViews, SortRelevance:
		return o, nil
	}
	return "", fmt.Errorf("unknown sort option %q", s)
}

// Filters holds the query-string filters for a job listing request. All
// fields are optional; the zero value applies no restriction beyond the
// effective-activity predicate.
type Filters struct {
	Query       string        // substring match on title or description
	Experience  string        // substring match on the experience text
	JobType     JobTypeFilter // zero value treated like TypeAll
	IsRemote    *bool         // tri-state: nil means no restriction
	Posted      PostedFilter  // zero value treated like PostedAll
	Skills      []string      // every listed skill must be present
	CompanySlug string
}

// Scope holds the filters resolved from the URL path rather than the query
// string. The HTTP layer validates that scoping slugs exist before a query
// runs; this package only applies them as equality predicates.
type Scope struct {
	CategorySlug    string
	SubcategorySlug string
	LocationSlug    string
	RemoteOnly      bool // always-applied remote restriction for /remote views
}

// Pagination limits.
const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// Pagination is a validated page request. Construct via NewPagination.
type Pagination struct {
	Page  int
	Limit int
}

// NewPagination validates page and limit, applying defaults for zero values.
func NewPagination(page, limit int) (Pagination, error) {
	if page == 0 {
		page = DefaultPage
	}
	if limit == 0 {
		limit = DefaultLimit
	}
	if page < 1 {
		return Pagination{}, fmt.Errorf("page must be >= 1, got %d", page)
	}
	if limit < 1 || limit > MaxLimit {
		return Pagination{}, fmt.Errorf("limit must be between 1 and %d, got %d", MaxLimit, limit)
	}
	return Pagination{Page: page, Limit: limit}, nil
}

// Offset is the row offset for the current page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// JobListItem is the light row shape returned by list endpoints: the job's
// own display fields plus denormalized names from the joined entities, never
// the full related payloads.
type JobListItem struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Slug            string    `json:"slug"`
	JobType         string    `json:"job_type"`
	IsRemote        bool      `json:"is_remote"`
	Salary          *string   `json:"salary"`
	Experience      *string   `json:"experience"`
	Skills          []string  `json:"skills"`
	PostedDate      string    `json:"posted_date"`
	CompanyName     string    `json:"company_name"`
	CompanySlug     string    `json:"company_slug"`
	CompanyLogoURL  *string   `json:"company_logo_url"`
	LocationCity    *string   `json:"location_city"`
	LocationState   *string   `json:"location_state"`
	CategoryName    string    `json:"category_name"`
	CategorySlug    string    `json:"category_slug"`
	SubcategoryName *string   `json:"subcategory_name"`
	SubcategorySlug *string   `json:"subcategory_slug"`
}
