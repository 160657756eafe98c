package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"blankpoint/job-service/internal/search"
)

// listingParams bundles the query-string parameters of a listing request.
type listingParams struct {
	filters    search.Filters
	sort       search.SortOption
	pagination search.Pagination
}

// parseListingParams validates the listing query string. Any malformed value
// is rejected here so the search package only ever sees well-typed input.
func parseListingParams(r *http.Request) (listingParams, error) {
	q := r.URL.Query()
	var p listingParams

	p.filters.Query = q.Get("q")
	p.filters.Experience = q.Get("experience")
	p.filters.CompanySlug = q.Get("company_slug")
	p.filters.Skills = q["skills"]

	jobType, err := search.ParseJobTypeFilter(q.Get("job_type"))
	if err != nil {
		return p, err
	}
	p.filters.JobType = jobType

	posted, err := search.ParsePostedFilter(q.Get("posted"))
	if err != nil {
		return p, err
	}
	p.filters.Posted = posted

	if raw := q.Get("is_remote"); raw != "" {
		remote, err := strconv.ParseBool(raw)
		if err != nil {
			return p, fmt.Errorf("is_remote must be a boolean, got %q", raw)
		}
		p.filters.IsRemote = &remote
	}

	sort, err := search.ParseSortOption(q.Get("sort"))
	if err != nil {
		return p, err
	}
	p.sort = sort

	page, err := intParam(q.Get("page"), "page")
	if err != nil {
		return p, err
	}
	limit, err := intParam(q.Get("limit"), "limit")
	if err != nil {
		return p, err
	}
	p.pagination, err = search.NewPagination(page, limit)
	if err != nil {
		return p, err
	}

	return p, nil
}

// intParam parses an optional positive integer query value. Absent means
// zero, which the caller's default fills in; an explicit value below 1 is
// rejected here, so zero never masquerades as "not supplied" downstream.
func intParam(raw, name string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", name, raw)
	}
	if v < 1 {
		return 0, fmt.Errorf("%s must be at least 1, got %d", name, v)
	}
	return v, nil
}
