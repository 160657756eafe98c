// Package httpapi implements the HTTP surface of the job service.
//
// Public routes:
//
//	GET /health
//	GET /jobs                                → all active jobs, filterable
//	GET /jobs/view/{slug}                    → job detail (counts the view)
//	GET /jobs/in-{location}                  → jobs in a location
//	GET /jobs/{category}                     → jobs in a category
//	GET /jobs/{category}/remote              → remote jobs in a category
//	GET /jobs/{category}/in-{location}       → category scoped to a location
//	GET /jobs/{category}/{subcategory}       → jobs in a subcategory
//
// Scoping slugs are verified against the catalog before the search runs;
// unknown slugs 404 without touching the job query.
package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"blankpoint/job-service/internal/catalog"
	"blankpoint/job-service/internal/ingest"
	"blankpoint/job-service/internal/lifecycle"
	"blankpoint/job-service/internal/scheduler"
	"blankpoint/job-service/internal/search"
)

// Handler holds shared dependencies for all routes.
type Handler struct {
	search    *search.Service
	lifecycle *lifecycle.Service
	catalog   *catalog.Service
	importer  *ingest.Importer
	sched     *scheduler.Scheduler
}

// NewHandler returns a configured Handler.
func NewHandler(
	searchSvc *search.Service,
	lifecycleSvc *lifecycle.Service,
	catalogSvc *catalog.Service,
	importer *ingest.Importer,
	sched *scheduler.Scheduler,
) *Handler {
	return &Handler{
		search:    searchSvc,
		lifecycle: lifecycleSvc,
		catalog:   catalogSvc,
		importer:  importer,
		sched:     sched,
	}
}

// RegisterRoutes mounts every route on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", handleHealth)
	mux.HandleFunc("/jobs", h.handleJobsRoot)
	mux.HandleFunc("/jobs/", h.handleJobsPath)
	mux.HandleFunc("/admin/jobs/", h.handleAdmin)
	mux.HandleFunc("/companies", h.handleCompanies)
	mux.HandleFunc("/companies/", h.handleCompanyByKey)
	mux.HandleFunc("/locations", h.handleLocations)
	mux.HandleFunc("/locations/", h.handleLocationBySlug)
	mux.HandleFunc("/categories", h.handleCategories)
	mux.HandleFunc("/categories/", h.handleCategoryPath)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	jsonOK(w, map[string]string{"status": "ok", "service": "job-service"})
}

// ─── Job listing routes ──────────────────────────────────────────────────────

// jobsRoute describes where a /jobs/... path dispatches to.
type jobsRoute struct {
	kind  string // detail, location, category, remote, categoryLocation, subcategory
	slug1 string
	slug2 string
}

// resolveJobsPath classifies the path segments after /jobs/. The URL grammar
// distinguishes locations from categories by the "in-" prefix, so plain
// segments stay free for category and subcategory slugs.
func resolveJobsPath(parts []string) (jobsRoute, bool) {
	switch len(parts) {
	case 1:
		if parts[0] == "" {
			return jobsRoute{}, false
		}
		if loc, ok := strings.CutPrefix(parts[0], "in-"); ok {
			return jobsRoute{kind: "location", slug1: loc}, true
		}
		return jobsRoute{kind: "category", slug1: parts[0]}, true
	case 2:
		if parts[0] == "" || parts[1] == "" {
			return jobsRoute{}, false
		}
		if parts[0] == "view" {
			return jobsRoute{kind: "detail", slug1: parts[1]}, true
		}
		if parts[1] == "remote" {
			return jobsRoute{kind: "remote", slug1: parts[0]}, true
		}
		if loc, ok := strings.CutPrefix(parts[1], "in-"); ok {
			return jobsRoute{kind: "categoryLocation", slug1: parts[0], slug2: loc}, true
		}
		return jobsRoute{kind: "subcategory", slug1: parts[0], slug2: parts[1]}, true
	}
	return jobsRoute{}, false
}

// handleJobsRoot handles GET /jobs — the unscoped listing.
func (h *Handler) handleJobsRoot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.listJobs(w, r, search.Scope{})
}

// handleJobsPath dispatches every /jobs/... sub-path.
func (h *Handler) handleJobsPath(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// One trailing slash is tolerated; interior empty segments are not, so a
	// path like /jobs//remote cannot collapse into a category route.
	rest := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/jobs/"), "/")
	route, ok := resolveJobsPath(strings.Split(rest, "/"))
	if !ok {
		jsonError(w, "not found", http.StatusNotFound)
		return
	}

	switch route.kind {
	case "detail":
		h.jobDetail(w, r, route.slug1)
	case "location":
		location, err := h.catalog.LocationBySlug(r.Context(), route.slug1)
		if err != nil {
			serviceError(w, err)
			return
		}
		h.listJobs(w, r, search.Scope{LocationSlug: location.Slug})
	case "category":
		cat, err := h.catalog.CategoryBySlug(r.Context(), route.slug1)
		if err != nil {
			serviceError(w, err)
			return
		}
		h.listJobs(w, r, search.Scope{CategorySlug: cat.Slug})
	case "remote":
		cat, err := h.catalog.CategoryBySlug(r.Context(), route.slug1)
		if err != nil {
			serviceError(w, err)
			return
		}
		h.listJobs(w, r, search.Scope{CategorySlug: cat.Slug, RemoteOnly: true})
	case "categoryLocation":
		cat, err := h.catalog.CategoryBySlug(r.Context(), route.slug1)
		if err != nil {
			serviceError(w, err)
			return
		}
		location, err := h.catalog.LocationBySlug(r.Context(), route.slug2)
		if err != nil {
			serviceError(w, err)
			return
		}
		h.listJobs(w, r, search.Scope{CategorySlug: cat.Slug, LocationSlug: location.Slug})
	case "subcategory":
		cat, err := h.catalog.CategoryBySlug(r.Context(), route.slug1)
		if err != nil {
			serviceError(w, err)
			return
		}
		sub, err := h.catalog.SubcategoryBySlug(r.Context(), cat.ID, route.slug2)
		if err != nil {
			serviceError(w, err)
			return
		}
		h.listJobs(w, r, search.Scope{CategorySlug: cat.Slug, SubcategorySlug: sub.Slug})
	}
}

// listJobs parses the query string and runs one scoped listing.
func (h *Handler) listJobs(w http.ResponseWriter, r *http.Request, scope search.Scope) {
	params, err := parseListingParams(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	page, err := h.search.Search(r.Context(), params.filters, scope, params.sort, params.pagination)
	if err != nil {
		serviceError(w, err)
		return
	}
	jsonOK(w, page)
}

// jobDetail serves one job by slug. An expired or deactivated job answers
// exactly like a missing one.
func (h *Handler) jobDetail(w http.ResponseWriter, r *http.Request, jobSlug string) {
	detail, err := h.search.GetBySlug(r.Context(), jobSlug)
	if err != nil {
		if err == search.ErrNotFound {
			jsonError(w, "job not found or has expired", http.StatusNotFound)
			return
		}
		serviceError(w, err)
		return
	}
	jsonOK(w, detail)
}

// decodeBody decodes a JSON request body into v.
func decodeBody(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
