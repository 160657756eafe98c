package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"blankpoint/job-service/internal/catalog"
)

// ─── Companies ───────────────────────────────────────────────────────────────

func (h *Handler) handleCompanies(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		companies, err := h.catalog.ListCompanies(r.Context())
		if err != nil {
			serviceError(w, err)
			return
		}
		jsonOK(w, companies)
	case http.MethodPost:
		var in catalog.CompanyInput
		if err := decodeBody(r, &in); err != nil {
			jsonError(w, "invalid request body", http.StatusBadRequest)
			return
		}
		company, err := h.catalog.CreateCompany(r.Context(), in)
		if err != nil {
			serviceError(w, err)
			return
		}
		jsonCreated(w, company)
	default:
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleCompanyByKey serves /companies/{key}. A key that parses as a UUID
// addresses the company by id (update, delete); anything else is a slug
// lookup.
func (h *Handler) handleCompanyByKey(w http.ResponseWriter, r *http.Request) {
	key := strings.Trim(strings.TrimPrefix(r.URL.Path, "/companies"), "/")
	if key == "" || strings.Contains(key, "/") {
		jsonError(w, "not found", http.StatusNotFound)
		return
	}

	if id, err := uuid.Parse(key); err == nil {
		switch r.Method {
		case http.MethodPut:
			var in catalog.CompanyInput
			if err := decodeBody(r, &in); err != nil {
				jsonError(w, "invalid request body", http.StatusBadRequest)
				return
			}
			company, err := h.catalog.UpdateCompany(r.Context(), id, in)
			if err != nil {
				serviceError(w, err)
				return
			}
			jsonOK(w, company)
		case http.MethodDelete:
			if err := h.catalog.DeleteCompany(r.Context(), id); err != nil {
				serviceError(w, err)
				return
			}
			jsonOK(w, map[string]string{"message": "company deleted"})
		default:
			jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	company, err := h.catalog.CompanyBySlug(r.Context(), key)
	if err != nil {
		serviceError(w, err)
		return
	}
	jsonOK(w, company)
}

// ─── Locations ───────────────────────────────────────────────────────────────

func (h *Handler) handleLocations(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		locations, err := h.catalog.ListLocations(r.Context())
		if err != nil {
			serviceError(w, err)
			return
		}
		jsonOK(w, locations)
	case http.MethodPost:
		var in struct {
			City  string `json:"city"`
			State string `json:"state"`
		}
		if err := decodeBody(r, &in); err != nil {
			jsonError(w, "invalid request body", http.StatusBadRequest)
			return
		}
		location, err := h.catalog.CreateLocation(r.Context(), in.City, in.State)
		if err != nil {
			serviceError(w, err)
			return
		}
		jsonCreated(w, location)
	default:
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleLocationBySlug(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	key := strings.Trim(strings.TrimPrefix(r.URL.Path, "/locations"), "/")
	if key == "" || strings.Contains(key, "/") {
		jsonError(w, "not found", http.StatusNotFound)
		return
	}
	location, err := h.catalog.LocationBySlug(r.Context(), key)
	if err != nil {
		serviceError(w, err)
		return
	}
	jsonOK(w, location)
}

// ─── Categories ──────────────────────────────────────────────────────────────

func (h *Handler) handleCategories(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		categories, err := h.catalog.ListCategories(r.Context())
		if err != nil {
			serviceError(w, err)
			return
		}
		jsonOK(w, categories)
	case http.MethodPost:
		var in struct {
			Name string `json:"name"`
			Slug string `json:"slug"`
		}
		if err := decodeBody(r, &in); err != nil {
			jsonError(w, "invalid request body", http.StatusBadRequest)
			return
		}
		category, err := h.catalog.CreateCategory(r.Context(), in.Name, in.Slug)
		if err != nil {
			serviceError(w, err)
			return
		}
		jsonCreated(w, category)
	default:
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleCategoryPath serves /categories/{key} and
// /categories/{slug}/subcategories. A numeric key addresses the category by
// id (delete); a slug key reads it.
func (h *Handler) handleCategoryPath(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/categories"), "/")
	parts := strings.Split(rest, "/")

	switch {
	case len(parts) == 1 && parts[0] != "":
		h.categoryByKey(w, r, parts[0])
	case len(parts) == 2 && parts[1] == "subcategories":
		h.subcategories(w, r, parts[0])
	default:
		jsonError(w, "not found", http.StatusNotFound)
	}
}

func (h *Handler) categoryByKey(w http.ResponseWriter, r *http.Request, key string) {
	if id, err := strconv.Atoi(key); err == nil {
		if r.Method != http.MethodDelete {
			jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if err := h.catalog.DeleteCategory(r.Context(), id); err != nil {
			serviceError(w, err)
			return
		}
		jsonOK(w, map[string]string{"message": "category deleted"})
		return
	}

	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	category, err := h.catalog.CategoryBySlug(r.Context(), key)
	if err != nil {
		serviceError(w, err)
		return
	}
	jsonOK(w, category)
}

func (h *Handler) subcategories(w http.ResponseWriter, r *http.Request, categorySlug string) {
	category, err := h.catalog.CategoryBySlug(r.Context(), categorySlug)
	if err != nil {
		serviceError(w, err)
		return
	}

	switch r.Method {
	case http.MethodGet:
		subs, err := h.catalog.ListSubcategories(r.Context(), category.ID)
		if err != nil {
			serviceError(w, err)
			return
		}
		jsonOK(w, subs)
	case http.MethodPost:
		var in struct {
			Name string `json:"name"`
		}
		if err := decodeBody(r, &in); err != nil {
			jsonError(w, "invalid request body", http.StatusBadRequest)
			return
		}
		sub, err := h.catalog.CreateSubcategory(r.Context(), category.ID, in.Name)
		if err != nil {
			serviceError(w, err)
			return
		}
		jsonCreated(w, sub)
	default:
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}
