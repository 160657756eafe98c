package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"blankpoint/job-service/internal/ingest"
	"blankpoint/job-service/internal/lifecycle"
)

// handleAdmin dispatches /admin/jobs/... routes:
//
//	POST  /admin/jobs/cleanup-expired
//	POST  /admin/jobs/bulk-deactivate
//	POST  /admin/jobs/bulk-create
//	GET   /admin/jobs/expiring-count
//	PATCH /admin/jobs/{id}/deactivate
func (h *Handler) handleAdmin(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/admin/jobs"), "/")
	parts := strings.Split(rest, "/")

	switch {
	case len(parts) == 1 && parts[0] == "cleanup-expired":
		h.cleanupExpired(w, r)
	case len(parts) == 1 && parts[0] == "bulk-deactivate":
		h.bulkDeactivate(w, r)
	case len(parts) == 1 && parts[0] == "bulk-create":
		h.bulkCreate(w, r)
	case len(parts) == 1 && parts[0] == "expiring-count":
		h.expiringCount(w, r)
	case len(parts) == 2 && parts[1] == "deactivate":
		h.deactivateJob(w, r, parts[0])
	default:
		jsonError(w, "not found", http.StatusNotFound)
	}
}

// cleanupExpired runs the daily expiration sweep on demand.
func (h *Handler) cleanupExpired(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	count, err := h.sched.RunNow(r.Context())
	if err != nil {
		serviceError(w, err)
		return
	}
	jsonOK(w, map[string]any{
		"message":           "expired jobs cleanup completed",
		"deactivated_count": count,
	})
}

// bulkDeactivate deactivates jobs matching the posted criteria. An empty
// criteria set is rejected rather than deactivating everything.
func (h *Handler) bulkDeactivate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var criteria lifecycle.BulkCriteria
	if err := decodeBody(r, &criteria); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if criteria.IsEmpty() {
		jsonError(w, "at least one of job_ids, company_id or category_id is required", http.StatusBadRequest)
		return
	}

	count, err := h.lifecycle.BulkDeactivate(r.Context(), criteria)
	if err != nil {
		serviceError(w, err)
		return
	}
	jsonOK(w, map[string]any{
		"message":           "bulk deactivation completed",
		"deactivated_count": count,
	})
}

// bulkCreate imports a batch of scraped jobs.
func (h *Handler) bulkCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		Jobs []ingest.JobInput `json:"jobs"`
	}
	if err := decodeBody(r, &body); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if len(body.Jobs) < ingest.MinBatchSize || len(body.Jobs) > ingest.MaxBatchSize {
		msg := fmt.Sprintf("jobs must contain between %d and %d items", ingest.MinBatchSize, ingest.MaxBatchSize)
		jsonError(w, msg, http.StatusBadRequest)
		return
	}

	res, err := h.importer.BulkCreate(r.Context(), body.Jobs)
	if err != nil {
		serviceError(w, err)
		return
	}
	jsonCreated(w, res)
}

// expiringCount reports how many active jobs expire within ?days (default 7).
func (h *Handler) expiringCount(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	days, err := intParam(r.URL.Query().Get("days"), "days")
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if days == 0 {
		days = 7
	}

	count, err := h.lifecycle.CountExpiringSoon(r.Context(), days)
	if err != nil {
		serviceError(w, err)
		return
	}
	jsonOK(w, map[string]any{"days": days, "expiring_count": count})
}

// deactivateJob takes one job offline by id.
func (h *Handler) deactivateJob(w http.ResponseWriter, r *http.Request, rawID string) {
	if r.Method != http.MethodPatch {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	jobID, err := uuid.Parse(rawID)
	if err != nil {
		jsonError(w, "invalid job id", http.StatusBadRequest)
		return
	}

	if err := h.lifecycle.DeactivateJob(r.Context(), jobID); err != nil {
		serviceError(w, err)
		return
	}
	jsonOK(w, map[string]string{"message": "job deactivated"})
}
