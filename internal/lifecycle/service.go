// Package lifecycle owns the activation state of job records. Its single
// job is to make is_active converge with the effective-activity predicate
// (is_active AND (end_date IS NULL OR end_date >= today)) that the search
// package filters by. Jobs move ACTIVE → INACTIVE exactly once — by expiry
// sweep, manual deactivation or bulk deactivation — and are never
// reactivated here.
package lifecycle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when a job id does not exist.
var ErrNotFound = errors.New("job not found")

// largeBatchThreshold marks a sweep result worth flagging operationally.
// Crossing it is a signal (scraper feeding stale end dates, import mistakes),
// not an error.
const largeBatchThreshold = 50

// deactivatedChannel is the Redis pub/sub channel lifecycle mutations
// publish to. Consumers use it for operational visibility only.
const deactivatedChannel = "EVENT_JOBS_DEACTIVATED"

// Service mutates job activation state. All multi-statement operations run
// in a single transaction: commit-all-or-rollback-all, no partial counts.
type Service struct {
	pool *pgxpool.Pool
	rdb  *redis.Client
}

// NewService returns a configured Service. rdb may be nil, in which case
// event publishing is skipped.
func NewService(pool *pgxpool.Pool, rdb *redis.Client) *Service {
	return &Service{pool: pool, rdb: rdb}
}

// expiredPredicate matches jobs the sweep must deactivate. $1 is today.
const expiredPredicate = `is_active = true AND end_date IS NOT NULL AND end_date < $1`

// DeactivateExpired deactivates every job whose end_date has passed and
// returns how many were affected. The count runs before the update with the
// identical predicate inside one transaction, so the returned number is the
// number of rows flipped by this call. The operation is convergent: a second
// run with no intervening writes affects zero rows, and overlapping runs are
// safe without locking.
func (s *Service) DeactivateExpired(ctx context.Context) (int, error) {
	todayDate := today()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin deactivate-expired tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var expired int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM jobs WHERE `+expiredPredicate,
		todayDate,
	).Scan(&expired)
	if err != nil {
		return 0, fmt.Errorf("count expired jobs: %w", err)
	}

	if expired == 0 {
		slog.Info("no expired jobs to deactivate")
		return 0, nil
	}

	_, err = tx.Exec(ctx,
		`UPDATE jobs SET is_active = false, updated_at = NOW() WHERE `+expiredPredicate,
		todayDate,
	)
	if err != nil {
		return 0, fmt.Errorf("deactivate expired jobs: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit deactivate-expired tx: %w", err)
	}

	slog.Info("deactivated expired jobs", "count", expired)
	if expired > largeBatchThreshold {
		slog.Warn("large batch of jobs expired", "count", expired, "threshold", largeBatchThreshold)
	}

	s.publishDeactivated(ctx, "expired", expired)
	return expired, nil
}

// DeactivateJob deactivates a single job by id. A job that is already
// inactive is a no-op success and its end_date is left untouched; an active
// job gets end_date backfilled to today so the recorded expiration reflects
// the deactivation moment.
func (s *Service) DeactivateJob(ctx context.Context, jobID uuid.UUID) error {
	var isActive bool
	err := s.pool.QueryRow(ctx,
		`SELECT is_active FROM jobs WHERE id = $1`,
		jobID,
	).Scan(&isActive)
	if errors.Is(err, pgx.ErrNoRows) {
		slog.Warn("job not found for deactivation", "jobId", jobID)
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("load job %s: %w", jobID, err)
	}

	if !isActive {
		slog.Info("job already inactive", "jobId", jobID)
		return nil
	}

	_, err = s.pool.Exec(ctx,
		`UPDATE jobs SET is_active = false, end_date = $1, updated_at = NOW() WHERE id = $2`,
		today(), jobID,
	)
	if err != nil {
		return fmt.Errorf("deactivate job %s: %w", jobID, err)
	}

	slog.Info("manually deactivated job", "jobId", jobID)
	s.publishDeactivated(ctx, "manual", 1)
	return nil
}

// BulkCriteria selects the jobs a bulk deactivation targets. Every supplied
// criterion narrows the match set; the HTTP layer rejects a request carrying
// none of them.
type BulkCriteria struct {
	JobIDs     []uuid.UUID `json:"job_ids"`
	CompanyID  *uuid.UUID  `json:"company_id"`
	CategoryID *int        `json:"category_id"`
}

// IsEmpty reports whether no criterion was supplied.
func (c BulkCriteria) IsEmpty() bool {
	return len(c.JobIDs) == 0 && c.CompanyID == nil && c.CategoryID == nil
}

// conditions renders the criteria into WHERE conditions over active jobs.
func (c BulkCriteria) conditions() ([]string, []any) {
	conds := []string{"is_active = true"}
	args := []any{}

	if len(c.JobIDs) > 0 {
		args = append(args, c.JobIDs)
		conds = append(conds, fmt.Sprintf("id = ANY($%d)", len(args)))
	}
	if c.CompanyID != nil {
		args = append(args, *c.CompanyID)
		conds = append(conds, fmt.Sprintf("company_id = $%d", len(args)))
	}
	if c.CategoryID != nil {
		args = append(args, *c.CategoryID)
		conds = append(conds, fmt.Sprintf("category_id = $%d", len(args)))
	}

	return conds, args
}

// BulkDeactivate deactivates every active job matching the criteria, sets
// end_date to today on each, and returns the affected count. Zero matches is
// a valid outcome, not an error.
func (s *Service) BulkDeactivate(ctx context.Context, criteria BulkCriteria) (int, error) {
	conds, args := criteria.conditions()
	where := joinAnd(conds)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin bulk-deactivate tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var affected int
	err = tx.QueryRow(ctx,
		"SELECT COUNT(*) FROM jobs WHERE "+where,
		args...,
	).Scan(&affected)
	if err != nil {
		return 0, fmt.Errorf("count bulk-deactivation matches: %w", err)
	}

	if affected == 0 {
		slog.Info("no jobs matched bulk deactivation criteria")
		return 0, nil
	}

	updateArgs := append(args, today())
	_, err = tx.Exec(ctx,
		fmt.Sprintf("UPDATE jobs SET is_active = false, end_date = $%d, updated_at = NOW() WHERE %s",
			len(updateArgs), where),
		updateArgs...,
	)
	if err != nil {
		return 0, fmt.Errorf("bulk deactivate jobs: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit bulk-deactivate tx: %w", err)
	}

	slog.Info("bulk deactivated jobs", "count", affected)
	s.publishDeactivated(ctx, "bulk", affected)
	return affected, nil
}

// CountExpiringSoon counts effectively-active jobs whose end_date falls
// within [today, today+days]. Read-only; used for operational visibility.
func (s *Service) CountExpiringSoon(ctx context.Context, days int) (int, error) {
	todayDate := today()

	var count int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM jobs
		 WHERE is_active = true
		   AND end_date IS NOT NULL
		   AND end_date >= $1
		   AND end_date <= $2`,
		todayDate, todayDate.AddDate(0, 0, days),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count expiring jobs: %w", err)
	}
	return count, nil
}

// publishDeactivated emits an operational event to Redis. Non-fatal: a
// publish failure is logged and swallowed.
func (s *Service) publishDeactivated(ctx context.Context, reason string, count int) {
	if s.rdb == nil {
		return
	}
	event, _ := json.Marshal(map[string]any{
		"type":   deactivatedChannel,
		"reason": reason,
		"count":  count,
	})
	if err := s.rdb.Publish(ctx, deactivatedChannel, event).Err(); err != nil {
		slog.Warn("publish deactivation event failed", "reason", reason, "err", err)
	}
}

func joinAnd(conds []string) string {
	out := conds[0]
	for _, c := range conds[1:] {
		out += " AND " + c
	}
	return out
}

// today returns the current UTC date truncated to midnight.
func today() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}
