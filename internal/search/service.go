package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when no effectively-active job matches a slug.
// Deliberately the same outcome for a slug that never existed and one whose
// job has expired or been deactivated.
var ErrNotFound = errors.New("job not found")

// viewCountTimeout bounds the detached view-count update so an abandoned
// connection cannot pin a goroutine.
const viewCountTimeout = 5 * time.Second

// Service executes listing and detail queries. It is read-only apart from
// the best-effort view counter.
type Service struct {
	pool *pgxpool.Pool
}

// NewService returns a configured Service.
func NewService(pool *pgxpool.Pool) *Service {
	return &Service{pool: pool}
}

// Search runs a filtered, sorted, paginated listing query and returns one
// page of results plus the total match count. The count runs first with the
// identical predicate, so total and items always describe the same set.
func (s *Service) Search(ctx context.Context, f Filters, scope Scope, sort SortOption, pg Pagination) (Page[JobListItem], error) {
	q := BuildQuery(f, scope, sort, pg, today())

	var total int
	if err := s.pool.QueryRow(ctx, q.CountSQL, q.CountArgs...).Scan(&total); err != nil {
		return Page[JobListItem]{}, fmt.Errorf("search count: %w", err)
	}

	rows, err := s.pool.Query(ctx, q.ListSQL, q.ListArgs...)
	if err != nil {
		return Page[JobListItem]{}, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()

	items := make([]JobListItem, 0, pg.Limit)
	for rows.Next() {
		var (
			item   JobListItem
			posted time.Time
		)
		if err := rows.Scan(
			&item.ID, &item.Title, &item.Slug, &item.JobType, &item.IsRemote,
			&item.Salary, &item.Experience, &item.Skills, &posted,
			&item.CompanyName, &item.CompanySlug, &item.CompanyLogoURL,
			&item.LocationCity, &item.LocationState,
			&item.CategoryName, &item.CategorySlug,
			&item.SubcategoryName, &item.SubcategorySlug,
		); err != nil {
			return Page[JobListItem]{}, fmt.Errorf("search scan: %w", err)
		}
		item.PostedDate = posted.Format("2006-01-02")
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return Page[JobListItem]{}, fmt.Errorf("search rows: %w", err)
	}

	return NewPage(items, total, pg.Page, pg.Limit), nil
}

// CompanyInfo is the company payload embedded in a job detail response.
type CompanyInfo struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Slug       string    `json:"slug"`
	LogoURL    *string   `json:"logo_url"`
	Website    *string   `json:"website"`
	IsVerified bool      `json:"is_verified"`
}

// LocationInfo is the location payload embedded in a job detail response.
type LocationInfo struct {
	ID    int    `json:"id"`
	City  string `json:"city"`
	State string `json:"state"`
	Slug  string `json:"slug"`
}

// JobDetail is the full single-job response, carrying related entities
// rather than the denormalized display fields of list rows.
type JobDetail struct {
	ID              uuid.UUID     `json:"id"`
	Title           string        `json:"title"`
	Slug            string        `json:"slug"`
	JobType         string        `json:"job_type"`
	IsRemote        bool          `json:"is_remote"`
	Salary          *string       `json:"salary"`
	Experience      *string       `json:"experience"`
	Skills          []string      `json:"skills"`
	Description     string        `json:"description"`
	JobURL          string        `json:"job_url"`
	PostedDate      string        `json:"posted_date"`
	EndDate         *string       `json:"end_date"`
	ViewCount       int           `json:"view_count"`
	IsActive        bool          `json:"is_active"`
	Company         CompanyInfo   `json:"company"`
	Location        *LocationInfo `json:"location"`
	CategoryName    string        `json:"category_name"`
	CategorySlug    string        `json:"category_slug"`
	SubcategoryName *string       `json:"subcategory_name"`
	SubcategorySlug *string       `json:"subcategory_slug"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// GetBySlug fetches a job detail by slug. Only effectively-active jobs are
// visible; ErrNotFound covers missing, expired and deactivated slugs alike.
// On success a detached best-effort view-count increment is kicked off and
// the returned payload is optimistically incremented regardless of whether
// the persisted update lands.
func (s *Service) GetBySlug(ctx context.Context, jobSlug string) (*JobDetail, error) {
	var (
		d        JobDetail
		posted   time.Time
		endDate  *time.Time
		locID    *int
		locCity  *string
		locState *string
		locSlug  *string
	)

	err := s.pool.QueryRow(ctx, detailSQL, jobSlug, today()).Scan(
		&d.ID, &d.Title, &d.Slug, &d.JobType, &d.IsRemote, &d.Salary, &d.Experience,
		&d.Skills, &d.Description, &d.JobURL, &posted, &endDate,
		&d.ViewCount, &d.IsActive, &d.CreatedAt, &d.UpdatedAt,
		&d.Company.ID, &d.Company.Name, &d.Company.Slug, &d.Company.LogoURL,
		&d.Company.Website, &d.Company.IsVerified,
		&locID, &locCity, &locState, &locSlug,
		&d.CategoryName, &d.CategorySlug,
		&d.SubcategoryName, &d.SubcategorySlug,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("job detail query: %w", err)
	}

	d.PostedDate = posted.Format("2006-01-02")
	if endDate != nil {
		formatted := endDate.Format("2006-01-02")
		d.EndDate = &formatted
	}
	if locID != nil {
		d.Location = &LocationInfo{ID: *locID, City: *locCity, State: *locState, Slug: *locSlug}
	}

	go s.incrementViewCount(d.ID)
	d.ViewCount++

	return &d, nil
}

// incrementViewCount bumps the persisted view counter. Runs detached from
// the request with its own context; any failure is logged and absorbed so
// view counting can never affect the read path.
func (s *Service) incrementViewCount(jobID uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.Background(), viewCountTimeout)
	defer cancel()

	_, err := s.pool.Exec(ctx,
		`UPDATE jobs SET view_count = view_count + 1 WHERE id = $1`,
		jobID,
	)
	if err != nil {
		slog.Warn("view count increment failed", "jobId", jobID, "err", err)
	}
}

// today returns the current UTC date truncated to midnight, the reference
// point for all posted/end date comparisons.
func today() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}
