// Package ingest implements the bulk job import used by the scraper
// pipeline. One request creates up to MaxBatchSize jobs, finding or creating
// companies and locations on the way. Validation failures are per-item; the
// inserts that do pass validation commit or roll back as one transaction.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"blankpoint/job-service/internal/slug"
)

// Batch size limits for one import request.
const (
	MinBatchSize = 1
	MaxBatchSize = 500
)

// JobInput is one job row in a bulk import request. Company and location
// arrive as display text and are resolved (or created) during the import;
// category and subcategory must already exist and are referenced by slug.
type JobInput struct {
	Title           string   `json:"title"`
	CompanyName     string   `json:"company_name"`
	JobType         string   `json:"job_type"`
	IsRemote        bool     `json:"is_remote"`
	Salary          *string  `json:"salary"`
	Experience      *string  `json:"experience"`
	Skills          []string `json:"skills"`
	Description     string   `json:"description"`
	JobURL          string   `json:"job_url"`
	PostedDate      string   `json:"posted_date"` // YYYY-MM-DD
	EndDate         *string  `json:"end_date"`    // YYYY-MM-DD
	LocationCity    *string  `json:"location_city"`
	LocationState   *string  `json:"location_state"`
	CategorySlug    string   `json:"category_slug"`
	SubcategorySlug *string  `json:"subcategory_slug"`
}

// Result summarizes one import run.
type Result struct {
	Created int      `json:"created"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors"`
}

// Importer executes bulk imports.
type Importer struct {
	pool *pgxpool.Pool
}

// NewImporter returns a configured Importer.
func NewImporter(pool *pgxpool.Pool) *Importer {
	return &Importer{pool: pool}
}

// BulkCreate imports the given jobs. Items that fail validation (missing
// category, malformed date) are recorded in the result and skipped; every
// item that passes is inserted, with the whole run committed at the end.
// A commit failure fails the run as a whole.
func (im *Importer) BulkCreate(ctx context.Context, items []JobInput) (Result, error) {
	var res Result

	tx, err := im.pool.Begin(ctx)
	if err != nil {
		return res, fmt.Errorf("begin import tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for i, item := range items {
		if err := im.importOne(ctx, tx, item); err != nil {
			res.Failed++
			res.Errors = append(res.Errors, fmt.Sprintf("job %d: %v", i+1, err))
			slog.Warn("bulk import item failed", "index", i+1, "err", err)
			continue
		}
		res.Created++
	}

	if err := tx.Commit(ctx); err != nil {
		return Result{}, fmt.Errorf("commit import tx: %w", err)
	}

	slog.Info("bulk import completed", "created", res.Created, "failed", res.Failed)
	return res, nil
}

// importOne resolves one item's references and inserts the job row.
func (im *Importer) importOne(ctx context.Context, tx pgx.Tx, item JobInput) error {
	posted, err := time.Parse("2006-01-02", item.PostedDate)
	if err != nil {
		return fmt.Errorf("invalid posted_date %q", item.PostedDate)
	}
	var endDate *time.Time
	if item.EndDate != nil {
		parsed, err := time.Parse("2006-01-02", *item.EndDate)
		if err != nil {
			return fmt.Errorf("invalid end_date %q", *item.EndDate)
		}
		endDate = &parsed
	}

	companyID, err := im.findOrCreateCompany(ctx, tx, item.CompanyName)
	if err != nil {
		return err
	}

	var locationID *int
	if item.LocationCity != nil && item.LocationState != nil {
		id, err := im.findOrCreateLocation(ctx, tx, *item.LocationCity, *item.LocationState)
		if err != nil {
			return err
		}
		locationID = &id
	}

	var categoryID int
	err = tx.QueryRow(ctx,
		`SELECT id FROM job_categories WHERE slug = $1`, item.CategorySlug,
	).Scan(&categoryID)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("category %q not found", item.CategorySlug)
	}
	if err != nil {
		return fmt.Errorf("resolve category: %w", err)
	}

	var subcategoryID *int
	if item.SubcategorySlug != nil && *item.SubcategorySlug != "" {
		var id int
		err = tx.QueryRow(ctx,
			`SELECT id FROM job_subcategories WHERE slug = $1 AND category_id = $2`,
			*item.SubcategorySlug, categoryID,
		).Scan(&id)
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("subcategory %q not found in category %q", *item.SubcategorySlug, item.CategorySlug)
		}
		if err != nil {
			return fmt.Errorf("resolve subcategory: %w", err)
		}
		subcategoryID = &id
	}

	jobID := uuid.New()
	_, err = tx.Exec(ctx,
		`INSERT INTO jobs (id, title, slug, description, job_type, is_remote, salary, experience,
		                   skills, job_url, posted_date, end_date, is_active,
		                   company_id, location_id, category_id, subcategory_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, true, $13, $14, $15, $16)`,
		jobID, item.Title, slug.ForJob(item.Title, item.CompanyName, jobID),
		item.Description, item.JobType, item.IsRemote, item.Salary, item.Experience,
		item.Skills, item.JobURL, posted, endDate,
		companyID, locationID, categoryID, subcategoryID,
	)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

// findOrCreateCompany resolves a company by exact name, creating it with a
// unique slug when absent.
func (im *Importer) findOrCreateCompany(ctx context.Context, tx pgx.Tx, name string) (uuid.UUID, error) {
	if name == "" {
		return uuid.Nil, fmt.Errorf("company name is required")
	}

	var id uuid.UUID
	err := tx.QueryRow(ctx, `SELECT id FROM companies WHERE name = $1`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, fmt.Errorf("resolve company: %w", err)
	}

	companySlug, err := slug.Unique(name, func(candidate string) (bool, error) {
		var exists bool
		err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM companies WHERE slug = $1)`, candidate,
		).Scan(&exists)
		return exists, err
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("company slug: %w", err)
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO companies (name, slug) VALUES ($1, $2) RETURNING id`,
		name, companySlug,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("create company: %w", err)
	}
	return id, nil
}

// findOrCreateLocation resolves a city/state pair, creating it with a unique
// slug when absent.
func (im *Importer) findOrCreateLocation(ctx context.Context, tx pgx.Tx, city, state string) (int, error) {
	var id int
	err := tx.QueryRow(ctx,
		`SELECT id FROM locations WHERE city = $1 AND state = $2`, city, state,
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("resolve location: %w", err)
	}

	locationSlug, err := slug.Unique(slug.ForLocation(city, state), func(candidate string) (bool, error) {
		var exists bool
		err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM locations WHERE slug = $1)`, candidate,
		).Scan(&exists)
		return exists, err
	})
	if err != nil {
		return 0, fmt.Errorf("location slug: %w", err)
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO locations (city, state, slug) VALUES ($1, $2, $3) RETURNING id`,
		city, state, locationSlug,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create location: %w", err)
	}
	return id, nil
}
