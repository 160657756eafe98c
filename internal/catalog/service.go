// Package catalog manages the dimension entities jobs hang off: companies,
// locations, categories and subcategories. The search package only reads
// these through joins; all writes go through here. Job counts on the lookup
// entities are derived at read time from the active job set rather than
// maintained as stored counters.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"blankpoint/job-service/internal/model"
	"blankpoint/job-service/internal/slug"
)

// ErrNotFound is returned when a requested catalog entity does not exist.
var ErrNotFound = errors.New("entity not found")

// ValidationError wraps a user-facing validation message.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

// Service provides catalog reads and writes.
type Service struct {
	pool *pgxpool.Pool
}

// NewService returns a configured Service.
func NewService(pool *pgxpool.Pool) *Service {
	return &Service{pool: pool}
}

// slugExists builds an existence check against one table's slug column, for
// use with slug.Unique.
func (s *Service) slugExists(ctx context.Context, table string) func(string) (bool, error) {
	return func(candidate string) (bool, error) {
		var exists bool
		err := s.pool.QueryRow(ctx,
			fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE slug = $1)`, table),
			candidate,
		).Scan(&exists)
		return exists, err
	}
}

// ─── Companies ───────────────────────────────────────────────────────────────

// CompanyInput carries the writable company fields.
type CompanyInput struct {
	Name        string  `json:"name"`
	LogoURL     *string `json:"logo_url"`
	Website     *string `json:"website"`
	Description *string `json:"description"`
	IsVerified  bool    `json:"is_verified"`
	LocationID  *int    `json:"location_id"`
}

// CreateCompany inserts a company with a generated unique slug.
func (s *Service) CreateCompany(ctx context.Context, in CompanyInput) (*model.Company, error) {
	if in.Name == "" {
		return nil, &ValidationError{Msg: "company name is required"}
	}

	companySlug, err := slug.Unique(in.Name, s.slugExists(ctx, "companies"))
	if err != nil {
		return nil, fmt.Errorf("company slug: %w", err)
	}

	var c model.Company
	err = s.pool.QueryRow(ctx,
		`INSERT INTO companies (name, slug, logo_url, website, description, is_verified, location_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, name, slug, logo_url, website, description, is_verified, location_id, created_at, updated_at`,
		in.Name, companySlug, in.LogoURL, in.Website, in.Description, in.IsVerified, in.LocationID,
	).Scan(&c.ID, &c.Name, &c.Slug, &c.LogoURL, &c.Website, &c.Description,
		&c.IsVerified, &c.LocationID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create company: %w", err)
	}
	return &c, nil
}

// CompanyBySlug loads one company by slug.
func (s *Service) CompanyBySlug(ctx context.Context, companySlug string) (*model.Company, error) {
	var c model.Company
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, slug, logo_url, website, description, is_verified, location_id, created_at, updated_at
		 FROM companies WHERE slug = $1`,
		companySlug,
	).Scan(&c.ID, &c.Name, &c.Slug, &c.LogoURL, &c.Website, &c.Description,
		&c.IsVerified, &c.LocationID, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load company %q: %w", companySlug, err)
	}
	return &c, nil
}

// ListCompanies returns all companies ordered by name.
func (s *Service) ListCompanies(ctx context.Context) ([]model.Company, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, slug, logo_url, website, description, is_verified, location_id, created_at, updated_at
		 FROM companies ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	companies := make([]model.Company, 0)
	for rows.Next() {
		var c model.Company
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.LogoURL, &c.Website, &c.Description,
			&c.IsVerified, &c.LocationID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

// UpdateCompany applies the non-nil fields of in to an existing company.
// The slug is stable: renaming a company does not change its URL.
func (s *Service) UpdateCompany(ctx context.Context, id uuid.UUID, in CompanyInput) (*model.Company, error) {
	var c model.Company
	err := s.pool.QueryRow(ctx,
		`UPDATE companies
		 SET name        = COALESCE(NULLIF($1, ''), name),
		     logo_url    = COALESCE($2, logo_url),
		     website     = COALESCE($3, website),
		     description = COALESCE($4, description),
		     is_verified = $5,
		     location_id = COALESCE($6, location_id),
		     updated_at  = NOW()
		 WHERE id = $7
		 RETURNING id, name, slug, logo_url, website, description, is_verified, location_id, created_at, updated_at`,
		in.Name, in.LogoURL, in.Website, in.Description, in.IsVerified, in.LocationID, id,
	).Scan(&c.ID, &c.Name, &c.Slug, &c.LogoURL, &c.Website, &c.Description,
		&c.IsVerified, &c.LocationID, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update company %s: %w", id, err)
	}
	return &c, nil
}

// DeleteCompany removes a company; its jobs cascade at the schema level.
func (s *Service) DeleteCompany(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete company %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ─── Locations ───────────────────────────────────────────────────────────────

// CreateLocation inserts a city/state pair with a generated unique slug.
func (s *Service) CreateLocation(ctx context.Context, city, state string) (*model.Location, error) {
	if city == "" || state == "" {
		return nil, &ValidationError{Msg: "city and state are required"}
	}

	locationSlug, err := slug.Unique(slug.ForLocation(city, state), s.slugExists(ctx, "locations"))
	if err != nil {
		return nil, fmt.Errorf("location slug: %w", err)
	}

	var l model.Location
	err = s.pool.QueryRow(ctx,
		`INSERT INTO locations (city, state, slug) VALUES ($1, $2, $3)
		 RETURNING id, city, state, slug`,
		city, state, locationSlug,
	).Scan(&l.ID, &l.City, &l.State, &l.Slug)
	if err != nil {
		return nil, fmt.Errorf("create location: %w", err)
	}
	return &l, nil
}

// LocationBySlug loads one location by slug with its active-job count.
func (s *Service) LocationBySlug(ctx context.Context, locationSlug string) (*model.Location, error) {
	var l model.Location
	err := s.pool.QueryRow(ctx,
		`SELECT l.id, l.city, l.state, l.slug,
		        (SELECT COUNT(*) FROM jobs j WHERE j.location_id = l.id AND j.is_active = true)
		 FROM locations l WHERE l.slug = $1`,
		locationSlug,
	).Scan(&l.ID, &l.City, &l.State, &l.Slug, &l.Count)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load location %q: %w", locationSlug, err)
	}
	return &l, nil
}

// ListLocations returns all locations with active-job counts, busiest first.
func (s *Service) ListLocations(ctx context.Context) ([]model.Location, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT l.id, l.city, l.state, l.slug,
		        (SELECT COUNT(*) FROM jobs j WHERE j.location_id = l.id AND j.is_active = true) AS jobs
		 FROM locations l ORDER BY jobs DESC, l.city`,
	)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()

	locations := make([]model.Location, 0)
	for rows.Next() {
		var l model.Location
		if err := rows.Scan(&l.ID, &l.City, &l.State, &l.Slug, &l.Count); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		locations = append(locations, l)
	}
	return locations, rows.Err()
}

// ─── Categories ──────────────────────────────────────────────────────────────

// CreateCategory inserts a category. An explicit slug is honored when given,
// otherwise one is generated from the name.
func (s *Service) CreateCategory(ctx context.Context, name, explicitSlug string) (*model.JobCategory, error) {
	if name == "" {
		return nil, &ValidationError{Msg: "category name is required"}
	}

	categorySlug := explicitSlug
	if categorySlug == "" {
		var err error
		categorySlug, err = slug.Unique(name, s.slugExists(ctx, "job_categories"))
		if err != nil {
			return nil, fmt.Errorf("category slug: %w", err)
		}
	}

	var c model.JobCategory
	err := s.pool.QueryRow(ctx,
		`INSERT INTO job_categories (name, slug) VALUES ($1, $2)
		 RETURNING id, name, slug`,
		name, categorySlug,
	).Scan(&c.ID, &c.Name, &c.Slug)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return &c, nil
}

// CategoryBySlug loads one category with its active-job count.
func (s *Service) CategoryBySlug(ctx context.Context, categorySlug string) (*model.JobCategory, error) {
	var c model.JobCategory
	err := s.pool.QueryRow(ctx,
		`SELECT c.id, c.name, c.slug,
		        (SELECT COUNT(*) FROM jobs j WHERE j.category_id = c.id AND j.is_active = true)
		 FROM job_categories c WHERE c.slug = $1`,
		categorySlug,
	).Scan(&c.ID, &c.Name, &c.Slug, &c.Count)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load category %q: %w", categorySlug, err)
	}
	return &c, nil
}

// ListCategories returns all categories with active-job counts.
func (s *Service) ListCategories(ctx context.Context) ([]model.JobCategory, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT c.id, c.name, c.slug,
		        (SELECT COUNT(*) FROM jobs j WHERE j.category_id = c.id AND j.is_active = true)
		 FROM job_categories c ORDER BY c.name`,
	)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]model.JobCategory, 0)
	for rows.Next() {
		var c model.JobCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Count); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// DeleteCategory removes an empty category. Categories still carrying jobs
// are protected by the schema's foreign key and surface as an error.
func (s *Service) DeleteCategory(ctx context.Context, id int) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM job_categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ─── Subcategories ───────────────────────────────────────────────────────────

// CreateSubcategory inserts a subcategory under an existing category.
// Returns ErrNotFound when the parent category does not exist.
func (s *Service) CreateSubcategory(ctx context.Context, categoryID int, name string) (*model.JobSubCategory, error) {
	if name == "" {
		return nil, &ValidationError{Msg: "subcategory name is required"}
	}

	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM job_categories WHERE id = $1)`, categoryID,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("check parent category %d: %w", categoryID, err)
	}
	if !exists {
		return nil, ErrNotFound
	}

	subSlug, err := slug.Unique(name, s.slugExists(ctx, "job_subcategories"))
	if err != nil {
		return nil, fmt.Errorf("subcategory slug: %w", err)
	}

	var sc model.JobSubCategory
	err = s.pool.QueryRow(ctx,
		`INSERT INTO job_subcategories (category_id, name, slug) VALUES ($1, $2, $3)
		 RETURNING id, category_id, name, slug`,
		categoryID, name, subSlug,
	).Scan(&sc.ID, &sc.CategoryID, &sc.Name, &sc.Slug)
	if err != nil {
		return nil, fmt.Errorf("create subcategory: %w", err)
	}
	return &sc, nil
}

// SubcategoryBySlug loads a subcategory by slug, scoped to its parent
// category — a slug under the wrong category is not found.
func (s *Service) SubcategoryBySlug(ctx context.Context, categoryID int, subSlug string) (*model.JobSubCategory, error) {
	var sc model.JobSubCategory
	err := s.pool.QueryRow(ctx,
		`SELECT sc.id, sc.category_id, sc.name, sc.slug,
		        (SELECT COUNT(*) FROM jobs j WHERE j.subcategory_id = sc.id AND j.is_active = true)
		 FROM job_subcategories sc WHERE sc.slug = $1 AND sc.category_id = $2`,
		subSlug, categoryID,
	).Scan(&sc.ID, &sc.CategoryID, &sc.Name, &sc.Slug, &sc.Count)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load subcategory %q: %w", subSlug, err)
	}
	return &sc, nil
}

// ListSubcategories returns the subcategories of one category.
func (s *Service) ListSubcategories(ctx context.Context, categoryID int) ([]model.JobSubCategory, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT sc.id, sc.category_id, sc.name, sc.slug,
		        (SELECT COUNT(*) FROM jobs j WHERE j.subcategory_id = sc.id AND j.is_active = true)
		 FROM job_subcategories sc WHERE sc.category_id = $1 ORDER BY sc.name`,
		categoryID,
	)
	if err != nil {
		return nil, fmt.Errorf("list subcategories: %w", err)
	}
	defer rows.Close()

	subs := make([]model.JobSubCategory, 0)
	for rows.Next() {
		var sc model.JobSubCategory
		if err := rows.Scan(&sc.ID, &sc.CategoryID, &sc.Name, &sc.Slug, &sc.Count); err != nil {
			return nil, fmt.Errorf("scan subcategory: %w", err)
		}
		subs = append(subs, sc)
	}
	return subs, rows.Err()
}
