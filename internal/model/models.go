// Package model defines the shared data structures for the job board.
package model

import (
	"time"

	"github.com/google/uuid"
)

// Job type values mirror the job_type column constraint in PostgreSQL.
const (
	JobTypeFulltime   = "fulltime"
	JobTypeContract   = "contract"
	JobTypeInternship = "internship"
)

// Job mirrors a row of the jobs table. Salary and Experience are free-text
// scraped values and are never validated beyond length.
type Job struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Description   string     `json:"description"`
	JobType       string     `json:"job_type"`
	IsRemote      bool       `json:"is_remote"`
	Salary        *string    `json:"salary"`
	Experience    *string    `json:"experience"`
	Skills        []string   `json:"skills"`
	JobURL        string     `json:"job_url"`
	PostedDate    time.Time  `json:"posted_date"`
	EndDate       *time.Time `json:"end_date"`
	ViewCount     int        `json:"view_count"`
	IsActive      bool       `json:"is_active"`
	CompanyID     uuid.UUID  `json:"company_id"`
	LocationID    *int       `json:"location_id"`
	CategoryID    int        `json:"category_id"`
	SubcategoryID *int       `json:"subcategory_id"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Company is a dimension entity owned by the catalog layer.
type Company struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	LogoURL     *string   `json:"logo_url"`
	Website     *string   `json:"website"`
	Description *string   `json:"description"`
	IsVerified  bool      `json:"is_verified"`
	LocationID  *int      `json:"location_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Location is a city/state pair with a derived job count.
type Location struct {
	ID    int    `json:"id"`
	City  string `json:"city"`
	State string `json:"state"`
	Slug  string `json:"slug"`
	Count int    `json:"count"`
}

// JobCategory is a top-level category with a derived job count.
type JobCategory struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Count int    `json:"count"`
}

// JobSubCategory belongs to exactly one JobCategory.
type JobSubCategory struct {
	ID         int    `json:"id"`
	CategoryID int    `json:"category_id"`
	Name       string `json:"name"`
	Slug       string `json:"slug"`
	Count      int    `json:"count"`
}
