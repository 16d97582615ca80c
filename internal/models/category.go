package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrCategoryTitleRequired = errors.New("category title is required")

// Category groups transactions under a user-defined title.
// Titles are unique across the ledger.
type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Title     string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_categories_title" json:"title"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// BeforeCreate hook for Category
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}

	now := time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = now
	}

	if strings.TrimSpace(c.Title) == "" {
		return ErrCategoryTitleRequired
	}
	return nil
}

// TableName returns the table name for Category
func (c *Category) TableName() string {
	return "categories"
}

// CategoryTitles returns the distinct titles of the given categories in order
func CategoryTitles(categories []Category) []string {
	seen := make(map[string]struct{}, len(categories))
	titles := make([]string, 0, len(categories))
	for _, category := range categories {
		if _, ok := seen[category.Title]; ok {
			continue
		}
		seen[category.Title] = struct{}{}
		titles = append(titles, category.Title)
	}
	return titles
}
