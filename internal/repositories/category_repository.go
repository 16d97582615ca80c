package repositories

import (
	"context"
	"errors"
	"fmt"

	"finledger/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrCategoryNotFound  = errors.New("category not found")
	ErrDuplicateCategory = errors.New("category title already exists")
)

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *gorm.DB) CategoryRepositoryInterface {
	return &categoryRepository{
		db: db,
	}
}

// GetByTitle retrieves a category by exact title
func (r *categoryRepository) GetByTitle(ctx context.Context, title string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).Where("title = ?", title).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category by title: %w", err)
	}
	return &category, nil
}

// FindByTitles retrieves every category whose title is in titles with a single query
func (r *categoryRepository) FindByTitles(ctx context.Context, titles []string) ([]models.Category, error) {
	categories := []models.Category{}
	if len(titles) == 0 {
		return categories, nil
	}

	if err := r.db.WithContext(ctx).
		Where("title IN ?", titles).
		Order("title ASC").
		Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to find categories by title: %w", err)
	}
	return categories, nil
}

// Create creates a new category
func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateCategory
		}
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// CreateBatch creates categories in a single insert, skipping titles that already exist
func (r *categoryRepository) CreateBatch(ctx context.Context, categories []models.Category) error {
	if len(categories) == 0 {
		return nil
	}

	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "title"}},
			DoNothing: true,
		}).
		Create(&categories).Error; err != nil {
		return fmt.Errorf("failed to create batch categories: %w", err)
	}
	return nil
}

// List retrieves all categories ordered by title
func (r *categoryRepository) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).Order("title ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}
