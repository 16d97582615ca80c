package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"finledger/internal/models"
	"finledger/internal/repositories"
)

type categoryResolver struct {
	categoryRepo repositories.CategoryRepositoryInterface
	logger       *slog.Logger
}

// NewCategoryResolver creates a new category resolver
func NewCategoryResolver(categoryRepo repositories.CategoryRepositoryInterface, logger *slog.Logger) CategoryResolverInterface {
	return &categoryResolver{
		categoryRepo: categoryRepo,
		logger:       logger,
	}
}

// ResolveOne returns the category with the exact title, creating it when absent.
// If a concurrent writer creates the same title first, its row is returned.
func (r *categoryResolver) ResolveOne(ctx context.Context, title string) (*models.Category, error) {
	category, err := r.categoryRepo.GetByTitle(ctx, title)
	if err == nil {
		return category, nil
	}
	if !errors.Is(err, repositories.ErrCategoryNotFound) {
		return nil, fmt.Errorf("failed to resolve category: %w", err)
	}

	category = &models.Category{Title: title}
	if err := r.categoryRepo.Create(ctx, category); err != nil {
		if !errors.Is(err, repositories.ErrDuplicateCategory) {
			return nil, fmt.Errorf("failed to resolve category: %w", err)
		}

		existing, err := r.categoryRepo.GetByTitle(ctx, title)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve category: %w", err)
		}
		return existing, nil
	}

	r.logger.InfoContext(ctx, "category created",
		slog.String("category_id", category.ID.String()),
		slog.String("title", category.Title),
	)
	return category, nil
}

// ResolveMany maps every title to its category using one lookup query and at
// most one batch insert for the titles that do not exist yet.
func (r *categoryResolver) ResolveMany(ctx context.Context, titles []string) (map[string]models.Category, error) {
	existing, err := r.categoryRepo.FindByTitles(ctx, titles)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve categories: %w", err)
	}

	resolved := make(map[string]models.Category, len(existing))
	for _, category := range existing {
		resolved[category.Title] = category
	}

	missing := missingTitles(titles, resolved)
	if len(missing) == 0 {
		return resolved, nil
	}

	categories := make([]models.Category, 0, len(missing))
	for _, title := range missing {
		categories = append(categories, models.Category{Title: title})
	}
	if err := r.categoryRepo.CreateBatch(ctx, categories); err != nil {
		return nil, fmt.Errorf("failed to create categories: %w", err)
	}

	// Titles inserted concurrently were skipped by the batch, so the stored rows are re-read.
	created, err := r.categoryRepo.FindByTitles(ctx, missing)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve categories: %w", err)
	}
	for _, category := range created {
		resolved[category.Title] = category
	}

	for _, title := range missing {
		if _, ok := resolved[title]; !ok {
			return nil, fmt.Errorf("category %q was not persisted", title)
		}
	}

	r.logger.InfoContext(ctx, "categories created",
		slog.Int("count", len(missing)),
		slog.Any("titles", missing),
	)
	return resolved, nil
}

// missingTitles returns the titles absent from resolved, deduplicated, in first-seen order
func missingTitles(titles []string, resolved map[string]models.Category) []string {
	seen := make(map[string]struct{}, len(titles))
	missing := make([]string, 0)
	for _, title := range titles {
		if _, ok := resolved[title]; ok {
			continue
		}
		if _, ok := seen[title]; ok {
			continue
		}
		seen[title] = struct{}{}
		missing = append(missing, title)
	}
	return missing
}
