package services

import (
	"context"
	"sort"
	"strings"

	"github.com/ndenisov/showcase/internal/common"
	"github.com/ndenisov/showcase/internal/logging"
	"github.com/ndenisov/showcase/internal/server/entity"
)

// DefaultGalleryCategories are always offered alongside the categories
// derived from stored items.
var DefaultGalleryCategories = []string{"Fests", "Awards", "Fun Activities", "Team Moments"}

// Gallery adds category management on top of the gallery item repository.
// A category is not a stored entity: its name is the set of distinct
// category fields, kept alive by hidden placeholder records when empty.
type Gallery struct {
	repo *entity.Repository
	log  logging.Logger
}

func NewGallery(repo *entity.Repository, log logging.Logger) *Gallery {
	return &Gallery{repo: repo, log: log}
}

// Repo exposes the underlying item repository for the CRUD handlers.
func (s *Gallery) Repo() *entity.Repository { return s.repo }

// Categories returns the distinct stored categories merged with the default
// set, sorted alphabetically.
func (s *Gallery) Categories(ctx context.Context) ([]string, error) {
	docs, err := s.repo.All(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	for _, doc := range docs {
		if c := doc.String("category"); c != "" {
			seen[c] = struct{}{}
		}
	}
	for _, c := range DefaultGalleryCategories {
		seen[c] = struct{}{}
	}

	categories := make([]string, 0, len(seen))
	for c := range seen {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	return categories, nil
}

// CreateCategory persists a category name by inserting a hidden placeholder
// item, so the name survives with zero real items.
func (s *Gallery) CreateCategory(ctx context.Context, name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", common.NewValidationError("category name is required")
	}

	_, err := s.repo.Insert(ctx, entity.Document{
		"title":       entity.PlaceholderTitle,
		"description": "Auto created category placeholder",
		"category":    trimmed,
		"isActive":    false,
	})
	if err != nil {
		return "", err
	}
	return trimmed, nil
}

// BlockedCategoryError rejects a category deletion while active items still
// reference it.
type BlockedCategoryError struct {
	Count int
}

func (e *BlockedCategoryError) Error() string {
	return "category still has active items"
}

// DeleteCategory removes every placeholder record of the category. It fails
// with a BlockedCategoryError carrying the blocking count while any active,
// non-placeholder item still references the category.
func (s *Gallery) DeleteCategory(ctx context.Context, name string) error {
	docs, err := s.repo.All(ctx)
	if err != nil {
		return err
	}

	active := 0
	var placeholders []string
	for _, doc := range docs {
		if doc.String("category") != name {
			continue
		}
		if doc.String("title") == entity.PlaceholderTitle {
			placeholders = append(placeholders, doc.String("id"))
			continue
		}
		if doc.Bool("isActive") {
			active++
		}
	}

	if active > 0 {
		return &BlockedCategoryError{Count: active}
	}

	for _, id := range placeholders {
		if err := s.repo.Delete(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// Stats summarizes the gallery table.
type GalleryStats struct {
	TotalItems    int             `json:"totalItems"`
	ActiveItems   int             `json:"activeItems"`
	CategoryStats []CategoryCount `json:"categoryStats"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Stats returns total and active item counts plus a per-category breakdown.
func (s *Gallery) Stats(ctx context.Context) (*GalleryStats, error) {
	docs, err := s.repo.All(ctx)
	if err != nil {
		return nil, err
	}

	stats := &GalleryStats{TotalItems: len(docs)}
	counts := make(map[string]int)
	for _, doc := range docs {
		if doc.Bool("isActive") {
			stats.ActiveItems++
		}
		counts[doc.String("category")]++
	}

	categories := make([]string, 0, len(counts))
	for c := range counts {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	for _, c := range categories {
		stats.CategoryStats = append(stats.CategoryStats, CategoryCount{Category: c, Count: counts[c]})
	}
	return stats, nil
}
