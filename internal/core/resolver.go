package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// CategoryResolver maps category names to persisted categories for a single
// import run. Lookups are memoized by exact name, so each distinct name costs
// at most one store search and one create per run.
//
// A resolver must not outlive the run that created it.
type CategoryResolver struct {
	store  RecordStore
	cache  map[string]Category
	logger *slog.Logger

	lookups int
	created int
}

// NewCategoryResolver creates a resolver with an empty cache.
func NewCategoryResolver(store RecordStore, logger *slog.Logger) *CategoryResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &CategoryResolver{
		store:  store,
		cache:  make(map[string]Category),
		logger: logger,
	}
}

// Resolve returns the category named name, creating it with description if
// the store has none.
//
// The description follows the last caller: when it differs from the known
// one, the stored category is updated in place. A cached name is never
// searched or created again.
func (r *CategoryResolver) Resolve(ctx context.Context, name, description string) (Category, error) {
	if cat, ok := r.cache[name]; ok {
		if cat.Description == description {
			return cat, nil
		}
		if err := r.store.UpdateCategory(ctx, cat.ID, description); err != nil {
			return Category{}, fmt.Errorf("update category %q: %w", name, err)
		}
		cat.Description = description
		r.cache[name] = cat
		return cat, nil
	}

	r.lookups++
	cat, err := r.store.FindCategory(ctx, name)
	switch {
	case err == nil:
		if cat.Description != description {
			if err := r.store.UpdateCategory(ctx, cat.ID, description); err != nil {
				return Category{}, fmt.Errorf("update category %q: %w", name, err)
			}
			cat.Description = description
		}
	case errors.Is(err, ErrNotFound):
		cat, err = r.store.CreateCategory(ctx, name, description)
		if err != nil {
			return Category{}, fmt.Errorf("create category %q: %w", name, err)
		}
		r.created++
		r.logger.Debug("category created", "category", name, "id", cat.ID)
	default:
		return Category{}, fmt.Errorf("find category %q: %w", name, err)
	}

	r.cache[name] = cat
	return cat, nil
}

// Cached returns the number of distinct categories resolved so far.
func (r *CategoryResolver) Cached() int {
	return len(r.cache)
}

// Created returns the number of categories this resolver created.
func (r *CategoryResolver) Created() int {
	return r.created
}

// Lookups returns the number of store searches this resolver performed.
func (r *CategoryResolver) Lookups() int {
	return r.lookups
}
