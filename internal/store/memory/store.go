// Package memory provides an in-process RecordStore used for dry runs and tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/JonMunkholm/catalog-import/internal/core"
)

type productKey struct {
	name       string
	categoryID uuid.UUID
}

// Store keeps categories and products in maps guarded by a mutex.
type Store struct {
	mu         sync.RWMutex
	categories map[string]core.Category
	products   map[uuid.UUID]core.Product
	byKey      map[productKey]uuid.UUID
}

var _ core.RecordStore = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	return &Store{
		categories: make(map[string]core.Category),
		products:   make(map[uuid.UUID]core.Product),
		byKey:      make(map[productKey]uuid.UUID),
	}
}

func (s *Store) FindCategory(_ context.Context, name string) (core.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cat, ok := s.categories[name]
	if !ok {
		return core.Category{}, core.ErrNotFound
	}
	return cat, nil
}

// CreateCategory inserts a category. An existing name keeps its ID and
// takes the new description.
func (s *Store) CreateCategory(_ context.Context, name, description string) (core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cat, ok := s.categories[name]
	if ok {
		cat.Description = description
	} else {
		cat = core.Category{ID: uuid.New(), Name: name, Description: description}
	}
	s.categories[name] = cat
	return cat, nil
}

func (s *Store) UpdateCategory(_ context.Context, id uuid.UUID, description string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for name, cat := range s.categories {
		if cat.ID == id {
			cat.Description = description
			s.categories[name] = cat
			return nil
		}
	}
	return core.ErrNotFound
}

// FindProduct returns the first product created with the given identity.
func (s *Store) FindProduct(_ context.Context, name string, categoryID uuid.UUID) (core.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byKey[productKey{name, categoryID}]
	if !ok {
		return core.Product{}, core.ErrNotFound
	}
	return s.products[id], nil
}

func (s *Store) CreateProducts(_ context.Context, fields []core.ProductFields) ([]core.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	created := make([]core.Product, 0, len(fields))
	for _, f := range fields {
		p := core.Product{ID: uuid.New(), ProductFields: f}
		s.products[p.ID] = p
		key := productKey{f.Name, f.CategoryID}
		if _, ok := s.byKey[key]; !ok {
			s.byKey[key] = p.ID
		}
		created = append(created, p)
	}
	return created, nil
}

func (s *Store) UpdateProduct(_ context.Context, id uuid.UUID, fields core.ProductFields) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.products[id]
	if !ok {
		return core.ErrNotFound
	}
	oldKey := productKey{old.Name, old.CategoryID}
	if s.byKey[oldKey] == id {
		delete(s.byKey, oldKey)
	}
	s.products[id] = core.Product{ID: id, ProductFields: fields}
	newKey := productKey{fields.Name, fields.CategoryID}
	if _, taken := s.byKey[newKey]; !taken {
		s.byKey[newKey] = id
	}
	return nil
}

// Categories returns all categories sorted by name.
func (s *Store) Categories() []core.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]core.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Products returns all products sorted by name, then category id.
func (s *Store) Products() []core.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]core.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].CategoryID.String() < out[j].CategoryID.String()
	})
	return out
}
