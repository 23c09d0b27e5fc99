package core

import (
	"context"
	"errors"
	"strconv"

	"github.com/google/uuid"
)

var errBoom = errors.New("boom")

// fakeStore is a RecordStore double that counts calls and injects failures.
type fakeStore struct {
	categories map[string]Category
	products   []Product

	findCategoryCalls   int
	createCategoryCalls int
	updateCategoryCalls int
	findProductCalls    int
	createProductsCalls int
	updateProductCalls  int

	findCategoryErr   error
	findProductErr    func(name string) error
	createProductsErr func(call int, fields []ProductFields) error
	updateProductErr  func(fields ProductFields) error
}

func newFakeStore() *fakeStore {
	return &fakeStore{categories: make(map[string]Category)}
}

func (f *fakeStore) FindCategory(_ context.Context, name string) (Category, error) {
	f.findCategoryCalls++
	if f.findCategoryErr != nil {
		return Category{}, f.findCategoryErr
	}
	cat, ok := f.categories[name]
	if !ok {
		return Category{}, ErrNotFound
	}
	return cat, nil
}

func (f *fakeStore) CreateCategory(_ context.Context, name, description string) (Category, error) {
	f.createCategoryCalls++
	cat := Category{ID: uuid.New(), Name: name, Description: description}
	f.categories[name] = cat
	return cat, nil
}

func (f *fakeStore) UpdateCategory(_ context.Context, id uuid.UUID, description string) error {
	f.updateCategoryCalls++
	for name, cat := range f.categories {
		if cat.ID == id {
			cat.Description = description
			f.categories[name] = cat
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakeStore) FindProduct(_ context.Context, name string, categoryID uuid.UUID) (Product, error) {
	f.findProductCalls++
	if f.findProductErr != nil {
		if err := f.findProductErr(name); err != nil {
			return Product{}, err
		}
	}
	for _, p := range f.products {
		if p.Name == name && p.CategoryID == categoryID {
			return p, nil
		}
	}
	return Product{}, ErrNotFound
}

func (f *fakeStore) CreateProducts(_ context.Context, fields []ProductFields) ([]Product, error) {
	f.createProductsCalls++
	if f.createProductsErr != nil {
		if err := f.createProductsErr(f.createProductsCalls, fields); err != nil {
			return nil, err
		}
	}
	created := make([]Product, len(fields))
	for i, pf := range fields {
		created[i] = Product{ID: uuid.New(), ProductFields: pf}
	}
	f.products = append(f.products, created...)
	return created, nil
}

func (f *fakeStore) UpdateProduct(_ context.Context, id uuid.UUID, fields ProductFields) error {
	f.updateProductCalls++
	if f.updateProductErr != nil {
		if err := f.updateProductErr(fields); err != nil {
			return err
		}
	}
	for i, p := range f.products {
		if p.ID == id {
			f.products[i].ProductFields = fields
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakeStore) product(name string) (Product, bool) {
	for _, p := range f.products {
		if p.Name == name {
			return p, true
		}
	}
	return Product{}, false
}

// fakeSink stores artifacts in a map.
type fakeSink struct {
	items  map[string][]byte
	putErr error
	puts   int
}

func newFakeSink() *fakeSink {
	return &fakeSink{items: make(map[string][]byte)}
}

func (s *fakeSink) Put(_ context.Context, name string, data []byte) (ArtifactHandle, error) {
	s.puts++
	if s.putErr != nil {
		return ArtifactHandle{}, s.putErr
	}
	key := "artifact-" + strconv.Itoa(s.puts)
	s.items[key] = append([]byte(nil), data...)
	return ArtifactHandle{Key: key, Name: name, Size: len(data)}, nil
}

func (s *fakeSink) Get(_ context.Context, key string) ([]byte, error) {
	data, ok := s.items[key]
	if !ok {
		return nil, ErrNotFound
	}
	return data, nil
}

// sourceFunc adapts a function to SheetSource.
type sourceFunc func(data []byte) ([]RawRow, error)

func (f sourceFunc) Parse(data []byte) ([]RawRow, error) { return f(data) }

func staticSource(rows ...RawRow) SheetSource {
	return sourceFunc(func([]byte) ([]RawRow, error) { return rows, nil })
}

// row builds a RawRow at sheet index i.
func row(i int, name, category, price, quantity any) RawRow {
	return RawRow{ProductName: name, CategoryName: category, Price: price, Quantity: quantity, Index: i}
}
