package repository

import (
	"context"
	"errors"
	"sort"

	"github.com/TamerJohn/literate-spoon/internal/document"
	"github.com/TamerJohn/literate-spoon/internal/storage"
)

// ObjectStore is the subset of storage.MinIOStorage the repository needs.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Exists(ctx context.Context, key string) (bool, error)
	Keys(ctx context.Context) ([]string, error)
	Remove(ctx context.Context, key string) error
}

// ObjectRepo stores each document as one object keyed by its name.
type ObjectRepo struct {
	objects ObjectStore
}

func NewObjectRepo(objects ObjectStore) *ObjectRepo {
	return &ObjectRepo{objects: objects}
}

func (r *ObjectRepo) List(ctx context.Context) ([]string, error) {
	keys, err := r.objects.Keys(ctx)
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}

func (r *ObjectRepo) Exists(ctx context.Context, name string) (bool, error) {
	if ValidName(name) != nil {
		return false, nil
	}
	return r.objects.Exists(ctx, name)
}

func (r *ObjectRepo) Read(ctx context.Context, name string) ([]byte, error) {
	if err := ValidName(name); err != nil {
		return nil, err
	}
	b, err := r.objects.Get(ctx, name)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return nil, ErrNotFound
	}
	return b, err
}

func (r *ObjectRepo) Write(ctx context.Context, name string, content []byte) error {
	if err := ValidName(name); err != nil {
		return err
	}
	return r.objects.Put(ctx, name, content, document.FormatOf(name).ContentType())
}

// Delete reports ErrNotFound itself since object removal never does.
func (r *ObjectRepo) Delete(ctx context.Context, name string) error {
	ok, err := r.Exists(ctx, name)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return r.objects.Remove(ctx, name)
}
