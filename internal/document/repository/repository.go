package repository

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrNotFound    = errors.New("document not found")
	ErrInvalidName = errors.New("invalid document name")
)

// Repository is the document store. Implementations hold one entry per
// document name; Write creates or fully replaces an entry.
type Repository interface {
	List(ctx context.Context) ([]string, error)
	Exists(ctx context.Context, name string) (bool, error)
	Read(ctx context.Context, name string) ([]byte, error)
	Write(ctx context.Context, name string, content []byte) error
	Delete(ctx context.Context, name string) error
}

// ValidName rejects names that cannot be a single flat file in the store:
// empty names, dot entries and anything carrying a path separator.
func ValidName(name string) error {
	if name == "" || name == "." || name == ".." {
		return ErrInvalidName
	}
	if strings.ContainsAny(name, "/\\\x00") {
		return ErrInvalidName
	}
	return nil
}
