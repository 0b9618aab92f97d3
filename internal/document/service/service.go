package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/TamerJohn/literate-spoon/internal/document"
	"github.com/TamerJohn/literate-spoon/internal/document/repository"
	"github.com/TamerJohn/literate-spoon/pkg/metrics"
)

var (
	ErrAlreadyExists        = errors.New("document already exists")
	ErrEmptyName            = errors.New("document name is empty")
	ErrUnsupportedExtension = errors.New("document extension is not supported")
	ErrHiddenName           = errors.New("document name starts with a dot")
)

// Service holds the document rules on top of a Repository.
type Service struct {
	repo repository.Repository
}

func New(repo repository.Repository) *Service {
	return &Service{repo: repo}
}

// List returns the names of all documents in the store.
func (s *Service) List(ctx context.Context) ([]string, error) {
	names, err := s.repo.List(ctx)
	record("list", err)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return names, nil
}

func (s *Service) Exists(ctx context.Context, name string) (bool, error) {
	return s.repo.Exists(ctx, name)
}

// Read returns the raw content of name, or repository.ErrNotFound when no
// regular document of that name exists.
func (s *Service) Read(ctx context.Context, name string) ([]byte, error) {
	ok, err := s.repo.Exists(ctx, name)
	if err != nil {
		record("read", err)
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if !ok {
		record("read", repository.ErrNotFound)
		return nil, repository.ErrNotFound
	}
	content, err := s.repo.Read(ctx, name)
	record("read", err)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return content, nil
}

// Create adds an empty document. Checks run in a fixed order: an existing
// document wins over an empty name, which wins over a bad extension. Names
// with path separators or a leading dot are refused last.
func (s *Service) Create(ctx context.Context, name string) error {
	err := s.create(ctx, name)
	record("create", err)
	return err
}

func (s *Service) create(ctx context.Context, name string) error {
	if name != "" {
		ok, err := s.repo.Exists(ctx, name)
		if err != nil {
			return fmt.Errorf("create %s: %w", name, err)
		}
		if ok {
			return ErrAlreadyExists
		}
	}
	if name == "" {
		return ErrEmptyName
	}
	if !document.FormatOf(name).Supported() {
		return ErrUnsupportedExtension
	}
	if err := repository.ValidName(name); err != nil {
		return err
	}
	// Dot-files never show up in List, so they cannot be documents.
	if strings.HasPrefix(name, ".") {
		return ErrHiddenName
	}
	if err := s.repo.Write(ctx, name, []byte{}); err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	return nil
}

// Update replaces the whole content of name. The document does not have to
// exist beforehand.
func (s *Service) Update(ctx context.Context, name string, content []byte) error {
	err := s.repo.Write(ctx, name, content)
	record("update", err)
	if err != nil {
		return fmt.Errorf("update %s: %w", name, err)
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, name string) error {
	err := s.repo.Delete(ctx, name)
	record("delete", err)
	if err != nil {
		return fmt.Errorf("delete %s: %w", name, err)
	}
	return nil
}

func record(op string, err error) {
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrNotFound):
		result = "not_found"
	case errors.Is(err, ErrAlreadyExists), errors.Is(err, ErrEmptyName),
		errors.Is(err, ErrUnsupportedExtension), errors.Is(err, ErrHiddenName),
		errors.Is(err, repository.ErrInvalidName):
		result = "rejected"
	default:
		result = "error"
	}
	metrics.DocumentOperations.WithLabelValues(op, result).Inc()
}
