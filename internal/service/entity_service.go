// Package service orchestrates validation and gateway calls. One generic
// EntityService replaces what would otherwise be six near-identical
// per-entity copies; each instance differs only in its gateway, its entity
// name, and the validation tags on its entity type.
package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/clinrx/clinrx-api/internal/domain"
	"github.com/clinrx/clinrx-api/internal/storage"
	"github.com/clinrx/clinrx-api/pkg/metrics"
)

type EntityService[T any, PT domain.RecordPtr[T]] struct {
	name     string
	gw       domain.Gateway[T]
	validate *Validator
	log      *zap.Logger
	metrics  *metrics.Collector
}

func NewEntityService[T any, PT domain.RecordPtr[T]](name string, gw domain.Gateway[T], validate *Validator, log *zap.Logger, m *metrics.Collector) *EntityService[T, PT] {
	return &EntityService[T, PT]{
		name:     name,
		gw:       gw,
		validate: validate,
		log:      log,
		metrics:  m,
	}
}

// List returns every entity. Only storage unavailability can fail it.
func (s *EntityService[T, PT]) List(ctx context.Context) ([]T, error) {
	out, err := s.gw.GetAll(ctx)
	if err != nil {
		s.log.Error("list failed", zap.String("entity", s.name), zap.Error(err))
		return nil, fmt.Errorf("listing %s: %w", s.name, err)
	}
	return out, nil
}

func (s *EntityService[T, PT]) Get(ctx context.Context, id uint) (*T, error) {
	e, err := s.gw.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}
		s.log.Error("get failed", zap.String("entity", s.name), zap.Uint("id", id), zap.Error(err))
		return nil, fmt.Errorf("getting %s %d: %w", s.name, id, err)
	}
	return e, nil
}

// Create validates the input and persists it. The returned value carries the
// server-assigned id and initial row version.
func (s *EntityService[T, PT]) Create(ctx context.Context, in *T) (*T, error) {
	if n, ok := any(in).(domain.Normalizer); ok {
		n.Normalize()
	}
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}

	if err := s.gw.Insert(ctx, in); err != nil {
		if errors.Is(err, storage.ErrConstraintViolation) {
			s.log.Warn("create rejected by referential constraint",
				zap.String("entity", s.name), zap.Error(err))
			return nil, err
		}
		s.log.Error("create failed", zap.String("entity", s.name), zap.Error(err))
		return nil, fmt.Errorf("creating %s: %w", s.name, err)
	}

	if s.metrics != nil {
		s.metrics.EntitiesCreated.WithLabelValues(s.name).Inc()
	}
	s.log.Info("record created",
		zap.String("entity", s.name),
		zap.Uint("id", PT(in).PrimaryKey()),
	)
	return in, nil
}

// Update replaces the entity with id. The body must carry the same id as the
// path (checked before any storage access) and the row version the caller
// last read; a stale version yields ErrConflict unless the row has since
// been deleted, which yields ErrNotFound.
func (s *EntityService[T, PT]) Update(ctx context.Context, id uint, in *T) error {
	rec := PT(in)
	if rec.PrimaryKey() != id {
		return ErrBadRequest
	}

	if n, ok := any(in).(domain.Normalizer); ok {
		n.Normalize()
	}
	if err := s.validate.Struct(in); err != nil {
		return err
	}

	expected := rec.Version()
	err := s.gw.Update(ctx, id, in, expected)
	switch {
	case err == nil:
		s.log.Info("record updated",
			zap.String("entity", s.name),
			zap.Uint("id", id),
			zap.Int64("row_version", rec.Version()),
		)
		return nil
	case errors.Is(err, storage.ErrConflict):
		if s.metrics != nil {
			s.metrics.WriteConflicts.WithLabelValues(s.name).Inc()
		}
		s.log.Warn("concurrent update lost",
			zap.String("entity", s.name),
			zap.Uint("id", id),
			zap.Int64("expected_version", expected),
		)
		return err
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, storage.ErrConstraintViolation):
		return err
	default:
		s.log.Error("update failed", zap.String("entity", s.name), zap.Uint("id", id), zap.Error(err))
		return fmt.Errorf("updating %s %d: %w", s.name, id, err)
	}
}

// Delete removes the entity and its dependents in one transaction.
func (s *EntityService[T, PT]) Delete(ctx context.Context, id uint) error {
	if err := s.gw.Delete(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return err
		}
		s.log.Error("delete failed", zap.String("entity", s.name), zap.Uint("id", id), zap.Error(err))
		return fmt.Errorf("deleting %s %d: %w", s.name, id, err)
	}

	if s.metrics != nil {
		s.metrics.EntitiesDeleted.WithLabelValues(s.name).Inc()
	}
	s.log.Info("record deleted", zap.String("entity", s.name), zap.Uint("id", id))
	return nil
}
