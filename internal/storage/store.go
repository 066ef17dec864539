// Package storage is the persistence gateway: it owns table mapping,
// referential integrity and the transactional read/write rules for every
// entity. Cascade deletion is spelled out as explicit statements here rather
// than delegated to ORM configuration, so the behavior is visible in code.
package storage

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/clinrx/clinrx-api/internal/domain"
	"github.com/clinrx/clinrx-api/pkg/metrics"
)

// CascadeFunc removes the rows that depend on the entity with the given id.
// It runs inside the delete transaction, before the row itself is removed.
type CascadeFunc func(tx *gorm.DB, id uint) error

// Store is a generic persistence gateway for one entity type. It implements
// domain.Gateway[T].
type Store[T any, PT domain.RecordPtr[T]] struct {
	db       *gorm.DB
	log      *zap.Logger
	metrics  *metrics.Collector
	table    string
	preloads []string
	cascade  CascadeFunc
}

type Option func(*options)

type options struct {
	preloads []string
	cascade  CascadeFunc
}

// WithPreloads names the associations resolved eagerly on every read, as one
// consistent load rather than caller-visible round trips.
func WithPreloads(assocs ...string) Option {
	return func(o *options) { o.preloads = assocs }
}

// WithCascade installs the dependent-row cleanup run inside Delete's
// transaction.
func WithCascade(f CascadeFunc) Option {
	return func(o *options) { o.cascade = f }
}

func NewStore[T any, PT domain.RecordPtr[T]](db *gorm.DB, log *zap.Logger, m *metrics.Collector, table string, opts ...Option) *Store[T, PT] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &Store[T, PT]{
		db:       db,
		log:      log,
		metrics:  m,
		table:    table,
		preloads: o.preloads,
		cascade:  o.cascade,
	}
}

func (s *Store[T, PT]) observe(op string, start time.Time) {
	if s.metrics != nil {
		s.metrics.DBQueryDuration.WithLabelValues(op, s.table).Observe(time.Since(start).Seconds())
	}
}

func (s *Store[T, PT]) withPreloads(tx *gorm.DB) *gorm.DB {
	for _, p := range s.preloads {
		tx = tx.Preload(p)
	}
	return tx
}

// GetAll returns every row, with the configured associations resolved in the
// same transaction.
func (s *Store[T, PT]) GetAll(ctx context.Context) ([]T, error) {
	defer s.observe("select_all", time.Now())

	var out []T
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.withPreloads(tx).Find(&out).Error
	})
	if err != nil {
		return nil, classify(err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// GetByID returns the row with the given id or ErrNotFound.
func (s *Store[T, PT]) GetByID(ctx context.Context, id uint) (*T, error) {
	defer s.observe("select_one", time.Now())

	var e T
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.withPreloads(tx).First(&e, "id = ?", id).Error
	})
	if err != nil {
		return nil, classify(err)
	}
	return &e, nil
}

// Insert persists a new row. The server assigns the id and the initial row
// version; any id supplied by the caller is discarded. Associated objects on
// the value are never written - related rows must exist already, and a
// foreign key that does not resolve yields ErrConstraintViolation.
func (s *Store[T, PT]) Insert(ctx context.Context, e *T) error {
	defer s.observe("insert", time.Now())

	rec := PT(e)
	rec.SetPrimaryKey(0)
	rec.SetVersion(1)

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(e).Error; err != nil {
		return classify(err)
	}
	return nil
}

// Update atomically replaces the row if and only if its stored version still
// equals expectedVersion, issuing version expectedVersion+1. When the guarded
// update touches no rows the row is re-checked inside the same transaction:
// a vanished row reports ErrNotFound, a surviving one ErrConflict.
func (s *Store[T, PT]) Update(ctx context.Context, id uint, e *T, expectedVersion int64) error {
	defer s.observe("update", time.Now())

	rec := PT(e)
	rec.SetPrimaryKey(id)
	rec.SetVersion(expectedVersion + 1)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(e).
			Select("*").
			Omit(clause.Associations, "id", "created_at").
			Where("row_version = ?", expectedVersion).
			Updates(e)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var n int64
			if err := tx.Model(e).Where("id = ?", id).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return ErrNotFound
			}
			return ErrConflict
		}
		return nil
	})
	return classify(err)
}

// Delete removes the row and, through the configured cascade, every row that
// transitively depends on it. The whole removal is one transaction; a
// concurrent reader never observes a half-deleted aggregate.
func (s *Store[T, PT]) Delete(ctx context.Context, id uint) error {
	defer s.observe("delete", time.Now())

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var e T
		if err := tx.First(&e, "id = ?", id).Error; err != nil {
			return err
		}
		if s.cascade != nil {
			if err := s.cascade(tx, id); err != nil {
				return err
			}
		}
		return tx.Delete(&e).Error
	})
	return classify(err)
}
