package domain

import (
	"context"
	"time"
)

// Model carries the columns shared by every table: the server-assigned
// integer key, timestamps, and the optimistic-concurrency token. RowVersion
// changes on every successful write; an update must present the version it
// read or it is rejected.
type Model struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
	RowVersion int64     `gorm:"column:row_version;not null;default:1" json:"rowVersion"`
}

func (m *Model) PrimaryKey() uint      { return m.ID }
func (m *Model) SetPrimaryKey(id uint) { m.ID = id }
func (m *Model) Version() int64        { return m.RowVersion }
func (m *Model) SetVersion(v int64)    { m.RowVersion = v }

// Record is the contract every persisted entity satisfies, usually by
// embedding Model.
type Record interface {
	PrimaryKey() uint
	SetPrimaryKey(uint)
	Version() int64
	SetVersion(int64)
}

// RecordPtr constrains a pointer type to both *T and Record, which lets
// generic stores and services allocate values and still reach the shared
// key/version accessors.
type RecordPtr[T any] interface {
	*T
	Record
}

// Gateway is the persistence contract the entity services depend on. All
// operations may block on I/O and honor ctx cancellation up to the point a
// transaction starts; a started transaction always commits or rolls back
// whole.
type Gateway[T any] interface {
	GetAll(ctx context.Context) ([]T, error)
	GetByID(ctx context.Context, id uint) (*T, error)
	Insert(ctx context.Context, e *T) error
	Update(ctx context.Context, id uint, e *T, expectedVersion int64) error
	Delete(ctx context.Context, id uint) error
}

// Normalizer lets an entity canonicalize its fields (trim strings, fix
// decimal scale) before validation and persistence.
type Normalizer interface {
	Normalize()
}
