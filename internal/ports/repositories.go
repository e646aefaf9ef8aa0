package ports

import (
	"context"

	"github.com/inferprompt/inferprompt/internal/domain/models"
)

// EfficacyData is the durable slice of the efficacy model: everything a
// storage backend persists, without the in-memory-only weights and
// generation counter.
type EfficacyData struct {
	ComponentEfficacy map[models.EfficacyKey]float64
	PositionEffects   map[models.PositionKey]float64
	ModelAdjustments  map[string]map[models.AdjustmentKey]float64
	DomainAdjustments map[string]map[models.AdjustmentKey]float64
}

// EfficacyRepository defines operations for efficacy persistence
type EfficacyRepository interface {
	// SaveComponentEfficacy upserts one (component, target) efficacy value.
	SaveComponentEfficacy(ctx context.Context, key models.EfficacyKey, value float64) error

	// LoadEfficacy returns everything persisted so far. Missing tables or an
	// empty database yield empty maps, not an error.
	LoadEfficacy(ctx context.Context) (*EfficacyData, error)
}

// HistoryFilter narrows history listings. A zero Model matches all models.
type HistoryFilter struct {
	Limit  int
	Offset int
	Model  string
}

// HistoryRepository defines operations for optimization history persistence
type HistoryRepository interface {
	// Save writes one optimization record with its components.
	Save(ctx context.Context, record *models.OptimizationRecord) error

	// GetByID returns a record with its ordered components, or
	// domain.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.OptimizationRecord, error)

	// List returns records ordered by creation time descending, plus the
	// total count matching the filter before limit/offset.
	List(ctx context.Context, filter HistoryFilter) ([]*models.OptimizationRecord, int, error)
}

// Store bundles the repositories one storage backend provides, so commands
// can swap postgres for sqlite without re-wiring.
type Store interface {
	Efficacy() EfficacyRepository
	History() HistoryRepository

	// EnsureSchema creates missing tables. Safe to call on every start.
	EnsureSchema(ctx context.Context) error

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	Close()
}

// TransactionManager handles database transactions
type TransactionManager interface {
	// WithTransaction executes a function within a database transaction
	// If the function returns an error, the transaction is rolled back
	// Otherwise, the transaction is committed
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// IDGenerator generates unique IDs for entities
type IDGenerator interface {
	// GenerateOptimizationID generates a new optimization record ID (pr_xxx)
	GenerateOptimizationID() string
}
