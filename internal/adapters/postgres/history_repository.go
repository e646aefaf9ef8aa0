package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inferprompt/inferprompt/internal/domain"
	"github.com/inferprompt/inferprompt/internal/domain/models"
	"github.com/inferprompt/inferprompt/internal/ports"
)

// HistoryRepository implements ports.HistoryRepository
type HistoryRepository struct {
	BaseRepository
	tx *TransactionManager
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(pool *pgxpool.Pool) *HistoryRepository {
	return &HistoryRepository{
		BaseRepository: NewBaseRepository(pool),
		tx:             NewTransactionManager(pool),
	}
}

// Save writes the record and its components atomically.
func (r *HistoryRepository) Save(ctx context.Context, record *models.OptimizationRecord) error {
	return r.tx.WithTransaction(ctx, func(ctx context.Context) error {
		query := `
			INSERT INTO optimized_prompts (
				id, user_prompt, optimized_prompt, target_model,
				effectiveness_score, rationale, created_at
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7
			)`

		_, err := r.conn(ctx).Exec(ctx, query,
			record.ID,
			record.UserPrompt,
			record.FullPrompt,
			record.TargetModel,
			record.EffectivenessScore,
			record.Rationale,
			record.CreatedAt,
		)
		if err != nil {
			return err
		}

		componentQuery := `
			INSERT INTO prompt_components (
				prompt_id, component_type, content, position
			) VALUES (
				$1, $2, $3, $4
			)`

		for _, c := range record.Components {
			_, err := r.conn(ctx).Exec(ctx, componentQuery,
				record.ID,
				c.Type.String(),
				c.Content,
				c.Position,
			)
			if err != nil {
				return err
			}
		}

		return nil
	})
}

// GetByID returns a record with its components ordered by position.
func (r *HistoryRepository) GetByID(ctx context.Context, id string) (*models.OptimizationRecord, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, user_prompt, optimized_prompt, target_model,
		       effectiveness_score, rationale, created_at
		FROM optimized_prompts
		WHERE id = $1`

	record, err := r.scanRecord(r.conn(ctx).QueryRow(ctx, query, id))
	if err != nil {
		if checkNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	components, err := r.loadComponents(ctx, id)
	if err != nil {
		return nil, err
	}
	record.Components = components

	return record, nil
}

// List returns records newest first plus the total count matching the
// filter. Listed records carry no components, GetByID loads them.
func (r *HistoryRepository) List(ctx context.Context, filter ports.HistoryFilter) ([]*models.OptimizationRecord, int, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	where := ""
	args := []any{}
	argPos := 1

	if filter.Model != "" {
		where = fmt.Sprintf(" WHERE target_model = $%d", argPos)
		args = append(args, filter.Model)
		argPos++
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM optimized_prompts` + where
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, user_prompt, optimized_prompt, target_model,
		       effectiveness_score, rationale, created_at
		FROM optimized_prompts` + where + `
		ORDER BY created_at DESC` +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	records, err := r.scanRecords(rows)
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func (r *HistoryRepository) loadComponents(ctx context.Context, promptID string) ([]models.PromptComponent, error) {
	query := `
		SELECT component_type, content, position
		FROM prompt_components
		WHERE prompt_id = $1
		ORDER BY position`

	rows, err := r.conn(ctx).Query(ctx, query, promptID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var components []models.PromptComponent
	for rows.Next() {
		var c models.PromptComponent
		var componentType string

		if err := rows.Scan(&componentType, &c.Content, &c.Position); err != nil {
			return nil, err
		}

		c.Type = models.ComponentType(componentType)
		components = append(components, c)
	}

	return components, rows.Err()
}

func (r *HistoryRepository) scanRecord(row pgx.Row) (*models.OptimizationRecord, error) {
	var record models.OptimizationRecord

	err := row.Scan(
		&record.ID,
		&record.UserPrompt,
		&record.FullPrompt,
		&record.TargetModel,
		&record.EffectivenessScore,
		&record.Rationale,
		&record.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *HistoryRepository) scanRecords(rows pgx.Rows) ([]*models.OptimizationRecord, error) {
	records := make([]*models.OptimizationRecord, 0)

	for rows.Next() {
		var record models.OptimizationRecord

		err := rows.Scan(
			&record.ID,
			&record.UserPrompt,
			&record.FullPrompt,
			&record.TargetModel,
			&record.EffectivenessScore,
			&record.Rationale,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		records = append(records, &record)
	}

	return records, rows.Err()
}
