package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/inferprompt/inferprompt/internal/domain"
	"github.com/inferprompt/inferprompt/internal/domain/models"
	"github.com/inferprompt/inferprompt/internal/ports"
)

// HistoryRepository implements ports.HistoryRepository. Timestamps are kept
// as unix nanoseconds so ORDER BY stays exact.
type HistoryRepository struct {
	db *sql.DB
}

func (r *HistoryRepository) Save(ctx context.Context, record *models.OptimizationRecord) error {
	components, err := msgpack.Marshal(record.Components)
	if err != nil {
		return fmt.Errorf("encode components: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO optimized_prompts (
			id, user_prompt, optimized_prompt, target_model,
			effectiveness_score, rationale, components, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.UserPrompt,
		record.FullPrompt,
		record.TargetModel,
		record.EffectivenessScore,
		record.Rationale,
		components,
		record.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("save optimization: %w", err)
	}
	return nil
}

func (r *HistoryRepository) GetByID(ctx context.Context, id string) (*models.OptimizationRecord, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_prompt, optimized_prompt, target_model,
		       effectiveness_score, rationale, components, created_at
		FROM optimized_prompts
		WHERE id = ?`, id)

	var record models.OptimizationRecord
	var components []byte
	var createdAt int64

	err := row.Scan(
		&record.ID,
		&record.UserPrompt,
		&record.FullPrompt,
		&record.TargetModel,
		&record.EffectivenessScore,
		&record.Rationale,
		&components,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	record.CreatedAt = time.Unix(0, createdAt).UTC()

	if len(components) > 0 {
		if err := msgpack.Unmarshal(components, &record.Components); err != nil {
			return nil, fmt.Errorf("decode components: %w", err)
		}
		sort.Slice(record.Components, func(i, j int) bool {
			return record.Components[i].Position < record.Components[j].Position
		})
	}

	return &record, nil
}

func (r *HistoryRepository) List(ctx context.Context, filter ports.HistoryFilter) ([]*models.OptimizationRecord, int, error) {
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
	if filter.Model != "" {
		where = " WHERE target_model = ?"
		args = append(args, filter.Model)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM optimized_prompts`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, user_prompt, optimized_prompt, target_model,
		       effectiveness_score, rationale, created_at
		FROM optimized_prompts` + where + `
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	records := make([]*models.OptimizationRecord, 0)
	for rows.Next() {
		var record models.OptimizationRecord
		var createdAt int64

		err := rows.Scan(
			&record.ID,
			&record.UserPrompt,
			&record.FullPrompt,
			&record.TargetModel,
			&record.EffectivenessScore,
			&record.Rationale,
			&createdAt,
		)
		if err != nil {
			return nil, 0, err
		}

		record.CreatedAt = time.Unix(0, createdAt).UTC()
		records = append(records, &record)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return records, total, nil
}
