package repository

import (
	"context"
	"fmt"

	"github.com/codemasterspro/cmpro-bot/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

type GroupRepository struct {
	pool *pgxpool.Pool
}

func NewGroupRepository(pool *pgxpool.Pool) *GroupRepository {
	return &GroupRepository{pool: pool}
}

// GetActiveByDirection получает активные группы направления
func (r *GroupRepository) GetActiveByDirection(ctx context.Context, directionID int64) ([]*model.Group, error) {
	query := `
		SELECT id, title, direction_id, is_active, created_at
		FROM groups
		WHERE direction_id = $1 AND is_active = true
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, directionID)
	if err != nil {
		return nil, fmt.Errorf("get groups by direction: %w", err)
	}
	defer rows.Close()

	var groups []*model.Group
	for rows.Next() {
		var group model.Group
		err := rows.Scan(
			&group.ID,
			&group.Title,
			&group.DirectionID,
			&group.IsActive,
			&group.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		groups = append(groups, &group)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate groups: %w", err)
	}

	return groups, nil
}

// Create создаёт группу (используется в seed)
func (r *GroupRepository) Create(ctx context.Context, group *model.Group) error {
	query := `
		INSERT INTO groups (title, direction_id, is_active)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query, group.Title, group.DirectionID, group.IsActive).
		Scan(&group.ID, &group.CreatedAt)

	if err != nil {
		return fmt.Errorf("create group: %w", err)
	}

	return nil
}
