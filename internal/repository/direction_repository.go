package repository

import (
	"context"
	"fmt"

	"github.com/codemasterspro/cmpro-bot/internal/model"
	"github.com/codemasterspro/cmpro-bot/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DirectionRepository struct {
	pool *pgxpool.Pool
}

func NewDirectionRepository(pool *pgxpool.Pool) *DirectionRepository {
	return &DirectionRepository{pool: pool}
}

// GetAllActive получает все активные направления
func (r *DirectionRepository) GetAllActive(ctx context.Context) ([]*model.Direction, error) {
	query := `
		SELECT id, code, title, description, is_active, created_at
		FROM directions
		WHERE is_active = true
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get active directions: %w", err)
	}
	defer rows.Close()

	var directions []*model.Direction
	for rows.Next() {
		var direction model.Direction
		err := rows.Scan(
			&direction.ID,
			&direction.Code,
			&direction.Title,
			&direction.Description,
			&direction.IsActive,
			&direction.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan direction: %w", err)
		}
		directions = append(directions, &direction)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate directions: %w", err)
	}

	return directions, nil
}

// GetByCode получает активное направление по коду
func (r *DirectionRepository) GetByCode(ctx context.Context, code model.DirectionCode) (*model.Direction, error) {
	query := `
		SELECT id, code, title, description, is_active, created_at
		FROM directions
		WHERE code = $1 AND is_active = true
	`

	var direction model.Direction
	err := r.pool.QueryRow(ctx, query, code).Scan(
		&direction.ID,
		&direction.Code,
		&direction.Title,
		&direction.Description,
		&direction.IsActive,
		&direction.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil // Направление не найдено
		}
		return nil, fmt.Errorf("get direction by code: %w", err)
	}

	return &direction, nil
}

// GetByID получает направление по ID
func (r *DirectionRepository) GetByID(ctx context.Context, id int64) (*model.Direction, error) {
	query := `
		SELECT id, code, title, description, is_active, created_at
		FROM directions
		WHERE id = $1
	`

	var direction model.Direction
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&direction.ID,
		&direction.Code,
		&direction.Title,
		&direction.Description,
		&direction.IsActive,
		&direction.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get direction by id: %w", err)
	}

	return &direction, nil
}

// Create создаёт направление (используется в seed)
func (r *DirectionRepository) Create(ctx context.Context, direction *model.Direction) error {
	query := `
		INSERT INTO directions (code, title, description, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		direction.Code,
		direction.Title,
		direction.Description,
		direction.IsActive,
	).Scan(&direction.ID, &direction.CreatedAt)

	if err != nil {
		return fmt.Errorf("create direction: %w", err)
	}

	return nil
}
