package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/codemasterspro/cmpro-bot/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

type LessonRepository struct {
	pool *pgxpool.Pool
}

func NewLessonRepository(pool *pgxpool.Pool) *LessonRepository {
	return &LessonRepository{pool: pool}
}

// GetUpcoming получает будущие занятия, ближайшие первыми
func (r *LessonRepository) GetUpcoming(ctx context.Context, limit int) ([]*model.Lesson, error) {
	query := `
		SELECT l.id, l.group_id, l.topic, l.starts_at, l.ends_at, l.created_at,
		       g.id, g.title, g.direction_id, g.is_active, g.created_at,
		       d.id, d.code, d.title, d.description, d.is_active, d.created_at
		FROM lessons l
		JOIN groups g ON g.id = l.group_id
		JOIN directions d ON d.id = g.direction_id
		WHERE l.starts_at > $1
		ORDER BY l.starts_at
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, time.Now(), limit)
	if err != nil {
		return nil, fmt.Errorf("get upcoming lessons: %w", err)
	}
	defer rows.Close()

	var lessons []*model.Lesson
	for rows.Next() {
		var lesson model.Lesson
		var group model.Group
		var direction model.Direction

		err := rows.Scan(
			&lesson.ID,
			&lesson.GroupID,
			&lesson.Topic,
			&lesson.StartsAt,
			&lesson.EndsAt,
			&lesson.CreatedAt,
			&group.ID,
			&group.Title,
			&group.DirectionID,
			&group.IsActive,
			&group.CreatedAt,
			&direction.ID,
			&direction.Code,
			&direction.Title,
			&direction.Description,
			&direction.IsActive,
			&direction.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan lesson: %w", err)
		}

		lesson.Group = &group
		lesson.Direction = &direction
		lessons = append(lessons, &lesson)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lessons: %w", err)
	}

	return lessons, nil
}

// Create создаёт занятие (используется в seed)
func (r *LessonRepository) Create(ctx context.Context, lesson *model.Lesson) error {
	query := `
		INSERT INTO lessons (group_id, topic, starts_at, ends_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query, lesson.GroupID, lesson.Topic, lesson.StartsAt, lesson.EndsAt).
		Scan(&lesson.ID, &lesson.CreatedAt)

	if err != nil {
		return fmt.Errorf("create lesson: %w", err)
	}

	return nil
}
