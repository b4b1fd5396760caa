package repository

import (
	"context"
	"fmt"

	"github.com/codemasterspro/cmpro-bot/internal/model"
	"github.com/codemasterspro/cmpro-bot/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

type StudentRepository struct {
	pool *pgxpool.Pool
}

func NewStudentRepository(pool *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{pool: pool}
}

// Create создаёт нового студента
func (r *StudentRepository) Create(ctx context.Context, student *model.Student) error {
	query := `
		INSERT INTO students (telegram_id, full_name, phone, lang)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		student.TelegramID,
		student.FullName,
		student.Phone,
		student.Lang,
	).Scan(&student.ID, &student.CreatedAt, &student.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create student: %w", err)
	}

	return nil
}

// GetByTelegramID получает студента по Telegram ID
func (r *StudentRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*model.Student, error) {
	query := `
		SELECT id, telegram_id, full_name, phone, lang, created_at, updated_at
		FROM students
		WHERE telegram_id = $1
	`

	var student model.Student
	err := r.pool.QueryRow(ctx, query, telegramID).Scan(
		&student.ID,
		&student.TelegramID,
		&student.FullName,
		&student.Phone,
		&student.Lang,
		&student.CreatedAt,
		&student.UpdatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil // Студент не найден
		}
		return nil, fmt.Errorf("get student by telegram id: %w", err)
	}

	return &student, nil
}

// GetByID получает студента по ID
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*model.Student, error) {
	query := `
		SELECT id, telegram_id, full_name, phone, lang, created_at, updated_at
		FROM students
		WHERE id = $1
	`

	var student model.Student
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&student.ID,
		&student.TelegramID,
		&student.FullName,
		&student.Phone,
		&student.Lang,
		&student.CreatedAt,
		&student.UpdatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get student by id: %w", err)
	}

	return &student, nil
}

// UpdateProfile обновляет имя и телефон студента
func (r *StudentRepository) UpdateProfile(ctx context.Context, id int64, fullName, phone string) error {
	query := `
		UPDATE students
		SET full_name = $1, phone = $2, updated_at = now()
		WHERE id = $3
	`

	result, err := r.pool.Exec(ctx, query, fullName, phone, id)
	if err != nil {
		return fmt.Errorf("update student profile: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("student not found")
	}

	return nil
}

// UpdateLanguage обновляет язык студента
func (r *StudentRepository) UpdateLanguage(ctx context.Context, id int64, lang model.Language) error {
	query := `
		UPDATE students
		SET lang = $1, updated_at = now()
		WHERE id = $2
	`

	result, err := r.pool.Exec(ctx, query, lang, id)
	if err != nil {
		return fmt.Errorf("update student language: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("student not found")
	}

	return nil
}
