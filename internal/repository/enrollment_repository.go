package repository

import (
	"context"
	"fmt"

	"github.com/codemasterspro/cmpro-bot/internal/model"
	"github.com/codemasterspro/cmpro-bot/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EnrollmentRepository struct {
	pool *pgxpool.Pool
}

func NewEnrollmentRepository(pool *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{pool: pool}
}

// CreateIfNoActive создаёт заявку, если у студента нет активной (pending/approved)
// заявки на это направление. Проверка и вставка выполняются в одной транзакции.
// Возвращает created=false, если активная заявка уже есть.
func (r *EnrollmentRepository) CreateIfNoActive(ctx context.Context, studentID, directionID int64) (*model.Enrollment, bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var existingID int64
	err = tx.QueryRow(ctx, `
		SELECT id FROM enrollments
		WHERE student_id = $1 AND direction_id = $2 AND status IN ('pending', 'approved')
		LIMIT 1
	`, studentID, directionID).Scan(&existingID)

	if err == nil {
		return nil, false, nil // Активная заявка уже существует
	}
	if err != pgx.ErrNoRows {
		return nil, false, fmt.Errorf("check existing enrollment: %w", err)
	}

	enrollment := &model.Enrollment{
		StudentID:   studentID,
		DirectionID: directionID,
		Status:      model.EnrollmentStatusPending,
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO enrollments (student_id, direction_id, status)
		VALUES ($1, $2, 'pending')
		RETURNING id, created_at, updated_at
	`, studentID, directionID).Scan(&enrollment.ID, &enrollment.CreatedAt, &enrollment.UpdatedAt)

	if err != nil {
		return nil, false, fmt.Errorf("create enrollment: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, false, fmt.Errorf("commit transaction: %w", err)
	}

	return enrollment, true, nil
}

// GetByID получает заявку по ID вместе со студентом и направлением
func (r *EnrollmentRepository) GetByID(ctx context.Context, id int64) (*model.Enrollment, error) {
	query := `
		SELECT e.id, e.student_id, e.direction_id, e.status, e.created_at, e.updated_at,
		       s.id, s.telegram_id, s.full_name, s.phone, s.lang, s.created_at, s.updated_at,
		       d.id, d.code, d.title, d.description, d.is_active, d.created_at
		FROM enrollments e
		JOIN students s ON s.id = e.student_id
		JOIN directions d ON d.id = e.direction_id
		WHERE e.id = $1
	`

	enrollment, err := scanEnrollmentRow(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil // Заявка не найдена
		}
		return nil, fmt.Errorf("get enrollment by id: %w", err)
	}

	return enrollment, nil
}

// GetPending получает pending заявки с пагинацией, новые первыми
func (r *EnrollmentRepository) GetPending(ctx context.Context, limit, offset int) ([]*model.Enrollment, error) {
	query := `
		SELECT e.id, e.student_id, e.direction_id, e.status, e.created_at, e.updated_at,
		       s.id, s.telegram_id, s.full_name, s.phone, s.lang, s.created_at, s.updated_at,
		       d.id, d.code, d.title, d.description, d.is_active, d.created_at
		FROM enrollments e
		JOIN students s ON s.id = e.student_id
		JOIN directions d ON d.id = e.direction_id
		WHERE e.status = 'pending'
		ORDER BY e.created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("get pending enrollments: %w", err)
	}
	defer rows.Close()

	var enrollments []*model.Enrollment
	for rows.Next() {
		enrollment, err := scanEnrollmentRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan enrollment: %w", err)
		}
		enrollments = append(enrollments, enrollment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate enrollments: %w", err)
	}

	return enrollments, nil
}

// CountPending считает количество pending заявок
func (r *EnrollmentRepository) CountPending(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM enrollments WHERE status = 'pending'`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count pending enrollments: %w", err)
	}
	return count, nil
}

// UpdateStatusFromPending переводит заявку из pending в новый статус.
// Возвращает false, если заявка уже не в статусе pending (повторное нажатие).
func (r *EnrollmentRepository) UpdateStatusFromPending(ctx context.Context, id int64, status model.EnrollmentStatus) (bool, error) {
	query := `
		UPDATE enrollments
		SET status = $1, updated_at = now()
		WHERE id = $2 AND status = 'pending'
	`

	result, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return false, fmt.Errorf("update enrollment status: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

func scanEnrollmentRow(row pgx.Row) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	var student model.Student
	var direction model.Direction

	err := row.Scan(
		&enrollment.ID,
		&enrollment.StudentID,
		&enrollment.DirectionID,
		&enrollment.Status,
		&enrollment.CreatedAt,
		&enrollment.UpdatedAt,
		&student.ID,
		&student.TelegramID,
		&student.FullName,
		&student.Phone,
		&student.Lang,
		&student.CreatedAt,
		&student.UpdatedAt,
		&direction.ID,
		&direction.Code,
		&direction.Title,
		&direction.Description,
		&direction.IsActive,
		&direction.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	enrollment.Student = &student
	enrollment.Direction = &direction
	return &enrollment, nil
}
