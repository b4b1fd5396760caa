package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/codemasterspro/cmpro-bot/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReminderRepository struct {
	pool *pgxpool.Pool
}

func NewReminderRepository(pool *pgxpool.Pool) *ReminderRepository {
	return &ReminderRepository{pool: pool}
}

// Create создаёт напоминание об оплате
func (r *ReminderRepository) Create(ctx context.Context, reminder *model.PaymentReminder) error {
	query := `
		INSERT INTO payment_reminders (student_id, due_at, status)
		VALUES ($1, $2, 'pending')
		RETURNING id, status, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query, reminder.StudentID, reminder.DueAt).
		Scan(&reminder.ID, &reminder.Status, &reminder.CreatedAt, &reminder.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create payment reminder: %w", err)
	}

	return nil
}

// GetDue получает pending напоминания с наступившим сроком
func (r *ReminderRepository) GetDue(ctx context.Context, now time.Time) ([]*model.PaymentReminder, error) {
	query := `
		SELECT pr.id, pr.student_id, pr.due_at, pr.status, pr.created_at, pr.updated_at,
		       s.id, s.telegram_id, s.full_name, s.phone, s.lang, s.created_at, s.updated_at
		FROM payment_reminders pr
		JOIN students s ON s.id = pr.student_id
		WHERE pr.status = 'pending' AND pr.due_at <= $1
		ORDER BY pr.due_at
	`

	rows, err := r.pool.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("get due reminders: %w", err)
	}
	defer rows.Close()

	var reminders []*model.PaymentReminder
	for rows.Next() {
		var reminder model.PaymentReminder
		var student model.Student

		err := rows.Scan(
			&reminder.ID,
			&reminder.StudentID,
			&reminder.DueAt,
			&reminder.Status,
			&reminder.CreatedAt,
			&reminder.UpdatedAt,
			&student.ID,
			&student.TelegramID,
			&student.FullName,
			&student.Phone,
			&student.Lang,
			&student.CreatedAt,
			&student.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan reminder: %w", err)
		}

		reminder.Student = &student
		reminders = append(reminders, &reminder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reminders: %w", err)
	}

	return reminders, nil
}

// MarkSent помечает напоминание отправленным
func (r *ReminderRepository) MarkSent(ctx context.Context, id int64) error {
	query := `
		UPDATE payment_reminders
		SET status = 'sent', updated_at = now()
		WHERE id = $1 AND status = 'pending'
	`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("mark reminder sent: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("reminder not found or already processed")
	}

	return nil
}
