package model

import "time"

type ReminderStatus string

const (
	ReminderStatusPending ReminderStatus = "pending" // Ещё не отправлено
	ReminderStatusSent    ReminderStatus = "sent"    // Напоминание отправлено
	ReminderStatusPaid    ReminderStatus = "paid"    // Оплата получена
)

type PaymentReminder struct {
	ID        int64          `json:"id"`
	StudentID int64          `json:"student_id"`
	DueAt     time.Time      `json:"due_at"`
	Status    ReminderStatus `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`

	// Студент для отправки уведомления (не из БД)
	Student *Student `json:"student,omitempty"`
}
