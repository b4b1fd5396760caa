package model

import "time"

type EnrollmentStatus string

const (
	EnrollmentStatusPending  EnrollmentStatus = "pending"  // Ожидает решения администратора
	EnrollmentStatusApproved EnrollmentStatus = "approved" // Одобрена
	EnrollmentStatusRejected EnrollmentStatus = "rejected" // Отклонена
)

type Enrollment struct {
	ID          int64            `json:"id"`
	StudentID   int64            `json:"student_id"`
	DirectionID int64            `json:"direction_id"`
	Status      EnrollmentStatus `json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`

	// Дополнительные поля для админ-панели (не из БД)
	Student   *Student   `json:"student,omitempty"`
	Direction *Direction `json:"direction,omitempty"`
}
