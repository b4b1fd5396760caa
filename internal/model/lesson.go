package model

import "time"

type Lesson struct {
	ID        int64     `json:"id"`
	GroupID   int64     `json:"group_id"`
	Topic     string    `json:"topic"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
	CreatedAt time.Time `json:"created_at"`

	// Дополнительные поля для вывода расписания (не из БД)
	Group     *Group     `json:"group,omitempty"`
	Direction *Direction `json:"direction,omitempty"`
}
