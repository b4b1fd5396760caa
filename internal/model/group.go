package model

import "time"

type Group struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	DirectionID int64     `json:"direction_id"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}
