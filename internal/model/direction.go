package model

import "time"

// DirectionCode код направления обучения
type DirectionCode string

const (
	DirectionPython        DirectionCode = "python"
	DirectionJavaScript    DirectionCode = "js"
	DirectionGo            DirectionCode = "go"
	DirectionDataAnalytics DirectionCode = "da"
)

type Direction struct {
	ID          int64         `json:"id"`
	Code        DirectionCode `json:"code"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	IsActive    bool          `json:"is_active"`
	CreatedAt   time.Time     `json:"created_at"`
}
