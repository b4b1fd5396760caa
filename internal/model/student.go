package model

import "time"

type Language string

const (
	LangRussian Language = "ru"
	LangKazakh  Language = "kk"
)

type Student struct {
	ID         int64     `json:"id"`
	TelegramID int64     `json:"telegram_id"`
	FullName   string    `json:"full_name"`
	Phone      string    `json:"phone"`
	Lang       Language  `json:"lang"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
