package service

import "errors"

var (
	// ErrAlreadyEnrolled у студента уже есть активная заявка на направление
	ErrAlreadyEnrolled = errors.New("already enrolled")
	// ErrDirectionNotFound направление не найдено или не активно
	ErrDirectionNotFound = errors.New("direction not found")
	// ErrEnrollmentNotFound заявка не найдена
	ErrEnrollmentNotFound = errors.New("enrollment not found")
)
