package fsm

import (
	"errors"

	"github.com/codemasterspro/cmpro-bot/internal/service"
)

func isAlreadyEnrolled(err error) bool {
	return errors.Is(err, service.ErrAlreadyEnrolled)
}

func isDirectionNotFound(err error) bool {
	return errors.Is(err, service.ErrDirectionNotFound)
}

func isEnrollmentNotFound(err error) bool {
	return errors.Is(err, service.ErrEnrollmentNotFound)
}
