package usecase

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrInternal        = errors.New("internal error")
	ErrJobNotParsed    = errors.New("job has no parsed profile")
	ErrProfileNotFound = errors.New("profile not found")
)

func internal(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrInternal, op, err)
}
