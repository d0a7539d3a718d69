// Package service holds the quiz bot use cases: settings, access control,
// progress tracking, quiz navigation, administration and broadcasting.
package service

import "errors"

var (
	// ErrNoContent is returned when a quiz has no group to start from.
	ErrNoContent = errors.New("quiz has no questions")
	// ErrStaleAnswer is returned when an answer targets a question the user already moved past.
	ErrStaleAnswer = errors.New("answer is no longer current")
	// ErrInvalidInput reports admin input that cannot be applied.
	ErrInvalidInput = errors.New("invalid input")
)
