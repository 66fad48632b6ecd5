package domain

import "errors"

var (
	// ErrNoQuestions is returned when the question source yields no usable pool.
	ErrNoQuestions = errors.New("question pool is empty")
	// ErrNoSelection is returned when advancing without a chosen answer.
	ErrNoSelection = errors.New("no answer selected")
	// ErrSessionLocked rejects a second answer for an already-answered question.
	ErrSessionLocked = errors.New("question already answered")
	// ErrSessionFinished rejects input after the session reached a terminal phase.
	ErrSessionFinished = errors.New("session already finished")
	// ErrOptionNotFound indicates a submitted option index is out of range.
	ErrOptionNotFound = errors.New("option index out of range")
	// ErrAttemptNotFound indicates an unknown remote attempt record.
	ErrAttemptNotFound = errors.New("attempt not found")
	// ErrClaimNotFound indicates no stored claim for a kiosk.
	ErrClaimNotFound = errors.New("claim not found")
)
