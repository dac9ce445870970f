package upload

import (
	"errors"
	"fmt"
)

type Status string

const (
	StatusIdle      Status = "idle"
	StatusUploading Status = "uploading"
	StatusSuccess   Status = "success"
	StatusError     Status = "error"
)

var ErrInvalidTransition = errors.New("invalid upload status transition")

// validTransitions lists every allowed move. success and error only go back
// to idle through Reset.
var validTransitions = map[Status][]Status{
	StatusIdle:      {StatusUploading, StatusError},
	StatusUploading: {StatusSuccess, StatusError},
	StatusSuccess:   {StatusIdle},
	StatusError:     {StatusIdle},
}

func IsTransitionAllowed(from, to Status) bool {
	for _, allowed := range validTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func transition(from, to Status) error {
	if !IsTransitionAllowed(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}
