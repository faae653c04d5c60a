package app

import (
	"errors"

	"webdojo/internal/catalog"
	"webdojo/internal/grading"
	"webdojo/internal/progress"
)

var (
	// ErrValidation means the submission did not pass the length checks.
	// Nothing is recorded.
	ErrValidation = errors.New("solution needs more work")
	ErrSignedOut  = errors.New("sign in first")
)

type SubmitResult struct {
	Challenge        catalog.Challenge
	Validation       grading.Result
	Progress         progress.Progress
	AlreadyCompleted bool
	PointsAwarded    int
	NewAchievements  []string
	Next             *catalog.Challenge
}

// Card is one row of the challenge grid.
type Card struct {
	Challenge catalog.Challenge
	Status    progress.Status
}
