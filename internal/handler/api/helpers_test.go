//go:build unit

package api_test

import (
	"library-circulation/internal/usecase/commands"

	"github.com/google/uuid"
)

func commandsResult(cancelled ...uuid.UUID) commands.SweepResult {
	if cancelled == nil {
		cancelled = []uuid.UUID{}
	}
	return commands.SweepResult{
		CancelledCount: len(cancelled),
		CancelledIDs:   cancelled,
		FailedIDs:      []uuid.UUID{},
	}
}
