package preview

import (
	"context"

	"webdojo/internal/app"
	"webdojo/internal/catalog"
	"webdojo/internal/progress"
	"webdojo/internal/sandbox"
)

// Backend is the slice of the application the server needs.
type Backend interface {
	Cards() []app.Card
	Challenge(id int) (catalog.Challenge, error)
	Status(id int) (progress.Status, error)
	Progress() progress.Progress
	Stats() progress.Stats
	Run(ctx context.Context, in sandbox.Input) sandbox.Run
	Submit(ctx context.Context, id int, in sandbox.Input) (app.SubmitResult, error)
}

type Logger interface {
	Info(msg string, fields map[string]any)
	Error(msg string, fields map[string]any)
}
