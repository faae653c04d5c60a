package app

import (
	"context"

	"webdojo/internal/progress"
)

type ProgressStore interface {
	Load(ctx context.Context) (progress.Progress, error)
	Save(ctx context.Context, p progress.Progress) error
}

type Logger interface {
	Info(msg string, fields map[string]any)
	Error(msg string, fields map[string]any)
	Close() error
}
