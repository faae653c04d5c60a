package sandbox

import "context"

type Runner interface {
	Render(in Input) Document
	CaptureOutput(ctx context.Context, script string) Output
	Run(ctx context.Context, in Input) Run
}
