package grading

import (
	"webdojo/internal/catalog"
	"webdojo/internal/sandbox"
)

type Grader interface {
	Validate(ch catalog.Challenge, in sandbox.Input) Result
}
