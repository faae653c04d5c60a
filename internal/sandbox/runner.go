package sandbox

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dop251/goja"
	"github.com/dop251/goja/parser"
)

const (
	defaultTimeout      = 2 * time.Second
	defaultMaxCallStack = 1024
)

// stackOverflowMessage is what browsers report for runaway recursion.
const stackOverflowMessage = "Maximum call stack size exceeded"

var (
	errTimedOut  = errors.New("execution timed out")
	errCancelled = errors.New("execution cancelled")
)

type Manager struct {
	timeout      time.Duration
	maxCallStack int
}

func NewManager(opts Options) *Manager {
	m := &Manager{timeout: opts.Timeout, maxCallStack: opts.MaxCallStack}
	if m.timeout <= 0 {
		m.timeout = defaultTimeout
	}
	if m.maxCallStack <= 0 {
		m.maxCallStack = defaultMaxCallStack
	}
	return m
}

// Render composes the preview page. The stylesheet sits in the head so it
// applies before first paint, and the script follows the markup so it sees
// the body nodes.
func (m *Manager) Render(in Input) Document {
	var b strings.Builder
	b.Grow(len(in.Markup) + len(in.Style) + len(in.Script) + 160)
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<style>")
	b.WriteString(in.Style)
	b.WriteString("</style>\n</head>\n<body>\n")
	b.WriteString(in.Markup)
	b.WriteString("\n<script>")
	b.WriteString(in.Script)
	b.WriteString("</script>\n</body>\n</html>\n")
	return Document{HTML: b.String()}
}

// CaptureOutput runs script in a fresh interpreter whose only global
// capability is a console that records each call as one line.
func (m *Manager) CaptureOutput(ctx context.Context, script string) Output {
	if strings.TrimSpace(script) == "" {
		return silent()
	}

	prog, msg, ok := compile(script)
	if !ok {
		return Output{Err: errorText(msg)}
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	vm := goja.New()
	vm.SetMaxCallStackSize(m.maxCallStack)

	var lines []string
	capture := func(call goja.FunctionCall) goja.Value {
		parts := make([]string, 0, len(call.Arguments))
		for _, arg := range call.Arguments {
			parts = append(parts, joinable(arg))
		}
		lines = append(lines, strings.Join(parts, " "))
		return goja.Undefined()
	}
	console := vm.NewObject()
	for _, name := range []string{"log", "info", "warn", "error", "debug"} {
		if err := console.Set(name, capture); err != nil {
			return Output{Err: errorText(err.Error())}
		}
	}
	if err := vm.Set("console", console); err != nil {
		return Output{Err: errorText(err.Error())}
	}

	stop := context.AfterFunc(ctx, func() {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			vm.Interrupt(errTimedOut)
			return
		}
		vm.Interrupt(errCancelled)
	})
	defer stop()

	if _, err := vm.RunProgram(prog); err != nil {
		return Output{Err: errorText(exceptionMessage(err))}
	}
	if len(lines) == 0 {
		return silent()
	}
	return Output{Lines: lines}
}

// Run is the editor's run action: compose the preview and capture the
// script's console.
func (m *Manager) Run(ctx context.Context, in Input) Run {
	started := time.Now()
	doc := m.Render(in)
	out := m.CaptureOutput(ctx, in.Script)
	return Run{Document: doc, Output: out, Elapsed: time.Since(started)}
}

func silent() Output {
	return Output{Lines: []string{NoConsoleOutput}, Silent: true}
}

func errorText(msg string) string {
	return "Error: " + msg
}

// joinable converts an argument the way Array.prototype.join does.
func joinable(v goja.Value) string {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return ""
	}
	return v.String()
}

// compile parses and compiles script, returning the bare parser message
// on failure. The message carries no file or position prefix.
func compile(script string) (*goja.Program, string, bool) {
	tree, err := parser.ParseFile(nil, "", script, 0, parser.WithDisableSourceMaps)
	if err != nil {
		var list parser.ErrorList
		if errors.As(err, &list) && len(list) > 0 {
			return nil, list[0].Message, false
		}
		return nil, err.Error(), false
	}
	prog, err := goja.CompileAST(tree, false)
	if err != nil {
		var syntax *goja.CompilerSyntaxError
		if errors.As(err, &syntax) {
			return nil, syntax.Message, false
		}
		return nil, err.Error(), false
	}
	return prog, "", true
}

func exceptionMessage(err error) string {
	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		if cause, ok := interrupted.Value().(error); ok {
			return cause.Error()
		}
		return errTimedOut.Error()
	}
	var overflow *goja.StackOverflowError
	if errors.As(err, &overflow) {
		return stackOverflowMessage
	}
	var ex *goja.Exception
	if errors.As(err, &ex) {
		return thrownMessage(ex.Value())
	}
	return err.Error()
}

// thrownMessage reads error.message from whatever was thrown. Primitives
// have no message property, so they read as "undefined".
func thrownMessage(v goja.Value) string {
	if v == nil {
		return "undefined"
	}
	obj, ok := v.(*goja.Object)
	if !ok {
		return "undefined"
	}
	msg := obj.Get("message")
	if msg == nil || goja.IsUndefined(msg) {
		return "undefined"
	}
	return msg.String()
}
