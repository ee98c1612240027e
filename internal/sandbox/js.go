package sandbox

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dop251/goja"
)

// JS executes JavaScript in a fresh goja runtime per run.
type JS struct{}

// NewJS creates a JavaScript executor.
func NewJS() *JS {
	return &JS{}
}

// Execute runs source and collects console output.
func (j *JS) Execute(ctx context.Context, source string, timeout time.Duration) Result {
	buf := &logBuffer{}
	return settle(ctx, timeout, buf, func(ctx context.Context) Result {
		vm := goja.New()

		go func() {
			<-ctx.Done()
			vm.Interrupt("execution timeout or cancelled")
		}()

		if err := setupConsole(vm, buf); err != nil {
			return Result{Error: fmt.Sprintf("failed to setup environment: %v", err)}
		}

		if _, err := vm.RunString(source); err != nil {
			var interrupted *goja.InterruptedError
			if errors.As(err, &interrupted) {
				return Result{Logs: buf.Lines(), Error: fmt.Sprintf("execution interrupted: %v", interrupted.Value()), TimedOut: true}
			}
			return Result{Logs: buf.Lines(), Error: err.Error()}
		}
		return Result{Logs: buf.Lines()}
	})
}

// setupConsole installs console.log and friends plus a bare print.
func setupConsole(vm *goja.Runtime, buf *logBuffer) error {
	printFunc := func(call goja.FunctionCall) goja.Value {
		args := make([]string, len(call.Arguments))
		for i, arg := range call.Arguments {
			args[i] = formatValue(arg)
		}
		buf.WriteLine(strings.Join(args, " "))
		return goja.Undefined()
	}

	console := vm.NewObject()
	for _, name := range []string{"log", "info", "warn", "error", "debug"} {
		if err := console.Set(name, printFunc); err != nil {
			return fmt.Errorf("failed to set console.%s: %w", name, err)
		}
	}
	if err := vm.Set("console", console); err != nil {
		return fmt.Errorf("failed to set console: %w", err)
	}
	if err := vm.Set("print", printFunc); err != nil {
		return fmt.Errorf("failed to set print: %w", err)
	}
	return nil
}

// formatValue renders a value the way a browser console shows it in a
// single line: arrays in brackets, everything else by its string form.
func formatValue(val goja.Value) string {
	if val == nil || goja.IsUndefined(val) {
		return "undefined"
	}
	if goja.IsNull(val) {
		return "null"
	}
	if items, ok := val.Export().([]any); ok {
		parts := make([]string, len(items))
		for i, item := range items {
			parts[i] = fmt.Sprintf("%v", item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return val.String()
}
