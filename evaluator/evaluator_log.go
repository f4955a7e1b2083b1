package evaluator

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/podhmo/daro/object"
)

// logc logs a message with the evaluator position and the innermost script
// call frame attached.
func (e *Evaluator) logc(ctx context.Context, level slog.Level, msg string, args ...any) {
	// usually depth is 2, because logc is called from other functions
	e.logcWithCallerDepth(ctx, level, 2, msg, args...)
}

// for user, use logc instead of this function
func (e *Evaluator) logcWithCallerDepth(ctx context.Context, level slog.Level, depth int, msg string, args ...any) {
	if !e.logger.Enabled(ctx, level) {
		return
	}

	_, file, line, ok := runtime.Caller(depth)
	if ok {
		args = append([]any{slog.String("exec_pos", fmt.Sprintf("%s:%d", file, line))}, args...)
	}

	if len(e.callStack) > 0 {
		frame := e.callStack[len(e.callStack)-1]
		contextArgs := []any{
			slog.String("in_func", frame.Function),
			slog.String("in_func_pos", frame.Pos.String()),
		}
		args = append(contextArgs, args...)
	}

	// an *object.Error would be rendered with its whole stack
	for i, arg := range args {
		if err, ok := arg.(*object.Error); ok {
			args[i] = slog.String("error", err.Message)
		}
	}

	e.logger.Log(ctx, level, msg, args...)
}
