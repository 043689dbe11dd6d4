package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil error", err: nil, expected: 0},
		{name: "validation", err: ValidationError("bad flag").Build(), expected: 2},
		{name: "not found", err: NotFoundError("catalog missing").Build(), expected: 3},
		{name: "io", err: IOError("write failed").Build(), expected: 4},
		{name: "composition", err: CompositionError("region moved").Build(), expected: 6},
		{name: "config", err: ConfigError("no token").Build(), expected: 7},
		{name: "repository", err: RepositoryError("clone failed").Build(), expected: 8},
		{name: "timeout", err: TimeoutError("push timed out").Build(), expected: 9},
		{name: "wrapped timeout", err: fmt.Errorf("run: %w", TimeoutError("push").Build()), expected: 9},
		{name: "unclassified", err: stderrors.New("boom"), expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, adapter.ExitCodeFor(tt.err))
		})
	}
}

func TestCLIErrorAdapter_HandleError(t *testing.T) {
	var logBuf, outBuf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logBuf, nil))
	adapter := NewCLIErrorAdapter(false, logger)
	adapter.out = &outBuf
	code := -1
	adapter.exit = func(c int) { code = c }

	adapter.HandleError(ConfigError("token required").WithContext("mode", "repo").Build())

	assert.Equal(t, 7, code)
	assert.Equal(t, "Error (config): token required\n", outBuf.String())
	assert.Contains(t, logBuf.String(), "mode=repo")
	assert.Contains(t, logBuf.String(), "category=config")
}

func TestCLIErrorAdapter_FormatVerbose(t *testing.T) {
	adapter := NewCLIErrorAdapter(true, slog.Default())
	err := WrapError(stderrors.New("EOF"), CategoryRepository, "push failed").Build()
	assert.Equal(t, "Error: [repository:error] push failed: EOF", adapter.FormatError(err))
	assert.Empty(t, adapter.FormatError(nil))
}
