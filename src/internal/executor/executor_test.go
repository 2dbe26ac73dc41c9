package executor

import (
	"errors"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// Instantiates the new Executor through fx provider
func fxExecutor(t *testing.T) (Executor, *observer.ObservedLogs) {
	var e Executor
	core, recorded := observer.New(zap.InfoLevel)
	logger := zap.New(core).Sugar()

	fxtest.New(t,
		fx.Provide(
			func() Executor {
				return NewExecutor(WithLogger(logger))
			},
		),
		fx.Populate(&e),
	).RequireStart().RequireStop()

	return e, recorded
}

func TestModule(t *testing.T) {
	var e Executor
	fxtest.New(t,
		fx.Supply(zap.NewNop().Sugar()),
		Module,
		fx.Populate(&e),
	).RequireStart().RequireStop()
	assert.NotNil(t, e)
}

func TestStart(t *testing.T) {
	e, recorded := fxExecutor(t)

	t.Run("start and wait", func(t *testing.T) {
		binPath, err := exec.LookPath("true")
		if errors.Is(err, exec.ErrNotFound) {
			t.Skip("no true available")
		}
		require.NoError(t, err)

		cmd := exec.Command("true", "--server", "--port=1042")
		cmd.Dir = "/"
		require.NoError(t, e.Start(cmd))
		assert.NoError(t, cmd.Wait())

		logs := recorded.TakeAll()
		require.Len(t, logs, 1)
		assert.Equal(t, map[string]interface{}{
			"Path": binPath,
			"Dir":  "/",
			"Args": []interface{}{"--server", "--port=1042"},
		}, logs[0].ContextMap())
	})

	t.Run("with stdin", func(t *testing.T) {
		cmd := exec.Command("flowr", "--server")
		cmd.Stdin = strings.NewReader("SomeInput")

		var started *exec.Cmd
		e := NewExecutor(WithStartFunc(func(c *exec.Cmd) error {
			started = c
			return nil
		}))
		require.NoError(t, e.Start(cmd))
		assert.Same(t, cmd, started)
	})

	t.Run("unknown command", func(t *testing.T) {
		err := e.Start(exec.Command("no_valid_command_"))
		assert.Error(t, err)
	})

	t.Run("missing start func", func(t *testing.T) {
		e := NewExecutor(WithStartFunc(nil))
		assert.NoError(t, e.Start(exec.Command("flowr")))
	})
}
