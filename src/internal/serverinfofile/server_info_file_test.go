package serverinfofile

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/config"
	"go.uber.org/fx/fxtest"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestNew(t *testing.T) {
	lifecycleMock := fxtest.NewLifecycle(t)

	tests := []struct {
		name    string
		params  Params
		wantErr bool
	}{
		{
			name: "all required params are present",
			params: Params{
				Lifecycle: lifecycleMock,
				Config:    newConfigProvider(t, "valid"),
				Logger:    zap.NewNop().Sugar(),
			},
			wantErr: false,
		},
		{
			name: "config processing error",
			params: Params{
				Lifecycle: lifecycleMock,
				Config:    newConfigProvider(t, "missingKey"),
				Logger:    zap.NewNop().Sugar(),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.params)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestOnStop(t *testing.T) {
	t.Run("file removed", func(t *testing.T) {
		tempFile, err := os.CreateTemp(t.TempDir(), "server")
		require.NoError(t, err)
		tempFile.Close()

		m := module{
			logger:   zap.NewNop().Sugar(),
			infofile: tempFile.Name(),
		}

		require.NoError(t, m.OnStop(context.Background()))
		_, err = os.Stat(tempFile.Name())
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("file never written", func(t *testing.T) {
		m := module{
			logger:   zap.NewNop().Sugar(),
			infofile: filepath.Join(t.TempDir(), "server.json"),
		}
		assert.NoError(t, m.OnStop(context.Background()))
	})

	t.Run("file removal error", func(t *testing.T) {
		// A non-empty directory cannot be removed with os.Remove.
		tempDir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(tempDir, "keep"), []byte("x"), 0644))

		m := module{
			logger:   zap.NewNop().Sugar(),
			infofile: tempDir,
		}
		assert.Error(t, m.OnStop(context.Background()))
	})
}

func TestUpdateField(t *testing.T) {
	t.Run("multiple successful updates", func(t *testing.T) {
		infofile := filepath.Join(t.TempDir(), "nested", "server.json")
		m := module{
			infofile:     infofile,
			logger:       zap.NewNop().Sugar(),
			fileContents: make(map[string]string),
		}

		steps := []struct {
			key        string
			value      string
			expectJSON string
		}{
			{
				key:        "lsp-address",
				value:      "127.0.0.1:27883",
				expectJSON: `{"lsp-address":"127.0.0.1:27883"}`,
			},
			{
				key:        "flowr-address",
				value:      "tcp://localhost:1042",
				expectJSON: `{"flowr-address":"tcp://localhost:1042","lsp-address":"127.0.0.1:27883"}`,
			},
			{
				key:        "lsp-address",
				value:      "127.0.0.1:27884",
				expectJSON: `{"flowr-address":"tcp://localhost:1042","lsp-address":"127.0.0.1:27884"}`,
			},
		}

		for _, step := range steps {
			require.NoError(t, m.UpdateField(step.key, step.value))
			assert.Equal(t, step.value, m.fileContents[step.key])
			contents, err := os.ReadFile(infofile)
			require.NoError(t, err)
			assert.JSONEq(t, step.expectJSON, string(contents))
		}
	})

	t.Run("file write failure", func(t *testing.T) {
		// A directory in place of the file forces a write failure.
		m := module{
			infofile:     t.TempDir(),
			logger:       zap.NewNop().Sugar(),
			fileContents: make(map[string]string),
		}
		assert.Error(t, m.UpdateField("key", "value"))
	})
}

func TestProcessConfig(t *testing.T) {
	tests := []struct {
		name        string
		configKey   string
		wantErr     bool
		errorString string
	}{
		{
			name:      "valid configuration",
			configKey: "valid",
		},
		{
			name:        "missing path key",
			configKey:   "missingKey",
			wantErr:     true,
			errorString: "missing field \"serverInfoFilePath\" in config",
		},
		{
			name:        "missing path value",
			configKey:   "missingValue",
			wantErr:     true,
			errorString: "missing field \"serverInfoFilePath\" in config",
		},
		{
			name:      "incorrectly formatted entry",
			configKey: "formatProblem",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := module{logger: zap.NewNop().Sugar()}
			err := m.processConfig(newConfigProvider(t, tt.configKey))

			if !tt.wantErr {
				assert.NoError(t, err)
				assert.Equal(t, "/sample/.flsp/server.json", m.infofile)
				return
			}
			require.Error(t, err)
			if tt.errorString != "" {
				assert.Equal(t, tt.errorString, err.Error())
			}
		})
	}
}

func newConfigProvider(t *testing.T, configKey string) config.Provider {
	configs := map[string]string{
		"valid": `
serverInfoFilePath: /sample/.flsp/server.json`,
		"missingKey": `
jsonrpc:
  address: :5859`,
		"missingValue": `
serverInfoFilePath:`,
		"formatProblem": `
serverInfoFilePath:
  key: val`,
	}

	provider, err := config.NewYAML(config.Source(strings.NewReader(configs[configKey])))
	require.NoError(t, err)
	return provider
}
