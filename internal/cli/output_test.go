package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitError_Message(t *testing.T) {
	err := NewExitError(ExitCommandError, "bad flag")
	assert.Equal(t, "bad flag", err.Error())
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestExitError_Wrapped(t *testing.T) {
	inner := errors.New("connection refused")
	err := WrapExitError(ExitFailure, "server error", inner)

	assert.Equal(t, "server error: connection refused", err.Error())
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestGetExitCode_PlainError(t *testing.T) {
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("boom")))
}

func TestGetExitCode_Nil(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
}

func TestGetExitCode_WrappedExitError(t *testing.T) {
	// errors.As must see through plain wrapping
	err := WrapExitError(ExitCommandError, "outer", NewExitError(ExitFailure, "inner"))
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestConfigureLogLevel(t *testing.T) {
	require.NoError(t, configureLogLevel("debug"))
	require.NoError(t, configureLogLevel("WARN"))
	assert.Error(t, configureLogLevel("loud"))
}

func TestWriteJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	err := writeJSON(buf, map[string]any{"earned": 2.5})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 2.5, decoded["earned"])
}
