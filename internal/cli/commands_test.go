package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PayRam/go-dbquery/response"
)

// runCLI executes the root command with args and returns stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// useLocalDatabase creates a seeded SQLite file and points the config at it.
func useLocalDatabase(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cli.db")

	out, err := runCLI(t, "--format", "json", "local", "init", "--db", path, "--seed")
	require.NoError(t, err, out)

	var resp struct {
		Status string          `json:"status"`
		Data   LocalInitResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Seeded)

	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", path)
	t.Setenv("DB_POOL_MODE", "pool")
	t.Setenv("DB_MAX_OPEN_CONNS", "2")
	t.Setenv("DB_MAX_IDLE_CONNS", "1")
	t.Setenv("FAQ_TABLE", "cheery_exeedcars_faq")
	t.Setenv("MENU_TABLE", "sys_menu")
	t.Setenv("FAQ_FULL_ROWS", "false")
	t.Setenv("TRANSPORT_MODE", "http")
	t.Setenv("PORT", "8086")
	t.Setenv("LOG_LEVEL", "info")
	t.Setenv("LOG_FORMAT", "text")
	return path
}

func decodeRows(t *testing.T, out string) []response.Row {
	t.Helper()
	var resp struct {
		Status string         `json:"status"`
		Data   []response.Row `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	require.Equal(t, "ok", resp.Status)
	return resp.Data
}

func TestFAQCommand(t *testing.T) {
	useLocalDatabase(t)

	out, err := runCLI(t, "--format", "json", "faq", "--question", "battery", "--issue-module", "charging", "-n", "1")
	require.NoError(t, err)

	rows := decodeRows(t, out)
	require.Len(t, rows, 1)
	assert.Equal(t, "Battery warning light is on", rows[0]["question"])
}

func TestFAQCommand_InvalidLimit(t *testing.T) {
	useLocalDatabase(t)

	out, err := runCLI(t, "--format", "json", "faq", "--limit", "101")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, ErrCodeValidation)
}

func TestMenuCommand_RootParent(t *testing.T) {
	useLocalDatabase(t)

	out, err := runCLI(t, "--format", "json", "menu", "--parent-id", "0")
	require.NoError(t, err)

	rows := decodeRows(t, out)
	require.Len(t, rows, 1)
	assert.Equal(t, "System", rows[0]["menu_name"])
}

func TestStatsCommands(t *testing.T) {
	useLocalDatabase(t)

	out, err := runCLI(t, "--format", "json", "stats", "menu")
	require.NoError(t, err)

	var resp struct {
		Data response.MenuStatistics `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, int64(3), resp.Data.TotalCount)

	out, err = runCLI(t, "stats", "faq")
	require.NoError(t, err)
	assert.Contains(t, out, "total: 3")
}

func TestStatsCommand_MissingTable(t *testing.T) {
	useLocalDatabase(t)
	t.Setenv("MENU_TABLE", "no_such_menu")

	out, err := runCLI(t, "--format", "json", "stats", "menu")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, ErrCodeQueryExecution)
}

func TestLocalInit_RequiresDB(t *testing.T) {
	_, err := runCLI(t, "local", "init")
	assert.Error(t, err)
}

func TestServe_InvalidTransportOverride(t *testing.T) {
	useLocalDatabase(t)

	_, err := runCLI(t, "serve", "--transport", "carrier-pigeon")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
