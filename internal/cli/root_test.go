package cli_test

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/dynamic-streams-projector-go/internal/cli"
)

func Test_RootCommand_HasSubcommands(t *testing.T) {
	cmd := cli.NewRootCommand()

	for _, name := range []string{"schema", "catch-up", "append-demo"} {
		t.Run(name, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, subCmd.Name())
		})
	}
}

func Test_RootCommand_GlobalFlags(t *testing.T) {
	cmd := cli.NewRootCommand()

	logLevel := cmd.PersistentFlags().Lookup("log-level")
	require.NotNil(t, logLevel)
	assert.Equal(t, "info", logLevel.DefValue)

	format := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, format)
	assert.Equal(t, "text", format.DefValue)
}

func Test_RootCommand_When_FlagsAreInvalid_Fails(t *testing.T) {
	testCases := map[string][]string{
		"format":    {"schema", "--format", "yaml"},
		"log level": {"schema", "--log-level", "chatty"},
	}

	for name, args := range testCases {
		t.Run(name, func(t *testing.T) {
			_, err := execute(t, args...)
			assert.Error(t, err)
		})
	}
}

func Test_Commands_AppendDemoThenCatchUp_ProjectsTheHistory(t *testing.T) {
	// setup
	givenSQLiteEnvironment(t)

	// arrange
	_, err := execute(t, "schema", "--events")
	require.NoError(t, err)
	_, err = execute(t, "append-demo", "--orders", "3")
	require.NoError(t, err)

	// act
	out, err := execute(t, "catch-up", "--format", "json")

	// assert
	require.NoError(t, err)
	assert.JSONEq(t, `{"projection":"orders","batches":1,"events":4,"skipped":0,"position":4}`, out)
}

func Test_Commands_CatchUp_When_RunTwice_ContinuesFromCheckpoint(t *testing.T) {
	// setup
	givenSQLiteEnvironment(t)

	// arrange
	_, err := execute(t, "schema", "--events")
	require.NoError(t, err)
	_, err = execute(t, "append-demo", "--orders", "1")
	require.NoError(t, err)
	_, err = execute(t, "catch-up")
	require.NoError(t, err)
	_, err = execute(t, "append-demo", "--orders", "2")
	require.NoError(t, err)

	// act
	out, err := execute(t, "catch-up")

	// assert
	require.NoError(t, err)
	assert.Equal(t, "orders: 2 events in 1 batches (0 skipped), position 3", strings.TrimSpace(out))
}

func Test_Commands_AppendDemo_When_OrdersIsNotPositive_Fails(t *testing.T) {
	// setup
	givenSQLiteEnvironment(t)

	// act
	_, err := execute(t, "append-demo", "--orders", "0")

	// assert
	assert.ErrorContains(t, err, "--orders must be greater than zero")
}

func givenSQLiteEnvironment(t *testing.T) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", filepath.Join(t.TempDir(), "projector.db"))
	t.Setenv("PROJECTOR_ADAPTER", "sqlite")
	t.Setenv("PROJECTOR_SQLITE_DSN", dsn)
	t.Setenv("PROJECTOR_BATCH_SIZE", "10")
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := cli.NewRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return stdout.String(), err
}
