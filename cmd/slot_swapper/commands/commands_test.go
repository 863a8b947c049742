package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("ENV", "test")
	storageDriver = ""

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestAudit_CleanMemoryStore(t *testing.T) {
	out, err := run(t, "audit", "--storage", "memory")
	require.NoError(t, err)
	assert.Contains(t, out, "no violations")
}

func TestMigrate_RequiresPostgres(t *testing.T) {
	_, err := run(t, "migrate", "--storage", "sqlite")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only the postgres driver")
}

func TestBot_RequiresToken(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "")
	_, err := run(t, "bot", "--storage", "memory")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TELEGRAM_TOKEN")
}

func TestRoot_InvalidStorage(t *testing.T) {
	_, err := run(t, "audit", "--storage", "mongo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown STORAGE_DRIVER")
}
