package cli

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/toonc/internal/core/domain"
)

func TestHistoryCmd_HasFlags(t *testing.T) {
	limit := historyCmd.Flags().Lookup("limit")
	require.NotNil(t, limit)
	assert.Equal(t, "n", limit.Shorthand)
	assert.Equal(t, "20", limit.DefValue)
	assert.NotNil(t, historyCmd.Flags().Lookup("source"))
}

func TestHistoryCmd_Empty(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()

	out, err := runCommand(t, "history")

	require.NoError(t, err)
	assert.Contains(t, out, "No compiles recorded.")
}

func TestHistoryCmd_ListsCompiles(t *testing.T) {
	env, cleanup := setupTestServices(t)
	defer cleanup()
	src := env.writeNovelEditor(t)

	_, err := runCommand(t, "compile", src, "--validate")
	require.NoError(t, err)

	out, err := runCommand(t, "history")

	require.NoError(t, err)
	assert.Contains(t, out, src+" -> ")
	assert.Contains(t, out, "100.0")
}

func TestHistoryCmd_NotValidated(t *testing.T) {
	env, cleanup := setupTestServices(t)
	defer cleanup()
	src := env.writeNovelEditor(t)

	_, err := runCommand(t, "compile", src)
	require.NoError(t, err)

	out, err := runCommand(t, "history")

	require.NoError(t, err)
	assert.Contains(t, out, "not validated")
}

func TestHistoryCmd_SourceAndJSON(t *testing.T) {
	env, cleanup := setupTestServices(t)
	defer cleanup()
	ctx := context.Background()
	require.NoError(t, env.builds.Save(ctx, domain.BuildRecord{
		ID: "a", SourcePath: "agents/a.toon", OutputPath: "out/a.md", CreatedAt: time.Now(),
	}))
	require.NoError(t, env.builds.Save(ctx, domain.BuildRecord{
		ID: "b", SourcePath: "agents/b.toon", OutputPath: "out/b.md", CreatedAt: time.Now(),
	}))

	out, err := runCommand(t, "history", "--source", "agents/b.toon", "--json")

	require.NoError(t, err)
	var records []domain.BuildRecord
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "b", records[0].ID)
}

func TestHistoryCmd_JSONEmptyIsArray(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()

	out, err := runCommand(t, "history", "--json")

	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)
}

func TestHistoryCmd_Limit(t *testing.T) {
	env, cleanup := setupTestServices(t)
	defer cleanup()
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, env.builds.Save(ctx, domain.BuildRecord{
			ID: id, SourcePath: id + ".toon", CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	out, err := runCommand(t, "history", "-n", "2", "--json")

	require.NoError(t, err)
	var records []domain.BuildRecord
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 2)
	assert.Equal(t, "c", records[0].ID)
}
