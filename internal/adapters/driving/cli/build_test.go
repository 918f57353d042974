package cli

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/toonc/internal/core/domain"
)

func TestBuildCmd_RequiresArgs(t *testing.T) {
	_, err := runCommand(t, "build")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg(s)")
}

func TestBuildCmd_CompilesDirectory(t *testing.T) {
	env, cleanup := setupTestServices(t)
	defer cleanup()
	env.writeFile(t, "agents/one.toon", "## ID\nrole: One | agent_one\n")
	env.writeFile(t, "agents/nested/two.toon", "## ID\nrole: Two | agent_two\n")
	env.writeFile(t, "agents/.hidden/three.toon", "## ID\nrole: Three | agent_three\n")
	env.writeFile(t, "agents/notes.txt", "not a source")

	out, err := runCommand(t, "build", filepath.Join(env.dir, "agents"))

	require.NoError(t, err)
	assert.Contains(t, out, "2 compiled, 0 failed")
	assert.FileExists(t, filepath.Join(env.outputDir, "agent_one.md"))
	assert.FileExists(t, filepath.Join(env.outputDir, "agent_two.md"))
	assert.NoFileExists(t, filepath.Join(env.outputDir, "agent_three.md"))
}

func TestBuildCmd_OutputFlag(t *testing.T) {
	env, cleanup := setupTestServices(t)
	defer cleanup()
	src := env.writeFile(t, "one.toon", "## ID\nrole: One | agent_one\n")
	dir := filepath.Join(env.dir, "custom")

	_, err := runCommand(t, "build", src, "--output", dir)

	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "agent_one.md"))
}

func TestBuildCmd_MissingPath(t *testing.T) {
	env, cleanup := setupTestServices(t)
	defer cleanup()

	_, err := runCommand(t, "build", filepath.Join(env.dir, "nowhere"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "build failed")
}

func TestBuildCmd_EmptyDirectory(t *testing.T) {
	env, cleanup := setupTestServices(t)
	defer cleanup()

	out, err := runCommand(t, "build", env.dir)

	require.NoError(t, err)
	assert.Contains(t, out, "No sources found.")
}

func TestBuildCmd_ReportsFailures(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()
	buildService = &mockBuildService{outcomes: []domain.BuildOutcome{
		{SourcePath: "a.toon", Result: &domain.CompileResult{OutputPath: "out/a.md"}},
		{SourcePath: "b.toon", Err: errors.New("parse b.toon: broken")},
	}}

	out, err := runCommand(t, "build", "a.toon", "b.toon")

	require.Error(t, err)
	assert.Equal(t, "1 of 2 sources failed", err.Error())
	assert.Contains(t, out, "compiled a.toon -> out/a.md")
	assert.Contains(t, out, "failed b.toon: parse b.toon: broken")
	assert.Contains(t, out, "1 compiled, 1 failed")
}
