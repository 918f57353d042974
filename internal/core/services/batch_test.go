package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/toonc/internal/core/domain"
	"github.com/custodia-labs/toonc/internal/core/ports/driving"
)

// mockCompiler is a CompileService test double.
type mockCompiler struct {
	mu       sync.Mutex
	calls    []string
	inFlight atomic.Int32
	peak     atomic.Int32
	block    chan struct{}
	fail     map[string]error
}

func (m *mockCompiler) Compile(ctx context.Context, sourcePath, outputDir string, _ driving.CompileOptions) (*domain.CompileResult, error) {
	n := m.inFlight.Add(1)
	defer m.inFlight.Add(-1)
	for {
		peak := m.peak.Load()
		if n <= peak || m.peak.CompareAndSwap(peak, n) {
			break
		}
	}

	m.mu.Lock()
	m.calls = append(m.calls, sourcePath)
	m.mu.Unlock()

	if m.block != nil {
		<-m.block
	}
	if err := m.fail[sourcePath]; err != nil {
		return nil, err
	}
	id := strings.TrimSuffix(filepath.Base(sourcePath), filepath.Ext(sourcePath))
	return &domain.CompileResult{
		Document:   domain.Document{ID: id},
		OutputPath: filepath.Join(outputDir, id+".md"),
	}, nil
}

func (m *mockCompiler) Render(context.Context, string, string) (*domain.CompileResult, error) {
	return nil, domain.ErrNotImplemented
}

func (m *mockCompiler) Parse(context.Context, string) (domain.Document, error) {
	return domain.Document{}, domain.ErrNotImplemented
}

func (m *mockCompiler) ParseText(context.Context, string, string) (domain.Document, error) {
	return domain.Document{}, domain.ErrNotImplemented
}

func (m *mockCompiler) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func TestNewBuildService(t *testing.T) {
	assert.Equal(t, 4, NewBuildService(&mockCompiler{}, nil, 4).Workers())
	assert.Equal(t, 1, NewBuildService(&mockCompiler{}, nil, 0).Workers())
	assert.Equal(t, 1, NewBuildService(&mockCompiler{}, nil, -3).Workers())
}

func TestBuildService_BuildAll_KeepsInputOrder(t *testing.T) {
	compiler := &mockCompiler{fail: map[string]error{"b.toon": errors.New("boom")}}
	svc := NewBuildService(compiler, nil, 3)
	paths := []string{"a.toon", "b.toon", "c.toon", "d.toon", "e.toon"}

	outcomes := svc.BuildAll(context.Background(), paths, "out", driving.CompileOptions{})

	require.Len(t, outcomes, len(paths))
	for i, o := range outcomes {
		assert.Equal(t, paths[i], o.SourcePath)
	}
	assert.EqualError(t, outcomes[1].Err, "boom")
	assert.Nil(t, outcomes[1].Result)
	assert.Equal(t, filepath.Join("out", "e.md"), outcomes[4].Result.OutputPath)
	assert.Equal(t, 1, FailedCount(outcomes))
	assert.Equal(t, len(paths), compiler.callCount())
}

func TestBuildService_BuildAll_BoundsConcurrency(t *testing.T) {
	compiler := &mockCompiler{block: make(chan struct{})}
	svc := NewBuildService(compiler, nil, 2)
	paths := []string{"a.toon", "b.toon", "c.toon", "d.toon", "e.toon", "f.toon"}

	done := make(chan []domain.BuildOutcome)
	go func() {
		done <- svc.BuildAll(context.Background(), paths, "out", driving.CompileOptions{})
	}()
	for range paths {
		compiler.block <- struct{}{}
	}
	outcomes := <-done

	assert.Equal(t, 0, FailedCount(outcomes))
	assert.LessOrEqual(t, compiler.peak.Load(), int32(2))
}

func TestBuildService_BuildAll_Empty(t *testing.T) {
	outcomes := NewBuildService(&mockCompiler{}, nil, 2).BuildAll(context.Background(), nil, "out", driving.CompileOptions{})
	assert.Empty(t, outcomes)
}

func TestBuildService_BuildAll_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	compiler := &mockCompiler{}

	outcomes := NewBuildService(compiler, nil, 2).BuildAll(ctx, []string{"a.toon", "b.toon", "c.toon"}, "out", driving.CompileOptions{})

	require.Len(t, outcomes, 3)
	for _, o := range outcomes {
		assert.ErrorIs(t, o.Err, context.Canceled)
	}
	assert.Equal(t, 0, compiler.callCount())
}

func TestBuildService_BuildAll_RealCompiler(t *testing.T) {
	dir := t.TempDir()
	a := writeSource(t, dir, "a.toon", "## ID\nrole: Aria | aria\n")
	b := writeSource(t, dir, "b.toon", "## ID\nrole: Bea | bea\n")
	out := filepath.Join(dir, "out")

	outcomes := NewBuildService(newTestCompiler(t, nil), nil, 2).BuildAll(context.Background(), []string{a, b}, out, driving.CompileOptions{Validate: true})

	require.Equal(t, 0, FailedCount(outcomes))
	assert.FileExists(t, filepath.Join(out, "aria.md"))
	assert.FileExists(t, filepath.Join(out, "bea.md"))
	require.NotNil(t, outcomes[0].Result.Report)
}

func TestCollectSources(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "b.toon", "")
	writeSource(t, dir, "a.md", "")
	writeSource(t, dir, "notes.csv", "")
	writeSource(t, dir, ".hidden.toon", "")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0755))
	writeSource(t, filepath.Join(dir, "nested"), "c.TOON", "")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0755))
	writeSource(t, filepath.Join(dir, ".git"), "d.toon", "")
	direct := writeSource(t, t.TempDir(), "direct.csv", "")

	paths, err := CollectSources([]string{dir, direct, filepath.Join(dir, "b.toon")}, []string{".toon", ".md"})
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(dir, "a.md"),
		filepath.Join(dir, "b.toon"),
		filepath.Join(dir, "nested", "c.TOON"),
		direct,
	}, paths)
}

func TestBuildService_Expand(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "a.toon", "")
	writeSource(t, dir, "b.md", "")

	paths, err := NewBuildService(&mockCompiler{}, []string{".toon"}, 1).Expand([]string{dir})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.toon")}, paths)
}

func TestCollectSources_Missing(t *testing.T) {
	_, err := CollectSources([]string{filepath.Join(t.TempDir(), "nope")}, []string{".toon"})
	var stageErr *domain.StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, domain.StageRead, stageErr.Stage)
}
