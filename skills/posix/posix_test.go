package posix

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/skillmesh/core"
	"github.com/hupe1980/skillmesh/engine"
)

func newTestEngine(t *testing.T, root string) *engine.Engine {
	t.Helper()
	s, err := New(root)
	require.NoError(t, err)
	e := engine.New()
	e.RegisterSkill(s)
	return e
}

func TestNew_ValidatesRoot(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	_, err = New(file)
	assert.ErrorContains(t, err, "not a directory")
}

func TestWriteThenReadFile(t *testing.T) {
	root := t.TempDir()
	e := newTestEngine(t, root)

	_, value, events, err := e.RunSync(context.Background(), "s1", "posix.write_file",
		map[string]any{"filename": "notes/todo.txt", "content": "buy milk"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "notes/todo.txt", value)

	require.NotEmpty(t, events)
	assert.Equal(t, core.EventInformation, events[0].Type)
	assert.Contains(t, events[0].Message, "notes/todo.txt")

	_, value, _, err = e.RunSync(context.Background(), "s1", "posix.read_file",
		map[string]any{"filename": "notes/todo.txt"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "buy milk", value)
}

func TestReadFile_Missing(t *testing.T) {
	e := newTestEngine(t, t.TempDir())

	_, _, _, err := e.RunSync(context.Background(), "s1", "posix.read_file",
		map[string]any{"filename": "nope.txt"}, nil)
	assert.ErrorContains(t, err, "failed to read nope.txt")
}

func TestReadFile_MissingArgument(t *testing.T) {
	e := newTestEngine(t, t.TempDir())

	_, _, _, err := e.RunSync(context.Background(), "s1", "posix.read_file", nil, nil)
	assert.ErrorContains(t, err, "required field is missing")
}

func TestLs(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("a"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(root, "sub"), 0o755))

	e := newTestEngine(t, root)

	_, value, _, err := e.RunSync(context.Background(), "s1", "posix.ls", nil, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.txt", "sub/"}, value)

	_, value, _, err = e.RunSync(context.Background(), "s1", "posix.ls",
		map[string]any{"path": "sub"}, nil)
	require.NoError(t, err)
	assert.Empty(t, value)
}

func TestPathsStayInsideRoot(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "sandbox")
	require.NoError(t, os.Mkdir(root, 0o755))

	// A sibling file outside the sandbox must be unreachable.
	require.NoError(t, os.WriteFile(filepath.Join(parent, "secret.txt"), []byte("secret"), 0o644))

	e := newTestEngine(t, root)

	_, _, _, err := e.RunSync(context.Background(), "s1", "posix.read_file",
		map[string]any{"filename": "../secret.txt"}, nil)
	require.Error(t, err, "traversal must not read outside the root")

	// Writes with traversal components land inside the root instead.
	_, _, _, err = e.RunSync(context.Background(), "s1", "posix.write_file",
		map[string]any{"filename": "../escaped.txt", "content": "contained"}, nil)
	require.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(parent, "escaped.txt"))
	assert.True(t, os.IsNotExist(statErr))
	data, readErr := os.ReadFile(filepath.Join(root, "escaped.txt"))
	require.NoError(t, readErr)
	assert.Equal(t, "contained", string(data))
}
