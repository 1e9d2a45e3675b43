// Package posix provides a filesystem skill sandboxed to a root directory:
// reading, writing and listing files from routine bodies.
package posix

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hupe1980/skillmesh/core"
	"github.com/hupe1980/skillmesh/routine"
	"github.com/hupe1980/skillmesh/skill"
)

type posixSkill struct {
	root string
}

type readFileArgs struct {
	Filename string `json:"filename" description:"Path of the file to read, relative to the skill root"`
}

type writeFileArgs struct {
	Filename string `json:"filename" description:"Path of the file to write, relative to the skill root"`
	Content  string `json:"content" description:"Content to write"`
}

type lsArgs struct {
	Path *string `json:"path,omitempty" description:"Directory to list, relative to the skill root"`
}

// New builds the posix skill rooted at dir. Every path argument is resolved
// relative to dir and rejected if it escapes it.
func New(dir string) (*skill.Skill, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve posix skill root: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("posix skill root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("posix skill root %s is not a directory", root)
	}

	ps := &posixSkill{root: root}

	return skill.New("posix", "Sandboxed filesystem access",
		routine.NewFunctionRoutineFromStruct("read_file", "Read the contents of a file", readFileArgs{}, ps.readFile),
		routine.NewFunctionRoutineFromStruct("write_file", "Write content to a file", writeFileArgs{}, ps.writeFile),
		routine.NewFunctionRoutineFromStruct("ls", "List directory entries", lsArgs{}, ps.ls),
	)
}

// resolve joins a relative path onto the root, rejecting escapes.
func (p *posixSkill) resolve(rel string) (string, error) {
	abs := filepath.Join(p.root, filepath.Clean("/"+rel))
	if abs != p.root && !strings.HasPrefix(abs, p.root+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q escapes the skill root", rel)
	}
	return abs, nil
}

func (p *posixSkill) readFile(
	rc *core.RunContext,
	_ *core.StateFrame,
	_ core.EmitFn,
	_ core.RunRoutineFn,
	_ core.AskUserFn,
	args map[string]any,
) (any, error) {
	filename, _ := args["filename"].(string)
	abs, err := p.resolve(filename)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	rc.Log(map[string]any{"routine": "posix.read_file", "filename": filename, "bytes": len(data)})
	return string(data), nil
}

func (p *posixSkill) writeFile(
	rc *core.RunContext,
	_ *core.StateFrame,
	emit core.EmitFn,
	_ core.RunRoutineFn,
	_ core.AskUserFn,
	args map[string]any,
) (any, error) {
	filename, _ := args["filename"].(string)
	content, _ := args["content"].(string)
	abs, err := p.resolve(filename)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create parent directory for %s: %w", filename, err)
	}
	if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", filename, err)
	}
	emit(core.NewInformationEvent(rc.RunID, fmt.Sprintf("Wrote %s (%d bytes).", filename, len(content))))
	return filename, nil
}

func (p *posixSkill) ls(
	_ *core.RunContext,
	_ *core.StateFrame,
	_ core.EmitFn,
	_ core.RunRoutineFn,
	_ core.AskUserFn,
	args map[string]any,
) (any, error) {
	rel := "."
	if s, ok := args["path"].(string); ok && s != "" {
		rel = s
	}
	abs, err := p.resolve(rel)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", rel, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			name += "/"
		}
		names = append(names, name)
	}
	return names, nil
}
