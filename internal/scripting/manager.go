package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Executor runs one console command line.
type Executor interface {
	Execute(line string) error
}

// Manager runs configuration scripts against an Executor. Every load gets a
// fresh sandboxed VM that is closed when the load returns.
type Manager struct {
	exec      Executor
	logger    *zap.Logger
	instLimit int
}

// NewManager creates a Manager.
//
// Precondition: exec and logger must be non-nil; instLimit >= 0, 0 uses
// DefaultInstructionLimit.
// Postcondition: Returns a non-nil Manager.
func NewManager(exec Executor, logger *zap.Logger, instLimit int) *Manager {
	if exec == nil {
		panic("scripting: NewManager: exec must not be nil")
	}
	if logger == nil {
		panic("scripting: NewManager: logger must not be nil")
	}
	return &Manager{exec: exec, logger: logger, instLimit: instLimit}
}

// Load runs the configuration script at path. When path is a directory,
// every *.lua file in it runs in lexicographic order in one VM.
//
// Postcondition: Returns an error on a missing path, a Lua syntax or
// runtime error, or an exhausted instruction budget. Commands executed
// before the failure stay executed.
func (m *Manager) Load(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("scripting: reading configuration script %q: %w", path, err)
	}
	files := []string{path}
	if info.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return fmt.Errorf("scripting: reading script dir %q: %w", path, err)
		}
		files = files[:0]
		for _, e := range entries {
			if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
				files = append(files, filepath.Join(path, e.Name()))
			}
		}
		sort.Strings(files)
	}

	return m.run(func(L *lua.LState) error {
		for _, f := range files {
			if err := L.DoFile(f); err != nil {
				return fmt.Errorf("scripting: loading %q: %w", f, err)
			}
			m.logger.Debug("configuration script loaded", zap.String("path", f))
		}
		return nil
	})
}

// RunString runs src as a configuration script named name.
func (m *Manager) RunString(name, src string) error {
	return m.run(func(L *lua.LState) error {
		fn, err := L.LoadString(src)
		if err != nil {
			return fmt.Errorf("scripting: loading %q: %w", name, err)
		}
		L.Push(fn)
		if err := L.PCall(0, lua.MultRet, nil); err != nil {
			return fmt.Errorf("scripting: running %q: %w", name, err)
		}
		return nil
	})
}

func (m *Manager) run(body func(L *lua.LState) error) error {
	L, cancel := NewSandboxedState(m.instLimit)
	defer L.Close()
	defer cancel()
	m.RegisterModules(L)
	return body(L)
}
