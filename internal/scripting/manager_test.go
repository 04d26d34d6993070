package scripting_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/arsenal/internal/scripting"
)

type recordingExecutor struct {
	lines []string
	fail  map[string]bool
}

func (r *recordingExecutor) Execute(line string) error {
	if r.fail[line] {
		return errors.New("rejected")
	}
	r.lines = append(r.lines, line)
	return nil
}

func newTestManager(t testing.TB) (*scripting.Manager, *recordingExecutor, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	exec := &recordingExecutor{}
	return scripting.NewManager(exec, zap.New(core), 0), exec, logs
}

func TestManager_RunString_SlotGlobals(t *testing.T) {
	mgr, exec, _ := newTestManager(t)
	require.NoError(t, mgr.RunString("keyconf", `
		weaponsection("legacy")
		setslot(3, "Shotgun", "SuperShotgun")
		setslot("4")
		addslot(2, "Pistol")
		addslotdefault(1, "Fist")
	`))
	assert.Equal(t, []string{
		`weaponsection "legacy"`,
		"setslot 3 Shotgun SuperShotgun",
		"setslot 4",
		"addslot 2 Pistol",
		"addslotdefault 1 Fist",
	}, exec.lines)
}

func TestManager_RunString_BadCallsSkipped(t *testing.T) {
	mgr, exec, logs := newTestManager(t)
	require.NoError(t, mgr.RunString("keyconf", `
		setslot()
		setslot(2.5, "Pistol")
		setslot(3, {})
		setslot(3, "Super Shotgun")
		addslot(2)
		addslot(2, "Pistol", "Fist")
		addslotdefault(true, "Fist")
		weaponsection("")
		weaponsection(7)
		addslot(5, "Chaingun")
	`))
	assert.Equal(t, []string{"addslot 5 Chaingun"}, exec.lines, "the script keeps running after bad calls")
	assert.Equal(t, 9, logs.FilterMessage("scripting: bad configuration call").Len())
}

func TestManager_RunString_ExecutorErrorLogged(t *testing.T) {
	mgr, exec, logs := newTestManager(t)
	exec.fail = map[string]bool{"addslot 2 Pistol": true}
	require.NoError(t, mgr.RunString("keyconf", `addslot(2, "Pistol") addslot(3, "Shotgun")`))
	assert.Equal(t, []string{"addslot 3 Shotgun"}, exec.lines)
	entries := logs.FilterMessage("scripting: command failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "addslot 2 Pistol", entries[0].ContextMap()["line"])
}

func TestManager_RunString_Errors(t *testing.T) {
	mgr, exec, _ := newTestManager(t)
	assert.Error(t, mgr.RunString("syntax", `this is not valid lua @@@@`))
	assert.Error(t, mgr.RunString("runtime", `addslot(1, "Fist") error("boom")`))
	assert.Equal(t, []string{"addslot 1 Fist"}, exec.lines, "commands before the failure stay executed")
}

func TestManager_InstructionLimit(t *testing.T) {
	exec := &recordingExecutor{}
	mgr := scripting.NewManager(exec, zap.NewNop(), 50)
	assert.Error(t, mgr.RunString("loop", `while true do end`))
}

func TestManager_Load_DirectoryInNameOrder(t *testing.T) {
	mgr, exec, _ := newTestManager(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.lua"), []byte(`addslot(slot, "Pistol")`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.lua"), []byte(`slot = 2 setslot(slot)`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte(`not lua`), 0644))

	require.NoError(t, mgr.Load(dir))
	assert.Equal(t, []string{"setslot 2", "addslot 2 Pistol"}, exec.lines)
}

func TestManager_Load_File(t *testing.T) {
	mgr, exec, _ := newTestManager(t)
	path := filepath.Join(t.TempDir(), "keyconf.lua")
	require.NoError(t, os.WriteFile(path, []byte(`for i = 1, 3 do addslot(i, "Fist") end`), 0644))

	require.NoError(t, mgr.Load(path))
	assert.Equal(t, []string{"addslot 1 Fist", "addslot 2 Fist", "addslot 3 Fist"}, exec.lines)
}

func TestManager_Load_Errors(t *testing.T) {
	mgr, _, _ := newTestManager(t)
	assert.Error(t, mgr.Load(filepath.Join(t.TempDir(), "absent.lua")))

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.lua"), []byte(`@@@`), 0644))
	assert.Error(t, mgr.Load(dir))
}

func TestManager_FreshStatePerLoad(t *testing.T) {
	mgr, exec, _ := newTestManager(t)
	require.NoError(t, mgr.RunString("one", `carried = 9`))
	require.NoError(t, mgr.RunString("two", `if carried == nil then setslot(0) end`))
	assert.Equal(t, []string{"setslot 0"}, exec.lines)
}

func TestNewManager_PanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { scripting.NewManager(nil, zap.NewNop(), 0) })
	assert.Panics(t, func() { scripting.NewManager(&recordingExecutor{}, nil, 0) })
}
