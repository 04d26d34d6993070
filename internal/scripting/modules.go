package scripting

import (
	"fmt"
	"strings"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// RegisterModules defines the slot command globals in L:
//
//	setslot(slot, weapon...)
//	addslot(slot, weapon)
//	addslotdefault(slot, weapon)
//	weaponsection(name)
//
// Each call with valid argument types becomes one command line passed to the
// manager's Executor. Calls with bad arguments are logged and skipped
// without stopping the script.
//
// Precondition: L must be from NewSandboxedState.
func (m *Manager) RegisterModules(L *lua.LState) {
	L.SetGlobal("setslot", L.NewFunction(m.luaSetSlot))
	L.SetGlobal("addslot", L.NewFunction(m.luaAddSlot("addslot")))
	L.SetGlobal("addslotdefault", L.NewFunction(m.luaAddSlot("addslotdefault")))
	L.SetGlobal("weaponsection", L.NewFunction(m.luaWeaponSection))
}

// slotArg renders argument n as a slot number.
func slotArg(L *lua.LState, n int) (string, bool) {
	switch v := L.Get(n).(type) {
	case lua.LNumber:
		f := float64(v)
		if f != float64(int64(f)) {
			return "", false
		}
		return fmt.Sprintf("%d", int64(f)), true
	case lua.LString:
		s := strings.TrimSpace(string(v))
		return s, s != ""
	default:
		return "", false
	}
}

// wordArg renders argument n as a single command word.
func wordArg(L *lua.LState, n int) (string, bool) {
	s, ok := L.Get(n).(lua.LString)
	if !ok {
		return "", false
	}
	w := string(s)
	if w == "" || strings.ContainsAny(w, " \t\"") {
		return "", false
	}
	return w, true
}

func (m *Manager) reject(L *lua.LState, fn, reason string) int {
	m.logger.Warn("scripting: bad configuration call",
		zap.String("function", fn),
		zap.String("reason", reason),
		zap.String("where", L.Where(1)),
	)
	return 0
}

func (m *Manager) execute(fn, line string) {
	if err := m.exec.Execute(line); err != nil {
		m.logger.Warn("scripting: command failed",
			zap.String("function", fn),
			zap.String("line", line),
			zap.Error(err),
		)
	}
}

func (m *Manager) luaSetSlot(L *lua.LState) int {
	slot, ok := slotArg(L, 1)
	if !ok {
		return m.reject(L, "setslot", "slot must be an integer")
	}
	words := []string{"setslot", slot}
	for i := 2; i <= L.GetTop(); i++ {
		w, ok := wordArg(L, i)
		if !ok {
			return m.reject(L, "setslot", fmt.Sprintf("argument %d must be a weapon name", i))
		}
		words = append(words, w)
	}
	m.execute("setslot", strings.Join(words, " "))
	return 0
}

func (m *Manager) luaAddSlot(fn string) lua.LGFunction {
	return func(L *lua.LState) int {
		if L.GetTop() != 2 {
			return m.reject(L, fn, "expected a slot and a weapon name")
		}
		slot, ok := slotArg(L, 1)
		if !ok {
			return m.reject(L, fn, "slot must be an integer")
		}
		w, ok := wordArg(L, 2)
		if !ok {
			return m.reject(L, fn, "argument 2 must be a weapon name")
		}
		m.execute(fn, fn+" "+slot+" "+w)
		return 0
	}
}

func (m *Manager) luaWeaponSection(L *lua.LState) int {
	s, ok := L.Get(1).(lua.LString)
	if !ok || strings.TrimSpace(string(s)) == "" || strings.Contains(string(s), "\"") {
		return m.reject(L, "weaponsection", "section must be a non-empty string")
	}
	m.execute("weaponsection", `weaponsection "`+string(s)+`"`)
	return 0
}
