package scripting

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/emberfell/smite/internal/game/damage"
)

// Hook function names a rule script may define.
const (
	// HookOnModifiers runs after built-in bonus/modifier collection. The
	// script receives a context table and may return
	// {bonuses={{name=,value=},...}, modifiers={{name=,value=},...}}.
	HookOnModifiers = "on_modifiers"
	// HookOnResult runs after the result fold. The script receives a
	// context table and may return a replacement numeric result.
	HookOnResult = "on_result"
)

// Manager owns one sandboxed LState holding all loaded rule scripts and
// adapts their hook functions into damage pipeline callbacks.
//
// The LState is single-threaded; the mutex serializes hook calls.
type Manager struct {
	mu     sync.Mutex
	state  *lua.LState
	cancel context.CancelFunc
	logger *zap.Logger
}

// NewManager creates a Manager with no scripts loaded.
//
// Precondition: logger must be non-nil.
func NewManager(logger *zap.Logger) *Manager {
	return &Manager{logger: logger}
}

// LoadDir creates a sandboxed VM, registers the engine.* module, then
// executes every *.lua file in scriptDir in lexicographic order. Any
// previously loaded VM is replaced.
//
// Precondition: scriptDir must be a readable directory.
// Postcondition: The VM is loaded; returns an error on Lua load failure.
func (m *Manager) LoadDir(scriptDir string, instLimit int) error {
	L, cancel := NewSandboxedState(instLimit)
	m.RegisterModules(L)

	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		cancel()
		L.Close()
		return fmt.Errorf("scripting: reading script dir %q: %w", scriptDir, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	for _, path := range luaFiles {
		if err := L.DoFile(path); err != nil {
			cancel()
			L.Close()
			return fmt.Errorf("scripting: loading %q: %w", path, err)
		}
	}

	m.swap(L, cancel)
	return nil
}

// LoadString executes a single script source in a fresh VM. Used by tests
// and embedded rule snippets.
func (m *Manager) LoadString(source string, instLimit int) error {
	L, cancel := NewSandboxedState(instLimit)
	m.RegisterModules(L)
	if err := L.DoString(source); err != nil {
		cancel()
		L.Close()
		return fmt.Errorf("scripting: loading inline script: %w", err)
	}

	m.swap(L, cancel)
	return nil
}

// swap installs a freshly loaded VM, releasing any previous one along with
// its counting context.
func (m *Manager) swap(L *lua.LState, cancel context.CancelFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeLocked()
	m.state = L
	m.cancel = cancel
}

// Close releases the VM and cancels its execution context.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeLocked()
}

func (m *Manager) closeLocked() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	if m.state != nil {
		m.state.Close()
		m.state = nil
	}
}

// Bind registers the loaded scripts' hook functions on hooks. Scripts that
// do not define a hook contribute nothing at that seam.
//
// Precondition: LoadDir or LoadString must have succeeded.
func (m *Manager) Bind(hooks *damage.Hooks) {
	if m.hasGlobal(HookOnModifiers) {
		hooks.OnModifiersCollected(m.callOnModifiers)
	}
	if m.hasGlobal(HookOnResult) {
		hooks.OnResultCalculated(m.callOnResult)
	}
}

func (m *Manager) hasGlobal(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == nil {
		return false
	}
	return m.state.GetGlobal(name) != lua.LNil
}

// callOnModifiers invokes the on_modifiers script function and appends any
// returned bonuses and modifiers to c in array order. Lua runtime errors are
// logged at Warn level and never propagated.
func (m *Manager) callOnModifiers(c *damage.Context) {
	ret, ok := m.call(HookOnModifiers, c)
	if !ok {
		return
	}
	tbl, ok := ret.(*lua.LTable)
	if !ok {
		return
	}
	applyEntries(c.AddBonus, tbl.RawGetString("bonuses"))
	applyEntries(c.AddModifier, tbl.RawGetString("modifiers"))
}

// callOnResult invokes the on_result script function; a numeric return value
// replaces the context's result.
func (m *Manager) callOnResult(c *damage.Context) {
	ret, ok := m.call(HookOnResult, c)
	if !ok {
		return
	}
	if n, isNum := ret.(lua.LNumber); isNum {
		c.SetResult(float64(n))
	}
}

// call invokes the named global with a context table and returns its first
// return value. Returns (nil, false) when the VM is absent, the hook is
// undefined, or the call fails.
func (m *Manager) call(hook string, c *damage.Context) (lua.LValue, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	L := m.state
	if L == nil {
		return nil, false
	}
	fn := L.GetGlobal(hook)
	if fn == lua.LNil {
		return nil, false
	}

	if err := L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, contextTable(L, c)); err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("hook", hook),
			zap.Error(err),
		)
		return nil, false
	}

	ret := L.Get(-1)
	L.Pop(1)
	return ret, true
}

// contextTable builds the read-only snapshot table passed to hook functions.
func contextTable(L *lua.LState, c *damage.Context) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("amount", lua.LNumber(c.Request.Amount()))
	t.RawSetString("type", lua.LString(c.Request.DamageType()))
	t.RawSetString("tier", lua.LString(c.Tier.String()))
	t.RawSetString("target", lua.LString(c.Target.Name()))
	if result, ok := c.Result(); ok {
		t.RawSetString("result", lua.LNumber(result))
	}
	return t
}

// applyEntries appends each {name=,value=} element of v (a Lua array) via
// add. Non-table values and entries without a name are skipped.
func applyEntries(add func(string, float64), v lua.LValue) {
	tbl, ok := v.(*lua.LTable)
	if !ok {
		return
	}
	for i := 1; i <= tbl.Len(); i++ {
		entry, ok := tbl.RawGetInt(i).(*lua.LTable)
		if !ok {
			continue
		}
		name := lua.LVAsString(entry.RawGetString("name"))
		if name == "" {
			continue
		}
		add(name, float64(lua.LVAsNumber(entry.RawGetString("value"))))
	}
}
