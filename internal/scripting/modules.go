package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/emberfell/smite/internal/game/damage"
)

// RegisterModules registers the engine.* Lua table into L:
//   - engine.log(msg): structured info log tagged with the script origin
//   - engine.multiplier(tier): the fixed multiplier for a tier name
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: engine global is defined in L.
func (m *Manager) RegisterModules(L *lua.LState) {
	engine := L.NewTable()

	L.SetField(engine, "log", L.NewFunction(func(L *lua.LState) int {
		msg := L.CheckString(1)
		m.logger.Info("scripting: script log", zap.String("msg", msg))
		return 0
	}))

	L.SetField(engine, "multiplier", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		tier, ok := damage.ParseTier(name)
		if !ok {
			L.Push(lua.LNil)
			return 1
		}
		L.Push(lua.LNumber(tier.Multiplier()))
		return 1
	}))

	L.SetGlobal("engine", engine)
}
