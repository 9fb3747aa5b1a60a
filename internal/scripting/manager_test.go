package scripting_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/emberfell/smite/internal/game/actor"
	"github.com/emberfell/smite/internal/game/damage"
	"github.com/emberfell/smite/internal/scripting"
)

type passRenderer struct{}

func (passRenderer) TypeTag(damageType string, tier damage.Tier) string {
	return fmt.Sprintf("[%s|%s]", damageType, tier)
}

func (passRenderer) AppliedSummary(rec damage.Record) string {
	return fmt.Sprintf("%s:%g", rec.TargetName, rec.Applied)
}

type nopRecorder struct{}

func (nopRecorder) CreateRecord(context.Context, damage.Record) error { return nil }

// resolveWith runs a base-10 fire request against a fresh target with the
// manager's hooks bound, returning the emitted record.
func resolveWith(t *testing.T, m *scripting.Manager) damage.Record {
	t.Helper()

	hooks := damage.NewHooks()
	m.Bind(hooks)
	p := damage.NewPipeline(hooks, passRenderer{}, nopRecorder{}, zap.NewNop())

	target := actor.New("Goblin", 100)
	req := damage.NewRequest(nil, []damage.Target{target},
		damage.Base{Total: 10, Type: "fire"}, damage.Extra{}, damage.Overrides{})

	records, err := p.Process(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, records, 1)
	return records[0]
}

func writeScript(t *testing.T, dir, name, source string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(source), 0o644))
}

func TestManager_OnModifiersAddsEntries(t *testing.T) {
	m := scripting.NewManager(zap.NewNop())
	defer m.Close()

	require.NoError(t, m.LoadString(`
function on_modifiers(ctx)
  if ctx.type == "fire" then
    return {
      bonuses = { { name = "blessing", value = 2 } },
      modifiers = { { name = "ward", value = 0.5 } },
    }
  end
end
`, 0))

	// (10 + 2) * 1 * 0.5 = 6.
	rec := resolveWith(t, m)
	assert.Equal(t, 6.0, rec.Applied)
	assert.Equal(t, -6.0, rec.Delta)
}

func TestManager_OnResultOverrides(t *testing.T) {
	m := scripting.NewManager(zap.NewNop())
	defer m.Close()

	require.NoError(t, m.LoadString(`
function on_result(ctx)
  return ctx.result + 7
end
`, 0))

	rec := resolveWith(t, m)
	assert.Equal(t, 17.0, rec.Applied)
}

func TestManager_EngineMultiplier(t *testing.T) {
	m := scripting.NewManager(zap.NewNop())
	defer m.Close()

	require.NoError(t, m.LoadString(`
function on_result(ctx)
  return ctx.amount * engine.multiplier("vulnerability")
end
`, 0))

	rec := resolveWith(t, m)
	assert.Equal(t, 20.0, rec.Applied)
}

func TestManager_LuaErrorIsSwallowed(t *testing.T) {
	m := scripting.NewManager(zap.NewNop())
	defer m.Close()

	require.NoError(t, m.LoadString(`
function on_result(ctx)
  error("rule misfire")
end
`, 0))

	// The built-in result stands when the hook fails.
	rec := resolveWith(t, m)
	assert.Equal(t, 10.0, rec.Applied)
}

func TestManager_UndefinedHooksContributeNothing(t *testing.T) {
	m := scripting.NewManager(zap.NewNop())
	defer m.Close()

	require.NoError(t, m.LoadString(`engine.log("loaded")`, 0))

	rec := resolveWith(t, m)
	assert.Equal(t, 10.0, rec.Applied)
}

func TestManager_NonEntryReturnsAreIgnored(t *testing.T) {
	m := scripting.NewManager(zap.NewNop())
	defer m.Close()

	require.NoError(t, m.LoadString(`
function on_modifiers(ctx)
  return { bonuses = { "not-a-table", { value = 3 } } }
end
`, 0))

	rec := resolveWith(t, m)
	assert.Equal(t, 10.0, rec.Applied)
}

func TestSandbox_StripsDangerousGlobals(t *testing.T) {
	m := scripting.NewManager(zap.NewNop())
	defer m.Close()

	for _, global := range []string{"dofile", "loadfile", "load", "require"} {
		err := m.LoadString(global+`("x")`, 0)
		assert.Error(t, err, global)
	}
}

func TestSandbox_CancelStopsExecution(t *testing.T) {
	L, cancel := scripting.NewSandboxedState(0)
	defer L.Close()

	require.NoError(t, L.DoString(`x = 1`))
	cancel()
	assert.Error(t, L.DoString(`x = 2`))
}

func TestManager_ReloadReplacesScripts(t *testing.T) {
	m := scripting.NewManager(zap.NewNop())
	defer m.Close()

	require.NoError(t, m.LoadString(`
function on_result(ctx)
  return 1
end
`, 0))
	assert.Equal(t, 1.0, resolveWith(t, m).Applied)

	// Loading again replaces the previous VM entirely.
	require.NoError(t, m.LoadString(`
function on_result(ctx)
  return 2
end
`, 0))
	assert.Equal(t, 2.0, resolveWith(t, m).Applied)
}

func TestManager_CloseDisablesHooks(t *testing.T) {
	m := scripting.NewManager(zap.NewNop())
	require.NoError(t, m.LoadString(`
function on_result(ctx)
  return 99
end
`, 0))
	m.Close()

	// A closed manager contributes nothing; the built-in result stands.
	rec := resolveWith(t, m)
	assert.Equal(t, 10.0, rec.Applied)
}

func TestSandbox_InstructionLimitTerminatesRunawayScript(t *testing.T) {
	m := scripting.NewManager(zap.NewNop())
	defer m.Close()

	err := m.LoadString(`while true do end`, 10_000)
	assert.Error(t, err)
}

func TestManager_LoadDir(t *testing.T) {
	m := scripting.NewManager(zap.NewNop())
	defer m.Close()

	dir := t.TempDir()
	writeScript(t, dir, "10_bonus.lua", `
function on_modifiers(ctx)
  return { bonuses = { { name = "first", value = 1 } } }
end
`)
	// Files load in lexicographic order, so later scripts can chain earlier
	// hook definitions.
	writeScript(t, dir, "20_bonus.lua", `
local prev = on_modifiers
function on_modifiers(ctx)
  local out = prev(ctx)
  table.insert(out.bonuses, { name = "second", value = 2 })
  return out
end
`)

	require.NoError(t, m.LoadDir(dir, 0))

	// (10 + 1 + 2) * 1 = 13.
	rec := resolveWith(t, m)
	assert.Equal(t, 13.0, rec.Applied)
}
