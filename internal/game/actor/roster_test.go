package actor_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberfell/smite/internal/game/actor"
	"github.com/emberfell/smite/internal/game/damage"
)

func writeRoster(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "actors.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadRoster(t *testing.T) {
	path := writeRoster(t, `
- id: alice
  name: Alice
  max_hp: 30
  temp_hp: 5
  affinities:
    fire: resistance
  outgoing_bonuses:
    all: 2
  flags:
    scale-incoming-damage: 0.5
- id: goblin
  name: Goblin
  max_hp: 18
`)

	roster, err := actor.LoadRoster(path)
	require.NoError(t, err)
	require.Len(t, roster, 2)

	alice := roster["alice"]
	require.NotNil(t, alice)
	assert.Equal(t, "Alice", alice.Name())
	assert.Equal(t, 30.0, alice.HP().Max)
	assert.Equal(t, 5.0, alice.HP().Temp)
	assert.Equal(t, damage.TierResistance, alice.AffinityFor("fire"))

	all, _ := alice.OutgoingDamageBonuses().Lookup("fire")
	assert.Equal(t, 2.0, all)
	v, ok := alice.Flag(damage.FlagScaleIncomingDamage)
	require.True(t, ok)
	assert.Equal(t, 0.5, v)

	require.NotNil(t, roster["goblin"])
	assert.Equal(t, damage.TierNone, roster["goblin"].AffinityFor("fire"))
}

func TestLoadRoster_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errLike string
	}{
		{
			name:    "duplicate id",
			content: "- id: a\n  name: A\n  max_hp: 10\n- id: a\n  name: B\n  max_hp: 10\n",
			errLike: "duplicate actor id",
		},
		{
			name:    "missing name",
			content: "- id: a\n  max_hp: 10\n",
			errLike: "name must not be empty",
		},
		{
			name:    "non-positive max_hp",
			content: "- id: a\n  name: A\n  max_hp: 0\n",
			errLike: "max_hp must be > 0",
		},
		{
			name:    "unknown tier",
			content: "- id: a\n  name: A\n  max_hp: 10\n  affinities:\n    fire: shrugs\n",
			errLike: "unknown affinity tier",
		},
		{
			name:    "unknown field",
			content: "- id: a\n  name: A\n  max_hp: 10\n  armor: 5\n",
			errLike: "armor",
		},
		{
			name:    "empty roster",
			content: "[]\n",
			errLike: "no actors defined",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := actor.LoadRoster(writeRoster(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errLike)
		})
	}
}

func TestLoadRoster_MissingFile(t *testing.T) {
	_, err := actor.LoadRoster(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
