package models

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
	"pgregory.net/rapid"
)

func TestGameStateYAML(t *testing.T) {
	state := NewGameState("Hunter")
	state.Scene = SceneLookout
	state.AddItem("journal")
	state.Award("weathered_the_storm")
	state.Record("arrived at lookout")
	state.Pending = "search"

	data, err := yaml.Marshal(state)
	require.NoError(t, err)

	var state2 GameState
	require.NoError(t, yaml.Unmarshal(data, &state2))
	assert.Equal(t, *state, state2)
}

func TestNewGameState(t *testing.T) {
	s := NewGameState("Hunter")
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, SceneShipDeck, s.Scene)
	assert.Equal(t, StartingHealth, s.Health)
	assert.Equal(t, map[string]int{SkillCombat: 5, SkillNegotiation: 5, SkillPuzzle: 5}, s.Skills)
	assert.Empty(t, s.Inventory)
	assert.Empty(t, s.Log)

	other := NewGameState("Hunter")
	assert.NotEqual(t, s.ID, other.ID)
}

func TestSceneIDValid(t *testing.T) {
	for _, id := range AllScenes {
		assert.True(t, id.Valid(), id)
	}
	assert.Len(t, AllScenes, 13)
	assert.False(t, SceneID("crows_nest").Valid())
	assert.False(t, SceneID("").Valid())
}

func TestAddItem_NoDuplicates(t *testing.T) {
	s := NewGameState("Hunter")
	assert.True(t, s.AddItem("map fragment"))
	assert.False(t, s.AddItem("map fragment"))
	assert.Equal(t, []string{"map fragment"}, s.Inventory)
	assert.True(t, s.HasItem("map fragment"))
}

func TestAward_SortedSet(t *testing.T) {
	s := NewGameState("Hunter")
	s.Award("riddle_solved")
	s.Award("duelist")
	assert.False(t, s.Award("duelist"))
	assert.Equal(t, []string{"duelist", "riddle_solved"}, s.Achievements)
	assert.True(t, s.HasAchievement("riddle_solved"))
	assert.False(t, s.HasAchievement("treasure_found"))
}

func TestAdjustHealth_Clamped(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := NewGameState("Hunter")
		s.Health = rapid.IntRange(0, MaxHealth).Draw(rt, "health")
		delta := rapid.IntRange(-300, 300).Draw(rt, "delta")

		s.AdjustHealth(delta)

		assert.GreaterOrEqual(rt, s.Health, 0)
		assert.LessOrEqual(rt, s.Health, MaxHealth)
		assert.Equal(rt, s.Health <= 0, s.Dead())
	})
}

func TestClone_IsDeep(t *testing.T) {
	s := NewGameState("Hunter")
	s.AddItem("journal")
	c := s.Clone()
	c.AddItem("compass")
	c.Skills[SkillCombat] = 9
	c.Record("x")

	assert.Equal(t, []string{"journal"}, s.Inventory)
	assert.Equal(t, 5, s.Skills[SkillCombat])
	assert.Empty(t, s.Log)
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		word := rapid.StringMatching(`[a-zA-Z0-9 ,.'!?-]{0,30}`)

		s := NewGameState(word.Draw(rt, "player"))
		s.Scene = rapid.SampledFrom(AllScenes).Draw(rt, "scene")
		for _, item := range rapid.SliceOfN(word, 0, 5).Draw(rt, "items") {
			s.AddItem(item)
		}
		s.Health = rapid.IntRange(0, MaxHealth).Draw(rt, "health")
		s.Reputation = rapid.IntRange(-100, 100).Draw(rt, "reputation")
		s.Skills[SkillPuzzle] = rapid.IntRange(0, 20).Draw(rt, "puzzle")
		for _, a := range rapid.SliceOfN(word, 0, 4).Draw(rt, "achievements") {
			s.Award(a)
		}
		for _, e := range rapid.SliceOfN(word, 0, 6).Draw(rt, "log") {
			s.Record(e)
		}
		s.Pending = rapid.SampledFrom([]string{"", "search", "negotiate"}).Draw(rt, "pending")

		store := NewStore(filepath.Join(t.TempDir(), "save.yaml"))
		require.NoError(rt, store.Save(s))

		loaded, err := store.Load()
		require.NoError(rt, err)
		assert.Equal(rt, s, loaded)
	})
}

func TestStore_SaveCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "save.yaml")
	store := NewStore(path)
	require.NoError(t, store.Save(NewGameState("Hunter")))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestStore_LoadMissing(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "absent.yaml"))
	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNoSave)
}

func TestStore_RestoreFailureLeavesStateUnchanged(t *testing.T) {
	cases := map[string]string{
		"not yaml":      "scene: [unterminated",
		"unknown scene": "scene: crows_nest\nhealth: 40\n",
		"wrong types":   "health: plenty\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "save.yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0644))

			s := NewGameState("Hunter")
			s.AddItem("journal")
			before := s.Clone()

			err := NewStore(path).Restore(s)
			assert.Error(t, err)
			assert.Equal(t, before, s)
		})
	}
}

func TestStore_LoadSortsAchievements(t *testing.T) {
	path := filepath.Join(t.TempDir(), "save.yaml")
	body := "scene: fortress\nhealth: 60\nachievements: [duelist, riddle_solved, duelist, apprentice]\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	s, err := NewStore(path).Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"apprentice", "duelist", "riddle_solved"}, s.Achievements)
	assert.True(t, s.HasAchievement("riddle_solved"))
	assert.True(t, s.HasAchievement("apprentice"))
	assert.False(t, s.Award("duelist"))
}

func TestStore_RestoreReplacesState(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "save.yaml"))
	saved := NewGameState("Hunter")
	saved.Scene = SceneFortress
	saved.AdjustHealth(-35)
	require.NoError(t, store.Save(saved))

	s := NewGameState("Someone else")
	require.NoError(t, store.Restore(s))
	assert.Equal(t, saved, s)
}

func TestNewStore_DefaultPath(t *testing.T) {
	assert.Equal(t, DefaultSavePath, NewStore("").Path)
}
