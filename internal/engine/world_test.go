package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tatianab/pirate-latitudes/internal/models"
)

func TestDefaultWorld(t *testing.T) {
	w := testWorld(t)
	assert.Len(t, w.Scenes, len(models.AllScenes))
	for _, id := range models.AllScenes {
		s, ok := w.Scene(id)
		require.True(t, ok, id)
		assert.Equal(t, id == models.SceneFinal, s.End, id)
		if !s.End {
			assert.Contains(t, s.Commands, CmdLook, "%s should describe itself", id)
		}
	}
}

func TestDefaultWorld_StormCheck(t *testing.T) {
	storm, _ := testWorld(t).Scene(models.SceneStormAtSea)
	c := storm.Commands[CmdFight].Check
	require.NotNil(t, c)
	assert.Equal(t, models.SkillCombat, c.Skill)
	assert.Equal(t, 15, c.Threshold)
	assert.Equal(t, 25, c.Damage)
	assert.Equal(t, 20, c.expr.Sides)
	assert.Equal(t, models.SceneIslandApproach, c.Success.Goto)
}

func TestValidate_Errors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(w *World)
		want   string
	}{
		{"missing scene", func(w *World) { w.Scenes = w.Scenes[1:] }, `scene "ship_deck" is missing`},
		{"duplicate scene", func(w *World) { w.Scenes = append(w.Scenes, w.Scenes[0]) }, "defined twice"},
		{"unknown scene id", func(w *World) { w.Scenes[0].ID = "crows_nest" }, `unknown scene id "crows_nest"`},
		{"bad goto", func(w *World) { w.Scenes[0].Commands[CmdSail].Goto = "atlantis" }, `unknown scene "atlantis"`},
		{"alias as command", func(w *World) { w.Scenes[0].Commands["land"] = &Effect{Text: "x"} }, `"land" is not a story command`},
		{"system command in scene", func(w *World) { w.Scenes[0].Commands[CmdSave] = &Effect{Text: "x"} }, `"save" is not a story command`},
		{"bad dice", func(w *World) {
			s, _ := w.Scene(models.SceneStormAtSea)
			s.Commands[CmdFight].Check.Roll = "lots"
		}, "missing 'd'"},
		{"nested prompt", func(w *World) {
			s, _ := w.Scene(models.SceneStormAtSea)
			s.Commands[CmdFight].Check.Success.Prompt = &Prompt{Question: "?", Answers: []Answer{{Match: "y", Effect: &Effect{}}}}
		}, "prompts may only appear on scene commands"},
		{"empty answer", func(w *World) {
			s, _ := w.Scene(models.SceneLookout)
			s.Commands[CmdSearch].Prompt.Answers[0].Match = ""
		}, "has no match"},
		{"ending with commands", func(w *World) {
			s, _ := w.Scene(models.SceneFinal)
			s.Commands = map[string]*Effect{CmdLook: {Text: "x"}}
		}, "an ending scene takes no commands"},
		{"check with goto", func(w *World) {
			s, _ := w.Scene(models.SceneStormAtSea)
			s.Commands[CmdFight].Goto = models.SceneFortress
		}, "a check cannot share its effect with a goto or prompt"},
		{"check with prompt", func(w *World) {
			s, _ := w.Scene(models.SceneStormAtSea)
			s.Commands[CmdFight].Prompt = &Prompt{Question: "?", Answers: []Answer{{Match: "y", Effect: &Effect{}}}}
		}, "a check cannot share its effect with a goto or prompt"},
		{"missing texts", func(w *World) { w.Scenes[0].Unknown = "" }, "unknown and quit texts are required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := testWorld(t)
			tc.mutate(w)
			err := w.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoadWorld_BadYAML(t *testing.T) {
	_, err := LoadWorld([]byte("scenes: [oops"))
	assert.Error(t, err)

	_, err = LoadWorld([]byte("title: empty\n"))
	assert.ErrorContains(t, err, "is missing")
}

func TestAnswerMatches(t *testing.T) {
	exact := Answer{Match: "Village"}
	assert.True(t, exact.matches("village"))
	assert.False(t, exact.matches("the village"))

	contains := Answer{Match: "fire", Contains: true}
	assert.True(t, contains.matches("a roaring fire"))
	assert.True(t, contains.matches("campfires"))
	assert.False(t, contains.matches("water"))
}
