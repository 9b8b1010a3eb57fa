package engine

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tatianab/pirate-latitudes/internal/dice"
	"github.com/tatianab/pirate-latitudes/internal/models"
)

//go:embed scenes.yaml
var defaultScenes []byte

// World is the static scene graph.
type World struct {
	Title  string `yaml:"title"`
	Intro  string `yaml:"intro"`
	Defeat string `yaml:"defeat"`

	Scenes []*Scene `yaml:"scenes"`

	byID map[models.SceneID]*Scene
}

// Scene is one location and the commands it understands.
type Scene struct {
	ID        models.SceneID     `yaml:"id"`
	Title     string             `yaml:"title"`
	Narration string             `yaml:"narration"`
	Unknown   string             `yaml:"unknown"`
	Quit      string             `yaml:"quit"`
	End       bool               `yaml:"end"`
	Commands  map[string]*Effect `yaml:"commands"`
}

// Effect is what a recognised command does. The parts apply in order:
// text, gain, check, prompt, goto. An effect with a check moves on only
// through Check.Success, so it carries no prompt or goto of its own.
type Effect struct {
	Text   string         `yaml:"text"`
	Gain   *Gain          `yaml:"gain"`
	Check  *Check         `yaml:"check"`
	Prompt *Prompt        `yaml:"prompt"`
	Goto   models.SceneID `yaml:"goto"`
}

// Gain changes the player's state.
type Gain struct {
	Items        []string       `yaml:"items"`
	Achievements []string       `yaml:"achievements"`
	Reputation   int            `yaml:"reputation"`
	Health       int            `yaml:"health"`
	Skills       map[string]int `yaml:"skills"`
}

// Check passes when the skill level plus the roll beats Threshold. A failed
// check costs Damage health and keeps the player where they are.
type Check struct {
	Skill     string  `yaml:"skill"`
	Roll      string  `yaml:"roll"`
	Threshold int     `yaml:"threshold"`
	Damage    int     `yaml:"damage"`
	Success   *Effect `yaml:"success"`
	Failure   string  `yaml:"failure"`

	expr dice.Expression
}

// Prompt asks a follow-up question; the player's next line is the answer.
type Prompt struct {
	Question  string   `yaml:"question"`
	Answers   []Answer `yaml:"answers"`
	Otherwise string   `yaml:"otherwise"`
}

// Answer matches the whole reply, or any reply containing Match when
// Contains is set.
type Answer struct {
	Match    string  `yaml:"match"`
	Contains bool    `yaml:"contains"`
	Effect   *Effect `yaml:"effect"`
}

func (a Answer) matches(reply string) bool {
	match := strings.ToLower(a.Match)
	if a.Contains {
		return strings.Contains(reply, match)
	}
	return reply == match
}

// DefaultWorld returns the built-in scene graph.
func DefaultWorld() (*World, error) {
	return LoadWorld(defaultScenes)
}

// LoadWorld parses and validates a scene graph document.
func LoadWorld(data []byte) (*World, error) {
	var w World
	if err := yaml.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("parsing scene YAML: %w", err)
	}
	if err := w.Validate(); err != nil {
		return nil, fmt.Errorf("validating scenes: %w", err)
	}
	return &w, nil
}

// Scene returns the scene with the given id.
func (w *World) Scene(id models.SceneID) (*Scene, bool) {
	s, ok := w.byID[id]
	return s, ok
}

// Validate checks the graph and indexes it. Every scene in models.AllScenes
// must be defined once, every goto must name a defined scene, and scene
// commands must be canonical story commands.
func (w *World) Validate() error {
	var errs []error

	w.byID = make(map[models.SceneID]*Scene, len(w.Scenes))
	for _, s := range w.Scenes {
		if !s.ID.Valid() {
			errs = append(errs, fmt.Errorf("unknown scene id %q", s.ID))
			continue
		}
		if _, dup := w.byID[s.ID]; dup {
			errs = append(errs, fmt.Errorf("scene %q defined twice", s.ID))
			continue
		}
		w.byID[s.ID] = s
	}
	for _, id := range models.AllScenes {
		if _, ok := w.byID[id]; !ok {
			errs = append(errs, fmt.Errorf("scene %q is missing", id))
		}
	}

	for _, s := range w.Scenes {
		errs = append(errs, w.validateScene(s)...)
	}
	return errors.Join(errs...)
}

func (w *World) validateScene(s *Scene) []error {
	var errs []error
	if s.Title == "" || s.Narration == "" {
		errs = append(errs, fmt.Errorf("scene %q: title and narration are required", s.ID))
	}
	if s.End {
		if len(s.Commands) > 0 {
			errs = append(errs, fmt.Errorf("scene %q: an ending scene takes no commands", s.ID))
		}
		return errs
	}
	if s.Unknown == "" || s.Quit == "" {
		errs = append(errs, fmt.Errorf("scene %q: unknown and quit texts are required", s.ID))
	}
	for name, eff := range s.Commands {
		cmd, ok := storyCommands[name]
		if !ok || cmd.Name != name {
			errs = append(errs, fmt.Errorf("scene %q: %q is not a story command", s.ID, name))
		}
		errs = append(errs, w.validateEffect(fmt.Sprintf("%s/%s", s.ID, name), eff, true)...)
	}
	return errs
}

func (w *World) validateEffect(where string, e *Effect, top bool) []error {
	if e == nil {
		return []error{fmt.Errorf("%s: empty effect", where)}
	}
	var errs []error
	if e.Goto != "" {
		if _, ok := w.byID[e.Goto]; !ok {
			errs = append(errs, fmt.Errorf("%s: goto names unknown scene %q", where, e.Goto))
		}
	}
	if c := e.Check; c != nil {
		if c.Skill == "" {
			errs = append(errs, fmt.Errorf("%s: check needs a skill", where))
		}
		expr, err := dice.Parse(c.Roll)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", where, err))
		}
		c.expr = expr
		if c.Damage < 0 {
			errs = append(errs, fmt.Errorf("%s: check damage must not be negative", where))
		}
		if e.Goto != "" || e.Prompt != nil {
			errs = append(errs, fmt.Errorf("%s: a check cannot share its effect with a goto or prompt", where))
		}
		errs = append(errs, w.validateEffect(where+"/success", c.Success, false)...)
	}
	if p := e.Prompt; p != nil {
		// Only a scene command can leave a question open.
		if !top {
			errs = append(errs, fmt.Errorf("%s: prompts may only appear on scene commands", where))
		}
		if p.Question == "" || len(p.Answers) == 0 {
			errs = append(errs, fmt.Errorf("%s: prompt needs a question and answers", where))
		}
		for i, a := range p.Answers {
			if a.Match == "" {
				errs = append(errs, fmt.Errorf("%s: answer %d has no match", where, i))
			}
			errs = append(errs, w.validateEffect(fmt.Sprintf("%s/answer[%d]", where, i), a.Effect, false)...)
		}
	}
	return errs
}
