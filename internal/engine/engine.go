// Package engine walks the scene graph: it turns one line of player input
// into narration and changes to the game state.
package engine

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/tatianab/pirate-latitudes/internal/dice"
	"github.com/tatianab/pirate-latitudes/internal/models"
)

// Status is the state of play after a step.
type Status string

const (
	StatusPlaying Status = "PLAYING"
	StatusWon     Status = "WON"
	StatusLost    Status = "LOST"
	StatusQuit    Status = "QUIT"
)

const defaultFarewell = "Farewell, brave pirate!"

// Result is the outcome of one step.
type Result struct {
	// Lines are paragraphs of narration, in order.
	Lines  []string
	Status Status
	// Moved is set when the player arrived in a new scene.
	Moved bool
}

// Over reports whether the game has ended.
func (r Result) Over() bool {
	return r.Status != StatusPlaying
}

func (r *Result) say(text string) {
	if text = strings.TrimSpace(text); text != "" {
		r.Lines = append(r.Lines, text)
	}
}

// Store persists a game state wholesale.
type Store interface {
	Save(*models.GameState) error
	Restore(*models.GameState) error
}

// Engine is the scene graph walker. It holds no per-game state: the
// GameState is passed to every call.
type Engine struct {
	world    *World
	registry *Registry
	src      dice.Source
	roller   *dice.Roller
	store    Store
	hinter   Hinter
	logger   *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithStore enables the save and load commands.
func WithStore(s Store) Option {
	return func(e *Engine) { e.store = s }
}

// WithHinter replaces the static hinter.
func WithHinter(h Hinter) Option {
	return func(e *Engine) { e.hinter = h }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithDiceSource sets the randomness behind skill checks.
func WithDiceSource(src dice.Source) Option {
	return func(e *Engine) { e.src = src }
}

// NewEngine returns an Engine walking w.
func NewEngine(w *World, opts ...Option) *Engine {
	e := &Engine{
		world:    w,
		registry: DefaultRegistry(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.src == nil {
		e.src = dice.NewCryptoSource()
	}
	e.roller = dice.NewRoller(e.src, e.logger)
	if e.hinter == nil {
		e.hinter = StaticHinter{}
	}
	return e
}

// Close releases the hinter's resources.
func (e *Engine) Close() error {
	if c, ok := e.hinter.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

// Registry returns the command registry.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// World returns the scene graph.
func (e *Engine) World() *World {
	return e.world
}

// Start opens a session: the intro, the help menu and the current scene.
func (e *Engine) Start(st *models.GameState) Result {
	res := Result{Status: StatusPlaying}
	res.say(e.world.Title)
	res.say(e.world.Intro)
	res.say(e.registry.HelpText())
	if len(st.Log) == 0 {
		st.Record(fmt.Sprintf("%s set out aboard the Black Meridian", st.Player))
	}
	e.logger.Info("session started", zap.String("session", st.ID), zap.String("scene", string(st.Scene)))
	e.describe(&res, st)
	return res
}

// Step applies one line of player input to st.
func (e *Engine) Step(ctx context.Context, st *models.GameState, input string) Result {
	res := Result{Status: StatusPlaying}
	log := e.logger.With(zap.String("session", st.ID), zap.String("scene", string(st.Scene)))

	scene, ok := e.world.Scene(st.Scene)
	if !ok {
		// A Store never loads an invalid scene, so this is a programming error.
		log.Error("state names unknown scene")
		res.say(fmt.Sprintf("You are lost in uncharted waters (%q).", st.Scene))
		return res
	}

	line := Normalize(input)
	if line == "" {
		return res
	}
	cmd := e.registry.Canonical(line)
	log.Debug("command", zap.String("input", line), zap.String("command", cmd))

	// While a question is open only a bare quit leaves; "exit through the
	// fire" is an answer.
	if cmd == CmdQuit && (st.Pending == "" || e.registry.resolvesTo(line, CmdQuit)) {
		res.say(cmp.Or(scene.Quit, defaultFarewell))
		res.Status = StatusQuit
		log.Info("player quit")
		return res
	}

	switch {
	case scene.End:
		res.say(scene.Narration)
		res.Status = StatusWon
		return res
	case st.Dead():
		res.say(e.world.Defeat)
		res.Status = StatusLost
		return res
	}

	// System commands still work while a question is open, so the player can
	// save or ask for a hint before answering. They must match exactly.
	if st.Pending != "" && !e.isSystemLine(line) {
		e.answer(&res, st, scene, line, log)
		return res
	}

	switch cmd {
	case CmdHelp:
		res.say(e.registry.HelpText())
		return res
	case CmdInventory:
		res.say(inventoryText(st))
		return res
	case CmdStatus:
		res.say(statusText(st))
		return res
	case CmdHint:
		e.hint(ctx, &res, st, scene, log)
		return res
	case CmdSave:
		e.save(&res, st, log)
		return res
	case CmdLoad:
		e.load(&res, st, log)
		return res
	}

	eff, ok := scene.Commands[cmd]
	if !ok {
		res.say(scene.Unknown)
		return res
	}
	if eff.Prompt != nil {
		st.Pending = cmd
	}
	e.apply(&res, st, eff, log)
	return res
}

func (e *Engine) isSystemLine(line string) bool {
	cmd, ok := e.registry.Resolve(line)
	return ok && cmd.Category == CategorySystem
}

// answer resolves the reply to an open question. The question closes
// whether or not the reply matched.
func (e *Engine) answer(res *Result, st *models.GameState, scene *Scene, reply string, log *zap.Logger) {
	cmd := st.Pending
	st.Pending = ""

	eff, ok := scene.Commands[cmd]
	if !ok || eff.Prompt == nil {
		log.Warn("pending question not found", zap.String("command", cmd))
		res.say(scene.Unknown)
		return
	}
	for _, a := range eff.Prompt.Answers {
		if a.matches(reply) {
			log.Info("question answered", zap.String("command", cmd), zap.String("answer", a.Match))
			e.apply(res, st, a.Effect, log)
			return
		}
	}
	res.say(eff.Prompt.Otherwise)
}

func (e *Engine) apply(res *Result, st *models.GameState, eff *Effect, log *zap.Logger) {
	res.say(eff.Text)

	if eff.Gain != nil {
		gain(res, st, eff.Gain)
	}

	if c := eff.Check; c != nil {
		roll := e.roller.Roll(c.expr)
		level := st.Skills[c.Skill]
		total := level + roll.Total()
		passed := total > c.Threshold
		log.Info("skill check",
			zap.String("skill", c.Skill),
			zap.Int("level", level),
			zap.Int("roll", roll.Total()),
			zap.Int("threshold", c.Threshold),
			zap.Bool("passed", passed),
		)
		if passed {
			st.Record(fmt.Sprintf("passed a %s check at %s", c.Skill, st.Scene))
			e.apply(res, st, c.Success, log)
			return
		}
		res.say(c.Failure)
		st.AdjustHealth(-c.Damage)
		st.Record(fmt.Sprintf("failed a %s check at %s", c.Skill, st.Scene))
		if c.Damage > 0 {
			res.say(fmt.Sprintf("You lose %d health.", c.Damage))
		}
	}

	if st.Dead() {
		e.defeat(res, st, log)
		return
	}

	if eff.Prompt != nil {
		res.say(eff.Prompt.Question)
	}

	if eff.Goto != "" {
		e.enter(res, st, eff.Goto, log)
	}
}

func gain(res *Result, st *models.GameState, g *Gain) {
	for _, item := range g.Items {
		if st.AddItem(item) {
			res.say(fmt.Sprintf("You take the %s.", item))
			st.Record("found the " + item)
		}
	}
	for _, a := range g.Achievements {
		if st.Award(a) {
			res.say(fmt.Sprintf("Achievement unlocked: %s", achievementName(a)))
			st.Record("earned " + a)
		}
	}
	for _, skill := range slices.Sorted(maps.Keys(g.Skills)) {
		if st.Skills == nil {
			st.Skills = map[string]int{}
		}
		st.Skills[skill] += g.Skills[skill]
		res.say(fmt.Sprintf("Your %s improves to %d.", skill, st.Skills[skill]))
	}
	if g.Reputation != 0 {
		st.Reputation += g.Reputation
		res.say(fmt.Sprintf("Reputation %+d.", g.Reputation))
	}
	if g.Health != 0 {
		st.AdjustHealth(g.Health)
		res.say(fmt.Sprintf("Health %+d.", g.Health))
	}
}

func (e *Engine) defeat(res *Result, st *models.GameState, log *zap.Logger) {
	st.Pending = ""
	st.Record(fmt.Sprintf("fell at %s", st.Scene))
	res.say(e.world.Defeat)
	res.Status = StatusLost
	log.Info("player defeated")
}

func (e *Engine) enter(res *Result, st *models.GameState, id models.SceneID, log *zap.Logger) {
	st.Scene = id
	st.Pending = ""
	st.Record(fmt.Sprintf("arrived at %s", id))
	res.Moved = true
	log.Info("scene transition", zap.String("to", string(id)))
	e.describe(res, st)
}

// describe prints the current scene, ending the game if it is an ending.
func (e *Engine) describe(res *Result, st *models.GameState) {
	scene, ok := e.world.Scene(st.Scene)
	if !ok {
		return
	}
	res.say("--- " + scene.Title + " ---")
	res.say(scene.Narration)
	if scene.End {
		res.Status = StatusWon
	}
}

func (e *Engine) hint(ctx context.Context, res *Result, st *models.GameState, scene *Scene, log *zap.Logger) {
	text, err := e.hinter.Hint(ctx, newHintRequest(st, scene))
	if err != nil {
		log.Warn("hint failed", zap.Error(err))
		res.say("The sea keeps its secrets for now. Try 'help' instead.")
		return
	}
	res.say(text)
}

func (e *Engine) save(res *Result, st *models.GameState, log *zap.Logger) {
	if e.store == nil {
		res.say("Saving is not available.")
		return
	}
	if err := e.store.Save(st); err != nil {
		log.Error("save failed", zap.Error(err))
		res.say(fmt.Sprintf("Could not save your game: %v", err))
		return
	}
	log.Info("game saved")
	res.say("Your progress is recorded in the ship's log.")
}

func (e *Engine) load(res *Result, st *models.GameState, log *zap.Logger) {
	if e.store == nil {
		res.say("Loading is not available.")
		return
	}
	if err := e.store.Restore(st); err != nil {
		if errors.Is(err, models.ErrNoSave) {
			res.say("There is no saved game to load.")
			return
		}
		log.Error("load failed", zap.Error(err))
		res.say(fmt.Sprintf("Could not load your game: %v", err))
		return
	}
	log.Info("game loaded", zap.String("loaded_session", st.ID), zap.String("loaded_scene", string(st.Scene)))
	res.say("You pick up the thread of your adventure.")
	res.Moved = true
	e.describe(res, st)
	if st.Pending != "" {
		if scene, ok := e.world.Scene(st.Scene); ok {
			if eff, ok := scene.Commands[st.Pending]; ok && eff.Prompt != nil {
				res.say(eff.Prompt.Question)
			}
		}
	}
}

func inventoryText(st *models.GameState) string {
	if len(st.Inventory) == 0 {
		return "You carry nothing but your wits."
	}
	return "You carry:\n  - " + strings.Join(st.Inventory, "\n  - ")
}

func statusText(st *models.GameState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Health: %d\nReputation: %d\n", st.Health, st.Reputation)
	for _, skill := range slices.Sorted(maps.Keys(st.Skills)) {
		fmt.Fprintf(&b, "%s: %d\n", skillName(skill), st.Skills[skill])
	}
	if len(st.Achievements) == 0 {
		b.WriteString("Achievements: none yet")
	} else {
		names := make([]string, len(st.Achievements))
		for i, a := range st.Achievements {
			names[i] = achievementName(a)
		}
		b.WriteString("Achievements: " + strings.Join(names, ", "))
	}
	return b.String()
}

func skillName(skill string) string {
	if skill == "" {
		return skill
	}
	return strings.ToUpper(skill[:1]) + skill[1:]
}

// achievementName turns "weathered_the_storm" into "Weathered the storm".
func achievementName(id string) string {
	return skillName(strings.ReplaceAll(id, "_", " "))
}
