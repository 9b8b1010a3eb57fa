package models

import (
	"maps"
	"slices"

	"github.com/google/uuid"
)

// SceneID names one location in the scene graph.
type SceneID string

const (
	SceneShipDeck         SceneID = "ship_deck"
	SceneBelowDeck        SceneID = "below_deck"
	SceneCrewQuarters     SceneID = "crew_quarters"
	SceneOpenSea          SceneID = "open_sea"
	SceneStormAtSea       SceneID = "storm_at_sea"
	SceneIslandApproach   SceneID = "island_approach"
	SceneIslandForest     SceneID = "island_forest"
	SceneAbandonedVillage SceneID = "abandoned_village"
	SceneLookout          SceneID = "lookout"
	SceneRivalEncounter   SceneID = "rival_encounter"
	SceneFortress         SceneID = "fortress"
	SceneTreasureVault    SceneID = "treasure_vault"
	SceneFinal            SceneID = "final"
)

// AllScenes lists every scene in story order.
var AllScenes = []SceneID{
	SceneShipDeck, SceneBelowDeck, SceneCrewQuarters, SceneOpenSea,
	SceneStormAtSea, SceneIslandApproach, SceneIslandForest,
	SceneAbandonedVillage, SceneLookout, SceneRivalEncounter,
	SceneFortress, SceneTreasureVault, SceneFinal,
}

// Valid reports whether s is one of AllScenes.
func (s SceneID) Valid() bool {
	return slices.Contains(AllScenes, s)
}

// Skill names.
const (
	SkillCombat      = "combat"
	SkillNegotiation = "negotiation"
	SkillPuzzle      = "puzzle"
)

const (
	StartingHealth = 100
	MaxHealth      = 100
	startingSkill  = 5
)

// GameState is the whole of a player's progress. It is saved and restored
// wholesale.
type GameState struct {
	ID           string         `yaml:"id"`
	Scene        SceneID        `yaml:"scene"`
	Player       string         `yaml:"player"`
	Inventory    []string       `yaml:"inventory"`
	Health       int            `yaml:"health"`
	Skills       map[string]int `yaml:"skills"`
	Reputation   int            `yaml:"reputation"`
	Achievements []string       `yaml:"achievements"`
	Log          []string       `yaml:"log"`
	Pending      string         `yaml:"pending,omitempty"` // command whose follow-up question is open
}

// NewGameState returns a fresh state standing on the ship's deck.
func NewGameState(player string) *GameState {
	return &GameState{
		ID:        uuid.NewString(),
		Scene:     SceneShipDeck,
		Player:    player,
		Inventory: []string{},
		Health:    StartingHealth,
		Skills: map[string]int{
			SkillCombat:      startingSkill,
			SkillNegotiation: startingSkill,
			SkillPuzzle:      startingSkill,
		},
		Achievements: []string{},
		Log:          []string{},
	}
}

// AddItem puts item in the inventory unless it is already there.
func (s *GameState) AddItem(item string) bool {
	if slices.Contains(s.Inventory, item) {
		return false
	}
	s.Inventory = append(s.Inventory, item)
	return true
}

// HasItem reports whether the inventory holds item.
func (s *GameState) HasItem(item string) bool {
	return slices.Contains(s.Inventory, item)
}

// Award records an achievement. Achievements are a set kept sorted so the
// save file is stable.
func (s *GameState) Award(achievement string) bool {
	i, found := slices.BinarySearch(s.Achievements, achievement)
	if found {
		return false
	}
	s.Achievements = slices.Insert(s.Achievements, i, achievement)
	return true
}

// HasAchievement reports whether achievement has been awarded.
func (s *GameState) HasAchievement(achievement string) bool {
	_, found := slices.BinarySearch(s.Achievements, achievement)
	return found
}

// AdjustHealth adds delta to health, clamped to [0, MaxHealth].
func (s *GameState) AdjustHealth(delta int) {
	s.Health = min(max(s.Health+delta, 0), MaxHealth)
}

// Dead reports whether health has run out.
func (s *GameState) Dead() bool {
	return s.Health <= 0
}

// Record appends an event to the story log.
func (s *GameState) Record(event string) {
	s.Log = append(s.Log, event)
}

// Clone returns a deep copy of s.
func (s *GameState) Clone() *GameState {
	c := *s
	c.Inventory = slices.Clone(s.Inventory)
	c.Achievements = slices.Clone(s.Achievements)
	c.Log = slices.Clone(s.Log)
	c.Skills = maps.Clone(s.Skills)
	return &c
}
