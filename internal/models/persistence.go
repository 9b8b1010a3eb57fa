package models

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

const DefaultSavePath = ".saves/pirates.yaml"

// ErrNoSave is returned by Load when the save file does not exist.
var ErrNoSave = errors.New("no saved game")

// Store reads and writes a GameState to a single YAML file.
type Store struct {
	Path string
}

func NewStore(path string) *Store {
	if path == "" {
		path = DefaultSavePath
	}
	return &Store{Path: path}
}

// Save writes the whole state to the store's file, replacing any earlier save.
func (st *Store) Save(s *GameState) error {
	if dir := filepath.Dir(st.Path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating save directory: %w", err)
		}
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding game state: %w", err)
	}

	// Write next to the target and rename so a crash never leaves half a file.
	tmp := st.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing save file: %w", err)
	}
	if err := os.Rename(tmp, st.Path); err != nil {
		return fmt.Errorf("replacing save file: %w", err)
	}
	return nil
}

// Load reads a state back from the store's file.
func (st *Store) Load() (*GameState, error) {
	data, err := os.ReadFile(st.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoSave
	}
	if err != nil {
		return nil, fmt.Errorf("reading save file: %w", err)
	}

	var s GameState
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing save file: %w", err)
	}
	if !s.Scene.Valid() {
		return nil, fmt.Errorf("save file names unknown scene %q", s.Scene)
	}

	if s.Inventory == nil {
		s.Inventory = []string{}
	}
	if s.Achievements == nil {
		s.Achievements = []string{}
	}
	// Award and HasAchievement binary-search, so a hand-edited list is
	// sorted and deduplicated here.
	slices.Sort(s.Achievements)
	s.Achievements = slices.Compact(s.Achievements)
	if s.Log == nil {
		s.Log = []string{}
	}
	if s.Skills == nil {
		s.Skills = map[string]int{}
	}
	return &s, nil
}

// Restore loads the saved state into s. On any failure s is left untouched.
func (st *Store) Restore(s *GameState) error {
	loaded, err := st.Load()
	if err != nil {
		return err
	}
	*s = *loaded
	return nil
}
