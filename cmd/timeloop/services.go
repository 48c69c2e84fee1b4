package main

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/timeloop/audio"
	"github.com/lixenwraith/timeloop/save"
)

// screenService owns the terminal for the session
type screenService struct {
	screen tcell.Screen
}

func (s *screenService) Name() string           { return "screen" }
func (s *screenService) Dependencies() []string { return nil }
func (s *screenService) Start() error           { return s.screen.Init() }

func (s *screenService) Stop() error {
	s.screen.Fini()
	return nil
}

// storeService opens the save database
type storeService struct {
	path  string
	store *save.Store
}

func (s *storeService) Name() string           { return "saves" }
func (s *storeService) Dependencies() []string { return nil }

func (s *storeService) Start() error {
	store, err := save.Open(s.path)
	if err != nil {
		return err
	}
	s.store = store
	return nil
}

func (s *storeService) Stop() error {
	if s.store == nil {
		return nil
	}
	err := s.store.Close()
	s.store = nil
	return err
}

const audioService = "audio"

// toneService drives the speaker
type toneService struct {
	player *audio.TonePlayer
}

func (s *toneService) Name() string           { return audioService }
func (s *toneService) Dependencies() []string { return nil }
func (s *toneService) Start() error           { return s.player.Start() }

func (s *toneService) Stop() error {
	s.player.Stop()
	return nil
}
