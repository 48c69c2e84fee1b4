package main

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/lixenwraith/timeloop/engine"
	"github.com/lixenwraith/timeloop/engine/services"
)

type stubService struct {
	name string
	err  error
}

func (s *stubService) Name() string           { return s.name }
func (s *stubService) Dependencies() []string { return nil }
func (s *stubService) Start() error           { return s.err }
func (s *stubService) Stop() error            { return nil }

type countingPlayer struct{ tones int }

func (p *countingPlayer) PlayTone(float64, time.Duration) { p.tones++ }

func TestInstallAudioRequiresRunningService(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("device missing", func(t *testing.T) {
		w := engine.NewWorld()
		hub := services.NewHub(log)
		if err := hub.RegisterOptional(&stubService{name: audioService, err: errors.New("no audio device")}); err != nil {
			t.Fatal(err)
		}
		if err := hub.StartAll(); err != nil {
			t.Fatalf("Optional audio failure must not abort start: %v", err)
		}
		defer hub.StopAll()

		if installAudio(w, hub, &countingPlayer{}) {
			t.Error("Expected audio to stay uninstalled")
		}
		if _, ok := engine.GetResource[engine.AudioPlayer](w.Resources); ok {
			t.Error("AudioPlayer resource installed without a running service")
		}
	})

	t.Run("device present", func(t *testing.T) {
		w := engine.NewWorld()
		hub := services.NewHub(log)
		if err := hub.RegisterOptional(&stubService{name: audioService}); err != nil {
			t.Fatal(err)
		}
		if err := hub.StartAll(); err != nil {
			t.Fatal(err)
		}
		defer hub.StopAll()

		player := &countingPlayer{}
		if !installAudio(w, hub, player) {
			t.Fatal("Expected audio installed")
		}
		got, ok := engine.GetResource[engine.AudioPlayer](w.Resources)
		if !ok || got != engine.AudioPlayer(player) {
			t.Errorf("Expected installed player, got %v", got)
		}
	})
}
