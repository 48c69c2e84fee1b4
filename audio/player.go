// Package audio plays the tones the simulation requests through beep.
package audio

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/timeloop/parameter"
)

const sampleRate = beep.SampleRate(parameter.AudioSampleRate)

// TonePlayer mixes sine tones onto the speaker
// Tones requested while the speaker is down are dropped, not queued
type TonePlayer struct {
	mu      sync.Mutex
	mixer   *beep.Mixer
	volume  float64
	started bool

	muted   atomic.Bool
	played  atomic.Int64
	dropped atomic.Int64
}

// NewTonePlayer creates a player at the default volume
func NewTonePlayer() *TonePlayer {
	return &TonePlayer{
		mixer:  &beep.Mixer{},
		volume: parameter.AudioVolume,
	}
}

// Start initializes the speaker and begins playing the mixer
func (p *TonePlayer) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return nil
	}
	if err := speaker.Init(sampleRate, parameter.AudioBufferSize); err != nil {
		return fmt.Errorf("speaker init: %w", err)
	}
	speaker.Play(p.mixer)
	p.started = true
	return nil
}

// Stop silences queued tones and releases the speaker
func (p *TonePlayer) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.started {
		p.mixer.Clear()
		return
	}
	speaker.Clear()
	speaker.Close()
	p.mixer.Clear()
	p.started = false
}

// PlayTone mixes a sine tone in; non-positive frequencies and muted players are ignored
// Without a running speaker nothing drains the mixer, so the tone is dropped
func (p *TonePlayer) PlayTone(frequency float64, d time.Duration) {
	if p.muted.Load() || frequency <= 0 || d <= 0 {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.started {
		p.dropped.Add(1)
		return
	}
	tone, err := Tone(frequency, d, p.volume)
	if err != nil {
		return
	}
	speaker.Lock()
	p.mixer.Add(tone)
	speaker.Unlock()
	p.played.Add(1)
}

// ToggleMute flips mute, returning true if sound is now enabled
func (p *TonePlayer) ToggleMute() bool {
	muted := !p.muted.Load()
	p.muted.Store(muted)
	return !muted
}

// Pending returns the number of tones still in the mixer
func (p *TonePlayer) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		speaker.Lock()
		defer speaker.Unlock()
	}
	return p.mixer.Len()
}

// Played returns the number of tones accepted
func (p *TonePlayer) Played() int64 {
	return p.played.Load()
}

// Dropped returns the number of tones requested while the speaker was down
func (p *TonePlayer) Dropped() int64 {
	return p.dropped.Load()
}

// Tone builds a finite sine streamer with a short fade at both ends
func Tone(frequency float64, d time.Duration, volume float64) (beep.Streamer, error) {
	sine, err := generators.SineTone(sampleRate, frequency)
	if err != nil {
		return nil, fmt.Errorf("tone %.0fHz: %w", frequency, err)
	}
	n := sampleRate.N(d)
	shaped := &envelope{
		streamer: beep.Take(n, sine),
		total:    n,
		fade:     min(n/2, sampleRate.N(5*time.Millisecond)),
	}
	return &effects.Volume{
		Streamer: shaped,
		Base:     2,
		Volume:   math.Log2(volume),
	}, nil
}

// envelope ramps amplitude in and out linearly to avoid clicks
type envelope struct {
	streamer beep.Streamer
	total    int
	fade     int
	pos      int
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		gain := 1.0
		if e.fade > 0 {
			if e.pos < e.fade {
				gain = float64(e.pos) / float64(e.fade)
			} else if rem := e.total - e.pos; rem < e.fade {
				gain = float64(rem) / float64(e.fade)
			}
		}
		samples[i][0] *= gain
		samples[i][1] *= gain
		e.pos++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }
