// Package audio plays short tones as feedback for spawning and removing
// particles.
package audio

import (
	"fmt"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate = beep.SampleRate(44100)

	spawnFreq  = 880
	removeFreq = 440
	toneLength = 50 * time.Millisecond
)

// Player gives audible feedback for particle events.
type Player interface {
	Spawned()
	Removed()
}

// Silent is a Player that plays nothing.
type Silent struct{}

// Spawned does nothing.
func (Silent) Spawned() {}

// Removed does nothing.
func (Silent) Removed() {}

// Speaker plays tones on the default audio device.
type Speaker struct{}

// NewSpeaker initialises the audio device. Callers typically fall back to
// Silent when it fails.
func NewSpeaker() (*Speaker, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return nil, fmt.Errorf("failed to initialise speaker: %w", err)
	}
	return &Speaker{}, nil
}

// Spawned plays a high blip.
func (s *Speaker) Spawned() {
	s.play(spawnFreq)
}

// Removed plays a lower pop.
func (s *Speaker) Removed() {
	s.play(removeFreq)
}

func (s *Speaker) play(freq float64) {
	t, err := tone(freq, toneLength)
	if err != nil {
		return
	}
	speaker.Play(t)
}

// tone returns a sine wave of the given frequency and duration.
func tone(freq float64, d time.Duration) (beep.Streamer, error) {
	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		return nil, err
	}
	return beep.Take(sampleRate.N(d), sine), nil
}
