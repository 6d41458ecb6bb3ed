// Package enginetest provides an in-memory engine implementing the
// scoreplay.Engine boundary. Tests use it to script engine behavior call by
// call; the command line player uses it with a clock to run the controller
// without the licensed rendering engine.
package enginetest

import (
	"fmt"
	"sync"
	"time"

	"github.com/zazu-22/scoreplay"
)

type (
	// Factory constructs Engines and records every construction, so tests
	// can assert how many instances a sequence of loads created and reach
	// the most recent one.
	Factory struct {
		// Score is what every engine reports once loading succeeds.
		Score *scoreplay.Score
		// AutoLoad makes Load immediately emit ScoreLoaded and PlayerReady.
		// Tests that exercise pending loads leave it off and emit manually.
		AutoLoad bool
		// ConstructErr makes the factory itself fail.
		ConstructErr error
		// LoadErr makes every engine's Load return this error.
		LoadErr error

		Created  []*Engine
		Settings []scoreplay.EngineSettings
	}

	// Engine is the fake. Every call is appended to Calls in a compact
	// printable form, which is what tests assert against.
	Engine struct {
		events scoreplay.EngineEvents

		mu        sync.Mutex
		score     *scoreplay.Score
		autoLoad  bool
		loadErr   error
		destroyed bool
		playing   bool
		timeMs    float64
		speed     float64
		Calls     []string
	}
)

// NewFactory returns a factory whose engines load the given score
// immediately and report readiness.
func NewFactory(score *scoreplay.Score) *Factory {
	return &Factory{Score: score, AutoLoad: true}
}

func (f *Factory) Engine(settings scoreplay.EngineSettings) (scoreplay.Engine, error) {
	if f.ConstructErr != nil {
		return nil, f.ConstructErr
	}
	e := &Engine{score: f.Score, autoLoad: f.AutoLoad, loadErr: f.LoadErr, speed: settings.Speed}
	f.Created = append(f.Created, e)
	f.Settings = append(f.Settings, settings)
	return e, nil
}

// Last returns the most recently constructed engine, or nil.
func (f *Factory) Last() *Engine {
	if len(f.Created) == 0 {
		return nil
	}
	return f.Created[len(f.Created)-1]
}

func (e *Engine) record(format string, args ...any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Calls = append(e.Calls, fmt.Sprintf(format, args...))
}

// CallLog returns a copy of the recorded calls.
func (e *Engine) CallLog() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.Calls))
	copy(out, e.Calls)
	return out
}

// Destroyed reports whether Destroy has been called.
func (e *Engine) Destroyed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.destroyed
}

func (e *Engine) Events() *scoreplay.EngineEvents { return &e.events }

func (e *Engine) Load(fileData []byte) error {
	e.record("load(%d bytes)", len(fileData))
	if e.loadErr != nil {
		return e.loadErr
	}
	if e.autoLoad {
		e.events.ScoreLoaded.Emit(e.score)
		e.events.PlayerReady.Emit(struct{}{})
	}
	return nil
}

func (e *Engine) Destroy() {
	e.record("destroy")
	e.mu.Lock()
	e.destroyed = true
	e.playing = false
	e.mu.Unlock()
}

func (e *Engine) Play() {
	e.record("play")
	e.mu.Lock()
	e.playing = true
	e.mu.Unlock()
	e.events.PlayerStateChanged.Emit(scoreplay.PlayerPlaying)
}

func (e *Engine) Pause() {
	e.record("pause")
	e.mu.Lock()
	e.playing = false
	e.mu.Unlock()
	e.events.PlayerStateChanged.Emit(scoreplay.PlayerPaused)
}

func (e *Engine) Stop() {
	e.record("stop")
	e.mu.Lock()
	e.playing = false
	e.timeMs = 0
	e.mu.Unlock()
	e.events.PlayerStateChanged.Emit(scoreplay.PlayerPaused)
}

func (e *Engine) SetTimePosition(ms float64) {
	e.record("seek(%.1f)", ms)
	e.mu.Lock()
	e.timeMs = ms
	e.mu.Unlock()
}

func (e *Engine) SetPlaybackSpeed(multiplier float64) {
	e.record("speed(%.2f)", multiplier)
	e.mu.Lock()
	e.speed = multiplier
	e.mu.Unlock()
}

func (e *Engine) ChangeTrackMute(tracks []int, muted bool) {
	e.record("mute(%v)=%v", tracks, muted)
}

func (e *Engine) ChangeTrackSolo(tracks []int, solo bool) {
	e.record("solo(%v)=%v", tracks, solo)
}

func (e *Engine) ChangeTrackVolume(tracks []int, volume float64) {
	e.record("trackVolume(%v)=%.2f", tracks, volume)
}

func (e *Engine) SetMasterVolume(volume float64) {
	e.record("masterVolume=%.2f", volume)
}

func (e *Engine) SetMetronomeVolume(volume float64) {
	e.record("metronomeVolume=%.2f", volume)
}

func (e *Engine) SetCountInVolume(volume float64) {
	e.record("countInVolume=%.2f", volume)
}

// DemoScore returns a small four-track, eight-bar score in 4/4 at the given
// tempo, the shape a real engine reports for a typical band chart.
func DemoScore(bpm float64) *scoreplay.Score {
	const ppq = 960
	score := &scoreplay.Score{
		Title: "Demo",
		PPQ:   ppq,
		Tracks: []scoreplay.Track{
			{Name: "Vocals", ShortName: "vox", Program: 54},
			{Name: "Guitar", ShortName: "gtr", Program: 29},
			{Name: "Bass", ShortName: "bass", Program: 33},
			{Name: "Drums", ShortName: "drm", Percussion: true},
		},
	}
	for i := 0; i < 8; i++ {
		score.Bars = append(score.Bars, scoreplay.Bar{
			Start:      i * 4 * ppq,
			TimeSigNum: 4,
			TimeSigDen: 4,
			BPM:        bpm,
		})
	}
	score.TotalMs = score.TimeAt(score.End())
	return score
}

// DemoChart returns a payload that classifies as a native Guitar Pro chart.
func DemoChart() []byte {
	version := "FICHIER GUITAR PRO v5.00"
	data := append([]byte{byte(len(version))}, []byte(version)...)
	return append(data, make([]byte, 64)...)
}

// RunClock advances playback time in real time while the engine is playing,
// emitting PositionChanged events the way a real engine's player thread
// does, until done is closed. For use with the command line player.
func (e *Engine) RunClock(interval time.Duration, done <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			e.mu.Lock()
			if e.destroyed || !e.playing || e.score == nil {
				e.mu.Unlock()
				continue
			}
			e.timeMs += float64(interval.Milliseconds()) * e.speed
			ms := e.timeMs
			score := e.score
			e.mu.Unlock()
			tick := score.TickAt(ms)
			if tick >= score.End() {
				e.mu.Lock()
				e.playing = false
				e.timeMs = 0
				e.mu.Unlock()
				e.events.PlayerFinished.Emit(struct{}{})
				e.events.PlayerStateChanged.Emit(scoreplay.PlayerPaused)
				continue
			}
			e.events.PositionChanged.Emit(scoreplay.PositionChange{
				TimeMs:  ms,
				TotalMs: score.TotalMs,
				Tick:    tick,
			})
		}
	}
}
