package scoreplay

import (
	"gitlab.com/gomidi/midi/v2"
)

type (
	// Engine is the opaque notation rendering and playback engine. One Engine
	// instance is bound to exactly one loaded chart; re-loading a different
	// chart means destroying the instance and constructing a new one through
	// the EngineFactory. All methods except Destroy may be called only between
	// construction and Destroy. The engine delivers results asynchronously
	// through its Events; method calls return immediately and their effects
	// are confirmed by the corresponding event (e.g. Play by PlayerStateChanged).
	Engine interface {
		// Load starts parsing and rendering the given chart payload. Readiness
		// arrives via the ScoreLoaded and PlayerReady events, not the return
		// value; an immediate decode failure may be reported synchronously.
		Load(fileData []byte) error
		// Destroy tears the instance down and releases all engine resources.
		// No event fires after Destroy returns.
		Destroy()

		Play()
		Pause()
		Stop()
		// SetTimePosition seeks to the given playback time in milliseconds.
		SetTimePosition(ms float64)
		// SetPlaybackSpeed sets the playback rate multiplier (1.0 = normal).
		SetPlaybackSpeed(multiplier float64)

		// ChangeTrackMute, ChangeTrackSolo and ChangeTrackVolume are batch
		// calls over a set of track indices. Solo semantics are authoritative
		// on the engine side: soloing any track implicitly silences all
		// non-soloed tracks without reporting them as muted.
		ChangeTrackMute(tracks []int, muted bool)
		ChangeTrackSolo(tracks []int, solo bool)
		ChangeTrackVolume(tracks []int, volume float64)

		// SetMasterVolume, SetMetronomeVolume and SetCountInVolume take values
		// in [0,1]. Metronome and count-in are enabled by a non-zero volume
		// and disabled by exactly zero; that contract belongs to the engine
		// and callers must not re-encode it as a separate flag.
		SetMasterVolume(volume float64)
		SetMetronomeVolume(volume float64)
		SetCountInVolume(volume float64)

		Events() *EngineEvents
	}

	// EngineFactory constructs engine instances. Injecting a factory instead
	// of reaching for a process-wide engine handle keeps every session
	// explicitly owned by whoever loaded it.
	EngineFactory interface {
		Engine(settings EngineSettings) (Engine, error)
	}

	// EngineSettings is passed to the factory at construction time.
	EngineSettings struct {
		// EnablePlayer enables the audio player part of the engine. When
		// false the engine only renders notation (read-only mode).
		EnablePlayer bool
		// EnableCursor enables the playback cursor and beat hit-testing,
		// which the BeatMouseDown event depends on.
		EnableCursor bool
		// Speed is the initial playback rate multiplier.
		Speed float64
	}

	// PlayerState is the engine's own notion of whether its player is
	// running. It is reported through the PlayerStateChanged event.
	PlayerState int

	// PositionChange is the payload of the PlayerPositionChanged event. Tick
	// is the engine-native sub-beat unit; bar/beat math must start from it
	// rather than from TimeMs, since tempo may change per bar.
	PositionChange struct {
		TimeMs  float64
		TotalMs float64
		Tick    int
	}

	// BeatClick is the payload of the BeatMouseDown event: the beat the user
	// clicked in the rendered notation. Start and Duration are in ticks.
	// Modifier reports whether the range-selection modifier key was held.
	BeatClick struct {
		Track    int
		Start    int
		Duration int
		Modifier bool
	}

	// EngineEvents is the engine's event surface. Each stream supports any
	// number of handlers; On returns the corresponding off function. Engines
	// may emit from an internal goroutine, so handlers should only hand the
	// payload off (e.g. onto a channel) and return.
	EngineEvents struct {
		ScoreLoaded        Event[*Score]
		Error              Event[error]
		PlayerStateChanged Event[PlayerState]
		PlayerReady        Event[struct{}]
		RenderStarted      Event[struct{}]
		RenderFinished     Event[struct{}]
		PositionChanged    Event[PositionChange]
		PlayerFinished     Event[struct{}]
		BeatMouseDown      Event[BeatClick]
		MidiEventsPlayed   Event[[]midi.Message]
	}
)

const (
	PlayerPaused PlayerState = iota
	PlayerPlaying
)

func (s PlayerState) String() string {
	if s == PlayerPlaying {
		return "playing"
	}
	return "paused"
}
