package scoreplay

import (
	"errors"
	"sort"
)

// Score is the loaded chart as the engine reports it after parsing: the track
// list plus the master bar list carrying per-bar tempo and time signature.
// Ticks are the engine-native sub-beat unit; there are PPQ ticks per quarter
// note regardless of tempo, so all bar/beat math starts from ticks and only
// TimeAt converts to wall-clock milliseconds.
type Score struct {
	Title   string  `yaml:"title,omitempty"`
	Artist  string  `yaml:"artist,omitempty"`
	PPQ     int     `yaml:"ppq"`
	TotalMs float64 `yaml:"totalMs,omitempty"`
	Tracks  []Track `yaml:"tracks"`
	Bars    []Bar   `yaml:"bars"`
}

// Bar is one master bar. Start is the tick at which the bar begins; BPM is
// the tempo in effect from that tick until the next bar.
type Bar struct {
	Start      int     `yaml:"start"`
	TimeSigNum int     `yaml:"timeSigNum"`
	TimeSigDen int     `yaml:"timeSigDen"`
	BPM        float64 `yaml:"bpm"`
}

// Position is a playback position expressed in both engine time and musical
// coordinates. Bar and Beat are zero-based indices into the score; Track is
// the cursor track, or -1 when no track is singled out.
type Position struct {
	TimeMs  float64
	TotalMs float64
	Tick    int
	Bar     int
	Beat    int
	Track   int
}

// Validate checks that the score is usable for position math.
func (s *Score) Validate() error {
	if s.PPQ <= 0 {
		return errors.New("score PPQ should be > 0")
	}
	if len(s.Bars) == 0 {
		return errors.New("score should have at least one bar")
	}
	for i, b := range s.Bars {
		if b.TimeSigNum <= 0 || b.TimeSigDen <= 0 {
			return errors.New("every bar should have a positive time signature")
		}
		if b.BPM <= 0 {
			return errors.New("every bar should have a positive tempo")
		}
		if i > 0 && b.Start <= s.Bars[i-1].Start {
			return errors.New("bar starts should be strictly increasing")
		}
	}
	if s.Bars[0].Start != 0 {
		return errors.New("the first bar should start at tick 0")
	}
	return nil
}

// TicksPerBeat returns the length of one beat of the given bar in ticks. A
// beat here is the denominator note of the time signature, e.g. an eighth
// note in 6/8.
func (s *Score) TicksPerBeat(bar int) int {
	return s.PPQ * 4 / s.Bars[bar].TimeSigDen
}

// BarLen returns the length of the given bar in ticks.
func (s *Score) BarLen(bar int) int {
	return s.Bars[bar].TimeSigNum * s.TicksPerBeat(bar)
}

// End returns the first tick past the last bar.
func (s *Score) End() int {
	last := len(s.Bars) - 1
	return s.Bars[last].Start + s.BarLen(last)
}

// BarAt returns the index of the bar containing the given tick. Ticks before
// the score clamp to the first bar and ticks past the end to the last.
func (s *Score) BarAt(tick int) int {
	if tick <= 0 {
		return 0
	}
	i := sort.Search(len(s.Bars), func(i int) bool { return s.Bars[i].Start > tick })
	return i - 1
}

// BPMAt returns the tempo in effect at the given tick.
func (s *Score) BPMAt(tick int) float64 {
	return s.Bars[s.BarAt(tick)].BPM
}

// PositionAt converts a tick into bar/beat coordinates. The beat index is
// clamped to the bar, so a tick slightly past the written end of a bar (as
// engines emit around bar lines) still maps inside it.
func (s *Score) PositionAt(tick int) Position {
	bar := s.BarAt(tick)
	beat := (tick - s.Bars[bar].Start) / s.TicksPerBeat(bar)
	if n := s.Bars[bar].TimeSigNum; beat >= n {
		beat = n - 1
	}
	if beat < 0 {
		beat = 0
	}
	return Position{
		TimeMs:  s.TimeAt(tick),
		TotalMs: s.TotalMs,
		Tick:    tick,
		Bar:     bar,
		Beat:    beat,
		Track:   -1,
	}
}

// TickAt is the inverse of TimeAt: it converts milliseconds into a tick,
// clamped to the score. Fractional ticks round down.
func (s *Score) TickAt(ms float64) int {
	if ms <= 0 {
		return 0
	}
	elapsed := 0.0
	for i, b := range s.Bars {
		barTicks := s.BarLen(i)
		barMs := float64(barTicks) * 60000 / (b.BPM * float64(s.PPQ))
		if ms < elapsed+barMs {
			return b.Start + int((ms-elapsed)*b.BPM*float64(s.PPQ)/60000)
		}
		elapsed += barMs
	}
	return s.End()
}

// TimeAt converts a tick into milliseconds by integrating the tempo bar by
// bar up to the tick.
func (s *Score) TimeAt(tick int) float64 {
	if tick < 0 {
		tick = 0
	}
	ms := 0.0
	for i, b := range s.Bars {
		end := b.Start + s.BarLen(i)
		upTo := tick
		if end < upTo {
			upTo = end
		}
		if upTo > b.Start {
			// one quarter note is PPQ ticks and 60000/BPM milliseconds
			ms += float64(upTo-b.Start) * 60000 / (b.BPM * float64(s.PPQ))
		}
		if tick <= end {
			break
		}
	}
	return ms
}
