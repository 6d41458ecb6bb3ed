package controller_test

import (
	"math"
	"testing"

	"github.com/zazu-22/scoreplay/controller"
)

func TestVolumesClampInsteadOfReject(t *testing.T) {
	c, factory := newTestController(controller.Options{})
	loadDemo(t, c)
	e := factory.Last()

	c.SetMasterVolume(1.5)
	if got := c.GlobalMix().Master; got != 1 {
		t.Errorf("master 1.5 should clamp to 1, got %v", got)
	}
	c.SetMasterVolume(-0.3)
	if got := c.GlobalMix().Master; got != 0 {
		t.Errorf("master -0.3 should clamp to 0, got %v", got)
	}
	c.SetMasterVolume(math.NaN())
	if got := c.GlobalMix().Master; got != 0 {
		t.Errorf("master NaN should clamp to 0, got %v", got)
	}
	c.SetTrackVolume(1, 7)
	if got := c.TrackMix()[1].Volume; got != 1 {
		t.Errorf("track volume 7 should clamp to 1, got %v", got)
	}
	log := e.CallLog()
	for _, call := range []string{"masterVolume=1.00", "masterVolume=0.00", "trackVolume([1])=1.00"} {
		if !contains(log, call) {
			t.Errorf("expected %q in call log: %v", call, log)
		}
	}
}

func TestUnknownTrackIndexIsIgnored(t *testing.T) {
	c, factory := newTestController(controller.Options{})
	loadDemo(t, c)
	before := len(factory.Last().CallLog())

	c.SetTrackVolume(99, 0.5)
	c.ToggleMute(-1)
	c.ToggleSolo(4)

	if got := len(factory.Last().CallLog()); got != before {
		t.Errorf("unknown track indices should not reach the engine: %v",
			factory.Last().CallLog()[before:])
	}
	var warned bool
	for _, a := range c.Alerts().List() {
		if a.Name == "TrackIndex" && a.Priority == controller.Warning {
			warned = true
		}
	}
	if !warned {
		t.Error("an unknown track index should leave a warning alert")
	}
}

func TestMuteAndSolo(t *testing.T) {
	c, factory := newTestController(controller.Options{})
	loadDemo(t, c)
	e := factory.Last()

	c.ToggleMute(0)
	c.ToggleSolo(2)
	if !c.TrackMix()[0].Muted || !c.TrackMix()[2].Solo {
		t.Error("mute and solo flags should be set after toggling")
	}
	// soloing track 2 must not mark the other tracks muted; the engine owns
	// what is audible
	if c.TrackMix()[0].Solo || c.TrackMix()[1].Muted || c.TrackMix()[3].Muted {
		t.Error("solo should not leak into other tracks' flags")
	}
	c.ToggleMute(0)
	c.ToggleSolo(2)
	if c.TrackMix()[0].Muted || c.TrackMix()[2].Solo {
		t.Error("toggling twice should restore the flags")
	}
	log := e.CallLog()
	for _, call := range []string{"mute([0])=true", "solo([2])=true", "mute([0])=false", "solo([2])=false"} {
		if !contains(log, call) {
			t.Errorf("expected %q in call log: %v", call, log)
		}
	}
}

func TestMetronomeAndCountInFollowVolume(t *testing.T) {
	c, _ := newTestController(controller.Options{})
	loadDemo(t, c)
	if c.MetronomeActive() || c.CountInActive() {
		t.Fatal("metronome and count-in should start off")
	}
	c.SetMetronomeVolume(0.5)
	c.SetCountInVolume(0.8)
	if !c.MetronomeActive() || !c.CountInActive() {
		t.Error("a non-zero volume should turn the feature on")
	}
	c.SetMetronomeVolume(0)
	c.SetCountInVolume(0)
	if c.MetronomeActive() || c.CountInActive() {
		t.Error("a zero volume should turn the feature off")
	}
}

func TestFloatParams(t *testing.T) {
	c, _ := newTestController(controller.Options{})
	loadDemo(t, c)

	master := c.MasterVolume().Float()
	master.Set(2)
	if master.Value() != 1 {
		t.Errorf("master param should clamp to 1, got %v", master.Value())
	}
	master.Add(-0.25)
	if master.Value() != 0.75 {
		t.Errorf("expected 0.75 after nudge, got %v", master.Value())
	}

	speed := c.PlaybackSpeed().Float()
	speed.Set(3)
	if speed.Value() != 2 {
		t.Errorf("speed should clamp to 2, got %v", speed.Value())
	}
	speed.Set(0.1)
	if speed.Value() != 0.25 {
		t.Errorf("speed should clamp to 0.25, got %v", speed.Value())
	}

	tv := c.TrackVolume(1)
	tv.Set(0.5)
	if tv.Value() != 0.5 {
		t.Errorf("track volume param expected 0.5, got %v", tv.Value())
	}
	if c.TrackVolume(99).Value() != 0 {
		t.Error("an out-of-range track volume param should read as 0")
	}
}

func TestTempoParamIgnoredForNativeCharts(t *testing.T) {
	c, _ := newTestController(controller.Options{})
	loadDemo(t, c)
	tempo := c.Tempo().Float()
	before := tempo.Value()
	tempo.Set(90)
	if tempo.Value() != before {
		t.Errorf("the score owns the tempo of a native chart, got %v", tempo.Value())
	}
}

func TestTempoParamDrivesNonNativeCharts(t *testing.T) {
	c, _ := newTestController(controller.Options{DefaultBPM: 100})
	if err := c.Load([]byte("verse chords: Am F C G\n")); err != nil {
		t.Fatalf("load should succeed, got %v", err)
	}
	drain(c)
	tempo := c.Tempo().Float()
	if tempo.Value() != 100 {
		t.Fatalf("expected the default tempo, got %v", tempo.Value())
	}
	tempo.Set(140)
	if tempo.Value() != 140 {
		t.Errorf("expected 140, got %v", tempo.Value())
	}
	tempo.Set(1000)
	if tempo.Value() != 300 {
		t.Errorf("tempo should clamp to 300, got %v", tempo.Value())
	}
}

func TestPlayingParam(t *testing.T) {
	c, _ := newTestController(controller.Options{})
	loadDemo(t, c)
	playing := c.Playing().Bool()
	if playing.Value() {
		t.Fatal("should not be playing after load")
	}
	playing.Toggle()
	drain(c)
	if c.State() != controller.TransportPlaying {
		t.Errorf("toggling the playing param should start playback, got %v", c.State())
	}
	playing.Toggle()
	drain(c)
	if c.State() != controller.TransportPaused {
		t.Errorf("toggling again should pause, got %v", c.State())
	}
}

func TestMuteSoloParams(t *testing.T) {
	c, _ := newTestController(controller.Options{})
	loadDemo(t, c)
	mute := c.Mute(3)
	mute.Toggle()
	if !mute.Value() || !c.TrackMix()[3].Muted {
		t.Error("the mute param should drive the track flag")
	}
	solo := c.Solo(0)
	solo.Set(true)
	if !c.TrackMix()[0].Solo {
		t.Error("the solo param should drive the track flag")
	}
	// out-of-range params are disabled and inert
	c.Mute(99).Toggle()
	if len(c.TrackMix()) != 4 {
		t.Error("toggling an unknown track should not grow the mix")
	}
}
