package controller_test

import (
	"math"
	"testing"
	"time"

	"github.com/zazu-22/scoreplay/controller"
)

func TestMetronomeInterval(t *testing.T) {
	cases := []struct {
		bpm, speed float64
		interval   time.Duration
	}{
		{120, 1, 500 * time.Millisecond},
		{60, 1, time.Second},
		{90, 1, 666666666 * time.Nanosecond},
		{120, 2, 250 * time.Millisecond},
		{120, 0.5, time.Second},
		{0, 1, 0},
	}
	for _, c := range cases {
		got := controller.MetronomeInterval(c.bpm, c.speed)
		if math.Abs(float64(got-c.interval)) > float64(time.Microsecond) {
			t.Errorf("MetronomeInterval(%v, %v) expected %v, got %v", c.bpm, c.speed, c.interval, got)
		}
	}
}

func startMetronome(t *testing.T) *controller.Broker {
	t.Helper()
	broker := controller.NewBroker()
	go controller.NewMetronome(broker, nil).Run()
	t.Cleanup(func() {
		controller.TrySend(broker.CloseMetronome, struct{}{})
		select {
		case <-broker.FinishedMetronome:
		case <-time.After(time.Second):
			t.Error("the metronome goroutine should exit after CloseMetronome")
		}
	})
	return broker
}

func nextTick(t *testing.T, broker *controller.Broker, within time.Duration) (controller.MetronomeTick, bool) {
	t.Helper()
	msg, ok := controller.TimeoutReceive(broker.ToController, within)
	if !ok {
		return controller.MetronomeTick{}, false
	}
	tick, ok := msg.Data.(controller.MetronomeTick)
	if !ok {
		t.Fatalf("expected a metronome tick, got %#v", msg.Data)
	}
	return tick, true
}

func TestMetronomeTicksAndAccents(t *testing.T) {
	broker := startMetronome(t)
	broker.ToMetronome <- controller.MsgToMetronome{
		Running:     true,
		Interval:    10 * time.Millisecond,
		Volume:      0.5,
		BeatsPerBar: 4,
	}
	var ticks []controller.MetronomeTick
	for len(ticks) < 6 {
		tick, ok := nextTick(t, broker, time.Second)
		if !ok {
			t.Fatalf("expected 6 ticks, got %d", len(ticks))
		}
		ticks = append(ticks, tick)
	}
	for i, tick := range ticks {
		if tick.Index != i || tick.CountIn {
			t.Errorf("tick %d: expected a regular beat with that index, got %+v", i, tick)
		}
		if accent := i%4 == 0; tick.Accent != accent {
			t.Errorf("tick %d: accent expected %v, got %+v", i, accent, tick)
		}
	}
}

func TestMetronomeStopsCleanly(t *testing.T) {
	broker := startMetronome(t)
	broker.ToMetronome <- controller.MsgToMetronome{
		Running:     true,
		Interval:    10 * time.Millisecond,
		Volume:      0.5,
		BeatsPerBar: 4,
	}
	if _, ok := nextTick(t, broker, time.Second); !ok {
		t.Fatal("the metronome should tick once started")
	}
	broker.ToMetronome <- controller.MsgToMetronome{}
	// absorb ticks that were already in flight, then expect silence
	for {
		if _, ok := nextTick(t, broker, 50*time.Millisecond); !ok {
			break
		}
	}
	if tick, ok := nextTick(t, broker, 100*time.Millisecond); ok {
		t.Errorf("no tick should fire after the stop config, got %+v", tick)
	}
}

func TestMetronomeCountIn(t *testing.T) {
	broker := startMetronome(t)
	broker.ToMetronome <- controller.MsgToMetronome{
		Running:       true,
		Interval:      10 * time.Millisecond,
		Volume:        0.5,
		BeatsPerBar:   4,
		CountIn:       2,
		CountInVolume: 0.8,
	}
	var ticks []controller.MetronomeTick
	for len(ticks) < 3 {
		tick, ok := nextTick(t, broker, time.Second)
		if !ok {
			t.Fatalf("expected 3 ticks, got %d", len(ticks))
		}
		ticks = append(ticks, tick)
	}
	if !ticks[0].CountIn || !ticks[1].CountIn {
		t.Errorf("the first two ticks should be count-in clicks: %+v", ticks)
	}
	if !ticks[0].Accent || ticks[1].Accent {
		t.Errorf("only the first count-in click should be accented: %+v", ticks)
	}
	if ticks[2].CountIn || ticks[2].Index != 0 || !ticks[2].Accent {
		t.Errorf("the first regular beat should follow the count-in: %+v", ticks[2])
	}
}

func TestMetronomeCountInOnlyThenSilence(t *testing.T) {
	broker := startMetronome(t)
	broker.ToMetronome <- controller.MsgToMetronome{
		Running:       true,
		Interval:      10 * time.Millisecond,
		CountIn:       3,
		CountInVolume: 0.8,
	}
	for i := 0; i < 3; i++ {
		tick, ok := nextTick(t, broker, time.Second)
		if !ok || !tick.CountIn {
			t.Fatalf("count-in click %d missing, got %+v (ok %v)", i, tick, ok)
		}
	}
	if tick, ok := nextTick(t, broker, 100*time.Millisecond); ok {
		t.Errorf("with a zero metronome volume nothing should follow the count-in, got %+v", tick)
	}
}

// lastMetronomeConfig drains ToMetronome and returns the newest config.
func lastMetronomeConfig(t *testing.T, broker *controller.Broker) controller.MsgToMetronome {
	t.Helper()
	var cfg controller.MsgToMetronome
	received := false
	for {
		select {
		case cfg = <-broker.ToMetronome:
			received = true
		default:
			if !received {
				t.Fatal("expected at least one metronome config")
			}
			return cfg
		}
	}
}

func TestControllerDrivesMetronomeForNonNativeCharts(t *testing.T) {
	c, _ := newTestController(controller.Options{})
	if err := c.Load([]byte("A|--2--|\n")); err != nil {
		t.Fatalf("load should succeed, got %v", err)
	}
	drain(c)
	c.SetMetronomeVolume(0.5)
	c.Play()
	drain(c)
	cfg := lastMetronomeConfig(t, c.Broker())
	if !cfg.Running {
		t.Fatal("playing a non-native chart with the metronome on should start the scheduler")
	}
	if cfg.Interval != 500*time.Millisecond {
		t.Errorf("at 120 bpm the interval should be 500 ms, got %v", cfg.Interval)
	}
	if cfg.Volume != 0.5 {
		t.Errorf("the config should carry the metronome volume, got %v", cfg.Volume)
	}
	c.Pause()
	drain(c)
	if cfg := lastMetronomeConfig(t, c.Broker()); cfg.Running {
		t.Error("pausing should stop the scheduler")
	}
	// halving the tempo doubles the interval on the fly
	c.Play()
	drain(c)
	c.Tempo().Float().Set(60)
	if cfg := lastMetronomeConfig(t, c.Broker()); !cfg.Running || cfg.Interval != time.Second {
		t.Errorf("at 60 bpm the interval should be 1 s, got %+v", cfg)
	}
}

func TestSpeedChangeReconfiguresMetronome(t *testing.T) {
	c, _ := newTestController(controller.Options{})
	if err := c.Load([]byte("D|--0--|\n")); err != nil {
		t.Fatalf("load should succeed, got %v", err)
	}
	drain(c)
	c.SetMetronomeVolume(0.5)
	c.Play()
	drain(c)
	if cfg := lastMetronomeConfig(t, c.Broker()); cfg.Interval != 500*time.Millisecond {
		t.Fatalf("at 120 bpm and normal speed the interval should be 500 ms, got %v", cfg.Interval)
	}
	// doubling the speed halves the period while the scheduler is running
	c.SetPlaybackSpeed(2)
	cfg := lastMetronomeConfig(t, c.Broker())
	if !cfg.Running || cfg.Interval != 250*time.Millisecond {
		t.Errorf("at double speed the interval should be 250 ms, got %+v", cfg)
	}
	c.PlaybackSpeed().Float().Set(0.5)
	if cfg := lastMetronomeConfig(t, c.Broker()); cfg.Interval != time.Second {
		t.Errorf("at half speed the interval should be 1 s, got %v", cfg.Interval)
	}
}

func TestEngineBackedChartsUseTheEngineMetronome(t *testing.T) {
	c, _ := newTestController(controller.Options{})
	loadDemo(t, c)
	c.SetMetronomeVolume(0.5)
	c.Play()
	drain(c)
	if cfg := lastMetronomeConfig(t, c.Broker()); cfg.Running {
		t.Error("native charts click through the engine, not the external scheduler")
	}
}
