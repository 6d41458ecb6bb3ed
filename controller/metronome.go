package controller

import "time"

// Sounder renders one audible metronome click. Implementations live outside
// the controller (see the oto package); a nil Sounder gives a visual-only
// metronome. Click is called from the metronome goroutine.
type Sounder interface {
	Click(volume float64, accent bool)
}

// Metronome is the external tick scheduler for charts whose format has no
// native tempo-following player. It runs as its own goroutine and owns its
// timer exclusively: the controller only sends it configuration messages, so
// every pending timer is cancelled inside the goroutine before it exits or
// reconfigures, and no tick can fire after the scheduler has been told to
// stop. Shutdown uses the broker's CloseMetronome/FinishedMetronome pair.
type Metronome struct {
	broker  *Broker
	sounder Sounder

	cfg         MsgToMetronome
	running     bool
	countInLeft int
	beat        int
}

func NewMetronome(broker *Broker, sounder Sounder) *Metronome {
	return &Metronome{broker: broker, sounder: sounder}
}

// MetronomeInterval returns the tick period for the given tempo and playback
// rate multiplier: 60000/bpm milliseconds at normal speed.
func MetronomeInterval(bpm, speed float64) time.Duration {
	if bpm <= 0 {
		return 0
	}
	if speed <= 0 {
		speed = 1
	}
	return time.Duration(60000 / (bpm * speed) * float64(time.Millisecond))
}

// Run executes the scheduler loop until CloseMetronome is signalled, then
// closes FinishedMetronome. The timer is stopped before Run returns, so once
// FinishedMetronome is closed no tick is pending anywhere.
func (m *Metronome) Run() {
	defer close(m.broker.FinishedMetronome)
	timer := time.NewTimer(time.Hour)
	if !timer.Stop() {
		<-timer.C
	}
	armed := false
	stop := func() {
		if !armed {
			return
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		armed = false
	}
	arm := func(d time.Duration) {
		stop()
		timer.Reset(d)
		armed = true
	}
	for {
		select {
		case <-m.broker.CloseMetronome:
			stop()
			return
		case cfg := <-m.broker.ToMetronome:
			wasRunning := m.running
			oldInterval := m.cfg.Interval
			m.cfg = cfg
			if !cfg.Running || cfg.Interval <= 0 {
				m.running = false
				stop()
				continue
			}
			if !wasRunning {
				m.running = true
				m.countInLeft = cfg.CountIn
				m.beat = 0
				if m.tick() {
					arm(cfg.Interval)
				} else {
					m.running = false
				}
				continue
			}
			if cfg.Interval != oldInterval {
				// re-arm so no timer keeps running at the old interval
				arm(cfg.Interval)
			}
		case <-timer.C:
			armed = false
			if !m.running {
				continue
			}
			if m.tick() {
				arm(m.cfg.Interval)
			} else {
				m.running = false
			}
		}
	}
}

// tick emits one click and reports whether another should be scheduled.
// Count-in clicks come first, at the count-in volume; afterwards regular
// beats continue only while the metronome volume is non-zero.
func (m *Metronome) tick() bool {
	if m.countInLeft > 0 {
		i := m.cfg.CountIn - m.countInLeft
		m.countInLeft--
		m.emit(MetronomeTick{Index: i, Accent: i == 0, CountIn: true}, m.cfg.CountInVolume)
		return true
	}
	if m.cfg.Volume <= 0 {
		return false
	}
	bpb := m.cfg.BeatsPerBar
	if bpb <= 0 {
		bpb = 4
	}
	t := MetronomeTick{Index: m.beat, Accent: m.beat%bpb == 0}
	m.beat++
	m.emit(t, m.cfg.Volume)
	return true
}

func (m *Metronome) emit(t MetronomeTick, volume float64) {
	TrySend(m.broker.ToController, MsgToController{Data: t})
	if m.sounder != nil && volume > 0 {
		m.sounder.Click(volume, t.Accent)
	}
}

// updateMetronome pushes the full desired scheduler configuration for the
// controller's current state. The external metronome only ever runs for
// charts without native playback; engine-backed charts click through the
// engine's own metronome.
func (c *Controller) updateMetronome() {
	cfg := MsgToMetronome{}
	if c.loaded && !c.format.NativePlayback() && c.state == TransportPlaying {
		countIn := 0
		if c.globalMix.CountIn > 0 {
			countIn = metronomeBeatsPerBar
		}
		cfg = MsgToMetronome{
			Running:       c.globalMix.Metronome > 0 || countIn > 0,
			Interval:      MetronomeInterval(c.bpm, c.speed),
			Volume:        c.globalMix.Metronome,
			BeatsPerBar:   metronomeBeatsPerBar,
			CountIn:       countIn,
			CountInVolume: c.globalMix.CountIn,
		}
	}
	TrySend(c.broker.ToMetronome, cfg)
}

// Charts without a parsed score have no time signature to go by.
const metronomeBeatsPerBar = 4
