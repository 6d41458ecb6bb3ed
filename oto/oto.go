// Package oto renders the metronome and count-in clicks of the playback
// controller through the ebitengine/oto audio layer. It exists for charts
// the engine cannot play natively; engine-backed charts click inside the
// engine itself.
package oto

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"time"

	oto "github.com/ebitengine/oto/v3"
)

const (
	sampleRate = 44100
	channels   = 2
	clickMs    = 30
)

// Context owns the audio device and the two pre-rendered click bursts. It
// implements controller.Sounder. Click may be called from the metronome
// goroutine; the underlying oto player is safe for that.
type Context struct {
	ctx      *oto.Context
	normal   []byte
	accent   []byte
	clickLen time.Duration
}

// NewContext opens the audio device and waits until it is ready.
func NewContext() (*Context, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot create oto context: %w", err)
	}
	<-ready
	return &Context{
		ctx:      ctx,
		normal:   renderClick(760),
		accent:   renderClick(1140),
		clickLen: clickMs * time.Millisecond,
	}, nil
}

// Suspend pauses the audio device; Resume reverses it.
func (c *Context) Suspend() error { return c.ctx.Suspend() }
func (c *Context) Resume() error  { return c.ctx.Resume() }

// Click plays one metronome click at the given volume; accented clicks use
// a higher pitch. Volume 0 is silent and skipped entirely.
func (c *Context) Click(volume float64, accent bool) {
	if volume <= 0 {
		return
	}
	data := c.normal
	if accent {
		data = c.accent
	}
	p := c.ctx.NewPlayer(bytes.NewReader(data))
	p.SetVolume(volume)
	p.Play()
	// the player has no completion callback; dispose once the burst has
	// surely drained
	time.AfterFunc(c.clickLen+100*time.Millisecond, func() { p.Close() })
}

// renderClick renders a decaying sine burst as interleaved stereo in the
// little-endian float32 layout the context consumes.
func renderClick(freq float64) []byte {
	frames := sampleRate * clickMs / 1000
	buf := make([]float32, frames*channels)
	for i := 0; i < frames; i++ {
		t := float64(i) / sampleRate
		s := float32(math.Sin(2*math.Pi*freq*t) * math.Exp(-t*90))
		buf[i*channels] = s
		buf[i*channels+1] = s
	}
	return FloatBufferToLEBytes(buf, nil)
}

// FloatBufferToLEBytes converts a []float32 buffer to raw little-endian
// bytes. dst is reused when it has enough capacity, so callers converting
// repeatedly can avoid allocating every time.
func FloatBufferToLEBytes(buff []float32, dst []byte) []byte {
	need := len(buff) * 4
	if cap(dst) < need {
		dst = make([]byte, need)
	}
	dst = dst[:need]
	for i, v := range buff {
		binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(v))
	}
	return dst
}
