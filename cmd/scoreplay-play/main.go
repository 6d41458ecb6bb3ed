package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/zazu-22/scoreplay"
	"github.com/zazu-22/scoreplay/controller"
	"github.com/zazu-22/scoreplay/controller/gomidi"
	"github.com/zazu-22/scoreplay/enginetest"
	"github.com/zazu-22/scoreplay/oto"
	"github.com/zazu-22/scoreplay/version"
)

func main() {
	settingsPath := flag.String("settings", "", "Load mixer settings from this .yml or .json file.")
	scorePath := flag.String("score", "", "Simulate playback using the score structure in this .yml file.")
	bpm := flag.Float64("bpm", 120, "Tempo used for charts that carry no tempo of their own.")
	midiOut := flag.String("midi", "", "Forward played MIDI events to the first output port with this name prefix.")
	readOnly := flag.Bool("readonly", false, "Render only; disable all playback controls.")
	versionFlag := flag.Bool("v", false, "Print version.")
	flag.Usage = printUsage
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.String())
		os.Exit(0)
	}
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}
	fileData, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not read chart file: %v\n", err)
		os.Exit(1)
	}

	broker := controller.NewBroker()

	var sounder controller.Sounder
	if audio, err := oto.NewContext(); err != nil {
		fmt.Fprintf(os.Stderr, "could not acquire audio context, metronome will be silent: %v\n", err)
	} else {
		sounder = audio
	}

	midiCtx := gomidi.NewContext()
	defer midiCtx.Close()
	if *midiOut != "" {
		midiCtx.TryToOpenBy(*midiOut, false)
	}

	// the licensed engine is not embeddable in a terminal player; the
	// simulated engine stands in and emits position events on a clock
	score := enginetest.DemoScore(*bpm)
	if *scorePath != "" {
		b, err := os.ReadFile(*scorePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not read score: %v\n", err)
			os.Exit(1)
		}
		score = &scoreplay.Score{}
		if err := yaml.Unmarshal(b, score); err != nil {
			fmt.Fprintf(os.Stderr, "could not parse score: %v\n", err)
			os.Exit(1)
		}
		if err := score.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "unusable score: %v\n", err)
			os.Exit(1)
		}
		if score.TotalMs <= 0 {
			score.TotalMs = score.TimeAt(score.End())
		}
	}
	factory := enginetest.NewFactory(score)

	c := controller.New(broker, factory, controller.Options{
		ReadOnly:   *readOnly,
		DefaultBPM: *bpm,
		OnTempoChange: func(bpm float64) {
			fmt.Printf("\rtempo: %.0f bpm\r\n", bpm)
		},
		OnError: func(message string) {
			fmt.Fprintf(os.Stderr, "\rengine error: %s\r\n", message)
		},
		MIDIOut: midiCtx.HandleMidiEvents,
	})

	if *settingsPath != "" {
		f, err := os.Open(*settingsPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not open settings: %v\n", err)
			os.Exit(1)
		}
		s, err := controller.ReadSettings(f)
		f.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		c.ApplySettings(s)
	}

	metronome := controller.NewMetronome(broker, sounder)
	go metronome.Run()
	defer func() {
		controller.TrySend(broker.CloseMetronome, struct{}{})
		controller.TimeoutReceive(broker.FinishedMetronome, 3*time.Second)
	}()

	if err := c.Load(fileData); err != nil {
		fmt.Fprintf(os.Stderr, "could not load chart: %v\n", err)
		os.Exit(1)
	}
	engineDone := make(chan struct{})
	defer close(engineDone)
	if e := factory.Last(); e != nil {
		go e.RunClock(50*time.Millisecond, engineDone)
	}

	keys := make(chan byte, 16)
	if oldState, err := term.MakeRaw(int(os.Stdin.Fd())); err == nil {
		defer term.Restore(int(os.Stdin.Fd()), oldState)
	}
	go func() {
		buf := make([]byte, 1)
		for {
			n, err := os.Stdin.Read(buf)
			if err != nil {
				close(keys)
				return
			}
			if n > 0 {
				keys <- buf[0]
			}
		}
	}()

	fmt.Printf("%s (%s)\r\n", flag.Arg(0), c.Format())
	fmt.Print("[space] play/pause  [s]top  [+/-] master volume  [m]etronome  [q]uit\r\n")

	for {
		select {
		case msg := <-broker.ToController:
			c.ProcessMsg(msg)
		case msg := <-broker.ToHost:
			printStatus(msg)
		case k, ok := <-keys:
			if !ok {
				return
			}
			switch k {
			case ' ':
				c.PlayPause()
			case 's':
				c.Stop()
			case '+':
				c.MasterVolume().Float().Add(0.1)
			case '-':
				c.MasterVolume().Float().Add(-0.1)
			case 'm':
				if c.MetronomeActive() {
					c.SetMetronomeVolume(0)
				} else {
					c.SetMetronomeVolume(0.5)
				}
			case 'q', 3: // ctrl-c
				fmt.Print("\r\n")
				return
			}
		}
	}
}

func printStatus(msg controller.MsgToHost) {
	if alert, ok := msg.Data.(controller.Alert); ok {
		fmt.Printf("\r%s\r\n", alert.Message)
	}
	p := msg.Position
	fmt.Printf("\r%-7s bar %2d beat %d  %6.1fs / %6.1fs   ",
		msg.State, p.Bar+1, p.Beat+1, p.TimeMs/1000, p.TotalMs/1000)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Play a chart file with the score playback controller.\n\nUsage: %s [flags] chartfile\n", os.Args[0])
	flag.PrintDefaults()
}
