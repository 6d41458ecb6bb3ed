package enginetest_test

import (
	"testing"

	"github.com/zazu-22/scoreplay"
	"github.com/zazu-22/scoreplay/enginetest"
)

func TestDemoScoreIsUsable(t *testing.T) {
	score := enginetest.DemoScore(120)
	if err := score.Validate(); err != nil {
		t.Fatalf("the demo score should validate, got %v", err)
	}
	if score.TotalMs != 16000 {
		t.Errorf("eight 4/4 bars at 120 bpm last 16 s, got %v ms", score.TotalMs)
	}
}

func TestDemoChartDetectsAsGuitarPro(t *testing.T) {
	if f := scoreplay.DetectChartFormat(enginetest.DemoChart()); f != scoreplay.ChartGuitarPro {
		t.Errorf("expected a guitarpro payload, got %v", f)
	}
}

func TestEngineRecordsCalls(t *testing.T) {
	f := enginetest.NewFactory(enginetest.DemoScore(120))
	e, err := f.Engine(scoreplay.EngineSettings{EnablePlayer: true, Speed: 1})
	if err != nil {
		t.Fatalf("construction should succeed, got %v", err)
	}
	var loads int
	e.Events().ScoreLoaded.On(func(*scoreplay.Score) { loads++ })
	if err := e.Load(enginetest.DemoChart()); err != nil {
		t.Fatalf("load should succeed, got %v", err)
	}
	if loads != 1 {
		t.Errorf("autoload should emit ScoreLoaded once, got %d", loads)
	}
	log := f.Last().CallLog()
	if len(log) == 0 || log[0] != "load(89 bytes)" {
		t.Errorf("calls should be recorded, got %v", log)
	}
}
