package controller_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/zazu-22/scoreplay/controller"
)

func TestReadSettingsJSONAndYAML(t *testing.T) {
	cases := []struct {
		name, in string
	}{
		{"json", `{"master": 0.8, "metronome": 0.5, "countIn": 0.3, "speed": 1.5}`},
		{"yaml", "master: 0.8\nmetronome: 0.5\ncountIn: 0.3\nspeed: 1.5\n"},
	}
	for _, c := range cases {
		s, err := controller.ReadSettings(strings.NewReader(c.in))
		if err != nil {
			t.Fatalf("%s: expected settings to parse, got %v", c.name, err)
		}
		expected := controller.Settings{Master: 0.8, Metronome: 0.5, CountIn: 0.3, Speed: 1.5}
		if s != expected {
			t.Errorf("%s: expected %+v, got %+v", c.name, expected, s)
		}
	}
	if _, err := controller.ReadSettings(strings.NewReader("{invalid: [")); err == nil {
		t.Error("garbage should not parse as settings")
	}
}

func TestReadSettingsFillsDefaults(t *testing.T) {
	s, err := controller.ReadSettings(strings.NewReader("metronome: 0.4\n"))
	if err != nil {
		t.Fatalf("expected settings to parse, got %v", err)
	}
	if s.Master != 1 || s.Speed != 1 || s.Metronome != 0.4 {
		t.Errorf("missing fields should keep their defaults, got %+v", s)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	c, _ := newTestController(controller.Options{})
	loadDemo(t, c)
	c.ApplySettings(controller.Settings{Master: 0.7, Metronome: 0.2, CountIn: 1.5, Speed: 0.1})

	s := c.Settings()
	// out-of-range persisted values go through the usual clamping
	expected := controller.Settings{Master: 0.7, Metronome: 0.2, CountIn: 1, Speed: 0.25}
	if s != expected {
		t.Fatalf("expected %+v, got %+v", expected, s)
	}

	var buf bytes.Buffer
	if err := c.WriteSettings(&buf); err != nil {
		t.Fatalf("write should succeed, got %v", err)
	}
	back, err := controller.ReadSettings(&buf)
	if err != nil {
		t.Fatalf("the written settings should read back, got %v", err)
	}
	if back != expected {
		t.Errorf("round trip expected %+v, got %+v", expected, back)
	}
}

func TestAlertsDedupeByName(t *testing.T) {
	c, _ := newTestController(controller.Options{})
	a := c.Alerts()
	a.AddNamed("Load", "first failure", controller.Error)
	a.AddNamed("Load", "second failure", controller.Error)
	a.Add("something else", controller.Info)

	list := a.List()
	if len(list) != 2 {
		t.Fatalf("expected 2 alerts, got %v", list)
	}
	if list[0].Message != "second failure" {
		t.Errorf("the named alert should have been replaced, got %q", list[0].Message)
	}
	a.ClearNamed("Load")
	if list := a.List(); len(list) != 1 || list[0].Message != "something else" {
		t.Errorf("expected only the anonymous alert to remain, got %v", list)
	}
}
