package controller

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Settings is the persistable part of the controller state: the global mix
// levels and the playback speed. The band application stores one per user
// and hands it back on the next session.
type Settings struct {
	Master    float64 `yaml:"master" json:"master"`
	Metronome float64 `yaml:"metronome" json:"metronome"`
	CountIn   float64 `yaml:"countIn" json:"countIn"`
	Speed     float64 `yaml:"speed" json:"speed"`
}

// DefaultSettings returns the state of a fresh controller.
func DefaultSettings() Settings {
	return Settings{Master: 1, Speed: 1}
}

// ReadSettings parses settings from r, accepting JSON or YAML.
func ReadSettings(r io.Reader) (Settings, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return Settings{}, fmt.Errorf("could not read settings: %w", err)
	}
	s := DefaultSettings()
	if errJSON := json.Unmarshal(b, &s); errJSON != nil {
		if errYaml := yaml.Unmarshal(b, &s); errYaml != nil {
			return Settings{}, fmt.Errorf("settings are neither valid .json (%v) nor .yml (%v)", errJSON, errYaml)
		}
	}
	return s, nil
}

// WriteSettings writes the controller's current settings to w as YAML.
func (c *Controller) WriteSettings(w io.Writer) error {
	out, err := yaml.Marshal(c.Settings())
	if err != nil {
		return fmt.Errorf("could not marshal settings: %w", err)
	}
	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("could not write settings: %w", err)
	}
	return nil
}

// Settings returns the controller's persistable state.
func (c *Controller) Settings() Settings {
	return Settings{
		Master:    c.globalMix.Master,
		Metronome: c.globalMix.Metronome,
		CountIn:   c.globalMix.CountIn,
		Speed:     c.speed,
	}
}

// ApplySettings applies persisted settings, with the usual clamping.
func (c *Controller) ApplySettings(s Settings) {
	c.SetMasterVolume(s.Master)
	c.SetMetronomeVolume(s.Metronome)
	c.SetCountInVolume(s.CountIn)
	c.SetPlaybackSpeed(s.Speed)
}
