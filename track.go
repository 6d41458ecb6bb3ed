package scoreplay

// Track is one instrument staff of the loaded chart. The slice index in
// Score.Tracks is the stable track ordinal used by all engine batch calls.
type Track struct {
	Name       string `yaml:"name"`
	ShortName  string `yaml:"shortName,omitempty"`
	Percussion bool   `yaml:"percussion,omitempty"`
	// Program is the General MIDI program number of the track, used when
	// forwarding played events to an external MIDI port.
	Program int `yaml:"program,omitempty"`
}
