package scoreplay

import "errors"

// Failure categories of the playback controller. Callers should match these
// with errors.Is; the wrapped messages carry the detail.
var (
	// ErrInvalidFileFormat means the chart payload could not be decoded at
	// all. No engine session is created for such a payload.
	ErrInvalidFileFormat = errors.New("invalid file format")

	// ErrEngineInit means the engine failed during construction or load.
	ErrEngineInit = errors.New("engine initialization failed")

	// ErrLoadTimeout means the engine reported neither readiness nor an
	// error within the load timeout window.
	ErrLoadTimeout = errors.New("loading timeout")

	// ErrTrackIndex means a mixer call referred to a track that does not
	// exist in the current score. This is a stale-UI race, not a user error;
	// the mixer logs it and carries on.
	ErrTrackIndex = errors.New("track index out of range")
)
