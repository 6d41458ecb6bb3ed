package scoreplay

import (
	"bytes"
	"unicode/utf8"
)

// ChartFormat classifies a chart payload by sniffing its header. Guitar Pro
// family formats are rendered and played natively by the engine; plain text,
// PDF and image charts are display-only and never reach the engine at all.
type ChartFormat int

const (
	ChartUnknown ChartFormat = iota
	ChartGuitarPro           // classic .gp3/.gp4/.gp5 binary
	ChartGPX                 // .gpx container (BCFZ compressed)
	ChartGP7                 // .gp zip container
	ChartPlainText
	ChartPDF
	ChartPNG
	ChartJPEG
)

var chartFormatNames = map[ChartFormat]string{
	ChartUnknown:   "unknown",
	ChartGuitarPro: "guitarpro",
	ChartGPX:       "gpx",
	ChartGP7:       "gp7",
	ChartPlainText: "text",
	ChartPDF:       "pdf",
	ChartPNG:       "png",
	ChartJPEG:      "jpeg",
}

func (f ChartFormat) String() string { return chartFormatNames[f] }

// NativePlayback reports whether the format has an engine-driven,
// tempo-synchronized player of its own. Non-native charts rely on the
// external metronome scheduler and time-based auto-scroll instead.
func (f ChartFormat) NativePlayback() bool {
	switch f {
	case ChartGuitarPro, ChartGPX, ChartGP7:
		return true
	}
	return false
}

// Renderable reports whether the format can be loaded into the engine.
func (f ChartFormat) Renderable() bool { return f.NativePlayback() }

var (
	gpMagic   = []byte("FICHIER GUITAR PRO")
	gpxMagic  = []byte("BCFZ")
	zipMagic  = []byte("PK\x03\x04")
	pdfMagic  = []byte("%PDF")
	pngMagic  = []byte("\x89PNG\r\n\x1a\n")
	jpegMagic = []byte("\xff\xd8\xff")
)

// DetectChartFormat sniffs the payload header. Empty or undecodable payloads
// return ChartUnknown.
func DetectChartFormat(data []byte) ChartFormat {
	switch {
	case len(data) == 0:
		return ChartUnknown
	// .gp3/4/5 files start with a pascal string holding the version text
	case len(data) > 1 && int(data[0]) <= len(data)-1 && bytes.HasPrefix(data[1:], gpMagic):
		return ChartGuitarPro
	case bytes.HasPrefix(data, gpxMagic):
		return ChartGPX
	case bytes.HasPrefix(data, zipMagic):
		return ChartGP7
	case bytes.HasPrefix(data, pdfMagic):
		return ChartPDF
	case bytes.HasPrefix(data, pngMagic):
		return ChartPNG
	case bytes.HasPrefix(data, jpegMagic):
		return ChartJPEG
	case utf8.Valid(data) && !bytes.ContainsRune(data, 0):
		return ChartPlainText
	}
	return ChartUnknown
}
