package models

// LengthBand is the display band of the size counter
type LengthBand string

const (
	BandNormal     LengthBand = "normal"
	BandWarning    LengthBand = "warning"
	BandAtCap      LengthBand = "at_cap"
	BandProcessing LengthBand = "processing" // paste or upload in flight
)

// LengthStatus is one evaluation of the length guard.
type LengthStatus struct {
	Count     int        `json:"count"`
	Cap       int        `json:"cap"`
	Band      LengthBand `json:"band"`
	Text      string     `json:"text"`
	Truncated bool       `json:"truncated"`
}
