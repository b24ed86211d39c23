package models

const (
	MIMEPNG  = "image/png"
	MIMEJPEG = "image/jpeg"
	MIMEGIF  = "image/gif"
)

// ImageAsset is the result of running an uploaded image through the optimizer.
// It lives for the duration of one upload.
type ImageAsset struct {
	InputType  string `json:"input_type"`
	OutputType string `json:"output_type"`
	Data       []byte `json:"-"`
	DataURL    string `json:"data_url"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Size       int    `json:"size"`
	// Fallback is set when decoding failed and Data is the original input
	Fallback bool `json:"fallback"`
}
