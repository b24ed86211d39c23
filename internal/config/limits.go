package config

const (
	// MaxHTMLChars is the hard cap on serialized email HTML.
	// Kept below the Salesforce Long Text field size (LongTextFieldLimit)
	// so the record still saves after the host adds its own wrapping.
	MaxHTMLChars = 125000

	// LongTextFieldLimit is the size of the Salesforce Long Text field
	// the email body is stored in. Only shown to users.
	LongTextFieldLimit = 131072

	// WarningRatio is the fraction of MaxHTMLChars at which the counter
	// switches to the warning band.
	WarningRatio = 0.90

	// ColumnWidth is the email template column. Width attributes in the
	// HTML are clamped to it.
	ColumnWidth = 600

	// DefaultMaxImageWidth is the widest an optimized image gets.
	// Configurable separately from ColumnWidth (MAX_IMAGE_WIDTH).
	DefaultMaxImageWidth = ColumnWidth

	// DefaultJPEGQuality is the recompression quality (0..1).
	DefaultJPEGQuality = 0.85

	// MaxUploadBodyBytes bounds JSON upload payloads (base64 inflates ~33%).
	MaxUploadBodyBytes = 10 << 20

	// MaxMultipartBytes bounds multipart image uploads.
	MaxMultipartBytes = 20 << 20

	// LinkMarker prefixes rewritten hrefs so the mail platform wraps them
	// for click tracking.
	LinkMarker = "HTTPGetWrap|"

	// DefaultAllowedOrigin is the origin the host component and the editor
	// iframe are served from.
	DefaultAllowedOrigin = "https://www.bbyosummer.org"
)
