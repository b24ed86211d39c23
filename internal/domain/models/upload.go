package models

// UploadRequest is the JSON body accepted by the upload endpoint.
// Data is a base64 data URL (data:image/png;base64,...).
type UploadRequest struct {
	Filename string `json:"filename"`
	Data     string `json:"data"`
}

// UploadResult is returned on success
type UploadResult struct {
	Success  bool   `json:"success"`
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Folder   string `json:"folder"` // "YYYY/MM/"
}

// UploadErrorResponse keeps the {error} body contract of the upload endpoint
type UploadErrorResponse struct {
	Error string `json:"error"`
}
