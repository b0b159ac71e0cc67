package models

// UploadedImage is a preprocessed upload, ready to be displayed and analyzed.
type UploadedImage struct {
	DataURL        string `json:"data_url"`
	MIMEType       string `json:"mime_type"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	OriginalWidth  int    `json:"original_width"`
	OriginalHeight int    `json:"original_height"`
	SizeBytes      int    `json:"size_bytes"`
}

func (u *UploadedImage) Resized() bool {
	return u.Width != u.OriginalWidth || u.Height != u.OriginalHeight
}
