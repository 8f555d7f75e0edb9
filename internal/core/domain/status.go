package domain

// UploadState is the per-file state within one upload pass
type UploadState int

const (
	StateUploading UploadState = iota
	StateSucceeded
	StateFailed
)

// String returns the label shown next to the file
func (s UploadState) String() string {
	switch s {
	case StateUploading:
		return "Uploading..."
	case StateSucceeded:
		return "Uploaded successfully"
	case StateFailed:
		return "Failed to upload"
	default:
		return "Unknown"
	}
}

// IsTerminal reports whether the state can no longer change within the pass
func (s UploadState) IsTerminal() bool {
	return s == StateSucceeded || s == StateFailed
}

// UploadStatus is the status entry of one admitted file
type UploadStatus struct {
	Name   string            `json:"name"`
	State  UploadState       `json:"state"`
	Result *ExtractionResult `json:"result,omitempty"`
	Err    string            `json:"error,omitempty"`
}
