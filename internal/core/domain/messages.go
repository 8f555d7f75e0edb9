package domain

import (
	"fmt"
	"strings"
)

// Process messages shown on the single status line
const (
	MsgFilesSelected  = "Files selected. Ready to upload."
	MsgUploadStarting = "Starting upload process..."
	MsgUploadComplete = "Upload process completed."
)

// MsgUploaded is the message after a file was accepted by the endpoint
func MsgUploaded(name string) string {
	return fmt.Sprintf("%s uploaded successfully.", name)
}

// MsgUploadFailed is the message after a file failed to upload
func MsgUploadFailed(name string) string {
	return fmt.Sprintf("Failed to upload %s.", name)
}

// Notice reports files excluded from a selection because of their type
type Notice struct {
	Excluded []SelectedFile
}

// Count returns how many files were excluded
func (n Notice) Count() int {
	return len(n.Excluded)
}

// String renders the aggregate notice
func (n Notice) String() string {
	if len(n.Excluded) == 0 {
		return ""
	}
	names := make([]string, 0, len(n.Excluded))
	for _, f := range n.Excluded {
		names = append(names, f.Name)
	}
	noun := "files were"
	if len(n.Excluded) == 1 {
		noun = "file was"
	}
	return fmt.Sprintf("Some files were filtered out: %d %s not a supported file type (%s)",
		len(n.Excluded), noun, strings.Join(names, ", "))
}
