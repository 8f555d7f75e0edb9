package domain

import (
	"time"

	"github.com/google/uuid"
)

// ExtractionResult is the body returned by the text-extraction endpoint on success.
// Its shape is not relied upon by the upload pass.
type ExtractionResult struct {
	Filename      string `json:"filename"`
	Filetype      string `json:"filetype"`
	ExtractedText string `json:"extracted_text,omitempty"`
	FileID        string `json:"file_id,omitempty"`
}

// StoredResult is an extraction result persisted locally after a successful upload
type StoredResult struct {
	SessionID  string           `json:"session_id"`
	SourcePath string           `json:"source_path"`
	Result     ExtractionResult `json:"result"`
	UploadedAt time.Time        `json:"uploaded_at"`
}

// Key returns the storage key: the remote file id when known, otherwise the
// file name slug qualified by a digest of the session and local source path.
// It is never empty.
func (r StoredResult) Key() string {
	if r.Result.FileID != "" {
		return r.Result.FileID
	}
	digest := uuid.NewSHA1(uuid.NameSpaceURL, []byte(r.SessionID+"\n"+r.SourcePath)).String()[:8]
	if slug := GenerateSlug(r.Result.Filename); slug != "" {
		return slug + "-" + digest
	}
	return digest
}
