package domain

import (
	"path/filepath"
	"strings"
)

// SelectedFile is one file handed over by the host file-picker.
// The content is referenced by Path and never copied into memory.
type SelectedFile struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	MIMEType string `json:"mime_type"`
	Size     int64  `json:"size"`
}

// Ext returns the lowercase extension of the file name
func (f SelectedFile) Ext() string {
	return strings.ToLower(filepath.Ext(f.Name))
}

// Kind returns a short human label for the declared type (pdf, image, word, text, file)
func (f SelectedFile) Kind() string {
	switch {
	case strings.Contains(f.MIMEType, "pdf"):
		return "pdf"
	case strings.HasPrefix(f.MIMEType, "image/"):
		return "image"
	case strings.Contains(f.MIMEType, "word"):
		return "word"
	case strings.HasPrefix(f.MIMEType, "text/"):
		return "text"
	default:
		return "file"
	}
}

// DefaultAllowedTypes are the document and image types the text-extraction
// service accepts.
var DefaultAllowedTypes = []string{
	"application/pdf",
	"image/jpeg",
	"image/tiff",
	"image/bmp",
	"image/png",
	"image/gif",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"text/plain",
	"application/rtf",
}

// AllowedTypeSet is an immutable membership filter over MIME type strings.
// Matching is exact: no wildcards, prefixes or case folding.
type AllowedTypeSet struct {
	types map[string]struct{}
	order []string
}

// NewAllowedTypeSet builds a set from the given types, dropping blanks and duplicates
func NewAllowedTypeSet(types []string) AllowedTypeSet {
	set := AllowedTypeSet{types: make(map[string]struct{}, len(types))}
	for _, t := range types {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := set.types[t]; ok {
			continue
		}
		set.types[t] = struct{}{}
		set.order = append(set.order, t)
	}
	return set
}

// Contains reports whether mimeType is a member of the set
func (s AllowedTypeSet) Contains(mimeType string) bool {
	_, ok := s.types[mimeType]
	return ok
}

// Types returns the members in declaration order
func (s AllowedTypeSet) Types() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of members
func (s AllowedTypeSet) Len() int {
	return len(s.order)
}
