package ui

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/kamal-hamza/docup/internal/core/domain"
)

// FormatStatus renders an upload state with its icon and color
func FormatStatus(state domain.UploadState) string {
	switch state {
	case domain.StateSucceeded:
		return StyleSuccess.Render(IconSuccess + " " + state.String())
	case domain.StateFailed:
		return StyleError.Render(IconError + " " + state.String())
	default:
		return StyleAccent.Render(IconUploading + " " + state.String())
	}
}

// FormatPending renders a file the current pass has not reached
func FormatPending() string {
	return StyleMuted.Render("Pending")
}

// FormatNotice renders the aggregate rejection notice as a bordered box
func FormatNotice(n domain.Notice) string {
	if n.Count() == 0 {
		return ""
	}
	return StyleNotice.Render(IconWarning + " " + n.String())
}

// FileIcon picks an icon for the file's declared type
func FileIcon(f domain.SelectedFile) string {
	if f.Kind() == "image" {
		return IconImage
	}
	return IconFile
}

// FormatSize renders a byte count in human units
func FormatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// Truncate shortens s to width cells, marking the cut with an ellipsis
func Truncate(s string, width int) string {
	r := []rune(s)
	if width <= 0 || len(r) <= width {
		return s
	}
	if width <= 3 {
		return string(r[:width])
	}
	return string(r[:width-3]) + "..."
}

// HighlightJSON applies terminal syntax highlighting to a JSON document
func HighlightJSON(content string) string {
	lexer := lexers.Get("json")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}

	iterator, err := lexer.Tokenise(nil, content)
	if err != nil {
		return content
	}

	var buf strings.Builder
	if err := formatters.TTY16m.Format(&buf, style, iterator); err != nil {
		return content
	}
	return buf.String()
}
