// Package export renders transcripts for download. Only plain text is ever
// produced; the pdf and docx format tags select the timestamped layout and
// the download extension, a documented limitation of the current exporter.
package export

import (
	"fmt"
	"strings"

	"github.com/transcripthub/backend/internal/models"
)

// Format is the requested export format tag.
type Format string

const (
	FormatTXT  Format = "txt"
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

// Valid reports whether f is a supported format tag.
func (f Format) Valid() bool {
	switch f {
	case FormatTXT, FormatPDF, FormatDOCX:
		return true
	}
	return false
}

// ContentType returns the MIME type for the download. Content is plain
// text for every format.
func (f Format) ContentType() string {
	return "text/plain; charset=utf-8"
}

// Document is a rendered export ready to hand to the download collaborator.
type Document struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Render produces the export document for a transcript. fileName is the
// owning audio file's display name, used for the header and the download
// filename.
func Render(t models.Transcript, fileName string, format Format) (Document, error) {
	if !format.Valid() {
		return Document{}, fmt.Errorf("export: unsupported format %q", format)
	}

	var content string
	switch format {
	case FormatTXT:
		content = renderPlain(t)
	default:
		content = renderTimestamped(t, fileName)
	}

	return Document{
		Filename:    fmt.Sprintf("%s_transcript.%s", fileName, format),
		ContentType: format.ContentType(),
		Content:     []byte(content),
	}, nil
}

// renderPlain emits "[speaker] text" lines separated by blank lines.
func renderPlain(t models.Transcript) string {
	var lines []string
	for _, sp := range t.Speakers {
		for _, seg := range sp.Segments {
			lines = append(lines, fmt.Sprintf("[%s] %s", sp.Name, seg.Text))
		}
	}
	return strings.Join(lines, "\n\n")
}

// renderTimestamped emits a header and "[<start>s] speaker: text" lines.
func renderTimestamped(t models.Transcript, fileName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Transcript: %s\n\n", fileName)
	var lines []string
	for _, sp := range t.Speakers {
		for _, seg := range sp.Segments {
			lines = append(lines, fmt.Sprintf("[%gs] %s: %s", seg.StartTime, sp.Name, seg.Text))
		}
	}
	b.WriteString(strings.Join(lines, "\n\n"))
	return b.String()
}
