// Package extract turns stored document bytes into plain text. Dispatch is
// by filename suffix over a closed set of formats; anything else reports
// errs.ErrUnsupported so the caller can skip the file and keep going.
package extract

import (
	"fmt"
	"strings"

	"github.com/tessellate-ai/ragpipe/internal/pkg/errs"
)

type Format int

const (
	FormatUnsupported Format = iota
	FormatTabular
	FormatPDF
	FormatSlides
	FormatDocument
	FormatMarkdown
)

func (f Format) String() string {
	switch f {
	case FormatTabular:
		return "tabular"
	case FormatPDF:
		return "pdf"
	case FormatSlides:
		return "slides"
	case FormatDocument:
		return "document"
	case FormatMarkdown:
		return "markdown"
	default:
		return "unsupported"
	}
}

// Detect maps a filename suffix to a format. Matching is case-sensitive:
// an uploaded "REPORT.PDF" is not recognized, same as the list-by-prefix
// convention the keys come from.
func Detect(filename string) Format {
	switch {
	case strings.HasSuffix(filename, ".csv"),
		strings.HasSuffix(filename, ".xlsx"),
		strings.HasSuffix(filename, ".xls"):
		return FormatTabular
	case strings.HasSuffix(filename, ".pdf"):
		return FormatPDF
	case strings.HasSuffix(filename, ".pptx"):
		return FormatSlides
	case strings.HasSuffix(filename, ".docx"):
		return FormatDocument
	case strings.HasSuffix(filename, ".md"):
		return FormatMarkdown
	default:
		return FormatUnsupported
	}
}

// Extract returns the plain text of data. A zero-length result with a nil
// error is possible (an empty sheet, a PDF of images); callers treat it the
// same as a skip.
func Extract(data []byte, filename string) (string, error) {
	switch Detect(filename) {
	case FormatTabular:
		return extractTabular(data, filename)
	case FormatPDF:
		return extractPDF(data)
	case FormatSlides:
		return extractSlides(data)
	case FormatDocument:
		return extractDocument(data)
	case FormatMarkdown:
		return extractMarkdown(data)
	default:
		return "", fmt.Errorf("%w: %s", errs.ErrUnsupported, filename)
	}
}
