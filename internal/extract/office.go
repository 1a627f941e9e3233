package extract

import (
	"bytes"
	"fmt"
	"strings"

	"code.sajari.com/docconv"
)

func extractSlides(data []byte) (string, error) {
	text, _, err := docconv.ConvertPptx(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("convert pptx: %w", err)
	}
	return strings.TrimSpace(text), nil
}

func extractDocument(data []byte) (string, error) {
	text, _, err := docconv.ConvertDocx(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("convert docx: %w", err)
	}
	return strings.TrimSpace(text), nil
}
