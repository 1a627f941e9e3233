package extract

import (
	"bytes"
	"fmt"
	"strings"

	"code.sajari.com/docconv"
)

func extractPDF(data []byte) (string, error) {
	text, _, err := docconv.ConvertPDF(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("convert pdf: %w", err)
	}
	return strings.TrimSpace(text), nil
}
