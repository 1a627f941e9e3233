package extract

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tessellate-ai/ragpipe/internal/pkg/errs"
)

func TestDetect(t *testing.T) {
	cases := map[string]Format{
		"u/c/n/report.csv":  FormatTabular,
		"u/c/n/sheet.xlsx":  FormatTabular,
		"u/c/n/legacy.xls":  FormatTabular,
		"u/c/n/paper.pdf":   FormatPDF,
		"u/c/n/deck.pptx":   FormatSlides,
		"u/c/n/letter.docx": FormatDocument,
		"u/c/n/notes.md":    FormatMarkdown,
		"u/c/n/image.png":   FormatUnsupported,
		"u/c/n/noext":       FormatUnsupported,
	}
	for filename, want := range cases {
		require.Equal(t, want, Detect(filename), filename)
	}
}

func TestDetect_SuffixMatchIsCaseSensitive(t *testing.T) {
	require.Equal(t, FormatUnsupported, Detect("REPORT.PDF"))
	require.Equal(t, FormatUnsupported, Detect("sheet.XLSX"))
}

func TestExtract_UnsupportedSuffix(t *testing.T) {
	_, err := Extract([]byte("anything"), "u/c/n/picture.png")
	require.ErrorIs(t, err, errs.ErrUnsupported)
}

func TestExtract_CSV(t *testing.T) {
	text, err := Extract([]byte("name,age\nalice,30\nbob,41\n"), "u/c/n/people.csv")
	require.NoError(t, err)
	require.Equal(t, "name age\nalice 30\nbob 41", text)
}

func TestExtract_CSVDeterministic(t *testing.T) {
	data := []byte("a,b,c\n1,2,3\n")
	first, err := Extract(data, "f.csv")
	require.NoError(t, err)
	second, err := Extract(data, "f.csv")
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestExtract_MalformedCSVFails(t *testing.T) {
	_, err := Extract([]byte("a,\"unterminated\n"), "u/c/n/bad.csv")
	require.Error(t, err)
}

func TestExtract_Markdown(t *testing.T) {
	md := "# Heading\n\nSome *emphasised* words.\n\n```go\nfmt.Println(\"hi\")\n```\n"
	text, err := Extract([]byte(md), "u/c/n/notes.md")
	require.NoError(t, err)
	require.Contains(t, text, "Heading")
	require.Contains(t, text, "emphasised")
	require.Contains(t, text, "fmt.Println")
	require.NotContains(t, text, "#")
	require.NotContains(t, text, "*")
	require.NotContains(t, text, "```")
}

func TestExtract_GarbageXLSXFails(t *testing.T) {
	_, err := Extract([]byte("definitely not a zip archive"), "u/c/n/sheet.xlsx")
	require.Error(t, err)
}

func TestExtract_GarbageDocxFails(t *testing.T) {
	_, err := Extract([]byte("not office xml"), "u/c/n/letter.docx")
	require.Error(t, err)
}
