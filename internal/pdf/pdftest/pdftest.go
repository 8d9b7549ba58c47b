// Package pdftest builds small but well-formed PDF documents for tests.
// The generated files use uncompressed content streams and a built-in
// Type1 font so that both structural validation and plain-text
// extraction see exactly the lines that went in, without binary
// fixtures checked into the repository.
package pdftest

import (
	"bytes"
	"fmt"
	"strings"
)

// Doc returns the bytes of a PDF that extracts to exactly the given
// text lines, one page per line. Keeping each line on its own page makes
// the extracted line boundaries independent of how a particular text
// extractor renders intra-page line advances.
func Doc(lines ...string) []byte {
	pages := make([][]string, len(lines))
	for i, line := range lines {
		pages[i] = []string{line}
	}
	return DocWithPages(pages...)
}

// EmptyDoc returns the bytes of a structurally valid one-page PDF that
// contains no text at all.
func EmptyDoc() []byte {
	return DocWithPages([]string{})
}

// DocWithPages returns the bytes of a PDF with one page per element of
// pages, each page drawing its lines as separate text lines.
func DocWithPages(pages ...[]string) []byte {
	objects := buildObjects(pages)

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objects)+1)
	for i, body := range objects {
		offsets[i+1] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}

	xrefOffset := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= len(objects); i++ {
		fmt.Fprintf(&buf, "%010d %05d n \n", offsets[i], 0)
	}

	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(objects)+1, xrefOffset)

	return buf.Bytes()
}

// buildObjects lays out catalog, page tree, font, then per page a page
// object followed by its content stream. Object numbers are positional:
// page i is object 4+2i, its contents 5+2i.
func buildObjects(pages [][]string) []string {
	kids := make([]string, 0, len(pages))
	for i := range pages {
		kids = append(kids, fmt.Sprintf("%d 0 R", 4+2*i))
	}

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>",
			strings.Join(kids, " "), len(pages)),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
	}

	for i, lines := range pages {
		objects = append(objects, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
				"/Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>",
			5+2*i))
		objects = append(objects, contentStream(lines))
	}

	return objects
}

// contentStream renders lines as Tj runs separated by T* so extracted
// text keeps its line boundaries.
func contentStream(lines []string) string {
	var ops strings.Builder
	ops.WriteString("BT /F1 12 Tf 14 TL 72 720 Td")
	for i, line := range lines {
		if i > 0 {
			ops.WriteString(" T*")
		}
		fmt.Fprintf(&ops, " (%s) Tj", escapeText(line))
	}
	ops.WriteString(" ET")

	stream := ops.String()
	return fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream)
}

var textEscaper = strings.NewReplacer(`\`, `\\`, "(", `\(`, ")", `\)`)

func escapeText(s string) string {
	return textEscaper.Replace(s)
}
