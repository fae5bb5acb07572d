package files

import (
	"bytes"
	"errors"

	pdf "rsc.io/pdf"
)

// PDFDocument is the text layer pulled out of an uploaded PDF.
type PDFDocument struct {
	Pages int
	Text  string
}

// ExtractPDF opens a PDF at filePath and returns its page count plus
// extracted text up to maxChars. If maxChars <= 0, a sane default is used.
func ExtractPDF(filePath string, maxChars int) (*PDFDocument, error) {
	if maxChars <= 0 {
		maxChars = 12000 // ~2-3k tokens, avoids blowing context
	}

	r, err := pdf.Open(filePath)
	if err != nil {
		return nil, err
	}

	total := r.NumPage()
	if total == 0 {
		return nil, errors.New("pdf has no pages")
	}

	// Some PDFs carry no text layer; an empty Text with a valid page count is
	// still a usable result for the caller.
	var buf bytes.Buffer
	for pageIndex := 1; pageIndex <= total; pageIndex++ {
		p := r.Page(pageIndex)
		if p.V.IsNull() {
			continue
		}
		for _, t := range p.Content().Text {
			buf.WriteString(t.S)
		}
		buf.WriteString("\n\n")
		if buf.Len() >= maxChars {
			break
		}
	}

	text := buf.String()
	if len(text) > maxChars {
		text = text[:maxChars]
	}
	return &PDFDocument{Pages: total, Text: text}, nil
}
