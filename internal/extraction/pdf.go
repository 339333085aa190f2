package extraction

import (
	"bytes"
	"context"
	"fmt"

	"github.com/ledongthuc/pdf"

	"call-auditor-go/internal/types"
)

// ScannedPDFReason is reported when a PDF has no text layer.
const ScannedPDFReason = "PDF appears to be scanned; OCR for PDF not implemented"

// PDFStrategy reads the embedded text layer of a PDF.
type PDFStrategy struct {
	plainText func(path string) (string, error)
}

func NewPDFStrategy() *PDFStrategy {
	return &PDFStrategy{plainText: pdfPlainText}
}

func (p *PDFStrategy) Name() string { return "pdf-text" }

func (p *PDFStrategy) Available() bool { return true }

func (p *PDFStrategy) Extract(_ context.Context, path string) (string, error) {
	raw, err := p.plainText(path)
	if err != nil {
		return "", types.NewExtractionError(p.Name(), "could not read PDF", err)
	}
	text := normalizeText(raw)
	if text == "" {
		return "", types.NewExtractionError(p.Name(), ScannedPDFReason, nil)
	}
	return text, nil
}

// pdfPlainText converts parser panics on malformed files into errors.
func pdfPlainText(path string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	rd, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(rd); err != nil {
		return "", err
	}
	return buf.String(), nil
}
