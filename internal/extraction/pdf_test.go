package extraction

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"call-auditor-go/internal/types"
)

func TestPDFStrategy_TextLayer(t *testing.T) {
	p := &PDFStrategy{plainText: func(string) (string, error) { return "Agent: hello\n\n\n\nClient: hi\n", nil }}
	text, err := p.Extract(context.Background(), "x.pdf")
	require.NoError(t, err)
	assert.Equal(t, "Agent: hello\n\nClient: hi", text)
}

func TestPDFStrategy_ScannedPDF(t *testing.T) {
	p := &PDFStrategy{plainText: func(string) (string, error) { return " \n\t", nil }}
	_, err := p.Extract(context.Background(), "scan.pdf")
	var ee *types.ExtractionError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, ScannedPDFReason, ee.Reason)
}

func TestPDFStrategy_ReadError(t *testing.T) {
	p := &PDFStrategy{plainText: func(string) (string, error) { return "", errors.New("bad xref") }}
	_, err := p.Extract(context.Background(), "x.pdf")
	assert.ErrorContains(t, err, "bad xref")
}

func TestPDFStrategy_MalformedFileDoesNotPanic(t *testing.T) {
	path := tempFile(t, "broken.pdf", []byte("%PDF-1.4\nthis is not really a pdf\n%%EOF\n"))
	assert.NotPanics(t, func() {
		_, err := NewPDFStrategy().Extract(context.Background(), path)
		assert.Error(t, err)
	})
}
