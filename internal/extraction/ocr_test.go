package extraction

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"call-auditor-go/internal/config"
	"call-auditor-go/internal/types"
)

func TestOCRStrategy_Args(t *testing.T) {
	r := &fakeRunner{stdout: []byte("Agent:   hello\r\n\r\n\r\n\r\nClient: hi  \n")}
	o := NewOCRStrategy(r, config.OCRConfig{TesseractPath: "tesseract", Languages: "eng+chi_sim+chi_tra+msa", TessdataDir: "/td"})

	text, err := o.Extract(context.Background(), "/in/chat.png")
	require.NoError(t, err)
	assert.Equal(t, "Agent: hello\n\nClient: hi", text)
	assert.Equal(t, []string{
		"/in/chat.png", "stdout", "-l", "eng+chi_sim+chi_tra+msa", "--oem", "3", "--psm", "6", "--tessdata-dir", "/td",
	}, r.args)
}

func TestOCRStrategy_Failures(t *testing.T) {
	o := NewOCRStrategy(&fakeRunner{err: errors.New("exit status 1"), stderr: []byte("Error in pixReadStream")}, config.OCRConfig{})
	_, err := o.Extract(context.Background(), "/in/bad.jpg")
	var ee *types.ExtractionError
	require.ErrorAs(t, err, &ee)
	assert.Contains(t, ee.Reason, "pixReadStream")

	o = NewOCRStrategy(&fakeRunner{stdout: []byte("  \n")}, config.OCRConfig{})
	_, err = o.Extract(context.Background(), "/in/blank.png")
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, "no text recognized in image", ee.Reason)
}

func TestOCRStrategy_Available(t *testing.T) {
	assert.True(t, NewOCRStrategy(&fakeRunner{}, config.OCRConfig{}).Available())
	assert.False(t, NewOCRStrategy(&fakeRunner{missing: map[string]bool{"tesseract": true}}, config.OCRConfig{}).Available())
}
