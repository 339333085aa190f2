package extraction

import (
	"context"
	"strings"

	"call-auditor-go/internal/config"
	"call-auditor-go/internal/runner"
	"call-auditor-go/internal/types"
)

// OCRStrategy runs tesseract over an image.
type OCRStrategy struct {
	runner runner.Runner
	cfg    config.OCRConfig
}

func NewOCRStrategy(r runner.Runner, cfg config.OCRConfig) *OCRStrategy {
	if cfg.TesseractPath == "" {
		cfg.TesseractPath = "tesseract"
	}
	if cfg.Languages == "" {
		cfg.Languages = "eng"
	}
	return &OCRStrategy{runner: r, cfg: cfg}
}

func (o *OCRStrategy) Name() string { return "tesseract-ocr" }

func (o *OCRStrategy) Available() bool {
	_, err := o.runner.LookPath(o.cfg.TesseractPath)
	return err == nil
}

func (o *OCRStrategy) Extract(ctx context.Context, path string) (string, error) {
	out, stderr, err := o.runner.Run(ctx, o.cfg.TesseractPath, o.args(path)...)
	if err != nil {
		reason := "tesseract failed"
		if msg := strings.TrimSpace(runner.Truncate(string(stderr), 512)); msg != "" {
			reason += ": " + msg
		}
		return "", types.NewExtractionError(o.Name(), reason, err)
	}
	text := normalizeText(string(out))
	if text == "" {
		return "", types.NewExtractionError(o.Name(), "no text recognized in image", nil)
	}
	return text, nil
}

// tesseract <file> stdout -l <langs> --oem 3 --psm 6
func (o *OCRStrategy) args(path string) []string {
	args := []string{path, "stdout", "-l", o.cfg.Languages, "--oem", "3", "--psm", "6"}
	if o.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", o.cfg.TessdataDir)
	}
	return args
}
