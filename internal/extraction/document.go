package extraction

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/xuri/excelize/v2"

	"call-auditor-go/internal/types"
)

type docFormat int

const (
	formatUnsupported docFormat = iota
	formatPlain
	formatDOCX
	formatXLSX
)

var docExtFormats = map[string]docFormat{
	".txt":  formatPlain,
	".md":   formatPlain,
	".csv":  formatPlain,
	".docx": formatDOCX,
	".xlsx": formatXLSX,
}

// DocumentStrategy extracts text from plain-text, Word and Excel files.
type DocumentStrategy struct {
	sniff func(path string) (string, error)
}

func NewDocumentStrategy() *DocumentStrategy {
	return &DocumentStrategy{sniff: func(path string) (string, error) {
		m, err := mimetype.DetectFile(path)
		if err != nil {
			return "", err
		}
		return m.String(), nil
	}}
}

func (d *DocumentStrategy) Name() string { return "document-text" }

func (d *DocumentStrategy) Available() bool { return true }

func (d *DocumentStrategy) Extract(_ context.Context, path string) (string, error) {
	var (
		text string
		err  error
	)
	switch d.format(path) {
	case formatPlain:
		text, err = readPlain(path)
	case formatDOCX:
		text, err = readDOCX(path)
	case formatXLSX:
		text, err = readXLSX(path)
	default:
		return "", types.NewExtractionError(d.Name(), "unsupported document format", nil)
	}
	if err != nil {
		return "", types.NewExtractionError(d.Name(), "could not read document", err)
	}
	return strings.TrimSpace(text), nil
}

// format prefers the extension and falls back to sniffed content.
func (d *DocumentStrategy) format(path string) docFormat {
	if f, ok := docExtFormats[strings.ToLower(filepath.Ext(path))]; ok {
		return f
	}
	mime, err := d.sniff(path)
	if err != nil {
		return formatUnsupported
	}
	switch {
	case strings.HasPrefix(mime, "text/plain"), strings.HasPrefix(mime, "text/csv"):
		return formatPlain
	case strings.Contains(mime, "wordprocessingml.document"):
		return formatDOCX
	case strings.Contains(mime, "spreadsheetml.sheet"):
		return formatXLSX
	}
	return formatUnsupported
}

func readPlain(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	b = trimBOM(b)
	if !utf8.Valid(b) {
		return strings.ToValidUTF8(string(b), "�"), nil
	}
	return string(b), nil
}

func trimBOM(b []byte) []byte {
	if len(b) >= 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		return b[3:]
	}
	return b
}

// readDOCX walks word/document.xml, emitting one line per paragraph.
func readDOCX(path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}
	defer zr.Close()

	var body *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			body = f
			break
		}
	}
	if body == nil {
		return "", fmt.Errorf("docx has no word/document.xml")
	}
	rc, err := body.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	var sb strings.Builder
	dec := xml.NewDecoder(rc)
	inText := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse docx: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				sb.WriteByte('\t')
			case "br", "cr":
				sb.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}
	return sb.String(), nil
}

// readXLSX emits every non-empty row as tab-separated cells, sheet by sheet.
func readXLSX(path string) (string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	var lines []string
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return "", fmt.Errorf("read rows of %s: %w", sheet, err)
		}
		for _, r := range rows {
			line := strings.TrimRight(strings.Join(r, "\t"), "\t ")
			if strings.TrimSpace(line) != "" {
				lines = append(lines, line)
			}
		}
	}
	return strings.Join(lines, "\n"), nil
}
