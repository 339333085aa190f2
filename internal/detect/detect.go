package detect

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/sirupsen/logrus"

	"call-auditor-go/internal/types"
)

var extCategories = map[string]types.Category{
	".mp3":  types.CategoryAudio,
	".wav":  types.CategoryAudio,
	".m4a":  types.CategoryAudio,
	".mp4":  types.CategoryVideo,
	".avi":  types.CategoryVideo,
	".mov":  types.CategoryVideo,
	".png":  types.CategoryImage,
	".jpg":  types.CategoryImage,
	".jpeg": types.CategoryImage,
	".pdf":  types.CategoryPDF,
	".docx": types.CategoryDocument,
	".txt":  types.CategoryDocument,
	".xlsx": types.CategoryDocument,
}

// Detector classifies artifacts by content, falling back to the file extension.
type Detector struct {
	sniff func(path string) (string, error)
	log   *logrus.Entry
}

func New(log *logrus.Entry) *Detector {
	return &Detector{sniff: sniffFile, log: log.WithField("component", "detector")}
}

func sniffFile(path string) (string, error) {
	m, err := mimetype.DetectFile(path)
	if err != nil {
		return "", err
	}
	return m.String(), nil
}

// Detect never fails: unreadable or unrecognised content falls through to
// the extension table and finally to CategoryUnknown.
func (d *Detector) Detect(path string) types.Category {
	mime, err := d.sniff(path)
	if err != nil {
		d.log.WithError(err).WithField("path", path).Debug("content sniff failed, using extension")
	} else if c, ok := fromMIME(mime); ok {
		return c
	}
	return FromExtension(path)
}

func fromMIME(mime string) (types.Category, bool) {
	// strip parameters such as "; charset=utf-8"
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	mime = strings.ToLower(strings.TrimSpace(mime))
	switch {
	case strings.HasPrefix(mime, "audio/"):
		return types.CategoryAudio, true
	case strings.HasPrefix(mime, "video/"):
		return types.CategoryVideo, true
	case strings.HasPrefix(mime, "image/"):
		return types.CategoryImage, true
	case strings.Contains(mime, "pdf"):
		return types.CategoryPDF, true
	case strings.Contains(mime, "document"), strings.Contains(mime, "text"):
		return types.CategoryDocument, true
	}
	return "", false
}

// FromExtension maps a path's extension (case-insensitive) to a category.
func FromExtension(path string) types.Category {
	if c, ok := extCategories[strings.ToLower(filepath.Ext(path))]; ok {
		return c
	}
	return types.CategoryUnknown
}
