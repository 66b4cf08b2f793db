package document

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"

	"github.com/garyjia/proposal-tracker/internal/application/port"
)

// DefaultMaxBytes is the backend's upload limit
const DefaultMaxBytes = 10 << 20

// Accepted document types
const (
	ContentTypePDF  = "application/pdf"
	ContentTypeDOC  = "application/msword"
	ContentTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var contentTypes = map[string]string{
	".pdf":  ContentTypePDF,
	".doc":  ContentTypeDOC,
	".docx": ContentTypeDOCX,
}

// leading bytes of each accepted format
var signatures = map[string][]byte{
	ContentTypePDF:  []byte("%PDF-"),
	ContentTypeDOC:  {0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1},
	ContentTypeDOCX: []byte("PK\x03\x04"),
}

// Inspector checks proposal documents locally so that bad files are
// rejected before a presigned upload slot is requested
type Inspector struct {
	maxBytes   int64
	countPages func([]byte) (int, error)
	logger     *zap.Logger
}

// NewInspector creates an inspector. A non-positive maxBytes uses
// DefaultMaxBytes.
func NewInspector(maxBytes int64, logger *zap.Logger) *Inspector {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Inspector{maxBytes: maxBytes, countPages: pdfPages, logger: logger}
}

// ContentTypeFor returns the media type for a file name, or "" when the
// extension is not accepted
func ContentTypeFor(filename string) string {
	return contentTypes[strings.ToLower(filepath.Ext(filename))]
}

// Inspect validates size, type and readability of a document
func (i *Inspector) Inspect(ctx context.Context, filename string, content []byte) (*port.DocumentInfo, error) {
	size := int64(len(content))
	if size == 0 {
		return nil, ErrEmptyDocument
	}
	if size > i.maxBytes {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrDocumentTooLarge, size, i.maxBytes)
	}

	contentType := ContentTypeFor(filename)
	if contentType == "" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, filepath.Ext(filename))
	}
	if !bytes.HasPrefix(content, signatures[contentType]) {
		return nil, fmt.Errorf("%w: %s content does not match its extension", ErrUnsupportedType, filename)
	}

	info := &port.DocumentInfo{ContentType: contentType, Size: size}
	if contentType == ContentTypePDF {
		pages, err := i.countPages(content)
		if err != nil {
			i.logger.Warn("Failed to open PDF", zap.String("filename", filename), zap.Error(err))
			return nil, fmt.Errorf("%w: %v", ErrCorruptDocument, err)
		}
		if pages == 0 {
			return nil, fmt.Errorf("%w: no pages", ErrCorruptDocument)
		}
		info.Pages = pages
	}

	i.logger.Debug("Document inspected",
		zap.String("filename", filename),
		zap.String("content_type", contentType),
		zap.Int64("size", size),
		zap.Int("pages", info.Pages))
	return info, nil
}

func pdfPages(content []byte) (int, error) {
	doc, err := fitz.NewFromMemory(content)
	if err != nil {
		return 0, err
	}
	defer doc.Close()
	return doc.NumPage(), nil
}

var _ port.DocumentInspector = (*Inspector)(nil)
