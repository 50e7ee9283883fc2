// Package ingest reads documents from disk and prepares their text for analysis.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/verte-zerg/textlens/internal/model"
)

const (
	mimePDF         = "application/pdf"
	mimeOctetStream = "application/octet-stream"
)

// ErrReadFailure matches every error returned when a document cannot be read.
var ErrReadFailure = errors.New("error reading file")

// ReadFailure reports that the underlying read of a document failed.
type ReadFailure struct {
	Path string
	Err  error
}

func (e *ReadFailure) Error() string {
	return fmt.Sprintf("%v %s: %v", ErrReadFailure, e.Path, e.Err)
}

// Unwrap returns the underlying I/O error.
func (e *ReadFailure) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrReadFailure) true.
func (e *ReadFailure) Is(target error) bool {
	return target == ErrReadFailure
}

// Load reads the file at path. Images and PDFs are not extracted; their
// Text is a short placeholder description. Everything else is decoded as
// UTF-8, honouring a byte order mark when present.
func Load(ctx context.Context, path string) (model.Document, error) {
	if err := ctx.Err(); err != nil {
		return model.Document{}, &ReadFailure{Path: path, Err: err}
	}
	file, err := os.Open(path)
	if err != nil {
		return model.Document{}, &ReadFailure{Path: path, Err: err}
	}
	defer func() {
		_ = file.Close()
	}()

	info, err := file.Stat()
	if err != nil {
		return model.Document{}, &ReadFailure{Path: path, Err: err}
	}
	if info.IsDir() {
		return model.Document{}, &ReadFailure{Path: path, Err: fmt.Errorf("is a directory")}
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return model.Document{}, &ReadFailure{Path: path, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return model.Document{}, &ReadFailure{Path: path, Err: err}
	}

	name := filepath.Base(path)
	doc := model.Document{
		Name:     name,
		Path:     path,
		Size:     info.Size(),
		MIMEType: detectType(data, name),
		ModTime:  info.ModTime(),
	}
	switch {
	case strings.HasPrefix(doc.MIMEType, "image/"):
		doc.Text = ImagePlaceholder(name)
	case doc.MIMEType == mimePDF || hasExt(name, ".pdf"):
		doc.Text = PDFPlaceholder(name)
	default:
		text, err := DecodeText(data)
		if err != nil {
			return model.Document{}, &ReadFailure{Path: path, Err: err}
		}
		doc.Text = text
		doc.Extracted = true
	}
	return doc, nil
}

// DecodeText converts raw bytes to a string. A UTF-8 or UTF-16 byte order
// mark selects the encoding and is removed; invalid UTF-8 sequences become
// U+FFFD.
func DecodeText(data []byte) (string, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return "", fmt.Errorf("failed to decode text: %w", err)
	}
	return string(out), nil
}

// ImagePlaceholder is the text analysed in place of an image file.
func ImagePlaceholder(name string) string {
	return fmt.Sprintf("[Image File: %s]\nThis is an image file. Text extraction from images requires OCR technology.", name)
}

// PDFPlaceholder is the text analysed in place of a PDF file.
func PDFPlaceholder(name string) string {
	return fmt.Sprintf("[PDF File: %s]\nPDF text extraction requires additional libraries. Showing basic file information.", name)
}

func detectType(data []byte, name string) string {
	detected := mediaType(mimetype.Detect(data).String())
	if detected != "" && detected != mimeOctetStream {
		return detected
	}
	if byExt := mediaType(mime.TypeByExtension(filepath.Ext(name))); byExt != "" {
		return byExt
	}
	if len(data) == 0 {
		return ""
	}
	return detected
}

func mediaType(v string) string {
	base, _, _ := strings.Cut(v, ";")
	return strings.ToLower(strings.TrimSpace(base))
}

func hasExt(name, ext string) bool {
	return strings.EqualFold(filepath.Ext(name), ext)
}
