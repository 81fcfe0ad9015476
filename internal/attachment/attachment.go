// Package attachment validates and loads files attached to a message.
// Only PDFs and images are accepted, mirroring what the assistant can
// usefully reference.
package attachment

import (
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"heistchat/internal/logging"
)

// ErrUnsupportedType marks a rejected MIME type.
var ErrUnsupportedType = errors.New("unsupported file type")

// MaxFileSize caps attachments at 10 MB.
const MaxFileSize = 10 << 20

// Attachment is a processed file ready to attach to a message.
type Attachment struct {
	Name    string
	Type    string
	Size    int64
	Content string // text handed to the model
	Preview string // base64 data URL, images only
}

// Allowed reports whether a MIME type may be attached.
func Allowed(mimeType string) bool {
	return mimeType == "application/pdf" || strings.HasPrefix(mimeType, "image/")
}

// Process loads and validates the file at path.
func Process(path string) (*Attachment, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.Size() > MaxFileSize {
		logging.AttachWarn("Rejected %s: %d bytes over limit", path, info.Size())
		return nil, fmt.Errorf("file exceeds %d MB limit", MaxFileSize>>20)
	}

	name := filepath.Base(path)
	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if idx := strings.Index(mimeType, ";"); idx >= 0 {
		mimeType = mimeType[:idx]
	}
	if !Allowed(mimeType) {
		logging.AttachWarn("Rejected %s: type %q not allowed", name, mimeType)
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, mimeType)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	att := &Attachment{
		Name: name,
		Type: mimeType,
		Size: info.Size(),
	}
	if strings.HasPrefix(mimeType, "image/") {
		att.Preview = fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
		att.Content = fmt.Sprintf("Image uploaded: %s (%s, %.2f KB)", name, mimeType, float64(info.Size())/1024)
	} else {
		att.Content = fmt.Sprintf("PDF uploaded: %s (%.2f KB)", name, float64(info.Size())/1024)
	}

	logging.Attach("Processed %s (%s, %d bytes)", name, mimeType, info.Size())
	return att, nil
}
