package catalog

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// Uploader stores images on local disk under dir and serves them from
// /uploads/<file>.
type Uploader struct {
	dir     string
	maxSize int64
}

func NewUploader(dir string, maxSizeMB int) *Uploader {
	if maxSizeMB <= 0 {
		maxSizeMB = 5
	}
	return &Uploader{dir: dir, maxSize: int64(maxSizeMB) * 1024 * 1024}
}

func (u *Uploader) Dir() string { return u.dir }

// Save checks the size and the sniffed content type, then writes the file
// under a fresh uuid name. The extension follows the detected type, not the
// client's file name.
func (u *Uploader) Save(file *multipart.FileHeader) (*Media, error) {
	if file.Size > u.maxSize {
		return nil, fmt.Errorf("file size exceeds %dMB limit", u.maxSize/(1024*1024))
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	mt, err := mimetype.DetectReader(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	mimeType := strings.Split(mt.String(), ";")[0]
	ext, ok := allowedImageTypes[mimeType]
	if !ok {
		return nil, fmt.Errorf("file type %s not allowed", mimeType)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind uploaded file: %w", err)
	}

	if err := os.MkdirAll(u.dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}

	fileName := fmt.Sprintf("%s_%d%s", uuid.NewString(), time.Now().Unix(), ext)
	dst, err := os.Create(filepath.Join(u.dir, fileName))
	if err != nil {
		return nil, fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, src)
	if err != nil {
		return nil, fmt.Errorf("failed to copy file: %w", err)
	}

	return &Media{
		FileName:     fileName,
		OriginalName: filepath.Base(file.Filename),
		URL:          "/uploads/" + fileName,
		MimeType:     mimeType,
		Size:         written,
	}, nil
}

// Remove deletes a stored file; used when the media row cannot be saved.
func (u *Uploader) Remove(fileName string) {
	_ = os.Remove(filepath.Join(u.dir, filepath.Base(fileName)))
}
