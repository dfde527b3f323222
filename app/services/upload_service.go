package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/gabriel-vasile/mimetype"

	"github.com/aircon-store/storefront/pkg/metrics"
	"github.com/aircon-store/storefront/pkg/storage"
)

// Upload rejection reasons.
const (
	ReasonNoFile   = "No file uploaded."
	ReasonBadType  = "Invalid file type. Allowed types are image/jpeg, image/png, image/webp."
	reasonTooLarge = "File size exceeds the limit of %dMB."
)

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/webp"}

// sniffLen is how much of the file is inspected to detect its type.
const sniffLen = 3072

// StoredFile describes an accepted upload.
type StoredFile struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType"`
}

// UploadService validates images and writes them to the active disk.
type UploadService struct {
	disk     storage.Disk
	maxBytes int64
	now      func() time.Time
}

func NewUploadService(disk storage.Disk, maxBytes int64) *UploadService {
	return &UploadService{disk: disk, maxBytes: maxBytes, now: time.Now}
}

// MaxBytes is the largest accepted file.
func (s *UploadService) MaxBytes() int64 { return s.maxBytes }

// TooLarge is the rejection for files over the limit.
func (s *UploadService) TooLarge() *UploadRejectedError {
	return &UploadRejectedError{Reason: fmt.Sprintf(reasonTooLarge, s.maxBytes>>20)}
}

// Store checks the content type first and then the size, so a disallowed
// file is rejected as a type error whatever its size. size is the declared
// length, or -1 when unknown.
func (s *UploadService) Store(ctx context.Context, filename string, r io.Reader, size int64) (StoredFile, error) {
	file, err := s.store(ctx, filename, r, size)
	var rejected *UploadRejectedError
	switch {
	case err == nil:
		metrics.UploadsTotal.WithLabelValues(s.disk.Name(), "stored").Inc()
	case errors.As(err, &rejected):
		metrics.UploadsTotal.WithLabelValues(s.disk.Name(), "rejected").Inc()
	default:
		metrics.UploadsTotal.WithLabelValues(s.disk.Name(), "error").Inc()
	}
	return file, err
}

func (s *UploadService) store(ctx context.Context, filename string, r io.Reader, size int64) (StoredFile, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return StoredFile{}, fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]
	if n == 0 {
		return StoredFile{}, &UploadRejectedError{Reason: ReasonNoFile}
	}

	mt := mimetype.Detect(head)
	if !mimetype.EqualsAny(mt.String(), allowedImageTypes...) {
		return StoredFile{}, &UploadRejectedError{Reason: ReasonBadType}
	}
	if size > s.maxBytes {
		return StoredFile{}, s.TooLarge()
	}

	name := s.objectName(filename, mt.Extension())
	body := &limitedReader{r: io.MultiReader(bytes.NewReader(head), r), remaining: s.maxBytes}
	if err := s.disk.Put(ctx, name, body, mt.String()); err != nil {
		if body.exceeded {
			return StoredFile{}, s.TooLarge()
		}
		return StoredFile{}, fmt.Errorf("store upload: %w", err)
	}

	return StoredFile{
		Name:        name,
		URL:         s.disk.URL(name),
		Size:        body.read,
		ContentType: mt.String(),
	}, nil
}

// objectName is "<epoch-ms>-<sanitized name>".
func (s *UploadService) objectName(filename, ext string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	stem := strings.TrimSuffix(base, path.Ext(base))

	var b strings.Builder
	for _, r := range stem {
		switch {
		case r <= unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)), r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ', r == '.':
			b.WriteByte('-')
		}
	}
	clean := strings.Trim(b.String(), "-_")
	if clean == "" {
		clean = "image"
	}
	if len(clean) > 100 {
		clean = clean[:100]
	}
	return strconv.FormatInt(s.now().UnixMilli(), 10) + "-" + strings.ToLower(clean) + ext
}

// Media lists stored files, newest first.
func (s *UploadService) Media(ctx context.Context) ([]storage.Object, error) {
	return s.disk.List(ctx, "")
}

// DeleteMedia removes one stored file.
func (s *UploadService) DeleteMedia(ctx context.Context, name string) error {
	err := s.disk.Delete(ctx, name)
	switch {
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, storage.ErrInvalidPath):
		return fmt.Errorf("media %q: %w", name, ErrNotFound)
	}
	return err
}

// limitedReader fails once more than remaining bytes are read.
type limitedReader struct {
	r         io.Reader
	remaining int64
	read      int64
	exceeded  bool
}

var errTooLarge = errors.New("upload exceeds size limit")

func (l *limitedReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.read += int64(n)
	if l.read > l.remaining {
		l.exceeded = true
		return 0, errTooLarge
	}
	return n, err
}
