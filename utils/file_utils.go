package utils

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp"
)

// MaxImageSize is the largest accepted upload (5MB)
const MaxImageSize = 5 * 1024 * 1024

var (
	ErrImageTooLarge    = errors.New("image exceeds 5MB limit")
	ErrUnsupportedImage = errors.New("only jpeg, jpg, png, gif and webp images are allowed")
)

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// ImageStore persists an uploaded image and returns the value to store on the
// owning record: a URL path for disk storage or a data URI for inline storage.
type ImageStore interface {
	Save(file *multipart.FileHeader, folder string) (string, error)
	Remove(ref string) error
}

// NewImageStore picks the storage policy by name ("disk" or "inline")
func NewImageStore(policy, uploadDir string, maxWidth int) (ImageStore, error) {
	switch policy {
	case "", "disk":
		if err := os.MkdirAll(uploadDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create uploads directory: %w", err)
		}
		return &DiskImageStore{Dir: uploadDir, MaxWidth: maxWidth}, nil
	case "inline":
		return &InlineImageStore{MaxWidth: maxWidth}, nil
	}
	return nil, fmt.Errorf("unknown image storage policy %q", policy)
}

// processedImage is an upload that has been fully decoded and re-encoded in memory
type processedImage struct {
	data []byte
	mime string
	ext  string
}

// processUpload reads the whole upload, checks it really is an allowed image
// and shrinks it to maxWidth. GIFs keep their original bytes so animation survives.
func processUpload(file *multipart.FileHeader, maxWidth int) (*processedImage, error) {
	if file.Size > MaxImageSize {
		return nil, ErrImageTooLarge
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExts[ext] {
		return nil, ErrUnsupportedImage
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	raw, err := io.ReadAll(io.LimitReader(src, MaxImageSize+1))
	if err != nil {
		return nil, err
	}
	if len(raw) > MaxImageSize {
		return nil, ErrImageTooLarge
	}
	return processImageBytes(raw, maxWidth)
}

func processImageBytes(raw []byte, maxWidth int) (*processedImage, error) {
	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, ErrUnsupportedImage
	}

	switch format {
	case "gif":
		return &processedImage{data: raw, mime: "image/gif", ext: ".gif"}, nil
	case "jpeg", "png", "webp":
	default:
		return nil, ErrUnsupportedImage
	}

	if maxWidth > 0 && img.Bounds().Dx() > maxWidth {
		img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	out := &processedImage{}
	if format == "png" {
		err = imaging.Encode(&buf, img, imaging.PNG)
		out.mime, out.ext = "image/png", ".png"
	} else {
		err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85))
		out.mime, out.ext = "image/jpeg", ".jpg"
	}
	if err != nil {
		return nil, err
	}
	out.data = buf.Bytes()
	return out, nil
}

// DiskImageStore writes images under Dir and serves them from /uploads
type DiskImageStore struct {
	Dir      string
	MaxWidth int
}

func (s *DiskImageStore) Save(file *multipart.FileHeader, folder string) (string, error) {
	img, err := processUpload(file, s.MaxWidth)
	if err != nil {
		return "", err
	}

	dir := filepath.Join(s.Dir, folder)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	name := uuid.New().String() + img.ext
	if err := os.WriteFile(filepath.Join(dir, name), img.data, 0644); err != nil {
		return "", err
	}
	return path.Join("/uploads", folder, name), nil
}

// Remove deletes a file previously returned by Save. Anything else is ignored.
func (s *DiskImageStore) Remove(ref string) error {
	if !strings.HasPrefix(ref, "/uploads/") {
		return nil
	}
	rel := filepath.FromSlash(strings.TrimPrefix(ref, "/uploads/"))
	if strings.Contains(rel, "..") {
		return nil
	}
	err := os.Remove(filepath.Join(s.Dir, rel))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// InlineImageStore keeps images on the record itself as base64 data URIs
type InlineImageStore struct {
	MaxWidth int
}

func (s *InlineImageStore) Save(file *multipart.FileHeader, _ string) (string, error) {
	img, err := processUpload(file, s.MaxWidth)
	if err != nil {
		return "", err
	}
	return "data:" + img.mime + ";base64," + base64.StdEncoding.EncodeToString(img.data), nil
}

func (s *InlineImageStore) Remove(string) error { return nil }
