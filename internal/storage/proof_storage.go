package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/h2non/filetype"
)

var (
	ErrFileTooLarge        = errors.New("file exceeds the upload limit")
	ErrUnsupportedFileType = errors.New("only JPEG, PNG, WEBP images or PDF documents are accepted")
)

// SniffLen is how many leading bytes DetectProofType needs.
const SniffLen = 261

// allowedProofTypes maps accepted MIME types to the stored extension.
var allowedProofTypes = map[string]string{
	"image/jpeg":      "jpg",
	"image/png":       "png",
	"image/webp":      "webp",
	"application/pdf": "pdf",
}

// DetectProofType identifies a payment proof by its magic bytes and returns
// the MIME type and file extension to store it under.
func DetectProofType(head []byte) (mime, ext string, err error) {
	kind, err := filetype.Match(head)
	if err != nil || kind == filetype.Unknown {
		return "", "", ErrUnsupportedFileType
	}
	ext, ok := allowedProofTypes[kind.MIME.Value]
	if !ok {
		return "", "", ErrUnsupportedFileType
	}
	return kind.MIME.Value, ext, nil
}

// ProofStorage keeps payment proofs on the local filesystem, one directory
// per collection.
type ProofStorage struct {
	rootPath       string
	maxUploadBytes int64
}

func NewProofStorage(rootPath string, maxUploadMB int64) (*ProofStorage, error) {
	if err := os.MkdirAll(rootPath, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create %s: %w", rootPath, err)
	}

	return &ProofStorage{
		rootPath:       rootPath,
		maxUploadBytes: maxUploadMB * 1024 * 1024,
	}, nil
}

// MaxUploadBytes is the size limit applied by Save.
func (s *ProofStorage) MaxUploadBytes() int64 {
	return s.maxUploadBytes
}

// Save writes r under the collection directory and returns the path relative
// to the storage root, slash-separated.
func (s *ProofStorage) Save(ctx context.Context, collectionID, contributorID uuid.UUID, ext string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ext = strings.TrimPrefix(filepath.Base(ext), ".")
	fileName := fmt.Sprintf("%s_%d.%s", contributorID, time.Now().UnixNano(), ext)

	dir := filepath.Join(s.rootPath, collectionID.String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("storage: create collection dir: %w", err)
	}

	targetPath := filepath.Join(dir, fileName)
	tempPath := targetPath + ".tmp"

	f, err := os.Create(tempPath)
	if err != nil {
		return "", fmt.Errorf("storage: create file: %w", err)
	}
	defer f.Close()

	written, err := io.Copy(f, &io.LimitedReader{R: r, N: s.maxUploadBytes + 1})
	if err != nil {
		_ = os.Remove(tempPath)
		return "", fmt.Errorf("storage: write file: %w", err)
	}
	if written > s.maxUploadBytes {
		_ = os.Remove(tempPath)
		return "", ErrFileTooLarge
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(tempPath)
		return "", fmt.Errorf("storage: close file: %w", err)
	}
	if err := os.Rename(tempPath, targetPath); err != nil {
		return "", fmt.Errorf("storage: rename file: %w", err)
	}

	return filepath.ToSlash(filepath.Join(collectionID.String(), fileName)), nil
}

// Delete removes a stored file; a missing file is not an error.
func (s *ProofStorage) Delete(ctx context.Context, relativePath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	target := filepath.Join(s.rootPath, filepath.FromSlash(relativePath))
	if !strings.HasPrefix(target, filepath.Clean(s.rootPath)+string(os.PathSeparator)) {
		return fmt.Errorf("storage: path %q escapes storage root", relativePath)
	}
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: delete file: %w", err)
	}
	return nil
}
