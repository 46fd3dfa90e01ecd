// Package cas implements the disk result store: node outputs addressed by their fingerprint.
package cas

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/sdnode/internal/core/domain"
	"go.trai.ch/sdnode/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ResultStore = (*Store)(nil)

// entry is the metadata written next to every stored image.
// An image without its metadata file is an incomplete write and is ignored.
type entry struct {
	Fingerprint string    `json:"fingerprint"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	Channels    int       `json:"channels"`
	CreatedAt   time.Time `json:"created_at"`
}

// Store implements ports.ResultStore with one PNG and one JSON file per fingerprint.
type Store struct {
	root  string
	codec ports.ImageCodec
	now   func() time.Time
}

// NewStore creates a Store rooted at path, creating the directory if needed.
func NewStore(path string, codec ports.ImageCodec) (*Store, error) {
	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(cleanPath, domain.DirPerm); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreCreateFailed.Error()), "path", cleanPath)
	}

	return &Store{
		root:  cleanPath,
		codec: codec,
		now:   time.Now,
	}, nil
}

// Root returns the store directory.
func (s *Store) Root() string {
	return s.root
}

// Get returns the stored image for fp, or nil when there is none.
func (s *Store) Get(_ context.Context, fp domain.Fingerprint) (*domain.Image, error) {
	metaPath, imagePath := s.paths(fp)

	//nolint:gosec // Path is constructed from the store root and a hex fingerprint
	data, err := os.ReadFile(metaPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "fingerprint", fp.String())
	}

	var meta entry
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreUnmarshalFailed.Error()), "fingerprint", fp.String())
	}

	img, err := s.codec.ReadFile(imagePath, meta.Channels)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "fingerprint", fp.String())
	}
	if img.Width != meta.Width || img.Height != meta.Height {
		err := zerr.With(domain.ErrStoreReadFailed, "fingerprint", fp.String())
		return nil, zerr.With(err, "reason", "stored image does not match its metadata")
	}

	return img, nil
}

// Put stores img under fp. The image is written before its metadata, both through a rename.
func (s *Store) Put(_ context.Context, fp domain.Fingerprint, img *domain.Image) error {
	if err := img.Validate(); err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}

	metaPath, imagePath := s.paths(fp)
	if err := os.MkdirAll(filepath.Dir(metaPath), domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrStoreCreateFailed.Error())
	}

	tmpImage := imagePath + ".tmp"
	if err := s.codec.WriteFile(tmpImage, img); err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	if err := os.Rename(tmpImage, imagePath); err != nil {
		_ = os.Remove(tmpImage)
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}

	data, err := json.MarshalIndent(entry{
		Fingerprint: fp.String(),
		Width:       img.Width,
		Height:      img.Height,
		Channels:    img.Channels,
		CreatedAt:   s.now().UTC(),
	}, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreMarshalFailed.Error())
	}

	if err := atomicWriteFile(metaPath, data); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "fingerprint", fp.String())
	}

	return nil
}

// Clean removes every stored result.
func (s *Store) Clean() error {
	if err := os.RemoveAll(s.root); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "path", s.root)
	}
	return nil
}

// paths shards entries by the first two characters of the fingerprint.
func (s *Store) paths(fp domain.Fingerprint) (metaPath, imagePath string) {
	name := fp.String()
	shard := "00"
	if len(name) >= 2 {
		shard = name[:2]
	}
	dir := filepath.Join(s.root, shard)
	return filepath.Join(dir, name+".json"), filepath.Join(dir, name+".png")
}

// atomicWriteFile writes data to a temp file in the same directory and renames it into place.
func atomicWriteFile(path string, data []byte) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "entry-*.json")
	if err != nil {
		return err
	}
	tmpName := tmpFile.Name()

	defer func() {
		if _, statErr := os.Stat(tmpName); statErr == nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}
