package store

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// BlobStore keeps the raw audio bytes on the local filesystem, keyed by the
// owning AudioFile ID. Entity metadata stays in the in-memory stores; only
// the media payload touches disk so the native player can stream it.
type BlobStore struct {
	dir string
}

// NewBlobStore creates the audio directory if needed.
func NewBlobStore(dir string) (*BlobStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating audio directory: %w", err)
	}
	return &BlobStore{dir: dir}, nil
}

// Path returns the on-disk location for a file ID.
func (b *BlobStore) Path(id int) string {
	return filepath.Join(b.dir, strconv.Itoa(id))
}

// Save writes the audio payload for a file ID and returns the byte count.
func (b *BlobStore) Save(id int, r io.Reader) (int64, error) {
	path := b.Path(id)
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("creating audio file: %w", err)
	}
	defer f.Close()

	size, err := io.Copy(f, r)
	if err != nil {
		os.Remove(path)
		return 0, fmt.Errorf("writing audio file: %w", err)
	}
	return size, nil
}

// Open returns a reader over the stored payload.
func (b *BlobStore) Open(id int) (io.ReadCloser, error) {
	return os.Open(b.Path(id))
}

// Remove deletes the stored payload. A missing payload is not an error;
// seeded fixture files have no audio bytes.
func (b *BlobStore) Remove(id int) error {
	err := os.Remove(b.Path(id))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
