// Package uploads persists submission file payloads. The contract with
// storage is deliberately small: given bytes and a name, return a stable
// retrievable path. Paths are "submissions/{uuid}_{filename}" so repeated
// uploads of the same filename never collide.
package uploads

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"path"
	"path/filepath"

	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
)

const dir = "submissions"

// maxFilenameLen bounds the stored filename portion of the path.
const maxFilenameLen = 100

// Info describes a stored upload.
type Info struct {
	Path     string // storage path, e.g. submissions/3f2a…_report.pdf
	FileName string // original filename as supplied by the caller
	Size     int64  // bytes written
	Checksum string // blake2b-256 of the content, hex encoded
}

// Save streams r into storage under a fresh unique path and returns the
// stored path together with a content checksum. The checksum lets graders
// verify that a re-submission actually changed the file.
func Save(ctx context.Context, store storage.Store, filename, contentType string, r io.Reader) (Info, error) {
	hasher, err := blake2b.New256(nil)
	if err != nil {
		return Info{}, err
	}

	p := path.Join(dir, uuid.New().String()+"_"+SanitizeFilename(filename))

	counter := &countingReader{r: io.TeeReader(r, hasher)}
	opts := &storage.PutOptions{ContentType: contentType}
	if err := store.Put(ctx, p, counter, opts); err != nil {
		return Info{}, fmt.Errorf("store upload: %w", err)
	}

	return Info{
		Path:     p,
		FileName: filename,
		Size:     counter.n,
		Checksum: hex.EncodeToString(hasher.Sum(nil)),
	}, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// SanitizeFilename strips path components and replaces characters that are
// unsafe in storage keys. Overly long names are truncated with the
// extension preserved.
func SanitizeFilename(filename string) string {
	filename = filepath.Base(filename)

	result := make([]byte, 0, len(filename))
	for i := 0; i < len(filename); i++ {
		c := filename[i]
		if isAllowedFilenameChar(c) {
			result = append(result, c)
		} else {
			result = append(result, '_')
		}
	}

	if len(result) == 0 {
		return "file"
	}
	if len(result) > maxFilenameLen {
		ext := filepath.Ext(string(result))
		if len(ext) > 0 && len(ext) < 10 {
			result = append(result[:maxFilenameLen-len(ext)], ext...)
		} else {
			result = result[:maxFilenameLen]
		}
	}
	return string(result)
}

func isAllowedFilenameChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z':
		return true
	case c >= 'A' && c <= 'Z':
		return true
	case c >= '0' && c <= '9':
		return true
	case c == '.' || c == '-' || c == '_':
		return true
	}
	return false
}
