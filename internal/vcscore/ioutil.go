package vcscore

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zlib"
	"github.com/pjbgf/sha1cd"
)

// metaDirNames lists the directory names walkWorkTree skips: the .git
// metadata directory of a non-bare repository. A bare repository's
// metadata, which lives directly in the working directory root, is not
// skipped.
var metaDirNames = map[string]bool{
	".git": true,
}

// readBytes reads a file fully. It is a thin wrapper so callers have one
// place to adapt I/O behavior (matches gitcore's readLooseObjectRaw shape,
// which always reads a whole object file in one call).
func readBytes(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// writeBytes writes a file, creating parent directories as needed.
func writeBytes(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// deleteIfExists removes path, returning nil if it was already absent.
func deleteIfExists(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}

// walkWorkTree walks root, invoking fn for every regular file, skipping
// the repository metadata directory at any depth.
func walkWorkTree(root string, fn func(path string, info os.FileInfo) error) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if metaDirNames[info.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		return fn(path, info)
	})
}

// mtimeOf returns the filesystem modification time of path, as the decimal
// string form expected by index entries.
func mtimeOf(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	return fmt.Sprintf("%d", info.ModTime().UnixNano()), nil
}

// sha1Hex hashes data with sha1cd, the collision-detecting SHA-1
// implementation real git tooling uses for object-store hashing.
func sha1Hex(data []byte) string {
	h := sha1cd.New()
	h.Write(data)
	return fmt.Sprintf("%x", h.Sum(nil))
}

// deflate compresses payload with zlib, matching the on-disk format every
// object file uses.
func deflate(payload []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(payload); err != nil {
		return nil, fmt.Errorf("deflate: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("deflate close: %w", err)
	}
	return buf.Bytes(), nil
}

// decompressResult tags which path of the tri-fallback state machine
// produced a payload, so callers can tell a clean decode from a
// best-effort one without inspecting the bytes.
type decompressResult struct {
	Payload []byte
	GaveUp  bool
}

// inflate implements the tri-fallback decompression state machine: try the
// raw bytes as-is, then with CRLF normalized to LF, and only give up
// (returning empty content) once both attempts fail. This tolerance exists
// because the system the on-disk format was inherited from writes blobs
// through a non-binary path that can silently translate line endings
// before the deflate stream is even written.
func inflate(raw []byte) decompressResult {
	if payload, err := tryInflate(raw); err == nil {
		return decompressResult{Payload: payload}
	}
	normalized := bytes.ReplaceAll(raw, []byte("\r\n"), []byte("\n"))
	if payload, err := tryInflate(normalized); err == nil {
		return decompressResult{Payload: payload}
	}
	log.Printf("vcscore: giving up decompressing object, returning empty content")
	return decompressResult{GaveUp: true}
}

func tryInflate(raw []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// splitHashedPath splits a 40-char hash into its objects/<h[:2]>/<h[2:]>
// components.
func splitHashedPath(h Hash) (dir, rest string, err error) {
	s := string(h)
	if len(s) < 3 {
		return "", "", fmt.Errorf("malformed hash %q", s)
	}
	return s[:2], s[2:], nil
}

// hasPrefix is a small readability helper used by prefix-lookup.
func hasPrefix(s, prefix string) bool {
	return strings.HasPrefix(s, prefix)
}
