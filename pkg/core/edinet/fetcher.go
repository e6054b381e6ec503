package edinet

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Package is an extracted filing package. The caller owns the working
// directory for the duration of extraction and must Close it on every exit
// path.
type Package struct {
	DocID string
	Dir   string   // extraction root
	Files []string // absolute paths of extracted files
}

// Close removes the package's working directory and everything in it.
func (p *Package) Close() error {
	if p.Dir == "" {
		return nil
	}
	return os.RemoveAll(p.Dir)
}

// Fetcher downloads filing packages and extracts them to scoped temporary
// directories.
type Fetcher struct {
	client *Client
}

// NewFetcher creates a package fetcher.
func NewFetcher(client *Client) *Fetcher {
	return &Fetcher{client: client}
}

// Fetch downloads and extracts the package for a document. Any HTTP or
// archive failure is returned as a FetchError with the working area already
// cleaned up.
func (f *Fetcher) Fetch(ctx context.Context, docID string) (*Package, error) {
	data, err := f.client.DownloadPackage(ctx, docID)
	if err != nil {
		return nil, &FetchError{DocID: docID, Err: err}
	}

	dir := filepath.Join(os.TempDir(), "edinet_"+uuid.NewString())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &FetchError{DocID: docID, Err: fmt.Errorf("failed to create working dir: %w", err)}
	}

	files, err := extractZip(data, dir)
	if err != nil {
		os.RemoveAll(dir)
		return nil, &FetchError{DocID: docID, Err: err}
	}

	log.Printf("[Fetcher] extracted %d files for %s", len(files), docID)
	return &Package{DocID: docID, Dir: dir, Files: files}, nil
}

// extractZip unpacks an in-memory archive under dest, refusing entries that
// escape the destination root.
func extractZip(data []byte, dest string) ([]string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("corrupt package archive: %w", err)
	}

	var files []string
	for _, entry := range zr.File {
		target := filepath.Join(dest, filepath.Clean(entry.Name))
		if !strings.HasPrefix(target, dest+string(os.PathSeparator)) {
			return nil, fmt.Errorf("archive entry escapes extraction root: %s", entry.Name)
		}
		if entry.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create dir %s: %w", entry.Name, err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create parent dir for %s: %w", entry.Name, err)
		}
		if err := writeEntry(entry, target); err != nil {
			return nil, err
		}
		files = append(files, target)
	}
	return files, nil
}

func writeEntry(entry *zip.File, target string) error {
	rc, err := entry.Open()
	if err != nil {
		return fmt.Errorf("failed to open archive entry %s: %w", entry.Name, err)
	}
	defer rc.Close()

	out, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", target, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, rc); err != nil {
		return fmt.Errorf("failed to extract %s: %w", entry.Name, err)
	}
	return nil
}
