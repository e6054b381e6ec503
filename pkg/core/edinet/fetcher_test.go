package edinet

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
)

func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func newTestFetcher(t *testing.T, body []byte, status int) *Fetcher {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return NewFetcher(NewClient(Config{BaseURL: srv.URL, APIKey: "test-key"}))
}

func TestFetchExtractsPackage(t *testing.T) {
	data := buildZip(t, map[string]string{
		"XBRL/PublicDoc/jpcrp030000-asr-001.xbrl":    "<xbrl/>",
		"XBRL/PublicDoc/jpcrp030000-asr-001_lab.xml": "<linkbase/>",
	})
	f := newTestFetcher(t, data, http.StatusOK)

	pkg, err := f.Fetch(context.Background(), "S100TEST")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	defer pkg.Close()

	if pkg.DocID != "S100TEST" {
		t.Errorf("doc id = %q", pkg.DocID)
	}
	if len(pkg.Files) != 2 {
		t.Errorf("extracted %d files, want 2", len(pkg.Files))
	}
	for _, path := range pkg.Files {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("extracted file missing: %v", err)
		}
	}
}

func TestFetchCleansUpOnClose(t *testing.T) {
	data := buildZip(t, map[string]string{"a.xbrl": "<xbrl/>"})
	f := newTestFetcher(t, data, http.StatusOK)

	pkg, err := f.Fetch(context.Background(), "S100TEST")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if err := pkg.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := os.Stat(pkg.Dir); !os.IsNotExist(err) {
		t.Errorf("package dir survived Close: %v", err)
	}
}

func TestFetchCorruptArchive(t *testing.T) {
	f := newTestFetcher(t, []byte("this is not a zip"), http.StatusOK)

	_, err := f.Fetch(context.Background(), "S100BAD")
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("err = %v, want FetchError", err)
	}
	if fetchErr.DocID != "S100BAD" {
		t.Errorf("fetch error doc id = %q", fetchErr.DocID)
	}
}

func TestFetchHTTPFailure(t *testing.T) {
	f := newTestFetcher(t, []byte("not found"), http.StatusNotFound)

	_, err := f.Fetch(context.Background(), "S100GONE")
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("err = %v, want FetchError", err)
	}
}

func TestExtractZipRejectsTraversal(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("../escape.txt")
	if err != nil {
		t.Fatal(err)
	}
	w.Write([]byte("escaped"))
	zw.Close()

	dest := t.TempDir()
	if _, err := extractZip(buf.Bytes(), dest); err == nil {
		t.Error("zip entry escaping the destination extracted without error")
	}
}
