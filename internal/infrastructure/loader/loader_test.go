package loader

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/ndmitriev/docqa/internal/core/domain"
)

type storageFake struct {
	contents map[string][]byte
}

func (f *storageFake) Save(_ context.Context, key string, data io.Reader) error {
	raw, _ := io.ReadAll(data)
	if f.contents == nil {
		f.contents = map[string][]byte{}
	}
	f.contents[key] = raw
	return nil
}

func (f *storageFake) Open(_ context.Context, key string) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.contents[key])), nil
}

func docWith(t *testing.T, storage *storageFake, filename string, raw []byte) *domain.Document {
	t.Helper()
	if err := storage.Save(context.Background(), filename, bytes.NewReader(raw)); err != nil {
		t.Fatalf("save fixture: %v", err)
	}
	return &domain.Document{ID: "doc-1", Filename: filename, StoragePath: filename}
}

func TestExtractPlainText(t *testing.T) {
	storage := &storageFake{}
	doc := docWith(t, storage, "notes.txt", []byte("  line one\nline two  \n"))

	out, err := New(storage).Extract(context.Background(), doc)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if out != "line one\nline two" {
		t.Fatalf("unexpected text: %q", out)
	}
}

func TestExtractTextRejectsBinary(t *testing.T) {
	storage := &storageFake{}
	doc := docWith(t, storage, "blob.txt", []byte{0xff, 0xfe, 0x00, 0x80})

	if _, err := New(storage).Extract(context.Background(), doc); err == nil {
		t.Fatalf("expected error for invalid utf-8")
	}
}

func TestExtractHTMLStripsMarkupAndScripts(t *testing.T) {
	storage := &storageFake{}
	page := []byte(`<html><head><style>.a{color:red}</style><script>alert(1)</script></head>
<body><h1>Refund Policy</h1><p>Returns are accepted within 30 days.</p></body></html>`)
	doc := docWith(t, storage, "policy.html", page)

	out, err := New(storage).Extract(context.Background(), doc)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if !strings.Contains(out, "Refund Policy") || !strings.Contains(out, "30 days") {
		t.Fatalf("expected visible text preserved, got %q", out)
	}
	if strings.Contains(out, "alert") || strings.Contains(out, "color:red") {
		t.Fatalf("expected script/style content removed, got %q", out)
	}
}

func TestExtractUnsupportedExtension(t *testing.T) {
	storage := &storageFake{}
	doc := docWith(t, storage, "archive.zip", []byte("zip"))

	_, err := New(storage).Extract(context.Background(), doc)
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestExtractDispatchIsCaseInsensitive(t *testing.T) {
	storage := &storageFake{}
	doc := docWith(t, storage, "NOTES.TXT", []byte("upper case extension"))

	out, err := New(storage).Extract(context.Background(), doc)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if out != "upper case extension" {
		t.Fatalf("unexpected text: %q", out)
	}
}
