package loader

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ndmitriev/docqa/internal/core/domain"
	"github.com/ndmitriev/docqa/internal/core/ports"
)

// Loader extracts plain text from stored documents, dispatching on file
// extension: .pdf, .html/.htm, .txt and .xlsx are supported.
type Loader struct {
	storage ports.ObjectStorage
}

func New(storage ports.ObjectStorage) *Loader {
	return &Loader{storage: storage}
}

func (l *Loader) Extract(ctx context.Context, doc *domain.Document) (string, error) {
	reader, err := l.storage.Open(ctx, doc.StoragePath)
	if err != nil {
		return "", fmt.Errorf("open source document: %w", err)
	}
	defer reader.Close()

	raw, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read source document: %w", err)
	}

	switch strings.ToLower(filepath.Ext(doc.Filename)) {
	case ".pdf":
		return extractPDF(raw)
	case ".html", ".htm":
		return extractHTML(raw)
	case ".xlsx":
		return extractSpreadsheet(raw)
	case ".txt", "":
		return extractText(raw, doc.Filename)
	default:
		return "", domain.WrapError(
			domain.ErrInvalidInput,
			"extract text",
			fmt.Errorf("unsupported file type: %s", doc.Filename),
		)
	}
}
