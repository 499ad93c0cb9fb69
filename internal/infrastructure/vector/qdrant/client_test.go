package qdrant

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/ndmitriev/docqa/internal/core/domain"
)

func TestUpsertChunksEnsuresCollectionOncePerVectorSize(t *testing.T) {
	var ensureCalls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPut && r.URL.Path == "/collections/docs":
			atomic.AddInt32(&ensureCalls, 1)
			w.WriteHeader(http.StatusCreated)
		case r.Method == http.MethodPut && r.URL.Path == "/collections/docs/points":
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := New(server.URL, "docs")
	doc := &domain.Document{ID: "doc-1", Filename: "a.txt"}
	chunks := []string{"a", "b"}
	vectors := [][]float32{{0.1, 0.2}, {0.3, 0.4}}

	if err := client.UpsertChunks(context.Background(), doc, chunks, vectors); err != nil {
		t.Fatalf("first UpsertChunks() error = %v", err)
	}
	if err := client.UpsertChunks(context.Background(), doc, chunks, vectors); err != nil {
		t.Fatalf("second UpsertChunks() error = %v", err)
	}
	if got := atomic.LoadInt32(&ensureCalls); got != 1 {
		t.Fatalf("expected ensure collection called once, got %d", got)
	}
}

func TestEnsureCollectionTreatsConflictAsExisting(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPut && r.URL.Path == "/collections/docs":
			w.WriteHeader(http.StatusConflict)
		case r.Method == http.MethodPut && r.URL.Path == "/collections/docs/points":
			w.WriteHeader(http.StatusOK)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := New(server.URL, "docs")
	doc := &domain.Document{ID: "doc-1"}
	err := client.UpsertChunks(context.Background(), doc, []string{"a"}, [][]float32{{0.1}})
	if err != nil {
		t.Fatalf("expected 409 to count as existing collection, got %v", err)
	}
}

func TestEnsureCollectionIncludesResponseBodyInError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut && r.URL.Path == "/collections/docs" {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := New(server.URL, "docs")
	doc := &domain.Document{ID: "doc-1"}
	err := client.UpsertChunks(context.Background(), doc, []string{"a"}, [][]float32{{0.1}})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected error to include body, got %v", err)
	}
}

func TestUpsertChunksStablePointIDs(t *testing.T) {
	if chunkPointID("doc-1", 0) != chunkPointID("doc-1", 0) {
		t.Fatalf("expected deterministic point id for same document and index")
	}
	if chunkPointID("doc-1", 0) == chunkPointID("doc-1", 1) {
		t.Fatalf("expected distinct point ids per chunk index")
	}
	if chunkPointID("doc-1", 0) == chunkPointID("doc-2", 0) {
		t.Fatalf("expected distinct point ids per document")
	}
}

func TestSearchDecodesCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/collections/docs/points/search" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"result":[
			{"id":"p-1","score":0.91,"payload":{"doc_id":"doc-1","filename":"a.txt","chunk_index":2,"text":"chunk text"}},
			{"id":123,"score":0.4,"payload":{"doc_id":"doc-2","text":"numeric id"}}
		]}`))
	}))
	defer server.Close()

	client := New(server.URL, "docs")
	out, err := client.Search(context.Background(), []float32{0.1, 0.2}, 5)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(out))
	}
	first := out[0]
	if first.ID != "p-1" || first.DocumentID != "doc-1" || first.ChunkIndex != 2 || first.Score != 0.91 {
		t.Fatalf("unexpected first candidate: %+v", first)
	}
	if out[1].ID != "123" {
		t.Fatalf("expected numeric point id stringified, got %q", out[1].ID)
	}
}

func TestSearchErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := New(server.URL, "docs")
	if _, err := client.Search(context.Background(), []float32{0.1}, 5); err == nil {
		t.Fatalf("expected error on 503")
	}
}

func TestScrollDecodesPoints(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"result":{"points":[
			{"id":"p-1","payload":{"doc_id":"doc-1","filename":"a.txt","chunk_index":0,"text":"stored text"}}
		]}}`))
	}))
	defer server.Close()

	client := New(server.URL, "docs")
	out, err := client.Scroll(context.Background(), 500)
	if err != nil {
		t.Fatalf("Scroll() error = %v", err)
	}
	if gotPath != "/collections/docs/points/scroll" {
		t.Fatalf("unexpected scroll path %s", gotPath)
	}
	if len(out) != 1 || out[0].Text != "stored text" || out[0].Score != 0 {
		t.Fatalf("unexpected scroll result: %+v", out)
	}
}
