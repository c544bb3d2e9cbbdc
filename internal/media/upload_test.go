package media

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rumman2004/Portfolio-v2-sub001/internal/storage"
)

type stubStore struct {
	mu           sync.Mutex
	uploads      []storage.UploadInput
	destroys     []string
	destroyTypes []storage.ResourceType
	uploadErr    error
	failName     string
	notFoundFor  map[storage.ResourceType]bool
	destroyErr   error
}

func (s *stubStore) Upload(ctx context.Context, input storage.UploadInput) (*storage.UploadResult, error) {
	s.mu.Lock()
	s.uploads = append(s.uploads, input)
	s.mu.Unlock()

	if s.uploadErr != nil && (s.failName == "" || s.failName == input.FileName) {
		return nil, s.uploadErr
	}

	return &storage.UploadResult{
		URL:      "https://cdn.example.com/" + input.FileName,
		PublicID: "portfolio/" + input.FileName,
	}, nil
}

func (s *stubStore) Destroy(ctx context.Context, publicID string, resourceType storage.ResourceType) (storage.DestroyOutcome, error) {
	s.mu.Lock()
	s.destroys = append(s.destroys, publicID)
	s.destroyTypes = append(s.destroyTypes, resourceType)
	s.mu.Unlock()

	if s.destroyErr != nil {
		return storage.NotFound, s.destroyErr
	}
	if s.notFoundFor != nil && s.notFoundFor[resourceType] {
		return storage.NotFound, nil
	}
	return storage.Destroyed, nil
}

func (s *stubStore) uploadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.uploads)
}

func testFile(field, name string, size int64) File {
	return File{
		Field:       field,
		Name:        name,
		ContentType: "image/png",
		Size:        size,
		Data:        []byte("png"),
	}
}

func TestUploadAllEmptyBatch(t *testing.T) {
	store := &stubStore{}
	uploader := NewUploader(store, "portfolio", time.Second)

	out, err := uploader.UploadAll(context.Background(), nil)
	if err != nil {
		t.Fatalf("lote vazio não deve falhar: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("esperava mapa vazio, obteve %v", out)
	}
	if store.uploadCount() != 0 {
		t.Fatalf("nenhum envio esperado, houve %d", store.uploadCount())
	}
}

func TestUploadAllRejectsBeforeAnyNetworkCall(t *testing.T) {
	store := &stubStore{}
	uploader := NewUploader(store, "portfolio", time.Second)

	files := []File{
		testFile("imagem", "capa.png", 100),
		{Field: "curriculo", Name: "payload.exe", ContentType: "application/octet-stream", Size: 50, Data: []byte("mz")},
		testFile("imagem", "logo.png", 100),
	}

	_, err := uploader.UploadAll(context.Background(), files)

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("esperava ValidationError, obteve %v", err)
	}
	if verr.Field != "curriculo" || verr.Name != "payload.exe" {
		t.Fatalf("erro aponta arquivo errado: %+v", verr)
	}
	if store.uploadCount() != 0 {
		t.Fatalf("arquivo inválido não pode disparar envios; houve %d", store.uploadCount())
	}
}

func TestUploadAllRejectsOversizedFile(t *testing.T) {
	store := &stubStore{}
	uploader := NewUploader(store, "portfolio", time.Second)

	files := []File{testFile("imagem", "enorme.png", MaxFileSize+1)}

	if _, err := uploader.UploadAll(context.Background(), files); err == nil {
		t.Fatal("arquivo acima do limite deveria ser rejeitado")
	}
	if store.uploadCount() != 0 {
		t.Fatalf("nenhum envio esperado, houve %d", store.uploadCount())
	}
}

func TestUploadAllPreservesSubmissionOrder(t *testing.T) {
	store := &stubStore{}
	uploader := NewUploader(store, "portfolio", time.Second)

	var files []File
	for i := 0; i < 8; i++ {
		files = append(files, testFile("heroImagens", fmt.Sprintf("hero-%d.png", i), 10))
	}
	files = append(files, testFile("imagem", "capa.png", 10))

	out, err := uploader.UploadAll(context.Background(), files)
	if err != nil {
		t.Fatalf("upload falhou: %v", err)
	}

	heroes := out["heroImagens"]
	if len(heroes) != 8 {
		t.Fatalf("esperava 8 locators, obteve %d", len(heroes))
	}
	for i, loc := range heroes {
		want := fmt.Sprintf("portfolio/hero-%d.png", i)
		if loc.PublicID != want {
			t.Fatalf("posição %d: esperava %q, obteve %q", i, want, loc.PublicID)
		}
	}
	if len(out["imagem"]) != 1 || out["imagem"][0].PublicID != "portfolio/capa.png" {
		t.Fatalf("campo imagem incorreto: %v", out["imagem"])
	}
}

func TestUploadAllAbortsBatchOnProviderFailure(t *testing.T) {
	store := &stubStore{uploadErr: errors.New("timeout"), failName: "logo.png"}
	uploader := NewUploader(store, "portfolio", time.Second)

	files := []File{
		testFile("imagem", "capa.png", 10),
		testFile("imagem", "logo.png", 10),
	}

	out, err := uploader.UploadAll(context.Background(), files)
	if out != nil {
		t.Fatalf("lote com falha não deve retornar locators: %v", out)
	}

	var uerr *UploadError
	if !errors.As(err, &uerr) {
		t.Fatalf("esperava UploadError, obteve %v", err)
	}
	if uerr.Name != "logo.png" || uerr.Field != "imagem" {
		t.Fatalf("erro aponta arquivo errado: %+v", uerr)
	}
}

func TestObjectKeySanitizesName(t *testing.T) {
	key := objectKey("Relatório Final (v2).PDF")
	if strings.Contains(key, " ") || strings.Contains(key, "(") {
		t.Fatalf("chave contém caracteres não sanitizados: %q", key)
	}
	if !strings.HasSuffix(key, "relat-rio-final--v2") {
		t.Fatalf("chave inesperada: %q", key)
	}
}
