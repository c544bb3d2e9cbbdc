package media

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func newTestCleaner(store *stubStore) *Cleaner {
	return NewCleaner(NewResolver(store, time.Second), zerolog.Nop())
}

func TestDiscardIgnoresEmptyLocator(t *testing.T) {
	store := &stubStore{}
	cleaner := newTestCleaner(store)

	cleaner.Discard(context.Background(), "imagem", Locator{})

	if len(store.destroys) != 0 {
		t.Fatalf("locator vazio não deve gerar chamadas: %v", store.destroys)
	}
}

func TestDiscardSwallowsProviderFailure(t *testing.T) {
	store := &stubStore{destroyErr: errors.New("indisponível")}
	cleaner := newTestCleaner(store)

	// A limpeza é best-effort: falhar aqui não pode derrubar a mutação.
	cleaner.Discard(context.Background(), "imagem", Locator{URL: "https://cdn/x", PublicID: "portfolio/x"})

	if len(store.destroys) == 0 {
		t.Fatal("remoção deveria ter sido tentada")
	}
}

func TestDiscardAll(t *testing.T) {
	store := &stubStore{}
	cleaner := newTestCleaner(store)

	cleaner.DiscardAll(context.Background(), "imagem", []Locator{
		{PublicID: "portfolio/a"},
		{},
		{PublicID: "portfolio/b"},
	})

	if len(store.destroys) != 2 {
		t.Fatalf("esperava 2 remoções, houve %d", len(store.destroys))
	}
}

func TestDiscardGallery(t *testing.T) {
	store := &stubStore{}
	cleaner := newTestCleaner(store)

	cleaner.DiscardGallery(context.Background(), "heroImagens", []GalleryItem{
		{ID: uuid.New(), PublicID: "portfolio/h1"},
		{ID: uuid.New(), PublicID: "portfolio/h2"},
	})

	if len(store.destroys) != 2 {
		t.Fatalf("esperava 2 remoções, houve %d", len(store.destroys))
	}
}

func TestRemoveGalleryItemByID(t *testing.T) {
	items := []GalleryItem{
		{ID: uuid.New(), PublicID: "portfolio/h1"},
		{ID: uuid.New(), PublicID: "portfolio/h2"},
		{ID: uuid.New(), PublicID: "portfolio/h3"},
	}

	remaining, removed, ok := RemoveGalleryItem(items, items[1].ID.String())
	if !ok {
		t.Fatal("elemento deveria ter sido localizado")
	}
	if removed.PublicID != "portfolio/h2" {
		t.Fatalf("removeu elemento errado: %+v", removed)
	}
	if len(remaining) != 2 || remaining[0].PublicID != "portfolio/h1" || remaining[1].PublicID != "portfolio/h3" {
		t.Fatalf("ordem relativa quebrada: %v", remaining)
	}
}

func TestRemoveGalleryItemByPublicID(t *testing.T) {
	// Registro legado sem id local.
	items := []GalleryItem{
		{PublicID: "portfolio/h1"},
		{PublicID: "portfolio/h2"},
	}

	remaining, removed, ok := RemoveGalleryItem(items, "portfolio/h1")
	if !ok {
		t.Fatal("elemento deveria ter sido localizado")
	}
	if removed.PublicID != "portfolio/h1" {
		t.Fatalf("removeu elemento errado: %+v", removed)
	}
	if len(remaining) != 1 || remaining[0].PublicID != "portfolio/h2" {
		t.Fatalf("lista restante incorreta: %v", remaining)
	}
}

func TestRemoveGalleryItemMissing(t *testing.T) {
	items := []GalleryItem{{ID: uuid.New(), PublicID: "portfolio/h1"}}

	remaining, _, ok := RemoveGalleryItem(items, "portfolio/outro")
	if ok {
		t.Fatal("referência desconhecida não deve remover nada")
	}
	if len(remaining) != 1 {
		t.Fatalf("lista original deve permanecer intacta: %v", remaining)
	}
}

func TestRemoveGalleryItemZeroUUIDNotMatchedByAccident(t *testing.T) {
	items := []GalleryItem{{PublicID: "portfolio/h1"}}

	if _, _, ok := RemoveGalleryItem(items, uuid.Nil.String()); ok {
		t.Fatal("uuid zero não pode casar com registro sem id")
	}
}
