// Package media concentra o ciclo de vida dos ativos enviados ao provedor
// remoto: validação, envio em lote, resolução de remoção e limpeza.
package media

import "github.com/google/uuid"

// Locator identifica um objeto no provedor remoto. É imutável: substituir
// um ativo significa criar um novo Locator e descartar o antigo.
type Locator struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

// IsZero indica campo de mídia ausente.
func (l Locator) IsZero() bool {
	return l.URL == "" && l.PublicID == ""
}

// GalleryItem é um elemento de um campo de mídia com múltiplos valores
// (ex.: imagens de destaque), ordenado por posição de inserção.
type GalleryItem struct {
	ID       uuid.UUID `json:"id"`
	URL      string    `json:"url"`
	PublicID string    `json:"public_id"`
}

// Locator devolve o par URL/PublicID do elemento.
func (g GalleryItem) Locator() Locator {
	return Locator{URL: g.URL, PublicID: g.PublicID}
}
