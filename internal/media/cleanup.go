package media

import (
	"context"

	"github.com/rs/zerolog"
)

// Cleaner aplica a política best-effort de limpeza: falhas ao remover um
// ativo remoto são logadas com contexto suficiente para remediação manual
// e nunca bloqueiam a mutação de entidade que as disparou. A consequência
// aceita é um possível objeto órfão no provedor.
type Cleaner struct {
	resolver *Resolver
	log      zerolog.Logger
}

// NewCleaner cria o coordenador de limpeza.
func NewCleaner(resolver *Resolver, logger zerolog.Logger) *Cleaner {
	return &Cleaner{resolver: resolver, log: logger}
}

// Discard remove o locator antigo de um campo (substituição ou remoção
// explícita). Locator vazio é no-op.
func (c *Cleaner) Discard(ctx context.Context, field string, loc Locator) {
	if loc.PublicID == "" {
		return
	}

	outcome, err := c.resolver.Delete(ctx, loc.PublicID)
	if err != nil {
		c.log.Error().Err(err).
			Str("field", field).
			Str("public_id", loc.PublicID).
			Msg("falha ao remover mídia remota")
		return
	}

	if outcome == NotFound {
		c.log.Warn().
			Str("field", field).
			Str("public_id", loc.PublicID).
			Msg("mídia remota já ausente")
	}
}

// DiscardAll remove todos os locators referenciados por uma entidade que
// está sendo excluída, um por um; falhas parciais não impedem a exclusão.
func (c *Cleaner) DiscardAll(ctx context.Context, field string, locs []Locator) {
	for _, loc := range locs {
		c.Discard(ctx, field, loc)
	}
}

// DiscardGallery remove os objetos remotos de todos os elementos da galeria.
func (c *Cleaner) DiscardGallery(ctx context.Context, field string, items []GalleryItem) {
	for _, item := range items {
		c.Discard(ctx, field, item.Locator())
	}
}

// RemoveGalleryItem localiza um elemento pelo id local ou pelo public_id
// (registros legados podem não ter um dos dois) e o remove preservando a
// ordem relativa dos demais. Retorna o elemento removido e a lista restante.
func RemoveGalleryItem(items []GalleryItem, ref string) ([]GalleryItem, GalleryItem, bool) {
	for i, item := range items {
		if (item.ID.String() == ref && ref != "00000000-0000-0000-0000-000000000000") ||
			(item.PublicID != "" && item.PublicID == ref) {
			removed := item
			remaining := make([]GalleryItem, 0, len(items)-1)
			remaining = append(remaining, items[:i]...)
			remaining = append(remaining, items[i+1:]...)
			return remaining, removed, true
		}
	}
	return items, GalleryItem{}, false
}
