package storage

import (
	"context"
	"errors"
)

// NoopStore devolve erro indicando que não há provedor configurado.
type NoopStore struct{}

// Upload sempre retorna erro, sinalizando que o recurso não está disponível.
func (NoopStore) Upload(ctx context.Context, input UploadInput) (*UploadResult, error) {
	return nil, errors.New("storage: provedor de mídia não configurado")
}

// Destroy sempre retorna erro, sinalizando que o recurso não está disponível.
func (NoopStore) Destroy(ctx context.Context, publicID string, resourceType ResourceType) (DestroyOutcome, error) {
	return NotFound, errors.New("storage: provedor de mídia não configurado")
}
