package media

import (
	"context"
	"time"

	"github.com/rumman2004/Portfolio-v2-sub001/internal/storage"
)

// Outcome descreve o desfecho de uma remoção resolvida.
type Outcome int

const (
	// Deleted indica que o provedor removeu o objeto sob algum resource type.
	Deleted Outcome = iota
	// NotFound indica que o objeto não existe sob nenhum tipo; remoção
	// idempotente trata isso como sucesso.
	NotFound
)

// Resolver remove ativos remotos resolvendo a ambiguidade de resource type.
// O locator persistido não guarda a classificação do provedor, então ela é
// resolvida na remoção: tenta-se "image" (o tipo mais comum) e, se o
// provedor responder "not found", repete-se como "raw" antes de desistir.
type Resolver struct {
	store   storage.MediaStore
	timeout time.Duration
}

// NewResolver cria o resolvedor de remoções com timeout por chamada.
func NewResolver(store storage.MediaStore, timeout time.Duration) *Resolver {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Resolver{store: store, timeout: timeout}
}

// Delete remove o objeto identificado por publicID. "not found" sob ambos
// os tipos é sucesso; erro só é retornado para falha de transporte/provedor.
func (r *Resolver) Delete(ctx context.Context, publicID string) (Outcome, error) {
	for _, resourceType := range []storage.ResourceType{storage.ResourceImage, storage.ResourceRaw} {
		callCtx, cancel := context.WithTimeout(ctx, r.timeout)
		outcome, err := r.store.Destroy(callCtx, publicID, resourceType)
		cancel()

		if err != nil {
			return NotFound, err
		}
		if outcome == storage.Destroyed {
			return Deleted, nil
		}
	}

	return NotFound, nil
}
