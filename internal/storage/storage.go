package storage

import "context"

// ResourceType é a classificação que o provedor atribui ao objeto armazenado.
// Ela determina qual chamada de API remove o objeto corretamente.
type ResourceType string

const (
	ResourceImage ResourceType = "image"
	ResourceRaw   ResourceType = "raw"
)

// UploadInput representa uma operação de envio de mídia.
type UploadInput struct {
	Folder      string
	PublicID    string
	FileName    string
	Body        []byte
	ContentType string
}

// UploadResult descreve o artefato persistido no provedor.
type UploadResult struct {
	URL      string
	PublicID string
}

// DestroyOutcome indica o desfecho de uma remoção remota.
type DestroyOutcome int

const (
	// Destroyed indica que o provedor removeu o objeto.
	Destroyed DestroyOutcome = iota
	// NotFound indica que o provedor não conhece o objeto sob o tipo informado.
	NotFound
)

// MediaStore define o comportamento do provedor de mídia remoto.
// Upload pede classificação automática ao provedor; Destroy exige o
// ResourceType correto e distingue "não encontrado" de erro de transporte.
type MediaStore interface {
	Upload(ctx context.Context, input UploadInput) (*UploadResult, error)
	Destroy(ctx context.Context, publicID string, resourceType ResourceType) (DestroyOutcome, error)
}
