package perfil

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/rumman2004/Portfolio-v2-sub001/internal/media"
)

// Campos de mídia reconhecidos no formulário do perfil.
const (
	FieldImagem      = "imagem"
	FieldCurriculo   = "curriculo"
	FieldHeroImagens = "heroImagens"
)

// MaxHeroImagens limita a galeria de destaque.
const MaxHeroImagens = 5

var (
	// ErrNotFound indica que o perfil ainda não foi cadastrado.
	ErrNotFound = errors.New("perfil não encontrado")
	// ErrHeroLimit indica tentativa de exceder a galeria de destaque.
	ErrHeroLimit = errors.New("galeria de destaque comporta no máximo 5 imagens")
	// ErrHeroItemNotFound indica que o elemento da galeria não existe.
	ErrHeroItemNotFound = errors.New("imagem de destaque não encontrada")
)

// Perfil é o registro único "sobre mim" do portfólio. Os campos de mídia
// guardam apenas o locator devolvido pelo provedor; nulo significa ausente.
type Perfil struct {
	ID           uuid.UUID           `json:"id"`
	Nome         string              `json:"nome"`
	Titulo       string              `json:"titulo"`
	Bio          string              `json:"bio"`
	Email        string              `json:"email"`
	Telefone     string              `json:"telefone"`
	Localizacao  string              `json:"localizacao"`
	Imagem       *media.Locator      `json:"imagem"`
	Curriculo    *media.Locator      `json:"curriculo"`
	HeroImagens  []media.GalleryItem `json:"heroImagens"`
	AtualizadoEm time.Time           `json:"atualizadoEm"`
}

// UpdateInput carrega os campos textuais editáveis do perfil.
// Ponteiro nulo preserva o valor atual.
type UpdateInput struct {
	Nome        *string
	Titulo      *string
	Bio         *string
	Email       *string
	Telefone    *string
	Localizacao *string
}
