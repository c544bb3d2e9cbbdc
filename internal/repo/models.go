package repo

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound indica consulta sem resultado.
var ErrNotFound = errors.New("registro não encontrado")

// AdminUsuario representa o administrador do painel do portfólio.
type AdminUsuario struct {
	ID        uuid.UUID
	Nome      string
	Email     string
	SenhaHash string
	Ativo     bool
	CriadoEm  time.Time
}
