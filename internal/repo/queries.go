package repo

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Queries agrupa consultas de usuários administrativos.
type Queries struct {
	pool *pgxpool.Pool
}

// New cria o conjunto de consultas.
func New(pool *pgxpool.Pool) *Queries {
	return &Queries{pool: pool}
}

// GetAdminByEmail busca administrador pelo e-mail normalizado.
func (q *Queries) GetAdminByEmail(ctx context.Context, email string) (AdminUsuario, error) {
	const query = `
        SELECT id, nome, email, senha_hash, ativo, criado_em
        FROM admin_usuarios
        WHERE lower(email) = lower($1)
    `

	var u AdminUsuario
	err := q.pool.QueryRow(ctx, query, strings.TrimSpace(email)).Scan(
		&u.ID, &u.Nome, &u.Email, &u.SenhaHash, &u.Ativo, &u.CriadoEm,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return AdminUsuario{}, ErrNotFound
		}
		return AdminUsuario{}, err
	}
	return u, nil
}

// GetAdminByID busca administrador pelo identificador.
func (q *Queries) GetAdminByID(ctx context.Context, id uuid.UUID) (AdminUsuario, error) {
	const query = `
        SELECT id, nome, email, senha_hash, ativo, criado_em
        FROM admin_usuarios
        WHERE id = $1
    `

	var u AdminUsuario
	err := q.pool.QueryRow(ctx, query, id).Scan(
		&u.ID, &u.Nome, &u.Email, &u.SenhaHash, &u.Ativo, &u.CriadoEm,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return AdminUsuario{}, ErrNotFound
		}
		return AdminUsuario{}, err
	}
	return u, nil
}
