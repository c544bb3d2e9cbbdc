package perfil

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rumman2004/Portfolio-v2-sub001/internal/db"
	"github.com/rumman2004/Portfolio-v2-sub001/internal/media"
)

// Repository abstrai a persistência do perfil e da galeria de destaque.
type Repository interface {
	Get(ctx context.Context) (*Perfil, error)
	Upsert(ctx context.Context, p *Perfil) error
	ListHero(ctx context.Context) ([]media.GalleryItem, error)
	AppendHero(ctx context.Context, items []media.GalleryItem) ([]media.GalleryItem, error)
	DeleteHero(ctx context.Context, id uuid.UUID) error
}

// PGRepository implementa Repository sobre Postgres.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository cria o repositório do perfil.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// Get carrega o registro único do perfil com a galeria ordenada.
func (r *PGRepository) Get(ctx context.Context) (*Perfil, error) {
	const query = `
        SELECT id, nome, titulo, bio, email, telefone, localizacao,
               imagem, curriculo, atualizado_em
        FROM perfil
        LIMIT 1
    `

	var (
		p            Perfil
		imagemRaw    []byte
		curriculoRaw []byte
	)

	err := r.pool.QueryRow(ctx, query).Scan(
		&p.ID, &p.Nome, &p.Titulo, &p.Bio, &p.Email, &p.Telefone, &p.Localizacao,
		&imagemRaw, &curriculoRaw, &p.AtualizadoEm,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if p.Imagem, err = unmarshalLocator(imagemRaw); err != nil {
		return nil, err
	}
	if p.Curriculo, err = unmarshalLocator(curriculoRaw); err != nil {
		return nil, err
	}

	hero, err := r.ListHero(ctx)
	if err != nil {
		return nil, err
	}
	p.HeroImagens = hero

	return &p, nil
}

// Upsert grava os campos do registro único, criando-o na primeira vez.
func (r *PGRepository) Upsert(ctx context.Context, p *Perfil) error {
	const query = `
        INSERT INTO perfil (id, nome, titulo, bio, email, telefone, localizacao, imagem, curriculo, atualizado_em)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        ON CONFLICT (id) DO UPDATE SET
            nome = EXCLUDED.nome,
            titulo = EXCLUDED.titulo,
            bio = EXCLUDED.bio,
            email = EXCLUDED.email,
            telefone = EXCLUDED.telefone,
            localizacao = EXCLUDED.localizacao,
            imagem = EXCLUDED.imagem,
            curriculo = EXCLUDED.curriculo,
            atualizado_em = EXCLUDED.atualizado_em
    `

	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.AtualizadoEm = time.Now().UTC()

	imagemRaw, err := marshalLocator(p.Imagem)
	if err != nil {
		return err
	}
	curriculoRaw, err := marshalLocator(p.Curriculo)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, query,
		p.ID, p.Nome, p.Titulo, p.Bio, p.Email, p.Telefone, p.Localizacao,
		imagemRaw, curriculoRaw, p.AtualizadoEm,
	)
	return err
}

// ListHero devolve a galeria na ordem de inserção.
func (r *PGRepository) ListHero(ctx context.Context) ([]media.GalleryItem, error) {
	const query = `
        SELECT id, url, public_id
        FROM perfil_hero_imagens
        ORDER BY posicao ASC
    `

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []media.GalleryItem
	for rows.Next() {
		var item media.GalleryItem
		if err := rows.Scan(&item.ID, &item.URL, &item.PublicID); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// AppendHero insere novos elementos ao fim da galeria, numa transação para
// que as posições fiquem contíguas mesmo com inserções múltiplas.
func (r *PGRepository) AppendHero(ctx context.Context, items []media.GalleryItem) ([]media.GalleryItem, error) {
	if len(items) == 0 {
		return nil, nil
	}

	stored := make([]media.GalleryItem, 0, len(items))
	err := db.WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		var next int
		if err := tx.QueryRow(ctx, `SELECT COALESCE(MAX(posicao), 0) + 1 FROM perfil_hero_imagens`).Scan(&next); err != nil {
			return err
		}

		const insert = `
            INSERT INTO perfil_hero_imagens (id, url, public_id, posicao)
            VALUES ($1, $2, $3, $4)
        `
		for i, item := range items {
			if item.ID == uuid.Nil {
				item.ID = uuid.New()
			}
			if _, err := tx.Exec(ctx, insert, item.ID, item.URL, item.PublicID, next+i); err != nil {
				return err
			}
			stored = append(stored, item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}

// DeleteHero remove um elemento da galeria; a ordem dos demais é dada por
// posicao e não muda.
func (r *PGRepository) DeleteHero(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM perfil_hero_imagens WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrHeroItemNotFound
	}
	return nil
}

func marshalLocator(loc *media.Locator) ([]byte, error) {
	if loc == nil {
		return nil, nil
	}
	return json.Marshal(loc)
}

func unmarshalLocator(raw []byte) (*media.Locator, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var loc media.Locator
	if err := json.Unmarshal(raw, &loc); err != nil {
		return nil, err
	}
	if loc.IsZero() {
		return nil, nil
	}
	return &loc, nil
}
