package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rumman2004/Portfolio-v2-sub001/internal/media"
)

type habilidade struct {
	ID        uuid.UUID      `json:"id"`
	Nome      string         `json:"nome"`
	Categoria string         `json:"categoria"`
	Nivel     int            `json:"nivel"`
	Icone     *media.Locator `json:"icone"`
	CriadoEm  time.Time      `json:"criadoEm"`
}

// ListHabilidades devolve as habilidades agrupáveis por categoria.
func (h *Handler) ListHabilidades(w http.ResponseWriter, r *http.Request) {
	const query = `
        SELECT id, nome, categoria, nivel, icone, criado_em
        FROM habilidades
        ORDER BY categoria ASC, nivel DESC, nome ASC
    `

	rows, err := h.pool.Query(r.Context(), query)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível listar habilidades", nil)
		return
	}
	defer rows.Close()

	habilidades := []habilidade{}
	for rows.Next() {
		var (
			item     habilidade
			iconeRaw []byte
		)
		if err := rows.Scan(&item.ID, &item.Nome, &item.Categoria, &item.Nivel, &iconeRaw, &item.CriadoEm); err != nil {
			WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível listar habilidades", nil)
			return
		}
		if item.Icone, err = scanLocator(iconeRaw); err != nil {
			WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível listar habilidades", nil)
			return
		}
		habilidades = append(habilidades, item)
	}

	WriteJSON(w, http.StatusOK, map[string]any{"habilidades": habilidades})
}

// CreateHabilidade cadastra uma habilidade com ícone opcional.
func (h *Handler) CreateHabilidade(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "dados multipart inválidos", nil)
		return
	}

	nome := strings.TrimSpace(r.FormValue("nome"))
	if nome == "" {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "nome obrigatório", nil)
		return
	}

	nivel, err := parseNivel(r.FormValue("nivel"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}

	icone, err := h.singleUpload(r, "icone")
	if err != nil {
		writeMediaError(w, err)
		return
	}
	iconeRaw, err := locatorBytes(icone)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível registrar habilidade", nil)
		return
	}

	item := habilidade{
		Nome:      nome,
		Categoria: strings.TrimSpace(r.FormValue("categoria")),
		Nivel:     nivel,
		Icone:     icone,
	}

	const insert = `
        INSERT INTO habilidades (nome, categoria, nivel, icone)
        VALUES ($1, $2, $3, $4)
        RETURNING id, criado_em
    `
	if err := h.pool.QueryRow(r.Context(), insert, item.Nome, item.Categoria, item.Nivel, iconeRaw).
		Scan(&item.ID, &item.CriadoEm); err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível registrar habilidade", nil)
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]any{"habilidade": item})
}

// UpdateHabilidade altera a habilidade; novo ícone substitui o anterior.
func (h *Handler) UpdateHabilidade(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "id")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "id inválido", nil)
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "dados multipart inválidos", nil)
		return
	}

	item, err := h.getHabilidade(r, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			WriteError(w, http.StatusNotFound, "NOT_FOUND", "habilidade não encontrada", nil)
			return
		}
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível carregar habilidade", nil)
		return
	}

	if v := strings.TrimSpace(r.FormValue("nome")); v != "" {
		item.Nome = v
	}
	if _, ok := r.MultipartForm.Value["categoria"]; ok {
		item.Categoria = strings.TrimSpace(r.FormValue("categoria"))
	}
	if v := r.FormValue("nivel"); v != "" {
		nivel, err := parseNivel(v)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
			return
		}
		item.Nivel = nivel
	}

	novoIcone, err := h.singleUpload(r, "icone")
	if err != nil {
		writeMediaError(w, err)
		return
	}

	var anterior *media.Locator
	if novoIcone != nil {
		anterior = item.Icone
		item.Icone = novoIcone
	}

	iconeRaw, err := locatorBytes(item.Icone)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível atualizar habilidade", nil)
		return
	}

	const update = `
        UPDATE habilidades
        SET nome = $2, categoria = $3, nivel = $4, icone = $5
        WHERE id = $1
    `
	if _, err := h.pool.Exec(r.Context(), update, item.ID, item.Nome, item.Categoria, item.Nivel, iconeRaw); err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível atualizar habilidade", nil)
		return
	}

	if anterior != nil {
		h.cleaner.Discard(r.Context(), "habilidade.icone", *anterior)
	}

	WriteJSON(w, http.StatusOK, map[string]any{"habilidade": item})
}

// DeleteHabilidade exclui a habilidade e descarta o ícone remoto.
func (h *Handler) DeleteHabilidade(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "id")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "id inválido", nil)
		return
	}

	item, err := h.getHabilidade(r, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			WriteError(w, http.StatusNotFound, "NOT_FOUND", "habilidade não encontrada", nil)
			return
		}
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível carregar habilidade", nil)
		return
	}

	if _, err := h.pool.Exec(r.Context(), `DELETE FROM habilidades WHERE id = $1`, id); err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível excluir habilidade", nil)
		return
	}

	if item.Icone != nil {
		h.cleaner.Discard(r.Context(), "habilidade.icone", *item.Icone)
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getHabilidade(r *http.Request, id uuid.UUID) (habilidade, error) {
	const query = `
        SELECT id, nome, categoria, nivel, icone, criado_em
        FROM habilidades
        WHERE id = $1
    `

	var (
		item     habilidade
		iconeRaw []byte
	)
	err := h.pool.QueryRow(r.Context(), query, id).Scan(
		&item.ID, &item.Nome, &item.Categoria, &item.Nivel, &iconeRaw, &item.CriadoEm,
	)
	if err != nil {
		return habilidade{}, err
	}
	if item.Icone, err = scanLocator(iconeRaw); err != nil {
		return habilidade{}, err
	}
	return item, nil
}

func parseNivel(value string) (int, error) {
	if strings.TrimSpace(value) == "" {
		return 0, nil
	}
	nivel, err := strconv.Atoi(value)
	if err != nil || nivel < 0 || nivel > 100 {
		return 0, errors.New("nivel deve estar entre 0 e 100")
	}
	return nivel, nil
}
