package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rumman2004/Portfolio-v2-sub001/internal/media"
)

type projeto struct {
	ID          uuid.UUID      `json:"id"`
	Titulo      string         `json:"titulo"`
	Descricao   string         `json:"descricao"`
	Tecnologias []string       `json:"tecnologias"`
	RepoURL     *string        `json:"repoUrl"`
	DemoURL     *string        `json:"demoUrl"`
	Destaque    bool           `json:"destaque"`
	Imagem      *media.Locator `json:"imagem"`
	CriadoEm    time.Time      `json:"criadoEm"`
}

// ListProjetos devolve todos os projetos, mais recentes primeiro.
func (h *Handler) ListProjetos(w http.ResponseWriter, r *http.Request) {
	const query = `
        SELECT id, titulo, descricao, tecnologias, repo_url, demo_url, destaque, imagem, criado_em
        FROM projetos
        ORDER BY destaque DESC, criado_em DESC
    `

	rows, err := h.pool.Query(r.Context(), query)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível listar projetos", nil)
		return
	}
	defer rows.Close()

	projetos := []projeto{}
	for rows.Next() {
		var (
			p         projeto
			imagemRaw []byte
		)
		if err := rows.Scan(&p.ID, &p.Titulo, &p.Descricao, &p.Tecnologias, &p.RepoURL, &p.DemoURL, &p.Destaque, &imagemRaw, &p.CriadoEm); err != nil {
			WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível listar projetos", nil)
			return
		}
		if p.Imagem, err = scanLocator(imagemRaw); err != nil {
			WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível listar projetos", nil)
			return
		}
		projetos = append(projetos, p)
	}

	WriteJSON(w, http.StatusOK, map[string]any{"projetos": projetos})
}

// GetProjeto devolve um projeto específico.
func (h *Handler) GetProjeto(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "id")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "id inválido", nil)
		return
	}

	p, err := h.getProjeto(r, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			WriteError(w, http.StatusNotFound, "NOT_FOUND", "projeto não encontrado", nil)
			return
		}
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível carregar projeto", nil)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"projeto": p})
}

// CreateProjeto cadastra um projeto; a imagem opcional é enviada ao
// provedor antes de qualquer escrita no banco.
func (h *Handler) CreateProjeto(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "dados multipart inválidos", nil)
		return
	}

	titulo := strings.TrimSpace(r.FormValue("titulo"))
	if titulo == "" {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "titulo obrigatório", nil)
		return
	}

	imagem, err := h.singleUpload(r, "imagem")
	if err != nil {
		writeMediaError(w, err)
		return
	}

	imagemRaw, err := locatorBytes(imagem)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível registrar projeto", nil)
		return
	}

	p := projeto{
		Titulo:      titulo,
		Descricao:   strings.TrimSpace(r.FormValue("descricao")),
		Tecnologias: splitCSV(r.FormValue("tecnologias")),
		RepoURL:     optionalFormValue(r, "repoUrl"),
		DemoURL:     optionalFormValue(r, "demoUrl"),
		Destaque:    r.FormValue("destaque") == "true",
		Imagem:      imagem,
	}

	const insert = `
        INSERT INTO projetos (titulo, descricao, tecnologias, repo_url, demo_url, destaque, imagem)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, criado_em
    `
	if err := h.pool.QueryRow(r.Context(), insert,
		p.Titulo, p.Descricao, p.Tecnologias, p.RepoURL, p.DemoURL, p.Destaque, imagemRaw,
	).Scan(&p.ID, &p.CriadoEm); err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível registrar projeto", nil)
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]any{"projeto": p})
}

// UpdateProjeto altera campos do projeto; nova imagem substitui a anterior
// e o locator antigo é descartado depois da gravação.
func (h *Handler) UpdateProjeto(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "id")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "id inválido", nil)
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "dados multipart inválidos", nil)
		return
	}

	p, err := h.getProjeto(r, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			WriteError(w, http.StatusNotFound, "NOT_FOUND", "projeto não encontrado", nil)
			return
		}
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível carregar projeto", nil)
		return
	}

	if v := r.FormValue("titulo"); strings.TrimSpace(v) != "" {
		p.Titulo = strings.TrimSpace(v)
	}
	if _, ok := r.MultipartForm.Value["descricao"]; ok {
		p.Descricao = strings.TrimSpace(r.FormValue("descricao"))
	}
	if _, ok := r.MultipartForm.Value["tecnologias"]; ok {
		p.Tecnologias = splitCSV(r.FormValue("tecnologias"))
	}
	if _, ok := r.MultipartForm.Value["repoUrl"]; ok {
		p.RepoURL = optionalFormValue(r, "repoUrl")
	}
	if _, ok := r.MultipartForm.Value["demoUrl"]; ok {
		p.DemoURL = optionalFormValue(r, "demoUrl")
	}
	if _, ok := r.MultipartForm.Value["destaque"]; ok {
		p.Destaque = r.FormValue("destaque") == "true"
	}

	novaImagem, err := h.singleUpload(r, "imagem")
	if err != nil {
		writeMediaError(w, err)
		return
	}

	var anterior *media.Locator
	if novaImagem != nil {
		anterior = p.Imagem
		p.Imagem = novaImagem
	}

	imagemRaw, err := locatorBytes(p.Imagem)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível atualizar projeto", nil)
		return
	}

	const update = `
        UPDATE projetos
        SET titulo = $2, descricao = $3, tecnologias = $4, repo_url = $5,
            demo_url = $6, destaque = $7, imagem = $8
        WHERE id = $1
    `
	if _, err := h.pool.Exec(r.Context(), update,
		p.ID, p.Titulo, p.Descricao, p.Tecnologias, p.RepoURL, p.DemoURL, p.Destaque, imagemRaw,
	); err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível atualizar projeto", nil)
		return
	}

	if anterior != nil {
		h.cleaner.Discard(r.Context(), "projeto.imagem", *anterior)
	}

	WriteJSON(w, http.StatusOK, map[string]any{"projeto": p})
}

// DeleteProjetoImagem remove apenas a imagem do projeto.
func (h *Handler) DeleteProjetoImagem(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "id")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "id inválido", nil)
		return
	}

	p, err := h.getProjeto(r, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			WriteError(w, http.StatusNotFound, "NOT_FOUND", "projeto não encontrado", nil)
			return
		}
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível carregar projeto", nil)
		return
	}

	// Campo já ausente é no-op.
	if p.Imagem == nil {
		WriteJSON(w, http.StatusOK, map[string]any{"projeto": p})
		return
	}

	anterior := *p.Imagem
	p.Imagem = nil

	if _, err := h.pool.Exec(r.Context(), `UPDATE projetos SET imagem = NULL WHERE id = $1`, id); err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível atualizar projeto", nil)
		return
	}

	h.cleaner.Discard(r.Context(), "projeto.imagem", anterior)
	WriteJSON(w, http.StatusOK, map[string]any{"projeto": p})
}

// DeleteProjeto exclui o projeto; a mídia remota é removida best-effort.
func (h *Handler) DeleteProjeto(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "id")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "id inválido", nil)
		return
	}

	p, err := h.getProjeto(r, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			WriteError(w, http.StatusNotFound, "NOT_FOUND", "projeto não encontrado", nil)
			return
		}
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível carregar projeto", nil)
		return
	}

	tag, err := h.pool.Exec(r.Context(), `DELETE FROM projetos WHERE id = $1`, id)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível excluir projeto", nil)
		return
	}
	if tag.RowsAffected() == 0 {
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "projeto não encontrado", nil)
		return
	}

	if p.Imagem != nil {
		h.cleaner.Discard(r.Context(), "projeto.imagem", *p.Imagem)
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getProjeto(r *http.Request, id uuid.UUID) (projeto, error) {
	const query = `
        SELECT id, titulo, descricao, tecnologias, repo_url, demo_url, destaque, imagem, criado_em
        FROM projetos
        WHERE id = $1
    `

	var (
		p         projeto
		imagemRaw []byte
	)
	err := h.pool.QueryRow(r.Context(), query, id).Scan(
		&p.ID, &p.Titulo, &p.Descricao, &p.Tecnologias, &p.RepoURL, &p.DemoURL, &p.Destaque, &imagemRaw, &p.CriadoEm,
	)
	if err != nil {
		return projeto{}, err
	}
	if p.Imagem, err = scanLocator(imagemRaw); err != nil {
		return projeto{}, err
	}
	return p, nil
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func optionalFormValue(r *http.Request, key string) *string {
	value := strings.TrimSpace(r.FormValue(key))
	if value == "" {
		return nil
	}
	return &value
}
