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

type experiencia struct {
	ID        uuid.UUID      `json:"id"`
	Cargo     string         `json:"cargo"`
	Empresa   string         `json:"empresa"`
	Descricao string         `json:"descricao"`
	Inicio    time.Time      `json:"inicio"`
	Fim       *time.Time     `json:"fim"`
	Atual     bool           `json:"atual"`
	Logo      *media.Locator `json:"logo"`
	CriadoEm  time.Time      `json:"criadoEm"`
}

// ListExperiencias devolve a linha do tempo profissional.
func (h *Handler) ListExperiencias(w http.ResponseWriter, r *http.Request) {
	const query = `
        SELECT id, cargo, empresa, descricao, inicio, fim, atual, logo, criado_em
        FROM experiencias
        ORDER BY atual DESC, inicio DESC
    `

	rows, err := h.pool.Query(r.Context(), query)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível listar experiências", nil)
		return
	}
	defer rows.Close()

	experiencias := []experiencia{}
	for rows.Next() {
		var (
			e       experiencia
			logoRaw []byte
		)
		if err := rows.Scan(&e.ID, &e.Cargo, &e.Empresa, &e.Descricao, &e.Inicio, &e.Fim, &e.Atual, &logoRaw, &e.CriadoEm); err != nil {
			WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível listar experiências", nil)
			return
		}
		if e.Logo, err = scanLocator(logoRaw); err != nil {
			WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível listar experiências", nil)
			return
		}
		experiencias = append(experiencias, e)
	}

	WriteJSON(w, http.StatusOK, map[string]any{"experiencias": experiencias})
}

// CreateExperiencia cadastra uma experiência com logo opcional.
func (h *Handler) CreateExperiencia(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "dados multipart inválidos", nil)
		return
	}

	cargo := strings.TrimSpace(r.FormValue("cargo"))
	empresa := strings.TrimSpace(r.FormValue("empresa"))
	if cargo == "" || empresa == "" {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "cargo e empresa obrigatórios", nil)
		return
	}

	inicio, err := time.Parse("2006-01-02", strings.TrimSpace(r.FormValue("inicio")))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "inicio inválido (use AAAA-MM-DD)", nil)
		return
	}

	fim, err := parseOptionalDate(r.FormValue("fim"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "fim inválido (use AAAA-MM-DD)", nil)
		return
	}

	logo, err := h.singleUpload(r, "logo")
	if err != nil {
		writeMediaError(w, err)
		return
	}
	logoRaw, err := locatorBytes(logo)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível registrar experiência", nil)
		return
	}

	e := experiencia{
		Cargo:     cargo,
		Empresa:   empresa,
		Descricao: strings.TrimSpace(r.FormValue("descricao")),
		Inicio:    inicio,
		Fim:       fim,
		Atual:     r.FormValue("atual") == "true",
		Logo:      logo,
	}

	const insert = `
        INSERT INTO experiencias (cargo, empresa, descricao, inicio, fim, atual, logo)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, criado_em
    `
	if err := h.pool.QueryRow(r.Context(), insert,
		e.Cargo, e.Empresa, e.Descricao, e.Inicio, e.Fim, e.Atual, logoRaw,
	).Scan(&e.ID, &e.CriadoEm); err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível registrar experiência", nil)
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]any{"experiencia": e})
}

// UpdateExperiencia altera a experiência; novo logo substitui o anterior.
func (h *Handler) UpdateExperiencia(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "id")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "id inválido", nil)
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "dados multipart inválidos", nil)
		return
	}

	e, err := h.getExperiencia(r, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			WriteError(w, http.StatusNotFound, "NOT_FOUND", "experiência não encontrada", nil)
			return
		}
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível carregar experiência", nil)
		return
	}

	if v := strings.TrimSpace(r.FormValue("cargo")); v != "" {
		e.Cargo = v
	}
	if v := strings.TrimSpace(r.FormValue("empresa")); v != "" {
		e.Empresa = v
	}
	if _, ok := r.MultipartForm.Value["descricao"]; ok {
		e.Descricao = strings.TrimSpace(r.FormValue("descricao"))
	}
	if v := r.FormValue("inicio"); v != "" {
		inicio, err := time.Parse("2006-01-02", strings.TrimSpace(v))
		if err != nil {
			WriteError(w, http.StatusBadRequest, "VALIDATION", "inicio inválido (use AAAA-MM-DD)", nil)
			return
		}
		e.Inicio = inicio
	}
	if _, ok := r.MultipartForm.Value["fim"]; ok {
		fim, err := parseOptionalDate(r.FormValue("fim"))
		if err != nil {
			WriteError(w, http.StatusBadRequest, "VALIDATION", "fim inválido (use AAAA-MM-DD)", nil)
			return
		}
		e.Fim = fim
	}
	if _, ok := r.MultipartForm.Value["atual"]; ok {
		e.Atual = r.FormValue("atual") == "true"
	}

	novoLogo, err := h.singleUpload(r, "logo")
	if err != nil {
		writeMediaError(w, err)
		return
	}

	var anterior *media.Locator
	if novoLogo != nil {
		anterior = e.Logo
		e.Logo = novoLogo
	}

	logoRaw, err := locatorBytes(e.Logo)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível atualizar experiência", nil)
		return
	}

	const update = `
        UPDATE experiencias
        SET cargo = $2, empresa = $3, descricao = $4, inicio = $5, fim = $6, atual = $7, logo = $8
        WHERE id = $1
    `
	if _, err := h.pool.Exec(r.Context(), update,
		e.ID, e.Cargo, e.Empresa, e.Descricao, e.Inicio, e.Fim, e.Atual, logoRaw,
	); err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível atualizar experiência", nil)
		return
	}

	if anterior != nil {
		h.cleaner.Discard(r.Context(), "experiencia.logo", *anterior)
	}

	WriteJSON(w, http.StatusOK, map[string]any{"experiencia": e})
}

// DeleteExperiencia exclui a experiência e descarta o logo remoto.
func (h *Handler) DeleteExperiencia(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "id")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "id inválido", nil)
		return
	}

	e, err := h.getExperiencia(r, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			WriteError(w, http.StatusNotFound, "NOT_FOUND", "experiência não encontrada", nil)
			return
		}
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível carregar experiência", nil)
		return
	}

	if _, err := h.pool.Exec(r.Context(), `DELETE FROM experiencias WHERE id = $1`, id); err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível excluir experiência", nil)
		return
	}

	if e.Logo != nil {
		h.cleaner.Discard(r.Context(), "experiencia.logo", *e.Logo)
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getExperiencia(r *http.Request, id uuid.UUID) (experiencia, error) {
	const query = `
        SELECT id, cargo, empresa, descricao, inicio, fim, atual, logo, criado_em
        FROM experiencias
        WHERE id = $1
    `

	var (
		e       experiencia
		logoRaw []byte
	)
	err := h.pool.QueryRow(r.Context(), query, id).Scan(
		&e.ID, &e.Cargo, &e.Empresa, &e.Descricao, &e.Inicio, &e.Fim, &e.Atual, &logoRaw, &e.CriadoEm,
	)
	if err != nil {
		return experiencia{}, err
	}
	if e.Logo, err = scanLocator(logoRaw); err != nil {
		return experiencia{}, err
	}
	return e, nil
}
