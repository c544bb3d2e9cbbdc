package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rumman2004/Portfolio-v2-sub001/internal/util"
)

type redeSocial struct {
	ID       uuid.UUID `json:"id"`
	Nome     string    `json:"nome"`
	URL      string    `json:"url"`
	CriadoEm time.Time `json:"criadoEm"`
}

type redeSocialRequest struct {
	Nome string `json:"nome"`
	URL  string `json:"url"`
}

// ListRedesSociais devolve os links de redes sociais.
func (h *Handler) ListRedesSociais(w http.ResponseWriter, r *http.Request) {
	const query = `
        SELECT id, nome, url, criado_em
        FROM redes_sociais
        ORDER BY nome ASC
    `

	rows, err := h.pool.Query(r.Context(), query)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível listar redes sociais", nil)
		return
	}
	defer rows.Close()

	redes := []redeSocial{}
	for rows.Next() {
		var rede redeSocial
		if err := rows.Scan(&rede.ID, &rede.Nome, &rede.URL, &rede.CriadoEm); err != nil {
			WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível listar redes sociais", nil)
			return
		}
		redes = append(redes, rede)
	}

	WriteJSON(w, http.StatusOK, map[string]any{"redesSociais": redes})
}

// CreateRedeSocial cadastra um link de rede social.
func (h *Handler) CreateRedeSocial(w http.ResponseWriter, r *http.Request) {
	var req redeSocialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "payload inválido", nil)
		return
	}

	if err := util.RequireString(req.Nome, "nome"); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}
	if err := util.ValidateURL(req.URL); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}

	rede := redeSocial{Nome: strings.TrimSpace(req.Nome), URL: strings.TrimSpace(req.URL)}

	const insert = `
        INSERT INTO redes_sociais (nome, url)
        VALUES ($1, $2)
        RETURNING id, criado_em
    `
	if err := h.pool.QueryRow(r.Context(), insert, rede.Nome, rede.URL).Scan(&rede.ID, &rede.CriadoEm); err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível registrar rede social", nil)
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]any{"redeSocial": rede})
}

// UpdateRedeSocial altera nome e URL do link.
func (h *Handler) UpdateRedeSocial(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "id")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "id inválido", nil)
		return
	}

	var req redeSocialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "payload inválido", nil)
		return
	}

	if err := util.RequireString(req.Nome, "nome"); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}
	if err := util.ValidateURL(req.URL); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}

	rede := redeSocial{ID: id, Nome: strings.TrimSpace(req.Nome), URL: strings.TrimSpace(req.URL)}

	const update = `
        UPDATE redes_sociais
        SET nome = $2, url = $3
        WHERE id = $1
        RETURNING criado_em
    `
	if err := h.pool.QueryRow(r.Context(), update, rede.ID, rede.Nome, rede.URL).Scan(&rede.CriadoEm); err != nil {
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "rede social não encontrada", nil)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"redeSocial": rede})
}

// DeleteRedeSocial exclui o link.
func (h *Handler) DeleteRedeSocial(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "id")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "id inválido", nil)
		return
	}

	tag, err := h.pool.Exec(r.Context(), `DELETE FROM redes_sociais WHERE id = $1`, id)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível excluir rede social", nil)
		return
	}
	if tag.RowsAffected() == 0 {
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "rede social não encontrada", nil)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
