package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rumman2004/Portfolio-v2-sub001/internal/mailer"
	"github.com/rumman2004/Portfolio-v2-sub001/internal/util"
)

type mensagem struct {
	ID       uuid.UUID `json:"id"`
	Nome     string    `json:"nome"`
	Email    string    `json:"email"`
	Assunto  string    `json:"assunto,omitempty"`
	Conteudo string    `json:"conteudo"`
	Lida     bool      `json:"lida"`
	CriadoEm time.Time `json:"criadoEm"`
}

type mensagemRequest struct {
	Nome     string `json:"nome"`
	Email    string `json:"email"`
	Assunto  string `json:"assunto"`
	Conteudo string `json:"conteudo"`
}

const maxConteudoLen = 5000

// CreateMensagem recebe uma mensagem de contato do site público.
func (h *Handler) CreateMensagem(w http.ResponseWriter, r *http.Request) {
	var req mensagemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "payload inválido", nil)
		return
	}

	if err := util.RequireString(req.Nome, "nome"); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}
	if err := util.ValidateEmail(req.Email); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}
	if err := util.RequireString(req.Conteudo, "conteudo"); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}
	if len(req.Conteudo) > maxConteudoLen {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "conteudo excede o tamanho máximo", nil)
		return
	}

	msg := mensagem{
		Nome:     strings.TrimSpace(req.Nome),
		Email:    strings.TrimSpace(req.Email),
		Assunto:  strings.TrimSpace(req.Assunto),
		Conteudo: strings.TrimSpace(req.Conteudo),
	}

	const insert = `
        INSERT INTO mensagens (nome, email, assunto, conteudo)
        VALUES ($1, $2, $3, $4)
        RETURNING id, lida, criado_em
    `
	if err := h.pool.QueryRow(r.Context(), insert, msg.Nome, msg.Email, msg.Assunto, msg.Conteudo).
		Scan(&msg.ID, &msg.Lida, &msg.CriadoEm); err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível registrar a mensagem", nil)
		return
	}

	// Notificação é melhor-esforço: a mensagem já está persistida.
	h.notifyNewMensagem(r, msg)

	WriteJSON(w, http.StatusCreated, map[string]any{"mensagem": msg})
}

func (h *Handler) notifyNewMensagem(r *http.Request, msg mensagem) {
	if h.mail == nil {
		return
	}

	subject := "Nova mensagem de contato"
	if msg.Assunto != "" {
		subject = "Contato: " + msg.Assunto
	}

	err := h.mail.Send(r.Context(), mailer.Message{
		Subject: subject,
		Text: fmt.Sprintf("De: %s <%s>\n\n%s", msg.Nome, msg.Email, msg.Conteudo),
		ReplyTo: msg.Email,
	})
	if err != nil {
		h.log.Warn().Err(err).Str("mensagem_id", msg.ID.String()).Msg("falha ao notificar nova mensagem")
	}
}

// ListMensagens lista as mensagens recebidas, mais recentes primeiro.
func (h *Handler) ListMensagens(w http.ResponseWriter, r *http.Request) {
	const query = `
        SELECT id, nome, email, assunto, conteudo, lida, criado_em
        FROM mensagens
        ORDER BY criado_em DESC
    `

	rows, err := h.pool.Query(r.Context(), query)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível listar mensagens", nil)
		return
	}
	defer rows.Close()

	mensagens := []mensagem{}
	for rows.Next() {
		var msg mensagem
		if err := rows.Scan(&msg.ID, &msg.Nome, &msg.Email, &msg.Assunto, &msg.Conteudo, &msg.Lida, &msg.CriadoEm); err != nil {
			WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível listar mensagens", nil)
			return
		}
		mensagens = append(mensagens, msg)
	}

	WriteJSON(w, http.StatusOK, map[string]any{"mensagens": mensagens})
}

// MarkMensagemLida marca uma mensagem como lida.
func (h *Handler) MarkMensagemLida(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "id")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "id inválido", nil)
		return
	}

	const update = `
        UPDATE mensagens
        SET lida = TRUE
        WHERE id = $1
        RETURNING id, nome, email, assunto, conteudo, lida, criado_em
    `
	var msg mensagem
	if err := h.pool.QueryRow(r.Context(), update, id).
		Scan(&msg.ID, &msg.Nome, &msg.Email, &msg.Assunto, &msg.Conteudo, &msg.Lida, &msg.CriadoEm); err != nil {
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "mensagem não encontrada", nil)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"mensagem": msg})
}

// DeleteMensagem exclui uma mensagem.
func (h *Handler) DeleteMensagem(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "id")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "id inválido", nil)
		return
	}

	tag, err := h.pool.Exec(r.Context(), `DELETE FROM mensagens WHERE id = $1`, id)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível excluir a mensagem", nil)
		return
	}
	if tag.RowsAffected() == 0 {
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "mensagem não encontrada", nil)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
