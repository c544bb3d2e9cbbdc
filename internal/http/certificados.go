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

type certificado struct {
	ID            uuid.UUID      `json:"id"`
	Titulo        string         `json:"titulo"`
	Emissor       string         `json:"emissor"`
	CredencialURL *string        `json:"credencialUrl"`
	EmitidoEm     *time.Time     `json:"emitidoEm"`
	Imagem        *media.Locator `json:"imagem"`
	CriadoEm      time.Time      `json:"criadoEm"`
}

// ListCertificados devolve os certificados, mais recentes primeiro.
func (h *Handler) ListCertificados(w http.ResponseWriter, r *http.Request) {
	const query = `
        SELECT id, titulo, emissor, credencial_url, emitido_em, imagem, criado_em
        FROM certificados
        ORDER BY emitido_em DESC NULLS LAST, criado_em DESC
    `

	rows, err := h.pool.Query(r.Context(), query)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível listar certificados", nil)
		return
	}
	defer rows.Close()

	certificados := []certificado{}
	for rows.Next() {
		var (
			c         certificado
			imagemRaw []byte
		)
		if err := rows.Scan(&c.ID, &c.Titulo, &c.Emissor, &c.CredencialURL, &c.EmitidoEm, &imagemRaw, &c.CriadoEm); err != nil {
			WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível listar certificados", nil)
			return
		}
		if c.Imagem, err = scanLocator(imagemRaw); err != nil {
			WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível listar certificados", nil)
			return
		}
		certificados = append(certificados, c)
	}

	WriteJSON(w, http.StatusOK, map[string]any{"certificados": certificados})
}

// CreateCertificado cadastra um certificado com imagem opcional.
func (h *Handler) CreateCertificado(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "dados multipart inválidos", nil)
		return
	}

	titulo := strings.TrimSpace(r.FormValue("titulo"))
	emissor := strings.TrimSpace(r.FormValue("emissor"))
	if titulo == "" || emissor == "" {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "titulo e emissor obrigatórios", nil)
		return
	}

	emitidoEm, err := parseOptionalDate(r.FormValue("emitidoEm"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "emitidoEm inválido (use AAAA-MM-DD)", nil)
		return
	}

	imagem, err := h.singleUpload(r, "imagem")
	if err != nil {
		writeMediaError(w, err)
		return
	}
	imagemRaw, err := locatorBytes(imagem)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível registrar certificado", nil)
		return
	}

	c := certificado{
		Titulo:        titulo,
		Emissor:       emissor,
		CredencialURL: optionalFormValue(r, "credencialUrl"),
		EmitidoEm:     emitidoEm,
		Imagem:        imagem,
	}

	const insert = `
        INSERT INTO certificados (titulo, emissor, credencial_url, emitido_em, imagem)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, criado_em
    `
	if err := h.pool.QueryRow(r.Context(), insert,
		c.Titulo, c.Emissor, c.CredencialURL, c.EmitidoEm, imagemRaw,
	).Scan(&c.ID, &c.CriadoEm); err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível registrar certificado", nil)
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]any{"certificado": c})
}

// UpdateCertificado altera o certificado; nova imagem substitui a anterior.
func (h *Handler) UpdateCertificado(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "id")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "id inválido", nil)
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "dados multipart inválidos", nil)
		return
	}

	c, err := h.getCertificado(r, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			WriteError(w, http.StatusNotFound, "NOT_FOUND", "certificado não encontrado", nil)
			return
		}
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível carregar certificado", nil)
		return
	}

	if v := strings.TrimSpace(r.FormValue("titulo")); v != "" {
		c.Titulo = v
	}
	if v := strings.TrimSpace(r.FormValue("emissor")); v != "" {
		c.Emissor = v
	}
	if _, ok := r.MultipartForm.Value["credencialUrl"]; ok {
		c.CredencialURL = optionalFormValue(r, "credencialUrl")
	}
	if v := r.FormValue("emitidoEm"); v != "" {
		emitidoEm, err := parseOptionalDate(v)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "VALIDATION", "emitidoEm inválido (use AAAA-MM-DD)", nil)
			return
		}
		c.EmitidoEm = emitidoEm
	}

	novaImagem, err := h.singleUpload(r, "imagem")
	if err != nil {
		writeMediaError(w, err)
		return
	}

	var anterior *media.Locator
	if novaImagem != nil {
		anterior = c.Imagem
		c.Imagem = novaImagem
	}

	imagemRaw, err := locatorBytes(c.Imagem)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível atualizar certificado", nil)
		return
	}

	const update = `
        UPDATE certificados
        SET titulo = $2, emissor = $3, credencial_url = $4, emitido_em = $5, imagem = $6
        WHERE id = $1
    `
	if _, err := h.pool.Exec(r.Context(), update,
		c.ID, c.Titulo, c.Emissor, c.CredencialURL, c.EmitidoEm, imagemRaw,
	); err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível atualizar certificado", nil)
		return
	}

	if anterior != nil {
		h.cleaner.Discard(r.Context(), "certificado.imagem", *anterior)
	}

	WriteJSON(w, http.StatusOK, map[string]any{"certificado": c})
}

// DeleteCertificado exclui o certificado e descarta a imagem remota.
func (h *Handler) DeleteCertificado(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "id")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "id inválido", nil)
		return
	}

	c, err := h.getCertificado(r, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			WriteError(w, http.StatusNotFound, "NOT_FOUND", "certificado não encontrado", nil)
			return
		}
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível carregar certificado", nil)
		return
	}

	if _, err := h.pool.Exec(r.Context(), `DELETE FROM certificados WHERE id = $1`, id); err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível excluir certificado", nil)
		return
	}

	if c.Imagem != nil {
		h.cleaner.Discard(r.Context(), "certificado.imagem", *c.Imagem)
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getCertificado(r *http.Request, id uuid.UUID) (certificado, error) {
	const query = `
        SELECT id, titulo, emissor, credencial_url, emitido_em, imagem, criado_em
        FROM certificados
        WHERE id = $1
    `

	var (
		c         certificado
		imagemRaw []byte
	)
	err := h.pool.QueryRow(r.Context(), query, id).Scan(
		&c.ID, &c.Titulo, &c.Emissor, &c.CredencialURL, &c.EmitidoEm, &imagemRaw, &c.CriadoEm,
	)
	if err != nil {
		return certificado{}, err
	}
	if c.Imagem, err = scanLocator(imagemRaw); err != nil {
		return certificado{}, err
	}
	return c, nil
}

func parseOptionalDate(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
