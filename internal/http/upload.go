package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rumman2004/Portfolio-v2-sub001/internal/media"
)

func parseUUIDParam(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, name))
}

// singleUpload normaliza e envia o arquivo opcional de um campo multipart.
// Retorna nil quando o campo não veio na requisição.
func (h *Handler) singleUpload(r *http.Request, field string) (*media.Locator, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	headers := r.MultipartForm.File[field]
	if len(headers) == 0 {
		return nil, nil
	}
	if len(headers) > 1 {
		return nil, &media.ValidationError{Field: field, Reason: "apenas um arquivo por campo"}
	}

	files, err := media.SingleFile(field, headers[0]).Normalize()
	if err != nil {
		return nil, err
	}

	uploaded, err := h.uploader.UploadAll(r.Context(), files)
	if err != nil {
		return nil, err
	}

	locs := uploaded[field]
	if len(locs) == 0 {
		return nil, nil
	}
	return &locs[0], nil
}

// writeMediaError traduz falhas do pipeline de mídia para o envelope HTTP.
func writeMediaError(w http.ResponseWriter, err error) {
	var validationErr *media.ValidationError
	var uploadErr *media.UploadError

	switch {
	case errors.As(err, &validationErr):
		WriteError(w, http.StatusBadRequest, "VALIDATION", validationErr.Error(), nil)
	case errors.As(err, &uploadErr):
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "falha ao enviar arquivo", nil)
	default:
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
	}
}

func locatorBytes(loc *media.Locator) ([]byte, error) {
	if loc == nil {
		return nil, nil
	}
	return json.Marshal(loc)
}

func scanLocator(raw []byte) (*media.Locator, error) {
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
