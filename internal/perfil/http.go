package perfil

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rumman2004/Portfolio-v2-sub001/internal/media"
)

// ServiceProvider define as operações que o handler expõe.
type ServiceProvider interface {
	Get(ctx context.Context) (*Perfil, error)
	Update(ctx context.Context, input UpdateInput, files []media.File) (*Perfil, error)
	DeleteImagem(ctx context.Context) (*Perfil, error)
	DeleteCurriculo(ctx context.Context) (*Perfil, error)
	DeleteHeroImagem(ctx context.Context, ref string) (*Perfil, error)
}

// Handler expõe endpoints REST do perfil.
type Handler struct {
	service ServiceProvider
}

func NewHandler(service ServiceProvider) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes registra as rotas de leitura.
func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/perfil", h.getPerfil)
}

// RegisterAdminRoutes registra as rotas de mutação (exigem autenticação).
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Put("/perfil", h.updatePerfil)
	r.Delete("/perfil/imagem", h.deleteImagem)
	r.Delete("/perfil/curriculo", h.deleteCurriculo)
	r.Delete("/perfil/hero/{ref}", h.deleteHeroImagem)
}

func (h *Handler) getPerfil(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Get(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"perfil": p})
}

// updatePerfil aceita multipart: campos textuais opcionais mais os campos
// de arquivo imagem, curriculo e heroImagens. Os arquivos são normalizados
// uma única vez na borda e seguem como sequência uniforme para o serviço.
func (h *Handler) updatePerfil(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "dados multipart inválidos", nil)
		return
	}

	files, err := media.GroupedFiles(r.MultipartForm, FieldImagem, FieldCurriculo, FieldHeroImagens).Normalize()
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}

	input := UpdateInput{
		Nome:        formValue(r, "nome"),
		Titulo:      formValue(r, "titulo"),
		Bio:         formValue(r, "bio"),
		Email:       formValue(r, "email"),
		Telefone:    formValue(r, "telefone"),
		Localizacao: formValue(r, "localizacao"),
	}

	p, err := h.service.Update(r.Context(), input, files)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"perfil": p})
}

func (h *Handler) deleteImagem(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.DeleteImagem(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"perfil": p})
}

func (h *Handler) deleteCurriculo(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.DeleteCurriculo(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"perfil": p})
}

func (h *Handler) deleteHeroImagem(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "ref")
	if ref == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION", "referência da imagem obrigatória", nil)
		return
	}

	p, err := h.service.DeleteHeroImagem(r.Context(), ref)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"perfil": p})
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	var validationErr *media.ValidationError
	var uploadErr *media.UploadError

	switch {
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, "VALIDATION", validationErr.Error(), nil)
	case errors.Is(err, ErrHeroLimit):
		writeError(w, http.StatusBadRequest, "VALIDATION", ErrHeroLimit.Error(), nil)
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "perfil não encontrado", nil)
	case errors.Is(err, ErrHeroItemNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "imagem de destaque não encontrada", nil)
	case errors.As(err, &uploadErr):
		writeError(w, http.StatusInternalServerError, "INTERNAL", "falha ao enviar arquivo", nil)
	default:
		writeError(w, http.StatusInternalServerError, "INTERNAL", "erro interno", nil)
	}
}

func formValue(r *http.Request, key string) *string {
	if r.MultipartForm == nil {
		return nil
	}
	values, ok := r.MultipartForm.Value[key]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}

type successEnvelope struct {
	Data any `json:"data"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type errorEnvelope struct {
	Data  any        `json:"data"`
	Error *errorBody `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(successEnvelope{Data: data})
}

func writeError(w http.ResponseWriter, status int, code, message string, details any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorEnvelope{
		Data: nil,
		Error: &errorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}
