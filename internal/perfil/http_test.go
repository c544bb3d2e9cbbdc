package perfil

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rumman2004/Portfolio-v2-sub001/internal/media"
)

type stubService struct {
	perfil    *Perfil
	err       error
	lastInput UpdateInput
	lastFiles []media.File
	lastRef   string
}

func (s *stubService) Get(ctx context.Context) (*Perfil, error) {
	return s.perfil, s.err
}

func (s *stubService) Update(ctx context.Context, input UpdateInput, files []media.File) (*Perfil, error) {
	s.lastInput = input
	s.lastFiles = files
	return s.perfil, s.err
}

func (s *stubService) DeleteImagem(ctx context.Context) (*Perfil, error) {
	return s.perfil, s.err
}

func (s *stubService) DeleteCurriculo(ctx context.Context) (*Perfil, error) {
	return s.perfil, s.err
}

func (s *stubService) DeleteHeroImagem(ctx context.Context, ref string) (*Perfil, error) {
	s.lastRef = ref
	return s.perfil, s.err
}

func newTestRouter(svc ServiceProvider) chi.Router {
	handler := NewHandler(svc)
	r := chi.NewRouter()
	handler.RegisterPublicRoutes(r)
	handler.RegisterAdminRoutes(r)
	return r
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("resposta não é envelope JSON: %v", err)
	}
	return env
}

func TestGetPerfil(t *testing.T) {
	svc := &stubService{perfil: &Perfil{ID: uuid.New(), Nome: "Rumman"}}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/perfil", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("esperava 200, obteve %d", rec.Code)
	}

	env := decodeEnvelope(t, rec)
	var payload struct {
		Perfil Perfil `json:"perfil"`
	}
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		t.Fatalf("decodificar data: %v", err)
	}
	if payload.Perfil.Nome != "Rumman" {
		t.Fatalf("perfil incorreto: %+v", payload.Perfil)
	}
}

func TestGetPerfilNotFound(t *testing.T) {
	svc := &stubService{err: ErrNotFound}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/perfil", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("esperava 404, obteve %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Error == nil || env.Error.Code != "NOT_FOUND" {
		t.Fatalf("código de erro incorreto: %+v", env.Error)
	}
}

func multipartRequest(t *testing.T, fields map[string]string, files map[string][2]string) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("escrever campo: %v", err)
		}
	}
	for field, file := range files {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+file[0]+`"`)
		header.Set("Content-Type", file[1])
		part, err := writer.CreatePart(header)
		if err != nil {
			t.Fatalf("criar parte: %v", err)
		}
		if _, err := part.Write([]byte("dados")); err != nil {
			t.Fatalf("escrever parte: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("fechar writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPut, "/perfil", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestUpdatePerfilNormalizesMultipart(t *testing.T) {
	svc := &stubService{perfil: &Perfil{ID: uuid.New()}}
	router := newTestRouter(svc)

	req := multipartRequest(t,
		map[string]string{"nome": "Rumman", "titulo": "Engenheiro"},
		map[string][2]string{"imagem": {"capa.png", "image/png"}},
	)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("esperava 200, obteve %d: %s", rec.Code, rec.Body.String())
	}

	if svc.lastInput.Nome == nil || *svc.lastInput.Nome != "Rumman" {
		t.Fatalf("campo nome não repassado: %+v", svc.lastInput)
	}
	if svc.lastInput.Bio != nil {
		t.Fatal("campo ausente deve chegar como nulo")
	}
	if len(svc.lastFiles) != 1 || svc.lastFiles[0].Field != FieldImagem || svc.lastFiles[0].Name != "capa.png" {
		t.Fatalf("arquivos não normalizados: %+v", svc.lastFiles)
	}
}

func TestUpdatePerfilValidationError(t *testing.T) {
	svc := &stubService{err: &media.ValidationError{Field: FieldCurriculo, Name: "payload.exe", Reason: "tipo não permitido"}}
	router := newTestRouter(svc)

	req := multipartRequest(t, nil, map[string][2]string{
		"curriculo": {"payload.exe", "application/octet-stream"},
	})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("esperava 400, obteve %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Error == nil || env.Error.Code != "VALIDATION" {
		t.Fatalf("código de erro incorreto: %+v", env.Error)
	}
}

func TestUpdatePerfilHeroLimit(t *testing.T) {
	svc := &stubService{err: ErrHeroLimit}
	router := newTestRouter(svc)

	req := multipartRequest(t, nil, map[string][2]string{
		"heroImagens": {"h6.png", "image/png"},
	})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("esperava 400, obteve %d", rec.Code)
	}
}

func TestDeleteHeroImagemPassesRef(t *testing.T) {
	svc := &stubService{perfil: &Perfil{ID: uuid.New()}}
	router := newTestRouter(svc)

	id := uuid.New().String()
	req := httptest.NewRequest(http.MethodDelete, "/perfil/hero/"+id, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("esperava 200, obteve %d", rec.Code)
	}
	if svc.lastRef != id {
		t.Fatalf("ref não repassada: %q", svc.lastRef)
	}
}

func TestDeleteImagem(t *testing.T) {
	svc := &stubService{perfil: &Perfil{ID: uuid.New()}}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodDelete, "/perfil/imagem", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("esperava 200, obteve %d", rec.Code)
	}
}
