package storage

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestStore(t *testing.T, handler http.Handler) *CloudinaryStore {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store, err := NewCloudinaryStore(CloudinaryConfig{
		Endpoint:   srv.URL,
		CloudName:  "demo",
		APIKey:     "key123",
		APISecret:  "segredo",
		HTTPClient: srv.Client(),
	})
	if err != nil {
		t.Fatalf("criar store: %v", err)
	}
	return store
}

func TestCloudinaryUpload(t *testing.T) {
	var gotPath string
	store := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path

		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		if r.FormValue("api_key") != "key123" {
			t.Errorf("api_key incorreta: %q", r.FormValue("api_key"))
		}

		params := map[string]string{
			"timestamp": r.FormValue("timestamp"),
			"folder":    r.FormValue("folder"),
			"public_id": r.FormValue("public_id"),
		}
		if r.FormValue("signature") != signParams(params, "segredo") {
			t.Error("assinatura não confere")
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("parte file ausente: %v", err)
		} else {
			file.Close()
			if header.Filename != "capa.png" {
				t.Errorf("filename incorreto: %q", header.Filename)
			}
		}

		json.NewEncoder(w).Encode(map[string]string{
			"public_id":  "portfolio/capa",
			"secure_url": "https://res.example.com/portfolio/capa.png",
		})
	}))

	result, err := store.Upload(context.Background(), UploadInput{
		Folder:      "portfolio",
		PublicID:    "capa",
		FileName:    "capa.png",
		Body:        []byte("png-bytes"),
		ContentType: "image/png",
	})
	if err != nil {
		t.Fatalf("upload falhou: %v", err)
	}

	if gotPath != "/v1_1/demo/auto/upload" {
		t.Fatalf("caminho incorreto: %q", gotPath)
	}
	if result.PublicID != "portfolio/capa" {
		t.Fatalf("public_id incorreto: %q", result.PublicID)
	}
	if result.URL != "https://res.example.com/portfolio/capa.png" {
		t.Fatalf("url incorreta: %q", result.URL)
	}
}

func TestCloudinaryUploadRejectsEmptyBody(t *testing.T) {
	store := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("nenhuma requisição esperada")
	}))

	if _, err := store.Upload(context.Background(), UploadInput{FileName: "x.png"}); err == nil {
		t.Fatal("corpo vazio deveria falhar antes da rede")
	}
}

func TestCloudinaryUploadServerError(t *testing.T) {
	store := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid signature", http.StatusUnauthorized)
	}))

	if _, err := store.Upload(context.Background(), UploadInput{Body: []byte("x"), FileName: "x.png"}); err == nil {
		t.Fatal("erro do provedor deveria ser propagado")
	}
}

func TestCloudinaryDestroy(t *testing.T) {
	var gotPath string
	store := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path

		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		params := map[string]string{
			"public_id": r.FormValue("public_id"),
			"timestamp": r.FormValue("timestamp"),
		}
		if r.FormValue("signature") != signParams(params, "segredo") {
			t.Error("assinatura não confere")
		}

		json.NewEncoder(w).Encode(map[string]string{"result": "ok"})
	}))

	outcome, err := store.Destroy(context.Background(), "portfolio/capa", ResourceImage)
	if err != nil {
		t.Fatalf("destroy falhou: %v", err)
	}
	if outcome != Destroyed {
		t.Fatalf("esperava Destroyed, obteve %v", outcome)
	}
	if gotPath != "/v1_1/demo/image/destroy" {
		t.Fatalf("caminho incorreto: %q", gotPath)
	}
}

func TestCloudinaryDestroyNotFound(t *testing.T) {
	store := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"result": "not found"})
	}))

	outcome, err := store.Destroy(context.Background(), "portfolio/fantasma", ResourceRaw)
	if err != nil {
		t.Fatalf("not found não é erro: %v", err)
	}
	if outcome != NotFound {
		t.Fatalf("esperava NotFound, obteve %v", outcome)
	}
}

func TestCloudinaryDestroyUnexpectedResult(t *testing.T) {
	store := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"result": "pending"})
	}))

	if _, err := store.Destroy(context.Background(), "portfolio/x", ResourceImage); err == nil {
		t.Fatal("resultado desconhecido deveria ser erro")
	}
}

func TestCloudinaryConfigValidation(t *testing.T) {
	cases := []CloudinaryConfig{
		{},
		{Endpoint: "api.example.com", CloudName: "demo", APIKey: "k", APISecret: "s"},
		{Endpoint: "https://api.example.com", APIKey: "k", APISecret: "s"},
		{Endpoint: "https://api.example.com", CloudName: "demo", APISecret: "s"},
		{Endpoint: "https://api.example.com", CloudName: "demo", APIKey: "k"},
	}

	for i, cfg := range cases {
		if _, err := NewCloudinaryStore(cfg); err == nil {
			t.Errorf("caso %d: configuração incompleta deveria falhar", i)
		}
	}
}

func TestSignParamsSortsKeys(t *testing.T) {
	a := signParams(map[string]string{"b": "2", "a": "1"}, "s")
	b := signParams(map[string]string{"a": "1", "b": "2"}, "s")
	if a != b {
		t.Fatal("assinatura deve ser estável independente da ordem do mapa")
	}
}
