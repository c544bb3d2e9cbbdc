package storage

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// CloudinaryConfig descreve parâmetros necessários para assinar requisições
// ao serviço de mídia (API compatível com Cloudinary).
type CloudinaryConfig struct {
	Endpoint   string
	CloudName  string
	APIKey     string
	APISecret  string
	HTTPClient *http.Client
}

// CloudinaryStore implementa MediaStore assinando cada chamada com SHA-1.
type CloudinaryStore struct {
	cfg    CloudinaryConfig
	client *http.Client
}

// NewCloudinaryStore cria um cliente pronto para enviar e remover mídia.
func NewCloudinaryStore(cfg CloudinaryConfig) (*CloudinaryStore, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	return &CloudinaryStore{cfg: cfg, client: client}, nil
}

// Upload envia o arquivo pedindo classificação automática ao provedor
// (imagem vs. binário genérico) e retorna URL pública e public_id.
func (s *CloudinaryStore) Upload(ctx context.Context, input UploadInput) (*UploadResult, error) {
	if len(input.Body) == 0 {
		return nil, errors.New("storage: corpo vazio")
	}

	params := map[string]string{
		"timestamp": strconv.FormatInt(time.Now().Unix(), 10),
	}
	if strings.TrimSpace(input.Folder) != "" {
		params["folder"] = input.Folder
	}
	if strings.TrimSpace(input.PublicID) != "" {
		params["public_id"] = input.PublicID
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for key, value := range params {
		if err := writer.WriteField(key, value); err != nil {
			return nil, err
		}
	}
	if err := writer.WriteField("api_key", s.cfg.APIKey); err != nil {
		return nil, err
	}
	if err := writer.WriteField("signature", signParams(params, s.cfg.APISecret)); err != nil {
		return nil, err
	}

	fileName := strings.TrimSpace(input.FileName)
	if fileName == "" {
		fileName = "arquivo"
	}
	contentType := strings.TrimSpace(input.ContentType)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	partHeader := textproto.MIMEHeader{}
	partHeader.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(fileName)))
	partHeader.Set("Content-Type", contentType)

	part, err := writer.CreatePart(partHeader)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(input.Body); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	// resource_type "auto" delega ao provedor a classificação do objeto.
	target := fmt.Sprintf("%s/v1_1/%s/auto/upload", strings.TrimRight(s.cfg.Endpoint, "/"), s.cfg.CloudName)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("storage: upload falhou (%d): %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var parsed struct {
		PublicID  string `json:"public_id"`
		SecureURL string `json:"secure_url"`
		URL       string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("storage: resposta de upload inválida: %w", err)
	}
	if parsed.PublicID == "" {
		return nil, errors.New("storage: resposta de upload sem public_id")
	}

	publicURL := parsed.SecureURL
	if publicURL == "" {
		publicURL = parsed.URL
	}

	return &UploadResult{URL: publicURL, PublicID: parsed.PublicID}, nil
}

// Destroy remove o objeto sob o resource type informado. Retornar NotFound
// não é erro: o provedor apenas não conhece o objeto sob aquele tipo.
func (s *CloudinaryStore) Destroy(ctx context.Context, publicID string, resourceType ResourceType) (DestroyOutcome, error) {
	if strings.TrimSpace(publicID) == "" {
		return NotFound, errors.New("storage: public_id obrigatório")
	}

	params := map[string]string{
		"public_id": publicID,
		"timestamp": strconv.FormatInt(time.Now().Unix(), 10),
	}

	form := url.Values{}
	for key, value := range params {
		form.Set(key, value)
	}
	form.Set("api_key", s.cfg.APIKey)
	form.Set("signature", signParams(params, s.cfg.APISecret))

	target := fmt.Sprintf("%s/v1_1/%s/%s/destroy", strings.TrimRight(s.cfg.Endpoint, "/"), s.cfg.CloudName, resourceType)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(form.Encode()))
	if err != nil {
		return NotFound, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return NotFound, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return NotFound, fmt.Errorf("storage: destroy falhou (%d): %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var parsed struct {
		Result string `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return NotFound, fmt.Errorf("storage: resposta de destroy inválida: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(parsed.Result)) {
	case "ok":
		return Destroyed, nil
	case "not found":
		return NotFound, nil
	default:
		return NotFound, fmt.Errorf("storage: destroy retornou resultado inesperado: %q", parsed.Result)
	}
}

func (cfg CloudinaryConfig) validate() error {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return errors.New("storage: endpoint ausente")
	}
	if !strings.HasPrefix(cfg.Endpoint, "http://") && !strings.HasPrefix(cfg.Endpoint, "https://") {
		return errors.New("storage: endpoint deve incluir protocolo http/https")
	}
	if strings.TrimSpace(cfg.CloudName) == "" {
		return errors.New("storage: cloud name ausente")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return errors.New("storage: api key ausente")
	}
	if strings.TrimSpace(cfg.APISecret) == "" {
		return errors.New("storage: api secret ausente")
	}
	return nil
}

// signParams assina os parâmetros no formato exigido pelo provedor:
// SHA-1 de "k1=v1&k2=v2...<secret>" com chaves em ordem alfabética.
func signParams(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+"="+params[key])
	}

	sum := sha1.Sum([]byte(strings.Join(parts, "&") + secret))
	return hex.EncodeToString(sum[:])
}

func escapeQuotes(value string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(value)
}
