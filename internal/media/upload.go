package media

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rumman2004/Portfolio-v2-sub001/internal/storage"
)

// UploadError indica falha de rede/provedor durante o envio. Qualquer
// ocorrência aborta o lote inteiro; envios já concluídos não são desfeitos.
type UploadError struct {
	Field string
	Name  string
	Err   error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload de %q (%s): %v", e.Name, e.Field, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// Uploader envia lotes de arquivos validados ao provedor remoto.
type Uploader struct {
	store   storage.MediaStore
	folder  string
	timeout time.Duration
}

// NewUploader cria o orquestrador de uploads apontando para a pasta lógica.
func NewUploader(store storage.MediaStore, folder string, timeout time.Duration) *Uploader {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Uploader{store: store, folder: folder, timeout: timeout}
}

// UploadAll valida todos os arquivos antes de qualquer chamada de rede
// (um arquivo inválido aborta o lote sem nenhum envio) e então envia os
// válidos concorrentemente. O mapa resultante preserva, por campo, a ordem
// de submissão dos arquivos — nunca a ordem de conclusão.
func (u *Uploader) UploadAll(ctx context.Context, files []File) (map[string][]Locator, error) {
	out := make(map[string][]Locator)
	if len(files) == 0 {
		return out, nil
	}

	for _, f := range files {
		if err := Validate(f); err != nil {
			return nil, err
		}
	}

	results := make([]Locator, len(files))
	g, gctx := errgroup.WithContext(ctx)

	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			callCtx, cancel := context.WithTimeout(gctx, u.timeout)
			defer cancel()

			res, err := u.store.Upload(callCtx, storage.UploadInput{
				Folder:      u.folder,
				PublicID:    objectKey(f.Name),
				FileName:    f.Name,
				Body:        f.Data,
				ContentType: f.ContentType,
			})
			if err != nil {
				return &UploadError{Field: f.Field, Name: f.Name, Err: err}
			}

			results[i] = Locator{URL: res.URL, PublicID: res.PublicID}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, f := range files {
		out[f.Field] = append(out[f.Field], results[i])
	}
	return out, nil
}

// objectKey gera um nome determinístico e resistente a colisão:
// timestamp + nome original sanitizado, sem extensão.
func objectKey(name string) string {
	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	var b strings.Builder
	for _, r := range strings.ToLower(base) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}

	sanitized := strings.Trim(b.String(), "-")
	if sanitized == "" {
		sanitized = "arquivo"
	}

	return fmt.Sprintf("%d-%s", time.Now().UnixNano(), sanitized)
}
