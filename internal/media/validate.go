package media

import "fmt"

// MaxFileSize limita cada arquivo a 5 MiB.
const MaxFileSize = 5 << 20

// allowedTypes lista os MIME types aceitos: imagens raster comuns, SVG,
// PDF e documentos Word.
var allowedTypes = map[string]struct{}{
	"image/jpeg":      {},
	"image/png":       {},
	"image/gif":       {},
	"image/webp":      {},
	"image/svg+xml":   {},
	"application/pdf": {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
}

// ValidationError descreve a rejeição de um arquivo antes de qualquer
// chamada de rede.
type ValidationError struct {
	Field  string
	Name   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("arquivo %q (%s): %s", e.Name, e.Field, e.Reason)
}

// Validate é um predicado puro: nenhum arquivo rejeitado chega ao provedor.
func Validate(f File) error {
	if f.Size > MaxFileSize {
		return &ValidationError{
			Field:  f.Field,
			Name:   f.Name,
			Reason: fmt.Sprintf("excede o limite de %d bytes", MaxFileSize),
		}
	}
	if _, ok := allowedTypes[f.ContentType]; !ok {
		return &ValidationError{
			Field:  f.Field,
			Name:   f.Name,
			Reason: fmt.Sprintf("tipo %q não permitido", f.ContentType),
		}
	}
	return nil
}
