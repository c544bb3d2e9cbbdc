package media

import (
	"errors"
	"testing"
)

func TestValidateAcceptsAllowedTypes(t *testing.T) {
	allowed := []string{
		"image/jpeg",
		"image/png",
		"image/gif",
		"image/webp",
		"image/svg+xml",
		"application/pdf",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	}

	for _, ct := range allowed {
		f := File{Field: "imagem", Name: "arquivo", ContentType: ct, Size: 1024}
		if err := Validate(f); err != nil {
			t.Errorf("tipo %q deveria ser aceito: %v", ct, err)
		}
	}
}

func TestValidateRejectsDisallowedType(t *testing.T) {
	f := File{Field: "curriculo", Name: "payload.exe", ContentType: "application/octet-stream", Size: 1024}

	err := Validate(f)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("esperava ValidationError, obteve %v", err)
	}
	if verr.Field != "curriculo" || verr.Name != "payload.exe" {
		t.Fatalf("erro com contexto incorreto: %+v", verr)
	}
}

func TestValidateSizeBoundary(t *testing.T) {
	exact := File{Field: "imagem", Name: "limite.png", ContentType: "image/png", Size: MaxFileSize}
	if err := Validate(exact); err != nil {
		t.Fatalf("arquivo no limite deveria passar: %v", err)
	}

	over := File{Field: "imagem", Name: "acima.png", ContentType: "image/png", Size: MaxFileSize + 1}
	if err := Validate(over); err == nil {
		t.Fatal("arquivo acima do limite deveria ser rejeitado")
	}
}
