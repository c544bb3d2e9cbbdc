package media

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
)

// File é um arquivo recebido já carregado em memória, preservando o campo
// de origem para que o destino na entidade seja conhecido no pipeline.
type File struct {
	Field       string
	Name        string
	ContentType string
	Size        int64
	Data        []byte
}

type formShape int

const (
	shapeEmpty formShape = iota
	shapeSingle
	shapeList
	shapeGroups
)

// FormFiles modela os três formatos que um payload multipart pode assumir:
// um arquivo único, uma lista plana sob um campo, ou grupos nomeados.
// A normalização acontece uma única vez, na borda; nenhum componente
// abaixo dela ramifica por formato.
type FormFiles struct {
	shape  formShape
	field  string
	single *multipart.FileHeader
	list   []*multipart.FileHeader
	groups map[string][]*multipart.FileHeader
	order  []string
}

// SingleFile embala um único arquivo nomeado.
func SingleFile(field string, header *multipart.FileHeader) FormFiles {
	if header == nil {
		return FormFiles{}
	}
	return FormFiles{shape: shapeSingle, field: field, single: header}
}

// FileList embala uma lista plana de arquivos sob um mesmo campo.
func FileList(field string, headers []*multipart.FileHeader) FormFiles {
	if len(headers) == 0 {
		return FormFiles{}
	}
	return FormFiles{shape: shapeList, field: field, list: headers}
}

// GroupedFiles embala os campos pedidos de um formulário multipart,
// na ordem informada. Campos ausentes são ignorados.
func GroupedFiles(form *multipart.Form, fields ...string) FormFiles {
	if form == nil {
		return FormFiles{}
	}
	groups := make(map[string][]*multipart.FileHeader)
	var order []string
	for _, field := range fields {
		headers := form.File[field]
		if len(headers) == 0 {
			continue
		}
		groups[field] = headers
		order = append(order, field)
	}
	if len(order) == 0 {
		return FormFiles{}
	}
	return FormFiles{shape: shapeGroups, groups: groups, order: order}
}

// Normalize produz a sequência uniforme de pares (campo, arquivo),
// preservando a ordem de submissão. Payload vazio vira sequência vazia.
func (f FormFiles) Normalize() ([]File, error) {
	switch f.shape {
	case shapeEmpty:
		return nil, nil
	case shapeSingle:
		file, err := loadFile(f.field, f.single)
		if err != nil {
			return nil, err
		}
		return []File{file}, nil
	case shapeList:
		return loadFiles(f.field, f.list)
	case shapeGroups:
		var out []File
		for _, field := range f.order {
			files, err := loadFiles(field, f.groups[field])
			if err != nil {
				return nil, err
			}
			out = append(out, files...)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("media: formato de upload desconhecido")
	}
}

func loadFiles(field string, headers []*multipart.FileHeader) ([]File, error) {
	files := make([]File, 0, len(headers))
	for _, header := range headers {
		file, err := loadFile(field, header)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, nil
}

func loadFile(field string, header *multipart.FileHeader) (File, error) {
	src, err := header.Open()
	if err != nil {
		return File{}, fmt.Errorf("media: falha ao abrir %q: %w", header.Filename, err)
	}
	defer src.Close()

	// Lê no máximo o limite + 1 byte; o excedente é rejeitado pela validação
	// via Size, sem carregar o arquivo inteiro em memória.
	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, io.LimitReader(src, MaxFileSize+1)); err != nil {
		return File{}, fmt.Errorf("media: falha ao ler %q: %w", header.Filename, err)
	}

	contentType := strings.TrimSpace(header.Header.Get("Content-Type"))
	if contentType == "" {
		contentType = http.DetectContentType(buf.Bytes())
	}

	size := header.Size
	if size < int64(buf.Len()) {
		size = int64(buf.Len())
	}

	return File{
		Field:       field,
		Name:        header.Filename,
		ContentType: contentType,
		Size:        size,
		Data:        buf.Bytes(),
	}, nil
}
