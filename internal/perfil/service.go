package perfil

import (
	"context"
	"errors"

	"github.com/rumman2004/Portfolio-v2-sub001/internal/media"
)

// Service orquestra o ciclo de vida do perfil e de seus ativos de mídia.
type Service struct {
	repo     Repository
	uploader *media.Uploader
	cleaner  *media.Cleaner
}

// NewService cria o serviço do perfil.
func NewService(repo Repository, uploader *media.Uploader, cleaner *media.Cleaner) *Service {
	return &Service{repo: repo, uploader: uploader, cleaner: cleaner}
}

// Get devolve o perfil cadastrado.
func (s *Service) Get(ctx context.Context) (*Perfil, error) {
	return s.repo.Get(ctx)
}

// Update aplica os campos textuais e processa os arquivos do lote.
// Todos os arquivos são validados antes de qualquer envio; qualquer falha
// de upload aborta a chamada inteira sem persistir nada. Locators antigos
// substituídos são descartados depois que o novo estado foi gravado.
func (s *Service) Update(ctx context.Context, input UpdateInput, files []media.File) (*Perfil, error) {
	current, err := s.repo.Get(ctx)
	if errors.Is(err, ErrNotFound) {
		current = &Perfil{}
	} else if err != nil {
		return nil, err
	}

	if err := s.checkCardinality(current, files); err != nil {
		return nil, err
	}

	uploaded, err := s.uploader.UploadAll(ctx, files)
	if err != nil {
		return nil, err
	}

	applyInput(current, input)

	type replaced struct {
		field string
		loc   media.Locator
	}
	var discards []replaced

	if locs := uploaded[FieldImagem]; len(locs) > 0 {
		if current.Imagem != nil {
			discards = append(discards, replaced{FieldImagem, *current.Imagem})
		}
		loc := locs[0]
		current.Imagem = &loc
	}
	if locs := uploaded[FieldCurriculo]; len(locs) > 0 {
		if current.Curriculo != nil {
			discards = append(discards, replaced{FieldCurriculo, *current.Curriculo})
		}
		loc := locs[0]
		current.Curriculo = &loc
	}

	if err := s.repo.Upsert(ctx, current); err != nil {
		return nil, err
	}

	if locs := uploaded[FieldHeroImagens]; len(locs) > 0 {
		items := make([]media.GalleryItem, 0, len(locs))
		for _, loc := range locs {
			items = append(items, media.GalleryItem{URL: loc.URL, PublicID: loc.PublicID})
		}
		stored, err := s.repo.AppendHero(ctx, items)
		if err != nil {
			return nil, err
		}
		current.HeroImagens = append(current.HeroImagens, stored...)
	}

	// Limpeza best-effort dos locators substituídos, um delete por troca.
	for _, d := range discards {
		s.cleaner.Discard(ctx, d.field, d.loc)
	}

	return current, nil
}

// DeleteImagem remove a imagem do perfil; campo já ausente é no-op.
func (s *Service) DeleteImagem(ctx context.Context) (*Perfil, error) {
	current, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if current.Imagem == nil {
		return current, nil
	}

	old := *current.Imagem
	current.Imagem = nil
	if err := s.repo.Upsert(ctx, current); err != nil {
		return nil, err
	}

	s.cleaner.Discard(ctx, FieldImagem, old)
	return current, nil
}

// DeleteCurriculo remove o currículo do perfil; campo já ausente é no-op.
func (s *Service) DeleteCurriculo(ctx context.Context) (*Perfil, error) {
	current, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if current.Curriculo == nil {
		return current, nil
	}

	old := *current.Curriculo
	current.Curriculo = nil
	if err := s.repo.Upsert(ctx, current); err != nil {
		return nil, err
	}

	s.cleaner.Discard(ctx, FieldCurriculo, old)
	return current, nil
}

// DeleteHeroImagem remove um elemento da galeria, localizado pelo id local
// ou pelo public_id, preservando a ordem dos demais.
func (s *Service) DeleteHeroImagem(ctx context.Context, ref string) (*Perfil, error) {
	current, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}

	remaining, removed, ok := media.RemoveGalleryItem(current.HeroImagens, ref)
	if !ok {
		return nil, ErrHeroItemNotFound
	}

	if err := s.repo.DeleteHero(ctx, removed.ID); err != nil {
		return nil, err
	}
	current.HeroImagens = remaining

	if removed.PublicID != "" {
		s.cleaner.Discard(ctx, FieldHeroImagens, removed.Locator())
	}

	return current, nil
}

func (s *Service) checkCardinality(current *Perfil, files []media.File) error {
	counts := map[string]int{}
	for _, f := range files {
		counts[f.Field]++
		switch f.Field {
		case FieldImagem, FieldCurriculo, FieldHeroImagens:
		default:
			return &media.ValidationError{Field: f.Field, Name: f.Name, Reason: "campo de mídia desconhecido"}
		}
	}

	if counts[FieldImagem] > 1 {
		return &media.ValidationError{Field: FieldImagem, Reason: "apenas um arquivo por campo"}
	}
	if counts[FieldCurriculo] > 1 {
		return &media.ValidationError{Field: FieldCurriculo, Reason: "apenas um arquivo por campo"}
	}
	if len(current.HeroImagens)+counts[FieldHeroImagens] > MaxHeroImagens {
		return ErrHeroLimit
	}
	return nil
}

func applyInput(p *Perfil, input UpdateInput) {
	if input.Nome != nil {
		p.Nome = *input.Nome
	}
	if input.Titulo != nil {
		p.Titulo = *input.Titulo
	}
	if input.Bio != nil {
		p.Bio = *input.Bio
	}
	if input.Email != nil {
		p.Email = *input.Email
	}
	if input.Telefone != nil {
		p.Telefone = *input.Telefone
	}
	if input.Localizacao != nil {
		p.Localizacao = *input.Localizacao
	}
}
