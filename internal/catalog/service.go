package catalog

import (
	"context"

	"go.uber.org/zap"
)

type Service struct {
	log        *zap.Logger
	repository Repository
}

func NewService(log *zap.Logger, repo Repository) *Service {
	return &Service{
		log:        log,
		repository: repo,
	}
}

// ListSets returns every set, or only those whose theme name contains theme
// when it is non-empty.
func (s *Service) ListSets(ctx context.Context, theme string) ([]Set, error) {
	if theme == "" {
		return s.repository.ListAll(ctx)
	}
	return s.repository.ListByTheme(ctx, theme)
}

func (s *Service) GetSet(ctx context.Context, setNum string) (*Set, error) {
	return s.repository.GetByNumber(ctx, setNum)
}

func (s *Service) ListThemes(ctx context.Context) ([]Theme, error) {
	return s.repository.ListThemes(ctx)
}

// EditView loads the set being edited together with every theme for the
// selector.
func (s *Service) EditView(ctx context.Context, setNum string) (*Set, []Theme, error) {
	set, err := s.repository.GetByNumber(ctx, setNum)
	if err != nil {
		return nil, nil, err
	}
	themes, err := s.repository.ListThemes(ctx)
	if err != nil {
		return nil, nil, err
	}
	return set, themes, nil
}

func (s *Service) AddSet(ctx context.Context, in SetInput) (*Set, error) {
	set, err := in.toSet()
	if err != nil {
		return nil, err
	}
	if err := s.repository.Create(ctx, set); err != nil {
		return nil, err
	}

	s.log.Info("set created", zap.String("set_num", set.SetNum), zap.Int("theme_id", set.ThemeID))
	return set, nil
}

// EditSet overwrites the mutable fields of setNum. A non-empty setNum takes
// precedence over the one in the form.
func (s *Service) EditSet(ctx context.Context, setNum string, in SetInput) error {
	if setNum != "" {
		in.SetNum = setNum
	}
	set, err := in.toSet()
	if err != nil {
		return err
	}
	if err := s.repository.Update(ctx, set.SetNum, set); err != nil {
		return err
	}

	s.log.Info("set updated", zap.String("set_num", set.SetNum))
	return nil
}

func (s *Service) DeleteSet(ctx context.Context, setNum string) error {
	if err := s.repository.Delete(ctx, setNum); err != nil {
		return err
	}

	s.log.Info("set deleted", zap.String("set_num", setNum))
	return nil
}
