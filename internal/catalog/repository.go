package catalog

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrSetNotFound  = errors.New("unable to find requested set")
	ErrNoSetsFound  = errors.New("no sets found")
	ErrSetExists    = errors.New("set_num must be unique")
	ErrUnknownTheme = errors.New("theme_id does not reference an existing theme")
	ErrInvalidSet   = errors.New("invalid set")
)

type Repository interface {
	ListAll(ctx context.Context) ([]Set, error)
	GetByNumber(ctx context.Context, setNum string) (*Set, error)
	ListByTheme(ctx context.Context, theme string) ([]Set, error)
	ListThemes(ctx context.Context) ([]Theme, error)
	Create(ctx context.Context, set *Set) error
	Update(ctx context.Context, setNum string, set *Set) error
	Delete(ctx context.Context, setNum string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListAll(ctx context.Context) ([]Set, error) {
	var sets []Set
	err := r.db.WithContext(ctx).
		Joins("Theme").
		Order(`"sets"."set_num"`).
		Find(&sets).Error
	return sets, err
}

// GetByNumber returns ErrSetNotFound when no set has that number.
func (r *repository) GetByNumber(ctx context.Context, setNum string) (*Set, error) {
	var set Set
	err := r.db.WithContext(ctx).
		Joins("Theme").
		Where(`"sets"."set_num" = ?`, setNum).
		Take(&set).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSetNotFound
		}
		return nil, err
	}
	return &set, nil
}

// ListByTheme matches theme names case-insensitively by substring. An empty
// match is ErrNoSetsFound.
func (r *repository) ListByTheme(ctx context.Context, theme string) ([]Set, error) {
	var sets []Set
	err := r.db.WithContext(ctx).
		Joins("Theme").
		Where(`"Theme"."name" ILIKE ?`, "%"+escapeLike(theme)+"%").
		Order(`"sets"."set_num"`).
		Find(&sets).Error
	if err != nil {
		return nil, err
	}
	if len(sets) == 0 {
		return nil, ErrNoSetsFound
	}
	return sets, nil
}

func (r *repository) ListThemes(ctx context.Context) ([]Theme, error) {
	var themes []Theme
	err := r.db.WithContext(ctx).Order("name").Find(&themes).Error
	return themes, err
}

func (r *repository) Create(ctx context.Context, set *Set) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(set).Error
	return translateWriteError(err)
}

// Update matching no row is not an error.
func (r *repository) Update(ctx context.Context, setNum string, set *Set) error {
	err := r.db.WithContext(ctx).
		Model(&Set{}).
		Where("set_num = ?", setNum).
		Updates(map[string]interface{}{
			"name":      set.Name,
			"year":      set.Year,
			"num_parts": set.NumParts,
			"theme_id":  set.ThemeID,
			"img_url":   set.ImgURL,
		}).Error
	return translateWriteError(err)
}

// Delete matching no row is not an error.
func (r *repository) Delete(ctx context.Context, setNum string) error {
	return r.db.WithContext(ctx).Where("set_num = ?", setNum).Delete(&Set{}).Error
}

func translateWriteError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrSetExists
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrUnknownTheme
	default:
		return err
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
