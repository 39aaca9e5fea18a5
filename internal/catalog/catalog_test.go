package catalog

import (
	"io"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	themeCity    = Theme{ID: 1, Name: "City"}
	themeTechnic = Theme{ID: 2, Name: "Technic"}
	themeCapital = Theme{ID: 3, Name: "Capital CITY Builders"}
)

func newTestLogger(t *testing.T) *zap.Logger {
	logger, err := zap.NewDevelopment()
	require.NoError(t, err)
	return logger
}

// newTestService returns a service over an in-memory catalog holding two
// City-like themes, one Technic theme and three sets.
func newTestService(t *testing.T) (*Service, *mockRepository) {
	repo := newMockRepository(themeCity, themeTechnic, themeCapital)
	repo.sets["60380-1"] = Set{SetNum: "60380-1", Name: "Downtown", Year: 2023, NumParts: 2010, ThemeID: themeCity.ID}
	repo.sets["42115-1"] = Set{SetNum: "42115-1", Name: "Lamborghini Sian", Year: 2020, NumParts: 3696, ThemeID: themeTechnic.ID}
	repo.sets["9000-1"] = Set{SetNum: "9000-1", Name: "Town Hall", Year: 2021, NumParts: 800, ThemeID: themeCapital.ID}
	return NewService(newTestLogger(t), repo), repo
}

type recordingRenderer struct {
	name string
	data echo.Map
}

func (r *recordingRenderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	r.name = name
	r.data, _ = data.(echo.Map)
	_, err := io.WriteString(w, name)
	return err
}
