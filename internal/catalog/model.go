package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

type Theme struct {
	ID   int    `gorm:"column:id;primaryKey"`
	Name string `gorm:"column:name"`
}

func (Theme) TableName() string {
	return "themes"
}

type Set struct {
	SetNum   string `gorm:"column:set_num;primaryKey"`
	Name     string `gorm:"column:name"`
	Year     int    `gorm:"column:year"`
	NumParts int    `gorm:"column:num_parts"`
	ThemeID  int    `gorm:"column:theme_id"`
	ImgURL   string `gorm:"column:img_url"`
	Theme    Theme  `gorm:"foreignKey:ThemeID"`
}

func (Set) TableName() string {
	return "sets"
}

// SetInput is the add/edit set form as submitted.
type SetInput struct {
	SetNum   string `form:"set_num"`
	Name     string `form:"name"`
	Year     string `form:"year"`
	NumParts string `form:"num_parts"`
	ThemeID  string `form:"theme_id"`
	ImgURL   string `form:"img_url"`
}

// toSet validates the form and returns the first failure.
func (in SetInput) toSet() (*Set, error) {
	set := &Set{
		SetNum: strings.TrimSpace(in.SetNum),
		Name:   strings.TrimSpace(in.Name),
		ImgURL: strings.TrimSpace(in.ImgURL),
	}

	if set.SetNum == "" {
		return nil, fmt.Errorf("%w: set_num is required", ErrInvalidSet)
	}
	if set.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidSet)
	}

	var err error
	if set.Year, err = nonNegative("year", in.Year); err != nil {
		return nil, err
	}
	if set.NumParts, err = nonNegative("num_parts", in.NumParts); err != nil {
		return nil, err
	}

	themeID, err := strconv.Atoi(strings.TrimSpace(in.ThemeID))
	if err != nil || themeID <= 0 {
		return nil, fmt.Errorf("%w: theme_id must be a positive integer", ErrInvalidSet)
	}
	set.ThemeID = themeID

	return set, nil
}

func nonNegative(field, value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", ErrInvalidSet, field)
	}
	return n, nil
}
