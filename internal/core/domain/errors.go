package domain

import (
	"errors"
	"fmt"
)

var (
	ErrSessionNotFound  = errors.New("region selector session not found")
	ErrTooManySessions  = errors.New("too many active region selector sessions")
	ErrRegionNotVisible = errors.New("region is not in the visible list")
	ErrInvalidLevel     = errors.New("invalid region level")
	ErrParentRequired   = errors.New("parent id is required for this region level")
	ErrPropertyNotFound = errors.New("property not found")
)

// FetchError - ошибка загрузки дочерних регионов из внешнего справочника.
type FetchError struct {
	Level    RegionLevel
	ParentID string
	Err      error
}

func (e *FetchError) Error() string {
	if e.ParentID == "" {
		return fmt.Sprintf("failed to fetch %s list: %v", e.Level, e.Err)
	}
	return fmt.Sprintf("failed to fetch %s list for parent %s: %v", e.Level, e.ParentID, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
