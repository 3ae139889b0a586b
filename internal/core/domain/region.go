package domain

import (
	"fmt"
	"strings"
)

// RegionLevel - уровень административного деления.
type RegionLevel int

const (
	LevelProvince RegionLevel = iota
	LevelCity
	LevelDistrict
	LevelSubdistrict
)

var regionLevelNames = map[RegionLevel]string{
	LevelProvince:    "province",
	LevelCity:        "city",
	LevelDistrict:    "district",
	LevelSubdistrict: "subdistrict",
}

func (l RegionLevel) String() string {
	if name, ok := regionLevelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("RegionLevel(%d)", int(l))
}

func (l RegionLevel) Valid() bool {
	return l >= LevelProvince && l <= LevelSubdistrict
}

// IsLeaf - у подрайона нет дочерних регионов.
func (l RegionLevel) IsLeaf() bool {
	return l == LevelSubdistrict
}

// Next возвращает следующий уровень вглубь. Для листа возвращает сам лист.
func (l RegionLevel) Next() RegionLevel {
	if l >= LevelSubdistrict {
		return LevelSubdistrict
	}
	return l + 1
}

func (l RegionLevel) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLevel, int(l))
	}
	return []byte(l.String()), nil
}

func (l *RegionLevel) UnmarshalText(text []byte) error {
	parsed, err := ParseRegionLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ParseRegionLevel разбирает имя уровня без учета регистра.
func ParseRegionLevel(s string) (RegionLevel, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for level, name := range regionLevelNames {
		if name == needle {
			return level, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
}

// Region - узел иерархии. ID потомка начинается с ID всех его предков.
type Region struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Level RegionLevel `json:"level"`
}

// IsAncestorOf проверяет отношение предок/потомок по префиксу ID.
func (r Region) IsAncestorOf(other Region) bool {
	return r.ID != other.ID && strings.HasPrefix(other.ID, r.ID)
}
