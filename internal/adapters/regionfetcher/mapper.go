package regionfetcher

import (
	"encoding/json"
	"fmt"
	"marketplace-service/internal/core/domain"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// rawRegion - элемент ответа справочника
type rawRegion struct {
	ID   string `json:"id"`
	Nama string `json:"nama"`
}

// mapRegions переводит nama -> name, проставляет уровень и сортирует по имени.
func mapRegions(body []byte, level domain.RegionLevel) ([]domain.Region, error) {
	var raw []rawRegion
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode region list: %w", err)
	}

	regions := make([]domain.Region, 0, len(raw))
	for _, r := range raw {
		regions = append(regions, domain.Region{
			ID:    strings.TrimSpace(r.ID),
			Name:  strings.TrimSpace(r.Nama),
			Level: level,
		})
	}
	SortByName(regions)
	return regions, nil
}

// SortByName - алфавитная сортировка по правилам индонезийской локали, без учета регистра.
func SortByName(regions []domain.Region) {
	// collate.Collator не потокобезопасен, создаем на каждый вызов
	collator := collate.New(language.Indonesian, collate.IgnoreCase)
	sort.SliceStable(regions, func(i, j int) bool {
		return collator.CompareString(regions[i].Name, regions[j].Name) < 0
	})
}
