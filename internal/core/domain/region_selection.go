package domain

import "strings"

// RegionSelection - множество выбранных регионов, ключ - ID.
// В множестве никогда нет двух регионов в отношении предок/потомок.
type RegionSelection struct {
	members map[string]Region
	// order хранит порядок добавления для стабильного вывода
	order []string
}

func NewRegionSelection() *RegionSelection {
	return &RegionSelection{members: make(map[string]Region)}
}

func (s *RegionSelection) Contains(id string) bool {
	_, ok := s.members[id]
	return ok
}

func (s *RegionSelection) Len() int {
	return len(s.members)
}

// Toggle удаляет регион, если он уже выбран. Иначе вытесняет всех его
// предков и потомков и добавляет регион. Возвращает true, если регион добавлен.
func (s *RegionSelection) Toggle(region Region) bool {
	if s.Contains(region.ID) {
		s.remove(region.ID)
		return false
	}

	for _, id := range append([]string(nil), s.order...) {
		if strings.HasPrefix(region.ID, id) || strings.HasPrefix(id, region.ID) {
			s.remove(id)
		}
	}

	s.members[region.ID] = region
	s.order = append(s.order, region.ID)
	return true
}

func (s *RegionSelection) remove(id string) {
	delete(s.members, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Regions возвращает копию выбранных регионов в порядке добавления.
func (s *RegionSelection) Regions() []Region {
	out := make([]Region, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.members[id])
	}
	return out
}

// SearchParam сворачивает выбор в плоский параметр поиска: имена через запятую.
func (s *RegionSelection) SearchParam() string {
	names := make([]string, 0, len(s.order))
	for _, id := range s.order {
		names = append(names, s.members[id].Name)
	}
	return strings.Join(names, ",")
}
