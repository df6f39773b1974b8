package domain

import "math"

// PageSize - фиксированный размер страницы списка объявлений.
const PageSize = 10

type SortBy string

const (
	SortByCreatedAt SortBy = "createdAt"
	SortByPrice     SortBy = "price"
	SortByPriority  SortBy = "priority"
)

func (s SortBy) IsValid() bool {
	return s == SortByCreatedAt || s == SortByPrice || s == SortByPriority
}

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

func (s SortOrder) IsValid() bool {
	return s == SortAsc || s == SortDesc
}

// FilterState - каноническое состояние фильтров, сортировки и пагинации списка.
// Указатели означают "поле не задано".
type FilterState struct {
	Page       int
	Limit      int
	SortBy     SortBy
	SortOrder  SortOrder
	Statuses   []AdStatus
	CategoryID *int
	MinPrice   *float64
	MaxPrice   *float64
	Search     string
}

// DefaultFilterState - состояние после сброса фильтров.
func DefaultFilterState() FilterState {
	return FilterState{
		Page:      1,
		Limit:     PageSize,
		SortBy:    SortByCreatedAt,
		SortOrder: SortDesc,
	}
}

// HasActiveFilters сообщает, выбран ли хотя бы один фильтр (сортировка и страница не считаются).
func (f FilterState) HasActiveFilters() bool {
	return len(f.Statuses) > 0 || f.CategoryID != nil || f.MinPrice != nil || f.MaxPrice != nil || f.Search != ""
}

// HasStatus проверяет, выбран ли статус в фильтре.
func (f FilterState) HasStatus(status AdStatus) bool {
	for _, s := range f.Statuses {
		if s == status {
			return true
		}
	}
	return false
}

// Clone копирует состояние вместе со срезом и указателями.
func (f FilterState) Clone() FilterState {
	c := f
	c.Statuses = append([]AdStatus(nil), f.Statuses...)
	if f.CategoryID != nil {
		v := *f.CategoryID
		c.CategoryID = &v
	}
	if f.MinPrice != nil {
		v := *f.MinPrice
		c.MinPrice = &v
	}
	if f.MaxPrice != nil {
		v := *f.MaxPrice
		c.MaxPrice = &v
	}
	return c
}

// Offset - смещение первой записи страницы. При переполнении возвращает math.MaxInt.
func (f FilterState) Offset() int {
	if f.Page < 1 || f.Limit <= 0 {
		return 0
	}
	if f.Page-1 > math.MaxInt/f.Limit {
		return math.MaxInt
	}
	return (f.Page - 1) * f.Limit
}

// FilterPatch - частичное изменение фильтров. Nil-поле не трогает текущее значение,
// Clear* явно сбрасывают опциональные поля.
type FilterPatch struct {
	SortBy    *SortBy
	SortOrder *SortOrder

	Statuses      []AdStatus
	ClearStatuses bool

	CategoryID    *int
	ClearCategory bool

	MinPrice      *float64
	ClearMinPrice bool
	MaxPrice      *float64
	ClearMaxPrice bool

	Search      *string
	ClearSearch bool

	// Page игнорируется: любое изменение фильтра возвращает на первую страницу.
	Page *int
}

// Apply накладывает патч и сбрасывает страницу на первую.
func (f FilterState) Apply(p FilterPatch) FilterState {
	next := f.Clone()

	if p.SortBy != nil && p.SortBy.IsValid() {
		next.SortBy = *p.SortBy
	}
	if p.SortOrder != nil && p.SortOrder.IsValid() {
		next.SortOrder = *p.SortOrder
	}

	if p.ClearStatuses {
		next.Statuses = nil
	} else if p.Statuses != nil {
		next.Statuses = dedupStatuses(p.Statuses)
	}

	if p.ClearCategory {
		next.CategoryID = nil
	} else if p.CategoryID != nil {
		v := *p.CategoryID
		next.CategoryID = &v
	}

	if p.ClearMinPrice {
		next.MinPrice = nil
	} else if p.MinPrice != nil {
		v := *p.MinPrice
		next.MinPrice = &v
	}

	if p.ClearMaxPrice {
		next.MaxPrice = nil
	} else if p.MaxPrice != nil {
		v := *p.MaxPrice
		next.MaxPrice = &v
	}

	if p.ClearSearch {
		next.Search = ""
	} else if p.Search != nil {
		next.Search = *p.Search
	}

	next.Page = 1
	next.Limit = PageSize
	return next
}

// ToggleStatus возвращает новый набор статусов с добавленным или убранным статусом.
// Порядок выбора сохраняется.
func (f FilterState) ToggleStatus(status AdStatus) []AdStatus {
	out := make([]AdStatus, 0, len(f.Statuses)+1)
	found := false
	for _, s := range f.Statuses {
		if s == status {
			found = true
			continue
		}
		out = append(out, s)
	}
	if !found {
		out = append(out, status)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func dedupStatuses(in []AdStatus) []AdStatus {
	out := make([]AdStatus, 0, len(in))
	seen := make(map[AdStatus]struct{}, len(in))
	for _, s := range in {
		if !s.IsValid() {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// PatchStatuses строит патч для нового набора статусов; пустой набор сбрасывает фильтр.
func PatchStatuses(statuses []AdStatus) FilterPatch {
	if len(statuses) == 0 {
		return FilterPatch{ClearStatuses: true}
	}
	return FilterPatch{Statuses: statuses}
}
