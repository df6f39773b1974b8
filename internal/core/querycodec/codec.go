// Package querycodec переводит состояние фильтров списка в параметры адресной строки и обратно.
package querycodec

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"moderation-console/internal/core/domain"
)

// Ключи параметров адреса.
const (
	KeyPage       = "page"
	KeyLimit      = "limit"
	KeyStatus     = "status"
	KeyCategoryID = "categoryId"
	KeyMinPrice   = "minPrice"
	KeyMaxPrice   = "maxPrice"
	KeySearch     = "search"
	KeySortBy     = "sortBy"
	KeySortOrder  = "sortOrder"
)

// Encode строит канонический набор параметров. Порядок ключей фиксирован,
// page, sortBy и sortOrder присутствуют всегда.
func Encode(s domain.FilterState) domain.QueryPairs {
	page := s.Page
	if page < 1 {
		page = 1
	}
	sortBy := s.SortBy
	if !sortBy.IsValid() {
		sortBy = domain.SortByCreatedAt
	}
	sortOrder := s.SortOrder
	if !sortOrder.IsValid() {
		sortOrder = domain.SortDesc
	}

	pairs := make(domain.QueryPairs, 0, 8+len(s.Statuses))
	pairs = append(pairs, domain.QueryPair{Key: KeyPage, Value: strconv.Itoa(page)})
	for _, st := range s.Statuses {
		pairs = append(pairs, domain.QueryPair{Key: KeyStatus, Value: string(st)})
	}
	if s.CategoryID != nil {
		pairs = append(pairs, domain.QueryPair{Key: KeyCategoryID, Value: strconv.Itoa(*s.CategoryID)})
	}
	if s.MinPrice != nil {
		pairs = append(pairs, domain.QueryPair{Key: KeyMinPrice, Value: formatPrice(*s.MinPrice)})
	}
	if s.MaxPrice != nil {
		pairs = append(pairs, domain.QueryPair{Key: KeyMaxPrice, Value: formatPrice(*s.MaxPrice)})
	}
	if s.Search != "" {
		pairs = append(pairs, domain.QueryPair{Key: KeySearch, Value: s.Search})
	}
	pairs = append(pairs,
		domain.QueryPair{Key: KeySortBy, Value: string(sortBy)},
		domain.QueryPair{Key: KeySortOrder, Value: string(sortOrder)},
	)
	return pairs
}

// Decode восстанавливает состояние из параметров. Отсутствующие и некорректные
// значения заменяются значениями по умолчанию, limit игнорируется.
func Decode(q domain.QueryPairs) domain.FilterState {
	s := domain.DefaultFilterState()

	if v, ok := q.Get(KeyPage); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n >= 1 {
			s.Page = n
		}
	}

	if raw := q.GetAll(KeyStatus); len(raw) > 0 {
		statuses := make([]domain.AdStatus, 0, len(raw))
		for _, v := range raw {
			st := domain.AdStatus(v)
			if !st.IsValid() || containsStatus(statuses, st) {
				continue
			}
			statuses = append(statuses, st)
		}
		if len(statuses) > 0 {
			s.Statuses = statuses
		}
	}

	if v, ok := q.Get(KeyCategoryID); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			s.CategoryID = &n
		}
	}
	s.MinPrice = parsePrice(q, KeyMinPrice)
	s.MaxPrice = parsePrice(q, KeyMaxPrice)

	if v, ok := q.Get(KeySearch); ok {
		s.Search = v
	}
	if v, ok := q.Get(KeySortBy); ok && domain.SortBy(v).IsValid() {
		s.SortBy = domain.SortBy(v)
	}
	if v, ok := q.Get(KeySortOrder); ok && domain.SortOrder(v).IsValid() {
		s.SortOrder = domain.SortOrder(v)
	}
	return s
}

// String рендерит параметры в виде key=value&... с сохранением порядка.
func String(q domain.QueryPairs) string {
	var b strings.Builder
	for i, p := range q {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}

// ParseQuery разбирает строку параметров, сохраняя порядок и повторы ключей.
// Ведущий '?' допускается, некорректно экранированные пары пропускаются.
func ParseQuery(raw string) domain.QueryPairs {
	raw = strings.TrimPrefix(raw, "?")
	var pairs domain.QueryPairs
	for _, part := range strings.Split(raw, "&") {
		if part == "" {
			continue
		}
		key, value, _ := strings.Cut(part, "=")
		k, err := url.QueryUnescape(key)
		if err != nil {
			continue
		}
		v, err := url.QueryUnescape(value)
		if err != nil {
			continue
		}
		pairs = append(pairs, domain.QueryPair{Key: k, Value: v})
	}
	return pairs
}

func parsePrice(q domain.QueryPairs, key string) *float64 {
	v, ok := q.Get(key)
	if !ok {
		return nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func containsStatus(list []domain.AdStatus, st domain.AdStatus) bool {
	for _, s := range list {
		if s == st {
			return true
		}
	}
	return false
}
