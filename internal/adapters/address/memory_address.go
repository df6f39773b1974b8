package address

import (
	"sync"

	"moderation-console/internal/core/domain"
	"moderation-console/internal/core/querycodec"
)

// MemoryAddress - адрес списка в памяти с историей переходов, как у браузера.
// ReplaceQuery добавляет запись в историю, Back/Forward по ней перемещаются.
type MemoryAddress struct {
	mu      sync.Mutex
	entries []domain.QueryPairs
	pos     int
}

// NewMemoryAddress создает адрес из строки вида key=value&...
func NewMemoryAddress(initial string) *MemoryAddress {
	return &MemoryAddress{entries: []domain.QueryPairs{querycodec.ParseQuery(initial)}}
}

func (a *MemoryAddress) Query() domain.QueryPairs {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append(domain.QueryPairs(nil), a.entries[a.pos]...)
}

// ReplaceQuery записывает новое состояние. Одинаковый адрес не дублируется,
// записи "вперед" отбрасываются.
func (a *MemoryAddress) ReplaceQuery(query domain.QueryPairs) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if querycodec.String(a.entries[a.pos]) == querycodec.String(query) {
		return
	}
	a.entries = append(a.entries[:a.pos+1], append(domain.QueryPairs(nil), query...))
	a.pos = len(a.entries) - 1
}

func (a *MemoryAddress) Back() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.pos == 0 {
		return false
	}
	a.pos--
	return true
}

func (a *MemoryAddress) Forward() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.pos >= len(a.entries)-1 {
		return false
	}
	a.pos++
	return true
}

func (a *MemoryAddress) String() string {
	return querycodec.String(a.Query())
}
