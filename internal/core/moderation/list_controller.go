package moderation

import (
	"context"
	"fmt"
	"sync"

	"moderation-console/internal/contextkeys"
	"moderation-console/internal/core/domain"
	"moderation-console/internal/core/port"
	"moderation-console/internal/core/querycodec"
)

const msgListLoadFailed = "Ошибка загрузки объявлений"

// ListState - состояние сессии запроса списка.
type ListState int

const (
	ListIdle ListState = iota
	ListLoading
	ListLoaded
	ListFailed
)

func (s ListState) String() string {
	switch s {
	case ListIdle:
		return "idle"
	case ListLoading:
		return "loading"
	case ListLoaded:
		return "loaded"
	case ListFailed:
		return "failed"
	}
	return fmt.Sprintf("ListState(%d)", int(s))
}

// ListSnapshot - неизменяемый срез состояния контроллера для отрисовки.
type ListSnapshot struct {
	State            ListState
	Filter           domain.FilterState
	Ads              []domain.Advertisement
	Pagination       domain.Pagination
	Loading          bool
	// Err непуст только в состоянии ListFailed.
	Err              string
	Address          string
	HasActiveFilters bool
}

// ListQueryController владеет каноническим состоянием фильтров, синхронизирует его
// с адресом и загружает страницы списка. Применяется только результат последнего
// выданного запроса.
type ListQueryController struct {
	ads     port.AdsCollectionPort
	address port.AddressPort

	mu     sync.Mutex
	filter domain.FilterState
	state  ListState
	page   *domain.QueryResultPage
	errMsg string
	seq    uint64
}

func NewListQueryController(ads port.AdsCollectionPort, address port.AddressPort) *ListQueryController {
	return &ListQueryController{
		ads:     ads,
		address: address,
		filter:  domain.DefaultFilterState(),
		state:   ListIdle,
	}
}

// Mount выводит состояние из текущего адреса и загружает список.
func (c *ListQueryController) Mount(ctx context.Context) error {
	filter := querycodec.Decode(c.address.Query())

	c.mu.Lock()
	c.filter = filter
	c.mu.Unlock()

	return c.fetch(ctx)
}

// Sync перечитывает адрес после внешней навигации (назад/вперед) и загружает
// список только если состояние фильтров действительно изменилось.
func (c *ListQueryController) Sync(ctx context.Context) error {
	filter := querycodec.Decode(c.address.Query())

	c.mu.Lock()
	same := sameFilter(filter, c.filter)
	if !same {
		c.filter = filter
	}
	c.mu.Unlock()

	if same {
		return nil
	}
	return c.fetch(ctx)
}

// SetFilter накладывает патч, возвращает список на первую страницу,
// публикует адрес и перезагружает список.
func (c *ListQueryController) SetFilter(ctx context.Context, patch domain.FilterPatch) error {
	c.mu.Lock()
	c.filter = c.filter.Apply(patch)
	c.publishLocked()
	c.mu.Unlock()

	return c.fetch(ctx)
}

// ResetFilters возвращает фильтры, сортировку и страницу к значениям по умолчанию.
func (c *ListQueryController) ResetFilters(ctx context.Context) error {
	c.mu.Lock()
	c.filter = domain.DefaultFilterState()
	c.publishLocked()
	c.mu.Unlock()

	return c.fetch(ctx)
}

// SetPage переходит на страницу n. При n < 1 состояние не меняется.
func (c *ListQueryController) SetPage(ctx context.Context, n int) error {
	if n < 1 {
		return fmt.Errorf("%w: %d", domain.ErrInvalidPage, n)
	}

	c.mu.Lock()
	c.filter.Page = n
	c.publishLocked()
	c.mu.Unlock()

	return c.fetch(ctx)
}

// Refetch повторяет загрузку с текущим состоянием, предыдущая страница остается видимой.
func (c *ListQueryController) Refetch(ctx context.Context) error {
	return c.fetch(ctx)
}

// Retry - повтор после ошибки, семантика та же, что у Refetch.
func (c *ListQueryController) Retry(ctx context.Context) error {
	return c.fetch(ctx)
}

func (c *ListQueryController) Filter() domain.FilterState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter.Clone()
}

func (c *ListQueryController) Snapshot() ListSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := ListSnapshot{
		State:            c.state,
		Filter:           c.filter.Clone(),
		Loading:          c.state == ListLoading,
		Err:              c.errMsg,
		Address:          querycodec.String(querycodec.Encode(c.filter)),
		HasActiveFilters: c.filter.HasActiveFilters(),
	}
	if c.page != nil {
		snap.Ads = make([]domain.Advertisement, len(c.page.Ads))
		for i := range c.page.Ads {
			snap.Ads[i] = *c.page.Ads[i].Clone()
		}
		snap.Pagination = c.page.Pagination
	}
	return snap
}

func (c *ListQueryController) publishLocked() {
	c.address.ReplaceQuery(querycodec.Encode(c.filter))
}

// fetch выдает запрос с новым порядковым номером. Мьютекс не удерживается во время
// вызова сервиса, устаревший результат отбрасывается.
func (c *ListQueryController) fetch(ctx context.Context) error {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	filter := c.filter.Clone()
	c.state = ListLoading
	c.errMsg = ""
	c.mu.Unlock()

	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "ListQueryController",
		"seq":       seq,
		"page":      filter.Page,
	})
	logger.Debug("Fetching ads list", nil)

	page, err := c.ads.List(ctx, filter)

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq {
		logger.Debug("Discarding stale list result", port.Fields{"latest_seq": c.seq})
		return nil
	}

	if err != nil {
		c.state = ListFailed
		c.errMsg = domain.UserMessage(err, msgListLoadFailed)
		logger.Error("Failed to load ads list", err, nil)
		return err
	}

	if page == nil {
		page = &domain.QueryResultPage{}
	}
	c.page = page
	c.state = ListLoaded
	c.errMsg = ""
	logger.Debug("Ads list loaded", port.Fields{"items": len(page.Ads)})
	return nil
}

// sameFilter сравнивает состояния по каноническому виду, порядок статусов учитывается.
func sameFilter(a, b domain.FilterState) bool {
	return querycodec.String(querycodec.Encode(a)) == querycodec.String(querycodec.Encode(b))
}
