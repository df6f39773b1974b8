package domain

import (
	"time"

	"github.com/google/uuid"
)

// AdStatus - статус объявления на стороне сервиса объявлений.
type AdStatus string

const (
	StatusDraft    AdStatus = "draft"
	StatusPending  AdStatus = "pending"
	StatusApproved AdStatus = "approved"
	StatusRejected AdStatus = "rejected"
)

// AllStatuses - порядок, в котором статусы показываются в фильтре.
var AllStatuses = []AdStatus{StatusPending, StatusApproved, StatusRejected, StatusDraft}

func (s AdStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Label возвращает подпись статуса для интерфейса модератора.
func (s AdStatus) Label() string {
	switch s {
	case StatusPending:
		return "На модерации"
	case StatusApproved:
		return "Одобрено"
	case StatusRejected:
		return "Отклонено"
	case StatusDraft:
		return "Черновик"
	}
	return string(s)
}

type AdPriority string

const (
	PriorityNormal AdPriority = "normal"
	PriorityUrgent AdPriority = "urgent"
)

// Seller - краткая информация о продавце.
type Seller struct {
	ID           int64
	Name         string
	Rating       float64
	TotalAds     int
	RegisteredAt time.Time
}

// HistoryAction - действие, зафиксированное в истории модерации.
type HistoryAction string

const (
	HistoryApproved       HistoryAction = "approved"
	HistoryRejected       HistoryAction = "rejected"
	HistoryRequestChanges HistoryAction = "requestChanges"
)

// ModerationHistoryEntry - неизменяемая запись об одном решении модератора.
type ModerationHistoryEntry struct {
	ID            uuid.UUID
	ModeratorID   int64
	ModeratorName string
	Action        HistoryAction
	Reason        *string
	Comment       *string
	Timestamp     time.Time
}

// Advertisement - объявление, проходящее модерацию.
// История модерации только дополняется, записи не удаляются и не переставляются.
type Advertisement struct {
	ID              int64
	Title           string
	Description     string
	Price           float64
	Category        string
	CategoryID      int
	Status          AdStatus
	Priority        AdPriority
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Images          []string
	Characteristics map[string]string
	Seller          Seller

	ModerationHistory []ModerationHistoryEntry
}

// Clone возвращает глубокую копию, чтобы наружу не утекали ссылки на внутреннее состояние.
func (a *Advertisement) Clone() *Advertisement {
	if a == nil {
		return nil
	}
	c := *a
	c.Images = append([]string(nil), a.Images...)
	if a.Characteristics != nil {
		c.Characteristics = make(map[string]string, len(a.Characteristics))
		for k, v := range a.Characteristics {
			c.Characteristics[k] = v
		}
	}
	c.ModerationHistory = append([]ModerationHistoryEntry(nil), a.ModerationHistory...)
	return &c
}

// Pagination - метаданные страницы списка.
type Pagination struct {
	CurrentPage  int
	TotalPages   int
	TotalItems   int
	ItemsPerPage int
}

// QueryResultPage - результат одного запроса списка. Каждая выборка
// полностью заменяет предыдущую, частичных обновлений нет.
type QueryResultPage struct {
	Ads        []Advertisement
	Pagination Pagination
}

// Moderator - текущий модератор.
type Moderator struct {
	ID          int64
	Name        string
	Email       string
	Role        string
	Permissions []string
}

const RoleModerator = "moderator"

// DefaultModeratorPermissions - права модератора по умолчанию.
func DefaultModeratorPermissions() []string {
	return []string{"approve_ads", "reject_ads", "request_changes", "view_stats"}
}
