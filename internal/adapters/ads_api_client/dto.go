package ads_api_client

import (
	"time"

	"github.com/google/uuid"

	"moderation-console/internal/core/domain"
)

// DTO ответов сервиса объявлений. Должны совпадать с JSON, который отдает /api/v1.

type sellerResponse struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Rating       float64   `json:"rating"`
	TotalAds     int       `json:"totalAds"`
	RegisteredAt time.Time `json:"registeredAt"`
}

type historyEntryResponse struct {
	ID            uuid.UUID `json:"id"`
	ModeratorID   int64     `json:"moderatorId"`
	ModeratorName string    `json:"moderatorName"`
	Action        string    `json:"action"`
	Reason        *string   `json:"reason"`
	Comment       *string   `json:"comment"`
	Timestamp     time.Time `json:"timestamp"`
}

type adResponse struct {
	ID                int64                  `json:"id"`
	Title             string                 `json:"title"`
	Description       string                 `json:"description"`
	Price             float64                `json:"price"`
	Category          string                 `json:"category"`
	CategoryID        int                    `json:"categoryId"`
	Status            string                 `json:"status"`
	Priority          string                 `json:"priority"`
	CreatedAt         time.Time              `json:"createdAt"`
	UpdatedAt         time.Time              `json:"updatedAt"`
	Images            []string               `json:"images"`
	Characteristics   map[string]string      `json:"characteristics"`
	Seller            sellerResponse         `json:"seller"`
	ModerationHistory []historyEntryResponse `json:"moderationHistory"`
}

type paginationResponse struct {
	CurrentPage  int `json:"currentPage"`
	TotalPages   int `json:"totalPages"`
	TotalItems   int `json:"totalItems"`
	ItemsPerPage int `json:"itemsPerPage"`
}

type adsListResponse struct {
	Ads        []adResponse       `json:"ads"`
	Pagination paginationResponse `json:"pagination"`
}

type decisionRequest struct {
	Reason  string `json:"reason,omitempty"`
	Comment string `json:"comment,omitempty"`
}

type decisionResponse struct {
	Message string     `json:"message"`
	Ad      adResponse `json:"ad"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type statsSummaryResponse struct {
	TotalReviewed          int     `json:"totalReviewed"`
	TotalReviewedToday     int     `json:"totalReviewedToday"`
	TotalReviewedThisWeek  int     `json:"totalReviewedThisWeek"`
	TotalReviewedThisMonth int     `json:"totalReviewedThisMonth"`
	ApprovedPercentage     float64 `json:"approvedPercentage"`
	RejectedPercentage     float64 `json:"rejectedPercentage"`
	RequestChangesPct      float64 `json:"requestChangesPercentage"`
	AverageReviewTime      float64 `json:"averageReviewTime"`
}

type activityResponse struct {
	Date           string `json:"date"`
	Approved       int    `json:"approved"`
	Rejected       int    `json:"rejected"`
	RequestChanges int    `json:"requestChanges"`
}

type decisionsResponse struct {
	Approved       float64 `json:"approved"`
	Rejected       float64 `json:"rejected"`
	RequestChanges float64 `json:"requestChanges"`
}

type moderatorResponse struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

func (r adResponse) toDomain() domain.Advertisement {
	ad := domain.Advertisement{
		ID:              r.ID,
		Title:           r.Title,
		Description:     r.Description,
		Price:           r.Price,
		Category:        r.Category,
		CategoryID:      r.CategoryID,
		Status:          domain.AdStatus(r.Status),
		Priority:        domain.AdPriority(r.Priority),
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
		Images:          r.Images,
		Characteristics: r.Characteristics,
		Seller: domain.Seller{
			ID:           r.Seller.ID,
			Name:         r.Seller.Name,
			Rating:       r.Seller.Rating,
			TotalAds:     r.Seller.TotalAds,
			RegisteredAt: r.Seller.RegisteredAt,
		},
	}
	if len(r.ModerationHistory) > 0 {
		ad.ModerationHistory = make([]domain.ModerationHistoryEntry, len(r.ModerationHistory))
		for i, h := range r.ModerationHistory {
			ad.ModerationHistory[i] = domain.ModerationHistoryEntry{
				ID:            h.ID,
				ModeratorID:   h.ModeratorID,
				ModeratorName: h.ModeratorName,
				Action:        domain.HistoryAction(h.Action),
				Reason:        h.Reason,
				Comment:       h.Comment,
				Timestamp:     h.Timestamp,
			}
		}
	}
	return ad
}

// parseActivityDate принимает и дату (2006-01-02), и полную метку времени.
func parseActivityDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
