package rest

import (
	"time"

	"github.com/google/uuid"

	"moderation-console/internal/core/domain"
)

type SellerDTO struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Rating       float64   `json:"rating"`
	TotalAds     int       `json:"totalAds"`
	RegisteredAt time.Time `json:"registeredAt"`
}

type HistoryEntryDTO struct {
	ID            uuid.UUID `json:"id"`
	ModeratorID   int64     `json:"moderatorId"`
	ModeratorName string    `json:"moderatorName"`
	Action        string    `json:"action"`
	Reason        *string   `json:"reason"`
	Comment       *string   `json:"comment"`
	Timestamp     time.Time `json:"timestamp"`
}

type AdDTO struct {
	ID                int64             `json:"id"`
	Title             string            `json:"title"`
	Description       string            `json:"description"`
	Price             float64           `json:"price"`
	Category          string            `json:"category"`
	CategoryID        int               `json:"categoryId"`
	Status            string            `json:"status"`
	Priority          string            `json:"priority"`
	CreatedAt         time.Time         `json:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt"`
	Images            []string          `json:"images"`
	Characteristics   map[string]string `json:"characteristics"`
	Seller            SellerDTO         `json:"seller"`
	ModerationHistory []HistoryEntryDTO `json:"moderationHistory"`
}

type PaginationDTO struct {
	CurrentPage  int `json:"currentPage"`
	TotalPages   int `json:"totalPages"`
	TotalItems   int `json:"totalItems"`
	ItemsPerPage int `json:"itemsPerPage"`
}

type AdsListResponse struct {
	Ads        []AdDTO       `json:"ads"`
	Pagination PaginationDTO `json:"pagination"`
}

type DecisionRequest struct {
	Reason  string `json:"reason"`
	Comment string `json:"comment"`
}

type DecisionResponse struct {
	Message string `json:"message"`
	Ad      AdDTO  `json:"ad"`
}

type StatsSummaryDTO struct {
	TotalReviewed          int     `json:"totalReviewed"`
	TotalReviewedToday     int     `json:"totalReviewedToday"`
	TotalReviewedThisWeek  int     `json:"totalReviewedThisWeek"`
	TotalReviewedThisMonth int     `json:"totalReviewedThisMonth"`
	ApprovedPercentage     float64 `json:"approvedPercentage"`
	RejectedPercentage     float64 `json:"rejectedPercentage"`
	RequestChangesPct      float64 `json:"requestChangesPercentage"`
	AverageReviewTime      float64 `json:"averageReviewTime"`
}

type ActivityDTO struct {
	Date           string `json:"date"`
	Approved       int    `json:"approved"`
	Rejected       int    `json:"rejected"`
	RequestChanges int    `json:"requestChanges"`
}

type DecisionsDTO struct {
	Approved       float64 `json:"approved"`
	Rejected       float64 `json:"rejected"`
	RequestChanges float64 `json:"requestChanges"`
}

type ModeratorDTO struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

func toAdDTO(ad domain.Advertisement) AdDTO {
	dto := AdDTO{
		ID:              ad.ID,
		Title:           ad.Title,
		Description:     ad.Description,
		Price:           ad.Price,
		Category:        ad.Category,
		CategoryID:      ad.CategoryID,
		Status:          string(ad.Status),
		Priority:        string(ad.Priority),
		CreatedAt:       ad.CreatedAt,
		UpdatedAt:       ad.UpdatedAt,
		Images:          ad.Images,
		Characteristics: ad.Characteristics,
		Seller: SellerDTO{
			ID:           ad.Seller.ID,
			Name:         ad.Seller.Name,
			Rating:       ad.Seller.Rating,
			TotalAds:     ad.Seller.TotalAds,
			RegisteredAt: ad.Seller.RegisteredAt,
		},
		ModerationHistory: make([]HistoryEntryDTO, len(ad.ModerationHistory)),
	}
	if dto.Images == nil {
		dto.Images = []string{}
	}
	if dto.Characteristics == nil {
		dto.Characteristics = map[string]string{}
	}
	for i, h := range ad.ModerationHistory {
		dto.ModerationHistory[i] = HistoryEntryDTO{
			ID:            h.ID,
			ModeratorID:   h.ModeratorID,
			ModeratorName: h.ModeratorName,
			Action:        string(h.Action),
			Reason:        h.Reason,
			Comment:       h.Comment,
			Timestamp:     h.Timestamp,
		}
	}
	return dto
}

func toAdsListResponse(page *domain.QueryResultPage) AdsListResponse {
	resp := AdsListResponse{
		Ads: make([]AdDTO, len(page.Ads)),
		Pagination: PaginationDTO{
			CurrentPage:  page.Pagination.CurrentPage,
			TotalPages:   page.Pagination.TotalPages,
			TotalItems:   page.Pagination.TotalItems,
			ItemsPerPage: page.Pagination.ItemsPerPage,
		},
	}
	for i, ad := range page.Ads {
		resp.Ads[i] = toAdDTO(ad)
	}
	return resp
}
