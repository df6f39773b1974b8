package rest

import (
	"net/http"
	"time"

	"moderation-console/internal/contextkeys"
	"moderation-console/internal/core/domain"
	"moderation-console/internal/core/port"
	"moderation-console/internal/core/port/usecases_port"
)

type StatsHandler struct {
	getStatsUC usecases_port.GetStatsUseCasePort
}

func NewStatsHandler(getStatsUC usecases_port.GetStatsUseCasePort) *StatsHandler {
	return &StatsHandler{getStatsUC: getStatsUC}
}

// load разбирает ?period= и считает статистику; при ошибке ответ уже записан.
func (h *StatsHandler) load(w http.ResponseWriter, r *http.Request, handler string) (*domain.StatsSnapshot, bool) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": handler})

	period, err := domain.ParseStatsPeriod(r.URL.Query().Get("period"))
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Неизвестный период")
		return nil, false
	}

	snap, err := h.getStatsUC.Execute(r.Context(), period)
	if err != nil {
		logger.Error("Failed to compute stats", err, port.Fields{"period": string(period)})
		WriteJSONError(w, http.StatusInternalServerError, "Ошибка загрузки статистики")
		return nil, false
	}
	return snap, true
}

// GetSummary обрабатывает GET /api/v1/stats/summary
func (h *StatsHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.load(w, r, "GetSummary")
	if !ok {
		return
	}
	s := snap.Summary
	RespondWithJSON(w, http.StatusOK, StatsSummaryDTO{
		TotalReviewed:          s.TotalReviewed,
		TotalReviewedToday:     s.TotalReviewedToday,
		TotalReviewedThisWeek:  s.TotalReviewedWeek,
		TotalReviewedThisMonth: s.TotalReviewedMonth,
		ApprovedPercentage:     s.ApprovedPercentage,
		RejectedPercentage:     s.RejectedPercentage,
		RequestChangesPct:      s.RequestChangesPct,
		AverageReviewTime:      s.AverageReviewTimeMin,
	})
}

// GetActivity обрабатывает GET /api/v1/stats/chart/activity
func (h *StatsHandler) GetActivity(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.load(w, r, "GetActivity")
	if !ok {
		return
	}
	points := make([]ActivityDTO, len(snap.Activity))
	for i, p := range snap.Activity {
		points[i] = ActivityDTO{
			Date:           p.Date.Format(time.DateOnly),
			Approved:       p.Approved,
			Rejected:       p.Rejected,
			RequestChanges: p.RequestChanges,
		}
	}
	RespondWithJSON(w, http.StatusOK, points)
}

// GetDecisions обрабатывает GET /api/v1/stats/chart/decisions
func (h *StatsHandler) GetDecisions(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.load(w, r, "GetDecisions")
	if !ok {
		return
	}
	RespondWithJSON(w, http.StatusOK, DecisionsDTO{
		Approved:       snap.Decisions.Approved,
		Rejected:       snap.Decisions.Rejected,
		RequestChanges: snap.Decisions.RequestChanges,
	})
}

// GetCategories обрабатывает GET /api/v1/stats/chart/categories
func (h *StatsHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.load(w, r, "GetCategories")
	if !ok {
		return
	}
	RespondWithJSON(w, http.StatusOK, snap.Categories)
}
