package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"moderation-console/internal/adapters/ads_api_client"
	"moderation-console/internal/adapters/memory"
	"moderation-console/internal/contextkeys"
	"moderation-console/internal/core/domain"
	"moderation-console/internal/core/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type HandlersSuite struct {
	suite.Suite
	repo   *memory.AdRepository
	router http.Handler
}

func TestHandlersSuite(t *testing.T) {
	suite.Run(t, new(HandlersSuite))
}

func (s *HandlersSuite) SetupTest() {
	created := time.Now().Add(-48 * time.Hour).UTC()
	s.repo = memory.NewAdRepository([]domain.Advertisement{
		{ID: 1, Title: "iPhone 13", Price: 50000, Category: "Электроника", CategoryID: 0, Status: domain.StatusPending, Priority: domain.PriorityNormal, CreatedAt: created},
		{ID: 2, Title: "Велосипед", Price: 15000, Category: "Транспорт", CategoryID: 2, Status: domain.StatusPending, Priority: domain.PriorityUrgent, CreatedAt: created.Add(time.Hour)},
		{ID: 3, Title: "Диван", Price: 20000, Category: "Недвижимость", CategoryID: 1, Status: domain.StatusApproved, Priority: domain.PriorityNormal, CreatedAt: created.Add(2 * time.Hour)},
	})
	moderator := domain.Moderator{ID: 1, Name: "Алексей Петров", Email: "a.petrov@example.com", Role: "moderator"}

	s.router = NewRouter(
		NewAdsHandler(
			usecase.NewListAdsUseCase(s.repo),
			usecase.NewGetAdUseCase(s.repo),
			usecase.NewDecideAdUseCase(s.repo, nil, moderator),
		),
		NewStatsHandler(usecase.NewGetStatsUseCase(s.repo)),
		NewModeratorHandler(moderator),
		[]string{"http://localhost:5173"},
		contextkeys.LoggerFromContext(context.Background()),
	)
}

func (s *HandlersSuite) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlersSuite) decode(rec *httptest.ResponseRecorder, v interface{}) {
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), v))
}

func (s *HandlersSuite) TestListAds_FiltersAndSort() {
	rec := s.do(http.MethodGet, "/api/v1/ads?page=1&status=pending&sortBy=price&sortOrder=asc", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.NotEmpty(rec.Header().Get("X-Trace-ID"))

	var resp AdsListResponse
	s.decode(rec, &resp)
	s.Require().Len(resp.Ads, 2)
	s.Equal(int64(2), resp.Ads[0].ID)
	s.Equal(int64(1), resp.Ads[1].ID)
	s.Equal(2, resp.Pagination.TotalItems)
	s.Equal(1, resp.Pagination.TotalPages)
	s.Equal(domain.PageSize, resp.Pagination.ItemsPerPage)
}

func (s *HandlersSuite) TestListAds_LimitAndBadParams() {
	rec := s.do(http.MethodGet, "/api/v1/ads?page=abc&limit=1&sortBy=nope", "")
	s.Require().Equal(http.StatusOK, rec.Code)

	var resp AdsListResponse
	s.decode(rec, &resp)
	s.Require().Len(resp.Ads, 1)
	s.Equal(int64(3), resp.Ads[0].ID)
	s.Equal(3, resp.Pagination.TotalPages)
	s.Equal(1, resp.Pagination.CurrentPage)
}

func (s *HandlersSuite) TestGetAd() {
	rec := s.do(http.MethodGet, "/api/v1/ads/2", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	var ad AdDTO
	s.decode(rec, &ad)
	s.Equal("Велосипед", ad.Title)
	s.Equal("urgent", ad.Priority)
	s.NotNil(ad.ModerationHistory)

	s.Equal(http.StatusNotFound, s.do(http.MethodGet, "/api/v1/ads/99", "").Code)
	s.Equal(http.StatusBadRequest, s.do(http.MethodGet, "/api/v1/ads/abc", "").Code)
	s.Equal(http.StatusBadRequest, s.do(http.MethodGet, "/api/v1/ads/0", "").Code)
}

func (s *HandlersSuite) TestReject_RequiresReason() {
	for _, body := range []string{"", `{}`, `{"reason":"Не нравится"}`, `{"reason":`} {
		rec := s.do(http.MethodPost, "/api/v1/ads/1/reject", body)
		s.Equal(http.StatusBadRequest, rec.Code, "body %q", body)
	}

	ad, err := s.repo.FindByID(context.Background(), 1)
	s.Require().NoError(err)
	s.Equal(domain.StatusPending, ad.Status)
	s.Empty(ad.ModerationHistory)
}

func (s *HandlersSuite) TestDecisions() {
	tests := []struct {
		path       string
		body       string
		wantStatus string
		wantAction string
	}{
		{"/api/v1/ads/1/approve", "", "approved", "approved"},
		{"/api/v1/ads/2/reject", `{"reason":"Другое","comment":"дубликат"}`, "rejected", "rejected"},
		{"/api/v1/ads/3/request-changes", `{"reason":"Проблемы с фото"}`, "draft", "requestChanges"},
	}
	for _, tt := range tests {
		rec := s.do(http.MethodPost, tt.path, tt.body)
		s.Require().Equal(http.StatusOK, rec.Code, tt.path)

		var resp DecisionResponse
		s.decode(rec, &resp)
		s.NotEmpty(resp.Message)
		s.Equal(tt.wantStatus, resp.Ad.Status)
		s.Require().Len(resp.Ad.ModerationHistory, 1)
		s.Equal(tt.wantAction, resp.Ad.ModerationHistory[0].Action)
		s.Equal("Алексей Петров", resp.Ad.ModerationHistory[0].ModeratorName)
	}

	var ad AdDTO
	s.decode(s.do(http.MethodGet, "/api/v1/ads/2", ""), &ad)
	s.Require().NotNil(ad.ModerationHistory[0].Reason)
	s.Equal("Другое", *ad.ModerationHistory[0].Reason)
	s.Equal("дубликат", *ad.ModerationHistory[0].Comment)
}

func (s *HandlersSuite) TestDecide_NotFound() {
	s.Equal(http.StatusNotFound, s.do(http.MethodPost, "/api/v1/ads/42/approve", "").Code)
}

func (s *HandlersSuite) TestStats() {
	s.Require().Equal(http.StatusOK, s.do(http.MethodPost, "/api/v1/ads/1/approve", "").Code)
	s.Require().Equal(http.StatusOK, s.do(http.MethodPost, "/api/v1/ads/2/reject", `{"reason":"Другое"}`).Code)

	var summary StatsSummaryDTO
	s.decode(s.do(http.MethodGet, "/api/v1/stats/summary?period=today", ""), &summary)
	s.Equal(2, summary.TotalReviewed)
	s.Equal(2, summary.TotalReviewedToday)
	s.InDelta(50.0, summary.ApprovedPercentage, 0.01)

	var activity []ActivityDTO
	s.decode(s.do(http.MethodGet, "/api/v1/stats/chart/activity", ""), &activity)
	s.Len(activity, 7)
	last := activity[len(activity)-1]
	s.Equal(time.Now().Format(time.DateOnly), last.Date)
	s.Equal(1, last.Approved)
	s.Equal(1, last.Rejected)

	var decisions DecisionsDTO
	s.decode(s.do(http.MethodGet, "/api/v1/stats/chart/decisions?period=month", ""), &decisions)
	s.InDelta(50.0, decisions.Rejected, 0.01)

	var categories map[string]int
	s.decode(s.do(http.MethodGet, "/api/v1/stats/chart/categories", ""), &categories)
	s.Equal(map[string]int{"Электроника": 1, "Транспорт": 1}, categories)

	s.Equal(http.StatusBadRequest, s.do(http.MethodGet, "/api/v1/stats/summary?period=year", "").Code)
}

func (s *HandlersSuite) TestCurrentModerator() {
	var m ModeratorDTO
	s.decode(s.do(http.MethodGet, "/api/v1/moderators/me", ""), &m)
	s.Equal(int64(1), m.ID)
	s.Equal("Алексей Петров", m.Name)
	s.NotNil(m.Permissions)
}

// Клиент консоли и сервер должны понимать друг друга без подгонки.
func TestClientAgainstServer(t *testing.T) {
	s := new(HandlersSuite)
	s.SetT(t)
	s.SetupTest()

	srv := httptest.NewServer(s.router)
	defer srv.Close()

	client := ads_api_client.NewAdsServiceAPIClient(srv.URL, 2*time.Second)
	ctx := context.Background()

	filter := domain.DefaultFilterState()
	filter.Statuses = []domain.AdStatus{domain.StatusPending}
	page, err := client.List(ctx, filter)
	require.NoError(t, err)
	assert.Len(t, page.Ads, 2)

	ad, err := client.Decide(ctx, 2, domain.Decision{Action: domain.ActionReject, Reason: domain.ReasonOther})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, ad.Status)
	require.Len(t, ad.ModerationHistory, 1)
	assert.Equal(t, domain.HistoryRejected, ad.ModerationHistory[0].Action)
	assert.NotEqual(t, uuid.Nil, ad.ModerationHistory[0].ID)

	_, err = client.Get(ctx, 404)
	assert.True(t, errors.Is(err, domain.ErrAdNotFound))

	_, err = client.Decide(ctx, 1, domain.Decision{Action: domain.ActionReject})
	var svcErr *domain.ServiceError
	require.True(t, errors.As(err, &svcErr))
	assert.Equal(t, http.StatusBadRequest, svcErr.StatusCode)
	assert.Equal(t, "Необходимо указать причину из списка", svcErr.Message)

	summary, err := client.GetSummary(ctx, domain.PeriodWeek)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalReviewed)

	me, err := client.CurrentModerator(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Алексей Петров", me.Name)
}
