package ads_api_client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"moderation-console/internal/contextkeys"
	"moderation-console/internal/core/domain"
	"moderation-console/internal/core/port"
	"moderation-console/internal/core/querycodec"
)

const apiPrefix = "/api/v1"

// maxErrorBody - сколько байт тела ошибки читается для сообщения модератору.
const maxErrorBody = 64 << 10

// AdsServiceAPIClient - клиент сервиса объявлений. Реализует AdsCollectionPort,
// StatsPort и ModeratorPort.
type AdsServiceAPIClient struct {
	baseURL    string // Например, "http://ads-service:3001"
	httpClient *http.Client
}

// NewAdsServiceAPIClient - конструктор. Таймаут запроса задает клиент,
// ядро консоли своих таймаутов не имеет.
func NewAdsServiceAPIClient(baseURL string, timeout time.Duration) *AdsServiceAPIClient {
	return &AdsServiceAPIClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// doRequest - внутренний хелпер для выполнения запросов
func (c *AdsServiceAPIClient) doRequest(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		req.Header.Set("X-Trace-ID", traceID)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.ServiceError{Err: err}
	}
	return resp, nil
}

// call выполняет запрос и декодирует успешный ответ в out.
func (c *AdsServiceAPIClient) call(ctx context.Context, logger port.LoggerPort, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			logger.Error("Failed to marshal request body", err, nil)
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	resp, err := c.doRequest(ctx, method, path, body)
	if err != nil {
		logger.Error("Failed to perform request to ads service", err, port.Fields{"path": path})
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		svcErr := readServiceError(resp)
		logger.Error("Received non-OK response from ads service", svcErr, port.Fields{"status_code": resp.StatusCode, "path": path})
		return svcErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		logger.Error("Failed to decode response from ads service", err, nil)
		return &domain.ServiceError{StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

// readServiceError достает из тела сообщение для модератора ("error" или "message").
func readServiceError(resp *http.Response) *domain.ServiceError {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	svcErr := &domain.ServiceError{StatusCode: resp.StatusCode}

	var body errorResponse
	if err := json.Unmarshal(raw, &body); err == nil {
		svcErr.Message = body.Message
		if svcErr.Message == "" {
			svcErr.Message = body.Error
		}
	}
	if svcErr.Message == "" && len(raw) > 0 {
		svcErr.Err = errors.New(string(raw))
	}
	return svcErr
}

// asNotFound помечает ответ 404 по объявлению как domain.ErrAdNotFound.
func asNotFound(err error) error {
	var svcErr *domain.ServiceError
	if errors.As(err, &svcErr) && svcErr.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %w", domain.ErrAdNotFound, err)
	}
	return err
}

func (c *AdsServiceAPIClient) logger(ctx context.Context, method string, fields port.Fields) port.LoggerPort {
	f := port.Fields{
		"component": "AdsServiceAPIClient",
		"method":    method,
	}
	for k, v := range fields {
		f[k] = v
	}
	return contextkeys.LoggerFromContext(ctx).WithFields(f)
}

// List реализует AdsCollectionPort.
func (c *AdsServiceAPIClient) List(ctx context.Context, filter domain.FilterState) (*domain.QueryResultPage, error) {
	clientLogger := c.logger(ctx, "List", port.Fields{"page": filter.Page})

	query := querycodec.Encode(filter)
	limit := filter.Limit
	if limit <= 0 {
		limit = domain.PageSize
	}
	query = append(query, domain.QueryPair{Key: querycodec.KeyLimit, Value: strconv.Itoa(limit)})

	var apiResponse adsListResponse
	if err := c.call(ctx, clientLogger, http.MethodGet, "/ads?"+querycodec.String(query), nil, &apiResponse); err != nil {
		return nil, err
	}

	page := &domain.QueryResultPage{
		Ads: make([]domain.Advertisement, len(apiResponse.Ads)),
		Pagination: domain.Pagination{
			CurrentPage:  apiResponse.Pagination.CurrentPage,
			TotalPages:   apiResponse.Pagination.TotalPages,
			TotalItems:   apiResponse.Pagination.TotalItems,
			ItemsPerPage: apiResponse.Pagination.ItemsPerPage,
		},
	}
	for i, dto := range apiResponse.Ads {
		page.Ads[i] = dto.toDomain()
	}
	clientLogger.Debug("Ads page received", port.Fields{"items": len(page.Ads), "total": page.Pagination.TotalItems})
	return page, nil
}

// Get реализует AdsCollectionPort. 404 превращается в domain.ErrAdNotFound.
func (c *AdsServiceAPIClient) Get(ctx context.Context, id int64) (*domain.Advertisement, error) {
	clientLogger := c.logger(ctx, "Get", port.Fields{"ad_id": id})

	var dto adResponse
	if err := c.call(ctx, clientLogger, http.MethodGet, "/ads/"+strconv.FormatInt(id, 10), nil, &dto); err != nil {
		return nil, asNotFound(err)
	}
	ad := dto.toDomain()
	return &ad, nil
}

// Decide отправляет решение модератора.
func (c *AdsServiceAPIClient) Decide(ctx context.Context, id int64, decision domain.Decision) (*domain.Advertisement, error) {
	segment := decision.Action.PathSegment()
	if segment == "" {
		return nil, fmt.Errorf("%w: unknown action %d", domain.ErrInvalidDecision, int(decision.Action))
	}
	clientLogger := c.logger(ctx, "Decide", port.Fields{"ad_id": id, "action": decision.Action.String()})

	var in interface{}
	if decision.Action.RequiresReason() {
		in = decisionRequest{Reason: string(decision.Reason), Comment: decision.Comment}
	}

	var out decisionResponse
	path := "/ads/" + strconv.FormatInt(id, 10) + "/" + segment
	if err := c.call(ctx, clientLogger, http.MethodPost, path, in, &out); err != nil {
		return nil, asNotFound(err)
	}
	clientLogger.Info("Decision accepted by ads service", port.Fields{"message": out.Message})

	ad := out.Ad.toDomain()
	return &ad, nil
}

func periodQuery(period domain.StatsPeriod) string {
	return "?period=" + string(period)
}

func (c *AdsServiceAPIClient) GetSummary(ctx context.Context, period domain.StatsPeriod) (*domain.StatsSummary, error) {
	clientLogger := c.logger(ctx, "GetSummary", port.Fields{"period": string(period)})

	var dto statsSummaryResponse
	if err := c.call(ctx, clientLogger, http.MethodGet, "/stats/summary"+periodQuery(period), nil, &dto); err != nil {
		return nil, err
	}
	return &domain.StatsSummary{
		TotalReviewed:        dto.TotalReviewed,
		TotalReviewedToday:   dto.TotalReviewedToday,
		TotalReviewedWeek:    dto.TotalReviewedThisWeek,
		TotalReviewedMonth:   dto.TotalReviewedThisMonth,
		ApprovedPercentage:   dto.ApprovedPercentage,
		RejectedPercentage:   dto.RejectedPercentage,
		RequestChangesPct:    dto.RequestChangesPct,
		AverageReviewTimeMin: dto.AverageReviewTime,
	}, nil
}

func (c *AdsServiceAPIClient) GetActivity(ctx context.Context, period domain.StatsPeriod) ([]domain.ActivityPoint, error) {
	clientLogger := c.logger(ctx, "GetActivity", port.Fields{"period": string(period)})

	var dtos []activityResponse
	if err := c.call(ctx, clientLogger, http.MethodGet, "/stats/chart/activity"+periodQuery(period), nil, &dtos); err != nil {
		return nil, err
	}

	points := make([]domain.ActivityPoint, 0, len(dtos))
	for _, dto := range dtos {
		date, err := parseActivityDate(dto.Date)
		if err != nil {
			clientLogger.Warn("Skipping activity point with malformed date", port.Fields{"date": dto.Date})
			continue
		}
		points = append(points, domain.ActivityPoint{
			Date:           date,
			Approved:       dto.Approved,
			Rejected:       dto.Rejected,
			RequestChanges: dto.RequestChanges,
		})
	}
	return points, nil
}

func (c *AdsServiceAPIClient) GetDecisions(ctx context.Context, period domain.StatsPeriod) (*domain.DecisionsDistribution, error) {
	clientLogger := c.logger(ctx, "GetDecisions", port.Fields{"period": string(period)})

	var dto decisionsResponse
	if err := c.call(ctx, clientLogger, http.MethodGet, "/stats/chart/decisions"+periodQuery(period), nil, &dto); err != nil {
		return nil, err
	}
	return &domain.DecisionsDistribution{
		Approved:       dto.Approved,
		Rejected:       dto.Rejected,
		RequestChanges: dto.RequestChanges,
	}, nil
}

func (c *AdsServiceAPIClient) GetCategories(ctx context.Context, period domain.StatsPeriod) (map[string]int, error) {
	clientLogger := c.logger(ctx, "GetCategories", port.Fields{"period": string(period)})

	categories := make(map[string]int)
	if err := c.call(ctx, clientLogger, http.MethodGet, "/stats/chart/categories"+periodQuery(period), nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// CurrentModerator реализует ModeratorPort.
func (c *AdsServiceAPIClient) CurrentModerator(ctx context.Context) (*domain.Moderator, error) {
	clientLogger := c.logger(ctx, "CurrentModerator", nil)

	var dto moderatorResponse
	if err := c.call(ctx, clientLogger, http.MethodGet, "/moderators/me", nil, &dto); err != nil {
		return nil, err
	}
	return &domain.Moderator{
		ID:          dto.ID,
		Name:        dto.Name,
		Email:       dto.Email,
		Role:        dto.Role,
		Permissions: dto.Permissions,
	}, nil
}
