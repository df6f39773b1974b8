package rest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"moderation-console/internal/contextkeys"
	"moderation-console/internal/contracts"
	"moderation-console/internal/core/domain"
	"moderation-console/internal/core/port"
	"moderation-console/internal/core/port/usecases_port"
	"moderation-console/internal/core/querycodec"
)

const maxDecisionBodyBytes = 16 << 10

type AdsHandler struct {
	listAdsUC  usecases_port.ListAdsUseCasePort
	getAdUC    usecases_port.GetAdUseCasePort
	decideAdUC usecases_port.DecideAdUseCasePort
}

func NewAdsHandler(listAdsUC usecases_port.ListAdsUseCasePort,
	getAdUC usecases_port.GetAdUseCasePort,
	decideAdUC usecases_port.DecideAdUseCasePort) *AdsHandler {
	return &AdsHandler{
		listAdsUC:  listAdsUC,
		getAdUC:    getAdUC,
		decideAdUC: decideAdUC,
	}
}

// ListAds обрабатывает GET /api/v1/ads
func (h *AdsHandler) ListAds(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	// Те же правила разбора, что и в адресной строке консоли.
	filter := querycodec.Decode(querycodec.ParseQuery(r.URL.RawQuery))
	filter.Limit = limitParam(r)

	handlerLogger := logger.WithFields(port.Fields{
		"handler": "ListAds",
		"page":    filter.Page,
	})

	page, err := h.listAdsUC.Execute(r.Context(), filter)
	if err != nil {
		handlerLogger.Error("Failed to list ads", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Ошибка загрузки объявлений")
		return
	}

	RespondWithJSON(w, http.StatusOK, toAdsListResponse(page))
}

// GetAd обрабатывает GET /api/v1/ads/{adID}
func (h *AdsHandler) GetAd(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	id, ok := adIDParam(r)
	if !ok {
		WriteJSONError(w, http.StatusBadRequest, "Некорректный идентификатор объявления")
		return
	}

	ad, err := h.getAdUC.Execute(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrAdNotFound) {
			WriteJSONError(w, http.StatusNotFound, "Объявление не найдено")
			return
		}
		logger.Error("Failed to get ad", err, port.Fields{"handler": "GetAd", "ad_id": id})
		WriteJSONError(w, http.StatusInternalServerError, "Ошибка загрузки объявления")
		return
	}

	RespondWithJSON(w, http.StatusOK, toAdDTO(*ad))
}

// Approve обрабатывает POST /api/v1/ads/{adID}/approve
func (h *AdsHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, domain.ActionApprove, "Объявление одобрено")
}

// Reject обрабатывает POST /api/v1/ads/{adID}/reject
func (h *AdsHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, domain.ActionReject, "Объявление отклонено")
}

// RequestChanges обрабатывает POST /api/v1/ads/{adID}/request-changes
func (h *AdsHandler) RequestChanges(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, domain.ActionRequestChanges, "Объявление возвращено на доработку")
}

func (h *AdsHandler) decide(w http.ResponseWriter, r *http.Request, action domain.DecisionAction, message string) {
	logger := contextkeys.LoggerFromContext(r.Context())

	id, ok := adIDParam(r)
	if !ok {
		WriteJSONError(w, http.StatusBadRequest, "Некорректный идентификатор объявления")
		return
	}

	handlerLogger := logger.WithFields(port.Fields{
		"handler": "Decide",
		"ad_id":   id,
		"action":  action.String(),
	})

	decision := domain.Decision{Action: action}
	if action.RequiresReason() {
		req, err := readDecisionRequest(r)
		if err != nil {
			handlerLogger.Warn("Invalid decision body", port.Fields{"error": err.Error()})
			WriteJSONError(w, http.StatusBadRequest, "Необходимо указать причину из списка")
			return
		}
		decision.Reason = domain.RejectionReason(req.Reason)
		decision.Comment = req.Comment
	}

	ad, err := h.decideAdUC.Execute(r.Context(), id, decision)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAdNotFound):
			WriteJSONError(w, http.StatusNotFound, "Объявление не найдено")
		case errors.Is(err, domain.ErrInvalidDecision), errors.Is(err, domain.ErrUnknownReason):
			WriteJSONError(w, http.StatusBadRequest, "Необходимо указать причину из списка")
		default:
			handlerLogger.Error("Failed to apply decision", err, nil)
			WriteJSONError(w, http.StatusInternalServerError, "Внутренняя ошибка сервера")
		}
		return
	}

	RespondWithJSON(w, http.StatusOK, DecisionResponse{
		Message: message,
		Ad:      toAdDTO(*ad),
	})
}

// readDecisionRequest проверяет тело по JSON-схеме до разбора.
func readDecisionRequest(r *http.Request) (*DecisionRequest, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxDecisionBodyBytes))
	if err != nil {
		return nil, err
	}
	if err := contracts.Validate(contracts.DecisionRequest, contracts.VersionV1, body); err != nil {
		return nil, err
	}
	var req DecisionRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, err
	}
	return &req, nil
}
