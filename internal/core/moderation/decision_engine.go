package moderation

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"moderation-console/internal/contextkeys"
	"moderation-console/internal/core/domain"
	"moderation-console/internal/core/port"
)

const (
	msgAdLoadFailed     = "Ошибка загрузки объявления"
	msgApproveFailed    = "Ошибка при одобрении объявления"
	msgRejectFailed     = "Ошибка при отклонении объявления"
	msgRequestChgFailed = "Ошибка при запросе изменений"
)

// ItemView - состояние карточки объявления.
type ItemView int

const (
	ItemIdle ItemView = iota
	ItemLoading
	ItemLoaded
	ItemNotFound
	ItemFailed
)

func (v ItemView) String() string {
	switch v {
	case ItemIdle:
		return "idle"
	case ItemLoading:
		return "loading"
	case ItemLoaded:
		return "loaded"
	case ItemNotFound:
		return "not_found"
	case ItemFailed:
		return "failed"
	}
	return fmt.Sprintf("ItemView(%d)", int(v))
}

// Outcome - результат попытки принять решение.
type Outcome int

const (
	// OutcomeApplied - сервис принял решение, объявление перезагружено.
	OutcomeApplied Outcome = iota
	// OutcomeIgnored - по объявлению уже выполняется решение, вызов проигнорирован.
	OutcomeIgnored
	// OutcomeDisallowed - решение недоступно для текущего статуса или объявление не загружено.
	OutcomeDisallowed
	// OutcomeFailed - сервис вернул ошибку, статус не изменился.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeIgnored:
		return "ignored"
	case OutcomeDisallowed:
		return "disallowed"
	case OutcomeFailed:
		return "failed"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// ItemSnapshot - копия состояния одного объявления для отрисовки.
type ItemSnapshot struct {
	ID                int64
	View              ItemView
	Ad                *domain.Advertisement
	Submitting        bool
	Err               string
	CanApprove        bool
	CanReject         bool
	CanRequestChanges bool
}

type itemEntry struct {
	view       ItemView
	ad         *domain.Advertisement
	submitting bool
	errMsg     string
	loadSeq    uint64
}

// DecisionEngine ведет состояние Ready/Submitting для каждого объявления.
// По одному объявлению одновременно выполняется не больше одного решения,
// после успешного решения объявление всегда перечитывается из сервиса.
type DecisionEngine struct {
	ads port.AdsCollectionPort

	mu    sync.Mutex
	items map[int64]*itemEntry
}

func NewDecisionEngine(ads port.AdsCollectionPort) *DecisionEngine {
	return &DecisionEngine{
		ads:   ads,
		items: make(map[int64]*itemEntry),
	}
}

// Load загружает объявление. Отсутствующее объявление переводит карточку в NotFound.
func (e *DecisionEngine) Load(ctx context.Context, id int64) error {
	e.mu.Lock()
	it := e.entryLocked(id)
	it.loadSeq++
	seq := it.loadSeq
	it.view = ItemLoading
	it.errMsg = ""
	e.mu.Unlock()

	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "DecisionEngine",
		"ad_id":     id,
	})

	ad, err := e.ads.Get(ctx, id)

	e.mu.Lock()
	defer e.mu.Unlock()

	if seq != it.loadSeq {
		logger.Debug("Discarding stale ad load result", nil)
		return nil
	}

	switch {
	case errors.Is(err, domain.ErrAdNotFound):
		it.view = ItemNotFound
		it.ad = nil
		logger.Info("Ad not found", nil)
		return err
	case err != nil:
		it.view = ItemFailed
		it.errMsg = domain.UserMessage(err, msgAdLoadFailed)
		logger.Error("Failed to load ad", err, nil)
		return err
	case ad == nil:
		it.view = ItemNotFound
		it.ad = nil
		return domain.ErrAdNotFound
	}

	it.ad = ad.Clone()
	it.view = ItemLoaded
	return nil
}

// Approve одобряет объявление. Недоступно, если оно уже одобрено.
func (e *DecisionEngine) Approve(ctx context.Context, id int64) (Outcome, error) {
	return e.decide(ctx, id, domain.Decision{Action: domain.ActionApprove})
}

// Reject отклоняет объявление с причиной из закрытого списка. Недоступно, если оно уже отклонено.
func (e *DecisionEngine) Reject(ctx context.Context, id int64, reason domain.RejectionReason, comment string) (Outcome, error) {
	return e.decide(ctx, id, domain.Decision{Action: domain.ActionReject, Reason: reason, Comment: comment})
}

// RequestChanges возвращает объявление на доработку, доступно при любом статусе.
func (e *DecisionEngine) RequestChanges(ctx context.Context, id int64, reason domain.RejectionReason, comment string) (Outcome, error) {
	return e.decide(ctx, id, domain.Decision{Action: domain.ActionRequestChanges, Reason: reason, Comment: comment})
}

func (e *DecisionEngine) CanApprove(id int64) bool {
	return e.can(id, domain.ActionApprove)
}

func (e *DecisionEngine) CanReject(id int64) bool {
	return e.can(id, domain.ActionReject)
}

func (e *DecisionEngine) CanRequestChanges(id int64) bool {
	return e.can(id, domain.ActionRequestChanges)
}

// Snapshot возвращает состояние карточки. Для незнакомого id - ItemIdle.
func (e *DecisionEngine) Snapshot(id int64) ItemSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap := ItemSnapshot{ID: id, View: ItemIdle}
	it, ok := e.items[id]
	if !ok {
		return snap
	}
	snap.View = it.view
	snap.Submitting = it.submitting
	snap.Err = it.errMsg
	snap.Ad = it.ad.Clone()
	snap.CanApprove = allowedLocked(it, domain.ActionApprove)
	snap.CanReject = allowedLocked(it, domain.ActionReject)
	snap.CanRequestChanges = allowedLocked(it, domain.ActionRequestChanges)
	return snap
}

// Forget освобождает состояние объявления после ухода с карточки.
// Объявление с решением в процессе не удаляется.
func (e *DecisionEngine) Forget(id int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if it, ok := e.items[id]; ok && !it.submitting {
		delete(e.items, id)
	}
}

func (e *DecisionEngine) decide(ctx context.Context, id int64, d domain.Decision) (Outcome, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "DecisionEngine",
		"ad_id":     id,
		"action":    d.Action.String(),
	})

	e.mu.Lock()
	it, ok := e.items[id]
	switch {
	case !ok || it.ad == nil:
		e.mu.Unlock()
		return OutcomeDisallowed, nil
	case it.submitting:
		e.mu.Unlock()
		logger.Debug("Decision already in flight, ignoring", nil)
		return OutcomeIgnored, nil
	case !allowedLocked(it, d.Action):
		e.mu.Unlock()
		return OutcomeDisallowed, nil
	}
	it.submitting = true
	it.errMsg = ""
	e.mu.Unlock()

	// Gate держится до конца перезагрузки: следующее решение видит уже новый статус.
	defer func() {
		e.mu.Lock()
		it.submitting = false
		e.mu.Unlock()
	}()

	if _, err := e.ads.Decide(ctx, id, d); err != nil {
		e.mu.Lock()
		it.errMsg = failureMessage(d.Action)
		e.mu.Unlock()
		logger.Error("Decision failed", err, nil)
		return OutcomeFailed, err
	}
	logger.Info("Decision recorded", nil)

	if err := e.Load(ctx, id); err != nil {
		logger.Warn("Refresh after decision failed", port.Fields{"error": err.Error()})
	}
	return OutcomeApplied, nil
}

func (e *DecisionEngine) can(id int64, action domain.DecisionAction) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	it, ok := e.items[id]
	return ok && allowedLocked(it, action)
}

func (e *DecisionEngine) entryLocked(id int64) *itemEntry {
	it, ok := e.items[id]
	if !ok {
		it = &itemEntry{view: ItemIdle}
		e.items[id] = it
	}
	return it
}

func allowedLocked(it *itemEntry, action domain.DecisionAction) bool {
	if it.ad == nil || it.submitting {
		return false
	}
	switch action {
	case domain.ActionApprove:
		return it.ad.Status != domain.StatusApproved
	case domain.ActionReject:
		return it.ad.Status != domain.StatusRejected
	case domain.ActionRequestChanges:
		return true
	}
	return false
}

func failureMessage(action domain.DecisionAction) string {
	switch action {
	case domain.ActionApprove:
		return msgApproveFailed
	case domain.ActionReject:
		return msgRejectFailed
	case domain.ActionRequestChanges:
		return msgRequestChgFailed
	}
	return msgAdLoadFailed
}
