package domain

import "fmt"

// DecisionAction - закрытое перечисление решений модератора.
type DecisionAction int

const (
	ActionApprove DecisionAction = iota + 1
	ActionReject
	ActionRequestChanges
)

func (a DecisionAction) String() string {
	switch a {
	case ActionApprove:
		return "approve"
	case ActionReject:
		return "reject"
	case ActionRequestChanges:
		return "requestChanges"
	}
	return fmt.Sprintf("DecisionAction(%d)", int(a))
}

// PathSegment - сегмент URL для действия в API сервиса объявлений.
func (a DecisionAction) PathSegment() string {
	switch a {
	case ActionApprove:
		return "approve"
	case ActionReject:
		return "reject"
	case ActionRequestChanges:
		return "request-changes"
	}
	return ""
}

// HistoryAction - запись истории, которую порождает решение.
func (a DecisionAction) HistoryAction() HistoryAction {
	switch a {
	case ActionApprove:
		return HistoryApproved
	case ActionReject:
		return HistoryRejected
	case ActionRequestChanges:
		return HistoryRequestChanges
	}
	return ""
}

// ResultingStatus - статус объявления после применения решения.
// Запрос изменений возвращает объявление продавцу в черновики.
func (a DecisionAction) ResultingStatus() AdStatus {
	switch a {
	case ActionApprove:
		return StatusApproved
	case ActionReject:
		return StatusRejected
	case ActionRequestChanges:
		return StatusDraft
	}
	return ""
}

// RequiresReason - для отклонения и доработки причина обязательна.
func (a DecisionAction) RequiresReason() bool {
	return a == ActionReject || a == ActionRequestChanges
}

// ParseDecisionAction разбирает сегмент пути ("approve", "reject", "request-changes").
func ParseDecisionAction(segment string) (DecisionAction, error) {
	switch segment {
	case "approve":
		return ActionApprove, nil
	case "reject":
		return ActionReject, nil
	case "request-changes", "requestChanges":
		return ActionRequestChanges, nil
	}
	return 0, fmt.Errorf("%w: unknown action %q", ErrInvalidDecision, segment)
}

// RejectionReason - закрытый список причин отклонения и возврата на доработку.
type RejectionReason string

const (
	ReasonProhibitedItem     RejectionReason = "Запрещенный товар"
	ReasonWrongCategory      RejectionReason = "Неверная категория"
	ReasonInvalidDescription RejectionReason = "Некорректное описание"
	ReasonPhotoIssues        RejectionReason = "Проблемы с фото"
	ReasonSuspectedFraud     RejectionReason = "Подозрение на мошенничество"
	ReasonOther              RejectionReason = "Другое"
)

// RejectionReasons - порядок причин в окне выбора.
var RejectionReasons = []RejectionReason{
	ReasonProhibitedItem,
	ReasonWrongCategory,
	ReasonInvalidDescription,
	ReasonPhotoIssues,
	ReasonSuspectedFraud,
	ReasonOther,
}

func (r RejectionReason) IsValid() bool {
	for _, known := range RejectionReasons {
		if r == known {
			return true
		}
	}
	return false
}

// ParseRejectionReason проверяет, что строка входит в закрытый список.
func ParseRejectionReason(s string) (RejectionReason, error) {
	r := RejectionReason(s)
	if !r.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownReason, s)
	}
	return r, nil
}

// Decision - тело решения, отправляемое в сервис объявлений.
type Decision struct {
	Action  DecisionAction
	Reason  RejectionReason
	Comment string
}

// Validate используется на границе сервиса; движок решений полагается на то,
// что вызывающая сторона уже выбрала причину.
func (d Decision) Validate() error {
	switch d.Action {
	case ActionApprove:
		return nil
	case ActionReject, ActionRequestChanges:
		if d.Reason == "" {
			return fmt.Errorf("%w: reason is required for %s", ErrInvalidDecision, d.Action)
		}
		if !d.Reason.IsValid() {
			return fmt.Errorf("%w: %q", ErrUnknownReason, d.Reason)
		}
		return nil
	}
	return fmt.Errorf("%w: unknown action %d", ErrInvalidDecision, int(d.Action))
}
