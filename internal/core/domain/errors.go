package domain

import (
	"errors"
	"fmt"
)

var (
	ErrAdNotFound      = errors.New("advertisement not found")
	ErrInvalidPage     = errors.New("page must be a positive integer")
	ErrInvalidDecision = errors.New("invalid decision")
	ErrUnknownReason   = errors.New("unknown rejection reason")
	ErrInvalidPeriod   = errors.New("unknown stats period")
)

// ServiceError - ошибка, полученная от сервиса объявлений (транспорт или не-2xx ответ).
// Message - человекочитаемый текст из тела ответа, может быть пустым.
type ServiceError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *ServiceError) Error() string {
	switch {
	case e.Err != nil && e.StatusCode == 0:
		return fmt.Sprintf("ads service unavailable: %v", e.Err)
	case e.Message != "":
		return fmt.Sprintf("ads service returned status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("ads service returned status %d", e.StatusCode)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// UserMessage достает из цепочки ошибок текст для показа модератору,
// либо возвращает fallback.
func UserMessage(err error, fallback string) string {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) && svcErr.Message != "" {
		return svcErr.Message
	}
	return fallback
}
