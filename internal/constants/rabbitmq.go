package constants

// Обменник событий модерации
const (
	ExchangeTypeModerationEvents = "topic"
)

// Ключи маршрутизации
const (
	RoutingKeyDecisionRecorded = "ad.decision.recorded"
)
