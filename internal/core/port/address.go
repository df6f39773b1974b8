package port

import "moderation-console/internal/core/domain"

// AddressPort - навигируемый адрес списка (query-часть). Писать в него
// может только контроллер списка.
type AddressPort interface {
	Query() domain.QueryPairs
	ReplaceQuery(query domain.QueryPairs)
}
