package rabbitmq

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"moderation-console/internal/core/port"
)

func TestPairsToFields(t *testing.T) {
	assert.Nil(t, pairsToFields(nil))
	assert.Equal(t, port.Fields{"exchange": "moderation_events_exchange", "attempt": 2},
		pairsToFields([]interface{}{"exchange", "moderation_events_exchange", "attempt", 2}))
	assert.Equal(t, port.Fields{"url": "(missing)"}, pairsToFields([]interface{}{"url"}))
}
