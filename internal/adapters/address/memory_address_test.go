package address

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"moderation-console/internal/core/domain"
)

func TestMemoryAddress_History(t *testing.T) {
	a := NewMemoryAddress("?page=2&status=pending")
	assert.Equal(t, "page=2&status=pending", a.String())
	assert.False(t, a.Back())

	a.ReplaceQuery(domain.QueryPairs{{Key: "page", Value: "3"}})
	a.ReplaceQuery(domain.QueryPairs{{Key: "page", Value: "3"}})
	a.ReplaceQuery(domain.QueryPairs{{Key: "page", Value: "4"}})

	assert.True(t, a.Back())
	assert.Equal(t, "page=3", a.String())
	assert.True(t, a.Back())
	assert.Equal(t, "page=2&status=pending", a.String())
	assert.False(t, a.Back())

	assert.True(t, a.Forward())
	a.ReplaceQuery(domain.QueryPairs{{Key: "page", Value: "9"}})
	assert.False(t, a.Forward(), "forward entries are dropped after a new write")
	assert.Equal(t, "page=9", a.String())
}

func TestMemoryAddress_QueryIsCopy(t *testing.T) {
	a := NewMemoryAddress("page=1")
	q := a.Query()
	q[0].Value = "100"
	assert.Equal(t, "page=1", a.String())
}
