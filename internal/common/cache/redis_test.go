// internal/common/cache/redis_test.go
package cache

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDefinition(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewWithClient(db, time.Hour)

	mock.ExpectGet("kwdef:ACW").SetVal("After Call Work, wrap up time after a chat.")

	got, err := c.GetDefinition(context.Background(), "ACW")
	require.NoError(t, err)
	assert.Equal(t, "After Call Work, wrap up time after a chat.", got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetDefinitionMiss(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewWithClient(db, time.Hour)

	mock.ExpectGet("kwdef:Unknown").RedisNil()

	_, err := c.GetDefinition(context.Background(), "Unknown")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetDefinition(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewWithClient(db, 30*time.Minute)

	mock.ExpectSet("kwdef:PVA", "A virtual agent product.", 30*time.Minute).SetVal("OK")

	err := c.SetDefinition(context.Background(), "PVA", "A virtual agent product.")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPing(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewWithClient(db, time.Hour)

	mock.ExpectPing().SetVal("PONG")

	assert.NoError(t, c.Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
