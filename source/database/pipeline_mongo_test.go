package database

import (
	"commandcenter/source/board"
	"commandcenter/source/utils"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// newOfflineMongoClient returns a client that never reaches a server. Connect
// is lazy, so it only fails once an operation is sent.
func newOfflineMongoClient(t *testing.T) *mongo.Client {
	t.Helper()

	client, err := mongo.Connect(options.Client().
		ApplyURI("mongodb://127.0.0.1:1").
		SetServerSelectionTimeout(50 * time.Millisecond))
	require.NoError(t, err)
	return client
}

func TestMongoGatewayRejectsMalformedIDs(t *testing.T) {
	client := newOfflineMongoClient(t)
	defer client.Disconnect(context.Background())
	gateway := NewMongoPipelineGateway(client, "development")
	ctx := context.Background()

	_, err := gateway.FetchOne(ctx, "not-an-object-id")
	assert.ErrorIs(t, err, board.ErrItemNotFound)

	history, err := gateway.FetchHistory(ctx, "not-an-object-id")
	assert.ErrorIs(t, err, board.ErrItemNotFound)
	assert.Nil(t, history)
}

func TestOpenPipelineStoreSharesTheMongoClient(t *testing.T) {
	t.Setenv(utils.GATEWAY_DRIVER, utils.GATEWAY_MONGO)
	t.Setenv(utils.ENV, utils.ENV_DEVELOPMENT)
	ctx := context.Background()

	_, err := OpenPipelineStore(ctx, nil)
	require.Error(t, err)

	client := newOfflineMongoClient(t)
	store, err := OpenPipelineStore(ctx, client)
	require.NoError(t, err)

	gateway, ok := store.(*MongoPipelineGateway)
	require.True(t, ok)
	assert.Same(t, client, gateway.client)

	require.NoError(t, store.Close(ctx))
	assert.NoError(t, client.Disconnect(ctx), "closing the store must leave the shared client connected")
}
