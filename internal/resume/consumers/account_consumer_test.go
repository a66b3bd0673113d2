package consumers

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resumekit/resumekit-backend/pkg/logger"
	"github.com/resumekit/resumekit-backend/pkg/messaging"
	"github.com/resumekit/resumekit-backend/pkg/objectstore"
)

type brokenStore struct {
	objectstore.Store
}

func (brokenStore) DeletePrefix(context.Context, string) (int, error) {
	return 0, errors.New("bucket unavailable")
}

func accountDeleted(t *testing.T, accountID string) *messaging.Event {
	t.Helper()
	event, err := messaging.NewEvent(messaging.EventAccountDeleted, "auth-service", "corr-1",
		messaging.AccountDeletedEvent{AccountID: accountID, Email: "ada@example.com"})
	require.NoError(t, err)
	return event
}

func TestHandleAccountDeleted_RemovesOnlyThatAccount(t *testing.T) {
	ctx := context.Background()
	store := objectstore.NewMemory()
	require.NoError(t, store.Put(ctx, objectstore.Key("acc-1", "t1", "cv.pdf"), "application/pdf", []byte("a")))
	require.NoError(t, store.Put(ctx, objectstore.Key("acc-1", "t2", "cv.txt"), "text/plain", []byte("b")))
	require.NoError(t, store.Put(ctx, objectstore.Key("acc-10", "t3", "cv.txt"), "text/plain", []byte("c")))

	var buf bytes.Buffer
	c := &AccountCleanupConsumer{store: store, logger: logger.NewWithWriter(&buf, "test")}

	require.NoError(t, c.handleAccountDeleted(ctx, accountDeleted(t, "acc-1")))

	assert.Equal(t, 1, store.Len())
	_, err := store.Get(ctx, objectstore.Key("acc-10", "t3", "cv.txt"))
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), `"objects":2`)
}

func TestHandleAccountDeleted_StoreFailureIsRetried(t *testing.T) {
	c := &AccountCleanupConsumer{store: brokenStore{}, logger: logger.Nop()}

	err := c.handleAccountDeleted(context.Background(), accountDeleted(t, "acc-1"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket unavailable")
}

func TestHandleAccountDeleted_MissingAccountID(t *testing.T) {
	store := objectstore.NewMemory()
	require.NoError(t, store.Put(context.Background(), "acc-1/t1/cv.txt", "text/plain", []byte("a")))
	c := &AccountCleanupConsumer{store: store, logger: logger.Nop()}

	require.NoError(t, c.handleAccountDeleted(context.Background(), accountDeleted(t, "")))
	assert.Equal(t, 1, store.Len())
}

func TestHandleAccountDeleted_MalformedData(t *testing.T) {
	c := &AccountCleanupConsumer{store: objectstore.NewMemory(), logger: logger.Nop()}

	err := c.handleAccountDeleted(context.Background(), &messaging.Event{Data: []byte(`"not an object"`)})
	assert.Error(t, err)
}
