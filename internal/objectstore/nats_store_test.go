// Package objectstore_test tests the NATS object store implementation.
package objectstore_test

import (
	"context"
	"testing"

	"github.com/book-expert/phonemizer/internal/objectstore"
	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats-server/v2/test"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/require"
)

// StartTestServer starts an in-memory NATS server for testing purposes.
func StartTestServer(t *testing.T) (*server.Server, *nats.Conn) {
	t.Helper()

	opts := test.DefaultTestOptions
	opts.Port = -1 // Use a random port
	opts.JetStream = true
	opts.StoreDir = t.TempDir()
	natsServer := test.RunServer(&opts)

	natsConnection, err := nats.Connect(natsServer.ClientURL())
	if err != nil {
		t.Fatalf("Failed to connect to test NATS server: %v", err)
	}

	return natsServer, natsConnection
}

func newJetStream(t *testing.T) jetstream.JetStream {
	t.Helper()

	natsServer, natsConnection := StartTestServer(t)
	t.Cleanup(natsServer.Shutdown)
	t.Cleanup(natsConnection.Close)

	js, err := jetstream.New(natsConnection)
	require.NoError(t, err)

	return js
}

func TestNatsObjectStore_UploadDownload(t *testing.T) {
	t.Parallel()

	js := newJetStream(t)
	ctx := context.Background()

	store, err := objectstore.New(ctx, js, "test-bucket")
	require.NoError(t, err)

	key := "chapter-1.json"
	uploadData := []byte(`{"voice":"af_heart","chunks":[]}`)

	err = store.Upload(ctx, key, uploadData)
	require.NoError(t, err)

	downloadData, err := store.Download(ctx, key)
	require.NoError(t, err)

	require.Equal(t, uploadData, downloadData)
}

func TestNatsObjectStore_BindsExistingBucket(t *testing.T) {
	t.Parallel()

	js := newJetStream(t)
	ctx := context.Background()

	first, err := objectstore.New(ctx, js, "shared-bucket")
	require.NoError(t, err)
	require.NoError(t, first.Upload(ctx, "key", []byte("value")))

	second, err := objectstore.New(ctx, js, "shared-bucket")
	require.NoError(t, err)

	data, err := second.Download(ctx, "key")
	require.NoError(t, err)
	require.Equal(t, []byte("value"), data)
}

func TestNatsObjectStore_MissingKey(t *testing.T) {
	t.Parallel()

	js := newJetStream(t)
	ctx := context.Background()

	store, err := objectstore.New(ctx, js, "empty-bucket")
	require.NoError(t, err)

	_, err = store.Download(ctx, "nope")
	require.ErrorIs(t, err, objectstore.ErrObjectNotFound)
}
