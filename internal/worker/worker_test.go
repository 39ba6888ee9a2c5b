// Package worker_test tests the NATS worker for the phonemizer service.
package worker_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/book-expert/events"
	"github.com/book-expert/logger"
	"github.com/book-expert/phonemizer/internal/core"
	"github.com/book-expert/phonemizer/internal/worker"
	"github.com/google/uuid"

	"github.com/nats-io/nats-server/v2/test"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	errMockDownload = errors.New("mock download error")
	errMockUpload   = errors.New("mock upload error")
	errMockProcess  = errors.New("mock process error")
)

// mockObjectStore is a mock implementation of the ObjectStore interface.
type mockObjectStore struct {
	downloadShouldFail bool
	uploadShouldFail   bool
	downloadedKey      string
	uploadedKey        string
	uploadedData       []byte
}

func (m *mockObjectStore) Download(_ context.Context, key string) ([]byte, error) {
	if m.downloadShouldFail {
		return nil, errMockDownload
	}

	m.downloadedKey = key

	return []byte("sample text"), nil
}

func (m *mockObjectStore) Upload(_ context.Context, key string, data []byte) error {
	if m.uploadShouldFail {
		return errMockUpload
	}

	m.uploadedKey = key
	m.uploadedData = data

	return nil
}

// mockPhonemeProcessor is a mock implementation of the PhonemeProcessor interface.
type mockPhonemeProcessor struct {
	processShouldFail bool
	processedText     []byte
	processedCfg      core.PhonemizeConfig
	config            core.PhonemizeConfig
}

func (m *mockPhonemeProcessor) GetConfig() core.PhonemizeConfig {
	return m.config
}

func (m *mockPhonemeProcessor) Process(
	_ context.Context, text []byte, cfg core.PhonemizeConfig,
) (*core.PhonemeResult, error) {
	if m.processShouldFail {
		return nil, errMockProcess
	}

	m.processedText = text
	m.processedCfg = cfg

	return &core.PhonemeResult{Data: []byte(`{"chunks":[]}`), ChunkCount: 3}, nil
}

func createTestNatsClient(t *testing.T) (*nats.Conn, func()) {
	t.Helper()

	opts := test.DefaultTestOptions
	opts.Port = -1 // Use a random port
	server := test.RunServer(&opts)

	natsConnection, err := nats.Connect(server.ClientURL())
	if err != nil {
		t.Fatalf("Failed to connect to test NATS server: %v", err)
	}

	cleanup := func() {
		natsConnection.Close()
		server.Shutdown()
	}

	return natsConnection, cleanup
}

type testRig struct {
	worker         *worker.NatsWorker
	textStore      *mockObjectStore
	phonemeStore   *mockObjectStore
	processor      *mockPhonemeProcessor
	natsConnection *nats.Conn
}

func setupTest(t *testing.T) *testRig {
	t.Helper()

	rig := &testRig{
		textStore:    &mockObjectStore{},
		phonemeStore: &mockObjectStore{},
		processor: &mockPhonemeProcessor{
			config: core.PhonemizeConfig{Voice: "af_heart", Normalize: true, MaxChunkChars: 200},
		},
	}

	natsConnection, natsCleanup := createTestNatsClient(t)
	t.Cleanup(natsCleanup)

	rig.natsConnection = natsConnection

	testLogger, err := logger.New(t.TempDir(), "worker-test.log")
	require.NoError(t, err)

	rig.worker, err = worker.NewNatsWorker(
		natsConnection, "test_subject", rig.textStore, rig.phonemeStore, rig.processor, testLogger,
	)
	require.NoError(t, err)

	return rig
}

// startWorker runs the worker until the test ends and waits for its subscription.
func startWorker(t *testing.T, rig *testRig) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	errChan := make(chan error, 1)

	go func() {
		errChan <- rig.worker.Run(ctx)
	}()

	t.Cleanup(func() {
		cancel()
		assert.NoError(t, <-errChan, "worker.Run should not error on graceful shutdown")
	})

	require.Eventually(t, func() bool {
		return rig.natsConnection.Flush() == nil && subscribed(rig.natsConnection)
	}, 2*time.Second, 10*time.Millisecond)
}

func subscribed(natsConnection *nats.Conn) bool {
	_, err := natsConnection.Request("test_subject", []byte("{}"), 50*time.Millisecond)

	return errors.Is(err, nats.ErrTimeout)
}

func newEvent(voice string) *events.TextProcessedEvent {
	return &events.TextProcessedEvent{
		Header: events.EventHeader{
			Timestamp:  time.Now(),
			WorkflowID: uuid.NewString(),
			EventID:    uuid.NewString(),
			UserID:     "",
			TenantID:   "",
		},
		TextKey:    "test-text-key",
		PageNumber: 2,
		TotalPages: 10,
		Voice:      voice,
	}
}

func request(t *testing.T, natsConnection *nats.Conn, event *events.TextProcessedEvent) (*nats.Msg, error) {
	t.Helper()

	eventData, err := json.Marshal(event)
	require.NoError(t, err)

	return natsConnection.Request("test_subject", eventData, 2*time.Second)
}

func TestMessageHandler_Success(t *testing.T) {
	t.Parallel()

	rig := setupTest(t)
	startWorker(t, rig)

	testEvent := newEvent("hf_alpha")

	replyMsg, err := request(t, rig.natsConnection, testEvent)
	require.NoError(t, err, "Request should succeed and receive a reply")

	var replyEvent worker.PhonemesCreatedEvent

	err = json.Unmarshal(replyMsg.Data, &replyEvent)
	require.NoError(t, err)

	assert.Equal(t, "test-text-key", rig.textStore.downloadedKey)
	assert.Equal(t, []byte("sample text"), rig.processor.processedText)
	assert.Equal(t, "hf_alpha", rig.processor.processedCfg.Voice)
	assert.True(t, rig.processor.processedCfg.Normalize)
	assert.NotEmpty(t, rig.phonemeStore.uploadedKey, "A phoneme key should have been generated and uploaded")
	assert.Equal(t, []byte(`{"chunks":[]}`), rig.phonemeStore.uploadedData)
	assert.Empty(t, rig.textStore.uploadedKey)

	assert.Equal(t, rig.phonemeStore.uploadedKey, replyEvent.PhonemeKey)
	assert.Equal(t, 3, replyEvent.ChunkCount)
	assert.Equal(t, 2, replyEvent.PageNumber)
	assert.Equal(t, 10, replyEvent.TotalPages)
	assert.Equal(t, testEvent.Header.WorkflowID, replyEvent.Header.WorkflowID)
}

func TestMessageHandler_DefaultVoice(t *testing.T) {
	t.Parallel()

	rig := setupTest(t)
	startWorker(t, rig)

	_, err := request(t, rig.natsConnection, newEvent(""))
	require.NoError(t, err)

	assert.Equal(t, "af_heart", rig.processor.processedCfg.Voice)
}

func TestMessageHandler_NoReplyOnFailure(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		voice   string
		prepare func(rig *testRig)
	}{
		{"unsupported voice", "robot_voice", func(*testRig) {}},
		{"download failure", "af_heart", func(rig *testRig) { rig.textStore.downloadShouldFail = true }},
		{"process failure", "af_heart", func(rig *testRig) { rig.processor.processShouldFail = true }},
		{"upload failure", "af_heart", func(rig *testRig) { rig.phonemeStore.uploadShouldFail = true }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rig := setupTest(t)
			tc.prepare(rig)
			startWorker(t, rig)

			_, err := request(t, rig.natsConnection, newEvent(tc.voice))
			require.ErrorIs(t, err, nats.ErrTimeout)
		})
	}
}
