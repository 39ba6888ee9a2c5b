// Package worker provides a NATS worker that processes phonemization jobs.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/book-expert/events"
	"github.com/book-expert/logger"
	"github.com/book-expert/phonemizer/internal/core"
	"github.com/book-expert/phonemizer/internal/language"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

const handleMessageTimeout = 30 * time.Second

var (
	// ErrTextKeyEmpty indicates that the event does not point at any text.
	ErrTextKeyEmpty = errors.New("text key cannot be empty")
	// ErrVoiceEmpty indicates that neither the event nor the defaults name a voice.
	ErrVoiceEmpty = errors.New("voice cannot be empty")
	// ErrUnsupportedVoice indicates that the provided voice is not supported.
	ErrUnsupportedVoice = errors.New("unsupported voice")
)

// PhonemesCreatedEvent is the reply sent once a phoneme document is stored.
type PhonemesCreatedEvent struct {
	Header     events.EventHeader `json:"header"`
	PhonemeKey string             `json:"phoneme_key"`
	ChunkCount int                `json:"chunk_count"`
	PageNumber int                `json:"page_number"`
	TotalPages int                `json:"total_pages"`
}

// NatsWorker listens for phonemization jobs on a NATS subject and processes them.
type NatsWorker struct {
	natsConnection *nats.Conn
	subject        string
	textStore      core.ObjectStore
	phonemeStore   core.ObjectStore
	processor      core.PhonemeProcessor
	log            *logger.Logger
}

// NewNatsWorker creates a new instance of a NATS worker.
func NewNatsWorker(
	natsConnection *nats.Conn,
	subject string,
	textStore core.ObjectStore,
	phonemeStore core.ObjectStore,
	processor core.PhonemeProcessor,
	log *logger.Logger,
) (*NatsWorker, error) {
	return &NatsWorker{
		natsConnection: natsConnection,
		subject:        subject,
		textStore:      textStore,
		phonemeStore:   phonemeStore,
		processor:      processor,
		log:            log,
	}, nil
}

// Run starts the worker and blocks until ctx is cancelled.
func (w *NatsWorker) Run(ctx context.Context) error {
	sub, err := w.natsConnection.Subscribe(w.subject, w.handleMessage)
	if err != nil {
		return fmt.Errorf("failed to subscribe to subject %s: %w", w.subject, err)
	}

	w.log.Info("Listening for phonemization jobs on %s", w.subject)

	<-ctx.Done()

	drainErr := sub.Drain()
	if drainErr != nil {
		return fmt.Errorf("failed to drain subscription: %w", drainErr)
	}

	return nil
}

func (w *NatsWorker) handleMessage(msg *nats.Msg) {
	ctx, cancel := context.WithTimeout(context.Background(), handleMessageTimeout)
	defer cancel()

	event, err := w.parseAndValidateEvent(msg)
	if err != nil {
		w.log.Error("Failed to parse and validate event: %v", err)

		return
	}

	phonemeKey, chunkCount, processErr := w.processPhonemizeJob(ctx, event)
	if processErr != nil {
		w.log.Error("Failed to process phonemize job for workflow %s: %v", event.Header.WorkflowID, processErr)

		return
	}

	replyEvent := &PhonemesCreatedEvent{
		Header:     event.Header,
		PhonemeKey: phonemeKey,
		ChunkCount: chunkCount,
		PageNumber: event.PageNumber,
		TotalPages: event.TotalPages,
	}

	err = w.publishReplyEvent(msg, replyEvent)
	if err != nil {
		w.log.Error("Failed to publish reply event for workflow %s: %v", event.Header.WorkflowID, err)

		return
	}

	w.log.Info("Workflow %s: stored %d phoneme chunks as %s", event.Header.WorkflowID, chunkCount, phonemeKey)
}

// processPhonemizeJob downloads the text, phonemizes it and uploads the document.
func (w *NatsWorker) processPhonemizeJob(ctx context.Context, event *events.TextProcessedEvent) (string, int, error) {
	cfg := w.processor.GetConfig()
	if event.Voice != "" {
		cfg.Voice = event.Voice
	}

	validationErr := validateVoice(cfg.Voice)
	if validationErr != nil {
		return "", 0, validationErr
	}

	textData, err := w.textStore.Download(ctx, event.TextKey)
	if err != nil {
		return "", 0, fmt.Errorf("failed to download text data for key '%s': %w", event.TextKey, err)
	}

	result, err := w.processor.Process(ctx, textData, cfg)
	if err != nil {
		return "", 0, fmt.Errorf("failed to phonemize text: %w", err)
	}

	phonemeKey := uuid.NewString() + ".json"

	err = w.phonemeStore.Upload(ctx, phonemeKey, result.Data)
	if err != nil {
		return "", 0, fmt.Errorf("failed to upload phoneme data for key '%s': %w", phonemeKey, err)
	}

	return phonemeKey, result.ChunkCount, nil
}

// publishReplyEvent marshals and responds with the PhonemesCreatedEvent.
func (w *NatsWorker) publishReplyEvent(msg *nats.Msg, replyEvent *PhonemesCreatedEvent) error {
	replyData, err := json.Marshal(replyEvent)
	if err != nil {
		return fmt.Errorf("failed to marshal reply event: %w", err)
	}

	err = msg.Respond(replyData)
	if err != nil {
		return fmt.Errorf("failed to publish reply event: %w", err)
	}

	return nil
}

func (w *NatsWorker) parseAndValidateEvent(msg *nats.Msg) (*events.TextProcessedEvent, error) {
	var event events.TextProcessedEvent

	err := json.Unmarshal(msg.Data, &event)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}

	if event.TextKey == "" {
		return nil, ErrTextKeyEmpty
	}

	return &event, nil
}

func validateVoice(voice string) error {
	if voice == "" {
		return ErrVoiceEmpty
	}

	_, err := language.LookupVoice(voice)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnsupportedVoice, err)
	}

	return nil
}
