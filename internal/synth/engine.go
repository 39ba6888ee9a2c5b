package synth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/book-expert/logger"
	"github.com/book-expert/phonemizer/internal/config"
	"github.com/book-expert/phonemizer/internal/language"
	"github.com/book-expert/phonemizer/internal/phonemizer"
)

const (
	// HealthCheckTimeout bounds the health probe run before a batch.
	HealthCheckTimeout = 10 * time.Second

	filePermissions = 0o600
	dirPermissions  = 0o750
)

var (
	// ErrOutputDirEmpty indicates that no output directory was given.
	ErrOutputDirEmpty = errors.New("output directory cannot be empty")
	// ErrNoChunks indicates a batch with nothing to speak.
	ErrNoChunks = errors.New("no chunks to synthesize")
	// ErrWorkersRange indicates a non-positive worker count.
	ErrWorkersRange = errors.New("workers must be positive")
)

const (
	errFmtHealthCheckFailed     = "synthesis service health check failed: %w"
	errFmtChunkFailed           = "chunk %d failed: %w"
	logFmtServiceHealthy        = "Synthesis service is healthy, processing %d chunks"
	logFmtGeneratedAudio        = "Generated audio: %s (%d bytes)"
	logFmtChunkProcessingFailed = "Failed to process chunk %d: %v"
	logFmtChunkProcessed        = "Processed chunk %d/%d"
	outputFileFormat            = "chunk_%04d.wav"
)

// Phonemizer is the part of the phonemizer the engine needs.
type Phonemizer interface {
	PhonemizeVoice(ctx context.Context, text, voiceID string, normalize bool) (string, error)
}

// Options tune an Engine.
type Options struct {
	Speed     float64
	Workers   int
	Timeout   time.Duration
	Normalize bool
}

// Engine phonemizes text chunks and sends them to the synthesis service,
// writing one WAV file per chunk.
type Engine struct {
	client     *HTTPClient
	phonemizer Phonemizer
	log        *logger.Logger
	opts       Options
}

// NewEngine creates an engine around an existing client.
func NewEngine(client *HTTPClient, p Phonemizer, log *logger.Logger, opts Options) (*Engine, error) {
	speedErr := ValidateSpeed(opts.Speed)
	if speedErr != nil {
		return nil, speedErr
	}

	if opts.Workers < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrWorkersRange, opts.Workers)
	}

	return &Engine{client: client, phonemizer: p, log: log, opts: opts}, nil
}

// NewEngineFromConfig builds the client and engine from the [synthesis]
// configuration section.
func NewEngineFromConfig(cfg *config.Config, p Phonemizer, log *logger.Logger) (*Engine, error) {
	timeout := time.Duration(cfg.Synthesis.TimeoutSeconds) * time.Second

	return NewEngine(NewHTTPClient(cfg.Synthesis.ServiceURL, timeout), p, log, Options{
		Speed:     cfg.Synthesis.Speed,
		Workers:   cfg.Synthesis.Workers,
		Timeout:   timeout,
		Normalize: cfg.NormalizeEnabled(),
	})
}

// SpeakChunks phonemizes every chunk with voice and writes chunk_0001.wav,
// chunk_0002.wav, ... into outputDir. Failed chunks do not stop the others;
// the last failure is returned.
func (e *Engine) SpeakChunks(ctx context.Context, chunks []string, voice, outputDir string) error {
	jobs := make([]job, 0, len(chunks))
	for _, chunk := range chunks {
		jobs = append(jobs, job{text: chunk})
	}

	return e.run(ctx, jobs, voice, outputDir)
}

// SpeakDocument synthesizes a stored phoneme document without phonemizing
// again.
func (e *Engine) SpeakDocument(ctx context.Context, doc *phonemizer.Document, outputDir string) error {
	jobs := make([]job, 0, len(doc.Chunks))
	for _, chunk := range doc.Chunks {
		jobs = append(jobs, job{text: chunk.Text, phonemes: chunk.Phonemes})
	}

	return e.run(ctx, jobs, doc.Voice, outputDir)
}

// ReadDocument loads a phoneme document written by the phonemizer service.
// A document naming an unknown voice is rejected.
func ReadDocument(path string) (*phonemizer.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}

	var doc phonemizer.Document

	err = json.Unmarshal(data, &doc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document %s: %w", path, err)
	}

	if len(doc.Chunks) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoChunks, path)
	}

	_, err = language.LookupVoice(doc.Voice)
	if err != nil {
		return nil, fmt.Errorf("document %s: %w", path, err)
	}

	return &doc, nil
}

type job struct {
	text     string
	phonemes string
}

func (e *Engine) run(ctx context.Context, jobs []job, voice, outputDir string) error {
	if outputDir == "" {
		return ErrOutputDirEmpty
	}

	if len(jobs) == 0 {
		return ErrNoChunks
	}

	dirErr := os.MkdirAll(outputDir, dirPermissions)
	if dirErr != nil {
		return fmt.Errorf("failed to create output directory: %w", dirErr)
	}

	healthErr := e.checkServiceHealth(ctx)
	if healthErr != nil {
		return healthErr
	}

	e.log.Info(logFmtServiceHealthy, len(jobs))

	return e.processParallel(ctx, jobs, voice, outputDir)
}

func (e *Engine) checkServiceHealth(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, HealthCheckTimeout)
	defer cancel()

	healthErr := e.client.HealthCheck(ctx)
	if healthErr != nil {
		return fmt.Errorf(errFmtHealthCheckFailed, healthErr)
	}

	return nil
}

// processParallel bounds concurrency with a semaphore channel sized to the
// configured worker count.
func (e *Engine) processParallel(ctx context.Context, jobs []job, voice, outputDir string) error {
	var (
		waitGroup sync.WaitGroup
		mutex     sync.Mutex
		lastError error
	)

	workerPool := make(chan struct{}, e.opts.Workers)

	for jobIndex, current := range jobs {
		waitGroup.Add(1)

		go func(index int, work job) {
			defer waitGroup.Done()

			workerPool <- struct{}{}

			defer func() { <-workerPool }()

			outputPath := filepath.Join(outputDir, fmt.Sprintf(outputFileFormat, index+1))

			err := e.speakOne(ctx, work, voice, outputPath)
			if err != nil {
				mutex.Lock()
				lastError = fmt.Errorf(errFmtChunkFailed, index+1, err)
				mutex.Unlock()

				e.log.Error(logFmtChunkProcessingFailed, index+1, err)

				return
			}

			e.log.Info(logFmtChunkProcessed, index+1, len(jobs))
		}(jobIndex, current)
	}

	waitGroup.Wait()

	return lastError
}

func (e *Engine) speakOne(ctx context.Context, work job, voice, outputPath string) error {
	phonemes := work.phonemes
	if phonemes == "" {
		var err error

		phonemes, err = e.phonemizer.PhonemizeVoice(ctx, work.text, voice, e.opts.Normalize)
		if err != nil {
			return fmt.Errorf("failed to phonemize: %w", err)
		}
	}

	if e.opts.Timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, e.opts.Timeout)
		defer cancel()
	}

	audioData, err := e.client.Synthesize(ctx, Request{Phonemes: phonemes, Voice: voice, Speed: e.opts.Speed})
	if err != nil {
		return fmt.Errorf("failed to synthesize speech: %w", err)
	}

	err = os.WriteFile(outputPath, audioData, filePermissions)
	if err != nil {
		return fmt.Errorf("failed to write audio file: %w", err)
	}

	e.log.Info(logFmtGeneratedAudio, outputPath, len(audioData))

	return nil
}
