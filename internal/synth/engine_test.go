package synth_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/book-expert/logger"
	"github.com/book-expert/phonemizer/internal/config"
	"github.com/book-expert/phonemizer/internal/language"
	"github.com/book-expert/phonemizer/internal/phonemizer"
	"github.com/book-expert/phonemizer/internal/synth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errMockPhonemize = errors.New("mock phonemize error")

type mockPhonemizer struct {
	mu    sync.Mutex
	fail  map[string]bool
	calls []string
}

func (m *mockPhonemizer) PhonemizeVoice(_ context.Context, text, _ string, _ bool) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, text)

	if m.fail[text] {
		return "", errMockPhonemize
	}

	return "/" + text + "/", nil
}

func newTestEngine(t *testing.T, serverURL string, p synth.Phonemizer) *synth.Engine {
	t.Helper()

	testLogger, err := logger.New(t.TempDir(), "synth-test.log")
	require.NoError(t, err)

	engine, err := synth.NewEngine(synth.NewHTTPClient(serverURL, 5*time.Second), p, testLogger, synth.Options{
		Speed:   1.0,
		Workers: 2,
		Timeout: 5 * time.Second,
	})
	require.NoError(t, err)

	return engine
}

func TestEngine_SpeakChunks(t *testing.T) {
	t.Parallel()

	received := make(chan synth.Request, 3)
	server := newSynthesisServer(t, received)
	p := &mockPhonemizer{}
	engine := newTestEngine(t, server.URL, p)
	outputDir := filepath.Join(t.TempDir(), "out")

	err := engine.SpeakChunks(context.Background(), []string{"one", "two", "three"}, "af_heart", outputDir)
	require.NoError(t, err)

	for _, name := range []string{"chunk_0001.wav", "chunk_0002.wav", "chunk_0003.wav"} {
		data, readErr := os.ReadFile(filepath.Join(outputDir, name))
		require.NoError(t, readErr, name)
		assert.Equal(t, testAudioData, string(data))
	}

	close(received)

	var phonemes []string
	for req := range received {
		phonemes = append(phonemes, req.Phonemes)
	}

	assert.ElementsMatch(t, []string{"/one/", "/two/", "/three/"}, phonemes)
	assert.Len(t, p.calls, 3)
}

func TestEngine_SpeakChunks_ContinuesAfterFailure(t *testing.T) {
	t.Parallel()

	server := newSynthesisServer(t, nil)
	engine := newTestEngine(t, server.URL, &mockPhonemizer{fail: map[string]bool{"bad": true}})
	outputDir := t.TempDir()

	err := engine.SpeakChunks(context.Background(), []string{"good", "bad", "fine"}, "af_heart", outputDir)
	require.ErrorIs(t, err, errMockPhonemize)
	assert.Contains(t, err.Error(), "chunk 2 failed")

	assert.FileExists(t, filepath.Join(outputDir, "chunk_0001.wav"))
	assert.NoFileExists(t, filepath.Join(outputDir, "chunk_0002.wav"))
	assert.FileExists(t, filepath.Join(outputDir, "chunk_0003.wav"))
}

func TestEngine_SpeakDocument_UsesStoredPhonemes(t *testing.T) {
	t.Parallel()

	received := make(chan synth.Request, 1)
	server := newSynthesisServer(t, received)
	p := &mockPhonemizer{}
	engine := newTestEngine(t, server.URL, p)

	doc := phonemizer.Document{
		Voice:    "hf_alpha",
		Language: "Hindi",
		Chunks:   []phonemizer.Chunk{{Index: 0, Text: "नमस्ते", Phonemes: "nəməst̪eː"}},
	}
	encoded, err := json.Marshal(doc)
	require.NoError(t, err)

	docPath := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, os.WriteFile(docPath, encoded, 0o600))

	loaded, err := synth.ReadDocument(docPath)
	require.NoError(t, err)

	outputDir := t.TempDir()
	require.NoError(t, engine.SpeakDocument(context.Background(), loaded, outputDir))

	req := <-received
	assert.Equal(t, "nəməst̪eː", req.Phonemes)
	assert.Equal(t, "hf_alpha", req.Voice)
	assert.Empty(t, p.calls)
	assert.FileExists(t, filepath.Join(outputDir, "chunk_0001.wav"))
}

func TestEngine_Errors(t *testing.T) {
	t.Parallel()

	server := newSynthesisServer(t, nil)
	engine := newTestEngine(t, server.URL, &mockPhonemizer{})
	ctx := context.Background()

	require.ErrorIs(t, engine.SpeakChunks(ctx, []string{"x"}, "af_heart", ""), synth.ErrOutputDirEmpty)
	require.ErrorIs(t, engine.SpeakChunks(ctx, nil, "af_heart", t.TempDir()), synth.ErrNoChunks)

	down := newTestEngine(t, "http://127.0.0.1:1", &mockPhonemizer{})
	err := down.SpeakChunks(ctx, []string{"x"}, "af_heart", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "health check failed")

	_, err = synth.ReadDocument(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestNewEngine_ValidatesOptions(t *testing.T) {
	t.Parallel()

	testLogger, err := logger.New(t.TempDir(), "synth-test.log")
	require.NoError(t, err)

	client := synth.NewHTTPClient("http://localhost", time.Second)

	_, err = synth.NewEngine(client, &mockPhonemizer{}, testLogger, synth.Options{Speed: 0, Workers: 1})
	require.ErrorIs(t, err, synth.ErrSpeedRange)

	_, err = synth.NewEngine(client, &mockPhonemizer{}, testLogger, synth.Options{Speed: 1, Workers: 0})
	require.ErrorIs(t, err, synth.ErrWorkersRange)
}

func TestNewEngineFromConfig(t *testing.T) {
	t.Parallel()

	received := make(chan synth.Request, 1)
	server := newSynthesisServer(t, received)

	testLogger, err := logger.New(t.TempDir(), "synth-test.log")
	require.NoError(t, err)

	cfg := &config.Config{Synthesis: config.SynthesisConfig{ServiceURL: server.URL, Speed: 1.5}}
	cfg.ApplyDefaults()

	engine, err := synth.NewEngineFromConfig(cfg, &mockPhonemizer{}, testLogger)
	require.NoError(t, err)
	require.NoError(t, engine.SpeakChunks(context.Background(), []string{"hi"}, "af_heart", t.TempDir()))

	req := <-received
	assert.InDelta(t, 1.5, req.Speed, 0.0001)

	cfg.Synthesis.Speed = 9
	_, err = synth.NewEngineFromConfig(cfg, &mockPhonemizer{}, testLogger)
	require.ErrorIs(t, err, synth.ErrSpeedRange)
}

func TestReadDocument_RejectsUnknownVoice(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		voice string
	}{
		{"unknown id", "zz_nobody"},
		{"empty", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			encoded, err := json.Marshal(phonemizer.Document{
				Voice:  tc.voice,
				Chunks: []phonemizer.Chunk{{Index: 0, Text: "hi", Phonemes: "hˈaɪ"}},
			})
			require.NoError(t, err)

			docPath := filepath.Join(t.TempDir(), "doc.json")
			require.NoError(t, os.WriteFile(docPath, encoded, 0o600))

			_, err = synth.ReadDocument(docPath)
			require.ErrorIs(t, err, language.ErrUnknownVoice)
		})
	}
}
