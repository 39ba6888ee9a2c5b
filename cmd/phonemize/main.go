// Command phonemize converts text to phoneme strings from the command line.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/book-expert/logger"
	"github.com/book-expert/phonemizer/internal/config"
	"github.com/book-expert/phonemizer/internal/g2p"
	"github.com/book-expert/phonemizer/internal/language"
	"github.com/book-expert/phonemizer/internal/phonemizer"
	"github.com/book-expert/phonemizer/internal/synth"
	"github.com/book-expert/phonemizer/internal/text"
	"github.com/spf13/cobra"
)

const logFileName = "phonemize.log"

var (
	errVoiceAndLang = errors.New("--voice and --lang cannot be used together")
	errNoText       = errors.New("no text given on the command line or stdin")
)

// backendFactory defers loading the g2p models until a command needs them.
type backendFactory func() g2p.Backend

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := newRootCmd(func() g2p.Backend { return g2p.NewGoruut() }).ExecuteContext(ctx)

	stop()

	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd(newBackend backendFactory) *cobra.Command {
	var logDir string

	rootCmd := &cobra.Command{
		Use:           "phonemize",
		Short:         "Convert text to phonemes for speech synthesis",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", os.TempDir(), "directory for the log file")

	rootCmd.AddCommand(textCmd(newBackend, &logDir))
	rootCmd.AddCommand(splitCmd())
	rootCmd.AddCommand(voicesCmd())
	rootCmd.AddCommand(speakCmd(newBackend, &logDir))

	return rootCmd
}

func textCmd(newBackend backendFactory, logDir *string) *cobra.Command {
	var (
		voice       string
		lang        string
		noNormalize bool
	)

	cmd := &cobra.Command{
		Use:   "text [text...]",
		Short: "Print the phoneme string for text",
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			code, err := resolveCode(voice, lang)
			if err != nil {
				return err
			}

			p, _, closeLog, err := buildPhonemizer(newBackend, *logDir)
			if err != nil {
				return err
			}
			defer closeLog()

			phonemes, err := p.Phonemize(cmd.Context(), input, code, !noNormalize)
			if err != nil {
				return fmt.Errorf("failed to phonemize: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), phonemes)

			return nil
		},
	}

	cmd.Flags().StringVar(&voice, "voice", "", "voice identifier, e.g. hf_alpha")
	cmd.Flags().StringVar(&lang, "lang", "", "language code: a, b, h, e, f or z (default a)")
	cmd.Flags().BoolVar(&noNormalize, "no-normalize", false, "skip text normalization")

	return cmd
}

func splitCmd() *cobra.Command {
	var maxChars int

	cmd := &cobra.Command{
		Use:   "split [text...]",
		Short: "Split text into synthesis-sized chunks, one per line",
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			for _, chunk := range text.NewSplitter(maxChars).Split(input) {
				fmt.Fprintln(cmd.OutOrStdout(), chunk)
			}

			return nil
		},
	}

	cmd.Flags().IntVar(&maxChars, "max-chars", text.DefaultMaxChunkChars, "maximum characters per chunk")

	return cmd
}

func voicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "voices",
		Short: "List the known voices",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, voice := range language.Voices() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", voice.ID, voice.Language().Name(), voice.Gender)
			}
		},
	}
}

func speakCmd(newBackend backendFactory, logDir *string) *cobra.Command {
	var (
		configPath   string
		documentPath string
		overrides    speakFlags
	)

	cmd := &cobra.Command{
		Use:   "speak [text...]",
		Short: "Phonemize text and synthesize it through the synthesis service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFile(configPath)
			if err != nil {
				return err
			}

			overrides.apply(cmd, cfg)

			err = cfg.ValidateSynthesis()
			if err != nil {
				return err
			}

			p, log, closeLog, err := buildPhonemizer(newBackend, *logDir)
			if err != nil {
				return err
			}
			defer closeLog()

			engine, err := synth.NewEngineFromConfig(cfg, p, log)
			if err != nil {
				return err
			}

			outputDir := cfg.Paths.OutputDir

			count, err := speak(cmd, engine, args, documentPath, cfg)
			if err != nil {
				return fmt.Errorf("failed to synthesize: %w", err)
			}

			absDir, absErr := filepath.Abs(outputDir)
			if absErr != nil {
				absDir = outputDir
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Generated %d audio files in: %s\n", count, absDir)

			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "TOML file with [phonemizer], [synthesis] and [paths] settings")
	cmd.Flags().StringVar(&documentPath, "document", "", "speak a stored phoneme document instead of text")
	overrides.register(cmd)

	return cmd
}

// speakFlags override the configuration file when set on the command line.
type speakFlags struct {
	voice       string
	serviceURL  string
	outputDir   string
	speed       float64
	workers     int
	maxChars    int
	noNormalize bool
}

func (f *speakFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.voice, "voice", "", "voice identifier (default phonemizer.default_voice)")
	cmd.Flags().StringVar(&f.serviceURL, "url", "", "synthesis service base URL (default synthesis.service_url)")
	cmd.Flags().StringVarP(&f.outputDir, "output", "o", "", "directory for chunk_NNNN.wav files (default paths.output_dir)")
	cmd.Flags().Float64Var(&f.speed, "speed", 0, "speaking rate in (0, 4] (default synthesis.speed)")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "concurrent synthesis requests (default synthesis.workers)")
	cmd.Flags().IntVar(&f.maxChars, "max-chars", 0, "maximum characters per chunk (default phonemizer.max_chunk_chars)")
	cmd.Flags().BoolVar(&f.noNormalize, "no-normalize", false, "skip text normalization")
}

func (f *speakFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()

	if flags.Changed("voice") {
		cfg.Phonemizer.DefaultVoice = f.voice
	}

	if flags.Changed("url") {
		cfg.Synthesis.ServiceURL = f.serviceURL
	}

	if flags.Changed("output") {
		cfg.Paths.OutputDir = f.outputDir
	}

	if flags.Changed("speed") {
		cfg.Synthesis.Speed = f.speed
	}

	if flags.Changed("workers") {
		cfg.Synthesis.Workers = f.workers
	}

	if flags.Changed("max-chars") {
		cfg.Phonemizer.MaxChunkChars = f.maxChars
	}

	if flags.Changed("no-normalize") {
		normalize := !f.noNormalize
		cfg.Phonemizer.Normalize = &normalize
	}
}

// speak synthesizes either a stored phoneme document or the input text and
// returns the number of chunks sent.
func speak(cmd *cobra.Command, engine *synth.Engine, args []string, documentPath string, cfg *config.Config) (int, error) {
	if documentPath != "" {
		doc, err := synth.ReadDocument(documentPath)
		if err != nil {
			return 0, err
		}

		return len(doc.Chunks), engine.SpeakDocument(cmd.Context(), doc, cfg.Paths.OutputDir)
	}

	input, err := readInput(cmd, args)
	if err != nil {
		return 0, err
	}

	chunks := text.NewSplitter(cfg.Phonemizer.MaxChunkChars).Split(input)

	return len(chunks), engine.SpeakChunks(cmd.Context(), chunks, cfg.Phonemizer.DefaultVoice, cfg.Paths.OutputDir)
}

func buildPhonemizer(
	newBackend backendFactory,
	logDir string,
) (*phonemizer.Phonemizer, *logger.Logger, func(), error) {
	log, err := logger.New(logDir, logFileName)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	closeLog := func() {
		closeErr := log.Close()
		if closeErr != nil {
			fmt.Fprintf(os.Stderr, "error closing logger: %v\n", closeErr)
		}
	}

	return phonemizer.New(g2p.NewAdapter(newBackend(), log)), log, closeLog, nil
}

func resolveCode(voice, lang string) (language.Code, error) {
	switch {
	case voice != "" && lang != "":
		return 0, errVoiceAndLang
	case voice != "":
		v, err := language.LookupVoice(voice)
		if err != nil {
			return 0, err
		}

		return v.Language(), nil
	case lang != "":
		return language.ParseCode(lang)
	default:
		return language.CodeAmericanEnglish, nil
	}
}

// readInput joins the arguments, or reads stdin when there are none.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}

	input := strings.TrimSpace(string(data))
	if input == "" {
		return "", errNoText
	}

	return input, nil
}
