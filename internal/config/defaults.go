package config

const (
	defaultConfigPath       = "~/.config/librieval/config.toml"
	defaultInputDir         = "data/LibriSpeech/dev-clean"
	defaultOutputDir        = "output"
	defaultLedgerName       = "metric.csv"
	defaultLogDir           = "~/.local/share/librieval/logs"
	defaultResultsDB        = "~/.local/share/librieval/results.db"
	defaultBackend          = BackendWhisperX
	defaultLanguage         = "en"
	defaultModel            = "base"
	defaultVADMethod        = "silero"
	defaultMaxRetries       = 2
	defaultTimeoutSeconds   = 600
	defaultEmptyReference   = EmptyReferenceOne
	defaultWorkers          = 1
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultTranscriptFormat = "txt"
	maxWorkers              = 64
	maxTranscriptionRetries = 10
)

// Transcription backends.
const (
	BackendWhisperX   = "whisperx"
	BackendAssemblyAI = "assemblyai"
	BackendStatic     = "static"
)

// Empty-reference WER policies.
const (
	EmptyReferenceOne        = "one"
	EmptyReferenceZero       = "zero"
	EmptyReferenceInsertions = "insertions"
)

// DefaultExtensions lists the audio extensions processed by the runner.
func DefaultExtensions() []string {
	return []string{".wav", ".flac", ".mp3"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			InputDir:  defaultInputDir,
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
			ResultsDB: defaultResultsDB,
		},
		Transcription: Transcription{
			Backend:        defaultBackend,
			Language:       defaultLanguage,
			Model:          defaultModel,
			VADMethod:      defaultVADMethod,
			Formats:        []string{defaultTranscriptFormat},
			MaxRetries:     defaultMaxRetries,
			TimeoutSeconds: defaultTimeoutSeconds,
		},
		Scoring: Scoring{
			EmptyReference: defaultEmptyReference,
		},
		Runner: Runner{
			Workers:       defaultWorkers,
			Extensions:    DefaultExtensions(),
			RecordHistory: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
