package config

const (
	defaultStagingDir = "~/.local/share/scribe/staging"
	defaultLibraryDir = "~/.local/share/scribe/library"
	defaultLogDir     = "~/.local/share/scribe/logs"

	defaultVideoListPath = "videos_list.json"

	defaultAudioFormat         = "m4a"
	defaultFetchTimeoutSeconds = 600

	defaultProvider                 = "assemblyai"
	defaultAssemblyAIBaseURL        = "https://api.assemblyai.com"
	defaultWhisperBaseURL           = "https://api.openai.com/v1"
	defaultWhisperModel             = "whisper-1"
	defaultPollIntervalSeconds      = 3
	defaultTranscribeTimeoutSeconds = 1800
	defaultMaxRetries               = 1

	defaultNotifyRequestTimeout = 10

	defaultLogLevel  = "info"
	defaultLogFormat = "console"
)

// Default returns the baseline configuration before any file overrides.
func Default() Config {
	return Config{
		Paths: Paths{
			StagingDir: defaultStagingDir,
			LibraryDir: defaultLibraryDir,
			LogDir:     defaultLogDir,
		},
		VideoList: VideoList{
			Path: defaultVideoListPath,
		},
		Fetch: Fetch{
			AudioFormat:    defaultAudioFormat,
			KeepAudio:      false,
			TimeoutSeconds: defaultFetchTimeoutSeconds,
		},
		Transcription: Transcription{
			Provider:            defaultProvider,
			Language:            "",
			SpeakerLabels:       true,
			PollIntervalSeconds: defaultPollIntervalSeconds,
			TimeoutSeconds:      defaultTranscribeTimeoutSeconds,
			MaxRetries:          defaultMaxRetries,
		},
		Workflow: Workflow{
			MaxParallel: 1,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
			BatchSummary:   true,
			Errors:         true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
