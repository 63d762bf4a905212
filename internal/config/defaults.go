package config

const (
	defaultConfigPath         = "~/.config/dcimsort/config.toml"
	defaultOutputDir          = "sorted"
	defaultLogDir             = "~/.local/share/dcimsort/logs"
	defaultStateDir           = "~/.local/share/dcimsort"
	defaultLogRetentionDays   = 30
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultOperation          = OperationCopy
	defaultDuplicatePolicy    = PolicyCompare
	defaultTieBreak           = TieBreakRename
	defaultHashAlgorithm      = "sha256"
	defaultWorkers            = 4
	defaultQueueDepth         = 64
	defaultShutdownTimeout    = 300
	defaultMaxDepth           = 10
	defaultHistoryKeepRuns    = 100
	defaultUnknownDeviceLabel = "unknown_device"
	defaultScreenshotSegment  = "screenshots"
)

// Operation names accepted by sorting.operation.
const (
	OperationCopy     = "copy"
	OperationMove     = "move"
	OperationSimulate = "simulate"
)

// Duplicate policy names accepted by sorting.duplicate_policy.
const (
	PolicyIgnore    = "ignore"
	PolicyOverwrite = "overwrite"
	PolicyCompare   = "compare"
)

// Tie-break names accepted by sorting.tie_break.
const (
	TieBreakRename      = "rename"
	TieBreakFavorTarget = "favor_target"
	TieBreakFavorSource = "favor_source"
)

// Segment kinds accepted in layout tables.
const (
	SegmentMakeModel  = "make_model"
	SegmentDate       = "date"
	SegmentScreenshot = "screenshot"
	SegmentFileType   = "file_type"
	SegmentStatic     = "static"
)

// Default returns a Config populated with repository defaults. The layout is
// left empty here and filled during normalization so decoded segment tables
// replace it instead of appending to it.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
			StateDir:  defaultStateDir,
		},
		Sorting: Sorting{
			Operation:       defaultOperation,
			DuplicatePolicy: defaultDuplicatePolicy,
			TieBreak:        defaultTieBreak,
			HashAlgorithm:   defaultHashAlgorithm,
		},
		Pipeline: Pipeline{
			Workers:         defaultWorkers,
			QueueDepth:      defaultQueueDepth,
			ShutdownTimeout: defaultShutdownTimeout,
		},
		Scanner: Scanner{
			MaxDepth: defaultMaxDepth,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
			Journal:       true,
		},
		History: History{
			Enabled:  true,
			KeepRuns: defaultHistoryKeepRuns,
		},
	}
}

// DefaultLayout returns the stock device/screenshot/date layout with the
// file-type fallback.
func DefaultLayout() Layout {
	return Layout{
		Supported: []Segment{
			{
				Kind:          SegmentMakeModel,
				Parts:         []string{"make", "model"},
				Separator:     "_",
				Default:       "unknown",
				Fallback:      defaultUnknownDeviceLabel,
				Lowercase:     true,
				ReplaceSpaces: true,
			},
			{
				Kind: SegmentScreenshot,
				Name: defaultScreenshotSegment,
			},
			{
				Kind:      SegmentDate,
				Parts:     []string{"year", "month"},
				Separator: "-",
				Default:   "unknown",
			},
		},
		Fallback: []Segment{
			{Kind: SegmentFileType},
		},
	}
}
