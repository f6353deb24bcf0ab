package constants

import "os"

// Environment variables that override config values.
const (
	EnvDatasetPath    = "MELODEX_DATASET_PATH"
	EnvOutputDir      = "MELODEX_OUTPUT_DIR"
	EnvCorpusPath     = "MELODEX_CORPUS_PATH"
	EnvMappingPath    = "MELODEX_MAPPING_PATH"
	EnvManifestPath   = "MELODEX_MANIFEST_PATH"
	EnvLedgerPath     = "MELODEX_LEDGER_PATH"
	EnvSequenceLength = "MELODEX_SEQUENCE_LENGTH"
	EnvWorkers        = "MELODEX_WORKERS"
)

const (
	DefaultDatasetPath  = "deutschl/erk"
	DefaultOutputDir    = "dataset"
	DefaultCorpusPath   = "file_dataset.txt"
	DefaultMappingPath  = "mapping.json"
	DefaultManifestPath = "manifest.json"
	DefaultLedgerPath   = "ledger.db"

	DefaultSequenceLength = 64

	// a sixteenth note
	DefaultTimeStep = 0.25
)

const (
	RestSymbol      = "r"
	HoldSymbol      = "_"
	DelimiterSymbol = "/"
)

// DefaultAcceptableDurations are in quarter-note units.
var DefaultAcceptableDurations = []float64{0.25, 0.5, 0.75, 1.0, 1.5, 2, 3, 4}

var DefaultExtensions = []string{".krn"}

// EncodedSongExt is the extension of the per-score intermediate files.
const EncodedSongExt = ".txt"

func GetEnv(name string, fallback string) string {
	v := os.Getenv(name)
	if v != "" {
		return v
	}
	return fallback
}
