package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Fuabioo/zipread/internal/archive"
	"github.com/Fuabioo/zipread/internal/config"
	"github.com/Fuabioo/zipread/internal/errors"
	"github.com/Fuabioo/zipread/internal/logger"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// cmdEnv bundles what every command needs after startup.
type cmdEnv struct {
	cfg *config.Config
	log logger.Logger
}

// setup loads the configuration and builds the logger, applying the global
// --log-level and --log-format flags.
func setup() (*cmdEnv, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logCfg := cfg.LoggerConfig()
	if flagLogLevel != "" {
		if !logger.ValidLevel(flagLogLevel) {
			return nil, fmt.Errorf("invalid --log-level %q: must be debug, info, warn, or error", flagLogLevel)
		}
		logCfg.Level = flagLogLevel
	}
	if flagLogFormat != "" {
		if !logger.ValidFormat(flagLogFormat) {
			return nil, fmt.Errorf("invalid --log-format %q: must be text or json", flagLogFormat)
		}
		logCfg.Format = flagLogFormat
	}

	return &cmdEnv{
		cfg: cfg,
		log: logger.New(logCfg),
	}, nil
}

// openArchive opens path with the configured limits, logging any failure with
// its classification.
func (e *cmdEnv) openArchive(path string) (*archive.Archive, error) {
	a, err := archive.Open(path, e.cfg.ArchiveOptions())
	if err != nil {
		e.log.Debug("open archive failed", append([]any{"archive", path}, logger.ErrorFields(err)...)...)
		return nil, err
	}
	e.log.Debug("opened archive", "archive", path, "entries", a.Len())
	return a, nil
}

// selectEntry resolves an entry either by name argument or by --index.
// index < 0 means "not given".
func selectEntry(a *archive.Archive, args []string, index int) (*archive.Entry, error) {
	if index >= 0 {
		if len(args) > 0 {
			return nil, fmt.Errorf("specify either an entry name or --index, not both")
		}
		return a.ByIndex(index)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("entry name or --index is required")
	}
	return a.ByName(args[0])
}

// outputJSON marshals and prints JSON to stdout.
func outputJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// isTerminal checks if the given file descriptor is a TTY.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// getExitCode maps error codes to CLI exit codes.
func getExitCode(err error) int {
	if err == nil {
		return 0
	}

	code := errors.Code(err)
	switch code {
	case errors.CodeIO:
		return 1 // I/O error
	case errors.CodeZipInvalid:
		return 2 // Not a zip archive
	case errors.CodeZipUnsupported:
		return 3 // Unsupported feature
	case errors.CodeFileNotFound:
		return 4 // Entry not found
	case errors.CodePasswordRequired:
		return 6 // Needs credentials
	case "":
		// Not a zipread error - could be usage error
		return 1 // General error
	default:
		return 1 // General error
	}
}

// loadConfig loads the configuration from the config directory.
func loadConfig() (*config.Config, error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}

	cfg, err := config.Load(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// printError prints an error to stderr with appropriate formatting.
func printError(err error) {
	if errors.IsPasswordRequired(err) {
		fmt.Fprintf(os.Stderr, "Error: %v\nHint: the entry is encrypted; zipread does not decrypt entries\n", err)
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}

// addIndexFlag registers --index on cmd, defaulting to -1 (unset).
func addIndexFlag(cmd *cobra.Command, target *int) {
	cmd.Flags().IntVarP(target, "index", "i", -1, "Select the entry by position instead of name")
}

// formatBytes formats a byte count as a human-readable string.
func formatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// formatModified renders an entry timestamp, or "-" when it cannot be decoded.
func formatModified(e *archive.Entry) string {
	modified, err := e.Modified()
	if err != nil {
		return "-"
	}
	return modified.String()
}
