package cli

import (
	"fmt"
	"os"

	"github.com/Fuabioo/zipread/internal/archive"
	"github.com/Fuabioo/zipread/internal/logger"
	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

var extractFlagProgress bool

var extractCmd = &cobra.Command{
	Use:   "extract <archive> <dest>",
	Short: "Extract all entries into a directory",
	Long: `Extracts every entry of the archive into dest, creating it if needed.

Before anything is written the archive is checked against the configured
resource limits and every entry path is checked to stay inside dest.
Modification times are restored from the archive when they can be decoded.`,
	Args: cobra.ExactArgs(2),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().BoolVar(&extractFlagProgress, "progress", false, "Show a progress bar even when stderr is not a terminal")
}

func runExtract(cmd *cobra.Command, args []string) error {
	env, err := setup()
	if err != nil {
		return err
	}

	a, err := env.openArchive(args[0])
	if err != nil {
		return err
	}
	defer a.Close()

	var progress *mpb.Progress
	var bar *mpb.Bar
	var onEntry archive.ProgressFunc
	if a.Len() > 0 && !flagJSON && !flagQuiet && (extractFlagProgress || isTerminal(os.Stderr)) {
		progress, bar = newProgressBar(a.Len())
		onEntry = func(done, total int, e *archive.Entry) {
			bar.SetCurrent(int64(done))
		}
	}

	result, err := archive.Extract(a, args[1], onEntry)
	if progress != nil {
		if err != nil {
			bar.Abort(false)
		}
		progress.Wait()
	}
	if err != nil {
		env.log.Debug("extract failed", append([]any{"archive", args[0]}, logger.ErrorFields(err)...)...)
		return err
	}

	for _, name := range result.UndatedEntries {
		env.log.Warn("entry timestamp could not be decoded", "entry", name)
	}
	env.log.Info("extracted archive", "archive", args[0], "dest", args[1], "files", result.FileCount, "dirs", result.DirCount)

	if flagJSON {
		return outputJSON(map[string]interface{}{
			"archive":         args[0],
			"dest":            args[1],
			"files":           result.FileCount,
			"dirs":            result.DirCount,
			"total_bytes":     result.TotalSize,
			"undated_entries": result.UndatedEntries,
		})
	}

	if !flagQuiet {
		fmt.Printf("Extracted %d files, %d directories (%s) to %s\n",
			result.FileCount, result.DirCount, formatBytes(result.TotalSize), args[1])
	}
	return nil
}

// newProgressBar renders an entry counter on stderr.
func newProgressBar(total int) (*mpb.Progress, *mpb.Bar) {
	progress := mpb.New(
		mpb.WithOutput(os.Stderr),
		mpb.WithWidth(60),
	)

	bar := progress.AddBar(int64(total),
		mpb.PrependDecorators(
			decor.Name("Extracting", decor.WC{C: decor.DindentRight | decor.DextraSpace}),
			decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.Percentage(decor.WC{W: 5}),
		),
	)

	return progress, bar
}
