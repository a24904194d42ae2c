package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/Fuabioo/zipread/internal/archive"
	"github.com/spf13/cobra"
)

var infoFlagIndex int

var infoCmd = &cobra.Command{
	Use:   "info <archive> [<entry>]",
	Short: "Show archive or entry details",
	Long: `Without an entry, shows a summary of the archive: entry count, total
sizes, comment and the result of the resource limit scan.

With an entry name (or --index), shows that entry's metadata.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runInfo,
}

func init() {
	addIndexFlag(infoCmd, &infoFlagIndex)
}

func runInfo(cmd *cobra.Command, args []string) error {
	env, err := setup()
	if err != nil {
		return err
	}

	a, err := env.openArchive(args[0])
	if err != nil {
		return err
	}
	defer a.Close()

	if len(args) == 2 || infoFlagIndex >= 0 {
		e, err := selectEntry(a, args[1:], infoFlagIndex)
		if err != nil {
			return err
		}
		return printEntryInfo(e)
	}

	return printArchiveInfo(args[0], a)
}

func printArchiveInfo(path string, a *archive.Archive) error {
	check := a.CheckLimits()

	var compressed uint64
	for _, e := range a.Entries() {
		compressed += e.CompressedSize
	}

	if flagJSON {
		return outputJSON(map[string]interface{}{
			"archive":           path,
			"entries":           a.Len(),
			"comment":           a.Comment(),
			"compressed_size":   compressed,
			"uncompressed_size": check.TotalUncompressedSize,
			"max_ratio":         check.MaxCompressionRatio,
			"within_limits":     check.IsSafe,
			"limit_reason":      check.Reason,
		})
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Archive:\t%s\n", path)
	fmt.Fprintf(w, "Entries:\t%d\n", a.Len())
	fmt.Fprintf(w, "Compressed:\t%s\n", formatBytes(compressed))
	fmt.Fprintf(w, "Uncompressed:\t%s\n", formatBytes(check.TotalUncompressedSize))
	fmt.Fprintf(w, "Max ratio:\t%.1f\n", check.MaxCompressionRatio)
	if check.IsSafe {
		fmt.Fprintf(w, "Limits:\tok\n")
	} else {
		fmt.Fprintf(w, "Limits:\texceeded (%s)\n", check.Reason)
	}
	if a.Comment() != "" {
		fmt.Fprintf(w, "Comment:\t%s\n", archive.DisplayName(a.Comment()))
	}
	return w.Flush()
}

func printEntryInfo(e *archive.Entry) error {
	if flagJSON {
		return outputJSON(e.Fields())
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Name:\t%s\n", archive.DisplayName(e.Name))
	fmt.Fprintf(w, "Index:\t%d\n", e.Index)
	fmt.Fprintf(w, "Method:\t%s\n", e.MethodName())
	fmt.Fprintf(w, "Size:\t%s\n", formatBytes(e.UncompressedSize))
	fmt.Fprintf(w, "Compressed:\t%s (ratio %.1f)\n", formatBytes(e.CompressedSize), e.CompressionRatio())
	fmt.Fprintf(w, "CRC-32:\t%08x\n", e.CRC32)
	fmt.Fprintf(w, "Modified:\t%s\n", formatModified(e))
	fmt.Fprintf(w, "Encrypted:\t%t\n", e.Encrypted)
	if e.Comment != "" {
		fmt.Fprintf(w, "Comment:\t%s\n", archive.DisplayName(e.Comment))
	}
	return w.Flush()
}
