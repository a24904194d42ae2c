package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/Fuabioo/zipread/internal/archive"
	"github.com/spf13/cobra"
)

var (
	lsFlagLong bool
	lsFlagGlob string
)

var lsCmd = &cobra.Command{
	Use:   "ls <archive>",
	Short: "List entries in an archive",
	Long: `Lists the entries recorded in the archive's central directory.

Use --glob to filter entries by name or base name (for example "*.go").
Entry content is not read, so listing works even for entries that use an
unsupported compression method or are encrypted.`,
	Args: cobra.ExactArgs(1),
	RunE: runLs,
}

func init() {
	lsCmd.Flags().BoolVarP(&lsFlagLong, "long", "l", false, "Long format with method, size and timestamp")
	lsCmd.Flags().StringVarP(&lsFlagGlob, "glob", "g", "", "Only list entries matching this pattern")
}

func runLs(cmd *cobra.Command, args []string) error {
	env, err := setup()
	if err != nil {
		return err
	}

	a, err := env.openArchive(args[0])
	if err != nil {
		return err
	}
	defer a.Close()

	entries := a.Entries()
	if lsFlagGlob != "" {
		entries, err = a.Glob(lsFlagGlob)
		if err != nil {
			return err
		}
	}

	// Output
	if flagJSON {
		out := make([]map[string]interface{}, 0, len(entries))
		for i := range entries {
			out = append(out, entries[i].Fields())
		}
		return outputJSON(map[string]interface{}{
			"archive": args[0],
			"entries": out,
		})
	}

	// Human-readable output
	if len(entries) == 0 {
		if !flagQuiet {
			fmt.Println("(empty)")
		}
		return nil
	}

	if lsFlagLong {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		for i := range entries {
			e := &entries[i]
			typeStr := "FILE"
			if e.IsDir {
				typeStr = "DIR"
			}
			lock := ""
			if e.Encrypted {
				lock = " (encrypted)"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s%s\n",
				typeStr, e.MethodName(), formatBytes(e.UncompressedSize), formatModified(e),
				archive.DisplayName(e.Name), lock)
		}
		w.Flush()
	} else {
		for i := range entries {
			fmt.Println(archive.DisplayName(entries[i].Name))
		}
	}

	return nil
}
