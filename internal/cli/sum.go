package cli

import (
	"fmt"

	"github.com/Fuabioo/zipread/internal/archive"
	"github.com/Fuabioo/zipread/internal/logger"
	"github.com/spf13/cobra"
)

var sumCmd = &cobra.Command{
	Use:   "sum <archive> [<entry>...]",
	Short: "Print BLAKE3 digests of entry contents",
	Long: `Decompresses entries and prints the BLAKE3-256 digest of their content,
in the same layout as b3sum. Without entry names every file entry is hashed.

Each entry's stored CRC-32 is verified while hashing, so a corrupted entry
fails with an invalid checksum error.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSum,
}

type sumResult struct {
	Name   string `json:"name"`
	Digest string `json:"digest"`
}

func runSum(cmd *cobra.Command, args []string) error {
	env, err := setup()
	if err != nil {
		return err
	}

	a, err := env.openArchive(args[0])
	if err != nil {
		return err
	}
	defer a.Close()

	var targets []*archive.Entry
	if len(args) > 1 {
		for _, name := range args[1:] {
			e, err := a.ByName(name)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			targets = append(targets, e)
		}
	} else {
		entries := a.Entries()
		for i := range entries {
			if !entries[i].IsDir {
				targets = append(targets, &entries[i])
			}
		}
	}

	results := make([]sumResult, 0, len(targets))
	for _, e := range targets {
		d, err := a.Sum(e)
		if err != nil {
			env.log.Debug("hash failed", append([]any{"entry", e.Name}, logger.ErrorFields(err)...)...)
			return fmt.Errorf("%s: %w", e.Name, err)
		}
		results = append(results, sumResult{Name: e.Name, Digest: d.String()})
	}

	if flagJSON {
		return outputJSON(map[string]interface{}{
			"archive": args[0],
			"digests": results,
		})
	}

	for _, r := range results {
		fmt.Printf("%s  %s\n", r.Digest, archive.DisplayName(r.Name))
	}
	return nil
}
