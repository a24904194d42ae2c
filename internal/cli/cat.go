package cli

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/spf13/cobra"
)

var (
	catFlagIndex  int
	catFlagBase64 bool
)

var catCmd = &cobra.Command{
	Use:   "cat <archive> [<entry>]",
	Short: "Write an entry's content to stdout",
	Long: `Decompresses an entry and writes it to stdout.

The entry is selected by name or with --index. Binary content written to a
terminal is base64 encoded with a warning to stderr; use --base64 to always
encode. The CRC-32 stored in the archive is verified.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runCat,
}

func init() {
	addIndexFlag(catCmd, &catFlagIndex)
	catCmd.Flags().BoolVar(&catFlagBase64, "base64", false, "Always base64 encode the output")
}

func runCat(cmd *cobra.Command, args []string) error {
	env, err := setup()
	if err != nil {
		return err
	}

	a, err := env.openArchive(args[0])
	if err != nil {
		return err
	}
	defer a.Close()

	e, err := selectEntry(a, args[1:], catFlagIndex)
	if err != nil {
		return err
	}
	if e.IsDir {
		return fmt.Errorf("%q is a directory", e.Name)
	}

	if !catFlagBase64 && !isTerminal(os.Stdout) {
		rc, err := a.OpenBounded(e)
		if err != nil {
			return err
		}
		defer rc.Close()
		if _, err := io.Copy(os.Stdout, rc); err != nil {
			return fmt.Errorf("failed to read %q: %w", e.Name, err)
		}
		return nil
	}

	data, err := a.ReadAll(e)
	if err != nil {
		return err
	}

	if catFlagBase64 || !utf8.Valid(data) {
		if !catFlagBase64 && !flagQuiet {
			fmt.Fprintln(os.Stderr, "Warning: binary file detected, outputting base64 encoding")
		}
		fmt.Println(base64.StdEncoding.EncodeToString(data))
		return nil
	}

	_, err = os.Stdout.Write(data)
	return err
}
