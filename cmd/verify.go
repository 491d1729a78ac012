package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opendataregistry/regsite/internal/log"
	"github.com/opendataregistry/regsite/internal/verify"
)

var (
	verifyAgainst string
	verifyOut     string
	verifyFiles   []string
	verifyContext int
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Compare a built site with a known-good copy",
	Long: `Compare files of a built site byte-for-byte with a reference directory and
print a line diff for each mismatch. Exits non-zero when anything differs.

By default the overview, detail and change log pages plus every feed are
compared. Use --file to choose files (repeatable, relative paths).

Examples:
  regsite build --data-dir tests/data-sources --out /tmp/site
  regsite verify --out /tmp/site --against tests/test-data-compare`,
	Args: cobra.NoArgs,
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().StringVar(&verifyAgainst, "against", "", "reference directory (required)")
	verifyCmd.Flags().StringVarP(&verifyOut, "out", "o", "", "built site directory (default: output_dir from config)")
	verifyCmd.Flags().StringArrayVarP(&verifyFiles, "file", "f", nil, "file to compare (can be repeated)")
	verifyCmd.Flags().IntVar(&verifyContext, "context", 3, "unchanged lines shown around each change")
	_ = verifyCmd.MarkFlagRequired("against")
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, _ []string) error {
	outDir := cfg.OutputDir
	if verifyOut != "" {
		outDir = verifyOut
	}
	files := verifyFiles
	if len(files) == 0 {
		files = verify.DefaultFiles
	}

	diffs, err := verify.Compare(os.DirFS(outDir), os.DirFS(verifyAgainst), files)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(diffs) == 0 {
		_, _ = fmt.Fprintf(out, "%s %d files match %s\n", successStyle.Render("✓"), len(files), verifyAgainst)
		return nil
	}

	for _, d := range diffs {
		_, _ = fmt.Fprintf(out, "%s %s", errorStyle.Render("✗ "+d.Status.String()), d.Path)
		if d.Status == verify.StatusChanged {
			_, _ = fmt.Fprint(out, subtleStyle.Render(fmt.Sprintf(" (+%d -%d)", d.Added(), d.Removed())))
		}
		_, _ = fmt.Fprintln(out)
		for _, line := range strings.SplitAfter(d.Unified(verifyContext), "\n") {
			switch {
			case line == "":
			case strings.HasPrefix(line, "+"):
				_, _ = fmt.Fprint(out, addedStyle.Render(strings.TrimSuffix(line, "\n"))+"\n")
			case strings.HasPrefix(line, "-"):
				_, _ = fmt.Fprint(out, removedStyle.Render(strings.TrimSuffix(line, "\n"))+"\n")
			default:
				_, _ = fmt.Fprint(out, subtleStyle.Render(strings.TrimSuffix(line, "\n"))+"\n")
			}
		}
	}

	log.Warn(log.CatVerify, "Output differs from reference", "files", len(diffs), "against", verifyAgainst)
	return fmt.Errorf("%d of %d files differ from %s", len(diffs), len(files), verifyAgainst)
}
