// Convert command for the colporter CLI: orchestrates the full archive →
// JSON + media conversion.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/colporter/internal/archive"
	"github.com/mesh-intelligence/colporter/internal/collection"
	"github.com/mesh-intelligence/colporter/internal/paths"
	"github.com/mesh-intelligence/colporter/pkg/types"
)

// flagOutput is the --output override for the JSON document path.
var flagOutput string

var convertCmd = &cobra.Command{
	Use:   "convert [archive]",
	Short: "Convert a collection archive to JSON and extracted media",
	Long: `Convert reads an Anki .colpkg collection archive and writes a JSON
document describing its decks and cards, plus a media directory holding
the archive's media files under their original names.

With no argument, the first .colpkg file in the working directory is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		archivePath, err := resolveArchive(args)
		if err != nil {
			fmt.Fprintln(os.Stderr, "convert:", err)
			os.Exit(exitUserError)
		}

		outputPath, err := paths.ResolveOutputPath(flagOutput, cfg.OutputName)
		if err != nil {
			fmt.Fprintln(os.Stderr, "convert:", err)
			os.Exit(exitSysError)
		}

		progress := &consoleProgress{w: cmd.OutOrStdout()}
		summary, err := runConvert(archivePath, outputPath, cfg, progress)
		if err != nil {
			fmt.Fprintln(os.Stderr, "convert:", err)
			os.Exit(exitSysError)
		}

		fmt.Fprintln(cmd.OutOrStdout(), renderSummary(summary))
		return nil
	},
}

func init() {
	convertCmd.Flags().StringVar(&flagOutput, "output", "", "path of the JSON document (default: output_name in the working directory)")
}

// resolveArchive picks the input archive: the positional argument when
// given, otherwise the first .colpkg in the working directory.
func resolveArchive(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return archive.Find(cwd)
}

// runConvert performs one conversion: extract the archive into a scoped
// temporary directory, parse the collection, write the JSON document, and
// extract media next to it. The temporary directory is removed on every
// exit path. Fatal errors surface before any output file is touched.
func runConvert(archivePath, outputPath string, cfg types.Config, progress types.Progress) (types.Summary, error) {
	progress.Printf("Converting: %s", archivePath)

	extractDir, err := os.MkdirTemp("", "colporter-*")
	if err != nil {
		return types.Summary{}, fmt.Errorf("creating extraction directory: %w", err)
	}
	defer os.RemoveAll(extractDir)

	progress.Printf("Extracting collection archive...")
	dbPath, err := archive.Extract(archivePath, extractDir)
	if err != nil {
		return types.Summary{}, err
	}

	progress.Printf("Parsing collection database...")
	col, err := collection.Parse(dbPath, cfg)
	if err != nil {
		return types.Summary{}, err
	}

	progress.Printf("Writing: %s", outputPath)
	if err := writeDocument(outputPath, col); err != nil {
		return types.Summary{}, err
	}

	progress.Printf("Extracting media files...")
	mediaCount, err := archive.ExtractMedia(archivePath, filepath.Dir(outputPath), cfg.MediaDir, progress)
	if err != nil {
		return types.Summary{}, err
	}

	return types.Summary{
		Cards:         len(col.Cards),
		TopLevelDecks: len(col.Decks),
		MediaFiles:    mediaCount,
	}, nil
}

// writeDocument serializes the collection as pretty-printed UTF-8 JSON
// with non-ASCII characters left unescaped. The document is fully encoded
// in memory first so a failed conversion never leaves a partial file.
func writeDocument(path string, col *types.Collection) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(col); err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing document: %w", err)
	}
	return nil
}

// renderSummary formats the conversion summary as a table.
func renderSummary(s types.Summary) string {
	return renderTable(
		[]string{"Result", "Count"},
		[][]string{
			{"Cards", strconv.Itoa(s.Cards)},
			{"Top-level decks", strconv.Itoa(s.TopLevelDecks)},
			{"Media files", strconv.Itoa(s.MediaFiles)},
		},
		[]columnAlignment{alignLeft, alignRight},
	)
}

// consoleProgress prints progress lines to the command's output stream.
type consoleProgress struct {
	w io.Writer
}

func (p *consoleProgress) Printf(format string, args ...any) {
	fmt.Fprintf(p.w, format+"\n", args...)
}
