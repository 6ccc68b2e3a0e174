// Package integration provides CLI integration tests for colporter.
package integration

import (
	"archive/zip"
	"bytes"
	"database/sql"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

var (
	// colporterBin is the path to the built colporter binary.
	colporterBin string
	// buildErr captures any build error.
	buildErr error
)

// BuildError wraps a build error with output.
type BuildError struct {
	Err    error
	Output string
}

func (e *BuildError) Error() string {
	return e.Err.Error() + ": " + e.Output
}

// FindProjectRoot finds the project root by walking up and looking for go.mod.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		goModPath := filepath.Join(dir, "go.mod")
		if _, err := os.Stat(goModPath); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}

// SetColporterBin sets the path to the colporter binary (called from TestMain).
func SetColporterBin(path string) {
	colporterBin = path
}

// SetBuildErr sets the build error (called from TestMain).
func SetBuildErr(err error) {
	buildErr = err
}

// TestEnv provides an isolated test environment: a working directory the
// CLI runs in and a private config directory.
type TestEnv struct {
	t         *testing.T
	WorkDir   string
	ConfigDir string
}

// NewTestEnv creates a new isolated test environment.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	if buildErr != nil {
		t.Fatalf("failed to build colporter: %v", buildErr)
	}
	if colporterBin == "" {
		t.Fatal("colporter binary not built (colporterBin is empty)")
	}

	tempDir := t.TempDir()
	workDir := filepath.Join(tempDir, "work")
	configDir := filepath.Join(tempDir, "config")
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		t.Fatalf("failed to create work dir: %v", err)
	}
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}

	return &TestEnv{t: t, WorkDir: workDir, ConfigDir: configDir}
}

// CmdResult holds the result of a colporter command execution.
type CmdResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// RunColporter executes the colporter CLI with the given arguments inside
// the environment's working directory.
func (e *TestEnv) RunColporter(args ...string) CmdResult {
	e.t.Helper()

	allArgs := append([]string{"--config-dir", e.ConfigDir}, args...)
	cmd := exec.Command(colporterBin, allArgs...)
	cmd.Dir = e.WorkDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			e.t.Fatalf("failed to run colporter: %v", err)
		}
	}

	return CmdResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
	}
}

// MustRunColporter executes the colporter CLI and fails the test if it
// returns non-zero.
func (e *TestEnv) MustRunColporter(args ...string) CmdResult {
	e.t.Helper()
	result := e.RunColporter(args...)
	if result.ExitCode != 0 {
		e.t.Fatalf("colporter %v failed with exit code %d:\nstdout: %s\nstderr: %s",
			args, result.ExitCode, result.Stdout, result.Stderr)
	}
	return result
}

// ArchiveFixture describes a synthetic .colpkg archive.
type ArchiveFixture struct {
	// DecksJSON and TagsJSON fill the configuration row. Empty strings
	// for both mean the row is omitted entirely.
	DecksJSON string
	TagsJSON  string

	// Notes maps note id to its field blob (fields joined by 0x1f).
	Notes map[int64]string

	// Cards are (id, nid, did, ord) rows.
	Cards [][4]int64

	// MediaMap is the raw content of the media mapping entry; omitted
	// when empty. MediaFiles maps numeric storage names to payloads.
	MediaMap   string
	MediaFiles map[string][]byte

	// OmitDatabase leaves the collection database out of the archive.
	OmitDatabase bool
}

// WriteArchive builds a .colpkg archive at path from the fixture.
func (e *TestEnv) WriteArchive(path string, fx ArchiveFixture) {
	e.t.Helper()

	entries := map[string][]byte{}

	if !fx.OmitDatabase {
		entries["collection.anki21"] = e.buildDatabase(fx)
	}
	if fx.MediaMap != "" {
		entries["media"] = []byte(fx.MediaMap)
	}
	for name, data := range fx.MediaFiles {
		entries[name] = data
	}

	f, err := os.Create(path)
	if err != nil {
		e.t.Fatalf("failed to create archive: %v", err)
	}
	defer f.Close()

	w := zip.NewWriter(f)
	for name, data := range entries {
		entry, err := w.Create(name)
		if err != nil {
			e.t.Fatalf("failed to add archive entry %s: %v", name, err)
		}
		if _, err := entry.Write(data); err != nil {
			e.t.Fatalf("failed to write archive entry %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		e.t.Fatalf("failed to finalize archive: %v", err)
	}
}

// buildDatabase writes a collection database to a scratch file and
// returns its bytes.
func (e *TestEnv) buildDatabase(fx ArchiveFixture) []byte {
	e.t.Helper()

	dbPath := filepath.Join(e.t.TempDir(), "collection.anki21")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		e.t.Fatalf("failed to open fixture database: %v", err)
	}
	defer db.Close()

	schema := `
		CREATE TABLE col (decks TEXT, tags TEXT);
		CREATE TABLE notes (id INTEGER PRIMARY KEY, mid INTEGER, flds TEXT, tags TEXT);
		CREATE TABLE cards (id INTEGER PRIMARY KEY, nid INTEGER, did INTEGER, ord INTEGER);
	`
	if _, err := db.Exec(schema); err != nil {
		e.t.Fatalf("failed to create fixture schema: %v", err)
	}

	if fx.DecksJSON != "" || fx.TagsJSON != "" {
		if _, err := db.Exec("INSERT INTO col (decks, tags) VALUES (?, ?)", fx.DecksJSON, fx.TagsJSON); err != nil {
			e.t.Fatalf("failed to insert config row: %v", err)
		}
	}
	for id, flds := range fx.Notes {
		if _, err := db.Exec("INSERT INTO notes (id, mid, flds, tags) VALUES (?, 1, ?, '')", id, flds); err != nil {
			e.t.Fatalf("failed to insert note %d: %v", id, err)
		}
	}
	for _, c := range fx.Cards {
		if _, err := db.Exec("INSERT INTO cards (id, nid, did, ord) VALUES (?, ?, ?, ?)", c[0], c[1], c[2], c[3]); err != nil {
			e.t.Fatalf("failed to insert card %d: %v", c[0], err)
		}
	}
	if err := db.Close(); err != nil {
		e.t.Fatalf("failed to close fixture database: %v", err)
	}

	data, err := os.ReadFile(dbPath)
	if err != nil {
		e.t.Fatalf("failed to read fixture database: %v", err)
	}
	return data
}
