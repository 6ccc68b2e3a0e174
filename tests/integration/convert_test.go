package integration

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	projectRoot, err := FindProjectRoot()
	if err != nil {
		SetBuildErr(&BuildError{Err: err, Output: "could not locate go.mod"})
		os.Exit(m.Run())
	}

	binDir, err := os.MkdirTemp("", "colporter-test-*")
	if err != nil {
		SetBuildErr(&BuildError{Err: err, Output: "could not create binary directory"})
		os.Exit(m.Run())
	}
	defer os.RemoveAll(binDir)

	binPath := filepath.Join(binDir, "colporter")
	cmd := exec.Command("go", "build", "-o", binPath, "./cmd/colporter")
	cmd.Dir = projectRoot
	if out, err := cmd.CombinedOutput(); err != nil {
		SetBuildErr(&BuildError{Err: err, Output: string(out)})
		os.Exit(m.Run())
	}
	SetColporterBin(binPath)

	os.Exit(m.Run())
}

// document mirrors the shape of the JSON output for assertions.
type document struct {
	Decks []deckNode `json:"decks"`
	Cards []card     `json:"cards"`
}

type deckNode struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	FullPath string     `json:"fullPath"`
	Children []deckNode `json:"children"`
}

type card struct {
	DeckID     string `json:"deckId"`
	Front      string `json:"front"`
	FrontClean string `json:"frontClean"`
	Back       string `json:"back"`
	BackClean  string `json:"backClean"`
}

func standardFixture() ArchiveFixture {
	return ArchiveFixture{
		DecksJSON: `{"1":{"name":"Default"},"10":{"name":"Math"},"11":{"name":"Math::Algebra"}}`,
		TagsJSON:  `{}`,
		Notes: map[int64]string{
			100: "Front A\x1fBack A",
			200: "Café\x1f&amp;lt; tea",
		},
		Cards: [][4]int64{
			{1, 100, 10, 1},
			{2, 100, 10, 0},
			{3, 200, 11, 0},
		},
		MediaMap: `{"0":"cat.jpg","1":"missing.png"}`,
		MediaFiles: map[string][]byte{
			"0": []byte("jpeg-bytes"),
		},
	}
}

func readDocument(t *testing.T, path string) document {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err, "output document should exist")
	var doc document
	require.NoError(t, json.Unmarshal(data, &doc), "output document should be valid JSON")
	return doc
}

func TestConvertArchiveInWorkingDirectory(t *testing.T) {
	env := NewTestEnv(t)
	env.WriteArchive(filepath.Join(env.WorkDir, "backup.colpkg"), standardFixture())

	result := env.MustRunColporter("convert")

	assert.Contains(t, result.Stdout, "Converting: ")
	assert.Contains(t, result.Stdout, "Extracting collection archive...")
	assert.Contains(t, result.Stdout, "Parsing collection database...")
	assert.Contains(t, result.Stdout, "Extracting media files...")
	assert.Contains(t, result.Stdout, "Cards")
	assert.Contains(t, result.Stdout, "Media files")

	outputPath := filepath.Join(env.WorkDir, "data.json")
	doc := readDocument(t, outputPath)

	// Default deck excluded, Math::Algebra nested under Math.
	require.Len(t, doc.Decks, 1)
	assert.Equal(t, "Math", doc.Decks[0].Name)
	assert.Equal(t, "Math", doc.Decks[0].FullPath)
	assert.Equal(t, "10", doc.Decks[0].ID)
	require.Len(t, doc.Decks[0].Children, 1)
	assert.Equal(t, "Algebra", doc.Decks[0].Children[0].Name)
	assert.Equal(t, "Math::Algebra", doc.Decks[0].Children[0].FullPath)
	assert.Equal(t, "11", doc.Decks[0].Children[0].ID)

	// One card per note; the ord 0 duplicate wins for note 100.
	require.Len(t, doc.Cards, 2)
	byDeck := map[string]card{}
	for _, c := range doc.Cards {
		byDeck[c.DeckID] = c
	}
	assert.Equal(t, "Front A", byDeck["10"].FrontClean)
	assert.Equal(t, "Back A", byDeck["10"].BackClean)
	assert.Equal(t, "Café", byDeck["11"].FrontClean)
	assert.Equal(t, "&lt; tea", byDeck["11"].BackClean)

	// Non-ASCII characters stay unescaped on disk.
	raw, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Café")

	// Mapped media payload lands under its original name, the missing
	// payload is skipped.
	mediaData, err := os.ReadFile(filepath.Join(env.WorkDir, "media", "cat.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(mediaData))
	_, err = os.Stat(filepath.Join(env.WorkDir, "media", "missing.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestConvertExplicitArchiveAndOutput(t *testing.T) {
	env := NewTestEnv(t)
	archivePath := filepath.Join(env.WorkDir, "elsewhere.colpkg")
	env.WriteArchive(archivePath, standardFixture())
	outputPath := filepath.Join(env.WorkDir, "export", "deck.json")

	env.MustRunColporter("convert", archivePath, "--output", outputPath)

	doc := readDocument(t, outputPath)
	assert.Len(t, doc.Cards, 2)

	// Media extracts next to the output document.
	_, err := os.Stat(filepath.Join(env.WorkDir, "export", "media", "cat.jpg"))
	assert.NoError(t, err)
}

func TestConvertNoArchiveInWorkingDirectory(t *testing.T) {
	env := NewTestEnv(t)

	result := env.RunColporter("convert")

	assert.Equal(t, 1, result.ExitCode)
	assert.Contains(t, result.Stderr, "convert:")
	_, err := os.Stat(filepath.Join(env.WorkDir, "data.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestConvertArchiveWithoutDatabase(t *testing.T) {
	env := NewTestEnv(t)
	fx := standardFixture()
	fx.OmitDatabase = true
	env.WriteArchive(filepath.Join(env.WorkDir, "broken.colpkg"), fx)

	result := env.RunColporter("convert")

	assert.Equal(t, 2, result.ExitCode)
	assert.Contains(t, result.Stderr, "convert:")
	_, err := os.Stat(filepath.Join(env.WorkDir, "data.json"))
	assert.True(t, os.IsNotExist(err), "no partial document should be written")
}

func TestConvertArchiveWithoutMediaMap(t *testing.T) {
	env := NewTestEnv(t)
	fx := standardFixture()
	fx.MediaMap = ""
	fx.MediaFiles = nil
	env.WriteArchive(filepath.Join(env.WorkDir, "nomedia.colpkg"), fx)

	result := env.MustRunColporter("convert")

	assert.Contains(t, result.Stdout, "No media mapping found in archive.")
	readDocument(t, filepath.Join(env.WorkDir, "data.json"))
}

func TestVersionCommand(t *testing.T) {
	env := NewTestEnv(t)

	result := env.MustRunColporter("version")

	assert.Contains(t, result.Stdout, "colporter 0.1.0")
}
