package types

import "errors"

// Collection is the complete output document: the deck hierarchy plus the
// deduplicated card list. Marshals to the JSON shape consumed by viewers.
type Collection struct {
	Decks []*DeckNode `json:"decks"`
	Cards []Card      `json:"cards"`
}

// Summary reports what a conversion produced.
type Summary struct {
	Cards         int
	TopLevelDecks int
	MediaFiles    int
}

// Progress is a printable sink for conversion progress lines. The CLI
// passes a stdout-backed sink; tests pass a buffer. Conversion code never
// writes to ambient globals.
type Progress interface {
	Printf(format string, args ...any)
}

// Conversion errors.
var (
	// ErrNoArchive means no input archive was given and none was found
	// in the working directory.
	ErrNoArchive = errors.New("no collection archive found")

	// ErrNoDatabase means the archive decompressed cleanly but contains
	// no collection database under a recognized name.
	ErrNoDatabase = errors.New("no collection database found in archive")

	// ErrNoConfigRow means the collection database has no configuration
	// row; the file is not a usable collection snapshot.
	ErrNoConfigRow = errors.New("collection database has no configuration row")
)
