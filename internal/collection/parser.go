// Package collection reads the relational snapshot inside an extracted
// collection database and projects it into the output document: a deck
// hierarchy plus one display card per note.
package collection

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/colporter/internal/decktree"
	"github.com/mesh-intelligence/colporter/internal/sanitize"
	"github.com/mesh-intelligence/colporter/pkg/types"
)

// fieldSeparator splits a note's field blob into individual fields.
const fieldSeparator = "\x1f"

// backJoin glues the non-blank back fields into a single renderable
// string before sanitizing.
const backJoin = "<br>"

// deckInfo is the per-deck object inside the configuration row's deck
// table. Only the name is consumed; everything else in the object is
// scheduling state this tool does not read.
type deckInfo struct {
	Name string `json:"name"`
}

// Parse reads the collection database at dbPath and returns the deck tree
// and deduplicated card list. The configuration row is mandatory: its
// absence means the file is not a collection snapshot, and the whole
// conversion fails with types.ErrNoConfigRow.
func Parse(dbPath string, cfg types.Config) (*types.Collection, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening collection database: %w", err)
	}
	defer db.Close()

	decks, err := readDecks(db, cfg.DefaultDeckLabels)
	if err != nil {
		return nil, err
	}

	notes, err := readNotes(db)
	if err != nil {
		return nil, err
	}

	cards, err := readCards(db, notes)
	if err != nil {
		return nil, err
	}

	return &types.Collection{
		Decks: decktree.Build(decks),
		Cards: cards,
	}, nil
}

// readDecks reads the single configuration row and returns the raw deck
// set, excluding decks whose name case-insensitively matches a default
// label. The tag table is decoded alongside but currently unused.
func readDecks(db *sql.DB, defaultLabels []string) (map[string]types.Deck, error) {
	var decksJSON, tagsJSON sql.NullString
	err := db.QueryRow("SELECT decks, tags FROM col").Scan(&decksJSON, &tagsJSON)
	if err == sql.ErrNoRows {
		return nil, types.ErrNoConfigRow
	}
	if err != nil {
		return nil, fmt.Errorf("reading configuration row: %w", err)
	}

	deckTable := map[string]deckInfo{}
	if decksJSON.Valid && decksJSON.String != "" {
		if err := json.Unmarshal([]byte(decksJSON.String), &deckTable); err != nil {
			return nil, fmt.Errorf("decoding deck table: %w", err)
		}
	}

	tagTable := map[string]any{}
	if tagsJSON.Valid && tagsJSON.String != "" {
		if err := json.Unmarshal([]byte(tagsJSON.String), &tagTable); err != nil {
			return nil, fmt.Errorf("decoding tag table: %w", err)
		}
	}
	_ = tagTable // read for forward compatibility, not projected into output

	fold := cases.Fold()
	folded := make([]string, len(defaultLabels))
	for i, label := range defaultLabels {
		folded[i] = fold.String(label)
	}

	decks := make(map[string]types.Deck, len(deckTable))
	for id, info := range deckTable {
		name := info.Name
		if name == "" {
			name = "Unknown"
		}
		if isDefaultLabel(fold.String(name), folded) {
			continue
		}
		decks[id] = types.Deck{ID: id, Name: name}
	}

	return decks, nil
}

// isDefaultLabel reports whether foldedName equals any folded default label.
func isDefaultLabel(foldedName string, foldedLabels []string) bool {
	for _, label := range foldedLabels {
		if foldedName == label {
			return true
		}
	}
	return false
}

// readNotes loads all notes indexed by id, splitting each field blob on
// the unit separator.
func readNotes(db *sql.DB) (map[int64]types.Note, error) {
	rows, err := db.Query("SELECT id, mid, flds, tags FROM notes")
	if err != nil {
		return nil, fmt.Errorf("querying notes: %w", err)
	}
	defer rows.Close()

	notes := map[int64]types.Note{}
	for rows.Next() {
		var (
			id, mid     int64
			flds, ntags sql.NullString
		)
		if err := rows.Scan(&id, &mid, &flds, &ntags); err != nil {
			return nil, fmt.Errorf("scanning note row: %w", err)
		}

		var fields []string
		if flds.Valid && flds.String != "" {
			fields = strings.Split(flds.String, fieldSeparator)
		}

		notes[id] = types.Note{ID: id, ModelID: mid, Fields: fields}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating note rows: %w", err)
	}

	return notes, nil
}

// readCards walks the card table in ascending ordinal order and keeps the
// first card seen for each note. Later cards backed by the same note are
// presentation variants of content already captured, so they are dropped.
// The returned order is first-visit order, which downstream consumers
// treat as opaque.
func readCards(db *sql.DB, notes map[int64]types.Note) ([]types.Card, error) {
	rows, err := db.Query("SELECT id, nid, did, ord FROM cards ORDER BY ord")
	if err != nil {
		return nil, fmt.Errorf("querying cards: %w", err)
	}
	defer rows.Close()

	seen := map[int64]bool{}
	cards := []types.Card{}
	for rows.Next() {
		var cardID, noteID, deckID, ord int64
		if err := rows.Scan(&cardID, &noteID, &deckID, &ord); err != nil {
			return nil, fmt.Errorf("scanning card row: %w", err)
		}

		if seen[noteID] {
			continue
		}
		seen[noteID] = true

		cards = append(cards, buildCard(deckID, notes[noteID].Fields))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating card rows: %w", err)
	}

	return cards, nil
}

// buildCard projects a note's fields into an output card: field 0 is the
// front, the remaining non-blank fields joined together form the back.
// Back fields beyond the first are included so audio stored in secondary
// fields survives the projection.
func buildCard(deckID int64, fields []string) types.Card {
	front := ""
	if len(fields) > 0 {
		front = fields[0]
	}

	var backParts []string
	if len(fields) > 1 {
		for _, part := range fields[1:] {
			if strings.TrimSpace(part) != "" {
				backParts = append(backParts, part)
			}
		}
	}
	back := strings.Join(backParts, backJoin)

	return types.Card{
		DeckID:     strconv.FormatInt(deckID, 10),
		Front:      sanitize.DisplayHTML(front),
		FrontClean: sanitize.PlainText(front),
		Back:       sanitize.DisplayHTML(back),
		BackClean:  sanitize.PlainText(back),
	}
}
