package types

// PathSeparator joins deck name segments into hierarchical paths
// ("Math::Algebra" is the deck "Algebra" nested under "Math").
const PathSeparator = "::"

// Deck is a raw deck record as stored in the collection's configuration
// row: a flat id/name pair. Hierarchy lives only in the name.
type Deck struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DeckNode is one node of the reconstructed deck hierarchy.
//
// ID is the original deck id when a real deck exists at this path, and a
// synthesized id for intermediate path segments that were never explicit
// decks. Name is this segment only; FullPath is the complete
// separator-joined path from the root.
type DeckNode struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	FullPath string      `json:"fullPath"`
	Children []*DeckNode `json:"children"`
}
