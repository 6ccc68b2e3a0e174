package types

// Note is a raw note record: the content behind one or more cards.
// Fields holds the note's field values in note-type order, already split
// on the unit-separator byte used by the collection format.
type Note struct {
	ID      int64
	ModelID int64
	Fields  []string
}

// Card is the display-oriented projection written to the output document.
// Front/Back carry render-ready HTML with media paths rewritten;
// FrontClean/BackClean carry the same content as plain text.
type Card struct {
	DeckID     string `json:"deckId"`
	Front      string `json:"front"`
	FrontClean string `json:"frontClean"`
	Back       string `json:"back"`
	BackClean  string `json:"backClean"`
}
