// Package decktree rebuilds the nested deck hierarchy from the flat deck
// table. Deck names carry their own hierarchy as "::"-delimited paths;
// intermediate segments that were never explicit decks get synthesized
// virtual nodes so every child has a parent to hang from.
package decktree

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/colporter/pkg/types"
)

// deckPathNamespace seeds the deterministic ids of virtual nodes. Two runs
// over the same collection synthesize identical ids for identical paths.
var deckPathNamespace = uuid.MustParse("8f9a6c2e-4b0d-5e7a-9c31-d2a84e5b7f10")

// VirtualID returns the synthesized id for an intermediate path segment
// that has no deck record of its own: a UUID v5 of the full path, which
// cannot collide with the numeric ids real decks carry.
func VirtualID(fullPath string) string {
	return uuid.NewSHA1(deckPathNamespace, []byte(fullPath)).String()
}

// Build converts the flat deck set into an ordered forest of DeckNodes.
//
// Decks are visited in ascending full-name order, so every parent prefix
// is materialized before any child path that extends it. Each distinct
// full path maps to exactly one node regardless of how many descendants
// reference it.
func Build(decks map[string]types.Deck) []*types.DeckNode {
	sorted := make([]types.Deck, 0, len(decks))
	for _, d := range decks {
		sorted = append(sorted, d)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	roots := []*types.DeckNode{}
	byPath := make(map[string]*types.DeckNode)

	for _, deck := range sorted {
		segments := strings.Split(deck.Name, types.PathSeparator)

		var parent *types.DeckNode
		path := ""

		for _, segment := range segments {
			if path == "" {
				path = segment
			} else {
				path += types.PathSeparator + segment
			}

			node, ok := byPath[path]
			if !ok {
				id := VirtualID(path)
				if path == deck.Name {
					// This prefix is the deck's own terminal node.
					id = deck.ID
				}
				node = &types.DeckNode{
					ID:       id,
					Name:     segment,
					FullPath: path,
					Children: []*types.DeckNode{},
				}
				byPath[path] = node

				if parent != nil {
					parent.Children = append(parent.Children, node)
				} else if !rootExists(roots, path) {
					roots = append(roots, node)
				}
			}

			parent = node
		}
	}

	return roots
}

// rootExists reports whether a root node with the given full path is
// already present. Keeps root insertion idempotent.
func rootExists(roots []*types.DeckNode, fullPath string) bool {
	for _, r := range roots {
		if r.FullPath == fullPath {
			return true
		}
	}
	return false
}
