// Package netcode maps weapon types to compact wire indices and encodes them,
// along with the slot replication commands, for network and demo streams.
package netcode

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/cory-johannsen/arsenal/internal/game/ruleset"
	"github.com/cory-johannsen/arsenal/internal/game/weapon"
)

// MaxIndex is the largest index the two-byte encoding can carry.
const MaxIndex = 0x7FFF

// IndexTable is a bidirectional mapping between weapon types and wire
// indices. Index 0 is always the absent weapon.
//
// Invariant: classes[0] == nil and index[classes[i]] == i for every non-nil entry.
type IndexTable struct {
	classes []*weapon.Class
	index   map[*weapon.Class]int
}

// gameRank orders classes for the active game: the game's own weapons,
// then weapons valid in every game, then weapons of other games.
func gameRank(c *weapon.Class, game ruleset.Game) int {
	switch {
	case c.GameFilter == ruleset.GameAny:
		return 1
	case c.GameFilter&game != 0:
		return 0
	}
	return 2
}

// BuildIndexTable derives the table of every weapon type in reg for game.
// Every peer that runs the same game with the same registry builds the
// same table.
//
// Postcondition: Len() == len(reg.Classes()) + 1.
func BuildIndexTable(reg *weapon.Registry, game ruleset.Game) *IndexTable {
	sorted := reg.Classes()
	slices.SortStableFunc(sorted, func(a, b *weapon.Class) int {
		if ga, gb := gameRank(a, game), gameRank(b, game); ga != gb {
			return ga - gb
		}
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	return newTable(append([]*weapon.Class{nil}, sorted...))
}

func newTable(classes []*weapon.Class) *IndexTable {
	t := &IndexTable{
		classes: classes,
		index:   make(map[*weapon.Class]int, len(classes)),
	}
	for i, c := range classes {
		if c != nil {
			t.index[c] = i
		}
	}
	return t
}

// Len returns the number of indices including the absent weapon.
func (t *IndexTable) Len() int {
	return len(t.classes)
}

// Index returns the index of c, or 0 if c is nil or not in the table.
func (t *IndexTable) Index(c *weapon.Class) int {
	return t.index[c]
}

// Class returns the weapon type at index i, or nil when i is 0 or out of range.
func (t *IndexTable) Class(i int) *weapon.Class {
	if i < 0 || i >= len(t.classes) {
		return nil
	}
	return t.classes[i]
}

// Names returns the type names of indices 1 through Len()-1. Entries that
// did not resolve when the table was read from a demo are empty.
func (t *IndexTable) Names() []string {
	names := make([]string, 0, len(t.classes)-1)
	for _, c := range t.classes[1:] {
		if c == nil {
			names = append(names, "")
			continue
		}
		names = append(names, c.Name)
	}
	return names
}

// AppendDemoChunk appends the frozen table to b: a varint count including
// the absent entry, then one length-delimited name per index from 1.
func (t *IndexTable) AppendDemoChunk(b []byte) []byte {
	b = protowire.AppendVarint(b, uint64(len(t.classes)))
	for _, name := range t.Names() {
		b = protowire.AppendString(b, name)
	}
	return b
}

// WriteDemoChunk writes the frozen table to w.
func (t *IndexTable) WriteDemoChunk(w io.Writer) error {
	if _, err := w.Write(t.AppendDemoChunk(nil)); err != nil {
		return fmt.Errorf("netcode: WriteDemoChunk: %w", err)
	}
	return nil
}

// ErrChunkTooLarge is returned for a demo chunk listing more weapons than an
// index can address.
var ErrChunkTooLarge = errors.New("netcode: demo weapons chunk exceeds index range")

// ReadDemoChunk rebuilds a historical table from a chunk written by
// AppendDemoChunk, resolving names against reg. Names reg no longer knows
// become absent entries at their original index.
//
// Postcondition: n is the number of bytes consumed.
func ReadDemoChunk(data []byte, reg *weapon.Registry) (t *IndexTable, n int, err error) {
	count, m := protowire.ConsumeVarint(data)
	if m < 0 {
		return nil, 0, fmt.Errorf("netcode: ReadDemoChunk: count: %w", protowire.ParseError(m))
	}
	if count > MaxIndex+1 {
		return nil, 0, ErrChunkTooLarge
	}
	n = m
	classes := make([]*weapon.Class, max(int(count), 1))
	for i := 1; i < len(classes); i++ {
		name, m := protowire.ConsumeString(data[n:])
		if m < 0 {
			return nil, 0, fmt.Errorf("netcode: ReadDemoChunk: name %d: %w", i, protowire.ParseError(m))
		}
		n += m
		classes[i] = reg.Class(name)
	}
	return newTable(classes), n, nil
}
