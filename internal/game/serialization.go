package game

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/onecard-go/onecard/internal/game/cards"
	"github.com/onecard-go/onecard/internal/game/rules"
)

// checksumVersion changes whenever the canonical encoding does.
const checksumVersion = 1

// SerializationChecksum is a deterministic fingerprint of a game's physical
// layout and turn state. Two games with equal checksums hold the same cards
// in the same order and agree on every turn flag.
type SerializationChecksum struct {
	Hash    string `json:"hash"`
	Version int    `json:"version"`
}

// Checksum fingerprints the game.
func (g *Game) Checksum() SerializationChecksum {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ComputeChecksum(g.zonesLocked(), g.state)
}

// ComputeChecksum hashes the canonical representation of zones and state.
func ComputeChecksum(zones Zones, state rules.TurnState) SerializationChecksum {
	sum := sha256.Sum256(buildDeterministicRepresentation(zones, state))
	return SerializationChecksum{
		Hash:    hex.EncodeToString(sum[:]),
		Version: checksumVersion,
	}
}

// buildDeterministicRepresentation renders one line per zone in a fixed
// order. Card order within a zone is significant.
func buildDeterministicRepresentation(zones Zones, state rules.TurnState) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "STATE:%s|%s|%s|%d|%d|%t|%t\n",
		state.Phase,
		state.Current,
		state.Winner,
		state.Turn,
		state.DrawStack,
		state.SkipTurn,
		state.ExtraTurn,
	)
	writeZone(&buf, "DECK", zones.Deck)
	writeZone(&buf, "DISCARD", zones.Discard)
	writeZone(&buf, "PLAYER", zones.Player)
	writeZone(&buf, "COMPUTER", zones.Computer)

	return buf.Bytes()
}

func writeZone(buf *bytes.Buffer, name string, pile []cards.Card) {
	fmt.Fprintf(buf, "%s:%d", name, len(pile))
	for _, card := range pile {
		buf.WriteByte('|')
		buf.WriteString(card.Key())
	}
	buf.WriteByte('\n')
}

// VerifyChecksum recomputes the checksum for zones and state and compares it
// with expected.
func VerifyChecksum(zones Zones, state rules.TurnState, expected SerializationChecksum) error {
	if expected.Version != checksumVersion {
		return fmt.Errorf("unsupported checksum version %d", expected.Version)
	}
	actual := ComputeChecksum(zones, state)
	if actual.Hash != expected.Hash {
		return fmt.Errorf("checksum mismatch: expected %s, got %s", expected.Hash, actual.Hash)
	}
	return nil
}
