package watchers

import "github.com/onecard-go/onecard/internal/game/rules"

// ActorStats summarizes one side of the table.
type ActorStats struct {
	CardsPlayed  int `json:"cards_played"`
	CardsDrawn   int `json:"cards_drawn"`
	TurnsSkipped int `json:"turns_skipped"`
}

// Stats is the game-wide summary built from the standard watchers.
type Stats struct {
	Player         ActorStats `json:"player"`
	Computer       ActorStats `json:"computer"`
	LongestAttack  int        `json:"longest_attack"`
	StacksResolved int        `json:"stacks_resolved"`
	Reshuffles     int        `json:"reshuffles"`
}

// Register adds the standard watchers to registry.
func Register(registry *rules.WatcherRegistry) {
	registry.AddWatcher(NewCardsPlayedWatcher())
	registry.AddWatcher(NewCardsDrawnWatcher())
	registry.AddWatcher(NewAttackChainWatcher())
	registry.AddWatcher(NewReshuffleWatcher())
	registry.AddWatcher(NewTurnsSkippedWatcher())
}

// Collect reads the standard watchers out of registry. Watchers that were
// never registered contribute zeros.
func Collect(registry *rules.WatcherRegistry) Stats {
	var stats Stats
	if registry == nil {
		return stats
	}

	if w, ok := registry.GetWatcher(KeyCardsPlayed).(*CardsPlayedWatcher); ok {
		stats.Player.CardsPlayed = w.GetCount(rules.ActorPlayer)
		stats.Computer.CardsPlayed = w.GetCount(rules.ActorComputer)
	}
	if w, ok := registry.GetWatcher(KeyCardsDrawn).(*CardsDrawnWatcher); ok {
		stats.Player.CardsDrawn = w.GetCount(rules.ActorPlayer)
		stats.Computer.CardsDrawn = w.GetCount(rules.ActorComputer)
	}
	if w, ok := registry.GetWatcher(KeyTurnsSkipped).(*TurnsSkippedWatcher); ok {
		stats.Player.TurnsSkipped = w.GetCount(rules.ActorPlayer)
		stats.Computer.TurnsSkipped = w.GetCount(rules.ActorComputer)
	}
	if w, ok := registry.GetWatcher(KeyAttackChain).(*AttackChainWatcher); ok {
		stats.LongestAttack = w.Longest()
		stats.StacksResolved = w.Resolved()
	}
	if w, ok := registry.GetWatcher(KeyReshuffles).(*ReshuffleWatcher); ok {
		stats.Reshuffles = w.GetCount()
	}
	return stats
}
