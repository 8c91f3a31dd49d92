package game

// ResolveBonus settles the coin flip for the last committed move. When granted,
// the colour that just moved moves again; otherwise the normal alternation set
// by CommitMove stands. The recorded history entry is never touched.
func (g *Game) ResolveBonus(granted bool) error {
	if g.Status().Over() {
		return ErrGameAlreadyOver
	}
	if !g.bonusPending {
		return ErrNoMoveToResolve
	}
	if granted {
		g.pos = g.pos.WithSideToMove(g.mover)
		g.seen[g.pos.Hash()]++
	}
	g.bonusPending = false
	g.events = append(g.events, Event{Kind: BonusEvent, Granted: granted})

	g.log.Debug().
		Bool("granted", granted).
		Str("to_move", g.pos.SideToMove().String()).
		Uint32("ply", g.ply).
		Msg("bonus resolved")
	return nil
}
