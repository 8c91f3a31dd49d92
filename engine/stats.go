package engine

import "github.com/rs/zerolog"

// Stats counts what one search did.
type Stats struct {
	Nodes       uint64 `json:"nodes"`
	ChanceNodes uint64 `json:"chance_nodes"`
	Leaves      uint64 `json:"leaves"`
	Terminals   uint64 `json:"terminals"`
	TTHits      uint64 `json:"tt_hits"`
	TTCutoffs   uint64 `json:"tt_cutoffs"`
	BetaCutoffs uint64 `json:"beta_cutoffs"`
	ChanceCuts  uint64 `json:"chance_cuts"`
	Iterations  uint64 `json:"iterations"`
}

func (s Stats) MarshalZerologObject(e *zerolog.Event) {
	e.Uint64("nodes", s.Nodes).
		Uint64("chance_nodes", s.ChanceNodes).
		Uint64("leaves", s.Leaves).
		Uint64("terminals", s.Terminals).
		Uint64("tt_hits", s.TTHits).
		Uint64("tt_cutoffs", s.TTCutoffs).
		Uint64("beta_cutoffs", s.BetaCutoffs).
		Uint64("chance_cuts", s.ChanceCuts).
		Uint64("iterations", s.Iterations)
}
