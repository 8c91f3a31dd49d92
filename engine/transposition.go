package engine

import (
	"unsafe"

	"bonuschess/rules"
)

const (
	// Flags
	AlphaFlag = iota
	BetaFlag
	ExactFlag

	clusterSize = 4

	// Scores beyond this are wins or losses a known number of plies away.
	mateThreshold = MateScore - 1000
)

// transTable is a clustered table. Entries from an older generation count as
// empty, so bumping the generation clears it without touching memory.
type transTable struct {
	entries      []ttEntry
	clusterCount uint64
	generation   uint16
}

type ttEntry struct {
	Hash       uint64
	Score      float64
	Move       rules.Move
	Generation uint16
	Depth      int8
	Flag       int8
}

func newTransTable(mb int) *transTable {
	entrySize := uint64(unsafe.Sizeof(ttEntry{}))
	totalBytes := uint64(mb) * 1024 * 1024
	clusterCount := totalBytes / (entrySize * clusterSize)
	if clusterCount == 0 {
		clusterCount = 1
	}
	return &transTable{
		entries:      make([]ttEntry, clusterCount*clusterSize),
		clusterCount: clusterCount,
		generation:   1,
	}
}

func (tt *transTable) newSearch() {
	tt.generation++
	if tt.generation == 0 {
		// wrapped: old stamps could match again
		for i := range tt.entries {
			tt.entries[i] = ttEntry{}
		}
		tt.generation = 1
	}
}

func (tt *transTable) live(e *ttEntry) bool {
	return e.Generation == tt.generation
}

func (tt *transTable) probe(hash uint64) (*ttEntry, bool) {
	base := int(hash%tt.clusterCount) * clusterSize
	for i := 0; i < clusterSize; i++ {
		entry := &tt.entries[base+i]
		if tt.live(entry) && entry.Hash == hash {
			return entry, true
		}
	}
	return nil, false
}

// useEntry reports whether a stored score settles the node outright.
// Mate scores are stored relative to the node and come back relative to the
// root, so a transposition at another ply keeps its true distance.
func (tt *transTable) useEntry(entry *ttEntry, depth, ply int, alpha, beta float64) (bool, float64) {
	if entry == nil || int(entry.Depth) < depth {
		return false, 0
	}
	score := entry.Score
	if score > mateThreshold {
		score -= float64(ply)
	} else if score < -mateThreshold {
		score += float64(ply)
	}
	switch entry.Flag {
	case ExactFlag:
		return true, score
	case AlphaFlag:
		if score <= alpha {
			return true, score
		}
	case BetaFlag:
		if score >= beta {
			return true, score
		}
	}
	return false, 0
}

func (tt *transTable) store(hash uint64, depth, ply int, move rules.Move, score float64, flag int8) {
	if score > mateThreshold {
		score += float64(ply)
	} else if score < -mateThreshold {
		score -= float64(ply)
	}

	base := int(hash%tt.clusterCount) * clusterSize
	targetIdx := -1

	// Prefer updating existing entry
	for i := 0; i < clusterSize; i++ {
		idx := base + i
		if tt.live(&tt.entries[idx]) && tt.entries[idx].Hash == hash {
			targetIdx = idx
			break
		}
	}

	// Next look for a stale slot
	if targetIdx == -1 {
		for i := 0; i < clusterSize; i++ {
			idx := base + i
			if !tt.live(&tt.entries[idx]) {
				targetIdx = idx
				break
			}
		}
	}

	// Otherwise replace the shallowest entry in the cluster
	if targetIdx == -1 {
		targetIdx = base
		minDepth := tt.entries[base].Depth
		for i := 1; i < clusterSize; i++ {
			idx := base + i
			if tt.entries[idx].Depth < minDepth {
				minDepth = tt.entries[idx].Depth
				targetIdx = idx
			}
		}
	}

	tt.entries[targetIdx] = ttEntry{
		Hash:       hash,
		Score:      score,
		Move:       move,
		Generation: tt.generation,
		Depth:      int8(depth),
		Flag:       flag,
	}
}
