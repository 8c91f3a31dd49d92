package engine

// stateStack tracks how often each position hash occurred: in the game before
// the search started, plus along the line currently being searched.
type stateStack struct {
	game   map[uint64]int
	hashes []uint64
	onPath map[uint64]int
}

func (s *stateStack) reset(game map[uint64]int) {
	s.game = game
	s.hashes = s.hashes[:0]
	s.onPath = make(map[uint64]int)
}

// occurrences counts hash as if it were pushed now.
func (s *stateStack) occurrences(hash uint64) int {
	return s.game[hash] + s.onPath[hash] + 1
}

func (s *stateStack) push(hash uint64) {
	s.hashes = append(s.hashes, hash)
	s.onPath[hash]++
}

func (s *stateStack) pop() {
	if len(s.hashes) == 0 {
		return
	}
	hash := s.hashes[len(s.hashes)-1]
	s.hashes = s.hashes[:len(s.hashes)-1]
	if s.onPath[hash]--; s.onPath[hash] == 0 {
		delete(s.onPath, hash)
	}
}
