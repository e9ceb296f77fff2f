package eval

import (
	"math/rand"

	"github.com/herohde/gyrfalcon/pkg/board"
)

// Random adds a small amount of noise to evaluations. The limit is given in millipawns and
// samples are drawn from [-limit/2; limit/2] millipawns, returned rounded toward zero to
// centipawns. The zero value always returns zero: disabled by default.
type Random struct {
	rand  *rand.Rand
	limit int
}

func NewRandom(limitMillipawns int, seed int64) Random {
	return Random{
		limit: limitMillipawns,
		rand:  rand.New(rand.NewSource(seed)),
	}
}

func (n Random) Sample() board.Score {
	if n.limit <= 0 {
		return 0
	}
	return board.Score((n.rand.Intn(n.limit) - n.limit/2) / 10)
}
