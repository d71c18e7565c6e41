package matchplay

type HoleOutcome string

const (
	HoleHalved HoleOutcome = "halved"
	HoleWonA   HoleOutcome = "side_a"
	HoleWonB   HoleOutcome = "side_b"
)

// PlayerScore is one player's result on one hole. Gross 0 means no score was
// returned (pickup or not recorded yet).
type PlayerScore struct {
	Gross   int
	Strokes int
}

func (s PlayerScore) Net() int {
	return s.Gross - s.Strokes
}

func (s PlayerScore) HasScore() bool {
	return s.Gross > 0
}

// BestBall reports which ball counted for a side on a hole. PlayerIndex is the
// position in the side's score slice, -1 when the side returned no score.
type BestBall struct {
	PlayerIndex int
	Net         int
}

// ResolveHole decides a singles hole on net scores. A player without a score
// loses the hole to one with a score; two missing scores halve it.
func ResolveHole(a, b PlayerScore) HoleOutcome {
	switch {
	case !a.HasScore() && !b.HasScore():
		return HoleHalved
	case !b.HasScore():
		return HoleWonA
	case !a.HasScore():
		return HoleWonB
	}
	switch an, bn := a.Net(), b.Net(); {
	case an < bn:
		return HoleWonA
	case bn < an:
		return HoleWonB
	default:
		return HoleHalved
	}
}

// ResolveBestBall decides a four-ball hole: each side counts its lowest net
// among players who returned a score. Ties inside a side go to the player
// listed first, so the counting ball is stable across recomputes.
func ResolveBestBall(sideA, sideB []PlayerScore) (HoleOutcome, BestBall, BestBall) {
	bestA := bestOf(sideA)
	bestB := bestOf(sideB)

	switch {
	case bestA.PlayerIndex < 0 && bestB.PlayerIndex < 0:
		return HoleHalved, bestA, bestB
	case bestB.PlayerIndex < 0:
		return HoleWonA, bestA, bestB
	case bestA.PlayerIndex < 0:
		return HoleWonB, bestA, bestB
	case bestA.Net < bestB.Net:
		return HoleWonA, bestA, bestB
	case bestB.Net < bestA.Net:
		return HoleWonB, bestA, bestB
	default:
		return HoleHalved, bestA, bestB
	}
}

func bestOf(side []PlayerScore) BestBall {
	best := BestBall{PlayerIndex: -1}
	for i, s := range side {
		if !s.HasScore() {
			continue
		}
		if best.PlayerIndex < 0 || s.Net() < best.Net {
			best = BestBall{PlayerIndex: i, Net: s.Net()}
		}
	}
	return best
}
