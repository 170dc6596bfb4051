package tetris

import "math"

// Weights are the board heuristic terms. Positive terms are rewards,
// the rest are penalties applied as written in Evaluate.
type Weights struct {
	Line          float64 // per complete line
	Hole          float64
	BlockedHole   float64 // filled cell sitting above a hole
	AdjacentHole  float64 // holed column in a well deeper than 2
	MaxHeight     float64
	Variance      float64 // sum of squared deviation from mean height
	MaxHeightDiff float64 // largest step between adjacent columns
	HeightSquared float64 // times (aggregate height)^2
	TetrisBonus   float64 // 4 lines at once
	MultiBonus    float64 // 2-3 lines at once
	Center        float64 // per column away from the centre
	NoOverhang    float64
}

var DefaultWeights = Weights{
	Line:          800,
	Hole:          70,
	BlockedHole:   35,
	AdjacentHole:  50,
	MaxHeight:     15,
	Variance:      3,
	MaxHeightDiff: 20,
	HeightSquared: 0.15,
	TetrisBonus:   1500,
	MultiBonus:    300,
	Center:        0.2,
	NoOverhang:    20,
}

// Evaluate scores the board as it would look with p locked in place.
func Evaluate(b *Board, p Piece, w Weights) float64 {
	merged := *b
	merged.Lock(p)

	var heights [Width]int
	holes, blocked, adjacent := 0, 0, 0
	maxHeight, total := 0, 0
	maxDiff := 0.0

	for x := 0; x < Width; x++ {
		found, holeBelow := false, false
		colHoles := 0
		for y := 0; y < Height; y++ {
			filled := merged[y][x] != 0
			if !found && filled {
				heights[x] = Height - y
				maxHeight = max(maxHeight, heights[x])
				total += heights[x]
				found = true
			}
			if found && !filled {
				holes++
				colHoles++
				holeBelow = true
			} else if holeBelow && filled {
				blocked++
			}
		}
		if colHoles > 1 {
			holes += colHoles * 3
		}
		if x > 0 {
			maxDiff = math.Max(maxDiff, math.Abs(float64(heights[x]-heights[x-1])))
			if colHoles > 0 && heights[x-1]-heights[x] > 2 {
				adjacent++
			}
		}
	}

	avg := float64(total) / Width
	variance := 0.0
	for _, h := range heights {
		d := float64(h) - avg
		variance += d * d
	}

	lines := 0
	for y := 0; y < Height; y++ {
		if merged.rowFull(y) {
			lines++
		}
	}

	score := float64(lines)*w.Line +
		pieceBonus(p, lines, holes, maxHeight, maxDiff) -
		float64(holes)*w.Hole -
		float64(blocked)*w.BlockedHole -
		float64(adjacent)*w.AdjacentHole -
		float64(maxHeight)*w.MaxHeight -
		variance*w.Variance -
		maxDiff*w.MaxHeightDiff -
		float64(total*total)*w.HeightSquared

	switch {
	case lines >= 4:
		score += w.TetrisBonus
	case lines >= 2:
		score += w.MultiBonus
	}
	// keep the right edge low for the next I piece
	if p.Kind == I && float64(heights[Width-1]) <= avg-3 {
		score += 50
	}
	return score
}

func pieceBonus(p Piece, lines, holes, maxHeight int, maxDiff float64) float64 {
	bonus := 0.0
	switch p.Kind {
	case I:
		if p.Rotation == 0 {
			if lines == 4 {
				bonus += 1000
			} else if lines > 0 {
				bonus += 100
			}
		}
		if maxHeight < Height-4 {
			bonus += 50
		}
	case O:
		if p.Y > Height-4 {
			bonus += 50
		}
		if holes > 0 {
			bonus += 30
		}
	case T:
		if maxDiff <= 2 && holes == 0 {
			bonus += 60
		}
	default:
		if maxDiff <= 1 {
			bonus += 40
		}
		if holes == 0 {
			bonus += 30
		}
	}
	return bonus
}

// BestMove searches every rotation x column placement of cur, hard-dropping
// each one, and returns the first step toward the best-scoring placement
// together with that placement. Ties keep the first placement found.
// The search works on copies; cur and the board are not modified.
func BestMove(b *Board, cur Piece, w Weights) (Move, Piece) {
	best := math.Inf(-1)
	move := Down
	target := cur

	rotated := cur
	for rot := 0; rot < 4; rot++ {
		if rot > 0 {
			next := rotated
			next.Shape = next.Shape.Rotated()
			next.Rotation = (next.Rotation + 1) % 4
			if !b.Collides(next) {
				rotated = next
			}
		}
		for col := -Size; col <= Width; col++ {
			p := slide(b, rotated, col)
			if b.Collides(p) {
				continue
			}
			for !b.Collides(p) {
				p.Y++
			}
			p.Y--

			score := Evaluate(b, p, w)
			score -= math.Abs(float64(p.X-Width/2)) * w.Center
			if !hasOverhang(p.Shape) {
				score += w.NoOverhang
			}
			if score > best {
				best = score
				target = p
				switch {
				case rot > 0:
					move = Rotate
				case p.X < cur.X:
					move = Left
				case p.X > cur.X:
					move = Right
				default:
					move = Down
				}
			}
		}
	}
	return move, target
}

// slide moves p horizontally toward col, stopping at the first collision.
func slide(b *Board, p Piece, col int) Piece {
	for p.X < col {
		p.X++
		if b.Collides(p) {
			p.X--
			break
		}
	}
	for p.X > col {
		p.X--
		if b.Collides(p) {
			p.X++
			break
		}
	}
	return p
}

// hasOverhang reports a gap above a filled cell in any column of the mask.
func hasOverhang(m Mask) bool {
	for x := 0; x < Size; x++ {
		block := false
		for y := Size - 1; y >= 0; y-- {
			if m[y][x] {
				block = true
			} else if block {
				return true
			}
		}
	}
	return false
}
