package stoplist

import "math"

// elbowCut finds the rank separating stopwords from content words on a
// Zipf rank/frequency curve. Both axes are log-scaled; the elbow is the
// point of maximum perpendicular distance from the line through the first
// point and a far anchor, found by vector projection. The returned cut is
// a count of features to stoplist, clamped to the window.
func elbowCut(ranked []rankedFeature, w Window) int {
	n := len(ranked)
	if n <= w.MinStopwords {
		// Vocabulary smaller than the minimum: the whole vocabulary is
		// the stoplist.
		return n
	}

	type point struct{ x, y float64 }
	pts := make([]point, n)
	for i, rf := range ranked {
		pts[i] = point{
			x: math.Log(float64(i + 1)),
			y: math.Log(float64(rf.count)),
		}
	}

	endIdx := w.MaxStopwords * 2
	if endIdx > n-1 {
		endIdx = n - 1
	}
	lineStart := pts[0]
	lineEnd := pts[endIdx]

	dx := lineEnd.x - lineStart.x
	dy := lineEnd.y - lineStart.y
	lineLen := math.Hypot(dx, dy)
	if lineLen == 0 {
		return clamp(w.MinStopwords, w)
	}
	ux, uy := dx/lineLen, dy/lineLen

	searchEnd := endIdx
	if w.MaxStopwords < searchEnd {
		searchEnd = w.MaxStopwords
	}

	elbow := w.MinStopwords
	maxDist := -1.0
	for i := w.MinStopwords; i < searchEnd; i++ {
		// Perpendicular distance: reject the point's offset from the line
		// onto the line direction and measure what remains.
		vx := pts[i].x - lineStart.x
		vy := pts[i].y - lineStart.y
		proj := vx*ux + vy*uy
		px := vx - proj*ux
		py := vy - proj*uy
		dist := math.Hypot(px, py)
		if dist > maxDist {
			maxDist = dist
			elbow = i
		}
	}

	return clamp(elbow, w)
}

func clamp(idx int, w Window) int {
	if idx < w.MinStopwords {
		return w.MinStopwords
	}
	if idx > w.MaxStopwords {
		return w.MaxStopwords
	}
	return idx
}
