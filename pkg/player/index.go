package player

import "math"

// FrameIndexOf maps a scroll progress in [0,1] to a frame index in
// [1, frameCount]. Out of range and NaN progress values are clamped.
func FrameIndexOf(progress float64, frameCount int) int {
	if frameCount < 1 {
		return 1
	}
	if math.IsNaN(progress) {
		progress = 0
	}
	progress = clamp(progress, 0, 1)
	idx := int(math.Round(progress*float64(frameCount-1))) + 1
	return clampInt(idx, 1, frameCount)
}

// FadeOut returns an opacity that is 1 at progress from and falls linearly
// to 0 at progress to.
func FadeOut(progress, from, to float64) float64 {
	if to <= from {
		if progress < from {
			return 1
		}
		return 0
	}
	return 1 - clamp((progress-from)/(to-from), 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// FrameProgress is the inverse of FrameIndexOf: the progress at which
// frame index is shown.
func FrameProgress(index, frameCount int) float64 {
	if frameCount <= 1 {
		return 0
	}
	return float64(clampInt(index, 1, frameCount)-1) / float64(frameCount-1)
}
