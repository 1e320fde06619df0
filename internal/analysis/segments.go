package analysis

import (
	"strings"

	"github.com/cognisys-ai/verbal-insights/internal/genai"
)

// JoinSegments concatenates the text of every segment. For a well-formed
// result this reconstructs the full transcription with pause annotations
// inserted in place.
func JoinSegments(segments []genai.HighlightedSegment) string {
	var b strings.Builder
	for _, seg := range segments {
		b.WriteString(seg.Text)
	}
	return b.String()
}

// FillerSegmentCount returns the number of filler-typed segments.
func FillerSegmentCount(segments []genai.HighlightedSegment) int {
	n := 0
	for _, seg := range segments {
		if seg.Type == genai.SegmentFiller {
			n++
		}
	}
	return n
}

// SegmentsMatchTranscript reports whether the segments reconstruct the given
// transcript. Pause segments carry annotations that are not part of the
// spoken text, so they are dropped before comparing; whitespace runs are
// collapsed because segmentation is free to re-space word boundaries.
func SegmentsMatchTranscript(segments []genai.HighlightedSegment, transcript string) bool {
	var b strings.Builder
	for _, seg := range segments {
		if seg.Type == genai.SegmentPause {
			continue
		}
		b.WriteString(seg.Text)
		b.WriteString(" ")
	}
	return normalizeSpace(b.String()) == normalizeSpace(transcript)
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
