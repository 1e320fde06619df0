// Package capture holds the speech-acquisition primitives: the live
// transcript fold, the chunked audio recorder, and data URI assembly for
// uploaded files. All three paths produce the same normalized artifact: a
// speech sample that is either plain text or a base64 audio data URI.
package capture

import "strings"

// Transcript folds a stream of incremental recognition deltas into the
// current live text. Finalized deltas are appended to an accumulator; the
// latest interim delta is recombined on top and replaced by the next one.
// It is independent of the delivery mechanism feeding it.
type Transcript struct {
	final   strings.Builder
	interim string
}

// Apply consumes one recognition delta. Final deltas are committed to the
// accumulator and clear the interim; non-final deltas replace the interim.
func (t *Transcript) Apply(text string, isFinal bool) {
	if isFinal {
		t.final.WriteString(text)
		t.interim = ""
		return
	}
	t.interim = text
}

// Current returns the live text: all finalized deltas plus the latest interim.
func (t *Transcript) Current() string {
	return t.final.String() + t.interim
}

// Reset discards all accumulated and interim text.
func (t *Transcript) Reset() {
	t.final.Reset()
	t.interim = ""
}
