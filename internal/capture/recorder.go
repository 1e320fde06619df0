package capture

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// DefaultRecordingMimeType is used when a recording is started without an
// explicit MIME type.
const DefaultRecordingMimeType = "audio/webm"

var (
	// ErrAlreadyRecording is returned when Start is called while a recording
	// is in progress. Concurrent acquisition is prevented by construction:
	// callers must Stop or Reset before starting again.
	ErrAlreadyRecording = errors.New("recording already in progress")

	// ErrNotRecording is returned when chunks arrive or Stop is called with
	// no recording in progress.
	ErrNotRecording = errors.New("no recording in progress")

	// ErrEmptyRecording is returned by Stop when no chunks were received.
	ErrEmptyRecording = errors.New("recording contains no audio")
)

// Recorder buffers base64 audio chunks while a recording is in progress and
// seals them into a single audio data URI on Stop.
type Recorder struct {
	recording bool
	mimeType  string
	chunks    []string
}

// Recording reports whether a recording is in progress.
func (r *Recorder) Recording() bool {
	return r.recording
}

// Start begins buffering a new recording. The previous buffer must have been
// sealed or reset first.
func (r *Recorder) Start(mimeType string) error {
	if r.recording {
		return ErrAlreadyRecording
	}
	if mimeType == "" {
		mimeType = DefaultRecordingMimeType
	}
	r.recording = true
	r.mimeType = mimeType
	r.chunks = nil
	return nil
}

// AppendChunk adds one base64-encoded audio chunk to the buffer.
func (r *Recorder) AppendChunk(data string) error {
	if !r.recording {
		return ErrNotRecording
	}
	if _, err := base64.StdEncoding.DecodeString(data); err != nil {
		return fmt.Errorf("chunk is not valid base64: %w", err)
	}
	r.chunks = append(r.chunks, data)
	return nil
}

// Stop concatenates the buffered chunks into a single audio data URI and
// clears the buffer. The chunks are decoded and re-encoded as one payload so
// the result is a single well-formed base64 stream, not a concatenation of
// padded fragments.
func (r *Recorder) Stop() (string, error) {
	if !r.recording {
		return "", ErrNotRecording
	}
	r.recording = false

	if len(r.chunks) == 0 {
		return "", ErrEmptyRecording
	}

	var raw []byte
	for _, chunk := range r.chunks {
		b, err := base64.StdEncoding.DecodeString(chunk)
		if err != nil {
			r.chunks = nil
			return "", fmt.Errorf("chunk is not valid base64: %w", err)
		}
		raw = append(raw, b...)
	}
	mimeType := r.mimeType
	r.chunks = nil

	return BuildDataURI(mimeType, raw), nil
}

// Reset stops any recording in progress and discards the buffer.
func (r *Recorder) Reset() {
	r.recording = false
	r.mimeType = ""
	r.chunks = nil
}

// BuildDataURI encodes raw bytes as a base64 data URI, the same output shape
// for the recording and upload paths.
func BuildDataURI(mimeType string, raw []byte) string {
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(raw)
}

// ValidDataURI reports whether s looks like a base64 data URI with a MIME type.
func ValidDataURI(s string) bool {
	if !strings.HasPrefix(s, "data:") {
		return false
	}
	meta, _, ok := strings.Cut(strings.TrimPrefix(s, "data:"), ",")
	return ok && strings.HasSuffix(meta, ";base64") && len(meta) > len(";base64")
}
