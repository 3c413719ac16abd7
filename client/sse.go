package client

import (
	"bufio"
	"bytes"
	"io"
)

// sseScanner scans Server-Sent Events (SSE) streams, yielding the payload
// of each "data:" line. Comment lines and event boundaries are skipped.
type sseScanner struct {
	scanner *bufio.Scanner
	data    string
	err     error
}

// newSSEScanner creates a new SSE scanner over r.
func newSSEScanner(r io.Reader) *sseScanner {
	scanner := bufio.NewScanner(r)
	// Conversation events can exceed bufio's default 64KB token limit
	// once the cumulative text grows long.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &sseScanner{
		scanner: scanner,
	}
}

// Scan advances to the next SSE event
func (s *sseScanner) Scan() bool {
	for s.scanner.Scan() {
		line := s.scanner.Bytes()

		// Skip empty lines (event boundaries)
		if len(line) == 0 {
			continue
		}

		// Look for "data:" prefix
		if bytes.HasPrefix(line, []byte("data:")) {
			s.data = string(bytes.TrimPrefix(bytes.TrimPrefix(line, []byte("data:")), []byte(" ")))
			return true
		}
	}

	s.err = s.scanner.Err()
	return false
}

// Data returns the current event data
func (s *sseScanner) Data() string {
	return s.data
}

// Err returns any scanning error
func (s *sseScanner) Err() error {
	return s.err
}
