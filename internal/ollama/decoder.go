package ollama

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
)

const (
	initialLineBuffer = 64 * 1024
	maxLineBuffer     = 10 * 1024 * 1024
)

// LineDecoder turns a newline-delimited JSON body into incremental text
// payloads. Empty lines are skipped silently; lines that are not valid JSON
// are logged and skipped. It is single-pass and cannot be restarted.
type LineDecoder struct {
	scanner *bufio.Scanner
	logger  *slog.Logger
	payload string
	err     error
}

// NewLineDecoder creates a decoder reading from r. Diagnostics for skipped
// fragments go to logger; a nil logger uses slog.Default().
func NewLineDecoder(r io.Reader, logger *slog.Logger) *LineDecoder {
	if logger == nil {
		logger = slog.Default()
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, initialLineBuffer), maxLineBuffer)
	return &LineDecoder{scanner: scanner, logger: logger}
}

// Next advances to the next payload. It returns false when the body is
// exhausted or a read error occurred; check Err to tell them apart.
func (d *LineDecoder) Next() bool {
	for d.scanner.Scan() {
		line := d.scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var resp generateResponse
		if err := json.Unmarshal(line, &resp); err != nil {
			derr := &DecodeError{Fragment: string(line), Err: err}
			d.logger.Warn("skipping stream fragment", slog.Any("error", derr))
			continue
		}
		if resp.Error != "" {
			d.logger.Warn("ollama reported an error mid-stream", slog.String("message", resp.Error))
		}

		d.payload = resp.Response
		return true
	}
	if err := d.scanner.Err(); err != nil {
		d.err = fmt.Errorf("failed to read stream: %w", err)
	}
	d.payload = ""
	return false
}

// Payload returns the text extracted by the last successful Next. A fragment
// without a "response" field yields "".
func (d *LineDecoder) Payload() string {
	return d.payload
}

// Err returns the read error that stopped decoding, if any. Malformed
// fragments are never reported here.
func (d *LineDecoder) Err() error {
	return d.err
}
