package journal

import (
	"bufio"
	"bytes"
	"io"
)

// RecordReader decodes a concatenated stream of LF-delimited JSON records,
// one Record per call to Next. It is restartable across files: the caller
// can open successive journal chunks and feed each one to a fresh
// RecordReader, since the ingester only ever needs one record "in flight" at
// a time.
type RecordReader struct {
	scanner *bufio.Scanner
}

// NewRecordReader wraps r, splitting on LF per the custom split function in
// splitLines.
func NewRecordReader(r io.Reader) *RecordReader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	scanner.Split(splitLines)
	return &RecordReader{scanner: scanner}
}

// Next returns the next decoded record, io.EOF when the stream is
// exhausted, or a decode error (always fatal — see journal.decode). An
// empty line produces nothing, so Next silently advances
// past any number of blank lines before decoding or hitting EOF.
func (rr *RecordReader) Next() (Record, error) {
	for {
		if !rr.scanner.Scan() {
			if err := rr.scanner.Err(); err != nil {
				return Record{}, err
			}
			return Record{}, io.EOF
		}
		line := rr.scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		return decode(line)
	}
}

// splitLines is a bufio.SplitFunc that splits at LF ('\n'), dropping the
// terminator, and emits a final non-empty partial line at end of stream
// even without a trailing LF. An empty line (two consecutive LFs, or a
// leading LF) produces an empty token; Next skips those rather than
// attempting to decode them.
func splitLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
