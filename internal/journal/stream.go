package journal

import (
	"fmt"
	"io"
)

// Stream concatenates the record streams of every chunk in refs, in order,
// presenting them as a single sequence of (user, keys) records — the I→A
// Each chunk is opened lazily, just before its
// first record is requested, and closed as soon as it is exhausted.
type Stream struct {
	refs  []ChunkRef
	idx   int
	cur   io.ReadCloser
	curRR *RecordReader
}

// NewStream returns a Stream over refs, which should already be sorted
// ascending by chunk id (Discover returns them that way).
func NewStream(refs []ChunkRef) *Stream {
	return &Stream{refs: refs}
}

// Next returns the next record across the whole chunk sequence, io.EOF once
// every chunk is exhausted, or a fatal decode/IO error.
func (s *Stream) Next() (Record, error) {
	for {
		if s.curRR == nil {
			if s.idx >= len(s.refs) {
				return Record{}, io.EOF
			}
			ref := s.refs[s.idx]
			rc, err := ref.Open()
			if err != nil {
				return Record{}, err
			}
			s.cur = rc
			s.curRR = NewRecordReader(rc)
		}

		rec, err := s.curRR.Next()
		if err == io.EOF {
			s.cur.Close()
			s.cur = nil
			s.curRR = nil
			s.idx++
			continue
		}
		if err != nil {
			s.cur.Close()
			return Record{}, fmt.Errorf("journal: chunk %s: %w", s.refs[s.idx].Name, err)
		}
		return rec, nil
	}
}

// Close releases the currently open chunk, if any. Safe to call more than
// once.
func (s *Stream) Close() error {
	if s.cur != nil {
		err := s.cur.Close()
		s.cur = nil
		s.curRR = nil
		return err
	}
	return nil
}
