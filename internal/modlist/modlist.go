// Package modlist reads and writes the modulus-list interchange format
// between the extract and audit stages: either one lowercase
// hex modulus per line, or a binary packed form (4-byte little-endian
// length, then that many big-endian bytes), per modulus. Both are accepted
// on read; extract writes the hex form.
package modlist

import (
	"bufio"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
)

// WriteHex writes moduli as one lowercase hex string per line.
func WriteHex(w io.Writer, moduli [][]byte) error {
	bw := bufio.NewWriter(w)
	for _, m := range moduli {
		if _, err := bw.WriteString(hex.EncodeToString(m)); err != nil {
			return fmt.Errorf("modlist: write hex: %w", err)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return fmt.Errorf("modlist: write hex: %w", err)
		}
	}
	return bw.Flush()
}

// WriteBinary writes moduli in the packed binary form: for each modulus, a
// 4-byte little-endian length followed by that many bytes of big-endian
// modulus.
func WriteBinary(w io.Writer, moduli [][]byte) error {
	bw := bufio.NewWriter(w)
	var lenBuf [4]byte
	for _, m := range moduli {
		binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(m)))
		if _, err := bw.Write(lenBuf[:]); err != nil {
			return fmt.Errorf("modlist: write binary: %w", err)
		}
		if _, err := bw.Write(m); err != nil {
			return fmt.Errorf("modlist: write binary: %w", err)
		}
	}
	return bw.Flush()
}

// Read accepts either format, sniffing the first few bytes: a packed binary
// stream starts with a 4-byte length whose value, interpreted as the byte
// count of an RSA modulus, is implausible as the start of a hex digit
// sequence only in pathological cases, so sniffing instead checks whether
// the stream's bytes through the first newline are valid hex — if so, it is
// the hex form; otherwise it is read as the binary packed form.
func Read(r io.Reader) ([][]byte, error) {
	br := bufio.NewReader(r)
	peeked, err := br.Peek(4096)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("modlist: read: %w", err)
	}

	if looksLikeHex(peeked) {
		return readHex(br)
	}
	return readBinary(br)
}

// looksLikeHex reports whether the first line of b is a plausible lowercase
// hex string: non-empty, even length, and every byte before the first
// newline (or end of buffer) is a hex digit.
func looksLikeHex(b []byte) bool {
	end := len(b)
	for i, c := range b {
		if c == '\n' {
			end = i
			break
		}
	}
	if end == 0 || end%2 != 0 {
		return false
	}
	for _, c := range b[:end] {
		isHexDigit := (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')
		if !isHexDigit {
			return false
		}
	}
	return true
}

func readHex(r *bufio.Reader) ([][]byte, error) {
	var out [][]byte
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		m, err := hex.DecodeString(line)
		if err != nil {
			return nil, fmt.Errorf("modlist: decode hex line: %w", err)
		}
		out = append(out, m)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("modlist: read hex: %w", err)
	}
	return out, nil
}

func readBinary(r io.Reader) ([][]byte, error) {
	var out [][]byte
	var lenBuf [4]byte
	for {
		if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
			if err == io.EOF {
				return out, nil
			}
			return nil, fmt.Errorf("modlist: read binary length: %w", err)
		}
		n := binary.LittleEndian.Uint32(lenBuf[:])
		buf := make([]byte, n)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("modlist: read binary modulus: %w", err)
		}
		out = append(out, buf)
	}
}
