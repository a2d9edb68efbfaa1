// Package sshkey decodes OpenSSH authorized_keys lines and recovers the RSA
// modulus from the ones that carry an ssh-rsa key. Non-RSA algorithms are
// skipped (not an error); truncated or mis-shaped wire framing is reported
// as malformed (also not an error) — only genuine I/O failures propagate as
// Go errors, per the "exception-based control flow → explicit result
// variants" design note this repo follows throughout.
package sshkey

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"strings"
)

// Kind classifies the outcome of parsing one authorized_keys line.
type Kind int

const (
	// KindRSA means Modulus holds the canonical modulus of an ssh-rsa key.
	KindRSA Kind = iota
	// KindSkipped means the line's algorithm is not ssh-rsa; this is
	// expected traffic (ssh-ed25519, ecdsa-*, ...), not an error.
	KindSkipped
	// KindMalformed means the line claims to be ssh-rsa but its base64
	// payload or wire framing is corrupt.
	KindMalformed
)

const rsaPrefix = "ssh-rsa "
const algorithmName = "ssh-rsa"

// Result is the outcome of parsing a single authorized_keys line.
type Result struct {
	// Modulus is the canonical (minimal-length, sign-pad stripped)
	// big-endian modulus. Only populated when Kind == KindRSA.
	Modulus []byte
	Kind    Kind
}

// Parse parses one authorized_keys line and classifies it. The line may have
// a trailing comment or trailing newline; only the first two
// whitespace-separated tokens are consulted. A line that does not begin with
// "ssh-rsa " (including one with leading options) is KindSkipped.
func Parse(line string) Result {
	line = strings.TrimRight(line, "\r\n")
	if !strings.HasPrefix(line, rsaPrefix) {
		return Result{Kind: KindSkipped}
	}

	fields := strings.Fields(line)
	if len(fields) < 2 {
		return Result{Kind: KindMalformed}
	}

	payload, err := base64.StdEncoding.DecodeString(fields[1])
	if err != nil {
		return Result{Kind: KindMalformed}
	}

	parts, ok := splitWireStrings(payload)
	if !ok || len(parts) != 3 {
		return Result{Kind: KindMalformed}
	}

	if string(parts[0]) != algorithmName {
		return Result{Kind: KindMalformed}
	}

	modulus := parts[2]
	if len(modulus) > 0 && modulus[0] == 0x00 {
		modulus = modulus[1:]
	}

	return Result{Kind: KindRSA, Modulus: modulus}
}

// splitWireStrings walks payload as a sequence of 4-byte big-endian
// length-prefixed byte strings, as used throughout the SSH wire protocol.
// It returns false on truncated length prefixes or a claimed length that
// exceeds the remaining bytes — both are "malformed", not panics.
func splitWireStrings(payload []byte) ([][]byte, bool) {
	var parts [][]byte
	for len(payload) > 0 {
		if len(payload) < 4 {
			return nil, false
		}
		n := binary.BigEndian.Uint32(payload[:4])
		payload = payload[4:]
		if uint64(n) > uint64(len(payload)) {
			return nil, false
		}
		parts = append(parts, payload[:n])
		payload = payload[n:]
	}
	return parts, true
}

// Encode re-serializes an ssh-rsa public key from its exponent and canonical
// modulus back into the base64 payload that would appear after "ssh-rsa " in
// an authorized_keys line. It exists primarily to exercise the round-trip
// re-encoding a parsed key
// reproduces the original payload bit-for-bit.
func Encode(exponent, modulusCanonical []byte) string {
	modulus := modulusCanonical
	if len(modulus) > 0 && modulus[0]&0x80 != 0 {
		padded := make([]byte, len(modulus)+1)
		copy(padded[1:], modulus)
		modulus = padded
	}

	payload := wireString([]byte(algorithmName))
	payload = append(payload, wireString(exponent)...)
	payload = append(payload, wireString(modulus)...)
	return base64.StdEncoding.EncodeToString(payload)
}

func wireString(b []byte) []byte {
	out := make([]byte, 4+len(b))
	binary.BigEndian.PutUint32(out[:4], uint32(len(b)))
	copy(out[4:], b)
	return out
}

// String renders k for log messages and error diagnostics.
func (k Kind) String() string {
	switch k {
	case KindRSA:
		return "rsa"
	case KindSkipped:
		return "skipped"
	case KindMalformed:
		return "malformed"
	default:
		return fmt.Sprintf("sshkey.Kind(%d)", int(k))
	}
}
