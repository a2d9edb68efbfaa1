// Package bignum wraps math/big with the handful of operations the batch-GCD
// pipeline needs: multiplication, modulo, squaring, exact division, and gcd,
// all on non-negative integers. It exists so the rest of the audit pipeline
// never imports math/big directly, keeping the arbitrary-precision boundary
// in one place.
//
// There is no modular inverse and no primality test here — the audit never
// needs either, and adding them would invite scope creep into code that is
// meant to stay a thin wrapper.
package bignum

import "math/big"

// Int is an arbitrary-precision non-negative integer.
type Int = big.Int

// One is the multiplicative identity used to pad the modulus table to a
// power of two (spec: pad entries are never reported as matches).
func One() *Int { return big.NewInt(1) }

// FromBytes interprets b as an unsigned big-endian integer.
func FromBytes(b []byte) *Int {
	return new(Int).SetBytes(b)
}

// Bytes returns the minimal-length big-endian encoding of n, with no sign
// byte (n is always non-negative here).
func Bytes(n *Int) []byte {
	return n.Bytes()
}

// Mul returns a*b as a new Int.
func Mul(a, b *Int) *Int {
	return new(Int).Mul(a, b)
}

// Mod returns a mod m as a new Int. m must be positive.
func Mod(a, m *Int) *Int {
	return new(Int).Mod(a, m)
}

// Square returns n*n as a new Int.
func Square(n *Int) *Int {
	return new(Int).Mul(n, n)
}

// Div returns the exact quotient a/b, truncating toward zero. Its callers
// only ever divide when b is known to divide a exactly (a remainder-tree
// leaf divided by its own modulus).
func Div(a, b *Int) *Int {
	return new(Int).Div(a, b)
}

// GCD returns the greatest common divisor of a and b, both non-negative.
func GCD(a, b *Int) *Int {
	return new(Int).GCD(nil, nil, a, b)
}

// IsOne reports whether n is the multiplicative identity — used to suppress
// padding leaves and trivial (coprime) GCDs.
func IsOne(n *Int) bool {
	return n.Cmp(big.NewInt(1)) == 0
}
