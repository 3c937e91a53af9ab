// MIT License
//
// Copyright (c) 2024 sphinx-core
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// go/src/crypto/primitives.go
package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/holiman/uint256"
	"golang.org/x/crypto/hkdf"
)

// SHA256 returns the SHA-256 digest of data.
func SHA256(data []byte) [32]byte {
	return sha256.Sum256(data)
}

// HMACSHA256 returns HMAC-SHA-256(key, msg).
func HMACSHA256(key, msg []byte) []byte {
	h := hmac.New(sha256.New, key)
	h.Write(msg)
	return h.Sum(nil)
}

// HKDFSHA256 runs standard extract-then-expand HKDF over SHA-256, returning
// L bytes derived from ikm, salt, and info.
func HKDFSHA256(ikm, salt, info []byte, l int) ([]byte, error) {
	r := hkdf.New(sha256.New, ikm, salt, info)
	out := make([]byte, l)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, fmt.Errorf("hkdf: %w", err)
	}
	return out, nil
}

// TruncateBits reads the first ceil(nbits/8) bytes of b as a big-endian
// integer and masks off any bits beyond nbits, mirroring the DT truncation
// used by HOTP/TOTP-style derivations. It never branches on the digest
// value itself.
func TruncateBits(b []byte, nbits int) (*uint256.Int, error) {
	nbytes := (nbits + 7) / 8
	if nbytes <= 0 || nbytes > len(b) {
		return nil, fmt.Errorf("truncate_bits: need %d bytes, have %d", nbytes, len(b))
	}
	v := new(uint256.Int).SetBytes(b[:nbytes])
	extraBits := nbytes*8 - nbits
	if extraBits > 0 {
		mask := new(uint256.Int).Lsh(uint256.NewInt(1), uint(nbits))
		mask.Sub(mask, uint256.NewInt(1))
		v.And(v, mask)
	}
	return v, nil
}

// DigitsFromDigest interprets digest as an unsigned big-endian integer,
// reduces it modulo 10^n, and left-pads the decimal result with zeros to
// exactly n digits. The shape of this computation never branches on the
// resulting digit value: every digest of the same length takes the same
// sequence of uint256 operations regardless of its content.
func DigitsFromDigest(digest []byte, n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("digits_from_digest: n must be positive, got %d", n)
	}
	x := new(uint256.Int).SetBytes(digest)
	modulus := pow10(n)
	r := new(uint256.Int).Mod(x, modulus)
	s := r.Dec()
	if len(s) < n {
		s = zeroPad(s, n)
	}
	return s, nil
}

// pow10 computes 10^n as a uint256.Int. n is bounded by the caller to
// [6,24] (spec.md §3's code-length range), well within uint256 range
// (10^24 < 2^80).
func pow10(n int) *uint256.Int {
	ten := uint256.NewInt(10)
	result := uint256.NewInt(1)
	for i := 0; i < n; i++ {
		result = new(uint256.Int).Mul(result, ten)
	}
	return result
}

func zeroPad(s string, n int) string {
	out := make([]byte, n)
	pad := n - len(s)
	for i := 0; i < pad; i++ {
		out[i] = '0'
	}
	copy(out[pad:], s)
	return string(out)
}

// crockfordAlphabet is the Crockford base32 alphabet: no padding, and it
// omits the visually ambiguous I, L, O, U.
const crockfordAlphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// Base32EncodeCrockford encodes b using Crockford's base32 alphabet with no
// padding.
func Base32EncodeCrockford(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	var out []byte
	var buf uint32
	var bits int
	for _, by := range b {
		buf = (buf << 8) | uint32(by)
		bits += 8
		for bits >= 5 {
			bits -= 5
			idx := (buf >> uint(bits)) & 0x1f
			out = append(out, crockfordAlphabet[idx])
		}
	}
	if bits > 0 {
		idx := (buf << uint(5-bits)) & 0x1f
		out = append(out, crockfordAlphabet[idx])
	}
	return string(out)
}

// CodeHash returns the Crockford base32 encoding of the first 80 bits (10
// bytes) of SHA-256(code).
func CodeHash(code string) string {
	sum := sha256.Sum256([]byte(code))
	return Base32EncodeCrockford(sum[:10])
}
