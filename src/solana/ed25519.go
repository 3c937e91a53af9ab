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

// go/src/solana/ed25519.go
package solana

import (
	"github.com/btcsuite/btcutil/base58"
	"github.com/cloudflare/circl/sign/ed25519"
)

const (
	pubkeySize    = ed25519.PublicKeySize
	signatureSize = ed25519.SignatureSize
)

// decodePubkey base58-decodes s and requires the result to be exactly 32
// bytes, the only size accepted for an Ed25519 public key.
func decodePubkey(s string) (ed25519.PublicKey, bool) {
	b := base58.Decode(s)
	if len(b) != pubkeySize {
		return nil, false
	}
	return ed25519.PublicKey(b), true
}

// decodeSignature base58-decodes s and requires exactly 64 bytes.
func decodeSignature(s string) ([]byte, bool) {
	b := base58.Decode(s)
	if len(b) != signatureSize {
		return nil, false
	}
	return b, true
}

// verifyEd25519 reports whether sigB58 is a valid Ed25519 signature by
// pubkeyB58 over message. Length checks on the decoded pubkey (32) and
// signature (64) happen before the cryptographic call, and every failure
// mode — bad base58, wrong length, bad signature — returns false with no
// distinguishing side channel.
func verifyEd25519(pubkeyB58, sigB58 string, message []byte) bool {
	pub, ok := decodePubkey(pubkeyB58)
	if !ok {
		return false
	}
	sig, ok := decodeSignature(sigB58)
	if !ok {
		return false
	}
	return ed25519.Verify(pub, message, sig)
}
