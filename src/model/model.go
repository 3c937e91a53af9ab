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

// go/src/model/model.go
//
// The data model (spec §3): value types with no shared mutable state. Every
// record here is constructed once and never mutated.
package model

// ActionCode is a short-lived decimal code bound to a public key and time
// window.
type ActionCode struct {
	Code      string `json:"code"`
	Pubkey    string `json:"pubkey"`
	Timestamp int64  `json:"timestamp"`
	ExpiresAt int64  `json:"expiresAt"`
	Chain     string `json:"chain"`
	Signature string `json:"signature"`

	// RevokeSignature is set once a caller produces a verifiable revoke
	// signature over the canonical revoke message. The core never stores
	// revocations; this field is the caller's own receipt.
	RevokeSignature string `json:"revokeSignature,omitempty"`
}

// DelegationProof is an owner's signature authorizing a second keypair to
// issue action codes on their behalf, until ExpiresAt.
type DelegationProof struct {
	WalletPubkey    string `json:"walletPubkey"`
	DelegatedPubkey string `json:"delegatedPubkey"`
	Chain           string `json:"chain"`
	ExpiresAt       int64  `json:"expiresAt"`
	Signature       string `json:"signature"`
}

// DelegatedActionCode is an ActionCode whose Pubkey equals
// Proof.DelegatedPubkey, carrying the proof that authorized it.
type DelegatedActionCode struct {
	ActionCode
	Proof DelegationProof `json:"delegationProof"`
}

// CodeGenerationConfig configures code length, TTL, and clock skew
// tolerance for a strategy.
type CodeGenerationConfig struct {
	CodeLength  int
	TTLMs       int64
	ClockSkewMs int64
}

const (
	minCodeLength = 6
	maxCodeLength = 24
)

// Normalize clamps CodeLength to [6,24] and returns the adjusted config. It
// does not validate TTLMs; callers must reject non-positive TTLs themselves.
func (c CodeGenerationConfig) Normalize() CodeGenerationConfig {
	if c.CodeLength < minCodeLength {
		c.CodeLength = minCodeLength
	}
	if c.CodeLength > maxCodeLength {
		c.CodeLength = maxCodeLength
	}
	return c
}
