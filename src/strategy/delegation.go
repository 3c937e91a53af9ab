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

// go/src/strategy/delegation.go
//
// The delegation strategy (spec §4.5): a code issued by a delegated key
// under a wallet owner's pre-signed proof. This package never generates an
// owner's proof signature; it only consumes one a caller already has.
package strategy

import (
	"github.com/actioncodes/protocol/src/errs"
	"github.com/actioncodes/protocol/src/model"
)

// maxDelegationFutureMs bounds how far into the future a delegation proof's
// expiresAt may be set: 365 days.
const maxDelegationFutureMs = int64(365) * 24 * 3600 * 1000

// ValidateDelegationProof checks a proof's own invariants: non-empty keys
// and chain, and an expiresAt that is neither already past nor further out
// than a year.
func ValidateDelegationProof(proof model.DelegationProof, nowMs int64) error {
	if proof.WalletPubkey == "" {
		return errs.New(errs.KindMissingRequiredField, "walletPubkey", "delegation proof missing walletPubkey")
	}
	if proof.DelegatedPubkey == "" {
		return errs.New(errs.KindMissingRequiredField, "delegatedPubkey", "delegation proof missing delegatedPubkey")
	}
	if proof.Chain == "" {
		return errs.New(errs.KindMissingRequiredField, "chain", "delegation proof missing chain")
	}
	if proof.ExpiresAt <= nowMs {
		return errs.New(errs.KindExpiredCode, "expiresAt", "delegation proof has expired")
	}
	if proof.ExpiresAt > nowMs+maxDelegationFutureMs {
		return errs.New(errs.KindInvalidInput, "expiresAt", "delegation proof expiresAt is further than one year out")
	}
	return nil
}

// GenerateDelegatedCode validates proof, then derives an ActionCode exactly
// as GenerateCode does, requiring the derived pubkey to equal
// proof.DelegatedPubkey.
func GenerateDelegatedCode(proof model.DelegationProof, message []byte, chain, signature string, cfg model.CodeGenerationConfig, nowMs int64) (model.DelegatedActionCode, error) {
	if err := ValidateDelegationProof(proof, nowMs); err != nil {
		return model.DelegatedActionCode{}, err
	}

	ac, err := GenerateCode(message, chain, signature, cfg)
	if err != nil {
		return model.DelegatedActionCode{}, err
	}
	if ac.Pubkey != proof.DelegatedPubkey {
		return model.DelegatedActionCode{}, errs.New(errs.KindInvalidInput, "delegatedPubkey", "canonical message pubkey does not match the delegation proof")
	}

	return model.DelegatedActionCode{ActionCode: ac, Proof: proof}, nil
}

// ValidateDelegatedCode re-validates the embedded proof and the structural
// invariants tying a delegated code to it, then defers to ValidateCode for
// the usual format/expiration checks. It performs no cryptographic
// verification: the façade invokes the chain adapter for that, using the
// full DelegatedActionCode (proof included) so the adapter can re-verify
// both the owner's and the delegated key's signatures.
func ValidateDelegatedCode(dac model.DelegatedActionCode, nowMs int64, cfg model.CodeGenerationConfig) error {
	if err := ValidateDelegationProof(dac.Proof, nowMs); err != nil {
		return err
	}
	if dac.Pubkey != dac.Proof.DelegatedPubkey {
		return errs.New(errs.KindInvalidInput, "delegatedPubkey", "action code pubkey does not match the delegation proof")
	}
	if dac.ExpiresAt > dac.Proof.ExpiresAt {
		return errs.New(errs.KindInvalidInput, "expiresAt", "action code outlives its delegation proof")
	}
	return ValidateCode(dac.ActionCode, nowMs, cfg)
}
