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

// go/src/solana/adapter.go
//
// The Ed25519/Solana chain adapter (spec §4.7): reconstructs the canonical
// messages a wallet or delegated key signed and re-verifies them. Every
// predicate below runs its full sequence of checks regardless of where an
// earlier one failed, per the constant-time contract of the chain adapter
// interface.
package solana

import (
	"github.com/actioncodes/protocol/src/canon"
	"github.com/actioncodes/protocol/src/crypto"
	"github.com/actioncodes/protocol/src/model"
)

// ChainID is the identifier this adapter registers under with the façade.
const ChainID = "solana"

// Adapter implements chain.Adapter for Ed25519 keys as used on Solana.
type Adapter struct{}

// NewAdapter constructs a Solana adapter. It holds no state.
func NewAdapter() *Adapter {
	return &Adapter{}
}

// VerifyWithWallet implements chain.Adapter.
func (a *Adapter) VerifyWithWallet(ac model.ActionCode) bool {
	msg, err := canon.BuildGenerationMessage(ac.Pubkey, ac.Timestamp)
	if err != nil {
		return false
	}
	return verifyEd25519(ac.Pubkey, ac.Signature, msg)
}

// VerifyWithDelegation implements chain.Adapter. Both the owner's proof
// signature and the delegated key's generation signature are verified
// unconditionally, independent of whether the other one already failed.
func (a *Adapter) VerifyWithDelegation(dac model.DelegatedActionCode) bool {
	proofMsg, proofErr := canon.BuildDelegationProofMessage(
		dac.Proof.WalletPubkey, dac.Proof.DelegatedPubkey, dac.Proof.ExpiresAt, dac.Proof.Chain,
	)
	ownerOK := proofErr == nil && verifyEd25519(dac.Proof.WalletPubkey, dac.Proof.Signature, proofMsg)

	genMsg, genErr := canon.BuildGenerationMessage(dac.Pubkey, dac.Timestamp)
	delegatedOK := genErr == nil && verifyEd25519(dac.Pubkey, dac.Signature, genMsg)

	return ownerOK && delegatedOK
}

// VerifyRevokeWithWallet implements chain.Adapter.
func (a *Adapter) VerifyRevokeWithWallet(ac model.ActionCode, revokeSig string) bool {
	msg, err := canon.BuildRevokeMessage(ac.Pubkey, crypto.CodeHash(ac.Code), ac.Timestamp)
	if err != nil {
		return false
	}
	return verifyEd25519(ac.Pubkey, revokeSig, msg)
}

// VerifyRevokeWithDelegation implements chain.Adapter, the revoke-path
// analogue of VerifyWithDelegation: both signatures are re-verified
// unconditionally.
func (a *Adapter) VerifyRevokeWithDelegation(dac model.DelegatedActionCode, revokeSig string) bool {
	proofMsg, proofErr := canon.BuildDelegationProofMessage(
		dac.Proof.WalletPubkey, dac.Proof.DelegatedPubkey, dac.Proof.ExpiresAt, dac.Proof.Chain,
	)
	ownerOK := proofErr == nil && verifyEd25519(dac.Proof.WalletPubkey, dac.Proof.Signature, proofMsg)

	revokeMsg, revokeErr := canon.BuildRevokeMessage(dac.Pubkey, crypto.CodeHash(dac.Code), dac.Timestamp)
	delegatedOK := revokeErr == nil && verifyEd25519(dac.Pubkey, revokeSig, revokeMsg)

	return ownerOK && delegatedOK
}
