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

// go/src/sphinxchain/adapter.go
//
// A second chain adapter, for SPHINCS+ (post-quantum) wallets, proving the
// chain adapter contract is not Ed25519-specific. Pubkeys and signatures
// are hex-encoded SPHINCS+ values rather than base58 Ed25519 ones; the
// Merkle-leaf archival that the original key/signing backends performed for
// incremental verification is out of scope here; this adapter only needs
// Spx_verify.
package sphinxchain

import (
	"encoding/hex"

	"github.com/kasperdi/SPHINCSPLUS-golang/parameters"
	"github.com/kasperdi/SPHINCSPLUS-golang/sphincs"

	"github.com/actioncodes/protocol/src/canon"
	"github.com/actioncodes/protocol/src/crypto"
	"github.com/actioncodes/protocol/src/model"
)

// ChainID is the identifier this adapter registers under with the façade.
const ChainID = "sphinx"

// spxParams fixes the parameter set every sphinx-chain key and signature is
// verified under: SHAKE256-192f, robust variant.
var spxParams = parameters.MakeSphincsPlusSHAKE256192fRobust(false)

// Adapter implements chain.Adapter for SPHINCS+ keys.
type Adapter struct{}

// NewAdapter constructs a sphinx-chain adapter. It holds no state beyond
// the package-level parameter set.
func NewAdapter() *Adapter {
	return &Adapter{}
}

func verify(pubkeyHex, sigHex string, message []byte) bool {
	pkBytes, err := hex.DecodeString(pubkeyHex)
	if err != nil {
		return false
	}
	sigBytes, err := hex.DecodeString(sigHex)
	if err != nil {
		return false
	}
	pk, err := sphincs.DeserializePK(spxParams, pkBytes)
	if err != nil {
		return false
	}
	sig, err := sphincs.DeserializeSignature(spxParams, sigBytes)
	if err != nil {
		return false
	}
	return sphincs.Spx_verify(spxParams, message, sig, pk)
}

// VerifyWithWallet implements chain.Adapter.
func (a *Adapter) VerifyWithWallet(ac model.ActionCode) bool {
	msg, err := canon.BuildGenerationMessage(ac.Pubkey, ac.Timestamp)
	if err != nil {
		return false
	}
	return verify(ac.Pubkey, ac.Signature, msg)
}

// VerifyWithDelegation implements chain.Adapter, verifying the owner's
// proof signature and the delegated key's generation signature
// unconditionally.
func (a *Adapter) VerifyWithDelegation(dac model.DelegatedActionCode) bool {
	proofMsg, proofErr := canon.BuildDelegationProofMessage(
		dac.Proof.WalletPubkey, dac.Proof.DelegatedPubkey, dac.Proof.ExpiresAt, dac.Proof.Chain,
	)
	ownerOK := proofErr == nil && verify(dac.Proof.WalletPubkey, dac.Proof.Signature, proofMsg)

	genMsg, genErr := canon.BuildGenerationMessage(dac.Pubkey, dac.Timestamp)
	delegatedOK := genErr == nil && verify(dac.Pubkey, dac.Signature, genMsg)

	return ownerOK && delegatedOK
}

// VerifyRevokeWithWallet implements chain.Adapter.
func (a *Adapter) VerifyRevokeWithWallet(ac model.ActionCode, revokeSig string) bool {
	msg, err := canon.BuildRevokeMessage(ac.Pubkey, crypto.CodeHash(ac.Code), ac.Timestamp)
	if err != nil {
		return false
	}
	return verify(ac.Pubkey, revokeSig, msg)
}

// VerifyRevokeWithDelegation implements chain.Adapter.
func (a *Adapter) VerifyRevokeWithDelegation(dac model.DelegatedActionCode, revokeSig string) bool {
	proofMsg, proofErr := canon.BuildDelegationProofMessage(
		dac.Proof.WalletPubkey, dac.Proof.DelegatedPubkey, dac.Proof.ExpiresAt, dac.Proof.Chain,
	)
	ownerOK := proofErr == nil && verify(dac.Proof.WalletPubkey, dac.Proof.Signature, proofMsg)

	revokeMsg, revokeErr := canon.BuildRevokeMessage(dac.Pubkey, crypto.CodeHash(dac.Code), dac.Timestamp)
	delegatedOK := revokeErr == nil && verify(dac.Pubkey, revokeSig, revokeMsg)

	return ownerOK && delegatedOK
}
