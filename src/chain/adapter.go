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

// go/src/chain/adapter.go
//
// The chain adapter contract (spec §4.6): four pure, boolean-returning
// verification operations every registered chain must implement. Adapters
// never throw; they fold every failure mode — decode errors, length
// mismatches, cryptographic rejection — into false, with the same sequence
// of verification steps run regardless of which one failed first.
package chain

import "github.com/actioncodes/protocol/src/model"

// Adapter is implemented once per supported chain and registered with the
// façade under a chain identifier string.
type Adapter interface {
	// VerifyWithWallet checks that ActionCode.Signature is a valid
	// signature by ActionCode.Pubkey over the canonical generation
	// message for (Pubkey, Timestamp).
	VerifyWithWallet(ac model.ActionCode) bool

	// VerifyWithDelegation checks both the owner's signature over the
	// delegation proof and the delegated key's signature over the
	// canonical generation message. Both checks always run.
	VerifyWithDelegation(dac model.DelegatedActionCode) bool

	// VerifyRevokeWithWallet checks revokeSig as a wallet signature over
	// the canonical revoke message for ac.
	VerifyRevokeWithWallet(ac model.ActionCode, revokeSig string) bool

	// VerifyRevokeWithDelegation is the delegation-mode analogue of
	// VerifyRevokeWithWallet: it re-verifies the delegation proof and the
	// delegated key's revoke signature, both unconditionally.
	VerifyRevokeWithDelegation(dac model.DelegatedActionCode, revokeSig string) bool
}
