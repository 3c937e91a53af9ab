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

// go/src/solana/transaction.go
//
// An opaque transaction representation and the meta-binding operations of
// spec §4.7. The module deliberately does not speak the real Solana wire
// format (legacy or versioned); it models only the shape those formats share
// that the binding checks below need: a flat account key list, an
// instruction list referencing accounts by index, and address lookup table
// references for versioned messages. A real integration sits a thin
// translation layer between its wire decoder and this type.
package solana

import (
	"github.com/actioncodes/protocol/src/crypto"
	"github.com/actioncodes/protocol/src/errs"
	"github.com/actioncodes/protocol/src/meta"
)

// MemoProgramID is the Solana Memo Program (v2) address. Protocol meta is
// always carried as the data of a single instruction invoking this program.
const MemoProgramID = "MemoSq4gqABAXKb96qnH8TysNcWxMyWCqXgDLGmfcHr"

// AccountKey is a base58-encoded account address.
type AccountKey string

// Instruction references its program and accounts by index into the
// transaction's resolved account key list.
type Instruction struct {
	ProgramIDIndex int
	AccountIndexes []int
	Data           []byte
}

// AddressTableLookup names an on-chain lookup table and the indexes within
// it that this transaction resolves into writable and readonly accounts.
type AddressTableLookup struct {
	AccountKey      AccountKey
	WritableIndexes []int
	ReadonlyIndexes []int
}

// Transaction is the opaque handle the adapter's transaction operations
// consume. StaticAccountKeys holds every account named directly in the
// message; accounts reached only through AddressTableLookups are not in
// this slice until resolved by a LookupResolver.
type Transaction struct {
	Versioned              bool
	NumRequiredSignatures  int
	StaticAccountKeys      []AccountKey
	AddressTableLookups    []AddressTableLookup
	Instructions           []Instruction
	// Signatures holds one 64-byte entry per required signer, in the same
	// order as the leading NumRequiredSignatures entries of
	// StaticAccountKeys. A nil or all-zero entry means "not yet signed".
	Signatures [][]byte
}

// LookupResolver resolves the writable/readonly account keys named by a
// transaction's address lookup tables. It is an injected capability:
// resolving a lookup table requires reading on-chain state, which the core
// never does itself.
type LookupResolver interface {
	Resolve(lookups []AddressTableLookup) (writable, readonly []AccountKey, err error)
}

func isZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}

// signerKeys returns the actual signers: those of the account keys the
// transaction's header designates as required signers whose signature slot
// holds a non-empty, non-zero signature.
func (tx Transaction) signerKeys() []AccountKey {
	n := tx.NumRequiredSignatures
	if n > len(tx.StaticAccountKeys) {
		n = len(tx.StaticAccountKeys)
	}
	var out []AccountKey
	for i := 0; i < n; i++ {
		if i < len(tx.Signatures) && len(tx.Signatures[i]) > 0 && !isZero(tx.Signatures[i]) {
			out = append(out, tx.StaticAccountKeys[i])
		}
	}
	return out
}

func containsKey(keys []AccountKey, k string) bool {
	for _, key := range keys {
		if string(key) == k {
			return true
		}
	}
	return false
}

// GetProtocolMeta returns the raw bytes of the first memo instruction whose
// data is a well-formed protocol meta string, or nil if none is found.
// "Memo instruction" means any instruction whose program id index names
// MemoProgramID in the transaction's static account keys.
func GetProtocolMeta(tx Transaction) []byte {
	for _, ix := range tx.Instructions {
		if ix.ProgramIDIndex < 0 || ix.ProgramIDIndex >= len(tx.StaticAccountKeys) {
			continue
		}
		if string(tx.StaticAccountKeys[ix.ProgramIDIndex]) != MemoProgramID {
			continue
		}
		if _, err := meta.Parse(string(ix.Data)); err == nil {
			return ix.Data
		}
	}
	return nil
}

// ParseMeta returns the parsed protocol meta fields carried by tx, or nil if
// tx carries none.
func ParseMeta(tx Transaction) (*meta.Fields, error) {
	raw := GetProtocolMeta(tx)
	if raw == nil {
		return nil, nil
	}
	fields, err := meta.Parse(string(raw))
	if err != nil {
		return nil, err
	}
	return &fields, nil
}

// VerifyTransactionMatchesCode checks that tx carries protocol meta binding
// it to the action code identified by (code, pubkey, expiresAtMs), at the
// given logical time nowMs.
func VerifyTransactionMatchesCode(code, pubkey string, expiresAtMs, nowMs int64, tx Transaction) error {
	fields, err := ParseMeta(tx)
	if err != nil {
		return err
	}
	if fields == nil {
		return errs.New(errs.KindMissingMeta, "", "transaction carries no protocol meta")
	}
	if fields.Ver != 2 {
		return errs.New(errs.KindMetaMismatch, "ver", "expected protocol meta version 2")
	}
	if fields.ID != crypto.CodeHash(code) {
		return errs.New(errs.KindMetaMismatch, "id", "meta id does not match action code hash")
	}
	if fields.Intent != pubkey {
		return errs.New(errs.KindMetaMismatch, "int", "meta intent does not match action code pubkey")
	}
	if nowMs > expiresAtMs {
		return errs.New(errs.KindExpiredCode, "", "action code expired")
	}
	return nil
}

// VerifyTransactionSignedByIntentOwner checks that the intent pubkey (and
// the issuer pubkey, when present and distinct) are both among tx's actual
// signers.
func VerifyTransactionSignedByIntentOwner(tx Transaction) error {
	fields, err := ParseMeta(tx)
	if err != nil {
		return err
	}
	if fields == nil {
		return errs.New(errs.KindMissingMeta, "", "transaction carries no protocol meta")
	}
	signers := tx.signerKeys()
	if !containsKey(signers, fields.Intent) {
		return errs.New(errs.KindNotSignedByIntentOwner, "int", "intent pubkey did not sign the transaction")
	}
	issuer := fields.EffectiveIssuer()
	if issuer != fields.Intent && !containsKey(signers, issuer) {
		return errs.New(errs.KindNotSignedByIssuer, "iss", "issuer pubkey did not sign the transaction")
	}
	return nil
}

// AttachProtocolMeta returns a copy of tx with a new memo instruction
// carrying metaString, leaving every existing instruction's ProgramIDIndex
// and AccountIndexes numerically unchanged. It refuses to attach over an
// existing meta instruction. For a versioned transaction that has address
// table lookups and does not list the memo program among its static account
// keys, resolver must be non-nil; if the resolver finds the memo program only
// through a lookup table, the call fails. The returned transaction carries a
// fresh set of NumRequiredSignatures zero-filled signatures, since the
// message bytes have changed.
func AttachProtocolMeta(tx Transaction, metaString string, resolver LookupResolver) (Transaction, error) {
	if GetProtocolMeta(tx) != nil {
		return Transaction{}, errs.New(errs.KindInvalidTransactionFormat, "", "transaction already carries protocol meta")
	}

	out := tx
	out.StaticAccountKeys = append([]AccountKey{}, tx.StaticAccountKeys...)
	out.Instructions = append([]Instruction{}, tx.Instructions...)
	out.AddressTableLookups = append([]AddressTableLookup{}, tx.AddressTableLookups...)

	memoIndex := -1
	for i, k := range out.StaticAccountKeys {
		if string(k) == MemoProgramID {
			memoIndex = i
			break
		}
	}

	if memoIndex == -1 && tx.Versioned && len(tx.AddressTableLookups) > 0 {
		if resolver == nil {
			return Transaction{}, errs.New(errs.KindInvalidTransactionFormat, "", "versioned transaction requires a lookup resolver")
		}
		writable, readonly, err := resolver.Resolve(tx.AddressTableLookups)
		if err != nil {
			return Transaction{}, errs.New(errs.KindInvalidTransactionFormat, "", "lookup resolution failed: "+err.Error())
		}
		if containsKey(writable, MemoProgramID) || containsKey(readonly, MemoProgramID) {
			return Transaction{}, errs.New(errs.KindInvalidTransactionFormat, "", "memo program only reachable via lookup table, not directly invokable")
		}
	}

	if memoIndex == -1 {
		out.StaticAccountKeys = append(out.StaticAccountKeys, AccountKey(MemoProgramID))
		memoIndex = len(out.StaticAccountKeys) - 1
	}

	out.Instructions = append(out.Instructions, Instruction{
		ProgramIDIndex: memoIndex,
		AccountIndexes: nil,
		Data:           []byte(metaString),
	})

	out.Signatures = make([][]byte, out.NumRequiredSignatures)
	for i := range out.Signatures {
		out.Signatures[i] = make([]byte, signatureSize)
	}
	return out, nil
}
