package solana

import (
	"bytes"
	"testing"

	"github.com/btcsuite/btcutil/base58"
	"github.com/cloudflare/circl/sign/ed25519"

	"github.com/actioncodes/protocol/src/canon"
	"github.com/actioncodes/protocol/src/crypto"
	"github.com/actioncodes/protocol/src/model"
)

// fixedSeedReader yields a deterministic byte stream so adapter tests never
// depend on the system RNG.
type fixedSeedReader struct{ b byte }

func (r *fixedSeedReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = r.b
		r.b++
	}
	return len(p), nil
}

func genKeypair(t *testing.T, seed byte) (pub ed25519.PublicKey, priv ed25519.PrivateKey) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(&fixedSeedReader{b: seed})
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	return pub, priv
}

func b58(b []byte) string { return base58.Encode(b) }

func TestVerifyWithWallet(t *testing.T) {
	pub, priv := genKeypair(t, 1)
	pubB58 := b58(pub)
	const windowStart = int64(1759737720000)

	msg, err := canon.BuildGenerationMessage(pubB58, windowStart)
	if err != nil {
		t.Fatal(err)
	}
	sig := ed25519.Sign(priv, msg)

	ac := model.ActionCode{
		Pubkey:    pubB58,
		Timestamp: windowStart,
		Signature: b58(sig),
	}

	a := NewAdapter()
	if !a.VerifyWithWallet(ac) {
		t.Fatal("expected VerifyWithWallet to succeed")
	}

	tampered := ac
	tampered.Timestamp = windowStart + 1
	if a.VerifyWithWallet(tampered) {
		t.Fatal("expected VerifyWithWallet to fail after timestamp tamper")
	}
}

func TestVerifyWithDelegation(t *testing.T) {
	ownerPub, ownerPriv := genKeypair(t, 10)
	delegatedPub, delegatedPriv := genKeypair(t, 20)
	ownerB58 := b58(ownerPub)
	delegatedB58 := b58(delegatedPub)
	const expiresAt = int64(1790000000000)
	const timestamp = int64(1759737720000)

	proofMsg, err := canon.BuildDelegationProofMessage(ownerB58, delegatedB58, expiresAt, "solana")
	if err != nil {
		t.Fatal(err)
	}
	proofSig := ed25519.Sign(ownerPriv, proofMsg)

	genMsg, err := canon.BuildGenerationMessage(delegatedB58, timestamp)
	if err != nil {
		t.Fatal(err)
	}
	genSig := ed25519.Sign(delegatedPriv, genMsg)

	dac := model.DelegatedActionCode{
		ActionCode: model.ActionCode{
			Pubkey:    delegatedB58,
			Timestamp: timestamp,
			Signature: b58(genSig),
		},
		Proof: model.DelegationProof{
			WalletPubkey:    ownerB58,
			DelegatedPubkey: delegatedB58,
			Chain:           "solana",
			ExpiresAt:       expiresAt,
			Signature:       b58(proofSig),
		},
	}

	a := NewAdapter()
	if !a.VerifyWithDelegation(dac) {
		t.Fatal("expected VerifyWithDelegation to succeed")
	}

	// Tampering with the proof's expiresAt (scenario 5): the owner signature
	// no longer matches the reserialized proof, so verification must fail.
	tampered := dac
	tampered.Proof.ExpiresAt = expiresAt + 1
	if a.VerifyWithDelegation(tampered) {
		t.Fatal("expected VerifyWithDelegation to fail after proof tamper")
	}
}

func TestVerifyRevokeWithWallet(t *testing.T) {
	pub, priv := genKeypair(t, 30)
	pubB58 := b58(pub)
	code := "12345678"
	const timestamp = int64(1759737720000)

	revokeMsg, err := canon.BuildRevokeMessage(pubB58, crypto.CodeHash(code), timestamp)
	if err != nil {
		t.Fatal(err)
	}
	revokeSig := ed25519.Sign(priv, revokeMsg)

	ac := model.ActionCode{Code: code, Pubkey: pubB58, Timestamp: timestamp}

	a := NewAdapter()
	if !a.VerifyRevokeWithWallet(ac, b58(revokeSig)) {
		t.Fatal("expected VerifyRevokeWithWallet to succeed")
	}
	if a.VerifyRevokeWithWallet(ac, b58(bytes.Repeat([]byte{0}, 64))) {
		t.Fatal("expected VerifyRevokeWithWallet to fail on garbage signature")
	}
}

func TestGetProtocolMetaFindsMemoInstruction(t *testing.T) {
	tx := Transaction{
		StaticAccountKeys: []AccountKey{"11111111111111111111111111111111", AccountKey(MemoProgramID)},
		Instructions: []Instruction{
			{ProgramIDIndex: 0, Data: []byte("not meta")},
			{ProgramIDIndex: 1, Data: []byte("actioncodes:ver=2&id=abc123&int=X")},
		},
	}
	got := GetProtocolMeta(tx)
	if got == nil {
		t.Fatal("expected to find protocol meta instruction")
	}
	if string(got) != "actioncodes:ver=2&id=abc123&int=X" {
		t.Fatalf("unexpected meta bytes: %q", got)
	}
}

func TestVerifyTransactionMatchesCodeWrongHash(t *testing.T) {
	code := "12345678"
	pubkey := "intent-owner-pubkey"
	tx := Transaction{
		StaticAccountKeys: []AccountKey{AccountKey(MemoProgramID)},
		Instructions: []Instruction{
			{ProgramIDIndex: 0, Data: []byte("actioncodes:ver=2&id=wrong-hash&int=" + pubkey)},
		},
	}
	err := VerifyTransactionMatchesCode(code, pubkey, 1759737840000, 1759737721000, tx)
	if err == nil {
		t.Fatal("expected META_MISMATCH for wrong hash")
	}
}

func TestVerifyTransactionMatchesCodeExpired(t *testing.T) {
	code := "12345678"
	pubkey := "intent-owner-pubkey"
	metaStr := "actioncodes:ver=2&id=" + crypto.CodeHash(code) + "&int=" + pubkey
	tx := Transaction{
		StaticAccountKeys: []AccountKey{AccountKey(MemoProgramID)},
		Instructions:      []Instruction{{ProgramIDIndex: 0, Data: []byte(metaStr)}},
	}
	err := VerifyTransactionMatchesCode(code, pubkey, 1759737840000, 1759737961000, tx)
	if err == nil {
		t.Fatal("expected EXPIRED_CODE")
	}
}

func TestVerifyTransactionMatchesCodeSuccess(t *testing.T) {
	code := "12345678"
	pubkey := "intent-owner-pubkey"
	metaStr := "actioncodes:ver=2&id=" + crypto.CodeHash(code) + "&int=" + pubkey
	tx := Transaction{
		StaticAccountKeys: []AccountKey{AccountKey(MemoProgramID)},
		Instructions:      []Instruction{{ProgramIDIndex: 0, Data: []byte(metaStr)}},
	}
	if err := VerifyTransactionMatchesCode(code, pubkey, 1759737840000, 1759737721000, tx); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
}

func TestVerifyTransactionSignedByIntentOwner(t *testing.T) {
	intent := "intent-pubkey"
	issuer := "issuer-pubkey"
	metaStr := "actioncodes:ver=2&id=abc&int=" + intent + "&iss=" + issuer

	tx := Transaction{
		NumRequiredSignatures: 2,
		StaticAccountKeys:     []AccountKey{AccountKey(intent), AccountKey(issuer), AccountKey(MemoProgramID)},
		Instructions:          []Instruction{{ProgramIDIndex: 2, Data: []byte(metaStr)}},
		Signatures:            [][]byte{bytes.Repeat([]byte{1}, 64), bytes.Repeat([]byte{2}, 64)},
	}
	if err := VerifyTransactionSignedByIntentOwner(tx); err != nil {
		t.Fatalf("expected both signers present, got %v", err)
	}

	// Issuer's signature slot is zeroed out: issuer no longer counts as an
	// actual signer even though its key is still a static account.
	txMissingIssuer := tx
	txMissingIssuer.Signatures = [][]byte{bytes.Repeat([]byte{1}, 64), make([]byte, 64)}
	if err := VerifyTransactionSignedByIntentOwner(txMissingIssuer); err == nil {
		t.Fatal("expected TRANSACTION_NOT_SIGNED_BY_ISSUER")
	}
}

func TestAttachProtocolMetaPreservesInstructionIndexes(t *testing.T) {
	tx := Transaction{
		NumRequiredSignatures: 1,
		StaticAccountKeys:     []AccountKey{"signer", "programA"},
		Instructions: []Instruction{
			{ProgramIDIndex: 1, AccountIndexes: []int{0}, Data: []byte("payload")},
		},
		Signatures: [][]byte{bytes.Repeat([]byte{9}, 64)},
	}

	out, err := AttachProtocolMeta(tx, "actioncodes:ver=2&id=abc&int=signer", nil)
	if err != nil {
		t.Fatal(err)
	}
	if out.Instructions[0].ProgramIDIndex != 1 || out.Instructions[0].AccountIndexes[0] != 0 {
		t.Fatal("existing instruction indexes must remain unchanged")
	}
	if len(out.Instructions) != 2 {
		t.Fatalf("expected memo instruction appended, got %d instructions", len(out.Instructions))
	}
	memoIx := out.Instructions[1]
	if string(out.StaticAccountKeys[memoIx.ProgramIDIndex]) != MemoProgramID {
		t.Fatal("new instruction must reference the memo program")
	}
	for _, sig := range out.Signatures {
		if len(sig) != signatureSize || !isZero(sig) {
			t.Fatal("expected fresh zero-filled signature set after rewriting the message")
		}
	}

	if _, err := AttachProtocolMeta(out, "actioncodes:ver=2&id=def&int=signer", nil); err == nil {
		t.Fatal("expected INVALID_TRANSACTION_FORMAT when meta already present")
	}
}
