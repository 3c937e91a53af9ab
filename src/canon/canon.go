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

// go/src/canon/canon.go
//
// Canonical message serializers. Each function emits the byte-exact UTF-8
// JSON a wallet signs or an adapter re-derives to verify a signature; the
// key order and escaping here are wire contracts, not implementation detail.
package canon

import (
	"encoding/json"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/actioncodes/protocol/src/errs"
)

const maxFieldLen = 100

// ValidateField enforces the input guards shared by every canonical
// serializer: non-empty, at most 100 characters, and free of quotes,
// backslashes, and C0/C1 control characters.
func ValidateField(name, value string) error {
	if value == "" {
		return errs.New(errs.KindInvalidInput, name, "must not be empty")
	}
	if utf8.RuneCountInString(value) > maxFieldLen {
		return errs.New(errs.KindInvalidInput, name, "must be at most 100 characters")
	}
	for _, r := range value {
		switch {
		case r == '"' || r == '\\':
			return errs.New(errs.KindInvalidInput, name, "must not contain quote or backslash characters")
		case r <= 0x1F || (r >= 0x7F && r <= 0x9F):
			return errs.New(errs.KindInvalidInput, name, "must not contain control characters")
		}
	}
	return nil
}

func jsonString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	b.WriteString(s)
	b.WriteByte('"')
	return b.String()
}

func jsonInt(v int64) string {
	return strconv.FormatInt(v, 10)
}

// BuildGenerationMessage emits:
//
//	{"id":"actioncodes","ver":1,"pubkey":<P>,"windowStart":<T>}
func BuildGenerationMessage(pubkey string, windowStart int64) ([]byte, error) {
	if err := ValidateField("pubkey", pubkey); err != nil {
		return nil, err
	}
	var b strings.Builder
	b.WriteString(`{"id":"actioncodes","ver":1,"pubkey":`)
	b.WriteString(jsonString(pubkey))
	b.WriteString(`,"windowStart":`)
	b.WriteString(jsonInt(windowStart))
	b.WriteByte('}')
	return []byte(b.String()), nil
}

// BuildRevokeMessage emits:
//
//	{"id":"actioncodes-revoke","ver":1,"pubkey":<P>,"codeHash":<H>,"windowStart":<T>}
func BuildRevokeMessage(pubkey, codeHash string, windowStart int64) ([]byte, error) {
	if err := ValidateField("pubkey", pubkey); err != nil {
		return nil, err
	}
	if err := ValidateField("codeHash", codeHash); err != nil {
		return nil, err
	}
	var b strings.Builder
	b.WriteString(`{"id":"actioncodes-revoke","ver":1,"pubkey":`)
	b.WriteString(jsonString(pubkey))
	b.WriteString(`,"codeHash":`)
	b.WriteString(jsonString(codeHash))
	b.WriteString(`,"windowStart":`)
	b.WriteString(jsonInt(windowStart))
	b.WriteByte('}')
	return []byte(b.String()), nil
}

// BuildDelegationProofMessage emits the pre-signature delegation proof
// bytes the owner signs:
//
//	{"walletPubkey":<W>,"delegatedPubkey":<D>,"expiresAt":<E>,"chain":<C>}
//
// The signature field is intentionally excluded: it cannot sign over
// itself.
func BuildDelegationProofMessage(walletPubkey, delegatedPubkey string, expiresAt int64, chain string) ([]byte, error) {
	if err := ValidateField("walletPubkey", walletPubkey); err != nil {
		return nil, err
	}
	if err := ValidateField("delegatedPubkey", delegatedPubkey); err != nil {
		return nil, err
	}
	if err := ValidateField("chain", chain); err != nil {
		return nil, err
	}
	var b strings.Builder
	b.WriteString(`{"walletPubkey":`)
	b.WriteString(jsonString(walletPubkey))
	b.WriteString(`,"delegatedPubkey":`)
	b.WriteString(jsonString(delegatedPubkey))
	b.WriteString(`,"expiresAt":`)
	b.WriteString(jsonInt(expiresAt))
	b.WriteString(`,"chain":`)
	b.WriteString(jsonString(chain))
	b.WriteByte('}')
	return []byte(b.String()), nil
}

// GenerationEnvelope holds the two fields the wallet/delegation strategies
// need out of a generation message. Unknown fields in the envelope are
// ignored: the strategy treats the rest of the message as opaque.
type GenerationEnvelope struct {
	Pubkey      string `json:"pubkey"`
	WindowStart int64  `json:"windowStart"`
}

// ParseGenerationEnvelope extracts pubkey and windowStart from a canonical
// generation message without assuming anything about its other fields.
func ParseGenerationEnvelope(message []byte) (GenerationEnvelope, error) {
	var env GenerationEnvelope
	if err := json.Unmarshal(message, &env); err != nil {
		return GenerationEnvelope{}, errs.New(errs.KindInvalidInput, "message", "not a valid canonical envelope")
	}
	if env.Pubkey == "" {
		return GenerationEnvelope{}, errs.New(errs.KindMissingRequiredField, "pubkey", "canonical message missing pubkey")
	}
	if env.WindowStart == 0 {
		return GenerationEnvelope{}, errs.New(errs.KindMissingRequiredField, "windowStart", "canonical message missing windowStart")
	}
	return env, nil
}
