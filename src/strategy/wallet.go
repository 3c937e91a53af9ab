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

// go/src/strategy/wallet.go
//
// The wallet strategy (spec §4.4): deterministic code derivation from a
// wallet signature, and the structural/expiration checks a code must pass
// before the façade hands it to a chain adapter for signature verification.
package strategy

import (
	"github.com/actioncodes/protocol/src/canon"
	"github.com/actioncodes/protocol/src/crypto"
	"github.com/actioncodes/protocol/src/errs"
	"github.com/actioncodes/protocol/src/model"
)

// GenerateCode derives an ActionCode from a canonical generation message and
// the wallet's signature over it. The signature is the sole entropy source:
// an empty signature always fails rather than silently falling back to any
// other input.
func GenerateCode(message []byte, chain, signature string, cfg model.CodeGenerationConfig) (model.ActionCode, error) {
	if signature == "" {
		return model.ActionCode{}, errs.New(errs.KindInvalidSignature, "signature", "generation requires a non-empty wallet signature")
	}
	cfg = cfg.Normalize()

	env, err := canon.ParseGenerationEnvelope(message)
	if err != nil {
		return model.ActionCode{}, err
	}

	k := crypto.HMACSHA256([]byte(signature), message)
	code, err := crypto.DigitsFromDigest(k, cfg.CodeLength)
	if err != nil {
		return model.ActionCode{}, errs.New(errs.KindCryptoError, "", err.Error())
	}

	return model.ActionCode{
		Code:      code,
		Pubkey:    env.Pubkey,
		Timestamp: env.WindowStart,
		ExpiresAt: env.WindowStart + cfg.TTLMs,
		Chain:     chain,
		Signature: signature,
	}, nil
}

// ValidateCode checks the structural invariants and expiration of ac. It
// performs no cryptographic verification: that is the chain adapter's job,
// invoked by the façade after ValidateCode passes.
func ValidateCode(ac model.ActionCode, nowMs int64, cfg model.CodeGenerationConfig) error {
	cfg = cfg.Normalize()

	if ac.Pubkey == "" {
		return errs.New(errs.KindMissingRequiredField, "pubkey", "action code missing pubkey")
	}
	if ac.Chain == "" {
		return errs.New(errs.KindMissingRequiredField, "chain", "action code missing chain")
	}
	if ac.Signature == "" {
		return errs.New(errs.KindMissingRequiredField, "signature", "action code missing signature")
	}
	if nowMs > ac.ExpiresAt+cfg.ClockSkewMs {
		return errs.New(errs.KindExpiredCode, "", "action code expired")
	}
	if !isDigitStringOfLength(ac.Code, cfg.CodeLength) {
		return errs.New(errs.KindInvalidCodeFormat, "code", "code must be a decimal string of the configured length")
	}
	return nil
}

func isDigitStringOfLength(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
