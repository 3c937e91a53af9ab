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

// go/src/errs/errors.go
package errs

import "fmt"

// Kind is the closed set of error kinds the protocol surfaces across
// process boundaries. Kinds are stable strings: callers may match on them
// without depending on Go error identity.
type Kind string

const (
	KindExpiredCode              Kind = "EXPIRED_CODE"
	KindInvalidCode               Kind = "INVALID_CODE"
	KindInvalidCodeFormat        Kind = "INVALID_CODE_FORMAT"
	KindInvalidSignature         Kind = "INVALID_SIGNATURE"
	KindMissingMeta              Kind = "MISSING_META"
	KindInvalidMetaFormat        Kind = "INVALID_META_FORMAT"
	KindMetaMismatch             Kind = "META_MISMATCH"
	KindMetaTooLarge             Kind = "META_TOO_LARGE"
	KindInvalidTransactionFormat Kind = "INVALID_TRANSACTION_FORMAT"
	KindNotSignedByIntentOwner   Kind = "TRANSACTION_NOT_SIGNED_BY_INTENDED_OWNER"
	KindNotSignedByIssuer        Kind = "TRANSACTION_NOT_SIGNED_BY_ISSUER"
	KindInvalidPubkeyFormat      Kind = "INVALID_PUBKEY_FORMAT"
	KindInvalidInput             Kind = "INVALID_INPUT"
	KindMissingRequiredField     Kind = "MISSING_REQUIRED_FIELD"
	KindCryptoError              Kind = "CRYPTO_ERROR"
	KindInvalidDigest             Kind = "INVALID_DIGEST"
	KindInvalidAdapter           Kind = "INVALID_ADAPTER"
)

// Error is the single typed error shape for the protocol. Detail is a
// human-readable message; it must never contain signature material, private
// key bytes, or derived code digits.
type Error struct {
	Kind   Kind
	Field  string
	Detail string
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field %q)", e.Kind, e.Detail, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

// Is lets errors.Is(err, errs.New(KindX, "", "")) match by Kind alone,
// ignoring Field/Detail, which is how callers are expected to test for a
// specific kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New constructs an *Error. Field may be empty when the error is not
// attributable to a single input field.
func New(kind Kind, field, detail string) *Error {
	return &Error{Kind: kind, Field: field, Detail: detail}
}

// Sentinel returns a bare *Error carrying only a Kind, suitable for use as
// the target of errors.Is.
func Sentinel(kind Kind) *Error {
	return &Error{Kind: kind}
}
