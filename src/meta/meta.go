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

// go/src/meta/meta.go
//
// Protocol meta codec: the "actioncodes:"-prefixed url-style string attached
// to a chain transaction to bind it to an ActionCode (spec §4.3).
package meta

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	orderedmap "github.com/elliotchance/orderedmap/v2"

	"github.com/actioncodes/protocol/src/errs"
)

const (
	prefix     = "actioncodes:"
	maxTotal   = 512
	maxPayload = 512
	version    = 2
)

// Fields is the parsed form of a protocol meta string.
type Fields struct {
	Ver     int
	ID      string
	Intent  string
	Issuer  string // empty means "equal to Intent"
	Payload any    // nil when absent
}

// fieldOrder is the canonical, lexically stable key order the wire format
// commits to: ver, id, int, iss?, p?.
var fieldOrder = []string{"ver", "id", "int", "iss", "p"}

// Build serializes f into the "actioncodes:" wire form. iss is omitted
// when it equals int, per spec §4.3.
func Build(f Fields) (string, error) {
	if f.Ver != version {
		return "", errs.New(errs.KindInvalidMetaFormat, "ver", "must be 2")
	}
	if f.ID == "" {
		return "", errs.New(errs.KindMissingRequiredField, "id", "must not be empty")
	}
	if f.Intent == "" {
		return "", errs.New(errs.KindMissingRequiredField, "int", "must not be empty")
	}

	values := orderedmap.NewOrderedMap[string, string]()
	values.Set("ver", strconv.Itoa(f.Ver))
	values.Set("id", f.ID)
	values.Set("int", f.Intent)
	if f.Issuer != "" && f.Issuer != f.Intent {
		values.Set("iss", f.Issuer)
	}
	if f.Payload != nil {
		encoded, err := encodePayload(f.Payload)
		if err != nil {
			return "", err
		}
		if len(encoded) > maxPayload {
			return "", errs.New(errs.KindMetaTooLarge, "p", "payload encoded form exceeds 512 bytes")
		}
		values.Set("p", encoded)
	}

	var b strings.Builder
	b.WriteString(prefix)
	first := true
	for _, key := range fieldOrder {
		raw, ok := values.Get(key)
		if !ok {
			continue
		}
		if !first {
			b.WriteByte('&')
		}
		first = false
		b.WriteString(key)
		b.WriteByte('=')
		if key == "p" {
			b.WriteString(raw)
		} else {
			b.WriteString(url.QueryEscape(raw))
		}
	}

	out := b.String()
	if len(out) > maxTotal {
		return "", errs.New(errs.KindMetaTooLarge, "", "serialized meta exceeds 512 bytes")
	}
	return out, nil
}

// encodePayload produces the url-encoded compact JSON form of p.
func encodePayload(p any) (string, error) {
	compact, err := json.Marshal(p)
	if err != nil {
		return "", errs.New(errs.KindInvalidInput, "p", "payload is not JSON-serializable")
	}
	return url.QueryEscape(string(compact)), nil
}

// Parse reverses Build. Unknown keys are rejected; ver, id, int are
// required; whitespace around each value is trimmed after url-decoding.
func Parse(s string) (Fields, error) {
	if !strings.HasPrefix(s, prefix) {
		return Fields{}, errs.New(errs.KindInvalidMetaFormat, "", "missing actioncodes: prefix")
	}
	if len(s) > maxTotal {
		return Fields{}, errs.New(errs.KindMetaTooLarge, "", "serialized meta exceeds 512 bytes")
	}
	body := strings.TrimPrefix(s, prefix)

	raw := map[string]string{}
	if body != "" {
		for _, pair := range strings.Split(body, "&") {
			kv := strings.SplitN(pair, "=", 2)
			if len(kv) != 2 {
				return Fields{}, errs.New(errs.KindInvalidMetaFormat, "", fmt.Sprintf("malformed key=value pair %q", pair))
			}
			key := kv[0]
			switch key {
			case "ver", "id", "int", "iss", "p":
			default:
				return Fields{}, errs.New(errs.KindInvalidMetaFormat, key, "unknown key")
			}
			value, err := url.QueryUnescape(kv[1])
			if err != nil {
				return Fields{}, errs.New(errs.KindInvalidMetaFormat, key, "invalid url-encoding")
			}
			raw[key] = strings.TrimSpace(value)
		}
	}

	verStr, ok := raw["ver"]
	if !ok {
		return Fields{}, errs.New(errs.KindMissingRequiredField, "ver", "required")
	}
	id, ok := raw["id"]
	if !ok {
		return Fields{}, errs.New(errs.KindMissingRequiredField, "id", "required")
	}
	intent, ok := raw["int"]
	if !ok {
		return Fields{}, errs.New(errs.KindMissingRequiredField, "int", "required")
	}
	ver, err := strconv.Atoi(strings.TrimSpace(verStr))
	if err != nil {
		return Fields{}, errs.New(errs.KindInvalidMetaFormat, "ver", "must be an integer")
	}

	out := Fields{Ver: ver, ID: id, Intent: intent}
	if iss, ok := raw["iss"]; ok {
		out.Issuer = iss
	}
	if p, ok := raw["p"]; ok {
		var payload any
		if err := json.Unmarshal([]byte(p), &payload); err != nil {
			return Fields{}, errs.New(errs.KindInvalidMetaFormat, "p", "payload is not valid JSON")
		}
		out.Payload = payload
	}
	return out, nil
}

// EffectiveIssuer returns f.Issuer, falling back to f.Intent when Issuer was
// omitted (i.e. equal to Intent at serialization time).
func (f Fields) EffectiveIssuer() string {
	if f.Issuer == "" {
		return f.Intent
	}
	return f.Issuer
}
