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

// go/src/protocol/protocol.go
//
// The protocol façade (spec §4.8): strategy selection, the adapter
// registry, and the single entry point callers use to generate, validate,
// and revoke action codes. The façade never holds a private key; it
// suspends at the signing capability and resumes with whatever the host
// returns.
package protocol

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/actioncodes/protocol/src/canon"
	"github.com/actioncodes/protocol/src/chain"
	"github.com/actioncodes/protocol/src/crypto"
	"github.com/actioncodes/protocol/src/errs"
	"github.com/actioncodes/protocol/src/model"
	"github.com/actioncodes/protocol/src/strategy"
)

// SignFn is the host-supplied signing capability. The core treats it as a
// suspension point: it never runs other work concurrently with a pending
// call, and a cancelled or errored call surfaces unchanged with no partial
// ActionCode escaping.
type SignFn func(ctx context.Context, message []byte, chain string) (string, error)

// Protocol owns the adapter registry and code-generation configuration for
// one protocol instance. Many independent instances may coexist in the
// same process; nothing here is global.
type Protocol struct {
	mu       sync.RWMutex
	adapters map[string]chain.Adapter
	cfg      model.CodeGenerationConfig
	logger   *zap.Logger
}

// Option configures a Protocol at construction.
type Option func(*Protocol)

// WithLogger sets the audit logger. The default, also used when l is nil,
// is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(p *Protocol) {
		if l == nil {
			l = zap.NewNop()
		}
		p.logger = l
	}
}

// WithAdapter registers chainID's adapter at construction time.
func WithAdapter(chainID string, a chain.Adapter) Option {
	return func(p *Protocol) { p.adapters[chainID] = a }
}

// New constructs a Protocol with cfg normalized and no adapters registered
// beyond whatever Option values supply.
func New(cfg model.CodeGenerationConfig, opts ...Option) *Protocol {
	p := &Protocol{
		adapters: make(map[string]chain.Adapter),
		cfg:      cfg.Normalize(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// RegisterAdapter adds or replaces the adapter for chainID. Safe for
// concurrent use with GetAdapter and the Generate/Validate/Revoke family;
// writes are serialized, reads observe a consistent snapshot.
func (p *Protocol) RegisterAdapter(chainID string, a chain.Adapter) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.adapters[chainID] = a
	p.logger.Info("adapter registered", zap.String("chain", chainID))
}

// GetAdapter returns the adapter registered for chainID, or INVALID_ADAPTER
// if chainID is not among the configured set.
func (p *Protocol) GetAdapter(chainID string) (chain.Adapter, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	a, ok := p.adapters[chainID]
	if !ok {
		return nil, errs.New(errs.KindInvalidAdapter, "chain", "no adapter registered for chain "+chainID)
	}
	return a, nil
}

// Generate derives an ActionCode from message by invoking signFn and
// handing the result to the wallet strategy. signFn's error, if any,
// propagates unchanged.
func (p *Protocol) Generate(ctx context.Context, message []byte, chainID string, signFn SignFn) (model.ActionCode, error) {
	if _, err := p.GetAdapter(chainID); err != nil {
		return model.ActionCode{}, err
	}
	sig, err := signFn(ctx, message, chainID)
	if err != nil {
		return model.ActionCode{}, err
	}
	if sig == "" {
		return model.ActionCode{}, errs.New(errs.KindInvalidSignature, "signature", "signing capability returned an empty signature")
	}
	ac, err := strategy.GenerateCode(message, chainID, sig, p.cfg)
	if err != nil {
		return model.ActionCode{}, err
	}
	p.logger.Debug("action code generated", zap.String("chain", chainID), zap.Int64("timestamp", ac.Timestamp))
	return ac, nil
}

// GenerateDelegated is the delegation-mode analogue of Generate: proof must
// already carry the owner's pre-signature.
func (p *Protocol) GenerateDelegated(ctx context.Context, proof model.DelegationProof, message []byte, chainID string, signFn SignFn, nowMs int64) (model.DelegatedActionCode, error) {
	if _, err := p.GetAdapter(chainID); err != nil {
		return model.DelegatedActionCode{}, err
	}
	sig, err := signFn(ctx, message, chainID)
	if err != nil {
		return model.DelegatedActionCode{}, err
	}
	if sig == "" {
		return model.DelegatedActionCode{}, errs.New(errs.KindInvalidSignature, "signature", "signing capability returned an empty signature")
	}
	dac, err := strategy.GenerateDelegatedCode(proof, message, chainID, sig, p.cfg, nowMs)
	if err != nil {
		return model.DelegatedActionCode{}, err
	}
	p.logger.Debug("delegated action code generated", zap.String("chain", chainID), zap.Int64("timestamp", dac.Timestamp))
	return dac, nil
}

// Validate re-checks ac's structural invariants and expiration, then asks
// the registered adapter to verify its signature. A false verdict from the
// adapter surfaces as INVALID_SIGNATURE.
func (p *Protocol) Validate(ac model.ActionCode, nowMs int64) error {
	adapter, err := p.GetAdapter(ac.Chain)
	if err != nil {
		return err
	}
	if err := strategy.ValidateCode(ac, nowMs, p.cfg); err != nil {
		return err
	}
	if !adapter.VerifyWithWallet(ac) {
		p.logger.Warn("action code failed signature verification", zap.String("chain", ac.Chain))
		return errs.New(errs.KindInvalidSignature, "signature", "signature does not verify against pubkey")
	}
	return nil
}

// ValidateDelegated is the delegation-mode analogue of Validate.
func (p *Protocol) ValidateDelegated(dac model.DelegatedActionCode, nowMs int64) error {
	adapter, err := p.GetAdapter(dac.Chain)
	if err != nil {
		return err
	}
	if err := strategy.ValidateDelegatedCode(dac, nowMs, p.cfg); err != nil {
		return err
	}
	if !adapter.VerifyWithDelegation(dac) {
		p.logger.Warn("delegated action code failed signature verification", zap.String("chain", dac.Chain))
		return errs.New(errs.KindInvalidSignature, "signature", "delegation signatures do not verify")
	}
	return nil
}

// Revoke signs and verifies the canonical revoke message for ac, returning
// the revoke signature as the caller's receipt. The core never stores it.
func (p *Protocol) Revoke(ctx context.Context, ac model.ActionCode, signFn SignFn) (string, error) {
	adapter, err := p.GetAdapter(ac.Chain)
	if err != nil {
		return "", err
	}
	revokeMsg, err := canon.BuildRevokeMessage(ac.Pubkey, crypto.CodeHash(ac.Code), ac.Timestamp)
	if err != nil {
		return "", err
	}
	sig, err := signFn(ctx, revokeMsg, ac.Chain)
	if err != nil {
		return "", err
	}
	if sig == "" {
		return "", errs.New(errs.KindInvalidSignature, "signature", "signing capability returned an empty revoke signature")
	}
	if !adapter.VerifyRevokeWithWallet(ac, sig) {
		return "", errs.New(errs.KindInvalidSignature, "signature", "revoke signature does not verify")
	}
	p.logger.Info("action code revoked", zap.String("chain", ac.Chain))
	return sig, nil
}

// RevokeDelegated is the delegation-mode analogue of Revoke.
func (p *Protocol) RevokeDelegated(ctx context.Context, dac model.DelegatedActionCode, signFn SignFn) (string, error) {
	adapter, err := p.GetAdapter(dac.Chain)
	if err != nil {
		return "", err
	}
	revokeMsg, err := canon.BuildRevokeMessage(dac.Pubkey, crypto.CodeHash(dac.Code), dac.Timestamp)
	if err != nil {
		return "", err
	}
	sig, err := signFn(ctx, revokeMsg, dac.Chain)
	if err != nil {
		return "", err
	}
	if sig == "" {
		return "", errs.New(errs.KindInvalidSignature, "signature", "signing capability returned an empty revoke signature")
	}
	if !adapter.VerifyRevokeWithDelegation(dac, sig) {
		return "", errs.New(errs.KindInvalidSignature, "signature", "delegated revoke signatures do not verify")
	}
	p.logger.Info("delegated action code revoked", zap.String("chain", dac.Chain))
	return sig, nil
}
