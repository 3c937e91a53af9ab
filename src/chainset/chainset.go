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

// go/src/chainset/chainset.go
//
// chainset is the one place that knows about every concrete chain.Adapter
// implementation. Both entrypoints (cmd/actioncodes, cmd/actioncodesd) call
// Options to turn a configuration's supportedChains list into the
// protocol.Option values that actually register adapters, so the toggle in
// src/config has a real runtime effect instead of being read and discarded.
package chainset

import (
	"github.com/actioncodes/protocol/src/chain"
	"github.com/actioncodes/protocol/src/protocol"
	"github.com/actioncodes/protocol/src/solana"
	"github.com/actioncodes/protocol/src/sphinxchain"
)

// All is the closed set of chain adapters this build knows how to construct,
// keyed by the chain identifier used in configuration and in
// model.ActionCode.Chain.
func All() map[string]func() chain.Adapter {
	return map[string]func() chain.Adapter{
		solana.ChainID:      func() chain.Adapter { return solana.NewAdapter() },
		sphinxchain.ChainID: func() chain.Adapter { return sphinxchain.NewAdapter() },
	}
}

// Options builds one protocol.WithAdapter option per chain in supported,
// skipping any name this build has no constructor for. An empty or nil
// supported list yields no adapters at all: supportedChains is a closed
// allow-list, not a default-everything toggle.
func Options(supported []string) []protocol.Option {
	available := All()
	opts := make([]protocol.Option, 0, len(supported))
	for _, chainID := range supported {
		ctor, ok := available[chainID]
		if !ok {
			continue
		}
		opts = append(opts, protocol.WithAdapter(chainID, ctor()))
	}
	return opts
}
