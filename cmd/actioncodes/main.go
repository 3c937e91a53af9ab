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

// go/cmd/actioncodes/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/actioncodes/protocol/src/canon"
	"github.com/actioncodes/protocol/src/chainset"
	"github.com/actioncodes/protocol/src/config"
	"github.com/actioncodes/protocol/src/meta"
	"github.com/actioncodes/protocol/src/model"
	"github.com/actioncodes/protocol/src/protocol"
	"github.com/actioncodes/protocol/src/solana"
)

func main() {
	log, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "generate":
		err = runGenerate(log, os.Args[2:])
	case "validate":
		err = runValidate(log, os.Args[2:])
	case "revoke":
		err = runRevoke(log, os.Args[2:])
	case "meta-build":
		err = runMetaBuild(os.Args[2:])
	case "meta-parse":
		err = runMetaParse(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
	if err != nil {
		log.Fatal("command failed", zap.String("command", os.Args[1]), zap.Error(err))
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: actioncodes <generate|validate|revoke|meta-build|meta-parse> [flags]")
}

func newProtocol(log *zap.Logger, configPath string) (*protocol.Protocol, error) {
	f, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	opts := append([]protocol.Option{protocol.WithLogger(log)}, chainset.Options(f.SupportedChains)...)
	return protocol.New(f.CodeGenerationConfig(), opts...), nil
}

func runGenerate(log *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	configPath := fs.String("config", "actioncodes.yaml", "path to YAML configuration")
	pubkey := fs.String("pubkey", "", "wallet pubkey")
	windowStart := fs.Int64("window-start", time.Now().UnixMilli(), "window start, ms since epoch")
	chain := fs.String("chain", solana.ChainID, "chain identifier")
	signature := fs.String("signature", "", "wallet signature over the canonical generation message")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *pubkey == "" || *signature == "" {
		return fmt.Errorf("generate requires -pubkey and -signature")
	}

	p, err := newProtocol(log, *configPath)
	if err != nil {
		return err
	}
	msg, err := canon.BuildGenerationMessage(*pubkey, *windowStart)
	if err != nil {
		return err
	}
	ac, err := p.Generate(context.Background(), msg, *chain, fixedSign(*signature))
	if err != nil {
		return err
	}
	return printJSON(ac)
}

func runValidate(log *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	configPath := fs.String("config", "actioncodes.yaml", "path to YAML configuration")
	code := fs.String("code", "", "action code digits")
	pubkey := fs.String("pubkey", "", "wallet pubkey")
	chain := fs.String("chain", solana.ChainID, "chain identifier")
	signature := fs.String("signature", "", "wallet signature over the canonical generation message")
	timestamp := fs.Int64("timestamp", 0, "window start, ms since epoch")
	expiresAt := fs.Int64("expires-at", 0, "expiry, ms since epoch")
	now := fs.Int64("now", time.Now().UnixMilli(), "current time, ms since epoch")
	if err := fs.Parse(args); err != nil {
		return err
	}

	p, err := newProtocol(log, *configPath)
	if err != nil {
		return err
	}
	ac := actionCodeFromFlags(*code, *pubkey, *chain, *signature, *timestamp, *expiresAt)
	if err := p.Validate(ac, *now); err != nil {
		return err
	}
	fmt.Println("valid")
	return nil
}

func runRevoke(log *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("revoke", flag.ExitOnError)
	configPath := fs.String("config", "actioncodes.yaml", "path to YAML configuration")
	code := fs.String("code", "", "action code digits")
	pubkey := fs.String("pubkey", "", "wallet pubkey")
	chain := fs.String("chain", solana.ChainID, "chain identifier")
	signature := fs.String("signature", "", "original wallet signature")
	timestamp := fs.Int64("timestamp", 0, "window start, ms since epoch")
	expiresAt := fs.Int64("expires-at", 0, "expiry, ms since epoch")
	revokeSignature := fs.String("revoke-signature", "", "wallet signature over the canonical revoke message")
	if err := fs.Parse(args); err != nil {
		return err
	}

	p, err := newProtocol(log, *configPath)
	if err != nil {
		return err
	}
	ac := actionCodeFromFlags(*code, *pubkey, *chain, *signature, *timestamp, *expiresAt)
	sig, err := p.Revoke(context.Background(), ac, fixedSign(*revokeSignature))
	if err != nil {
		return err
	}
	fmt.Println(sig)
	return nil
}

func runMetaBuild(args []string) error {
	fs := flag.NewFlagSet("meta-build", flag.ExitOnError)
	id := fs.String("id", "", "code hash")
	intent := fs.String("int", "", "intent owner pubkey")
	issuer := fs.String("iss", "", "issuer pubkey, if distinct from intent")
	payloadJSON := fs.String("payload", "", "free-form JSON payload")
	if err := fs.Parse(args); err != nil {
		return err
	}

	f := meta.Fields{Ver: 2, ID: *id, Intent: *intent, Issuer: *issuer}
	if *payloadJSON != "" {
		var payload any
		if err := json.Unmarshal([]byte(*payloadJSON), &payload); err != nil {
			return fmt.Errorf("invalid -payload JSON: %w", err)
		}
		f.Payload = payload
	}
	s, err := meta.Build(f)
	if err != nil {
		return err
	}
	fmt.Println(s)
	return nil
}

func runMetaParse(args []string) error {
	fs := flag.NewFlagSet("meta-parse", flag.ExitOnError)
	raw := fs.String("meta", "", "actioncodes: wire string")
	if err := fs.Parse(args); err != nil {
		return err
	}
	f, err := meta.Parse(*raw)
	if err != nil {
		return err
	}
	return printJSON(f)
}

func fixedSign(sig string) protocol.SignFn {
	return func(ctx context.Context, message []byte, chain string) (string, error) {
		return sig, nil
	}
}

func actionCodeFromFlags(code, pubkey, chain, signature string, timestamp, expiresAt int64) model.ActionCode {
	return model.ActionCode{Code: code, Pubkey: pubkey, Chain: chain, Signature: signature, Timestamp: timestamp, ExpiresAt: expiresAt}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
