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

// go/cmd/actioncodesd/main.go
//
// actioncodesd is a stateless HTTP relay over the protocol façade. It never
// holds a private key: every request already carries the caller's
// signature, and the relay's SignFn implementations simply hand that
// signature back to the façade.
package main

import (
	"context"
	"flag"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/actioncodes/protocol/src/chainset"
	"github.com/actioncodes/protocol/src/config"
	"github.com/actioncodes/protocol/src/errs"
	"github.com/actioncodes/protocol/src/model"
	"github.com/actioncodes/protocol/src/protocol"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	configPath := flag.String("config", "actioncodes.yaml", "path to YAML configuration")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfgFile, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	opts := append([]protocol.Option{protocol.WithLogger(logger)}, chainset.Options(cfgFile.SupportedChains)...)
	p := protocol.New(cfgFile.CodeGenerationConfig(), opts...)

	metrics := NewMetrics()
	prometheus.MustRegister(metrics.RequestCount, metrics.RequestLatency, metrics.ErrorCount)

	router := gin.Default()
	router.Use(instrument(metrics))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.POST("/v1/generate", handleGenerate(p))
	router.POST("/v1/validate", handleValidate(p))
	router.POST("/v1/revoke", handleRevoke(p))

	logger.Info("actioncodesd listening", zap.String("addr", *addr))
	if err := router.Run(*addr); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

// instrument records request count and latency per route.
func instrument(m *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		route := c.FullPath()
		c.Next()
		m.RequestCount.WithLabelValues(route).Inc()
		m.RequestLatency.WithLabelValues(route).Observe(time.Since(start).Seconds())
		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			m.ErrorCount.WithLabelValues(route).Inc()
		}
	}
}

// presignedSignFn wraps a signature the caller already obtained from their
// wallet: the relay never generates one itself.
func presignedSignFn(signature string) protocol.SignFn {
	return func(ctx context.Context, message []byte, chain string) (string, error) {
		return signature, nil
	}
}

type generateRequest struct {
	Message   []byte `json:"message"`
	Chain     string `json:"chain"`
	Signature string `json:"signature"`
}

func handleGenerate(p *protocol.Protocol) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req generateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ac, err := p.Generate(c.Request.Context(), req.Message, req.Chain, presignedSignFn(req.Signature))
		if err != nil {
			writeProtocolError(c, err)
			return
		}
		c.JSON(http.StatusOK, ac)
	}
}

type validateRequest struct {
	ActionCode model.ActionCode `json:"actionCode"`
	NowMs      int64            `json:"nowMs"`
}

func handleValidate(p *protocol.Protocol) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req validateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		nowMs := req.NowMs
		if nowMs == 0 {
			nowMs = time.Now().UnixMilli()
		}
		if err := p.Validate(req.ActionCode, nowMs); err != nil {
			writeProtocolError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"valid": true})
	}
}

type revokeRequest struct {
	ActionCode model.ActionCode `json:"actionCode"`
	Signature  string           `json:"signature"`
}

func handleRevoke(p *protocol.Protocol) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req revokeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		revokeSig, err := p.Revoke(c.Request.Context(), req.ActionCode, presignedSignFn(req.Signature))
		if err != nil {
			writeProtocolError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"revokeSignature": revokeSig})
	}
}

// writeProtocolError maps a *errs.Error onto an HTTP status; anything else
// is an internal detail the caller shouldn't see verbatim.
func writeProtocolError(c *gin.Context, err error) {
	e, ok := err.(*errs.Error)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	status := http.StatusBadRequest
	switch e.Kind {
	case errs.KindInvalidAdapter:
		status = http.StatusNotFound
	case errs.KindInvalidSignature, errs.KindNotSignedByIntentOwner, errs.KindNotSignedByIssuer:
		status = http.StatusForbidden
	}
	c.JSON(status, gin.H{"error": e.Kind, "field": e.Field, "detail": e.Detail})
}
