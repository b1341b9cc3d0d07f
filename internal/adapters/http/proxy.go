package http

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/dkeye/Tabletop/internal/adapters/upstream"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Proxy exposes the AI provider to the browser without leaking the API key.
type Proxy struct {
	AI *upstream.Client
}

func (p *Proxy) handleChat(c *gin.Context) {
	p.forward(c, "Proxy error", p.AI.Chat)
}

func (p *Proxy) handleImage(c *gin.Context) {
	p.forward(c, "Image generation failed", p.AI.Image)
}

func (p *Proxy) forward(c *gin.Context, failure string, call func(context.Context, []byte) (*upstream.Response, error)) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	resp, err := call(c.Request.Context(), body)
	if errors.Is(err, upstream.ErrInvalidBody) {
		log.Warn().Err(err).Str("module", "adapters.http").Str("path", c.FullPath()).Msg("bad proxy request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Str("path", c.FullPath()).Msg("proxy failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": failure, "details": err.Error()})
		return
	}
	c.Data(resp.Status, "application/json", resp.Body)
}
