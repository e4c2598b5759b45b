package zapier

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"puebla-barf/internal/platform/httpclient"
	"puebla-barf/internal/ports/notify"
)

var (
	ErrNotConfigured = errors.New("zapier hook not configured")
)

// Forwarder implementa notify.Forwarder contra un catch hook de Zapier,
// que a su vez alimenta la hoja de pedidos. El payload es el del puerto;
// el hook acepta cualquier JSON.
type Forwarder struct {
	client  *httpclient.Client
	hookURL string
}

func New(hookURL string, timeout time.Duration) (*Forwarder, error) {
	hookURL = strings.TrimSpace(hookURL)
	if hookURL == "" {
		return nil, ErrNotConfigured
	}

	return &Forwarder{
		client:  httpclient.New(timeout),
		hookURL: hookURL,
	}, nil
}

func (f *Forwarder) OrderCreated(ctx context.Context, ev notify.OrderEvent) error {
	if f == nil || f.client == nil {
		return ErrNotConfigured
	}
	return f.client.DoJSON(ctx, http.MethodPost, f.hookURL, nil, ev, nil)
}
