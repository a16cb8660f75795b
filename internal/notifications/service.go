package notifications

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"

	"pagecap/internal/config"
)

const userAgent = "pagecap/0.1.0"

// Service defines the notification surface exposed to the workflow.
type Service interface {
	NotifyDocumentSaved(ctx context.Context, path string, pages int) error
	NotifyRunFailed(ctx context.Context, err error, stage string) error
}

// NewService builds the notifier for cfg. The bell writes to out.
func NewService(cfg *config.Config, out io.Writer) Service {
	if cfg == nil {
		return noopService{}
	}
	var services fanout
	if cfg.Notifications.Bell && out != nil {
		services = append(services, &bellService{out: out, ring: ring})
	}
	if topic := strings.TrimSpace(cfg.Notifications.NtfyTopic); topic != "" {
		timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		services = append(services, &ntfyService{
			endpoint: topic,
			client:   &http.Client{Timeout: timeout},
		})
	}
	switch len(services) {
	case 0:
		return noopService{}
	case 1:
		return services[0]
	default:
		return services
	}
}

type fanout []Service

func (f fanout) NotifyDocumentSaved(ctx context.Context, path string, pages int) error {
	var result *multierror.Error
	for _, svc := range f {
		result = multierror.Append(result, svc.NotifyDocumentSaved(ctx, path, pages))
	}
	return result.ErrorOrNil()
}

func (f fanout) NotifyRunFailed(ctx context.Context, err error, stage string) error {
	var result *multierror.Error
	for _, svc := range f {
		result = multierror.Append(result, svc.NotifyRunFailed(ctx, err, stage))
	}
	return result.ErrorOrNil()
}

type noopService struct{}

func (noopService) NotifyDocumentSaved(context.Context, string, int) error { return nil }
func (noopService) NotifyRunFailed(context.Context, error, string) error   { return nil }
