package menu

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mchmarny/menubar/pkg/server"
)

// MountPath is where Run serves the menu.
const MountPath = "/menu"

// Run serves the menu at /menu together with /healthz and /metrics, and
// blocks until ctx is canceled or the server fails.
func (m *Menu) Run(ctx context.Context, opt ...server.Option) error {
	reg := prometheus.NewRegistry()

	h, err := NewHandler(m, WithRegisterer(reg))
	if err != nil {
		return err
	}

	opt = append(opt,
		server.WithRegistry(reg),
		server.WithMount(MountPath, h),
		server.WithSimpleHealth(),
		server.WithMetrics(),
	)

	slog.Info("serving menu", "path", MountPath, "items", m.Size())

	return server.New(opt...).Serve(ctx)
}
