// Package mcp parses MCP command configuration and runs the server on the
// selected transport.
package mcp

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/louisbranch/fauxtools/internal/catalog"
	entrypoint "github.com/louisbranch/fauxtools/internal/platform/cmd"
	"github.com/louisbranch/fauxtools/internal/platform/config"
	apperrors "github.com/louisbranch/fauxtools/internal/platform/errors"
	platformgrpc "github.com/louisbranch/fauxtools/internal/platform/grpc"
	"github.com/louisbranch/fauxtools/internal/platform/timeouts"
	"github.com/louisbranch/fauxtools/internal/services/mcp/service"
)

// Config holds MCP command configuration.
type Config struct {
	Variant      string   `env:"FAUXTOOLS_VARIANT"`
	Transport    string   `env:"FAUXTOOLS_MCP_TRANSPORT"     envDefault:"stdio"`
	HTTPAddr     string   `env:"FAUXTOOLS_MCP_HTTP_ADDR"     envDefault:"localhost:8081"`
	PageSize     int      `env:"FAUXTOOLS_MCP_PAGE_SIZE"     envDefault:"500"`
	HealthAddr   string   `env:"FAUXTOOLS_HEALTH_ADDR"`
	AllowedHosts []string `env:"FAUXTOOLS_MCP_ALLOWED_HOSTS" envSeparator:","`
	AuthToken    string   `env:"FAUXTOOLS_MCP_AUTH_TOKEN"`
	JWTSecret    string   `env:"FAUXTOOLS_MCP_JWT_SECRET"`

	// CheckHealth probes HealthAddr and exits instead of serving.
	CheckHealth bool
}

// ParseConfig parses environment (through lookup) and then flags into a
// Config. defaultVariant applies when neither names a variant.
func ParseConfig(defaultVariant string, fs *flag.FlagSet, args []string, lookup config.LookupFunc) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg, lookup); err != nil {
		return Config{}, err
	}
	if cfg.Variant == "" {
		cfg.Variant = defaultVariant
	}

	fs.StringVar(&cfg.Variant, "variant", cfg.Variant, fmt.Sprintf("Catalog variant: %v", catalog.VariantNames()))
	fs.StringVar(&cfg.Transport, "transport", cfg.Transport, "Transport type: stdio or http")
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP server address (for HTTP transport)")
	fs.IntVar(&cfg.PageSize, "page-size", cfg.PageSize, "Tools per tools/list page")
	fs.StringVar(&cfg.HealthAddr, "health-addr", cfg.HealthAddr, "gRPC health probe address (empty disables)")
	fs.BoolVar(&cfg.CheckHealth, "check-health", false, "Probe the gRPC health endpoint at -health-addr and exit")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if _, ok := catalog.VariantByName(c.Variant); !ok {
		return apperrors.New(apperrors.CodeConfigInvalid, fmt.Sprintf("unknown variant %q", c.Variant))
	}
	if _, err := service.ParseTransport(c.Transport); err != nil {
		return apperrors.Wrap(apperrors.CodeConfigInvalid, "invalid transport", err)
	}
	if c.PageSize <= 0 {
		return apperrors.New(apperrors.CodeConfigInvalid, fmt.Sprintf("page size must be positive, got %d", c.PageSize))
	}
	if c.CheckHealth && c.HealthAddr == "" {
		return apperrors.New(apperrors.CodeConfigInvalid, "-check-health requires a health address")
	}
	return nil
}

// CheckHealth reports whether the gRPC health endpoint at addr is SERVING
// within timeouts.HealthCheck.
func CheckHealth(ctx context.Context, addr string) error {
	conn, err := platformgrpc.DialHealth(addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(ctx, timeouts.HealthCheck)
	defer cancel()
	return platformgrpc.WaitForHealth(ctx, conn, "", log.Printf)
}

// Run starts the MCP server with telemetry configured, or only probes the
// health endpoint when cfg.CheckHealth is set.
func Run(ctx context.Context, cfg Config) error {
	if cfg.CheckHealth {
		return CheckHealth(ctx, cfg.HealthAddr)
	}
	transport, err := service.ParseTransport(cfg.Transport)
	if err != nil {
		return err
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceForVariant(cfg.Variant), func(ctx context.Context) error {
		return service.Run(ctx, service.Config{
			Variant:      cfg.Variant,
			Transport:    transport,
			HTTPAddr:     cfg.HTTPAddr,
			PageSize:     cfg.PageSize,
			HealthAddr:   cfg.HealthAddr,
			AllowedHosts: cfg.AllowedHosts,
			AuthToken:    cfg.AuthToken,
			JWTSecret:    cfg.JWTSecret,
		})
	})
}
