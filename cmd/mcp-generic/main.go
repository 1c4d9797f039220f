package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/louisbranch/fauxtools/internal/catalog"
	mcpcmd "github.com/louisbranch/fauxtools/internal/cmd/mcp"
	"github.com/louisbranch/fauxtools/internal/platform/config"
	apperrors "github.com/louisbranch/fauxtools/internal/platform/errors"
)

// main serves the generic tool catalog on stdio or HTTP.
func main() {
	cfg, err := mcpcmd.ParseConfig(catalog.GenericName, flag.CommandLine, os.Args[1:], os.LookupEnv)
	if err != nil {
		config.Exitf("parse config (%s): %v", apperrors.CodeOf(err).Diagnostic(), err)
	}
	log.SetPrefix("[MCP] ")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := mcpcmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to serve MCP: %v", err)
	}
}
