package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pbinitiative/zencmmn/internal/config"
	"github.com/pbinitiative/zencmmn/internal/log"
	"github.com/pbinitiative/zencmmn/internal/otel"
	"github.com/pbinitiative/zencmmn/internal/rest"
	"github.com/pbinitiative/zencmmn/pkg/cmmn"
	"github.com/pbinitiative/zencmmn/pkg/cmmn/compiler"
	"github.com/pbinitiative/zencmmn/pkg/storage/inmemory"
)

func main() {
	log.Init()
	defer log.Sync()

	appContext, ctxCancel := context.WithCancel(context.Background())

	conf := config.InitConfig()
	log.Debugf(appContext, "Effective configuration:\n%s", conf)

	openTelemetry, err := otel.SetupOtel(conf.Tracing)
	if err != nil {
		log.Error("Failed to set up OTEL: %s", err)
		os.Exit(1)
	}

	engine, err := newEngine(conf)
	if err != nil {
		log.Error("Failed to create cmmn engine: %s", err)
		os.Exit(1)
	}

	if conf.Deploy.Dir != "" {
		deployed, err := deployDirectory(appContext, engine, conf.Deploy.Dir)
		if err != nil {
			log.Error("Failed to deploy case definitions from %s: %s", conf.Deploy.Dir, err)
		}
		log.Info("Deployed %d case definitions from %s", len(deployed), conf.Deploy.Dir)
	}

	// Start the public API
	svr := rest.NewServer(engine, conf, openTelemetry.RequestMetrics)
	if _, err := svr.Start(); err != nil {
		log.Error("Failed to start REST server: %s", err)
		os.Exit(1)
	}

	appStop := make(chan os.Signal, 2)
	signal.Notify(appStop, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	handleSigterm(appStop, appContext)

	ctxCancel()
	// cleanup
	svr.Stop(context.Background())
	openTelemetry.Stop(context.Background())
}

func newEngine(conf config.Config) (*cmmn.Engine, error) {
	c := compiler.New(compiler.WithScriptPrecompilation(conf.Compiler.PrecompileScripts))
	return cmmn.New(
		cmmn.WithName(conf.Name),
		cmmn.WithStorage(inmemory.NewStorage()),
		cmmn.WithCompiler(c),
		cmmn.WithCache(conf.Compiler.DefinitionCacheSize, conf.Compiler.DefinitionCacheTtl),
		cmmn.WithExporter(logExporter{}),
	)
}

func handleSigterm(appStop chan os.Signal, ctx context.Context) {
	sig := <-appStop
	log.Infof(ctx, "Received %s. Shutting down", sig.String())
}
