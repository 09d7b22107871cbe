package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/catalystcommunity/app-utils-go/errorutils"
	"github.com/catalystcommunity/app-utils-go/logging"
	"github.com/catalystcommunity/reactorcide/coordinator_api/internal/builder"
	"github.com/catalystcommunity/reactorcide/coordinator_api/internal/config"
	"github.com/catalystcommunity/reactorcide/coordinator_api/internal/executor"
	"github.com/catalystcommunity/reactorcide/coordinator_api/internal/httpapi"
	"github.com/catalystcommunity/reactorcide/coordinator_api/internal/jobservice"
	"github.com/catalystcommunity/reactorcide/coordinator_api/internal/metrics"
	"github.com/catalystcommunity/reactorcide/coordinator_api/internal/objectstore"
	"github.com/catalystcommunity/reactorcide/coordinator_api/internal/requeststore"
	"github.com/catalystcommunity/reactorcide/coordinator_api/internal/resources"
	"github.com/gammazero/workerpool"
)

// Serve wires every collaborator in dependency order and blocks
// serving the HTTP surface until the process is signaled to stop.
func Serve() error {
	store, rm, storeFactory, err := initCollaborators()
	if err != nil {
		return fmt.Errorf("failed to initialize collaborators: %w", err)
	}
	defer store.Close()

	engine := builder.NewFlatEngine()
	adapter := builder.New(storeFactory, engine)

	exec := executor.New(config.MaxWorkers, rm, store, adapter.Build)
	defer exec.Shutdown()

	monitor := executor.NewResourceMonitor(rm, 30*time.Second)
	monitorCtx, cancelMonitor := context.WithCancel(context.Background())
	defer cancelMonitor()
	go monitor.Run(monitorCtx)

	svc := jobservice.New(store, exec, rm)
	server := httpapi.NewServer(svc, config.ServiceName)

	logging.Log.Infof("starting HTTP server on port %d", config.Port)
	err = http.ListenAndServe(fmt.Sprintf(":%d", config.Port), server.Router())

	// ListenAndServe always eventually errors out, so we log it and return it.
	errorutils.LogOnErr(nil, "ListenAndServe exited with: ", err)
	return err
}

// initCollaborators builds the request store, resource ledger, and
// object-store factory concurrently on a small worker pool, matching
// the teacher's parallel-startup-probe idiom. The object-store factory
// defers backend construction to the first build that requests a
// given repository_type; no object store is opened here.
func initCollaborators() (*requeststore.MemoryStore, *resources.Manager, *objectstore.Factory, error) {
	pool := workerpool.New(3)

	var store *requeststore.MemoryStore
	var rm *resources.Manager
	var storeFactory *objectstore.Factory

	pool.Submit(func() {
		var ttl *time.Duration
		if config.RequestStoreTTLSeconds > 0 {
			d := time.Duration(config.RequestStoreTTLSeconds) * time.Second
			ttl = &d
		}
		store = requeststore.NewMemoryStore(config.RequestStoreMaxSize, ttl)
		logging.Log.Info("request store initialized")
	})

	pool.Submit(func() {
		rm = resources.NewManager(config.GPUMemoryLimit, config.CPUMemoryLimit)
		metrics.RegisterLedgerGauges(rm)
		logging.Log.WithField("gpu_bytes", config.GPUMemoryLimit).
			WithField("cpu_bytes", config.CPUMemoryLimit).
			Info("resource ledger initialized")
	})

	pool.Submit(func() {
		storeFactory = objectstore.NewFactory(config.ObjectStoreBucket, config.ObjectStorePrefix)
		logging.Log.Info("object store factory initialized")
	})

	pool.StopWait()

	return store, rm, storeFactory, nil
}
