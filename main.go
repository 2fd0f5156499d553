package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
	"sigs.k8s.io/controller-runtime/pkg/metrics"

	"github.com/anvil-platform/discovery/catalog/logging"
	_ "github.com/anvil-platform/discovery/catalog/logging/klogsink"
	_ "github.com/anvil-platform/discovery/catalog/logging/stdsink"
	_ "github.com/anvil-platform/discovery/catalog/logging/zaplog"
	_ "github.com/anvil-platform/discovery/catalog/logging/zerologsink"
	"github.com/anvil-platform/discovery/discovery"
	"github.com/anvil-platform/discovery/oracle"
)

var (
	scheme = runtime.NewScheme()
)

func init() {
	utilruntime.Must(clientgoscheme.AddToScheme(scheme))
}

type options struct {
	metricsAddr        string
	grpcAddr           string
	inventoryFile      string
	inventoryConfigMap string
	catalogFile        string
	prefer             string
	refreshInterval    time.Duration
}

func main() {
	var opts options

	flag.StringVar(&opts.metricsAddr, "metrics-bind-address", ":8080", "The address the metric endpoint binds to.")
	flag.StringVar(&opts.grpcAddr, "grpc-bind-address", ":9090", "The address the gRPC health service binds to.")
	flag.StringVar(&opts.inventoryFile, "inventory-file", "", "Optional YAML inventory overlaid on the binary's build list.")
	flag.StringVar(&opts.inventoryConfigMap, "inventory-configmap", "", "Optional namespace/name of a ConfigMap holding an inventory under packages.yaml.")
	flag.StringVar(&opts.catalogFile, "catalog-file", "", "Optional CandidateCatalog replacing the built-in logging catalog.")
	flag.StringVar(&opts.prefer, "prefer", "", "Package to move to the front of the logging candidates.")
	flag.DurationVar(&opts.refreshInterval, "refresh-interval", 0, "How often to reload the inventory. Zero disables refresh.")

	zapOpts := zap.Options{Development: true}
	zapOpts.BindFlags(flag.CommandLine)
	flag.Parse()

	setupLog := zap.New(zap.UseFlagOptions(&zapOpts)).WithName("setup")
	ctx := log.IntoContext(ctrl.SetupSignalHandler(), setupLog)

	if err := run(ctx, opts); err != nil {
		setupLog.Error(err, "problem running discovery")
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	setupLog := log.FromContext(ctx)

	var reader client.Reader
	if opts.inventoryConfigMap != "" {
		cfg, err := ctrl.GetConfig()
		if err != nil {
			return fmt.Errorf("load kubeconfig: %w", err)
		}
		c, err := client.New(cfg, client.Options{Scheme: scheme})
		if err != nil {
			return fmt.Errorf("create client: %w", err)
		}
		reader = c
	}

	live, err := loadInventory(ctx, opts, reader)
	if err != nil {
		return err
	}

	cat := logging.Catalog()
	if opts.catalogFile != "" {
		if cat, err = logging.LoadCatalog(opts.catalogFile); err != nil {
			return err
		}
	}
	reg := discovery.NewRegistry(cat, live)

	if opts.prefer != "" && !reg.Prefer(opts.prefer) {
		setupLog.Info("preferred package is not a candidate", "package", opts.prefer)
	}

	if err := report(ctx, reg, live); err != nil {
		return err
	}

	logger, ok, err := reg.Singleton(ctx)
	if err != nil {
		return err
	}
	if !ok {
		setupLog.Info("no logging implementation available; keeping bootstrap logger")
		logger = setupLog
	}
	ctrl.SetLogger(logger)
	logger = logger.WithName("discovery")
	ctx = log.IntoContext(ctx, logger)

	hs := health.NewServer()
	setHealth(hs, reg.Capability(), ok)

	grpcServer := grpc.NewServer()
	healthpb.RegisterHealthServer(grpcServer, hs)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	metricsServer := &http.Server{Addr: opts.metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	lis, err := net.Listen("tcp", opts.grpcAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", opts.grpcAddr, err)
	}

	errCh := make(chan error, 2)
	go func() {
		logger.Info("serving gRPC health", "address", opts.grpcAddr)
		errCh <- grpcServer.Serve(lis)
	}()
	go func() {
		logger.Info("serving metrics", "address", opts.metricsAddr)
		if err := metricsServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	if opts.refreshInterval > 0 {
		go refresh(ctx, opts, reader, reg, live, hs)
	}

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err = <-errCh:
	}

	hs.Shutdown()
	grpcServer.GracefulStop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if serr := metricsServer.Shutdown(shutdownCtx); serr != nil && err == nil {
		err = serr
	}
	return err
}

// loadInventory builds the oracle: the build list of this binary, overlaid by
// the inventory file and then by the ConfigMap.
func loadInventory(ctx context.Context, opts options, reader client.Reader) (*oracle.Static, error) {
	live := oracle.Running()

	if opts.inventoryFile != "" {
		inv, err := oracle.LoadFile(opts.inventoryFile)
		if err != nil {
			return nil, err
		}
		live.Merge(inv)
	}

	if opts.inventoryConfigMap != "" {
		key, err := parseNamespacedName(opts.inventoryConfigMap)
		if err != nil {
			return nil, err
		}
		inv, err := oracle.LoadConfigMap(ctx, reader, key)
		if err != nil {
			return nil, err
		}
		live.Merge(inv)
	}
	return live, nil
}

func parseNamespacedName(raw string) (types.NamespacedName, error) {
	ns, name, ok := strings.Cut(raw, "/")
	if !ok || ns == "" || name == "" {
		return types.NamespacedName{}, fmt.Errorf("expected namespace/name, got %q", raw)
	}
	return types.NamespacedName{Namespace: ns, Name: name}, nil
}

// report logs every known library present in the environment, including
// those that can only be reported.
func report(ctx context.Context, reg *discovery.Registry[logr.Logger], o discovery.Oracle) error {
	logger := log.FromContext(ctx).WithValues("capability", reg.Capability())

	usable, err := reg.Discoveries(ctx)
	if err != nil {
		return err
	}
	buildable := make(map[string]bool, len(usable))
	for _, cand := range usable {
		buildable[cand.Package()] = true
	}

	present, err := discovery.DiscoverAll(ctx, o, reg.AllCandidates())
	if err != nil {
		return err
	}
	for _, cand := range present {
		logger.Info("library present",
			"package", cand.Package(),
			"version", o.InstalledVersion(cand.Package()),
			"constraint", cand.Constraint(),
			"candidate", buildable[cand.Package()],
		)
	}
	logger.Info("linked builders", "packages", logging.Registered())
	return nil
}

// refresh reloads the inventory on every tick and reports whether the
// capability is still available. The cached logger is kept and no new
// instance is built.
func refresh(ctx context.Context, opts options, reader client.Reader, reg *discovery.Registry[logr.Logger], live *oracle.Static, hs *health.Server) {
	logger := log.FromContext(ctx).WithValues("capability", reg.Capability())
	ticker := time.NewTicker(opts.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		fresh, err := loadInventory(ctx, opts, reader)
		if err != nil {
			logger.Error(err, "failed to reload inventory")
			continue
		}
		live.Replace(fresh)

		ok, err := available(ctx, reg)
		if err != nil {
			logger.Error(err, "discovery failed after refresh")
			continue
		}
		setHealth(hs, reg.Capability(), ok)
	}
}

// available reports whether a present candidate has a linked builder, without
// building it.
func available(ctx context.Context, reg *discovery.Registry[logr.Logger]) (bool, error) {
	found, err := reg.Discoveries(ctx)
	if err != nil {
		return false, err
	}
	linked := logging.Registered()
	for _, cand := range found {
		if slices.Contains(linked, cand.Package()) {
			return true, nil
		}
	}
	return false, nil
}

func setHealth(hs *health.Server, capability string, ok bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if ok {
		status = healthpb.HealthCheckResponse_SERVING
	}
	hs.SetServingStatus(capability, status)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
}
