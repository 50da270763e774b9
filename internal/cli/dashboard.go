package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/rileyhilliard/nodehealth/internal/config"
	"github.com/rileyhilliard/nodehealth/internal/errors"
	"github.com/rileyhilliard/nodehealth/internal/exec"
	"github.com/rileyhilliard/nodehealth/internal/health"
	"github.com/rileyhilliard/nodehealth/internal/logger"
	"github.com/rileyhilliard/nodehealth/internal/metrics"
	"github.com/rileyhilliard/nodehealth/internal/monitor"
	"github.com/rileyhilliard/nodehealth/internal/node"
	"github.com/rileyhilliard/nodehealth/internal/snmp"
	"github.com/rileyhilliard/nodehealth/internal/stats"
)

// dashboardCommand loads the config, identifies the node and runs the
// dashboard until the operator quits.
func dashboardCommand(ctx context.Context) error {
	cfg, err := config.Load(os.Getenv(config.PathEnv))
	if err != nil {
		return err
	}
	if err := requireRoot(cfg, os.Geteuid()); err != nil {
		return err
	}

	log, logFile, err := logger.NewFileLogger(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Can't open the log file",
			fmt.Sprintf("Check %s is writable, or set log.file to somewhere that is.", cfg.Log.File))
	}
	defer logFile.Close()
	logger.SetDefault(log)

	runner, closeRunner := newRunner(cfg)
	defer closeRunner()

	info, err := node.Discover(ctx, runner)
	if err != nil {
		log.Error("node discovery failed: %v", err)
		return err
	}
	log.Info("starting dashboard for %s node (%s)", info.Role, info.Version)

	source := snmp.NewClient(snmpConfig(cfg))
	defer source.Close()

	d, err := newDashboard(cfg, info, runner, source, log)
	if err != nil {
		return err
	}
	defer d.close()

	err = monitor.Run(ctx, d.options(), d.workers()...)
	log.Info("dashboard stopped")
	return err
}

// requireRoot refuses to watch the local node without root. Several of the
// diagnostics read state only root can see.
func requireRoot(cfg *config.Config, euid int) error {
	if cfg.Remote() || euid == 0 {
		return nil
	}
	return errors.New(errors.ErrPriv,
		"nodehealth must be run as root",
		"Re-run it with sudo, or set node.ssh to watch a node over SSH.")
}

// newRunner picks where diagnostics run. The returned func releases any
// connection the runner holds.
func newRunner(cfg *config.Config) (exec.Runner, func()) {
	if cfg.Remote() {
		r := exec.NewRemoteRunner(cfg.Node.SSH, cfg.Node.DialTimeout)
		return r, func() { _ = r.Close() }
	}
	return exec.NewLocalRunner(), func() {}
}

func snmpConfig(cfg *config.Config) snmp.Config {
	return snmp.Config{
		Target:    cfg.SNMP.Target,
		Port:      cfg.SNMP.Port,
		Community: cfg.SNMP.Community,
		Timeout:   cfg.SNMP.Timeout,
		Retries:   cfg.SNMP.Retries,
	}
}

// newSampler picks the statistics source for role. ralf reports billing
// rates from its access log; the other roles read counters.
func newSampler(cfg *config.Config, role node.Role, source snmp.Source) (stats.Sampler, error) {
	if role == node.Ralf {
		if cfg.Remote() {
			return nil, errors.New(errors.ErrConfig,
				"ralf statistics can't be gathered over SSH",
				"Run nodehealth on the ralf node itself.")
		}
		s, err := stats.NewLogRateSampler(cfg.Stats.AccessLog)
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Can't read the ralf access log",
				"Check stats.access_log points at the access log symlink.")
		}
		return s, nil
	}

	catalog := stats.DefaultCatalog()
	if cfg.Stats.Catalog != "" {
		loaded, err := stats.LoadCatalog(cfg.Stats.Catalog)
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Can't load the statistics catalog",
				fmt.Sprintf("Fix %s, or unset stats.catalog to use the built-in one.", cfg.Stats.Catalog))
		}
		catalog = loaded
	}

	list, ok := catalog.For(string(role))
	if !ok {
		return nil, errors.New(errors.ErrConfig,
			fmt.Sprintf("No statistics are configured for %s nodes", role),
			"Add the role to the statistics catalog.")
	}
	return stats.NewCounterSampler(source, list), nil
}

// newChain builds the check stages in the order they run.
func newChain(cfg *config.Config, role node.Role, runner exec.Runner, source snmp.Source, log logger.Logger) *health.Chain {
	resources := health.NewResourceStage(runner, source, cfg.Commands, health.ResourceConfig{
		DiskCeiling: cfg.Thresholds.Disk,
		CPUCeiling:  cfg.Thresholds.CPU,
		CPUInterval: cfg.Checks.CPUInterval,
	})
	processes := health.NewProcessStage(runner, cfg.Commands, log)
	clusters := health.NewClusterStage(role, runner, cfg.Commands, log)
	return health.NewChain(log, resources, processes, clusters)
}

// dashboard holds everything the TUI and its workers share.
type dashboard struct {
	info        node.Info
	relay       *relay
	registry    *health.Registry
	scheduler   *health.Scheduler
	loop        *stats.Loop
	sampler     stats.Sampler
	metrics     *metrics.Metrics
	metricsAddr string
	log         logger.Logger
}

func newDashboard(cfg *config.Config, info node.Info, runner exec.Runner, source snmp.Source, log logger.Logger) (*dashboard, error) {
	sampler, err := newSampler(cfg, info.Role, source)
	if err != nil {
		return nil, err
	}

	var m *metrics.Metrics
	if cfg.Metrics.Addr != "" {
		m = metrics.New()
	}

	r := &relay{}
	chain := newChain(cfg, info.Role, runner, source, logger.With(log, "checks"))
	return &dashboard{
		info:        info,
		relay:       r,
		registry:    health.NewRegistry(runner, cfg.Commands),
		scheduler:   health.NewScheduler(chain, r, cfg.Checks.PollInterval, logger.With(log, "scheduler"), m),
		loop:        stats.NewLoop(sampler, r, cfg.Stats.Interval, logger.With(log, "sampler"), m),
		sampler:     sampler,
		metrics:     m,
		metricsAddr: cfg.Metrics.Addr,
		log:         log,
	}, nil
}

func (d *dashboard) options() monitor.Options {
	return monitor.Options{
		Node:     d.info,
		Details:  d.registry,
		Checks:   d.scheduler,
		Sampling: d.loop,
		StatRows: d.sampler.Len(),
		Log:      logger.With(d.log, "dashboard"),
	}
}

func (d *dashboard) workers() []monitor.Worker {
	workers := []monitor.Worker{
		func(ctx context.Context, b *monitor.Bridge) error {
			d.relay.bind(b)
			return d.scheduler.Run(ctx)
		},
		func(ctx context.Context, b *monitor.Bridge) error {
			d.relay.bind(b)
			return d.loop.Run(ctx)
		},
	}
	if d.metrics != nil {
		workers = append(workers, func(ctx context.Context, _ *monitor.Bridge) error {
			metrics.Serve(ctx, d.log, d.metrics, d.metricsAddr)
			return nil
		})
	}
	return workers
}

func (d *dashboard) close() {
	if c, ok := d.sampler.(io.Closer); ok {
		_ = c.Close()
	}
}

// relay forwards reports and snapshots to the dashboard once it is running.
type relay struct {
	bridge atomic.Pointer[monitor.Bridge]
}

func (r *relay) bind(b *monitor.Bridge) { r.bridge.Store(b) }

// PublishHealth implements health.Publisher.
func (r *relay) PublishHealth(rep health.Report) {
	if b := r.bridge.Load(); b != nil {
		b.PublishHealth(rep)
	}
}

// PublishStats implements stats.Publisher.
func (r *relay) PublishStats(s stats.Snapshot) {
	if b := r.bridge.Load(); b != nil {
		b.PublishStats(s)
	}
}
