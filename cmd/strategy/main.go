package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/go-kratos/kratos/v2"
	klog "github.com/go-kratos/kratos/v2/log"

	"github.com/ctiworks/intel-strategy/pkg/config"
	"github.com/ctiworks/intel-strategy/pkg/engine"
	"github.com/ctiworks/intel-strategy/pkg/logger"
	"github.com/ctiworks/intel-strategy/pkg/model"
	"github.com/ctiworks/intel-strategy/pkg/opencti"
	"github.com/ctiworks/intel-strategy/pkg/scheduler"
	"github.com/ctiworks/intel-strategy/pkg/server"
	"github.com/ctiworks/intel-strategy/pkg/storage"
)

var (
	// Name is the service name.
	Name = "intel-strategy"
	// Version is set via -ldflags "-X main.Version=x.y.z".
	Version string

	flagconf string
	flagonce string
	flagdays int

	id, _ = os.Hostname()
)

func init() {
	flag.StringVar(&flagconf, "conf", "configs/config.yaml", "config path, eg: -conf config.yaml")
	flag.StringVar(&flagonce, "once", "", "run a single cadence and exit: daily|weekly|monthly")
	flag.IntVar(&flagdays, "days", 0, "monthly window length in days (0 = configured default)")
}

func main() {
	flag.Parse()

	cfg, err := config.LoadConfig(flagconf)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	logger.Log.Info("starting intel strategy engine...")

	client, err := opencti.NewClient(cfg.OpenCTI)
	if err != nil {
		logger.Log.Fatalf("failed to init platform client: %v", err)
	}

	// Archive is optional; without a configured host the engine still runs
	// and the platform keeps the only copy.
	var store engine.Archive
	if cfg.DB.Host != "" {
		s, err := storage.NewStorage(cfg.DB)
		if err != nil {
			logger.Log.Errorf("failed to connect archive database, continuing without: %v", err)
		} else {
			store = s
			defer s.Close()
			logger.Log.Info("brief archive connected")
		}
	} else {
		logger.Log.Info("no archive database configured")
	}

	eng := engine.New(cfg, client, store)

	if flagonce != "" {
		runOnce(eng, flagonce, flagdays, cfg.Schedule.MonthlyDays)
		return
	}

	sched, err := scheduler.New(cfg.Schedule, eng)
	if err != nil {
		logger.Log.Fatalf("failed to init scheduler: %v", err)
	}
	if cfg.Schedule.Enabled {
		sched.Start()
		defer sched.Stop()
	} else {
		logger.Log.Info("scheduler disabled; manual triggers only")
	}

	klogger := klog.With(klog.NewStdLogger(os.Stdout),
		"ts", klog.DefaultTimestamp,
		"caller", klog.DefaultCaller,
		"service.id", id,
		"service.name", Name,
		"service.version", Version,
	)

	httpSrv := server.NewHTTPServer(cfg.Server, eng, cfg.Schedule.MonthlyDays, klogger)
	app := kratos.New(
		kratos.ID(id),
		kratos.Name(Name),
		kratos.Version(Version),
		kratos.Logger(klogger),
		kratos.Server(httpSrv),
	)
	if err := app.Run(); err != nil {
		logger.Log.Fatalf("server exited: %v", err)
	}
}

func runOnce(eng *engine.Engine, cadence string, days, defaultDays int) {
	ctx := context.Background()

	var res model.RunResult
	var err error
	switch cadence {
	case "daily":
		res, err = eng.RunDaily(ctx)
	case "weekly":
		res, err = eng.RunWeekly(ctx)
	case "monthly":
		if days <= 0 {
			days = defaultDays
		}
		res, err = eng.RunMonthly(ctx, days)
	default:
		logger.Log.Fatalf("unknown cadence %q (want daily|weekly|monthly)", cadence)
	}
	if err != nil {
		logger.Log.Fatalf("%s run failed: %v", cadence, err)
	}
	logger.Log.Infof("%s brief created: %s (%s)", cadence, res.ReportID, res.Name)
}
