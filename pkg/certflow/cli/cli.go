package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	otlp_util "github.com/bluexlab/otlp-util-go"
	"github.com/certflow/certflow/pkg/certflow/api"
	"github.com/certflow/certflow/pkg/certflow/cert_sync"
	"github.com/certflow/certflow/pkg/certflow/command_gateway"
	"github.com/certflow/certflow/pkg/certflow/csr_workflow"
	"github.com/certflow/certflow/pkg/certflow/notification"
	"github.com/certflow/certflow/pkg/certflow/scheduler"
	"github.com/certflow/certflow/pkg/certflow/storage"
	"github.com/certflow/certflow/pkg/certflow/storage/memory"
	"github.com/certflow/certflow/pkg/certflow/storage/postgres"
	"github.com/certflow/certflow/pkg/config"
	"github.com/certflow/certflow/pkg/util"
	"github.com/gobuffalo/pop"
	"github.com/gobuffalo/pop/logging"
	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
)

const appName string = "certflow"

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

const defaultAddress = ":8080"

type App struct{}

type LocalOption struct {
	Config  string   `short:"c" long:"config" type:"existingfile" help:"Path to the configuration file" default:"config.yaml"`
	EnvFile []string `long:"env-file" help:"Dotenv files loaded before the configuration" default:".env"`
}

type ServerCmd struct {
	LocalOption
}

type MigrateCmd struct {
	LocalOption
	Migrations string `short:"p" long:"path" type:"existingdir" help:"Path to the migration files" default:"migrations"`
}

type SyncCmd struct {
	LocalOption
	CA string `long:"ca" help:"Only sync the CA with this ID"`
}

type ReconcileCmd struct {
	LocalOption
}

type DispatchCmd struct {
	LocalOption
}

type SendTestCmd struct {
	LocalOption
	Email string `arg:"" help:"Recipient address"`
}

type CertflowCli struct {
	Server    ServerCmd    `cmd:"" help:"Run the REST server and the scheduler."`
	Migrate   MigrateCmd   `cmd:"" help:"Migrate the database."`
	Sync      SyncCmd      `cmd:"" help:"Sync issued certificates from the certificate authorities once."`
	Reconcile ReconcileCmd `cmd:"" help:"Reconcile certificate statuses once."`
	Dispatch  DispatchCmd  `cmd:"" help:"Send due expiry notifications once."`
	SendTest  SendTestCmd  `cmd:"" name:"send-test" help:"Send a test notification email."`

	Client struct {
		Server    string `short:"s" long:"server" help:"Server address" required:""`
		Requester string `short:"r" long:"requester" help:"Requester name"`

		CSR struct {
			Create   CSRCreateCmd   `cmd:""`
			List     CSRListCmd     `cmd:""`
			Get      CSRGetCmd      `cmd:""`
			Generate CSRGenerateCmd `cmd:""`
			Submit   CSRSubmitCmd   `cmd:""`
			Cancel   CSRCancelCmd   `cmd:""`
			Delete   CSRDeleteCmd   `cmd:""`
		} `cmd:"" name:"csr"`

		Sync      ClientSyncCmd      `cmd:""`
		Reconcile ClientReconcileCmd `cmd:""`
		Dispatch  ClientDispatchCmd  `cmd:""`
		SendTest  ClientSendTestCmd  `cmd:"" name:"send-test"`
	} `cmd:""`
}

type StorageConfig struct {
	Driver string `yaml:"driver"` // postgres (default) or memory.
	Seed   string `yaml:"seed"`   // JSON seed file for the memory driver.
}

type Config struct {
	Storage      StorageConfig               `yaml:"storage"`
	Database     util.PostgresDatabaseConfig `yaml:"database"`
	Server       api.RestServerConfig        `yaml:"server"`
	Gateway      command_gateway.Config      `yaml:"gateway"`
	SMTP         notification.SMTPConfig     `yaml:"smtp"`
	Scheduler    scheduler.Config            `yaml:"scheduler"`
	Redis        scheduler.RedisConfig       `yaml:"redis"`
	OTLPEndpoint string                      `yaml:"otlp_endpoint"`
}

// Storage is every view of the store the components need, plus Close.
type Storage interface {
	storage.CSRStorage
	storage.CertificateSyncStorage
	storage.NotificationStorage
	Close()
}

// Runtime holds the components built from a Config.
type Runtime struct {
	Config     Config
	Storage    Storage
	Workflow   csr_workflow.CSRWorkflow
	CertSync   cert_sync.CertSync
	Dispatcher notification.Dispatcher
}

func (*App) Run() {
	cli := CertflowCli{}
	ctx := kong.Parse(&cli, kong.Name(appName), kong.UsageOnError())
	err := ctx.Run(&cli)
	if err != nil {
		logrus.Errorf("failed to run command: %v", err)
		os.Exit(1)
	}
}

func (o LocalOption) load() (Config, error) {
	if err := config.LoadEnvFiles(o.EnvFile...); err != nil {
		return Config{}, fmt.Errorf("load env files: %w", err)
	}
	cfg := Config{}
	if err := config.FromFile(o.Config, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func NewStorage(cfg Config) (Storage, error) {
	switch cfg.Storage.Driver {
	case "", StorageDriverPostgres:
		s, err := postgres.NewStorageWithConfig(cfg.Database)
		if err != nil {
			return nil, err
		}
		return s, nil
	case StorageDriverMemory:
		s := memory.NewStorage()
		if cfg.Storage.Seed != "" {
			if err := s.LoadSeedFile(cfg.Storage.Seed); err != nil {
				return nil, err
			}
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// NewRuntime wires the components. The dispatcher is only built when withMailer is set because
// it needs a reachable SMTP configuration.
func NewRuntime(cfg Config, withMailer bool) (*Runtime, error) {
	s, err := NewStorage(cfg)
	if err != nil {
		return nil, fmt.Errorf("create storage: %w", err)
	}

	gateway := command_gateway.NewGatewayWithConfig(cfg.Gateway)
	rt := &Runtime{
		Config:   cfg,
		Storage:  s,
		Workflow: csr_workflow.NewCSRWorkflow(s, gateway),
		CertSync: cert_sync.NewCertSync(s, gateway),
	}

	if withMailer {
		mailer, err := notification.NewSMTPMailer(cfg.SMTP)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("create mailer: %w", err)
		}
		rt.Dispatcher = notification.NewDispatcher(s, notification.NewStorageDirectory(s), mailer)
	}
	return rt, nil
}

func (r *Runtime) Close() {
	r.Storage.Close()
}

func initExporter(ctx context.Context, endpoint string) func() {
	if endpoint == "" {
		return func() {}
	}
	exporter, err := otlp_util.InitExporter(
		otlp_util.WithContext(ctx),
		otlp_util.WithEndPoint(endpoint),
		otlp_util.WithServiceName(appName),
		otlp_util.WithInSecure(),
		otlp_util.WithErrorHandler(func(err error) {
			logrus.Warnf("OTLP error: %v", err)
		}),
	)
	if err != nil {
		logrus.Errorf("failed to initialize OTLP exporter: %v", err)
		os.Exit(128)
	}
	return func() { _ = exporter.Shutdown(ctx) }
}

func (cmd *ServerCmd) Run(cli *CertflowCli) error {
	ctx := context.Background()

	cfg, err := cmd.load()
	if err != nil {
		return err
	}
	shutdownExporter := initExporter(ctx, cfg.OTLPEndpoint)
	defer shutdownExporter()

	rt, err := NewRuntime(cfg, true)
	if err != nil {
		return err
	}
	defer rt.Close()

	var schedulerOptions []scheduler.SchedulerOption
	if cfg.Redis.Addr != "" {
		lock, err := scheduler.NewRedisLock(cfg.Redis)
		if err != nil {
			return fmt.Errorf("create redis lock: %w", err)
		}
		defer lock.Close()
		if err := lock.Ping(ctx); err != nil {
			return fmt.Errorf("ping redis: %w", err)
		}
		schedulerOptions = append(schedulerOptions, scheduler.WithLocker(lock, cfg.Redis.LockTTL))
	}

	sched := scheduler.NewScheduler(cfg.Scheduler, rt.CertSync, rt.Dispatcher, schedulerOptions...)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	address := cfg.Server.Address
	if address == "" {
		address = defaultAddress
	}
	restServer := api.NewRestServerWithController(rt.Workflow, rt.CertSync, rt.Dispatcher, sched, address)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logrus.Infof("starting certflow server on %s.", address)
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- restServer.Run()
	}()

	select {
	case <-ctx.Done():
	case err = <-serverErr:
		if err != nil {
			logrus.Errorf("failed to run REST server: %v", err)
		}
	}

	stop()
	logrus.Info("shutting down gracefully, press Ctrl+C again to force")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if closeErr := restServer.Close(shutdownCtx); closeErr != nil {
		logrus.Warnf("failed to close REST server: %v", closeErr)
	}
	sched.Stop()
	return err
}

func (cmd *MigrateCmd) Run(cli *CertflowCli) error {
	popLogger := func(lvl logging.Level, s string, args ...interface{}) {
		switch lvl {
		case logging.Debug:
			logrus.Debugf(s, args...)
		case logging.Info:
			logrus.Infof(s, args...)
		case logging.Warn:
			logrus.Warnf(s, args...)
		case logging.Error:
			logrus.Errorf(s, args...)
		case logging.SQL:
		}
	}
	pop.SetLogger(popLogger)

	cfg, err := cmd.load()
	if err != nil {
		return err
	}
	if cfg.Storage.Driver == StorageDriverMemory {
		logrus.Info("memory storage needs no migration")
		return nil
	}

	cd := pop.ConnectionDetails{
		Dialect:  "postgres",
		Database: cfg.Database.Database,
		Host:     cfg.Database.Host,
		Port:     fmt.Sprintf("%d", cfg.Database.Port),
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Options:  map[string]string{"sslmode": cfg.Database.SSLMode},
	}
	conn, err := pop.NewConnection(&cd)
	if err != nil {
		return fmt.Errorf("create connection: %w", err)
	}

	if err := conn.Dialect.CreateDB(); err != nil {
		logrus.Warnf("failed to create database: %v", err)
	}

	migrator, err := pop.NewFileMigrator(cmd.Migrations, conn)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	// Remove SchemaPath to prevent migrator try to dump schema.
	migrator.SchemaPath = ""

	if err := migrator.Up(); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (cmd *SyncCmd) Run(cli *CertflowCli) error {
	cfg, err := cmd.load()
	if err != nil {
		return err
	}
	rt, err := NewRuntime(cfg, false)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx := context.Background()
	if cmd.CA != "" {
		n, err := rt.CertSync.SyncOne(ctx, cmd.CA)
		if err != nil {
			return err
		}
		return printJSON(api.SyncOneResponse{AuthorityID: cmd.CA, Records: n})
	}
	return printJSON(rt.CertSync.SyncAll(ctx))
}

func (cmd *ReconcileCmd) Run(cli *CertflowCli) error {
	cfg, err := cmd.load()
	if err != nil {
		return err
	}
	rt, err := NewRuntime(cfg, false)
	if err != nil {
		return err
	}
	defer rt.Close()

	n, err := rt.CertSync.ReconcileStatuses(context.Background(), time.Now().Unix())
	if err != nil {
		return err
	}
	return printJSON(api.ReconcileResponse{Changed: n})
}

func (cmd *DispatchCmd) Run(cli *CertflowCli) error {
	cfg, err := cmd.load()
	if err != nil {
		return err
	}
	rt, err := NewRuntime(cfg, true)
	if err != nil {
		return err
	}
	defer rt.Close()

	result, err := rt.Dispatcher.Dispatch(context.Background(), time.Now().Unix())
	if err != nil {
		return err
	}
	return printJSON(result)
}

func (cmd *SendTestCmd) Run(cli *CertflowCli) error {
	cfg, err := cmd.load()
	if err != nil {
		return err
	}
	rt, err := NewRuntime(cfg, true)
	if err != nil {
		return err
	}
	defer rt.Close()

	sent, err := rt.Dispatcher.SendTest(context.Background(), cmd.Email)
	if err != nil {
		return err
	}
	return printJSON(api.SendTestResponse{Sent: sent})
}

func printJSON(v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(raw))
	return nil
}
