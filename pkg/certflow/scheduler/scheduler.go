package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/certflow/certflow/pkg/certflow/cert_sync"
	"github.com/certflow/certflow/pkg/certflow/notification"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const (
	JobSync     = "sync"
	JobDispatch = "dispatch"

	DefaultSyncSpec     = "0 0 * * * *" // Hourly.
	DefaultDispatchSpec = "0 0 8 * * *" // Daily at 08:00.
	defaultLockTTL      = 30 * time.Minute
)

// Scheduler runs the sync and dispatch sweeps on a cron schedule and on demand. A job never runs
// twice at the same time within one process, nor across processes when a Locker is configured.
type Scheduler interface {
	Start() error
	// Stop stops scheduling and waits for running jobs to return.
	Stop()
	// TriggerSync starts a sync sweep in the background. It reports false when one is already running.
	TriggerSync() bool
	// TriggerDispatch starts a notification sweep in the background. It reports false when one is
	// already running.
	TriggerDispatch() bool
}

type Config struct {
	SyncSpec     string `yaml:"sync_spec"`     // Cron spec with seconds field.
	DispatchSpec string `yaml:"dispatch_spec"` // Cron spec with seconds field.
	RunOnStart   bool   `yaml:"run_on_start"`
}

type job struct {
	name    string
	running atomic.Bool
	run     func(ctx context.Context)
}

type _Scheduler struct {
	cfg     Config
	cron    *cron.Cron
	locker  Locker
	lockTTL time.Duration

	sync     *job
	dispatch *job

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	stopped atomic.Bool
}

type SchedulerOption func(*_Scheduler)

func WithLocker(locker Locker, ttl time.Duration) SchedulerOption {
	return func(s *_Scheduler) {
		s.locker = locker
		if ttl > 0 {
			s.lockTTL = ttl
		}
	}
}

func NewScheduler(cfg Config, certSync cert_sync.CertSync, dispatcher notification.Dispatcher, options ...SchedulerOption) *_Scheduler {
	if cfg.SyncSpec == "" {
		cfg.SyncSpec = DefaultSyncSpec
	}
	if cfg.DispatchSpec == "" {
		cfg.DispatchSpec = DefaultDispatchSpec
	}

	logger := cronLogger{}
	ctx, cancel := context.WithCancel(context.Background())
	s := &_Scheduler{
		cfg: cfg,
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		lockTTL: defaultLockTTL,
		ctx:     ctx,
		cancel:  cancel,
	}
	s.sync = &job{
		name: JobSync,
		run: func(ctx context.Context) {
			result := certSync.SyncAll(ctx)
			if result.Failed > 0 || len(result.Errors) > 0 {
				logrus.Warnf("scheduler: sync finished with %d failed CAs and %d errors", result.Failed, len(result.Errors))
			}
		},
	}
	s.dispatch = &job{
		name: JobDispatch,
		run: func(ctx context.Context) {
			result, err := dispatcher.Dispatch(ctx, time.Now().Unix())
			if err != nil {
				logrus.Errorf("scheduler: dispatch failed: %v", err)
				return
			}
			if result.Failed > 0 {
				logrus.Warnf("scheduler: dispatch finished with %d failed notices", result.Failed)
			}
		},
	}

	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *_Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.SyncSpec, func() { s.execute(s.sync) }); err != nil {
		return fmt.Errorf("invalid sync schedule %q: %w", s.cfg.SyncSpec, err)
	}
	if _, err := s.cron.AddFunc(s.cfg.DispatchSpec, func() { s.execute(s.dispatch) }); err != nil {
		return fmt.Errorf("invalid dispatch schedule %q: %w", s.cfg.DispatchSpec, err)
	}

	s.cron.Start()
	logrus.Infof("scheduler: started, sync %q, dispatch %q", s.cfg.SyncSpec, s.cfg.DispatchSpec)

	if s.cfg.RunOnStart {
		s.TriggerSync()
	}
	return nil
}

func (s *_Scheduler) Stop() {
	if !s.stopped.CompareAndSwap(false, true) {
		return
	}
	stopped := s.cron.Stop()
	s.cancel()
	<-stopped.Done()
	s.wg.Wait()
	logrus.Info("scheduler: stopped")
}

func (s *_Scheduler) TriggerSync() bool {
	return s.trigger(s.sync)
}

func (s *_Scheduler) TriggerDispatch() bool {
	return s.trigger(s.dispatch)
}

func (s *_Scheduler) trigger(j *job) bool {
	if s.stopped.Load() {
		return false
	}
	if j.running.Load() {
		logrus.Infof("scheduler: %s is already running", j.name)
		return false
	}

	started := make(chan bool, 1)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.executeAndReport(j, started)
	}()
	return <-started
}

func (s *_Scheduler) execute(j *job) {
	s.wg.Add(1)
	defer s.wg.Done()
	s.executeAndReport(j, nil)
}

// executeAndReport runs j unless it is already running here or elsewhere. started receives
// whether the run went ahead.
func (s *_Scheduler) executeAndReport(j *job, started chan<- bool) {
	report := func(ok bool) {
		if started != nil {
			started <- ok
		}
	}

	if !j.running.CompareAndSwap(false, true) {
		logrus.Infof("scheduler: skip %s, the previous run is still going", j.name)
		report(false)
		return
	}
	defer j.running.Store(false)

	if s.locker != nil {
		unlock, ok, err := s.locker.TryLock(s.ctx, j.name, s.lockTTL)
		if err != nil {
			logrus.Errorf("scheduler: failed to take the %s lock: %v", j.name, err)
			report(false)
			return
		}
		if !ok {
			logrus.Infof("scheduler: skip %s, another replica holds the lock", j.name)
			report(false)
			return
		}
		defer unlock(context.Background())
	}

	report(true)
	begin := time.Now()
	logrus.Infof("scheduler: %s started", j.name)
	j.run(s.ctx)
	logrus.Infof("scheduler: %s finished in %s", j.name, time.Since(begin).Round(time.Millisecond))
}

// cronLogger routes cron's logging to logrus.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logrus.WithFields(fields(keysAndValues)).Debug("cron: " + msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logrus.WithFields(fields(keysAndValues)).WithError(err).Error("cron: " + msg)
}

func fields(keysAndValues []interface{}) logrus.Fields {
	f := logrus.Fields{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		f[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return f
}
