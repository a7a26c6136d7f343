package versioncheck

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/Masterminds/semver/v3"
	errors "github.com/frahmantamala/chat-admin/internal"
	vcDatamodel "github.com/frahmantamala/chat-admin/internal/core/datamodel/versioncheck"
	"github.com/frahmantamala/chat-admin/internal/core/events"
	"github.com/frahmantamala/chat-admin/internal/settings"
)

type Fetcher interface {
	Fetch(ctx context.Context, currentVersion string) (*Releases, error)
}

// RepositoryAPI persists the single version check row. Get returns nil, nil before the first check.
type RepositoryAPI interface {
	Get(ctx context.Context) (*vcDatamodel.VersionCheck, error)
	Save(ctx context.Context, check *vcDatamodel.VersionCheck) error
	DismissBanner(ctx context.Context) (bool, error)
}

type JobScheduler interface {
	Schedule(name, spec string, job func()) error
	Remove(name string) bool
	IsScheduled(name string) bool
}

// SettingsWatcher is the subset of the settings store the activation policy listens to.
type SettingsWatcher interface {
	Watch(key string, fn func(value json.RawMessage)) func()
	Bool(key string) bool
}

type Config struct {
	CurrentVersion string
	Schedule       string
	JobTimeout     time.Duration
}

type Service struct {
	repo      RepositoryAPI
	fetcher   Fetcher
	scheduler JobScheduler
	bus       *events.EventBus
	config    Config
	logger    *slog.Logger

	activationMu sync.Mutex
	now          func() time.Time
}

func NewService(repo RepositoryAPI, fetcher Fetcher, scheduler JobScheduler, bus *events.EventBus, config Config, logger *slog.Logger) *Service {
	if config.Schedule == "" {
		config.Schedule = errors.DefaultVersionCheckSchedule
	}
	if config.JobTimeout <= 0 {
		config.JobTimeout = time.Minute
	}
	return &Service{
		repo:      repo,
		fetcher:   fetcher,
		scheduler: scheduler,
		bus:       bus,
		config:    config,
		logger:    logger,
		now:       time.Now,
	}
}

// Check fetches the release list, stores the outcome and returns it.
func (s *Service) Check(ctx context.Context) (*Result, error) {
	current, err := semver.NewVersion(s.config.CurrentVersion)
	if err != nil {
		return nil, errors.NewInternalError("current version is not a valid semver", err)
	}

	releases, err := s.fetcher.Fetch(ctx, s.config.CurrentVersion)
	if err != nil {
		return nil, errors.NewExternalError("failed to fetch release metadata", errors.ErrCodeVersionCheckFailed, err)
	}

	latest := highestRelease(releases, s.logger)
	if latest == nil {
		latest = current
	}

	result := &Result{
		CheckedAt:      s.now(),
		CurrentVersion: current.String(),
		LatestVersion:  latest.String(),
		UpdateNeeded:   latest.GreaterThan(current),
	}

	previous, err := s.repo.Get(ctx)
	if err != nil {
		return nil, errors.NewInternalError("failed to load previous version check", err)
	}
	if previous != nil && previous.LatestVersion == result.LatestVersion {
		result.BannerDismissed = previous.BannerDismissed
	}

	if err := s.repo.Save(ctx, ToDataModel(result)); err != nil {
		return nil, errors.NewInternalError("failed to save version check", err)
	}

	s.logger.Info("version check completed",
		"current", result.CurrentVersion,
		"latest", result.LatestVersion,
		"update_needed", result.UpdateNeeded,
	)

	if err := s.bus.Publish(ctx, events.NewEvent(events.TypeVersionCheckCompleted, *result)); err != nil {
		s.logger.Warn("failed to publish version check result", "error", err)
	}

	return result, nil
}

// RunCheck is the scheduled form of Check: failures are logged, never returned.
func (s *Service) RunCheck(ctx context.Context) {
	if _, err := s.Check(ctx); err != nil {
		s.logger.Error("version check failed", "error", err)
	}
}

func (s *Service) job() {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.JobTimeout)
	defer cancel()
	s.RunCheck(ctx)
}

// ScheduleDaily registers the daily job, replacing any existing registration.
func (s *Service) ScheduleDaily() error {
	return s.scheduler.Schedule(JobName, s.config.Schedule, s.job)
}

func (s *Service) Unschedule() bool {
	return s.scheduler.Remove(JobName)
}

// ApplyActivation schedules the job only for registered servers with the checker enabled.
func (s *Service) ApplyActivation(registered, checkerEnabled bool) (Activation, error) {
	s.activationMu.Lock()
	defer s.activationMu.Unlock()

	if registered && checkerEnabled {
		if s.scheduler.IsScheduled(JobName) {
			return ActivationAlreadyScheduled, nil
		}
		if err := s.ScheduleDaily(); err != nil {
			return "", err
		}
		return ActivationScheduled, nil
	}

	s.Unschedule()
	return ActivationUnscheduled, nil
}

// Watch re-applies the activation policy now and on every change of either controlling setting.
func (s *Service) Watch(store SettingsWatcher) func() {
	apply := func(json.RawMessage) {
		activation, err := s.ApplyActivation(
			store.Bool(settings.KeyRegisterServer),
			store.Bool(settings.KeyUpdateEnableChecker),
		)
		if err != nil {
			s.logger.Error("failed to apply version check activation", "error", err)
			return
		}
		s.logger.Debug("version check activation evaluated", "activation", activation)
	}

	stopRegister := store.Watch(settings.KeyRegisterServer, apply)
	stopChecker := store.Watch(settings.KeyUpdateEnableChecker, apply)
	return func() {
		stopRegister()
		stopChecker()
	}
}

// Start applies the activation policy, keeps it in sync with the settings and
// fires one check in the background whatever the schedule state is.
func (s *Service) Start(ctx context.Context, store SettingsWatcher) func() {
	stop := s.Watch(store)
	go s.RunCheck(ctx)
	return stop
}

func (s *Service) Latest(ctx context.Context) (*Result, error) {
	check, err := s.repo.Get(ctx)
	if err != nil {
		return nil, errors.NewInternalError("failed to load version check", err)
	}
	if check == nil {
		return nil, errors.ErrVersionCheckNotFound
	}
	return FromDataModel(check), nil
}

// DismissBanner hides the update banner until a newer release shows up.
func (s *Service) DismissBanner(ctx context.Context) error {
	found, err := s.repo.DismissBanner(ctx)
	if err != nil {
		return errors.NewInternalError("failed to dismiss banner", err)
	}
	if !found {
		return errors.ErrVersionCheckNotFound
	}

	if err := s.bus.Publish(ctx, events.NewEvent(events.TypeBannerDismissed, nil)); err != nil {
		s.logger.Warn("failed to publish banner dismissal", "error", err)
	}
	return nil
}

func highestRelease(releases *Releases, logger *slog.Logger) *semver.Version {
	var latest *semver.Version
	for _, r := range releases.Versions {
		v, err := semver.NewVersion(r.Version)
		if err != nil {
			logger.Warn("skipping unparsable release version", "version", r.Version)
			continue
		}
		if v.Prerelease() != "" {
			continue
		}
		if latest == nil || v.GreaterThan(latest) {
			latest = v
		}
	}
	return latest
}
