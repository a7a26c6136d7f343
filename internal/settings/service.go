package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	errors "github.com/frahmantamala/chat-admin/internal"
	settingDatamodel "github.com/frahmantamala/chat-admin/internal/core/datamodel/setting"
	"github.com/frahmantamala/chat-admin/internal/core/events"
)

type RepositoryAPI interface {
	GetAll(ctx context.Context) ([]*settingDatamodel.Setting, error)
	Upsert(ctx context.Context, s *settingDatamodel.Setting) error
}

// Change is the payload of a setting.changed event.
type Change struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

// Store caches settings in memory and notifies watchers when one is changed through it.
type Store struct {
	repo   RepositoryAPI
	bus    *events.EventBus
	logger *slog.Logger

	mu     sync.RWMutex
	values map[string]json.RawMessage
}

func NewStore(repo RepositoryAPI, bus *events.EventBus, logger *slog.Logger) *Store {
	values := make(map[string]json.RawMessage, len(definitions))
	for _, key := range Keys() {
		values[key] = defaultRaw(key)
	}
	return &Store{
		repo:   repo,
		bus:    bus,
		logger: logger,
		values: values,
	}
}

// Load replaces the cache with what is persisted. Unknown keys are ignored.
func (s *Store) Load(ctx context.Context) error {
	rows, err := s.repo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	s.mu.Lock()
	for _, row := range rows {
		if !IsKnown(row.Key) {
			s.logger.Warn("ignoring unknown setting", "key", row.Key)
			continue
		}
		raw := json.RawMessage(row.Value)
		if err := definitions[row.Key].validate(raw); err != nil {
			s.logger.Warn("ignoring invalid persisted setting", "key", row.Key, "error", err)
			continue
		}
		s.values[row.Key] = raw
	}
	s.mu.Unlock()

	s.logger.Info("settings loaded", "count", len(rows))
	return nil
}

func (s *Store) Value(key string) (json.RawMessage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *Store) Bool(key string) bool {
	raw, ok := s.Value(key)
	if !ok {
		return false
	}
	var b bool
	_ = json.Unmarshal(raw, &b)
	return b
}

func (s *Store) String(key string) string {
	raw, ok := s.Value(key)
	if !ok {
		return ""
	}
	var str string
	_ = json.Unmarshal(raw, &str)
	return str
}

func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		RegisterServer:       s.Bool(KeyRegisterServer),
		UpdateCheckerEnabled: s.Bool(KeyUpdateEnableChecker),
		ShowRealNames:        s.Bool(KeyUseRealName),
		ApproveManuallyUsers: s.Bool(KeyManuallyApproveNewUsers),
		ErasureType:          ErasureType(s.String(KeyMessageErasureType)),
	}
}

// CurrentSettings lets the store act as a settings source for the user info panel.
func (s *Store) CurrentSettings(ctx context.Context) (Snapshot, error) {
	return s.Snapshot(), nil
}

// Set validates, persists and broadcasts a new value.
func (s *Store) Set(ctx context.Context, key string, value interface{}) error {
	if !IsKnown(key) {
		return errors.NewNotFoundError(fmt.Sprintf("setting %s not found", key), errors.ErrCodeSettingNotFound)
	}

	raw, ok := value.(json.RawMessage)
	if !ok {
		encoded, err := json.Marshal(value)
		if err != nil {
			return errors.NewValidationError("value is not serializable", errors.ErrCodeValidationFailed)
		}
		raw = encoded
	}
	if err := definitions[key].validate(raw); err != nil {
		return err
	}

	if err := s.repo.Upsert(ctx, &settingDatamodel.Setting{
		Key:       key,
		Value:     string(raw),
		UpdatedAt: time.Now(),
	}); err != nil {
		return errors.NewInternalError("failed to save setting", err)
	}

	s.mu.Lock()
	s.values[key] = raw
	s.mu.Unlock()

	s.logger.Info("setting updated", "key", key, "value", string(raw))

	return s.bus.PublishSync(ctx, events.NewEvent(events.TypeSettingChanged, Change{Key: key, Value: raw}))
}

// Watch calls fn with the current value of key right away and again whenever it changes.
func (s *Store) Watch(key string, fn func(value json.RawMessage)) func() {
	unsubscribe := s.bus.Subscribe(events.TypeSettingChanged, func(ctx context.Context, event events.Event) error {
		change, ok := event.Payload().(Change)
		if !ok || change.Key != key {
			return nil
		}
		fn(change.Value)
		return nil
	})

	if raw, ok := s.Value(key); ok {
		fn(raw)
	}
	return unsubscribe
}

// Subscribe delivers a fresh snapshot after every change. Unlike Watch it does not fire immediately.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	return s.bus.Subscribe(events.TypeSettingChanged, func(ctx context.Context, event events.Event) error {
		fn(s.Snapshot())
		return nil
	})
}
