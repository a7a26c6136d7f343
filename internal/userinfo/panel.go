package userinfo

import (
	"context"
	"log/slog"
	"sync"

	"github.com/frahmantamala/chat-admin/internal/settings"
	"github.com/frahmantamala/chat-admin/internal/user"
)

type State string

const (
	StateLoading State = "LOADING"
	StateLoaded  State = "LOADED"
	StateError   State = "ERROR"
)

// View is what the panel renders. Exactly one State holds at a time.
type View struct {
	State      State              `json:"state"`
	Profile    *ProfileView       `json:"profile,omitempty"`
	Actions    []ActionDescriptor `json:"actions,omitempty"`
	Error      string             `json:"error,omitempty"`
	Generation uint64             `json:"generation"`
}

type PanelConfig struct {
	Lookup      user.Lookup
	Permissions []string
	Endpoints   Endpoints
	Settings    SettingsSource
	Presenter   Presenter
	Router      Router
	Translator  *Translator
	Logger      *slog.Logger
	// OnChange is called after a mutation, before the panel refetches.
	OnChange func()
}

// Panel loads one user and exposes the profile plus the permitted actions.
type Panel struct {
	mu          sync.Mutex
	cfg         PanelConfig
	ctx         context.Context
	generation  uint64
	view        View
	user        *user.User
	snapshot    settings.Snapshot
	unsubscribe func()
}

func NewPanel(cfg PanelConfig) *Panel {
	if cfg.Translator == nil {
		cfg.Translator = NewTranslator("en")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Presenter == nil {
		cfg.Presenter = nopPresenter{}
	}
	if cfg.Router == nil {
		cfg.Router = nopRouter{}
	}
	return &Panel{
		cfg:  cfg,
		ctx:  context.Background(),
		view: View{State: StateLoading},
	}
}

// Mount subscribes to settings changes and performs the first load.
func (p *Panel) Mount(ctx context.Context) View {
	p.mu.Lock()
	p.ctx = ctx
	if p.unsubscribe == nil && p.cfg.Settings != nil {
		p.unsubscribe = p.cfg.Settings.Subscribe(p.settingsChanged)
	}
	p.mu.Unlock()

	return p.load(ctx)
}

// Unmount drops the settings subscription. Results still in flight are discarded.
func (p *Panel) Unmount() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.unsubscribe != nil {
		p.unsubscribe()
		p.unsubscribe = nil
	}
	p.generation++
}

// SetLookup switches the panel to another user and reloads.
func (p *Panel) SetLookup(ctx context.Context, lookup user.Lookup) View {
	p.mu.Lock()
	p.cfg.Lookup = lookup
	p.mu.Unlock()
	return p.load(ctx)
}

// OnChange bumps the generation and refetches.
func (p *Panel) OnChange() {
	if p.cfg.OnChange != nil {
		p.cfg.OnChange()
	}
	p.mu.Lock()
	ctx := p.ctx
	p.mu.Unlock()
	p.load(ctx)
}

func (p *Panel) View() View {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.view
}

func (p *Panel) Generation() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.generation
}

func (p *Panel) load(ctx context.Context) View {
	p.mu.Lock()
	p.generation++
	gen := p.generation
	lookup := p.cfg.Lookup
	p.view = View{State: StateLoading, Generation: gen}
	p.mu.Unlock()

	logger := p.cfg.Logger.With("generation", gen, "user_id", lookup.UserID, "username", lookup.Username)

	snapshot, settingsErr := p.currentSettings(ctx)
	if settingsErr != nil {
		logger.Warn("failed to load settings, keeping previous snapshot", "error", settingsErr)
	}

	var (
		u   *user.User
		err = lookup.Validate()
	)
	if err == nil {
		u, err = p.cfg.Endpoints.Info(ctx, lookup)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if gen != p.generation {
		logger.Debug("discarding stale user fetch", "current_generation", p.generation)
		return p.view
	}

	if settingsErr == nil {
		p.snapshot = snapshot
	}

	if err != nil {
		logger.Warn("failed to load user", "error", err)
		p.user = nil
		p.view = View{State: StateError, Error: p.cfg.Translator.T("User_not_found"), Generation: gen}
		return p.view
	}

	p.user = u
	p.view = p.render(gen)
	return p.view
}

func (p *Panel) currentSettings(ctx context.Context) (settings.Snapshot, error) {
	if p.cfg.Settings == nil {
		return settings.Snapshot{ErasureType: settings.ErasureDelete}, nil
	}
	return p.cfg.Settings.CurrentSettings(ctx)
}

func (p *Panel) settingsChanged(snapshot settings.Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snapshot = snapshot
	if p.view.State == StateLoaded && p.user != nil {
		p.view = p.render(p.view.Generation)
	}
}

// render must be called with mu held.
func (p *Panel) render(gen uint64) View {
	profile := BuildProfile(p.user, p.snapshot)
	actions := NewActions(ActionProps{
		UserID:    p.user.ID,
		Username:  p.user.Username,
		Active:    p.user.Active,
		Admin:     p.user.IsAdmin(),
		Erasure:   p.snapshot.ErasureType,
		Endpoints: p.cfg.Endpoints,
		Presenter: p.cfg.Presenter,
		Router:    p.cfg.Router,
		T:         p.cfg.Translator,
		OnChange:  p.OnChange,
		Logger:    p.cfg.Logger,
	})

	return View{
		State:      StateLoaded,
		Profile:    &profile,
		Actions:    actions.List(p.cfg.Permissions),
		Generation: gen,
	}
}
