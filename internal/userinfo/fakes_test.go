package userinfo_test

import (
	"context"
	"sync"

	"github.com/frahmantamala/chat-admin/internal/settings"
	"github.com/frahmantamala/chat-admin/internal/user"
	"github.com/frahmantamala/chat-admin/internal/userinfo"
)

type FakeEndpoints struct {
	mu sync.Mutex

	users map[string]*user.User
	// gates block Info for a lookup until closed; started is signalled on entry.
	gates   map[string]chan struct{}
	started chan string

	deleteResults []userinfo.Result
	deleteErrs    []error
	deleteCalls   []user.DeleteRequest

	activeResults []userinfo.Result
	activeErrs    []error
	activeCalls   []user.SetActiveStatusRequest

	adminErr   error
	adminCalls []bool
}

func NewFakeEndpoints(users ...*user.User) *FakeEndpoints {
	f := &FakeEndpoints{
		users:   make(map[string]*user.User),
		gates:   make(map[string]chan struct{}),
		started: make(chan string, 10),
	}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *FakeEndpoints) Info(ctx context.Context, lookup user.Lookup) (*user.User, error) {
	key := lookup.UserID
	if key == "" {
		key = lookup.Username
	}
	select {
	case f.started <- key:
	default:
	}

	f.mu.Lock()
	gate := f.gates[key]
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == lookup.UserID || (lookup.UserID == "" && u.Username == lookup.Username) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, errUserNotFound
}

func (f *FakeEndpoints) Delete(ctx context.Context, req user.DeleteRequest) (userinfo.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := len(f.deleteCalls)
	f.deleteCalls = append(f.deleteCalls, req)
	return pick(f.deleteResults, n), pickErr(f.deleteErrs, n)
}

func (f *FakeEndpoints) SetActiveStatus(ctx context.Context, req user.SetActiveStatusRequest) (userinfo.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := len(f.activeCalls)
	f.activeCalls = append(f.activeCalls, req)
	return pick(f.activeResults, n), pickErr(f.activeErrs, n)
}

func (f *FakeEndpoints) SetAdminStatus(ctx context.Context, userID string, admin bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.adminCalls = append(f.adminCalls, admin)
	return f.adminErr
}

func pick(results []userinfo.Result, n int) userinfo.Result {
	if n < len(results) {
		return results[n]
	}
	return userinfo.Result{Success: true}
}

func pickErr(errs []error, n int) error {
	if n < len(errs) {
		return errs[n]
	}
	return nil
}

type RecordingPresenter struct {
	modals []userinfo.Modal
	closed int
	toasts []userinfo.Toast
}

func (p *RecordingPresenter) SetModal(m userinfo.Modal) { p.modals = append(p.modals, m) }
func (p *RecordingPresenter) CloseModal()               { p.closed++ }
func (p *RecordingPresenter) Toast(t userinfo.Toast)    { p.toasts = append(p.toasts, t) }

func (p *RecordingPresenter) Last() userinfo.Modal {
	if len(p.modals) == 0 {
		return nil
	}
	return p.modals[len(p.modals)-1]
}

type RecordingRouter struct {
	route  string
	params map[string]string
}

func (r *RecordingRouter) Push(route string, params map[string]string) {
	r.route = route
	r.params = params
}

type FakeSettings struct {
	mu        sync.Mutex
	snapshot  settings.Snapshot
	listeners map[int]func(settings.Snapshot)
	next      int
}

func NewFakeSettings(s settings.Snapshot) *FakeSettings {
	return &FakeSettings{snapshot: s, listeners: make(map[int]func(settings.Snapshot))}
}

func (f *FakeSettings) CurrentSettings(ctx context.Context) (settings.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshot, nil
}

func (f *FakeSettings) Subscribe(fn func(settings.Snapshot)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.next
	f.next++
	f.listeners[id] = fn
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.listeners, id)
	}
}

func (f *FakeSettings) Set(s settings.Snapshot) {
	f.mu.Lock()
	f.snapshot = s
	listeners := make([]func(settings.Snapshot), 0, len(f.listeners))
	for _, fn := range f.listeners {
		listeners = append(listeners, fn)
	}
	f.mu.Unlock()
	for _, fn := range listeners {
		fn(s)
	}
}

func (f *FakeSettings) Listeners() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.listeners)
}
