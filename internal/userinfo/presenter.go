package userinfo

// Modal is one of the dialogs the panel can open. Only one is open at a time.
type Modal interface {
	modal()
}

// DeleteWarningModal asks for confirmation before deleting a user.
type DeleteWarningModal struct {
	Title        string
	Text         string
	ConfirmLabel string
	CancelLabel  string
	OnConfirm    func()
	OnCancel     func()
}

// SuccessModal reports a completed deletion.
type SuccessModal struct {
	Title      string
	Text       string
	CloseLabel string
	OnClose    func()
}

// OwnerChangeWarningModal explains what relinquishing ownership will do.
type OwnerChangeWarningModal struct {
	Title             string
	ContentTitle      string
	ShouldChangeOwner bool
	ShouldBeRemoved   bool
	ChangeOwnerRooms  []string
	RemovedRooms      []string
	Lines             []string
	ConfirmLabel      string
	CancelLabel       string
	OnConfirm         func()
	OnCancel          func()
}

func (DeleteWarningModal) modal()      {}
func (SuccessModal) modal()            {}
func (OwnerChangeWarningModal) modal() {}

type ToastType string

const (
	ToastSuccess ToastType = "success"
	ToastError   ToastType = "error"
)

type Toast struct {
	Type    ToastType `json:"type"`
	Message string    `json:"message"`
}

// Presenter shows modals and toasts on behalf of the panel.
type Presenter interface {
	SetModal(m Modal)
	CloseModal()
	Toast(t Toast)
}

// Router navigates to another screen of the admin surface.
type Router interface {
	Push(route string, params map[string]string)
}

const (
	RouteDirect     = "direct"
	RouteAdminUsers = "admin-users"
)

type nopPresenter struct{}

func (nopPresenter) SetModal(Modal) {}
func (nopPresenter) CloseModal()    {}
func (nopPresenter) Toast(Toast)    {}

type nopRouter struct{}

func (nopRouter) Push(string, map[string]string) {}
