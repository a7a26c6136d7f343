package userinfo

import (
	"bufio"
	"fmt"
	"io"
	"net/url"
	"strings"
)

// ConsolePresenter renders modals as y/N prompts and toasts as printed lines.
type ConsolePresenter struct {
	in        *bufio.Reader
	out       io.Writer
	assumeYes bool
}

func NewConsolePresenter(in io.Reader, out io.Writer, assumeYes bool) *ConsolePresenter {
	return &ConsolePresenter{in: bufio.NewReader(in), out: out, assumeYes: assumeYes}
}

func (c *ConsolePresenter) SetModal(m Modal) {
	switch modal := m.(type) {
	case DeleteWarningModal:
		fmt.Fprintf(c.out, "%s\n%s\n", modal.Title, modal.Text)
		c.decide(modal.ConfirmLabel, modal.OnConfirm, modal.OnCancel)
	case OwnerChangeWarningModal:
		fmt.Fprintf(c.out, "%s\n%s\n", modal.Title, modal.ContentTitle)
		for _, line := range modal.Lines {
			fmt.Fprintf(c.out, "  - %s\n", line)
		}
		c.decide(modal.ConfirmLabel, modal.OnConfirm, modal.OnCancel)
	case SuccessModal:
		fmt.Fprintf(c.out, "%s %s\n", modal.Title, modal.Text)
		if modal.OnClose != nil {
			modal.OnClose()
		}
	}
}

func (c *ConsolePresenter) CloseModal() {}

func (c *ConsolePresenter) Toast(t Toast) {
	fmt.Fprintf(c.out, "[%s] %s\n", t.Type, t.Message)
}

func (c *ConsolePresenter) decide(label string, onConfirm, onCancel func()) {
	if c.confirm(label) {
		if onConfirm != nil {
			onConfirm()
		}
		return
	}
	if onCancel != nil {
		onCancel()
	}
}

func (c *ConsolePresenter) confirm(label string) bool {
	if c.assumeYes {
		return true
	}
	fmt.Fprintf(c.out, "%s [y/N]: ", label)
	answer, err := c.in.ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

// ConsoleRouter prints the admin URL a route would open.
type ConsoleRouter struct {
	baseURL string
	out     io.Writer
}

func NewConsoleRouter(baseURL string, out io.Writer) *ConsoleRouter {
	return &ConsoleRouter{baseURL: strings.TrimRight(baseURL, "/"), out: out}
}

func (r *ConsoleRouter) Push(route string, params map[string]string) {
	fmt.Fprintln(r.out, r.URL(route, params))
}

func (r *ConsoleRouter) URL(route string, params map[string]string) string {
	switch route {
	case RouteDirect:
		return r.baseURL + "/direct/" + url.PathEscape(params["rid"])
	case RouteAdminUsers:
		return r.baseURL + "/admin/users/" + url.PathEscape(params["context"]) + "/" + url.PathEscape(params["id"])
	}
	q := url.Values{}
	for k, v := range params {
		q.Set(k, v)
	}
	return r.baseURL + "/" + route + "?" + q.Encode()
}
