package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/dmitrijs2005/donadmin/internal/client/rest"
	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool
	calls    []string
	err      error
}

func (f *fakeExec) record(call string) error {
	f.calls = append(f.calls, call)
	return f.err
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Go(ctx context.Context, path string) error {
	return f.record("go " + path)
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.loggedIn = true
	return f.record("login")
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.loggedIn = false
	return f.record("logout")
}
func (f *fakeExec) New(ctx context.Context) error   { return f.record("new") }
func (f *fakeExec) Close(ctx context.Context) error { return f.record("close") }
func (f *fakeExec) Set(ctx context.Context, field, value string) error {
	return f.record(fmt.Sprintf("set %s=%q", field, value))
}
func (f *fakeExec) Generate(ctx context.Context) error { return f.record("generate") }
func (f *fakeExec) Submit(ctx context.Context) error   { return f.record("submit") }
func (f *fakeExec) Destroy(ctx context.Context) error  { return f.record("destroy") }
func (f *fakeExec) Photo(ctx context.Context, file string) error {
	return f.record("photo " + file)
}
func (f *fakeExec) Unphoto(ctx context.Context) error { return f.record("unphoto") }
func (f *fakeExec) Table(ctx context.Context, cmd string, args []string) error {
	return f.record(strings.TrimSpace(cmd + " " + strings.Join(args, " ")))
}

func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, fmt.Sprint(a...))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func runScript(exec execIface, lines ...string) {
	sc := bufio.NewScanner(strings.NewReader(strings.Join(lines, "\n")))
	runREPL(context.Background(), exec, func() string { return "status" }, sc)
}

func TestRunREPL_Dispatch(t *testing.T) {
	captureOutput(t)
	exec := &fakeExec{}

	runScript(exec,
		"help",
		"ads",
		"ads 42",
		"users",
		"carousel",
		"home",
		"login",
		"new",
		"set title  Warm   coat ",
		"set password",
		"generate",
		"photo ./pics/my coat.png",
		"unphoto",
		"submit",
		"close",
		"sort title",
		"filter title coat",
		"page 2",
		"rows all",
		"select 3",
		"dense off",
		"destroy",
		"logout",
		"exit",
		"ads",
	)

	assert.Equal(t, []string{
		"go /ads",
		"go /ads/42",
		"go /users",
		"go /adsCarousel",
		"go /",
		"login",
		"new",
		`set title="Warm   coat"`,
		`set password=""`,
		"generate",
		"photo ./pics/my coat.png",
		"unphoto",
		"submit",
		"close",
		"sort title",
		"filter title coat",
		"page 2",
		"rows all",
		"select 3",
		"dense off",
		"destroy",
		"logout",
	}, exec.calls, "nothing runs after exit")
}

func TestRunREPL_HelpDependsOnSession(t *testing.T) {
	out := captureOutput(t)

	runScript(&fakeExec{}, "help")
	assert.Contains(t, *out, guestHelp)

	*out = nil
	runScript(&fakeExec{loggedIn: true}, "help")
	assert.Contains(t, *out, adminHelp)
}

func TestRunREPL_Errors(t *testing.T) {
	t.Run("local errors are printed", func(t *testing.T) {
		out := captureOutput(t)
		runScript(&fakeExec{err: errNoForm}, "submit")
		assert.Contains(t, *out, "Error:"+errNoForm.Error())
	})

	t.Run("notified errors are not printed twice", func(t *testing.T) {
		out := captureOutput(t)
		runScript(&fakeExec{err: &rest.HTTPError{StatusCode: 500, StatusText: "Internal Server Error"}}, "submit")
		for _, l := range *out {
			assert.NotContains(t, l, "Error:")
		}
	})

	t.Run("unknown command", func(t *testing.T) {
		out := captureOutput(t)
		exec := &fakeExec{}
		runScript(exec, "foobar", "")
		assert.Contains(t, *out, "Unknown command:foobar")
		assert.Empty(t, exec.calls)
	})
}

func TestReported(t *testing.T) {
	assert.True(t, reported(fmt.Errorf("wrap: %w", rest.ErrUnavailable)))
	assert.True(t, reported(&rest.HTTPError{StatusCode: 404, StatusText: "Not Found"}))
	assert.False(t, reported(errors.New("plain")))
	assert.False(t, reported(errNoTable))
}
