package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"github.com/steelcutops/usermgr/logger"
	"github.com/steelcutops/usermgr/usermgr/apiclient"
	"github.com/steelcutops/usermgr/usermgr/authstore"
	"github.com/steelcutops/usermgr/usermgr/config"
	"github.com/steelcutops/usermgr/usermgr/screen"
	"github.com/steelcutops/usermgr/usermgr/tui"
	"github.com/steelcutops/usermgr/usermgr/usermanager"
	"golang.org/x/term"
)

var errSessionExpired = errors.New("not logged in or session expired; run 'usermgr login'")

type flags struct {
	BaseURL     string
	Concurrency int
	ConfigPath  string
	Debug       bool
	LogFileName string
	Timeout     time.Duration
}

type app struct {
	flags flags

	cfg     *config.Config
	log     logger.Logger
	logFile *os.File
	auth    *authstore.FileStore
	// session supplies the request token: auth, or an in-memory token
	// from the configuration.
	session  authstore.Store
	client   *apiclient.Client
	users    *usermanager.RemoteUserManager
	prompter tui.Prompter

	// interactive is set when stdin is a terminal, or forced by tests.
	interactive bool
}

func main() {
	a := &app{prompter: tui.HuhPrompter{}}
	if err := a.execute(context.Background(), newRootCmd(a)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// execute runs root and closes the log file whether or not the command
// succeeded.
func (a *app) execute(ctx context.Context, root *cobra.Command) error {
	defer a.close()
	return root.ExecuteContext(ctx)
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "usermgr",
		Short:         "Manage users of a remote user API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.ConfigPath, "config", config.DefaultConfigFile(), "Path to INI config file")
	pf.StringVar(&a.flags.BaseURL, "base-url", "", "User API base URL")
	pf.DurationVar(&a.flags.Timeout, "timeout", 0, "HTTP timeout")
	pf.StringVar(&a.flags.LogFileName, "log", "", "Log file name (default stderr)")
	pf.BoolVar(&a.flags.Debug, "debug", false, "Enable debug log level")
	pf.IntVar(&a.flags.Concurrency, "concurrency", 0, "Maximum number of concurrent requests for bulk operations")

	root.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newListCmd(a),
		newGetCmd(a),
		newEditCmd(a),
		newDeleteCmd(a),
		newBrowseCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.flags.ConfigPath)
	if err != nil {
		return err
	}

	f := cmd.Flags()
	if f.Changed("base-url") {
		cfg.BaseURL = a.flags.BaseURL
	}
	if f.Changed("timeout") {
		cfg.Timeout = a.flags.Timeout
	}
	if f.Changed("log") {
		cfg.LogFile = a.flags.LogFileName
	}
	if f.Changed("debug") {
		cfg.Debug = a.flags.Debug
	}
	if f.Changed("concurrency") {
		cfg.Concurrency = a.flags.Concurrency
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg

	if err := a.configureLogger(cmd.ErrOrStderr()); err != nil {
		return err
	}
	a.log = a.log.With("command", cmd.Name())

	a.auth = authstore.NewFileStore(cfg.CredentialsFile, a.log)
	a.session = a.auth
	if cfg.Token != "" {
		a.session = authstore.NewMemoryStore(cfg.Token)
	}
	a.client = apiclient.NewClient(cfg.BaseURL,
		apiclient.WithTimeout(cfg.Timeout),
		apiclient.WithTokenSource(a.session),
		apiclient.WithLogger(a.log),
	)
	a.log.Debug("API client ready", "base_url", a.client.BaseURL())
	a.users = &usermanager.RemoteUserManager{Requester: a.client}
	if a.prompter == nil {
		a.prompter = tui.HuhPrompter{}
	}
	if isTerminal(cmd.InOrStdin()) {
		a.interactive = true
	}
	return nil
}

func (a *app) configureLogger(stderr io.Writer) error {
	out := stderr
	if a.cfg.LogFile != "" {
		file, err := os.OpenFile(a.cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		a.logFile = file
		out = file
	}

	a.log = logger.New(logger.Options{Output: out, Debug: a.cfg.Debug})
	return nil
}

func (a *app) close() {
	if a.logFile != nil {
		_ = a.logFile.Close()
	}
}

// tracker sits between the screen and its collaborators. It remembers the
// last mutation error and whether the session was cleared, so commands can
// report what the screen only logs.
type tracker struct {
	usermanager.UserManager
	auth authstore.HeaderSetter

	mu      sync.Mutex
	err     error
	expired bool
}

func (t *tracker) ModifyUser(ctx context.Context, user usermanager.User) error {
	return t.record(t.UserManager.ModifyUser(ctx, user))
}

func (t *tracker) DeleteUser(ctx context.Context, id usermanager.ID) error {
	return t.record(t.UserManager.DeleteUser(ctx, id))
}

func (t *tracker) SetAuthHeader(value *string) {
	if value == nil {
		t.mu.Lock()
		t.expired = true
		t.mu.Unlock()
	}
	t.auth.SetAuthHeader(value)
}

func (t *tracker) record(err error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.err = err
	return err
}

// Err returns errSessionExpired once the session was cleared, otherwise the
// last mutation error.
func (t *tracker) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.expired {
		return errSessionExpired
	}
	return t.err
}

// newStore builds a screen store wired through a tracker.
func (a *app) newStore() (*screen.Store, *tracker) {
	t := &tracker{UserManager: a.users, auth: a.session}
	return screen.NewStore(t, t, screen.WithLogger(a.log.With("component", "screen"))), t
}

// loadScreen mounts a store and waits for the first list.
func (a *app) loadScreen(ctx context.Context) (*screen.Store, *tracker, error) {
	store, t := a.newStore()
	store.Mount(ctx)
	store.Wait()

	if err := t.Err(); err != nil {
		return nil, nil, err
	}
	if st := store.Snapshot(); st.LoadErr != nil {
		return nil, nil, fmt.Errorf("failed to load users: %w", st.LoadErr)
	}
	return store, t, nil
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// readPassword reads a secret without echo on a terminal, or a single line
// otherwise so passwords can be piped in.
func readPassword(in io.Reader, out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, prompt)
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		passwordBytes, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(passwordBytes), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	fmt.Fprintln(out)
	return strings.TrimRight(line, "\r\n"), nil
}
