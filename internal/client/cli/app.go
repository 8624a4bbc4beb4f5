package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/calldash/internal/client/config"
	"github.com/dmitrijs2005/calldash/internal/client/httpapi"
	"github.com/dmitrijs2005/calldash/internal/client/models"
	"github.com/dmitrijs2005/calldash/internal/client/services"
	"github.com/dmitrijs2005/calldash/internal/client/session"
	"github.com/dmitrijs2005/calldash/internal/cryptox"
	"github.com/dmitrijs2005/calldash/internal/logging"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getChoice     = GetChoice
)

type App struct {
	config   *config.Config
	session  *session.Manager
	auth     services.AuthService
	leads    services.LeadService
	feedback services.FeedbackService
	stats    services.StatsService
	reports  services.ReportService
	logger   logging.Logger

	reader *bufio.Reader
	out    io.Writer

	// profile is the operator the guard or the last login found; nil when
	// logged out.
	profile *models.Profile
	// filter narrows the queue for this run only.
	filter models.Filter

	closers []func() error
}

// NewApp builds the client from c: logger, session store, HTTP client and
// services.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	a := &App{config: c, reader: bufio.NewReader(os.Stdin), out: os.Stdout}

	logOut := io.Writer(os.Stderr)
	if c.LogFile != "" {
		f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		a.closers = append(a.closers, f.Close)
		logOut = f
	}
	a.logger = logging.New(logOut, c.LogBackend, c.LogFormat, c.LogLevel)
	if z, ok := a.logger.(*logging.ZapLogger); ok {
		a.closers = append(a.closers, z.Sync)
	}

	secret, err := cryptox.LoadOrCreateDeviceSecret(c.DeviceKeyPath)
	if err != nil {
		a.logger.Warn(ctx, "device secret unavailable, remember-me disabled", "error", err)
		secret = nil
	}

	store, err := openStore(ctx, c)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.closers = append([]func() error{store.Close}, a.closers...)

	a.session = session.NewManager(store, c.APIHost, secret, a.logger)
	api := httpapi.New(a.session, c.RequestTimeout, a.logger)

	guard := services.NewInFlight()
	a.auth = services.NewAuthService(api, a.session, a.logger)
	a.leads = services.NewLeadService(api, guard, a.logger)
	a.feedback = services.NewFeedbackService(api, guard, a.logger)
	a.stats = services.NewStatsService(api, a.logger)
	a.reports = services.NewReportService(api, a.stats, services.NewReportArchive(services.ArchiveConfig{
		Bucket:       c.S3Bucket,
		Region:       c.S3Region,
		BaseEndpoint: c.S3BaseEndpoint,
		AccessKey:    c.S3AccessKey,
		SecretKey:    c.S3SecretKey,
	}), c.ReportDir, guard, a.logger)

	return a, nil
}

func openStore(ctx context.Context, c *config.Config) (session.Store, error) {
	switch c.SessionBackend {
	case "", config.BackendSQLite:
		return session.OpenSQLite(ctx, c.SessionDSN)
	case config.BackendRedis:
		return session.OpenRedis(ctx, c.RedisAddr, c.RedisPrefix)
	default:
		return nil, fmt.Errorf("unknown session backend %q", c.SessionBackend)
	}
}

// Close releases the store and flushes the log.
func (a *App) Close() {
	for _, c := range a.closers {
		_ = c()
	}
	a.closers = nil
}

// Run evaluates the auth guard once, then serves the REPL until exit.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	a.guard(ctx)
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) guard(ctx context.Context) {
	p, err := a.session.Guard(ctx)
	switch {
	case err == nil:
		a.profile = p
		a.println(renderOK(fmt.Sprintf("Welcome back, %s.", p.Username)))
	case errors.Is(err, session.ErrNoSession):
		a.profile = nil
		a.println("Not logged in. Type 'login' or 'otp' to start.")
	default:
		a.profile = nil
		a.toast(err, "Could not read the stored session.")
	}
}

func (a *App) isLoggedIn() bool {
	return a.profile != nil
}

func (a *App) getStatus() string {
	s := ""
	if a.profile != nil {
		s = a.profile.Username
		if a.profile.Role != "" {
			s += "/" + a.profile.Role
		}
	}
	if !a.filter.IsZero() {
		s += " [" + a.filter.Query() + "]"
	}
	return s
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

// toast shows a failed action. A 401 also drops the in-memory profile so
// the prompt reflects the evicted token.
func (a *App) toast(err error, fallback string) {
	if errors.Is(err, httpapi.ErrUnauthorized) {
		a.profile = nil
	}
	a.logger.Debug(context.Background(), "action failed", "error", err)
	a.println(renderToast(toastMessage(err, fallback)))
}
