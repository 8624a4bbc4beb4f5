package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/calldash/internal/client/httpapi"
	"github.com/dmitrijs2005/calldash/internal/client/models"
	"github.com/dmitrijs2005/calldash/internal/client/session"
	"github.com/dmitrijs2005/calldash/internal/common"
)

// Login prompts for email and password and starts a session.
//
// Remembered credentials prefill the email and offer the saved password.
// After a successful login the operator chooses whether to keep them.
func (a *App) Login(ctx context.Context) error {
	remembered, err := a.session.Remembered(ctx)
	if err != nil {
		a.logger.Warn(ctx, "remembered credentials unreadable", "error", err)
		remembered = nil
	}

	prompt := "Enter email"
	if remembered != nil && remembered.UserID != "" {
		prompt = fmt.Sprintf("Enter email [%s]", remembered.UserID)
	}
	email, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return err
	}
	if email == "" && remembered != nil {
		email = remembered.UserID
	}

	var password []byte
	if remembered != nil && remembered.Password != "" && email == remembered.UserID {
		use, err := confirm(a.reader, "Use saved password?", true, a.out)
		if err != nil {
			return err
		}
		if use {
			password = []byte(remembered.Password)
		}
	}
	if password == nil {
		password, err = getPassword(a.out)
		if err != nil {
			return err
		}
	}
	defer common.WipeByteArray(password)

	p, err := a.auth.Login(ctx, email, string(password))
	if err != nil {
		a.loginFailed(err, "Login failed.")
		return err
	}
	a.loggedIn(p)

	keep, err := confirm(a.reader, "Remember me on this device?", remembered != nil, a.out)
	if err != nil {
		return nil
	}
	if keep {
		if err := a.session.Remember(ctx, models.Credentials{UserID: email, Password: string(password)}); err != nil {
			a.toast(err, "Could not remember credentials.")
		}
	} else if err := a.session.Forget(ctx); err != nil {
		a.logger.Warn(ctx, "forget credentials failed", "error", err)
	}
	return nil
}

// OTPLogin sends a one-time code to the email and verifies it.
func (a *App) OTPLogin(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	if err := a.auth.SendOTP(ctx, email); err != nil {
		a.toast(err, "Could not send the code.")
		return err
	}
	a.println(renderOK("Code sent to " + email + "."))

	code, err := getSimpleText(a.reader, "Enter the code", a.out)
	if err != nil {
		return err
	}
	p, err := a.auth.VerifyOTP(ctx, email, code)
	if err != nil {
		a.loginFailed(err, "Verification failed.")
		return err
	}
	a.loggedIn(p)
	return nil
}

// loginFailed shows why the server rejected a login. A 401 here means bad
// credentials, not an expired session.
func (a *App) loginFailed(err error, fallback string) {
	var serr *httpapi.StatusError
	if errors.As(err, &serr) && serr.Message != "" {
		a.profile = nil
		a.logger.Debug(context.Background(), "login rejected", "status", serr.Code)
		a.println(renderToast(serr.Message))
		return
	}
	a.toast(err, fallback)
}

func (a *App) loggedIn(p *models.Profile) {
	a.profile = p
	a.filter = models.Filter{}
	a.println(renderOK(fmt.Sprintf("Logged in as %s (%s).", p.Username, p.Role)))
}

// Logout wipes every stored session key.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		a.toast(err, "Logout failed.")
		return err
	}
	a.profile = nil
	a.filter = models.Filter{}
	a.println("Logged out.")
	return nil
}

// WhoAmI prints the stored profile and the API host in use.
func (a *App) WhoAmI(ctx context.Context) error {
	p, err := a.session.RequireProfile(ctx)
	if errors.Is(err, session.ErrNoSession) {
		a.profile = nil
		a.println("Not logged in.")
		return err
	}
	if err != nil {
		a.toast(err, "Could not read the session.")
		return err
	}
	host, err := a.session.APIHost(ctx)
	if err != nil {
		a.toast(err, "Could not read the API host.")
		return err
	}

	a.println(renderProfile(*p, host))
	return nil
}

// Host shows the API host or, with an argument, stores an override. "-"
// resets to the configured default.
func (a *App) Host(ctx context.Context, url string) error {
	if url != "" {
		if url == "-" {
			url = ""
		}
		if err := a.session.SetAPIHost(ctx, url); err != nil {
			a.toast(err, "Could not store the API host.")
			return err
		}
	}
	host, err := a.session.APIHost(ctx)
	if err != nil {
		a.toast(err, "Could not read the API host.")
		return err
	}
	a.println("API host: " + host)
	return nil
}
