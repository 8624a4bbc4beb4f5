package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/calldash/internal/client/httpapi"
	"github.com/dmitrijs2005/calldash/internal/client/models"
	"github.com/dmitrijs2005/calldash/internal/client/session"
	"github.com/dmitrijs2005/calldash/internal/common"
	"github.com/dmitrijs2005/calldash/internal/logging"
)

// AuthService defines the operator login flows.
//
// Login and VerifyOTP store token and profile through the session manager
// on success. Logout clears the whole session locally; the admin API has
// no logout endpoint.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*models.Profile, error)
	SendOTP(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, otp string) (*models.Profile, error)
	Logout(ctx context.Context) error
}

type authService struct {
	api     httpapi.Doer
	session *session.Manager
	logger  logging.Logger
}

// NewAuthService constructs an AuthService bound to api and the session.
func NewAuthService(api httpapi.Doer, sess *session.Manager, logger logging.Logger) AuthService {
	if logger == nil {
		logger = logging.Nop()
	}
	return &authService{api: api, session: sess, logger: logger}
}

type sessionResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Token   string         `json:"token"`
	Data    models.Profile `json:"data"`
}

func (a *authService) Login(ctx context.Context, email, password string) (*models.Profile, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, errors.New("email and password are required")
	}

	var resp sessionResponse
	body := map[string]string{"email": email, "password": password}
	if err := a.api.Do(ctx, http.MethodPost, common.APIPrefix+"login", body, nil, &resp); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return a.startSession(ctx, resp)
}

func (a *authService) SendOTP(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return errors.New("email is required")
	}
	body := map[string]string{"email": email}
	if err := a.api.Do(ctx, http.MethodPost, common.APIPrefix+"send-otp", body, nil, nil); err != nil {
		return fmt.Errorf("send otp: %w", err)
	}
	return nil
}

func (a *authService) VerifyOTP(ctx context.Context, email, otp string) (*models.Profile, error) {
	email, otp = strings.TrimSpace(email), strings.TrimSpace(otp)
	if email == "" || otp == "" {
		return nil, errors.New("email and otp are required")
	}

	var resp sessionResponse
	body := map[string]string{"email": email, "otp": otp}
	if err := a.api.Do(ctx, http.MethodPost, common.APIPrefix+"verify-otp", body, nil, &resp); err != nil {
		return nil, fmt.Errorf("verify otp: %w", err)
	}
	return a.startSession(ctx, resp)
}

func (a *authService) startSession(ctx context.Context, resp sessionResponse) (*models.Profile, error) {
	if resp.Token == "" {
		msg := resp.Message
		if msg == "" {
			msg = "no token in response"
		}
		return nil, fmt.Errorf("login: %s", msg)
	}
	if err := a.session.Login(ctx, resp.Token, resp.Data); err != nil {
		return nil, err
	}
	p := resp.Data
	return &p, nil
}

func (a *authService) Logout(ctx context.Context) error {
	return a.session.Logout(ctx)
}
