package service

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"

	"github.com/staffhours/backend/internal/app/appconfig"
	"github.com/staffhours/backend/internal/pkg/apperr"
)

// TokenSource yields the bearer token for Hubstaff requests. A token is obtained
// once and reused until Invalidate is called after the API rejected it.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
	Invalidate()
}

// NewTokenSource prefers the refresh token when one is configured, so a rejected
// access token can be replaced. Missing credentials only fail once a token is requested.
func NewTokenSource(conf *appconfig.Config, client *http.Client) TokenSource {
	if conf.HubstaffRefreshToken != "" {
		return &RefreshTokenSource{
			client:       client,
			accountURL:   strings.TrimSuffix(conf.HubstaffAccountURL, "/"),
			refreshToken: conf.HubstaffRefreshToken,
			accessToken:  conf.HubstaffAccessToken,
		}
	}
	return StaticToken(conf.HubstaffAccessToken)
}

// StaticToken is a fixed personal access token. Invalidate is a no-op, so a
// second rejection surfaces as ErrAuthenticationFailed.
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) {
	if t == "" {
		return "", apperr.ErrAuthenticationFailed.Msg("no Hubstaff credential configured: set STAFFHOURS_HUBSTAFF_ACCESS_TOKEN or STAFFHOURS_HUBSTAFF_REFRESH_TOKEN")
	}
	return string(t), nil
}

func (t StaticToken) Invalidate() {}

// RefreshTokenSource exchanges a refresh token for access tokens at the Hubstaff account service.
type RefreshTokenSource struct {
	mu sync.Mutex

	client       *http.Client
	accountURL   string
	refreshToken string
	accessToken  string
}

func (s *RefreshTokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.accessToken != "" {
		return s.accessToken, nil
	}

	token, err := s.exchange(ctx)
	if err != nil {
		return "", apperr.ErrAuthenticationFailed.Msg("failed to obtain an access token from %s", s.accountURL).Wrap(err)
	}
	s.accessToken = token

	return token, nil
}

func (s *RefreshTokenSource) Invalidate() {
	s.mu.Lock()
	s.accessToken = ""
	s.mu.Unlock()
}

func (s *RefreshTokenSource) exchange(ctx context.Context) (string, error) {
	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {s.refreshToken},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.accountURL+"/access_tokens", strings.NewReader(form.Encode()))
	if err != nil {
		return "", errors.Wrap(err, "failed to build token request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "token request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", errors.Wrap(err, "failed to read token response")
	}
	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("token endpoint returned %d: %s", resp.StatusCode, truncate(string(body), 256))
	}

	result := gjson.ParseBytes(body)
	access := result.Get("access_token").String()
	if access == "" {
		return "", errors.New("token response carries no access_token")
	}
	// the account service rotates refresh tokens
	if rotated := result.Get("refresh_token").String(); rotated != "" {
		s.refreshToken = rotated
	}

	log.Ctx(ctx).Debug().
		Int64("expiresIn", result.Get("expires_in").Int()).
		Msg("obtained Hubstaff access token")

	return access, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
