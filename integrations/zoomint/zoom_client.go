// Copyright 2025 Attendee Labs.
// SPDX-License-Identifier: 	AGPL-3.0-or-later

package zoomint

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/attendee-dev/attendee/monitoring"
	"github.com/attendee-dev/attendee/utils"
	"golang.org/x/oauth2"
)

const (
	defaultTokenURL   = "https://zoom.us/oauth/token"
	defaultAPIBaseURL = "https://api.zoom.us/v2"

	tokenRequestTimeout = 30 * time.Second
	apiRequestTimeout   = 25 * time.Second

	meetingsPageSize = 300
)

// RequiredScopes must all be granted by the user before a connection is
// usable for meeting sync.
var RequiredScopes = []string{
	"user:read:user",
	"user:read:zak",
	"meeting:read:list_meetings",
	"meeting:read:local_recording_token",
}

// MissingScopes returns the required scopes absent from the space separated
// scope string the token endpoint reports.
func MissingScopes(granted string) []string {
	return utils.Filter(RequiredScopes, func(scope string) bool {
		return !utils.ContainsInWhitespaceSeparatedStringList(granted, scope)
	})
}

// AuthError marks a failure caused by invalid or revoked credentials.
// Callers use IsAuthError to decide between disconnecting a connection and
// letting the task queue retry.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

func IsAuthError(err error) bool {
	var authError *AuthError
	return errors.As(err, &authError)
}

// APIError is a non-2xx response which is not an authentication failure.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("zoom api request failed with status %d, body: %s", e.StatusCode, e.Body)
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	Scope        string `json:"scope"`
	ExpiresIn    int    `json:"expires_in"`
}

type User struct {
	ID        string `json:"id"`
	AccountID string `json:"account_id"`
	Status    string `json:"status"`
	PMI       int64  `json:"pmi"`
}

type Client struct {
	tokenURL   string
	apiBaseURL string
	httpClient *http.Client
}

// NewClient builds a client against the public Zoom endpoints. The URLs can
// be overridden through ZOOM_OAUTH_TOKEN_URL and ZOOM_API_BASE_URL.
func NewClient() *Client {
	tokenURL := os.Getenv("ZOOM_OAUTH_TOKEN_URL")
	if tokenURL == "" {
		tokenURL = defaultTokenURL
	}
	apiBaseURL := os.Getenv("ZOOM_API_BASE_URL")
	if apiBaseURL == "" {
		apiBaseURL = defaultAPIBaseURL
	}
	return &Client{
		tokenURL:   tokenURL,
		apiBaseURL: strings.TrimSuffix(apiBaseURL, "/"),
		httpClient: &http.Client{},
	}
}

// ExchangeAuthorizationCode trades an authorization code for tokens. The
// scope string is taken from the raw token payload since the oauth2 package
// does not expose it as a field.
func (c *Client) ExchangeAuthorizationCode(ctx context.Context, clientID, clientSecret, code, redirectURI string) (TokenResponse, error) {
	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Endpoint: oauth2.Endpoint{
			TokenURL:  c.tokenURL,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	ctx, cancel := context.WithTimeout(ctx, tokenRequestTimeout)
	defer cancel()

	monitoring.ZoomAPIRequestAmount.Inc()
	token, err := config.Exchange(ctx, code)
	if err != nil {
		monitoring.ZoomAPIRequestFailedAmount.Inc()
		return TokenResponse{}, err
	}

	scope, _ := token.Extra("scope").(string)
	return TokenResponse{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.TokenType,
		Scope:        scope,
	}, nil
}

// RefreshAccessToken exchanges a refresh token for a fresh access token.
// invalid_grant and invalid_client responses become an AuthError, everything
// else an APIError so the caller can retry.
func (c *Client) RefreshAccessToken(ctx context.Context, clientID, clientSecret, refreshToken string) (TokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)

	body, statusCode, err := c.tokenRequest(ctx, clientID, clientSecret, form)
	if err != nil {
		return TokenResponse{}, err
	}

	if statusCode < 200 || statusCode >= 300 {
		monitoring.ZoomAPIRequestFailedAmount.Inc()
		var errorBody struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(body, &errorBody); err == nil {
			switch errorBody.Error {
			case "invalid_grant":
				return TokenResponse{}, &AuthError{Message: "Invalid or expired refresh token"}
			case "invalid_client":
				return TokenResponse{}, &AuthError{Message: "Invalid client_id or client_secret"}
			}
		}
		return TokenResponse{}, &APIError{StatusCode: statusCode, Body: string(body)}
	}

	var token TokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return TokenResponse{}, fmt.Errorf("failed to decode token response: %w", err)
	}
	if token.AccessToken == "" {
		return TokenResponse{}, fmt.Errorf("No access_token in refresh response, body: %s", string(body))
	}
	return token, nil
}

// ValidateClientCredentials checks an app's client id and secret against the
// token endpoint using the client_credentials grant. A 4xx answer means the
// pair is invalid, any other failure is returned as an error.
func (c *Client) ValidateClientCredentials(ctx context.Context, clientID, clientSecret string) (bool, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	body, statusCode, err := c.tokenRequest(ctx, clientID, clientSecret, form)
	if err != nil {
		return false, err
	}

	if statusCode >= 200 && statusCode < 300 {
		return true, nil
	}
	monitoring.ZoomAPIRequestFailedAmount.Inc()
	if statusCode >= 400 && statusCode < 500 {
		return false, nil
	}
	return false, &APIError{StatusCode: statusCode, Body: string(body)}
}

func (c *Client) tokenRequest(ctx context.Context, clientID, clientSecret string, form url.Values) ([]byte, int, error) {
	ctx, cancel := context.WithTimeout(ctx, tokenRequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create token request: %w", err)
	}
	req.SetBasicAuth(clientID, clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	monitoring.ZoomAPIRequestAmount.Inc()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		monitoring.ZoomAPIRequestFailedAmount.Inc()
		return nil, 0, fmt.Errorf("zoom token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read token response: %w", err)
	}
	return body, resp.StatusCode, nil
}

// GetMe fetches the profile of the user the access token belongs to.
func (c *Client) GetMe(ctx context.Context, accessToken string) (User, error) {
	var user User
	if err := c.apiGet(ctx, "/users/me", accessToken, nil, &user); err != nil {
		return User{}, err
	}
	return user, nil
}

type meetingsPage struct {
	NextPageToken string `json:"next_page_token"`
	Meetings      []struct {
		ID int64 `json:"id"`
	} `json:"meetings"`
}

// ListMeetingIDs pages through the meetings of the user the access token
// belongs to and returns their IDs.
func (c *Client) ListMeetingIDs(ctx context.Context, accessToken string) ([]string, error) {
	meetingIDs := []string{}
	nextPageToken := ""

	for {
		params := url.Values{}
		params.Set("page_size", strconv.Itoa(meetingsPageSize))
		if nextPageToken != "" {
			params.Set("next_page_token", nextPageToken)
		}

		var page meetingsPage
		if err := c.apiGet(ctx, "/users/me/meetings", accessToken, params, &page); err != nil {
			return nil, err
		}

		for _, meeting := range page.Meetings {
			meetingIDs = append(meetingIDs, strconv.FormatInt(meeting.ID, 10))
		}

		nextPageToken = page.NextPageToken
		if nextPageToken == "" {
			return meetingIDs, nil
		}
	}
}

func (c *Client) apiGet(ctx context.Context, path string, accessToken string, params url.Values, result any) error {
	requestURL := c.apiBaseURL + path
	if len(params) > 0 {
		requestURL += "?" + params.Encode()
	}

	ctx, cancel := context.WithTimeout(ctx, apiRequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	monitoring.ZoomAPIRequestAmount.Inc()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		monitoring.ZoomAPIRequestFailedAmount.Inc()
		return fmt.Errorf("zoom api request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		monitoring.ZoomAPIRequestFailedAmount.Inc()
		return &AuthError{Message: fmt.Sprintf("Zoom API rejected the access token, body: %s", string(body))}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		monitoring.ZoomAPIRequestFailedAmount.Inc()
		return &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
