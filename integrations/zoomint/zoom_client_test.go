package zoomint_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/attendee-dev/attendee/integrations/zoomint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *zoomint.Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	t.Setenv("ZOOM_OAUTH_TOKEN_URL", server.URL+"/oauth/token")
	t.Setenv("ZOOM_API_BASE_URL", server.URL)

	return zoomint.NewClient()
}

func TestRefreshAccessToken(t *testing.T) {
	t.Run("should post the refresh token with basic auth and return the new tokens", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/oauth/token", r.URL.Path)
			clientID, clientSecret, ok := r.BasicAuth()
			assert.True(t, ok)
			assert.Equal(t, "client-id", clientID)
			assert.Equal(t, "client-secret", clientSecret)

			require.NoError(t, r.ParseForm())
			assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
			assert.Equal(t, "old-refresh-token", r.PostForm.Get("refresh_token"))

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"access_token": "new-access-token", "refresh_token": "new-refresh-token", "scope": "user:read:user"}`)) // nolint
		})

		token, err := client.RefreshAccessToken(context.Background(), "client-id", "client-secret", "old-refresh-token")

		require.NoError(t, err)
		assert.Equal(t, "new-access-token", token.AccessToken)
		assert.Equal(t, "new-refresh-token", token.RefreshToken)
		assert.Equal(t, "user:read:user", token.Scope)
	})

	t.Run("should classify invalid_grant as an authentication error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error": "invalid_grant", "reason": "Invalid Token!"}`)) // nolint
		})

		_, err := client.RefreshAccessToken(context.Background(), "client-id", "client-secret", "revoked-token")

		require.Error(t, err)
		assert.True(t, zoomint.IsAuthError(err))
		assert.Equal(t, "Invalid or expired refresh token", err.Error())
	})

	t.Run("should classify invalid_client as an authentication error naming the client credentials", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error": "invalid_client"}`)) // nolint
		})

		_, err := client.RefreshAccessToken(context.Background(), "client-id", "wrong-secret", "refresh-token")

		require.Error(t, err)
		assert.True(t, zoomint.IsAuthError(err))
		assert.Contains(t, err.Error(), "Invalid client_id or client_secret")
	})

	t.Run("should not classify a server error as an authentication error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte(`upstream unavailable`)) // nolint
		})

		_, err := client.RefreshAccessToken(context.Background(), "client-id", "client-secret", "refresh-token")

		require.Error(t, err)
		assert.False(t, zoomint.IsAuthError(err))

		var apiError *zoomint.APIError
		require.ErrorAs(t, err, &apiError)
		assert.Equal(t, http.StatusBadGateway, apiError.StatusCode)
	})

	t.Run("should fail when the response contains no access token", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"refresh_token": "new-refresh-token"}`)) // nolint
		})

		_, err := client.RefreshAccessToken(context.Background(), "client-id", "client-secret", "refresh-token")

		require.Error(t, err)
		assert.False(t, zoomint.IsAuthError(err))
		assert.Contains(t, err.Error(), "No access_token in refresh response")
	})
}

func TestValidateClientCredentials(t *testing.T) {
	t.Run("should report a valid pair on a successful token response", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
			w.Write([]byte(`{"access_token": "token", "token_type": "bearer"}`)) // nolint
		})

		valid, err := client.ValidateClientCredentials(context.Background(), "client-id", "client-secret")

		require.NoError(t, err)
		assert.True(t, valid)
	})

	t.Run("should report an invalid pair on a 4xx response", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error": "invalid_client"}`)) // nolint
		})

		valid, err := client.ValidateClientCredentials(context.Background(), "client-id", "wrong-secret")

		require.NoError(t, err)
		assert.False(t, valid)
	})

	t.Run("should return an error on a server failure", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		_, err := client.ValidateClientCredentials(context.Background(), "client-id", "client-secret")

		require.Error(t, err)
	})
}

func TestGetMe(t *testing.T) {
	t.Run("should fetch the user profile with the access token", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/users/me", r.URL.Path)
			assert.Equal(t, "Bearer access-token", r.Header.Get("Authorization"))
			w.Write([]byte(`{"id": "user-123", "account_id": "account-456", "status": "active", "pmi": 1234567890}`)) // nolint
		})

		user, err := client.GetMe(context.Background(), "access-token")

		require.NoError(t, err)
		assert.Equal(t, "user-123", user.ID)
		assert.Equal(t, "account-456", user.AccountID)
		assert.Equal(t, "active", user.Status)
		assert.Equal(t, int64(1234567890), user.PMI)
	})

	t.Run("should classify a 401 as an authentication error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"code": 124, "message": "Invalid access token."}`)) // nolint
		})

		_, err := client.GetMe(context.Background(), "expired-token")

		require.Error(t, err)
		assert.True(t, zoomint.IsAuthError(err))
	})
}

func TestListMeetingIDs(t *testing.T) {
	t.Run("should follow the next page token until exhausted", func(t *testing.T) {
		requestCount := 0
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			requestCount++
			assert.Equal(t, "/users/me/meetings", r.URL.Path)
			assert.Equal(t, "300", r.URL.Query().Get("page_size"))

			switch r.URL.Query().Get("next_page_token") {
			case "":
				w.Write([]byte(`{"meetings": [{"id": 111111111}, {"id": 222222222}], "next_page_token": "page-two"}`)) // nolint
			case "page-two":
				w.Write([]byte(`{"meetings": [{"id": 333333333}], "next_page_token": ""}`)) // nolint
			default:
				t.Errorf("unexpected next_page_token %q", r.URL.Query().Get("next_page_token"))
			}
		})

		meetingIDs, err := client.ListMeetingIDs(context.Background(), "access-token")

		require.NoError(t, err)
		assert.Equal(t, 2, requestCount)
		assert.Equal(t, []string{"111111111", "222222222", "333333333"}, meetingIDs)
	})

	t.Run("should return an empty slice when the user has no meetings", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"meetings": [], "next_page_token": ""}`)) // nolint
		})

		meetingIDs, err := client.ListMeetingIDs(context.Background(), "access-token")

		require.NoError(t, err)
		assert.Empty(t, meetingIDs)
	})
}

func TestMissingScopes(t *testing.T) {
	t.Run("should be empty when every required scope was granted", func(t *testing.T) {
		granted := "user:read:user user:read:zak meeting:read:list_meetings meeting:read:local_recording_token"
		assert.Empty(t, zoomint.MissingScopes(granted))
	})

	t.Run("should list the scopes the grant is missing", func(t *testing.T) {
		missing := zoomint.MissingScopes("user:read:user meeting:read:list_meetings")
		assert.Equal(t, []string{"user:read:zak", "meeting:read:local_recording_token"}, missing)
	})
}
