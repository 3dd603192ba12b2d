package util

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type failingTokenSource struct {
	err error
}

func (s failingTokenSource) Token() (*oauth2.Token, error) {
	return nil, s.err
}

func writeTokenFile(t *testing.T, token *oauth2.Token) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "token.json")
	b, err := json.Marshal(token)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0600))
	return path
}

func readTokenFile(t *testing.T, path string) *oauth2.Token {
	t.Helper()
	token, err := tokenFromFile(path)
	require.NoError(t, err)
	return token
}

func TestTokenFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	token := &oauth2.Token{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		TokenType:    "Bearer",
		Expiry:       time.Now().Add(time.Hour),
	}

	require.NoError(t, saveToken(path, token))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	got := readTokenFile(t, path)
	assert.Equal(t, "access-1", got.AccessToken)
	assert.Equal(t, "refresh-1", got.RefreshToken)
}

func TestTokenFromFileMissing(t *testing.T) {
	_, err := tokenFromFile(filepath.Join(t.TempDir(), "token.json"))
	assert.Error(t, err)
}

func TestGetClient(t *testing.T) {
	t.Run("reuses a valid cached token", func(t *testing.T) {
		path := writeTokenFile(t, &oauth2.Token{
			AccessToken: "cached",
			TokenType:   "Bearer",
			Expiry:      time.Now().Add(time.Hour),
		})
		config := &oauth2.Config{ClientID: "id", ClientSecret: "secret"}

		client, err := GetClient(config, path)
		require.NoError(t, err)
		assert.NotNil(t, client)
		assert.Equal(t, "cached", readTokenFile(t, path).AccessToken)
	})

	t.Run("refreshes an expired token and saves it back", func(t *testing.T) {
		var grantType string
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			grantType = r.FormValue("grant_type")
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"access_token":"fresh","token_type":"Bearer","refresh_token":"refresh-1","expires_in":3600}`))
		}))
		defer ts.Close()

		path := writeTokenFile(t, &oauth2.Token{
			AccessToken:  "stale",
			RefreshToken: "refresh-1",
			TokenType:    "Bearer",
			Expiry:       time.Now().Add(-time.Hour),
		})
		config := &oauth2.Config{
			ClientID:     "id",
			ClientSecret: "secret",
			Endpoint:     oauth2.Endpoint{TokenURL: ts.URL},
		}

		client, err := GetClient(config, path)
		require.NoError(t, err)
		assert.NotNil(t, client)
		assert.Equal(t, "refresh_token", grantType)
		assert.Equal(t, "fresh", readTokenFile(t, path).AccessToken)
	})

	t.Run("acquires and caches a token when none is stored", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "token.json")
		config := &oauth2.Config{ClientID: "id", ClientSecret: "secret"}
		first := oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: "first",
			TokenType:   "Bearer",
			Expiry:      time.Now().Add(time.Hour),
		})

		client, err := clientFromCache(config, path, first)
		require.NoError(t, err)
		assert.NotNil(t, client)
		assert.Equal(t, "first", readTokenFile(t, path).AccessToken)
	})

	t.Run("fails when the first authorization is denied", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "token.json")
		config := &oauth2.Config{ClientID: "id", ClientSecret: "secret"}

		_, err := clientFromCache(config, path, failingTokenSource{err: errors.New("denied")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "could not authorize")

		_, statErr := os.Stat(path)
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("fails when the refresh is rejected", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"invalid_grant"}`))
		}))
		defer ts.Close()

		path := writeTokenFile(t, &oauth2.Token{
			AccessToken:  "stale",
			RefreshToken: "refresh-1",
			TokenType:    "Bearer",
			Expiry:       time.Now().Add(-time.Hour),
		})
		config := &oauth2.Config{
			ClientID:     "id",
			ClientSecret: "secret",
			Endpoint:     oauth2.Endpoint{TokenURL: ts.URL},
		}

		_, err := GetClient(config, path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "could not refresh")
		assert.Equal(t, "stale", readTokenFile(t, path).AccessToken)
	})
}
