package util

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

// Returns an authorized HTTP client from a token file. A cached token is
// reused as is; an expired one is refreshed and saved back. Only when no
// token file exists at all is the browser authorization flow started. A
// cached token that cannot be refreshed is an error, never a reason to hang
// a scripted run on a browser prompt.
func GetClient(config *oauth2.Config, tokenPath string) (*http.Client, error) {
	return clientFromCache(config, tokenPath, &webFlowSource{config: config})
}

// Builds the client around the cached token, falling back to first for the
// initial authorization. Tests substitute a non-interactive first.
func clientFromCache(config *oauth2.Config, tokenPath string, first oauth2.TokenSource) (*http.Client, error) {
	token, err := tokenFromFile(tokenPath)
	if err != nil {
		token, err = first.Token()
		if err != nil {
			return nil, fmt.Errorf("could not authorize: %w", err)
		}
		if err := saveToken(tokenPath, token); err != nil {
			return nil, err
		}
		return config.Client(context.Background(), token), nil
	}

	if !token.Valid() {
		token, err = config.TokenSource(context.Background(), token).Token()
		if err != nil {
			return nil, fmt.Errorf("could not refresh expired token: %w", err)
		}
		if err := saveToken(tokenPath, token); err != nil {
			return nil, err
		}
	}
	return config.Client(context.Background(), token), nil
}

// webFlowSource acquires the first token interactively through the browser.
type webFlowSource struct {
	config *oauth2.Config
}

func (s *webFlowSource) Token() (*oauth2.Token, error) {
	return getTokenFromWeb(s.config)
}

func getTokenFromWeb(config *oauth2.Config) (*oauth2.Token, error) {
	config.RedirectURL = "http://localhost:8080/oauth"
	authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)

	var authCode string

	fmt.Printf("Visit here: %q\n", authURL)

	mux := http.NewServeMux()
	server := &http.Server{Addr: ":8080", Handler: mux}
	mux.HandleFunc("/oauth", func(w http.ResponseWriter, r *http.Request) {
		authCode = r.URL.Query().Get("code")
		fmt.Fprintln(w, "Authorization received. You can close this window.")
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				log.Errorf("could not shut down server: %v", err)
			}
		}()
	})

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return nil, err
	}
	if authCode == "" {
		return nil, fmt.Errorf("no authorization code received")
	}

	token, err := config.Exchange(context.TODO(), authCode)
	if err != nil {
		return nil, err
	}

	return token, nil
}

func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	token := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(token)
	return token, err
}

func saveToken(path string, token *oauth2.Token) error {
	log.Infof("Saving credential file to %v", path)
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()
	err = json.NewEncoder(f).Encode(token)
	if err != nil {
		return err
	}
	return nil
}
