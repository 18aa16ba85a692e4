package googleauth

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"narrated-slideshow/internal/logging"
)

// GoogleAuth wraps oauth2 configuration and the token file.
type GoogleAuth struct {
	config    *oauth2.Config
	tokenPath string
	log       *zap.SugaredLogger
}

// NewGoogleAuth reads the client secret at credPath and requests the Drive file scope.
func NewGoogleAuth(credPath, tokenPath, redirectURL string, log *zap.SugaredLogger) (*GoogleAuth, error) {
	b, err := os.ReadFile(credPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read client secret file: %w", err)
	}
	config, err := google.ConfigFromJSON(b, drive.DriveFileScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secret file to config: %w", err)
	}
	if redirectURL != "" {
		config.RedirectURL = redirectURL
	}
	if config.RedirectURL == "" {
		config.RedirectURL = "http://localhost:8080/auth/google/callback"
	}
	log = logging.OrNop(log)
	log.Infof("[auth] using credentials: %s (client_id=%s)", credPath, config.ClientID)
	return &GoogleAuth{config: config, tokenPath: tokenPath, log: log}, nil
}

// AuthURL generates Google OAuth consent URL.
func (ga *GoogleAuth) AuthURL(state string) string {
	return ga.config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// Exchange exchanges code to token and persists it.
func (ga *GoogleAuth) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	tok, err := ga.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve token from web: %w", err)
	}
	if err := ga.SaveToken(tok); err != nil {
		return nil, err
	}
	return tok, nil
}

// SaveToken writes token to the token file.
func (ga *GoogleAuth) SaveToken(token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(ga.tokenPath), 0o700); err != nil {
		return err
	}
	f, err := os.OpenFile(ga.tokenPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("unable to cache oauth token: %w", err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(token)
}

// TokenFromFile retrieves token from the token file.
func (ga *GoogleAuth) TokenFromFile() (*oauth2.Token, error) {
	f, err := os.Open(ga.tokenPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var tok oauth2.Token
	err = json.NewDecoder(f).Decode(&tok)
	return &tok, err
}

// BuildDriveService loads the saved token and builds a Drive API service whose
// requests are logged.
func (ga *GoogleAuth) BuildDriveService(ctx context.Context) (*drive.Service, error) {
	tok, err := ga.TokenFromFile()
	if err != nil {
		return nil, fmt.Errorf("no drive token, authorize via /auth/google: %w", err)
	}
	client := ga.config.Client(ctx, tok)
	client.Transport = &loggingTransport{base: client.Transport, log: ga.log}
	return drive.NewService(ctx, option.WithHTTPClient(client))
}

// RedirectURL returns the OAuth callback URL in use.
func (ga *GoogleAuth) RedirectURL() string { return ga.config.RedirectURL }
