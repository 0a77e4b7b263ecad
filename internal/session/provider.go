package session

import (
	"context"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
)

// Scopes requested from the identity provider: per-file drive access plus
// the user's e-mail and profile.
var Scopes = []string{
	drive.DriveFileScope,
	"https://www.googleapis.com/auth/userinfo.email",
	"https://www.googleapis.com/auth/userinfo.profile",
}

// IdentityProvider runs the external authorization-code handshake.
type IdentityProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
}

type googleProvider struct {
	cfg *oauth2.Config
}

// NewGoogleProvider creates an IdentityProvider for Google accounts. Only the
// access token of the exchange is used; it is not refreshed.
func NewGoogleProvider(clientID, clientSecret, redirectURL string) IdentityProvider {
	return &googleProvider{cfg: &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint:     google.Endpoint,
		Scopes:       Scopes,
	}}
}

func (p *googleProvider) AuthCodeURL(state string) string {
	return p.cfg.AuthCodeURL(state, oauth2.AccessTypeOnline, oauth2.SetAuthURLParam("prompt", "select_account"))
}

func (p *googleProvider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	return p.cfg.Exchange(ctx, code)
}
