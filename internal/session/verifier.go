package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// TokenVerifier checks an access token against the issuer and returns the
// e-mail it was issued for.
type TokenVerifier interface {
	Verify(ctx context.Context, accessToken string) (string, error)
}

type googleTokenVerifier struct {
	opts []option.ClientOption
}

// NewGoogleTokenVerifier verifies tokens with Google's tokeninfo endpoint.
// opts are appended to the client options, e.g. to override the endpoint.
func NewGoogleTokenVerifier(opts ...option.ClientOption) TokenVerifier {
	return &googleTokenVerifier{opts: opts}
}

func (v *googleTokenVerifier) Verify(ctx context.Context, accessToken string) (string, error) {
	if accessToken == "" {
		return "", fmt.Errorf("%w: empty token", ErrTokenRejected)
	}

	opts := append([]option.ClientOption{option.WithoutAuthentication()}, v.opts...)
	svc, err := oauth2api.NewService(ctx, opts...)
	if err != nil {
		return "", fmt.Errorf("oauth2.NewService: %w", err)
	}

	info, err := svc.Tokeninfo().AccessToken(accessToken).Context(ctx).Do()
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && (gerr.Code == http.StatusBadRequest || gerr.Code == http.StatusUnauthorized) {
			return "", fmt.Errorf("%w: %v", ErrTokenRejected, err)
		}
		return "", fmt.Errorf("tokeninfo: %w", err)
	}

	if info.ExpiresIn <= 0 {
		return "", fmt.Errorf("%w: token expired", ErrTokenRejected)
	}
	if !hasScope(info.Scope, drive.DriveFileScope) {
		return "", fmt.Errorf("%w: missing scope %s", ErrTokenRejected, drive.DriveFileScope)
	}
	return info.Email, nil
}

func hasScope(scopes, want string) bool {
	for _, s := range strings.Fields(scopes) {
		if s == want {
			return true
		}
	}
	return false
}
