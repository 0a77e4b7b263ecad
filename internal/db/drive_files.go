package db

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const libraryMimeType = "application/json"

// googleDriveFiles talks to the Drive v3 API. A client is built per call
// because every call carries a different (user-owned) bearer token.
type googleDriveFiles struct {
	opts []option.ClientOption
}

func newGoogleDriveFiles(opts ...option.ClientOption) *googleDriveFiles {
	return &googleDriveFiles{opts: opts}
}

func (g *googleDriveFiles) service(ctx context.Context, token string) (*drive.Service, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	opts := append([]option.ClientOption{option.WithTokenSource(ts)}, g.opts...)
	svc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("drive.NewService: %w", err)
	}
	return svc, nil
}

func (g *googleDriveFiles) FindByName(ctx context.Context, token, name string) (string, error) {
	svc, err := g.service(ctx, token)
	if err != nil {
		return "", err
	}
	q := fmt.Sprintf("name='%s' and trashed=false", strings.ReplaceAll(name, "'", `\'`))
	list, err := svc.Files.List().Q(q).Spaces("drive").Fields("files(id, name)").PageSize(1).Context(ctx).Do()
	if err != nil {
		return "", err
	}
	if len(list.Files) == 0 {
		return "", nil
	}
	return list.Files[0].Id, nil
}

func (g *googleDriveFiles) Download(ctx context.Context, token, fileID string) ([]byte, error) {
	svc, err := g.service(ctx, token)
	if err != nil {
		return nil, err
	}
	resp, err := svc.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

func (g *googleDriveFiles) Create(ctx context.Context, token, name string, content []byte) error {
	svc, err := g.service(ctx, token)
	if err != nil {
		return err
	}
	meta := &drive.File{Name: name, MimeType: libraryMimeType}
	_, err = svc.Files.Create(meta).
		Media(bytes.NewReader(content), googleapi.ContentType(libraryMimeType)).
		Fields("id").
		Context(ctx).
		Do()
	return err
}

func (g *googleDriveFiles) Update(ctx context.Context, token, fileID string, content []byte) error {
	svc, err := g.service(ctx, token)
	if err != nil {
		return err
	}
	_, err = svc.Files.Update(fileID, &drive.File{MimeType: libraryMimeType}).
		Media(bytes.NewReader(content), googleapi.ContentType(libraryMimeType)).
		Fields("id").
		Context(ctx).
		Do()
	return err
}

// classifyDriveError maps Drive API failures to store error kinds.
func classifyDriveError(err error) ErrorKind {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return KindUnauthorized
		}
	}
	return KindUnavailable
}
