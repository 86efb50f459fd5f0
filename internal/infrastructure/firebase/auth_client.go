package firebase

import (
	"context"
	"time"

	"firebase.google.com/go/v4/auth"
)

// AuthClient wraps the Firebase Admin auth client with the operations the
// backend needs: token verification, account lookup, account deletion.
// Token issuance belongs to the identity provider, not this service.
type AuthClient struct {
	client *auth.Client
}

func NewAuthClient(client *auth.Client) *AuthClient {
	return &AuthClient{
		client: client,
	}
}

func (f *AuthClient) VerifyToken(ctx context.Context, idToken string) (string, error) {
	token, err := f.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return "", err
	}

	return token.UID, nil
}

// GetAccount returns the email address and account creation time recorded
// by the identity provider for the given subject.
func (f *AuthClient) GetAccount(ctx context.Context, uid string) (string, time.Time, error) {
	record, err := f.client.GetUser(ctx, uid)
	if err != nil {
		return "", time.Time{}, err
	}

	created := time.UnixMilli(record.UserMetadata.CreationTimestamp)
	return record.Email, created, nil
}

func (f *AuthClient) DeleteAccount(ctx context.Context, uid string) error {
	return f.client.DeleteUser(ctx, uid)
}

func (f *AuthClient) TestConnection(ctx context.Context) error {
	// A bogus lookup exercises the full credential path; "user not found"
	// still proves the connection works.
	_, err := f.client.GetUser(ctx, "connection-probe")
	if err != nil && auth.IsUserNotFound(err) {
		return nil
	}
	return err
}
