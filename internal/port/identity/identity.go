// Package identity defines the port for the authentication-identity
// store. Backoffice profiles reference identities by ID; deleting an
// identity cascades to its profile at the store level.
package identity

import "context"

// Identity is an authentication record: the credential half of a
// backoffice account.
type Identity struct {
	ID    string
	Email string
}

// Provider manages authentication identities. CreateIdentity is phase
// one of the account-provisioning saga; DeleteIdentity is both its
// compensation and the whole of account deletion.
type Provider interface {
	// CreateIdentity registers email/password and returns the new
	// identity with a generated ID. The email is treated as confirmed.
	CreateIdentity(ctx context.Context, email, password string) (*Identity, error)

	// DeleteIdentity removes an identity. Deleting an absent identity
	// is an error, not a no-op.
	DeleteIdentity(ctx context.Context, id string) error

	// VerifyPassword checks a credential pair and returns the matching
	// identity.
	VerifyPassword(ctx context.Context, email, password string) (*Identity, error)

	// UpdatePassword replaces the stored credential for an email.
	UpdatePassword(ctx context.Context, email, password string) error
}
