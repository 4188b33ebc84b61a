package ordering

import (
	"context"
	"fmt"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"
)

// AccountResolver turns a bearer token into the account it belongs to.
// Unknown and expired tokens resolve to uuid.Nil with a nil error; transport
// failures are errors.
type AccountResolver interface {
	Resolve(ctx context.Context, token string) (uuid.UUID, error)
}

// AuthnClient resolves tokens through the authn service's internal
// validation endpoint.
type AuthnClient struct {
	client *apt.ServiceClient
	logger apt.Logger
}

func NewAuthnClient(client *apt.ServiceClient, logger apt.Logger) *AuthnClient {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &AuthnClient{client: client, logger: logger}
}

type tokenValidationRequest struct {
	Token string `json:"token"`
}

type tokenValidationResponse struct {
	AccountID string `json:"account_id"`
	Valid     bool   `json:"valid"`
}

func (c *AuthnClient) Resolve(ctx context.Context, token string) (uuid.UUID, error) {
	if token == "" {
		return uuid.Nil, nil
	}

	resp, err := c.client.Request(ctx, "POST", "/sessions/validate", tokenValidationRequest{Token: token})
	if err != nil {
		return uuid.Nil, fmt.Errorf("cannot validate session: %w", err)
	}

	var result tokenValidationResponse
	if err := rehydrate(resp.Data, &result); err != nil {
		return uuid.Nil, fmt.Errorf("cannot decode session validation: %w", err)
	}

	if !result.Valid {
		return uuid.Nil, nil
	}

	accountID, err := uuid.Parse(result.AccountID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid account id in session validation: %w", err)
	}
	return accountID, nil
}
