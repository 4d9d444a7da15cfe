package controllers

import (
	"context"

	"kitemate/src/models"
	"kitemate/src/schemas"
	"kitemate/src/services"
	"kitemate/src/utils"
)

func (c *Controller) LoginURL() *schemas.LoginURLResponse {
	return &schemas.LoginURLResponse{RedirectURL: c.BrokerClient.LoginURL()}
}

// HandleCallback exchanges the broker request token for a session, upserts
// the user and issues a signed session token.
func (c *Controller) HandleCallback(ctx context.Context, requestToken string) (*schemas.SessionResponse, error) {
	if requestToken == "" {
		return nil, utils.InvalidArgument("request_token is required")
	}
	session, err := c.BrokerClient.ExchangeRequestToken(ctx, requestToken)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		BrokerUserID: session.Data.UserID,
		Email:        session.Data.Email,
		Name:         session.Data.UserName,
		AvatarURL:    session.Data.AvatarURL,
	}
	if err := c.UserRepository.UpsertByBrokerID(ctx, user); err != nil {
		return nil, utils.InternalServerError("could not persist user")
	}
	token, expiresAt, err := c.AuthService.IssueToken(user)
	if err != nil {
		return nil, utils.InternalServerError("could not issue session token")
	}
	return &schemas.SessionResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      toUserResponse(user),
	}, nil
}

func (c *Controller) VerifyToken(token string) (*services.SessionClaims, error) {
	return c.AuthService.VerifyToken(token)
}

func (c *Controller) GetMe(ctx context.Context, userID string) (*schemas.UserResponse, error) {
	user, err := c.UserRepository.GetByID(ctx, userID)
	if err != nil {
		return nil, utils.Unauthenticated("session user no longer exists")
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func toUserResponse(user *models.User) schemas.UserResponse {
	return schemas.UserResponse{
		ID:           user.ID,
		BrokerUserID: user.BrokerUserID,
		Email:        user.Email,
		Name:         user.Name,
		AvatarURL:    user.AvatarURL,
		Plan:         models.PlanOrFree(user.Plan),
		CreatedAt:    user.CreatedAt,
	}
}
