package api

import (
	"context"
	"net/http"

	"github.com/gasgalon/orderflow/internal/model"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest carries the fields the register endpoint requires.
// Registration always creates a customer account.
type RegisterRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

type authData struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

// Login authenticates against the backend and returns the issued session.
func (c *Client) Login(ctx context.Context, username, password string) (*model.Session, error) {
	var data authData
	err := c.send(ctx, http.MethodPost, "/auth/login", credentials{Username: username, Password: password}, &data)
	if err != nil {
		return nil, err
	}
	return &model.Session{Token: data.Token, User: data.User}, nil
}

// Register creates a customer account and returns the issued session.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*model.Session, error) {
	var data authData
	if err := c.send(ctx, http.MethodPost, "/auth/register", req, &data); err != nil {
		return nil, err
	}
	return &model.Session{Token: data.Token, User: data.User}, nil
}
