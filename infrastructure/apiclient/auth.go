package apiclient

import "context"

// User is the authenticated account returned by login and signup.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Token string `json:"token"`
}

type authResponse struct {
	envelope
	User User `json:"user"`
}

// Login authenticates and stores the returned token on the client.
func (c *Client) Login(ctx context.Context, email, password string) (User, error) {
	var resp authResponse
	err := c.postJSON(ctx, "/api/login", map[string]string{
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		return User{}, err
	}
	c.SetToken(resp.User.Token)
	return resp.User, nil
}

// Signup registers an account and stores the returned token on the client.
func (c *Client) Signup(ctx context.Context, name, email, password string) (User, error) {
	var resp authResponse
	err := c.postJSON(ctx, "/api/signup", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		return User{}, err
	}
	c.SetToken(resp.User.Token)
	return resp.User, nil
}
