package auth

import "context"

var _ Checker = (*LoginChecker)(nil)
var _ Checker = (*LoginTestChecker)(nil)

type Checker interface {
	// IsLogged resolves the token to the id of the logged in user.
	IsLogged(ctx context.Context, token string) (userID int, logged bool, err error)
}

type LoginTestChecker struct {
	LoggedSessions map[string]int
}

func NewLoginTestChecker() *LoginTestChecker {
	return &LoginTestChecker{
		LoggedSessions: map[string]int{},
	}
}

func (c *LoginTestChecker) IsLogged(_ context.Context, token string) (int, bool, error) {
	userID, ok := c.LoggedSessions[token]
	return userID, ok, nil
}
