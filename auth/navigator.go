package auth

import "context"

// DefaultLoginPath is where an unrecoverable session sends the member.
const DefaultLoginPath = "/login"

// Navigator tears down the current session context and presents the login
// entry point. It runs after the stored session has been cleared.
type Navigator interface {
	RedirectToLogin(ctx context.Context, loginPath string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(ctx context.Context, loginPath string)

func (f NavigatorFunc) RedirectToLogin(ctx context.Context, loginPath string) {
	f(ctx, loginPath)
}
