// Package ui holds the four page models of the Meal Selector client and
// their shared styling. Pages never perform transitions themselves: they
// emit intent messages, and the root application model interprets them.
package ui

import (
	"context"
	"errors"

	"mealselector/internal/api"
)

// User is the in-memory record of the authenticated user. It lives only
// for the session and is owned by the root model.
type User struct {
	ID       string
	Username string
	Email    string
}

// Status tracks one form's submission lifecycle.
type Status int

const (
	StatusIdle Status = iota
	StatusPending
	StatusSaved
	StatusError
)

// Gateway is the slice of the API client the pages need. Tests substitute
// a counting stub.
type Gateway interface {
	Login(ctx context.Context, email, password string) (*api.Session, error)
	Register(ctx context.Context, name, email, password string) error
	SaveProfile(ctx context.Context, userID string, p api.Profile) error
	Chat(ctx context.Context, userID, message string) (string, error)
}

// Intent messages. Pages emit these; only the root model acts on them.
type (
	// LoginSucceededMsg carries the freshly authenticated user.
	LoginSucceededMsg struct{ User User }

	// ProfileSavedMsg fires once the post-save delay has elapsed; the root
	// model moves to the chat page.
	ProfileSavedMsg struct{}

	// LogoutRequestedMsg asks the root model to clear the session.
	LogoutRequestedMsg struct{}

	// SwitchToRegisterMsg and SwitchToLoginMsg are explicit navigation
	// between the two auth pages.
	SwitchToRegisterMsg struct{}
	SwitchToLoginMsg    struct{}
)

// Page-internal round-trip results. Broadcast by the root model so a page
// still receives its outcome after the user navigated away.
type (
	loginResultMsg struct {
		session *api.Session
		err     error
	}
	registerResultMsg struct{ err error }
	profileResultMsg  struct{ err error }
	chatResultMsg     struct {
		reply string
		err   error
	}
)

// User-facing strings. The chat failure line deliberately reads like a
// bot turn instead of an error banner.
const (
	invalidEmailText     = "Please enter a valid email address."
	emptyPasswordText    = "Please enter your password."
	passwordMismatchText = "Passwords do not match. Please check them."
	passwordTooShortText = "Password must be at least 6 characters."

	loginFailedText    = "Login failed. Please try again."
	registerFailedText = "Registration failed. Please try again."
	profileFailedText  = "Could not save your profile. Please try again."

	registerSuccessText = "Registration successful! You can now sign in."
	profileSavedText    = "Profile saved 🎉"

	ChatGreetingText = "Welcome! What would you like to eat today? 🍽️"
	ChatFallbackText = "Something went wrong 😢 Please try again."
)

// MinPasswordLength is the registration password floor.
const MinPasswordLength = 6

// errorText maps a gateway failure onto the inline message for the auth
// and profile forms: server-rejected requests surface the server's own
// reason, transport failures get the page's generic phrase.
func errorText(err error, generic string) string {
	var reqErr *api.RequestError
	if errors.As(err, &reqErr) && reqErr.Message != "" {
		return reqErr.Message
	}
	return generic
}
