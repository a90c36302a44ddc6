package newsletter

import "errors"

// Sentinel errors for the newsletter service layer.
var (
	ErrNotFound          = errors.New("campaign not found")
	ErrAlreadySent       = errors.New("campaign already sent")
	ErrAlreadySubscribed = errors.New("email already subscribed")
	ErrInvalidEmail      = errors.New("invalid email address")
)
