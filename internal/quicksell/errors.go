package quicksell

// UserError is a command failure caused by the sender, such as bad arguments
// or a missing permission. Its message is shown to the sender as is.
type UserError struct {
	Message string
}

func (e *UserError) Error() string {
	return e.Message
}

// NewUserError creates a user-facing error.
func NewUserError(msg string) *UserError {
	return &UserError{Message: msg}
}
