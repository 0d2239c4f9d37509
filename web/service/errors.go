package service

// ValidationError is a user-input failure. Its text is shown to the user
// verbatim; anything else that comes out of a service is a remote-call
// failure and gets wrapped by the controller.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }
