package core

// Logger is any leveled logger.
// args may hold errors, extra data maps and the Principal the log entry relates to.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// Principal is the authenticated user a request is made on behalf of.
// Identity is owned by the external auth provider; ID is opaque.
type Principal struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

func (p Principal) IsZero() bool {
	return p.ID == ""
}
