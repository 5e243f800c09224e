package models

// RegisterRequest is the body of POST /users.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the body of POST /users/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateTodoRequest is the body of POST /todos.
type CreateTodoRequest struct {
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// AuthResponse is the envelope returned by registration and login: the
// public view of the user plus the freshly issued bearer token.
type AuthResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// ErrorResponse is the body of 400-level responses that carry a message.
type ErrorResponse struct {
	Error string `json:"error"`
}
