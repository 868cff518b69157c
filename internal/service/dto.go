package service

// RegisterRequest holds the data needed to create an account.
type RegisterRequest struct {
	Username  string  `json:"username" validate:"required,notblank,min=3,max=20"`
	Email     string  `json:"email" validate:"required,notblank,email"`
	Password  string  `json:"password" validate:"required,notblank,min=6,max=72"`
	AvatarURL *string `json:"avatarUrl"`
}

func (RegisterRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"username.required": "Username is required",
		"username.notblank": "Username is required",
		"username.min":      "Username must be between 3 and 20 characters long",
		"username.max":      "Username must be between 3 and 20 characters long",
		"email.required":    "Email is required",
		"email.notblank":    "Email is required",
		"email.email":       "Incorrect email format",
		"password.required": "Password is required",
		"password.notblank": "Password is required",
		"password.min":      "Password must be at least 6 characters long",
		"password.max":      "Password must be at most 72 characters long",
	}
}

// LoginRequest holds the credentials presented at login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,notblank"`
	Password string `json:"password" validate:"required,notblank"`
}

func (LoginRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"email.required":    "Email is required",
		"email.notblank":    "Email is required",
		"password.required": "Password is required",
		"password.notblank": "Password is required",
	}
}

// UpdateUserRequest replaces a user's profile. A nil AvatarURL clears the
// avatar. The password is changed through ChangePasswordRequest only.
type UpdateUserRequest struct {
	Username  string  `json:"username" validate:"required,notblank,min=3,max=20"`
	Email     string  `json:"email" validate:"required,notblank,email"`
	AvatarURL *string `json:"avatarUrl"`
}

func (UpdateUserRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"username.required": "Username is required",
		"username.notblank": "Username is required",
		"username.min":      "Username must be between 3 and 20 characters long",
		"username.max":      "Username must be between 3 and 20 characters long",
		"email.required":    "Email is required",
		"email.notblank":    "Email is required",
		"email.email":       "Incorrect email format",
	}
}

// ChangePasswordRequest is read from the query string, not the body.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required,notblank"`
	NewPassword string `json:"newPassword" validate:"required,notblank,min=6,max=72"`
}

func (ChangePasswordRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"oldPassword.required": "Old password is required",
		"oldPassword.notblank": "Old password is required",
		"newPassword.required": "New password is required",
		"newPassword.notblank": "New password is required",
		"newPassword.min":      "New password must be at least 6 characters long",
		"newPassword.max":      "New password must be at most 72 characters long",
	}
}

// TodoRequest carries the client-writable fields of a todo. The owner always
// comes from the URL.
type TodoRequest struct {
	TaskText string `json:"taskText" validate:"required,notblank"`
	Done     bool   `json:"done"`
}

func (TodoRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"taskText.required": "Task text is required",
		"taskText.notblank": "Task text is required",
	}
}

// UserResponse is the public view of a user. It never carries the password
// hash.
type UserResponse struct {
	ID        uint           `json:"id"`
	Username  string         `json:"username"`
	Email     string         `json:"email"`
	AvatarURL *string        `json:"avatarUrl"`
	Todos     []TodoResponse `json:"todos"`
}

// TodoResponse is the public view of a todo.
type TodoResponse struct {
	ID       uint   `json:"id"`
	TaskText string `json:"taskText"`
	Done     bool   `json:"done"`
	UserID   uint   `json:"userId"`
	Username string `json:"username"`
}
