package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Tomlord1122/todo-tracker/internal/validation"
)

func TestRegisterRequestValidation(t *testing.T) {
	tests := []struct {
		name string
		req  RegisterRequest
		want string
	}{
		{
			name: "valid",
			req:  RegisterRequest{Username: "alice", Email: "a@x.com", Password: "secret1"},
		},
		{
			name: "all missing",
			req:  RegisterRequest{},
			want: "Username is required; Email is required; Password is required",
		},
		{
			name: "whitespace only",
			req:  RegisterRequest{Username: "   ", Email: "a@x.com", Password: "      "},
			want: "Username is required; Password is required",
		},
		{
			name: "short username",
			req:  RegisterRequest{Username: "al", Email: "a@x.com", Password: "secret1"},
			want: "Username must be between 3 and 20 characters long",
		},
		{
			name: "long username",
			req:  RegisterRequest{Username: strings.Repeat("a", 21), Email: "a@x.com", Password: "secret1"},
			want: "Username must be between 3 and 20 characters long",
		},
		{
			name: "bad email and short password",
			req:  RegisterRequest{Username: "alice", Email: "not-an-email", Password: "12345"},
			want: "Incorrect email format; Password must be at least 6 characters long",
		},
		{
			name: "long password",
			req:  RegisterRequest{Username: "alice", Email: "a@x.com", Password: strings.Repeat("p", 73)},
			want: "Password must be at most 72 characters long",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			errs := validation.Struct(tc.req)
			if tc.want == "" {
				assert.Nil(t, errs)
				return
			}
			assert.EqualError(t, errs, tc.want)
		})
	}
}

func TestRequestValidationMessages(t *testing.T) {
	assert.EqualError(t, validation.Struct(LoginRequest{}), "Email is required; Password is required")
	assert.EqualError(t, validation.Struct(TodoRequest{Done: true}), "Task text is required")
	assert.EqualError(t, validation.Struct(TodoRequest{TaskText: "   "}), "Task text is required")
	assert.EqualError(t, validation.Struct(LoginRequest{Email: " ", Password: "\t"}), "Email is required; Password is required")
	assert.Nil(t, validation.Struct(TodoRequest{TaskText: " x "}))
	assert.EqualError(t,
		validation.Struct(ChangePasswordRequest{NewPassword: "abc"}),
		"Old password is required; New password must be at least 6 characters long")
	assert.EqualError(t,
		validation.Struct(UpdateUserRequest{Username: "bob", Email: "bob"}),
		"Incorrect email format")
}
