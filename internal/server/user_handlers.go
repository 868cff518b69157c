package server

import (
	"net/http"

	"github.com/Tomlord1122/todo-tracker/internal/service"
	"github.com/Tomlord1122/todo-tracker/internal/validation"
)

func userID(r *http.Request) (uint, error) {
	return pathID(r, "userID", "Invalid user ID provided")
}

func (s *Server) getAllUsersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := s.userService.GetAllUsers(r.Context())
	if err != nil {
		s.respondWithFailure(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, users)
}

func (s *Server) getUserByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := userID(r)
	if err != nil {
		s.respondWithFailure(w, r, err)
		return
	}

	user, err := s.userService.GetUserByID(r.Context(), id)
	if err != nil {
		s.respondWithFailure(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}

func (s *Server) registerUserHandler(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondWithFailure(w, r, err)
		return
	}
	if err := validation.Struct(req).Err(); err != nil {
		s.respondWithFailure(w, r, err)
		return
	}

	user, err := s.userService.RegisterUser(r.Context(), req)
	if err != nil {
		s.respondWithFailure(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}

func (s *Server) loginUserHandler(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondWithFailure(w, r, err)
		return
	}
	if err := validation.Struct(req).Err(); err != nil {
		s.respondWithFailure(w, r, err)
		return
	}

	user, err := s.userService.LoginUser(r.Context(), req)
	if err != nil {
		s.respondWithFailure(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}

// updateUserHandler accepts a full user view as body; id and todos in it are
// ignored.
func (s *Server) updateUserHandler(w http.ResponseWriter, r *http.Request) {
	id, err := userID(r)
	if err != nil {
		s.respondWithFailure(w, r, err)
		return
	}

	var req service.UpdateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondWithFailure(w, r, err)
		return
	}
	if err := validation.Struct(req).Err(); err != nil {
		s.respondWithFailure(w, r, err)
		return
	}

	user, err := s.userService.UpdateUser(r.Context(), id, req)
	if err != nil {
		s.respondWithFailure(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}

func (s *Server) deleteUserHandler(w http.ResponseWriter, r *http.Request) {
	id, err := userID(r)
	if err != nil {
		s.respondWithFailure(w, r, err)
		return
	}

	if err := s.userService.DeleteUser(r.Context(), id); err != nil {
		s.respondWithFailure(w, r, err)
		return
	}
	respondEmpty(w)
}

func (s *Server) changePasswordHandler(w http.ResponseWriter, r *http.Request) {
	id, err := userID(r)
	if err != nil {
		s.respondWithFailure(w, r, err)
		return
	}

	query := r.URL.Query()
	req := service.ChangePasswordRequest{
		OldPassword: query.Get("oldPassword"),
		NewPassword: query.Get("newPassword"),
	}
	if err := validation.Struct(req).Err(); err != nil {
		s.respondWithFailure(w, r, err)
		return
	}

	if err := s.userService.ChangePassword(r.Context(), id, req); err != nil {
		s.respondWithFailure(w, r, err)
		return
	}
	respondEmpty(w)
}
