package server

import (
	"net/http"

	"github.com/Tomlord1122/todo-tracker/internal/service"
	"github.com/Tomlord1122/todo-tracker/internal/validation"
)

func todoID(r *http.Request) (uint, error) {
	return pathID(r, "todoID", "Invalid todo ID provided")
}

func (s *Server) getTodosHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, err := userID(r)
	if err != nil {
		s.respondWithFailure(w, r, err)
		return
	}

	todos, err := s.todoService.GetTodosByUserID(r.Context(), ownerID)
	if err != nil {
		s.respondWithFailure(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, todos)
}

// decodeTodo reads a todo body. Read-only view fields such as id, userId and
// username are dropped.
func (s *Server) decodeTodo(w http.ResponseWriter, r *http.Request) (service.TodoRequest, error) {
	var req service.TodoRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return req, err
	}
	return req, validation.Struct(req).Err()
}

func (s *Server) createTodoHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, err := userID(r)
	if err != nil {
		s.respondWithFailure(w, r, err)
		return
	}
	req, err := s.decodeTodo(w, r)
	if err != nil {
		s.respondWithFailure(w, r, err)
		return
	}

	todo, err := s.todoService.CreateTodo(r.Context(), ownerID, req)
	if err != nil {
		s.respondWithFailure(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, todo)
}

func (s *Server) updateTodoHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, err := userID(r)
	if err != nil {
		s.respondWithFailure(w, r, err)
		return
	}
	id, err := todoID(r)
	if err != nil {
		s.respondWithFailure(w, r, err)
		return
	}
	req, err := s.decodeTodo(w, r)
	if err != nil {
		s.respondWithFailure(w, r, err)
		return
	}

	todo, err := s.todoService.UpdateTodo(r.Context(), ownerID, id, req)
	if err != nil {
		s.respondWithFailure(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, todo)
}

func (s *Server) deleteTodoHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, err := userID(r)
	if err != nil {
		s.respondWithFailure(w, r, err)
		return
	}
	id, err := todoID(r)
	if err != nil {
		s.respondWithFailure(w, r, err)
		return
	}

	if err := s.todoService.DeleteTodo(r.Context(), ownerID, id); err != nil {
		s.respondWithFailure(w, r, err)
		return
	}
	respondEmpty(w)
}
