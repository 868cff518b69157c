package service

import "github.com/Tomlord1122/todo-tracker/internal/domain"

func toTodoResponse(todo domain.Todo, username string) TodoResponse {
	return TodoResponse{
		ID:       todo.ID,
		TaskText: todo.TaskText,
		Done:     todo.Done,
		UserID:   todo.UserID,
		Username: username,
	}
}

// toUserResponse maps user and the todos it owns. Todos owned by someone
// else are skipped.
func toUserResponse(user domain.User, todos []domain.Todo) UserResponse {
	views := make([]TodoResponse, 0, len(todos))
	for _, todo := range todos {
		if todo.OwnedBy(user.ID) {
			views = append(views, toTodoResponse(todo, user.Username))
		}
	}
	var avatar *string
	if user.AvatarURL != nil {
		a := *user.AvatarURL
		avatar = &a
	}
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		AvatarURL: avatar,
		Todos:     views,
	}
}
