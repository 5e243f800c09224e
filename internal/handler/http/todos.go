package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/mkhiriev/go-todo-vault/internal/logger"
	"github.com/mkhiriev/go-todo-vault/internal/store"
	"github.com/mkhiriev/go-todo-vault/internal/utils"
	"github.com/mkhiriev/go-todo-vault/models"
)

// listTodos returns the caller's todos filtered, sorted and paginated per
// the raw query string. The owner scope comes from the resolved identity;
// nothing in the query can widen it.
func (h *Handler) listTodos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	user, ok := utils.GetUserFromContext(ctx)
	if !ok {
		log.Error().Msg("no user in request context")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	todos, err := h.services.TodoService.ListTodos(ctx, user.UserID, r.URL.Query())
	if err != nil {
		log.Err(err).Msg("todo listing failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, todos, http.StatusOK)
}

func (h *Handler) createTodo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	user, ok := utils.GetUserFromContext(ctx)
	if !ok {
		log.Error().Msg("no user in request context")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req models.CreateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	createdTodo, err := h.services.TodoService.CreateTodo(ctx, user.UserID, req)
	if err != nil {
		log.Err(err).Msg("todo creation failed")
		http.Error(w, http.StatusText(statusFromError(err)), statusFromError(err))
		return
	}

	utils.WriteJSON(w, createdTodo, http.StatusCreated)
}

func (h *Handler) getTodo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	user, ok := utils.GetUserFromContext(ctx)
	if !ok {
		log.Error().Msg("no user in request context")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	todoID, err := parseTodoID(r)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	todo, err := h.services.TodoService.GetTodo(ctx, user.UserID, todoID)
	if err != nil {
		if errors.Is(err, store.ErrTodoNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		log.Err(err).Msg("todo lookup failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, todo, http.StatusOK)
}

func (h *Handler) updateTodo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	user, ok := utils.GetUserFromContext(ctx)
	if !ok {
		log.Error().Msg("no user in request context")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	todoID, err := parseTodoID(r)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	var body map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	// Explicit allow-list: any key outside {description, completed} rejects
	// the whole update. The owner field in particular is not reachable here.
	var update models.TodoUpdate
	for key, value := range body {
		switch key {
		case "description":
			var s string
			if err := json.Unmarshal(value, &s); err != nil {
				log.Err(err).Str("key", key).Msg("update value has wrong type")
				http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
				return
			}
			update.Description = &s
		case "completed":
			var b bool
			if err := json.Unmarshal(value, &b); err != nil {
				log.Err(err).Str("key", key).Msg("update value has wrong type")
				http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
				return
			}
			update.Completed = &b
		default:
			log.Error().Str("key", key).Msg("update key outside allow-list")
			utils.WriteJSON(w, models.ErrorResponse{Error: invalidTodoUpdateMessage}, http.StatusBadRequest)
			return
		}
	}

	updatedTodo, err := h.services.TodoService.UpdateTodo(ctx, user.UserID, todoID, update)
	if err != nil {
		if errors.Is(err, store.ErrTodoNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		log.Err(err).Msg("todo update failed")
		http.Error(w, http.StatusText(statusFromError(err)), statusFromError(err))
		return
	}

	utils.WriteJSON(w, updatedTodo, http.StatusOK)
}

func (h *Handler) deleteTodo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	user, ok := utils.GetUserFromContext(ctx)
	if !ok {
		log.Error().Msg("no user in request context")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	todoID, err := parseTodoID(r)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	deletedTodo, err := h.services.TodoService.DeleteTodo(ctx, user.UserID, todoID)
	if err != nil {
		if errors.Is(err, store.ErrTodoNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		log.Err(err).Msg("todo deletion failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, deletedTodo, http.StatusOK)
}

// parseTodoID reads the {id} route parameter. A non-numeric id names a todo
// that cannot exist, so callers treat the error as not-found.
func parseTodoID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
