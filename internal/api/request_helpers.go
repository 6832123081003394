package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/api/shared"
	"github.com/phrazzld/tasks-api/internal/domain"
)

// taskIDParam is the chi URL parameter holding the task ID.
const taskIDParam = "id"

// getUserID returns the caller identity placed in the context by the auth middleware.
func getUserID(r *http.Request) (string, error) {
	userID, ok := shared.GetUserID(r.Context())
	if !ok {
		return "", domain.NewError(domain.KindMissingIdentity, "Missing user identity", nil)
	}
	return userID, nil
}

// getTaskID parses the task ID path parameter. An ID that is not a UUID
// cannot name a task, so it is reported as not found.
func getTaskID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, taskIDParam)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, domain.NotFoundf("Task %s not found", raw)
	}
	return id, nil
}

// requestContext resolves the caller and the path task ID, writing an error
// response and returning false if either is unavailable.
func requestContext(w http.ResponseWriter, r *http.Request) (string, uuid.UUID, bool) {
	userID, err := getUserID(r)
	if err != nil {
		HandleAPIError(w, r, err)
		return "", uuid.Nil, false
	}

	taskID, err := getTaskID(r)
	if err != nil {
		HandleAPIError(w, r, err)
		return "", uuid.Nil, false
	}

	return userID, taskID, true
}
