// Package service contains the application use cases for tasks.
//
// TaskService enforces ownership and lifecycle rules on top of a
// TaskRepository. Every operation on an existing task follows the same
// protocol: look the task up, treat a missing or soft-deleted task as not
// found, reject a task owned by someone else as forbidden, and only then
// perform the read or mutation.
//
// Errors returned by the service are domain.Error values tagged with a kind
// (not found, forbidden, validation) or TaskServiceError wrappers for
// unexpected failures. The API layer maps kinds to HTTP status codes.
package service
