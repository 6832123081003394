// Package api handles incoming HTTP requests for the task endpoints.
// Handlers validate request bodies, call the task service and translate
// results and tagged errors into JSON responses.
package api
