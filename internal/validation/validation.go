// Package validation turns raw request bodies into validated task drafts and
// patches. Constraint rules are validator struct tags; failures are reported
// as a list of issues, each naming the offending field path.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/tasks-api/internal/domain"
)

// Issue codes.
const (
	CodeInvalidJSON      = "invalid_json"
	CodeInvalidType      = "invalid_type"
	CodeTooSmall         = "too_small"
	CodeTooBig           = "too_big"
	CodeInvalidEnumValue = "invalid_enum_value"
	CodeUnrecognizedKeys = "unrecognized_keys"
)

// Issue describes one reason a payload was rejected.
type Issue struct {
	Code    string   `json:"code"`
	Path    []string `json:"path"`
	Message string   `json:"message"`
}

// Error is returned when a payload fails validation. It matches
// domain.ErrValidation under errors.Is.
type Error struct {
	Issues []Issue
}

// Error implements the error interface.
func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		if len(issue.Path) == 0 {
			parts = append(parts, issue.Message)
			continue
		}
		parts = append(parts, strings.Join(issue.Path, ".")+": "+issue.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Is reports whether target is the validation kind sentinel.
func (e *Error) Is(target error) bool {
	return target == domain.ErrValidation
}

// createPayload mirrors the create body. Only fields present in the body are validated.
type createPayload struct {
	Title       string `json:"title" validate:"min=1,max=255"`
	Description string `json:"description" validate:"min=1,max=2000"`
	Status      string `json:"status" validate:"oneof=TODO IN_PROGRESS DONE"`
}

// updatePayload mirrors the update body.
type updatePayload struct {
	Title       string `json:"title" validate:"min=1,max=255"`
	Description string `json:"description" validate:"max=2000"`
	Status      string `json:"status" validate:"oneof=TODO IN_PROGRESS DONE ARCHIVED"`
}

// fieldNames lists the body fields in reporting order.
var fieldNames = []string{"title", "description", "status"}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateCreate parses a create body. title and description are required,
// status defaults to TODO and unknown fields are ignored.
func ValidateCreate(body []byte) (domain.TaskDraft, error) {
	fields, err := decodeObject(body)
	if err != nil {
		return domain.TaskDraft{}, err
	}

	values, issues := extractStrings(fields)
	for _, name := range []string{"title", "description"} {
		if _, present := fields[name]; !present {
			issues = append(issues, Issue{Code: CodeInvalidType, Path: []string{name}, Message: "Required"})
		}
	}

	payload := createPayload{
		Title:       values["title"],
		Description: values["description"],
		Status:      values["status"],
	}
	issues = append(issues, checkTags(payload, values)...)

	if len(issues) > 0 {
		return domain.TaskDraft{}, newError(issues)
	}

	draft := domain.TaskDraft{
		Title:       payload.Title,
		Description: payload.Description,
		Status:      domain.TaskStatusTodo,
	}
	if _, ok := values["status"]; ok {
		draft.Status = domain.TaskStatus(payload.Status)
	}
	return draft, nil
}

// ValidateUpdate parses an update body. Every field is optional, description
// may be empty, status may be ARCHIVED and unknown fields are rejected.
// An empty object yields an empty patch; rejecting it is the caller's decision.
func ValidateUpdate(body []byte) (domain.TaskPatch, error) {
	fields, err := decodeObject(body)
	if err != nil {
		return domain.TaskPatch{}, err
	}

	values, issues := extractStrings(fields)

	payload := updatePayload{
		Title:       values["title"],
		Description: values["description"],
		Status:      values["status"],
	}
	issues = append(issues, checkTags(payload, values)...)

	var unknown []string
	for key := range fields {
		if !isKnownField(key) {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		issues = append(issues, Issue{
			Code:    CodeUnrecognizedKeys,
			Path:    []string{},
			Message: fmt.Sprintf("Unrecognized key(s) in object: '%s'", strings.Join(unknown, "', '")),
		})
	}

	if len(issues) > 0 {
		return domain.TaskPatch{}, newError(issues)
	}

	var patch domain.TaskPatch
	if v, ok := values["title"]; ok {
		patch.Title = &v
	}
	if v, ok := values["description"]; ok {
		patch.Description = &v
	}
	if v, ok := values["status"]; ok {
		status := domain.TaskStatus(v)
		patch.Status = &status
	}
	return patch, nil
}

// decodeObject parses body as a JSON object. An empty body is an empty object.
func decodeObject(body []byte) (map[string]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return map[string]json.RawMessage{}, nil
	}

	if !json.Valid(trimmed) {
		return nil, newError([]Issue{{
			Code:    CodeInvalidJSON,
			Path:    []string{},
			Message: "Malformed JSON in request body",
		}})
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil || fields == nil {
		return nil, newError([]Issue{{
			Code:    CodeInvalidType,
			Path:    []string{},
			Message: "Expected object, received " + jsonType(trimmed),
		}})
	}
	return fields, nil
}

// extractStrings pulls the known fields out as strings, reporting type mismatches.
// Fields with the wrong type are omitted from the returned map.
func extractStrings(fields map[string]json.RawMessage) (map[string]string, []Issue) {
	values := make(map[string]string, len(fieldNames))
	var issues []Issue

	for _, name := range fieldNames {
		raw, present := fields[name]
		if !present {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err != nil || jsonType(raw) != "string" {
			issues = append(issues, Issue{
				Code:    CodeInvalidType,
				Path:    []string{name},
				Message: "Expected string, received " + jsonType(raw),
			})
			continue
		}
		values[name] = s
	}
	return values, issues
}

// checkTags runs the struct tags for the fields present in values.
func checkTags(payload any, values map[string]string) []Issue {
	present := make([]string, 0, len(values))
	for _, name := range fieldNames {
		if _, ok := values[name]; ok {
			present = append(present, structFieldName(name))
		}
	}
	if len(present) == 0 {
		return nil
	}

	err := validate.StructPartial(payload, present...)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []Issue{{Code: CodeInvalidType, Path: []string{}, Message: err.Error()}}
	}

	issues := make([]Issue, 0, len(verrs))
	for _, fe := range verrs {
		issues = append(issues, issueFromFieldError(fe))
	}
	return issues
}

// lengthMessages holds the length rule messages, keyed by field name and tag.
var lengthMessages = map[string]string{
	"title.min":       "Title is required",
	"title.max":       "Title must be less than 255 characters",
	"description.min": "Description is required",
	"description.max": "Description must be less than 2000 characters",
}

func lengthMessage(fe validator.FieldError, fallback string) string {
	if msg, ok := lengthMessages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	return fmt.Sprintf(fallback, fe.Param())
}

func issueFromFieldError(fe validator.FieldError) Issue {
	path := []string{fe.Field()}
	switch fe.Tag() {
	case "min":
		return Issue{
			Code:    CodeTooSmall,
			Path:    path,
			Message: lengthMessage(fe, "String must contain at least %s character(s)"),
		}
	case "max":
		return Issue{
			Code:    CodeTooBig,
			Path:    path,
			Message: lengthMessage(fe, "String must contain at most %s character(s)"),
		}
	case "oneof":
		options := strings.Fields(fe.Param())
		return Issue{
			Code: CodeInvalidEnumValue,
			Path: path,
			Message: fmt.Sprintf("Invalid enum value. Expected '%s', received '%v'",
				strings.Join(options, "' | '"), fe.Value()),
		}
	default:
		return Issue{Code: fe.Tag(), Path: path, Message: fe.Error()}
	}
}

func newError(issues []Issue) *Error {
	return &Error{Issues: issues}
}

func isKnownField(name string) bool {
	for _, known := range fieldNames {
		if name == known {
			return true
		}
	}
	return false
}

// structFieldName maps a JSON field name to the Go field name used by StructPartial.
func structFieldName(jsonName string) string {
	switch jsonName {
	case "title":
		return "Title"
	case "description":
		return "Description"
	default:
		return "Status"
	}
}

// jsonType names the JSON type of a raw value.
func jsonType(raw []byte) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "undefined"
	}
	switch trimmed[0] {
	case '"':
		return "string"
	case '{':
		return "object"
	case '[':
		return "array"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	default:
		return "number"
	}
}
