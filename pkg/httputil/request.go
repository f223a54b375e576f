package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// ParseJSON decodes JSON from the request body into the destination. An
// empty body leaves dest untouched.
func ParseJSON(r *http.Request, dest interface{}) error {
	if r.Body == nil {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

// ParseJSONOrError decodes JSON and writes a 400 response on failure
func ParseJSONOrError(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	if err := ParseJSON(r, dest); err != nil {
		WriteBadRequest(w, err.Error())
		return false
	}
	return true
}

// PathVar returns a path variable of the matched route
func PathVar(r *http.Request, key string) string {
	return mux.Vars(r)[key]
}

// ParsePathUUID extracts a path variable holding a UUID
func ParsePathUUID(r *http.Request, key string) (uuid.UUID, error) {
	str := PathVar(r, key)
	if str == "" {
		return uuid.Nil, fmt.Errorf("missing path parameter: %s", key)
	}
	id, err := uuid.Parse(str)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s is not a valid UUID: %s", key, str)
	}
	return id, nil
}

// ParsePathUUIDOrError extracts a UUID path variable and writes a 400
// response on failure
func ParsePathUUIDOrError(w http.ResponseWriter, r *http.Request, key string) (uuid.UUID, bool) {
	id, err := ParsePathUUID(r, key)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return uuid.Nil, false
	}
	return id, true
}

// ParseQueryInt extracts and parses an integer query parameter
func ParseQueryInt(r *http.Request, key string, defaultVal int) (int, error) {
	str := r.URL.Query().Get(key)
	if str == "" {
		return defaultVal, nil
	}
	val, err := strconv.Atoi(str)
	if err != nil {
		return 0, fmt.Errorf("invalid integer for query param %s: %s", key, str)
	}
	return val, nil
}

// ParseQueryString returns a query parameter or its default
func ParseQueryString(r *http.Request, key string, defaultVal string) string {
	if str := r.URL.Query().Get(key); str != "" {
		return str
	}
	return defaultVal
}

// ParseQueryBool extracts and parses a boolean query parameter. A present
// parameter without value is true.
func ParseQueryBool(r *http.Request, key string, defaultVal bool) (bool, error) {
	values, ok := r.URL.Query()[key]
	if !ok {
		return defaultVal, nil
	}
	if len(values) == 0 || values[0] == "" {
		return true, nil
	}
	val, err := strconv.ParseBool(values[0])
	if err != nil {
		return false, fmt.Errorf("invalid boolean for query param %s: %s", key, values[0])
	}
	return val, nil
}
