// Package request holds the decoding helpers shared by the HTTP handlers.
package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
)

// maxBodyBytes caps request bodies; every payload here is a handful of fields.
const maxBodyBytes = 1 << 20

// DecodeJSON decodes the request body into v. An empty body, malformed
// JSON and values of the wrong JSON type are all reported as errors with
// a client-facing message.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil {
		return nil
	}

	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
		maxErr    *http.MaxBytesError
	)
	switch {
	case errors.Is(err, io.EOF):
		// io.EOF means the body was completely empty.
		return errors.New("request body is empty")
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return errors.New("request body is not valid JSON")
	case errors.As(err, &typeErr):
		return fmt.Errorf("field %s must be of type %s", typeErr.Field, typeErr.Type)
	case errors.As(err, &maxErr):
		return fmt.Errorf("request body must not exceed %d bytes", maxErr.Limit)
	default:
		return err
	}
}

// PathID parses the {id} path segment as an int64.
func PathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, errors.New("invalid id: must be an integer")
	}
	return id, nil
}
