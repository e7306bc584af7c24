package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// maxJSONBodyBytes bounds JSON request bodies. File content travels as
// multipart, not JSON, so this only needs to fit control-plane payloads.
const maxJSONBodyBytes = 1 << 20

// ParseJSON decodes JSON from the request body into dest, limiting the body
// size and rejecting unknown fields.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	return nil
}
