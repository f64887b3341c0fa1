// internal/app/features/shared/params.go
package shared

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrBadID means a URL parameter was not a valid ObjectID hex string.
var ErrBadID = errors.New("invalid id")

// ObjectIDParam extracts and parses an ObjectID from a chi URL parameter.
func ObjectIDParam(r *http.Request, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, name))
	if err != nil {
		return primitive.NilObjectID, ErrBadID
	}
	return id, nil
}

// DecodeJSON decodes a JSON request body into dst, rejecting unknown fields
// so typos in client payloads fail loudly instead of silently dropping data.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
