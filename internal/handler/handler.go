package handler

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are already written; nothing useful left to send.
		return
	}
}

// respondError maps a service error onto the wire: the taxonomy decides
// the status code, and database/internal detail stays in the logs.
func respondError(w http.ResponseWriter, logger zerolog.Logger, err error) {
	apiErr := model.AsAPIError(err)

	if apiErr.Status() >= http.StatusInternalServerError {
		logger.Error().Err(apiErr).Str("code", apiErr.Code).Msg("request failed")
	} else {
		logger.Debug().Str("code", apiErr.Code).Str("message", apiErr.Message).Msg("request rejected")
	}

	writeJSON(w, apiErr.Status(), ErrorResponse{Error: apiErr.PublicMessage()})
}

// decodeBody decodes a JSON request body, rejecting unknown fields.
func decodeBody(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return model.NewBadRequest("invalid request body: %v", err)
	}
	return nil
}

// Query-string parsing helpers. Absence returns nil, which downstream
// means "no constraint" rather than "match empty".

func queryString(q url.Values, key string) *string {
	if !q.Has(key) {
		return nil
	}
	v := q.Get(key)
	return &v
}

func queryInt(q url.Values, key string) (*int, error) {
	if !q.Has(key) {
		return nil, nil
	}
	v, err := strconv.Atoi(q.Get(key))
	if err != nil {
		return nil, model.NewBadRequest("invalid %s parameter", key)
	}
	return &v, nil
}

func queryFloat(q url.Values, key string) (*float64, error) {
	if !q.Has(key) {
		return nil, nil
	}
	v, err := strconv.ParseFloat(q.Get(key), 64)
	if err != nil {
		return nil, model.NewBadRequest("invalid %s parameter", key)
	}
	return &v, nil
}

func queryBool(q url.Values, key string) (*bool, error) {
	if !q.Has(key) {
		return nil, nil
	}
	v, err := strconv.ParseBool(q.Get(key))
	if err != nil {
		return nil, model.NewBadRequest("invalid %s parameter", key)
	}
	return &v, nil
}
