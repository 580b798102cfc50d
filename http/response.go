package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"simpleTwitter/errs"
)

// successResponse is the json body of every successful request.
type successResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

// respond writes data wrapped into a success envelope with the given status code.
func respond(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	respondMessage(w, r, status, "", data)
}

// respondMessage is respond with an additional human-readable message.
func respondMessage(w http.ResponseWriter, r *http.Request, status int, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body := successResponse{Status: "success", Message: message, Data: data}
	if err := json.NewEncoder(w).Encode(&body); err != nil {
		errs.LogError(r, err)
	}
}

// decodeJSON parses the request's json body into dst.
func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errs.Errorf(errs.EINVALID, "Invalid json body.")
	}
	return nil
}

// idParam parses the positive integer route variable with the given name.
func idParam(r *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil || id <= 0 {
		return 0, errs.Errorf(errs.EINVALID, "Invalid Id format.")
	}
	return id, nil
}
