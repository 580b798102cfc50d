package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"simpleTwitter/auth"
	"simpleTwitter/errs"
)

func (s *Server) registerFollowshipRoutes(r *mux.Router) {
	r.HandleFunc("/followships", s.requireUser(s.handleFollow)).Methods("POST")
	r.HandleFunc("/followships/{followingId:[0-9]+}", s.requireUser(s.handleUnfollow)).Methods("DELETE")
}

// followRequest is the json body of the follow route. ID is the user to be followed.
type followRequest struct {
	ID int `json:"id"`
}

// handleFollow handles the route "POST /api/followships".
func (s *Server) handleFollow(w http.ResponseWriter, r *http.Request) {
	var req followRequest
	if err := decodeJSON(r, &req); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if req.ID <= 0 {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}
	followship, err := s.fs.Follow(r.Context(), auth.GetUser(r.Context()).ID, req.ID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, followship)
}

// handleUnfollow handles the route "DELETE /api/followships/{followingId}".
func (s *Server) handleUnfollow(w http.ResponseWriter, r *http.Request) {
	followingID, err := idParam(r, "followingId")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := s.fs.Unfollow(r.Context(), auth.GetUser(r.Context()).ID, followingID); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	respondMessage(w, r, http.StatusOK, "User unfollowed.", nil)
}
