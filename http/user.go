package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"simpleTwitter/auth"
	"simpleTwitter/domain"
	"simpleTwitter/errs"
)

func (s *Server) registerUserRoutes(r *mux.Router) {
	// Users with the most followers.
	r.HandleFunc("/users/top", s.requireUser(s.handleTopUsers)).Methods("GET")

	// A user's profile, and updating one's own profile.
	r.HandleFunc("/users/{id:[0-9]+}", s.requireUser(s.handleGetUser)).Methods("GET")
	r.HandleFunc("/users/{id:[0-9]+}", s.requireUser(s.handleUpdateUser)).Methods("PUT")

	// Everything a user has written, liked or followed.
	r.HandleFunc("/users/{id:[0-9]+}/tweets", s.requireUser(s.handleUserTweets)).Methods("GET")
	r.HandleFunc("/users/{id:[0-9]+}/replied_tweets", s.requireUser(s.handleUserReplies)).Methods("GET")
	r.HandleFunc("/users/{id:[0-9]+}/likes", s.requireUser(s.handleUserLikes)).Methods("GET")
	r.HandleFunc("/users/{id:[0-9]+}/followers", s.requireUser(s.handleUserFollowers)).Methods("GET")
	r.HandleFunc("/users/{id:[0-9]+}/followings", s.requireUser(s.handleUserFollowings)).Methods("GET")
}

// handleGetUser handles the route "GET /api/users/{id}".
// It returns the user with their counts and whether the authed user follows them.
func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	viewer := auth.GetUser(r.Context())
	user, err := s.us.Profile(r.Context(), viewer.ID, id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, user)
}

// handleUpdateUser handles the route "PUT /api/users/{id}".
// The update is read from a json body, or from a multipart form carrying
// avatar and cover_image files. It returns the updated profile.
func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	// Reject foreign profiles before anything is uploaded.
	viewer := auth.GetUser(r.Context())
	if viewer.ID != id {
		errs.ReturnError(w, r, errs.Errorf(errs.EFORBIDDEN, "You are not allowed to update this user."))
		return
	}

	var (
		upd      *domain.UserUpdate
		uploaded []*domain.Image
	)
	if isMultipart(r) {
		upd, uploaded, err = s.parseMultipartUpdate(w, r, viewer.ID)
		if err != nil {
			errs.ReturnError(w, r, err)
			return
		}
	} else {
		upd = &domain.UserUpdate{}
		if err := decodeJSON(r, upd); err != nil {
			errs.ReturnError(w, r, err)
			return
		}
	}

	user, err := s.us.Update(r.Context(), viewer.ID, id, upd)
	if err != nil {
		s.discardImages(r, uploaded)
		errs.ReturnError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, user)
}

// handleUserTweets handles the route "GET /api/users/{id}/tweets".
func (s *Server) handleUserTweets(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	tweets, err := s.ts.ByUser(r.Context(), auth.GetUser(r.Context()).ID, id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, tweets)
}

// handleUserReplies handles the route "GET /api/users/{id}/replied_tweets".
// Each reply carries the tweet it answers.
func (s *Server) handleUserReplies(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	replies, err := s.rs.ByUser(r.Context(), id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, replies)
}

// handleUserLikes handles the route "GET /api/users/{id}/likes".
func (s *Server) handleUserLikes(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	tweets, err := s.ts.LikedByUser(r.Context(), auth.GetUser(r.Context()).ID, id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, tweets)
}

// handleUserFollowers handles the route "GET /api/users/{id}/followers".
func (s *Server) handleUserFollowers(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	users, err := s.us.Followers(r.Context(), auth.GetUser(r.Context()).ID, id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, users)
}

// handleUserFollowings handles the route "GET /api/users/{id}/followings".
func (s *Server) handleUserFollowings(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	users, err := s.us.Followings(r.Context(), auth.GetUser(r.Context()).ID, id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, users)
}

// handleTopUsers handles the route "GET /api/users/top".
// The optional query parameter "limit" caps the number of returned users.
func (s *Server) handleTopUsers(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid limit."))
			return
		}
		limit = n
	}
	users, err := s.us.Top(r.Context(), auth.GetUser(r.Context()).ID, limit)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, users)
}
