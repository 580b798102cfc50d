package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"simpleTwitter/domain"
	"simpleTwitter/errs"
)

func (s *Server) registerAdminRoutes(r *mux.Router) {
	r.HandleFunc("/admin/users", s.requireAdmin(s.handleAdminUsers)).Methods("GET")
	r.HandleFunc("/admin/users/{id:[0-9]+}", s.requireAdmin(s.handleAdminDeleteUser)).Methods("DELETE")
	r.HandleFunc("/admin/tweets", s.requireAdmin(s.handleAdminTweets)).Methods("GET")
	r.HandleFunc("/admin/tweets/{id:[0-9]+}", s.requireAdmin(s.handleAdminDeleteTweet)).Methods("DELETE")
}

// deleteTweetResponse is the data of a successful tweet deletion.
type deleteTweetResponse struct {
	DeletedTweet *domain.Tweet `json:"deleted_tweet"`
	DeletedCount int           `json:"deleted_count"`
}

// handleAdminUsers handles the route "GET /api/admin/users".
func (s *Server) handleAdminUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.us.AdminList(r.Context())
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, users)
}

// handleAdminTweets handles the route "GET /api/admin/tweets".
func (s *Server) handleAdminTweets(w http.ResponseWriter, r *http.Request) {
	tweets, err := s.ts.AdminList(r.Context())
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, tweets)
}

// handleAdminDeleteTweet handles the route "DELETE /api/admin/tweets/{id}".
// The tweet is deleted along with its replies and likes.
func (s *Server) handleAdminDeleteTweet(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	tweet, err := s.ts.Delete(r.Context(), id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	respondMessage(w, r, http.StatusOK, "Tweet deleted.", deleteTweetResponse{DeletedTweet: tweet, DeletedCount: 1})
}

// handleAdminDeleteUser handles the route "DELETE /api/admin/users/{id}".
func (s *Server) handleAdminDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := s.us.Delete(r.Context(), id); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	respondMessage(w, r, http.StatusOK, "User deleted.", nil)
}
