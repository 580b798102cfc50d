package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"simpleTwitter/auth"
	"simpleTwitter/domain"
	"simpleTwitter/errs"
)

func (s *Server) registerTweetRoutes(r *mux.Router) {
	r.HandleFunc("/tweets", s.requireUser(s.handleListTweets)).Methods("GET")
	r.HandleFunc("/tweets", s.requireUser(s.handleCreateTweet)).Methods("POST")
	r.HandleFunc("/tweets/{id:[0-9]+}", s.requireUser(s.handleGetTweet)).Methods("GET")

	r.HandleFunc("/tweets/{id:[0-9]+}/replies", s.requireUser(s.handleListReplies)).Methods("GET")
	r.HandleFunc("/tweets/{id:[0-9]+}/replies", s.requireUser(s.handleCreateReply)).Methods("POST")

	r.HandleFunc("/tweets/{id:[0-9]+}/like", s.requireUser(s.handleLike)).Methods("POST")
	r.HandleFunc("/tweets/{id:[0-9]+}/unlike", s.requireUser(s.handleUnlike)).Methods("POST")
}

// createTweetRequest is the json body of the create tweet route.
type createTweetRequest struct {
	Description string `json:"description"`
}

// createReplyRequest is the json body of the create reply route.
type createReplyRequest struct {
	Comment string `json:"comment"`
}

// handleListTweets handles the route "GET /api/tweets".
// It returns all tweets, newest first.
func (s *Server) handleListTweets(w http.ResponseWriter, r *http.Request) {
	tweets, err := s.ts.List(r.Context(), auth.GetUser(r.Context()).ID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, tweets)
}

// handleCreateTweet handles the route "POST /api/tweets".
func (s *Server) handleCreateTweet(w http.ResponseWriter, r *http.Request) {
	var req createTweetRequest
	if err := decodeJSON(r, &req); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	tweet := domain.Tweet{
		UserID:      auth.GetUser(r.Context()).ID,
		Description: req.Description,
	}
	if err := s.ts.Create(r.Context(), &tweet); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, &tweet)
}

// handleGetTweet handles the route "GET /api/tweets/{id}".
func (s *Server) handleGetTweet(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	tweet, err := s.ts.ByID(r.Context(), auth.GetUser(r.Context()).ID, id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, tweet)
}

// handleListReplies handles the route "GET /api/tweets/{id}/replies".
// It returns the replies of the tweet, oldest first.
func (s *Server) handleListReplies(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	replies, err := s.rs.ByTweet(r.Context(), id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, replies)
}

// handleCreateReply handles the route "POST /api/tweets/{id}/replies".
func (s *Server) handleCreateReply(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	var req createReplyRequest
	if err := decodeJSON(r, &req); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	reply := domain.Reply{
		UserID:  auth.GetUser(r.Context()).ID,
		TweetID: id,
		Comment: req.Comment,
	}
	if err := s.rs.Create(r.Context(), &reply); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, &reply)
}

// handleLike handles the route "POST /api/tweets/{id}/like".
func (s *Server) handleLike(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	like, err := s.ls.Like(r.Context(), auth.GetUser(r.Context()).ID, id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, like)
}

// handleUnlike handles the route "POST /api/tweets/{id}/unlike".
func (s *Server) handleUnlike(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := s.ls.Unlike(r.Context(), auth.GetUser(r.Context()).ID, id); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	respondMessage(w, r, http.StatusOK, "Tweet unliked.", nil)
}
