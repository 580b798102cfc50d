package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"simpleTwitter/auth"
	"simpleTwitter/domain"
	"simpleTwitter/errs"
)

func (s *Server) registerAuthRoutes(r *mux.Router) {
	r.HandleFunc("/users", s.handleRegister).Methods("POST")
	r.HandleFunc("/users/signin", s.handleSignIn(domain.RoleUser)).Methods("POST")
	r.HandleFunc("/admin/signin", s.handleSignIn(domain.RoleAdmin)).Methods("POST")
	r.HandleFunc("/current_user", s.requireUser(s.handleCurrentUser)).Methods("GET")
}

// registerRequest is the json body of the register route.
type registerRequest struct {
	Account       string `json:"account"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	CheckPassword string `json:"check_password"`
}

// signInRequest is the json body of the sign in routes.
type signInRequest struct {
	Account  string `json:"account"`
	Password string `json:"password"`
}

// signInResponse is returned on a successful sign in.
type signInResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// handleRegister handles the route "POST /api/users".
// It creates a new user with the role "user" and returns it.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	user := domain.User{
		Account:       req.Account,
		Name:          req.Name,
		Email:         req.Email,
		Password:      req.Password,
		CheckPassword: req.CheckPassword,
	}
	if err := s.us.Register(r.Context(), &user); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, map[string]*domain.User{"user": &user})
}

// handleSignIn returns the handler of a sign in route that only accepts accounts of the given role.
// Regular users sign in to the front stage, admins to the back stage.
func (s *Server) handleSignIn(role string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signInRequest
		if err := decodeJSON(r, &req); err != nil {
			errs.ReturnError(w, r, err)
			return
		}
		if req.Account == "" || req.Password == "" {
			errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Account and password are required."))
			return
		}
		user, err := s.us.Authenticate(r.Context(), req.Account, req.Password)
		if err != nil {
			errs.ReturnError(w, r, err)
			return
		}
		if user.Role != role {
			errs.ReturnError(w, r, errs.Errorf(errs.EFORBIDDEN, "This account cannot sign in here."))
			return
		}
		token, err := s.tokens.Issue(user)
		if err != nil {
			errs.ReturnError(w, r, err)
			return
		}
		respond(w, r, http.StatusOK, signInResponse{Token: token, User: user})
	}
}

// handleCurrentUser handles the route "GET /api/current_user".
func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())
	profile, err := s.us.Profile(r.Context(), user.ID, user.ID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, profile)
}

// checkUser looks up the user behind the request's bearer token and stores it in the
// request context. Requests without a valid token pass on without a user.
func (s *Server) checkUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := auth.BearerToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}
		id, err := s.tokens.Parse(token)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		user, err := s.us.ByID(r.Context(), id)
		if err != nil {
			if errs.ErrorCode(err) != errs.ENOTFOUND {
				errs.LogError(r, err)
			}
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.SetUser(r.Context(), user)))
	})
}

// requireAuth rejects requests without an authenticated user.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if auth.GetUser(r.Context()) == nil {
			errs.ReturnError(w, r, errs.Errorf(errs.EUNAUTHORIZED, "You must be signed in."))
			return
		}
		next(w, r)
	}
}

// requireUser lets only authenticated regular users through. Admins are limited to the admin routes.
func (s *Server) requireUser(next http.HandlerFunc) http.HandlerFunc {
	return s.requireAuth(func(w http.ResponseWriter, r *http.Request) {
		if auth.GetUser(r.Context()).IsAdmin() {
			errs.ReturnError(w, r, errs.Errorf(errs.EFORBIDDEN, "Admins cannot use this route."))
			return
		}
		next(w, r)
	})
}

// requireAdmin lets only authenticated admins through.
func (s *Server) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return s.requireAuth(func(w http.ResponseWriter, r *http.Request) {
		if !auth.GetUser(r.Context()).IsAdmin() {
			errs.ReturnError(w, r, errs.Errorf(errs.EFORBIDDEN, "Only admins can use this route."))
			return
		}
		next(w, r)
	})
}
