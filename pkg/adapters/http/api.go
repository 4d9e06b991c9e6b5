package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aretw0/tripplanner/pkg/domain"
	"github.com/aretw0/tripplanner/pkg/sanitize"
)

type userRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Mobile   string `json:"mobile"`
}

type planRequest struct {
	City      string `json:"city"`
	Interests string `json:"interests"`
}

type resultResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

type sessionResponse struct {
	LoggedIn bool   `json:"logged_in"`
	Username string `json:"username"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) decodeUser(w http.ResponseWriter, r *http.Request) (domain.User, bool) {
	var body userRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return domain.User{}, false
	}
	u := domain.User(body)
	if err := sanitize.Fields(s.maxInputSize, &u.Username, &u.Email, &u.Mobile); err != nil {
		writeJSON(w, statusFor(err), errorResponse{Error: err.Error()})
		return domain.User{}, false
	}
	return u, true
}

// APIRegister handles POST /api/register. A duplicate username answers 409.
func (s *Server) APIRegister(w http.ResponseWriter, r *http.Request) {
	user, ok := s.decodeUser(w, r)
	if !ok {
		return
	}
	res, err := s.Accounts.Register(r.Context(), user)
	if err != nil {
		s.logger.Error("registration failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "user table unavailable"})
		return
	}
	status := http.StatusOK
	if !res.OK {
		status = http.StatusConflict
	}
	writeJSON(w, status, resultResponse(res))
}

// APILogin handles POST /api/login and marks the caller's session as logged in.
func (s *Server) APILogin(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(w, r)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "session unavailable"})
		return
	}
	user, ok := s.decodeUser(w, r)
	if !ok {
		return
	}

	res, err := s.Accounts.Login(r.Context(), user)
	if err != nil {
		s.logger.Error("login failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "user table unavailable"})
		return
	}
	if !res.OK {
		writeJSON(w, http.StatusUnauthorized, resultResponse(res))
		return
	}
	if _, err := s.Sessions.Login(r.Context(), sess.ID, user.Username); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "session unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, resultResponse(res))
}

// APILogout handles POST /api/logout.
func (s *Server) APILogout(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(w, r)
	if err == nil {
		sess, err = s.Sessions.Logout(r.Context(), sess.ID)
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "session unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{LoggedIn: sess.LoggedIn, Username: sess.Username})
}

// APISession handles GET /api/session.
func (s *Server) APISession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(w, r)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "session unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{LoggedIn: sess.LoggedIn, Username: sess.Username})
}

// APIPlan handles POST /api/plan. The caller must be logged in.
func (s *Server) APIPlan(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(w, r)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "session unavailable"})
		return
	}
	sess, err = s.Sessions.RequireLogin(r.Context(), sess.ID)
	if errors.Is(err, domain.ErrNotLoggedIn) {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "session unavailable"})
		return
	}

	var body planRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if err := sanitize.Fields(s.maxInputSize, &body.City, &body.Interests); err != nil {
		writeJSON(w, statusFor(err), errorResponse{Error: err.Error()})
		return
	}

	plan, err := s.Planner.Plan(withSession(r.Context(), sess.ID), domain.PlanRequest{
		Username:  sess.Username,
		City:      body.City,
		Interests: body.Interests,
	})
	if err != nil {
		status := statusFor(err)
		msg := err.Error()
		if status == http.StatusBadGateway && !errors.Is(err, domain.ErrEmptyCompletion) {
			msg = "language model request failed"
		}
		s.logger.Warn("plan failed", "city", body.City, "err", err)
		writeJSON(w, status, errorResponse{Error: msg})
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// APIWeather handles GET /api/weather?city=. It never fails once the city is valid.
func (s *Server) APIWeather(w http.ResponseWriter, r *http.Request) {
	city := r.URL.Query().Get("city")
	clean, err := sanitize.Input(city, s.maxInputSize)
	if err == nil && clean == "" {
		err = domain.ErrEmptyCity
	}
	if err != nil {
		writeJSON(w, statusFor(err), errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"city":   clean,
		"report": s.Planner.Weather(r.Context(), clean),
	})
}
