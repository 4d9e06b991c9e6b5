package http

import (
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/aretw0/tripplanner"
	"github.com/aretw0/tripplanner/pkg/domain"
	"github.com/aretw0/tripplanner/pkg/render"
	"github.com/aretw0/tripplanner/pkg/sanitize"
)

type flash struct {
	Kind string // success | error
	Text string
}

type planView struct {
	Itinerary template.HTML
	Weather   template.HTML
	FunFact   template.HTML
}

type pageData struct {
	LoggedIn  bool
	Username  string
	Tab       string
	Flash     *flash
	City      string
	Interests string
	Plan      *planView
	Version   string
}

func (s *Server) newPage(sess *domain.Session) *pageData {
	return &pageData{
		LoggedIn: sess.LoggedIn,
		Username: sess.Username,
		Tab:      "login",
		Version:  strings.TrimSpace(tripplanner.Version),
	}
}

func (s *Server) renderPage(w http.ResponseWriter, status int, data *pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTemplate.Execute(w, data); err != nil {
		s.logger.Error("failed to render page", "err", err)
	}
}

func (s *Server) sessionOrFail(w http.ResponseWriter, r *http.Request) (*domain.Session, bool) {
	sess, err := s.session(w, r)
	if err != nil {
		s.logger.Error("failed to load session", "err", err)
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return nil, false
	}
	return sess, true
}

// GetIndex shows the login/register tabs or, once logged in, the planner form.
func (s *Server) GetIndex(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionOrFail(w, r)
	if !ok {
		return
	}
	page := s.newPage(sess)
	if r.URL.Query().Get("tab") == "register" {
		page.Tab = "register"
	}
	s.renderPage(w, http.StatusOK, page)
}

// userFromForm reads and sanitizes the username/email/mobile fields.
func (s *Server) userFromForm(r *http.Request) (domain.User, error) {
	u := domain.User{
		Username: r.PostFormValue("username"),
		Email:    r.PostFormValue("email"),
		Mobile:   r.PostFormValue("mobile"),
	}
	err := sanitize.Fields(s.maxInputSize, &u.Username, &u.Email, &u.Mobile)
	return u, err
}

// PostLogin handles the login tab.
func (s *Server) PostLogin(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionOrFail(w, r)
	if !ok {
		return
	}
	page := s.newPage(sess)

	user, err := s.userFromForm(r)
	if err != nil {
		page.Flash = &flash{Kind: "error", Text: errorMessage(err)}
		s.renderPage(w, statusFor(err), page)
		return
	}

	res, err := s.Accounts.Login(r.Context(), user)
	if err != nil {
		s.logger.Error("login failed", "username", user.Username, "err", err)
		page.Flash = &flash{Kind: "error", Text: "❌ Could not read the user table."}
		s.renderPage(w, http.StatusInternalServerError, page)
		return
	}
	if !res.OK {
		page.Flash = &flash{Kind: "error", Text: res.Message}
		s.renderPage(w, http.StatusUnauthorized, page)
		return
	}

	sess, err = s.Sessions.Login(r.Context(), sess.ID, user.Username)
	if err != nil {
		s.logger.Error("failed to update session", "err", err)
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return
	}
	page = s.newPage(sess)
	page.Flash = &flash{Kind: "success", Text: res.Message}
	s.renderPage(w, http.StatusOK, page)
}

// PostRegister handles the register tab.
func (s *Server) PostRegister(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionOrFail(w, r)
	if !ok {
		return
	}
	page := s.newPage(sess)
	page.Tab = "register"

	user, err := s.userFromForm(r)
	if err != nil {
		page.Flash = &flash{Kind: "error", Text: errorMessage(err)}
		s.renderPage(w, statusFor(err), page)
		return
	}

	res, err := s.Accounts.Register(r.Context(), user)
	if err != nil {
		s.logger.Error("registration failed", "username", user.Username, "err", err)
		page.Flash = &flash{Kind: "error", Text: "❌ Could not update the user table."}
		s.renderPage(w, http.StatusInternalServerError, page)
		return
	}
	if !res.OK {
		page.Flash = &flash{Kind: "error", Text: res.Message}
		s.renderPage(w, http.StatusConflict, page)
		return
	}
	page.Flash = &flash{Kind: "success", Text: res.Message}
	s.renderPage(w, http.StatusOK, page)
}

// PostLogout handles the sidebar logout button.
func (s *Server) PostLogout(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionOrFail(w, r)
	if !ok {
		return
	}
	if _, err := s.Sessions.Logout(r.Context(), sess.ID); err != nil {
		s.logger.Error("logout failed", "err", err)
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// PostPlan handles "Generate Itinerary".
func (s *Server) PostPlan(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionOrFail(w, r)
	if !ok {
		return
	}
	sess, err := s.Sessions.RequireLogin(r.Context(), sess.ID)
	if errors.Is(err, domain.ErrNotLoggedIn) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err != nil {
		s.logger.Error("session lookup failed", "err", err)
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return
	}

	page := s.newPage(sess)
	page.City = r.PostFormValue("city")
	page.Interests = r.PostFormValue("interests")

	if err := sanitize.Fields(s.maxInputSize, &page.City, &page.Interests); err != nil {
		page.Flash = &flash{Kind: "error", Text: errorMessage(err)}
		s.renderPage(w, statusFor(err), page)
		return
	}

	plan, err := s.Planner.Plan(withSession(r.Context(), sess.ID), domain.PlanRequest{
		Username:  sess.Username,
		City:      page.City,
		Interests: page.Interests,
	})
	if err != nil {
		s.logger.Warn("plan failed", "city", page.City, "err", err)
		page.Flash = &flash{Kind: "error", Text: errorMessage(err)}
		s.renderPage(w, statusFor(err), page)
		return
	}

	page.Plan = s.planView(plan)
	s.renderPage(w, http.StatusOK, page)
}

func (s *Server) planView(plan *domain.Plan) *planView {
	v := &planView{
		// goldmark escapes raw HTML in model output, so the fragment is trusted.
		Itinerary: template.HTML(plan.ItineraryHTML),
		Weather:   template.HTML(template.HTMLEscapeString(plan.Weather)),
		FunFact:   template.HTML(template.HTMLEscapeString(plan.FunFact)),
	}
	if html, err := render.Inline(plan.Weather); err == nil {
		v.Weather = template.HTML(html)
	}
	if html, err := render.Inline(plan.FunFact); err == nil {
		v.FunFact = template.HTML(html)
	}
	return v
}
