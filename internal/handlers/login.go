package handlers

import (
	"html/template"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/sauceqa/logincheck/internal/models"
	"github.com/sauceqa/logincheck/internal/services"
)

// SessionCookieName is the cookie carrying the session token
const SessionCookieName = "session-token"

// InventoryPath is where a successful login lands
const InventoryPath = "/inventory.html"

// LoginData represents the data for the login template
type LoginData struct {
	Username string
	Error    string
}

// LoginHandler serves the login form and handles its submission
type LoginHandler struct {
	template *template.Template
	auth     services.AuthService
}

// NewLoginHandler creates a new LoginHandler
func NewLoginHandler(auth services.AuthService) (*LoginHandler, error) {
	tmpl, err := ParseTemplate("login.html")
	if err != nil {
		return nil, err
	}

	return &LoginHandler{
		template: tmpl,
		auth:     auth,
	}, nil
}

// ServeHTTP handles GET / and POST /
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.render(w, LoginData{})
	case http.MethodPost:
		h.submit(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *LoginHandler) submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	creds := models.Credentials{
		Username: r.PostFormValue("user-name"),
		Password: r.PostFormValue("password"),
	}

	session, err := h.auth.Login(creds)
	if services.IsLoginError(err) {
		log.Debug("login rejected", "username", creds.Username, "reason", err)
		h.render(w, LoginData{Username: creds.Username, Error: err.Error()})
		return
	}
	if err != nil {
		log.Error("login failed", "username", creds.Username, "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	log.Info("login accepted", "username", session.Username)
	http.Redirect(w, r, InventoryPath, http.StatusSeeOther)
}

func (h *LoginHandler) render(w http.ResponseWriter, data LoginData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.template.Execute(w, data); err != nil {
		log.Error("error rendering login template", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
