package handlers

import (
	"html/template"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/sauceqa/logincheck/internal/services"
)

// Item represents a product on the inventory page
type Item struct {
	Name  string
	Price string
}

// InventoryData represents the data for the inventory template
type InventoryData struct {
	Username string
	Items    []Item
}

// DefaultItems is the catalogue shown after login
var DefaultItems = []Item{
	{Name: "Sauce Labs Backpack", Price: "$29.99"},
	{Name: "Sauce Labs Bike Light", Price: "$9.99"},
	{Name: "Sauce Labs Bolt T-Shirt", Price: "$15.99"},
	{Name: "Sauce Labs Fleece Jacket", Price: "$49.99"},
	{Name: "Sauce Labs Onesie", Price: "$7.99"},
	{Name: "Test.allTheThings() T-Shirt (Red)", Price: "$15.99"},
}

// InventoryHandler renders the product list for signed-in sessions
type InventoryHandler struct {
	template *template.Template
	auth     services.AuthService
	items    []Item
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(auth services.AuthService, items []Item) (*InventoryHandler, error) {
	tmpl, err := ParseTemplate("inventory.html")
	if err != nil {
		return nil, err
	}

	return &InventoryHandler{
		template: tmpl,
		auth:     auth,
		items:    items,
	}, nil
}

// ServeHTTP handles GET /inventory.html. Requests without a live session go back to the login page.
func (h *InventoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	session, err := h.auth.Session(cookie.Value)
	if err != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := InventoryData{Username: session.Username, Items: h.items}
	if err := h.template.Execute(w, data); err != nil {
		log.Error("error rendering inventory template", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// LogoutHandler closes the session and returns to the login page
type LogoutHandler struct {
	auth services.AuthService
}

// NewLogoutHandler creates a new LogoutHandler
func NewLogoutHandler(auth services.AuthService) *LogoutHandler {
	return &LogoutHandler{auth: auth}
}

// ServeHTTP handles GET /logout
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		if err := h.auth.Logout(cookie.Value); err != nil {
			log.Warn("logout failed", "err", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:   SessionCookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
