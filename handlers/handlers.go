package handlers

import (
	"bytes"
	"errors"
	"html/template"
	"log"
	"net/http"

	"membersonly/auth"
	"membersonly/config"
	"membersonly/db"
	"membersonly/models"
)

func RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/", IndexHandler)
	mux.HandleFunc("/about", AboutHandler)
	mux.HandleFunc("/signup", SignupHandler)
	mux.HandleFunc("/login", LoginHandler)
	mux.HandleFunc("/logout", LogoutHandler)
	mux.HandleFunc("/members", MembersHandler)
	mux.HandleFunc("/admin", AdminHandler)
	mux.HandleFunc("/admin/promote/{id}", PromoteHandler)
	mux.HandleFunc("/admin/demote/{id}", DemoteHandler)
}

func IndexHandler(w http.ResponseWriter, r *http.Request) {
	// The root pattern catches every unregistered path.
	if r.URL.Path != "/" {
		renderError(w, r, http.StatusNotFound, "Page not found")
		return
	}
	renderTemplate(w, r, http.StatusOK, "index.html", nil)
}

func AboutHandler(w http.ResponseWriter, r *http.Request) {
	renderTemplate(w, r, http.StatusOK, "about.html", nil)
}

func SignupHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		form := SignupForm{
			Name:     normalizeName(r.FormValue("name")),
			Email:    normalizeEmail(r.FormValue("email")),
			Password: r.FormValue("password"),
		}

		if errs := form.Validate(); len(errs) > 0 {
			renderTemplate(w, r, http.StatusBadRequest, "signup.html", map[string]any{
				"Errors": errs,
				"Name":   form.Name,
				"Email":  form.Email,
			})
			return
		}

		hash, err := db.HashPassword(form.Password)
		if err != nil {
			log.Printf("Error hashing password: %v", err)
			renderError(w, r, http.StatusInternalServerError, "Something went wrong. Please try again.")
			return
		}

		user := &models.User{Name: form.Name, Email: form.Email, PasswordHash: hash}
		if err := db.Users.Create(r.Context(), user); err != nil {
			if errors.Is(err, db.ErrEmailTaken) {
				renderTemplate(w, r, http.StatusBadRequest, "signup.html", map[string]any{
					"Errors": []string{"Email already registered"},
					"Name":   form.Name,
					"Email":  form.Email,
				})
				return
			}
			log.Printf("Error creating user: %v", err)
			renderError(w, r, http.StatusInternalServerError, "Something went wrong. Please try again.")
			return
		}

		if err := auth.SetSession(w, r, user.Name, user.Email); err != nil {
			log.Printf("Error saving session: %v", err)
			renderError(w, r, http.StatusInternalServerError, "Something went wrong. Please try again.")
			return
		}
		http.Redirect(w, r, "/members", http.StatusSeeOther)
		return
	}
	renderTemplate(w, r, http.StatusOK, "signup.html", nil)
}

func LoginHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		form := LoginForm{
			Email:    normalizeEmail(r.FormValue("email")),
			Password: r.FormValue("password"),
		}

		// Validation failures never reach the user store.
		if errs := form.Validate(); len(errs) > 0 {
			renderTemplate(w, r, http.StatusBadRequest, "login.html", map[string]any{
				"Errors": errs,
				"Email":  form.Email,
			})
			return
		}

		user, err := db.Users.FindByEmail(r.Context(), form.Email)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				renderTemplate(w, r, http.StatusBadRequest, "login.html", map[string]any{
					"Errors": []string{"User not found"},
					"Email":  form.Email,
				})
				return
			}
			log.Printf("Error looking up user: %v", err)
			renderError(w, r, http.StatusInternalServerError, "Something went wrong. Please try again.")
			return
		}

		if !db.CheckPasswordHash(form.Password, user.PasswordHash) {
			renderTemplate(w, r, http.StatusBadRequest, "login.html", map[string]any{
				"Errors": []string{"Incorrect password"},
				"Email":  form.Email,
			})
			return
		}

		if err := auth.SetSession(w, r, user.Name, user.Email); err != nil {
			log.Printf("Error saving session: %v", err)
			renderError(w, r, http.StatusInternalServerError, "Something went wrong. Please try again.")
			return
		}
		http.Redirect(w, r, "/members", http.StatusSeeOther)
		return
	}
	renderTemplate(w, r, http.StatusOK, "login.html", nil)
}

func MembersHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	renderTemplate(w, r, http.StatusOK, "members.html", map[string]any{"User": user})
}

func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if err := auth.ClearSession(w, r); err != nil {
		log.Printf("Error clearing session: %v", err)
		renderError(w, r, http.StatusInternalServerError, "Could not log out. Please try again.")
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func renderTemplate(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) {
	tmpl, err := template.New(name).ParseFiles("templates/layout.html", "templates/"+name)
	if err != nil {
		log.Printf("Error parsing template %s: %v", name, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if data == nil {
		data = map[string]any{}
	}
	if _, exists := data["AppName"]; !exists {
		data["AppName"] = config.AppConfig.AppName
	}
	if _, exists := data["User"]; !exists {
		if user, ok := auth.CurrentUser(r); ok {
			data["User"] = user
		}
	}

	// Render into a buffer first so a failed execution never leaves a
	// half-written page behind the status line.
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		log.Printf("Error rendering template %s: %v", name, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	renderTemplate(w, r, status, "error.html", map[string]any{
		"Status":  status,
		"Message": message,
	})
}
