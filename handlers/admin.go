package handlers

import (
	"errors"
	"log"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"membersonly/auth"
	"membersonly/db"
	"membersonly/models"
)

// requireAdmin loads the requester's stored record and checks its role.
// The role is read from the database on every call, so a demotion takes
// effect immediately even for sessions issued before it.
func requireAdmin(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	ident, ok := auth.CurrentUser(r)
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return nil, false
	}

	user, err := db.Users.FindByEmail(r.Context(), ident.Email)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			// The session outlived its account.
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return nil, false
		}
		log.Printf("Error loading user %s: %v", ident.Email, err)
		renderError(w, r, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return nil, false
	}

	if !user.IsAdmin() {
		renderError(w, r, http.StatusForbidden, "Admin access required")
		return nil, false
	}
	return user, true
}

func AdminHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	users, err := db.Users.All(r.Context())
	if err != nil {
		log.Printf("Error listing users: %v", err)
		renderError(w, r, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}

	renderTemplate(w, r, http.StatusOK, "admin.html", map[string]any{"Users": users})
}

func PromoteHandler(w http.ResponseWriter, r *http.Request) {
	setRoleHandler(w, r, models.RoleAdmin)
}

func DemoteHandler(w http.ResponseWriter, r *http.Request) {
	setRoleHandler(w, r, models.RoleUser)
}

func setRoleHandler(w http.ResponseWriter, r *http.Request, role string) {
	if r.Method != http.MethodPost {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}
	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	id, err := primitive.ObjectIDFromHex(r.PathValue("id"))
	if err != nil {
		renderError(w, r, http.StatusBadRequest, "Invalid user id")
		return
	}

	if err := db.Users.SetRole(r.Context(), id, role); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			renderError(w, r, http.StatusNotFound, "User not found")
			return
		}
		log.Printf("Error updating role: %v", err)
		renderError(w, r, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}

	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}
