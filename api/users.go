package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"

	"github.com/jobtrail/jobtrail/pkg/models"
	"github.com/jobtrail/jobtrail/pkg/repository"
)

type UsersHandler struct {
	userRepo repository.UserRepo
}

func NewUsersHandler(ur repository.UserRepo) *UsersHandler {
	return &UsersHandler{userRepo: ur}
}

func (h *UsersHandler) Me(w http.ResponseWriter, r *http.Request) {
	actorID, _, ok := actorFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	user, err := h.userRepo.GetUserByID(r.Context(), actorID)
	if err != nil {
		http.Error(w, "failed to load user", http.StatusInternalServerError)
		return
	}
	if user == nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	writeJSON(w, user.Sanitized(), http.StatusOK)
}

// Get returns a profile. Self or admin only.
func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	actorID, role, ok := actorFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}
	id := mux.Vars(r)["id"]
	if id != actorID && role != models.RoleAdmin {
		http.Error(w, "permission denied", http.StatusForbidden)
		return
	}

	user, err := h.userRepo.GetUserByID(r.Context(), id)
	if err != nil {
		http.Error(w, "failed to load user", http.StatusInternalServerError)
		return
	}
	if user == nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	writeJSON(w, user.Sanitized(), http.StatusOK)
}

type updateUserRequest struct {
	Name     *string `json:"name"`
	Company  *string `json:"company"`
	Headline *string `json:"headline"`
	Password *string `json:"password"`
}

// Update edits a profile. Self or admin; role and email are immutable
// through this endpoint.
func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	actorID, role, ok := actorFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}
	id := mux.Vars(r)["id"]
	if id != actorID && role != models.RoleAdmin {
		http.Error(w, "permission denied", http.StatusForbidden)
		return
	}

	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	fields := map[string]any{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Company != nil {
		fields["company"] = *req.Company
	}
	if req.Headline != nil {
		fields["headline"] = *req.Headline
	}
	if req.Password != nil {
		if len(*req.Password) < 8 {
			http.Error(w, "password too short", http.StatusBadRequest)
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			http.Error(w, "error hashing password", http.StatusInternalServerError)
			return
		}
		fields["passwordHash"] = string(hash)
	}
	if len(fields) == 0 {
		http.Error(w, "nothing to update", http.StatusBadRequest)
		return
	}
	fields["updatedAt"] = time.Now().UTC()

	ctx := r.Context()
	if err := h.userRepo.PatchUser(ctx, id, fields); err != nil {
		http.Error(w, "failed to update user", http.StatusInternalServerError)
		return
	}

	user, err := h.userRepo.GetUserByID(ctx, id)
	if err != nil || user == nil {
		http.Error(w, "failed to reload user", http.StatusInternalServerError)
		return
	}
	writeJSON(w, user.Sanitized(), http.StatusOK)
}
