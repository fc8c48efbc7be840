package api

import (
	"encoding/json"
	"net/http"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (rt *Router) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	res, err := rt.accounts.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		rt.writeError(w, err, "Registration failed")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":    res.ID,
		"email": res.Email,
		"token": res.Token,
	})
}

func (rt *Router) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	res, err := rt.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		rt.writeError(w, err, "Login failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":      res.ID,
		"email":   res.Email,
		"isAdmin": res.IsAdmin,
		"token":   res.Token,
	})
}
