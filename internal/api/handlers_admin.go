package api

import (
	"encoding/json"
	"net/http"
)

func (rt *Router) handleCatalog(w http.ResponseWriter, r *http.Request) {
	entries, err := rt.research.Catalog(r.Context())
	if err != nil {
		rt.writeError(w, err, "Failed to fetch field researches")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (rt *Router) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       string `json:"title"`
		TotalStages int64  `json:"totalStages"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	entry, err := rt.research.CreateEntry(r.Context(), req.Title, req.TotalStages)
	if err != nil {
		rt.writeError(w, err, "Failed to create field research")
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (rt *Router) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	if err := rt.research.DeleteEntry(r.Context(), id); err != nil {
		rt.writeError(w, err, "Failed to delete field research")
		return
	}
	w.WriteHeader(http.StatusOK)
}
