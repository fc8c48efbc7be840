package api

import (
	"net/http"

	"github.com/trainerlab/fieldlog/internal/middleware"
)

func (rt *Router) handleListResearches(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "missing credential", http.StatusUnauthorized)
		return
	}
	list, err := rt.research.ListForUser(r.Context(), claims.UID)
	if err != nil {
		rt.writeError(w, err, "Failed to fetch field researches")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (rt *Router) handleToggleMission(w http.ResponseWriter, r *http.Request) {
	researchID, err := pathID(r, "researchId")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid research id"})
		return
	}
	missionID, err := pathID(r, "missionId")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid mission id"})
		return
	}
	if err := rt.research.ToggleMission(r.Context(), researchID, missionID); err != nil {
		rt.writeError(w, err, "Failed to toggle mission")
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (rt *Router) handleToggleReward(w http.ResponseWriter, r *http.Request) {
	researchID, err := pathID(r, "researchId")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid research id"})
		return
	}
	rewardID, err := pathID(r, "rewardId")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid reward id"})
		return
	}
	if err := rt.research.ToggleReward(r.Context(), researchID, rewardID); err != nil {
		rt.writeError(w, err, "Failed to toggle reward")
		return
	}
	w.WriteHeader(http.StatusOK)
}
