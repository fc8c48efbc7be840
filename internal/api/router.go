package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/trainerlab/fieldlog/internal/middleware"
	"github.com/trainerlab/fieldlog/internal/services"
)

// Router wires the HTTP surface to the services.
type Router struct {
	auth     *middleware.Auth
	accounts *services.AuthService
	research *services.ResearchService
	log      *logrus.Logger
}

func NewRouter(auth *middleware.Auth, accounts *services.AuthService, research *services.ResearchService, log *logrus.Logger) *Router {
	if log == nil {
		log = logrus.New()
	}
	return &Router{auth: auth, accounts: accounts, research: research, log: log}
}

func (rt *Router) Register(r *mux.Router) {
	r.HandleFunc("/api/register", rt.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/api/login", rt.handleLogin).Methods(http.MethodPost)

	user := r.PathPrefix("/api/field-researches").Subrouter()
	user.Use(rt.auth.RequireAuth)
	user.HandleFunc("", rt.handleListResearches).Methods(http.MethodGet)
	user.HandleFunc("/{researchId:[0-9]+}/missions/{missionId:[0-9]+}/toggle", rt.handleToggleMission).Methods(http.MethodPost)
	user.HandleFunc("/{researchId:[0-9]+}/rewards/{rewardId:[0-9]+}/toggle", rt.handleToggleReward).Methods(http.MethodPost)

	admin := r.PathPrefix("/api/admin/field-researches").Subrouter()
	admin.Use(rt.auth.RequireAuth, middleware.RequireAdmin)
	admin.HandleFunc("", rt.handleCatalog).Methods(http.MethodGet)
	admin.HandleFunc("", rt.handleCreateEntry).Methods(http.MethodPost)
	admin.HandleFunc("/{id:[0-9]+}", rt.handleDeleteEntry).Methods(http.MethodDelete)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps service error codes to statuses; anything else is a
// storage failure collapsed to the handler's generic message. Login
// deliberately surfaces unknown users and bad passwords as 400s.
func (rt *Router) writeError(w http.ResponseWriter, err error, fallback string) {
	if se, ok := services.AsServiceError(err); ok {
		status := http.StatusInternalServerError
		switch se.Code {
		case services.ErrorInvalid, services.ErrorNotFound:
			status = http.StatusBadRequest
		case services.ErrorUnauthorized:
			status = http.StatusUnauthorized
		case services.ErrorForbidden:
			status = http.StatusForbidden
		}
		writeJSON(w, status, map[string]string{"error": se.Message})
		return
	}
	rt.log.WithError(err).Error(fallback)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": fallback})
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)[name], 10, 64)
}
