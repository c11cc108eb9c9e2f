package webserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"solbot/rewards"
)

type ApiError struct {
	Error string `json:"error"`
}

type StatusResponse struct {
	Version       string           `json:"version"`
	Uptime        string           `json:"uptime"`
	RewardCache   rewards.Snapshot `json:"rewardCache"`
	PendingDelete int              `json:"pendingDelete"`
	NextDelete    *time.Time       `json:"nextDelete,omitempty"`
}

func apiError(err error, code int, w http.ResponseWriter) {
	e, _ := json.Marshal(ApiError{err.Error()})
	http.Error(w, string(e), code)
}

func notFound(w http.ResponseWriter, r *http.Request) {
	apiError(errors.Errorf("No such endpoint: %s", r.URL.Path), http.StatusNotFound, w)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	apiError(errors.Errorf("Method %s not allowed", r.Method), http.StatusMethodNotAllowed, w)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Error("Unable to encode API response")
	}
}

func (ws *WebServer) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]bool{"ok": true})
}

func (ws *WebServer) status(w http.ResponseWriter, r *http.Request) {

	resp := StatusResponse{
		Version: ws.version,
		Uptime:  time.Since(ws.started).Truncate(time.Second).String(),
	}

	if ws.cache != nil {
		resp.RewardCache = ws.cache.Snapshot()
	}

	if ws.expirer != nil {
		resp.PendingDelete = ws.expirer.Pending()
		if next, ok := ws.expirer.NextExpiry(); ok {
			resp.NextDelete = &next
		}
	}

	log.WithField("Pending", resp.PendingDelete).Trace("API - status")

	writeJSON(w, resp)
}
