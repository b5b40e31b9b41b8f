package httpinterface

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

type addWebhookRequest struct {
	Event    string `json:"event"`
	Endpoint string `json:"endpoint"`
	Secret   string `json:"secret"`
}

type webhookInfo struct {
	ID        string `json:"id"`
	Event     string `json:"event"`
	Endpoint  string `json:"endpoint"`
	IsSecured bool   `json:"is_secured"`
}

type webhooksResponse struct {
	Webhooks []webhookInfo `json:"webhooks"`
}

func (s *service) handleAddWebhook(w http.ResponseWriter, r *http.Request) {
	var req addWebhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, ErrInvalidBody)
		return
	}

	id, err := s.opts.PubSubSvc.AddWebhook(
		r.Context(), req.Event, req.Endpoint, req.Secret,
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, webhookInfo{
		ID:        id,
		Event:     req.Event,
		Endpoint:  req.Endpoint,
		IsSecured: len(req.Secret) > 0,
	})
}

func (s *service) handleListWebhooks(w http.ResponseWriter, r *http.Request) {
	subs, err := s.opts.PubSubSvc.ListWebhooks(
		r.Context(), r.URL.Query().Get("event"),
	)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := webhooksResponse{make([]webhookInfo, 0, len(subs))}
	for _, sub := range subs {
		resp.Webhooks = append(resp.Webhooks, webhookInfo{
			ID:        sub.Id(),
			Event:     sub.Topic(),
			Endpoint:  sub.NotifyAt(),
			IsSecured: sub.IsSecured(),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *service) handleRemoveWebhook(w http.ResponseWriter, r *http.Request) {
	if err := s.opts.PubSubSvc.RemoveWebhook(
		r.Context(), mux.Vars(r)["id"],
	); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
