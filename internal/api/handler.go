package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"SwiftCart/internal/models"
	"SwiftCart/internal/newsletter"
)

// SubscriberService is the slice of the subscriber registry the API needs.
type SubscriberService interface {
	Subscribe(ctx context.Context, email string) (newsletter.SubscribeResult, error)
	Unsubscribe(ctx context.Context, email string) error
	ListSubscribers(ctx context.Context, page, size int, activeOnly bool) ([]models.Subscriber, int, error)
}

// CampaignService is the slice of the campaign engine the API needs.
type CampaignService interface {
	Create(ctx context.Context, subject, content string) (*models.Campaign, error)
	List(ctx context.Context) ([]models.Campaign, error)
	Send(ctx context.Context, id string) (*newsletter.SendReport, error)
	Delete(ctx context.Context, id string) error
}

type Handler struct {
	Subscribers SubscriberService
	Campaigns   CampaignService
	Log         *zap.Logger
}

type subscribeRequest struct {
	Email string `json:"email"`
}

func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.Subscribers.Subscribe(r.Context(), req.Email)
	switch {
	case errors.Is(err, newsletter.ErrInvalidEmail):
		h.respondError(w, http.StatusBadRequest, "invalid email address")
		return
	case errors.Is(err, newsletter.ErrAlreadySubscribed):
		h.respondError(w, http.StatusConflict, "email already subscribed")
		return
	case err != nil:
		h.internalError(w, err)
		return
	}

	message := "subscribed to the newsletter"
	if result == newsletter.Resubscribed {
		message = "welcome back, subscription reactivated"
	}
	h.respond(w, http.StatusOK, MessageResponse{Message: message})
}

func (h *Handler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if !h.decode(w, r, &req) {
		return
	}

	err := h.Subscribers.Unsubscribe(r.Context(), req.Email)
	switch {
	case errors.Is(err, newsletter.ErrInvalidEmail):
		h.respondError(w, http.StatusBadRequest, "invalid email address")
		return
	case err != nil:
		h.internalError(w, err)
		return
	}

	h.respond(w, http.StatusOK, MessageResponse{Message: "unsubscribed from the newsletter"})
}

func (h *Handler) ListSubscribers(w http.ResponseWriter, r *http.Request) {
	params := ParsePagination(r, 50, 200)
	activeOnly := r.URL.Query().Get("active") == "true"

	subs, total, err := h.Subscribers.ListSubscribers(r.Context(), params.Page, params.Limit, activeOnly)
	if err != nil {
		h.internalError(w, err)
		return
	}
	if subs == nil {
		subs = []models.Subscriber{}
	}

	h.respond(w, http.StatusOK, NewPaginatedResponse(subs, params, total))
}

type createCampaignRequest struct {
	Subject string `json:"subject"`
	Content string `json:"content"`
}

func (h *Handler) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var req createCampaignRequest
	if !h.decode(w, r, &req) {
		return
	}

	c, err := h.Campaigns.Create(r.Context(), req.Subject, req.Content)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.respond(w, http.StatusCreated, c)
}

func (h *Handler) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := h.Campaigns.List(r.Context())
	if err != nil {
		h.internalError(w, err)
		return
	}
	if campaigns == nil {
		campaigns = []models.Campaign{}
	}

	h.respond(w, http.StatusOK, campaigns)
}

type sendCampaignResponse struct {
	Message   string `json:"message"`
	SentCount int    `json:"sent_count"`
}

func (h *Handler) SendCampaign(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	report, err := h.Campaigns.Send(r.Context(), id)
	switch {
	case errors.Is(err, newsletter.ErrNotFound):
		h.respondError(w, http.StatusNotFound, "campaign not found")
		return
	case errors.Is(err, newsletter.ErrAlreadySent):
		h.respondError(w, http.StatusConflict, "campaign already sent")
		return
	case err != nil:
		h.internalError(w, err)
		return
	}

	h.respond(w, http.StatusOK, sendCampaignResponse{
		Message:   "campaign sent",
		SentCount: report.SentCount,
	})
}

func (h *Handler) DeleteCampaign(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := h.Campaigns.Delete(r.Context(), id)
	switch {
	case errors.Is(err, newsletter.ErrNotFound):
		h.respondError(w, http.StatusNotFound, "campaign not found")
		return
	case err != nil:
		h.internalError(w, err)
		return
	}

	h.respond(w, http.StatusNoContent, nil)
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	h.respond(w, http.StatusOK, map[string]string{"status": "ok"})
}
