package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"SwiftCart/internal/api"
	"SwiftCart/internal/models"
	"SwiftCart/internal/newsletter"
)

type fakeSubscribers struct {
	subscribeResult newsletter.SubscribeResult
	subscribeErr    error
	subs            []models.Subscriber
}

func (f *fakeSubscribers) Subscribe(_ context.Context, _ string) (newsletter.SubscribeResult, error) {
	return f.subscribeResult, f.subscribeErr
}

func (f *fakeSubscribers) Unsubscribe(_ context.Context, _ string) error {
	return nil
}

func (f *fakeSubscribers) ListSubscribers(_ context.Context, _, _ int, _ bool) ([]models.Subscriber, int, error) {
	return f.subs, len(f.subs), nil
}

type fakeCampaigns struct {
	campaign *models.Campaign
	report   *newsletter.SendReport
	sendErr  error
	delErr   error
}

func (f *fakeCampaigns) Create(_ context.Context, _, _ string) (*models.Campaign, error) {
	return f.campaign, nil
}

func (f *fakeCampaigns) List(_ context.Context) ([]models.Campaign, error) {
	if f.campaign == nil {
		return nil, nil
	}
	return []models.Campaign{*f.campaign}, nil
}

func (f *fakeCampaigns) Send(_ context.Context, _ string) (*newsletter.SendReport, error) {
	return f.report, f.sendErr
}

func (f *fakeCampaigns) Delete(_ context.Context, _ string) error {
	return f.delErr
}

func newTestRouter(subs *fakeSubscribers, camps *fakeCampaigns) http.Handler {
	return api.Routes(&api.Handler{
		Subscribers: subs,
		Campaigns:   camps,
		Log:         zap.NewNop(),
	})
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSubscribeOK(t *testing.T) {
	h := newTestRouter(&fakeSubscribers{subscribeResult: newsletter.Subscribed}, &fakeCampaigns{})

	rec := doJSON(t, h, http.MethodPost, "/api/newsletter/subscribe", `{"email":"a@shop.test"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.MessageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Contains(t, resp.Message, "subscribed")
}

func TestSubscribeResubscribedMessage(t *testing.T) {
	h := newTestRouter(&fakeSubscribers{subscribeResult: newsletter.Resubscribed}, &fakeCampaigns{})

	rec := doJSON(t, h, http.MethodPost, "/api/newsletter/subscribe", `{"email":"a@shop.test"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.MessageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Contains(t, resp.Message, "reactivated")
}

func TestSubscribeConflict(t *testing.T) {
	h := newTestRouter(&fakeSubscribers{subscribeErr: newsletter.ErrAlreadySubscribed}, &fakeCampaigns{})

	rec := doJSON(t, h, http.MethodPost, "/api/newsletter/subscribe", `{"email":"a@shop.test"}`)
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestSubscribeInvalidEmail(t *testing.T) {
	h := newTestRouter(&fakeSubscribers{subscribeErr: newsletter.ErrInvalidEmail}, &fakeCampaigns{})

	rec := doJSON(t, h, http.MethodPost, "/api/newsletter/subscribe", `{"email":"nope"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubscribeBadJSON(t *testing.T) {
	h := newTestRouter(&fakeSubscribers{}, &fakeCampaigns{})

	rec := doJSON(t, h, http.MethodPost, "/api/newsletter/subscribe", `{`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnsubscribeAlwaysOK(t *testing.T) {
	h := newTestRouter(&fakeSubscribers{}, &fakeCampaigns{})

	rec := doJSON(t, h, http.MethodPost, "/api/newsletter/unsubscribe", `{"email":"ghost@shop.test"}`)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestListSubscribersEnvelope(t *testing.T) {
	subs := &fakeSubscribers{subs: []models.Subscriber{{ID: 1, Email: "a@shop.test", IsActive: true}}}
	h := newTestRouter(subs, &fakeCampaigns{})

	rec := doJSON(t, h, http.MethodGet, "/api/newsletter/subscribers?page=1&limit=10", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.PaginatedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Pagination.Total)
	require.Equal(t, 1, resp.Pagination.Page)
}

func TestCreateCampaign(t *testing.T) {
	camps := &fakeCampaigns{campaign: &models.Campaign{ID: "c1", Subject: "Sale", Status: models.CampaignDraft}}
	h := newTestRouter(&fakeSubscribers{}, camps)

	rec := doJSON(t, h, http.MethodPost, "/api/campaigns/", `{"subject":"Sale","content":"<p>s</p>"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var c models.Campaign
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &c))
	require.Equal(t, "c1", c.ID)
}

func TestSendCampaignOK(t *testing.T) {
	camps := &fakeCampaigns{report: &newsletter.SendReport{SentCount: 7, Recipients: 9}}
	h := newTestRouter(&fakeSubscribers{}, camps)

	rec := doJSON(t, h, http.MethodPost, "/api/campaigns/c1/send", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Message   string `json:"message"`
		SentCount int    `json:"sent_count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 7, resp.SentCount)
}

func TestSendCampaignNotFound(t *testing.T) {
	camps := &fakeCampaigns{sendErr: newsletter.ErrNotFound}
	h := newTestRouter(&fakeSubscribers{}, camps)

	rec := doJSON(t, h, http.MethodPost, "/api/campaigns/missing/send", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSendCampaignAlreadySent(t *testing.T) {
	camps := &fakeCampaigns{sendErr: newsletter.ErrAlreadySent}
	h := newTestRouter(&fakeSubscribers{}, camps)

	rec := doJSON(t, h, http.MethodPost, "/api/campaigns/c1/send", "")
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestDeleteCampaign(t *testing.T) {
	h := newTestRouter(&fakeSubscribers{}, &fakeCampaigns{})

	rec := doJSON(t, h, http.MethodDelete, "/api/campaigns/c1", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestDeleteCampaignNotFound(t *testing.T) {
	h := newTestRouter(&fakeSubscribers{}, &fakeCampaigns{delErr: newsletter.ErrNotFound})

	rec := doJSON(t, h, http.MethodDelete, "/api/campaigns/missing", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealth(t *testing.T) {
	h := newTestRouter(&fakeSubscribers{}, &fakeCampaigns{})

	rec := doJSON(t, h, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
}
