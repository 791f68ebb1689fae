package tracking

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Wuchinator/artisan-market/internal/identity"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRouter(repo Repository) http.Handler {
	pub := new(mockPublisher)
	pub.On("SendMessage", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	svc, _, _ := newTestService(repo, pub)
	h := NewHandler(svc, false, zap.NewNop())

	r := chi.NewRouter()
	r.Use(identity.SessionMiddleware)
	r.Post("/artisans/{id}/contact", h.RecordContact)
	r.Post("/modal-events", h.RecordModal)
	return r
}

func TestHandler_RecordContactAcceptedEvenWhenStoreFails(t *testing.T) {
	repo := new(mockRepository)
	repo.On("CreateContact", mock.Anything, mock.Anything).Return(errors.New("db down"))
	router := newTestRouter(repo)

	req := httptest.NewRequest(http.MethodPost, "/artisans/"+uuid.NewString()+"/contact",
		strings.NewReader(`{"contactType":"whatsapp"}`))
	req = req.WithContext(identity.WithIdentity(req.Context(), &identity.Identity{UserID: uuid.New()}))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	repo.AssertNumberOfCalls(t, "CreateContact", 1)
}

func TestHandler_RecordContactAnonymous(t *testing.T) {
	repo := new(mockRepository)
	router := newTestRouter(repo)

	req := httptest.NewRequest(http.MethodPost, "/artisans/"+uuid.NewString()+"/contact",
		strings.NewReader(`{"contactType":"call"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	repo.AssertNotCalled(t, "CreateContact", mock.Anything, mock.Anything)
}

func TestHandler_RecordContactBadArtisan(t *testing.T) {
	router := newTestRouter(new(mockRepository))

	req := httptest.NewRequest(http.MethodPost, "/artisans/nope/contact", strings.NewReader(`{"contactType":"call"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_RecordModalSetsSessionCookieOnce(t *testing.T) {
	repo := new(mockRepository)
	var sessions []string
	repo.On("CreateModal", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		sessions = append(sessions, args.Get(1).(*ModalEvent).SessionID)
	}).Return(nil)
	router := newTestRouter(repo)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/modal-events",
		strings.NewReader(`{"eventType":"modal_shown","triggerAction":"favorite"}`)))
	require.Equal(t, http.StatusAccepted, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, identity.SessionCookieName, cookies[0].Name)

	req := httptest.NewRequest(http.MethodPost, "/modal-events", strings.NewReader(`{"eventType":"modal_dismissed"}`))
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
	require.Len(t, sessions, 2)
	assert.Equal(t, sessions[0], sessions[1])
	assert.Equal(t, cookies[0].Value, sessions[0])
}

func TestHandler_RecordModalMalformed(t *testing.T) {
	router := newTestRouter(new(mockRepository))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/modal-events", strings.NewReader(`{`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
