package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ganesh-basavoju/mechpro-backend/internal/booking/application/ports/in"
	"github.com/ganesh-basavoju/mechpro-backend/internal/booking/domain"
	"github.com/ganesh-basavoju/mechpro-backend/internal/model"
	"github.com/ganesh-basavoju/mechpro-backend/internal/shared/auth"
	"github.com/ganesh-basavoju/mechpro-backend/internal/shared/config"
	"github.com/ganesh-basavoju/mechpro-backend/internal/shared/logger"
)

type stubActionUC struct {
	booking *domain.Booking
	err     error
	gotIn   in.ApplyBookingActionInput
}

func (s *stubActionUC) Execute(_ context.Context, input in.ApplyBookingActionInput) (*domain.Booking, error) {
	s.gotIn = input
	return s.booking, s.err
}

type stubStatusUC struct {
	booking *domain.Booking
	err     error
}

func (s *stubStatusUC) Execute(_ context.Context, _ in.SetBookingStatusInput) (*domain.Booking, error) {
	return s.booking, s.err
}

type stubCancelUC struct {
	booking *domain.Booking
	err     error
	gotIn   in.CancelBookingByCustomerInput
}

func (s *stubCancelUC) Execute(_ context.Context, input in.CancelBookingByCustomerInput) (*domain.Booking, error) {
	s.gotIn = input
	return s.booking, s.err
}

type stubReassignUC struct {
	booking *domain.Booking
	err     error
}

func (s *stubReassignUC) Execute(_ context.Context, _ in.ReassignMechanicInput) (*domain.Booking, error) {
	return s.booking, s.err
}

type stubCreateUC struct {
	booking *domain.Booking
	err     error
}

func (s *stubCreateUC) Execute(_ context.Context, _ in.CreateBookingInput) (*domain.Booking, error) {
	return s.booking, s.err
}

type stubQueries struct {
	booking  *domain.Booking
	bookings []*domain.Booking
	err      error
}

func (s *stubQueries) Get(_ context.Context, _ string) (*domain.Booking, error) {
	return s.booking, s.err
}

func (s *stubQueries) List(_ context.Context, _ int) ([]*domain.Booking, error) {
	return s.bookings, s.err
}

func (s *stubQueries) Delete(_ context.Context, _ string) error {
	return s.err
}

type stubTokenUC struct {
	err   error
	gotIn in.RegisterDeviceTokenInput
}

func (s *stubTokenUC) Execute(_ context.Context, input in.RegisterDeviceTokenInput) error {
	s.gotIn = input
	return s.err
}

type handlerFixture struct {
	action   *stubActionUC
	status   *stubStatusUC
	cancel   *stubCancelUC
	reassign *stubReassignUC
	create   *stubCreateUC
	queries  *stubQueries
	token    *stubTokenUC
	jwtSvc   *auth.JWTService
	mux      *http.ServeMux
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()

	f := &handlerFixture{
		action:   &stubActionUC{},
		status:   &stubStatusUC{},
		cancel:   &stubCancelUC{},
		reassign: &stubReassignUC{},
		create:   &stubCreateUC{},
		queries:  &stubQueries{},
		token:    &stubTokenUC{},
		jwtSvc:   auth.NewJWTService(config.JWTConfig{Secret: "test_secret", ExpiryMinutes: 5}),
	}

	h := NewHTTPHandler(f.action, f.status, f.cancel, f.reassign, f.create, f.queries, f.token, logger.NewTestLogger())
	f.mux = http.NewServeMux()
	h.RegisterRoutes(f.mux, JWTMiddleware(f.jwtSvc, logger.NewTestLogger()))
	return f
}

func (f *handlerFixture) request(t *testing.T, method, path, body, role string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)

	if role != "" {
		token, err := f.jwtSvc.GenerateToken("actor-1", "+919900112233", role)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	f := newHandlerFixture(t)

	rec := f.request(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestBookingActionRequiresAuth(t *testing.T) {
	f := newHandlerFixture(t)

	rec := f.request(t, http.MethodPost, "/api/bookings/action", `{"bookingId":"b-1","action":"accept"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBookingActionRejectsCustomerRole(t *testing.T) {
	f := newHandlerFixture(t)

	rec := f.request(t, http.MethodPost, "/api/bookings/action", `{"bookingId":"b-1","action":"accept"}`, model.RoleUser)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestBookingActionHappyPath(t *testing.T) {
	f := newHandlerFixture(t)
	f.action.booking = &domain.Booking{ID: "b-1", Status: domain.StatusConfirmed}

	rec := f.request(t, http.MethodPost, "/api/bookings/action", `{"bookingId":"b-1","action":"accept"}`, model.RoleMechanic)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "b-1", f.action.gotIn.BookingID)
	assert.Equal(t, domain.ActionAccept, f.action.gotIn.Action)
	assert.Contains(t, rec.Body.String(), "Booking accepted")
}

func TestBookingActionUnknownActionIs400(t *testing.T) {
	f := newHandlerFixture(t)

	rec := f.request(t, http.MethodPost, "/api/bookings/action", `{"bookingId":"b-1","action":"approve"}`, model.RoleMechanic)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBookingActionConflictOnIllegalTransition(t *testing.T) {
	f := newHandlerFixture(t)
	f.action.err = domain.ErrIllegalTransition

	rec := f.request(t, http.MethodPost, "/api/bookings/action", `{"bookingId":"b-1","action":"accept"}`, model.RoleMechanic)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSetStatusAdminOnly(t *testing.T) {
	f := newHandlerFixture(t)
	f.status.booking = &domain.Booking{ID: "b-1", Status: domain.StatusCompleted}

	rec := f.request(t, http.MethodPost, "/api/bookings/status", `{"bookingId":"b-1","status":"completed"}`, model.RoleMechanic)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.request(t, http.MethodPost, "/api/bookings/status", `{"bookingId":"b-1","status":"completed"}`, model.RoleAdmin)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCancelBookingUsesAuthenticatedPhone(t *testing.T) {
	f := newHandlerFixture(t)
	f.cancel.booking = &domain.Booking{ID: "b-1", Status: domain.StatusCancelled}

	rec := f.request(t, http.MethodPost, "/api/bookings/b-1/cancel", "", model.RoleUser)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "b-1", f.cancel.gotIn.BookingID)
	assert.Equal(t, "+919900112233", f.cancel.gotIn.RequesterPhone)
}

func TestCancelForeignBookingIs403(t *testing.T) {
	f := newHandlerFixture(t)
	f.cancel.err = domain.ErrNotBookingOwner

	rec := f.request(t, http.MethodPost, "/api/bookings/b-1/cancel", "", model.RoleUser)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGetBookingNotFoundIs404(t *testing.T) {
	f := newHandlerFixture(t)
	f.queries.err = domain.ErrBookingNotFound

	rec := f.request(t, http.MethodGet, "/api/bookings/missing", "", model.RoleUser)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListBookingsEmptyIsArray(t *testing.T) {
	f := newHandlerFixture(t)

	rec := f.request(t, http.MethodGet, "/api/bookings", "", model.RoleAdmin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"bookings":[]}`, rec.Body.String())
}

func TestRegisterDeviceTokenDerivesClassFromRole(t *testing.T) {
	f := newHandlerFixture(t)

	rec := f.request(t, http.MethodPost, "/api/device-token", `{"token":"tok-1"}`, model.RoleMechanic)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.ClassMechanic, f.token.gotIn.Class)
	assert.Equal(t, "actor-1", f.token.gotIn.ActorID)
	assert.Equal(t, "tok-1", f.token.gotIn.Token)
}

func TestCreateBookingRejectsBadDateTime(t *testing.T) {
	f := newHandlerFixture(t)

	body := `{"mechanicId":"m-1","serviceType":"oil-change","dateTime":"tomorrow"}`
	rec := f.request(t, http.MethodPost, "/api/bookings", body, model.RoleUser)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
