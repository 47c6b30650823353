package transport

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/ganesh-basavoju/mechpro-backend/internal/booking/application/ports/in"
	"github.com/ganesh-basavoju/mechpro-backend/internal/booking/domain"
	"github.com/ganesh-basavoju/mechpro-backend/internal/model"
	"github.com/ganesh-basavoju/mechpro-backend/internal/shared/logger"
)

const maxBodySize = 1 << 20 // 1MB

// HTTPHandler exposes the booking REST surface.
type HTTPHandler struct {
	applyActionUC in.ApplyBookingActionUseCase
	setStatusUC   in.SetBookingStatusUseCase
	cancelUC      in.CancelBookingByCustomerUseCase
	reassignUC    in.ReassignMechanicUseCase
	createUC      in.CreateBookingUseCase
	queries       in.BookingQueries
	deviceTokenUC in.RegisterDeviceTokenUseCase
	log           *logger.Logger
}

func NewHTTPHandler(
	applyActionUC in.ApplyBookingActionUseCase,
	setStatusUC in.SetBookingStatusUseCase,
	cancelUC in.CancelBookingByCustomerUseCase,
	reassignUC in.ReassignMechanicUseCase,
	createUC in.CreateBookingUseCase,
	queries in.BookingQueries,
	deviceTokenUC in.RegisterDeviceTokenUseCase,
	log *logger.Logger,
) *HTTPHandler {
	return &HTTPHandler{
		applyActionUC: applyActionUC,
		setStatusUC:   setStatusUC,
		cancelUC:      cancelUC,
		reassignUC:    reassignUC,
		createUC:      createUC,
		queries:       queries,
		deviceTokenUC: deviceTokenUC,
		log:           log,
	}
}

// RegisterRoutes wires all HTTP routes onto the mux.
func (h *HTTPHandler) RegisterRoutes(mux *http.ServeMux, authMW func(http.HandlerFunc) http.HandlerFunc) {
	// liveness
	mux.HandleFunc("GET /health", h.handleHealth)

	userOnly := RequireRole(model.RoleUser)
	mechanicOnly := RequireRole(model.RoleMechanic, model.RoleAdmin)
	adminOnly := RequireRole(model.RoleAdmin)

	mux.HandleFunc("POST /api/bookings", authMW(userOnly(h.handleCreateBooking)))
	mux.HandleFunc("GET /api/bookings", authMW(adminOnly(h.handleListBookings)))
	mux.HandleFunc("GET /api/bookings/{id}", authMW(h.handleGetBooking))
	mux.HandleFunc("POST /api/bookings/action", authMW(mechanicOnly(h.handleBookingAction)))
	mux.HandleFunc("POST /api/bookings/status", authMW(adminOnly(h.handleSetStatus)))
	mux.HandleFunc("POST /api/bookings/{id}/cancel", authMW(h.handleCancelBooking))
	mux.HandleFunc("POST /api/bookings/{id}/mechanic", authMW(adminOnly(h.handleReassignMechanic)))
	mux.HandleFunc("DELETE /api/bookings/{id}", authMW(adminOnly(h.handleDeleteBooking)))
	mux.HandleFunc("POST /api/device-token", authMW(h.handleRegisterDeviceToken))

	h.log.Info(logger.Entry{
		Action:  "http_routes_registered",
		Message: "booking routes registered",
	})
}

func (h *HTTPHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// CreateBookingHTTPRequest is the customer-facing booking request DTO.
type CreateBookingHTTPRequest struct {
	MechanicID   string   `json:"mechanicId"`
	VehicleMake  string   `json:"vehicleMake"`
	VehicleModel string   `json:"vehicleModel"`
	VehicleYear  string   `json:"vehicleYear,omitempty"`
	VehiclePlate string   `json:"plateNumber"`
	ServiceType  string   `json:"serviceType"`
	DateTime     string   `json:"dateTime"`
	Amount       float64  `json:"amount"`
	Odometer     int64    `json:"odometerReading,omitempty"`
	Notes        string   `json:"notes,omitempty"`
	SpareParts   []string `json:"spareParts,omitempty"`
}

func (h *HTTPHandler) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(ContextKeyUserID).(string)
	if !ok || userID == "" {
		h.respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateBookingHTTPRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	if req.ServiceType == "" {
		h.respondError(w, http.StatusBadRequest, "serviceType is required")
		return
	}
	if req.MechanicID == "" {
		h.respondError(w, http.StatusBadRequest, "mechanicId is required")
		return
	}

	scheduledAt, err := time.Parse(time.RFC3339, req.DateTime)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "dateTime must be RFC3339")
		return
	}

	booking, err := h.createUC.Execute(r.Context(), in.CreateBookingInput{
		UserID:     userID,
		MechanicID: req.MechanicID,
		Vehicle: domain.Vehicle{
			Make:  req.VehicleMake,
			Model: req.VehicleModel,
			Year:  req.VehicleYear,
			Plate: req.VehiclePlate,
		},
		ServiceType: req.ServiceType,
		ScheduledAt: scheduledAt,
		Amount:      req.Amount,
		Odometer:    req.Odometer,
		Notes:       req.Notes,
		SpareParts:  req.SpareParts,
	})
	if err != nil {
		h.respondDomainError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, booking)
}

func (h *HTTPHandler) handleListBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.queries.List(r.Context(), 0)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	if bookings == nil {
		bookings = []*domain.Booking{}
	}
	h.respondJSON(w, http.StatusOK, map[string]any{"bookings": bookings})
}

func (h *HTTPHandler) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	booking, err := h.queries.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, booking)
}

// BookingActionHTTPRequest carries a mechanic lifecycle action.
type BookingActionHTTPRequest struct {
	BookingID string `json:"bookingId"`
	Action    string `json:"action"`
}

func (h *HTTPHandler) handleBookingAction(w http.ResponseWriter, r *http.Request) {
	var req BookingActionHTTPRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	if req.BookingID == "" {
		h.respondError(w, http.StatusBadRequest, "bookingId is required")
		return
	}

	action, err := domain.ParseAction(req.Action)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "unknown action: "+req.Action)
		return
	}

	booking, err := h.applyActionUC.Execute(r.Context(), in.ApplyBookingActionInput{
		BookingID: req.BookingID,
		Action:    action,
	})
	if err != nil {
		h.respondDomainError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]any{
		"message": domain.ActionMessage(action),
		"booking": booking,
	})
}

// SetStatusHTTPRequest is the administrative direct status set.
type SetStatusHTTPRequest struct {
	BookingID string `json:"bookingId"`
	Status    string `json:"status"`
}

func (h *HTTPHandler) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	var req SetStatusHTTPRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	if req.BookingID == "" {
		h.respondError(w, http.StatusBadRequest, "bookingId is required")
		return
	}

	status, err := domain.ParseStatus(req.Status)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "unknown status: "+req.Status)
		return
	}

	booking, err := h.setStatusUC.Execute(r.Context(), in.SetBookingStatusInput{
		BookingID: req.BookingID,
		Status:    status,
	})
	if err != nil {
		h.respondDomainError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, booking)
}

func (h *HTTPHandler) handleCancelBooking(w http.ResponseWriter, r *http.Request) {
	phone, _ := r.Context().Value(ContextKeyUserPhone).(string)
	if phone == "" {
		h.respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	booking, err := h.cancelUC.Execute(r.Context(), in.CancelBookingByCustomerInput{
		BookingID:      r.PathValue("id"),
		RequesterPhone: phone,
	})
	if err != nil {
		h.respondDomainError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]any{
		"message": "Booking cancelled",
		"booking": booking,
	})
}

// ReassignMechanicHTTPRequest swaps the assigned mechanic.
type ReassignMechanicHTTPRequest struct {
	MechanicID string `json:"mechanicId"`
}

func (h *HTTPHandler) handleReassignMechanic(w http.ResponseWriter, r *http.Request) {
	var req ReassignMechanicHTTPRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	if req.MechanicID == "" {
		h.respondError(w, http.StatusBadRequest, "mechanicId is required")
		return
	}

	booking, err := h.reassignUC.Execute(r.Context(), in.ReassignMechanicInput{
		BookingID:  r.PathValue("id"),
		MechanicID: req.MechanicID,
	})
	if err != nil {
		h.respondDomainError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, booking)
}

func (h *HTTPHandler) handleDeleteBooking(w http.ResponseWriter, r *http.Request) {
	if err := h.queries.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.respondDomainError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]any{"message": "Booking deleted"})
}

// DeviceTokenHTTPRequest stores the caller's push token.
type DeviceTokenHTTPRequest struct {
	Token string `json:"token"`
}

func (h *HTTPHandler) handleRegisterDeviceToken(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(ContextKeyUserID).(string)
	role, _ := r.Context().Value(ContextKeyUserRole).(string)
	if userID == "" {
		h.respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req DeviceTokenHTTPRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	err := h.deviceTokenUC.Execute(r.Context(), in.RegisterDeviceTokenInput{
		Class:   model.ActorClass(role),
		ActorID: userID,
		Token:   req.Token,
	})
	if err != nil {
		h.respondDomainError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]any{"message": "Device token saved"})
}

func (h *HTTPHandler) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			h.respondError(w, http.StatusBadRequest, "empty request body")
			return false
		}
		h.log.Error(logger.Entry{
			Action:  "parse_request_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
		h.respondError(w, http.StatusBadRequest, "invalid request format")
		return false
	}
	return true
}

// respondDomainError maps domain errors onto HTTP statuses.
func (h *HTTPHandler) respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrBookingNotFound),
		errors.Is(err, domain.ErrMechanicNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		h.respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrNotBookingOwner):
		h.respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrIllegalTransition),
		errors.Is(err, domain.ErrAlreadyCancelled),
		errors.Is(err, domain.ErrAlreadyCompleted):
		h.respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidAction),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidBooking):
		h.respondError(w, http.StatusBadRequest, err.Error())
	default:
		h.log.Error(logger.Entry{
			Action:  "request_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
		h.respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

func (h *HTTPHandler) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.log.Error(logger.Entry{
			Action:  "write_response_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
	}
}

func (h *HTTPHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
