package board

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/closerops/salesboard/internal/appointments"
	"github.com/closerops/salesboard/internal/schedule"
	"github.com/closerops/salesboard/pkg/logging"
)

// Handler exposes the board surface over HTTP for the presentation layer.
type Handler struct {
	board  *Board
	logger *logging.Logger
}

// NewHandler creates a board HTTP handler.
func NewHandler(b *Board, logger *logging.Logger) *Handler {
	if b == nil {
		panic("board: board required for handler")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{board: b, logger: logger}
}

// Routes mounts all board endpoints.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/board/grid", h.GetGrid)
	r.Get("/board/{date}/stats", h.GetStats)
	r.Get("/board/{date}/cells", h.GetCells)
	r.Post("/board/{date}/overrides", h.ToggleOverride)
	r.Post("/roster/{name}/attendance", h.ToggleAttendance)
	r.Post("/appointments", h.CreateAppointment)
	r.Patch("/appointments/{id}", h.UpdateAppointment)
	r.Delete("/appointments/{id}", h.DeleteAppointment)
	return r
}

// GetGrid returns the slot labels and roster shared by every date.
// GET /board/grid
func (h *Handler) GetGrid(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"slots":  h.board.SlotGrid(),
		"roster": h.board.Roster(),
	})
}

// GetStats returns the statistics snapshot for one date.
// GET /board/{date}/stats
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	day, ok := h.dateParam(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.board.Stats(day))
}

// GetCells returns the fully resolved grid for one date.
// GET /board/{date}/cells
func (h *Handler) GetCells(w http.ResponseWriter, r *http.Request) {
	day, ok := h.dateParam(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"date":  day,
		"cells": h.board.Cells(day),
	})
}

type overrideRequest struct {
	Staff string `json:"staff"`
	Slot  string `json:"slot"`
}

// ToggleOverride flips the manual availability of a cell.
// POST /board/{date}/overrides
func (h *Handler) ToggleOverride(w http.ResponseWriter, r *http.Request) {
	day, ok := h.dateParam(w, r)
	if !ok {
		return
	}
	var req overrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid request body"}`, http.StatusBadRequest)
		return
	}
	slot, err := schedule.ParseTimeOfDay(req.Slot)
	if err != nil {
		http.Error(w, `{"error": "invalid slot, use HH:MM"}`, http.StatusBadRequest)
		return
	}
	if err := h.board.ToggleOverride(req.Staff, slot, day); err != nil {
		http.Error(w, `{"error": "unknown staff member"}`, http.StatusNotFound)
		return
	}
	res, err := h.board.ResolveCell(req.Staff, slot, day)
	if err != nil {
		http.Error(w, `{"error": "unknown staff member"}`, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"staff":     req.Staff,
		"slot":      slot,
		"date":      day,
		"available": res.Available,
	})
}

// ToggleAttendance flips a staff member's presence flag.
// POST /roster/{name}/attendance
func (h *Handler) ToggleAttendance(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		http.Error(w, `{"error": "staff name required"}`, http.StatusBadRequest)
		return
	}
	if err := h.board.ToggleAttendance(r.Context(), name); err != nil {
		http.Error(w, `{"error": "unknown staff member"}`, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"roster": h.board.Roster()})
}

type appointmentRequest struct {
	SalesPerson  string `json:"salesPerson"`
	Setter       string `json:"setter"`
	ClientName   string `json:"clientName"`
	Phone        string `json:"phone"`
	Notes        string `json:"notes"`
	Time         string `json:"time"`
	Date         string `json:"date"`
	Status       string `json:"status"`
	PaymentType  string `json:"paymentType"`
	InitialPitch string `json:"initialPitch"`
}

// CreateAppointment books a slot. Booking against an unavailable or
// overridden cell is allowed; the client confirms intent before calling.
// POST /appointments
func (h *Handler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req appointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid request body"}`, http.StatusBadRequest)
		return
	}
	slot, err := schedule.ParseTimeOfDay(req.Time)
	if err != nil {
		http.Error(w, `{"error": "invalid time, use HH:MM"}`, http.StatusBadRequest)
		return
	}
	day, err := schedule.ParseDate(req.Date)
	if err != nil {
		http.Error(w, `{"error": "invalid date, use YYYY-MM-DD"}`, http.StatusBadRequest)
		return
	}
	appt := schedule.Appointment{
		SalesPerson:  req.SalesPerson,
		Setter:       req.Setter,
		ClientName:   req.ClientName,
		Phone:        req.Phone,
		Notes:        req.Notes,
		Time:         slot,
		Date:         day,
		Status:       schedule.Status(req.Status),
		Payment:      schedule.PaymentType(req.PaymentType),
		InitialPitch: schedule.PitchTier(req.InitialPitch),
	}
	id, err := h.board.Book(r.Context(), appt)
	if err != nil {
		if errors.Is(err, ErrUnknownStaff) {
			http.Error(w, `{"error": "unknown staff member"}`, http.StatusBadRequest)
			return
		}
		h.logger.Error("booking failed", "sales_person", req.SalesPerson, "slot", slot, "error", err)
		http.Error(w, `{"error": "repository write failed"}`, http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

type appointmentPatch struct {
	SalesPerson  *string `json:"salesPerson"`
	Setter       *string `json:"setter"`
	ClientName   *string `json:"clientName"`
	Phone        *string `json:"phone"`
	Notes        *string `json:"notes"`
	Time         *string `json:"time"`
	Date         *string `json:"date"`
	Status       *string `json:"status"`
	PaymentType  *string `json:"paymentType"`
	InitialPitch *string `json:"initialPitch"`
}

// UpdateAppointment merges partial fields into an appointment. Status updates
// and reschedules share this path; an explicit empty status requests removal
// of the appointment instead of a status value.
// PATCH /appointments/{id}
func (h *Handler) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		http.Error(w, `{"error": "appointment id required"}`, http.StatusBadRequest)
		return
	}
	var req appointmentPatch
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid request body"}`, http.StatusBadRequest)
		return
	}

	if req.Status != nil && *req.Status == "" {
		h.delete(w, r, id)
		return
	}

	var upd appointments.Update
	upd.SalesPerson = req.SalesPerson
	upd.Setter = req.Setter
	upd.ClientName = req.ClientName
	upd.Phone = req.Phone
	upd.Notes = req.Notes
	if req.Time != nil {
		slot, err := schedule.ParseTimeOfDay(*req.Time)
		if err != nil {
			http.Error(w, `{"error": "invalid time, use HH:MM"}`, http.StatusBadRequest)
			return
		}
		upd.Time = &slot
	}
	if req.Date != nil {
		day, err := schedule.ParseDate(*req.Date)
		if err != nil {
			http.Error(w, `{"error": "invalid date, use YYYY-MM-DD"}`, http.StatusBadRequest)
			return
		}
		upd.Date = &day
	}
	if req.Status != nil {
		status := schedule.Status(*req.Status)
		upd.Status = &status
	}
	if req.PaymentType != nil {
		payment := schedule.PaymentType(*req.PaymentType)
		upd.Payment = &payment
	}
	if req.InitialPitch != nil {
		pitch := schedule.PitchTier(*req.InitialPitch)
		upd.InitialPitch = &pitch
	}

	if err := h.board.Update(r.Context(), id, upd); err != nil {
		if errors.Is(err, appointments.ErrNotFound) {
			http.Error(w, `{"error": "appointment not found"}`, http.StatusNotFound)
			return
		}
		h.logger.Error("appointment update failed", "id", id, "error", err)
		http.Error(w, `{"error": "repository write failed"}`, http.StatusBadGateway)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteAppointment removes an appointment.
// DELETE /appointments/{id}
func (h *Handler) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		http.Error(w, `{"error": "appointment id required"}`, http.StatusBadRequest)
		return
	}
	h.delete(w, r, id)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.board.Remove(r.Context(), id); err != nil {
		if errors.Is(err, appointments.ErrNotFound) {
			http.Error(w, `{"error": "appointment not found"}`, http.StatusNotFound)
			return
		}
		h.logger.Error("appointment delete failed", "id", id, "error", err)
		http.Error(w, `{"error": "repository write failed"}`, http.StatusBadGateway)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) dateParam(w http.ResponseWriter, r *http.Request) (schedule.Date, bool) {
	day, err := schedule.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		http.Error(w, `{"error": "invalid date, use YYYY-MM-DD"}`, http.StatusBadRequest)
		return "", false
	}
	return day, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
