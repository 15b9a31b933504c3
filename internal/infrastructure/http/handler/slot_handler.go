package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/mrops-br/product-showcase-api/internal/app/dto"
	"github.com/mrops-br/product-showcase-api/internal/app/service"
	"github.com/mrops-br/product-showcase-api/internal/domain"
	"github.com/mrops-br/product-showcase-api/internal/infrastructure/http/request"
	"github.com/mrops-br/product-showcase-api/internal/infrastructure/http/response"
)

var errInvalidSlot = errors.New("slot must be a non-negative integer")

// SlotHandler handles HTTP requests for showcase slots
type SlotHandler struct {
	service   *service.ShowcaseService
	validator *request.Validator
	logger    *slog.Logger
}

// NewSlotHandler creates a new slot handler
func NewSlotHandler(service *service.ShowcaseService, validator *request.Validator, logger *slog.Logger) *SlotHandler {
	return &SlotHandler{
		service:   service,
		validator: validator,
		logger:    logger,
	}
}

// ListSlots handles GET /slots
func (h *SlotHandler) ListSlots(w http.ResponseWriter, r *http.Request) {
	slots, err := h.service.ListSlots(r.Context())
	if err != nil {
		h.error(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, slots)
}

// GetSlot handles GET /slots/{slot}
func (h *SlotHandler) GetSlot(w http.ResponseWriter, r *http.Request) {
	index, ok := h.slotParam(w, r)
	if !ok {
		return
	}

	slot, err := h.service.GetSlot(r.Context(), index)
	if err != nil {
		h.slotError(w, r, index, err)
		return
	}

	response.JSON(w, http.StatusOK, slot)
}

// RequestEdit handles POST /slots/{slot}/edit
func (h *SlotHandler) RequestEdit(w http.ResponseWriter, r *http.Request) {
	index, ok := h.slotParam(w, r)
	if !ok {
		return
	}

	var req dto.EditRequest
	if !h.bind(w, r, &req) {
		return
	}

	slot, err := h.service.RequestEdit(r.Context(), index, domain.Field(req.Field))
	if err != nil {
		h.slotError(w, r, index, err)
		return
	}

	response.JSON(w, http.StatusOK, slot)
}

// SelectField handles POST /slots/{slot}/select
func (h *SlotHandler) SelectField(w http.ResponseWriter, r *http.Request) {
	index, ok := h.slotParam(w, r)
	if !ok {
		return
	}

	var req dto.EditRequest
	if !h.bind(w, r, &req) {
		return
	}

	slot, err := h.service.SelectField(r.Context(), index, domain.Field(req.Field))
	if err != nil {
		h.slotError(w, r, index, err)
		return
	}

	response.JSON(w, http.StatusOK, slot)
}

// TypeText handles PUT /slots/{slot}/input
func (h *SlotHandler) TypeText(w http.ResponseWriter, r *http.Request) {
	index, ok := h.slotParam(w, r)
	if !ok {
		return
	}

	var req dto.InputRequest
	if !h.bind(w, r, &req) {
		return
	}

	slot, err := h.service.TypeText(r.Context(), index, domain.Field(req.Field), req.Text)
	if err != nil {
		h.slotError(w, r, index, err)
		return
	}

	response.JSON(w, http.StatusOK, slot)
}

// PushKeyboard handles POST /slots/{slot}/keyboard
func (h *SlotHandler) PushKeyboard(w http.ResponseWriter, r *http.Request) {
	index, ok := h.slotParam(w, r)
	if !ok {
		return
	}

	var req dto.KeyboardRequest
	if !h.bind(w, r, &req) {
		return
	}

	update := domain.KeyboardUpdate{Text: req.Text, Done: req.Done}
	if err := h.service.PushKeyboard(r.Context(), index, update); err != nil {
		h.slotError(w, r, index, err)
		return
	}

	response.JSON(w, http.StatusAccepted, dto.KeyboardAck{Slot: index, Accepted: true})
}

// Save handles POST /slots/{slot}/save
func (h *SlotHandler) Save(w http.ResponseWriter, r *http.Request) {
	index, ok := h.slotParam(w, r)
	if !ok {
		return
	}

	saved, err := h.service.Save(r.Context(), index)
	if err != nil {
		h.slotError(w, r, index, err)
		return
	}

	response.JSON(w, http.StatusOK, saved)
}

func (h *SlotHandler) slotParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "slot")
	index, err := strconv.Atoi(raw)
	if err != nil || index < 0 {
		response.Error(w, http.StatusBadRequest, fmt.Errorf("%w: %q", errInvalidSlot, raw))
		return 0, false
	}
	return index, true
}

func (h *SlotHandler) bind(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := h.validator.Bind(r, dst); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to decode request body",
			slog.String("error", err.Error()),
		)
		response.Error(w, http.StatusBadRequest, err)
		return false
	}
	return true
}

func (h *SlotHandler) error(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "Unhandled slot error",
			slog.String("error", err.Error()),
		)
	}
	response.Error(w, status, err)
}

// slotError reports err with the slot index and, when the slot exists, its
// current editor state
func (h *SlotHandler) slotError(w http.ResponseWriter, r *http.Request, index int, err error) {
	status := statusFor(err)
	if status == http.StatusNotFound {
		response.SlotError(w, status, index, "", err)
		return
	}
	if status == http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "Unhandled slot error",
			slog.String("error", err.Error()),
		)
	}

	var state string
	if slot, lookupErr := h.service.GetSlot(r.Context(), index); lookupErr == nil {
		state = slot.State
	}
	response.SlotError(w, status, index, state, err)
}

// statusFor maps service and domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSlotNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnknownField):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotEditing),
		errors.Is(err, domain.ErrNoKeyboardSession),
		errors.Is(err, service.ErrAlreadyLoaded):
		return http.StatusConflict
	case errors.Is(err, domain.ErrEditingDisabled):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrKeyboardBusy):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
