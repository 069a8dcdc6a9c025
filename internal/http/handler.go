package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/kasir-service-go/internal/register"
)

const (
	requestTimeout = 3 * time.Second
	maxBodyBytes   = 4 << 10
)

var errTrailingData = errors.New("unexpected data after JSON body")

type Handler struct {
	reg    *register.Register
	logger *zap.Logger
}

func NewHandler(reg *register.Register, logger *zap.Logger) *Handler {
	return &Handler{reg: reg, logger: logger}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "kasir-service"})
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toProductResponses(h.reg.Catalog().Products()))
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	snap, err := h.reg.Snapshot(ctx)
	if err != nil {
		h.writeRegisterError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(snap))
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var body addItemRequest
	if !decodeBody(w, r, &body) {
		return
	}
	if body.ProductID == nil {
		writeError(w, http.StatusBadRequest, "missing productId")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	snap, err := h.reg.AddProduct(ctx, *body.ProductID)
	if err != nil {
		h.writeRegisterError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(snap))
}

func (h *Handler) IncrementItem(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	snap, err := h.reg.Increment(ctx, productID)
	if err != nil {
		h.writeRegisterError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(snap))
}

func (h *Handler) DecrementItem(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	snap, err := h.reg.RemoveOne(ctx, productID)
	if err != nil {
		h.writeRegisterError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(snap))
}

// Pay accepts a tendered amount. Nothing is charged and the cart is
// returned unchanged.
func (h *Handler) Pay(w http.ResponseWriter, r *http.Request) {
	var body paymentRequest
	if !decodeBody(w, r, &body) {
		return
	}
	if body.Amount == nil {
		writeError(w, http.StatusBadRequest, "missing amount")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	snap, err := h.reg.Tender(ctx, *body.Amount)
	if err != nil {
		h.writeRegisterError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, PaymentResponse{
		Status: "accepted",
		Amount: *body.Amount,
		Cart:   toCartResponse(snap),
	})
}

// decodeBody reads exactly one JSON value of at most maxBodyBytes into dst.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))

	err := dec.Decode(dst)
	if err == nil {
		if dec.Decode(&struct{}{}) != io.EOF {
			err = errTrailingData
		}
	}

	var tooLarge *http.MaxBytesError
	switch {
	case err == nil:
		return true
	case errors.As(err, &tooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
	default:
		writeError(w, http.StatusBadRequest, "invalid json")
	}
	return false
}

func productIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "productId"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid productId")
		return 0, false
	}
	return id, true
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, register.ErrUnknownProduct):
		return http.StatusNotFound, "product not found"
	case errors.Is(err, register.ErrNotInCart):
		return http.StatusNotFound, "product not in cart"
	case errors.Is(err, register.ErrInvalidAmount):
		return http.StatusBadRequest, "amount must not be negative"
	case errors.Is(err, register.ErrStopped):
		return http.StatusServiceUnavailable, "register unavailable"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "register timed out"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func (h *Handler) writeRegisterError(w http.ResponseWriter, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("register call failed", zap.Int("status", status), zap.Error(err))
	}
	writeError(w, status, msg)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{
		"error": msg,
	})
}
