package controllers

import (
	"net/http"

	"github.com/medmarket-io/medmarket-backend/api/middleware"
	"github.com/medmarket-io/medmarket-backend/api/responses"
	"github.com/medmarket-io/medmarket-backend/api/validators"
	checkoutsvc "github.com/medmarket-io/medmarket-backend/internal/checkout"
	pkgerrors "github.com/medmarket-io/medmarket-backend/pkg/errors"
	"github.com/medmarket-io/medmarket-backend/pkg/logger"
)

type checkoutDetailsRequest struct {
	Name    string  `json:"name" validate:"required"`
	Email   string  `json:"email" validate:"required,email"`
	Address *string `json:"address,omitempty"`
}

type checkoutPayRequest struct {
	CardNumber string `json:"card_number" validate:"required"`
	Expiry     string `json:"expiry" validate:"required"`
	CVV        string `json:"cvv" validate:"required"`
	Name       string `json:"name" validate:"required"`
}

// BeginCheckout snapshots the cart into a new checkout flow.
func BeginCheckout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		flow, err := svc.Begin(r.Context(), middleware.CartTokenFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, flow)
	}
}

// GetCheckout returns the current flow snapshot.
func GetCheckout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		flowID, err := validators.ParsePathUUID(r, "flowId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		flow, err := svc.Get(r.Context(), flowID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, flow)
	}
}

// SubmitCheckoutDetails stores the shipping details and advances the flow.
func SubmitCheckoutDetails(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		flowID, err := validators.ParsePathUUID(r, "flowId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutDetailsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		flow, err := svc.SubmitDetails(r.Context(), flowID, checkoutsvc.CustomerDetails{
			Name:    payload.Name,
			Email:   payload.Email,
			Address: payload.Address,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, flow)
	}
}

// ReviseCheckout steps an unpaid flow back to the details form.
func ReviseCheckout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		flowID, err := validators.ParsePathUUID(r, "flowId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		flow, err := svc.Revise(r.Context(), flowID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, flow)
	}
}

// PayCheckout charges the frozen total and places the orders.
func PayCheckout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		flowID, err := validators.ParsePathUUID(r, "flowId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutPayRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		flow, err := svc.Pay(r.Context(), flowID, checkoutsvc.CardInput{
			Number: payload.CardNumber,
			Expiry: payload.Expiry,
			CVV:    payload.CVV,
			Name:   payload.Name,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, flow)
	}
}

// CancelCheckout abandons an in-flight flow.
func CancelCheckout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		flowID, err := validators.ParsePathUUID(r, "flowId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		flow, err := svc.Cancel(r.Context(), flowID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, flow)
	}
}
