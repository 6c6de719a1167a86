package server

import (
	"encoding/json"
	"net/http"

	"food-whatsapp/models"
	"food-whatsapp/services"
)

// orderRequest is the whole checkout in one request: cart, slot,
// customer and payment choice, for pages that collect everything up
// front instead of stepping through the session endpoints.
type orderRequest struct {
	ClientID string          `json:"client_id,omitempty"`
	Items    []cartLine      `json:"items"`
	Slot     string          `json:"slot"`
	Payment  string          `json:"payment"` // "pix" or "cash"
	Customer customerRequest `json:"customer"`
	SendCopy bool            `json:"send_copy"`
}

func (s *Server) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	cart, err := s.buildCart(req.Items)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	// The posted customer data is authoritative: the saved profile is
	// never silently substituted for it, so reuse is declined.
	flow := s.newFlow(req.ClientID, cart,
		func() bool { return req.SendCopy },
		func() bool { return false },
	)

	if err := flow.Begin(r.Context()); err != nil {
		s.respondFlowError(w, err)
		return
	}
	res, err := flow.SelectSlot(r.Context(), req.Slot, paymentMethod(req.Payment))
	if err != nil {
		s.respondFlowError(w, err)
		return
	}
	if res == nil {
		res, err = flow.SubmitCustomer(r.Context(), models.CustomerProfile{
			Name:    req.Customer.Name,
			Phone:   req.Customer.Phone,
			Address: req.Customer.Address,
		})
		if err != nil {
			s.respondFlowError(w, err)
			return
		}
	}
	// A PIX order waits for the "I have paid" assertion in the stepped
	// flow; posting everything at once is that assertion. The response
	// still carries the code and the payment page link.
	if res == nil && flow.Step() == services.StepAwaitingPayment {
		res, err = flow.ConfirmPayment(r.Context())
		if err != nil {
			s.respondFlowError(w, err)
			return
		}
	}

	respondJSON(w, http.StatusOK, toResult(res))
}
