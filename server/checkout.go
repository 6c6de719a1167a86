package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"food-whatsapp/models"
	"food-whatsapp/services"
)

type beginRequest struct {
	Items []cartLine `json:"items"`
}

type slotRequest struct {
	Slot     string `json:"slot"`
	Payment  string `json:"payment"` // "pix" or "cash"
	UseSaved *bool  `json:"use_saved,omitempty"`
	SendCopy bool   `json:"send_copy"`
}

type customerRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	SendCopy bool   `json:"send_copy"`
}

type confirmRequest struct {
	SendCopy bool `json:"send_copy"`
}

type stepResponse struct {
	Step           services.CheckoutStep   `json:"step"`
	Customer       *models.CustomerProfile `json:"customer,omitempty"`
	PixPayload     string                  `json:"pix_payload,omitempty"`
	PaymentPageURL string                  `json:"payment_page_url,omitempty"`
	Result         *resultResponse         `json:"result,omitempty"`
}

type resultResponse struct {
	OrderNumber     string `json:"order_number"`
	Total           string `json:"total"`
	MerchantURL     string `json:"merchant_url"`
	CustomerCopyURL string `json:"customer_copy_url,omitempty"`
	PixPayload      string `json:"pix_payload,omitempty"`
	PaymentPageURL  string `json:"payment_page_url,omitempty"`
}

func (s *Server) session(clientID string) *session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[clientID]
}

// dropSession removes the session only if the map still holds this
// exact one, so a session recreated in the meantime survives.
func (s *Server) dropSession(clientID string, sess *session) {
	s.mu.Lock()
	if s.sessions[clientID] == sess {
		delete(s.sessions, clientID)
	}
	s.mu.Unlock()
}

func (s *Server) newFlow(clientID string, cart *services.Cart, sendCopy, useSaved func() bool) *services.CheckoutFlow {
	return services.NewCheckoutFlow(cart, clientID, services.CheckoutConfig{
		Merchant: services.Merchant{
			BusinessName: s.cfg.Merchant.BusinessName,
			Phone:        s.cfg.Merchant.Phone,
			PixKey:       s.cfg.Merchant.PixKey,
			PixName:      s.cfg.Merchant.PixName,
			PixCity:      s.cfg.Merchant.PixCity,
			PageBaseURL:  s.cfg.Server.BaseURL,
		},
		Profiles: s.profiles,
		Carts:    s.carts,
		// The page opens the returned links; there is no tab to open
		// server-side, and no artificial delay needed between two JSON
		// fields.
		Opener:       nil,
		CopyDelay:    1,
		Confirm:      func(string) bool { return sendCopy() },
		ConfirmReuse: func(string) bool { return useSaved() },
		Logger:       s.log,
		Now:          s.now,
	})
}

func (s *Server) newSession(clientID string, cart *services.Cart) *session {
	sess := &session{cart: cart, useSaved: true}
	sess.flow = s.newFlow(clientID, cart,
		func() bool { return sess.sendCopy },
		func() bool { return sess.useSaved },
	)
	s.mu.Lock()
	s.sessions[clientID] = sess
	s.mu.Unlock()
	return sess
}

func (s *Server) checkoutBegin(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "clientID")

	if sess := s.session(clientID); sess != nil {
		sess.mu.Lock()
		busy := sess.flow.Step() != services.StepIdle
		sess.mu.Unlock()
		if busy {
			respondError(w, http.StatusConflict, services.ErrCheckoutBusy.Error())
			return
		}
	}

	var req beginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	lines := req.Items
	if len(lines) == 0 {
		// Fall back to the stored cart snapshot, like the page reload
		// path does.
		stored, err := s.carts.GetCart(r.Context(), clientID)
		if err != nil {
			s.log.Warn("load stored cart failed", "client", clientID, "err", err)
		}
		for _, item := range stored {
			lines = append(lines, cartLine{ID: item.ID, Quantity: item.Quantity, Observations: item.Observations})
		}
	}
	cart, err := s.buildCart(lines)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	sess := s.newSession(clientID, cart)
	sess.mu.Lock()
	err = sess.flow.Begin(r.Context())
	resp := stepResponse{Step: sess.flow.Step()}
	if c := sess.flow.Customer(); c.Complete() {
		resp.Customer = &c
	}
	sess.mu.Unlock()
	if err != nil {
		s.respondFlowError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// checkoutCancel abandons the session in flight, letting a reloaded
// page start over instead of being stuck behind its own 409.
func (s *Server) checkoutCancel(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "clientID")
	if sess := s.session(clientID); sess != nil {
		s.dropSession(clientID, sess)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) checkoutSlot(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "clientID")
	sess := s.session(clientID)
	if sess == nil {
		respondError(w, http.StatusUnprocessableEntity, services.ErrWrongStep.Error())
		return
	}

	var req slotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	sess.mu.Lock()
	sess.sendCopy = req.SendCopy
	if req.UseSaved != nil {
		sess.useSaved = *req.UseSaved
	}
	res, err := sess.flow.SelectSlot(r.Context(), req.Slot, paymentMethod(req.Payment))
	resp := s.stepResponseLocked(sess, res)
	sess.mu.Unlock()

	s.finishStep(w, clientID, sess, resp, err)
}

func (s *Server) checkoutCustomer(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "clientID")
	sess := s.session(clientID)
	if sess == nil {
		respondError(w, http.StatusUnprocessableEntity, services.ErrWrongStep.Error())
		return
	}

	var req customerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	sess.mu.Lock()
	sess.sendCopy = req.SendCopy
	res, err := sess.flow.SubmitCustomer(r.Context(), models.CustomerProfile{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
	})
	resp := s.stepResponseLocked(sess, res)
	sess.mu.Unlock()

	s.finishStep(w, clientID, sess, resp, err)
}

func (s *Server) checkoutConfirm(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "clientID")
	sess := s.session(clientID)
	if sess == nil {
		respondError(w, http.StatusUnprocessableEntity, services.ErrWrongStep.Error())
		return
	}

	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	sess.mu.Lock()
	sess.sendCopy = req.SendCopy
	res, err := sess.flow.ConfirmPayment(r.Context())
	resp := s.stepResponseLocked(sess, res)
	sess.mu.Unlock()

	s.finishStep(w, clientID, sess, resp, err)
}

// stepResponseLocked reads the flow while the caller holds the session
// lock: either the step it moved to or, when the order was dispatched,
// the final result.
func (s *Server) stepResponseLocked(sess *session, res *services.CheckoutResult) stepResponse {
	if res == nil {
		resp := stepResponse{Step: sess.flow.Step()}
		if sess.flow.Step() == services.StepAwaitingPayment {
			resp.PixPayload = sess.flow.PixPayload()
			resp.PaymentPageURL = services.PaymentPageURL(
				s.cfg.Server.BaseURL, sess.flow.PixPayload(), s.cfg.Merchant.PixKey,
				s.cfg.Merchant.PixName, sess.flow.OrderNumber(), sess.cart.Total(),
			)
		}
		return resp
	}
	return stepResponse{Step: services.StepIdle, Result: toResult(res)}
}

// finishStep writes the response; completed sessions are dropped first
// so the next order starts clean.
func (s *Server) finishStep(w http.ResponseWriter, clientID string, sess *session, resp stepResponse, err error) {
	if err != nil {
		s.respondFlowError(w, err)
		return
	}
	if resp.Result != nil {
		s.dropSession(clientID, sess)
	}
	respondJSON(w, http.StatusOK, resp)
}

func toResult(res *services.CheckoutResult) *resultResponse {
	return &resultResponse{
		OrderNumber:     res.Order.OrderNumber,
		Total:           res.Order.Total.StringFixed(2),
		MerchantURL:     res.MerchantURL,
		CustomerCopyURL: res.CustomerCopyURL,
		PixPayload:      res.PixPayload,
		PaymentPageURL:  res.PaymentPageURL,
	}
}

func (s *Server) respondFlowError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrCheckoutBusy):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, services.ErrNoSlot),
		errors.Is(err, services.ErrUnknownSlot),
		errors.Is(err, services.ErrMissingCustomerFields),
		errors.Is(err, services.ErrWrongStep):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		s.log.Error("checkout failed", "err", err)
		respondError(w, http.StatusInternalServerError, "could not process the order, please try again")
	}
}

func paymentMethod(s string) services.PaymentMethod {
	if s == string(services.PaymentPix) {
		return services.PaymentPix
	}
	return services.PaymentCash
}
