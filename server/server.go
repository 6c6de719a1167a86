// Package server exposes the ordering core over HTTP for the static
// site: menu and slots to render the page, profile and cart storage,
// and a per-visitor checkout session. The browser still opens the
// returned wa.me links itself.
package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"food-whatsapp/config"
	"food-whatsapp/models"
	"food-whatsapp/services"
	"food-whatsapp/store"
)

type Server struct {
	cfg      *config.Config
	menu     models.WeekMenu
	profiles store.ProfileStore
	carts    store.CartStore
	log      *slog.Logger
	now      func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

// session is one visitor's checkout in flight. The flow is
// single-threaded, so mu serializes the handlers that drive it; the
// confirm flags are set from each request before the flow consults
// them, under the same lock.
type session struct {
	mu       sync.Mutex
	flow     *services.CheckoutFlow
	cart     *services.Cart
	sendCopy bool
	useSaved bool
}

func New(cfg *config.Config, menu models.WeekMenu, profiles store.ProfileStore, carts store.CartStore, log *slog.Logger) *Server {
	return &Server{
		cfg:      cfg,
		menu:     menu,
		profiles: profiles,
		carts:    carts,
		log:      log,
		now:      time.Now,
		sessions: make(map[string]*session),
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/api/menu", s.getMenu)
	r.Get("/api/slots", s.getSlots)

	r.Get("/api/profile/{clientID}", s.getProfile)
	r.Delete("/api/profile/{clientID}", s.deleteProfile)

	r.Get("/api/cart/{clientID}", s.getCart)
	r.Put("/api/cart/{clientID}", s.putCart)

	r.Post("/api/checkout/{clientID}/begin", s.checkoutBegin)
	r.Post("/api/checkout/{clientID}/slot", s.checkoutSlot)
	r.Post("/api/checkout/{clientID}/customer", s.checkoutCustomer)
	r.Post("/api/checkout/{clientID}/confirm", s.checkoutConfirm)
	r.Delete("/api/checkout/{clientID}", s.checkoutCancel)

	r.Post("/api/orders", s.placeOrder)

	return r
}

func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf(":%d", s.cfg.Server.Port)
	s.log.Info("http server listening", "addr", addr)
	return http.ListenAndServe(addr, s.Router())
}

type menuResponse struct {
	OrderingOpen bool          `json:"ordering_open"`
	Deadline     time.Time     `json:"deadline"`
	Dishes       []models.Dish `json:"dishes"`
}

func (s *Server) getMenu(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	respondJSON(w, http.StatusOK, menuResponse{
		OrderingOpen: services.OrderingOpen(now),
		Deadline:     services.OrderingDeadline(now),
		Dishes:       services.DishesByCategory(s.menu, r.URL.Query().Get("category")),
	})
}

func (s *Server) getSlots(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, services.DeliverySlots())
}

func (s *Server) getProfile(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "clientID")
	p, err := s.profiles.Get(r.Context(), clientID)
	if err != nil {
		respondError(w, http.StatusNotFound, "no saved profile")
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (s *Server) deleteProfile(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "clientID")
	if err := s.profiles.Clear(r.Context(), clientID); err != nil {
		s.log.Warn("clear profile failed", "client", clientID, "err", err)
		respondError(w, http.StatusInternalServerError, "could not clear saved data")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getCart(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "clientID")
	items, err := s.carts.GetCart(r.Context(), clientID)
	if err != nil {
		s.log.Warn("load cart failed", "client", clientID, "err", err)
		items = nil
	}
	if items == nil {
		items = []models.CartItem{}
	}
	respondJSON(w, http.StatusOK, items)
}

type cartLine struct {
	ID           string `json:"id"`
	Quantity     int    `json:"quantity"`
	Observations string `json:"observations,omitempty"`
}

// buildCart resolves posted lines against the menu so prices can never
// be tampered with from the page.
func (s *Server) buildCart(lines []cartLine) (*services.Cart, error) {
	cart := services.NewCart()
	for _, line := range lines {
		dish, ok := services.FindDish(s.menu, line.ID)
		if !ok {
			return nil, fmt.Errorf("unknown dish %q", line.ID)
		}
		if !dish.Available {
			return nil, fmt.Errorf("dish %q is not available this week", dish.Name)
		}
		if line.Quantity < 1 {
			continue
		}
		cart.Add(dish)
		cart.SetQuantity(dish.ID, line.Quantity)
		if line.Observations != "" {
			cart.SetObservations(dish.ID, line.Observations)
		}
	}
	return cart, nil
}

func (s *Server) putCart(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "clientID")
	var lines []cartLine
	if err := json.NewDecoder(r.Body).Decode(&lines); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	cart, err := s.buildCart(lines)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := s.carts.SaveCart(r.Context(), clientID, cart.Items()); err != nil {
		s.log.Warn("save cart failed", "client", clientID, "err", err)
		respondError(w, http.StatusInternalServerError, "could not save cart")
		return
	}
	respondJSON(w, http.StatusOK, cart.Items())
}
