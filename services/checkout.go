package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"food-whatsapp/models"
	"food-whatsapp/pix"
	"food-whatsapp/store"
)

// CheckoutStep is where the visitor currently is in the ordering flow.
type CheckoutStep string

const (
	StepIdle              CheckoutStep = "idle"
	StepSelectingSlot     CheckoutStep = "selecting_slot"
	StepEnteringData      CheckoutStep = "entering_data"
	StepGeneratingPayment CheckoutStep = "generating_payment"
	StepAwaitingPayment   CheckoutStep = "awaiting_payment"
	StepProcessing        CheckoutStep = "processing"
)

type PaymentMethod string

const (
	PaymentPix  PaymentMethod = "pix"
	PaymentCash PaymentMethod = "cash"
)

// Opener stands in for the browser's "open new tab" primitive. The HTTP
// layer records the URLs and returns them to the page instead.
type Opener interface {
	Open(url string) error
}

// Confirmer asks the visitor a yes/no question, like the blocking
// confirm() before sending the customer copy.
type Confirmer func(prompt string) bool

// Merchant is the business the orders go to.
type Merchant struct {
	BusinessName string
	Phone        string // WhatsApp number, digits with country code
	PixKey       string
	PixName      string
	PixCity      string
	PageBaseURL  string // origin of the static site, for the payment page link
}

// CheckoutConfig wires the flow's collaborators. Zero values get
// sensible defaults in NewCheckoutFlow.
type CheckoutConfig struct {
	Merchant Merchant
	Profiles store.ProfileStore
	Carts    store.CartStore // optional; cleared on completion when set
	Opener   Opener

	// Confirm gates the delayed customer-copy message; nil means the
	// copy is never offered. ConfirmReuse lets a returning customer
	// veto reusing the saved delivery data; nil means reuse silently.
	Confirm      Confirmer
	ConfirmReuse Confirmer

	// CopyDelay sequences the two tab openings so the merchant tab is
	// not obscured by the customer-copy tab.
	CopyDelay time.Duration

	SkipSlotSelection bool   // pickup-only configurations
	DefaultSlot       string // used when slot selection is skipped

	Now        func() time.Time
	Rand       *rand.Rand
	Logger     *slog.Logger
	OnComplete func(models.Order)
}

// CheckoutResult is everything produced by a completed order.
type CheckoutResult struct {
	Order           models.Order
	MerchantURL     string
	CustomerCopyURL string // empty when the copy was declined or not offered
	PixPayload      string
	PaymentPageURL  string
}

// CheckoutFlow drives one visitor from a filled cart to the WhatsApp
// hand-off. It is single-threaded by design: the step guard in Begin is
// what keeps a double click from dispatching two orders.
type CheckoutFlow struct {
	cfg      CheckoutConfig
	cart     *Cart
	clientID string

	step       CheckoutStep
	slot       string
	payment    PaymentMethod
	customer   models.CustomerProfile
	returning  bool
	orderNum   string
	pixPayload string
}

func NewCheckoutFlow(cart *Cart, clientID string, cfg CheckoutConfig) *CheckoutFlow {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.CopyDelay == 0 {
		cfg.CopyDelay = 2 * time.Second
	}
	return &CheckoutFlow{
		cfg:      cfg,
		cart:     cart,
		clientID: clientID,
		step:     StepIdle,
	}
}

func (f *CheckoutFlow) Step() CheckoutStep { return f.step }

// Customer returns the profile known so far, for prefilling the form.
func (f *CheckoutFlow) Customer() models.CustomerProfile { return f.customer }

// PixPayload returns the code generated for the current order, if any.
func (f *CheckoutFlow) PixPayload() string { return f.pixPayload }

// OrderNumber returns the label assigned to the order in flight, if
// one was generated already.
func (f *CheckoutFlow) OrderNumber() string { return f.orderNum }

// Begin starts the flow. It refuses to start on an empty cart and while
// a previous run is still in flight, so repeated clicks on the primary
// action produce exactly one order.
func (f *CheckoutFlow) Begin(ctx context.Context) error {
	if f.step != StepIdle {
		return ErrCheckoutBusy
	}
	if f.cart.Empty() {
		return ErrEmptyCart
	}

	// A failing store degrades to "new customer", never to a crash.
	f.returning = false
	if f.cfg.Profiles != nil {
		p, err := f.cfg.Profiles.Get(ctx, f.clientID)
		switch {
		case err == nil:
			f.customer = p
			f.returning = p.ReturningAt(f.cfg.Now())
		case errors.Is(err, store.ErrNotFound):
		default:
			f.cfg.Logger.Warn("profile load failed, treating as new customer", "err", err)
		}
	}

	if f.cfg.SkipSlotSelection {
		f.slot = f.cfg.DefaultSlot
		f.step = StepEnteringData
		return nil
	}
	f.step = StepSelectingSlot
	return nil
}

// SelectSlot records the delivery window and the payment choice. A
// returning customer skips the form: cash orders dispatch right away,
// PIX orders move on to payment generation. New customers go to the
// form either way.
func (f *CheckoutFlow) SelectSlot(ctx context.Context, label string, method PaymentMethod) (*CheckoutResult, error) {
	if f.step != StepSelectingSlot {
		return nil, ErrWrongStep
	}
	if strings.TrimSpace(label) == "" {
		return nil, ErrNoSlot
	}
	if !ValidSlot(label) {
		return nil, ErrUnknownSlot
	}
	f.slot = label
	f.payment = method

	if !f.returning {
		f.step = StepEnteringData
		return nil, nil
	}

	// Returning customer: confirm reuse of the saved data before the
	// hand-off instead of re-asking for it.
	if f.cfg.ConfirmReuse != nil && !f.cfg.ConfirmReuse(reusePrompt(f.customer)) {
		f.step = StepEnteringData
		return nil, nil
	}
	return f.advanceFromCustomer(ctx, StepSelectingSlot)
}

// SubmitCustomer validates the delivery form. On a validation failure
// the flow stays on the form so the visitor can fix it.
func (f *CheckoutFlow) SubmitCustomer(ctx context.Context, p models.CustomerProfile) (*CheckoutResult, error) {
	if f.step != StepEnteringData {
		return nil, ErrWrongStep
	}
	if !p.Complete() {
		return nil, ErrMissingCustomerFields
	}
	p.Name = strings.TrimSpace(p.Name)
	p.Phone = NormalizePhone(p.Phone)
	p.Address = strings.TrimSpace(p.Address)
	f.customer = p
	return f.advanceFromCustomer(ctx, StepEnteringData)
}

// advanceFromCustomer moves past the identity step: straight to
// dispatch for cash, or through payment generation for PIX. from is the
// step to fall back to when something downstream fails.
func (f *CheckoutFlow) advanceFromCustomer(ctx context.Context, from CheckoutStep) (*CheckoutResult, error) {
	if f.payment == PaymentPix {
		if _, err := f.GeneratePix(); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return f.dispatch(ctx, from)
}

// GeneratePix builds the copy-and-paste code for the cart total, using
// a fresh order number as the transaction id. On success the flow waits
// for the explicit "I have paid" confirmation; on failure it returns to
// the form with a recoverable error.
func (f *CheckoutFlow) GeneratePix() (string, error) {
	if f.step != StepEnteringData && f.step != StepSelectingSlot {
		return "", ErrWrongStep
	}
	if strings.TrimSpace(f.slot) == "" {
		return "", ErrNoSlot
	}
	f.step = StepGeneratingPayment

	f.orderNum = GenerateOrderNumber(f.cfg.Now(), f.cfg.Rand)
	payload, err := pix.Charge{
		Key:    f.cfg.Merchant.PixKey,
		Amount: f.cart.Total(),
		Name:   f.cfg.Merchant.PixName,
		City:   f.cfg.Merchant.PixCity,
		TxID:   f.orderNum,
	}.Payload()
	if err != nil {
		f.step = StepEnteringData
		return "", fmt.Errorf("generate pix code: %w", err)
	}
	f.pixPayload = payload
	f.step = StepAwaitingPayment
	return payload, nil
}

// ConfirmPayment is the visitor asserting "I have paid" and dispatches
// the order.
func (f *CheckoutFlow) ConfirmPayment(ctx context.Context) (*CheckoutResult, error) {
	if f.step != StepAwaitingPayment {
		return nil, ErrWrongStep
	}
	return f.dispatch(ctx, StepAwaitingPayment)
}

// dispatch hands the order to the merchant: builds the messages, opens
// the WhatsApp links, persists the profile and clears the cart. Any
// failure before the merchant tab opened falls back to the prior
// interactive step; the flow never stays stuck in processing.
func (f *CheckoutFlow) dispatch(ctx context.Context, fallback CheckoutStep) (*CheckoutResult, error) {
	f.step = StepProcessing
	now := f.cfg.Now()

	if f.orderNum == "" {
		f.orderNum = GenerateOrderNumber(now, f.cfg.Rand)
	}
	order := models.Order{
		ID:          uuid.NewString(),
		OrderNumber: f.orderNum,
		Items:       f.cart.Items(),
		Total:       f.cart.Total(),
		Slot:        f.slot,
		Customer:    f.customer,
		CreatedAt:   now,
	}

	var fallbackBlock *PixFallback
	result := CheckoutResult{Order: order, PixPayload: f.pixPayload}
	if f.pixPayload != "" {
		fallbackBlock = &PixFallback{Key: f.cfg.Merchant.PixKey, Payload: f.pixPayload}
		result.PaymentPageURL = PaymentPageURL(
			f.cfg.Merchant.PageBaseURL, f.pixPayload, f.cfg.Merchant.PixKey,
			f.cfg.Merchant.PixName, order.OrderNumber, order.Total,
		)
	}
	result.MerchantURL = WhatsAppURL(f.cfg.Merchant.Phone, BuildMerchantMessage(order, fallbackBlock))

	if f.cfg.Opener != nil {
		if err := f.cfg.Opener.Open(result.MerchantURL); err != nil {
			f.step = fallback
			return nil, fmt.Errorf("open merchant chat: %w", err)
		}
	}

	// From here on the order is out; everything else is best-effort.
	f.persistProfile(ctx, now)
	f.cart.Clear()
	if f.cfg.Carts != nil {
		if err := f.cfg.Carts.ClearCart(ctx, f.clientID); err != nil {
			f.cfg.Logger.Warn("clear stored cart failed", "err", err)
		}
	}

	if f.cfg.Confirm != nil {
		time.Sleep(f.cfg.CopyDelay)
		if f.cfg.Confirm(copyPrompt(order.OrderNumber)) && f.customer.Phone != "" {
			result.CustomerCopyURL = WhatsAppURL(
				f.customer.Phone,
				BuildCustomerMessage(order, f.cfg.Merchant.BusinessName),
			)
			if f.cfg.Opener != nil {
				if err := f.cfg.Opener.Open(result.CustomerCopyURL); err != nil {
					f.cfg.Logger.Warn("open customer copy failed", "err", err)
				}
			}
		}
	}

	f.reset()
	if f.cfg.OnComplete != nil {
		f.cfg.OnComplete(order)
	}
	return &result, nil
}

func (f *CheckoutFlow) persistProfile(ctx context.Context, now time.Time) {
	if f.cfg.Profiles == nil || !f.customer.Complete() {
		return
	}
	p := f.customer
	p.LastOrder = &now
	if err := f.cfg.Profiles.Save(ctx, f.clientID, p); err != nil {
		f.cfg.Logger.Warn("profile save failed", "err", err)
		return
	}
	f.customer = p
}

func (f *CheckoutFlow) reset() {
	f.step = StepIdle
	f.slot = ""
	f.orderNum = ""
	f.pixPayload = ""
	f.payment = ""
}

func reusePrompt(p models.CustomerProfile) string {
	return fmt.Sprintf("Entregar para %s em %s?", p.Name, p.Address)
}

func copyPrompt(orderNumber string) string {
	return fmt.Sprintf("✅ Pedido #%s enviado para a cozinha!\n\nDeseja receber uma cópia do seu pedido no seu WhatsApp?", orderNumber)
}

// GenerateOrderNumber builds the human label "LB-" + day + month + a
// 3-digit random suffix, e.g. "LB-2102-481". Only ~1000 values exist
// per day, so two orders can collide; the label is for reconciliation
// in chat, nothing depends on its uniqueness.
func GenerateOrderNumber(now time.Time, rnd *rand.Rand) string {
	return fmt.Sprintf("LB-%02d%02d-%03d", now.Day(), int(now.Month()), rnd.Intn(1000))
}
