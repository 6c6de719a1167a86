package services

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"food-whatsapp/models"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"11999999999", "5511999999999"},
		{"5511999999999", "5511999999999"},
		{"(11) 99999-9999", "5511999999999"},
		{"+55 11 94592-5632", "5511945925632"},
		{"", ""},
		{"abc", ""},
	}
	for _, tt := range tests {
		if got := NormalizePhone(tt.in); got != tt.want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWhatsAppURL(t *testing.T) {
	got := WhatsAppURL("11945925632", "Olá, tudo bem?")
	if !strings.HasPrefix(got, "https://wa.me/5511945925632?text=") {
		t.Fatalf("unexpected url: %s", got)
	}
	u, err := url.Parse(got)
	if err != nil {
		t.Fatal(err)
	}
	if q := u.Query().Get("text"); q != "Olá, tudo bem?" {
		t.Errorf("decoded text = %q", q)
	}
}

func TestPaymentPageURL(t *testing.T) {
	got := PaymentPageURL("https://labella.example/", "000201...CODE", "14838734808", "PATRICIA", "LB-2102-481", decimal.RequireFromString("70.00"))
	u, err := url.Parse(got)
	if err != nil {
		t.Fatal(err)
	}
	if u.Path != "/pagamento.html" {
		t.Errorf("path = %s", u.Path)
	}
	q := u.Query()
	if q.Get("amount") != "70.00" {
		t.Errorf("amount = %q, want 70.00", q.Get("amount"))
	}
	if q.Get("order") != "LB-2102-481" {
		t.Errorf("order = %q", q.Get("order"))
	}
	if q.Get("pix") != "000201...CODE" {
		t.Errorf("pix = %q", q.Get("pix"))
	}
}

func testOrder() models.Order {
	now := time.Date(2026, 2, 21, 10, 0, 0, 0, time.UTC)
	return models.Order{
		OrderNumber: "LB-2102-481",
		Items: []models.CartItem{
			{ID: "feijoada-001", Name: "Feijoada", UnitPrice: decimal.RequireFromString("35.00"), Quantity: 2, Observations: "sem couve"},
			{ID: "agua-001", Name: "Água Mineral", UnitPrice: decimal.RequireFromString("6.00"), Quantity: 1},
		},
		Total:     decimal.RequireFromString("76.00"),
		Slot:      "11:00 às 11:20",
		Customer:  models.CustomerProfile{Name: "Ana", Phone: "11999999999", Address: "Rua X, 10"},
		CreatedAt: now,
	}
}

func TestBuildMerchantMessage(t *testing.T) {
	msg := BuildMerchantMessage(testOrder(), nil)

	for _, want := range []string{
		"NOVO PEDIDO #LB-2102-481",
		"11:00 às 11:20",
		"Ana",
		"Rua X, 10",
		"2x Feijoada",
		"R$ 35.00 cada",
		"Subtotal: R$ 70.00",
		"_Obs: sem couve_",
		"1x Água Mineral",
		"TOTAL: R$ 76.00",
		"Aguardo confirmação e chave Pix!",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("merchant message missing %q:\n%s", want, msg)
		}
	}
}

func TestBuildMerchantMessageWithPix(t *testing.T) {
	msg := BuildMerchantMessage(testOrder(), &PixFallback{Key: "14838734808", Payload: "000201...CRC"})

	for _, want := range []string{
		"Chave: 14838734808",
		"Copia e Cola: `000201...CRC`",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("merchant message missing %q:\n%s", want, msg)
		}
	}
	if strings.Contains(msg, "Aguardo confirmação e chave Pix!") {
		t.Error("pix order should not ask for a pix key")
	}
}

func TestBuildCustomerMessage(t *testing.T) {
	msg := BuildCustomerMessage(testOrder(), "La Bella Grattia")

	for _, want := range []string{
		"Pedido #LB-2102-481 Confirmado!",
		"La Bella Grattia",
		"• 2x Feijoada",
		"• 1x Água Mineral",
		"Total: R$ 76.00",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("customer message missing %q:\n%s", want, msg)
		}
	}
}
