package services

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"food-whatsapp/models"
)

// Brazilian country code, added when the customer typed only the local
// number.
const countryCode = "55"

// NormalizePhone strips everything but digits and prefixes the country
// code when it is missing.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return ""
	}
	if strings.HasPrefix(digits, countryCode) {
		return digits
	}
	return countryCode + digits
}

// WhatsAppURL builds the wa.me deep link that opens a chat with the
// given number and the message pre-filled.
func WhatsAppURL(phone, text string) string {
	return fmt.Sprintf("https://wa.me/%s?text=%s", NormalizePhone(phone), url.QueryEscape(text))
}

// PaymentPageURL builds the link to the static payment landing page
// with the PIX code and order data in the query string.
func PaymentPageURL(baseURL, pixPayload, pixKey, pixName, orderNumber string, total decimal.Decimal) string {
	params := url.Values{}
	params.Set("pix", pixPayload)
	params.Set("amount", total.StringFixed(2))
	params.Set("order", orderNumber)
	params.Set("key", pixKey)
	params.Set("name", pixName)
	return strings.TrimRight(baseURL, "/") + "/pagamento.html?" + params.Encode()
}

// PixFallback is the payment block appended to the merchant message
// when a PIX code was generated for the order.
type PixFallback struct {
	Key     string
	Payload string
}

// BuildMerchantMessage assembles the order card sent to the kitchen's
// WhatsApp.
func BuildMerchantMessage(o models.Order, pix *PixFallback) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*🍝 NOVO PEDIDO #%s*\n", o.OrderNumber)
	fmt.Fprintf(&b, "*⏰ Horário:* %s\n\n", o.Slot)
	fmt.Fprintf(&b, "*👤 Cliente:* %s\n", o.Customer.Name)
	fmt.Fprintf(&b, "*📱 Contato:* %s\n", o.Customer.Phone)
	fmt.Fprintf(&b, "*📍 Entrega:* %s\n\n", o.Customer.Address)
	b.WriteString("*🛒 ITENS:*\n")
	b.WriteString("━━━━━━━━━━━━━━\n")

	for i, item := range o.Items {
		fmt.Fprintf(&b, "\n*%d. %dx %s*\n", i+1, item.Quantity, item.Name)
		fmt.Fprintf(&b, "   R$ %s cada | Subtotal: R$ %s\n",
			item.UnitPrice.StringFixed(2), item.Subtotal().StringFixed(2))
		if item.Observations != "" {
			fmt.Fprintf(&b, "   _Obs: %s_\n", item.Observations)
		}
	}

	b.WriteString("\n━━━━━━━━━━━━━━\n")
	fmt.Fprintf(&b, "*💰 TOTAL: R$ %s*\n", o.Total.StringFixed(2))

	if pix != nil {
		b.WriteString("\n*💳 Pagamento:*\n")
		b.WriteString("Cliente foi direcionado para a página de pagamento.\n")
		b.WriteString("Aguarde o comprovante neste chat! ✅\n\n")
		b.WriteString("_Dados PIX (fallback):_\n")
		fmt.Fprintf(&b, "Chave: %s\n", pix.Key)
		fmt.Fprintf(&b, "Copia e Cola: `%s`", pix.Payload)
	} else {
		b.WriteString("\n_Aguardo confirmação e chave Pix!_")
	}
	return b.String()
}

// BuildCustomerMessage assembles the abbreviated confirmation copy
// offered to the customer's own WhatsApp.
func BuildCustomerMessage(o models.Order, businessName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*✅ Pedido #%s Confirmado!*\n", o.OrderNumber)
	fmt.Fprintf(&b, "*%s*\n\n", businessName)
	fmt.Fprintf(&b, "*⏰ Entrega:* %s\n", o.Slot)
	fmt.Fprintf(&b, "*📍 Local:* %s\n\n", o.Customer.Address)
	b.WriteString("*Resumo:*\n")
	for _, item := range o.Items {
		fmt.Fprintf(&b, "• %dx %s\n", item.Quantity, item.Name)
	}
	fmt.Fprintf(&b, "\n*Total: R$ %s*\n\n", o.Total.StringFixed(2))
	b.WriteString("🔹 *Próximos passos:*\n")
	b.WriteString("1. Aguarde nosso WhatsApp com a confirmação\n")
	b.WriteString("2. Após o pagamento, enviaremos o comprovante\n")
	b.WriteString("3. Sua marmita sairá na faixa horária escolhida!\n\n")
	b.WriteString("Dúvidas? Responda esta mensagem. 🙏")
	return b.String()
}
