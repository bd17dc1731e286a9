package api

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"sentrapark/internal/service"
)

type StripeWebhookHandler struct {
	StripeSecret  string
	walletService *service.WalletService
}

func NewStripeWebhookHandler(stripeSecret string, walletService *service.WalletService) *StripeWebhookHandler {
	return &StripeWebhookHandler{
		StripeSecret:  stripeSecret,
		walletService: walletService,
	}
}

// HandleWebhook processes Stripe events. The only event acted on is
// checkout.session.completed, which credits the wallet named in the
// checkout metadata.
func (h *StripeWebhookHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	const maxBodyBytes = int64(65536)
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("Error reading body: %v", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	sigHeader := r.Header.Get("Stripe-Signature")
	event, err := webhook.ConstructEvent(payload, sigHeader, h.StripeSecret)
	if err != nil {
		log.Printf("Webhook signature verification failed: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			log.Printf("Error parsing checkout.session: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		userID, err := strconv.Atoi(sess.Metadata["user_id"])
		if err != nil {
			log.Printf("checkout.session.completed without user_id metadata")
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		amount, err := strconv.Atoi(sess.Metadata["amount"])
		if err != nil || amount <= 0 {
			log.Printf("checkout.session.completed without amount metadata")
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if err := h.walletService.ConfirmCheckout(userID, amount); err != nil {
			log.Printf("DB error crediting wallet for user %d: %v", userID, err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	default:
		log.Printf("Unhandled event type: %s", event.Type)
	}

	w.WriteHeader(http.StatusOK)
}
