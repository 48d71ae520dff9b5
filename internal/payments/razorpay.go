package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
)

// RazorpayClient wraps Razorpay API operations
type RazorpayClient struct {
	client    *razorpay.Client
	keySecret string
}

// NewRazorpayClient creates a new Razorpay client
func NewRazorpayClient(keyID, keySecret string) *RazorpayClient {
	return &RazorpayClient{
		client:    razorpay.NewClient(keyID, keySecret),
		keySecret: keySecret,
	}
}

// CreateOrder creates a Razorpay order for a consultation fee
func (r *RazorpayClient) CreateOrder(amount int64, currency, receipt string, notes map[string]interface{}) (map[string]interface{}, error) {
	data := map[string]interface{}{
		"amount":   amount, // Amount in minor units
		"currency": currency,
		"receipt":  receipt,
	}
	if len(notes) > 0 {
		data["notes"] = notes
	}

	order, err := r.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Razorpay order: %w", err)
	}

	return order, nil
}

// FetchPayment retrieves a payment by its Razorpay ID
func (r *RazorpayClient) FetchPayment(paymentID string) (map[string]interface{}, error) {
	payment, err := r.client.Payment.Fetch(paymentID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch Razorpay payment: %w", err)
	}

	return payment, nil
}

// CreateRefund refunds a captured payment
func (r *RazorpayClient) CreateRefund(paymentID string, amount int64) (map[string]interface{}, error) {
	data := map[string]interface{}{
		"amount": amount,
	}

	ref, err := r.client.Payment.Refund(paymentID, int(amount), data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to refund Razorpay payment: %w", err)
	}

	return ref, nil
}

// VerifyPaymentSignature checks the checkout callback signature. Razorpay
// signs "orderID|paymentID" with the key secret using HMAC-SHA256.
func (r *RazorpayClient) VerifyPaymentSignature(orderID, paymentID, signature string) bool {
	return verifyRazorpaySignature(orderID, paymentID, signature, r.keySecret)
}

func verifyRazorpaySignature(orderID, paymentID, signature, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
