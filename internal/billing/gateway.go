package billing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
)

// Payment is the part of a gateway payment the service acts on.
type Payment struct {
	Status string
	Method string
	Amount int64
}

// Gateway creates orders and looks up payments at the payment provider.
type Gateway interface {
	CreateOrder(amount int64, currency string, notes map[string]interface{}) (string, error)
	FetchPayment(paymentID string) (*Payment, error)
}

type razorpayGateway struct {
	client *razorpay.Client
}

func NewRazorpayGateway(key, secret string) Gateway {
	return &razorpayGateway{client: razorpay.NewClient(key, secret)}
}

func (g *razorpayGateway) CreateOrder(amount int64, currency string, notes map[string]interface{}) (string, error) {
	order, err := g.client.Order.Create(map[string]interface{}{
		"amount":          amount,
		"currency":        currency,
		"payment_capture": 1,
		"notes":           notes,
	}, nil)
	if err != nil {
		return "", fmt.Errorf("razorpay order creation failed: %w", err)
	}
	id, ok := order["id"].(string)
	if !ok || id == "" {
		return "", errors.New("razorpay order response has no id")
	}
	return id, nil
}

func (g *razorpayGateway) FetchPayment(paymentID string) (*Payment, error) {
	raw, err := g.client.Payment.Fetch(paymentID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay payment fetch failed: %w", err)
	}
	return parsePayment(raw)
}

func parsePayment(raw map[string]interface{}) (*Payment, error) {
	p := &Payment{}
	status, ok := raw["status"].(string)
	if !ok {
		return nil, errors.New("invalid payment status format")
	}
	p.Status = status
	p.Method, _ = raw["method"].(string)

	switch v := raw["amount"].(type) {
	case float64:
		p.Amount = int64(v)
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return nil, fmt.Errorf("invalid payment amount: %w", err)
		}
		p.Amount = n
	default:
		return nil, fmt.Errorf("unsupported amount type: %T", v)
	}
	return p, nil
}

// Sign computes the checkout signature Razorpay sends to the client:
// hex(HMAC-SHA256(secret, order_id + "|" + payment_id)).
func Sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func validSignature(secret, orderID, paymentID, signature string) bool {
	return hmac.Equal([]byte(Sign(secret, orderID, paymentID)), []byte(signature))
}
