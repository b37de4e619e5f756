package service

import (
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"
)

type QRGenerator interface {
	Generate(orderNumber string) ([]byte, error)
}

// DefaultQRGenerator encodes the public tracking page of an order.
type DefaultQRGenerator struct {
	BaseURL string
}

func (g DefaultQRGenerator) TrackingURL(orderNumber string) string {
	return fmt.Sprintf("%s/orders/track/%s", strings.TrimRight(g.BaseURL, "/"), orderNumber)
}

func (g DefaultQRGenerator) Generate(orderNumber string) ([]byte, error) {
	return qrcode.Encode(g.TrackingURL(orderNumber), qrcode.Medium, 256)
}
