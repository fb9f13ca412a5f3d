package application

import (
	"github.com/shopspring/decimal"
	"github.com/wyfcoding/storefront/internal/order/domain"
)

// PlaceOrderCommand 下单命令
type PlaceOrderCommand struct {
	UserID    string            `json:"userId"`
	Items     []domain.LineItem `json:"items"`
	Amount    decimal.Decimal   `json:"amount"`
	PaymentID string            `json:"paymentId"`
	Address   string            `json:"address"`
}
