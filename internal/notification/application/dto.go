package application

import "github.com/wyfcoding/storefront/internal/notification/domain"

// CreateNotificationCommand 直接创建通知的命令，Type 为空时默认 new_product
type CreateNotificationCommand struct {
	Message     string             `json:"message"`
	Type        string             `json:"type"`
	ProductID   string             `json:"productId"`
	SellerID    string             `json:"sellerId"`
	SellerName  string             `json:"sellerName"`
	ProductName string             `json:"productName"`
	Category    string             `json:"category"`
	DemandData  *domain.DemandData `json:"demandData"`
}
