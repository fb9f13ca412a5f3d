// Package domain 通知服务的领域模型
package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound 通知不存在
	ErrNotFound = errors.New("notification not found")
	// ErrInvalidNotification 通知内容不合法
	ErrInvalidNotification = errors.New("invalid notification")
)

// NotificationType 通知类型，取值为封闭集合
type NotificationType string

const (
	TypeNewProduct  NotificationType = "new_product"  // 新品上架
	TypePriceUpdate NotificationType = "price_update" // 价格变动
	TypePromotion   NotificationType = "promotion"    // 促销
	TypeSystem      NotificationType = "system"       // 系统消息
	TypeHighDemand  NotificationType = "high_demand"  // 需求旺盛提醒
)

// DefaultTimeFrame 需求统计窗口的展示标签
const DefaultTimeFrame = "24h"

// Valid 是否为已知类型
func (t NotificationType) Valid() bool {
	switch t {
	case TypeNewProduct, TypePriceUpdate, TypePromotion, TypeSystem, TypeHighDemand:
		return true
	}
	return false
}

// ParseType 解析通知类型，空值默认为 new_product
func ParseType(s string) (NotificationType, error) {
	if s == "" {
		return TypeNewProduct, nil
	}
	t := NotificationType(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: unknown type %q", ErrInvalidNotification, s)
	}
	return t, nil
}

// DemandData 需求提醒携带的销量数据
type DemandData struct {
	SalesCount int    `json:"salesCount"`
	TimeFrame  string `json:"timeFrame"`
}

// Notification 通知实体
type Notification struct {
	ID          string           `json:"id"`
	Message     string           `json:"message"`
	Type        NotificationType `json:"type"`
	ProductID   string           `json:"productId,omitempty"`
	SellerID    string           `json:"sellerId,omitempty"`
	SellerName  string           `json:"sellerName,omitempty"`
	ProductName string           `json:"productName,omitempty"`
	Category    string           `json:"category,omitempty"`
	DemandData  *DemandData      `json:"demandData,omitempty"`
	Read        bool             `json:"read"`
	CreatedAt   time.Time        `json:"createdAt"`
}

// Validate 校验通知不变量：消息非空、类型合法、high_demand 必须携带销量数据
func (n *Notification) Validate() error {
	if n.Message == "" {
		return fmt.Errorf("%w: message is required", ErrInvalidNotification)
	}
	if !n.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidNotification, n.Type)
	}
	if n.Type == TypeHighDemand {
		if n.DemandData == nil || n.DemandData.TimeFrame == "" {
			return fmt.Errorf("%w: high_demand requires demandData", ErrInvalidNotification)
		}
	}
	return nil
}

// Filter 部分匹配条件，零值字段不参与过滤
type Filter struct {
	SellerID    string
	Type        NotificationType
	Category    string
	ProductName string
}
