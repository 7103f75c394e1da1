package domain

import (
	"strings"
	"time"
)

type Role string

const (
	RoleSuperAdmin   Role = "super_admin"
	RoleAdmin        Role = "admin"
	RoleCollaborator Role = "collaborator"
)

// ParseRole accepts the legacy "colaborator" spelling still present in old
// user records.
func ParseRole(raw string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleSuperAdmin:
		return RoleSuperAdmin, nil
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleCollaborator, "colaborator":
		return RoleCollaborator, nil
	default:
		return "", ErrInvalidInput
	}
}

type PrincipalStatus string

const (
	StatusPending  PrincipalStatus = "pending"
	StatusActive   PrincipalStatus = "active"
	StatusInactive PrincipalStatus = "inactive"
)

func ParsePrincipalStatus(raw string) (PrincipalStatus, error) {
	switch s := PrincipalStatus(strings.ToLower(strings.TrimSpace(raw))); s {
	case StatusPending, StatusActive, StatusInactive:
		return s, nil
	default:
		return "", ErrInvalidInput
	}
}

// Identity is an authenticated caller before its principal record is loaded.
type Identity struct {
	Subject     string
	Email       string
	DisplayName string
}

type Principal struct {
	ID          string          `json:"id"`
	Email       string          `json:"email"`
	DisplayName string          `json:"display_name"`
	CustomName  string          `json:"custom_name,omitempty"`
	Role        Role            `json:"role"`
	Status      PrincipalStatus `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	LastLoginAt time.Time       `json:"last_login_at"`
}

// Label is the name shown in audit fields such as Order.CreatedBy.
func (p Principal) Label() string {
	switch {
	case p.CustomName != "":
		return p.CustomName
	case p.Email != "":
		return p.Email
	default:
		return p.DisplayName
	}
}

type OrderStatus string

const (
	OrderPending    OrderStatus = "PENDING"
	OrderProcessing OrderStatus = "PROCESSING"
	OrderDelivered  OrderStatus = "DELIVERED"
	OrderCancelled  OrderStatus = "CANCELLED"
	OrderReturned   OrderStatus = "RETURNED"
)

type PaymentStatus string

const (
	PaymentPaid     PaymentStatus = "PAID"
	PaymentUnpaid   PaymentStatus = "UNPAID"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

type PaymentMethod string

const (
	PaymentCash    PaymentMethod = "CASH"
	PaymentBanking PaymentMethod = "BANKING"
)

type OrderItem struct {
	ID       string  `json:"id" dynamodbav:"ID"`
	Name     string  `json:"name" dynamodbav:"Name"`
	Quantity int     `json:"quantity" dynamodbav:"Quantity"`
	Price    float64 `json:"price" dynamodbav:"Price"`
	Image    string  `json:"image,omitempty" dynamodbav:"Image"`
}

type Order struct {
	ID             string        `json:"id"`
	OrderNumber    string        `json:"order_number"`
	Customer       Customer      `json:"customer"`
	Items          []OrderItem   `json:"items"`
	Total          float64       `json:"total"`
	ShippingCost   float64       `json:"shipping_cost"`
	Status         OrderStatus   `json:"status"`
	PaymentStatus  PaymentStatus `json:"payment_status"`
	PaymentMethod  PaymentMethod `json:"payment_method"`
	DeliveryDate   string        `json:"delivery_date,omitempty"`
	DeliveryTime   string        `json:"delivery_time,omitempty"`
	TrackingNumber string        `json:"tracking_number,omitempty"`
	Note           string        `json:"note,omitempty"`
	CreatedBy      string        `json:"created_by,omitempty"`
	UpdatedBy      string        `json:"updated_by,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// ComputeTotal is the item subtotal plus shipping.
func (o Order) ComputeTotal() float64 {
	total := o.ShippingCost
	for _, item := range o.Items {
		total += float64(item.Quantity) * item.Price
	}
	return total
}

type OrderFilter struct {
	Status        OrderStatus
	PaymentStatus PaymentStatus
	From          time.Time
	To            time.Time
}

func (f OrderFilter) Match(o Order) bool {
	if f.Status != "" && o.Status != f.Status {
		return false
	}
	if f.PaymentStatus != "" && o.PaymentStatus != f.PaymentStatus {
		return false
	}
	if !f.From.IsZero() && o.CreatedAt.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && !o.CreatedAt.Before(f.To) {
		return false
	}
	return true
}

type Customer struct {
	ID        string    `json:"id" dynamodbav:"ID"`
	Name      string    `json:"name" dynamodbav:"Name"`
	Phone     string    `json:"phone" dynamodbav:"Phone"`
	Address   string    `json:"address,omitempty" dynamodbav:"Address"`
	Note      string    `json:"note,omitempty" dynamodbav:"Note"`
	CreatedAt time.Time `json:"created_at" dynamodbav:"-"`
}

// NotificationDestination is one registered push endpoint (browser or device).
type NotificationDestination struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
}

type ProductStatus string

const (
	ProductActive   ProductStatus = "active"
	ProductInactive ProductStatus = "inactive"
)

type ProductRecipe struct {
	RecipeID string  `json:"recipe_id" dynamodbav:"RecipeID"`
	Quantity float64 `json:"quantity" dynamodbav:"Quantity"`
}

type ProductMaterial struct {
	MaterialID string  `json:"material_id" dynamodbav:"MaterialID"`
	Quantity   float64 `json:"quantity" dynamodbav:"Quantity"`
}

type Product struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Price       float64           `json:"price"`
	Image       string            `json:"image,omitempty"`
	Category    string            `json:"category"`
	Description string            `json:"description,omitempty"`
	Status      ProductStatus     `json:"status"`
	Recipes     []ProductRecipe   `json:"recipes,omitempty"`
	Materials   []ProductMaterial `json:"materials,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

type RecipeIngredient struct {
	IngredientID   string  `json:"ingredient_id" dynamodbav:"IngredientID"`
	IngredientName string  `json:"ingredient_name" dynamodbav:"IngredientName"`
	Quantity       float64 `json:"quantity" dynamodbav:"Quantity"`
	Unit           Unit    `json:"unit" dynamodbav:"Unit"`
}

type Recipe struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	Description    string             `json:"description,omitempty"`
	Ingredients    []RecipeIngredient `json:"ingredients"`
	Instructions   string             `json:"instructions,omitempty"`
	Yield          float64            `json:"yield,omitempty"`
	YieldUnit      string             `json:"yield_unit,omitempty"`
	OutputQuantity float64            `json:"output_quantity,omitempty"`
	WasteRate      float64            `json:"waste_rate,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}
