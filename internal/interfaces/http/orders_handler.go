package http

import (
	"encoding/csv"
	"fmt"
	stdhttp "net/http"
	"strconv"
	"strings"
	"time"

	"bakery-backoffice/internal/application"
	"bakery-backoffice/internal/domain"
	"bakery-backoffice/internal/ports"

	"github.com/labstack/echo/v4"
)

type OrdersHandler struct {
	service *application.OrderService
	logger  ports.Logger
}

func NewOrdersHandler(service *application.OrderService, logger ports.Logger) *OrdersHandler {
	return &OrdersHandler{service: service, logger: logger}
}

type orderItemRequest struct {
	ID       string  `json:"id"`
	Name     string  `json:"name" validate:"required"`
	Quantity int     `json:"quantity" validate:"gt=0"`
	Price    float64 `json:"price" validate:"gte=0"`
	Image    string  `json:"image"`
}

func toItems(in []orderItemRequest) []domain.OrderItem {
	out := make([]domain.OrderItem, 0, len(in))
	for _, i := range in {
		out = append(out, domain.OrderItem{ID: i.ID, Name: i.Name, Quantity: i.Quantity, Price: i.Price, Image: i.Image})
	}
	return out
}

type orderCustomerRequest struct {
	ID      string `json:"id"`
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type createOrderRequest struct {
	Customer      orderCustomerRequest `json:"customer"`
	Items         []orderItemRequest   `json:"items" validate:"required,min=1,dive"`
	ShippingCost  float64              `json:"shipping_cost" validate:"gte=0"`
	PaymentStatus string               `json:"payment_status" validate:"omitempty,oneof=PAID UNPAID REFUNDED"`
	PaymentMethod string               `json:"payment_method" validate:"omitempty,oneof=CASH BANKING"`
	DeliveryDate  string               `json:"delivery_date" validate:"omitempty,datetime=2006-01-02"`
	DeliveryTime  string               `json:"delivery_time" validate:"omitempty,datetime=15:04"`
	Note          string               `json:"note" validate:"max=1000"`
}

type updateOrderRequest struct {
	Status         *string            `json:"status" validate:"omitempty,oneof=PENDING PROCESSING DELIVERED CANCELLED RETURNED"`
	PaymentStatus  *string            `json:"payment_status" validate:"omitempty,oneof=PAID UNPAID REFUNDED"`
	PaymentMethod  *string            `json:"payment_method" validate:"omitempty,oneof=CASH BANKING"`
	Items          []orderItemRequest `json:"items" validate:"omitempty,min=1,dive"`
	ShippingCost   *float64           `json:"shipping_cost" validate:"omitempty,gte=0"`
	DeliveryDate   *string            `json:"delivery_date" validate:"omitempty,datetime=2006-01-02"`
	DeliveryTime   *string            `json:"delivery_time" validate:"omitempty,datetime=15:04"`
	TrackingNumber *string            `json:"tracking_number"`
	Note           *string            `json:"note"`
}

func (h *OrdersHandler) Create(c echo.Context) error {
	var req createOrderRequest
	if err := bind(c, &req); err != nil {
		return handleError(c, h.logger, err)
	}
	who, err := actor(c)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	order, err := h.service.Create(c.Request().Context(), who, domain.Order{
		Customer: domain.Customer{
			ID:      req.Customer.ID,
			Name:    req.Customer.Name,
			Phone:   req.Customer.Phone,
			Address: req.Customer.Address,
		},
		Items:         toItems(req.Items),
		ShippingCost:  req.ShippingCost,
		PaymentStatus: domain.PaymentStatus(req.PaymentStatus),
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
		DeliveryDate:  req.DeliveryDate,
		DeliveryTime:  req.DeliveryTime,
		Note:          req.Note,
	})
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return c.JSON(stdhttp.StatusCreated, order)
}

func (h *OrdersHandler) Get(c echo.Context) error {
	order, err := h.service.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return c.JSON(stdhttp.StatusOK, order)
}

func (h *OrdersHandler) List(c echo.Context) error {
	from, err := dateParam(c, "from", false)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	to, err := dateParam(c, "to", true)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	orders, err := h.service.List(c.Request().Context(), domain.OrderFilter{
		Status:        domain.OrderStatus(strings.ToUpper(c.QueryParam("status"))),
		PaymentStatus: domain.PaymentStatus(strings.ToUpper(c.QueryParam("payment_status"))),
		From:          from,
		To:            to,
	})
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return c.JSON(stdhttp.StatusOK, orders)
}

func (h *OrdersHandler) Update(c echo.Context) error {
	var req updateOrderRequest
	if err := bind(c, &req); err != nil {
		return handleError(c, h.logger, err)
	}
	who, err := actor(c)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	upd := application.OrderUpdate{
		ShippingCost:   req.ShippingCost,
		DeliveryDate:   req.DeliveryDate,
		DeliveryTime:   req.DeliveryTime,
		TrackingNumber: req.TrackingNumber,
		Note:           req.Note,
	}
	if req.Status != nil {
		s := domain.OrderStatus(*req.Status)
		upd.Status = &s
	}
	if req.PaymentStatus != nil {
		s := domain.PaymentStatus(*req.PaymentStatus)
		upd.PaymentStatus = &s
	}
	if req.PaymentMethod != nil {
		m := domain.PaymentMethod(*req.PaymentMethod)
		upd.PaymentMethod = &m
	}
	if req.Items != nil {
		upd.Items = toItems(req.Items)
	}
	order, err := h.service.Update(c.Request().Context(), who, c.Param("id"), upd)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return c.JSON(stdhttp.StatusOK, order)
}

func (h *OrdersHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return handleError(c, h.logger, err)
	}
	return c.NoContent(stdhttp.StatusNoContent)
}

func (h *OrdersHandler) Transactions(c echo.Context) error {
	from, err := dateParam(c, "from", false)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	to, err := dateParam(c, "to", true)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	summary, err := h.service.Transactions(c.Request().Context(), from, to)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return c.JSON(stdhttp.StatusOK, summary)
}

var exportHeader = []string{
	"order_number", "created_at", "customer_name", "customer_phone", "items",
	"shipping_cost", "total", "status", "payment_status", "payment_method",
	"delivery_date", "delivery_time", "created_by",
}

// Export streams the orders in the requested range as CSV. The UTF-8 BOM
// keeps Vietnamese text readable in spreadsheet tools.
func (h *OrdersHandler) Export(c echo.Context) error {
	r := application.ExportRange(c.QueryParam("range"))
	orders, err := h.service.Export(c.Request().Context(), r, c.QueryParam("start"), c.QueryParam("end"))
	if err != nil {
		return handleError(c, h.logger, err)
	}
	if r == "" {
		r = application.ExportMonth
	}
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	res.Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=orders-%s-%s.csv", r, time.Now().UTC().Format("20060102")))
	res.WriteHeader(stdhttp.StatusOK)
	if _, err := res.Write([]byte("\ufeff")); err != nil {
		return err
	}
	w := csv.NewWriter(res)
	if err := w.Write(exportHeader); err != nil {
		return err
	}
	for _, o := range orders {
		if err := w.Write(exportRow(o)); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func exportRow(o domain.Order) []string {
	items := make([]string, 0, len(o.Items))
	for _, i := range o.Items {
		items = append(items, fmt.Sprintf("%s x%d", i.Name, i.Quantity))
	}
	money := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	return []string{
		o.OrderNumber,
		o.CreatedAt.Format(time.RFC3339),
		o.Customer.Name,
		o.Customer.Phone,
		strings.Join(items, "; "),
		money(o.ShippingCost),
		money(o.Total),
		string(o.Status),
		string(o.PaymentStatus),
		string(o.PaymentMethod),
		o.DeliveryDate,
		o.DeliveryTime,
		o.CreatedBy,
	}
}
