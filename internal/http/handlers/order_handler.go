// README: Order endpoints: creation, acceptance, delivery flow, and listings.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"courier/internal/modules/order"
)

type OrderHandler struct {
	order *order.Service
}

func NewOrderHandler(svc *order.Service) *OrderHandler {
	return &OrderHandler{order: svc}
}

type createOrderReq struct {
	RequestID     string             `json:"requestId"`
	CustomerID    int64              `json:"customerId"`
	OrderType     string             `json:"orderType"`
	Origin        string             `json:"origin"`
	DeliveryInfo  order.DeliveryInfo `json:"deliveryInfo"`
	PaymentMethod string             `json:"paymentMethod"`
	Price         int64              `json:"price"`
	SerialNumber  string             `json:"serialNumber"`
	LengthCm      float64            `json:"length"`
	WeightKg      float64            `json:"weight"`
	Items         []createItemReq    `json:"items"`
}

type createItemReq struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unitPrice"`
}

func (h *OrderHandler) Create(c *gin.Context) {
	var req createOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}

	items := make([]order.Item, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, order.Item{Name: it.Name, Quantity: it.Quantity, UnitPrice: it.UnitPrice})
	}

	method := order.PaymentMethod(req.PaymentMethod)
	if method == "" {
		method = order.PayCash
	}

	res, err := h.order.Create(c.Request.Context(), order.CreateCommand{
		RequestID:     req.RequestID,
		CustomerID:    req.CustomerID,
		Type:          order.OrderType(req.OrderType),
		OriginAddress: req.Origin,
		Delivery:      req.DeliveryInfo,
		PaymentMethod: method,
		BasePrice:     req.Price,
		SerialNumber:  req.SerialNumber,
		LengthCm:      req.LengthCm,
		WeightKg:      req.WeightKg,
		Items:         items,
	})
	if err != nil {
		writeOrderError(c, err)
		return
	}

	status := http.StatusCreated
	if res.Idempotent {
		status = http.StatusOK
	}
	c.JSON(status, gin.H{
		"success":        true,
		"orderId":        res.OrderID,
		"totalAmount":    res.TotalAmount,
		"predictedPrice": res.DeliveryFee,
		"autoAssignedTo": res.AssignedDriverID,
	})
}

type acceptOrderReq struct {
	OrderID  int64 `json:"orderId"`
	DriverID int64 `json:"driverId"`
}

func (h *OrderHandler) Accept(c *gin.Context) {
	var req acceptOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	err := h.order.Accept(c.Request.Context(), order.AcceptCommand{
		OrderID:  req.OrderID,
		DriverID: req.DriverID,
	})
	if err != nil {
		writeOrderError(c, err)
		return
	}
	writeMessage(c, http.StatusOK, "order accepted")
}

func (h *OrderHandler) Start(c *gin.Context) {
	orderID, ok := idParam(c, "orderId")
	if !ok {
		return
	}
	if err := h.order.Start(c.Request.Context(), orderID); err != nil {
		writeOrderError(c, err)
		return
	}
	writeMessage(c, http.StatusOK, "order picked up")
}

func (h *OrderHandler) MarkDelivered(c *gin.Context) {
	orderID, ok := idParam(c, "orderId")
	if !ok {
		return
	}
	if err := h.order.MarkDelivered(c.Request.Context(), orderID); err != nil {
		writeOrderError(c, err)
		return
	}
	writeMessage(c, http.StatusOK, "order delivered")
}

func (h *OrderHandler) Get(c *gin.Context) {
	orderID, ok := idParam(c, "id")
	if !ok {
		return
	}
	o, err := h.order.Get(c.Request.Context(), orderID)
	if err != nil {
		writeOrderError(c, err)
		return
	}
	writeData(c, http.StatusOK, orderView(o))
}

func (h *OrderHandler) Status(c *gin.Context) {
	orderID, ok := idParam(c, "id")
	if !ok {
		return
	}
	status, err := h.order.GetStatus(c.Request.Context(), orderID)
	if err != nil {
		writeOrderError(c, err)
		return
	}
	writeData(c, http.StatusOK, gin.H{"orderId": orderID, "status": status})
}

func (h *OrderHandler) ListAvailable(c *gin.Context) {
	orders, err := h.order.ListAvailable(c.Request.Context())
	if err != nil {
		writeOrderError(c, err)
		return
	}
	writeData(c, http.StatusOK, orderViews(orders))
}

func (h *OrderHandler) ListCurrent(c *gin.Context) {
	driverID, ok := idParam(c, "driverId")
	if !ok {
		return
	}
	orders, err := h.order.ListCurrentByDriver(c.Request.Context(), driverID)
	if err != nil {
		writeOrderError(c, err)
		return
	}
	writeData(c, http.StatusOK, orderViews(orders))
}

func (h *OrderHandler) ListByShop(c *gin.Context) {
	customerID, ok := idParam(c, "customerId")
	if !ok {
		return
	}
	orders, err := h.order.ListByCustomer(c.Request.Context(), customerID)
	if err != nil {
		writeOrderError(c, err)
		return
	}
	writeData(c, http.StatusOK, orderViews(orders))
}

type orderResp struct {
	OrderID       int64              `json:"orderId"`
	CustomerID    int64              `json:"customerId"`
	OrderType     string             `json:"orderType"`
	Origin        string             `json:"origin"`
	DeliveryInfo  order.DeliveryInfo `json:"deliveryInfo"`
	PaymentMethod string             `json:"paymentMethod"`
	Price         int64              `json:"price"`
	DeliveryFee   int64              `json:"deliveryFee"`
	TotalAmount   int64              `json:"totalAmount"`
	Currency      string             `json:"currency"`
	SerialNumber  *string            `json:"serialNumber,omitempty"`
	LengthCm      *float64           `json:"length,omitempty"`
	WeightKg      *float64           `json:"weight,omitempty"`
	DistanceKm    *float64           `json:"distanceKm,omitempty"`
	Status        string             `json:"status"`
	DriverID      *int64             `json:"driverId,omitempty"`
	CreatedAt     string             `json:"createdAt"`
}

func orderView(o *order.Order) orderResp {
	return orderResp{
		OrderID:       o.ID,
		CustomerID:    o.CustomerID,
		OrderType:     string(o.Type),
		Origin:        o.OriginAddress,
		DeliveryInfo:  o.Delivery,
		PaymentMethod: string(o.PaymentMethod),
		Price:         o.BasePrice,
		DeliveryFee:   o.DeliveryFee,
		TotalAmount:   o.TotalAmount,
		Currency:      o.Currency,
		SerialNumber:  o.SerialNumber,
		LengthCm:      o.LengthCm,
		WeightKg:      o.WeightKg,
		DistanceKm:    o.DistanceKm,
		Status:        string(o.Status),
		DriverID:      o.DriverID,
		CreatedAt:     o.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

func orderViews(orders []order.Order) []orderResp {
	out := make([]orderResp, 0, len(orders))
	for i := range orders {
		out = append(out, orderView(&orders[i]))
	}
	return out
}
