package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/reservat/storefront/internal/chat"
)

// bearerToken extracts the session token from the Authorization header.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

func (h *Handlers) authedUser(c *gin.Context) (string, int64, bool) {
	token := bearerToken(c)
	user, err := h.services.Auth.UserFor(token)
	if err != nil {
		h.fail(c, err)
		return "", 0, false
	}
	return token, user.ID, true
}

// ListCategories handles GET /api/v1/categories
func (h *Handlers) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, Response{Success: true, Data: h.services.Catalog.Categories()})
}

// ListServices handles GET /api/v1/services
func (h *Handlers) ListServices(c *gin.Context) {
	category := c.Query("category")

	services, err := h.services.Catalog.List(category)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: services})
}

// GetService handles GET /api/v1/services/:id
func (h *Handlers) GetService(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid service ID"})
		return
	}

	service, err := h.services.Catalog.Get(id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: service})
}

// RegisterRequest creates a new storefront account.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register handles POST /api/v1/auth/register
func (h *Handlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request: " + err.Error()})
		return
	}

	token, user, err := h.services.Auth.Register(req.Name, req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: gin.H{"token": token, "user": user}})
}

// LoginRequest authenticates an existing account.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/v1/auth/login
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request: " + err.Error()})
		return
	}

	token, user, err := h.services.Auth.Login(req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: gin.H{"token": token, "user": user}})
}

// Logout handles POST /api/v1/auth/logout
func (h *Handlers) Logout(c *gin.Context) {
	h.services.Auth.Logout(bearerToken(c))
	c.JSON(http.StatusOK, Response{Success: true})
}

// CurrentUser handles GET /api/v1/auth/me
func (h *Handlers) CurrentUser(c *gin.Context) {
	user, err := h.services.Auth.UserFor(bearerToken(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: user})
}

// GetCart handles GET /api/v1/cart
func (h *Handlers) GetCart(c *gin.Context) {
	token := bearerToken(c)
	if _, err := h.services.Auth.UserFor(token); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: gin.H{
		"items": h.services.Cart.Items(token),
		"total": h.services.Cart.Total(token),
	}})
}

// AddCartItemRequest adds a catalog service to the cart.
type AddCartItemRequest struct {
	ServiceID int64 `json:"service_id" binding:"required"`
	Quantity  int   `json:"quantity"`
}

// AddCartItem handles POST /api/v1/cart/items
func (h *Handlers) AddCartItem(c *gin.Context) {
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request: " + err.Error()})
		return
	}

	token := bearerToken(c)
	if _, err := h.services.Auth.UserFor(token); err != nil {
		h.fail(c, err)
		return
	}

	items, err := h.services.Cart.Add(token, req.ServiceID, req.Quantity)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: gin.H{
		"items": items,
		"total": h.services.Cart.Total(token),
	}})
}

// RemoveCartItem handles DELETE /api/v1/cart/items/:serviceId
func (h *Handlers) RemoveCartItem(c *gin.Context) {
	serviceID, err := strconv.ParseInt(c.Param("serviceId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid service ID"})
		return
	}

	token := bearerToken(c)
	if _, err := h.services.Auth.UserFor(token); err != nil {
		h.fail(c, err)
		return
	}

	items := h.services.Cart.Remove(token, serviceID)
	c.JSON(http.StatusOK, Response{Success: true, Data: gin.H{
		"items": items,
		"total": h.services.Cart.Total(token),
	}})
}

// Checkout handles POST /api/v1/cart/checkout
func (h *Handlers) Checkout(c *gin.Context) {
	token, userID, ok := h.authedUser(c)
	if !ok {
		return
	}

	reservations, err := h.services.Reservations.Checkout(token, userID)
	if err != nil {
		h.fail(c, err)
		return
	}

	if h.services.Metrics != nil {
		h.services.Metrics.ReservationsTotal.Add(float64(len(reservations)))
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: reservations})
}

// ListReservations handles GET /api/v1/reservations
func (h *Handlers) ListReservations(c *gin.Context) {
	_, userID, ok := h.authedUser(c)
	if !ok {
		return
	}

	reservations, err := h.services.Reservations.List(userID)
	if err != nil {
		h.logger.Error("Failed to list reservations", zap.Int64("user_id", userID), zap.Error(err))
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: reservations})
}

// CancelReservation handles POST /api/v1/reservations/:id/cancel
func (h *Handlers) CancelReservation(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid reservation ID"})
		return
	}

	_, userID, ok := h.authedUser(c)
	if !ok {
		return
	}

	if err := h.services.Reservations.Cancel(id, userID); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true})
}

// ChatWidget handles GET /api/v1/chat/widget
func (h *Handlers) ChatWidget(c *gin.Context) {
	c.JSON(http.StatusOK, Response{Success: true, Data: chat.Widget()})
}

// ChatMessageRequest is one visitor turn of an assistant conversation.
type ChatMessageRequest struct {
	ConversationID string `json:"conversation_id"`
	Message        string `json:"message" binding:"required"`
}

// ChatMessage handles POST /api/v1/chat/messages
func (h *Handlers) ChatMessage(c *gin.Context) {
	var req ChatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request: " + err.Error()})
		return
	}

	conversationID := req.ConversationID
	if conversationID == "" {
		conversationID = uuid.New().String()
	}

	reply, err := h.services.Assistant.Send(c.Request.Context(), conversationID, req.Message)
	if err != nil {
		h.logger.Error("Chat completion failed",
			zap.String("conversation_id", conversationID), zap.Error(err))
		c.JSON(http.StatusBadGateway, Response{Success: false, Error: "assistant is unavailable"})
		return
	}

	if h.services.Metrics != nil {
		h.services.Metrics.ChatMessages.Inc()
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: gin.H{
		"conversation_id": conversationID,
		"reply":           reply,
	}})
}
