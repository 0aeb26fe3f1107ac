package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator"
	"github.com/gorilla/mux"

	"github.com/Kapeta-16/DevOpsPraktikum/helper"
	"github.com/Kapeta-16/DevOpsPraktikum/models"
	"github.com/Kapeta-16/DevOpsPraktikum/services"
)

const requestTimeout = 100 * time.Second

var validate = validator.New()

type OrderController struct {
	service *services.OrderService
}

func NewOrderController(service *services.OrderService) *OrderController {
	return &OrderController{service: service}
}

func (c *OrderController) Home(w http.ResponseWriter, r *http.Request) {
	helper.RespondJSON(w, http.StatusOK, map[string]string{"message": "Baza spojena"})
}

func (c *OrderController) GetMenu(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	items, err := c.service.ListMenu(ctx)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	helper.RespondJSON(w, http.StatusOK, items)
}

func (c *OrderController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var req models.CreateOrderRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		helper.RespondError(w, http.StatusBadRequest, services.ErrMissingData.Error())
		return
	}
	if err := validate.Struct(req); err != nil {
		helper.RespondError(w, http.StatusBadRequest, services.ErrMissingData.Error())
		return
	}

	receipt, err := c.service.CreateOrder(ctx, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	helper.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"message":      "Narudzba kreirana",
		"order_id":     receipt.OrderID,
		"total":        receipt.Total,
		"eta_delivery": receipt.EtaDelivery,
	})
}

func (c *OrderController) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	orderNumber := mux.Vars(r)["orderNumber"]
	order, err := c.service.GetOrder(ctx, orderNumber)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	helper.RespondJSON(w, http.StatusOK, order)
}

func (c *OrderController) GetUserOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	username := mux.Vars(r)["username"]
	orders, err := c.service.GetUserOrders(ctx, username)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	helper.RespondJSON(w, http.StatusOK, orders)
}

func (c *OrderController) GetAllOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	orders, err := c.service.GetAllOrders(ctx)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	helper.RespondJSON(w, http.StatusOK, orders)
}

func (c *OrderController) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	orderNumber := mux.Vars(r)["orderNumber"]

	var req models.UpdateStatusRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		helper.RespondError(w, http.StatusBadRequest, services.ErrMissingStatus.Error())
		return
	}

	if err := c.service.UpdateOrderStatus(ctx, orderNumber, req.Status); err != nil {
		writeServiceError(w, err)
		return
	}
	helper.RespondJSON(w, http.StatusOK, map[string]string{
		"message": "Status azuriran",
		"status":  req.Status,
	})
}
