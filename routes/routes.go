package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	controller "github.com/Kapeta-16/DevOpsPraktikum/controllers"
)

func RegisterRoutes(router *mux.Router, orders *controller.OrderController, accounts *controller.AccountController) {
	router.HandleFunc("/", orders.Home).Methods(http.MethodGet)
	router.HandleFunc("/meni", orders.GetMenu).Methods(http.MethodGet)

	router.HandleFunc("/narudba", orders.CreateOrder).Methods(http.MethodPost)
	router.HandleFunc("/narudba/{orderNumber}", orders.GetOrder).Methods(http.MethodGet)
	router.HandleFunc("/narudba/{orderNumber}/status", orders.UpdateOrderStatus).Methods(http.MethodPatch)
	router.HandleFunc("/user-orders/{username}", orders.GetUserOrders).Methods(http.MethodGet)
	router.HandleFunc("/all-orders", orders.GetAllOrders).Methods(http.MethodGet)

	router.HandleFunc("/signup", accounts.Signup).Methods(http.MethodPost)
	router.HandleFunc("/login", accounts.Login).Methods(http.MethodPost)
}
