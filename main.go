package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	database "github.com/Kapeta-16/DevOpsPraktikum/config"
	controller "github.com/Kapeta-16/DevOpsPraktikum/controllers"
	middleware "github.com/Kapeta-16/DevOpsPraktikum/middlewares"
	"github.com/Kapeta-16/DevOpsPraktikum/routes"
	"github.com/Kapeta-16/DevOpsPraktikum/services"
	"github.com/Kapeta-16/DevOpsPraktikum/store"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	client := database.DBinstance()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(ctx)
	}()

	gateway := store.NewMongoGateway(database.OpenDatabase(client))
	orderService := services.NewOrderService(gateway)
	accountService := services.NewAccountService(gateway)

	router := mux.NewRouter()
	routes.RegisterRoutes(router, controller.NewOrderController(orderService), controller.NewAccountController(accountService))

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)
	handler := handlers.RecoveryHandler()(middleware.Logging(cors(router)))

	server := &http.Server{Addr: ":" + port, Handler: handler}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server running on port %s", port)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}
}
