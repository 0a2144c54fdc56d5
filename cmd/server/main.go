package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"vnshop/internal/config"
	"vnshop/internal/database"
	"vnshop/internal/gateway"
	"vnshop/internal/handler"
	"vnshop/internal/repo"
	"vnshop/internal/service"
	"vnshop/internal/vnpay"
	"vnshop/internal/worker"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()

	db := database.NewPostgres(cfg.DB)
	dbService := database.New(db, cfg.DB.Database)
	defer dbService.Close()

	orderRepo := repo.NewOrderRepo(db)
	paymentRepo := repo.NewPaymentRepo(db)
	cartRepo := repo.NewCartRepo(db)

	vnpayClient := vnpay.New(cfg.VNPay)
	orderService := service.NewOrderService(db, orderRepo, cartRepo)
	paymentService := service.NewPaymentService(vnpayClient, orderRepo, paymentRepo, cartRepo)

	reconciler := worker.NewReconciliationWorker(
		orderRepo,
		paymentRepo,
		gateway.NewClient(cfg.VNPay),
		cfg.VNPay.ExpireIn,
		cfg.ReconcileInterval,
	)
	go reconciler.Run(ctx)

	orderHandler := handler.NewOrderHandler(orderService)
	vnpayHandler := handler.NewVNPayHandler(paymentService)

	router := gin.Default()
	router.Use(cors.Default())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, dbService.Health())
	})
	router.POST("/orders", orderHandler.Create)
	router.GET("/orders/:id", orderHandler.Get)
	router.GET("/vnpay/create-payment-url", vnpayHandler.CreatePaymentURL)
	router.GET("/vnpay/return", vnpayHandler.Return)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	go func() {
		log.Printf("Listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	if err := srv.Shutdown(context.Background()); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
