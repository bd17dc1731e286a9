package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/stripe/stripe-go/v82"

	"sentrapark/internal/api"
	"sentrapark/internal/auth"
	"sentrapark/internal/repository"
	"sentrapark/internal/service"
)

func main() {
	godotenv.Load()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL not set")
	}
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}

	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")

	userRepo := repository.NewUserRepository(db)
	vehicleRepo := repository.NewVehicleRepository(db)
	facilityRepo := repository.NewFacilityRepository(db)
	spotRepo := repository.NewSpotRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	walletRepo := repository.NewWalletRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	pricingRepo := repository.NewPricingRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	cameraRepo := repository.NewCameraRepository(db)
	gateRepo := repository.NewGateRepository(db)
	detectionRepo := repository.NewDetectionRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	notifySvc := service.NewNotifyService(notificationRepo, userRepo)
	stripeSvc := service.NewStripeService()
	authSvc := service.NewAuthService(userRepo, walletRepo)
	vehicleSvc := service.NewVehicleService(vehicleRepo)
	facilitySvc := service.NewFacilityService(facilityRepo, spotRepo)
	reservationSvc := service.NewReservationService(reservationRepo, spotRepo, pricingRepo, notifySvc)
	sessionSvc := service.NewSessionService(sessionRepo, spotRepo, vehicleRepo, reservationRepo,
		subscriptionRepo, facilityRepo, walletRepo, paymentRepo, notifySvc)
	walletSvc := service.NewWalletService(walletRepo, paymentRepo, userRepo, stripeSvc, notifySvc)
	subscriptionSvc := service.NewSubscriptionService(subscriptionRepo, pricingRepo, walletRepo, paymentRepo, notifySvc)
	hardwareSvc := service.NewHardwareService(cameraRepo, gateRepo, detectionRepo, vehicleRepo)
	dashboardSvc := service.NewDashboardService(sessionRepo, reservationRepo, facilityRepo)
	lprSvc := service.NewLPRService()

	jobSvc := service.NewJobService(reservationSvc, subscriptionSvc)
	if err := jobSvc.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	authHandler := api.NewAuthHandler(authSvc)
	sessionHandler := api.NewSessionHandler(sessionSvc)
	reservationHandler := api.NewReservationHandler(reservationSvc)
	walletHandler := api.NewWalletHandler(walletSvc)
	subscriptionHandler := api.NewSubscriptionHandler(subscriptionSvc)
	vehicleHandler := api.NewVehicleHandler(vehicleSvc)
	facilityHandler := api.NewFacilityHandler(facilitySvc)
	hardwareHandler := api.NewHardwareHandler(hardwareSvc)
	notificationHandler := api.NewNotificationHandler(notifySvc)
	dashboardHandler := api.NewDashboardHandler(dashboardSvc, lprSvc)
	stripeHandler := api.NewStripeWebhookHandler(os.Getenv("STRIPE_WEBHOOK_SECRET"), walletSvc)

	r := mux.NewRouter()

	// Public endpoints
	r.HandleFunc("/api/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/api/sessions/entry", sessionHandler.Entry).Methods("POST")
	r.HandleFunc("/api/sessions/exit", sessionHandler.Exit).Methods("POST")
	r.HandleFunc("/api/vehicles/lookup/{plate}", vehicleHandler.Lookup).Methods("GET")
	r.HandleFunc("/api/facilities", facilityHandler.List).Methods("GET")
	r.HandleFunc("/api/facilities/{id}", facilityHandler.Get).Methods("GET")
	r.HandleFunc("/api/detections", hardwareHandler.IngestDetection).Methods("POST")
	r.HandleFunc("/api/stripe/webhook", stripeHandler.HandleWebhook).Methods("POST")

	// Authenticated endpoints
	authed := r.PathPrefix("/api").Subrouter()
	authed.Use(auth.AuthMiddleware)
	authed.HandleFunc("/auth/me", authHandler.Me).Methods("GET")
	authed.HandleFunc("/auth/me", authHandler.UpdateMe).Methods("PUT")
	authed.HandleFunc("/sessions", sessionHandler.List).Methods("GET")
	authed.HandleFunc("/reservations", reservationHandler.Create).Methods("POST")
	authed.HandleFunc("/reservations", reservationHandler.List).Methods("GET")
	authed.HandleFunc("/reservations/{id}", reservationHandler.Update).Methods("PUT")
	authed.HandleFunc("/wallet", walletHandler.Get).Methods("GET")
	authed.HandleFunc("/wallet/topup", walletHandler.TopUp).Methods("POST")
	authed.HandleFunc("/wallet/topup/checkout", walletHandler.StartCheckout).Methods("POST")
	authed.HandleFunc("/payments", walletHandler.ListPayments).Methods("GET")
	authed.HandleFunc("/subscriptions", subscriptionHandler.Purchase).Methods("POST")
	authed.HandleFunc("/subscriptions", subscriptionHandler.List).Methods("GET")
	authed.HandleFunc("/subscriptions/{id}", subscriptionHandler.Update).Methods("PUT")
	authed.HandleFunc("/vehicles", vehicleHandler.Create).Methods("POST")
	authed.HandleFunc("/vehicles", vehicleHandler.List).Methods("GET")
	authed.HandleFunc("/vehicles/{id}", vehicleHandler.Update).Methods("PUT")
	authed.HandleFunc("/vehicles/{id}", vehicleHandler.Delete).Methods("DELETE")
	authed.HandleFunc("/facilities/{id}/floors", facilityHandler.ListFloors).Methods("GET")
	authed.HandleFunc("/facilities/{id}/spots", facilityHandler.ListSpots).Methods("GET")
	authed.HandleFunc("/notifications", notificationHandler.List).Methods("GET")
	authed.HandleFunc("/notifications/read-all", notificationHandler.MarkAllRead).Methods("PUT")
	authed.HandleFunc("/notifications/{id}/read", notificationHandler.MarkRead).Methods("PUT")

	// Operator endpoints (operators and admins)
	staff := r.PathPrefix("/api").Subrouter()
	staff.Use(auth.AuthMiddleware, auth.StaffMiddleware)
	staff.HandleFunc("/gates", hardwareHandler.ListGates).Methods("GET")
	staff.HandleFunc("/gates/{id}/open", hardwareHandler.OpenGate).Methods("POST")
	staff.HandleFunc("/gates/{id}/close", hardwareHandler.CloseGate).Methods("POST")
	staff.HandleFunc("/detections", hardwareHandler.ListDetections).Methods("GET")

	// Admin endpoints
	admin := r.PathPrefix("/api").Subrouter()
	admin.Use(auth.AuthMiddleware, auth.AdminMiddleware)
	admin.HandleFunc("/users", authHandler.ListUsers).Methods("GET")
	admin.HandleFunc("/users/{id}", authHandler.AdminUpdateUser).Methods("PUT")
	admin.HandleFunc("/facilities", facilityHandler.Create).Methods("POST")
	admin.HandleFunc("/facilities/{id}", facilityHandler.Update).Methods("PUT")
	admin.HandleFunc("/facilities/{id}", facilityHandler.Delete).Methods("DELETE")
	admin.HandleFunc("/facilities/{id}/spots/init", facilityHandler.InitSpots).Methods("POST")
	admin.HandleFunc("/spots/{id}", facilityHandler.UpdateSpot).Methods("PUT")
	admin.HandleFunc("/cameras", hardwareHandler.CreateCamera).Methods("POST")
	admin.HandleFunc("/cameras", hardwareHandler.ListCameras).Methods("GET")
	admin.HandleFunc("/cameras/{id}", hardwareHandler.DeleteCamera).Methods("DELETE")
	admin.HandleFunc("/gates", hardwareHandler.CreateGate).Methods("POST")
	admin.HandleFunc("/detections/{id}/action", hardwareHandler.UpdateDetectionAction).Methods("PATCH")
	admin.HandleFunc("/dashboard/stats", dashboardHandler.Stats).Methods("GET")
	admin.HandleFunc("/dashboard/recent-activity", dashboardHandler.RecentActivity).Methods("GET")
	admin.HandleFunc("/system/reset", sessionHandler.Reset).Methods("POST")
	admin.HandleFunc("/lpr/status", dashboardHandler.LPRStatus).Methods("GET")

	corsHandler := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Server running on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, corsHandler))
}
