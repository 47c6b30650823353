// Package bootstrap is the compose root of the booking service. All
// dependencies are constructed here and handed to the layers above.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ganesh-basavoju/mechpro-backend/internal/booking/adapter/in/in_amqp"
	"github.com/ganesh-basavoju/mechpro-backend/internal/booking/adapter/in/in_ws"
	"github.com/ganesh-basavoju/mechpro-backend/internal/booking/adapter/in/transport"
	"github.com/ganesh-basavoju/mechpro-backend/internal/booking/adapter/out/out_amqp"
	"github.com/ganesh-basavoju/mechpro-backend/internal/booking/adapter/out/out_notify"
	"github.com/ganesh-basavoju/mechpro-backend/internal/booking/adapter/out/out_push"
	"github.com/ganesh-basavoju/mechpro-backend/internal/booking/adapter/out/repo"
	"github.com/ganesh-basavoju/mechpro-backend/internal/booking/application/ports/out"
	"github.com/ganesh-basavoju/mechpro-backend/internal/booking/application/usecase"
	"github.com/ganesh-basavoju/mechpro-backend/internal/model"
	"github.com/ganesh-basavoju/mechpro-backend/internal/shared/auth"
	"github.com/ganesh-basavoju/mechpro-backend/internal/shared/config"
	"github.com/ganesh-basavoju/mechpro-backend/internal/shared/db"
	"github.com/ganesh-basavoju/mechpro-backend/internal/shared/logger"
	"github.com/ganesh-basavoju/mechpro-backend/internal/shared/mq"
	"github.com/ganesh-basavoju/mechpro-backend/internal/shared/presence"
)

// Run assembles and starts the booking service. It blocks until ctx is
// cancelled, then shuts the HTTP server down gracefully.
func Run(ctx context.Context, cfg config.Config, log *logger.Logger) {
	log.Info(logger.Entry{Action: "booking_service_starting", Message: "initializing booking service"})

	// infrastructure: postgres, rabbitmq, jwt
	dbPool, err := db.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal(logger.Entry{
			Action:  "db_connection_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
	}
	defer db.Close(dbPool, log)

	if err := db.Migrate(ctx, dbPool); err != nil {
		log.Fatal(logger.Entry{
			Action:  "db_migration_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
	}

	mqConn, err := mq.NewRabbitMQ(ctx, cfg.RabbitMQ, log)
	if err != nil {
		log.Fatal(logger.Entry{
			Action:  "rabbitmq_connection_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
	}
	defer mqConn.Close()

	if err := mq.SetupTopology(mqConn); err != nil {
		log.Fatal(logger.Entry{
			Action:  "rabbitmq_topology_setup_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
	}

	jwtService := auth.NewJWTService(cfg.JWT)

	// websocket hub with presence tracking
	registry := presence.NewRegistry()
	socketHandler := in_ws.NewSocketHandler(jwtService, registry, log)
	go socketHandler.Hub().Run(ctx)

	// repositories
	bookingRepo := repo.NewBookingPgRepository(dbPool, log)
	userRepo := repo.NewUserPgRepository(dbPool, log)
	mechanicRepo := repo.NewMechanicPgRepository(dbPool, log)
	adminRepo := repo.NewAdminPgRepository(dbPool, log)

	// outbound: broker events, push, dual-channel dispatcher
	eventPublisher := out_amqp.NewBookingEventPublisher(mqConn, log)

	var pushSender out.PushSender
	fcm, err := out_push.NewFCMSender(ctx, cfg.Push, log)
	if err != nil {
		// push is optional in local environments; live delivery still works
		log.Warn(logger.Entry{
			Action:  "fcm_init_failed",
			Message: err.Error(),
		})
		pushSender = noopPushSender{}
	} else {
		pushSender = fcm
	}

	tokens := &out_notify.RepoTokenSource{Users: userRepo, Mechanics: mechanicRepo}
	notifier := out_notify.NewDispatcher(socketHandler.Hub(), pushSender, tokens, log)

	// use cases
	applyActionUC := usecase.NewApplyBookingActionService(bookingRepo, userRepo, notifier, eventPublisher, log)
	setStatusUC := usecase.NewSetBookingStatusService(bookingRepo, userRepo, notifier, eventPublisher, log)
	cancelUC := usecase.NewCancelBookingByCustomerService(bookingRepo, userRepo, notifier, eventPublisher, log)
	reassignUC := usecase.NewReassignMechanicService(bookingRepo, mechanicRepo, log)
	createUC := usecase.NewCreateBookingService(bookingRepo, userRepo, mechanicRepo, notifier, eventPublisher, log)
	queries := usecase.NewBookingQueryService(bookingRepo, log)
	deviceTokenUC := usecase.NewRegisterDeviceTokenService(userRepo, mechanicRepo, adminRepo, log)

	// amqp consumer: fan booking.created out to online admins
	eventConsumer := in_amqp.NewBookingEventConsumer(mqConn, notifier, log)
	go func() {
		if err := eventConsumer.Start(ctx); err != nil {
			log.Error(logger.Entry{
				Action:  "booking_event_consumer_failed",
				Message: err.Error(),
				Error:   &logger.ErrObj{Msg: err.Error()},
			})
		}
	}()

	// http
	httpHandler := transport.NewHTTPHandler(
		applyActionUC,
		setStatusUC,
		cancelUC,
		reassignUC,
		createUC,
		queries,
		deviceTokenUC,
		log,
	)

	mux := http.NewServeMux()
	authMiddleware := transport.JWTMiddleware(jwtService, log)
	httpHandler.RegisterRoutes(mux, authMiddleware)
	mux.HandleFunc("/ws", socketHandler.ServeWS)

	addr := fmt.Sprintf(":%d", cfg.Service.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info(logger.Entry{
			Action:  "http_server_starting",
			Message: fmt.Sprintf("listening on %s", addr),
		})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(logger.Entry{
				Action:  "http_server_failed",
				Message: err.Error(),
				Error:   &logger.ErrObj{Msg: err.Error()},
			})
		}
	}()

	<-ctx.Done()
	log.Info(logger.Entry{Action: "booking_service_stopping", Message: "shutting down booking service"})

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error(logger.Entry{
			Action:  "http_server_shutdown_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
	}

	log.Info(logger.Entry{Action: "booking_service_stopped", Message: "booking service stopped"})
}

// noopPushSender stands in when FCM credentials are not configured.
type noopPushSender struct{}

func (noopPushSender) Send(context.Context, string, out.PushMessage, model.ActorClass, string) error {
	return nil
}
