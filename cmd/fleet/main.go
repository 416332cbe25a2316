package main

import (
	bookinghandler "fleetbook/internal/bookings/handler"
	bookingrepo "fleetbook/internal/bookings/repository"
	bookingservice "fleetbook/internal/bookings/service"
	healthhandler "fleetbook/internal/health/handler"
	userhandler "fleetbook/internal/users/handler"
	userrepo "fleetbook/internal/users/repository"
	userservice "fleetbook/internal/users/service"
	vehiclehandler "fleetbook/internal/vehicles/handler"
	vehiclerepo "fleetbook/internal/vehicles/repository"
	vehicleservice "fleetbook/internal/vehicles/service"

	"fleetbook/internal/bookings/events"
	"fleetbook/pkg/app"
	"fleetbook/pkg/auth"
	"fleetbook/pkg/config"
	"fleetbook/pkg/kafka"
	kafka_config "fleetbook/pkg/kafka/config"
)

func main() {
	cfg := config.Load("fleet")
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)

	publisher := events.NewNopPublisher()
	kafkaCfg := kafka_config.Load()
	if kafkaCfg.Enabled() {
		producer, err := kafka.NewProducer(kafkaCfg, kafkaCfg.BookingEventsTopic)
		if err != nil {
			cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
		}
		defer func() {
			if err := producer.Close(); err != nil {
				cfg.Log.Error("Failed to close Kafka producer", "error", err)
			}
		}()
		publisher = events.NewKafkaPublisher(producer, cfg.Log)
		cfg.Log.Info("Kafka event publishing enabled", "topic", kafkaCfg.BookingEventsTopic)
	} else {
		cfg.Log.Info("Kafka event publishing disabled, no brokers configured")
	}

	vehicles := vehiclerepo.NewMongoVehicleRepository(cfg)
	bookings := bookingrepo.NewMongoBookingRepository(cfg)
	locks := bookingrepo.NewMongoFleetLockRepository(cfg)
	users := userrepo.NewMongoUserRepository(cfg)

	bookingSvc := bookingservice.NewBookingService(cfg, bookings, locks, vehicles, publisher)
	vehicleSvc := vehicleservice.NewVehicleService(cfg, vehicles, bookings)
	userSvc := userservice.NewUserService(cfg, users, issuer)

	application := app.NewApplication(cfg, issuer,
		healthhandler.NewHealthHandler(cfg),
		userhandler.NewUserHandler(cfg, userSvc),
		vehiclehandler.NewVehicleHandler(cfg, vehicleSvc),
		bookinghandler.NewBookingHandler(cfg, bookingSvc),
	)
	application.Run()
}
