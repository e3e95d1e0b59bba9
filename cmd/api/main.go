package main

import (
	"github.com/joho/godotenv"

	bookingevents "campusnest/internal/bookings/events"
	bookinghandler "campusnest/internal/bookings/handler"
	bookingrepository "campusnest/internal/bookings/repository"
	bookingservice "campusnest/internal/bookings/service"
	bookingvalidator "campusnest/internal/bookings/validator"
	cataloghandler "campusnest/internal/catalog/handler"
	catalogrepository "campusnest/internal/catalog/repository"
	catalogservice "campusnest/internal/catalog/service"
	catalogvalidator "campusnest/internal/catalog/validator"
	"campusnest/pkg/app"
	"campusnest/pkg/config"
	"campusnest/pkg/kafka"
	kafkaconfig "campusnest/pkg/kafka/config"
)

const ServiceName = "campusnest-api"

func main() {
	_ = godotenv.Load()

	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.LogConfiguration()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting CampusNest API")

	catalogSvc := initCatalog(cfg)
	bookingSvc, publisher := initBookings(cfg, catalogSvc)
	defer func() {
		if err := publisher.Close(); err != nil {
			cfg.Log.Error("Failed to close event publisher", "error", err)
		}
	}()

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg,
		cataloghandler.NewCatalogHandler(catalogSvc, cfg.Log),
		bookinghandler.NewBookingHandler(bookingSvc, cfg.Log),
	)
	serverApp.Run()
}

func initCatalog(cfg *config.Config) catalogservice.CatalogService {
	repo := catalogrepository.NewMongoCatalogRepository(cfg)
	v := catalogvalidator.NewListingValidator(cfg.Log)
	svc := catalogservice.NewCatalogService(repo, v, cfg)

	cfg.Log.Info("Catalog service initialized", "database", cfg.MongoDatabaseName)
	return svc
}

func initBookings(cfg *config.Config, catalogSvc catalogservice.CatalogService) (bookingservice.BookingService, bookingevents.Publisher) {
	publisher := initPublisher(cfg)
	repo := bookingrepository.NewMongoBookingRepository(cfg)
	v := bookingvalidator.NewBookingValidator(cfg.Log)
	svc := bookingservice.NewBookingService(repo, catalogSvc, v, publisher, cfg)

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)
	return svc, publisher
}

func initPublisher(cfg *config.Config) bookingevents.Publisher {
	if !cfg.EventsEnabled {
		cfg.Log.Info("Booking events disabled")
		return bookingevents.NewNopPublisher()
	}

	producer, err := kafka.NewProducer(kafkaconfig.Load(), cfg.EventsTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}

	cfg.Log.Info("Booking events enabled", "topic", cfg.EventsTopic)
	return bookingevents.NewKafkaPublisher(producer, cfg.Log)
}
