package main

import (
	"context"
	"net/http"

	_ "transport-editor/docs"
	"transport-editor/internal/config"
	"transport-editor/internal/handler"
	"transport-editor/internal/logging"
	"transport-editor/internal/metrics"
	"transport-editor/internal/repository"
	"transport-editor/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title			Transport Editor API
// @version		1.0
// @description	Edits the transport phase of product custom data and writes it to the product registry.
// @BasePath		/
func main() {
	config, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger := logging.Setup(config.LogLevel, config.LogFormat)

	// Database connection
	conn, err := pgxpool.New(context.Background(), config.DBSource)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot connect to db")
	}
	defer conn.Close()

	if err := repository.EnsureSchema(context.Background(), conn, config.PlacesTable); err != nil {
		log.Fatal().Err(err).Msg("cannot prepare schema")
	}

	// Initialize layers
	placeRepo := repository.NewPlaceRepository(conn, config.PlacesTable)
	registryRepo := repository.NewRegistryRepository(conn)

	placeService := service.NewPlaceService(placeRepo, config.SuggestLimit)
	transportService := service.NewTransportService(registryRepo, placeService,
		service.WithResourceBudget(config.ResourceBudget),
		service.WithSessionTTL(config.SessionTTL),
		service.WithLogger(logger.With().Str("component", "transport").Logger()),
		service.WithMetrics(metrics.New(prometheus.DefaultRegisterer)),
	)

	go transportService.Run(context.Background(), config.SessionSweepInterval)

	placeHandler := handler.NewPlaceHandler(placeService)
	transportHandler := handler.NewTransportHandler(transportService)

	corsConfig := cors.Config{
		AllowOrigins: config.CORSAllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
	}
	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	}

	r := gin.Default()
	r.Use(cors.New(corsConfig))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	r.GET("/places", placeHandler.Suggest)
	transportHandler.Register(r)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	log.Info().Str("address", config.ServerAddress).Msg("starting transport editor")
	if err := r.Run(config.ServerAddress); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
