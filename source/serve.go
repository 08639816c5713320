package main

import (
	"commandcenter/source/database"
	"commandcenter/source/entities/pipeline"
	"commandcenter/source/entities/report"
	"commandcenter/source/entities/vendors"
	"commandcenter/source/middlewares"
	"commandcenter/source/utils"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"golang.org/x/sync/errgroup"
)

const SHUTDOWN_TIMEOUT = 15 * time.Second

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API and the board websocket",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx)
		},
	}
}

type routerDeps struct {
	pipeline  *pipeline.Handler
	report    *report.Handler
	accessPin string
}

func serve(ctx context.Context) error {
	// One client serves both the mongo pipeline store and the finance reports.
	var mongoClient *mongo.Client
	if uri := os.Getenv(utils.MONGODB_URI); uri != "" {
		client, err := database.ConnectMongo(ctx, uri)
		if err != nil {
			return err
		}
		defer client.Disconnect(context.Background())
		mongoClient = client
	}

	store, err := database.OpenPipelineStore(ctx, mongoClient)
	if err != nil {
		return fmt.Errorf("open pipeline store: %w", err)
	}
	defer store.Close(context.Background())

	var deduper pipeline.Deduper
	if uri := os.Getenv(utils.REDIS_URI); uri != "" {
		client, err := database.ConnectRedis(ctx, uri)
		if err != nil {
			return err
		}
		defer client.Close()
		deduper = database.NewRedisDeduper(client, database.IDEMPOTENCY_KEY_TTL)
	} else {
		log.Info("REDIS_URI not set, Idempotency-Key headers are ignored")
	}

	var finance report.FinanceStore
	if mongoClient != nil {
		finance = database.NewMongoFinanceStore(mongoClient, database.GetDB())
	} else {
		log.Info("MONGODB_URI not set, financial reports are disabled")
	}

	accessPin := os.Getenv(utils.ACCESS_PIN)
	handler := newRouter(routerDeps{
		pipeline:  pipeline.NewHandler(store, deduper, utils.DragActivationDistance(), middlewares.AllowedOrigins(), accessPin),
		report:    report.NewHandler(finance),
		accessPin: accessPin,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", os.Getenv(utils.PORT)),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithFields(log.Fields{
			"port":    os.Getenv(utils.PORT),
			"gateway": utils.GatewayDriver(),
		}).Info("server started")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), SHUTDOWN_TIMEOUT)
		defer cancel()

		log.Info("shutting down")
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newRouter(deps routerDeps) http.Handler {
	mux := http.NewServeMux()
	auth := middlewares.PinAuth(deps.accessPin)

	mux.Handle("GET /v1/pipeline/stages", auth(http.HandlerFunc(deps.pipeline.GetAllStages)))
	mux.Handle("GET /v1/pipeline", auth(http.HandlerFunc(deps.pipeline.GetAll)))
	mux.Handle("GET /v1/pipeline/{id}", auth(http.HandlerFunc(deps.pipeline.GetOne)))
	mux.Handle("GET /v1/pipeline/{id}/history", auth(http.HandlerFunc(deps.pipeline.GetOneHistory)))
	mux.Handle("PATCH /v1/pipeline/{id}/stage", auth(http.HandlerFunc(deps.pipeline.UpdateOneStage)))
	mux.HandleFunc("GET /v1/ws/pipeline", deps.pipeline.BoardWebSocketHandler)

	mux.Handle("GET /v1/reports/profit-and-loss", auth(http.HandlerFunc(deps.report.GetProfitAndLoss)))

	mux.Handle("GET /v1/vendors/criteria", auth(http.HandlerFunc(vendors.GetCriteria)))
	mux.Handle("POST /v1/vendors/score", auth(http.HandlerFunc(vendors.Score)))

	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.SendResponse(w, http.StatusOK, "ok", nil, 0)
	})

	return middlewares.SecurityHeaders(middlewares.Cors(middlewares.RequestLogger(mux)))
}
