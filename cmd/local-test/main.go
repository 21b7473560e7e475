package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/viper"

	"github.com/SilverCare-Graduation-Project/Backend/internal/alerts"
	"github.com/SilverCare-Graduation-Project/Backend/internal/ingestion"
	"github.com/SilverCare-Graduation-Project/Backend/internal/notifier"
	"github.com/SilverCare-Graduation-Project/Backend/internal/telemetry"
	"github.com/SilverCare-Graduation-Project/Backend/pkg/db"
	"github.com/SilverCare-Graduation-Project/Backend/pkg/logger"
)

// Local development harness: wraps the Lambda handler behind a plain HTTP
// server so the pipeline can be exercised without deploying. Same stores,
// same handler, only the transport differs.
func main() {
	log := logger.InitLogger()

	viper.SetConfigName("local")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()
	viper.SetDefault("listen_addr", ":8080")

	if err := viper.ReadInConfig(); err != nil {
		log.Warn("No local config file, using defaults and environment", "error", err)
	}

	if err := db.NewDynamoDBClient(context.Background()); err != nil {
		log.Error("Failed to initialize DynamoDB", "error", err)
		os.Exit(1)
	}

	recordStore, err := telemetry.NewRecordStore()
	if err != nil {
		log.Error("Failed to init record store", "error", err)
		os.Exit(1)
	}

	statusStore, err := alerts.NewStatusStore()
	if err != nil {
		log.Error("Failed to init alert status store", "error", err)
		os.Exit(1)
	}

	mailer, err := notifier.NewMailer(log)
	if err != nil {
		log.Error("Failed to init mailer", "error", err)
		os.Exit(1)
	}

	service := &ingestion.Service{
		Logger:  log,
		Records: recordStore,
		Tracker: alerts.NewTracker(statusStore, log),
		Mailer:  mailer,
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// HTTP surface, forwarded as gateway-shaped events.
	r.Post("/sensor", forward(service))
	r.Get("/sensor", forward(service))
	r.Post("/alert", forward(service))

	// Direct path: the request body IS the event, as an IoT rule would
	// deliver it.
	r.Post("/ingest", func(w http.ResponseWriter, r *http.Request) {
		var event map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
			http.Error(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
		writeResponse(r.Context(), w, service, event)
	})

	addr := viper.GetString("listen_addr")
	log.Info("Local harness listening", "addr", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func forward(service *ingestion.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "failed to read body", http.StatusBadRequest)
			return
		}

		event := map[string]interface{}{
			"httpMethod": r.Method,
			"path":       r.URL.Path,
		}
		if len(body) > 0 {
			event["body"] = string(body)
		}

		writeResponse(r.Context(), w, service, event)
	}
}

func writeResponse(ctx context.Context, w http.ResponseWriter, service *ingestion.Service, event map[string]interface{}) {
	resp, err := service.HandleRequest(ctx, event)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	for name, value := range resp.Headers {
		w.Header().Set(name, value)
	}
	w.WriteHeader(resp.StatusCode)
	_, _ = w.Write([]byte(resp.Body))
}
