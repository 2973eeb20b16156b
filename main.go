package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v2"

	"delaycast/db"
	"delaycast/flights"
	dhttp "delaycast/http"
	"delaycast/logging"
	"delaycast/ml"
	"delaycast/monitoring"
)

type Config struct {
	Dataset struct {
		Path     string `yaml:"path"`
		Encoding string `yaml:"encoding"`
	} `yaml:"dataset"`
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
	Http struct {
		Port           int      `yaml:"port"`
		TimeoutSeconds int      `yaml:"timeout_seconds"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"http"`
	Log logging.Config `yaml:"log"`
}

func main() {
	configPath := flag.String("config", "config.yaml", "config file path")
	flag.Parse()

	// 1. Load config
	config, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(config.Log)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	// 2. Open the audit store
	store, err := db.Open(config.Database.Path)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer store.Close()

	// 3. Train the model. The server must not come up unfitted, so any
	// failure here is fatal.
	model, err := trainModel(config, store, logger)
	if err != nil {
		logger.Fatal("failed to train model", zap.Error(err))
	}

	// 4. Start the monitoring hub and HTTP server
	hub := monitoring.NewHub(logger)
	go hub.Run()
	defer hub.Stop()

	api, err := dhttp.NewAPI(model, store, hub, logger)
	if err != nil {
		logger.Fatal("failed to build API", zap.Error(err))
	}

	serverConfig := dhttp.DefaultServerConfig()
	if config.Http.Port != 0 {
		serverConfig.Port = config.Http.Port
	}
	if config.Http.TimeoutSeconds != 0 {
		serverConfig.Timeout = time.Duration(config.Http.TimeoutSeconds) * time.Second
	}
	if len(config.Http.AllowedOrigins) != 0 {
		serverConfig.AllowedOrigins = config.Http.AllowedOrigins
	}

	server := dhttp.NewServer(serverConfig, api, logger)
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// 5. Handle graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	if err := server.Stop(); err != nil {
		logger.Warn("server shutdown error", zap.Error(err))
	}
}

// trainModel loads the historical dataset and fits the classifier once.
// The returned model is immutable and safe for concurrent prediction.
func trainModel(config *Config, store *db.Store, logger *zap.Logger) (*ml.LogisticClassifier, error) {
	start := time.Now()

	records, err := flights.LoadDataset(config.Dataset.Path, config.Dataset.Encoding)
	if err != nil {
		return nil, err
	}

	features, labels, err := ml.BuildFeatures(records, true)
	if err != nil {
		return nil, err
	}

	model := ml.NewLogisticClassifier()
	if err := model.Fit(features, labels); err != nil {
		return nil, err
	}

	var delayed int
	for _, label := range labels {
		delayed += label
	}
	delayRate := float64(delayed) / float64(len(labels))
	duration := time.Since(start)

	if err := store.SaveTrainingRun(len(records), delayRate, duration); err != nil {
		logger.Warn("failed to record training run", zap.Error(err))
	}

	logger.Info("model trained",
		zap.Int("samples", len(records)),
		zap.Float64("delay_rate", delayRate),
		zap.Duration("duration", duration),
	)
	return model, nil
}

func loadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var config Config
	if err := yaml.NewDecoder(file).Decode(&config); err != nil {
		return nil, err
	}
	return &config, nil
}
