package logging

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

var log *logrus.Logger

// InitLogger initializes the structured logger with JSON format
func InitLogger() *logrus.Logger {
	log = logrus.New()

	log.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339Nano,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "ts",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})

	log.SetOutput(os.Stderr)

	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		log.SetLevel(logrus.DebugLevel)
	case "warn":
		log.SetLevel(logrus.WarnLevel)
	case "error":
		log.SetLevel(logrus.ErrorLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}

	return log
}

// GetLogger returns the global logger instance
func GetLogger() *logrus.Logger {
	if log == nil {
		return InitLogger()
	}
	return log
}

// Event types as constants
const (
	EventOrderRejected    = "order_rejected"
	EventOrderCancelled   = "order_cancelled"
	EventBatchCleared     = "batch_cleared"
	EventSimulationDone   = "simulation_complete"
	EventBenchmarkDone    = "benchmark_complete"
	EventServerStarted    = "server_started"
	EventSinkError        = "sink_error"
	EventGeneratorStarted = "generator_started"
)

// LogOrderRejected logs an order rejected at the validation boundary
func LogOrderRejected(orderID int64, reason string) {
	GetLogger().WithFields(logrus.Fields{
		"event":    EventOrderRejected,
		"order_id": orderID,
		"reason":   reason,
	}).Warn("Order rejected")
}

// LogBatchCleared logs the outcome of one auction interval
func LogBatchCleared(intervalID int64, orders, trades int, volume int64, clearingPrice string) {
	GetLogger().WithFields(logrus.Fields{
		"event":          EventBatchCleared,
		"interval_id":    intervalID,
		"orders":         orders,
		"trades":         trades,
		"volume":         volume,
		"clearing_price": clearingPrice,
	}).Info("Batch interval cleared")
}

// LogSimulationDone logs simulation completion
func LogSimulationDone(mode string, orders, trades int, duration time.Duration) {
	GetLogger().WithFields(logrus.Fields{
		"event":       EventSimulationDone,
		"mode":        mode,
		"orders":      orders,
		"trades":      trades,
		"duration_ms": duration.Milliseconds(),
	}).Info("Simulation complete")
}

// LogServerStarted logs server startup
func LogServerStarted(addr string) {
	GetLogger().WithFields(logrus.Fields{
		"event":   EventServerStarted,
		"address": addr,
	}).Info("Server started")
}

// LogSinkError logs a failure in an optional trade/quote sink
func LogSinkError(sink string, err error) {
	GetLogger().WithFields(logrus.Fields{
		"event": EventSinkError,
		"sink":  sink,
		"error": err.Error(),
	}).Error("Sink error")
}
