package builder

import (
	"context"
	goerrors "errors"
	"fmt"
	"net/http"
	"time"

	"shockburst-bridge/pkg/config"
	"shockburst-bridge/pkg/errors"
	"shockburst-bridge/pkg/health"
	"shockburst-bridge/pkg/logger"
	"shockburst-bridge/pkg/metrics"
	"shockburst-bridge/pkg/mqtt"
	"shockburst-bridge/pkg/services"
	"shockburst-bridge/pkg/source"
)

// Application wires the capture source, scanner and publisher together
type Application struct {
	config       *config.Config
	source       source.Source
	publisher    services.PublisherInterface
	connection   mqtt.ConnectionManager // nil when MQTT is disabled or injected
	metrics      metrics.MetricsCollector
	tracker      *metrics.PerformanceTracker
	monitor      *health.SourceMonitor
	errorHandler *errors.ErrorHandler
	bridge       *services.BridgeService
	heartbeat    *services.HeartbeatService
	server       *http.Server
	log          logger.ILogger
}

// Run connects to the broker and bridges captures until the source is exhausted or ctx is
// cancelled
func (app *Application) Run(ctx context.Context) error {
	app.log.LogInfo("🚀 Starting ShockBurst bridge...")

	if app.connection != nil {
		if err := app.connection.Connect(ctx); err != nil {
			return fmt.Errorf("error connecting publisher: %w", err)
		}
	}

	if err := app.publisher.PublishStatusOnline(ctx); err != nil {
		app.log.LogError("⚠️ Error publishing online status: %v", err)
	} else if err := app.publisher.PublishDiagnostic(ctx, 0, "ShockBurst bridge started successfully"); err != nil {
		app.log.LogError("⚠️ Error publishing diagnostic: %v", err)
	}

	if app.server != nil {
		go func() {
			app.log.LogInfo("📈 Serving /health and /metrics on %s", app.server.Addr)
			if err := app.server.ListenAndServe(); err != nil && !goerrors.Is(err, http.ErrServerClosed) {
				app.log.LogError("❌ HTTP server error: %v", err)
			}
		}()
	}

	if app.heartbeat != nil {
		go app.heartbeat.Start(ctx)
	}

	app.log.LogInfo("✅ ShockBurst bridge started (source: %s)", app.config.Source.Type)
	return app.bridge.Run(ctx, app.source)
}

// Stop publishes the offline status and releases the source, server and broker connection
func (app *Application) Stop() {
	app.log.LogInfo("🛑 Stopping ShockBurst bridge...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.publisher.PublishStatusOffline(ctx); err != nil {
		app.log.LogError("⚠️ Error publishing offline status: %v", err)
	} else if err := app.publisher.PublishDiagnostic(ctx, 0, "ShockBurst bridge stopped gracefully"); err != nil {
		app.log.LogError("⚠️ Error publishing diagnostic: %v", err)
	}

	if err := app.source.Close(); err != nil {
		app.log.LogWarn("⚠️ Error closing source: %v", err)
	}

	if app.server != nil {
		if err := app.server.Shutdown(ctx); err != nil {
			app.log.LogWarn("⚠️ Error stopping HTTP server: %v", err)
		}
	}

	if app.connection != nil {
		app.connection.Disconnect()
	}

	stats := app.tracker.GetStats()
	app.log.LogInfo("✅ ShockBurst bridge stopped (decoded: %d, CRC errors: %d in last window)",
		stats.Decoded, stats.Mismatched)
}

// GetConfig returns the application configuration
func (app *Application) GetConfig() *config.Config {
	return app.config
}

// GetHealthMonitor returns the source monitor
func (app *Application) GetHealthMonitor() *health.SourceMonitor {
	return app.monitor
}

// GetTracker returns the decode tracker
func (app *Application) GetTracker() *metrics.PerformanceTracker {
	return app.tracker
}

// GetServer returns the HTTP server, nil when metrics_port is 0
func (app *Application) GetServer() *http.Server {
	return app.server
}
