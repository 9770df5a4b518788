package main

import (
	"context"
	"fmt"

	"github.com/nerrad567/brewshell/internal/drivers/connect"
	"github.com/nerrad567/brewshell/internal/handler"
	"github.com/nerrad567/brewshell/internal/history"
	"github.com/nerrad567/brewshell/internal/infrastructure/config"
	"github.com/nerrad567/brewshell/internal/infrastructure/database"
	"github.com/nerrad567/brewshell/internal/infrastructure/influxdb"
	"github.com/nerrad567/brewshell/internal/infrastructure/logging"
	"github.com/nerrad567/brewshell/internal/infrastructure/mqtt"
	"github.com/nerrad567/brewshell/internal/router"
	"github.com/nerrad567/brewshell/internal/rtu"
	"github.com/nerrad567/brewshell/internal/shell"
	"github.com/nerrad567/brewshell/internal/telemetry"
	"github.com/nerrad567/brewshell/migrations"
)

// app holds everything a session needs, wired from configuration.
type app struct {
	cfg     *config.Config
	log     *logging.Logger
	rtu     *rtu.RTU
	session *shell.Session

	closers []func()
}

// setup loads both config files and wires the session. Config and RTU conf
// failures are fatal. MQTT and InfluxDB are optional: if they cannot be
// reached the shell runs without them.
func setup(ctx context.Context, configPath string, connector handler.Connector) (*app, error) {
	log := logging.Default()

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	log = logging.New(cfg.Logging, version)
	log.Info("configuration loaded", "path", configPath)

	unit, err := rtu.Load(cfg.RTU.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("loading rtu config %s: %w", cfg.RTU.ConfigFile, err)
	}
	reg, err := rtu.FromRTU(unit)
	if err != nil {
		return nil, fmt.Errorf("loading rtu config %s: %w", cfg.RTU.ConfigFile, err)
	}
	log.Info("rtu loaded", "rtu", unit.ID, "devices", reg.Len())

	a := &app{cfg: cfg, log: log, rtu: unit}

	var recorders []telemetry.Recorder
	var repo history.Repository

	if cfg.Database.Enabled {
		db, err := database.Open(database.ConfigFrom(cfg.Database))
		if err != nil {
			a.close()
			return nil, fmt.Errorf("opening database: %w", err)
		}
		a.onClose(func() {
			if closeErr := db.Close(); closeErr != nil {
				log.Error("error closing database", "error", closeErr)
			}
		})
		if err := db.Migrate(ctx, migrations.FS); err != nil {
			a.close()
			return nil, fmt.Errorf("running migrations: %w", err)
		}

		sqliteRepo := history.NewSQLiteRepository(db.DB)
		rec := history.NewRecorder(sqliteRepo, history.NewSessionID())
		rec.SetLogger(log)
		repo = sqliteRepo
		recorders = append(recorders, rec)
		log.Info("command history enabled", "path", cfg.Database.Path)
	}

	if cfg.MQTT.Enabled {
		if mqttClient, err := mqtt.Connect(cfg.MQTT); err != nil {
			log.Warn("MQTT unavailable, state will not be published", "error", err)
		} else {
			mqttClient.SetLogger(log)
			a.onClose(func() {
				if closeErr := mqttClient.Close(); closeErr != nil {
					log.Error("error closing MQTT", "error", closeErr)
				}
			})
			sink := telemetry.NewMQTTSink(mqttClient)
			sink.SetLogger(log)
			recorders = append(recorders, sink)
			log.Info("MQTT connected", "broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port))
		}
	}

	if cfg.InfluxDB.Enabled {
		if influxClient, err := influxdb.Connect(cfg.InfluxDB); err != nil {
			log.Warn("InfluxDB unavailable, readings will not be recorded", "error", err)
		} else {
			influxClient.SetOnError(func(err error) {
				log.Error("InfluxDB write error", "error", err)
			})
			a.onClose(func() {
				if closeErr := influxClient.Close(); closeErr != nil {
					log.Error("error closing InfluxDB", "error", closeErr)
				}
			})
			recorders = append(recorders, telemetry.NewInfluxSink(influxClient))
			log.Info("InfluxDB connected", "url", cfg.InfluxDB.URL, "bucket", cfg.InfluxDB.Bucket)
		}
	}

	if connector == nil {
		serial := connect.NewSerial()
		serial.SetLogger(log)
		connector = serial
	}

	r, err := router.New(reg, connector, router.Options{
		Handler:  handler.Options{WatchInterval: cfg.GetWatchInterval()},
		Recorder: telemetry.Combine(recorders...),
	})
	if err != nil {
		a.close()
		return nil, fmt.Errorf("building router: %w", err)
	}
	r.SetLogger(log)

	a.session, err = shell.NewSession(r, shell.Options{History: repo})
	if err != nil {
		a.close()
		return nil, err
	}

	return a, nil
}

func (a *app) onClose(fn func()) {
	a.closers = append(a.closers, fn)
}

// close releases resources in reverse order of acquisition.
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
