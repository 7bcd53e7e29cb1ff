package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/harp-tech/faststepper-go/pkg/config"
	"github.com/harp-tech/faststepper-go/pkg/device"
	"github.com/harp-tech/faststepper-go/pkg/log"
	"github.com/harp-tech/faststepper-go/pkg/register"
	"github.com/harp-tech/faststepper-go/pkg/simulator"
	"github.com/harp-tech/faststepper-go/pkg/transport"
)

// session is an open connection to a device plus everything attached to it.
type session struct {
	cfg    config.Config
	logger *slog.Logger
	conn   *transport.Conn
	client *device.Client

	closers []func() error
}

func openSession(ctx context.Context, cfg config.Config, logger *slog.Logger) (_ *session, err error) {
	s := &session{cfg: cfg, logger: logger}
	defer func() {
		if err != nil {
			s.Close()
		}
	}()

	protocol, err := s.protocolLogger()
	if err != nil {
		return nil, err
	}
	metrics, err := s.startMetrics()
	if err != nil {
		return nil, err
	}

	connOpts := []transport.Option{
		transport.WithLogger(logger),
		transport.WithProtocolLogger(protocol),
		transport.WithSchema(register.FastStepperDevice),
	}
	if cfg.Client.Simulate {
		s.conn = s.startSimulator(ctx, connOpts)
	} else {
		if cfg.Serial.Port == "" {
			return nil, errors.New("no serial port given (use -port, a config file or -simulate)")
		}
		if s.conn, err = transport.Open(cfg.Serial.TransportConfig(), connOpts...); err != nil {
			return nil, err
		}
	}
	s.closers = append(s.closers, s.conn.Close)

	s.client, err = device.Open(ctx, s.conn,
		device.WithRequestTimeout(cfg.Client.RequestTimeout),
		device.WithExpectedIdentity(cfg.Client.WhoAmI),
		device.WithLogger(logger),
		device.WithProtocolLogger(protocol),
		device.WithMetrics(metrics),
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// protocolLogger builds the capture logger from the configuration.
func (s *session) protocolLogger() (log.Logger, error) {
	var loggers []log.Logger
	if s.cfg.Capture.File != "" {
		fl, err := log.NewFileLogger(s.cfg.Capture.File)
		if err != nil {
			return nil, fmt.Errorf("open capture file: %w", err)
		}
		s.closers = append(s.closers, func() error {
			s.logger.Info("capture written", "file", s.cfg.Capture.File, "events", fl.Count())
			return fl.Close()
		})
		loggers = append(loggers, fl)
	}
	if s.cfg.Capture.Console {
		loggers = append(loggers, log.NewSlogAdapter(s.logger))
	}
	if len(loggers) == 0 {
		return log.NoopLogger{}, nil
	}
	return log.NewMultiLogger(loggers...), nil
}

// startMetrics serves Prometheus metrics when an address is configured.
func (s *session) startMetrics() (*device.Metrics, error) {
	if s.cfg.Metrics.Listen == "" {
		return nil, nil
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m, err := device.NewMetrics(reg)
	if err != nil {
		return nil, err
	}

	ln, err := net.Listen("tcp", s.cfg.Metrics.Listen)
	if err != nil {
		return nil, fmt.Errorf("metrics listener: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("metrics server failed", "error", err)
		}
	}()
	s.logger.Info("serving metrics", "addr", ln.Addr().String())

	s.closers = append(s.closers, func() error {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	})
	return m, nil
}

// startSimulator connects to an in-process simulated device.
func (s *session) startSimulator(ctx context.Context, opts []transport.Option) *transport.Conn {
	host, dev := net.Pipe()
	sim := simulator.New(simulator.WithLogger(s.logger))

	simCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := sim.Serve(simCtx, dev); err != nil {
			s.logger.Error("simulator stopped", "error", err)
		}
	}()
	s.closers = append(s.closers, func() error {
		cancel()
		<-done
		return nil
	})

	s.logger.Info("using simulated device")
	return transport.New(host, append(opts, transport.WithTarget("simulator"))...)
}

// Close releases resources in reverse order of acquisition.
func (s *session) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			s.logger.Warn("close failed", "error", err)
		}
	}
	s.closers = nil
}
