package service

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

type Logger interface {
	Error(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Info(format string, v ...interface{})
	Debug(format string, v ...interface{})
}

type (
	Service interface {
		Name() string
		Init() error
		Run(ctx context.Context) error
		Stop()
	}
	Services interface {
		AddService(service ...Service)
		Run(ctx context.Context) error
	}
	Manager struct {
		log      Logger
		services []Service
	}
)

func NewManager(log Logger) Services {
	return &Manager{log: log}
}

func (s *Manager) AddService(service ...Service) {
	s.services = append(s.services, service...)
}

// Run starts every service and blocks until ctx is done or the process is
// interrupted. A failing Init stops the services started before it.
func (s *Manager) Run(ctx context.Context) error {
	if len(s.services) == 0 {
		return fmt.Errorf("no services configured")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.log.Info("going to start %d services", len(s.services))
	for count, svc := range s.services {
		if err := svc.Init(); err != nil {
			for i := 0; i < count; i++ {
				s.services[i].Stop()
			}
			return fmt.Errorf("failed to init %s: %w", svc.Name(), err)
		}
		go func(svc Service) {
			if err := svc.Run(ctx); err != nil {
				s.log.Error("%s stopped with error: %s", svc.Name(), err.Error())
			}
		}(svc)
		s.log.Info("%s started", svc.Name())
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(c)

	select {
	case <-c:
		s.stop()
	case <-ctx.Done():
		s.stop()
	}

	return nil
}

func (s *Manager) stop() {
	s.log.Info("going to stop")
	for _, svc := range s.services {
		svc.Stop()
	}
}
