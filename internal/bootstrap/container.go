package bootstrap

import (
	"fmt"

	"returns-assistant-be/internal/config"
	"returns-assistant-be/internal/controller"
	"returns-assistant-be/internal/metrics"
	"returns-assistant-be/internal/pkg/logger"
	"returns-assistant-be/internal/service"
	pktNats "returns-assistant-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type Container struct {
	// Controllers
	ReturnsController controller.IReturnsController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Registry *prometheus.Registry
	Logger   logger.ILogger

	core    *Core
	pubSub  *gochannel.GoChannel
	natsPub *pktNats.Publisher
}

func NewContainer(cfg *config.Config) (*Container, error) {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.IsProduction())
	auditLogger := logger.NewIsolatedLogger(cfg.App.AuditLogFilePath)

	core, err := NewCore(cfg, sysLogger)
	if err != nil {
		return nil, fmt.Errorf("bootstrap core: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.MustNewMetrics(registry)

	// 2. Event Bus
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))

	// NATS forwarding is optional
	var forwarder service.EventForwarder
	var natsPub *pktNats.Publisher
	if cfg.Events.NatsURL != "" {
		natsPub, err = pktNats.NewPublisher(cfg.Events.NatsURL, sysLogger.Named("nats"))
		if err != nil {
			sysLogger.Warn("Bootstrap", "Failed to connect to NATS Publisher, events stay local", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			forwarder = natsPub
		}
	}

	// 3. Services
	publisherService := service.NewPublisherService(cfg.Events.Topic, pubSub)
	consumerService := service.NewConsumerService(pubSub, cfg.Events.Topic, auditLogger, forwarder, m, sysLogger)
	returnsService := service.NewReturnsService(
		core.Graph,
		core.Retrieval,
		core.Calculator,
		core.Store,
		publisherService,
		m,
		auditLogger,
		sysLogger,
	)

	// 4. Controllers
	return &Container{
		ReturnsController: controller.NewReturnsController(returnsService),
		ConsumerService:   consumerService,
		Registry:          registry,
		Logger:            sysLogger,
		core:              core,
		pubSub:            pubSub,
		natsPub:           natsPub,
	}, nil
}

func (c *Container) Close() {
	_ = c.pubSub.Close()
	if c.natsPub != nil {
		c.natsPub.Close()
	}
	c.core.Close()
	_ = c.Logger.Sync()
}
