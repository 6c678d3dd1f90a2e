package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"crm/pkg/application/service"
	domainservice "crm/pkg/domain/service"
	"crm/pkg/infrastructure/event"
	"crm/pkg/infrastructure/transport"
)

const shutdownTimeout = 10 * time.Second

func runService(cliCtx *cli.Context) error {
	c, err := parseEnv()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cliCtx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	uow, closeStorage, err := openStorage(ctx, c)
	if err != nil {
		return err
	}
	defer closeStorage()

	dispatcher, closeDispatcher := newDispatcher(c)
	defer closeDispatcher()

	api := transport.NewAPI(
		service.NewCustomerService(uow, dispatcher),
		service.NewProductService(uow, dispatcher),
		service.NewOrderService(uow, dispatcher),
		service.NewQueryService(uow),
	)

	httpServer := &http.Server{
		Addr:              c.ServeHTTPAddress,
		Handler:           transport.Router(api),
		ReadHeaderTimeout: 5 * time.Second,
	}
	grpcServer := transport.NewGRPCServer(api)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithField("address", c.ServeHTTPAddress).Info("starting http server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "http server")
		}
		return nil
	})
	g.Go(func() error {
		lis, err := net.Listen("tcp", c.ServeGRPCAddress)
		if err != nil {
			return errors.Wrapf(err, "listen on %s", c.ServeGRPCAddress)
		}
		log.WithField("address", c.ServeGRPCAddress).Info("starting grpc server")
		return errors.Wrap(grpcServer.Serve(lis), "grpc server")
	})
	g.Go(func() error {
		<-gCtx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		grpcServer.GracefulStop()
		return errors.Wrap(httpServer.Shutdown(shutdownCtx), "shutdown http server")
	})

	return g.Wait()
}

func newDispatcher(c *config) (domainservice.EventDispatcher, func()) {
	if len(c.KafkaBrokers) == 0 {
		return event.NewLogDispatcher(), func() {}
	}

	writer := event.NewKafkaWriter(c.KafkaBrokers, c.KafkaTopic)
	log.WithFields(log.Fields{"brokers": c.KafkaBrokers, "topic": c.KafkaTopic}).Info("publishing events to kafka")
	return event.NewKafkaDispatcher(writer), func() {
		if err := writer.Close(); err != nil {
			log.WithError(err).Error("failed to close kafka writer")
		}
	}
}
