package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"syscall"
	"time"

	"github.com/Dynom/TySug/finder"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/venkm/formrelay/cmd/web/config"
	"github.com/venkm/formrelay/cmd/web/formhttp"
	"github.com/venkm/formrelay/cmd/web/formhttp/handlers"
	"github.com/venkm/formrelay/cmd/web/services"
	"github.com/venkm/formrelay/form"
	"github.com/venkm/formrelay/mailer"
	"github.com/venkm/formrelay/runtimer"
	"github.com/venkm/formrelay/validator"
)

// Version contains the app version, the value is changed during compile time to the appropriate Git tag
var Version = "dev"

func main() {
	// A .env file is a development convenience, deployments set real environment variables
	_ = godotenv.Load()

	conf, err := config.NewConfig("config.toml")
	if err != nil {
		panic(err)
	}

	logger, err := newLogger(conf)
	if err != nil {
		panic(err)
	}

	logger.WithFields(logrus.Fields{
		"version": Version,
	}).Info("Starting up...")

	if conf.SMTP.Sender == "" || conf.SMTP.Recipient == "" {
		logger.Warn("SENDER_EMAIL and/or RECIPIENT_EMAIL are unset, submissions will fail to relay")
	}

	if !conf.Validator.Strict {
		logger.Info("Strict e-mail validation is disabled, domains aren't verified against DNS")
	}

	var resolver *net.Resolver
	if conf.Validator.Resolver != "" {
		logger.WithField("resolver", conf.Validator.Resolver).Info("Using a custom DNS resolver")
		resolver = newCustomResolver(conf.Validator.Resolver)
	} else {
		resolver = net.DefaultResolver
	}

	emailValidator := validator.NewEmailAddressValidator(resolver, conf.Validator.Strict)
	formValidator := form.NewValidator(emailValidator, form.Config{
		RequireMinimumMessageLength: conf.Validator.RequireMinimumMessageLength,
	})

	sender := mailer.NewSMTPSender(mailer.Config{
		Host:           conf.SMTP.Host,
		Port:           conf.SMTP.Port,
		Sender:         conf.SMTP.Sender,
		Password:       conf.SMTP.Password,
		Recipient:      conf.SMTP.Recipient,
		ConnectTimeout: conf.SMTP.ConnectTimeout.AsDuration(),
	})

	myFinder, err := finder.New(
		conf.References["domains"],
		finder.WithLengthTolerance(0.2),
		finder.WithAlgorithm(finder.NewJaroWinklerDefaults()),
	)

	if err != nil {
		panic(err)
	}

	submitSvc := services.NewSubmitService(
		formValidator,
		sender,
		myFinder,
		conf.Validator.LookupTimeout.AsDuration(),
		logger,
	)

	mux := http.NewServeMux()
	mux.HandleFunc("/", newIndexHandler(logger))
	mux.HandleFunc("/contact", NewContactHandler(logger, &submitSvc, int64(conf.Client.InputLengthMax), conf.SMTP.Recipient))
	mux.HandleFunc("/test-email", NewTestEmailHandler(logger, &submitSvc, conf.SMTP.Recipient))
	mux.HandleFunc("/health", NewHealthHandler())

	if conf.Server.Profiler.Enable {
		configureProfiler(mux, conf)
	}

	c := cors.New(cors.Options{
		AllowedOrigins: conf.Server.CORS.AllowedOrigins,
		AllowedHeaders: conf.Server.CORS.AllowedHeaders,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	})

	lw := logger.WriterLevel(logger.Level)
	defer deferClose(lw, logger)

	s, err := formhttp.BuildHTTPServer(mux, conf, logger, lw,
		handlers.WithGzipHandler(),
		handlers.WithHeaders(headersToHTTP(conf.Server.Headers)),
		c.Handler,
		handlers.WithRequestLogger(logger),
	)

	if err != nil {
		logger.WithError(err).Error("Unable to build the HTTP server")
		os.Exit(1)
	}

	rt := runtimer.OnSignal([]runtimer.Callback{
		func(sig os.Signal) {
			logger.WithField("signal", sig).Info("Shutting down")

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := s.Shutdown(ctx); err != nil {
				logger.WithError(err).Error("Shutdown did not complete cleanly")
			}
		},
	}, os.Interrupt, syscall.SIGTERM)

	logger.WithFields(logrus.Fields{
		"listen_on": conf.Server.ListenOn,
	}).Info("Done, serving requests")

	err = s.Serve()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Error("HTTP server stopped")
		return
	}

	// Closed by a signal, let the teardown finish before exiting
	rt.Wait()
}
