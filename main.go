// Package main Pinakes reservation API.
//
// @title           Pinakes Reservation API
// @version         1.0
// @description     Copy-availability and reservation-scheduling engine for the Pinakes catalog.
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/fabiodalez-dev/Pinakes-sub005/app/echoServer"
	availabilityctrl "github.com/fabiodalez-dev/Pinakes-sub005/app/echoServer/controller/availability"
	reservationctrl "github.com/fabiodalez-dev/Pinakes-sub005/app/echoServer/controller/reservation"
	"github.com/fabiodalez-dev/Pinakes-sub005/app/echoServer/validation"
	"github.com/fabiodalez-dev/Pinakes-sub005/config"
	intervalrepo "github.com/fabiodalez-dev/Pinakes-sub005/repository/interval"
	titlerepo "github.com/fabiodalez-dev/Pinakes-sub005/repository/title"
	"github.com/fabiodalez-dev/Pinakes-sub005/service/maintenance"
	reservationsvc "github.com/fabiodalez-dev/Pinakes-sub005/service/reservation"
	"github.com/fabiodalez-dev/Pinakes-sub005/util/database"

	"github.com/go-playground/validator/v10"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// DB: *sql.DB
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	// repos
	tr := titlerepo.New(db)
	ir := intervalrepo.New(db)

	// services
	rs := reservationsvc.New(db, tr, ir, log)
	sw := maintenance.New(ir, log)

	// controllers
	v := validator.New()
	availabilityC := &availabilityctrl.Controller{Svc: rs, Log: log}
	reservationC := &reservationctrl.Controller{Svc: rs, V: v, Log: log}

	// overdue loans get re-tagged out of band, never by the engine itself
	maintenance.Run(ctx, sw, cfg.SweepInterval, log)

	// echo
	e := echo.New()
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Availability: availabilityC,
		Reservation:  reservationC,

		JWTSecret: cfg.JWTSecret,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}
	if port == "" {
		port = "8080"
	}

	slog.Info("starting server", "PORT_env", os.Getenv("PORT"), "chosen_port", port)

	e.Logger.Fatal(e.Start(":" + port))
}
