package echoServer

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	availabilityctrl "github.com/fabiodalez-dev/Pinakes-sub005/app/echoServer/controller/availability"
	reservationctrl "github.com/fabiodalez-dev/Pinakes-sub005/app/echoServer/controller/reservation"
	"github.com/fabiodalez-dev/Pinakes-sub005/app/echoServer/jwtx"
)

type C struct {
	Availability *availabilityctrl.Controller
	Reservation  *reservationctrl.Controller
	JWTSecret    string
}

func Register(e *echo.Echo, c C) {
	// Public: the availability calendar is browsable without a token.
	pub := e.Group("/v1")
	pub.GET("/titles/:id/availability", c.Availability.Get)

	// Bearer token required: these need an authenticated user identity.
	// Tokens are issued by the external auth gateway; we only verify.
	auth := e.Group("/v1")
	auth.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(c.JWTSecret),

		NewClaimsFunc: func(c echo.Context) jwt.Claims { return jwt.MapClaims{} },
		TokenLookup:   "header:Authorization",
	}))
	auth.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			uid, err := jwtx.UserIDFromContext(ctx)
			if err != nil {
				reqID := ctx.Response().Header().Get(echo.HeaderXRequestID)
				ctx.Logger().Warnf("[AUTH] %v req_id=%s ip=%s", err, reqID, ctx.RealIP())
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
			ctx.Set("user_id", uid)
			return next(ctx)
		}
	})

	auth.POST("/titles/:id/reservations", c.Reservation.Create)
	auth.GET("/titles/:id/queue", c.Reservation.Queue)
	auth.GET("/reservations/:id/position", c.Reservation.Position)
}
