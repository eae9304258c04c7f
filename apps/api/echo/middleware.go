package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// principalMiddleware rejects tokens without a subject and stores the request's Principal.
func principalMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		claims, err := getContextClaims(ctx)
		if err != nil {
			return errors.Wrap(err, "getting context claims")
		}
		prn := claims.Principal()
		if prn.IsZero() {
			return errUnauthorized
		}
		ctx.Set(contextPrincipalKey, prn)
		return next(ctx)
	}
}
