// Package auth issues and reads the JWT identity the HTTP surface runs
// under. Credential verification itself lives outside this system; a
// token's subject is the user id every other component keys on.
package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"pantrypal/internal/errors"
)

// CurrentUserID extracts the signed-in user's id from the validated
// token the JWT middleware stored on the context.
func CurrentUserID(c echo.Context) (string, error) {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return "", errors.ErrAuthRequired
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.ErrAuthRequired
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", errors.ErrAuthRequired
	}
	return sub, nil
}
