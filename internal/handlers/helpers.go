package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// errorJSON writes the error response shape used across the API.
func errorJSON(c echo.Context, code int, message string) error {
	return c.JSON(code, echo.Map{"error": message})
}

// currentUserID reads the authenticated user's id set by the JWT middleware.
func currentUserID(c echo.Context) (primitive.ObjectID, error) {
	raw, ok := c.Get("userID").(string)
	if !ok || raw == "" {
		return primitive.NilObjectID, echo.NewHTTPError(http.StatusUnauthorized, "Missing authentication context")
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, echo.NewHTTPError(http.StatusUnauthorized, "Malformed authentication context")
	}
	return id, nil
}
