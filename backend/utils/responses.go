package utils

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/ellavondegurechaff/foodgram/backend/models"
	"github.com/ellavondegurechaff/foodgram/internal/domain/auth"
)

// SendJSON sends a JSON response using Fiber
func SendJSON(c *fiber.Ctx, statusCode int, data interface{}) error {
	return c.Status(statusCode).JSON(data)
}

func SendOK(c *fiber.Ctx, data interface{}) error {
	return SendJSON(c, http.StatusOK, data)
}

func SendCreated(c *fiber.Ctx, data interface{}) error {
	return SendJSON(c, http.StatusCreated, data)
}

// SendError sends an error JSON response
func SendError(c *fiber.Ctx, statusCode int, code, message string, details map[string]string) error {
	response := models.NewErrorResponse(code, message, details)
	return SendJSON(c, statusCode, response)
}

func SendBadRequest(c *fiber.Ctx, message string, details map[string]string) error {
	return SendError(c, http.StatusBadRequest, "BAD_REQUEST", message, details)
}

func SendUnauthorized(c *fiber.Ctx, message string) error {
	return SendError(c, http.StatusUnauthorized, "UNAUTHORIZED", message, nil)
}

func SendForbidden(c *fiber.Ctx, message string) error {
	return SendError(c, http.StatusForbidden, "FORBIDDEN", message, nil)
}

func SendNotFound(c *fiber.Ctx, message string) error {
	return SendError(c, http.StatusNotFound, "NOT_FOUND", message, nil)
}

func SendInternalServerError(c *fiber.Ctx, message string) error {
	return SendError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", message, nil)
}

func SendNoContent(c *fiber.Ctx) error {
	return c.SendStatus(http.StatusNoContent)
}

// SendPage sends one page of results with next and previous links built from
// the request URL. offset is the index of the first result in the full listing.
func SendPage(c *fiber.Ctx, results interface{}, shown, count, page, offset int) error {
	if page < 1 {
		page = 1
	}
	resp := models.PageResponse{Count: count, Results: results}
	if offset+shown < count {
		next := PageURL(c, page+1)
		resp.Next = &next
	}
	if page > 1 {
		prev := PageURL(c, page-1)
		resp.Previous = &prev
	}
	return SendOK(c, resp)
}

// PageURL returns the current request URL with its page parameter replaced.
func PageURL(c *fiber.Ctx, page int) string {
	u, err := url.Parse(c.OriginalURL())
	if err != nil {
		return ""
	}
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	return c.BaseURL() + u.Path + "?" + q.Encode()
}

// ExtractClaims returns the token claims stored by the auth middleware.
func ExtractClaims(c *fiber.Ctx) (*auth.Claims, bool) {
	claims, ok := c.Locals("user").(*auth.Claims)
	return claims, ok && claims != nil
}

// ViewerID is the authenticated user's id, or zero for anonymous requests.
func ViewerID(c *fiber.Ctx) int64 {
	if claims, ok := ExtractClaims(c); ok {
		return claims.UserID
	}
	return 0
}

// GetIPAddress extracts the client IP address
func GetIPAddress(c *fiber.Ctx) string {
	if xri := c.Get("X-Real-IP"); xri != "" {
		return xri
	}
	if ips := c.IPs(); len(ips) > 0 {
		return ips[0]
	}
	return c.IP()
}

func GetUserAgent(c *fiber.Ctx) string {
	return c.Get("User-Agent")
}
