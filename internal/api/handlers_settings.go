package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/transcripthub/backend/internal/settings"
)

// HandleGetSettings returns the current settings.
func (h *Handler) HandleGetSettings(c echo.Context) error {
	return c.JSON(http.StatusOK, h.settings.Get())
}

// HandleUpdateSettings replaces the settings wholesale. The client always
// submits the full document; validation failure leaves the stored settings
// untouched.
func (h *Handler) HandleUpdateSettings(c echo.Context) error {
	var req settings.Settings
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}
	if err := h.settings.Save(req); err != nil {
		return NewValidationError(err.Error())
	}
	return c.JSON(http.StatusOK, h.settings.Get())
}
