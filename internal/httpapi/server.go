package httpapi

import (
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/sudo-init-do/artisanhub/internal/directory"
	"github.com/sudo-init-do/artisanhub/internal/platform"
)

// Dispatcher is the interaction entry point the webhook feeds; the bot's
// Dispatch method satisfies it.
type Dispatcher func(ctx context.Context, in platform.Interaction)

// New builds the service surface: health, directory stats, and the webhook
// inbound path for platforms that deliver interactions over HTTP instead of
// the gateway socket. Requests are authenticated by the platform's ed25519
// signature headers.
func New(store *directory.Store, dispatch Dispatcher, verifyKey ed25519.PublicKey) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.GET("/health", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	e.GET("/directory/stats", func(c echo.Context) error {
		return c.JSON(http.StatusOK, store.TotalStats())
	})

	e.POST("/interactions", func(c echo.Context) error {
		body, err := io.ReadAll(c.Request().Body)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unreadable body"})
		}

		if len(verifyKey) == ed25519.PublicKeySize {
			sigHex := c.Request().Header.Get("X-Signature-Ed25519")
			ts := c.Request().Header.Get("X-Signature-Timestamp")
			sig, err := hex.DecodeString(sigHex)
			if err != nil || !ed25519.Verify(verifyKey, append([]byte(ts), body...), sig) {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid request signature"})
			}
		}

		var in platform.Interaction
		if err := json.Unmarshal(body, &in); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid interaction payload"})
		}
		dispatch(c.Request().Context(), in)
		return c.JSON(http.StatusOK, echo.Map{"ack": true})
	})

	return e
}
