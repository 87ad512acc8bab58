package bancho

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/udisondev/gosu/internal/bancho/serverpackets"
)

const choTokenHeader = "cho-token"

// RegisterRoutes mounts the Bancho endpoint on e.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/", s.handleIndex)
	e.POST("/", s.handleBancho)
}

func (s *Server) handleIndex(c echo.Context) error {
	return c.String(http.StatusOK, "Running Bancho over HTTP. Connect with an osu! client.")
}

// handleBancho is the single protocol endpoint: a request without an
// osu-token header is a login, everything else is a packet stream for
// the session the token resolves to.
func (s *Server) handleBancho(c echo.Context) error {
	if c.Request().Header.Get("User-Agent") != "osu!" {
		return c.String(http.StatusBadRequest, "")
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		s.log.Warn("unreadable request body", "err", err)
		return c.String(http.StatusBadRequest, "")
	}

	token := c.Request().Header.Get("osu-token")
	if token == "" {
		newToken, resp := s.HandleLogin(c.Request().Context(), body, c.RealIP())
		c.Response().Header().Set(choTokenHeader, newToken)
		return c.Blob(http.StatusOK, echo.MIMEOctetStream, resp)
	}

	p := s.Sessions.GetByToken(token)
	if p == nil {
		// the server restarted under the client; tell it to reconnect
		out := serverpackets.Notification("Server has restarted.")
		out = append(out, serverpackets.Restart(0)...)
		return c.Blob(http.StatusOK, echo.MIMEOctetStream, out)
	}

	return c.Blob(http.StatusOK, echo.MIMEOctetStream, s.HandlePackets(p, body))
}
