package adapters

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/toyz/relay/pkg/relay"
)

// EchoAdapter mounts a relay.Kernel on an Echo v4 engine. Echo handles the
// transport (listening, TLS, engine middleware); every request is handed to
// the kernel pipeline, and the kernel's error taxonomy is translated to HTTP
// statuses at this boundary.
type EchoAdapter struct {
	engine *echo.Echo
	kernel *relay.Kernel
}

// NewEchoAdapter creates an adapter over an existing Echo instance
func NewEchoAdapter(e *echo.Echo, kernel *relay.Kernel) *EchoAdapter {
	return &EchoAdapter{engine: e, kernel: kernel}
}

// NewDefaultEchoAdapter creates an adapter with a fresh Echo instance
func NewDefaultEchoAdapter(kernel *relay.Kernel) *EchoAdapter {
	e := echo.New()
	e.HideBanner = true
	return &EchoAdapter{engine: e, kernel: kernel}
}

// Mount registers the kernel as a catch-all handler on the engine
func (ea *EchoAdapter) Mount() {
	ea.kernel.Boot()
	ea.engine.Any("/*", ea.handle)
}

// Engine returns the underlying Echo instance for advanced configuration
func (ea *EchoAdapter) Engine() *echo.Echo {
	return ea.engine
}

// Start starts the Echo server
func (ea *EchoAdapter) Start(addr string) error {
	return ea.engine.Start(addr)
}

// Stop stops the Echo server
func (ea *EchoAdapter) Stop(ctx context.Context) error {
	return ea.engine.Shutdown(ctx)
}

// Name returns the adapter name
func (ea *EchoAdapter) Name() string {
	return "Echo"
}

func (ea *EchoAdapter) handle(c echo.Context) error {
	httpReq := c.Request()
	req := &relay.Request{
		Method:     httpReq.Method,
		Path:       httpReq.URL.Path,
		Header:     httpReq.Header,
		Query:      c.QueryParams(),
		Body:       httpReq.Body,
		Attributes: relay.NewParameterBag(),
	}

	res, err := ea.kernel.Handle(req)
	if err != nil {
		status := relay.StatusFor(err)
		if status >= http.StatusInternalServerError {
			logrus.WithError(err).Error("request pipeline failed")
		}
		return c.JSON(status, relay.ErrorBody(err))
	}

	header := c.Response().Header()
	for name, values := range res.Header {
		for _, value := range values {
			header.Add(name, value)
		}
	}

	if len(res.Body) == 0 {
		return c.NoContent(res.StatusCode)
	}
	return c.Blob(res.StatusCode, res.Header.Get("Content-Type"), res.Body)
}
