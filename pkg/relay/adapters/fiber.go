package adapters

import (
	"bytes"
	"context"
	"net/http"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/toyz/relay/pkg/relay"
)

// FiberAdapter mounts a relay.Kernel on a Fiber app. Fiber runs on fasthttp
// rather than net/http, so the adapter copies the request pieces the
// pipeline needs (method, path, headers, query, body) into a relay.Request.
type FiberAdapter struct {
	app    *fiber.App
	kernel *relay.Kernel
}

// NewFiberAdapter creates an adapter over an existing Fiber app
func NewFiberAdapter(app *fiber.App, kernel *relay.Kernel) *FiberAdapter {
	return &FiberAdapter{app: app, kernel: kernel}
}

// NewDefaultFiberAdapter creates an adapter with a fresh Fiber app
func NewDefaultFiberAdapter(kernel *relay.Kernel) *FiberAdapter {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	return &FiberAdapter{app: app, kernel: kernel}
}

// Mount registers the kernel as a catch-all handler on the app
func (fa *FiberAdapter) Mount() {
	fa.kernel.Boot()
	fa.app.All("/*", fa.handle)
}

// App returns the underlying Fiber app
func (fa *FiberAdapter) App() *fiber.App {
	return fa.app
}

// Start starts the Fiber server
func (fa *FiberAdapter) Start(addr string) error {
	return fa.app.Listen(addr)
}

// Stop stops the Fiber server
func (fa *FiberAdapter) Stop(ctx context.Context) error {
	return fa.app.ShutdownWithContext(ctx)
}

// Name returns the adapter name
func (fa *FiberAdapter) Name() string {
	return "Fiber"
}

func (fa *FiberAdapter) handle(c *fiber.Ctx) error {
	header := make(http.Header)
	for name, values := range c.GetReqHeaders() {
		for _, value := range values {
			header.Add(name, value)
		}
	}

	query := make(url.Values)
	c.Context().QueryArgs().VisitAll(func(key, value []byte) {
		query.Add(string(key), string(value))
	})

	req := &relay.Request{
		Method:     c.Method(),
		Path:       c.Path(),
		Header:     header,
		Query:      query,
		Body:       bytes.NewReader(c.Body()),
		Attributes: relay.NewParameterBag(),
	}

	res, err := fa.kernel.Handle(req)
	if err != nil {
		status := relay.StatusFor(err)
		if status >= http.StatusInternalServerError {
			logrus.WithError(err).Error("request pipeline failed")
		}
		return c.Status(status).JSON(relay.ErrorBody(err))
	}

	for name, values := range res.Header {
		for _, value := range values {
			c.Response().Header.Add(name, value)
		}
	}
	return c.Status(res.StatusCode).Send(res.Body)
}
