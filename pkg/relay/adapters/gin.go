package adapters

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/toyz/relay/pkg/relay"
)

// GinAdapter mounts a relay.Kernel on a Gin engine. The kernel is installed
// as the NoRoute handler so Gin's own router never competes with the
// kernel's resolver: every path reaches the pipeline.
type GinAdapter struct {
	engine *gin.Engine
	kernel *relay.Kernel
	server *http.Server
}

// NewGinAdapter creates an adapter over an existing Gin engine
func NewGinAdapter(g *gin.Engine, kernel *relay.Kernel) *GinAdapter {
	return &GinAdapter{engine: g, kernel: kernel}
}

// NewDefaultGinAdapter creates an adapter with a fresh default Gin engine
func NewDefaultGinAdapter(kernel *relay.Kernel) *GinAdapter {
	return &GinAdapter{engine: gin.New(), kernel: kernel}
}

// Mount registers the kernel as the engine's catch-all handler
func (ga *GinAdapter) Mount() {
	ga.kernel.Boot()
	ga.engine.NoRoute(ga.handle)
}

// Engine returns the underlying Gin engine
func (ga *GinAdapter) Engine() *gin.Engine {
	return ga.engine
}

// Start starts an http.Server wrapping the Gin engine
func (ga *GinAdapter) Start(addr string) error {
	ga.server = &http.Server{Addr: addr, Handler: ga.engine}
	return ga.server.ListenAndServe()
}

// Stop shuts the wrapping server down. Gin has no graceful shutdown of its
// own, so the adapter owns the http.Server.
func (ga *GinAdapter) Stop(ctx context.Context) error {
	if ga.server == nil {
		return nil
	}
	return ga.server.Shutdown(ctx)
}

// Name returns the adapter name
func (ga *GinAdapter) Name() string {
	return "Gin"
}

func (ga *GinAdapter) handle(c *gin.Context) {
	req := &relay.Request{
		Method:     c.Request.Method,
		Path:       c.Request.URL.Path,
		Header:     c.Request.Header,
		Query:      c.Request.URL.Query(),
		Body:       c.Request.Body,
		Attributes: relay.NewParameterBag(),
	}

	res, err := ga.kernel.Handle(req)
	if err != nil {
		status := relay.StatusFor(err)
		if status >= http.StatusInternalServerError {
			logrus.WithError(err).Error("request pipeline failed")
		}
		c.JSON(status, relay.ErrorBody(err))
		return
	}

	header := c.Writer.Header()
	for name, values := range res.Header {
		for _, value := range values {
			header.Add(name, value)
		}
	}

	if len(res.Body) == 0 {
		c.Status(res.StatusCode)
		return
	}
	c.Data(res.StatusCode, res.Header.Get("Content-Type"), res.Body)
}
