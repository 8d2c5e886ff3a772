package api

import "github.com/gin-gonic/gin"

// Controller wraps a router group and resolves typed handlers onto it.
type Controller struct {
	Group *gin.RouterGroup
}

// With returns a controller whose routes additionally run mw.
func (c *Controller) With(mw ...gin.HandlerFunc) *Controller {
	return &Controller{Group: c.Group.Group("", mw...)}
}

func (c *Controller) GET(path string, h HandlerFuncWithAuth) {
	c.Group.GET(path, ResolveEndpointWithAuth(h))
}

func (c *Controller) POST(path string, h HandlerFuncWithAuth) {
	c.Group.POST(path, ResolveEndpointWithAuth(h))
}

func (c *Controller) PUT(path string, h HandlerFuncWithAuth) {
	c.Group.PUT(path, ResolveEndpointWithAuth(h))
}

func (c *Controller) DELETE(path string, h HandlerFuncWithAuth) {
	c.Group.DELETE(path, ResolveEndpointWithAuth(h))
}

func (c *Controller) PUBLIC_GET(path string, h HandlerFunc) {
	c.Group.GET(path, ResolveEndpoint(h))
}

func (c *Controller) PUBLIC_POST(path string, h HandlerFunc) {
	c.Group.POST(path, ResolveEndpoint(h))
}

func (c *Controller) ADMIN_GET(path string, h HandlerFuncWithAdmin) {
	c.Group.GET(path, ResolveEndpointWithAdmin(h))
}

func (c *Controller) ADMIN_POST(path string, h HandlerFuncWithAdmin) {
	c.Group.POST(path, ResolveEndpointWithAdmin(h))
}

func (c *Controller) ADMIN_PUT(path string, h HandlerFuncWithAdmin) {
	c.Group.PUT(path, ResolveEndpointWithAdmin(h))
}

func (c *Controller) ADMIN_DELETE(path string, h HandlerFuncWithAdmin) {
	c.Group.DELETE(path, ResolveEndpointWithAdmin(h))
}
