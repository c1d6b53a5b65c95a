package controllers

import (
	"net/http"

	"github.com/Sameer-Bagul/ai-lead-generation-house/application/ports/outbound"
	"github.com/gin-gonic/gin"
)

// EventSubscriber upgrades an HTTP request to a live event stream.
type EventSubscriber interface {
	Subscribe(w http.ResponseWriter, r *http.Request) error
}

type CallEventsController interface {
	Subscribe(c *gin.Context)
	RegisterRoutes(g *gin.RouterGroup)
}

type callEventsController struct {
	logger     outbound.LoggerPort
	subscriber EventSubscriber
}

func NewCallEventsController(
	logger outbound.LoggerPort,
	subscriber EventSubscriber,
) CallEventsController {
	return &callEventsController{
		logger:     logger,
		subscriber: subscriber,
	}
}

func (ce *callEventsController) Subscribe(c *gin.Context) {
	if err := ce.subscriber.Subscribe(c.Writer, c.Request); err != nil {
		ce.logger.Error(err, "failed to upgrade event subscriber")
	}
}

func (ce *callEventsController) RegisterRoutes(g *gin.RouterGroup) {
	g.GET("/ws/calls", ce.Subscribe)
}
