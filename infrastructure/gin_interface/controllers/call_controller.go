package controllers

import (
	"github.com/Sameer-Bagul/ai-lead-generation-house/application/ports/inbound"
	"github.com/Sameer-Bagul/ai-lead-generation-house/application/ports/outbound"
	"github.com/Sameer-Bagul/ai-lead-generation-house/infrastructure/gin_interface/dto"
	"github.com/gin-gonic/gin"
)

type CallController interface {
	InitiateCall(c *gin.Context)
	RegisterRoutes(g *gin.RouterGroup)
}

type callController struct {
	logger    outbound.LoggerPort
	initiator inbound.CallInitiatorPort
}

func NewCallController(
	logger outbound.LoggerPort,
	initiator inbound.CallInitiatorPort,
) CallController {
	return &callController{
		logger:    logger,
		initiator: initiator,
	}
}

func (cc *callController) InitiateCall(c *gin.Context) {
	var initiateCallRequest dto.InitiateCallRequest
	if err := c.ShouldBindJSON(&initiateCallRequest); err != nil {
		err = c.AbortWithError(400, err)
		if err != nil {
			cc.logger.Error(err, "failed to abort with error")
		}
		return
	}

	res, err := cc.initiator.Initiate(c.Request.Context(), inbound.InitiateCallParams{
		ContactID:   initiateCallRequest.ContactID,
		CampaignID:  initiateCallRequest.CampaignID,
		PhoneNumber: initiateCallRequest.PhoneNumber,
	})
	if err != nil {
		err = c.AbortWithError(500, err)
		if err != nil {
			cc.logger.Error(err, "failed to abort with error")
		}
		return
	}

	c.JSON(201, dto.InitiateCallResponse{
		CallID:         res.CallID,
		ProviderCallID: res.ProviderCallID,
		Status:         "calling",
	})
}

func (cc *callController) RegisterRoutes(g *gin.RouterGroup) {
	g.POST("/calls", cc.InitiateCall)
}
