package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/twilio/twilio-go/client"
)

type TwilioSignatureHandler interface {
	SignatureMiddleware() gin.HandlerFunc
}

type twilioSignatureHandler struct {
	validator     client.RequestValidator
	publicBaseUrl string
}

// NewTwilioSignatureHandler verifies the X-Twilio-Signature header on
// webhook requests. The signature covers the public URL the provider
// called, including the query string, plus the sorted POST parameters.
func NewTwilioSignatureHandler(authToken string, publicBaseUrl string) TwilioSignatureHandler {
	return &twilioSignatureHandler{
		validator:     client.NewRequestValidator(authToken),
		publicBaseUrl: strings.TrimSuffix(publicBaseUrl, "/"),
	}
}

func (h *twilioSignatureHandler) SignatureMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		signature := c.GetHeader("X-Twilio-Signature")
		if signature == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "missing signature"})
			return
		}

		if err := c.Request.ParseForm(); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "malformed form body"})
			return
		}

		params := make(map[string]string, len(c.Request.PostForm))
		for key, values := range c.Request.PostForm {
			if len(values) > 0 {
				params[key] = values[0]
			}
		}

		url := h.publicBaseUrl + c.Request.URL.RequestURI()
		if !h.validator.Validate(url, params, signature) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid signature"})
			return
		}

		c.Next()
	}
}
