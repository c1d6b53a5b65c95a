package main

import (
	"fmt"
	"os"

	"github.com/Sameer-Bagul/ai-lead-generation-house/application/services"
	"github.com/Sameer-Bagul/ai-lead-generation-house/clock"
	"github.com/Sameer-Bagul/ai-lead-generation-house/config"
	"github.com/Sameer-Bagul/ai-lead-generation-house/infrastructure/adapters"
	"github.com/Sameer-Bagul/ai-lead-generation-house/infrastructure/gin_interface/controllers"
	"github.com/Sameer-Bagul/ai-lead-generation-house/middleware"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog/log"
)

func main() {
	sess := session.Must(session.NewSessionWithOptions(session.Options{
		SharedConfigState: session.SharedConfigEnable,
	}))

	serverConfig, err := config.GetServerConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get server config")
	}

	gptConfig, err := config.GetGptConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get gpt config")
	}

	elevenLabsConfig, err := config.GetElevenLabsConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get eleven labs config")
	}

	s3Config, err := config.GetS3Config()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get s3 config")
	}

	dynamoConfig, err := config.GetDynamoConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get dynamo config")
	}

	twilioConfig, err := config.GetTwilioConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get twilio config")
	}

	whatsAppConfig, err := config.GetWhatsAppConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get whatsapp config")
	}

	authConfig, err := config.NewAuthorizerConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get authorizer config")
	}

	jwksUrl := os.Getenv("JWKS_URL")
	if jwksUrl == "" {
		log.Fatal().Msg("JWKS_URL is not set!")
	}

	ambientAudioUrl := os.Getenv("AMBIENT_AUDIO_URL")

	zeroLogger := adapters.NewZerologWrapper()

	panicHandler := func(p interface{}) {
		zeroLogger.Error(fmt.Errorf("%v", p), "Panic in worker pool")
	}

	workerPool, err := ants.NewPool(120, ants.WithPanicHandler(panicHandler))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create worker pool")
	}
	defer workerPool.Release()

	s3Client := s3.New(sess)
	dynamoClient := dynamodb.New(sess)

	wallClock := clock.NewRealClock()

	contentFetcher := adapters.NewContentFetcher(zeroLogger)

	callStore := adapters.NewDynamoCallStore(zeroLogger, dynamoClient, dynamoConfig)
	audioStore := adapters.NewS3AudioStore(s3Client, s3Config)

	responseGenerator := adapters.NewGptResponseGenerator(gptConfig, zeroLogger)
	speechSynthesizer := adapters.NewElevenLabsSynthesizer(contentFetcher, elevenLabsConfig)
	speechRecognizer := adapters.NewTwilioSpeechRecognizer()

	authorizer := adapters.NewOauthAuthorizer(zeroLogger, authConfig)
	followUpMessenger := adapters.NewWhatsAppMessenger(whatsAppConfig.ApiUrl, authorizer)

	eventPublisher := adapters.NewWebsocketEventPublisher(zeroLogger)

	markupBuilder := adapters.NewTwimlMarkupBuilder(serverConfig.PublicBaseUrl+"/twilio/voice/turn", ambientAudioUrl)

	callDialer := adapters.NewTwilioCallDialer(zeroLogger, twilioConfig,
		serverConfig.PublicBaseUrl+"/twilio/voice/answer",
		serverConfig.PublicBaseUrl+"/twilio/voice/status")

	sessionRegistry := services.NewSessionRegistry(zeroLogger, callStore)

	callCompleter := services.NewCallCompleter(zeroLogger, sessionRegistry, callStore,
		responseGenerator, followUpMessenger, eventPublisher, workerPool, wallClock)

	callOrchestrator := services.NewCallOrchestrator(zeroLogger, sessionRegistry, callStore,
		responseGenerator, speechSynthesizer, audioStore, markupBuilder,
		eventPublisher, workerPool, callCompleter, wallClock)

	callInitiator := services.NewCallInitiator(zeroLogger, sessionRegistry, callStore, callDialer, wallClock)

	router := gin.Default()

	err = router.SetTrustedProxies(nil)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set trusted proxies!")
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	authHandler, err := middleware.NewAuthHandler(jwksUrl)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create auth handler!")
	}

	signatureHandler := middleware.NewTwilioSignatureHandler(twilioConfig.AuthToken, serverConfig.PublicBaseUrl)

	managementGroup := router.Group("/", authHandler.AuthMiddleware())
	webhookGroup := router.Group("/", signatureHandler.SignatureMiddleware())
	eventsGroup := router.Group("/")

	callController := controllers.NewCallController(zeroLogger, callInitiator)
	callController.RegisterRoutes(managementGroup)

	voiceWebhookController := controllers.NewVoiceWebhookController(zeroLogger,
		callOrchestrator, callCompleter, speechRecognizer, markupBuilder, sessionRegistry)
	voiceWebhookController.RegisterRoutes(webhookGroup)

	callEventsController := controllers.NewCallEventsController(zeroLogger, eventPublisher)
	callEventsController.RegisterRoutes(eventsGroup)

	err = router.Run(":" + serverConfig.Port)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to start server!")
	}
}
