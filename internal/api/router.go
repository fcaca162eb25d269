package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"beeb/backend/internal/api/handler"
)

// SetupRouter wires every screen gesture onto the engine. The browser
// client holds a session token from /api/session and sends it on all other
// routes.
func SetupRouter(router *gin.Engine, h *handler.Handler) {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	public := router.Group("/api")
	{
		public.GET("/session", h.CreateSession)
	}

	authorized := router.Group("/api")
	authorized.Use(h.Authenticated())
	{
		// Onboarding
		authorized.GET("/onboarding", h.GetOnboarding)
		authorized.POST("/onboarding/terms", h.AcceptTerms)
		authorized.POST("/onboarding/payment", h.Pay)
		authorized.PUT("/onboarding/identity", h.SetIdentity)
		authorized.POST("/onboarding/identity/targets", h.ToggleTargetGender)
		authorized.PUT("/onboarding/location", h.SetLocation)
		authorized.POST("/onboarding/location/verify", h.VerifyLocation)
		authorized.POST("/onboarding/location/coordinates", h.UseCoordinates)
		authorized.POST("/onboarding/voice", h.StartVoiceBio)
		authorized.POST("/onboarding/voice/chunks", h.PushVoiceChunk)
		authorized.POST("/onboarding/voice/stop", h.StopVoiceBio)
		authorized.DELETE("/onboarding/voice", h.DeleteVoiceBio)
		authorized.POST("/onboarding/photos", h.AddPhoto)
		authorized.DELETE("/onboarding/photos/:index", h.RemovePhoto)
		authorized.POST("/onboarding/advance", h.AdvanceOnboarding)
		authorized.POST("/onboarding/complete", h.CompleteOnboarding)

		// Discovery
		authorized.GET("/discovery/card", h.GetCard)
		authorized.POST("/discovery/advance", h.AdvanceCard)
		authorized.POST("/discovery/pass", h.PassCard)
		authorized.POST("/discovery/reset", h.ResetDeck)
		authorized.POST("/discovery/photos/next", h.NextPhoto)
		authorized.POST("/discovery/photos/prev", h.PrevPhoto)
		authorized.POST("/discovery/audio", h.RequestCardAudio)
		authorized.GET("/matches", h.GetMatches)

		// Match celebration
		authorized.GET("/celebration", h.GetCelebration)
		authorized.POST("/celebration/dismiss", h.DismissCelebration)

		// Voice chat
		authorized.POST("/chat/open", h.OpenChat)
		authorized.GET("/chat", h.GetChat)
		authorized.GET("/chat/ws", h.ServeChatSocket)
		authorized.POST("/chat/messages", h.SendVoice)
		authorized.POST("/chat/recording", h.StartChatRecording)
		authorized.POST("/chat/recording/stop", h.StopChatRecording)
		authorized.POST("/chat/messages/:id/play", h.TogglePlayMessage)
		authorized.POST("/chat/messages/:id/finished", h.MessageFinished)
		authorized.DELETE("/chat", h.CloseChat)

		// Session lifecycle
		authorized.POST("/logout", h.Logout)
		authorized.DELETE("/account", h.DeleteAccount)
	}
}
