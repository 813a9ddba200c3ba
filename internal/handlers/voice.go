package handlers

import (
	"io"
	"net/http"

	"github.com/bolbazaar/catalog-api/internal/logger"
	"github.com/bolbazaar/catalog-api/internal/service"
	"github.com/bolbazaar/catalog-api/internal/util"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// VoiceHandler is the handler for voice command requests.
type VoiceHandler struct {
	Service        *service.VoiceService
	ProductService *service.ProductService
}

// NewVoiceHandler is the constructor function for initializing a new VoiceHandler.
func NewVoiceHandler(voiceService *service.VoiceService, productService *service.ProductService) *VoiceHandler {
	return &VoiceHandler{
		Service:        voiceService,
		ProductService: productService,
	}
}

// ParseCommand handles POST /v1/voice/parse. The body carries dictated text;
// nothing is persisted. Clients use this to preview what a command would do.
func (h *VoiceHandler) ParseCommand(c *gin.Context) {
	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	result, err := h.Service.ParseUtterance(req.Text)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// AddProduct handles POST /v1/voice/products. The dictated command is parsed
// and the product persisted in one step.
func (h *VoiceHandler) AddProduct(c *gin.Context) {
	user, err := util.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	product, err := h.ProductService.AddFromUtterance(c.Request.Context(), user, req.Text)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "hint": service.RetryHint})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"product": service.ToProductResponse(product)})
}

// TranscribeAudio handles POST /v1/voice/transcribe. Accepts an audio file
// upload, transcribes it server-side, and returns the parse result without
// persisting anything.
func (h *VoiceHandler) TranscribeAudio(c *gin.Context) {
	user, err := util.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	file, header, err := c.Request.FormFile("audio")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Audio file is required"})
		return
	}
	defer file.Close()

	const maxSize = 25 << 20
	if header.Size > maxSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Audio exceeds maximum size of 25MB"})
		return
	}

	audioData, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read audio"})
		return
	}

	result, err := h.Service.ParseAudio(c.Request.Context(), audioData)
	if err != nil {
		logger.Get().Error("failed to process audio", zap.Uint("user_id", user.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process audio"})
		return
	}

	c.JSON(http.StatusOK, result)
}
