package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/bolbazaar/catalog-api/internal/logger"
	"github.com/bolbazaar/catalog-api/internal/models"
	"github.com/bolbazaar/catalog-api/internal/service"
	"github.com/bolbazaar/catalog-api/internal/util"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// WebSocket message types for the dictation protocol.
const (
	MsgTypeUtterance    = "utterance"     // Client sends dictated text
	MsgTypeAudio        = "audio"         // Client sends raw audio for server-side transcription
	MsgTypeParseResult  = "parse_result"  // Parsed command preview, or a retry hint
	MsgTypeConfirm      = "confirm"       // Client confirms a previewed command
	MsgTypeProductAdded = "product_added" // Product persisted from a confirmed command
	MsgTypeError        = "error"         // Error message
	MsgTypeConnected    = "connected"     // Connection confirmed
)

// WSMessage is the envelope for all messages sent over the dictation WebSocket.
type WSMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// UtterancePayload is sent by the client with dictated text.
type UtterancePayload struct {
	Text string `json:"text"`
}

// AudioPayload carries audio for server-side transcription.
type AudioPayload struct {
	AudioData []byte `json:"audio_data"` // base64-encoded
}

// ConfirmPayload is sent by the client to persist a previewed command.
type ConfirmPayload struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Unit     string `json:"unit"`
	Price    string `json:"price"`
	Category string `json:"category"`
}

// ErrorPayload carries an error message to the client.
type ErrorPayload struct {
	Message string `json:"message"`
}

// ConnectedPayload confirms a successful connection.
type ConnectedPayload struct {
	SessionID string `json:"session_id"`
	UserID    uint   `json:"user_id"`
}

// DictationHandler manages WebSocket connections for live catalog dictation.
// A seller dictates commands, previews the parse on any connected device, and
// confirms to persist.
type DictationHandler struct {
	Hub            *Hub
	JwtSecret      string
	VoiceService   *service.VoiceService
	ProductService *service.ProductService
	UserService    *service.UserService
}

// NewDictationHandler returns a new DictationHandler.
func NewDictationHandler(hub *Hub, jwtSecret string, voiceService *service.VoiceService, productService *service.ProductService, userService *service.UserService) *DictationHandler {
	return &DictationHandler{
		Hub:            hub,
		JwtSecret:      jwtSecret,
		VoiceService:   voiceService,
		ProductService: productService,
		UserService:    userService,
	}
}

// upgrader is configured for dictation WebSocket upgrades.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		switch origin {
		case "https://bolbazaar.in",
			"https://www.bolbazaar.in",
			"https://api.bolbazaar.in":
			return true
		}
		// Allow localhost for development
		if strings.HasPrefix(origin, "http://localhost:") || origin == "http://localhost" {
			return true
		}
		return false
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// HandleDictationSession upgrades an HTTP request to a WebSocket connection
// for a dictation session. Authentication is done via a "token" query
// parameter because WebSocket connections cannot easily use Authorization
// headers.
func (dh *DictationHandler) HandleDictationSession(c *gin.Context) {
	log := logger.Get()

	sessionID := c.Param("session_id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "session_id is required"})
		return
	}

	// Authenticate via query param token
	tokenString := c.Query("token")
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "token query parameter is required"})
		return
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(dh.JwtSecret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid or expired token"})
		return
	}

	// Ensure this is an access token
	tokenType, ok := claims["type"].(string)
	if !ok || tokenType != "access" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid token type"})
		return
	}

	// Extract user ID
	idFloat, ok := claims["user_id"].(float64)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid user_id in token"})
		return
	}
	userID := uint(idFloat)

	// Upgrade to WebSocket
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("websocket upgrade failed",
			zap.String("session_id", sessionID),
			zap.Uint("user_id", userID),
			zap.Error(err),
		)
		return
	}

	// Create client and register with hub
	client := &Client{
		Hub:    dh.Hub,
		Conn:   conn,
		Send:   make(chan []byte, 256),
		RoomID: sessionID,
		UserID: userID,
	}
	dh.Hub.Register <- client

	// Send connected confirmation
	connectedMsg, _ := encodeWSMessage(MsgTypeConnected, ConnectedPayload{
		SessionID: sessionID,
		UserID:    userID,
	})
	client.Send <- connectedMsg

	log.Info("dictation session started",
		zap.String("session_id", sessionID),
		zap.Uint("user_id", userID),
	)

	// Start read and write pumps
	go client.WritePump()
	go client.ReadPump(func(cl *Client, data []byte) {
		dh.handleMessage(cl, data)
	})
}

// handleMessage parses an incoming WebSocket message and routes it to the
// appropriate handler.
func (dh *DictationHandler) handleMessage(client *Client, data []byte) {
	log := logger.Get()

	var msg WSMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		dh.sendError(client, "invalid message format")
		return
	}

	log.Debug("received ws message",
		zap.String("type", msg.Type),
		zap.String("session_id", client.RoomID),
		zap.Uint("user_id", client.UserID),
	)

	switch msg.Type {
	case MsgTypeUtterance:
		dh.handleUtterance(client, msg.Payload)

	case MsgTypeAudio:
		dh.handleAudio(client, msg.Payload)

	case MsgTypeConfirm:
		dh.handleConfirm(client, msg.Payload)

	default:
		dh.sendError(client, "unknown message type: "+msg.Type)
	}
}

// handleUtterance parses dictated text and sends back the preview.
func (dh *DictationHandler) handleUtterance(client *Client, payload json.RawMessage) {
	var utterance UtterancePayload
	if err := json.Unmarshal(payload, &utterance); err != nil {
		dh.sendError(client, "invalid utterance payload")
		return
	}

	if utterance.Text == "" {
		dh.sendError(client, "text cannot be empty")
		return
	}

	result, err := dh.VoiceService.ParseUtterance(utterance.Text)
	if err != nil {
		dh.sendError(client, err.Error())
		return
	}

	dh.sendParseResult(client, result)
}

// handleAudio transcribes audio server-side and sends back the parse preview.
func (dh *DictationHandler) handleAudio(client *Client, payload json.RawMessage) {
	log := logger.Get()

	var audio AudioPayload
	if err := json.Unmarshal(payload, &audio); err != nil {
		dh.sendError(client, "invalid audio payload")
		return
	}

	if len(audio.AudioData) == 0 {
		dh.sendError(client, "audio_data is required")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := dh.VoiceService.ParseAudio(ctx, audio.AudioData)
	if err != nil {
		log.Error("failed to process audio",
			zap.String("session_id", client.RoomID),
			zap.Uint("user_id", client.UserID),
			zap.Error(err),
		)
		dh.sendError(client, "failed to process audio")
		return
	}

	dh.sendParseResult(client, result)
}

// handleConfirm persists a previewed command as a product and broadcasts the
// result to every device in the session.
func (dh *DictationHandler) handleConfirm(client *Client, payload json.RawMessage) {
	log := logger.Get()

	var confirm ConfirmPayload
	if err := json.Unmarshal(payload, &confirm); err != nil {
		dh.sendError(client, "invalid confirm payload")
		return
	}

	user, err := dh.UserService.GetUserByID(client.UserID)
	if err != nil {
		dh.sendError(client, "failed to load user")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	product, err := dh.ProductService.AddProduct(ctx, user, service.ProductInput{
		Name:     confirm.Name,
		Quantity: confirm.Quantity,
		Unit:     confirm.Unit,
		Price:    confirm.Price,
		Category: confirm.Category,
	}, models.SourceVoice)
	if err != nil {
		log.Error("failed to add product from dictation",
			zap.String("session_id", client.RoomID),
			zap.Uint("user_id", client.UserID),
			zap.Error(err),
		)
		dh.sendError(client, err.Error())
		return
	}

	addedMsg, _ := encodeWSMessage(MsgTypeProductAdded, service.ToProductResponse(product))

	// Every device in the session sees the new product, sender included.
	dh.Hub.Broadcast <- &RoomMessage{
		RoomID:  client.RoomID,
		Message: addedMsg,
		Sender:  nil,
	}
}

// sendParseResult sends a parse preview to a single client.
func (dh *DictationHandler) sendParseResult(client *Client, result *service.ParseResult) {
	resultMsg, _ := encodeWSMessage(MsgTypeParseResult, result)
	client.Send <- resultMsg
}

// sendError sends an error message to a single client.
func (dh *DictationHandler) sendError(client *Client, message string) {
	errMsg, _ := encodeWSMessage(MsgTypeError, ErrorPayload{
		Message: message,
	})
	client.Send <- errMsg
}

// encodeWSMessage wraps a payload in a WSMessage envelope ready to send.
func encodeWSMessage(msgType string, payload interface{}) ([]byte, error) {
	payloadJSON, err := util.SerializeToJSONString(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(WSMessage{
		Type:    msgType,
		Payload: json.RawMessage(payloadJSON),
	})
}
