package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/danghm/docqa-be/types"
	"github.com/gorilla/websocket"
)

// WebSocketService answers chat payloads over a websocket connection with
// RAG-grounded answers. One interaction at a time per connection.
type WebSocketService struct {
	qa       *QAService
	upgrader websocket.Upgrader
}

func NewWebSocketService(qa *QAService) *WebSocketService {
	return &WebSocketService{
		qa: qa,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins (adjust for production)
			},
		},
	}
}

func (s *WebSocketService) HandleChat(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("Upgrade error:", err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(512 * 1024) // 512KB max message size
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	for {
		messageType, p, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			return
		}
		var req types.WebsocketRequest
		if err := json.Unmarshal(p, &req); err != nil {
			conn.WriteMessage(messageType, []byte("Error processing message"))
			log.Println("Unmarshal error:", err)
			continue
		}
		switch req.Type {
		case types.TypeWebsocketChat:
			payloadBytes, err := json.Marshal(req.Payload)
			if err != nil {
				conn.WriteMessage(messageType, []byte("Error processing message"))
				continue
			}
			var payload types.WebSocketChatPayload
			if err := json.Unmarshal(payloadBytes, &payload); err != nil {
				log.Println("Unmarshal error:", err)
				conn.WriteMessage(messageType, []byte("Error processing message"))
				continue
			}
			resp, err := s.qa.Ask(ctx, payload.ChatID, payload.Question)
			if err != nil {
				log.Println("AI error:", err)
				errRes := types.WebSocketResponse{
					Type:    types.TypeWebsocketError,
					Payload: userFacingError(err),
				}
				conn.WriteJSON(errRes)
				continue
			}
			botMessage := types.WebSocketResponse{
				Type: types.TypeWebsocketChat,
				Payload: types.WebSocketChatResponse{
					ChatID:  resp.ChatID,
					Message: resp.Answer,
				},
			}
			if err := conn.WriteJSON(botMessage); err != nil {
				log.Println("Write error:", err)
				continue
			}
		case types.TypeWebsocketPing:
			pongRes := types.WebSocketResponse{
				Type:    types.TypeWebsocketPong,
				Payload: nil,
			}
			if err := conn.WriteJSON(pongRes); err != nil {
				log.Println("Write error:", err)
			}
		default:
			log.Println("Invalid message type")
		}
	}
}

// userFacingError keeps rate-limit exhaustion distinguishable from other
// generation failures in what the client displays.
func userFacingError(err error) string {
	var genErr *types.AnswerGenerationError
	if errors.As(err, &genErr) && genErr.RateLimited {
		return "The answer service is rate limited right now, try again in a moment."
	}
	return "Failed to generate an answer, try again."
}
