package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/websocket"
)

type Message struct {
	Type           string          `json:"type"`
	ConversationID string          `json:"conversation_id,omitempty"`
	Timestamp      time.Time       `json:"timestamp"`
	Payload        json.RawMessage `json:"payload"`
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run ./scripts <message> [conversation_id]")
		fmt.Println("Example: go run ./scripts \"What services do you offer?\"")
		os.Exit(1)
	}

	text := os.Args[1]

	host := os.Getenv("SUPPORTBOT_HOST")
	if host == "" {
		host = "localhost:5000"
	}

	// build WebSocket URL
	u := url.URL{
		Scheme: "ws",
		Host:   host,
		Path:   "/api/chat/ws",
	}

	if len(os.Args) > 2 {
		q := u.Query()
		q.Set("conversation_id", os.Args[2])
		u.RawQuery = q.Encode()
	}

	fmt.Printf("Connecting to %s\n", u.String())

	// connect
	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatal("dial:", err)
	}
	defer c.Close() //nolint:errcheck

	fmt.Println("Connected to WebSocket")

	// handle interrupt
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	done := make(chan struct{})

	// read messages until the answer arrives
	go func() {
		defer close(done)

		for {
			var msg Message
			if err := c.ReadJSON(&msg); err != nil {
				log.Println("read:", err)
				return
			}

			fmt.Printf("Received %s: %s\n", msg.Type, msg.Payload)

			if msg.Type == "chat_response" || msg.Type == "error" {
				return
			}
		}
	}()

	chatMessage := map[string]any{
		"type": "chat_message",
		"payload": map[string]any{
			"message": text,
		},
	}

	fmt.Printf("Sending: %s\n", text)

	if err := c.WriteJSON(chatMessage); err != nil {
		log.Println("write:", err)
		return
	}

	// wait for the answer or an interrupt
	select {
	case <-done:
	case <-interrupt:
		fmt.Println("\nInterrupt received, closing connection...")
	}

	// cleanly close the connection
	err = c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	if err != nil {
		log.Println("write close:", err)
		return
	}

	select {
	case <-done:
	case <-time.After(time.Second):
	}
}
