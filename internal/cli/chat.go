package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/fanlink/fanlink/internal/api/response"
	"github.com/fanlink/fanlink/internal/model"
)

const sendTimeout = 10 * time.Second

func newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <user-id>",
		Short: "Show conversation history with a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp response.ConversationResponse
			if err := client.Do(http.MethodGet, "/api/v1/chat/"+args[0], nil, &resp); err != nil {
				return err
			}

			return printResult(resp, func() {
				if len(resp.Conversation) == 0 {
					fmt.Println("No messages.")
					return
				}
				// Server returns newest first
				for _, msg := range resp.Conversation {
					fmt.Printf("[%s] %s -> %s: %s\n",
						msg.CreatedAt.Format(time.RFC3339), msg.SenderID, msg.ReceiverID, msg.Body)
				}
			})
		},
	}
}

func newSendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send <user-id> <message>",
		Short: "Send a message to a user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Resolve own identity so the echoed copy can be recognised
			var me response.User
			if err := client.Do(http.MethodGet, "/api/v1/users/me", nil, &me); err != nil {
				return err
			}

			conn, err := dialWebsocket()
			if err != nil {
				return err
			}
			defer conn.Close()

			ev := model.Event{
				Type: model.EventPrivateMessage,
				Data: model.PrivateMessagePayload{
					To:      model.UserID(args[0]),
					Message: args[1],
				},
			}
			if err := conn.WriteJSON(ev); err != nil {
				return fmt.Errorf("failed to send message: %w", err)
			}

			// Wait for the server's echo or an error event
			deadline := time.Now().Add(sendTimeout)
			_ = conn.SetReadDeadline(deadline)
			for {
				var inbound model.InboundEvent
				if err := conn.ReadJSON(&inbound); err != nil {
					return fmt.Errorf("connection closed before delivery confirmation: %w", err)
				}

				switch inbound.Type {
				case model.EventMessage:
					var msg model.Message
					if err := json.Unmarshal(inbound.Data, &msg); err != nil {
						continue
					}
					if string(msg.SenderID) == me.ID && string(msg.ReceiverID) == args[0] {
						return printResult(msg, func() {
							fmt.Printf("Sent message %s\n", msg.ID)
						})
					}
				case model.EventChatError:
					var errMsg string
					_ = json.Unmarshal(inbound.Data, &errMsg)
					return fmt.Errorf("server rejected message: %s", errMsg)
				}
			}
		},
	}
}

func newListenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "listen",
		Short: "Connect and print incoming events until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := dialWebsocket()
			if err != nil {
				return err
			}
			defer conn.Close()

			fmt.Println("Connected. Press Ctrl+C to disconnect.")

			done := make(chan error, 1)
			go func() {
				for {
					_, data, err := conn.ReadMessage()
					if err != nil {
						done <- err
						return
					}
					printEvent(data)
				}
			}()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt)

			select {
			case <-sigCh:
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return nil
			case err := <-done:
				if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
					return nil
				}
				return fmt.Errorf("connection closed: %w", err)
			}
		},
	}
}

func dialWebsocket() (*websocket.Conn, error) {
	if client.Token() == "" {
		return nil, fmt.Errorf("not logged in: run 'fanlink login' first")
	}

	wsURL, err := client.WebsocketURL()
	if err != nil {
		return nil, err
	}

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return nil, fmt.Errorf("authentication rejected: run 'fanlink login' again")
		}
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	return conn, nil
}

func printEvent(data []byte) {
	if cfg.Output == "json" {
		fmt.Println(string(data))
		return
	}

	var inbound model.InboundEvent
	if err := json.Unmarshal(data, &inbound); err != nil {
		fmt.Println(string(data))
		return
	}

	switch inbound.Type {
	case model.EventMessage:
		var msg model.Message
		if err := json.Unmarshal(inbound.Data, &msg); err == nil {
			fmt.Printf("[%s] %s: %s\n", msg.CreatedAt.Format(time.Kitchen), msg.SenderID, msg.Body)
			return
		}
	case model.EventUserOnline:
		var p model.UserOnlinePayload
		if err := json.Unmarshal(inbound.Data, &p); err == nil {
			fmt.Printf("* %s (%s) is online\n", p.Name, p.Role)
			return
		}
	case model.EventUserOffline:
		var p model.UserOfflinePayload
		if err := json.Unmarshal(inbound.Data, &p); err == nil {
			fmt.Printf("* %s went offline\n", p.UserID)
			return
		}
	case model.EventChatError:
		var errMsg string
		if err := json.Unmarshal(inbound.Data, &errMsg); err == nil {
			fmt.Printf("! %s\n", errMsg)
			return
		}
	}

	fmt.Println(string(data))
}
