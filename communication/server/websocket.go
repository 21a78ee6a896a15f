package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"wargames/communication"
	"wargames/game"
	"wargames/gamemaster"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ClientMessage is what a websocket client may send: an action to play.
type ClientMessage struct {
	Type   string       `json:"type"` // "action"
	Action *game.Action `json:"action,omitempty"`
}

// conn serialises writes, which gorilla/websocket requires.
type conn struct {
	ws      *websocket.Conn
	writeMu sync.Mutex
}

func (c *conn) writeJSON(v any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.ws.WriteJSON(v)
}

func updateMessage(u gamemaster.Update) communication.UpdateMessage {
	view := communication.NewStateView(u.Session.String(), u.State)
	msg := communication.UpdateMessage{
		Type:   "update",
		Player: u.Player,
		Action: u.Action,
		Result: communication.NewAttackResultView(u.Result),
		State:  &view,
	}
	if u.Action == nil {
		msg.Type = "reset"
		if u.State.IsOver() {
			msg.Type = "over" // Turn limit ran out
		}
	}
	return msg
}

// HandleWebsocket sends the current state, then every update. Actions sent by the
// client are played for the human faction; rejections come back as error messages.
func HandleWebsocket(session *gamemaster.Session, logger zerolog.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ws, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
		if err != nil {
			logger.Warn().Err(err).Msg("websocket upgrade failed")
			return
		}
		c := &conn{ws: ws}
		defer ws.Close()

		updates, unsubscribe := session.Subscribe()
		defer unsubscribe()

		view := communication.NewStateView(session.ID().String(), session.State())
		if err := c.writeJSON(communication.UpdateMessage{Type: "state", Player: view.CurrentPlayer, State: &view}); err != nil {
			return
		}

		done := make(chan struct{})
		go func() {
			defer close(done)
			for u := range updates {
				if err := c.writeJSON(updateMessage(u)); err != nil {
					logger.Debug().Err(err).Msg("websocket write failed")
					return
				}
			}
		}()

		for {
			msgType, data, err := ws.ReadMessage()
			if err != nil {
				break
			}
			if msgType != websocket.TextMessage {
				continue
			}

			var reply error
			var msg ClientMessage
			if err := json.Unmarshal(data, &msg); err != nil || msg.Type != "action" || msg.Action == nil {
				reply = errors.New("expected an action message")
			} else if _, err := session.Play(context.WithoutCancel(ctx.Request.Context()), *msg.Action); err != nil {
				reply = err
			}
			if reply == nil {
				continue
			}
			if err := c.writeJSON(communication.UpdateMessage{Type: "error", Player: game.None, Error: reply.Error()}); err != nil {
				logger.Debug().Err(err).Msg("websocket write failed")
				break
			}
		}

		unsubscribe()
		<-done
	}
}
