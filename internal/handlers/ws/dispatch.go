package ws

import (
	"context"
	"encoding/json"

	"github.com/KirkDiggler/zombeers/internal/services/game"
	"github.com/KirkDiggler/zombeers/internal/services/messaging"
	"github.com/KirkDiggler/zombeers/internal/services/room"
	"go.uber.org/zap"
)

// dispatch routes one frame to the room service. Request/response types get
// a reply frame; rejected fire-and-forget requests are reported by the room
// service itself.
func (h *Handler) dispatch(ctx context.Context, c *client, data []byte) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil || env.Type == "" {
		h.sendError(ctx, c, messaging.ReasonInvalidMessage, "")
		return
	}

	logger := h.logger.With(zap.String("session_id", c.id), zap.String("type", env.Type))

	var err error
	switch MessageType(env.Type) {
	case MessageCreateRoom:
		h.createRoom(ctx, c, &env)
		return

	case MessageJoinRoom:
		h.joinRoom(ctx, c, &env)
		return

	case MessageRequestState:
		h.requestState(ctx, c, &env)
		return

	case MessageAddPlayer:
		var p addPlayerPayload
		if !decodePayload(env.Payload, &p) {
			h.sendError(ctx, c, messaging.ReasonInvalidMessage, "")
			return
		}
		err = h.roomService.AddPlayer(ctx, &room.AddPlayerInput{SessionID: c.id, RoomCode: p.RoomCode, Name: p.Name})

	case MessageRemovePlayer:
		var p removePlayerPayload
		if !decodePayload(env.Payload, &p) {
			h.sendError(ctx, c, messaging.ReasonInvalidMessage, "")
			return
		}
		err = h.roomService.RemovePlayer(ctx, &room.RemovePlayerInput{SessionID: c.id, RoomCode: p.RoomCode, PlayerID: p.PlayerID})

	case MessageStartGame:
		code, ok := decodeRoomCode(env.Payload)
		if !ok {
			h.sendError(ctx, c, messaging.ReasonInvalidMessage, "")
			return
		}
		err = h.roomService.StartGame(ctx, &room.StartGameInput{SessionID: c.id, RoomCode: code})

	case MessagePlayerAction:
		var p playerActionPayload
		if !decodePayload(env.Payload, &p) {
			h.sendError(ctx, c, messaging.ReasonInvalidMessage, "")
			return
		}
		err = h.roomService.PlayerAction(ctx, &room.PlayerActionInput{
			SessionID: c.id,
			RoomCode:  p.RoomCode,
			PlayerID:  p.PlayerID,
			Action:    p.Action,
		})

	case MessageUpdateSettings:
		var p updateSettingsPayload
		if !decodePayload(env.Payload, &p) {
			h.sendError(ctx, c, messaging.ReasonInvalidMessage, "")
			return
		}
		err = h.roomService.UpdateSettings(ctx, &room.UpdateSettingsInput{SessionID: c.id, RoomCode: p.RoomCode, Settings: p.NewSettings})

	case MessageResetGame:
		code, ok := decodeRoomCode(env.Payload)
		if !ok {
			h.sendError(ctx, c, messaging.ReasonInvalidMessage, "")
			return
		}
		err = h.roomService.ResetGame(ctx, &room.ResetGameInput{SessionID: c.id, RoomCode: code})

	case MessageNewGameSetup:
		code, ok := decodeRoomCode(env.Payload)
		if !ok {
			h.sendError(ctx, c, messaging.ReasonInvalidMessage, "")
			return
		}
		err = h.roomService.NewGameSetup(ctx, &room.NewGameSetupInput{SessionID: c.id, RoomCode: code})

	default:
		logger.Debug("unknown message type")
		h.sendError(ctx, c, messaging.ReasonUnknownMessageType, env.Type)
		return
	}

	if err != nil {
		logger.Debug("request rejected", zap.String("kind", string(game.KindOf(err))), zap.Error(err))
	}
}

func (h *Handler) createRoom(ctx context.Context, c *client, env *Envelope) {
	out, err := h.roomService.CreateRoom(ctx, &room.CreateRoomInput{SessionID: c.id})
	if err != nil {
		h.logger.Error("failed to create room", zap.String("session_id", c.id), zap.Error(err))
		h.sendErrorMessage(c, game.MessageOf(err))
		return
	}

	h.reply(c, env.ID, &createRoomReply{
		RoomCode: out.RoomCode,
		State:    out.State,
	})
}

func (h *Handler) joinRoom(ctx context.Context, c *client, env *Envelope) {
	code, ok := decodeRoomCode(env.Payload)
	if !ok {
		h.reply(c, env.ID, &joinRoomReply{Success: false, Message: h.errorMessage(ctx, messaging.ReasonInvalidMessage, "")})
		return
	}

	out, err := h.roomService.JoinRoom(ctx, &room.JoinRoomInput{SessionID: c.id, RoomCode: code})
	if err != nil {
		h.reply(c, env.ID, &joinRoomReply{Success: false, Message: game.MessageOf(err)})
		return
	}

	h.reply(c, env.ID, &joinRoomReply{
		Success:  true,
		State:    out.State,
		RoomCode: out.RoomCode,
	})
}

func (h *Handler) requestState(ctx context.Context, c *client, env *Envelope) {
	code, ok := decodeRoomCode(env.Payload)
	if !ok {
		h.reply(c, env.ID, &requestStateReply{Success: false, Message: h.errorMessage(ctx, messaging.ReasonInvalidMessage, "")})
		return
	}

	out, err := h.roomService.RequestState(ctx, &room.RequestStateInput{SessionID: c.id, RoomCode: code})
	if err != nil {
		h.reply(c, env.ID, &requestStateReply{Success: false, Message: game.MessageOf(err)})
		return
	}

	h.reply(c, env.ID, &requestStateReply{
		Success: true,
		State:   out.State,
	})
}

func (h *Handler) reply(c *client, id string, payload any) {
	h.hub.send(c, &outbound{Type: typeReply, ID: id, Payload: payload})
}

func (h *Handler) sendError(ctx context.Context, c *client, reason messaging.ErrorReason, detail string) {
	h.sendErrorMessage(c, h.errorMessage(ctx, reason, detail))
}

func (h *Handler) sendErrorMessage(c *client, message string) {
	h.hub.send(c, &outbound{
		Type:    string(room.EventActionError),
		Payload: &room.ActionErrorPayload{Message: message},
	})
}

func (h *Handler) errorMessage(ctx context.Context, reason messaging.ErrorReason, detail string) string {
	out, err := h.messagingService.GetErrorMessage(ctx, &messaging.GetErrorMessageInput{
		Reason: reason,
		Detail: detail,
	})
	if err != nil {
		return "Something went wrong."
	}
	return out.Message
}
