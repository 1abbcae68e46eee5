package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	rtdto "github.com/meetpilot-team/meetpilot/internal/adapter/dto/realtime"
	"github.com/meetpilot-team/meetpilot/internal/domain/entities"
	"github.com/meetpilot-team/meetpilot/internal/infrastructure/realtime"
	"github.com/meetpilot-team/meetpilot/internal/usecase/pipeline"
	pkgvalidator "github.com/meetpilot-team/meetpilot/pkg/validator"
)

// commandTimeout bounds pipeline work triggered by one client frame. The
// websocket connection outlives any single command, so the request context
// cannot be used.
const commandTimeout = 10 * time.Second

// RealtimeHandler upgrades viewer connections and dispatches their
// commands to the pipeline.
type RealtimeHandler struct {
	hub       *realtime.Hub
	svc       pipeline.Service
	validator *pkgvalidator.CustomValidator
	upgrader  websocket.Upgrader
	logger    *zap.Logger
}

// NewRealtimeHandler creates a new realtime handler
func NewRealtimeHandler(hub *realtime.Hub, svc pipeline.Service, allowedOrigins []string, logger *zap.Logger) *RealtimeHandler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	allowAll := len(allowedOrigins) == 0
	for _, origin := range allowedOrigins {
		if origin == "*" {
			allowAll = true
		}
		allowed[origin] = struct{}{}
	}
	return &RealtimeHandler{
		hub:       hub,
		svc:       svc,
		validator: pkgvalidator.New(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if allowAll {
					return true
				}
				_, ok := allowed[r.Header.Get("Origin")]
				return ok
			},
		},
		logger: logger,
	}
}

// HandleSocket upgrades the connection and runs the client pumps until the
// connection terminates. Membership cleanup happens inside the client on
// any exit path.
func (h *RealtimeHandler) HandleSocket(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return nil
	}

	client := realtime.NewClient(h.hub, conn, h.onMessage, h.logger)
	client.Run()
	return nil
}

// onMessage handles one inbound command frame. Errors are reported back to
// the sending client only; they never affect other room members.
func (h *RealtimeHandler) onMessage(client *realtime.Client, data []byte) {
	var cmd rtdto.Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		h.reply(client, rtdto.Ack{Event: "command-error", Error: "malformed command"})
		return
	}
	if err := h.validator.Validate(&cmd); err != nil {
		h.reply(client, rtdto.Ack{Event: "command-error", Command: cmd.Command, Error: err.Error()})
		return
	}

	meetingID, err := uuid.Parse(cmd.MeetingID)
	if err != nil {
		h.reply(client, rtdto.Ack{Event: "command-error", Command: cmd.Command, Error: "invalid meeting id"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	switch cmd.Command {
	case rtdto.CommandJoinMeeting:
		h.hub.Join(client, meetingID)
		h.reply(client, rtdto.Ack{Event: "command-ack", Command: cmd.Command, Room: realtime.RoomKey(meetingID)})

	case rtdto.CommandLeaveMeeting:
		h.hub.Leave(client, meetingID)
		h.reply(client, rtdto.Ack{Event: "command-ack", Command: cmd.Command, Room: realtime.RoomKey(meetingID)})

	case rtdto.CommandStartRecording:
		h.commandResult(client, cmd, nil, h.svc.StartRecording(ctx, meetingID))

	case rtdto.CommandStopRecording:
		h.commandResult(client, cmd, nil, h.svc.StopRecording(ctx, meetingID))

	case rtdto.CommandDismissInsight:
		insightID, err := uuid.Parse(cmd.TargetID)
		if err != nil {
			h.reply(client, rtdto.Ack{Event: "command-error", Command: cmd.Command, Error: "invalid target id"})
			return
		}
		insight, err := h.svc.DismissInsight(ctx, insightID)
		h.commandResult(client, cmd, insight, err)

	case rtdto.CommandConfirmAction, rtdto.CommandRejectAction:
		actionID, err := uuid.Parse(cmd.TargetID)
		if err != nil {
			h.reply(client, rtdto.Ack{Event: "command-error", Command: cmd.Command, Error: "invalid target id"})
			return
		}
		status := entities.DetectionStatusConfirmed
		if cmd.Command == rtdto.CommandRejectAction {
			status = entities.DetectionStatusRejected
		}
		action, err := h.svc.ResolveAction(ctx, actionID, status)
		h.commandResult(client, cmd, action, err)

	case rtdto.CommandConfirmDecision, rtdto.CommandRejectDecision:
		decisionID, err := uuid.Parse(cmd.TargetID)
		if err != nil {
			h.reply(client, rtdto.Ack{Event: "command-error", Command: cmd.Command, Error: "invalid target id"})
			return
		}
		status := entities.DetectionStatusConfirmed
		if cmd.Command == rtdto.CommandRejectDecision {
			status = entities.DetectionStatusRejected
		}
		decision, err := h.svc.ResolveDecision(ctx, decisionID, status)
		h.commandResult(client, cmd, decision, err)

	default:
		h.reply(client, rtdto.Ack{Event: "command-error", Command: cmd.Command, Error: "unknown command"})
	}
}

func (h *RealtimeHandler) commandResult(client *realtime.Client, cmd rtdto.Command, data interface{}, err error) {
	if err != nil {
		h.logger.Warn("client command failed",
			zap.String("command", cmd.Command),
			zap.String("meeting_id", cmd.MeetingID),
			zap.Error(err),
		)
		h.reply(client, rtdto.Ack{Event: "command-error", Command: cmd.Command, Error: err.Error()})
		return
	}
	h.reply(client, rtdto.Ack{Event: "command-ack", Command: cmd.Command, Data: data})
}

func (h *RealtimeHandler) reply(client *realtime.Client, ack rtdto.Ack) {
	frame, err := json.Marshal(ack)
	if err != nil {
		return
	}
	client.Send(frame)
}
