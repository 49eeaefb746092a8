package ws

import (
	"github.com/gin-gonic/gin"
	socketio "github.com/googollee/go-socket.io"
	"github.com/rs/zerolog/log"

	"github.com/quackhq/quackbox/internal/abducktion"
	"github.com/quackhq/quackbox/internal/config"
	"github.com/quackhq/quackbox/internal/game"
)

// Server wires the two game registries to the Socket.IO event surface.
// Validation errors that matter to the user are emitted point-to-point as
// `error` events; wrong-phase, non-host and unknown-player actions are
// dropped silently so that late or duplicate client messages stay harmless.
type Server struct {
	captions *game.Registry
	ducks    *abducktion.Registry
	config   config.Config
}

func New(captions *game.Registry, ducks *abducktion.Registry, cfg config.Config) *Server {
	return &Server{captions: captions, ducks: ducks, config: cfg}
}

// Socket.IO room channels are prefixed per game so a caption room and an
// Abducktion room that happen to draw the same code never share broadcasts.
func captionChannel(code string) string { return "caption:" + code }
func duckChannel(code string) string    { return "duck:" + code }

// Mount attaches the Socket.IO server with all game handlers to the given
// Gin engine.
func (srv *Server) Mount(r *gin.Engine) *socketio.Server {
	io := socketio.NewServer(nil)

	io.OnConnect("/", func(s socketio.Conn) error {
		log.Info().Str("sid", s.ID()).Msg("socket connected")
		return nil
	})

	// ---- caption contest ----

	io.OnEvent("/", "create-room", func(s socketio.Conn) {
		room, err := srv.captions.CreateRoom(s.ID())
		if err != nil {
			srv.err(s, "Could not create room")
			return
		}
		s.Join(captionChannel(room.Code))
		log.Info().Str("sid", s.ID()).Str("code", room.Code).Msg("room created")
		s.Emit("room-created", map[string]any{"roomCode": room.Code, "room": room})
	})

	io.OnEvent("/", "rejoin-room", func(s socketio.Conn, payload struct {
		RoomCode string `json:"roomCode"`
	}) {
		room, err := srv.captions.RejoinHost(payload.RoomCode, s.ID())
		if err != nil {
			srv.err(s, "Room not found")
			return
		}
		s.Join(captionChannel(room.Code))
		log.Info().Str("sid", s.ID()).Str("code", room.Code).Msg("host rejoined")
		s.Emit("room-created", map[string]any{"roomCode": room.Code, "room": room})
	})

	io.OnEvent("/", "join-room", func(s socketio.Conn, payload struct {
		RoomCode   string `json:"roomCode"`
		PlayerName string `json:"playerName"`
	}) {
		room, err := srv.captions.Join(payload.RoomCode, s.ID(), payload.PlayerName)
		switch err {
		case nil:
		case game.ErrRoomNotFound:
			srv.err(s, "Room not found")
			return
		case game.ErrNameTaken:
			srv.err(s, "Name already taken")
			return
		default:
			srv.err(s, "Could not join room")
			return
		}
		s.Join(captionChannel(room.Code))
		log.Info().Str("sid", s.ID()).Str("code", room.Code).Str("name", payload.PlayerName).Msg("player joined")
		io.BroadcastToRoom("/", captionChannel(room.Code), "room-updated", room)
		s.Emit("room-joined", map[string]any{"roomCode": room.Code, "playerId": s.ID(), "room": room})
	})

	io.OnEvent("/", "start-game", func(s socketio.Conn, payload struct {
		RoomCode string `json:"roomCode"`
	}) {
		start, err := srv.captions.StartGame(payload.RoomCode, s.ID())
		if err != nil {
			// host-only and phase preconditions fail silently
			return
		}
		log.Info().Str("code", payload.RoomCode).Int("round", start.Round).Msg("game started")
		io.BroadcastToRoom("/", captionChannel(payload.RoomCode), "game-state-changed", start)
	})

	io.OnEvent("/", "submit-caption", func(s socketio.Conn, payload struct {
		RoomCode string `json:"roomCode"`
		Caption  string `json:"caption"`
	}) {
		progress, voting, err := srv.captions.SubmitCaption(payload.RoomCode, s.ID(), payload.Caption)
		if err == game.ErrAlreadySubmitted {
			srv.err(s, "You already submitted a caption this round")
			return
		}
		if err != nil {
			return
		}
		ch := captionChannel(payload.RoomCode)
		log.Info().Str("code", payload.RoomCode).Str("name", progress.PlayerName).Msg("caption submitted")
		io.BroadcastToRoom("/", ch, "submission-received", progress)
		if voting != nil {
			log.Info().Str("code", payload.RoomCode).Msg("all captions in, voting started")
			io.BroadcastToRoom("/", ch, "game-state-changed", voting)
		}
	})

	io.OnEvent("/", "vote-caption", func(s socketio.Conn, payload struct {
		RoomCode   string `json:"roomCode"`
		VotedForID string `json:"votedForId"`
	}) {
		progress, results, err := srv.captions.VoteCaption(payload.RoomCode, s.ID(), payload.VotedForID)
		if err == game.ErrSelfVote {
			srv.err(s, "Can't vote for yourself!")
			return
		}
		if err != nil {
			return
		}
		ch := captionChannel(payload.RoomCode)
		log.Info().Str("code", payload.RoomCode).Int("votes", progress.VotesReceived).Msg("vote recorded")
		io.BroadcastToRoom("/", ch, "vote-recorded", progress)
		if results != nil {
			log.Info().Str("code", payload.RoomCode).Msg("round tallied")
			io.BroadcastToRoom("/", ch, "game-state-changed", results)
			if srv.config.ExportFile != "" {
				if err := game.ExportRound(srv.config.ExportFile, payload.RoomCode, results.Round, results); err != nil {
					log.Error().Err(err).Str("code", payload.RoomCode).Msg("failed to export round results")
				}
			}
		}
	})

	io.OnEvent("/", "next-round", func(s socketio.Conn, payload struct {
		RoomCode string `json:"roomCode"`
	}) {
		start, err := srv.captions.NextRound(payload.RoomCode, s.ID())
		if err != nil {
			return
		}
		log.Info().Str("code", payload.RoomCode).Int("round", start.Round).Msg("next round started")
		io.BroadcastToRoom("/", captionChannel(payload.RoomCode), "game-state-changed", start)
	})

	// ---- abducktion ----

	io.OnEvent("/", "create-abducktion-room", func(s socketio.Conn) {
		room, err := srv.ducks.CreateRoom(s.ID())
		if err != nil {
			srv.err(s, "Could not create room")
			return
		}
		s.Join(duckChannel(room.Code))
		log.Info().Str("sid", s.ID()).Str("code", room.Code).Msg("abducktion room created")
		s.Emit("abducktion-room-created", room)
	})

	io.OnEvent("/", "join-abducktion-room", func(s socketio.Conn, payload struct {
		RoomCode   string `json:"roomCode"`
		PlayerName string `json:"playerName"`
	}) {
		room, playerID, err := srv.ducks.Join(payload.RoomCode, s.ID(), payload.PlayerName)
		switch err {
		case nil:
		case abducktion.ErrRoomNotFound:
			srv.err(s, "Room not found")
			return
		case abducktion.ErrNameTaken:
			srv.err(s, "Name already taken")
			return
		default:
			srv.err(s, "Could not join room")
			return
		}
		s.Join(duckChannel(room.Code))
		log.Info().Str("sid", s.ID()).Str("code", room.Code).Str("name", payload.PlayerName).Msg("abducktion player joined")
		io.BroadcastToRoom("/", duckChannel(room.Code), "abducktion-room-updated", room)
		s.Emit("room-joined", map[string]any{"roomCode": room.Code, "playerId": playerID})
	})

	io.OnEvent("/", "rejoin-abducktion-room", func(s socketio.Conn, payload struct {
		RoomCode string `json:"roomCode"`
		PlayerID string `json:"playerId"`
		IsHost   bool   `json:"isHost"`
	}) {
		if payload.IsHost {
			room, err := srv.ducks.RejoinHost(payload.RoomCode, s.ID())
			if err != nil {
				srv.err(s, "Room not found")
				return
			}
			s.Join(duckChannel(room.Code))
			log.Info().Str("sid", s.ID()).Str("code", room.Code).Msg("abducktion host rejoined")
			s.Emit("abducktion-room-created", room)
			return
		}
		room, err := srv.ducks.Rebind(payload.RoomCode, payload.PlayerID, s.ID())
		switch err {
		case nil:
		case abducktion.ErrRoomNotFound:
			srv.err(s, "Room not found")
			return
		default:
			srv.err(s, "Player not found")
			return
		}
		s.Join(duckChannel(room.Code))
		log.Info().Str("sid", s.ID()).Str("code", room.Code).Str("playerId", payload.PlayerID).Msg("abducktion player rebound")
		io.BroadcastToRoom("/", duckChannel(room.Code), "abducktion-room-updated", room)
	})

	io.OnEvent("/", "start-abducktion-game", func(s socketio.Conn, payload struct {
		RoomCode string `json:"roomCode"`
	}) {
		room, err := srv.ducks.StartGame(payload.RoomCode, s.ID())
		if err != nil {
			return
		}
		log.Info().Str("code", room.Code).Int("level", room.CurrentLevel).Msg("abducktion started")
		io.BroadcastToRoom("/", duckChannel(room.Code), "abducktion-game-state-changed", room)
	})

	io.OnEvent("/", "abducktion-move", func(s socketio.Conn, payload struct {
		RoomCode  string `json:"roomCode"`
		Direction string `json:"direction"`
	}) {
		outcome, err := srv.ducks.Move(payload.RoomCode, s.ID(), abducktion.Direction(payload.Direction))
		if err != nil || outcome == nil {
			return
		}
		ch := duckChannel(outcome.Room.Code)
		io.BroadcastToRoom("/", ch, "abducktion-room-updated", outcome.Room)
		if outcome.Ended {
			log.Info().Str("code", outcome.Room.Code).Msg("abducktion round finished")
			io.BroadcastToRoom("/", ch, "abducktion-game-state-changed", outcome.Room)
		}
	})

	io.OnEvent("/", "next-abducktion-level", func(s socketio.Conn, payload struct {
		RoomCode string `json:"roomCode"`
	}) {
		room, err := srv.ducks.NextLevel(payload.RoomCode, s.ID())
		if err != nil {
			return
		}
		log.Info().Str("code", room.Code).Int("level", room.CurrentLevel).Msg("abducktion next level")
		io.BroadcastToRoom("/", duckChannel(room.Code), "abducktion-game-state-changed", room)
	})

	// kept for client-side connectivity debugging
	io.OnEvent("/", "test", func(s socketio.Conn, data map[string]any) {
		log.Info().Str("sid", s.ID()).Msg("test event received")
		s.Emit("test-response", map[string]any{"message": "WebSocket is working!"})
	})

	io.OnError("/", func(s socketio.Conn, e error) {
		log.Error().Str("sid", s.ID()).Err(e).Msg("socket error")
	})

	io.OnDisconnect("/", func(s socketio.Conn, reason string) {
		log.Info().Str("sid", s.ID()).Str("reason", reason).Msg("socket disconnected")

		if res := srv.captions.Leave(s.ID()); res.Found {
			ch := captionChannel(res.Code)
			if res.Closed {
				io.BroadcastToRoom("/", ch, "room-closed", map[string]any{"message": "Host left the game"})
				log.Info().Str("code", res.Code).Msg("room closed")
			} else {
				io.BroadcastToRoom("/", ch, "room-updated", res.Room)
			}
		}

		if res := srv.ducks.Leave(s.ID()); res.Found {
			ch := duckChannel(res.Code)
			if res.Closed {
				io.BroadcastToRoom("/", ch, "room-closed", map[string]any{"message": "Host left the game"})
				log.Info().Str("code", res.Code).Msg("abducktion room closed")
			} else {
				io.BroadcastToRoom("/", ch, "abducktion-room-updated", res.Room)
			}
		}
	})

	go io.Serve()

	r.GET("/socket.io/*any", gin.WrapH(io))
	r.POST("/socket.io/*any", gin.WrapH(io))

	return io
}

func (srv *Server) err(s socketio.Conn, message string) {
	s.Emit("error", map[string]any{"message": message})
}
