package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/greengenius/greengenius/db"
	"github.com/greengenius/greengenius/internal/models"
	"github.com/greengenius/greengenius/internal/realtime"
	"github.com/greengenius/greengenius/internal/types"
	"github.com/greengenius/greengenius/internal/utils"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return types.OriginAllowed(r.Header.Get("Origin"))
	},
}

// resolveTopics maps requested topics onto hub topics the user may see.
// "pots" is shorthand for the caller's own pot list.
func resolveTopics(userID uint, requested []string) ([]string, error) {
	var topics []string

	for _, topic := range requested {
		name, arg, _ := strings.Cut(topic, ":")

		switch name {
		case "pots":
			topics = append(topics, realtime.PotsTopic(userID))
		case realtime.CommunitiesTopic:
			topics = append(topics, realtime.CommunitiesTopic)
		case "growth", "sensors":
			if arg == "" || !ownsPot(userID, arg) {
				return nil, fmt.Errorf("Pot not found for topic %q", topic)
			}
			topics = append(topics, name+":"+arg)
		case "posts":
			communityID, err := strconv.ParseUint(arg, 10, 32)
			if err != nil {
				return nil, fmt.Errorf("Invalid community in topic %q", topic)
			}
			if !feedVisible(uint(communityID), userID) {
				return nil, fmt.Errorf("Community not found for topic %q", topic)
			}
			topics = append(topics, realtime.PostsTopic(uint(communityID)))
		default:
			return nil, fmt.Errorf("Unknown topic %q", topic)
		}
	}

	return topics, nil
}

// feedVisible reports whether the community exists and userID may read
// its posts.
func feedVisible(communityID, userID uint) bool {
	var community models.Community

	if err := db.DB.First(&community, communityID).Error; err != nil {
		return false
	}

	return !community.IsPrivate || isMember(db.DB, community.ID, userID)
}

// snapshot loads the current state of a topic. Sensor topics have no
// stored state and only receive live updates.
func snapshot(userID uint, topic string) (any, bool, error) {
	name, arg, _ := strings.Cut(topic, ":")

	switch name {
	case "pots":
		pots, err := listPots(userID)
		return pots, true, err
	case realtime.CommunitiesTopic:
		communities, err := listCommunities(userID)
		return communities, true, err
	case "growth":
		entries, err := listGrowth(arg)
		return entries, true, err
	case "posts":
		communityID, _ := strconv.ParseUint(arg, 10, 32)
		posts, err := listPosts(uint(communityID), userID)
		return posts, true, err
	}

	return nil, false, nil
}

func WebSocket(c *gin.Context) {
	userID, err := utils.GetCurrentUserID(c)

	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	requested := types.SplitList(c.Query("topics"))

	if len(requested) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one topic is required"})
		return
	}

	topics, err := resolveTopics(userID, requested)

	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zap.L().Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	conn.SetReadLimit(realtime.MaxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(realtime.PongWait)); err != nil {
		zap.L().Warn("Failed to set initial read deadline", zap.Error(err))
		conn.Close()
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(realtime.PongWait))
	})

	hub := realtime.Default()
	client := realtime.NewClient(userID, conn)

	defer func() {
		hub.Unregister(client)
		zap.L().Debug("WebSocket connection closed", zap.Uint("user_id", userID))
	}()

	if err := client.Send(realtime.Message{
		Type:    realtime.MessageConnected,
		Message: "WebSocket connection established",
		Topics:  topics,
	}); err != nil {
		zap.L().Warn("Failed to send welcome message", zap.Error(err))
		return
	}

	// broadcasts that arrive while snapshots load are written after them
	client.Hold()
	hub.Subscribe(client, topics...)

	for _, topic := range topics {
		data, ok, err := snapshot(userID, topic)

		if err != nil {
			zap.L().Warn("Failed to load snapshot", zap.String("topic", topic), zap.Error(err))
			_ = client.Send(realtime.Message{Type: realtime.MessageError, Topic: topic, Message: "Failed to load snapshot"})
			continue
		}

		if ok {
			if err := client.Send(realtime.Message{Type: realtime.MessageSnapshot, Topic: topic, Data: data}); err != nil {
				return
			}
		}
	}

	if err := client.Release(); err != nil {
		return
	}

	ticker := time.NewTicker(realtime.PingPeriod)
	defer ticker.Stop()

	done := make(chan struct{})
	defer close(done)

	go func() {
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := client.Ping(); err != nil {
					zap.L().Debug("Ping failed", zap.Uint("user_id", userID), zap.Error(err))
					return
				}
			}
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				zap.L().Warn("WebSocket error", zap.Uint("user_id", userID), zap.Error(err))
			}
			break
		}
		// client messages are ignored; the read loop only keeps the deadline alive
		if err := conn.SetReadDeadline(time.Now().Add(realtime.PongWait)); err != nil {
			break
		}
	}
}
