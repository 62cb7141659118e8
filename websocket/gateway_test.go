package websocket

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/reach-skyline/chat-service/chat"
	"github.com/reach-skyline/chat-service/database"
	"github.com/reach-skyline/chat-service/models"
	"github.com/reach-skyline/chat-service/utils"
)

func setupGateway(t *testing.T) *httptest.Server {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "open test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.ChatRoom{}, &models.ChatMessage{}, &models.UnreadCount{}))
	database.DB = db

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/ws", HandleConnection)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

// eventReader decodes typed events from a connection, unpacking frames that
// the write pump coalesced into one websocket message.
type eventReader struct {
	t    *testing.T
	conn *websocket.Conn
	dec  *json.Decoder
}

type event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func (r *eventReader) next() event {
	r.t.Helper()

	for {
		if r.dec != nil && r.dec.More() {
			var ev event
			require.NoError(r.t, r.dec.Decode(&ev))
			return ev
		}

		require.NoError(r.t, r.conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, frame, err := r.conn.ReadMessage()
		require.NoError(r.t, err, "read websocket frame")
		r.dec = json.NewDecoder(bytes.NewReader(frame))
	}
}

func (r *eventReader) expect(msgType string) event {
	r.t.Helper()
	ev := r.next()
	require.Equal(r.t, msgType, ev.Type)
	return ev
}

func (r *eventReader) expectError(code string) {
	r.t.Helper()
	ev := r.expect("error")

	var payload struct {
		Code string `json:"code"`
	}
	require.NoError(r.t, json.Unmarshal(ev.Payload, &payload))
	require.Equal(r.t, code, payload.Code)
}

func dialGateway(t *testing.T, srv *httptest.Server) (*websocket.Conn, *eventReader) {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err, "dial gateway")
	t.Cleanup(func() { conn.Close() })

	return conn, &eventReader{t: t, conn: conn}
}

func sendIntent(t *testing.T, conn *websocket.Conn, msgType string, payload interface{}) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(map[string]interface{}{
		"type":    msgType,
		"payload": payload,
	}))
}

func identifyAs(t *testing.T, conn *websocket.Conn, reader *eventReader, userID string) {
	t.Helper()

	token, err := utils.GenerateToken(userID)
	require.NoError(t, err)

	sendIntent(t, conn, "identify", IdentifyPayload{Token: token})
	reader.expect("identified")
}

func TestIdentifyRejectsBadToken(t *testing.T) {
	srv := setupGateway(t)
	conn, reader := dialGateway(t, srv)

	sendIntent(t, conn, "identify", IdentifyPayload{Token: "not-a-jwt"})
	reader.expectError("invalid_token")
}

func TestJoinRequiresIdentify(t *testing.T) {
	srv := setupGateway(t)
	conn, reader := dialGateway(t, srv)

	sendIntent(t, conn, "join_room", RoomPayload{RoomID: 1})
	reader.expectError("not_identified")
}

func TestJoinUnknownRoom(t *testing.T) {
	srv := setupGateway(t)
	conn, reader := dialGateway(t, srv)
	identifyAs(t, conn, reader, "EMP007")

	sendIntent(t, conn, "join_room", RoomPayload{RoomID: 404})
	reader.expectError("room_not_found")
}

func TestJoinForbiddenForNonParticipant(t *testing.T) {
	srv := setupGateway(t)

	room, err := chat.ResolveOrCreateRoom("T5", "EMP007", "EMP001", "Branding")
	require.NoError(t, err)

	conn, reader := dialGateway(t, srv)
	identifyAs(t, conn, reader, "EMP999")

	sendIntent(t, conn, "join_room", RoomPayload{RoomID: room.ID})
	reader.expectError("forbidden")
}

func TestSendBeforeJoinRejected(t *testing.T) {
	srv := setupGateway(t)

	room, err := chat.ResolveOrCreateRoom("T5", "EMP007", "EMP001", "Branding")
	require.NoError(t, err)

	conn, reader := dialGateway(t, srv)
	identifyAs(t, conn, reader, "EMP007")

	sendIntent(t, conn, "message", SendPayload{RoomID: room.ID, Body: "too eager", TaskCode: "T5"})
	reader.expectError("not_joined")

	var count int64
	require.NoError(t, database.DB.Model(&models.ChatMessage{}).Count(&count).Error)
	require.EqualValues(t, 0, count, "a rejected send must not be persisted")
}

func TestMessageDeliveryAndUnread(t *testing.T) {
	srv := setupGateway(t)

	room, err := chat.ResolveOrCreateRoom("T5", "EMP007", "EMP001", "Branding")
	require.NoError(t, err)

	employee, employeeReader := dialGateway(t, srv)
	identifyAs(t, employee, employeeReader, "EMP007")
	sendIntent(t, employee, "join_room", RoomPayload{RoomID: room.ID})
	employeeReader.expect("room_joined")

	lead, leadReader := dialGateway(t, srv)
	identifyAs(t, lead, leadReader, "EMP001")
	sendIntent(t, lead, "join_room", RoomPayload{RoomID: room.ID})
	leadReader.expect("room_joined")

	sendIntent(t, employee, "message", SendPayload{RoomID: room.ID, Body: "status update", TaskCode: "T5"})

	// Both joined connections get the stored message.
	var delivered models.ChatMessage
	ev := leadReader.expect("message")
	require.NoError(t, json.Unmarshal(ev.Payload, &delivered))
	require.Equal(t, "status update", delivered.Body)
	require.Equal(t, "EMP007", delivered.SenderID)
	require.Equal(t, "EMP001", delivered.ReceiverID)
	require.NotZero(t, delivered.ID)

	employeeReader.expect("message")

	// The recipient is also told to refresh its unread badges.
	leadReader.expect(EventUnreadChanged)

	snapshot, err := chat.UnreadSnapshot("EMP001")
	require.NoError(t, err)
	require.EqualValues(t, 1, snapshot["T5"])
}

func TestEmptySendRejected(t *testing.T) {
	srv := setupGateway(t)

	room, err := chat.ResolveOrCreateRoom("T5", "EMP007", "EMP001", "Branding")
	require.NoError(t, err)

	conn, reader := dialGateway(t, srv)
	identifyAs(t, conn, reader, "EMP007")
	sendIntent(t, conn, "join_room", RoomPayload{RoomID: room.ID})
	reader.expect("room_joined")

	sendIntent(t, conn, "message", SendPayload{RoomID: room.ID, TaskCode: "T5"})
	reader.expectError("empty_message")
}

func TestDisconnectWithoutLeaveThenRejoin(t *testing.T) {
	srv := setupGateway(t)

	room, err := chat.ResolveOrCreateRoom("T5", "EMP007", "EMP001", "Branding")
	require.NoError(t, err)

	conn, reader := dialGateway(t, srv)
	identifyAs(t, conn, reader, "EMP001")
	sendIntent(t, conn, "join_room", RoomPayload{RoomID: room.ID})
	reader.expect("room_joined")

	// Drop the connection without a leave_room.
	require.NoError(t, conn.Close())

	// A new message is appended and broadcast; the dead connection must not
	// cause an error.
	message, err := chat.Append(room.ID, "EMP007", "EMP001", "are you still there?", "", "T5")
	require.NoError(t, err)
	BroadcastToRoom(room.ID, "message", message)

	// A fresh connection by the same user rejoins and catches up.
	fresh, freshReader := dialGateway(t, srv)
	identifyAs(t, fresh, freshReader, "EMP001")
	sendIntent(t, fresh, "join_room", RoomPayload{RoomID: room.ID})
	freshReader.expect("room_joined")

	history, err := chat.History(room.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, "are you still there?", history[0].Body)
}
