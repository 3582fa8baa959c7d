package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"board-api/internal/config"
	"board-api/internal/domain"
	"board-api/internal/repository"
)

// mockStore respalda los repositorios mock con los mismos invariantes que
// el esquema real: ids de usuario monotonicos, FK de mensajes y cascade.
type mockStore struct {
	nextUserID int64
	tick       int64
	users      map[int64]domain.User
	messages   map[string]domain.Message
	err        error
	msgErr     error
}

func newMockStore() *mockStore {
	return &mockStore{
		nextUserID: 1,
		users:      make(map[int64]domain.User),
		messages:   make(map[string]domain.Message),
	}
}

func (s *mockStore) now() time.Time {
	s.tick++
	return time.Unix(1700000000, 0).UTC().Add(time.Duration(s.tick) * time.Second)
}

// failure permite inyectar fallas solo en el repositorio de mensajes,
// dejando sana la resolucion del usuario actual.
func (s *mockStore) failure() error {
	if s.msgErr != nil {
		return s.msgErr
	}
	return s.err
}

type mockUserRepo struct{ store *mockStore }

func (m *mockUserRepo) List(_ context.Context, params repository.ListUsersParams) ([]domain.User, error) {
	if m.store.err != nil {
		return nil, m.store.err
	}
	ids := make([]int64, 0, len(m.store.users))
	for id := range m.store.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	limit := repository.ClampLimit(params.Limit)
	offset := repository.ClampOffset(params.Offset)

	users := []domain.User{}
	for i := offset; i < len(ids) && len(users) < limit; i++ {
		u := m.store.users[ids[i]]
		u.Messages = nil
		if params.Preview {
			if recent := m.store.recentMessages(u.ID, 1); len(recent) > 0 {
				u.Messages = recent
			}
		}
		users = append(users, u)
	}
	return users, nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id int64, historyLimit int) (domain.User, error) {
	if m.store.err != nil {
		return domain.User{}, m.store.err
	}
	u, ok := m.store.users[id]
	if !ok {
		return domain.User{}, repository.ErrNotFound
	}
	u.Messages = nil
	if limit := repository.ClampHistoryLimit(historyLimit); limit > 0 {
		u.Messages = m.store.recentMessages(id, limit)
	}
	return u, nil
}

func (m *mockUserRepo) Create(_ context.Context, username, email string) (domain.User, error) {
	if m.store.err != nil {
		return domain.User{}, m.store.err
	}
	now := m.store.now()
	u := domain.User{
		ID:        m.store.nextUserID,
		Username:  username,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.store.nextUserID++
	m.store.users[u.ID] = u
	return u, nil
}

func (m *mockUserRepo) Update(_ context.Context, id int64, params repository.UpdateUserParams) (domain.User, error) {
	if m.store.err != nil {
		return domain.User{}, m.store.err
	}
	u, ok := m.store.users[id]
	if !ok {
		return domain.User{}, repository.ErrNotFound
	}
	if params.Username != nil {
		u.Username = *params.Username
	}
	if params.Email != nil {
		u.Email = *params.Email
	}
	u.UpdatedAt = m.store.now()
	m.store.users[id] = u
	return u, nil
}

func (m *mockUserRepo) Delete(_ context.Context, id int64) error {
	if m.store.err != nil {
		return m.store.err
	}
	if _, ok := m.store.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.store.users, id)
	for msgID, msg := range m.store.messages {
		if msg.UserID == id {
			delete(m.store.messages, msgID)
		}
	}
	return nil
}

func (s *mockStore) recentMessages(userID int64, limit int) []domain.Message {
	msgs := []domain.Message{}
	for _, msg := range s.messages {
		if msg.UserID == userID {
			msg.User = nil
			msgs = append(msgs, msg)
		}
	}
	sort.Slice(msgs, func(i, j int) bool { return msgs[i].CreatedAt.After(msgs[j].CreatedAt) })
	if len(msgs) > limit {
		msgs = msgs[:limit]
	}
	return msgs
}

type mockMessageRepo struct{ store *mockStore }

func (m *mockMessageRepo) List(_ context.Context, params repository.ListMessagesParams) ([]domain.Message, error) {
	if err := m.store.failure(); err != nil {
		return nil, err
	}
	msgs := []domain.Message{}
	for _, msg := range m.store.messages {
		if params.UserID != nil && msg.UserID != *params.UserID {
			continue
		}
		owner := m.store.users[msg.UserID]
		summary := owner.Summary()
		msg.User = &summary
		msgs = append(msgs, msg)
	}
	sort.Slice(msgs, func(i, j int) bool { return msgs[i].CreatedAt.After(msgs[j].CreatedAt) })

	limit := repository.ClampLimit(params.Limit)
	offset := repository.ClampOffset(params.Offset)
	if offset > len(msgs) {
		offset = len(msgs)
	}
	msgs = msgs[offset:]
	if len(msgs) > limit {
		msgs = msgs[:limit]
	}
	return msgs, nil
}

func (m *mockMessageRepo) GetByID(_ context.Context, id string) (domain.Message, error) {
	if err := m.store.failure(); err != nil {
		return domain.Message{}, err
	}
	msg, ok := m.store.messages[id]
	if !ok {
		return domain.Message{}, repository.ErrNotFound
	}
	owner := m.store.users[msg.UserID]
	summary := owner.Summary()
	msg.User = &summary
	return msg, nil
}

func (m *mockMessageRepo) Create(_ context.Context, text string, userID int64) (domain.Message, error) {
	if err := m.store.failure(); err != nil {
		return domain.Message{}, err
	}
	if _, ok := m.store.users[userID]; !ok {
		return domain.Message{}, repository.ErrUserNotFound
	}
	now := m.store.now()
	msg := domain.Message{
		ID:        uuid.NewString(),
		Text:      text,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.store.messages[msg.ID] = msg
	return msg, nil
}

func (m *mockMessageRepo) Update(_ context.Context, id string, text string) (domain.Message, error) {
	if err := m.store.failure(); err != nil {
		return domain.Message{}, err
	}
	msg, ok := m.store.messages[id]
	if !ok {
		return domain.Message{}, repository.ErrNotFound
	}
	msg.Text = text
	msg.UpdatedAt = m.store.now()
	m.store.messages[id] = msg
	return msg, nil
}

func (m *mockMessageRepo) Delete(_ context.Context, id string) error {
	if err := m.store.failure(); err != nil {
		return err
	}
	if _, ok := m.store.messages[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.store.messages, id)
	return nil
}

// setupRouter arma el router de prueba con un contexto de request que
// inyecta los repositorios mock, sin tocar la base real.
func setupRouter(store *mockStore, authMode string, authUserID int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	r := gin.New()

	rcMiddleware := func(c *gin.Context) {
		rc := &RequestContext{
			Users:      &mockUserRepo{store: store},
			Messages:   &mockMessageRepo{store: store},
			logger:     logger,
			authMode:   authMode,
			authUserID: authUserID,
		}
		if authMode == config.AuthModeEager {
			rc.CurrentUser(c.Request.Context())
		}
		c.Set(requestContextKey, rc)
		c.Next()
	}

	userH := NewUserHandler(logger)
	messageH := NewMessageHandler(logger)

	api := r.Group("/", rcMiddleware)
	api.GET("/session", userH.GetSession)

	users := api.Group("/users")
	users.GET("", userH.ListUsers)
	users.GET("/:userId", userH.GetUser)
	users.POST("", userH.CreateUser)
	users.PUT("/:userId", userH.UpdateUser)
	users.DELETE("/:userId", userH.DeleteUser)

	messages := api.Group("/messages")
	messages.GET("", messageH.ListMessages)
	messages.GET("/:messageId", messageH.GetMessage)
	messages.POST("", messageH.CreateMessage)
	messages.PUT("/:messageId", messageH.UpdateMessage)
	messages.DELETE("/:messageId", messageH.DeleteMessage)

	return r
}

func performRequest(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var payload []byte
	if body != nil {
		payload, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}
