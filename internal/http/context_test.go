package http

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"board-api/internal/config"
)

func TestRequestContextCurrentUser_LazyMemoizes(t *testing.T) {
	store := newMockStore()
	users := &mockUserRepo{store: store}
	u, _ := users.Create(context.Background(), "rwieruch", "rwieruch@email.com")

	rc := &RequestContext{
		Users:      users,
		Messages:   &mockMessageRepo{store: store},
		logger:     zap.NewNop(),
		authMode:   config.AuthModeLazy,
		authUserID: u.ID,
	}

	me := rc.CurrentUser(context.Background())
	if me == nil || me.ID != u.ID {
		t.Fatalf("expected current user %d, got %+v", u.ID, me)
	}

	// Resuelto una vez: borrar el usuario no cambia el request en curso.
	delete(store.users, u.ID)
	if again := rc.CurrentUser(context.Background()); again != me {
		t.Fatalf("expected memoized current user")
	}
}

func TestRequestContextCurrentUser_NonePolicy(t *testing.T) {
	store := newMockStore()
	users := &mockUserRepo{store: store}
	u, _ := users.Create(context.Background(), "rwieruch", "rwieruch@email.com")

	rc := &RequestContext{
		Users:      users,
		Messages:   &mockMessageRepo{store: store},
		logger:     zap.NewNop(),
		authMode:   config.AuthModeNone,
		authUserID: u.ID,
	}

	if me := rc.CurrentUser(context.Background()); me != nil {
		t.Fatalf("expected no current user under none policy, got %+v", me)
	}
}

func TestRequestContextCurrentUser_FailureDegrades(t *testing.T) {
	store := newMockStore()

	rc := &RequestContext{
		Users:      &mockUserRepo{store: store},
		Messages:   &mockMessageRepo{store: store},
		logger:     zap.NewNop(),
		authMode:   config.AuthModeLazy,
		authUserID: 404,
	}

	if me := rc.CurrentUser(context.Background()); me != nil {
		t.Fatalf("expected degradation to nil on missing user, got %+v", me)
	}
	// La degradacion tambien queda memoizada para el resto del request.
	if me := rc.CurrentUser(context.Background()); me != nil {
		t.Fatalf("expected nil on second call, got %+v", me)
	}
}
