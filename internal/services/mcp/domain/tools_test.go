package domain

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	usersclient "github.com/louisbranch/my-api/internal/services/users/client"
	usersdomain "github.com/louisbranch/my-api/internal/services/users/domain"
)

type fakeAPIClient struct {
	health    usersclient.Health
	healthErr error
	echoErr   error
	users     []usersdomain.User
	listErr   error
	created   usersdomain.User
	createErr error
	createIn  usersdomain.CreateUserInput
	got       usersdomain.User
	getErr    error
	getID     string
}

func (f *fakeAPIClient) Health(context.Context) (usersclient.Health, error) {
	return f.health, f.healthErr
}

func (f *fakeAPIClient) Echo(_ context.Context, value json.RawMessage) (json.RawMessage, error) {
	if f.echoErr != nil {
		return nil, f.echoErr
	}
	return value, nil
}

func (f *fakeAPIClient) ListUsers(context.Context) ([]usersdomain.User, error) {
	return f.users, f.listErr
}

func (f *fakeAPIClient) CreateUser(_ context.Context, input usersdomain.CreateUserInput) (usersdomain.User, error) {
	f.createIn = input
	return f.created, f.createErr
}

func (f *fakeAPIClient) GetUser(_ context.Context, id string) (usersdomain.User, error) {
	f.getID = id
	return f.got, f.getErr
}

var testUser = usersdomain.User{
	ID:    uuid.MustParse("6f1c1f8e-3b0a-4c55-9d2e-0a4b8c7d6e5f"),
	Name:  "Alice",
	Email: "alice@example.com",
}

func TestHealthHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		handler := HealthHandler(&fakeAPIClient{health: usersclient.Health{Status: "ok"}})
		toolResult, result, err := handler(context.Background(), nil, HealthInput{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if toolResult == nil {
			t.Fatal("expected non-nil tool result")
		}
		if result.Status != "ok" {
			t.Errorf("expected status ok, got %q", result.Status)
		}
	})

	t.Run("api error", func(t *testing.T) {
		handler := HealthHandler(&fakeAPIClient{healthErr: errors.New("connection refused")})
		_, _, err := handler(context.Background(), nil, HealthInput{})
		if err == nil || !strings.Contains(err.Error(), "connection refused") {
			t.Fatalf("expected wrapped transport error, got %v", err)
		}
	})

	t.Run("nil client", func(t *testing.T) {
		_, _, err := HealthHandler(nil)(context.Background(), nil, HealthInput{})
		if err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestEchoHandler(t *testing.T) {
	t.Run("object", func(t *testing.T) {
		handler := EchoHandler(&fakeAPIClient{})
		_, result, err := handler(context.Background(), nil, EchoInput{Value: map[string]any{"a": 1}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got, ok := result.YouSent.(map[string]any)
		if !ok {
			t.Fatalf("expected object, got %T", result.YouSent)
		}
		if got["a"] != float64(1) {
			t.Errorf("expected a=1, got %v", got["a"])
		}
	})

	t.Run("null", func(t *testing.T) {
		_, result, err := EchoHandler(&fakeAPIClient{})(context.Background(), nil, EchoInput{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.YouSent != nil {
			t.Errorf("expected nil, got %v", result.YouSent)
		}
	})

	t.Run("api error", func(t *testing.T) {
		client := &fakeAPIClient{echoErr: &usersclient.APIError{StatusCode: http.StatusBadRequest, Message: "bad request: invalid JSON body"}}
		_, _, err := EchoHandler(client)(context.Background(), nil, EchoInput{Value: "x"})
		if err == nil || !strings.Contains(err.Error(), "bad request: invalid JSON body") {
			t.Fatalf("expected API message, got %v", err)
		}
	})
}

func TestUserListHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		handler := UserListHandler(&fakeAPIClient{users: []usersdomain.User{testUser}})
		_, result, err := handler(context.Background(), nil, UserListInput{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Users) != 1 {
			t.Fatalf("expected 1 user, got %d", len(result.Users))
		}
		if result.Users[0].ID != testUser.ID.String() || result.Users[0].Name != "Alice" {
			t.Errorf("unexpected user %+v", result.Users[0])
		}
	})

	t.Run("empty list is not nil", func(t *testing.T) {
		_, result, err := UserListHandler(&fakeAPIClient{})(context.Background(), nil, UserListInput{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Users == nil {
			t.Fatal("expected empty non-nil users")
		}
	})

	t.Run("api error", func(t *testing.T) {
		_, _, err := UserListHandler(&fakeAPIClient{listErr: errors.New("boom")})(context.Background(), nil, UserListInput{})
		if err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestUserCreateHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		client := &fakeAPIClient{created: testUser}
		_, result, err := UserCreateHandler(client)(context.Background(), nil, UserCreateInput{Name: "Alice", Email: "alice@example.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if client.createIn.Name != "Alice" || client.createIn.Email != "alice@example.com" {
			t.Errorf("unexpected create input %+v", client.createIn)
		}
		if result.ID != testUser.ID.String() {
			t.Errorf("expected id %q, got %q", testUser.ID.String(), result.ID)
		}
	})

	t.Run("validation error", func(t *testing.T) {
		client := &fakeAPIClient{createErr: &usersclient.APIError{StatusCode: http.StatusBadRequest, Message: "bad request: name and email are required"}}
		_, _, err := UserCreateHandler(client)(context.Background(), nil, UserCreateInput{Name: " ", Email: "x@y.com"})
		if err == nil || !strings.Contains(err.Error(), "name and email are required") {
			t.Fatalf("expected validation message, got %v", err)
		}
	})
}

func TestUserGetHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		client := &fakeAPIClient{got: testUser}
		_, result, err := UserGetHandler(client)(context.Background(), nil, UserGetInput{ID: " " + testUser.ID.String() + " "})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if client.getID != testUser.ID.String() {
			t.Errorf("expected trimmed id, got %q", client.getID)
		}
		if result.Email != "alice@example.com" {
			t.Errorf("unexpected result %+v", result)
		}
	})

	t.Run("missing id", func(t *testing.T) {
		client := &fakeAPIClient{}
		_, _, err := UserGetHandler(client)(context.Background(), nil, UserGetInput{})
		if err == nil {
			t.Fatal("expected error")
		}
		if client.getID != "" {
			t.Fatal("expected no API call")
		}
	})

	t.Run("not found", func(t *testing.T) {
		client := &fakeAPIClient{getErr: &usersclient.APIError{StatusCode: http.StatusNotFound, Message: "user not found"}}
		_, _, err := UserGetHandler(client)(context.Background(), nil, UserGetInput{ID: testUser.ID.String()})
		if err == nil || !strings.Contains(err.Error(), "user not found") {
			t.Fatalf("expected not found message, got %v", err)
		}
	})
}

func TestToolDefinitions(t *testing.T) {
	names := map[string]bool{}
	for _, name := range []string{
		HealthTool().Name,
		EchoTool().Name,
		UserListTool().Name,
		UserCreateTool().Name,
		UserGetTool().Name,
	} {
		if names[name] {
			t.Fatalf("duplicate tool name %q", name)
		}
		names[name] = true
	}
	if len(names) != 5 {
		t.Fatalf("expected 5 tools, got %d", len(names))
	}
}
