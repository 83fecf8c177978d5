package domain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	usersclient "github.com/louisbranch/my-api/internal/services/users/client"
	usersdomain "github.com/louisbranch/my-api/internal/services/users/domain"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// APIClient is the subset of the users API the tools call.
type APIClient interface {
	Health(ctx context.Context) (usersclient.Health, error)
	Echo(ctx context.Context, value json.RawMessage) (json.RawMessage, error)
	ListUsers(ctx context.Context) ([]usersdomain.User, error)
	CreateUser(ctx context.Context, input usersdomain.CreateUserInput) (usersdomain.User, error)
	GetUser(ctx context.Context, id string) (usersdomain.User, error)
}

// HealthInput takes no arguments.
type HealthInput struct{}

// HealthResult reports API liveness.
type HealthResult struct {
	Status string `json:"status" jsonschema:"API health status"`
}

// EchoInput carries the value to send to the echo endpoint.
type EchoInput struct {
	Value any `json:"value" jsonschema:"any JSON value to echo"`
}

// EchoResult is the value the API sent back.
type EchoResult struct {
	YouSent any `json:"you_sent" jsonschema:"value returned by the API"`
}

// UserListInput takes no arguments.
type UserListInput struct{}

// UserListResult holds every user ordered by name.
type UserListResult struct {
	Users []UserResult `json:"users" jsonschema:"users ordered by name"`
}

// UserCreateInput is the create payload.
type UserCreateInput struct {
	Name  string `json:"name" jsonschema:"user name"`
	Email string `json:"email" jsonschema:"user email"`
}

// UserGetInput identifies one user.
type UserGetInput struct {
	ID string `json:"id" jsonschema:"user UUID"`
}

// UserResult is one user record.
type UserResult struct {
	ID    string `json:"id" jsonschema:"user UUID"`
	Name  string `json:"name" jsonschema:"user name"`
	Email string `json:"email" jsonschema:"user email"`
}

// HealthTool defines the MCP tool schema for the API health probe.
func HealthTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "api_health",
		Description: "Checks that the users API is up",
	}
}

// EchoTool defines the MCP tool schema for the echo endpoint.
func EchoTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "api_echo",
		Description: "Sends a JSON value to the API and returns what it echoed",
	}
}

// UserListTool defines the MCP tool schema for listing users.
func UserListTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "user_list",
		Description: "Lists every user ordered by name",
	}
}

// UserCreateTool defines the MCP tool schema for creating a user.
func UserCreateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "user_create",
		Description: "Creates a user from a name and email",
	}
}

// UserGetTool defines the MCP tool schema for fetching one user.
func UserGetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "user_get",
		Description: "Fetches one user by UUID",
	}
}

// HealthHandler probes the API.
func HealthHandler(client APIClient) mcp.ToolHandlerFor[HealthInput, HealthResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ HealthInput) (*mcp.CallToolResult, HealthResult, error) {
		if client == nil {
			return nil, HealthResult{}, errClientMissing
		}
		health, err := client.Health(ctx)
		if err != nil {
			return nil, HealthResult{}, toolError("api health", err)
		}
		return &mcp.CallToolResult{}, HealthResult{Status: health.Status}, nil
	}
}

// EchoHandler round-trips a value through the API.
func EchoHandler(client APIClient) mcp.ToolHandlerFor[EchoInput, EchoResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input EchoInput) (*mcp.CallToolResult, EchoResult, error) {
		if client == nil {
			return nil, EchoResult{}, errClientMissing
		}
		raw, err := json.Marshal(input.Value)
		if err != nil {
			return nil, EchoResult{}, fmt.Errorf("encode echo value: %w", err)
		}
		echoed, err := client.Echo(ctx, raw)
		if err != nil {
			return nil, EchoResult{}, toolError("api echo", err)
		}
		var value any
		if err := json.Unmarshal(echoed, &value); err != nil {
			return nil, EchoResult{}, fmt.Errorf("decode echo response: %w", err)
		}
		return &mcp.CallToolResult{}, EchoResult{YouSent: value}, nil
	}
}

// UserListHandler lists users.
func UserListHandler(client APIClient) mcp.ToolHandlerFor[UserListInput, UserListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ UserListInput) (*mcp.CallToolResult, UserListResult, error) {
		if client == nil {
			return nil, UserListResult{}, errClientMissing
		}
		users, err := client.ListUsers(ctx)
		if err != nil {
			return nil, UserListResult{}, toolError("user list", err)
		}
		result := UserListResult{Users: make([]UserResult, 0, len(users))}
		for _, user := range users {
			result.Users = append(result.Users, userResult(user))
		}
		return &mcp.CallToolResult{}, result, nil
	}
}

// UserCreateHandler creates a user.
func UserCreateHandler(client APIClient) mcp.ToolHandlerFor[UserCreateInput, UserResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input UserCreateInput) (*mcp.CallToolResult, UserResult, error) {
		if client == nil {
			return nil, UserResult{}, errClientMissing
		}
		user, err := client.CreateUser(ctx, usersdomain.CreateUserInput{Name: input.Name, Email: input.Email})
		if err != nil {
			return nil, UserResult{}, toolError("user create", err)
		}
		return &mcp.CallToolResult{}, userResult(user), nil
	}
}

// UserGetHandler fetches one user.
func UserGetHandler(client APIClient) mcp.ToolHandlerFor[UserGetInput, UserResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input UserGetInput) (*mcp.CallToolResult, UserResult, error) {
		if client == nil {
			return nil, UserResult{}, errClientMissing
		}
		id := strings.TrimSpace(input.ID)
		if id == "" {
			return nil, UserResult{}, fmt.Errorf("id is required")
		}
		user, err := client.GetUser(ctx, id)
		if err != nil {
			return nil, UserResult{}, toolError("user get", err)
		}
		return &mcp.CallToolResult{}, userResult(user), nil
	}
}

var errClientMissing = errors.New("users API client is not configured")

// toolError keeps the API's public message as the tool error text.
func toolError(op string, err error) error {
	var apiErr *usersclient.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return fmt.Errorf("%s failed: %s", op, apiErr.Message)
	}
	return fmt.Errorf("%s failed: %w", op, err)
}

func userResult(user usersdomain.User) UserResult {
	return UserResult{ID: user.ID.String(), Name: user.Name, Email: user.Email}
}
