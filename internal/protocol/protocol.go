// Package protocol defines the message set exchanged between UI panels and
// the core. The JSON shape is the de facto wire format of the panel
// boundary and must stay stable for round-tripping.
package protocol

import (
	"encoding/json"
	"fmt"
)

// Command names, the "command" discriminator values.
const (
	CmdTestConnection       = "testConnection"
	CmdSaveConnection       = "saveConnection"
	CmdExecuteQuery         = "executeQuery"
	CmdExecuteRedisCommand  = "executeRedisCommand"
	CmdSaveQuery            = "saveQuery"
	CmdTestConnectionResult = "testConnectionResult"
	CmdSaveConnectionResult = "saveConnectionResult"
	CmdQueryResult          = "queryResult"
	CmdQueryError           = "queryError"
)

// ConnectionData is the form payload for test/save connection commands.
type ConnectionData struct {
	Alias    string `json:"alias,omitempty"`
	DBType   string `json:"dbType,omitempty"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user,omitempty"`
	Password string `json:"password,omitempty"`
	Database string `json:"database,omitempty"`
}

// TestConnection asks the core to probe a connection without saving it.
type TestConnection struct {
	Command string         `json:"command"`
	Data    ConnectionData `json:"data"`
}

// NewTestConnection builds a TestConnection message.
func NewTestConnection(data ConnectionData) TestConnection {
	return TestConnection{Command: CmdTestConnection, Data: data}
}

// SaveConnection asks the core to persist a profile. OriginalAlias is set
// when editing an existing profile.
type SaveConnection struct {
	Command       string         `json:"command"`
	OriginalAlias string         `json:"originalAlias,omitempty"`
	Data          ConnectionData `json:"data"`
}

// NewSaveConnection builds a SaveConnection message.
func NewSaveConnection(originalAlias string, data ConnectionData) SaveConnection {
	return SaveConnection{Command: CmdSaveConnection, OriginalAlias: originalAlias, Data: data}
}

// ExecuteQuery runs SQL against the panel's live connection.
type ExecuteQuery struct {
	Command string `json:"command"`
	SQL     string `json:"sql"`
}

// NewExecuteQuery builds an ExecuteQuery message.
func NewExecuteQuery(sql string) ExecuteQuery {
	return ExecuteQuery{Command: CmdExecuteQuery, SQL: sql}
}

// ExecuteRedisCommand runs a Redis command against the panel's live
// connection.
type ExecuteRedisCommand struct {
	Command      string `json:"command"`
	RedisCommand string `json:"redisCommand"`
}

// NewExecuteRedisCommand builds an ExecuteRedisCommand message.
func NewExecuteRedisCommand(redisCommand string) ExecuteRedisCommand {
	return ExecuteRedisCommand{Command: CmdExecuteRedisCommand, RedisCommand: redisCommand}
}

// SaveQuery bookmarks the panel's current query text.
type SaveQuery struct {
	Command string `json:"command"`
	Query   string `json:"query"`
}

// NewSaveQuery builds a SaveQuery message.
func NewSaveQuery(query string) SaveQuery {
	return SaveQuery{Command: CmdSaveQuery, Query: query}
}

// TestConnectionResult reports the outcome of a TestConnection probe.
type TestConnectionResult struct {
	Command string `json:"command"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// NewTestConnectionResult builds a TestConnectionResult message.
func NewTestConnectionResult(err error) TestConnectionResult {
	r := TestConnectionResult{Command: CmdTestConnectionResult, Success: err == nil}
	if err != nil {
		r.Error = err.Error()
	}
	return r
}

// SaveConnectionResult reports the outcome of a SaveConnection request.
type SaveConnectionResult struct {
	Command string `json:"command"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// NewSaveConnectionResult builds a SaveConnectionResult message.
func NewSaveConnectionResult(err error) SaveConnectionResult {
	r := SaveConnectionResult{Command: CmdSaveConnectionResult, Success: err == nil}
	if err != nil {
		r.Error = err.Error()
	}
	return r
}

// QueryPayload is the relational result shape inside QueryResult.
type QueryPayload struct {
	Rows   []map[string]any `json:"rows"`
	Fields []string         `json:"fields"`
}

// QueryResult carries a successful execution result. For relational
// connections Result is a QueryPayload; for key-value connections it is
// the opaque backend reply.
type QueryResult struct {
	Command string `json:"command"`
	Result  any    `json:"result"`
}

// NewQueryResult builds a QueryResult message.
func NewQueryResult(result any) QueryResult {
	return QueryResult{Command: CmdQueryResult, Result: result}
}

// QueryError carries a failed execution's error text.
type QueryError struct {
	Command string `json:"command"`
	Error   string `json:"error"`
}

// NewQueryError builds a QueryError message.
func NewQueryError(err error) QueryError {
	return QueryError{Command: CmdQueryError, Error: err.Error()}
}

// DecodeCommand decodes a wire message into its concrete command type,
// dispatching on the "command" discriminator.
func DecodeCommand(data []byte) (any, error) {
	var envelope struct {
		Command string `json:"command"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("invalid message: %w", err)
	}

	switch envelope.Command {
	case CmdTestConnection:
		var msg TestConnection
		return &msg, json.Unmarshal(data, &msg)
	case CmdSaveConnection:
		var msg SaveConnection
		return &msg, json.Unmarshal(data, &msg)
	case CmdExecuteQuery:
		var msg ExecuteQuery
		return &msg, json.Unmarshal(data, &msg)
	case CmdExecuteRedisCommand:
		var msg ExecuteRedisCommand
		return &msg, json.Unmarshal(data, &msg)
	case CmdSaveQuery:
		var msg SaveQuery
		return &msg, json.Unmarshal(data, &msg)
	case CmdTestConnectionResult:
		var msg TestConnectionResult
		return &msg, json.Unmarshal(data, &msg)
	case CmdSaveConnectionResult:
		var msg SaveConnectionResult
		return &msg, json.Unmarshal(data, &msg)
	case CmdQueryResult:
		var msg QueryResult
		return &msg, json.Unmarshal(data, &msg)
	case CmdQueryError:
		var msg QueryError
		return &msg, json.Unmarshal(data, &msg)
	default:
		return nil, fmt.Errorf("unknown command %q", envelope.Command)
	}
}
