package ui

import (
	"github.com/willibrandon/looseleaf/internal/protocol"
)

// Panel → core messages. These wrap the wire protocol types so the core
// handles exactly the payloads the panel boundary defines.

// FormTestMsg asks the core to probe the form's connection settings.
type FormTestMsg struct {
	Msg protocol.TestConnection
}

// FormSaveMsg asks the core to persist the form's connection settings.
type FormSaveMsg struct {
	Msg protocol.SaveConnection
}

// RunQueryMsg asks the core to execute the query panel's input against its
// connection. Exactly one of SQL and RedisCommand is set, matching the
// panel's backend kind.
type RunQueryMsg struct {
	Alias        string
	SQL          *protocol.ExecuteQuery
	RedisCommand *protocol.ExecuteRedisCommand
}

// BookmarkQueryMsg asks the core to bookmark the query panel's input.
type BookmarkQueryMsg struct {
	Alias string
	Msg   protocol.SaveQuery
}
