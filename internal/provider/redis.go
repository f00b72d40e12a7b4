package provider

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/gomodule/redigo/redis"

	"github.com/willibrandon/looseleaf/internal/logger"
)

// tokenPattern matches whitespace-separated arguments, keeping
// double-quote-delimited segments together. Escaped quotes are not handled;
// command text is intentionally simple.
var tokenPattern = regexp.MustCompile(`(?:[^\s"]+|"[^"]*")+`)

// Tokenize splits command text into arguments. Double-quoted segments become
// single tokens with the quotes stripped.
func Tokenize(commandText string) []string {
	matches := tokenPattern.FindAllString(commandText, -1)
	if len(matches) == 0 {
		return nil
	}
	tokens := make([]string, len(matches))
	for i, m := range matches {
		tokens[i] = strings.ReplaceAll(m, `"`, "")
	}
	return tokens
}

// RedisProvider is the key-value adapter, backed by redigo.
type RedisProvider struct {
	connectTimeout time.Duration
}

// NewRedisProvider creates the Redis adapter with the given connect timeout.
func NewRedisProvider(connectTimeout time.Duration) *RedisProvider {
	return &RedisProvider{connectTimeout: connectTimeout}
}

// Kind returns the backend kind tag.
func (p *RedisProvider) Kind() Kind {
	return KindRedis
}

// Connect dials the server and verifies it responds to PING. On failure the
// partial connection, if any, is closed before the error returns.
func (p *RedisProvider) Connect(ctx context.Context, profile Profile) (Client, error) {
	addr := hostPort(profile.Host, profile.Port)
	logger.Debug("Connecting to Redis", "alias", profile.Alias, "addr", addr)

	opts := []redis.DialOption{
		redis.DialConnectTimeout(p.connectTimeout),
	}
	if profile.Password != "" {
		opts = append(opts, redis.DialPassword(profile.Password))
	}

	conn, err := redis.DialContext(ctx, "tcp", addr, opts...)
	if err != nil {
		return nil, &ConnectionError{Kind: KindRedis, Err: err}
	}

	if _, err := conn.Do("PING"); err != nil {
		conn.Close()
		return nil, &ConnectionError{Kind: KindRedis, Err: err}
	}

	logger.Info("Connected to Redis", "alias", profile.Alias, "addr", addr)
	return conn, nil
}

// Disconnect closes the connection. An already-closed handle is tolerated.
func (p *RedisProvider) Disconnect(ctx context.Context, client Client) error {
	conn, ok := client.(redis.Conn)
	if !ok {
		return fmt.Errorf("not a Redis client: %T", client)
	}
	if err := conn.Close(); err != nil {
		// Closing twice returns an error from redigo; swallow it.
		logger.Debug("Error closing Redis connection", "error", err)
	}
	return nil
}

// Introspect returns the empty metadata variant. Key-space enumeration is
// unbounded, so no enumeration is attempted.
func (p *RedisProvider) Introspect(ctx context.Context, client Client) (Metadata, error) {
	return Metadata{Kind: KindRedis}, nil
}

// Execute tokenizes the command text and dispatches it as a single command.
// Empty input is a no-op returning (nil, nil).
func (p *RedisProvider) Execute(ctx context.Context, client Client, commandText string) (*Result, error) {
	conn, ok := client.(redis.Conn)
	if !ok {
		return nil, fmt.Errorf("not a Redis client: %T", client)
	}

	tokens := Tokenize(commandText)
	if len(tokens) == 0 {
		return nil, nil
	}

	args := make([]any, len(tokens)-1)
	for i, tok := range tokens[1:] {
		args[i] = tok
	}

	reply, err := conn.Do(tokens[0], args...)
	if err != nil {
		return nil, &ExecutionError{Kind: KindRedis, Err: err}
	}

	return &Result{Reply: flattenReply(reply)}, nil
}

// flattenReply converts redigo reply types into display-friendly values:
// bulk strings arrive as []byte and arrays as []any, recursively.
func flattenReply(reply any) any {
	switch v := reply.(type) {
	case []byte:
		return string(v)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = flattenReply(item)
		}
		return out
	case nil:
		return "(nil)"
	default:
		return v
	}
}
