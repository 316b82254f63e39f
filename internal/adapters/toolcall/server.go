package toolcall

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/pantrykeeper/core/internal/domain/entities"
	"github.com/pantrykeeper/core/internal/infrastructure/logger"
	"github.com/pantrykeeper/core/internal/ports"
)

// JSON-RPC error codes. The reserved range covers protocol failures; domain
// error kinds get codes in the implementation-defined range.
const (
	codeParseError     = -32700
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeNotFound       = -32001
	codeDatabase       = -32002
)

const protocolVersion = "2024-11-05"

// Server speaks newline-delimited JSON-RPC 2.0 over a byte stream, exposing
// the inventory operations as callable tools. One request maps to one
// response line; notifications (requests without an id) get no reply.
type Server struct {
	service ports.InventoryService
	logger  *logger.Logger
	in      io.Reader
	out     io.Writer

	writeMu sync.Mutex
}

// NewServer creates a new tool-call server. Production wiring passes stdin
// and stdout; tests pass buffers.
func NewServer(service ports.InventoryService, log *logger.Logger, in io.Reader, out io.Writer) *Server {
	return &Server{
		service: service,
		logger:  log,
		in:      in,
		out:     out,
	}
}

type request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Run reads frames until the input is exhausted or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(s.in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req request
		if err := json.Unmarshal(line, &req); err != nil {
			s.reply(response{JSONRPC: "2.0", Error: &rpcError{Code: codeParseError, Message: "parse error"}})
			continue
		}

		resp := s.dispatch(ctx, &req)
		if req.ID == nil {
			continue
		}
		resp.ID = req.ID
		s.reply(resp)
	}
	return scanner.Err()
}

func (s *Server) reply(resp response) {
	resp.JSONRPC = "2.0"

	data, err := json.Marshal(resp)
	if err != nil {
		s.logger.Error("Failed to marshal response", "error", err)
		return
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if _, err := fmt.Fprintf(s.out, "%s\n", data); err != nil {
		s.logger.Error("Failed to write response", "error", err)
	}
}

func (s *Server) dispatch(ctx context.Context, req *request) response {
	switch req.Method {
	case "initialize":
		return response{Result: map[string]interface{}{
			"protocolVersion": protocolVersion,
			"capabilities":    map[string]interface{}{"tools": map[string]interface{}{}},
			"serverInfo": map[string]interface{}{
				"name":    "pantrykeeper",
				"version": "1.0.0",
			},
		}}
	case "tools/list":
		return response{Result: map[string]interface{}{"tools": toolDefinitions()}}
	case "tools/call":
		return s.callTool(ctx, req.Params)
	default:
		return response{Error: &rpcError{Code: codeMethodNotFound, Message: fmt.Sprintf("method %q not found", req.Method)}}
	}
}

func (s *Server) callTool(ctx context.Context, params json.RawMessage) response {
	var call struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	}
	if err := json.Unmarshal(params, &call); err != nil {
		return response{Error: &rpcError{Code: codeInvalidParams, Message: "invalid tool call parameters"}}
	}

	result, err := s.invoke(ctx, call.Name, call.Arguments)
	if err != nil {
		return response{Error: errorFor(err)}
	}
	return response{Result: result}
}

// errorFor maps domain error kinds onto JSON-RPC error payloads. Database
// errors keep their generic safe message.
func errorFor(err error) *rpcError {
	var verr *entities.ValidationError
	if errors.As(err, &verr) {
		return &rpcError{Code: codeInvalidParams, Message: verr.Error(), Data: verr.Violations}
	}

	var nferr *entities.NotFoundError
	if errors.As(err, &nferr) {
		return &rpcError{Code: codeNotFound, Message: nferr.Error()}
	}

	var dberr *entities.DatabaseError
	if errors.As(err, &dberr) {
		return &rpcError{Code: codeDatabase, Message: dberr.Error()}
	}

	return &rpcError{Code: codeDatabase, Message: "internal error"}
}
