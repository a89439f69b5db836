package rpcjson

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/atvirokodosprendimai/liveforever-migrate/internal/application"
	"go.uber.org/zap"
)

type Server struct {
	service  *application.MigrationService
	dumpPath string
	logger   *zap.Logger
	listener net.Listener
	path     string
	ctx      context.Context
	cancel   context.CancelFunc
}

type request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
	ID      any             `json:"id"`
}

type response struct {
	JSONRPC string    `json:"jsonrpc"`
	Result  any       `json:"result,omitempty"`
	Error   *rpcError `json:"error,omitempty"`
	ID      any       `json:"id"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Start listens on a unix socket at path. Requests on a connection are
// handled one at a time; Close cancels any migration still running.
func Start(path string, service *application.MigrationService, dumpPath string, logger *zap.Logger) (*Server, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("rpc socket path is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	_ = os.Remove(path)
	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, err
	}
	if err := os.Chmod(path, 0o600); err != nil {
		_ = ln.Close()
		_ = os.Remove(path)
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		service:  service,
		dumpPath: dumpPath,
		logger:   logger,
		listener: ln,
		path:     path,
		ctx:      ctx,
		cancel:   cancel,
	}
	go s.serve()
	return s, nil
}

func (s *Server) serve() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		go s.handleConn(conn)
	}
}

func (s *Server) Close() error {
	s.cancel()
	err := s.listener.Close()
	_ = os.Remove(s.path)
	return err
}

func (s *Server) handleConn(conn net.Conn) {
	defer func() { _ = conn.Close() }()
	dec := json.NewDecoder(conn)
	enc := json.NewEncoder(conn)

	for {
		var req request
		if err := dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			_ = enc.Encode(response{JSONRPC: "2.0", Error: &rpcError{Code: -32700, Message: "parse error"}, ID: nil})
			return
		}

		resp := s.dispatch(s.ctx, req)
		if err := enc.Encode(resp); err != nil {
			return
		}
	}
}

func (s *Server) dispatch(ctx context.Context, req request) response {
	if req.JSONRPC != "2.0" || strings.TrimSpace(req.Method) == "" {
		return response{JSONRPC: "2.0", Error: &rpcError{Code: -32600, Message: "invalid request"}, ID: req.ID}
	}

	switch req.Method {
	case "migration.status":
		out, err := s.service.Status(ctx)
		if err != nil {
			return s.appError(req, err)
		}
		return response{JSONRPC: "2.0", Result: out, ID: req.ID}
	case "migration.trees":
		out, err := s.service.AvailableTrees(ctx)
		if err != nil {
			return s.appError(req, err)
		}
		return response{JSONRPC: "2.0", Result: out, ID: req.ID}
	case "migration.import":
		var p struct {
			Force bool   `json:"force"`
			Path  string `json:"path"`
		}
		if !decodeParams(req.Params, &p) {
			return invalidParams(req.ID)
		}
		path := s.dumpPath
		if strings.TrimSpace(p.Path) != "" {
			path = p.Path
		}
		out, err := s.service.Importer().Import(ctx, path, p.Force)
		if err != nil {
			return s.appError(req, err)
		}
		return response{JSONRPC: "2.0", Result: out, ID: req.ID}
	case "migration.tree":
		var p struct {
			TreeID uint   `json:"tree_id"`
			Scope  string `json:"scope"`
		}
		if !decodeParams(req.Params, &p) || p.TreeID == 0 {
			return invalidParams(req.ID)
		}
		scope, err := application.ParseScope(p.Scope)
		if err != nil {
			return invalidParams(req.ID)
		}
		out, err := s.service.MigrateTree(ctx, p.TreeID, scope)
		if err != nil {
			return s.appError(req, err)
		}
		return response{JSONRPC: "2.0", Result: map[string]any{"result": out.Result(), "flow": out.Flow}, ID: req.ID}
	case "migration.all", "migration.run":
		var p struct {
			Scope string `json:"scope"`
		}
		if !decodeParams(req.Params, &p) {
			return invalidParams(req.ID)
		}
		scope, err := application.ParseScope(p.Scope)
		if err != nil {
			return invalidParams(req.ID)
		}
		var out any
		if req.Method == "migration.all" {
			out, err = s.service.MigrateAll(ctx, scope)
		} else {
			out, err = s.service.Run(ctx, scope)
		}
		if err != nil {
			return s.appError(req, err)
		}
		return response{JSONRPC: "2.0", Result: out, ID: req.ID}
	default:
		return response{JSONRPC: "2.0", Error: &rpcError{Code: -32601, Message: "method not found"}, ID: req.ID}
	}
}

// decodeParams treats missing params as an empty object.
func decodeParams(raw json.RawMessage, out any) bool {
	if len(raw) == 0 || string(raw) == "null" {
		return true
	}
	return json.Unmarshal(raw, out) == nil
}

func (s *Server) appError(req request, err error) response {
	switch {
	case errors.Is(err, application.ErrTreeNotFound),
		errors.Is(err, application.ErrLegacyNotImported),
		errors.Is(err, application.ErrDumpNotFound):
		return notFound(req.ID, err)
	default:
		s.logger.Error("rpc call failed", zap.String("method", req.Method), zap.Error(err))
		return internalError(req.ID, err)
	}
}

func invalidParams(id any) response {
	return response{JSONRPC: "2.0", Error: &rpcError{Code: -32602, Message: "invalid params"}, ID: id}
}

func notFound(id any, err error) response {
	return response{JSONRPC: "2.0", Error: &rpcError{Code: 40400, Message: err.Error()}, ID: id}
}

func internalError(id any, err error) response {
	return response{JSONRPC: "2.0", Error: &rpcError{Code: 50000, Message: fmt.Sprintf("internal error: %v", err)}, ID: id}
}
