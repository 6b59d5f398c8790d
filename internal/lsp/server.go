package lsp

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/sourcegraph/jsonrpc2"
	"github.com/wanfu920/jumpToAliasFile/internal/alias"
	"github.com/wanfu920/jumpToAliasFile/internal/lsp/protocol"
	"github.com/wanfu920/jumpToAliasFile/internal/resolver"
	"github.com/wanfu920/jumpToAliasFile/internal/workspace"
)

const (
	// CommandRediscover searches the workspace for webpack aliases again
	CommandRediscover = "jumpToAliasFile.rediscover"
	// CommandShowAliases returns the effective alias table
	CommandShowAliases = "jumpToAliasFile.showAliases"

	aliasChangedMethod = "jumpToAliasFile/aliasChanged"
)

// WorkspaceFactory creates the configuration service once the workspace root is known
type WorkspaceFactory func(root string) (*workspace.Configuration, error)

// Server represents the LSP server
type Server struct {
	rootPath            string
	conn                *jsonrpc2.Conn
	definitionProviders []GotoDefinitionProvider
	documentManager     *DocumentManager
	newWorkspace        WorkspaceFactory

	mu          sync.RWMutex
	workspace   *workspace.Configuration
	resolver    *resolver.Resolver
	settings    workspace.Settings
	unsubscribe func()
}

// NewServer creates a new LSP server
func NewServer(newWorkspace WorkspaceFactory) *Server {
	return &Server{
		definitionProviders: make([]GotoDefinitionProvider, 0),
		documentManager:     NewDocumentManager(),
		newWorkspace:        newWorkspace,
	}
}

// RegisterDefinitionProvider registers a definition provider with the server
func (s *Server) RegisterDefinitionProvider(provider GotoDefinitionProvider) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.definitionProviders = append(s.definitionProviders, provider)
}

// Workspace returns the configuration service, nil before initialize
func (s *Server) Workspace() *workspace.Configuration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.workspace
}

// Resolver returns the import path resolver of the workspace, nil before initialize
func (s *Server) Resolver() *resolver.Resolver {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolver
}

func (s *Server) RootPath() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rootPath
}

func (s *Server) DocumentManager() *DocumentManager {
	return s.documentManager
}

// CloseAll closes the workspace and releases its resources
func (s *Server) CloseAll() error {
	// Close document manager first
	if s.documentManager != nil {
		s.documentManager.Close()
	}

	s.mu.Lock()
	ws := s.workspace
	unsubscribe := s.unsubscribe
	s.workspace = nil
	s.resolver = nil
	s.unsubscribe = nil
	s.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	if ws != nil {
		return ws.Close()
	}
	return nil
}

func (s *Server) Start(in io.Reader, out io.Writer) error {
	// Create a new JSON-RPC connection
	stream := jsonrpc2.NewBufferedStream(rwc{in, out}, jsonrpc2.VSCodeObjectCodec{})
	conn := jsonrpc2.NewConn(context.Background(), stream, jsonrpc2.AsyncHandler(jsonrpc2.HandlerWithError(s.handle)))

	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()

	// Wait for the connection to close
	<-conn.DisconnectNotify()
	return nil
}

// rwc combines a reader and writer into a single ReadWriteCloser
type rwc struct {
	io.Reader
	io.Writer
}

// Close implements io.Closer
func (rwc) Close() error {
	return nil
}

// handle processes incoming JSON-RPC requests and notifications
func (s *Server) handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (interface{}, error) {
	// Handle exit notification after shutdown
	if req.Method == "exit" {
		log.Println("Received exit notification, exiting")
		if err := conn.Close(); err != nil {
			log.Printf("error closing connection: %v", err)
		}
		return nil, nil
	}

	if req.Params == nil {
		switch req.Method {
		case "initialized", "shutdown":
		default:
			if req.Notif {
				return nil, nil
			}
			return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: "missing params for " + req.Method}
		}
	}

	switch req.Method {
	case "initialize":
		var params protocol.InitializeParams
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeParseError, Message: err.Error()}
		}
		return s.initialize(ctx, &params), nil

	case "initialized":
		s.initialized()
		return nil, nil

	case "textDocument/didOpen":
		var params protocol.DidOpenTextDocumentParams
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			return nil, err
		}
		s.documentManager.OpenDocument(params.TextDocument.URI, params.TextDocument.Text, params.TextDocument.Version)
		return nil, nil

	case "textDocument/didChange":
		var params protocol.DidChangeTextDocumentParams
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			return nil, err
		}
		if len(params.ContentChanges) > 0 {
			s.documentManager.UpdateDocument(params.TextDocument.URI, params.ContentChanges[len(params.ContentChanges)-1].Text, params.TextDocument.Version)
		}
		return nil, nil

	case "textDocument/didClose":
		var params protocol.DidCloseTextDocumentParams
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			return nil, err
		}
		s.documentManager.CloseDocument(params.TextDocument.URI)
		return nil, nil

	case "textDocument/definition":
		var params protocol.DefinitionParams
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			return nil, err
		}
		return s.definition(ctx, &params), nil

	case "workspace/didChangeConfiguration":
		var params protocol.DidChangeConfigurationParams
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			return nil, err
		}
		s.didChangeConfiguration(ctx, &params)
		return nil, nil

	case "workspace/didChangeWatchedFiles":
		var params protocol.DidChangeWatchedFilesParams
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			return nil, err
		}

		files := make([]string, 0, len(params.Changes))
		for _, change := range params.Changes {
			files = append(files, protocol.URIToPath(change.URI))
		}
		if ws := s.Workspace(); ws != nil {
			ws.FilesChanged(ctx, files)
		}
		return nil, nil

	case "workspace/executeCommand":
		var params protocol.ExecuteCommandParams
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeParseError, Message: err.Error()}
		}
		return s.executeCommand(ctx, &params)

	case "shutdown":
		// Clean up resources
		if err := s.CloseAll(); err != nil {
			log.Printf("Error closing workspace: %v", err)
		}

		log.Println("Received shutdown request, waiting for exit notification")
		return nil, nil

	default:
		// Check if this is a notification (no ID)
		if req.Notif {
			// This is a notification, no response needed
			return nil, nil
		}
		return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeMethodNotFound, Message: "Method not implemented: " + req.Method}
	}
}

// initialize handles the LSP initialize request
func (s *Server) initialize(ctx context.Context, params *protocol.InitializeParams) interface{} {
	// Extract root path from params
	root := extractRootPath(params)

	settings, err := workspace.ParseSettings(params.InitializationOptions)
	if err != nil {
		log.Printf("Ignoring invalid initializationOptions: %v", err)
	}

	s.openWorkspace(root, settings)

	// Define server capabilities
	return map[string]interface{}{
		"capabilities": map[string]interface{}{
			"textDocumentSync": map[string]interface{}{
				"openClose": true,
				"change":    1, // Full sync
			},
			"definitionProvider": true,
			"executeCommandProvider": map[string]interface{}{
				"commands": []string{CommandRediscover, CommandShowAliases},
			},
		},
		"serverInfo": map[string]interface{}{
			"name": "jumpToAliasFile",
		},
	}
}

// openWorkspace creates the configuration service and resolver for root
func (s *Server) openWorkspace(root string, settings workspace.Settings) {
	var ws *workspace.Configuration
	if s.newWorkspace != nil {
		created, err := s.newWorkspace(root)
		if err != nil {
			log.Printf("Error creating workspace for %s: %v", root, err)
		} else {
			ws = created
		}
	}
	if ws == nil {
		ws = workspace.NewDefaultConfiguration(root)
	}

	unsubscribe := ws.Store().Subscribe(s.notifyAliasChanged)

	s.mu.Lock()
	previous := s.workspace
	previousUnsubscribe := s.unsubscribe
	s.rootPath = root
	s.workspace = ws
	s.resolver = resolver.NewResolver(root, ws.Store())
	s.settings = settings
	s.unsubscribe = unsubscribe
	s.mu.Unlock()

	if previousUnsubscribe != nil {
		previousUnsubscribe()
	}
	if previous != nil {
		if err := previous.Close(); err != nil {
			log.Printf("Error closing previous workspace: %v", err)
		}
	}
}

// initialized starts alias discovery and registers file watchers with the client
func (s *Server) initialized() {
	s.mu.RLock()
	ws := s.workspace
	settings := s.settings
	conn := s.conn
	s.mu.RUnlock()

	if ws == nil {
		return
	}
	if err := ws.EnableWatching(); err != nil {
		log.Printf("Watching webpack configs is disabled: %v", err)
	}
	ws.Start(settings)

	if conn == nil {
		return
	}
	go func() {
		params := protocol.RegistrationParams{
			Registrations: []protocol.Registration{
				{
					ID:     "jumpToAliasFile.watchers",
					Method: "workspace/didChangeWatchedFiles",
					RegisterOptions: protocol.DidChangeWatchedFilesRegistrationOptions{
						Watchers: []protocol.FileSystemWatcher{
							{GlobPattern: "**/package.json"},
							{GlobPattern: "**/webpack.*.js"},
						},
					},
				},
			},
		}
		var result interface{}
		if err := conn.Call(context.Background(), "client/registerCapability", params, &result); err != nil {
			log.Printf("Client did not accept file watchers: %v", err)
		}
	}()
}

func (s *Server) didChangeConfiguration(ctx context.Context, params *protocol.DidChangeConfigurationParams) {
	settings, err := workspace.ParseSettings(params.Settings)
	if err != nil {
		log.Printf("Ignoring invalid configuration: %v", err)
		return
	}

	s.mu.Lock()
	s.settings = settings
	ws := s.workspace
	s.mu.Unlock()

	if ws != nil {
		ws.ApplySettings(ctx, settings)
	}
}

func (s *Server) executeCommand(ctx context.Context, params *protocol.ExecuteCommandParams) (interface{}, error) {
	ws := s.Workspace()
	if ws == nil {
		return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidRequest, Message: "workspace not initialized"}
	}

	switch params.Command {
	case CommandRediscover:
		ws.Rediscover(ctx)
		return protocol.AliasChangedParams{Alias: ws.Store().Snapshot()}, nil

	case CommandShowAliases:
		return protocol.AliasChangedParams{Alias: ws.Store().Snapshot()}, nil

	default:
		return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: "Unknown command: " + params.Command}
	}
}

// notifyAliasChanged tells the client about a new effective alias table
func (s *Server) notifyAliasChanged(table alias.Table) {
	s.mu.RLock()
	conn := s.conn
	s.mu.RUnlock()

	if conn == nil {
		return
	}

	if err := conn.Notify(context.Background(), aliasChangedMethod, protocol.AliasChangedParams{Alias: table}); err != nil {
		log.Printf("Error sending alias notification: %v", err)
	}
}

// extractRootPath extracts the root path from the initialize params
func extractRootPath(params *protocol.InitializeParams) string {
	// Try to get from RootPath
	if params.RootPath != "" {
		return filepath.Clean(params.RootPath)
	}

	// Try to get from RootURI
	if params.RootURI != "" {
		return protocol.URIToPath(params.RootURI)
	}

	// Try to get from WorkspaceFolders
	if len(params.WorkspaceFolders) > 0 {
		return protocol.URIToPath(params.WorkspaceFolders[0].URI)
	}

	// Fall back to current directory
	cwd, _ := os.Getwd()
	return cwd
}
