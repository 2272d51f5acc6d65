package lsp

import (
	"encoding/json"
	"fmt"

	"github.com/unnathi84/PatchWise/pkg/logging"
)

// State tracks the protocol handshake progression. Requests other than
// initialize are only valid in StateReady.
type State int

const (
	StateUninitialized State = iota
	StateInitializing
	StateReady
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

const backgroundIndexToken = "backgroundIndexProgress"

// wire abstracts the Transport so sessions can be tested against scripted
// frame streams.
type wire interface {
	Send(msg any) error
	Receive() ([]byte, error)
	HasPendingFrame() bool
}

// Session is the protocol state machine. It allocates request ids
// monotonically and issues at most one request at a time: each request blocks
// reading frames, dispatching out-of-band server requests and notifications,
// until the frame carrying the awaited id arrives.
type Session struct {
	transport wire
	state     State
	nextID    int64
	logger    *logging.Logger

	// indexPercentage holds the last background-index progress value seen
	// while dispatching, -1 before the first observation.
	indexPercentage int
}

func NewSession(transport wire, logger *logging.Logger) *Session {
	return &Session{
		transport:       transport,
		state:           StateUninitialized,
		logger:          logger,
		indexPercentage: -1,
	}
}

func (s *Session) State() State {
	return s.state
}

// Initialize performs the initialize/initialized handshake for rootPath.
// The declared capabilities cover the server-initiated requests this client
// answers: show document, show message and work-done progress creation.
func (s *Session) Initialize(rootPath string) error {
	if s.state != StateUninitialized {
		return fmt.Errorf("initialize called in state %s", s.state)
	}
	s.state = StateInitializing

	params := map[string]any{
		"rootUri": "file://" + rootPath,
		"capabilities": map[string]any{
			"window": map[string]any{
				"showDocument": map[string]any{"support": true},
				"showMessage": map[string]any{
					"messageActionItem": map[string]any{"additionalPropertiesSupport": true},
				},
				"workDoneProgress": true,
			},
			"textDocument": map[string]any{
				"documentSymbol": map[string]any{"hierarchicalDocumentSymbolSupport": true},
			},
		},
		"initializationOptions": map[string]any{
			"clangdFileStatus": true,
			"fallbackFlags":    []string{},
		},
	}

	if _, err := s.request("initialize", params); err != nil {
		s.state = StateClosed
		return fmt.Errorf("initialize request failed: %w", err)
	}

	if err := s.notify("initialized", map[string]any{}); err != nil {
		s.state = StateClosed
		return fmt.Errorf("initialized notification failed: %w", err)
	}

	s.state = StateReady
	s.logger.Debug("LSP session ready")
	return nil
}

// DidOpen announces a document to the server. When text is empty the field
// is omitted and the server reads the file itself.
func (s *Session) DidOpen(uri, languageID, text string) error {
	if s.state != StateReady {
		return fmt.Errorf("didOpen called in state %s", s.state)
	}

	textDocument := map[string]any{
		"uri":        uri,
		"languageId": languageID,
		"version":    1,
	}
	if text != "" {
		textDocument["text"] = text
	}
	return s.notify("textDocument/didOpen", map[string]any{"textDocument": textDocument})
}

// Definition resolves the definition locations for the identifier at the
// given 0-based position.
func (s *Session) Definition(uri string, line, character int) ([]Location, error) {
	if s.state != StateReady {
		return nil, fmt.Errorf("definition called in state %s", s.state)
	}

	result, err := s.request("textDocument/definition", definitionParams{
		TextDocument: textDocumentIdentifier{URI: uri},
		Position:     Position{Line: line, Character: character},
	})
	if err != nil {
		return nil, err
	}

	var locations []Location
	if len(result) > 0 && string(result) != "null" {
		if err := json.Unmarshal(result, &locations); err != nil {
			return nil, fmt.Errorf("failed to decode definition result: %w", err)
		}
	}
	return locations, nil
}

// DocumentSymbols returns the hierarchical symbol tree for uri.
func (s *Session) DocumentSymbols(uri string) ([]DocumentSymbol, error) {
	if s.state != StateReady {
		return nil, fmt.Errorf("documentSymbol called in state %s", s.state)
	}

	result, err := s.request("textDocument/documentSymbol", documentSymbolParams{
		TextDocument: textDocumentIdentifier{URI: uri},
	})
	if err != nil {
		return nil, err
	}

	var symbols []DocumentSymbol
	if len(result) > 0 && string(result) != "null" {
		if err := json.Unmarshal(result, &symbols); err != nil {
			return nil, fmt.Errorf("failed to decode documentSymbol result: %w", err)
		}
	}
	return symbols, nil
}

// PumpPending dispatches every frame that is already available without
// blocking. It reports whether at least one frame was consumed. Used by the
// index waiter between sleeps.
func (s *Session) PumpPending() (bool, error) {
	read := false
	for s.transport.HasPendingFrame() {
		body, err := s.transport.Receive()
		if err != nil {
			return read, err
		}
		var msg Message
		if err := json.Unmarshal(body, &msg); err != nil {
			return read, fmt.Errorf("failed to decode frame: %w", err)
		}
		read = true
		if msg.IsResponse() {
			s.logger.Debug("dropping unawaited response", "id", *msg.ID)
			continue
		}
		if err := s.dispatch(&msg); err != nil {
			return read, err
		}
	}
	return read, nil
}

// IndexPercentage returns the last observed background-index progress value,
// or ok=false before the first observation.
func (s *Session) IndexPercentage() (int, bool) {
	if s.indexPercentage < 0 {
		return 0, false
	}
	return s.indexPercentage, true
}

// Close marks the session closed. The transport owns process teardown.
func (s *Session) Close() {
	s.state = StateClosed
}

func (s *Session) request(method string, params any) (json.RawMessage, error) {
	s.nextID++
	id := s.nextID

	req := Request{JSONRPC: "2.0", ID: id, Method: method, Params: params}
	s.logger.Debug("LSP request", "id", id, "method", method)
	if err := s.transport.Send(req); err != nil {
		return nil, err
	}

	return s.awaitResponse(id)
}

func (s *Session) notify(method string, params any) error {
	s.logger.Debug("LSP notification", "method", method)
	return s.transport.Send(Notification{JSONRPC: "2.0", Method: method, Params: params})
}

// awaitResponse reads frames until the one matching id arrives. Every other
// frame is dispatched by type rather than discarded; the wire interleaves
// server-to-client requests and notifications with our request/response
// pairs, so a read-one-frame-per-send loop would wedge.
func (s *Session) awaitResponse(id int64) (json.RawMessage, error) {
	for {
		body, err := s.transport.Receive()
		if err != nil {
			return nil, err
		}

		var msg Message
		if err := json.Unmarshal(body, &msg); err != nil {
			return nil, fmt.Errorf("failed to decode frame: %w", err)
		}

		if msg.IsResponse() && *msg.ID == id {
			if msg.Error != nil {
				return nil, fmt.Errorf("LSP error %d: %s", msg.Error.Code, msg.Error.Message)
			}
			return msg.Result, nil
		}

		if msg.IsResponse() {
			s.logger.Debug("dropping response with unexpected id", "got", *msg.ID, "want", id)
			continue
		}

		if err := s.dispatch(&msg); err != nil {
			return nil, err
		}
	}
}

// dispatch handles one out-of-band frame: a server-initiated request or a
// notification.
func (s *Session) dispatch(msg *Message) error {
	switch msg.Method {
	case "window/workDoneProgress/create":
		// The server stalls waiting for this acknowledgment. The fixed
		// response id matches what the server accepts for this request.
		s.logger.Debug("acknowledging workDoneProgress create", "params", string(msg.Params))
		return s.transport.Send(Response{JSONRPC: "2.0", ID: 0, Result: nil})

	case "textDocument/publishDiagnostics":
		s.logger.Debug("received diagnostics", "params", string(msg.Params))

	case "textDocument/clangd.fileStatus":
		s.logger.Debug("received file status", "params", string(msg.Params))

	case "$/progress":
		var params progressParams
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			s.logger.Debug("unparseable progress notification", "params", string(msg.Params))
			return nil
		}
		if params.Token == backgroundIndexToken {
			var value workDoneProgressValue
			if err := json.Unmarshal(params.Value, &value); err == nil && value.Percentage != nil {
				s.indexPercentage = *value.Percentage
			}
			s.logger.Debug("background index progress", "value", string(params.Value))
		} else {
			s.logger.Debug("progress notification", "token", params.Token)
		}

	default:
		s.logger.Debug("dropping unhandled frame", "method", msg.Method, "params", string(msg.Params))
	}
	return nil
}
