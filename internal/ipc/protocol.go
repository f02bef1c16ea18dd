package ipc

import (
	"encoding/json"
	"fmt"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandRun         CommandType = "RUN"
	CommandGetStatus   CommandType = "GET_STATUS"
	CommandGetState    CommandType = "GET_STATE"
	CommandGetMonitors CommandType = "GET_MONITORS"
	CommandReload      CommandType = "RELOAD"
	CommandListActions CommandType = "LIST_ACTIONS"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// RunPayload is the payload of RUN. Window targets a specific window
// instead of the focused one.
type RunPayload struct {
	Action string `json:"action"`
	Window uint32 `json:"window,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	Paused         bool   `json:"paused"`
	Desktop        int    `json:"desktop"`
	Strategy       string `json:"strategy"`
	ManagedWindows int    `json:"managed_windows"`
	UptimeSeconds  int64  `json:"uptime_seconds"`
	ConfigPath     string `json:"config_path,omitempty"`
	Animating      bool   `json:"animating"`
}

// WindowInfo describes one managed window.
type WindowInfo struct {
	ID      uint32 `json:"id"`
	Class   string `json:"class,omitempty"`
	Title   string `json:"title,omitempty"`
	State   string `json:"state"`
	Monitor string `json:"monitor,omitempty"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}

// ContainerInfo describes the container of a monitor on the current desktop.
type ContainerInfo struct {
	Monitor string   `json:"monitor"`
	Layer   string   `json:"layer"`
	Windows []uint32 `json:"windows"`
	Peeked  bool     `json:"peeked,omitempty"`
}

// StateData represents the data returned by GET_STATE
type StateData struct {
	Desktop    int             `json:"desktop"`
	Containers []ContainerInfo `json:"containers"`
	Windows    []WindowInfo    `json:"windows"`
	History    []uint32        `json:"focus_history"`
}

// MonitorInfo represents information about a single monitor
type MonitorInfo struct {
	ID      string `json:"id"`
	Primary bool   `json:"primary,omitempty"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}

// MonitorsData represents the data returned by GET_MONITORS
type MonitorsData struct {
	Monitors []MonitorInfo `json:"monitors"`
}

// ActionsData represents the data returned by LIST_ACTIONS
type ActionsData struct {
	Actions []string `json:"actions"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// NewRequest builds a request, marshalling payload when set.
func NewRequest(cmd CommandType, payload interface{}) (*Request, error) {
	req := &Request{Command: cmd}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal payload: %w", err)
		}
		req.Payload = data
	}
	return req, nil
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	if req.Command == "" {
		return nil, fmt.Errorf("failed to parse request: missing command")
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

// Decode unmarshals the response data into v.
func (r *Response) Decode(v interface{}) error {
	if len(r.Data) == 0 {
		return fmt.Errorf("empty response data")
	}
	if err := json.Unmarshal(r.Data, v); err != nil {
		return fmt.Errorf("failed to parse response data: %w", err)
	}
	return nil
}
