package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/policastro/mondrian-sub000/internal/runtimepath"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client for the default socket.
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientAt(socketPath)
}

// NewClientAt creates a client for socketPath.
func NewClientAt(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	respData, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}
	return &resp, nil
}

func (c *Client) call(cmd CommandType, payload, out interface{}) error {
	req, err := NewRequest(cmd, payload)
	if err != nil {
		return err
	}
	resp, err := c.sendRequest(req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return resp.Decode(out)
}

// Run asks the daemon to execute an action on the focused window, or on
// window when it is not zero.
func (c *Client) Run(action string, window uint32) error {
	if _, err := ParseAction(action); err != nil {
		return err
	}
	return c.call(CommandRun, RunPayload{Action: action, Window: window}, nil)
}

// Status returns the daemon status.
func (c *Client) Status() (*StatusData, error) {
	var data StatusData
	if err := c.call(CommandGetStatus, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// State returns the layout state of the current desktop.
func (c *Client) State() (*StateData, error) {
	var data StateData
	if err := c.call(CommandGetState, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Monitors returns the monitors known to the daemon.
func (c *Client) Monitors() ([]MonitorInfo, error) {
	var data MonitorsData
	if err := c.call(CommandGetMonitors, nil, &data); err != nil {
		return nil, err
	}
	return data.Monitors, nil
}

// Reload asks the daemon to reload its configuration.
func (c *Client) Reload() error {
	return c.call(CommandReload, nil, nil)
}

// Actions lists the actions the daemon accepts.
func (c *Client) Actions() ([]string, error) {
	var data ActionsData
	if err := c.call(CommandListActions, nil, &data); err != nil {
		return nil, err
	}
	return data.Actions, nil
}

// Ping checks whether the daemon answers.
func (c *Client) Ping() bool {
	_, err := c.Status()
	return err == nil
}
