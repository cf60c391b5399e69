package rpc

import (
	"fmt"
	"net/rpc"
	"strconv"
	"time"

	"chipper/hw"
	"chipper/hw/snapshot"
)

type Client struct {
	client *rpc.Client
}

// NewClient connects to the emulator listening on localhost:port, retrying a
// few times to give it time to start.
func NewClient(port int) (*Client, error) {
	var (
		client *rpc.Client
		err    error
	)
	const maxretries = 5
	for i := range maxretries {
		client, err = rpc.DialHTTP("tcp", "localhost:"+strconv.Itoa(port))
		if err == nil {
			break
		}
		modRPC.WarnZ("dial tcp failed").Error("err", err).Int("retry", i).End()
		time.Sleep(250 * time.Millisecond)
	}

	if err != nil {
		return nil, fmt.Errorf("dial failed max retries: %w", err)
	}

	return &Client{client: client}, nil
}

func (c *Client) Close() error {
	modRPC.DebugZ("closing rpc client").End()
	return c.client.Close()
}

func (c *Client) Reset() error              { return call(c.client, "Reset", nil) }
func (c *Client) SetPause(pause bool) error { return call(c.client, "SetPause", pause) }
func (c *Client) Stop() error               { return call(c.client, "Stop", nil) }

func (c *Client) SetKeys(keys [hw.NumKeys]bool) error {
	return call(c.client, "SetKeys", keys)
}

func (c *Client) Frame() (hw.Framebuffer, error) {
	return request[hw.Framebuffer](c.client, "Frame", nil)
}

func (c *Client) State() (*snapshot.Machine, error) {
	s, err := request[snapshot.Machine](c.client, "State", nil)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) IsReady() (bool, error) {
	return request[bool](c.client, "IsReady", nil)
}

func call(client *rpc.Client, funcname string, args any) error {
	_, err := request[struct{}](client, funcname, args)
	return err
}

func request[T any](client *rpc.Client, funcname string, args any) (T, error) {
	if args == nil {
		args = &struct{}{}
	}
	var reply T
	if err := client.Call(serviceName+"."+funcname, args, &reply); err != nil {
		modRPC.WarnZ("RPC call failed").String("func", funcname).Error("err", err).End()
		return reply, fmt.Errorf("%s: %w", funcname, err)
	}
	return reply, nil
}
