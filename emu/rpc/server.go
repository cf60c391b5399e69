package rpc

import (
	"errors"
	"net"
	"net/http"
	"net/rpc"
	"strconv"

	"chipper/hw"
	"chipper/hw/snapshot"
)

// Emu is the part of the emulator that can be remotely controlled.
type Emu interface {
	Reset()
	SetPause(pause bool)
	Stop()
	SetKeys(keys [hw.NumKeys]bool)
	Frame() hw.Framebuffer
	State() *snapshot.Machine
}

type emuProxy struct {
	emu Emu
}

func (ep *emuProxy) Reset(_, _ *struct{}) error             { ep.emu.Reset(); return nil }
func (ep *emuProxy) SetPause(pause bool, _ *struct{}) error { ep.emu.SetPause(pause); return nil }
func (ep *emuProxy) Stop(_, _ *struct{}) error              { ep.emu.Stop(); return nil }

func (ep *emuProxy) SetKeys(keys [hw.NumKeys]bool, _ *struct{}) error {
	ep.emu.SetKeys(keys)
	return nil
}

func (ep *emuProxy) Frame(_ *struct{}, reply *hw.Framebuffer) error {
	*reply = ep.emu.Frame()
	return nil
}

func (ep *emuProxy) State(_ *struct{}, reply *snapshot.Machine) error {
	*reply = *ep.emu.State()
	return nil
}

func (ep *emuProxy) IsReady(_ *struct{}, reply *bool) error {
	*reply = true
	return nil
}

type Server struct {
	l    net.Listener
	http *http.Server
}

// NewServer starts serving remote calls for emu on localhost:port.
func NewServer(port int, emu Emu) (*Server, error) {
	srv := rpc.NewServer()
	if err := srv.RegisterName(serviceName, &emuProxy{emu: emu}); err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle(rpc.DefaultRPCPath, srv)

	l, err := net.Listen("tcp", "localhost:"+strconv.Itoa(port))
	if err != nil {
		return nil, err
	}

	s := &Server{l: l, http: &http.Server{Handler: mux}}
	go func() {
		if err := s.http.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			modRPC.WarnZ("rpc server stopped").Error("err", err).End()
		}
	}()

	modRPC.InfoZ("rpc server listening").Int("port", port).End()
	return s, nil
}

// Addr returns the address the server listens on.
func (s *Server) Addr() net.Addr { return s.l.Addr() }

func (s *Server) Close() error {
	modRPC.DebugZ("closing rpc server").End()
	return s.http.Close()
}
