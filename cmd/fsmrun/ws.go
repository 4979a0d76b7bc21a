/* Copyright 2018-2019 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/Comcast/wfsm/sio"

	"github.com/gorilla/websocket"
	"golang.org/x/net/netutil"
)

// WebSocketCouplings is a sio.Couplings for a WebSocket server.
//
// Every client can send Inputs (JSON text messages), and every client
// gets every Output.
type WebSocketCouplings struct {
	Addr     string
	Path     string
	MaxConns int

	in   chan *sio.Input
	out  chan *sio.Output
	done chan bool

	upgrader websocket.Upgrader
	listener net.Listener
	server   *http.Server

	sync.Mutex
	conns    map[*websocket.Conn]bool
	stopOnce sync.Once
}

func NewWebSocketCouplings(args []string) (*WebSocketCouplings, *flag.FlagSet) {
	c := &WebSocketCouplings{}
	fs := flag.NewFlagSet("ws", flag.ExitOnError)
	fs.StringVar(&c.Addr, "addr", "localhost:8080", "Address (host:port) for the WebSocket service")
	fs.StringVar(&c.Path, "path", "/fsm", "Path for the WebSocket service")
	fs.IntVar(&c.MaxConns, "max-conns", 64, "Maximum number of simultaneous connections")
	if args == nil {
		return nil, fs
	}
	fs.Parse(args)
	return c, fs
}

// Start listens for WebSocket clients.
func (c *WebSocketCouplings) Start(ctx context.Context) error {

	c.in = make(chan *sio.Input)
	c.out = make(chan *sio.Output)
	c.done = make(chan bool)
	c.conns = make(map[*websocket.Conn]bool)

	l, err := net.Listen("tcp", c.Addr)
	if err != nil {
		return err
	}
	if 0 < c.MaxConns {
		l = netutil.LimitListener(l, c.MaxConns)
	}
	c.listener = l

	mux := http.NewServeMux()
	mux.HandleFunc(c.Path, func(w http.ResponseWriter, r *http.Request) {
		conn, err := c.upgrader.Upgrade(w, r, nil)
		if err != nil {
			E(err, "Upgrade")
			return
		}
		c.serve(ctx, conn)
	})
	mux.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("\"pong\"\n"))
	})

	c.server = &http.Server{
		Handler:        mux,
		ReadTimeout:    10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.Printf("Starting WebSocket service on %s%s", l.Addr(), c.Path)
		if err := c.server.Serve(l); err != nil && err != http.ErrServerClosed {
			E(err, "Serve")
		}
	}()

	go c.outLoop(ctx)

	return nil
}

// ListenAddr returns the address the service is listening on.
func (c *WebSocketCouplings) ListenAddr() string {
	if c.listener == nil {
		return ""
	}
	return c.listener.Addr().String()
}

// serve reads Inputs from a client until the client goes away.
func (c *WebSocketCouplings) serve(ctx context.Context, conn *websocket.Conn) {
	c.Lock()
	c.conns[conn] = true
	c.Unlock()

	defer func() {
		c.Lock()
		delete(c.conns, conn)
		c.Unlock()
		conn.Close()
	}()

	// Clients can be quiet for as long as they like.
	conn.SetReadDeadline(time.Time{})

	for {
		_, bs, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				E(err, "ReadMessage")
			}
			return
		}
		if len(bs) == 0 {
			continue
		}

		var input sio.Input
		if err = json.Unmarshal(bs, &input); err != nil {
			c.send(conn, map[string]string{"error": "bad input: " + err.Error()})
			continue
		}

		select {
		case <-ctx.Done():
			return
		case <-c.done:
			return
		case c.in <- &input:
		}
	}
}

// send writes one message to one client.
//
// Gorilla connections support one concurrent writer, so all writes
// happen with the lock held.
func (c *WebSocketCouplings) send(conn *websocket.Conn, x interface{}) {
	js, err := json.Marshal(x)
	if err != nil {
		E(err, "Marshal")
		return
	}
	c.Lock()
	defer c.Unlock()
	conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	if err = conn.WriteMessage(websocket.TextMessage, js); err != nil {
		E(err, "WriteMessage")
	}
}

// outLoop broadcasts each Output to every client.
func (c *WebSocketCouplings) outLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.done:
			return
		case o := <-c.out:
			if o == nil {
				continue
			}
			js, err := json.Marshal(o)
			if err != nil {
				E(err, "Marshal")
				continue
			}
			c.Lock()
			for conn := range c.conns {
				conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
				if err = conn.WriteMessage(websocket.TextMessage, js); err != nil {
					E(err, "WriteMessage")
				}
			}
			c.Unlock()
		}
	}
}

// IO just returns the channels that Start() initialized.
func (c *WebSocketCouplings) IO(ctx context.Context) (chan *sio.Input, chan *sio.Output, chan bool, error) {
	return c.in, c.out, c.done, nil
}

// Stop terminates the WebSocket service.
func (c *WebSocketCouplings) Stop(ctx context.Context) error {
	log.Printf("Stopping WebSocket service")
	var err error
	c.stopOnce.Do(func() {
		close(c.done)
		if c.server != nil {
			err = c.server.Shutdown(ctx)
		}
		c.Lock()
		for conn := range c.conns {
			conn.Close()
		}
		c.Unlock()
	})
	return err
}
