package main

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/Comcast/wfsm/core"
	"github.com/Comcast/wfsm/sio"
	"github.com/Comcast/wfsm/widgets"

	"github.com/gorilla/websocket"
)

func TestWebSocketCouplings(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c, _ := NewWebSocketCouplings([]string{"-addr", "localhost:0", "-max-conns", "2"})
	if err := c.Start(ctx); err != nil {
		t.Fatal(err)
	}

	h := sio.NewHost()
	if err := h.Add("cb", sio.NewInteractor(widgets.Checkbox("cb", 0, 0, core.WithDiag(core.Discard)), 0, 0)); err != nil {
		t.Fatal(err)
	}

	loopDone := make(chan error, 1)
	go func() {
		loopDone <- h.Loop(ctx, c)
	}()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, "ws://"+c.ListenAddr()+"/fsm", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	read := func() map[string]interface{} {
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		_, bs, err := conn.ReadMessage()
		if err != nil {
			t.Fatal(err)
		}
		var m map[string]interface{}
		if err = json.Unmarshal(bs, &m); err != nil {
			t.Fatal(err)
		}
		return m
	}

	if err = conn.WriteMessage(websocket.TextMessage, []byte("tacos")); err != nil {
		t.Fatal(err)
	}
	if m := read(); m["error"] == nil {
		t.Fatal(m)
	}

	if err = conn.WriteJSON(&sio.Input{Pointer: sio.PointerPress, X: 10, Y: 10, Id: "1"}); err != nil {
		t.Fatal(err)
	}
	m := read()
	if m["id"] != "1" {
		t.Fatal(m)
	}
	states, _ := m["states"].(map[string]interface{})
	if states["cb"] != "checked" {
		t.Fatal(m)
	}

	if err = c.Stop(ctx); err != nil {
		t.Fatal(err)
	}
	if err = <-loopDone; err != nil {
		t.Fatal(err)
	}
}
