/* Copyright 2019 Comcast Cable Communications Management, LLC
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

// Package main is a process that hosts widget FSMs and drives them
// with pointer input from stdin, a WebSocket, or MQTT.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/Comcast/wfsm/core"
	"github.com/Comcast/wfsm/sio"
	"github.com/Comcast/wfsm/storage/bolt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/netutil"
)

func main() {

	var (
		coupling   = flag.String("io", "std", `IO protocol: "std", "mq", or "ws"`)
		layoutFile = flag.String("layout", "", "Optional layout (YAML) filename")
		widgetKind = flag.String("widget", "checkbox", "Built-in widget kind (without -layout or -config)")
		configLoc  = flag.String("config", "", "Optional FSM configuration filename or URL (without -layout)")
		widgetName = flag.String("name", "w", "Widget name (without -layout)")
		imageDir   = flag.String("images", "", "Optional directory for determining natural image sizes")

		dbFilename  = flag.String("db", "", "Optional bbolt filename for snapshots")
		metricsAddr = flag.String("metrics", "", "Optional address (host:port) for Prometheus /metrics")
		watch       = flag.Bool("watch", false, "Reload widgets when their configuration files change")
		diagLog     = flag.Bool("diag", true, "Log FSM diagnostics")

		wait    = flag.Duration("wait", time.Second, "Wait this long before shutting down couplings")
		verbose = flag.Bool("v", false, "Verbose")
		help    = flag.Bool("h", false, "Get usage")
	)

	flag.Parse()

	if *help {
		flag.PrintDefaults()

		{
			fmt.Fprintf(os.Stderr, "\n-io std (default):\n\n")
			_, fs := NewStdCouplings(nil)
			fs.PrintDefaults()
		}

		{
			fmt.Fprintf(os.Stderr, "\n-io mq:\n\n")
			_, fs := NewMQTTCouplings(nil)
			fs.PrintDefaults()
		}

		{
			fmt.Fprintf(os.Stderr, "\n-io ws:\n\n")
			_, fs := NewWebSocketCouplings(nil)
			fs.PrintDefaults()
		}

		os.Exit(0)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	var cio sio.Couplings
	switch *coupling {
	case "std":
		c, _ := NewStdCouplings(flag.Args())
		cio = c
		go func() {
			<-c.InputEOF
			log.Printf("input EOF (waiting %v)", *wait)
			time.Sleep(*wait)
			cancel()
		}()
	case "mq", "mqtt":
		c, _ := NewMQTTCouplings(flag.Args())
		cio = c
	case "ws":
		c, _ := NewWebSocketCouplings(flag.Args())
		cio = c
	default:
		log.Fatalf("unknown io: '%s'", *coupling)
	}

	var layout *sio.Layout
	switch {
	case *layoutFile != "":
		l, err := sio.ReadLayout(*layoutFile)
		if err != nil {
			log.Fatal(err)
		}
		layout = l
	case *configLoc != "":
		layout = sio.SingleLayout(*widgetName, "", *configLoc)
	default:
		layout = sio.SingleLayout(*widgetName, *widgetKind, "")
	}
	if *imageDir != "" {
		layout.ImageDir = *imageDir
	}

	diag := core.Discard
	if *diagLog {
		diag = &core.LogDiag{}
	}
	opts := []core.Option{core.WithDiag(diag)}

	h := sio.NewHost()
	h.Verbose = *verbose

	if *metricsAddr != "" {
		metrics, err := sio.NewMetrics(prometheus.DefaultRegisterer)
		if err != nil {
			log.Fatal(err)
		}
		h.Metrics = metrics
		if err := serveMetrics(*metricsAddr); err != nil {
			log.Fatal(err)
		}
	}

	if err := layout.Build(ctx, h, opts...); err != nil {
		log.Fatal(err)
	}

	if *dbFilename != "" {
		store, err := bolt.NewStorage(*dbFilename)
		if err != nil {
			log.Fatal(err)
		}
		store.Debug = *verbose
		if err = store.Open(ctx); err != nil {
			log.Fatal(err)
		}
		defer store.Close(context.Background())
		h.Storage = store
		if err = h.Restore(ctx); err != nil {
			log.Fatal(err)
		}
	}

	if *watch {
		w, err := sio.NewWatcher(h, layout.Configs(), opts...)
		if err != nil {
			log.Fatal(err)
		}
		go func() {
			if err := w.Run(ctx); err != nil {
				E(err, "watcher")
			}
		}()
	}

	if err := cio.Start(ctx); err != nil {
		log.Fatal(err)
	}

	if err := h.Loop(ctx, cio); err != nil {
		E(err, "Loop")
	}

	if err := cio.Stop(context.Background()); err != nil {
		log.Printf("error from io.Stop: %v", err)
	}
}

// serveMetrics serves Prometheus metrics in the background.
func serveMetrics(addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	s := &http.Server{
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("Serving metrics on %s", l.Addr())
		if err := s.Serve(netutil.LimitListener(l, 8)); err != nil {
			E(err, "metrics")
		}
	}()
	return nil
}

func E(err error, args ...interface{}) error {
	log.Printf("error %s: %v", err, args)
	return err
}
