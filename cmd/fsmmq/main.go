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

// Package main is a little command-line MQTT client for driving an
// fsmrun process (with "-io mq").
//
// Commands:
//
//	widget [NAME]         Send subsequent inputs to NAME (or to every widget).
//	press X Y             Pointer press at (X,Y).
//	move X Y              Pointer move to (X,Y).
//	release X Y           Pointer release at (X,Y).
//	event TYPE [REGION]   Deliver an event directly.
//	view|states|debug     Ask for a view, the current states, or a dump.
//	qos QOS               Set the QoS for subsequent operations.
//	retain (true|false)   Set retain flag for subsequent pubs.
//	sub TOPIC             Subscribe to the given topic.
//	unsub TOPIC           Unsubscribe from the given topic.
//	pub TOPIC MSG         Publish MSG to the given TOPIC.
//	sleep DURATION        Sleep for DURATION (Go syntax).
//	quit                  Disconnect.
//
// Outputs on the subscribed topics are printed with a "> " prefix.
package main

import (
	"bufio"
	"context"
	"crypto/tls"
	"crypto/x509"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/Comcast/wfsm/sio"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

func main() {

	var (
		// Follow mosquitto_sub command line args.

		broker      = flag.String("h", "tcp://localhost:1883", "Broker URL")
		clientId    = flag.String("i", "", "Client id")
		keepAlive   = flag.Int("k", 10, "Keep-alive in seconds")
		userName    = flag.String("u", "", "Username")
		password    = flag.String("P", "", "Password")
		willTopic   = flag.String("will-topic", "", "Optional will topic")
		willPayload = flag.String("will-payload", "", "Optional will message")
		willQoS     = flag.Int("will-qos", 0, "Optional will QoS")
		willRetain  = flag.Bool("will-retain", false, "Optional will retention")
		reconnect   = flag.Bool("reconnect", false, "Automatically attempt to reconnect")
		clean       = flag.Bool("c", true, "Clean session")
		quiesce     = flag.Int("quiesce", 100, "Disconnection quiescence (in milliseconds)")

		certFilename = flag.String("cert", "", "Optional cert filename")
		keyFilename  = flag.String("key", "", "Optional key filename")
		insecure     = flag.Bool("insecure", false, "Skip broker cert checking")
		caFilename   = flag.String("cafile", "", "Optional CA cert filename")
		caPath       = flag.String("capath", "", "Optional path to CA cert filename")

		inPrefix    = flag.String("in-prefix", "wfsm/in", "Topic prefix for inputs")
		outTopic    = flag.String("out-topic", "wfsm/out", "Topic to subscribe to for outputs (empty for none)")
		widget      = flag.String("widget", "", "Initial widget")
		shellExpand = flag.Bool("sh", false, "Shell-expand input lines")
	)

	flag.Parse()

	opts := mqtt.NewClientOptions()
	opts.AddBroker(*broker)
	opts.SetClientID(*clientId)
	opts.SetKeepAlive(time.Second * time.Duration(*keepAlive))
	opts.SetPingTimeout(10 * time.Second)

	opts.Username = *userName
	opts.Password = *password
	opts.AutoReconnect = *reconnect
	opts.CleanSession = *clean

	if *willTopic != "" {
		if *willPayload == "" {
			log.Fatal("will topic without payload")
		}
		opts.WillEnabled = true
		opts.WillTopic = *willTopic
		opts.WillPayload = []byte(*willPayload)
		opts.WillRetained = *willRetain
		opts.WillQos = byte(*willQoS)
	}

	var rootCAs *x509.CertPool
	if *caFilename != "" {
		if rootCAs, _ = x509.SystemCertPool(); rootCAs == nil {
			rootCAs = x509.NewCertPool()
		}
		filename := filepath.Join(*caPath, *caFilename)
		certs, err := os.ReadFile(filename)
		if err != nil {
			log.Fatalf("couldn't read '%s': %s", filename, err)
		}
		if ok := rootCAs.AppendCertsFromPEM(certs); !ok {
			log.Println("No certs appended, using system certs only")
		}
	}

	tlsConf := &tls.Config{
		InsecureSkipVerify: *insecure,
		RootCAs:            rootCAs,
	}
	if *keyFilename != "" {
		cert, err := tls.LoadX509KeyPair(*certFilename, *keyFilename)
		if err != nil {
			log.Fatal(err)
		}
		tlsConf.Certificates = []tls.Certificate{cert}
	}
	opts.SetTLSConfig(tlsConf)

	opts.OnConnectionLost = func(client mqtt.Client, err error) {
		log.Printf("MQTT connection lost: %v", err)
	}

	opts.DefaultPublishHandler = func(client mqtt.Client, msg mqtt.Message) {
		fmt.Printf("> %s %s\n", msg.Topic(), msg.Payload())
	}

	var (
		c  = mqtt.NewClient(opts)
		in = bufio.NewReader(os.Stdin)
		sh = &Shell{
			Prefix: *inPrefix,
			Widget: *widget,
		}
	)

	if t := c.Connect(); t.Wait() && t.Error() != nil {
		log.Fatal(t.Error())
	}

	if *outTopic != "" {
		if t := c.Subscribe(*outTopic, 0, nil); t.Wait() && t.Error() != nil {
			log.Fatal(t.Error())
		}
	}

LOOP:
	for {
		line, err := in.ReadString('\n')
		if err != nil && err != io.EOF {
			log.Fatal(err)
		}
		if err == io.EOF && line == "" {
			break
		}
		if *shellExpand {
			if line, err = sio.ShellExpand(context.Background(), line); err != nil {
				fmt.Printf("shell expansion error: %s\n", err)
				continue
			}
		}
		step, err := sh.Line(line)
		if err != nil {
			fmt.Printf("error: %s\n", err)
			continue
		}
		if step == nil {
			continue
		}

		var t mqtt.Token
		switch {
		case step.Quit:
			break LOOP
		case 0 < step.Sleep:
			time.Sleep(step.Sleep)
		case step.Sub != "":
			t = c.Subscribe(step.Sub, sh.QoS, nil)
		case step.Unsub != "":
			t = c.Unsubscribe(step.Unsub)
		case step.Topic != "":
			t = c.Publish(step.Topic, sh.QoS, sh.Retain, step.Payload)
		}
		if t != nil && t.Wait() && t.Error() != nil {
			fmt.Printf("mqtt error: %s\n", t.Error())
		}
	}

	log.Printf("Disconnecting")

	c.Disconnect(uint(*quiesce))
}
