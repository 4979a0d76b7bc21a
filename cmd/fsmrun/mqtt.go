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

package main

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Comcast/wfsm/sio"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// MQTTCouplings is an sio.Couplings for an MQTT client.
//
// Inputs arrive as JSON messages on the subscription topics.  When
// WidgetFromTopic is set, the last level of an input's topic names the
// widget (unless the Input already names one).  Outputs are published
// to OutTopic.
type MQTTCouplings struct {
	Client          mqtt.Client
	Quiesce         uint
	SubTopics       string
	OutTopic        string
	WidgetFromTopic bool

	InTimeout time.Duration

	incoming chan *sio.Input
	outbound chan *sio.Output
	done     chan bool
	stopOnce sync.Once
}

func NewMQTTCouplings(args []string) (*MQTTCouplings, *flag.FlagSet) {
	var (
		// Follow mosquitto_sub command line args.

		fs = flag.NewFlagSet("mq", flag.ExitOnError)

		broker      = fs.String("h", "tcp://localhost", "Broker hostname")
		clientId    = fs.String("i", "", "Client id")
		port        = fs.Int("p", 1883, "Broker port")
		keepAlive   = fs.Int("k", 10, "Keep-alive in seconds")
		userName    = fs.String("u", "", "Username")
		password    = fs.String("P", "", "Password")
		willTopic   = fs.String("will-topic", "", "Optional will topic")
		willPayload = fs.String("will-payload", "", "Optional will message")
		willQoS     = fs.Int("will-qos", 0, "Optional will QoS")
		willRetain  = fs.Bool("will-retain", false, "Optional will retention")
		reconnect   = fs.Bool("reconnect", false, "Automatically attempt to reconnect")
		clean       = fs.Bool("c", true, "Clean session")
		quiesce     = fs.Int("quiesce", 100, "Disconnection quiescence (in milliseconds)")

		certFilename = fs.String("cert", "", "Optional cert filename")
		keyFilename  = fs.String("key", "", "Optional key filename")
		insecure     = fs.Bool("insecure", false, "Skip broker cert checking")
		caFilename   = fs.String("cafile", "", "Optional CA cert filename")
		caPath       = fs.String("capath", "", "Optional path to CA cert filename")

		subTopics       = fs.String("t", "wfsm/in/#", "subscription topic(s), each optionally with :QOS")
		outTopic        = fs.String("out-topic", "wfsm/out", "Topic for outputs, optionally with :QOS")
		widgetFromTopic = fs.Bool("widget-from-topic", true, "last topic level names the widget")
		inTimeout       = fs.Duration("in-timeout", time.Second, "timeout for in-bound queuing")
	)

	if args == nil {
		return nil, fs
	}

	fs.Parse(args)

	mqtt.ERROR = log.New(os.Stderr, "mqtt.error ", 0)

	opts := mqtt.NewClientOptions()

	opts.AddBroker(fmt.Sprintf("%s:%d", *broker, *port))
	opts.SetClientID(*clientId)
	opts.SetKeepAlive(time.Second * time.Duration(*keepAlive))

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

	var certs []tls.Certificate
	if *keyFilename != "" {
		cert, err := tls.LoadX509KeyPair(*certFilename, *keyFilename)
		if err != nil {
			log.Fatal(err)
		}
		certs = []tls.Certificate{cert}
	}

	tlsConf := &tls.Config{
		InsecureSkipVerify: *insecure,
	}
	if rootCAs != nil {
		tlsConf.RootCAs = rootCAs
	}
	if certs != nil {
		tlsConf.Certificates = certs
	}
	opts.SetTLSConfig(tlsConf)

	opts.OnConnectionLost = func(client mqtt.Client, err error) {
		log.Printf("MQTT connection lost: %v", err)
	}

	c := &MQTTCouplings{
		Quiesce:         uint(*quiesce),
		SubTopics:       *subTopics,
		OutTopic:        *outTopic,
		WidgetFromTopic: *widgetFromTopic,
		InTimeout:       *inTimeout,
	}
	c.init()

	opts.DefaultPublishHandler = func(client mqtt.Client, msg mqtt.Message) {
		c.inHandler(context.Background(), msg.Topic(), msg.Payload())
	}

	c.Client = mqtt.NewClient(opts)

	return c, fs
}

func (c *MQTTCouplings) init() {
	c.incoming = make(chan *sio.Input)
	c.outbound = make(chan *sio.Output)
	c.done = make(chan bool)
}

// input makes an Input from an MQTT message.
func (c *MQTTCouplings) input(topic string, payload []byte) (*sio.Input, error) {
	var input sio.Input
	if err := json.Unmarshal(payload, &input); err != nil {
		return nil, err
	}
	if c.WidgetFromTopic && input.Widget == "" {
		if i := strings.LastIndex(topic, "/"); 0 <= i && i < len(topic)-1 {
			input.Widget = topic[i+1:]
		}
	}
	return &input, nil
}

// inHandler is a Paho publish handler, which is used to handle
// messages send to us from the MQTT broker due to our subscriptions.
func (c *MQTTCouplings) inHandler(ctx context.Context, topic string, payload []byte) {
	input, err := c.input(topic, payload)
	if err != nil {
		log.Printf("Couldn't parse payload on %s: %s", topic, payload)
		return
	}

	to := time.NewTimer(c.InTimeout)
	defer to.Stop()

	select {
	case <-ctx.Done():
		log.Printf("Not forwarding due to ctx.Done()")
	case <-c.done:
		log.Printf("Not forwarding after Stop")
	case c.incoming <- input:
	case <-to.C:
		log.Printf("Not forwarding due to stall")
	}
}

// Start creates the MQTT session.
func (c *MQTTCouplings) Start(ctx context.Context) error {
	log.Printf("Attempting to connect to broker")
	if token := c.Client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("Connected to broker")

	for _, topic := range strings.Split(c.SubTopics, ",") {
		topic, qos := parseTopic(topic)
		if topic == "" {
			continue
		}
		log.Printf("Subscribing to %s (%d)", topic, qos)
		if t := c.Client.Subscribe(topic, qos, nil); t.Wait() && t.Error() != nil {
			return t.Error()
		}
	}

	go func() {
		if err := c.outLoop(ctx); err != nil {
			E(err, "outLoop")
		}
	}()

	log.Printf("Couplings started")

	return nil
}

// IO returns the channels for inputs and outputs.
func (c *MQTTCouplings) IO(ctx context.Context) (chan *sio.Input, chan *sio.Output, chan bool, error) {
	return c.incoming, c.outbound, c.done, nil
}

// outLoop publishes Outputs to the MQTT broker.
func (c *MQTTCouplings) outLoop(ctx context.Context) error {
	topic, qos := parseTopic(c.OutTopic)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-c.done:
			return nil
		case o := <-c.outbound:
			if o == nil {
				continue
			}
			js, err := json.Marshal(o)
			if err != nil {
				log.Printf("Failed to marshal %#v", o)
				continue
			}
			token := c.Client.Publish(topic, qos, false, js)
			token.Wait()
			if err := token.Error(); err != nil {
				return fmt.Errorf("publish: %w", err)
			}
		}
	}
}

// Stop terminates the MQTT session.
func (c *MQTTCouplings) Stop(ctx context.Context) error {
	c.stopOnce.Do(func() {
		log.Printf("Disconnecting")
		close(c.done)
		if c.Client != nil && c.Client.IsConnected() {
			c.Client.Disconnect(c.Quiesce)
		}
	})
	return nil
}

// parseTopic can extract QoS from a topic name of the form TOPIC:QOS.
func parseTopic(s string) (string, byte) {
	s = strings.TrimSpace(s)
	i := strings.LastIndex(s, ":")
	if i < 0 {
		return s, 0
	}
	qos, err := strconv.ParseUint(s[i+1:], 10, 8)
	if err != nil || 2 < qos {
		return s, 0
	}
	return s[:i], byte(qos)
}
