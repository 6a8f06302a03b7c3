// Package mqtt publishes decoded words to an mqtt broker.
package mqtt

import (
	"encoding/json"
	"time"

	mqttlib "github.com/eclipse/paho.mqtt.golang"
	"github.com/womat/debug"

	"pdm/pkg/pdm"
)

const (
	// quiesce is the specified number of milliseconds to wait for existing work to be completed.
	quiesce = 250
	// queue is the number of messages buffered for Service.
	queue = 16
)

// Handler contains the handler of the mqtt broker.
type Handler struct {
	handler mqttlib.Client
	// C is the channel to service the mqtt message
	// sending a message to channel C will send the message.
	C chan Message
}

// Message contains the properties of the mqtt message.
type Message struct {
	Topic    string
	Payload  []byte
	Qos      byte
	Retained bool
}

// New generate a new mqtt broker client.
func New() *Handler {
	return &Handler{
		C: make(chan Message, queue),
	}
}

// Connect connects to the mqtt broker.
// If no broker is defined, no mqtt message are send.
func (m *Handler) Connect(broker, clientID string) error {
	if broker == "" {
		return nil
	}

	opts := mqttlib.NewClientOptions().AddBroker(broker).SetAutoReconnect(true)
	if clientID != "" {
		opts.SetClientID(clientID)
	}

	m.handler = mqttlib.NewClient(opts)
	return m.ReConnect()
}

// ReConnect reconnects to the defined mqtt broker.
func (m *Handler) ReConnect() error {
	t := m.handler.Connect()
	<-t.Done()
	return t.Error()
}

// Disconnect will end the connection to the broker.
func (m *Handler) Disconnect() error {
	if m.handler == nil {
		return nil
	}

	m.handler.Disconnect(quiesce)
	return nil
}

// Service listen to a message on the channel C and send the message to mqtt.
// If no handler or topic is defined, the message will be ignored.
// Service returns when C is closed.
func (m *Handler) Service() {
	for msg := range m.C {
		if m.handler == nil || msg.Topic == "" {
			continue
		}

		if !m.handler.IsConnected() {
			debug.DebugLog.Printf("mqtt broker isn't connected, reconnect it")

			if err := m.ReConnect(); err != nil {
				debug.ErrorLog.Printf("can't reconnect to mqtt broker %v", err)
				continue
			}
		}

		debug.DebugLog.Printf("publishing %v bytes to topic %v", len(msg.Payload), msg.Topic)
		t := m.handler.Publish(msg.Topic, msg.Qos, msg.Retained, msg.Payload)

		// the asynchronous nature of this library makes it easy to forget to check for errors.
		go func(topic string) {
			<-t.Done()
			if err := t.Error(); err != nil {
				debug.ErrorLog.Printf("publishing topic %v: %v", topic, err)
			}
		}(msg.Topic)
	}
}

// WordMessage is the payload published for every decoded word.
type WordMessage struct {
	Time  time.Time `json:"time"`
	Start uint64    `json:"start"`
	End   uint64    `json:"end"`
	Word  string    `json:"word"`
}

// Publisher is an annotation sink which publishes Word annotations.
type Publisher struct {
	C        chan<- Message
	Topic    string
	Retained bool
	// now returns the wall clock time, replaced in tests.
	now func() time.Time
}

// NewPublisher returns a sink publishing words to topic via handler h.
func NewPublisher(h *Handler, topic string) *Publisher {
	return &Publisher{C: h.C, Topic: topic, Retained: true, now: time.Now}
}

// Put publishes a if it is a Word annotation.
// If the queue is full, the word is dropped so the decoder never stalls.
func (p *Publisher) Put(a pdm.Annotation) {
	if a.Kind != pdm.Word || p.Topic == "" {
		return
	}

	b, err := json.Marshal(WordMessage{Time: p.now(), Start: a.Start, End: a.End, Word: a.Text})
	if err != nil {
		debug.ErrorLog.Printf("mqtt marshal: %v", err)
		return
	}

	select {
	case p.C <- Message{Topic: p.Topic, Payload: b, Retained: p.Retained}:
	default:
		debug.ErrorLog.Printf("mqtt queue full, dropping word %s", a.Text)
	}
}
