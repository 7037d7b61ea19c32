package kafka

import (
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/DoyleJ11/lolnotes/internal/engine"
)

const DefaultTopic = "lolnotes-lobby"

// EventType represents the type of lobby event
type EventType string

const (
	EventGameChanged    EventType = "game_changed"
	EventPlayerResolved EventType = "player_resolved"
)

// LobbyEvent is what gets published for analytics
type LobbyEvent struct {
	Type      EventType `json:"type"`
	GameID    int64     `json:"gameId"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data,omitempty"`
}

// PlayerResolvedData contains data for player resolved events
type PlayerResolvedData struct {
	Team     int           `json:"team"`
	Slot     int           `json:"slot"`
	Source   engine.Source `json:"source"`
	UserID   int64         `json:"userId,omitempty"`
	RecordID string        `json:"recordId,omitempty"`
}

// Producer publishes engine decisions to Kafka. Events are queued and sent
// from a background goroutine so the engine never waits on the broker; when
// the queue is full events are dropped.
type Producer struct {
	producer sarama.SyncProducer
	topic    string
	events   chan LobbyEvent
	wg       sync.WaitGroup
	once     sync.Once
	mu       sync.RWMutex // guards closed and sends on events
	closed   bool
	log      *zap.Logger
}

var _ engine.Observer = (*Producer)(nil)

// NewProducer connects to the brokers. With no brokers configured it returns a
// disabled producer whose methods are no-ops.
func NewProducer(brokers []string, topic string, log *zap.Logger) (*Producer, error) {
	if len(brokers) == 0 {
		log.Info("kafka brokers not configured (analytics disabled)")
		return &Producer{log: log}, nil
	}

	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 3

	sp, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, err
	}

	log.Info("kafka producer connected", zap.Strings("brokers", brokers), zap.String("topic", topic))
	return newProducer(sp, topic, log), nil
}

func newProducer(sp sarama.SyncProducer, topic string, log *zap.Logger) *Producer {
	if topic == "" {
		topic = DefaultTopic
	}
	p := &Producer{
		producer: sp,
		topic:    topic,
		events:   make(chan LobbyEvent, 256),
		log:      log,
	}
	p.wg.Add(1)
	go p.run()
	return p
}

// IsEnabled returns whether Kafka is enabled
func (p *Producer) IsEnabled() bool { return p.producer != nil }

func (p *Producer) GameChanged(gameID int64) {
	p.enqueue(LobbyEvent{Type: EventGameChanged, GameID: gameID, Timestamp: time.Now()})
}

func (p *Producer) PlayerResolved(gameID int64, team, slot int, r engine.Resolved) {
	data := PlayerResolvedData{Team: team, Slot: slot, Source: r.Source, RecordID: r.RecordID}
	switch {
	case r.Stats != nil:
		data.UserID = r.Stats.UserID
	case r.Live != nil:
		if ply, ok := r.Live.AsPlayer(); ok {
			data.UserID = ply.UserID
		}
	}
	p.enqueue(LobbyEvent{Type: EventPlayerResolved, GameID: gameID, Timestamp: time.Now(), Data: data})
}

func (p *Producer) enqueue(ev LobbyEvent) {
	if !p.IsEnabled() {
		return
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return
	}
	select {
	case p.events <- ev:
	default:
		p.log.Warn("analytics queue full, dropping event", zap.String("type", string(ev.Type)))
	}
}

func (p *Producer) run() {
	defer p.wg.Done()
	for ev := range p.events {
		p.send(ev)
	}
}

// send sends an event to Kafka
func (p *Producer) send(ev LobbyEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		p.log.Error("marshal event", zap.Error(err))
		return
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(strconv.FormatInt(ev.GameID, 10)),
		Value: sarama.ByteEncoder(data),
	}
	if _, _, err := p.producer.SendMessage(msg); err != nil {
		p.log.Warn("send event to kafka", zap.String("type", string(ev.Type)), zap.Error(err))
	}
}

// Close flushes queued events and closes the producer
func (p *Producer) Close() error {
	if !p.IsEnabled() {
		return nil
	}
	var err error
	p.once.Do(func() {
		p.mu.Lock()
		p.closed = true
		close(p.events)
		p.mu.Unlock()

		p.wg.Wait()
		err = p.producer.Close()
	})
	return err
}
