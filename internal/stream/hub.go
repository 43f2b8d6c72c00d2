package stream

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"MarketPulse/internal/domain/models"
	"MarketPulse/internal/domain/repository"
	"MarketPulse/internal/router"
	applogger "MarketPulse/pkg/logger"
)

type command struct {
	client *Client
	cmd    models.StreamCommand
}

// Config carries the stream tunables from configuration.
type Config struct {
	Heartbeat    time.Duration
	SendBuffer   int
	WriteTimeout time.Duration
	PongTimeout  time.Duration
}

// Hub fans analysis results out to websocket subscribers. All state
// lives inside the run loop goroutine; registrations, commands, pushes
// and the heartbeat tick arrive through channels, so no locking is
// needed and per-client ordering is preserved.
type Hub struct {
	clients map[*Client]struct{}
	// channel -> subscribers and its inverse, always updated together
	subs       map[string]map[*Client]struct{}
	clientSubs map[*Client]map[string]struct{}

	register   chan *Client
	unregister chan *Client
	commands   chan command
	pushes     chan models.AnalysisResult

	cfg     Config
	log     *applogger.Logger
	metrics repository.Metrics
	done    chan struct{}
}

// NewHub creates a Hub. Run must be started for it to do anything.
func NewHub(cfg Config, log *applogger.Logger, metrics repository.Metrics) *Hub {
	if cfg.Heartbeat <= 0 {
		cfg.Heartbeat = 30 * time.Second
	}
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = 256
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	if cfg.PongTimeout <= 0 {
		cfg.PongTimeout = 60 * time.Second
	}
	return &Hub{
		clients:    make(map[*Client]struct{}),
		subs:       make(map[string]map[*Client]struct{}),
		clientSubs: make(map[*Client]map[string]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		commands:   make(chan command, 64),
		pushes:     make(chan models.AnalysisResult, 256),
		cfg:        cfg,
		log:        log,
		metrics:    metrics,
		done:       make(chan struct{}),
	}
}

// Run drains the inbound queue until Stop is called.
func (h *Hub) Run() {
	ticker := time.NewTicker(h.cfg.Heartbeat)
	defer ticker.Stop()

	for {
		select {
		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.clientSubs[c] = make(map[string]struct{})
			h.metrics.SetStreamClients(len(h.clients))
			h.log.Info("stream client connected", applogger.String("client_id", c.id))

		case c := <-h.unregister:
			h.dropClient(c)

		case cmd := <-h.commands:
			h.handleCommand(cmd)

		case res := <-h.pushes:
			h.broadcast(res)

		case t := <-ticker.C:
			h.sendHeartbeat(t)

		case <-h.done:
			for c := range h.clients {
				h.dropClient(c)
			}
			return
		}
	}
}

// Stop terminates the run loop and disconnects every client.
func (h *Hub) Stop() {
	close(h.done)
}

// Push queues a result for broadcast. Never blocks the caller; when the
// queue is full the result is dropped.
func (h *Hub) Push(res models.AnalysisResult) {
	select {
	case h.pushes <- res:
	default:
		h.metrics.RecordError("stream_queue_full")
	}
}

// Register queues a client for registration.
func (h *Hub) Register(c *Client) {
	h.register <- c
}

// Unregister queues a client for removal.
func (h *Hub) Unregister(c *Client) {
	h.unregister <- c
}

// Command queues a parsed client command.
func (h *Hub) Command(c *Client, cmd models.StreamCommand) {
	h.commands <- command{client: c, cmd: cmd}
}

// dropClient removes the client and all of its subscriptions. Work is
// proportional to the client's own subscription count.
func (h *Hub) dropClient(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	for channel := range h.clientSubs[c] {
		delete(h.subs[channel], c)
		if len(h.subs[channel]) == 0 {
			delete(h.subs, channel)
		}
	}
	delete(h.clientSubs, c)
	delete(h.clients, c)
	close(c.send)
	h.metrics.SetStreamClients(len(h.clients))
	h.log.Info("stream client disconnected", applogger.String("client_id", c.id))
}

func (h *Hub) handleCommand(cmd command) {
	c := cmd.client
	if _, ok := h.clients[c]; !ok {
		return
	}

	// Store channels in their broadcast form so case-variant
	// subscriptions land in the same bucket pushes key on.
	channel := normalizeChannel(cmd.cmd.Channel)
	ack := models.SubscriptionAck{Action: cmd.cmd.Action, Channel: channel, OK: true}

	if err := h.validateChannel(channel); err != nil {
		ack.OK = false
		ack.Error = err.Error()
	} else {
		switch cmd.cmd.Action {
		case models.StreamActionSubscribe:
			if h.subs[channel] == nil {
				h.subs[channel] = make(map[*Client]struct{})
			}
			h.subs[channel][c] = struct{}{}
			h.clientSubs[c][channel] = struct{}{}
		case models.StreamActionUnsubscribe:
			delete(h.subs[channel], c)
			if len(h.subs[channel]) == 0 {
				delete(h.subs, channel)
			}
			delete(h.clientSubs[c], channel)
		default:
			ack.OK = false
			ack.Error = fmt.Sprintf("unknown action %q", cmd.cmd.Action)
		}
	}

	h.sendFrame(c, models.StreamTypeAck, channel, ack)
}

// validateChannel checks the domain:SYMBOL[:SECONDARY] grammar. A bad
// channel rejects the command but keeps the connection open.
func (h *Hub) validateChannel(channel string) error {
	parts := strings.Split(channel, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return fmt.Errorf("channel must be domain:SYMBOL[:SECONDARY]")
	}
	switch models.Domain(parts[0]) {
	case models.DomainCrypto, models.DomainStock, models.DomainOptions,
		models.DomainForex, models.DomainSentiment, models.DomainCorrelation:
	default:
		return fmt.Errorf("unknown domain %q", parts[0])
	}
	for _, sym := range parts[1:] {
		if err := router.ValidateSymbol(sym); err != nil {
			return fmt.Errorf("invalid symbol %q", sym)
		}
	}
	return nil
}

// normalizeChannel lowercases the domain and uppercases the symbol
// parts, matching channelFor exactly.
func normalizeChannel(channel string) string {
	parts := strings.Split(strings.TrimSpace(channel), ":")
	parts[0] = strings.ToLower(parts[0])
	for i := 1; i < len(parts); i++ {
		parts[i] = strings.ToUpper(parts[i])
	}
	return strings.Join(parts, ":")
}

// broadcast delivers a result to every subscriber of its channel.
func (h *Hub) broadcast(res models.AnalysisResult) {
	channel := channelFor(res)
	targets := h.subs[channel]
	if len(targets) == 0 {
		return
	}

	frame, err := marshalFrame(models.StreamTypeResult, channel, res)
	if err != nil {
		h.log.Error("marshal stream frame", applogger.Error(err))
		return
	}

	for c := range targets {
		h.deliver(c, frame)
	}
	h.metrics.RecordStreamPush(string(res.Domain))
}

func (h *Hub) sendHeartbeat(at time.Time) {
	if len(h.clients) == 0 {
		return
	}
	frame, err := marshalFrame(models.StreamTypeHeartbeat, "", models.Heartbeat{
		At:      at.UTC(),
		Clients: len(h.clients),
	})
	if err != nil {
		return
	}
	for c := range h.clients {
		h.deliver(c, frame)
	}
}

func (h *Hub) sendFrame(c *Client, frameType, channel string, payload interface{}) {
	frame, err := marshalFrame(frameType, channel, payload)
	if err != nil {
		return
	}
	h.deliver(c, frame)
}

// deliver writes to the client's buffered send channel. A full buffer
// marks the client as slow and drops it.
func (h *Hub) deliver(c *Client, frame []byte) {
	select {
	case c.send <- frame:
	default:
		h.log.Warn("dropping slow stream client", applogger.String("client_id", c.id))
		h.metrics.RecordError("stream_slow_client")
		h.dropClient(c)
	}
}

func marshalFrame(frameType, channel string, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(models.StreamMessage{
		Type:    frameType,
		Channel: channel,
		Data:    data,
	})
}

// channelFor maps a result onto its stream channel, mirroring the
// result cache key.
func channelFor(res models.AnalysisResult) string {
	return string(res.Domain) + ":" + strings.ToUpper(res.Symbol)
}
