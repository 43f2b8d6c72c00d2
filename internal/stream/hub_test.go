package stream

import (
	"encoding/json"
	"testing"
	"time"

	"MarketPulse/internal/domain/models"
	applogger "MarketPulse/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopMetrics struct{}

func (nopMetrics) RecordAnalysis(string, string) {}
func (nopMetrics) RecordCacheHit(string)         {}
func (nopMetrics) RecordCacheMiss(string)        {}
func (nopMetrics) RecordError(string)            {}
func (nopMetrics) SetStreamClients(int)          {}
func (nopMetrics) RecordStreamPush(string)       {}
func (nopMetrics) RecordLatency(string, float64) {}

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	log, err := applogger.New(&applogger.Config{Level: "error", Output: "stderr"})
	require.NoError(t, err)
	h := NewHub(Config{Heartbeat: time.Hour}, log, nopMetrics{})
	go h.Run()
	t.Cleanup(h.Stop)
	return h
}

func connect(t *testing.T, h *Hub) *Client {
	t.Helper()
	log, err := applogger.New(&applogger.Config{Level: "error", Output: "stderr"})
	require.NoError(t, err)
	c := NewClient(h, nil, log)
	h.Register(c)
	return c
}

func subscribe(t *testing.T, h *Hub, c *Client, channel string) models.SubscriptionAck {
	t.Helper()
	h.Command(c, models.StreamCommand{Action: models.StreamActionSubscribe, Channel: channel})
	return readAck(t, c)
}

func readFrame(t *testing.T, c *Client) models.StreamMessage {
	t.Helper()
	select {
	case b, ok := <-c.send:
		require.True(t, ok, "send channel closed")
		var msg models.StreamMessage
		require.NoError(t, json.Unmarshal(b, &msg))
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for frame")
		return models.StreamMessage{}
	}
}

func readAck(t *testing.T, c *Client) models.SubscriptionAck {
	t.Helper()
	msg := readFrame(t, c)
	require.Equal(t, models.StreamTypeAck, msg.Type)
	var ack models.SubscriptionAck
	require.NoError(t, json.Unmarshal(msg.Data, &ack))
	return ack
}

func TestHubDeliversToExactSubscribers(t *testing.T) {
	h := newTestHub(t)

	a := connect(t, h)
	b := connect(t, h)
	c := connect(t, h)

	require.True(t, subscribe(t, h, a, "crypto:BTC").OK)
	require.True(t, subscribe(t, h, b, "crypto:ETH").OK)
	require.True(t, subscribe(t, h, c, "crypto:BTC").OK)
	require.True(t, subscribe(t, h, c, "crypto:ETH").OK)

	res, err := models.NewAnalysisResult(models.DomainCrypto, "BTC", models.SourceLive, map[string]any{"price": 43000})
	require.NoError(t, err)
	h.Push(res)

	for _, cl := range []*Client{a, c} {
		msg := readFrame(t, cl)
		assert.Equal(t, models.StreamTypeResult, msg.Type)
		assert.Equal(t, "crypto:BTC", msg.Channel)

		var got models.AnalysisResult
		require.NoError(t, json.Unmarshal(msg.Data, &got))
		assert.Equal(t, "BTC", got.Symbol)
	}

	// b must see nothing
	select {
	case frame := <-b.send:
		t.Fatalf("unexpected frame for ETH-only subscriber: %s", frame)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestHubUnsubscribeStopsDelivery(t *testing.T) {
	h := newTestHub(t)
	c := connect(t, h)

	require.True(t, subscribe(t, h, c, "crypto:BTC").OK)

	h.Command(c, models.StreamCommand{Action: models.StreamActionUnsubscribe, Channel: "crypto:BTC"})
	require.True(t, readAck(t, c).OK)

	res, err := models.NewAnalysisResult(models.DomainCrypto, "BTC", models.SourceLive, "x")
	require.NoError(t, err)
	h.Push(res)

	select {
	case frame := <-c.send:
		t.Fatalf("unexpected frame after unsubscribe: %s", frame)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestHubMixedCaseSubscriptionReceivesPush(t *testing.T) {
	h := newTestHub(t)
	c := connect(t, h)

	ack := subscribe(t, h, c, "crypto:btc")
	require.True(t, ack.OK)
	assert.Equal(t, "crypto:BTC", ack.Channel)

	res, err := models.NewAnalysisResult(models.DomainCrypto, "BTC", models.SourceLive, map[string]any{"price": 43000})
	require.NoError(t, err)
	h.Push(res)

	msg := readFrame(t, c)
	assert.Equal(t, models.StreamTypeResult, msg.Type)
	assert.Equal(t, "crypto:BTC", msg.Channel)

	// unsubscribe in yet another case stops delivery
	h.Command(c, models.StreamCommand{Action: models.StreamActionUnsubscribe, Channel: "crypto:Btc"})
	require.True(t, readAck(t, c).OK)
	h.Push(res)
	select {
	case frame := <-c.send:
		t.Fatalf("unexpected frame after unsubscribe: %s", frame)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestHubHeartbeatReachesEveryClient(t *testing.T) {
	log, err := applogger.New(&applogger.Config{Level: "error", Output: "stderr"})
	require.NoError(t, err)
	h := NewHub(Config{Heartbeat: 20 * time.Millisecond}, log, nopMetrics{})
	go h.Run()
	t.Cleanup(h.Stop)

	subscribed := connect(t, h)
	idle := connect(t, h)
	h.Command(subscribed, models.StreamCommand{Action: models.StreamActionSubscribe, Channel: "crypto:BTC"})

	// the ack and the first tick may arrive in either order
	heartbeatFrom := func(c *Client) models.Heartbeat {
		for i := 0; i < 5; i++ {
			msg := readFrame(t, c)
			if msg.Type != models.StreamTypeHeartbeat {
				continue
			}
			var hb models.Heartbeat
			require.NoError(t, json.Unmarshal(msg.Data, &hb))
			return hb
		}
		t.Fatal("no heartbeat frame received")
		return models.Heartbeat{}
	}

	for _, c := range []*Client{subscribed, idle} {
		hb := heartbeatFrom(c)
		assert.Equal(t, 2, hb.Clients)
		assert.False(t, hb.At.IsZero())
	}
}

func TestHubRejectsInvalidChannelKeepsConnection(t *testing.T) {
	h := newTestHub(t)
	c := connect(t, h)

	ack := subscribe(t, h, c, "bonds:XYZ")
	assert.False(t, ack.OK)
	assert.NotEmpty(t, ack.Error)

	// connection still usable
	require.True(t, subscribe(t, h, c, "stock:AAPL").OK)
}

func TestHubDisconnectCleansUpSubscriptions(t *testing.T) {
	h := newTestHub(t)

	a := connect(t, h)
	c := connect(t, h)
	require.True(t, subscribe(t, h, a, "crypto:BTC").OK)
	require.True(t, subscribe(t, h, c, "crypto:BTC").OK)
	require.True(t, subscribe(t, h, c, "crypto:ETH").OK)
	require.True(t, subscribe(t, h, c, "stock:AAPL").OK)

	h.Unregister(c)

	// closed send channel signals the drop completed
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-c.send:
			return !ok
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)

	// a's subscription must be untouched
	res, err := models.NewAnalysisResult(models.DomainCrypto, "BTC", models.SourceLive, "x")
	require.NoError(t, err)
	h.Push(res)
	msg := readFrame(t, a)
	assert.Equal(t, "crypto:BTC", msg.Channel)
}

func TestHubPerClientOrderPreserved(t *testing.T) {
	h := newTestHub(t)
	c := connect(t, h)
	require.True(t, subscribe(t, h, c, "crypto:BTC").OK)

	for i := 0; i < 5; i++ {
		res, err := models.NewAnalysisResult(models.DomainCrypto, "BTC", models.SourceLive, map[string]int{"seq": i})
		require.NoError(t, err)
		h.Push(res)
	}

	for i := 0; i < 5; i++ {
		msg := readFrame(t, c)
		var env models.AnalysisResult
		require.NoError(t, json.Unmarshal(msg.Data, &env))
		var payload map[string]int
		require.NoError(t, json.Unmarshal(env.Data, &payload))
		assert.Equal(t, i, payload["seq"])
	}
}
