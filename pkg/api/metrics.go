package api

import (
	"runtime"
	"strconv"
	"time"

	"k24chat/pkg/chat"
	"k24chat/pkg/store"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/valyala/fasthttp"
)

var (
	gcPauseTotal = prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "go_gc_pause_total_ns",
			Help: "Total GC pause time in nanoseconds.",
		},
		func() float64 {
			var stats runtime.MemStats
			runtime.ReadMemStats(&stats)
			return float64(stats.PauseTotalNs)
		},
	)

	heapAlloc = prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "go_heap_alloc_bytes",
			Help: "Current heap allocation in bytes.",
		},
		func() float64 {
			var stats runtime.MemStats
			runtime.ReadMemStats(&stats)
			return float64(stats.HeapAlloc)
		},
	)
)

func init() {
	prometheus.MustRegister(gcPauseTotal)
	prometheus.MustRegister(heapAlloc)
}

// Metrics holds the chat and http collectors.
type Metrics struct {
	messages     *prometheus.CounterVec
	botCommands  *prometheus.CounterVec
	gamesStarted prometheus.Counter
	gamesDone    *prometheus.CounterVec
	requests     *prometheus.CounterVec
	latency      *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		messages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "k24chat_messages_posted_total",
			Help: "Messages appended to a channel or dm, by kind.",
		}, []string{"kind"}),
		botCommands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "k24chat_bot_commands_total",
			Help: "Bot commands handled, by command.",
		}, []string{"command"}),
		gamesStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "k24chat_hangman_games_started_total",
			Help: "Hangman games started.",
		}),
		gamesDone: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "k24chat_hangman_games_finished_total",
			Help: "Hangman games finished, by outcome.",
		}, []string{"outcome"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "k24chat_http_requests_total",
			Help: "HTTP requests served, by method and status code.",
		}, []string{"method", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "k24chat_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
	}
	reg.MustRegister(m.messages, m.botCommands, m.gamesStarted, m.gamesDone, m.requests, m.latency)
	return m
}

// Hooks feeds chat service events into the counters.
func (m *Metrics) Hooks() chat.Hooks {
	return chat.Hooks{
		MessagePosted: func(kind string) { m.messages.WithLabelValues(kind).Inc() },
		BotCommand:    func(name string) { m.botCommands.WithLabelValues(name).Inc() },
		GameStarted:   func() { m.gamesStarted.Inc() },
		GameFinished:  func(outcome string) { m.gamesDone.WithLabelValues(outcome).Inc() },
	}
}

// Instrument counts and times every request passing through next.
func (m *Metrics) Instrument(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		start := time.Now()
		next(ctx)
		method := string(ctx.Method())
		m.requests.WithLabelValues(method, strconv.Itoa(ctx.Response.StatusCode())).Inc()
		m.latency.WithLabelValues(method).Observe(time.Since(start).Seconds())
	}
}

// RegisterStoreMetrics exposes snapshot persistence and timer gauges.
func RegisterStoreMetrics(reg prometheus.Registerer, st *store.Store, svc *chat.Service) {
	reg.MustRegister(
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "k24chat_store_saves_total",
			Help: "Snapshots written to the persister.",
		}, func() float64 {
			saves, _, _ := st.Stats()
			return float64(saves)
		}),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "k24chat_store_snapshot_bytes",
			Help: "Size of the last committed snapshot.",
		}, func() float64 {
			_, size, _ := st.Stats()
			return float64(size)
		}),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "k24chat_scheduled_timers",
			Help: "Pending send-later and standup timers.",
		}, func() float64 { return float64(svc.PendingTimers()) }),
	)
}
