// Package preview streams shown frames to browsers over websocket and
// exposes health and Prometheus metrics.
package preview

import (
	"context"
	"encoding/json"
	"image"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/dotmatrix/matrix"
)

// Topology is sent once to every client on connect.
type Topology struct {
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Count    int    `json:"count"`
	Geometry string `json:"geometry"`
	Layout   string `json:"layout"`
	Rotation string `json:"rotation"`
	Driver   string `json:"driver"`
}

// TopologyOf describes m as it is currently configured.
func TopologyOf(m *matrix.Matrix, driver string) Topology {
	g := m.Geometry()
	return Topology{
		Width:    m.Width(),
		Height:   m.Height(),
		Count:    g.Count(),
		Geometry: g.String(),
		Layout:   m.Layout().String(),
		Rotation: m.Rotation().String(),
		Driver:   driver,
	}
}

type frame struct {
	T       int64  `json:"t"`
	FrameID uint64 `json:"frame_id"`
	RGB     []byte `json:"rgb"`
}

type Hub struct {
	mu        sync.RWMutex
	top       Topology
	clients   map[*websocket.Conn]bool
	frameID   uint64
	startTime time.Time

	reg       *prometheus.Registry
	frames    prometheus.Counter
	dropped   prometheus.Counter
	connected prometheus.Gauge
}

func NewHub(top Topology) *Hub {
	h := &Hub{
		top:       top,
		clients:   map[*websocket.Conn]bool{},
		startTime: time.Now(),
		reg:       prometheus.NewRegistry(),
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dotmatrix", Name: "frames_total", Help: "Frames shown on the device.",
		}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dotmatrix", Name: "preview_write_errors_total", Help: "Frame writes to preview clients that failed.",
		}),
		connected: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "dotmatrix", Name: "preview_clients", Help: "Connected preview clients.",
		}),
	}
	h.reg.MustRegister(h.frames, h.dropped, h.connected, collectors.NewGoCollector())
	return h
}

// Handler routes /ws/frames, /health and /metrics.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws/frames", h.HandleFramesWS)
	mux.HandleFunc("/health", h.HandleHealth)
	mux.Handle("/metrics", promhttp.HandlerFor(h.reg, promhttp.HandlerOpts{}))
	return mux
}

func (h *Hub) HandleFramesWS(w http.ResponseWriter, r *http.Request) {
	up := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		log.Debug().Err(err).Msg("upgrade")
		return
	}
	h.mu.Lock()
	h.clients[conn] = true
	h.connected.Set(float64(len(h.clients)))
	b, _ := json.Marshal(h.top)
	_ = conn.WriteMessage(websocket.TextMessage, b)
	h.mu.Unlock()

	go func() {
		defer func() {
			h.mu.Lock()
			delete(h.clients, conn)
			h.connected.Set(float64(len(h.clients)))
			h.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Hub) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	resp := map[string]any{
		"frame_id": h.frameID,
		"uptime_s": time.Since(h.startTime).Seconds(),
		"count":    h.top.Count,
		"clients":  len(h.clients),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// Broadcast sends img, a 1xN strip image, to every client as packed RGB.
func (h *Hub) Broadcast(frameID uint64, img *image.NRGBA) {
	n := img.Bounds().Dx()
	rgb := make([]byte, 0, n*3)
	for i := 0; i < n; i++ {
		p := img.Pix[i*4 : i*4+3]
		rgb = append(rgb, p[0], p[1], p[2])
	}
	b, _ := json.Marshal(frame{T: time.Now().UnixNano(), FrameID: frameID, RGB: rgb})

	h.frames.Inc()
	h.mu.Lock()
	defer h.mu.Unlock()
	h.frameID = frameID
	for c := range h.clients {
		c.SetWriteDeadline(time.Now().Add(200 * time.Millisecond))
		if err := c.WriteMessage(websocket.TextMessage, b); err != nil {
			h.dropped.Inc()
			log.Debug().Err(err).Msg("write frame")
		}
	}
}

// Serve listens on addr until ctx is done.
func (h *Hub) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: h.Handler()}
	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(sctx)
	}()
	log.Info().Str("addr", addr).Msg("preview listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
