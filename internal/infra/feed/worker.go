package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"sync"
	"time"

	"entropy_go/internal/domain"

	"github.com/gorilla/websocket"
)

const (
	feedMaxRetries   = 10
	feedBaseDelay    = 1 * time.Second
	feedMaxDelay     = 60 * time.Second
	feedReadTimeout  = 60 * time.Second
	feedChanCapacity = 256

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// tickerResponse is the subset of the exchange ticker payload the feed
// needs: latest trade price and its timestamp.
type tickerResponse struct {
	Type           string  `json:"type"`
	Code           string  `json:"code"`
	TradePrice     float64 `json:"trade_price"`
	TradeTimestamp int64   `json:"trade_timestamp"` // ms
	Timestamp      int64   `json:"timestamp"`       // ms, receive time
}

// Worker handles the exchange WebSocket connection and streams bars.
type Worker struct {
	url       string
	symbol    string
	barChan   chan<- domain.Bar
	conn      *websocket.Conn
	mu        sync.RWMutex
	writeMu   sync.Mutex
	connected bool
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// NewWorker creates a feed worker for one symbol.
func NewWorker(url, symbol string, barChan chan<- domain.Bar) *Worker {
	return &Worker{
		url:     url,
		symbol:  symbol,
		barChan: barChan,
	}
}

// Connect starts the WebSocket connection with automatic reconnection.
func (w *Worker) Connect(ctx context.Context) error {
	ctx, w.cancel = context.WithCancel(ctx)

	w.wg.Add(1)
	go w.connectionLoop(ctx)

	return nil
}

// connectionLoop handles connection and reconnection with exponential backoff.
func (w *Worker) connectionLoop(ctx context.Context) {
	defer w.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Feed panic recovered", slog.Any("panic", r))
		}
	}()

	retryCount := 0
	for {
		select {
		case <-ctx.Done():
			slog.Info("Feed connection loop stopped")
			return
		default:
		}

		err := w.connect(ctx)
		if err != nil {
			slog.Warn("Feed connection failed",
				slog.Any("error", err),
				slog.Int("retry", retryCount),
			)

			delay := w.calculateBackoff(retryCount)
			retryCount++
			if retryCount > feedMaxRetries {
				slog.Error("Feed max retries exceeded, resetting counter")
				retryCount = 0
			}

			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
				continue
			}
		}

		// Connection successful, reset retry counter
		retryCount = 0

		w.readLoop(ctx)
	}
}

// calculateBackoff returns the delay for the current retry attempt.
func (w *Worker) calculateBackoff(retryCount int) time.Duration {
	delay := feedBaseDelay * time.Duration(math.Pow(2, float64(retryCount)))
	if delay > feedMaxDelay {
		delay = feedMaxDelay
	}
	return delay
}

// connect establishes the WebSocket connection and subscribes.
func (w *Worker) connect(ctx context.Context) error {
	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	header := make(http.Header)
	header.Add("User-Agent", userAgent)

	conn, _, err := dialer.DialContext(ctx, w.url, header)
	if err != nil {
		return fmt.Errorf("dial failed: %w", err)
	}

	w.mu.Lock()
	w.conn = conn
	w.connected = true
	w.mu.Unlock()

	if err := w.subscribe(); err != nil {
		w.closeConnection()
		return fmt.Errorf("subscribe failed: %w", err)
	}

	slog.Info("Feed WebSocket connected", slog.String("symbol", w.symbol))

	return nil
}

// subscribe sends the ticker subscription for the configured symbol.
func (w *Worker) subscribe() error {
	subscribeMsg := []map[string]interface{}{
		{"ticket": fmt.Sprintf("entropy-go-%d", time.Now().UnixNano())},
		{"type": "ticker", "codes": []string{w.symbol}},
	}

	msgBytes, err := json.Marshal(subscribeMsg)
	if err != nil {
		return err
	}

	return w.threadSafeWrite(websocket.TextMessage, msgBytes)
}

// threadSafeWrite sends a message to the WebSocket connection in a
// thread-safe manner.
func (w *Worker) threadSafeWrite(messageType int, data []byte) error {
	w.writeMu.Lock()
	defer w.writeMu.Unlock()

	w.mu.RLock()
	conn := w.conn
	w.mu.RUnlock()

	if conn == nil {
		return fmt.Errorf("connection is nil")
	}

	return conn.WriteMessage(messageType, data)
}

// readLoop reads messages until error or cancellation.
func (w *Worker) readLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		w.mu.RLock()
		conn := w.conn
		w.mu.RUnlock()

		if conn == nil {
			return
		}

		conn.SetReadDeadline(time.Now().Add(feedReadTimeout))

		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("Feed WebSocket read error", slog.Any("error", err))
			}
			w.closeConnection()
			return
		}

		w.handleMessage(message)
	}
}

// handleMessage converts one ticker payload into a bar.
func (w *Worker) handleMessage(message []byte) {
	var resp tickerResponse
	if err := json.Unmarshal(message, &resp); err != nil {
		slog.Debug("Feed message parse error", slog.Any("error", err))
		return
	}

	if resp.Type != "ticker" || resp.TradePrice <= 0 {
		return
	}

	ts := resp.TradeTimestamp
	if ts == 0 {
		ts = resp.Timestamp
	}

	bar := domain.Bar{UnixMs: ts, Price: resp.TradePrice}

	if w.barChan != nil {
		select {
		case w.barChan <- bar:
		default:
			slog.Warn("Feed bar channel full, dropping data")
		}
	}
}

// closeConnection safely closes the WebSocket connection.
func (w *Worker) closeConnection() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.conn != nil {
		w.conn.Close()
		w.conn = nil
	}
	w.connected = false
}

// Disconnect closes the WebSocket connection.
func (w *Worker) Disconnect() {
	if w.cancel != nil {
		w.cancel()
	}
	w.closeConnection()
	w.wg.Wait()
	slog.Info("Feed WebSocket disconnected")
}

// IsConnected returns connection status.
func (w *Worker) IsConnected() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.connected
}
