// Package server exposes a running continuous engine over HTTP: order
// submission, book inspection, Prometheus metrics, and a WebSocket stream
// of trades and quotes.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"

	"github.com/R23Yadam/Batch-Auction-Simulator/engine"
	"github.com/R23Yadam/Batch-Auction-Simulator/logging"
	"github.com/R23Yadam/Batch-Auction-Simulator/models"
)

// QuoteCache supplies the most recently published quote. The /quote endpoint
// falls back to it when the live book is empty on both sides.
type QuoteCache interface {
	LastQuote(ctx context.Context) (models.Quote, bool, error)
}

// Server wires the continuous engine to its HTTP surface.
type Server struct {
	router *mux.Router
	engine *engine.Engine
	hub    *Hub
	quotes QuoteCache
}

// New builds the server around an engine. Trades and quotes produced by the
// engine are broadcast to WebSocket subscribers. quotes may be nil.
func New(eng *engine.Engine, quotes QuoteCache) *Server {
	hub := NewHub()
	go hub.Run()

	eng.SetTradeHandler(hub.BroadcastTrade)
	eng.SetQuoteHandler(hub.BroadcastQuote)

	s := &Server{router: mux.NewRouter(), engine: eng, hub: hub, quotes: quotes}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.HandleFunc("/orders", s.handleSubmitOrder).Methods(http.MethodPost)
	s.router.HandleFunc("/orders/{id:[0-9]+}", s.handleCancelOrder).Methods(http.MethodDelete)
	s.router.HandleFunc("/book", s.handleBook).Methods(http.MethodGet)
	s.router.HandleFunc("/quote", s.handleQuote).Methods(http.MethodGet)
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/ws", s.hub.ServeWS)
	s.router.Handle("/metrics", promhttp.Handler())
}

// ListenAndServe blocks serving HTTP on addr.
func (s *Server) ListenAndServe(addr string) error {
	logging.LogServerStarted(addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

type submitOrderRequest struct {
	OrderID   int64  `json:"order_id"`
	Timestamp int64  `json:"timestamp"`
	Type      string `json:"type"`
	Side      string `json:"side"`
	Price     string `json:"price"`
	Qty       int64  `json:"qty"`
	CancelID  int64  `json:"cancel_id"`
}

type submitOrderResponse struct {
	Trades []*models.Trade `json:"trades"`
	Quote  models.Quote    `json:"quote"`
}

func (s *Server) handleSubmitOrder(w http.ResponseWriter, r *http.Request) {
	var req submitOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("malformed JSON body"))
		return
	}

	order := &models.Order{
		Timestamp: req.Timestamp,
		ID:        req.OrderID,
		Type:      models.OrderType(req.Type),
		Side:      models.Side(req.Side),
		Qty:       req.Qty,
		CancelID:  req.CancelID,
	}
	if req.Timestamp == 0 {
		order.Timestamp = time.Now().UnixNano()
	}
	if req.Price != "" {
		price, err := decimal.NewFromString(req.Price)
		if err != nil {
			writeError(w, http.StatusBadRequest, errors.New("malformed price"))
			return
		}
		order.Price = price
	}

	trades, quote, err := s.engine.Process(order)
	if err != nil {
		logging.LogOrderRejected(order.ID, err.Error())
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	writeJSON(w, http.StatusOK, submitOrderResponse{Trades: trades, Quote: quote})
}

type bookLevel struct {
	Price  string `json:"price"`
	Volume int64  `json:"volume"`
	Orders int    `json:"orders"`
}

type bookResponse struct {
	Bids []bookLevel `json:"bids"`
	Asks []bookLevel `json:"asks"`
}

func (s *Server) handleBook(w http.ResponseWriter, r *http.Request) {
	bids, asks := s.engine.TopLevels(10)
	resp := bookResponse{Bids: make([]bookLevel, 0, len(bids)), Asks: make([]bookLevel, 0, len(asks))}
	for _, level := range bids {
		resp.Bids = append(resp.Bids, bookLevel{Price: level.Price.String(), Volume: level.Volume, Orders: level.Orders.Len()})
	}
	for _, level := range asks {
		resp.Asks = append(resp.Asks, bookLevel{Price: level.Price.String(), Volume: level.Volume, Orders: level.Orders.Len()})
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleCancelOrder removes a resting order by id. Unknown ids report 404;
// the book is unchanged either way.
func (s *Server) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("malformed order id"))
		return
	}
	if !s.engine.Cancel(id) {
		writeError(w, http.StatusNotFound, errors.New("order not resting"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"cancelled": true})
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	quote := s.engine.Snapshot()
	if quote.BestBid == nil && quote.BestAsk == nil && s.quotes != nil {
		if cached, ok, err := s.quotes.LastQuote(r.Context()); err == nil && ok {
			quote = cached
		}
	}
	writeJSON(w, http.StatusOK, quote)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
