// Package mockapi is an in-memory development stand-in for the storefront
// API. It serves the same envelope contract as the hosted backend so the
// client can be run and tested locally.
package mockapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/kart-storefront/internal/wire"
)

// maxRequestBody bounds decoded request bodies.
const maxRequestBody = 1 << 20

// Server exposes a State over HTTP.
type Server struct {
	state *State
}

// NewServer creates a Server backed by state.
func NewServer(state *State) *Server {
	return &Server{state: state}
}

// Handler returns the API routes mounted under /api.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeRejection(w, &Rejection{Status: http.StatusNotFound, Reason: "Not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeRejection(w, &Rejection{Status: http.StatusMethodNotAllowed, Reason: "Method not allowed"})
	})
	r.Route("/api", func(r chi.Router) {
		r.Get("/products", s.listProducts)

		r.Post("/cart/add", s.addToCart)
		r.Get("/cart/{userId}", s.getCart)
		r.Put("/cart/{userId}/item", s.updateItem)
		r.Post("/cart/{userId}/apply-discount", s.applyDiscount)
		r.Delete("/cart/{userId}/discount", s.removeDiscount)

		r.Post("/checkout", s.checkout)
		r.Get("/orders/{userId}", s.listOrders)

		r.Route("/admin", func(r chi.Router) {
			r.Get("/stats", s.adminStats)
			r.Get("/orders", s.adminOrders)
			r.Post("/generate-discount", s.generateDiscount)
			r.Put("/nth-order", s.setNthOrder)
		})
	})
	return r
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	writeOK(w, r, wire.Field{Name: "products", Value: toWireProducts(s.state.Products())})
}

func (s *Server) getCart(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	writeOK(w, r, wire.Field{Name: "cart", Value: toWireCart(userID, s.state.Cart(userID))})
}

func (s *Server) addToCart(w http.ResponseWriter, r *http.Request) {
	var req wire.AddToCartReq
	if !decodeBody(w, r, &req) {
		return
	}
	c, err := s.state.AddItem(req.UserID, req.ProductID.String(), req.Quantity)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, wire.Field{Name: "cart", Value: toWireCart(req.UserID, c)})
}

func (s *Server) updateItem(w http.ResponseWriter, r *http.Request) {
	var req wire.UpdateItemReq
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.state.UpdateItem(chi.URLParam(r, "userId"), req.ProductID.String(), req.Quantity); err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r)
}

func (s *Server) applyDiscount(w http.ResponseWriter, r *http.Request) {
	var req wire.ApplyDiscountReq
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.state.ApplyDiscount(chi.URLParam(r, "userId"), req.Code); err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r)
}

func (s *Server) removeDiscount(w http.ResponseWriter, r *http.Request) {
	s.state.RemoveDiscount(chi.URLParam(r, "userId"))
	writeOK(w, r)
}

func (s *Server) checkout(w http.ResponseWriter, r *http.Request) {
	var req wire.CheckoutReq
	if !decodeBody(w, r, &req) {
		return
	}
	o, err := s.state.Checkout(req.UserID, req.ShippingAddress, req.PaymentMethod)
	if err != nil {
		writeError(w, r, err)
		return
	}
	zctx.From(r.Context()).Info("Order placed",
		zap.String("order_id", o.ID),
		zap.Int("order_number", o.Number),
		zap.String("user_id", o.UserID),
		zap.Bool("code_generated", o.GeneratedCode != ""),
	)
	writeOK(w, r, wire.Field{Name: "order", Value: toWireOrder(o)})
}

func (s *Server) listOrders(w http.ResponseWriter, r *http.Request) {
	writeOK(w, r, wire.Field{Name: "orders", Value: toWireOrders(s.state.Orders(chi.URLParam(r, "userId")))})
}

func (s *Server) adminStats(w http.ResponseWriter, r *http.Request) {
	writeOK(w, r, wire.Field{Name: "stats", Value: toWireStats(s.state.Stats())})
}

func (s *Server) adminOrders(w http.ResponseWriter, r *http.Request) {
	writeOK(w, r, wire.Field{Name: "orders", Value: toWireOrders(s.state.AllOrders())})
}

func (s *Server) generateDiscount(w http.ResponseWriter, r *http.Request) {
	writeOK(w, r, wire.Field{Name: "code", Value: s.state.GenerateDiscount()})
}

func (s *Server) setNthOrder(w http.ResponseWriter, r *http.Request) {
	var req wire.NthOrderReq
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.state.SetNthOrder(req.N); err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, wire.Field{Name: "message", Value: fmt.Sprintf("Nth order setting updated to %d", req.N)})
}

// decodeBody decodes a JSON request body into v, answering 400 on failure.
// An empty body decodes as an empty object.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		zctx.From(r.Context()).Debug("Bad request body", zap.Error(err))
		writeRejection(w, ErrBadRequest)
		return false
	}
	return true
}

func writeOK(w http.ResponseWriter, r *http.Request, fields ...wire.Field) {
	body, err := wire.EncodeEnvelope(fields...)
	if err != nil {
		zctx.From(r.Context()).Error("Encode response", zap.Error(err))
		writeRejection(w, &Rejection{Status: http.StatusInternalServerError, Reason: "internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, body)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var rej *Rejection
	if errors.As(err, &rej) {
		writeRejection(w, rej)
		return
	}
	zctx.From(r.Context()).Error("Request failed", zap.Error(err))
	writeRejection(w, &Rejection{Status: http.StatusInternalServerError, Reason: "internal server error"})
}

func writeRejection(w http.ResponseWriter, rej *Rejection) {
	writeJSON(w, rej.Status, wire.EncodeFailure(rej.Reason))
}

func writeJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
