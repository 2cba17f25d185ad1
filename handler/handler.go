package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"vending-machine/money"
	"vending-machine/service"
)

// Handler serves a read-only view of the machine over HTTP.
type Handler struct {
	svc service.ServiceInterface
}

// NewHandler returns a Handler instance
func NewHandler(s service.ServiceInterface) *Handler {
	return &Handler{svc: s}
}

// RegisterRoutes registers all routes on the provided router
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/products", h.ListProducts).Methods("GET")
	r.HandleFunc("/products/{index:[0-9]+}", h.GetProduct).Methods("GET")
	r.HandleFunc("/balance", h.GetBalance).Methods("GET")
	r.HandleFunc("/analytics", h.GetAnalytics).Methods("GET")
}

// --- response shapes ---
type productResp struct {
	Index     int    `json:"index"`
	Name      string `json:"name"`
	Quantity  int64  `json:"quantity"`
	Price     int64  `json:"price"`
	UnitsSold int64  `json:"units_sold"`
	Income    int64  `json:"income"`
	InStock   bool   `json:"in_stock"`
	Display   string `json:"display"`
}

type balanceResp struct {
	Balance   int64  `json:"balance"`
	Formatted string `json:"formatted"`
}

// --- helpers ---
func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// --- Handler ---

// ListProducts handles GET /products
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ps := h.svc.Products()
	out := make([]productResp, 0, len(ps))
	for i, p := range ps {
		out = append(out, productResp{
			Index:     i,
			Name:      p.Name,
			Quantity:  p.Quantity,
			Price:     p.Price,
			UnitsSold: p.UnitsSold,
			Income:    p.Income,
			InStock:   p.InStock(),
			Display:   p.Describe(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// GetProduct handles GET /products/{index}
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	idx, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid index")
		return
	}
	p, err := h.svc.Product(idx)
	if errors.Is(err, service.ErrInvalidSelection) {
		writeErr(w, http.StatusNotFound, "product not found")
		return
	}
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, productResp{
		Index:     idx,
		Name:      p.Name,
		Quantity:  p.Quantity,
		Price:     p.Price,
		UnitsSold: p.UnitsSold,
		Income:    p.Income,
		InStock:   p.InStock(),
		Display:   p.Describe(),
	})
}

// GetBalance handles GET /balance
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	b := h.svc.Balance()
	writeJSON(w, http.StatusOK, balanceResp{Balance: b, Formatted: money.Format(b)})
}

// GetAnalytics handles GET /analytics
func (h *Handler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Report())
}
