package server

import (
	"net/http"
	"time"

	"github.com/jrsteele09/storefront-server/internal/paging"
	"github.com/jrsteele09/storefront-server/internal/utils"
	"github.com/jrsteele09/storefront-server/orders"
)

type orderCreated struct {
	OrderNumber string        `json:"orderNumber"`
	Total       float64       `json:"total"`
	Status      orders.Status `json:"status"`
}

// publicOrder is what a shopper sees when looking an order up by number.
type publicOrder struct {
	OrderNumber string             `json:"orderNumber"`
	Status      orders.Status      `json:"status"`
	Total       float64            `json:"total"`
	Items       []*orders.Item     `json:"items"`
	Tracking    []*orders.Tracking `json:"tracking"`
	CreatedAt   time.Time          `json:"createdAt"`
}

func (s *Server) CreateOrderHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req orders.CreateRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		order, err := s.services.Orders.Create(r.Context(), req)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeData(w, http.StatusCreated, orderCreated{
			OrderNumber: order.OrderNumber,
			Total:       order.Total,
			Status:      order.Status,
		})
	}
}

func (s *Server) PublicOrderHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		order, err := s.services.Orders.GetByNumber(r.Context(), r.PathValue("orderNumber"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeData(w, http.StatusOK, publicOrder{
			OrderNumber: order.OrderNumber,
			Status:      order.Status,
			Total:       order.Total,
			Items:       nonNilSlice(order.Items),
			Tracking:    nonNilSlice(order.Tracking),
			CreatedAt:   order.CreatedAt,
		})
	}
}

func (s *Server) ListOrdersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filter := orders.Filter{CustomerID: utils.QueryString(q, "customerId")}
		if status := utils.QueryString(q, "status"); status != nil {
			filter.Status = utils.Ptr(orders.Status(*status))
		}
		if orderType := utils.QueryString(q, "orderType"); orderType != nil {
			filter.OrderType = utils.Ptr(orders.Type(*orderType))
		}

		page, err := s.services.Orders.List(r.Context(), filter, paging.FromQuery(q))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writePage(w, page)
	}
}

func (s *Server) OrderStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := s.services.Orders.Stats(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeData(w, http.StatusOK, stats)
	}
}

func (s *Server) GetOrderHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		order, err := s.services.Orders.Get(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeData(w, http.StatusOK, order)
	}
}

func (s *Server) UpdateOrderStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var update orders.StatusUpdate
		if err := s.decodeAndValidate(w, r, &update); err != nil {
			writeError(w, r, err)
			return
		}
		order, err := s.services.Orders.UpdateStatus(r.Context(), r.PathValue("id"), update)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeData(w, http.StatusOK, order)
	}
}

func (s *Server) OrderTrackingHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tracking, err := s.services.Orders.Tracking(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeData(w, http.StatusOK, nonNilSlice(tracking))
	}
}

func (s *Server) AddOrderTrackingHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in orders.TrackingInput
		if err := decodeJSON(w, r, &in); err != nil {
			writeError(w, r, err)
			return
		}
		tracking, err := s.services.Orders.AddTracking(r.Context(), r.PathValue("id"), in)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeData(w, http.StatusCreated, tracking)
	}
}
