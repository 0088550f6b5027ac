package server

import (
	"net/http"

	"github.com/jrsteele09/storefront-server/customers"
	"github.com/jrsteele09/storefront-server/internal/paging"
	"github.com/jrsteele09/storefront-server/internal/utils"
)

func (s *Server) ListCustomersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filter := customers.Filter{
			Search:   utils.QueryString(q, "search"),
			IsActive: utils.QueryBool(q, "isActive"),
		}
		page, err := s.services.Customers.List(r.Context(), filter, paging.FromQuery(q))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writePage(w, page)
	}
}

func (s *Server) CustomerStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := s.services.Customers.Stats(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeData(w, http.StatusOK, stats)
	}
}

func (s *Server) GetCustomerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customer, err := s.services.Customers.Get(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeData(w, http.StatusOK, customer)
	}
}

func (s *Server) UpdateCustomerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var update customers.Update
		if err := decodeJSON(w, r, &update); err != nil {
			writeError(w, r, err)
			return
		}
		customer, err := s.services.Customers.Update(r.Context(), r.PathValue("id"), update)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeData(w, http.StatusOK, customer)
	}
}

// DeactivateCustomerHandler is a soft delete, restricted to super admins.
func (s *Server) DeactivateCustomerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.services.Customers.Deactivate(r.Context(), r.PathValue("id")); err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, response{Success: true, Message: "Customer deactivated successfully"})
	}
}

func (s *Server) CustomerOrdersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := s.services.Orders.ListForCustomer(r.Context(), r.PathValue("id"), paging.FromQuery(r.URL.Query()))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writePage(w, page)
	}
}

func (s *Server) CustomerSubscriptionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subscriptions, err := s.services.Customers.Subscriptions(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeData(w, http.StatusOK, nonNilSlice(subscriptions))
	}
}
