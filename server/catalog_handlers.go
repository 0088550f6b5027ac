package server

import (
	"net/http"

	"github.com/jrsteele09/storefront-server/catalog"
	"github.com/jrsteele09/storefront-server/internal/paging"
	"github.com/jrsteele09/storefront-server/internal/utils"
)

func (s *Server) ListProductsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filter := catalog.ProductFilter{
			Category:   utils.QueryString(q, "category"),
			IsActive:   utils.QueryBool(q, "isActive"),
			IsFeatured: utils.QueryBool(q, "isFeatured"),
		}
		page, err := s.services.Catalog.ListProducts(r.Context(), filter, paging.FromQuery(q))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writePage(w, page)
	}
}

func (s *Server) GetProductHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		product, err := s.services.Catalog.GetProduct(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeData(w, http.StatusOK, product)
	}
}

func (s *Server) CreateProductHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in catalog.ProductInput
		if err := decodeJSON(w, r, &in); err != nil {
			writeError(w, r, err)
			return
		}
		product, err := s.services.Catalog.CreateProduct(r.Context(), in)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeData(w, http.StatusCreated, product)
	}
}

func (s *Server) UpdateProductHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var update catalog.ProductUpdate
		if err := decodeJSON(w, r, &update); err != nil {
			writeError(w, r, err)
			return
		}
		product, err := s.services.Catalog.UpdateProduct(r.Context(), r.PathValue("id"), update)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeData(w, http.StatusOK, product)
	}
}

// DeleteProductHandler deactivates the product; the row is kept.
func (s *Server) DeleteProductHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.services.Catalog.DeleteProduct(r.Context(), r.PathValue("id")); err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, response{Success: true, Message: "Product deleted successfully"})
	}
}

func (s *Server) ListPlansHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filter := catalog.PlanFilter{IsActive: utils.QueryBool(q, "isActive")}
		page, err := s.services.Catalog.ListPlans(r.Context(), filter, paging.FromQuery(q))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writePage(w, page)
	}
}

func (s *Server) GetPlanHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		plan, err := s.services.Catalog.GetPlan(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeData(w, http.StatusOK, plan)
	}
}

func (s *Server) CreatePlanHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in catalog.PlanInput
		if err := decodeJSON(w, r, &in); err != nil {
			writeError(w, r, err)
			return
		}
		plan, err := s.services.Catalog.CreatePlan(r.Context(), in)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeData(w, http.StatusCreated, plan)
	}
}

func (s *Server) UpdatePlanHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var update catalog.PlanUpdate
		if err := decodeJSON(w, r, &update); err != nil {
			writeError(w, r, err)
			return
		}
		plan, err := s.services.Catalog.UpdatePlan(r.Context(), r.PathValue("id"), update)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeData(w, http.StatusOK, plan)
	}
}

func (s *Server) DeletePlanHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.services.Catalog.DeletePlan(r.Context(), r.PathValue("id")); err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, response{Success: true, Message: "Subscription plan deleted successfully"})
	}
}

// PublicProductsHandler lists the active products for the storefront.
func (s *Server) PublicProductsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := s.services.Catalog.PublicProducts(r.Context(), utils.QueryString(r.URL.Query(), "category"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeData(w, http.StatusOK, nonNilSlice(products))
	}
}

func (s *Server) PublicPlansHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		plans, err := s.services.Catalog.PublicPlans(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeData(w, http.StatusOK, nonNilSlice(plans))
	}
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
