package controllers

import (
	"net/http"

	"github.com/granverde/forrajera-backend/api/responses"
	"github.com/granverde/forrajera-backend/api/validators"
	"github.com/granverde/forrajera-backend/internal/catalog"
	"github.com/granverde/forrajera-backend/pkg/db/models"
	"github.com/granverde/forrajera-backend/pkg/logger"
)

// The attribute tables share one shape: an id plus a unique name. One generic
// handler set covers marca, categoria, especie, etapa and linea; entities with
// extra fields (subcategoria, sucursal, cliente, usuario) get their own
// handlers below.

type nombreRequest struct {
	Nombre string `json:"nombre" validate:"required"`
}

// NamedView is the response shape for id+name attribute rows.
type NamedView struct {
	ID     int64  `json:"id"`
	Nombre string `json:"nombre"`
}

// NamedHandlers bundles the CRUD endpoints for one attribute entity.
type NamedHandlers struct {
	Create http.HandlerFunc
	List   http.HandlerFunc
	Update http.HandlerFunc
	Delete http.HandlerFunc
}

// NamedCRUD builds handlers over a catalog store. build constructs a row from
// an id (zero on create) and a name; view projects a row to the response.
func NamedCRUD[T any](
	store *catalog.Store[T],
	logg *logger.Logger,
	build func(id int64, name string) T,
	view func(T) NamedView,
) NamedHandlers {
	return NamedHandlers{
		Create: func(w http.ResponseWriter, r *http.Request) {
			var payload nombreRequest
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			row := build(0, payload.Nombre)
			if err := store.Create(r.Context(), &row); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccessStatus(w, http.StatusCreated, view(row))
		},
		List: func(w http.ResponseWriter, r *http.Request) {
			rows, err := store.List(r.Context())
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			views := make([]NamedView, 0, len(rows))
			for _, row := range rows {
				views = append(views, view(row))
			}
			responses.WriteSuccess(w, views)
		},
		Update: func(w http.ResponseWriter, r *http.Request) {
			id, err := validators.ParsePathID(r, "id")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			var payload nombreRequest
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			if _, err := store.FindByID(r.Context(), id); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			row := build(id, payload.Nombre)
			if err := store.Update(r.Context(), &row); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, view(row))
		},
		Delete: func(w http.ResponseWriter, r *http.Request) {
			id, err := validators.ParsePathID(r, "id")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			if err := store.Delete(r.Context(), id); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, map[string]any{"id": id, "eliminada": true})
		},
	}
}

type subcategoriaRequest struct {
	Nombre      string `json:"nombre" validate:"required"`
	CategoriaID int64  `json:"categoria_id" validate:"required,gt=0"`
}

type subcategoriaResponse struct {
	ID          int64  `json:"id"`
	Nombre      string `json:"nombre"`
	CategoriaID int64  `json:"categoria_id"`
}

// SubcategoriaCRUD builds the subcategory handlers; the composite unique index
// on (nombre, categoria_id) surfaces duplicates as conflicts.
func SubcategoriaCRUD(store *catalog.Store[models.Subcategory], logg *logger.Logger) NamedHandlers {
	view := func(row models.Subcategory) subcategoriaResponse {
		return subcategoriaResponse{ID: row.ID, Nombre: row.Name, CategoriaID: row.CategoryID}
	}
	return NamedHandlers{
		Create: func(w http.ResponseWriter, r *http.Request) {
			var payload subcategoriaRequest
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			row := models.Subcategory{Name: payload.Nombre, CategoryID: payload.CategoriaID}
			if err := store.Create(r.Context(), &row); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccessStatus(w, http.StatusCreated, view(row))
		},
		List: func(w http.ResponseWriter, r *http.Request) {
			rows, err := store.List(r.Context())
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			views := make([]subcategoriaResponse, 0, len(rows))
			for _, row := range rows {
				views = append(views, view(row))
			}
			responses.WriteSuccess(w, views)
		},
		Update: func(w http.ResponseWriter, r *http.Request) {
			id, err := validators.ParsePathID(r, "id")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			var payload subcategoriaRequest
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			if _, err := store.FindByID(r.Context(), id); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			row := models.Subcategory{ID: id, Name: payload.Nombre, CategoryID: payload.CategoriaID}
			if err := store.Update(r.Context(), &row); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, view(row))
		},
		Delete: func(w http.ResponseWriter, r *http.Request) {
			id, err := validators.ParsePathID(r, "id")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			if err := store.Delete(r.Context(), id); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, map[string]any{"id": id, "eliminada": true})
		},
	}
}
