package controllers

import (
	"net/http"
	"time"

	"github.com/granverde/forrajera-backend/api/responses"
	"github.com/granverde/forrajera-backend/api/validators"
	"github.com/granverde/forrajera-backend/internal/catalog"
	"github.com/granverde/forrajera-backend/pkg/db/models"
	"github.com/granverde/forrajera-backend/pkg/logger"
)

type sucursalRequest struct {
	Nombre    string  `json:"nombre" validate:"required"`
	Direccion *string `json:"direccion,omitempty"`
	Telefono  *string `json:"telefono,omitempty"`
	Activa    *bool   `json:"activa,omitempty"`
}

type sucursalResponse struct {
	ID            int64     `json:"id"`
	Nombre        string    `json:"nombre"`
	Direccion     *string   `json:"direccion,omitempty"`
	Telefono      *string   `json:"telefono,omitempty"`
	Activa        bool      `json:"activa"`
	FechaCreacion time.Time `json:"fecha_creacion"`
}

func sucursalView(row models.Branch) sucursalResponse {
	return sucursalResponse{
		ID:            row.ID,
		Nombre:        row.Name,
		Direccion:     row.Address,
		Telefono:      row.Phone,
		Activa:        row.Active,
		FechaCreacion: row.CreatedAt,
	}
}

// SucursalCRUD builds the branch handlers.
func SucursalCRUD(store *catalog.Store[models.Branch], logg *logger.Logger) NamedHandlers {
	apply := func(row *models.Branch, payload sucursalRequest) {
		row.Name = payload.Nombre
		row.Address = payload.Direccion
		row.Phone = payload.Telefono
		if payload.Activa != nil {
			row.Active = *payload.Activa
		}
	}
	return NamedHandlers{
		Create: func(w http.ResponseWriter, r *http.Request) {
			var payload sucursalRequest
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			row := models.Branch{Active: true}
			apply(&row, payload)
			if err := store.Create(r.Context(), &row); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccessStatus(w, http.StatusCreated, sucursalView(row))
		},
		List: func(w http.ResponseWriter, r *http.Request) {
			rows, err := store.List(r.Context())
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			views := make([]sucursalResponse, 0, len(rows))
			for _, row := range rows {
				views = append(views, sucursalView(row))
			}
			responses.WriteSuccess(w, views)
		},
		Update: func(w http.ResponseWriter, r *http.Request) {
			id, err := validators.ParsePathID(r, "id")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			var payload sucursalRequest
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			row, err := store.FindByID(r.Context(), id)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			apply(row, payload)
			if err := store.Update(r.Context(), row); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, sucursalView(*row))
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

type clienteRequest struct {
	Nombre   string  `json:"nombre" validate:"required"`
	Telefono *string `json:"telefono,omitempty"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Activo   *bool   `json:"activo,omitempty"`
}

type clienteResponse struct {
	ID            int64     `json:"id"`
	Nombre        string    `json:"nombre"`
	Telefono      *string   `json:"telefono,omitempty"`
	Email         *string   `json:"email,omitempty"`
	Activo        bool      `json:"activo"`
	FechaCreacion time.Time `json:"fecha_creacion"`
}

func clienteView(row models.Client) clienteResponse {
	return clienteResponse{
		ID:            row.ID,
		Nombre:        row.Name,
		Telefono:      row.Phone,
		Email:         row.Email,
		Activo:        row.Active,
		FechaCreacion: row.CreatedAt,
	}
}

// ClienteCRUD builds the client handlers.
func ClienteCRUD(store *catalog.Store[models.Client], logg *logger.Logger) NamedHandlers {
	apply := func(row *models.Client, payload clienteRequest) {
		row.Name = payload.Nombre
		row.Phone = payload.Telefono
		row.Email = payload.Email
		if payload.Activo != nil {
			row.Active = *payload.Activo
		}
	}
	return NamedHandlers{
		Create: func(w http.ResponseWriter, r *http.Request) {
			var payload clienteRequest
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			row := models.Client{Active: true}
			apply(&row, payload)
			if err := store.Create(r.Context(), &row); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccessStatus(w, http.StatusCreated, clienteView(row))
		},
		List: func(w http.ResponseWriter, r *http.Request) {
			rows, err := store.List(r.Context())
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			views := make([]clienteResponse, 0, len(rows))
			for _, row := range rows {
				views = append(views, clienteView(row))
			}
			responses.WriteSuccess(w, views)
		},
		Update: func(w http.ResponseWriter, r *http.Request) {
			id, err := validators.ParsePathID(r, "id")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			var payload clienteRequest
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			row, err := store.FindByID(r.Context(), id)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			apply(row, payload)
			if err := store.Update(r.Context(), row); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, clienteView(*row))
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
			responses.WriteSuccess(w, map[string]any{"id": id, "eliminado": true})
		},
	}
}

type usuarioRequest struct {
	Nombre     string  `json:"nombre" validate:"required"`
	Rol        *string `json:"rol,omitempty"`
	SucursalID *int64  `json:"sucursal_id,omitempty"`
	Activo     *bool   `json:"activo,omitempty"`
}

type usuarioResponse struct {
	ID            int64     `json:"id"`
	Nombre        string    `json:"nombre"`
	Rol           *string   `json:"rol,omitempty"`
	SucursalID    *int64    `json:"sucursal_id,omitempty"`
	Activo        bool      `json:"activo"`
	FechaCreacion time.Time `json:"fecha_creacion"`
}

func usuarioView(row models.User) usuarioResponse {
	return usuarioResponse{
		ID:            row.ID,
		Nombre:        row.Name,
		Rol:           row.Role,
		SucursalID:    row.BranchID,
		Activo:        row.Active,
		FechaCreacion: row.CreatedAt,
	}
}

// UsuarioCRUD builds the user handlers.
func UsuarioCRUD(store *catalog.Store[models.User], logg *logger.Logger) NamedHandlers {
	apply := func(row *models.User, payload usuarioRequest) {
		row.Name = payload.Nombre
		row.Role = payload.Rol
		row.BranchID = payload.SucursalID
		if payload.Activo != nil {
			row.Active = *payload.Activo
		}
	}
	return NamedHandlers{
		Create: func(w http.ResponseWriter, r *http.Request) {
			var payload usuarioRequest
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			row := models.User{Active: true}
			apply(&row, payload)
			if err := store.Create(r.Context(), &row); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccessStatus(w, http.StatusCreated, usuarioView(row))
		},
		List: func(w http.ResponseWriter, r *http.Request) {
			rows, err := store.List(r.Context())
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			views := make([]usuarioResponse, 0, len(rows))
			for _, row := range rows {
				views = append(views, usuarioView(row))
			}
			responses.WriteSuccess(w, views)
		},
		Update: func(w http.ResponseWriter, r *http.Request) {
			id, err := validators.ParsePathID(r, "id")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			var payload usuarioRequest
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			row, err := store.FindByID(r.Context(), id)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			apply(row, payload)
			if err := store.Update(r.Context(), row); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, usuarioView(*row))
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
			responses.WriteSuccess(w, map[string]any{"id": id, "eliminado": true})
		},
	}
}
