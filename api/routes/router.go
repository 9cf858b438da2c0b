package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/granverde/forrajera-backend/api/controllers"
	"github.com/granverde/forrajera-backend/api/middleware"
	"github.com/granverde/forrajera-backend/internal/catalog"
	"github.com/granverde/forrajera-backend/internal/discounts"
	"github.com/granverde/forrajera-backend/internal/inventory"
	"github.com/granverde/forrajera-backend/internal/sales"
	"github.com/granverde/forrajera-backend/internal/shifts"
	"github.com/granverde/forrajera-backend/pkg/config"
	"github.com/granverde/forrajera-backend/pkg/db"
	"github.com/granverde/forrajera-backend/pkg/db/models"
	"github.com/granverde/forrajera-backend/pkg/logger"
	"github.com/granverde/forrajera-backend/pkg/metrics"
	pkgredis "github.com/granverde/forrajera-backend/pkg/redis"
)

// Stores bundles the catalog persistence handles the router mounts CRUD for.
type Stores struct {
	Brands        *catalog.Store[models.Brand]
	Categories    *catalog.Store[models.Category]
	Subcategories *catalog.Store[models.Subcategory]
	Species       *catalog.Store[models.Species]
	Stages        *catalog.Store[models.Stage]
	Lines         *catalog.Store[models.ProductLine]
	Branches      *catalog.Store[models.Branch]
	Clients       *catalog.Store[models.Client]
	Users         *catalog.Store[models.User]
}

// NewStores wires every catalog store on one connection.
func NewStores(client *db.Client) Stores {
	conn := client.DB()
	return Stores{
		Brands:        catalog.NewStore[models.Brand](conn),
		Categories:    catalog.NewStore[models.Category](conn),
		Subcategories: catalog.NewStore[models.Subcategory](conn),
		Species:       catalog.NewStore[models.Species](conn),
		Stages:        catalog.NewStore[models.Stage](conn),
		Lines:         catalog.NewStore[models.ProductLine](conn),
		Branches:      catalog.NewStore[models.Branch](conn),
		Clients:       catalog.NewStore[models.Client](conn),
		Users:         catalog.NewStore[models.User](conn),
	}
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP pkgredis.Pinger,
	idempotencyStore pkgredis.IdempotencyStore,
	promRegistry *prometheus.Registry,
	shiftService shifts.Service,
	salesService sales.Service,
	inventoryService inventory.Service,
	discountService discounts.Service,
	productService catalog.Products,
	stores Stores,
) http.Handler {
	r := chi.NewRouter()

	var httpMetrics *metrics.HTTPMetrics
	if promRegistry != nil {
		httpMetrics = metrics.NewHTTPMetrics(promRegistry)
	}

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		httpMetrics.Middleware,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if promRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Idempotency(idempotencyStore, logg, cfg.Idempotency.TTL))

		r.Route("/corte", func(r chi.Router) {
			r.Post("/abrir", controllers.CorteAbrir(shiftService, logg))
			r.Get("/actual/{usuarioId}", controllers.CorteActual(shiftService, logg))
			r.Post("/cerrar", controllers.CorteCerrar(shiftService, logg))
		})

		r.Post("/ventas", controllers.VentaCreate(salesService, logg))
		r.Get("/ventas/{id}", controllers.VentaGet(salesService, logg))
		r.Delete("/ventas/{id}", controllers.VentaCancel(salesService, logg))

		r.Post("/ingreso-inventario", controllers.IngresoCreate(inventoryService, logg))
		r.Get("/inventario", controllers.InventarioList(inventoryService, logg))
		r.Get("/ingresos-inventario", controllers.IngresosList(inventoryService, logg))

		r.Route("/auditoria", func(r chi.Router) {
			r.Post("/ajuste", controllers.AjusteCreate(inventoryService, logg))
			r.Get("/historial", controllers.HistorialList(inventoryService, logg))
		})

		r.Route("/descuentos", func(r chi.Router) {
			r.Post("/", controllers.DescuentoCreate(discountService, logg))
			r.Get("/", controllers.DescuentoList(discountService, logg))
			r.Put("/{id}", controllers.DescuentoUpdate(discountService, logg))
			r.Delete("/{id}", controllers.DescuentoDelete(discountService, logg))
		})

		r.Route("/productos", func(r chi.Router) {
			r.Post("/", controllers.ProductoCreate(productService, logg))
			r.Get("/", controllers.ProductoList(productService, logg))
			r.Get("/{id}", controllers.ProductoGet(productService, logg))
			r.Put("/{id}", controllers.ProductoUpdate(productService, logg))
			r.Delete("/{id}", controllers.ProductoDelete(productService, logg))
		})

		mountNamed(r, "/marcas", controllers.NamedCRUD(stores.Brands, logg,
			func(id int64, name string) models.Brand { return models.Brand{ID: id, Name: name} },
			func(row models.Brand) controllers.NamedView { return controllers.NamedView{ID: row.ID, Nombre: row.Name} },
		))
		mountNamed(r, "/categorias", controllers.NamedCRUD(stores.Categories, logg,
			func(id int64, name string) models.Category { return models.Category{ID: id, Name: name} },
			func(row models.Category) controllers.NamedView { return controllers.NamedView{ID: row.ID, Nombre: row.Name} },
		))
		mountNamed(r, "/especies", controllers.NamedCRUD(stores.Species, logg,
			func(id int64, name string) models.Species { return models.Species{ID: id, Name: name} },
			func(row models.Species) controllers.NamedView { return controllers.NamedView{ID: row.ID, Nombre: row.Name} },
		))
		mountNamed(r, "/etapas", controllers.NamedCRUD(stores.Stages, logg,
			func(id int64, name string) models.Stage { return models.Stage{ID: id, Name: name} },
			func(row models.Stage) controllers.NamedView { return controllers.NamedView{ID: row.ID, Nombre: row.Name} },
		))
		mountNamed(r, "/lineas", controllers.NamedCRUD(stores.Lines, logg,
			func(id int64, name string) models.ProductLine { return models.ProductLine{ID: id, Name: name} },
			func(row models.ProductLine) controllers.NamedView {
				return controllers.NamedView{ID: row.ID, Nombre: row.Name}
			},
		))
		mountNamed(r, "/subcategorias", controllers.SubcategoriaCRUD(stores.Subcategories, logg))
		mountNamed(r, "/sucursales", controllers.SucursalCRUD(stores.Branches, logg))
		mountNamed(r, "/clientes", controllers.ClienteCRUD(stores.Clients, logg))
		mountNamed(r, "/usuarios", controllers.UsuarioCRUD(stores.Users, logg))
	})

	return r
}

func mountNamed(r chi.Router, path string, handlers controllers.NamedHandlers) {
	r.Route(path, func(r chi.Router) {
		r.Post("/", handlers.Create)
		r.Get("/", handlers.List)
		r.Put("/{id}", handlers.Update)
		r.Delete("/{id}", handlers.Delete)
	})
}
