package routes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/granverde/forrajera-backend/internal/catalog"
	"github.com/granverde/forrajera-backend/internal/discounts"
	"github.com/granverde/forrajera-backend/internal/inventory"
	"github.com/granverde/forrajera-backend/internal/sales"
	"github.com/granverde/forrajera-backend/internal/shifts"
	"github.com/granverde/forrajera-backend/pkg/config"
	"github.com/granverde/forrajera-backend/pkg/db/models"
	"github.com/granverde/forrajera-backend/pkg/logger"
	"github.com/granverde/forrajera-backend/pkg/pagination"
	pkgredis "github.com/granverde/forrajera-backend/pkg/redis"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubShiftService struct {
	openFn    func(ctx context.Context, input shifts.OpenInput) (*models.Shift, error)
	currentFn func(ctx context.Context, userID int64) (*shifts.Status, error)
	closeFn   func(ctx context.Context, input shifts.CloseInput) (*models.Shift, error)
}

func (s stubShiftService) Open(ctx context.Context, input shifts.OpenInput) (*models.Shift, error) {
	if s.openFn != nil {
		return s.openFn(ctx, input)
	}
	return &models.Shift{}, nil
}

func (s stubShiftService) Current(ctx context.Context, userID int64) (*shifts.Status, error) {
	if s.currentFn != nil {
		return s.currentFn(ctx, userID)
	}
	return &shifts.Status{Shift: &models.Shift{}}, nil
}

func (s stubShiftService) Close(ctx context.Context, input shifts.CloseInput) (*models.Shift, error) {
	if s.closeFn != nil {
		return s.closeFn(ctx, input)
	}
	return &models.Shift{}, nil
}

type stubSalesService struct {
	recordFn func(ctx context.Context, input sales.SaleInput) (*models.Sale, error)
	cancelFn func(ctx context.Context, saleID, userID int64) error
}

func (s stubSalesService) Record(ctx context.Context, input sales.SaleInput) (*models.Sale, error) {
	if s.recordFn != nil {
		return s.recordFn(ctx, input)
	}
	return &models.Sale{}, nil
}

func (s stubSalesService) Cancel(ctx context.Context, saleID, userID int64) error {
	if s.cancelFn != nil {
		return s.cancelFn(ctx, saleID, userID)
	}
	return nil
}

func (s stubSalesService) Get(ctx context.Context, saleID int64) (*models.Sale, error) {
	return &models.Sale{ID: saleID}, nil
}

type stubInventoryService struct {
	stockFn func(ctx context.Context, filters inventory.StockFilters) ([]models.InventoryRecord, error)
}

func (s stubInventoryService) RecordIngress(ctx context.Context, input inventory.IngressInput) (*models.StockEntry, error) {
	return &models.StockEntry{}, nil
}

func (s stubInventoryService) Adjust(ctx context.Context, input inventory.AdjustInput) (*models.InventoryAdjustment, error) {
	return &models.InventoryAdjustment{}, nil
}

func (s stubInventoryService) ListStock(ctx context.Context, filters inventory.StockFilters) ([]models.InventoryRecord, error) {
	if s.stockFn != nil {
		return s.stockFn(ctx, filters)
	}
	return nil, nil
}

func (s stubInventoryService) ListEntries(ctx context.Context, filters inventory.EntryFilters, page pagination.Params) ([]models.StockEntry, string, error) {
	return nil, "", nil
}

func (s stubInventoryService) History(ctx context.Context, filters inventory.MovementFilters, page pagination.Params) ([]models.InventoryMovement, string, error) {
	return nil, "", nil
}

type stubDiscountService struct{}

func (stubDiscountService) Create(ctx context.Context, input discounts.RuleInput) (*models.DiscountRule, error) {
	return &models.DiscountRule{}, nil
}

func (stubDiscountService) Update(ctx context.Context, id int64, input discounts.RuleInput) (*models.DiscountRule, error) {
	return &models.DiscountRule{ID: id}, nil
}

func (stubDiscountService) Delete(ctx context.Context, id int64) error {
	return nil
}

func (stubDiscountService) List(ctx context.Context) ([]models.DiscountRule, error) {
	return nil, nil
}

func (stubDiscountService) Resolve(ctx context.Context, clientID *int64, productID int64, brandID *int64) (*models.DiscountRule, error) {
	return nil, nil
}

type stubProductService struct{}

func (stubProductService) Create(ctx context.Context, input catalog.ProductInput) (*models.Product, error) {
	return &models.Product{}, nil
}

func (stubProductService) Get(ctx context.Context, id int64) (*models.Product, error) {
	return &models.Product{ID: id}, nil
}

func (stubProductService) Update(ctx context.Context, id int64, input catalog.ProductInput) (*models.Product, error) {
	return &models.Product{ID: id}, nil
}

func (stubProductService) Deactivate(ctx context.Context, id int64) error {
	return nil
}

func (stubProductService) List(ctx context.Context, filters catalog.ProductFilters) ([]models.Product, error) {
	return nil, nil
}

func (stubProductService) FindByID(ctx context.Context, id int64) (*models.Product, error) {
	return &models.Product{ID: id}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App:         config.AppConfig{Env: "test", Port: "0"},
		Idempotency: config.IdempotencyConfig{TTL: 24 * time.Hour},
	}
}

type fakeIdempotencyStore struct {
	data map[string]string
}

func newFakeIdempotencyStore() *fakeIdempotencyStore {
	return &fakeIdempotencyStore{data: make(map[string]string)}
}

func (f *fakeIdempotencyStore) Get(_ context.Context, key string) (string, error) {
	if v, ok := f.data[key]; ok {
		return v, nil
	}
	return "", goredis.Nil
}

func (f *fakeIdempotencyStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	str, _ := value.(string)
	f.data[key] = str
	return nil
}

func (f *fakeIdempotencyStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := f.data[key]; ok {
		return false, nil
	}
	str, _ := value.(string)
	f.data[key] = str
	return true, nil
}

func (f *fakeIdempotencyStore) IdempotencyKey(scope, id string) string {
	return fmt.Sprintf("fake:%s:%s", scope, id)
}

func (f *fakeIdempotencyStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

func newTestRouter(cfg *config.Config, store pkgredis.IdempotencyStore, shiftSvc shifts.Service, salesSvc sales.Service, invSvc inventory.Service) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		stubPinger{},
		store,
		nil,
		shiftSvc,
		salesSvc,
		invSvc,
		stubDiscountService{},
		stubProductService{},
		Stores{},
	)
}

func TestHealthLiveReportsEnv(t *testing.T) {
	router := newTestRouter(testConfig(), nil, stubShiftService{}, stubSalesService{}, stubInventoryService{})
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if env := resp.Header().Get("X-Forrajera-Env"); env != "test" {
		t.Fatalf("expected env header test got %q", env)
	}
}

func TestCorteActualRoutesUserID(t *testing.T) {
	var gotUserID int64
	shiftSvc := stubShiftService{
		currentFn: func(ctx context.Context, userID int64) (*shifts.Status, error) {
			gotUserID = userID
			return &shifts.Status{
				Shift:        &models.Shift{ID: 3, UserID: userID, BranchID: 1, OpeningFund: decimal.NewFromInt(500)},
				TotalSales:   decimal.NewFromInt(1200),
				ExpectedCash: decimal.NewFromInt(1700),
			}, nil
		},
	}
	router := newTestRouter(testConfig(), nil, shiftSvc, stubSalesService{}, stubInventoryService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/corte/actual/7", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body %s", resp.Code, resp.Body.String())
	}
	if gotUserID != 7 {
		t.Fatalf("expected user 7 got %d", gotUserID)
	}

	var envelope struct {
		Data struct {
			VentasTotales    string `json:"ventas_totales"`
			EfectivoEsperado string `json:"efectivo_esperado"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.VentasTotales != "1200" {
		t.Fatalf("expected ventas_totales 1200 got %q", envelope.Data.VentasTotales)
	}
	if envelope.Data.EfectivoEsperado != "1700" {
		t.Fatalf("expected efectivo_esperado 1700 got %q", envelope.Data.EfectivoEsperado)
	}
}

func TestVentaCreateRoutesTicket(t *testing.T) {
	var gotInput sales.SaleInput
	salesSvc := stubSalesService{
		recordFn: func(ctx context.Context, input sales.SaleInput) (*models.Sale, error) {
			gotInput = input
			return &models.Sale{ID: 12, UserID: input.UserID, BranchID: input.BranchID}, nil
		},
	}
	router := newTestRouter(testConfig(), nil, stubShiftService{}, salesSvc, stubInventoryService{})

	body := `{"usuario_id":4,"sucursal_id":2,"lineas":[{"producto_id":9,"cantidad":"1.5","es_granel":false}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ventas", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body %s", resp.Code, resp.Body.String())
	}
	if gotInput.UserID != 4 || gotInput.BranchID != 2 {
		t.Fatalf("unexpected sale input %+v", gotInput)
	}
	if len(gotInput.Lines) != 1 || gotInput.Lines[0].ProductID != 9 {
		t.Fatalf("unexpected lines %+v", gotInput.Lines)
	}
}

func TestVentaCancelRequiresUsuarioID(t *testing.T) {
	router := newTestRouter(testConfig(), nil, stubShiftService{}, stubSalesService{}, stubInventoryService{})
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/ventas/5", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without usuario_id got %d", resp.Code)
	}
}

func TestVentaCancelRoutesIDs(t *testing.T) {
	var gotSaleID, gotUserID int64
	salesSvc := stubSalesService{
		cancelFn: func(ctx context.Context, saleID, userID int64) error {
			gotSaleID, gotUserID = saleID, userID
			return nil
		},
	}
	router := newTestRouter(testConfig(), nil, stubShiftService{}, salesSvc, stubInventoryService{})

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/ventas/5?usuario_id=4", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body %s", resp.Code, resp.Body.String())
	}
	if gotSaleID != 5 || gotUserID != 4 {
		t.Fatalf("expected sale 5 user 4 got %d %d", gotSaleID, gotUserID)
	}
}

func TestInventarioListAppliesFilters(t *testing.T) {
	var gotFilters inventory.StockFilters
	invSvc := stubInventoryService{
		stockFn: func(ctx context.Context, filters inventory.StockFilters) ([]models.InventoryRecord, error) {
			gotFilters = filters
			return nil, nil
		},
	}
	router := newTestRouter(testConfig(), nil, stubShiftService{}, stubSalesService{}, invSvc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/inventario?sucursal_id=2&producto_id=9", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body %s", resp.Code, resp.Body.String())
	}
	if gotFilters.BranchID == nil || *gotFilters.BranchID != 2 {
		t.Fatalf("expected branch filter 2 got %+v", gotFilters.BranchID)
	}
	if gotFilters.ProductID == nil || *gotFilters.ProductID != 9 {
		t.Fatalf("expected product filter 9 got %+v", gotFilters.ProductID)
	}
}

func TestVentasIdempotencyThroughRouter(t *testing.T) {
	var calls int
	salesSvc := stubSalesService{
		recordFn: func(ctx context.Context, input sales.SaleInput) (*models.Sale, error) {
			calls++
			return &models.Sale{ID: 12, UserID: input.UserID, BranchID: input.BranchID}, nil
		},
	}
	store := newFakeIdempotencyStore()
	router := newTestRouter(testConfig(), store, stubShiftService{}, salesSvc, stubInventoryService{})

	body := `{"usuario_id":4,"sucursal_id":2,"lineas":[{"producto_id":9,"cantidad":"1.5","es_granel":false}]}`

	missing := httptest.NewRequest(http.MethodPost, "/api/v1/ventas", strings.NewReader(body))
	missing.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, missing)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without Idempotency-Key got %d", resp.Code)
	}
	if calls != 0 {
		t.Fatalf("service ran without idempotency key")
	}

	first := httptest.NewRequest(http.MethodPost, "/api/v1/ventas", strings.NewReader(body))
	first.Header.Set("Content-Type", "application/json")
	first.Header.Set("Idempotency-Key", "ticket-1")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, first)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body %s", resp.Code, resp.Body.String())
	}
	firstBody := resp.Body.String()

	replay := httptest.NewRequest(http.MethodPost, "/api/v1/ventas", strings.NewReader(body))
	replay.Header.Set("Content-Type", "application/json")
	replay.Header.Set("Idempotency-Key", "ticket-1")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, replay)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected replayed 201 got %d", resp.Code)
	}
	if resp.Body.String() != firstBody {
		t.Fatalf("expected stored body replayed, got %s", resp.Body.String())
	}
	if calls != 1 {
		t.Fatalf("service executed %d times, expected 1", calls)
	}
}

func TestUnknownRouteReturns404(t *testing.T) {
	router := newTestRouter(testConfig(), nil, stubShiftService{}, stubSalesService{}, stubInventoryService{})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/no-such-route", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
