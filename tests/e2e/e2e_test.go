//go:build integration

package e2e

// End-to-end tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./tests/e2e/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/r34335132-lang/Farmacia-sub000/internal/config"
	"github.com/r34335132-lang/Farmacia-sub000/internal/infra"
	"github.com/r34335132-lang/Farmacia-sub000/internal/model"
	"github.com/r34335132-lang/Farmacia-sub000/internal/router"
	"github.com/r34335132-lang/Farmacia-sub000/internal/worker"
	"github.com/r34335132-lang/Farmacia-sub000/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	token  string // admin JWT
	engine *gin.Engine
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("farmapos_test"),
		tcPostgres.WithUsername("farmapos"),
		tcPostgres.WithPassword("farmapos"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:                  8000,
		Env:                   "test",
		JWTSecret:             "test-secret-key",
		JWTExpirationHours:    8,
		JWTRefreshHours:       24,
		DatabaseURL:           pgURL,
		RedisURL:              rdURL,
		WorkerPoolSize:        1,
		PDFStoragePath:        t.TempDir(),
		NombreFarmacia:        "Farmacia E2E",
		DiasAlertaVencimiento: 30,
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	// Seed admin user
	hash, err := bcrypt.GenerateFromPassword([]byte("farmapos2026"), 12)
	require.NoError(t, err)
	require.NoError(t, db.Create(&model.Usuario{
		Username:     "admin",
		Nombre:       "Admin E2E",
		PasswordHash: string(hash),
		Rol:          "administrador",
		Activo:       true,
	}).Error)

	hub := ws.NewHub()
	go hub.Run(ctx, rdb)
	dispatcher := worker.NewDispatcher(rdb)

	r := router.New(cfg, db, rdb, hub, dispatcher)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	loginResp := do(t, srv, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "admin", "password": "farmapos2026"}),
		"",
	)
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var loginBody struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &loginBody)
	require.NotEmpty(t, loginBody.AccessToken)

	return &testEnv{
		server: srv,
		token:  loginBody.AccessToken,
		engine: r,
	}
}

func crearProducto(t *testing.T, env *testEnv, body map[string]any) string {
	t.Helper()
	resp := do(t, env.server, "POST", "/v1/productos", jsonBody(t, body), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var prod struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &prod)
	require.NotEmpty(t, prod.ID)
	return prod.ID
}

func stockDe(t *testing.T, env *testEnv, productoID string) int {
	t.Helper()
	resp := do(t, env.server, "GET", "/v1/productos/"+productoID, nil, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var prod struct {
		StockActual int `json:"stock_actual"`
	}
	decodeJSON(t, resp, &prod)
	return prod.StockActual
}

// ── Tests ────────────────────────────────────────────────────────────────────

// Full POS cycle: login → create producto → sale in efectivo → list.
func TestE2E_CicloDeVenta(t *testing.T) {
	env := setupTestEnv(t)

	prodID := crearProducto(t, env, map[string]any{
		"nombre":        "Ibuprofeno 400mg",
		"codigo_barras": "7790001000011",
		"categoria":     "analgesicos",
		"precio_venta":  10.50,
		"stock_actual":  20,
		"stock_minimo":  5,
	})

	ventaResp := do(t, env.server, "POST", "/v1/ventas",
		jsonBody(t, map[string]any{
			"items":             []map[string]any{{"producto_id": prodID, "cantidad": 3}},
			"metodo_pago":       "efectivo",
			"efectivo_recibido": "50.00",
		}), env.token)
	require.Equal(t, http.StatusCreated, ventaResp.StatusCode)
	var venta struct {
		ID           string  `json:"id"`
		NumeroTicket int     `json:"numero_ticket"`
		Total        float64 `json:"total,string"`
		Vuelto       float64 `json:"vuelto,string"`
		Estado       string  `json:"estado"`
	}
	decodeJSON(t, ventaResp, &venta)
	assert.Equal(t, "completada", venta.Estado)
	assert.Equal(t, 1, venta.NumeroTicket)
	assert.InDelta(t, 31.50, venta.Total, 0.001)
	assert.InDelta(t, 18.50, venta.Vuelto, 0.001)

	assert.Equal(t, 17, stockDe(t, env, prodID))

	listResp := do(t, env.server, "GET", "/v1/ventas?fecha="+time.Now().Format("2006-01-02"), nil, env.token)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	var list struct {
		Total int64 `json:"total"`
	}
	decodeJSON(t, listResp, &list)
	assert.Equal(t, int64(1), list.Total)
}

// Online order from the public storefront through the full status lifecycle.
func TestE2E_PedidoOnlineCompleto(t *testing.T) {
	env := setupTestEnv(t)

	prodID := crearProducto(t, env, map[string]any{
		"nombre":        "Vitamina D3",
		"codigo_barras": "7790001000028",
		"categoria":     "suplementos",
		"precio_venta":  18.00,
		"stock_actual":  10,
		"stock_minimo":  2,
	})

	// No auth: the storefront endpoint is public
	pedidoResp := do(t, env.server, "POST", "/v1/tienda/pedidos",
		jsonBody(t, map[string]any{
			"cliente_nombre":   "Carlos Diaz",
			"cliente_telefono": "1155550000",
			"items":            []map[string]any{{"producto_id": prodID, "cantidad": 4}},
		}), "")
	require.Equal(t, http.StatusCreated, pedidoResp.StatusCode)
	var pedido struct {
		ID           string  `json:"id"`
		NumeroPedido string  `json:"numero_pedido"`
		CodigoRetiro string  `json:"codigo_retiro"`
		Total        float64 `json:"total,string"`
		Estado       string  `json:"estado"`
	}
	decodeJSON(t, pedidoResp, &pedido)
	assert.Equal(t, "pendiente", pedido.Estado)
	assert.Len(t, pedido.CodigoRetiro, 6)
	assert.InDelta(t, 72.00, pedido.Total, 0.001)

	// Stock reserved at creation
	assert.Equal(t, 6, stockDe(t, env, prodID))

	// Customer tracks by código, still no auth
	trackResp := do(t, env.server, "GET", "/v1/tienda/pedidos/"+pedido.CodigoRetiro, nil, "")
	require.Equal(t, http.StatusOK, trackResp.StatusCode)

	// Staff walks the lifecycle
	for _, estado := range []string{"preparando", "listo", "entregado"} {
		resp := do(t, env.server, "PUT", "/v1/pedidos/"+pedido.ID+"/estado",
			jsonBody(t, map[string]any{"estado": estado}), env.token)
		require.Equal(t, http.StatusOK, resp.StatusCode, "transicion a %s", estado)
	}

	// Terminal: cancelling a delivered order must fail
	cancelResp := do(t, env.server, "PUT", "/v1/pedidos/"+pedido.ID+"/estado",
		jsonBody(t, map[string]any{"estado": "cancelado"}), env.token)
	assert.Equal(t, http.StatusBadRequest, cancelResp.StatusCode)
	cancelResp.Body.Close()

	// Delivered: stock stays decremented
	assert.Equal(t, 6, stockDe(t, env, prodID))
}

// Cancelling a pending order puts the reserved units back.
func TestE2E_CancelarPedidoRestauraStock(t *testing.T) {
	env := setupTestEnv(t)

	prodID := crearProducto(t, env, map[string]any{
		"nombre":        "Protector solar",
		"codigo_barras": "7790001000035",
		"categoria":     "dermocosmetica",
		"precio_venta":  25.00,
		"stock_actual":  8,
		"stock_minimo":  2,
	})

	pedidoResp := do(t, env.server, "POST", "/v1/tienda/pedidos",
		jsonBody(t, map[string]any{
			"cliente_nombre":   "Lucia Perez",
			"cliente_telefono": "1155551111",
			"items":            []map[string]any{{"producto_id": prodID, "cantidad": 5}},
		}), "")
	require.Equal(t, http.StatusCreated, pedidoResp.StatusCode)
	var pedido struct {
		ID string `json:"id"`
	}
	decodeJSON(t, pedidoResp, &pedido)

	require.Equal(t, 3, stockDe(t, env, prodID))

	cancelResp := do(t, env.server, "PUT", "/v1/pedidos/"+pedido.ID+"/estado",
		jsonBody(t, map[string]any{"estado": "cancelado"}), env.token)
	require.Equal(t, http.StatusOK, cancelResp.StatusCode)
	cancelResp.Body.Close()

	assert.Equal(t, 8, stockDe(t, env, prodID))
}

// Anular venta restores stock.
func TestE2E_AnularVentaRestauraStock(t *testing.T) {
	env := setupTestEnv(t)

	prodID := crearProducto(t, env, map[string]any{
		"nombre":        "Suero fisiologico",
		"codigo_barras": "7790001000042",
		"categoria":     "insumos",
		"precio_venta":  5.00,
		"stock_actual":  10,
		"stock_minimo":  2,
	})

	ventaResp := do(t, env.server, "POST", "/v1/ventas",
		jsonBody(t, map[string]any{
			"items":       []map[string]any{{"producto_id": prodID, "cantidad": 3}},
			"metodo_pago": "tarjeta",
		}), env.token)
	require.Equal(t, http.StatusCreated, ventaResp.StatusCode)
	var venta struct {
		ID string `json:"id"`
	}
	decodeJSON(t, ventaResp, &venta)

	anularResp := do(t, env.server, "DELETE", "/v1/ventas/"+venta.ID,
		jsonBody(t, map[string]any{"motivo": "Error de carga en test"}), env.token)
	assert.Equal(t, http.StatusNoContent, anularResp.StatusCode)
	anularResp.Body.Close()

	assert.Equal(t, 10, stockDe(t, env, prodID))
}

// Two clients cancelling the same sale at once: exactly one wins, stock is
// restored exactly once.
func TestE2E_AnulacionConcurrenteRestauraUnaVez(t *testing.T) {
	env := setupTestEnv(t)

	prodID := crearProducto(t, env, map[string]any{
		"nombre":        "Omeprazol 20mg",
		"codigo_barras": "7790001000073",
		"categoria":     "gastricos",
		"precio_venta":  8.00,
		"stock_actual":  10,
		"stock_minimo":  2,
	})

	ventaResp := do(t, env.server, "POST", "/v1/ventas",
		jsonBody(t, map[string]any{
			"items":       []map[string]any{{"producto_id": prodID, "cantidad": 3}},
			"metodo_pago": "tarjeta",
		}), env.token)
	require.Equal(t, http.StatusCreated, ventaResp.StatusCode)
	var venta struct {
		ID string `json:"id"`
	}
	decodeJSON(t, ventaResp, &venta)
	require.Equal(t, 7, stockDe(t, env, prodID))

	var wg sync.WaitGroup
	codes := make(chan int, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req, err := http.NewRequest(http.MethodDelete, env.server.URL+"/v1/ventas/"+venta.ID,
				bytes.NewBufferString(`{"motivo":"Anulacion concurrente"}`))
			if err != nil {
				codes <- 0
				return
			}
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+env.token)
			resp, err := env.server.Client().Do(req)
			if err != nil {
				codes <- 0
				return
			}
			resp.Body.Close()
			codes <- resp.StatusCode
		}()
	}
	wg.Wait()
	close(codes)

	exitos := 0
	for c := range codes {
		if c == http.StatusNoContent {
			exitos++
		}
	}
	assert.Equal(t, 1, exitos)
	assert.Equal(t, 10, stockDe(t, env, prodID))
}

// A vigente promotion shows up in the public price consult.
func TestE2E_PrecioPublicoConPromocion(t *testing.T) {
	env := setupTestEnv(t)

	barcode := "7790001000059"
	prodID := crearProducto(t, env, map[string]any{
		"nombre":        "Shampoo dermatologico",
		"codigo_barras": barcode,
		"categoria":     "dermocosmetica",
		"precio_venta":  20.00,
		"stock_actual":  15,
		"stock_minimo":  3,
	})

	hoy := time.Now().Format("2006-01-02")
	promoResp := do(t, env.server, "POST", "/v1/promociones",
		jsonBody(t, map[string]any{
			"nombre":          "Descuento dermo",
			"descuento_tipo":  "porcentaje",
			"descuento_valor": 25,
			"fecha_inicio":    hoy,
			"fecha_fin":       hoy,
			"producto_ids":    []string{prodID},
		}), env.token)
	require.Equal(t, http.StatusCreated, promoResp.StatusCode)
	promoResp.Body.Close()

	precioResp := do(t, env.server, "GET", "/v1/tienda/precio/"+barcode, nil, "")
	require.Equal(t, http.StatusOK, precioResp.StatusCode)
	var precio struct {
		PrecioVenta       float64 `json:"precio_venta,string"`
		PrecioPromocional *string `json:"precio_promocional"`
		Promocion         *string `json:"promocion"`
	}
	decodeJSON(t, precioResp, &precio)

	assert.InDelta(t, 20.00, precio.PrecioVenta, 0.001)
	require.NotNil(t, precio.PrecioPromocional)
	assert.Equal(t, "15", *precio.PrecioPromocional)
	require.NotNil(t, precio.Promocion)
	assert.Equal(t, "Descuento dermo", *precio.Promocion)
}

// Medication flagged requiere_receta cannot be ordered online.
func TestE2E_RecetaRechazadaEnTienda(t *testing.T) {
	env := setupTestEnv(t)

	prodID := crearProducto(t, env, map[string]any{
		"nombre":          "Clonazepam 0.5mg",
		"codigo_barras":   "7790001000066",
		"categoria":       "psicofarmacos",
		"precio_venta":    12.00,
		"stock_actual":    10,
		"stock_minimo":    2,
		"requiere_receta": true,
	})

	pedidoResp := do(t, env.server, "POST", "/v1/tienda/pedidos",
		jsonBody(t, map[string]any{
			"cliente_nombre":   "Pedro Gomez",
			"cliente_telefono": "1155552222",
			"items":            []map[string]any{{"producto_id": prodID, "cantidad": 1}},
		}), "")
	assert.Equal(t, http.StatusBadRequest, pedidoResp.StatusCode)
	pedidoResp.Body.Close()

	assert.Equal(t, 10, stockDe(t, env, prodID))
}
