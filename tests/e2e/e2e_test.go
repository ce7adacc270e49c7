//go:build integration

package e2e

// e2e_test.go
// End-to-end integration tests using real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./tests/e2e/... -v
//
// These tests:
//   T-E2E-1: Full exchange cycle (login → alta cliente → compra/venta → reporte stock)
//   T-E2E-2: Cuentas corrientes with saldo inicial seeded through the API
//   T-E2E-3: Lender lifecycle (préstamo → retiro → reporte prestamistas)
//   T-E2E-4: Cliente with movimientos cannot be deleted (409)
//   T-E2E-5: Role enforcement (operador cannot delete movimientos)

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"casacambios/internal/config"
	"casacambios/internal/infra"
	"casacambios/internal/model"
	"casacambios/internal/router"

	"github.com/shopspring/decimal"
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
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("casacambios_test"),
		tcPostgres.WithUsername("casacambios"),
		tcPostgres.WithPassword("casacambios"),
		testcontainers.WithWaitStrategy(
			tcPostgres.BasicWaitStrategies()...,
		),
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
		Port:               8000,
		Env:                "test",
		JWTSecret:          "test-secret-key",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		WorkerPoolSize:     1,
		PDFStoragePath:     t.TempDir(),
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	require.NoError(t, infra.RunMigrations(db))

	// Seed admin user
	hash, err := bcrypt.GenerateFromPassword([]byte("cambios-e2e"), 12)
	require.NoError(t, err)
	admin := model.Usuario{
		Username:     "admin",
		Nombre:       "Admin E2E",
		PasswordHash: string(hash),
		Rol:          "administrador",
		Activo:       true,
	}
	require.NoError(t, db.Create(&admin).Error)

	deps := router.New(cfg, db, rdb)
	srv := httptest.NewServer(deps.Engine)
	t.Cleanup(srv.Close)

	loginResp := do(t, srv, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "admin", "password": "cambios-e2e"}),
		"",
	)
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var loginBody struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &loginBody)
	require.NotEmpty(t, loginBody.AccessToken)

	return &testEnv{server: srv, token: loginBody.AccessToken}
}

func crearCliente(t *testing.T, env *testEnv, nombre, apellido, tipo string) string {
	t.Helper()
	resp := do(t, env.server, "POST", "/v1/clientes",
		jsonBody(t, map[string]any{
			"nombre":       nombre,
			"apellido":     apellido,
			"tipo_cliente": tipo,
		}), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var cliente struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &cliente)
	require.NotEmpty(t, cliente.ID)
	return cliente.ID
}

func crearMovimiento(t *testing.T, env *testEnv, body map[string]any) string {
	t.Helper()
	resp := do(t, env.server, "POST", "/v1/movimientos", jsonBody(t, body), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var mov struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &mov)
	require.NotEmpty(t, mov.ID)
	return mov.ID
}

// ── Tests ────────────────────────────────────────────────────────────────────

// T-E2E-1: compra + venta, then the stock report reflects the remaining
// position at weighted average cost.
func TestE2E_FullExchangeCycle(t *testing.T) {
	env := setupTestEnv(t)

	hoy := time.Now().Format("2006-01-02")
	crearMovimiento(t, env, map[string]any{
		"fecha":         hoy,
		"operacion":     "TRANSACCIONES",
		"sub_operacion": "COMPRA",
		"moneda":        "USD",
		"monto":         "1000",
		"tc":            "1000",
		"moneda_tc":     "ARS",
	})
	crearMovimiento(t, env, map[string]any{
		"fecha":         hoy,
		"operacion":     "TRANSACCIONES",
		"sub_operacion": "VENTA",
		"moneda":        "USD",
		"monto":         "400",
		"tc":            "1100",
		"moneda_tc":     "ARS",
	})

	listResp := do(t, env.server, "GET", "/v1/movimientos?operacion=TRANSACCIONES", nil, env.token)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	var list struct {
		Data  []map[string]any `json:"data"`
		Total int64            `json:"total"`
	}
	decodeJSON(t, listResp, &list)
	assert.Equal(t, int64(2), list.Total)

	stockResp := do(t, env.server, "GET", "/v1/reportes/stock", nil, env.token)
	require.Equal(t, http.StatusOK, stockResp.StatusCode)
	var stock struct {
		Stock map[string]struct {
			Cantidad      decimal.Decimal `json:"cantidad"`
			CostoPromedio decimal.Decimal `json:"costo_promedio"`
		} `json:"stock"`
	}
	decodeJSON(t, stockResp, &stock)
	usd, ok := stock.Stock["USD"]
	require.True(t, ok)
	assert.True(t, usd.Cantidad.Equal(decimal.NewFromInt(600)), "cantidad USD = %s", usd.Cantidad)
	assert.True(t, usd.CostoPromedio.Equal(decimal.NewFromInt(1000)), "costo promedio = %s", usd.CostoPromedio)
}

// T-E2E-2: saldo inicial de proveedor + INGRESO move the CC balance.
func TestE2E_CuentasCorrientesConSaldoInicial(t *testing.T) {
	env := setupTestEnv(t)

	saldoResp := do(t, env.server, "PUT", "/v1/saldos-iniciales",
		jsonBody(t, map[string]any{
			"tipo":    "proveedor_cc",
			"entidad": "CAMBIOS NORTE",
			"moneda":  "USD",
			"monto":   "-500",
		}), env.token)
	require.Equal(t, http.StatusOK, saldoResp.StatusCode)

	crearMovimiento(t, env, map[string]any{
		"fecha":         time.Now().Format("2006-01-02"),
		"operacion":     "CUENTAS_CORRIENTES",
		"sub_operacion": "INGRESO",
		"proveedor_cc":  "CAMBIOS NORTE",
		"moneda":        "USD",
		"monto":         "200",
	})

	ccResp := do(t, env.server, "GET", "/v1/reportes/cuentas-corrientes", nil, env.token)
	require.Equal(t, http.StatusOK, ccResp.StatusCode)
	var cc struct {
		Cuentas []struct {
			Proveedor string `json:"proveedor"`
			Moneda    string `json:"moneda"`
			Cuenta    struct {
				Saldo decimal.Decimal `json:"saldo"`
			} `json:"cuenta"`
		} `json:"cuentas"`
	}
	decodeJSON(t, ccResp, &cc)
	require.Len(t, cc.Cuentas, 1)
	assert.Equal(t, "CAMBIOS NORTE", cc.Cuentas[0].Proveedor)
	// saldo inicial -500, INGRESO resta 200 → -700
	assert.True(t, cc.Cuentas[0].Cuenta.Saldo.Equal(decimal.NewFromInt(-700)),
		"saldo = %s", cc.Cuentas[0].Cuenta.Saldo)
}

// T-E2E-3: préstamo then retiro, lender report shows remaining principal.
func TestE2E_CicloPrestamista(t *testing.T) {
	env := setupTestEnv(t)

	clienteID := crearCliente(t, env, "Elena", "Vázquez", "prestamistas")

	hace30 := time.Now().AddDate(0, 0, -30).Format("2006-01-02")
	crearMovimiento(t, env, map[string]any{
		"fecha":         hace30,
		"cliente_id":    clienteID,
		"operacion":     "PRESTAMISTAS",
		"sub_operacion": "PRESTAMO",
		"moneda":        "USD",
		"monto":         "1000",
		"interes":       "12",
	})
	crearMovimiento(t, env, map[string]any{
		"fecha":         time.Now().Format("2006-01-02"),
		"cliente_id":    clienteID,
		"operacion":     "PRESTAMISTAS",
		"sub_operacion": "RETIRO",
		"moneda":        "USD",
		"monto":         "100",
	})

	repResp := do(t, env.server, "GET", "/v1/reportes/prestamistas/"+clienteID, nil, env.token)
	require.Equal(t, http.StatusOK, repResp.StatusCode)
	var rep struct {
		Saldos []struct {
			Moneda           string          `json:"moneda"`
			Principal        decimal.Decimal `json:"principal"`
			InteresAcumulado decimal.Decimal `json:"interes_acumulado"`
		} `json:"saldos"`
	}
	decodeJSON(t, repResp, &rep)
	require.Len(t, rep.Saldos, 1)
	assert.Equal(t, "USD", rep.Saldos[0].Moneda)
	// 30 días al 12% anual sobre 1000 ≈ 9.86; el retiro de 100 paga el
	// interés primero y el resto baja el principal.
	assert.True(t, rep.Saldos[0].Principal.LessThan(decimal.NewFromInt(1000)))
	assert.True(t, rep.Saldos[0].Principal.GreaterThan(decimal.NewFromInt(900)))

	// Un cliente regular no tiene reporte de prestamista.
	regularID := crearCliente(t, env, "Bruno", "Sosa", "regular")
	badResp := do(t, env.server, "GET", "/v1/reportes/prestamistas/"+regularID, nil, env.token)
	assert.Equal(t, http.StatusBadRequest, badResp.StatusCode)
}

// T-E2E-4: deleting a cliente with movimientos returns 409 and keeps it.
func TestE2E_EliminarClienteConMovimientos(t *testing.T) {
	env := setupTestEnv(t)

	clienteID := crearCliente(t, env, "Marta", "Giménez", "prestamistas")
	crearMovimiento(t, env, map[string]any{
		"fecha":         time.Now().Format("2006-01-02"),
		"cliente_id":    clienteID,
		"operacion":     "PRESTAMISTAS",
		"sub_operacion": "PRESTAMO",
		"moneda":        "USD",
		"monto":         "500",
		"interes":       "10",
	})

	delResp := do(t, env.server, "DELETE", "/v1/clientes/"+clienteID, nil, env.token)
	assert.Equal(t, http.StatusConflict, delResp.StatusCode)

	getResp := do(t, env.server, "GET", "/v1/clientes/"+clienteID, nil, env.token)
	assert.Equal(t, http.StatusOK, getResp.StatusCode)
}

// T-E2E-5: operador can create but not delete movimientos.
func TestE2E_RolOperadorNoPuedeEliminar(t *testing.T) {
	env := setupTestEnv(t)

	userResp := do(t, env.server, "POST", "/v1/usuarios",
		jsonBody(t, map[string]any{
			"username": "cajero1",
			"nombre":   "Cajero Uno",
			"password": "clave-segura-1",
			"rol":      "operador",
		}), env.token)
	require.Equal(t, http.StatusCreated, userResp.StatusCode)

	loginResp := do(t, env.server, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "cajero1", "password": "clave-segura-1"}), "")
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var login struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &login)

	operador := &testEnv{server: env.server, token: login.AccessToken}
	movID := crearMovimiento(t, operador, map[string]any{
		"fecha":         time.Now().Format("2006-01-02"),
		"operacion":     "TRANSACCIONES",
		"sub_operacion": "COMPRA",
		"moneda":        "EUR",
		"monto":         "300",
		"tc":            "1200",
		"moneda_tc":     "ARS",
	})

	delResp := do(t, env.server, "DELETE", "/v1/movimientos/"+movID, nil, operador.token)
	assert.Equal(t, http.StatusForbidden, delResp.StatusCode)

	delResp = do(t, env.server, "DELETE", fmt.Sprintf("/v1/movimientos/%s", movID), nil, env.token)
	assert.Equal(t, http.StatusNoContent, delResp.StatusCode)
}
