package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"casacambios/internal/dto"
	"casacambios/internal/engine"
	"casacambios/internal/infra"
	"casacambios/internal/model"
	"casacambios/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Snapshot cache keys. The recalculation worker refreshes both after every
// write; reads fall back to a live replay when the cache is cold.
const (
	CacheKeyStock = "cache:stock"
	CacheKeyCC    = "cache:cc"

	cacheTTL = 15 * time.Minute
)

type ReporteService interface {
	Stock(ctx context.Context) (*dto.ReporteStockResponse, error)
	CuentasCorrientes(ctx context.Context) (*dto.ReporteCCResponse, error)
	Prestamista(ctx context.Context, clienteID uuid.UUID) (*dto.ReportePrestamistaResponse, error)
	Comisiones(ctx context.Context) (*dto.ReporteComisionesResponse, error)
	Arbitraje(ctx context.Context) (*dto.ReporteArbitrajeResponse, error)
	Rentabilidad(ctx context.Context, desde, hasta time.Time) (*dto.ReporteRentabilidadResponse, error)
	StockPDF(ctx context.Context) (string, error)

	// RefrescarSnapshots and ResumenDiario back the async worker layer.
	RefrescarSnapshots(ctx context.Context) error
	ResumenDiario(ctx context.Context) (asunto, cuerpo, pdfPath string, err error)
}

type reporteService struct {
	movRepo     repository.MovimientoRepository
	clienteRepo repository.ClienteRepository
	saldoRepo   repository.SaldoInicialRepository
	rdb         *redis.Client
	pdfPath     string
	now         func() time.Time
}

func NewReporteService(
	movRepo repository.MovimientoRepository,
	clienteRepo repository.ClienteRepository,
	saldoRepo repository.SaldoInicialRepository,
	rdb *redis.Client,
	pdfPath string,
) ReporteService {
	return &reporteService{
		movRepo:     movRepo,
		clienteRepo: clienteRepo,
		saldoRepo:   saldoRepo,
		rdb:         rdb,
		pdfPath:     pdfPath,
		now:         time.Now,
	}
}

// ─── Stock ───────────────────────────────────────────────────────────────────

func (s *reporteService) Stock(ctx context.Context) (*dto.ReporteStockResponse, error) {
	var cached dto.ReporteStockResponse
	if s.readCache(ctx, CacheKeyStock, &cached) {
		return &cached, nil
	}

	resp, _, err := s.computeStock(ctx)
	if err != nil {
		return nil, err
	}
	s.writeCache(ctx, CacheKeyStock, resp)
	return resp, nil
}

func (s *reporteService) computeStock(ctx context.Context) (*dto.ReporteStockResponse, map[string]engine.StockEntry, error) {
	movs, err := s.movRepo.ListAllCronologico(ctx)
	if err != nil {
		return nil, nil, err
	}

	stock, warnings := engine.ComputeStock(movs)
	for _, w := range warnings {
		log.Warn().
			Str("movimiento_id", w.MovimientoID.String()).
			Str("moneda", w.Moneda).
			Str("codigo", w.Codigo).
			Msg("stock warning: " + w.Detalle)
	}

	resp := &dto.ReporteStockResponse{
		Stock:       stock,
		Warnings:    warnings,
		Calculado:   s.now().Format(time.RFC3339),
		Movimientos: len(movs),
	}
	return resp, stock, nil
}

// ─── Cuentas corrientes ──────────────────────────────────────────────────────

func (s *reporteService) CuentasCorrientes(ctx context.Context) (*dto.ReporteCCResponse, error) {
	var cached dto.ReporteCCResponse
	if s.readCache(ctx, CacheKeyCC, &cached) {
		return &cached, nil
	}

	resp, _, err := s.computeCC(ctx)
	if err != nil {
		return nil, err
	}
	s.writeCache(ctx, CacheKeyCC, resp)
	return resp, nil
}

func (s *reporteService) computeCC(ctx context.Context) (*dto.ReporteCCResponse, map[engine.CCKey]engine.CCAccount, error) {
	movs, err := s.movRepo.ListAllCronologico(ctx)
	if err != nil {
		return nil, nil, err
	}

	seeds, err := s.saldosIniciales(ctx)
	if err != nil {
		return nil, nil, err
	}

	cuentas := engine.ComputeCCBalances(movs, seeds)

	keys := make([]engine.CCKey, 0, len(cuentas))
	for k := range cuentas {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Proveedor != keys[j].Proveedor {
			return keys[i].Proveedor < keys[j].Proveedor
		}
		return keys[i].Moneda < keys[j].Moneda
	})

	resp := &dto.ReporteCCResponse{
		Cuentas:   make([]dto.CCAccountResponse, 0, len(keys)),
		Calculado: s.now().Format(time.RFC3339),
	}
	for _, k := range keys {
		resp.Cuentas = append(resp.Cuentas, dto.CCAccountResponse{
			Proveedor: k.Proveedor,
			Moneda:    k.Moneda,
			Cuenta:    cuentas[k],
		})
	}
	return resp, cuentas, nil
}

// saldosIniciales loads the provider seeds the CC fold starts from.
func (s *reporteService) saldosIniciales(ctx context.Context) (map[engine.CCKey]decimal.Decimal, error) {
	saldos, err := s.saldoRepo.ListByTipo(ctx, model.SaldoTipoProveedorCC)
	if err != nil {
		return nil, err
	}
	seeds := make(map[engine.CCKey]decimal.Decimal, len(saldos))
	for _, sal := range saldos {
		seeds[engine.CCKey{Proveedor: sal.Entidad, Moneda: sal.Moneda}] = sal.Monto
	}
	return seeds, nil
}

// ─── Prestamistas ────────────────────────────────────────────────────────────

func (s *reporteService) Prestamista(ctx context.Context, clienteID uuid.UUID) (*dto.ReportePrestamistaResponse, error) {
	cliente, err := s.clienteRepo.FindByID(ctx, clienteID)
	if err != nil {
		return nil, err
	}
	if cliente.TipoCliente != "prestamistas" {
		return nil, ErrClienteNoPrestamista
	}

	movs, err := s.movRepo.ListByCliente(ctx, clienteID)
	if err != nil {
		return nil, err
	}

	balances := engine.ComputeLenderBalances(movs, s.now())

	monedas := make([]string, 0, len(balances))
	for m := range balances {
		monedas = append(monedas, m)
	}
	sort.Strings(monedas)

	resp := &dto.ReportePrestamistaResponse{
		ClienteID: cliente.ID.String(),
		Cliente:   cliente.Apellido + ", " + cliente.Nombre,
		Saldos:    make([]dto.LenderBalanceResponse, 0, len(monedas)),
		Calculado: s.now().Format(time.RFC3339),
	}
	for _, m := range monedas {
		b := balances[m]
		resp.Saldos = append(resp.Saldos, dto.LenderBalanceResponse{
			Moneda:           m,
			Principal:        b.Principal,
			InteresAcumulado: b.InteresAcumulado,
			TasaVigente:      b.TasaVigente,
			NetoBalance:      b.NetoBalance(),
		})
	}
	return resp, nil
}

// ─── Comisiones / arbitraje / rentabilidad ───────────────────────────────────

func (s *reporteService) Comisiones(ctx context.Context) (*dto.ReporteComisionesResponse, error) {
	movs, err := s.movRepo.ListAllCronologico(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.ReporteComisionesResponse{
		Resumen:   engine.ComisionesTotales(movs),
		Calculado: s.now().Format(time.RFC3339),
	}, nil
}

func (s *reporteService) Arbitraje(ctx context.Context) (*dto.ReporteArbitrajeResponse, error) {
	movs, err := s.movRepo.ListAllCronologico(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.ReporteArbitrajeResponse{
		Resumen:   engine.GananciaArbitraje(movs),
		Calculado: s.now().Format(time.RFC3339),
	}, nil
}

func (s *reporteService) Rentabilidad(ctx context.Context, desde, hasta time.Time) (*dto.ReporteRentabilidadResponse, error) {
	movs, err := s.movRepo.ListAllCronologico(ctx)
	if err != nil {
		return nil, err
	}

	procesados, _ := engine.ComputeProcesados(movs)
	resumen := engine.ComputeRentabilidad(procesados, desde, hasta)

	return &dto.ReporteRentabilidadResponse{
		Resumen:   resumen,
		Estimada:  resumen.Actual.Estimada,
		Calculado: s.now().Format(time.RFC3339),
	}, nil
}

// ─── PDF / snapshots / resumen diario ────────────────────────────────────────

func (s *reporteService) StockPDF(ctx context.Context) (string, error) {
	_, stock, err := s.computeStock(ctx)
	if err != nil {
		return "", err
	}
	_, cuentas, err := s.computeCC(ctx)
	if err != nil {
		return "", err
	}
	return infra.GenerateStockPDF(stock, cuentas, s.now(), s.pdfPath)
}

// RefrescarSnapshots recomputes both cached snapshots from scratch.
// Called by the recalculation worker after every write.
func (s *reporteService) RefrescarSnapshots(ctx context.Context) error {
	stockResp, _, err := s.computeStock(ctx)
	if err != nil {
		return err
	}
	ccResp, _, err := s.computeCC(ctx)
	if err != nil {
		return err
	}

	if err := s.setCache(ctx, CacheKeyStock, stockResp); err != nil {
		return err
	}
	return s.setCache(ctx, CacheKeyCC, ccResp)
}

// ResumenDiario builds the subject, plain-text body, and attached PDF for
// the end-of-day summary email.
func (s *reporteService) ResumenDiario(ctx context.Context) (string, string, string, error) {
	hoy := s.now().Format("2006-01-02")

	movs, err := s.movRepo.ListAllCronologico(ctx)
	if err != nil {
		return "", "", "", err
	}

	delDia := 0
	for _, m := range movs {
		if m.Fecha.Format("2006-01-02") == hoy {
			delDia++
		}
	}

	stockResp, stock, err := s.computeStock(ctx)
	if err != nil {
		return "", "", "", err
	}
	_, cuentas, err := s.computeCC(ctx)
	if err != nil {
		return "", "", "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Resumen de operaciones del %s\n\n", hoy)
	fmt.Fprintf(&b, "Movimientos del dia: %d\n", delDia)
	fmt.Fprintf(&b, "Movimientos historicos: %d\n\n", stockResp.Movimientos)

	b.WriteString("Stock por moneda:\n")
	monedas := make([]string, 0, len(stock))
	for m := range stock {
		monedas = append(monedas, m)
	}
	sort.Strings(monedas)
	for _, m := range monedas {
		e := stock[m]
		fmt.Fprintf(&b, "  %-6s cantidad %s, costo promedio %s\n",
			m, e.Cantidad.StringFixed(2), e.CostoPromedio.StringFixed(4))
	}
	if len(monedas) == 0 {
		b.WriteString("  (sin stock)\n")
	}

	if len(stockResp.Warnings) > 0 {
		fmt.Fprintf(&b, "\nAdvertencias de stock: %d\n", len(stockResp.Warnings))
		for _, w := range stockResp.Warnings {
			fmt.Fprintf(&b, "  [%s] %s: %s\n", w.Codigo, w.Moneda, w.Detalle)
		}
	}

	fmt.Fprintf(&b, "\nCuentas corrientes abiertas: %d\n", len(cuentas))

	pdfPath, err := infra.GenerateStockPDF(stock, cuentas, s.now(), s.pdfPath)
	if err != nil {
		// Summary still goes out without the attachment
		log.Warn().Err(err).Msg("reporte_service: failed to generate summary PDF")
		pdfPath = ""
	}

	asunto := "Resumen diario de operaciones — " + hoy
	return asunto, b.String(), pdfPath, nil
}

// ─── Cache helpers ───────────────────────────────────────────────────────────

func (s *reporteService) readCache(ctx context.Context, key string, dest interface{}) bool {
	if s.rdb == nil {
		return false
	}
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("reporte_service: corrupt cache entry, ignoring")
		return false
	}
	return true
}

func (s *reporteService) writeCache(ctx context.Context, key string, value interface{}) {
	if err := s.setCache(ctx, key, value); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("reporte_service: failed to write cache")
	}
}

func (s *reporteService) setCache(ctx context.Context, key string, value interface{}) error {
	if s.rdb == nil {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key, raw, cacheTTL).Err()
}
