package service_test

// In-memory repository stubs shared by the service tests.

import (
	"context"
	"sort"
	"testing"
	"time"

	"casacambios/internal/model"
	"casacambios/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func mustUUID(t *testing.T, s string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(s)
	require.NoError(t, err)
	return id
}

// ── Movimientos ──────────────────────────────────────────────────────────────

type stubMovimientoRepo struct {
	movs  map[uuid.UUID]*model.Movimiento
	orden []uuid.UUID // insertion order, mirrors created_at tie-break
	seq   int
}

func newStubMovimientoRepo() *stubMovimientoRepo {
	return &stubMovimientoRepo{movs: make(map[uuid.UUID]*model.Movimiento)}
}

func (r *stubMovimientoRepo) Create(_ context.Context, m *model.Movimiento) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.seq++
	m.CreatedAt = time.Date(2025, 1, 1, 0, 0, 0, r.seq, time.UTC)
	r.movs[m.ID] = m
	r.orden = append(r.orden, m.ID)
	return nil
}

func (r *stubMovimientoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Movimiento, error) {
	m, ok := r.movs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m, nil
}

func (r *stubMovimientoRepo) List(_ context.Context, f repository.MovimientoFilter) ([]model.Movimiento, int64, error) {
	all, _ := r.ListAllCronologico(context.Background())
	out := make([]model.Movimiento, 0, len(all))
	for _, m := range all {
		if f.Operacion != "" && m.Operacion != f.Operacion {
			continue
		}
		if f.ClienteID != nil && (m.ClienteID == nil || *m.ClienteID != *f.ClienteID) {
			continue
		}
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

func (r *stubMovimientoRepo) ListAllCronologico(_ context.Context) ([]model.Movimiento, error) {
	out := make([]model.Movimiento, 0, len(r.orden))
	for _, id := range r.orden {
		out = append(out, *r.movs[id])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Fecha.Before(out[j].Fecha) })
	return out, nil
}

func (r *stubMovimientoRepo) ListByCliente(_ context.Context, clienteID uuid.UUID) ([]model.Movimiento, error) {
	all, _ := r.ListAllCronologico(context.Background())
	out := make([]model.Movimiento, 0)
	for _, m := range all {
		if m.ClienteID != nil && *m.ClienteID == clienteID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *stubMovimientoRepo) CountByCliente(_ context.Context, clienteID uuid.UUID) (int64, error) {
	movs, _ := r.ListByCliente(context.Background(), clienteID)
	return int64(len(movs)), nil
}

func (r *stubMovimientoRepo) Update(_ context.Context, m *model.Movimiento) error {
	if _, ok := r.movs[m.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.movs[m.ID] = m
	return nil
}

func (r *stubMovimientoRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.movs[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.movs, id)
	for i, oid := range r.orden {
		if oid == id {
			r.orden = append(r.orden[:i], r.orden[i+1:]...)
			break
		}
	}
	return nil
}

var _ repository.MovimientoRepository = (*stubMovimientoRepo)(nil)

// ── Clientes ─────────────────────────────────────────────────────────────────

type stubClienteRepo struct {
	clientes map[uuid.UUID]*model.Cliente
}

func newStubClienteRepo() *stubClienteRepo {
	return &stubClienteRepo{clientes: make(map[uuid.UUID]*model.Cliente)}
}

func (r *stubClienteRepo) Create(_ context.Context, c *model.Cliente) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.clientes[c.ID] = c
	return nil
}

func (r *stubClienteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cliente, error) {
	c, ok := r.clientes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubClienteRepo) List(_ context.Context, tipo string) ([]model.Cliente, error) {
	out := make([]model.Cliente, 0, len(r.clientes))
	for _, c := range r.clientes {
		if tipo != "" && c.TipoCliente != tipo {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubClienteRepo) Update(_ context.Context, c *model.Cliente) error {
	r.clientes[c.ID] = c
	return nil
}

func (r *stubClienteRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.clientes, id)
	return nil
}

var _ repository.ClienteRepository = (*stubClienteRepo)(nil)

// ── Saldos iniciales ─────────────────────────────────────────────────────────

type stubSaldoRepo struct {
	saldos map[string]*model.SaldoInicial
}

func newStubSaldoRepo() *stubSaldoRepo {
	return &stubSaldoRepo{saldos: make(map[string]*model.SaldoInicial)}
}

func saldoKey(tipo, entidad, moneda string) string { return tipo + "|" + entidad + "|" + moneda }

func (r *stubSaldoRepo) Upsert(_ context.Context, s *model.SaldoInicial) error {
	r.saldos[saldoKey(s.Tipo, s.Entidad, s.Moneda)] = s
	return nil
}

func (r *stubSaldoRepo) Find(_ context.Context, tipo, entidad, moneda string) (*model.SaldoInicial, error) {
	s, ok := r.saldos[saldoKey(tipo, entidad, moneda)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubSaldoRepo) ListByTipo(_ context.Context, tipo string) ([]model.SaldoInicial, error) {
	out := make([]model.SaldoInicial, 0)
	for _, s := range r.saldos {
		if s.Tipo == tipo {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *stubSaldoRepo) Delete(_ context.Context, tipo, entidad, moneda string) error {
	delete(r.saldos, saldoKey(tipo, entidad, moneda))
	return nil
}

var _ repository.SaldoInicialRepository = (*stubSaldoRepo)(nil)

// ── Usuarios ─────────────────────────────────────────────────────────────────

type stubUsuarioRepo struct {
	usuarios map[uuid.UUID]*model.Usuario
}

func newStubUsuarioRepo() *stubUsuarioRepo {
	return &stubUsuarioRepo{usuarios: make(map[uuid.UUID]*model.Usuario)}
}

func (r *stubUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.usuarios[u.ID] = u
	return nil
}

func (r *stubUsuarioRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	for _, u := range r.usuarios {
		if u.Username == username && u.Activo {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	u, ok := r.usuarios[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUsuarioRepo) List(_ context.Context) ([]model.Usuario, error) {
	out := make([]model.Usuario, 0)
	for _, u := range r.usuarios {
		if u.Activo {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *stubUsuarioRepo) ListAll(_ context.Context) ([]model.Usuario, error) {
	out := make([]model.Usuario, 0)
	for _, u := range r.usuarios {
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	r.usuarios[u.ID] = u
	return nil
}

func (r *stubUsuarioRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if u, ok := r.usuarios[id]; ok {
		u.Activo = false
	}
	return nil
}

func (r *stubUsuarioRepo) Reactivar(_ context.Context, id uuid.UUID) error {
	if u, ok := r.usuarios[id]; ok {
		u.Activo = true
	}
	return nil
}

var _ repository.UsuarioRepository = (*stubUsuarioRepo)(nil)
