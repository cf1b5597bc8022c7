package tests

import (
	"context"
	"testing"
	"time"

	"github.com/r34335132-lang/Farmacia-sub000/internal/dto"
	"github.com/r34335132-lang/Farmacia-sub000/internal/model"
	"github.com/r34335132-lang/Farmacia-sub000/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func promoPorcentaje(productos []model.Producto, valor float64, desde, hasta time.Time) model.Promocion {
	return model.Promocion{
		ID:             uuid.New(),
		Nombre:         "Promo porcentaje",
		DescuentoTipo:  "porcentaje",
		DescuentoValor: decimal.NewFromFloat(valor),
		FechaInicio:    desde,
		FechaFin:       hasta,
		Activo:         true,
		Productos:      productos,
	}
}

func promoFija(productos []model.Producto, valor float64, desde, hasta time.Time) model.Promocion {
	return model.Promocion{
		ID:             uuid.New(),
		Nombre:         "Promo fija",
		DescuentoTipo:  "fijo",
		DescuentoValor: decimal.NewFromFloat(valor),
		FechaInicio:    desde,
		FechaFin:       hasta,
		Activo:         true,
		Productos:      productos,
	}
}

func TestPromocionVigente_Ventana(t *testing.T) {
	now := time.Now()
	p := promoPorcentaje(nil, 10, now.Add(-time.Hour), now.Add(time.Hour))
	assert.True(t, service.PromocionVigente(&p, now))

	// before the window
	assert.False(t, service.PromocionVigente(&p, now.Add(-2*time.Hour)))
	// after the window
	assert.False(t, service.PromocionVigente(&p, now.Add(2*time.Hour)))

	// inactive beats any window
	p.Activo = false
	assert.False(t, service.PromocionVigente(&p, now))
}

func TestPrecioConDescuento_Porcentaje(t *testing.T) {
	p := promoPorcentaje(nil, 25, time.Now(), time.Now())
	res := service.PrecioConDescuento(decimal.NewFromFloat(10.00), &p)
	assert.Equal(t, "7.5", res.String())
}

func TestPrecioConDescuento_FijoNoNegativo(t *testing.T) {
	p := promoFija(nil, 3.00, time.Now(), time.Now())
	res := service.PrecioConDescuento(decimal.NewFromFloat(10.00), &p)
	assert.Equal(t, "7", res.String())

	// a fixed discount larger than the price clamps at zero
	grande := promoFija(nil, 50.00, time.Now(), time.Now())
	res = service.PrecioConDescuento(decimal.NewFromFloat(10.00), &grande)
	assert.True(t, res.IsZero())
}

func TestResolverPrecio_GanaElMasBarato(t *testing.T) {
	producto := model.Producto{ID: uuid.New(), Nombre: "Crema", PrecioVenta: decimal.NewFromFloat(20.00)}
	now := time.Now()
	cubre := []model.Producto{{ID: producto.ID}}

	// 10% → 18.00, fijo 5 → 15.00: the fixed discount wins
	promos := []model.Promocion{
		promoPorcentaje(cubre, 10, now.Add(-time.Hour), now.Add(time.Hour)),
		promoFija(cubre, 5, now.Add(-time.Hour), now.Add(time.Hour)),
	}

	precio, ganadora := service.ResolverPrecio(&producto, promos, now)
	assert.Equal(t, "15", precio.String())
	require.NotNil(t, ganadora)
	assert.Equal(t, "fijo", ganadora.DescuentoTipo)
}

func TestResolverPrecio_SinPromosAplicables(t *testing.T) {
	producto := model.Producto{ID: uuid.New(), PrecioVenta: decimal.NewFromFloat(8.00)}
	otro := model.Producto{ID: uuid.New()}
	now := time.Now()

	promos := []model.Promocion{
		// covers a different product
		promoPorcentaje([]model.Producto{{ID: otro.ID}}, 50, now.Add(-time.Hour), now.Add(time.Hour)),
		// covers this product but is expired
		promoPorcentaje([]model.Producto{{ID: producto.ID}}, 50, now.Add(-48*time.Hour), now.Add(-24*time.Hour)),
	}

	precio, ganadora := service.ResolverPrecio(&producto, promos, now)
	assert.Equal(t, "8", precio.String())
	assert.Nil(t, ganadora)
}

func TestCrearPromocion_Validaciones(t *testing.T) {
	productoRepo := newStubProductoRepo()
	svc := service.NewPromocionService(newStubPromocionRepo(), productoRepo)

	_, err := svc.Crear(context.Background(), dto.CrearPromocionRequest{
		Nombre:         "Fechas invertidas",
		DescuentoTipo:  "porcentaje",
		DescuentoValor: decimal.NewFromInt(10),
		FechaInicio:    "2026-10-10",
		FechaFin:       "2026-10-01",
	})
	assert.ErrorContains(t, err, "posterior")

	_, err = svc.Crear(context.Background(), dto.CrearPromocionRequest{
		Nombre:         "Porcentaje imposible",
		DescuentoTipo:  "porcentaje",
		DescuentoValor: decimal.NewFromInt(150),
		FechaInicio:    "2026-10-01",
		FechaFin:       "2026-10-10",
	})
	assert.ErrorContains(t, err, "superar 100")
}

func TestCrearPromocion_DiaFinalInclusive(t *testing.T) {
	productoRepo := newStubProductoRepo()
	repo := newStubPromocionRepo()
	svc := service.NewPromocionService(repo, productoRepo)
	p := seedProducto(productoRepo, "Desodorante", "7790003000015", 5.00, 10, 2)

	hoy := time.Now().Format("2006-01-02")
	resp, err := svc.Crear(context.Background(), dto.CrearPromocionRequest{
		Nombre:         "Solo por hoy",
		DescuentoTipo:  "porcentaje",
		DescuentoValor: decimal.NewFromInt(20),
		FechaInicio:    hoy,
		FechaFin:       hoy,
		ProductoIDs:    []string{p.ID.String()},
	})
	require.NoError(t, err)
	assert.True(t, resp.Vigente)

	// still vigente at the end of the day, not just at midnight
	vigentes, err := svc.Vigentes(context.Background())
	require.NoError(t, err)
	require.Len(t, vigentes, 1)
	assert.Equal(t, "Solo por hoy", vigentes[0].Nombre)
}

func TestDesactivarPromocion_SaleDeVigentes(t *testing.T) {
	productoRepo := newStubProductoRepo()
	repo := newStubPromocionRepo()
	svc := service.NewPromocionService(repo, productoRepo)
	p := seedProducto(productoRepo, "Jabon neutro", "7790003000022", 2.00, 10, 2)

	hoy := time.Now().Format("2006-01-02")
	resp, err := svc.Crear(context.Background(), dto.CrearPromocionRequest{
		Nombre:         "2x1 jabones",
		DescuentoTipo:  "porcentaje",
		DescuentoValor: decimal.NewFromInt(50),
		FechaInicio:    hoy,
		FechaFin:       hoy,
		ProductoIDs:    []string{p.ID.String()},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Desactivar(context.Background(), uuid.MustParse(resp.ID)))

	vigentes, err := svc.Vigentes(context.Background())
	require.NoError(t, err)
	assert.Empty(t, vigentes)
}

func TestRegistrarVenta_AplicaPromocionVigente(t *testing.T) {
	productoRepo := newStubProductoRepo()
	ventaRepo := newStubVentaRepo()
	movimientoRepo := &stubMovimientoRepo{}
	promoRepo := newStubPromocionRepo()
	promocionSvc := service.NewPromocionService(promoRepo, productoRepo)
	svc := service.NewVentaService(ventaRepo, productoRepo, movimientoRepo, promocionSvc, nil)

	p := seedProducto(productoRepo, "Crema solar", "7790003000039", 10.00, 10, 2)
	now := time.Now()
	promo := promoPorcentaje([]model.Producto{{ID: p.ID}}, 20, now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, promoRepo.Create(context.Background(), &promo))

	resp, err := svc.RegistrarVenta(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		Items:            []dto.ItemVentaRequest{{ProductoID: p.ID.String(), Cantidad: 2}},
		MetodoPago:       "efectivo",
		EfectivoRecibido: efectivo(20.00),
	})
	require.NoError(t, err)

	// 10.00 − 20% = 8.00 per unit; the discounted price is frozen on the item
	assert.Equal(t, "16", resp.Total.String())
	assert.Equal(t, "4", resp.DescuentoTotal.String())
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "8", resp.Items[0].PrecioUnitario.String())
}
