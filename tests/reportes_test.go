package tests

import (
	"context"
	"testing"
	"time"

	"github.com/r34335132-lang/Farmacia-sub000/internal/dto"
	"github.com/r34335132-lang/Farmacia-sub000/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildReporteSvc() (service.ReporteService, service.VentaService, *stubProductoRepo) {
	productoRepo := newStubProductoRepo()
	ventaRepo := newStubVentaRepo()
	movimientoRepo := &stubMovimientoRepo{}
	promocionSvc := service.NewPromocionService(newStubPromocionRepo(), productoRepo)
	ventaSvc := service.NewVentaService(ventaRepo, productoRepo, movimientoRepo, promocionSvc, nil)
	reporteSvc := service.NewReporteService(ventaRepo, productoRepo, 30)
	return reporteSvc, ventaSvc, productoRepo
}

func TestResumenVentas_ExcluyeAnuladas(t *testing.T) {
	reporteSvc, ventaSvc, productoRepo := buildReporteSvc()
	p := seedProducto(productoRepo, "Ibuprofeno 600mg", "7790004000014", 10.00, 100, 5)

	// two card sales and one cash sale
	for i := 0; i < 2; i++ {
		_, err := ventaSvc.RegistrarVenta(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
			Items:      []dto.ItemVentaRequest{{ProductoID: p.ID.String(), Cantidad: 1}},
			MetodoPago: "tarjeta",
		})
		require.NoError(t, err)
	}
	enEfectivo, err := ventaSvc.RegistrarVenta(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		Items:            []dto.ItemVentaRequest{{ProductoID: p.ID.String(), Cantidad: 2}},
		MetodoPago:       "efectivo",
		EfectivoRecibido: efectivo(50),
	})
	require.NoError(t, err)

	// cancel the cash sale — it must vanish from every aggregate
	require.NoError(t, ventaSvc.AnularVenta(context.Background(), uuid.MustParse(enEfectivo.ID), uuid.New(), "prueba de anulacion"))

	resumen, err := reporteSvc.ResumenVentas(context.Background(), dto.ReporteVentasFilter{})
	require.NoError(t, err)

	assert.Equal(t, int64(2), resumen.TotalVentas)
	assert.Equal(t, "20", resumen.IngresoTotal.String())
	assert.Equal(t, "10", resumen.TicketPromedio.String())
	assert.Equal(t, int64(2), resumen.PorMetodoPago["tarjeta"])
	assert.Zero(t, resumen.PorMetodoPago["efectivo"])
	assert.Equal(t, "20", resumen.IngresoPorMetodo["tarjeta"].String())
}

func TestTopProductos_OrdenPorCantidad(t *testing.T) {
	reporteSvc, ventaSvc, productoRepo := buildReporteSvc()
	popular := seedProducto(productoRepo, "Barbijo", "7790004000021", 1.00, 100, 5)
	nicho := seedProducto(productoRepo, "Tensiometro", "7790004000038", 40.00, 100, 5)

	_, err := ventaSvc.RegistrarVenta(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		Items: []dto.ItemVentaRequest{
			{ProductoID: popular.ID.String(), Cantidad: 10},
			{ProductoID: nicho.ID.String(), Cantidad: 1},
		},
		MetodoPago: "tarjeta",
	})
	require.NoError(t, err)

	ranking, err := reporteSvc.TopProductos(context.Background(), dto.ReporteVentasFilter{}, 10)
	require.NoError(t, err)

	require.Len(t, ranking, 2)
	assert.Equal(t, popular.ID.String(), ranking[0].ProductoID)
	assert.Equal(t, 10, ranking[0].Cantidad)
	assert.Equal(t, "10", ranking[0].Ingreso.String())
	assert.Equal(t, nicho.ID.String(), ranking[1].ProductoID)

	top1, err := reporteSvc.TopProductos(context.Background(), dto.ReporteVentasFilter{}, 1)
	require.NoError(t, err)
	assert.Len(t, top1, 1)
}

func TestVencimientos_Clasificacion(t *testing.T) {
	reporteSvc, _, productoRepo := buildReporteSvc()

	porVencer := seedProducto(productoRepo, "Insulina", "7790004000045", 30.00, 10, 2)
	enDiez := time.Now().Add(10 * 24 * time.Hour)
	porVencer.FechaVencimiento = &enDiez

	vencido := seedProducto(productoRepo, "Lote viejo", "7790004000052", 5.00, 3, 1)
	ayer := time.Now().Add(-24 * time.Hour)
	vencido.FechaVencimiento = &ayer

	lejano := seedProducto(productoRepo, "Lote nuevo", "7790004000069", 5.00, 3, 1)
	enUnAnio := time.Now().Add(365 * 24 * time.Hour)
	lejano.FechaVencimiento = &enUnAnio

	sinVencimiento := seedProducto(productoRepo, "Termometro", "7790004000076", 20.00, 5, 1)
	_ = sinVencimiento

	out, err := reporteSvc.Vencimientos(context.Background())
	require.NoError(t, err)

	estados := map[string]string{}
	for _, v := range out {
		estados[v.Nombre] = v.Estado
	}

	// expiring inside the 30-day window
	assert.Equal(t, "por_vencer", estados["Insulina"])
	// already past its date
	assert.Equal(t, "vencido", estados["Lote viejo"])
	// beyond the window and no-expiry products are omitted
	assert.NotContains(t, estados, "Lote nuevo")
	assert.NotContains(t, estados, "Termometro")
}

func TestVencimientos_DiasRestantes(t *testing.T) {
	reporteSvc, _, productoRepo := buildReporteSvc()

	p := seedProducto(productoRepo, "Colirio", "7790004000083", 7.00, 4, 1)
	// 36 hours out rounds up to 2 days
	pronto := time.Now().Add(36 * time.Hour)
	p.FechaVencimiento = &pronto

	out, err := reporteSvc.Vencimientos(context.Background())
	require.NoError(t, err)

	require.Len(t, out, 1)
	assert.Equal(t, 2, out[0].DiasRestantes)
	assert.Equal(t, "por_vencer", out[0].Estado)
}
