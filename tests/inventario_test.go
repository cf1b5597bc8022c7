package tests

import (
	"context"
	"testing"

	"github.com/r34335132-lang/Farmacia-sub000/internal/dto"
	"github.com/r34335132-lang/Farmacia-sub000/internal/repository"
	"github.com/r34335132-lang/Farmacia-sub000/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildInventarioSvc() (service.InventarioService, *stubProductoRepo, *stubMovimientoRepo) {
	productoRepo := newStubProductoRepo()
	movimientoRepo := &stubMovimientoRepo{}
	return service.NewInventarioService(productoRepo, movimientoRepo), productoRepo, movimientoRepo
}

func TestAjustarStock_Entrada(t *testing.T) {
	svc, productoRepo, movimientoRepo := buildInventarioSvc()
	p := seedProducto(productoRepo, "Alcohol en gel", "7790005000013", 4.50, 10, 3)
	usuarioID := uuid.New()

	resp, err := svc.AjustarStock(context.Background(), p.ID, usuarioID, dto.AjustarStockRequest{
		Direccion: "entrada",
		Cantidad:  25,
		Motivo:    "Reposicion proveedor",
	})
	require.NoError(t, err)

	assert.Equal(t, 35, resp.StockActual)
	assert.Equal(t, 35, p.StockActual)

	movs := movimientoRepo.porProducto(p.ID)
	require.Len(t, movs, 1)
	assert.Equal(t, "entrada", movs[0].Tipo)
	assert.Equal(t, 25, movs[0].Cantidad)
	assert.Equal(t, 10, movs[0].StockAnterior)
	assert.Equal(t, 35, movs[0].StockNuevo)
	assert.Equal(t, "Reposicion proveedor", movs[0].Motivo)
	require.NotNil(t, movs[0].UsuarioID)
	assert.Equal(t, usuarioID, *movs[0].UsuarioID)
}

func TestAjustarStock_SalidaPorMerma(t *testing.T) {
	svc, productoRepo, movimientoRepo := buildInventarioSvc()
	p := seedProducto(productoRepo, "Jarabe infantil", "7790005000020", 8.00, 12, 2)

	resp, err := svc.AjustarStock(context.Background(), p.ID, uuid.New(), dto.AjustarStockRequest{
		Direccion: "salida",
		Cantidad:  4,
		Motivo:    "Merma por rotura",
	})
	require.NoError(t, err)

	assert.Equal(t, 8, resp.StockActual)

	movs := movimientoRepo.porProducto(p.ID)
	require.Len(t, movs, 1)
	assert.Equal(t, "salida", movs[0].Tipo)
	assert.Equal(t, -4, movs[0].Cantidad)
	assert.Equal(t, 12, movs[0].StockAnterior)
	assert.Equal(t, 8, movs[0].StockNuevo)
}

func TestAjustarStock_SalidaMayorAlStock(t *testing.T) {
	svc, productoRepo, movimientoRepo := buildInventarioSvc()
	p := seedProducto(productoRepo, "Gasas esteriles", "7790005000037", 2.00, 3, 1)

	_, err := svc.AjustarStock(context.Background(), p.ID, uuid.New(), dto.AjustarStockRequest{
		Direccion: "salida",
		Cantidad:  5,
		Motivo:    "Recuento fisico",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stock insuficiente")

	// nothing persisted
	assert.Equal(t, 3, p.StockActual)
	assert.Empty(t, movimientoRepo.porProducto(p.ID))
}

func TestAjustarStock_ProductoInexistente(t *testing.T) {
	svc, _, _ := buildInventarioSvc()

	_, err := svc.AjustarStock(context.Background(), uuid.New(), uuid.New(), dto.AjustarStockRequest{
		Direccion: "entrada",
		Cantidad:  1,
		Motivo:    "Reposicion",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no encontrado")
}

func TestListarMovimientos_Filtros(t *testing.T) {
	svc, productoRepo, _ := buildInventarioSvc()
	a := seedProducto(productoRepo, "Producto A", "7790005000044", 1.00, 50, 5)
	b := seedProducto(productoRepo, "Producto B", "7790005000051", 1.00, 50, 5)

	usuarioID := uuid.New()
	mustAjustar := func(id uuid.UUID, direccion string, cantidad int) {
		_, err := svc.AjustarStock(context.Background(), id, usuarioID, dto.AjustarStockRequest{
			Direccion: direccion,
			Cantidad:  cantidad,
			Motivo:    "Ajuste de prueba",
		})
		require.NoError(t, err)
	}
	mustAjustar(a.ID, "entrada", 10)
	mustAjustar(a.ID, "salida", 2)
	mustAjustar(b.ID, "entrada", 7)

	todos, err := svc.ListarMovimientos(context.Background(), repository.MovimientoStockFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), todos.Total)
	assert.Equal(t, 1, todos.Page)
	assert.Equal(t, 100, todos.Limit)

	soloA, err := svc.ListarMovimientos(context.Background(), repository.MovimientoStockFilter{ProductoID: &a.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), soloA.Total)

	entradas, err := svc.ListarMovimientos(context.Background(), repository.MovimientoStockFilter{Tipo: "entrada"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), entradas.Total)
	for _, m := range entradas.Data {
		assert.Equal(t, "entrada", m.Tipo)
	}
}

func TestAlertasBajoStock(t *testing.T) {
	svc, productoRepo, _ := buildInventarioSvc()

	bajo := seedProducto(productoRepo, "Amoxicilina 500mg", "7790005000068", 12.00, 2, 5)
	justo := seedProducto(productoRepo, "Paracetamol 1g", "7790005000075", 3.00, 5, 5)
	sobrado := seedProducto(productoRepo, "Vitamina C", "7790005000082", 6.00, 40, 5)
	inactivo := seedProducto(productoRepo, "Descontinuado", "7790005000099", 1.00, 0, 5)
	inactivo.Activo = false
	_ = sobrado

	alertas, err := svc.AlertasBajoStock(context.Background())
	require.NoError(t, err)

	nombres := map[string]dto.AlertaStockResponse{}
	for _, a := range alertas {
		nombres[a.Nombre] = a
	}

	require.Len(t, alertas, 2)
	assert.Equal(t, 2, nombres[bajo.Nombre].StockActual)
	assert.Equal(t, 5, nombres[bajo.Nombre].StockMinimo)
	// stock equal to the minimum still alerts
	assert.Contains(t, nombres, justo.Nombre)
	assert.NotContains(t, nombres, sobrado.Nombre)
	assert.NotContains(t, nombres, inactivo.Nombre)
}
