package service

import (
	"context"
	"sort"
	"time"

	"github.com/r34335132-lang/Farmacia-sub000/internal/dto"
	"github.com/r34335132-lang/Farmacia-sub000/internal/repository"

	"github.com/shopspring/decimal"
)

type ReporteService interface {
	ResumenVentas(ctx context.Context, filter dto.ReporteVentasFilter) (*dto.ResumenVentasResponse, error)
	TopProductos(ctx context.Context, filter dto.ReporteVentasFilter, limit int) ([]dto.ProductoVendidoResponse, error)
	Vencimientos(ctx context.Context) ([]dto.VencimientoResponse, error)
}

type reporteService struct {
	ventaRepo    repository.VentaRepository
	productoRepo repository.ProductoRepository
	// diasAlerta is the "por vencer" window in days
	diasAlerta int
}

func NewReporteService(ventaRepo repository.VentaRepository, productoRepo repository.ProductoRepository, diasAlerta int) ReporteService {
	if diasAlerta <= 0 {
		diasAlerta = 30
	}
	return &reporteService{ventaRepo: ventaRepo, productoRepo: productoRepo, diasAlerta: diasAlerta}
}

// ResumenVentas aggregates completed sales between desde and hasta, inclusive.
// Defaults to today. Anuladas never count: their estado excludes them at the
// query level.
func (s *reporteService) ResumenVentas(ctx context.Context, filter dto.ReporteVentasFilter) (*dto.ResumenVentasResponse, error) {
	desde, hasta := rangoPorDefecto(filter)

	ventas, err := s.ventaRepo.ListCompletadasEntre(ctx, desde, hasta)
	if err != nil {
		return nil, err
	}

	resumen := &dto.ResumenVentasResponse{
		Desde:            desde,
		Hasta:            hasta,
		IngresoTotal:     decimal.Zero,
		TicketPromedio:   decimal.Zero,
		PorMetodoPago:    map[string]int64{},
		IngresoPorMetodo: map[string]decimal.Decimal{},
	}

	for i := range ventas {
		v := &ventas[i]
		resumen.TotalVentas++
		resumen.IngresoTotal = resumen.IngresoTotal.Add(v.Total)
		resumen.PorMetodoPago[v.MetodoPago]++

		acum, ok := resumen.IngresoPorMetodo[v.MetodoPago]
		if !ok {
			acum = decimal.Zero
		}
		resumen.IngresoPorMetodo[v.MetodoPago] = acum.Add(v.Total)
	}

	if resumen.TotalVentas > 0 {
		resumen.TicketPromedio = resumen.IngresoTotal.
			Div(decimal.NewFromInt(resumen.TotalVentas)).
			Round(2)
	}

	return resumen, nil
}

// TopProductos ranks products by units sold over the range.
func (s *reporteService) TopProductos(ctx context.Context, filter dto.ReporteVentasFilter, limit int) ([]dto.ProductoVendidoResponse, error) {
	if limit <= 0 {
		limit = 10
	}
	desde, hasta := rangoPorDefecto(filter)

	ventas, err := s.ventaRepo.ListCompletadasEntre(ctx, desde, hasta)
	if err != nil {
		return nil, err
	}

	type acumulado struct {
		nombre   string
		cantidad int
		ingreso  decimal.Decimal
	}
	porProducto := map[string]*acumulado{}

	for i := range ventas {
		for _, item := range ventas[i].Items {
			key := item.ProductoID.String()
			a, ok := porProducto[key]
			if !ok {
				nombre := ""
				if item.Producto != nil {
					nombre = item.Producto.Nombre
				}
				a = &acumulado{nombre: nombre, ingreso: decimal.Zero}
				porProducto[key] = a
			}
			a.cantidad += item.Cantidad
			a.ingreso = a.ingreso.Add(item.Subtotal)
		}
	}

	ranking := make([]dto.ProductoVendidoResponse, 0, len(porProducto))
	for id, a := range porProducto {
		ranking = append(ranking, dto.ProductoVendidoResponse{
			ProductoID: id,
			Nombre:     a.nombre,
			Cantidad:   a.cantidad,
			Ingreso:    a.ingreso,
		})
	}
	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].Cantidad != ranking[j].Cantidad {
			return ranking[i].Cantidad > ranking[j].Cantidad
		}
		return ranking[i].Nombre < ranking[j].Nombre
	})

	if len(ranking) > limit {
		ranking = ranking[:limit]
	}
	return ranking, nil
}

// Vencimientos lists expired products plus those expiring within the alert
// window. A product expiring beyond the window is omitted.
func (s *reporteService) Vencimientos(ctx context.Context) ([]dto.VencimientoResponse, error) {
	productos, err := s.productoRepo.ListConVencimiento(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	out := make([]dto.VencimientoResponse, 0)

	for _, p := range productos {
		if p.FechaVencimiento == nil {
			continue
		}
		dias := diasHasta(now, *p.FechaVencimiento)

		var estado string
		switch {
		case p.FechaVencimiento.Before(now):
			estado = "vencido"
		case dias <= s.diasAlerta:
			estado = "por_vencer"
		default:
			continue
		}

		out = append(out, dto.VencimientoResponse{
			ProductoID:       p.ID.String(),
			Nombre:           p.Nombre,
			FechaVencimiento: p.FechaVencimiento.Format("2006-01-02"),
			DiasRestantes:    dias,
			Estado:           estado,
		})
	}
	return out, nil
}

// diasHasta rounds up: a product expiring in 36 hours has 2 days left, not 1.
func diasHasta(desde, hasta time.Time) int {
	d := hasta.Sub(desde)
	dias := int(d.Hours() / 24)
	if d > 0 && d%(24*time.Hour) != 0 {
		dias++
	}
	return dias
}

func rangoPorDefecto(filter dto.ReporteVentasFilter) (string, string) {
	hoy := time.Now().Format("2006-01-02")
	desde := filter.Desde
	hasta := filter.Hasta
	if desde == "" {
		desde = hoy
	}
	if hasta == "" {
		hasta = hoy
	}
	return desde, hasta
}
