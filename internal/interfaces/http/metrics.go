package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Contadores de negocio expuestos en /metrics.
var (
	metricRequestsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "almacen_requests_created_total",
		Help: "Solicitudes de salida creadas.",
	})
	metricRequestsApproved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "almacen_requests_approved_total",
		Help: "Solicitudes aprobadas.",
	})
	metricRequestsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "almacen_requests_rejected_total",
		Help: "Solicitudes rechazadas.",
	})
	metricRequestsIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "almacen_requests_issued_total",
		Help: "Solicitudes entregadas.",
	})
	metricStockEntries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "almacen_stock_entries_total",
		Help: "Entradas de stock registradas.",
	})
)

// RegisterMetrics monta el endpoint /metrics de Prometheus.
func RegisterMetrics(app *fiber.App) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}
