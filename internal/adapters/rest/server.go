package rest

import (
	"context"
	"net/http"

	core_port "apartment-listing-service/internal/core/port"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	httpServer *http.Server
	logger     core_port.LoggerPort
}

func NewServer(port string,
	apartmentHandler *ApartmentHandler,
	uploadHandler *UploadHandler,
	allowedOrigins []string,
	uploadRPS float64,
	uploadBurst int,
	baseLogger core_port.LoggerPort) *Server {

	r := chi.NewRouter()

	// Отдельный регистр на сервер, чтобы не конфликтовать с глобальным.
	registry := prometheus.NewRegistry()
	metrics := newHTTPMetrics(registry)

	r.Use(middleware.RealIP, LoggerMiddleware(baseLogger), metrics.Middleware, middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		// AllowedOrigins - список доменов, с которых разрешены запросы
		AllowedOrigins: allowedOrigins,

		// AllowedMethods - список разрешенных HTTP-методов.
		AllowedMethods: []string{"GET", "POST", "HEAD", "OPTIONS"},

		// AllowedHeaders - список разрешенных заголовков в запросе
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Trace-ID"},

		// MaxAge - на сколько секунд браузер может кэшировать результат preflight-запроса
		MaxAge: 300, // 5 минут
	}))

	r.Get("/apartments", apartmentHandler.ListApartments)
	r.Post("/apartments", apartmentHandler.CreateApartment)
	r.Get("/apartments/{apartmentID}", apartmentHandler.GetApartmentDetails)

	// Загрузка файлов дополнительно ограничена по частоте.
	r.Group(func(r chi.Router) {
		r.Use(RateLimitMiddleware(uploadRPS, uploadBurst, baseLogger))
		r.Post("/upload", uploadHandler.UploadImage)
	})

	r.Get("/files/{filename}", uploadHandler.GetFile)
	r.Head("/files/{filename}", uploadHandler.StatFile)

	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	return &Server{
		httpServer: &http.Server{
			Addr:    ":" + port,
			Handler: r,
		},
		logger: baseLogger,
	}
}

func (s *Server) Start() error {
	s.logger.Info("Starting REST server", core_port.Fields{"address": s.httpServer.Addr})
	return s.httpServer.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST server...", nil)
	return s.httpServer.Shutdown(ctx)
}
