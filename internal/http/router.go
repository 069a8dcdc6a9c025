package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/kasir-service-go/internal/register"
)

type Deps struct {
	Register         *register.Register
	Logger           *zap.Logger
	CORSAllowOrigins []string
}

func NewRouter(d Deps) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	h := NewHandler(d.Register, logger)
	page := NewPage(d.Register, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(CorrelationID)
	r.Use(RequestLogger(logger))
	r.Use(CORS(d.CORSAllowOrigins))

	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", h.ListProducts)
		r.Get("/cart", h.GetCart)
		r.Post("/cart/items", h.AddItem)
		r.Post("/cart/items/{productId}/increment", h.IncrementItem)
		r.Post("/cart/items/{productId}/decrement", h.DecrementItem)
		r.Post("/payment", h.Pay)
	})

	r.Get("/", page.Index)
	r.Post("/add", page.Add)
	r.Post("/increment", page.Increment)
	r.Post("/decrement", page.Decrement)
	r.Post("/pay", page.Pay)

	return r
}
