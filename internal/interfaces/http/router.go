package http

import (
	stdhttp "net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Middleware wires the request pipeline. Gate returns the role gate for the
// navigation view an endpoint group backs.
type Middleware struct {
	XRay            echo.MiddlewareFunc
	RequestLogger   echo.MiddlewareFunc
	Auth            echo.MiddlewareFunc
	RequireIdentity echo.MiddlewareFunc
	Session         echo.MiddlewareFunc
	Gate            func(viewPath string) echo.MiddlewareFunc
}

type Handlers struct {
	Session      *SessionHandler
	Users        *UsersHandler
	Navigation   *NavigationHandler
	Orders       *OrdersHandler
	Customers    *CustomersHandler
	Ingredients  *IngredientsHandler
	Catalog      *CatalogHandler
	Destinations *DestinationsHandler
}

func newEcho(m Middleware) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = NewRequestValidator()
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	if m.XRay != nil {
		e.Use(m.XRay)
	}
	if m.RequestLogger != nil {
		e.Use(m.RequestLogger)
	}
	return e
}

func chain(mws ...echo.MiddlewareFunc) []echo.MiddlewareFunc {
	out := make([]echo.MiddlewareFunc, 0, len(mws))
	for _, mw := range mws {
		if mw != nil {
			out = append(out, mw)
		}
	}
	return out
}

// NewMainRouter mounts the back-office API. Every group under /api except
// POST /api/session needs a loaded session, and each resource group is
// gated by the navigation view it serves.
func NewMainRouter(h Handlers, m Middleware) *echo.Echo {
	e := newEcho(m)
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(stdhttp.StatusOK, map[string]string{"status": "ok"})
	})

	api := e.Group("/api", chain(m.Auth, m.RequireIdentity)...)
	api.POST("/session", h.Session.SignIn)

	session := chain(m.Session)
	api.GET("/session", h.Session.Current, session...)
	api.GET("/navigation", h.Navigation.Menu, session...)
	api.GET("/navigation/decide", h.Navigation.Decide, session...)

	gated := func(prefix, view string) *echo.Group {
		return api.Group(prefix, chain(m.Session, m.Gate(view))...)
	}

	users := gated("/users", "/users")
	users.GET("", h.Users.List)
	users.PATCH("/:id", h.Users.Update)

	orders := gated("/orders", "/orders")
	orders.POST("", h.Orders.Create)
	orders.GET("", h.Orders.List)
	orders.GET("/export", h.Orders.Export)
	orders.GET("/:id", h.Orders.Get)
	orders.PATCH("/:id", h.Orders.Update)
	orders.DELETE("/:id", h.Orders.Delete)

	transactions := gated("/transactions", "/transactions")
	transactions.GET("", h.Orders.Transactions)

	customers := gated("/customers", "/customers")
	customers.POST("", h.Customers.Create)
	customers.GET("", h.Customers.List)
	customers.GET("/:id", h.Customers.Get)
	customers.PUT("/:id", h.Customers.Update)
	customers.DELETE("/:id", h.Customers.Delete)

	ingredients := gated("/ingredients", "/inventory")
	ingredients.POST("", h.Ingredients.Create)
	ingredients.GET("", h.Ingredients.List)
	ingredients.GET("/history", h.Ingredients.History)
	ingredients.GET("/:id", h.Ingredients.Get)
	ingredients.PUT("/:id", h.Ingredients.Update)
	ingredients.DELETE("/:id", h.Ingredients.Delete)
	ingredients.POST("/:id/history", h.Ingredients.AppendHistory)

	products := gated("/products", "/storage")
	products.POST("", h.Catalog.CreateProduct)
	products.GET("", h.Catalog.ListProducts)
	products.GET("/:id", h.Catalog.GetProduct)
	products.PUT("/:id", h.Catalog.UpdateProduct)
	products.DELETE("/:id", h.Catalog.DeleteProduct)

	recipes := gated("/recipes", "/storage")
	recipes.POST("", h.Catalog.CreateRecipe)
	recipes.GET("", h.Catalog.ListRecipes)
	recipes.GET("/:id", h.Catalog.GetRecipe)
	recipes.PUT("/:id", h.Catalog.UpdateRecipe)
	recipes.DELETE("/:id", h.Catalog.DeleteRecipe)

	notifications := gated("/notifications", "/orders")
	notifications.POST("/destinations", h.Destinations.Register)

	return e
}
