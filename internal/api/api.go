// Package api sets up and starts the API
// server with routing, middleware, and Swagger documentation.
package api

import (
	"fmt"
	"net/http"

	_ "github.com/avelichko/foodgram/docs"
	"github.com/avelichko/foodgram/internal/api/middleware"
	"github.com/avelichko/foodgram/internal/api/routes/ingredients"
	"github.com/avelichko/foodgram/internal/api/routes/ping"
	"github.com/avelichko/foodgram/internal/api/routes/recipes"
	"github.com/avelichko/foodgram/internal/api/routes/tags"
	"github.com/avelichko/foodgram/internal/api/routes/users"
	"github.com/avelichko/foodgram/internal/config"
	"github.com/avelichko/foodgram/internal/env"
	"github.com/avelichko/foodgram/internal/filestore"
	"github.com/avelichko/foodgram/internal/role"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

const (
	serverPort = 8080
)

func addDocs(r *chi.Mux, serverAddr string) {
	swagger := httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://%s/api/swagger/doc.json", serverAddr)),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("none"),
		httpSwagger.DomID("swagger-ui"),
	)

	r.Mount("/api/swagger", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		// Handle preflight
		if req.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		// Allow GET to serve Swagger
		if req.Method == http.MethodGet {
			swagger.ServeHTTP(w, req)
			return
		}

		// Block anything else
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}))
}

func addRoutes(router *chi.Mux) {
	router.Route("/api", func(r chi.Router) {
		r.Get("/ping", ping.HandlePing)
		r.Post("/login", users.Login)

		r.Route("/tags", func(r chi.Router) {
			r.Get("/", tags.ListTags)
			r.Get("/{id}", tags.GetTag)
		})

		r.Route("/ingredients", func(r chi.Router) {
			r.Get("/", ingredients.ListIngredients)
			r.Get("/{id}", ingredients.GetIngredient)
		})

		r.Route("/recipes", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(middleware.OptionalAuth)
				r.Get("/", recipes.ListRecipes)
				r.Get("/{id}", recipes.GetRecipe)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.AuthorizeRequest(role.RoleUser))
				r.Post("/", recipes.CreateRecipe)
				r.Patch("/{id}", recipes.UpdateRecipe)
				r.Delete("/{id}", recipes.DeleteRecipe)

				r.Get("/download_shopping_cart", recipes.DownloadShoppingCart)

				r.Post("/{id}/favorite", recipes.AddFavorite)
				r.Delete("/{id}/favorite", recipes.RemoveFavorite)
				r.Post("/{id}/shopping_cart", recipes.AddCartEntry)
				r.Delete("/{id}/shopping_cart", recipes.RemoveCartEntry)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Post("/", users.CreateUser)

			r.Group(func(r chi.Router) {
				r.Use(middleware.AuthorizeRequest(role.RoleUser))
				r.Get("/me", users.GetMe)
				r.Post("/{id}/subscribe", users.Subscribe)
				r.Delete("/{id}/subscribe", users.Unsubscribe)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.OptionalAuth)
				r.Get("/{id}", users.GetUser)
			})
		})
	})
}

// addFiles serves locally stored recipe images. S3 images are served by the
// bucket host directly.
func addFiles(router *chi.Mux, e *env.Env) {
	if e.Config.Filestore.Backend != config.StoreLocal {
		return
	}
	prefix := filestore.KeyPrefix + "/"
	router.Handle(prefix+"*", http.StripPrefix(prefix,
		http.FileServer(http.Dir(e.Config.Filestore.Volume))))
}

// Start godoc
//
//	@title						Foodgram API
//	@version					1.0
//	@description				API server for the Foodgram recipe-sharing application.
//
//	@securityDefinitions.apikey	AccessTokenCookie
//	@in							cookie
//	@name						access
//
//	@host						localhost:8080
//	@BasePath					/api
func Start(env *env.Env) error {
	router := chi.NewRouter()
	router.Use(middleware.AddRequestID)
	router.Use(middleware.LogRequest(env.Logger))
	router.Use(middleware.InjectEnv(env))
	router.Use(middleware.AddCors)

	addRoutes(router)
	addFiles(router, env)
	addDocs(router, fmt.Sprintf("0.0.0.0:%d", serverPort))
	http.Handle("/", router)

	env.Logger.Info(fmt.Sprintf("Listening at 0.0.0.0:%d", serverPort))
	env.Logger.Info(fmt.Sprintf("Swagger UI available at http://0.0.0.0:%d/api/swagger/index.html", serverPort))
	return http.ListenAndServe(fmt.Sprintf(":%d", serverPort), nil)
}
