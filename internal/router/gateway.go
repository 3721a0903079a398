package router

import (
	"net/http"

	_ "pet-shop-platform/docs"
	"pet-shop-platform/internal/gateway"

	httpSwagger "github.com/swaggo/http-swagger"
)

type GatewayOptions struct {
	Common

	ProductsURL string
	UsersURL    string
	PetsURL     string
	UploadsURL  string
	ImagesDir   string

	// opcional, para tests
	Transport http.RoundTripper
}

func NewGateway(opts GatewayOptions) (http.Handler, error) {
	r, log := newBase("gateway", opts.Common)

	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	err := gateway.Mount(r, gateway.Options{
		Upstreams: []gateway.Upstream{
			{Prefix: "/api/products", URL: opts.ProductsURL, ErrorMessage: "Error al comunicarse con el servicio de productos"},
			{Prefix: "/api/users", URL: opts.UsersURL, ErrorMessage: "Error al comunicarse con el servicio de usuarios"},
			{Prefix: "/api/pets", URL: opts.PetsURL, ErrorMessage: "Error al comunicarse con el servicio de mascotas"},
		},
		UploadsURL: opts.UploadsURL,
		ImagesDir:  opts.ImagesDir,
		Transport:  opts.Transport,
		Log:        log,
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}
