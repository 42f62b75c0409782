// Package docs registra el documento OpenAPI de la API en swag.
// La UI la sirve el middleware gofiber/contrib/swagger desde ./docs/swagger.json.
package docs

import (
	_ "embed"

	"github.com/swaggo/swag"
)

//go:embed swagger.json
var swaggerJSON string

// SwaggerInfo metadatos del documento Swagger.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Cotiza API",
	Description:      "Solicitudes de cotización (RFQ), cotizaciones y órdenes de compra entre compradores y proveedores.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  swaggerJSON,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
