// Package docs registers the Stockpoint API document served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "security": [{"BearerAuth": []}],
    "paths": {
        "/auth/authorize": {"post": {"tags": ["auth"], "summary": "Exchange operator credentials for an auth code", "security": []}},
        "/auth/token": {"post": {"tags": ["auth"], "summary": "Issue an access token", "security": []}},
        "/clients": {
            "get": {"tags": ["clients"], "summary": "List clients"},
            "post": {"tags": ["clients"], "summary": "Register a client"}
        },
        "/clients/search": {"get": {"tags": ["clients"], "summary": "Clients whose national ID contains term"}},
        "/clients/{id}": {"get": {"tags": ["clients"], "summary": "Get a client"}},
        "/resolver/sessions": {"post": {"tags": ["resolver"], "summary": "Start a client resolver session"}},
        "/resolver/sessions/{id}": {
            "get": {"tags": ["resolver"], "summary": "Current resolver state"},
            "delete": {"tags": ["resolver"], "summary": "End a resolver session"}
        },
        "/resolver/sessions/{id}/query": {"put": {"tags": ["resolver"], "summary": "Replace the search text"}},
        "/resolver/sessions/{id}/select": {"post": {"tags": ["resolver"], "summary": "Bind a candidate"}},
        "/resolver/sessions/{id}/selection": {"delete": {"tags": ["resolver"], "summary": "Clear the bound client"}},
        "/resolver/sessions/{id}/form": {
            "post": {"tags": ["resolver"], "summary": "Open the inline create form"},
            "put": {"tags": ["resolver"], "summary": "Update the form draft"},
            "delete": {"tags": ["resolver"], "summary": "Close the inline create form"}
        },
        "/resolver/sessions/{id}/clients": {"post": {"tags": ["resolver"], "summary": "Create a client from the inline form and select it"}},
        "/categories": {
            "get": {"tags": ["products"], "summary": "List categories"},
            "post": {"tags": ["products"], "summary": "Create a category"}
        },
        "/products": {
            "get": {"tags": ["products"], "summary": "List products"},
            "post": {"tags": ["products"], "summary": "Register a product"}
        },
        "/products/draft": {
            "get": {"tags": ["products"], "summary": "Load the saved registration form"},
            "put": {"tags": ["products"], "summary": "Save the registration form"},
            "delete": {"tags": ["products"], "summary": "Discard the registration form"}
        },
        "/products/{id}": {"get": {"tags": ["products"], "summary": "Get a product"}},
        "/sales": {
            "get": {"tags": ["sales"], "summary": "List sales"},
            "post": {"tags": ["sales"], "summary": "Register a sale"}
        },
        "/sales/{id}": {"get": {"tags": ["sales"], "summary": "Get a sale with its items"}},
        "/terminals": {
            "get": {"tags": ["terminals"], "summary": "List terminals"},
            "post": {"tags": ["terminals"], "summary": "Register a terminal"}
        },
        "/terminals/{id}": {
            "put": {"tags": ["terminals"], "summary": "Update a terminal"},
            "delete": {"tags": ["terminals"], "summary": "Delete a terminal"}
        },
        "/health": {"get": {"tags": ["system"], "summary": "Liveness probe", "security": []}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Stockpoint API",
	Description:      "Point of sale: clients, products, sales and client resolution.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
