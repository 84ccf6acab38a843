// Package docs contiene el spec OpenAPI servido en /swagger/.
// Generado con swag; mantener sincronizado con las anotaciones de los handlers.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/owners": {
            "get": {
                "produces": ["application/json"],
                "summary": "Listar owners",
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized"}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Registrar owner",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request"},
                    "409": {"description": "Conflict"}
                }
            }
        },
        "/owners/{ownerID}": {
            "get": {
                "produces": ["application/json"],
                "summary": "Obtener owner por id",
                "parameters": [
                    {"type": "string", "name": "ownerID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/owners/{ownerID}/pets": {
            "get": {
                "produces": ["application/json"],
                "summary": "Listar mascotas de un owner",
                "parameters": [
                    {"type": "string", "name": "ownerID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/owners/{ownerID}/pets/reconcile": {
            "post": {
                "produces": ["application/json"],
                "summary": "Reconciliar cache de mascotas",
                "parameters": [
                    {"type": "string", "name": "ownerID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Forbidden"}
                }
            }
        },
        "/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Login",
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/logout": {
            "post": {
                "summary": "Logout (idempotente)",
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/pets": {
            "get": {
                "produces": ["application/json"],
                "summary": "Listar todas las mascotas",
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized"}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Crear mascota",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/pets/{petID}": {
            "get": {
                "produces": ["application/json"],
                "summary": "Obtener mascota por id",
                "parameters": [
                    {"type": "string", "name": "petID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "uwlink API",
	Description:      "Owners, pets y autenticación.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
