// Package docs registra la descripción OpenAPI del gateway para /swagger/*.
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
        "/api/products": {
            "get": {
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "Listar productos",
                "parameters": [
                    {"type": "integer", "description": "Filtra por categoría (all = sin filtro)", "name": "categoryId", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "500": {"description": "Internal Server Error"}
                }
            }
        },
        "/api/products/sendReview": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "Enviar reseña",
                "parameters": [
                    {"description": "Reseña", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/products.reviewRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request"}
                }
            }
        },
        "/api/products/addCart": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["cart"],
                "summary": "Agregar al carrito",
                "parameters": [
                    {"description": "Producto y cantidad", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/products.addCartRequest"}}
                ],
                "responses": {
                    "200": {"description": "Cantidad sumada a la línea existente"},
                    "201": {"description": "Línea nueva"},
                    "400": {"description": "Bad Request"}
                }
            }
        },
        "/api/products/updateCartItem/{IdCart}": {
            "patch": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["cart"],
                "summary": "Actualizar cantidad",
                "parameters": [
                    {"type": "integer", "description": "Id de la línea", "name": "IdCart", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/api/products/deleteCart": {
            "delete": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["cart"],
                "summary": "Vaciar carrito",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"}
                }
            }
        },
        "/api/products/toggleWishlist": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["wishlist"],
                "summary": "Alternar wishlist",
                "responses": {
                    "200": {"description": "Quitado"},
                    "201": {"description": "Agregado"},
                    "400": {"description": "Bad Request"}
                }
            }
        },
        "/api/users": {
            "get": {
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Listar usuarios",
                "parameters": [
                    {"type": "string", "description": "Ids separados por coma", "name": "ids", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"}
                }
            }
        },
        "/api/users/registerUsers": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Registrar usuario",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Datos faltantes, contraseñas distintas o usuario duplicado"}
                }
            }
        },
        "/api/users/loginUsers": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Iniciar sesión",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Usuario no encontrado o contraseña incorrecta"}
                }
            }
        },
        "/api/pets/details/{IdPet}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["pets"],
                "summary": "Historial de la mascota",
                "parameters": [
                    {"type": "integer", "description": "Id de la mascota", "name": "IdPet", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "500": {"description": "Internal Server Error"}
                }
            }
        },
        "/api/pets/getPetsByUser/{IdUser}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["pets"],
                "summary": "Mascotas por usuario",
                "parameters": [
                    {"type": "integer", "description": "Id del dueño", "name": "IdUser", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/pets/register": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["pets"],
                "summary": "Registrar mascota",
                "parameters": [
                    {"type": "string", "name": "PetName", "in": "formData", "required": true},
                    {"type": "integer", "name": "IdSpecies", "in": "formData", "required": true},
                    {"type": "string", "name": "Breed", "in": "formData", "required": true},
                    {"type": "integer", "name": "Age", "in": "formData", "required": true},
                    {"type": "integer", "name": "IdUser", "in": "formData", "required": true},
                    {"type": "integer", "name": "IdPetStatus", "in": "formData", "required": true},
                    {"type": "number", "name": "Weight", "in": "formData", "required": true},
                    {"type": "file", "name": "image", "in": "formData"}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request"},
                    "500": {"description": "Internal Server Error"}
                }
            }
        }
    },
    "definitions": {
        "products.reviewRequest": {
            "type": "object",
            "properties": {
                "IdProduct": {"type": "integer"},
                "IdUser": {"type": "integer"},
                "rating": {"type": "integer"},
                "comment": {"type": "string"}
            }
        },
        "products.addCartRequest": {
            "type": "object",
            "properties": {
                "IdUser": {"type": "integer"},
                "IdProduct": {"type": "integer"},
                "Quantity": {"type": "integer"}
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
	Title:            "Pet Shop API Gateway",
	Description:      "Productos, usuarios y mascotas detrás de un solo gateway.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
