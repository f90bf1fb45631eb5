// Package docs registers the OpenAPI document served under /swagger/.
//
// Regenerate with: swag init -g cmd/api/main.go -o docs
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
        "/auth/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a new player",
                "parameters": [
                    {"description": "Registration details", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.registerRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.authResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login",
                "parameters": [
                    {"description": "Login credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.loginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.authResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/v1/auth/logout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["auth"],
                "summary": "Logout",
                "responses": {
                    "204": {"description": "No Content"},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/v1/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.meResponse"}}
                }
            }
        },
        "/v1/planets": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["planets"],
                "summary": "List planets",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.planetListResponse"}}
                }
            }
        },
        "/v1/planets/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["planets"],
                "summary": "Get a planet",
                "parameters": [
                    {"type": "string", "description": "Planet id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Planet"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/v1/planets/{id}/buy": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["trades"],
                "summary": "Buy resources from a planet",
                "parameters": [
                    {"type": "string", "description": "Planet id", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "Rejects a resubmission of the same trade", "name": "Idempotency-Key", "in": "header"},
                    {"description": "Resource and amount", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.tradeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.TradeReceipt"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/v1/prices": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["planets"],
                "summary": "Global unit prices",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.pricesResponse"}}
                }
            }
        },
        "/v1/trades/quote": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["trades"],
                "summary": "Price a trade without applying it",
                "parameters": [
                    {"description": "Trade to price", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.quoteRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.PendingTrade"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/v1/trades/sell": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["trades"],
                "summary": "Sell resources to the market",
                "parameters": [
                    {"type": "string", "description": "Rejects a resubmission of the same trade", "name": "Idempotency-Key", "in": "header"},
                    {"description": "Resource and amount", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.tradeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.TradeReceipt"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/v1/account": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["account"],
                "summary": "Account dashboard",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ports.AccountSummary"}}
                }
            }
        },
        "/v1/admin/catalog/seed": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Seed the planet catalog",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ports.SeedResult"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.Holdings": {"type": "object", "additionalProperties": {"type": "integer"}},
        "domain.Planet": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "description": {"type": "string"},
                "resources": {"$ref": "#/definitions/domain.Holdings"},
                "prices": {"$ref": "#/definitions/domain.Holdings"},
                "version": {"type": "integer"}
            }
        },
        "domain.PendingTrade": {
            "type": "object",
            "properties": {
                "kind": {"type": "string"},
                "planet_id": {"type": "string"},
                "resource": {"type": "string"},
                "amount": {"type": "integer"},
                "unit_price": {"type": "integer"},
                "value": {"type": "integer"}
            }
        },
        "domain.TradeReceipt": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "kind": {"type": "string"},
                "user_id": {"type": "string"},
                "planet_id": {"type": "string"},
                "resource": {"type": "string"},
                "amount": {"type": "integer"},
                "unit_price": {"type": "integer"},
                "value": {"type": "integer"},
                "credits": {"type": "integer"},
                "holdings": {"$ref": "#/definitions/domain.Holdings"},
                "planet_stock": {"$ref": "#/definitions/domain.Holdings"},
                "attempts": {"type": "integer"},
                "executed_at": {"type": "string"}
            }
        },
        "domain.User": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "username": {"type": "string"},
                "email": {"type": "string"},
                "role": {"type": "string"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "handler.authResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "user": {"$ref": "#/definitions/domain.User"}
            }
        },
        "handler.errorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "max_amount": {"type": "integer"}
            }
        },
        "handler.loginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "handler.meResponse": {
            "type": "object",
            "properties": {
                "user": {"$ref": "#/definitions/domain.User"},
                "expires_at": {"type": "string"}
            }
        },
        "handler.planetListResponse": {
            "type": "object",
            "properties": {
                "planets": {"type": "array", "items": {"$ref": "#/definitions/domain.Planet"}},
                "count": {"type": "integer"}
            }
        },
        "handler.pricesResponse": {
            "type": "object",
            "properties": {
                "prices": {"$ref": "#/definitions/domain.Holdings"}
            }
        },
        "handler.quoteRequest": {
            "type": "object",
            "required": ["kind", "resource", "amount"],
            "properties": {
                "kind": {"type": "string", "enum": ["buy", "sell"]},
                "planet_id": {"type": "string"},
                "resource": {"type": "string"},
                "amount": {"type": "integer"}
            }
        },
        "handler.registerRequest": {
            "type": "object",
            "required": ["username", "email", "password"],
            "properties": {
                "username": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "handler.tradeRequest": {
            "type": "object",
            "required": ["resource", "amount"],
            "properties": {
                "resource": {"type": "string"},
                "amount": {"type": "integer"}
            }
        },
        "ports.AccountSummary": {
            "type": "object",
            "properties": {
                "user_id": {"type": "string"},
                "credits": {"type": "integer"},
                "resources": {"$ref": "#/definitions/domain.Holdings"},
                "holdings_value": {"type": "integer"},
                "net_worth": {"type": "integer"}
            }
        },
        "ports.SeedResult": {
            "type": "object",
            "properties": {
                "added": {"type": "integer"},
                "updated": {"type": "integer"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Orbital Exchange Trading API",
	Description:      "Players buy resources from planets and sell them back to the market.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
