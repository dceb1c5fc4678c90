// Package docs registers the OpenAPI description served under /swagger.
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
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"},
                    "503": {"description": "Service Unavailable"}
                }
            }
        },
        "/auth/token": {
            "post": {
                "consumes": ["application/json", "application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Issue access token",
                "parameters": [
                    {"description": "credentials", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.UserCreate"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Token"}},
                    "400": {"description": "Bad Request"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.User"}},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/auth/users": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Create user",
                "parameters": [
                    {"description": "new account", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.UserCreate"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.User"}},
                    "400": {"description": "Bad Request"},
                    "401": {"description": "Unauthorized"},
                    "403": {"description": "Forbidden"},
                    "409": {"description": "Conflict"}
                }
            }
        },
        "/auth/audit": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "List audit events",
                "description": "Newest first.",
                "parameters": [
                    {"type": "string", "description": "Start of range", "name": "from", "in": "query"},
                    {"type": "string", "description": "End of range. Date-only treated as end of day.", "name": "to", "in": "query"},
                    {"enum": ["ADMIN_BOOTSTRAP", "USER_CREATED", "TRANSLATIONS_UPDATED", "LOGIN_FAILED"], "type": "string", "description": "Event types, repeatable or comma separated", "name": "type", "in": "query"},
                    {"type": "string", "description": "Username that caused the event", "name": "actor", "in": "query"},
                    {"type": "integer", "description": "Max events (default 100, max 1000)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "count, events"},
                    "400": {"description": "Bad Request"},
                    "401": {"description": "Unauthorized"},
                    "403": {"description": "Forbidden"}
                }
            }
        },
        "/i18n/locales": {
            "get": {
                "produces": ["application/json"],
                "tags": ["i18n"],
                "summary": "Available locales",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/i18n/translations": {
            "get": {
                "produces": ["application/json"],
                "tags": ["i18n"],
                "summary": "Bundle for the negotiated locale",
                "parameters": [
                    {"type": "string", "description": "language preference, Accept-Language syntax", "name": "lang", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Bundle"}},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/i18n/translations/{locale}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["i18n"],
                "summary": "Bundle for a locale",
                "parameters": [
                    {"type": "string", "description": "BCP 47 tag", "name": "locale", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Bundle"}},
                    "400": {"description": "Bad Request"},
                    "404": {"description": "Not Found"}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["i18n"],
                "summary": "Upsert messages for a locale",
                "parameters": [
                    {"type": "string", "description": "BCP 47 tag", "name": "locale", "in": "path", "required": true},
                    {"description": "messages to upsert", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.updateBundleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Bundle"}},
                    "400": {"description": "Bad Request"},
                    "401": {"description": "Unauthorized"},
                    "403": {"description": "Forbidden"}
                }
            }
        },
        "/i18n/ws/{locale}": {
            "get": {
                "description": "WebSocket. Sends the bundle on connect and again whenever it changes.",
                "tags": ["i18n"],
                "summary": "Stream a locale bundle",
                "parameters": [
                    {"type": "string", "description": "BCP 47 tag", "name": "locale", "in": "path", "required": true},
                    {"type": "string", "description": "poll interval, Go duration", "name": "interval", "in": "query"},
                    {"type": "integer", "description": "poll interval in milliseconds", "name": "interval_ms", "in": "query"}
                ],
                "responses": {"400": {"description": "Bad Request"}}
            }
        }
    },
    "definitions": {
        "handlers.updateBundleRequest": {
            "type": "object",
            "required": ["messages"],
            "properties": {
                "messages": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "models.Bundle": {
            "type": "object",
            "properties": {
                "locale": {"type": "string"},
                "messages": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "models.Token": {
            "type": "object",
            "properties": {
                "access_token": {"type": "string"},
                "token_type": {"type": "string", "example": "bearer"}
            }
        },
        "models.User": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "username": {"type": "string"}
            }
        },
        "models.UserCreate": {
            "type": "object",
            "required": ["password", "username"],
            "properties": {
                "password": {"type": "string"},
                "username": {"type": "string"}
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
	Title:            "i18n portal API",
	Description:      "Authentication and translation bundles.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
