// Package swagger registers the OpenAPI document served at /swagger.
// Regenerate with: swag init -g cmd/api/main.go -o api/swagger
package swagger

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
        "/api/auth/register": {
            "post": {"tags": ["auth"], "summary": "Register admin", "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}}
        },
        "/api/auth/login": {
            "post": {"tags": ["auth"], "summary": "Login admin", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}
        },
        "/api/auth/logout": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["auth"], "summary": "Logout admin", "responses": {"200": {"description": "OK"}}}
        },
        "/api/auth/forget-password": {
            "post": {"tags": ["auth"], "summary": "Request password reset", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/api/auth/reset-password": {
            "post": {"tags": ["auth"], "summary": "Reset password", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/api/profile": {
            "patch": {"security": [{"BearerAuth": []}], "tags": ["auth"], "summary": "Update admin profile", "responses": {"200": {"description": "OK"}}}
        },
        "/api/auth/department/login": {
            "post": {"tags": ["departments"], "summary": "Department login", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}
        },
        "/api/auth/department/logout": {
            "get": {"tags": ["departments"], "summary": "Department logout", "responses": {"200": {"description": "OK"}}}
        },
        "/api/department": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["departments"], "summary": "List departments", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["departments"], "summary": "Create department", "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}}
        },
        "/api/department/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["departments"], "summary": "Get department", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "patch": {"security": [{"BearerAuth": []}], "tags": ["departments"], "summary": "Update department", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["departments"], "summary": "Delete department", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/department/profile/{id}": {
            "patch": {"security": [{"BearerAuth": []}], "tags": ["departments"], "summary": "Update department profile", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}
        },
        "/api/department/request": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["requests"], "summary": "Submit inventory request", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}}
        },
        "/api/department/assign": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["requests"], "summary": "Decide inventory request", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}}
        },
        "/api/department/requests/all": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["requests"], "summary": "All requests", "responses": {"200": {"description": "OK"}}}
        },
        "/api/department/{id}/requests": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["requests"], "summary": "Department requests", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/department/{id}/inventory": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["requests"], "summary": "Department inventory", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/inventory": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["inventory"], "summary": "List inventory", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["inventory"], "summary": "Add inventory", "responses": {"200": {"description": "Restocked"}, "201": {"description": "Created"}, "409": {"description": "Conflict"}}}
        },
        "/api/inventory/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["inventory"], "summary": "Get inventory item", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "patch": {"security": [{"BearerAuth": []}], "tags": ["inventory"], "summary": "Update inventory item", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["inventory"], "summary": "Delete inventory item", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/inventory/{id}/stock": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["inventory"], "summary": "Check stock", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/inventory/{id}/movements": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["inventory"], "summary": "Stock movements", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/inventory/category/{categoryId}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["inventory"], "summary": "Inventory by category", "parameters": [{"type": "string", "name": "categoryId", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/category": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["categories"], "summary": "List categories", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["categories"], "summary": "Create category", "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}}
        },
        "/api/category/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["categories"], "summary": "Get category", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "patch": {"security": [{"BearerAuth": []}], "tags": ["categories"], "summary": "Update category", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["categories"], "summary": "Delete category", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}}
        },
        "/api/category/{id}/items": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["categories"], "summary": "Category items", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/insight": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["insights"], "summary": "Inventory insights", "parameters": [{"type": "string", "name": "startDate", "in": "query"}, {"type": "string", "name": "endDate", "in": "query"}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/audit-logs": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["audit"], "summary": "Get audit logs", "parameters": [{"type": "integer", "name": "page", "in": "query"}, {"type": "integer", "name": "limit", "in": "query"}, {"type": "string", "name": "action", "in": "query"}], "responses": {"200": {"description": "OK"}}}
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
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Inventory Management API",
	Description:      "Departments request stock, admins approve or reject, approvals draw down inventory.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
