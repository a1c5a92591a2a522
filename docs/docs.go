// Package docs GeoFusion Service API.
//
// Слияние open-geodata и custom entities в тематические слои карты,
// фильтр по радиусу и подсказки под курсором для пользовательских сессий.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/v1/health": {
            "get": {"tags": ["Health"], "summary": "Health check", "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}, "503": {"description": "Degraded"}}}
        },
        "/api/v1/layers": {
            "get": {"tags": ["Layers"], "summary": "Layer catalog", "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/sessions": {
            "post": {"tags": ["Sessions"], "summary": "Create session", "produces": ["application/json"],
                "responses": {"201": {"description": "Created"}}}
        },
        "/api/v1/sessions/{id}": {
            "delete": {"tags": ["Sessions"], "summary": "Delete session",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found"}}}
        },
        "/api/v1/sessions/{id}/position": {
            "put": {"tags": ["Sessions"], "summary": "Set user position", "consumes": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/api/v1/sessions/{id}/position/search": {
            "post": {"tags": ["Sessions"], "summary": "Set position from place search", "consumes": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/api/v1/sessions/{id}/view": {
            "get": {"tags": ["Sessions"], "summary": "Current map view",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/sessions/{id}/layers": {
            "get": {"tags": ["Layers"], "summary": "Layer state",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/sessions/{id}/layers/{name}/show": {
            "post": {"tags": ["Layers"], "summary": "Show layer",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "name", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "502": {"description": "Open-geodata failure"}}}
        },
        "/api/v1/sessions/{id}/layers/{name}/hide": {
            "post": {"tags": ["Layers"], "summary": "Hide layer",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "name", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/sessions/{id}/layers/{name}/filter": {
            "post": {"tags": ["Layers"], "summary": "Apply radius filter", "consumes": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "name", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "429": {"description": "Cooldown"}}}
        },
        "/api/v1/sessions/{id}/filter": {
            "post": {"tags": ["Layers"], "summary": "Apply radius filter to selected layer", "consumes": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "429": {"description": "Cooldown"}}}
        },
        "/api/v1/sessions/{id}/layers/{name}/features": {
            "get": {"tags": ["Layers"], "summary": "Layer features as GeoJSON", "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "name", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/sessions/{id}/layers/{name}/clusters": {
            "get": {"tags": ["Layers"], "summary": "Cluster points as GeoJSON", "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "name", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/sessions/{id}/pointer": {
            "post": {"tags": ["Tooltip"], "summary": "Pointer move or tap", "consumes": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/sessions/{id}/tooltip": {
            "get": {"tags": ["Tooltip"], "summary": "Current tooltip",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/sessions/{id}/translations": {
            "put": {"tags": ["Tooltip"], "summary": "Replace translation table", "consumes": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}}
        },
        "/entities": {
            "get": {"tags": ["Entities"], "summary": "Custom entities by collection",
                "parameters": [{"type": "string", "name": "types", "in": "query", "required": true}],
                "responses": {"200": {"description": "OK"}}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "GeoFusion Service API",
	Description:      "Тематические слои карты из open-geodata и custom entities.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
