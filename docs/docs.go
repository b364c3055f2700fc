// Package docs registers the OpenAPI document served at /docs.
// Regenerate with: swag init -g cmd/server/main.go -o docs
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
        "/composer/sessions": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["composer"],
                "summary": "Open a composer session",
                "responses": {"201": {"description": "Created"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/composer/sessions/{sid}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["composer"],
                "summary": "Get a composer session",
                "parameters": [{"type": "string", "name": "sid", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["composer"],
                "summary": "Discard a composer session",
                "parameters": [{"type": "string", "name": "sid", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/composer/sessions/{sid}/fields": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "tags": ["composer"],
                "summary": "Edit one composer field",
                "parameters": [{"type": "string", "name": "sid", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}
            }
        },
        "/composer/sessions/{sid}/validate": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["composer"],
                "summary": "Validate the composer draft",
                "parameters": [{"type": "string", "name": "sid", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/composer/sessions/{sid}/save": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["composer"],
                "summary": "Save the composer as a draft",
                "parameters": [{"type": "string", "name": "sid", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}, "422": {"description": "Unprocessable Entity"}}
            }
        },
        "/composer/sessions/{sid}/publish": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["composer"],
                "summary": "Publish the composer",
                "parameters": [{"type": "string", "name": "sid", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}, "422": {"description": "Unprocessable Entity"}}
            }
        },
        "/composer/sessions/{sid}/reset": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["composer"],
                "summary": "Clear the composer form",
                "parameters": [{"type": "string", "name": "sid", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/composer/sessions/{sid}/drafts": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["composer"],
                "summary": "List the user's drafts",
                "parameters": [{"type": "string", "name": "sid", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/composer/sessions/{sid}/drafts/{draft_id}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["composer"],
                "summary": "Delete a stored draft",
                "parameters": [
                    {"type": "string", "name": "sid", "in": "path", "required": true},
                    {"type": "string", "name": "draft_id", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/composer/sessions/{sid}/drafts/{draft_id}/load": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["composer"],
                "summary": "Load a stored draft into the composer",
                "parameters": [
                    {"type": "string", "name": "sid", "in": "path", "required": true},
                    {"type": "string", "name": "draft_id", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}
            }
        },
        "/posts": {
            "get": {
                "tags": ["posts"],
                "summary": "List published posts",
                "parameters": [
                    {"type": "integer", "name": "limit", "in": "query"},
                    {"type": "string", "name": "cursor", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/posts/{post_id}": {
            "get": {
                "tags": ["posts"],
                "summary": "Get a published post",
                "parameters": [{"type": "string", "name": "post_id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/notifications": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["notifications"],
                "summary": "List unread notifications for the current user",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/notifications/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["notifications"],
                "summary": "Get a notification and mark it as read",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/healthz": {"get": {"tags": ["health"], "summary": "Liveness probe", "responses": {"200": {"description": "OK"}}}},
        "/readyz": {"get": {"tags": ["health"], "summary": "Readiness probe", "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8000",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Club Match API",
	Description:      "Post composer for club and enterprise sponsorship matching.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
