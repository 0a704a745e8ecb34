// Package docs registers the OpenAPI document served under /swagger.
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
        "/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login",
                "parameters": [
                    {"description": "DNI and password", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.loginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.actionResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.actionResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.actionResponse"}}
                }
            }
        },
        "/logout": {
            "post": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Logout",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.actionResponse"}}
                }
            }
        },
        "/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register",
                "parameters": [
                    {"description": "New account", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.registerRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.actionResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.actionResponse"}}
                }
            }
        },
        "/turnos": {
            "get": {
                "produces": ["application/json"],
                "tags": ["shifts"],
                "summary": "List visible shifts",
                "parameters": [
                    {"type": "string", "description": "pending, accepted or cancelled", "name": "status", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.shiftListResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            },
            "post": {
                "description": "Creates the shift, then invites each distinct DNI one by one. Failed invitations are reported as skipped.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["shifts"],
                "summary": "Book a room",
                "parameters": [
                    {"description": "Shift form", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.shiftRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.actionResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.actionResponse"}}
                }
            }
        },
        "/turnos/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["shifts"],
                "summary": "Get a shift",
                "parameters": [
                    {"type": "integer", "description": "Shift id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.shiftResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            },
            "put": {
                "description": "Updates the shift fields and invites DNIs not invited yet. Existing invitations are kept.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["shifts"],
                "summary": "Edit a shift",
                "parameters": [
                    {"type": "integer", "description": "Shift id", "name": "id", "in": "path", "required": true},
                    {"description": "Shift form", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.shiftRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.actionResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.actionResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.actionResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.actionResponse"}}
                }
            }
        },
        "/turnos/{id}/status": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["shifts"],
                "summary": "Change a shift status",
                "parameters": [
                    {"type": "integer", "description": "Shift id", "name": "id", "in": "path", "required": true},
                    {"description": "New status", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.statusRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.actionResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.actionResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.actionResponse"}}
                }
            }
        },
        "/turnos/{id}/cancel": {
            "post": {
                "produces": ["application/json"],
                "tags": ["shifts"],
                "summary": "Cancel a shift",
                "parameters": [
                    {"type": "integer", "description": "Shift id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.actionResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.actionResponse"}}
                }
            }
        },
        "/turnos/{id}/accept": {
            "post": {
                "produces": ["application/json"],
                "tags": ["shifts"],
                "summary": "Accept an invitation",
                "parameters": [
                    {"type": "integer", "description": "Shift id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.actionResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.actionResponse"}}
                }
            }
        },
        "/turnos/{id}/reject": {
            "post": {
                "produces": ["application/json"],
                "tags": ["shifts"],
                "summary": "Reject an invitation",
                "parameters": [
                    {"type": "integer", "description": "Shift id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.actionResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.actionResponse"}}
                }
            }
        },
        "/salas": {
            "get": {
                "produces": ["application/json"],
                "tags": ["rooms"],
                "summary": "List rooms",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Room"}}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["rooms"],
                "summary": "Add a room",
                "parameters": [
                    {"description": "Room", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.roomRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.actionResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.actionResponse"}}
                }
            }
        },
        "/salas/{id}": {
            "delete": {
                "produces": ["application/json"],
                "tags": ["rooms"],
                "summary": "Delete a room",
                "parameters": [
                    {"type": "integer", "description": "Room id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.actionResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.actionResponse"}}
                }
            }
        },
        "/perfil": {
            "get": {
                "produces": ["application/json"],
                "tags": ["profile"],
                "summary": "Current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.User"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["profile"],
                "summary": "Update profile",
                "parameters": [
                    {"description": "Profile", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.profileRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.actionResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.actionResponse"}}
                }
            }
        },
        "/perfil/picture": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["profile"],
                "summary": "Upload profile picture",
                "parameters": [
                    {"type": "file", "description": "JPEG, PNG or WebP, up to 5 MB", "name": "picture", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.actionResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.actionResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.Room": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "capacity": {"type": "integer"}
            }
        },
        "domain.User": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "dni": {"type": "string"},
                "full_name": {"type": "string"},
                "email": {"type": "string"},
                "role": {"type": "string"},
                "profile_picture": {"type": "string"}
            }
        },
        "handler.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"}
            }
        },
        "handler.actionResponse": {
            "type": "object",
            "properties": {
                "type": {"type": "string", "enum": ["success", "error"]},
                "message": {"type": "string"},
                "details": {"type": "array", "items": {"type": "string"}},
                "errors": {"type": "object", "additionalProperties": {"type": "array", "items": {"type": "string"}}},
                "data": {}
            }
        },
        "handler.loginRequest": {
            "type": "object",
            "required": ["dni", "password"],
            "properties": {
                "dni": {"type": "string"},
                "password": {"type": "string"},
                "next": {"type": "string"}
            }
        },
        "handler.registerRequest": {
            "type": "object",
            "required": ["dni", "full_name", "email", "password", "password_confirm"],
            "properties": {
                "dni": {"type": "string"},
                "full_name": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string", "minLength": 6},
                "password_confirm": {"type": "string"}
            }
        },
        "handler.profileRequest": {
            "type": "object",
            "required": ["full_name", "email"],
            "properties": {
                "full_name": {"type": "string"},
                "email": {"type": "string"}
            }
        },
        "handler.roomRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "name": {"type": "string"},
                "capacity": {"type": "integer", "minimum": 1}
            }
        },
        "handler.shiftRequest": {
            "type": "object",
            "required": ["date", "start_time", "end_time", "theme", "area"],
            "properties": {
                "date": {"type": "string", "example": "2026-05-04"},
                "start_time": {"type": "string", "example": "09:00"},
                "end_time": {"type": "string", "example": "10:30"},
                "theme": {"type": "string"},
                "participants": {"type": "integer", "minimum": 1},
                "notes": {"type": "string"},
                "area": {"type": "string"},
                "invitees": {"type": "string"},
                "invitee_dnis": {"type": "array", "items": {"type": "string"}}
            }
        },
        "handler.statusRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {
                "status": {"type": "string", "enum": ["pending", "accepted", "cancelled"]}
            }
        },
        "handler.shiftResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "date": {"type": "string"},
                "start_time": {"type": "string"},
                "end_time": {"type": "string"},
                "theme": {"type": "string"},
                "participants": {"type": "integer"},
                "notes": {"type": "string"},
                "area": {"type": "string"},
                "status": {"type": "string"},
                "actions": {"type": "array", "items": {"type": "string"}},
                "invitation": {"type": "object"}
            }
        },
        "handler.shiftListResponse": {
            "type": "object",
            "properties": {
                "shifts": {"type": "array", "items": {"$ref": "#/definitions/handler.shiftResponse"}},
                "rooms": {"type": "array", "items": {"$ref": "#/definitions/domain.Room"}}
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
	Title:            "turnos web API",
	Description:      "JSON surface of the DCIC room booking pages. Send Accept: application/json to any page action.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
