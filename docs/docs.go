// Package docs registers the OpenAPI document served under /swagger.
// Regenerate with: swag init -g main.go
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
        "/users": {
            "get": {
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "List users",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/users.UserResponse"}}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Create a user",
                "description": "Accepts {\"user\": {...}} or the bare attribute object. The email is stored trimmed and lower-cased.",
                "parameters": [
                    {"description": "User attributes", "name": "user", "in": "body", "required": true, "schema": {"$ref": "#/definitions/users.CreateUserRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/users.UserResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            }
        },
        "/users/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Get a user",
                "parameters": [{"type": "integer", "description": "User ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/users.UserResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Update a user",
                "description": "Partial update; omitted attributes keep their stored values. A new email is stored trimmed and lower-cased.",
                "parameters": [
                    {"type": "integer", "description": "User ID", "name": "id", "in": "path", "required": true},
                    {"description": "Attributes to change", "name": "user", "in": "body", "required": true, "schema": {"$ref": "#/definitions/users.UpdateUserRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/users.UserResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            },
            "patch": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Update a user",
                "description": "Partial update; omitted attributes keep their stored values. A new email is stored trimmed and lower-cased.",
                "parameters": [
                    {"type": "integer", "description": "User ID", "name": "id", "in": "path", "required": true},
                    {"description": "Attributes to change", "name": "user", "in": "body", "required": true, "schema": {"$ref": "#/definitions/users.UpdateUserRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/users.UserResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            },
            "delete": {
                "tags": ["users"],
                "summary": "Delete a user",
                "parameters": [{"type": "integer", "description": "User ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            }
        },
        "/reviews": {
            "get": {
                "produces": ["application/json"],
                "tags": ["reviews"],
                "summary": "List reviews",
                "parameters": [
                    {"type": "integer", "description": "Only reviews by this user", "name": "user_id", "in": "query"},
                    {"type": "integer", "description": "Only reviews of this location", "name": "location_id", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/reviews.Review"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["reviews"],
                "summary": "Create a review",
                "parameters": [
                    {"description": "Review attributes", "name": "review", "in": "body", "required": true, "schema": {"$ref": "#/definitions/reviews.CreateReviewRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/reviews.Review"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            }
        },
        "/reviews/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["reviews"],
                "summary": "Get a review",
                "parameters": [{"type": "integer", "description": "Review ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/reviews.Review"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            }
        },
        "/locations": {
            "get": {
                "produces": ["application/json"],
                "tags": ["locations"],
                "summary": "List locations",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/locations.Location"}}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["locations"],
                "summary": "Create a location",
                "parameters": [
                    {"description": "Location attributes", "name": "location", "in": "body", "required": true, "schema": {"$ref": "#/definitions/locations.CreateLocationRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/locations.Location"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            }
        },
        "/locations/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["locations"],
                "summary": "Get a location",
                "parameters": [{"type": "integer", "description": "Location ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/locations.Location"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "apperror.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "validation failed"},
                "fields": {"type": "array", "items": {"$ref": "#/definitions/apperror.FieldError"}}
            }
        },
        "apperror.FieldError": {
            "type": "object",
            "properties": {
                "field": {"type": "string", "example": "email"},
                "message": {"type": "string", "example": "is invalid"}
            }
        },
        "users.CreateUserRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string", "example": "jane@example.com"},
                "password": {"type": "string", "example": "s3cretpass"},
                "name": {"type": "string", "example": "Jane Doe"}
            }
        },
        "users.UpdateUserRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string", "example": "jane.doe@example.com"},
                "password": {"type": "string", "example": "n3wsecret"},
                "name": {"type": "string", "example": "Jane D."}
            }
        },
        "users.UserResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer", "example": 1},
                "email": {"type": "string", "example": "jane@example.com"},
                "name": {"type": "string", "example": "Jane Doe"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "reviews.CreateReviewRequest": {
            "type": "object",
            "properties": {
                "comment": {"type": "string", "example": "Great coffee"},
                "rating": {"type": "integer", "example": 8},
                "user_id": {"type": "integer", "example": 1},
                "location_id": {"type": "integer", "example": 1}
            }
        },
        "reviews.Review": {
            "type": "object",
            "properties": {
                "id": {"type": "integer", "example": 1},
                "comment": {"type": "string", "example": "Great coffee"},
                "rating": {"type": "integer", "example": 8},
                "user_id": {"type": "integer", "example": 1},
                "location_id": {"type": "integer", "example": 1},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "locations.CreateLocationRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string", "example": "Cafe Central"}
            }
        },
        "locations.Location": {
            "type": "object",
            "properties": {
                "id": {"type": "integer", "example": 1},
                "name": {"type": "string", "example": "Cafe Central"},
                "created_at": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Placereview API",
	Description:      "Users, locations and the reviews users write about them.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
