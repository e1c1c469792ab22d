// Package docs registers the OpenAPI document served at /swagger/doc.json.
// Regenerate with `swag init -g cmd/api/main.go -o docs` after changing handler annotations.
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
        "/dreams": {
            "get": {
                "produces": ["application/json"],
                "tags": ["dreams"],
                "summary": "List dreams",
                "parameters": [
                    {"type": "integer", "default": 1, "description": "User ID", "name": "userId", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/dream.Dream"}}},
                    "400": {"description": "Invalid userId", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["dreams"],
                "summary": "Create a dream",
                "parameters": [
                    {"description": "Dream", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.CreateDreamRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dream.Dream"}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/dreams/search": {
            "get": {
                "produces": ["application/json"],
                "tags": ["dreams"],
                "summary": "Search dreams",
                "parameters": [
                    {"type": "integer", "default": 1, "description": "User ID", "name": "userId", "in": "query"},
                    {"type": "string", "description": "Search text", "name": "q", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/dream.Dream"}}},
                    "400": {"description": "Missing query", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/dreams/analyze": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["dreams"],
                "summary": "Analyze a dream",
                "parameters": [
                    {"description": "Dream text", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.AnalyzeDreamRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/services.AnalyzeResult"}},
                    "400": {"description": "Missing dreamContent", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "500": {"description": "Upstream failure", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "503": {"description": "Analysis provider temporarily unavailable", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/dreams/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["dreams"],
                "summary": "Get dream by ID",
                "parameters": [{"type": "integer", "description": "Dream ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dream.Dream"}},
                    "404": {"description": "Dream not found", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            },
            "patch": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["dreams"],
                "summary": "Update a dream",
                "parameters": [
                    {"type": "integer", "description": "Dream ID", "name": "id", "in": "path", "required": true},
                    {"description": "Partial dream", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.UpdateDreamRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dream.Dream"}},
                    "404": {"description": "Dream not found", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            },
            "delete": {
                "tags": ["dreams"],
                "summary": "Delete a dream",
                "parameters": [{"type": "integer", "description": "Dream ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "Dream deleted"},
                    "404": {"description": "Dream not found", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/dreams/{dreamId}/generate-image": {
            "post": {
                "produces": ["application/json"],
                "tags": ["dreams"],
                "summary": "Generate an image for a dream",
                "parameters": [{"type": "integer", "description": "Dream ID", "name": "dreamId", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/services.IllustrateResult"}},
                    "404": {"description": "Dream not found", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/generate-image": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["images"],
                "summary": "Generate an image",
                "parameters": [
                    {"description": "Prompt", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.GenerateImageRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.GenerateImageResponse"}},
                    "400": {"description": "Missing prompt", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/chat/messages": {
            "get": {
                "produces": ["application/json"],
                "tags": ["chat"],
                "summary": "List chat messages",
                "parameters": [{"type": "integer", "description": "Dream ID", "name": "dreamId", "in": "query"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/dream.ChatMessage"}}}
                }
            }
        },
        "/chat/recent": {
            "get": {
                "produces": ["application/json"],
                "tags": ["chat"],
                "summary": "Recent chat messages",
                "parameters": [{"type": "integer", "default": 10, "maximum": 100, "description": "Maximum messages", "name": "limit", "in": "query"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/dream.ChatMessage"}}}
                }
            }
        },
        "/chat/message": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["chat"],
                "summary": "Post a chat message",
                "parameters": [
                    {"description": "Message", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.PostMessageRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dream.ChatMessage"}},
                    "400": {"description": "Schema violation", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/insights/{userId}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["insights"],
                "summary": "Dream insights",
                "parameters": [{"type": "integer", "description": "User ID", "name": "userId", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dream.Insights"}}
                }
            }
        }
    },
    "definitions": {
        "dream.Dream": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "userId": {"type": "integer"},
                "title": {"type": "string"},
                "content": {"type": "string"},
                "analysis": {"type": "string"},
                "archetypes": {"type": "array", "items": {"type": "string"}},
                "symbols": {"type": "array", "items": {"type": "string"}},
                "imageUrl": {"type": "string"},
                "createdAt": {"type": "string"}
            }
        },
        "dream.ChatMessage": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "dreamId": {"type": "integer"},
                "role": {"type": "string", "enum": ["user", "assistant"]},
                "content": {"type": "string"},
                "messageType": {"type": "string"},
                "metadata": {"type": "object", "additionalProperties": true},
                "createdAt": {"type": "string"}
            }
        },
        "dream.PredominantSymbol": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "meaning": {"type": "string"},
                "jungianSignificance": {"type": "string"}
            }
        },
        "dream.Analysis": {
            "type": "object",
            "properties": {
                "summary": {"type": "string"},
                "archetypes": {"type": "array", "items": {"type": "string"}},
                "symbols": {"type": "array", "items": {"type": "string"}},
                "predominantSymbol": {"$ref": "#/definitions/dream.PredominantSymbol"},
                "jungianInterpretation": {"type": "string"},
                "shadowWork": {"type": "string"},
                "individuationStage": {"type": "string"},
                "emotionalTone": {"type": "string"},
                "recommendations": {"type": "array", "items": {"type": "string"}}
            }
        },
        "dream.Image": {
            "type": "object",
            "properties": {"url": {"type": "string"}}
        },
        "dream.Insights": {
            "type": "object",
            "properties": {
                "totalDreams": {"type": "integer"},
                "archetypeFrequencies": {"type": "array", "items": {"type": "object", "properties": {"archetype": {"type": "string"}, "count": {"type": "integer"}, "frequency": {"type": "integer"}}}},
                "symbolFrequencies": {"type": "array", "items": {"type": "object", "properties": {"symbol": {"type": "string"}, "count": {"type": "integer"}, "frequency": {"type": "integer"}}}},
                "uniqueArchetypes": {"type": "integer"},
                "individuationProgress": {"type": "integer"},
                "recentPatterns": {"type": "array", "items": {"type": "object", "properties": {"name": {"type": "string"}, "description": {"type": "string"}}}},
                "dreamStreak": {"type": "integer"}
            }
        },
        "services.AnalyzeResult": {
            "type": "object",
            "properties": {
                "dream": {"$ref": "#/definitions/dream.Dream"},
                "analysis": {"$ref": "#/definitions/dream.Analysis"},
                "message": {"$ref": "#/definitions/dream.ChatMessage"}
            }
        },
        "services.IllustrateResult": {
            "type": "object",
            "properties": {
                "dream": {"$ref": "#/definitions/dream.Dream"},
                "image": {"$ref": "#/definitions/dream.Image"},
                "message": {"$ref": "#/definitions/dream.ChatMessage"}
            }
        },
        "handlers.CreateDreamRequest": {
            "type": "object",
            "required": ["title", "content"],
            "properties": {
                "userId": {"type": "integer", "description": "Required unless the request carries a bearer token"},
                "title": {"type": "string", "maxLength": 200},
                "content": {"type": "string"},
                "analysis": {"type": "string"},
                "archetypes": {"type": "array", "items": {"type": "string"}},
                "symbols": {"type": "array", "items": {"type": "string"}},
                "imageUrl": {"type": "string"}
            }
        },
        "handlers.UpdateDreamRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string", "maxLength": 200},
                "content": {"type": "string"},
                "analysis": {"type": "string", "x-nullable": true, "description": "null clears the field"},
                "archetypes": {"type": "array", "items": {"type": "string"}, "x-nullable": true, "description": "null clears the field"},
                "symbols": {"type": "array", "items": {"type": "string"}, "x-nullable": true, "description": "null clears the field"},
                "imageUrl": {"type": "string", "x-nullable": true, "description": "null clears the field"}
            }
        },
        "handlers.AnalyzeDreamRequest": {
            "type": "object",
            "required": ["dreamContent"],
            "properties": {
                "dreamContent": {"type": "string"},
                "userId": {"type": "integer", "description": "Required unless the request carries a bearer token"}
            }
        },
        "handlers.GenerateImageRequest": {
            "type": "object",
            "required": ["prompt"],
            "properties": {"prompt": {"type": "string"}}
        },
        "handlers.GenerateImageResponse": {
            "type": "object",
            "properties": {
                "imageUrl": {"type": "string"},
                "prompt": {"type": "string"}
            }
        },
        "handlers.PostMessageRequest": {
            "type": "object",
            "required": ["role", "content"],
            "properties": {
                "dreamId": {"type": "integer"},
                "role": {"type": "string", "enum": ["user", "assistant"]},
                "content": {"type": "string"},
                "messageType": {"type": "string"},
                "metadata": {"type": "object", "additionalProperties": true}
            }
        },
        "errors.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "boolean"},
                "type": {"type": "string"},
                "message": {"type": "string"},
                "details": {"type": "object", "additionalProperties": true},
                "request_id": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token",
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
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "DreamSpeak API",
	Description:      "Dream journal with Jungian analysis, illustration and insights",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
