// Package docs holds the swagger document served at /api/docs/swagger.json.
// It is maintained by hand in the swag registration layout; keep it in step
// with the handler annotations and the header in cmd/server/main.go.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support",
            "email": "support@techcorp.com"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/chat": {
            "post": {
                "description": "Answers a customer message from the knowledge base. A conversation_id is generated when omitted.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["chat"],
                "summary": "Send a customer message",
                "parameters": [
                    {
                        "description": "Customer message",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/chat.Request"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/chat.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/api/chat/ws": {
            "get": {
                "description": "Upgrades to a WebSocket. Each chat_message frame is answered with a chat_response frame.",
                "tags": ["chat"],
                "summary": "Chat over a WebSocket",
                "parameters": [
                    {"type": "string", "description": "Conversation to continue", "name": "conversation_id", "in": "query"}
                ],
                "responses": {
                    "101": {"description": "Switching Protocols"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/api/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/health.Response"}}
                }
            }
        },
        "/api/index-status": {
            "get": {
                "produces": ["application/json"],
                "tags": ["knowledge"],
                "summary": "Search index status",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/knowledge.IndexStatus"}}
                }
            }
        },
        "/api/knowledge-base/status": {
            "get": {
                "produces": ["application/json"],
                "tags": ["knowledge"],
                "summary": "Knowledge base status",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/knowledge.KnowledgeBaseStatus"}}
                }
            }
        },
        "/api/rebuild-index": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Reprocesses the company PDF and replaces every index",
                "produces": ["application/json"],
                "tags": ["knowledge"],
                "summary": "Rebuild the search index",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/knowledge.MessageResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/api/reset-rag-service": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["knowledge"],
                "summary": "Reinitialise the knowledge base",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/knowledge.MessageResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/api/test-pdf-processing": {
            "get": {
                "description": "Reports document discovery, index status and a sample search",
                "produces": ["application/json"],
                "tags": ["knowledge"],
                "summary": "PDF processing self-test",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/knowledge.PDFProcessingResponse"}}
                }
            }
        },
        "/api/upload-documents": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Adds PDF or text files to the knowledge base",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["knowledge"],
                "summary": "Upload knowledge-base documents",
                "parameters": [
                    {"type": "file", "description": "Documents", "name": "files", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/knowledge.UploadResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "413": {"description": "Request Entity Too Large", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "assistant.Source": {
            "type": "object",
            "properties": {
                "similarity": {"type": "number"},
                "title": {"type": "string"}
            }
        },
        "chat.Debug": {
            "type": "object",
            "properties": {
                "index_status": {"$ref": "#/definitions/knowledge.IndexStatus"},
                "message_processed": {"type": "string"}
            }
        },
        "chat.Request": {
            "type": "object",
            "properties": {
                "conversation_id": {"type": "string", "maxLength": 128},
                "message": {"type": "string"}
            }
        },
        "chat.Response": {
            "type": "object",
            "properties": {
                "confidence": {"type": "number"},
                "context_used": {"type": "boolean"},
                "conversation_id": {"type": "string"},
                "debug": {"$ref": "#/definitions/chat.Debug"},
                "message_id": {"type": "string"},
                "pdf_available": {"type": "boolean"},
                "response": {"type": "string"},
                "sources": {"type": "array", "items": {"$ref": "#/definitions/assistant.Source"}},
                "suggested_responses": {"type": "array", "items": {"type": "string"}},
                "timestamp": {"type": "string"}
            }
        },
        "document.Info": {
            "type": "object",
            "properties": {
                "available": {"type": "boolean"},
                "directory": {"type": "string"},
                "files": {"type": "array", "items": {"type": "string"}},
                "message": {"type": "string"}
            }
        },
        "errors.ErrorResponse": {
            "type": "object",
            "properties": {
                "details": {"description": "optional details (sanitized in production)", "type": "string"},
                "error": {"description": "error code (e.g., \"unauthorized\", \"not_found\")", "type": "string"},
                "message": {"description": "user-friendly message", "type": "string"}
            }
        },
        "health.Response": {
            "type": "object",
            "properties": {
                "service": {"type": "string"},
                "status": {"type": "string"},
                "timestamp": {"type": "string"},
                "version": {"type": "string"}
            }
        },
        "knowledge.IndexStatus": {
            "type": "object",
            "properties": {
                "built_at": {"type": "string"},
                "documents_count": {"type": "integer"},
                "embeddings_model": {"type": "string"},
                "error": {"type": "string"},
                "index_exists": {"type": "boolean"},
                "legacy_available": {"type": "boolean"},
                "snapshot_path": {"type": "string"},
                "source": {"type": "string"},
                "vector_available": {"type": "boolean"},
                "vector_count": {"type": "integer"},
                "vector_dim": {"type": "integer"}
            }
        },
        "knowledge.KnowledgeBaseStatus": {
            "type": "object",
            "properties": {
                "document_titles": {"type": "array", "items": {"type": "string"}},
                "last_updated": {"type": "string"},
                "total_documents": {"type": "integer"},
                "vectors_built": {"type": "boolean"}
            }
        },
        "knowledge.MessageResponse": {
            "type": "object",
            "properties": {
                "chunks": {"type": "integer"},
                "message": {"type": "string"}
            }
        },
        "knowledge.PDFProcessingResponse": {
            "type": "object",
            "properties": {
                "index_status": {"$ref": "#/definitions/knowledge.IndexStatus"},
                "pdf_info": {"$ref": "#/definitions/document.Info"},
                "test_search": {"$ref": "#/definitions/knowledge.TestSearch"}
            }
        },
        "knowledge.SearchHit": {
            "type": "object",
            "properties": {
                "backend": {"type": "string"},
                "content": {"type": "string"},
                "similarity": {"type": "number"},
                "source": {"type": "string"},
                "title": {"type": "string"}
            }
        },
        "knowledge.TestSearch": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "query": {"type": "string"},
                "results": {"type": "array", "items": {"$ref": "#/definitions/knowledge.SearchHit"}},
                "results_count": {"type": "integer"}
            }
        },
        "knowledge.UploadResponse": {
            "type": "object",
            "properties": {
                "files": {"type": "array", "items": {"$ref": "#/definitions/knowledge.UploadResult"}},
                "message": {"type": "string"}
            }
        },
        "knowledge.UploadResult": {
            "type": "object",
            "properties": {
                "chunks": {"type": "integer"},
                "error": {"type": "string"},
                "filename": {"type": "string"},
                "size": {"type": "integer"},
                "status": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Admin JWT minted by the ingester. Format: Bearer {token}",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "TechCorp Solutions Support API",
	Description:      "Customer-support chatbot answering from the company knowledge base",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
