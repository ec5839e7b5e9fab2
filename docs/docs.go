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
        "/health/ready": {
            "get": {"tags": ["health"], "summary": "Readiness of postgres, redis and the object store", "responses": {"200": {"description": "ready"}, "503": {"description": "not ready"}}}
        },
        "/compounds": {
            "get": {
                "tags": ["compound"],
                "summary": "List compounds",
                "parameters": [
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "limit", "in": "query"},
                    {"type": "string", "name": "searchTerm", "in": "query"},
                    {"type": "array", "items": {"type": "string"}, "collectionFormat": "multi", "name": "loaiHC", "in": "query"},
                    {"type": "array", "items": {"type": "string"}, "collectionFormat": "multi", "name": "status", "in": "query"},
                    {"type": "array", "items": {"type": "string"}, "collectionFormat": "multi", "name": "trangThai", "in": "query"},
                    {"type": "array", "items": {"type": "string"}, "collectionFormat": "multi", "name": "mau", "in": "query"}
                ],
                "responses": {"200": {"description": "page of compounds"}}
            },
            "post": {
                "tags": ["compound"],
                "summary": "Create a compound",
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"type": "object"}}],
                "responses": {"201": {"description": "created"}, "400": {"description": "validation failed"}, "409": {"description": "display number taken"}}
            }
        },
        "/compounds/{id}": {
            "get": {
                "tags": ["compound"],
                "summary": "Get a compound",
                "parameters": [{"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "compound"}, "404": {"description": "not found"}}
            },
            "put": {
                "tags": ["compound"],
                "summary": "Merge fields into a compound",
                "parameters": [
                    {"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true},
                    {"name": "body", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {"200": {"description": "updated"}, "404": {"description": "not found"}, "409": {"description": "stale updatedAt"}}
            },
            "delete": {
                "tags": ["compound"],
                "summary": "Delete a compound and its files",
                "parameters": [{"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true}],
                "responses": {"204": {"description": "deleted"}, "404": {"description": "not found"}}
            }
        },
        "/compounds/{id}/export": {
            "get": {
                "tags": ["compound"],
                "summary": "Export a compound as xlsx",
                "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "parameters": [{"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "workbook"}, "404": {"description": "not found"}}
            }
        },
        "/meta/{kind}": {
            "get": {
                "tags": ["meta"],
                "summary": "Distinct values of a tag",
                "parameters": [{"type": "string", "enum": ["loai-hc", "trang-thai", "mau", "nmr-solvent", "status"], "name": "kind", "in": "path", "required": true}],
                "responses": {"200": {"description": "values"}}
            }
        },
        "/meta/next-stt": {"get": {"tags": ["meta"], "summary": "Next free display number", "responses": {"200": {"description": "next"}}}},
        "/meta/next-table-number": {"get": {"tags": ["meta"], "summary": "Next NMR table number", "responses": {"200": {"description": "next"}}}},
        "/meta/pubchem": {
            "get": {
                "tags": ["meta"],
                "summary": "Look a compound up on PubChem",
                "parameters": [{"type": "string", "name": "name", "in": "query", "required": true}],
                "responses": {"200": {"description": "compound info"}, "404": {"description": "not found"}}
            }
        },
        "/uploads": {
            "post": {
                "tags": ["upload"],
                "summary": "Upload one file",
                "consumes": ["multipart/form-data"],
                "parameters": [{"type": "file", "name": "file", "in": "formData", "required": true}],
                "responses": {"200": {"description": "stored reference"}}
            },
            "delete": {
                "tags": ["upload"],
                "summary": "Remove an uploaded file",
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"type": "object", "properties": {"url": {"type": "string"}}}}],
                "responses": {"200": {"description": "delete outcome"}}
            }
        },
        "/uploads/multiple": {
            "post": {
                "tags": ["upload"],
                "summary": "Upload several files",
                "consumes": ["multipart/form-data"],
                "parameters": [{"type": "file", "name": "files", "in": "formData", "required": true}],
                "responses": {"200": {"description": "stored references"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "chemdb API",
	Description:      "Compound records, NMR tables, spectral files and exports.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
