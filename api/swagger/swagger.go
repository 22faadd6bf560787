package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "School Site API",
        "description": "Public content, admission and contact forms, result lookup and admin management for the school website.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http",
        "https"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Content", "description": "Public site content"},
        {"name": "Results", "description": "Student result lookup"},
        {"name": "Forms", "description": "Admission and contact submissions"},
        {"name": "Assistant", "description": "AI search and FAQ assistant"},
        {"name": "Admin", "description": "Authenticated management endpoints"}
    ],
    "paths": {
        "/settings": {
            "get": {
                "tags": ["Content"],
                "summary": "Site settings",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/teachers": {
            "get": {
                "tags": ["Content"],
                "summary": "List teachers without private fields",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/teachers/{id}": {
            "get": {
                "tags": ["Content"],
                "summary": "Get teacher",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/news": {
            "get": {
                "tags": ["Content"],
                "summary": "List news, newest first",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/events": {
            "get": {
                "tags": ["Content"],
                "summary": "List events",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/gallery": {
            "get": {
                "tags": ["Content"],
                "summary": "List gallery images",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/faq": {
            "get": {
                "tags": ["Content"],
                "summary": "List FAQ entries",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/results": {
            "get": {
                "tags": ["Results"],
                "summary": "Look up a report card by roll number and session",
                "parameters": [
                    {"name": "rollNumber", "in": "query", "required": true, "type": "string"},
                    {"name": "session", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No result found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/results/report-card.pdf": {
            "get": {
                "tags": ["Results"],
                "summary": "Download a report card as PDF",
                "produces": ["application/pdf"],
                "parameters": [
                    {"name": "rollNumber", "in": "query", "required": true, "type": "string"},
                    {"name": "session", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "PDF document"}}
            }
        },
        "/contact": {
            "post": {
                "tags": ["Forms"],
                "summary": "Submit the contact form",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ContactSubmission"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admissions": {
            "post": {
                "tags": ["Forms"],
                "summary": "Submit an admission application",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "applicantName", "in": "formData", "required": true, "type": "string"},
                    {"name": "dob", "in": "formData", "required": true, "type": "string"},
                    {"name": "gender", "in": "formData", "required": true, "type": "string"},
                    {"name": "parentName", "in": "formData", "required": true, "type": "string"},
                    {"name": "parentEmail", "in": "formData", "required": true, "type": "string"},
                    {"name": "parentPhone", "in": "formData", "required": true, "type": "string"},
                    {"name": "appliedClass", "in": "formData", "required": true, "type": "string"},
                    {"name": "supportingDocument", "in": "formData", "type": "file"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/search": {
            "post": {
                "tags": ["Assistant"],
                "summary": "AI site search",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AssistantQuery"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Model unavailable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/faq-assistant": {
            "post": {
                "tags": ["Assistant"],
                "summary": "AI FAQ answer",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AssistantQuery"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Model unavailable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/login": {
            "post": {
                "tags": ["Admin"],
                "summary": "Sign in and receive a session cookie",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/dashboard": {
            "get": {
                "tags": ["Admin"],
                "summary": "Collection counts and pending work",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/admin/teachers": {
            "post": {
                "tags": ["Admin"],
                "summary": "Create teacher",
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data", "application/json"],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Teacher ID exists", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/admissions/{id}/approve": {
            "post": {
                "tags": ["Admin"],
                "summary": "Approve a pending admission",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Already decided", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/import/results": {
            "post": {
                "tags": ["Admin"],
                "summary": "Import report cards from a JSON file",
                "description": "CSV uploads are rejected. Rows whose roll number matches no student are skipped.",
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "parameters": [{"name": "file", "in": "formData", "required": true, "type": "file", "description": "JSON report cards"}],
                "responses": {"200": {"description": "Import summary", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/admin/export/students.csv": {
            "get": {
                "tags": ["Admin"],
                "summary": "Export students as CSV",
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv"],
                "responses": {"200": {"description": "CSV file"}}
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"},
                "idToken": {"type": "string"}
            }
        },
        "ContactSubmission": {
            "type": "object",
            "properties": {
                "firstName": {"type": "string"},
                "lastName": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "subject": {"type": "string"},
                "message": {"type": "string"}
            },
            "required": ["firstName", "lastName", "email", "subject", "message"]
        },
        "AssistantQuery": {
            "type": "object",
            "properties": {
                "query": {"type": "string"}
            },
            "required": ["query"]
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "issues": {"type": "object"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
