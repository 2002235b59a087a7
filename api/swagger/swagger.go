package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "NeuroBud Summary API",
        "description": "Daily wellness summary generation and read API",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Summaries", "description": "Daily wellness summaries"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/api/v1/internal/daily-summaries/generate": {
            "post": {
                "tags": ["Summaries"],
                "summary": "Generate daily summaries for the scoring date",
                "parameters": [
                    {"name": "date", "in": "query", "type": "string", "description": "Scoring date (YYYY-MM-DD), defaults to UTC yesterday"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/GenerateResponse"}},
                    "500": {"description": "Base record fetch failed", "schema": {"$ref": "#/definitions/GenerateErrorResponse"}}
                }
            }
        },
        "/api/v1/children/{childId}/summaries": {
            "get": {
                "tags": ["Summaries"],
                "summary": "List stored summaries for a child",
                "parameters": [
                    {"name": "childId", "in": "path", "required": true, "type": "string"},
                    {"name": "from", "in": "query", "type": "string"},
                    {"name": "to", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/children/{childId}/summaries/{date}": {
            "get": {
                "tags": ["Summaries"],
                "summary": "Get the stored summary for a child and scored date",
                "parameters": [
                    {"name": "childId", "in": "path", "required": true, "type": "string"},
                    {"name": "date", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No summary for that date"}
                }
            }
        }
    },
    "definitions": {
        "SummaryResult": {
            "type": "object",
            "properties": {
                "child_id": {"type": "string"},
                "score": {"type": "number"},
                "evolution_status": {"type": "string", "enum": ["improved", "regressed", "neutral"]},
                "insights_count": {"type": "integer"},
                "alerts_count": {"type": "integer"}
            }
        },
        "GenerateResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "date": {"type": "string"},
                "summaries": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/SummaryResult"}
                }
            }
        },
        "GenerateErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"}
            }
        },
        "Summary": {
            "type": "object",
            "properties": {
                "child_id": {"type": "string"},
                "summary_date": {"type": "string"},
                "score": {"type": "number"},
                "evolution_status": {"type": "string"},
                "insights": {"type": "array", "items": {"type": "string"}},
                "alerts": {"type": "array", "items": {"type": "string"}},
                "comparison_data": {"$ref": "#/definitions/ComparisonData"}
            }
        },
        "ComparisonData": {
            "type": "object",
            "properties": {
                "previous_score": {"type": "number", "x-nullable": true},
                "score_difference": {"type": "number", "x-nullable": true}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
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
