// Package docs holds the swagger document served under /swagger/*.
// Regenerate with: swag init -g cmd/api/main.go
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
        "/dashboard": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Totals, the five most recent transactions and category nets for a period, plus the portfolio",
                "produces": ["application/json"],
                "tags": ["dashboard"],
                "summary": "Dashboard summary",
                "parameters": [{"$ref": "#/parameters/period"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.DashboardSummaryResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ProblemDetails"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.ProblemDetails"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handler.ProblemDetails"}}
                }
            }
        },
        "/transactions": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "List the session's transactions within a period, most recent first",
                "produces": ["application/json"],
                "tags": ["transactions"],
                "summary": "List transactions",
                "parameters": [{"$ref": "#/parameters/period"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/handler.TransactionResponse"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ProblemDetails"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handler.ProblemDetails"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Record a new income or expense on the finance API",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["transactions"],
                "summary": "Create a transaction",
                "parameters": [
                    {"type": "string", "description": "Key the finance API uses to drop duplicate submissions", "name": "Idempotency-Key", "in": "header"},
                    {"description": "Transaction creation request", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.CreateTransactionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.TransactionResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ProblemDetails"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handler.ProblemDetails"}}
                }
            }
        },
        "/transactions/{id}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["transactions"],
                "summary": "Delete a transaction",
                "parameters": [{"type": "string", "description": "Transaction ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ProblemDetails"}}
                }
            }
        },
        "/investments": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Every investment valued today, oldest first, plus portfolio totals",
                "produces": ["application/json"],
                "tags": ["investments"],
                "summary": "List investments",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.PortfolioResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handler.ProblemDetails"}}
                }
            }
        },
        "/reports/category": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["reports"],
                "summary": "Net per category",
                "parameters": [{"$ref": "#/parameters/period"}, {"$ref": "#/parameters/type"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"$ref": "#/definitions/handler.MoneyResponse"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ProblemDetails"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handler.ProblemDetails"}}
                }
            }
        },
        "/reports/month": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["reports"],
                "summary": "Net per month",
                "parameters": [{"$ref": "#/parameters/period"}, {"$ref": "#/parameters/type"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"$ref": "#/definitions/handler.MoneyResponse"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ProblemDetails"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handler.ProblemDetails"}}
                }
            }
        },
        "/reports/month/chart.png": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["image/png"],
                "tags": ["reports"],
                "summary": "Monthly net bar chart",
                "parameters": [{"$ref": "#/parameters/period"}, {"$ref": "#/parameters/type"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ProblemDetails"}}
                }
            }
        },
        "/reports/monthly-by-category": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Signed nets per category, nested under their YYYY-MM month",
                "produces": ["application/json"],
                "tags": ["reports"],
                "summary": "Category nets per month",
                "parameters": [{"$ref": "#/parameters/period"}, {"$ref": "#/parameters/type"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "object", "additionalProperties": {"$ref": "#/definitions/handler.MoneyResponse"}}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ProblemDetails"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handler.ProblemDetails"}}
                }
            }
        },
        "/reports/category-by-month": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["reports"],
                "summary": "Monthly nets of one category",
                "parameters": [{"$ref": "#/parameters/category"}, {"$ref": "#/parameters/period"}, {"$ref": "#/parameters/type"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"$ref": "#/definitions/handler.MoneyResponse"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ProblemDetails"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handler.ProblemDetails"}}
                }
            }
        },
        "/reports/available-months": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "YYYY-MM months that have at least one transaction, oldest first",
                "produces": ["application/json"],
                "tags": ["reports"],
                "summary": "Months with transactions",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.AvailableMonthsResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handler.ProblemDetails"}}
                }
            }
        },
        "/reports/summary-by-month": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Income, expense and balance per YYYY-MM month",
                "produces": ["application/json"],
                "tags": ["reports"],
                "summary": "Totals per month",
                "parameters": [{"$ref": "#/parameters/period"}, {"$ref": "#/parameters/type"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"$ref": "#/definitions/handler.TotalsResponse"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ProblemDetails"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handler.ProblemDetails"}}
                }
            }
        },
        "/reports/top-categories": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Categories ranked by gross amount, largest first",
                "produces": ["application/json"],
                "tags": ["reports"],
                "summary": "Categories moving the most money",
                "parameters": [
                    {"type": "integer", "default": 5, "description": "How many categories, 1 to 100", "name": "limit", "in": "query"},
                    {"$ref": "#/parameters/period"},
                    {"$ref": "#/parameters/type"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/handler.CategoryTotalResponse"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ProblemDetails"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handler.ProblemDetails"}}
                }
            }
        },
        "/reports/yearly": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Totals of each calendar month of a year plus the year's totals",
                "produces": ["application/json"],
                "tags": ["reports"],
                "summary": "Yearly summary",
                "parameters": [{"type": "integer", "description": "Calendar year, defaults to the current one", "name": "year", "in": "query"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.YearlySummaryResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ProblemDetails"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handler.ProblemDetails"}}
                }
            }
        },
        "/reports/category-trend": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Monthly nets over the category's most recent active months, oldest first",
                "produces": ["application/json"],
                "tags": ["reports"],
                "summary": "Recent trend of one category",
                "parameters": [
                    {"$ref": "#/parameters/category"},
                    {"type": "integer", "default": 12, "description": "How many months, 1 to 120", "name": "months", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/handler.MonthNetResponse"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ProblemDetails"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handler.ProblemDetails"}}
                }
            }
        },
        "/simulations": {
            "post": {
                "description": "Month-by-month balance with a fixed contribution",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["simulations"],
                "summary": "Simulate compound growth",
                "parameters": [{"description": "Simulation parameters", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.SimulationRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.ProjectionResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ProblemDetails"}}
                }
            }
        }
    },
    "parameters": {
        "period": {"type": "string", "description": "all, today, last_7_days, last_30_days, last_n_days, month, custom", "name": "period", "in": "query"},
        "type": {"type": "string", "enum": ["income", "expense"], "description": "Keep only this transaction type", "name": "type", "in": "query"},
        "category": {"type": "string", "description": "Category name", "name": "category", "in": "query", "required": true}
    },
    "definitions": {
        "handler.ProblemDetails": {
            "type": "object",
            "properties": {
                "type": {"type": "string"},
                "title": {"type": "string"},
                "status": {"type": "integer"},
                "detail": {"type": "string"},
                "instance": {"type": "string"},
                "errors": {"type": "array", "items": {"$ref": "#/definitions/handler.ValidationError"}}
            }
        },
        "handler.ValidationError": {
            "type": "object",
            "properties": {
                "field": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "handler.MoneyResponse": {
            "type": "object",
            "properties": {
                "amount": {"type": "string"},
                "currency": {"type": "string"},
                "formatted": {"type": "string"}
            }
        },
        "handler.TransactionResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "type": {"type": "string"},
                "amount": {"$ref": "#/definitions/handler.MoneyResponse"},
                "description": {"type": "string"},
                "category": {"type": "string"},
                "occurredAt": {"type": "string"}
            }
        },
        "handler.CreateTransactionRequest": {
            "type": "object",
            "properties": {
                "type": {"type": "string"},
                "amount": {"type": "string"},
                "description": {"type": "string"},
                "category": {"type": "string"},
                "occurredAt": {"type": "string"}
            }
        },
        "handler.TotalsResponse": {
            "type": "object",
            "properties": {
                "income": {"$ref": "#/definitions/handler.MoneyResponse"},
                "expense": {"$ref": "#/definitions/handler.MoneyResponse"},
                "balance": {"$ref": "#/definitions/handler.MoneyResponse"}
            }
        },
        "handler.SkippedInvestmentResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "reason": {"type": "string"}
            }
        },
        "handler.PortfolioSummaryResponse": {
            "type": "object",
            "properties": {
                "count": {"type": "integer"},
                "totalInvested": {"$ref": "#/definitions/handler.MoneyResponse"},
                "totalCurrentValue": {"$ref": "#/definitions/handler.MoneyResponse"},
                "totalProfit": {"$ref": "#/definitions/handler.MoneyResponse"},
                "skipped": {"type": "array", "items": {"$ref": "#/definitions/handler.SkippedInvestmentResponse"}}
            }
        },
        "handler.AvailableMonthsResponse": {
            "type": "object",
            "properties": {
                "months": {"type": "array", "items": {"type": "string"}}
            }
        },
        "handler.CategoryTotalResponse": {
            "type": "object",
            "properties": {
                "category": {"type": "string"},
                "type": {"type": "string"},
                "total": {"$ref": "#/definitions/handler.MoneyResponse"},
                "count": {"type": "integer"}
            }
        },
        "handler.MonthTotalsResponse": {
            "type": "object",
            "properties": {
                "month": {"type": "integer"},
                "key": {"type": "string"},
                "totals": {"$ref": "#/definitions/handler.TotalsResponse"}
            }
        },
        "handler.YearlySummaryResponse": {
            "type": "object",
            "properties": {
                "year": {"type": "integer"},
                "totals": {"$ref": "#/definitions/handler.TotalsResponse"},
                "months": {"type": "array", "items": {"$ref": "#/definitions/handler.MonthTotalsResponse"}}
            }
        },
        "handler.MonthNetResponse": {
            "type": "object",
            "properties": {
                "month": {"type": "string"},
                "net": {"$ref": "#/definitions/handler.MoneyResponse"}
            }
        },
        "handler.DashboardSummaryResponse": {
            "type": "object",
            "properties": {
                "totals": {"$ref": "#/definitions/handler.TotalsResponse"},
                "recent": {"type": "array", "items": {"$ref": "#/definitions/handler.TransactionResponse"}},
                "byCategory": {"type": "object", "additionalProperties": {"$ref": "#/definitions/handler.MoneyResponse"}},
                "portfolio": {"$ref": "#/definitions/handler.PortfolioSummaryResponse"},
                "fetchedAt": {"type": "string"}
            }
        },
        "handler.ValuationResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "type": {"type": "string"},
                "initialAmount": {"$ref": "#/definitions/handler.MoneyResponse"},
                "monthlyRate": {"type": "string"},
                "createdAt": {"type": "string"},
                "elapsedMonths": {"type": "integer"},
                "currentAmount": {"$ref": "#/definitions/handler.MoneyResponse"},
                "profit": {"$ref": "#/definitions/handler.MoneyResponse"},
                "profitPercentage": {"type": "string"}
            }
        },
        "handler.PortfolioResponse": {
            "type": "object",
            "properties": {
                "investments": {"type": "array", "items": {"$ref": "#/definitions/handler.ValuationResponse"}},
                "summary": {"$ref": "#/definitions/handler.PortfolioSummaryResponse"}
            }
        },
        "handler.SimulationRequest": {
            "type": "object",
            "properties": {
                "initialAmount": {"type": "string"},
                "monthlyContribution": {"type": "string"},
                "monthlyRate": {"type": "string"},
                "months": {"type": "integer"}
            }
        },
        "handler.ProjectionRowResponse": {
            "type": "object",
            "properties": {
                "month": {"type": "integer"},
                "contribution": {"$ref": "#/definitions/handler.MoneyResponse"},
                "accumulatedBalance": {"$ref": "#/definitions/handler.MoneyResponse"},
                "profit": {"$ref": "#/definitions/handler.MoneyResponse"}
            }
        },
        "handler.ProjectionResponse": {
            "type": "object",
            "properties": {
                "initialAmount": {"$ref": "#/definitions/handler.MoneyResponse"},
                "monthlyRate": {"type": "string"},
                "months": {"type": "integer"},
                "totalContributed": {"$ref": "#/definitions/handler.MoneyResponse"},
                "finalBalance": {"$ref": "#/definitions/handler.MoneyResponse"},
                "totalProfit": {"$ref": "#/definitions/handler.MoneyResponse"},
                "schedule": {"type": "array", "items": {"$ref": "#/definitions/handler.ProjectionRowResponse"}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Bearer token issued by the finance API",
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
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Fortuna Tracker API",
	Description:      "Personal finance dashboard, reports and investment simulations over the finance API.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
