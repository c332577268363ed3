// Package docs registers the Swagger document served under /swagger/.
// Regenerate with: swag init -g cmd/worktravel/main.go
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
        "/ping": {
            "get": {"tags": ["Service"], "summary": "Ping", "responses": {"200": {"description": "OK"}, "500": {"description": "Internal Server Error"}}}
        },
        "/api/auth/login": {
            "post": {
                "tags": ["Auth"], "summary": "Login",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "credentials", "required": true, "schema": {"$ref": "#/definitions/models.Credentials"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.LoginResponse"}}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}
            }
        },
        "/api/profile": {
            "get": {"tags": ["Profile"], "summary": "Get profile", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.User"}}}},
            "patch": {"tags": ["Profile"], "summary": "Update profile", "security": [{"BearerAuth": []}], "parameters": [{"in": "body", "name": "patch", "required": true, "schema": {"$ref": "#/definitions/models.UserPatch"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.User"}}}}
        },
        "/api/users": {
            "get": {"tags": ["User"], "summary": "Get users", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.User"}}}}},
            "post": {"tags": ["User"], "summary": "Add user", "security": [{"BearerAuth": []}], "parameters": [{"in": "body", "name": "user", "required": true, "schema": {"$ref": "#/definitions/models.UserRequest"}}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/models.User"}}, "409": {"description": "Conflict"}}}
        },
        "/api/users/{id}": {
            "patch": {"tags": ["User"], "summary": "Update user", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}, {"in": "body", "name": "patch", "required": true, "schema": {"$ref": "#/definitions/models.UserPatch"}}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "delete": {"tags": ["User"], "summary": "Delete user", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}], "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found"}}}
        },
        "/api/cities": {
            "get": {"tags": ["City"], "summary": "Get cities", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.City"}}}}},
            "post": {"tags": ["City"], "summary": "Add city", "security": [{"BearerAuth": []}], "parameters": [{"in": "body", "name": "city", "required": true, "schema": {"$ref": "#/definitions/models.City"}}], "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}}
        },
        "/api/cities/{name}": {
            "put": {"tags": ["City"], "summary": "Replace city", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "name", "type": "string", "required": true}, {"in": "body", "name": "city", "required": true, "schema": {"$ref": "#/definitions/models.City"}}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "delete": {"tags": ["City"], "summary": "Delete city", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "name", "type": "string", "required": true}], "responses": {"204": {"description": "No Content"}, "409": {"description": "City in use"}}}
        },
        "/api/settings": {
            "get": {"tags": ["Settings"], "summary": "Get settings", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Settings"}}}},
            "put": {"tags": ["Settings"], "summary": "Replace settings", "security": [{"BearerAuth": []}], "parameters": [{"in": "body", "name": "settings", "required": true, "schema": {"$ref": "#/definitions/models.Settings"}}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/api/roles": {
            "get": {"tags": ["Role"], "summary": "List roles", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Role"}}}}},
            "post": {"tags": ["Role"], "summary": "Create custom role", "security": [{"BearerAuth": []}], "parameters": [{"in": "body", "name": "role", "required": true, "schema": {"$ref": "#/definitions/models.RoleRequest"}}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/models.Role"}}, "400": {"description": "Bad Request"}, "403": {"description": "Forbidden"}, "409": {"description": "Conflict"}}}
        },
        "/api/workdays": {
            "get": {"tags": ["Workday"], "summary": "Get workdays", "security": [{"BearerAuth": []}], "parameters": [{"in": "query", "name": "month", "type": "integer"}, {"in": "query", "name": "year", "type": "integer"}, {"in": "query", "name": "user_id", "type": "string"}], "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Workday"}}}}},
            "post": {"tags": ["Workday"], "summary": "Save workday", "security": [{"BearerAuth": []}], "parameters": [{"in": "body", "name": "workday", "required": true, "schema": {"$ref": "#/definitions/models.WorkdayPayload"}}, {"in": "query", "name": "strict", "type": "boolean"}, {"in": "query", "name": "user_id", "type": "string"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Workday"}}, "400": {"description": "Bad Request"}, "404": {"description": "City not found"}, "409": {"description": "Conflict"}}},
            "delete": {"tags": ["Workday"], "summary": "Delete workday", "security": [{"BearerAuth": []}], "parameters": [{"in": "query", "name": "date", "type": "string", "required": true}], "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found"}}}
        },
        "/api/workdays/{date}": {
            "get": {"tags": ["Workday"], "summary": "Get workday", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "date", "type": "string", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Workday"}}, "404": {"description": "Not Found"}}},
            "put": {"tags": ["Workday"], "summary": "Update workday", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "date", "type": "string", "required": true}, {"in": "body", "name": "workday", "required": true, "schema": {"$ref": "#/definitions/models.WorkdayPayload"}}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/api/workdays/import-csv": {
            "post": {"tags": ["Workday"], "summary": "Import workdays", "security": [{"BearerAuth": []}], "consumes": ["multipart/form-data"], "parameters": [{"in": "formData", "name": "file", "type": "file", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ImportResult"}}, "400": {"description": "Bad Request"}}}
        },
        "/api/stats/monthly": {
            "get": {"tags": ["Report"], "summary": "Monthly statistics", "security": [{"BearerAuth": []}], "parameters": [{"in": "query", "name": "month", "type": "integer", "required": true}, {"in": "query", "name": "year", "type": "integer", "required": true}, {"in": "query", "name": "user_id", "type": "string"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.MonthlyStats"}}}}
        },
        "/api/export/pdf": {
            "get": {"tags": ["Report"], "summary": "Monthly PDF report", "security": [{"BearerAuth": []}], "produces": ["application/pdf"], "parameters": [{"in": "query", "name": "month", "type": "integer", "required": true}, {"in": "query", "name": "year", "type": "integer", "required": true}, {"in": "query", "name": "user_id", "type": "string"}], "responses": {"200": {"description": "OK", "schema": {"type": "file"}}}}
        },
        "/api/export/csv": {
            "get": {"tags": ["Report"], "summary": "Monthly CSV export", "security": [{"BearerAuth": []}], "produces": ["text/csv"], "parameters": [{"in": "query", "name": "month", "type": "integer", "required": true}, {"in": "query", "name": "year", "type": "integer", "required": true}, {"in": "query", "name": "user_id", "type": "string"}], "responses": {"200": {"description": "OK", "schema": {"type": "file"}}}}
        }
    },
    "definitions": {
        "models.Credentials": {"type": "object", "properties": {"username": {"type": "string"}, "password": {"type": "string"}}},
        "models.LoginResponse": {"type": "object", "properties": {"token": {"type": "string"}, "role": {"type": "string"}, "user": {"$ref": "#/definitions/models.User"}}},
        "models.User": {"type": "object", "properties": {"id": {"type": "string"}, "username": {"type": "string"}, "email": {"type": "string"}, "name": {"type": "string"}, "role": {"type": "string"}, "blocked": {"type": "boolean"}, "created_at": {"type": "string"}}},
        "models.UserRequest": {"type": "object", "properties": {"username": {"type": "string"}, "email": {"type": "string"}, "name": {"type": "string"}, "password": {"type": "string"}, "role": {"type": "string"}}},
        "models.UserPatch": {"type": "object", "properties": {"email": {"type": "string"}, "name": {"type": "string"}, "password": {"type": "string"}, "role": {"type": "string"}, "blocked": {"type": "boolean"}}},
        "models.Role": {"type": "object", "properties": {"id": {"type": "string"}, "name": {"type": "string"}, "permissions": {"type": "array", "items": {"type": "string"}}, "custom": {"type": "boolean"}, "created_at": {"type": "string"}}},
        "models.RoleRequest": {"type": "object", "properties": {"name": {"type": "string"}, "permissions": {"type": "array", "items": {"type": "string"}}}},
        "models.City": {"type": "object", "properties": {"id": {"type": "string"}, "name": {"type": "string"}, "distance_km": {"type": "number"}, "travel_time_minutes": {"type": "integer"}, "default_arrival_time": {"type": "string"}, "address": {"type": "string"}}},
        "models.Settings": {"type": "object", "properties": {"fuel_price_per_liter": {"type": "number"}, "car_consumption_per_100km": {"type": "number"}, "monthly_allowance": {"type": "number"}, "extra_tolerance_minutes": {"type": "integer"}, "car_model": {"type": "string"}}},
        "models.WorkdayPayload": {"type": "object", "properties": {"date": {"type": "string"}, "city": {"type": "string"}, "status": {"type": "string"}, "is_custom_city": {"type": "boolean"}, "custom_city_name": {"type": "string"}, "custom_distance_km": {"type": "number"}, "custom_travel_minutes": {"type": "integer"}, "actual_arrival_at_store": {"type": "string"}, "actual_exit_from_store": {"type": "string"}, "actual_return_home": {"type": "string"}}},
        "models.Workday": {"type": "object", "properties": {"id": {"type": "string"}, "user_id": {"type": "string"}, "date": {"type": "string"}, "city": {"type": "string"}, "status": {"type": "string"}, "is_custom_city": {"type": "boolean"}, "travel_minutes_outbound": {"type": "integer"}, "travel_minutes_return": {"type": "integer"}, "paid_travel_minutes": {"type": "integer"}, "work_minutes_at_store": {"type": "integer"}, "presence_minutes_with_break": {"type": "integer"}, "departure_from_home": {"type": "string"}, "arrival_at_store": {"type": "string"}, "exit_from_store": {"type": "string"}, "return_home": {"type": "string"}, "actual_arrival_at_store": {"type": "string"}, "actual_exit_from_store": {"type": "string"}, "actual_return_home": {"type": "string"}, "total_km": {"type": "number"}, "fuel_liters": {"type": "number"}, "fuel_cost": {"type": "number"}}},
        "models.MonthlyStats": {"type": "object", "properties": {"month": {"type": "string"}, "total_km": {"type": "number"}, "total_fuel_liters": {"type": "number"}, "total_fuel_cost": {"type": "number"}, "km_allowance": {"type": "number"}, "work_days": {"type": "integer"}, "rest_days": {"type": "integer"}, "total_time_at_store_minutes": {"type": "integer"}, "total_travel_time_minutes": {"type": "integer"}}},
        "models.ImportResult": {"type": "object", "properties": {"message": {"type": "string"}, "rows_read": {"type": "integer"}, "rows_saved": {"type": "integer"}, "skipped": {"type": "integer"}, "errors": {"type": "array", "items": {"type": "string"}}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Work Travel API",
	Description:      "Work days, travel costs and monthly reports of field employees.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
