// Package docs is generated by swag init -g cmd/server/main.go. Regenerate after changing annotations.
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
        "/auth/request-otp": {
            "post": {
                "description": "Issue a 6-digit sign-in code for a Ghana phone number. Replaces any pending code.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Request OTP",
                "parameters": [
                    {
                        "description": "Phone number",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handlers.OTPRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/services.RequestOTPResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/auth/verify-otp": {
            "post": {
                "description": "Consume the pending code and return a session. Creates the account on first sign-in.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Verify OTP",
                "parameters": [
                    {
                        "description": "Phone and code",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handlers.VerifyOTPRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/services.Session"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/services.Session"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/payments/webhook": {
            "post": {
                "description": "Signature-verified provider callback. Only charge.success confirms a payment.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Payments"],
                "summary": "Payment webhook",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Hex HMAC-SHA512 of the body",
                        "name": "X-Paystack-Signature",
                        "in": "header",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handlers.OTPRequest": {
            "type": "object",
            "required": ["phone"],
            "properties": {
                "phone": {"type": "string", "example": "+233241234567"}
            }
        },
        "handlers.VerifyOTPRequest": {
            "type": "object",
            "required": ["otp", "phone"],
            "properties": {
                "otp": {"type": "string", "example": "123456"},
                "phone": {"type": "string", "example": "+233241234567"}
            }
        },
        "services.RequestOTPResult": {
            "type": "object",
            "properties": {
                "expiresAt": {"type": "string"},
                "isNewUser": {"type": "boolean"},
                "otp": {"type": "string"}
            }
        },
        "services.Session": {
            "description": "Session with onboarding status",
            "type": "object",
            "properties": {
                "expiresAt": {"type": "string", "example": "2025-06-08T12:00:00Z"},
                "onboardingStatus": {
                    "type": "object",
                    "properties": {
                        "isComplete": {"type": "boolean"},
                        "nextStep": {"type": "string"},
                        "redirectTo": {"type": "string"}
                    }
                },
                "token": {"type": "string"},
                "user": {
                    "type": "object",
                    "properties": {
                        "fullName": {"type": "string"},
                        "id": {"type": "string"},
                        "phone": {"type": "string"},
                        "photoUrl": {"type": "string"},
                        "rating": {"type": "number"},
                        "role": {"type": "string"}
                    }
                }
            }
        },
        "response.ErrorResponse": {
            "description": "Error response structure",
            "type": "object",
            "properties": {
                "code": {"type": "string", "example": "INVALID_INPUT"},
                "details": {"type": "object", "additionalProperties": {"type": "string"}},
                "message": {"type": "string", "example": "Validation failed"},
                "success": {"type": "boolean", "example": false}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{"http", "https"},
	Title:            "RideGhana Backend API",
	Description:      "Ride-hailing API: OTP sign-in, onboarding, trips, pricing, payments and admin analytics",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
