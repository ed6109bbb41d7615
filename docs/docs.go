// Package docs registers the OpenAPI description served at /swagger
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
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/bookings/verify-qr": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["tickets"],
                "summary": "Verify a scanned QR ticket (admin)",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/VerifyQRRequest"}}],
                "responses": {
                    "200": {"description": "VALID", "schema": {"$ref": "#/definitions/VerifyQRResponse"}},
                    "400": {"description": "INVALID", "schema": {"$ref": "#/definitions/VerifyQRResponse"}},
                    "403": {"description": "FORBIDDEN", "schema": {"$ref": "#/definitions/VerifyQRResponse"}},
                    "404": {"description": "Unknown ticket", "schema": {"$ref": "#/definitions/VerifyQRResponse"}},
                    "503": {"description": "NETWORK_ERROR", "schema": {"$ref": "#/definitions/VerifyQRResponse"}}
                }
            }
        },
        "/owner/bookings/verify-qr": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["tickets"],
                "summary": "Verify a scanned QR ticket for one of the caller's activities",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/VerifyQRRequest"}}],
                "responses": {
                    "200": {"description": "VALID", "schema": {"$ref": "#/definitions/VerifyQRResponse"}},
                    "400": {"description": "INVALID", "schema": {"$ref": "#/definitions/VerifyQRResponse"}},
                    "403": {"description": "FORBIDDEN", "schema": {"$ref": "#/definitions/VerifyQRResponse"}}
                }
            }
        },
        "/bookings/{id}/complete": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["tickets"],
                "summary": "Redeem a ticket (CONFIRMED to COMPLETED)",
                "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "REDEEMED or ALREADY_REDEEMED", "schema": {"$ref": "#/definitions/RedeemResponse"}},
                    "409": {"description": "NOT_REDEEMABLE", "schema": {"$ref": "#/definitions/RedeemResponse"}}
                }
            }
        },
        "/owner/bookings/{id}/complete": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["tickets"],
                "summary": "Redeem a ticket for one of the caller's activities",
                "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "REDEEMED or ALREADY_REDEEMED", "schema": {"$ref": "#/definitions/RedeemResponse"}},
                    "409": {"description": "NOT_REDEEMABLE", "schema": {"$ref": "#/definitions/RedeemResponse"}}
                }
            }
        },
        "/bookings/{id}/ticket": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["tickets"],
                "summary": "Issue the QR payload of a confirmed booking",
                "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "Ticket issued"},
                    "409": {"description": "Booking is not confirmed"}
                }
            }
        },
        "/bookings": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["bookings"],
                "summary": "Create a PENDING booking",
                "responses": {"201": {"description": "Booking created"}}
            }
        },
        "/bookings/{id}/confirm": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["bookings"],
                "summary": "Record payment and confirm a booking",
                "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}],
                "responses": {"200": {"description": "Booking confirmed"}}
            }
        },
        "/bookings/{id}/cancel": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["bookings"],
                "summary": "Cancel a booking",
                "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}],
                "responses": {"200": {"description": "Booking cancelled"}}
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Exchange credentials for a token pair",
                "responses": {"200": {"description": "Login successful"}}
            }
        }
    },
    "definitions": {
        "VerifyQRRequest": {
            "type": "object",
            "properties": {
                "qrCodeData": {"type": "string"},
                "expectedBookingId": {"type": "string"}
            }
        },
        "VerifyQRResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "outcome": {"type": "string", "enum": ["VALID", "INVALID", "FORBIDDEN", "NETWORK_ERROR"]},
                "reason": {"type": "string", "enum": ["MALFORMED_PAYLOAD", "MISSING_REQUIRED_FIELD", "BOOKING_MISMATCH", "UNKNOWN_TICKET", "CODE_MISMATCH", "DETAILS_MISMATCH", "NOT_REDEEMABLE"]},
                "data": {"type": "object"},
                "rawPayload": {"type": "string"}
            }
        },
        "RedeemResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "outcome": {"type": "string", "enum": ["REDEEMED", "ALREADY_REDEEMED", "NOT_REDEEMABLE", "UNKNOWN_TICKET", "FORBIDDEN", "NETWORK_ERROR"]},
                "data": {"type": "object"}
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
	Title:            "TravelTix API",
	Description:      "Activity bookings with QR ticket issuance, verification and redemption.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
