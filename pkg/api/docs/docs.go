// Package docs holds the swagger document served by the API.
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
            "url": "https://github.com/goran-ethernal/ChainDecoder"
        },
        "license": {
            "name": "Apache 2.0",
            "url": "https://www.apache.org/licenses/LICENSE-2.0.html"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/contracts": {
            "get": {
                "description": "Get a list of all configured contracts with their addresses and endpoints",
                "produces": ["application/json"],
                "tags": ["Contracts"],
                "summary": "List all contracts",
                "responses": {
                    "200": {
                        "description": "List of contracts",
                        "schema": {
                            "type": "array",
                            "items": {"$ref": "#/definitions/api.ContractInfo"}
                        }
                    }
                }
            }
        },
        "/contracts/{name}/events": {
            "get": {
                "description": "List the events a contract can emit with their signatures and selectors",
                "produces": ["application/json"],
                "tags": ["Contracts"],
                "summary": "List contract events",
                "parameters": [
                    {"type": "string", "description": "Contract name", "name": "name", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {
                        "description": "List of events",
                        "schema": {
                            "type": "array",
                            "items": {"$ref": "#/definitions/catalog.EventInfo"}
                        }
                    },
                    "404": {
                        "description": "Contract not found",
                        "schema": {"$ref": "#/definitions/api.ErrorResponse"}
                    }
                }
            }
        },
        "/contracts/{name}/decode": {
            "post": {
                "description": "Decode a single log object or an array of logs against the contract ABI",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Decode"],
                "summary": "Decode event logs",
                "parameters": [
                    {"type": "string", "description": "Contract name", "name": "name", "in": "path", "required": true},
                    {"description": "Log object or array of log objects", "name": "logs", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {
                        "description": "Decoded record or batch of records",
                        "schema": {"$ref": "#/definitions/api.DecodeBatchResponse"}
                    },
                    "400": {
                        "description": "Malformed request body",
                        "schema": {"$ref": "#/definitions/api.ErrorResponse"}
                    },
                    "404": {
                        "description": "Contract or event not found",
                        "schema": {"$ref": "#/definitions/api.ErrorResponse"}
                    },
                    "413": {
                        "description": "Request body too large",
                        "schema": {"$ref": "#/definitions/api.ErrorResponse"}
                    },
                    "422": {
                        "description": "Log does not match the event definition",
                        "schema": {"$ref": "#/definitions/api.ErrorResponse"}
                    }
                }
            }
        },
        "/health": {
            "get": {
                "description": "Check the health status of the API",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health check",
                "responses": {
                    "200": {
                        "description": "Service is healthy",
                        "schema": {"$ref": "#/definitions/api.HealthResponse"}
                    }
                }
            }
        }
    },
    "definitions": {
        "api.ContractInfo": {
            "type": "object",
            "properties": {
                "addresses": {"type": "array", "items": {"type": "string"}},
                "endpoints": {"type": "array", "items": {"type": "string"}},
                "events": {"type": "integer"},
                "name": {"type": "string"}
            }
        },
        "api.DecodeBatchResponse": {
            "type": "object",
            "properties": {
                "decoded": {"type": "integer"},
                "failed": {"type": "integer"},
                "records": {"type": "array", "items": {"$ref": "#/definitions/batch.Record"}}
            }
        },
        "api.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "error": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "api.HealthResponse": {
            "type": "object",
            "properties": {
                "contracts": {"type": "integer"},
                "status": {"type": "string"},
                "timestamp": {"type": "string"}
            }
        },
        "batch.ErrorInfo": {
            "type": "object",
            "properties": {
                "kind": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "batch.Record": {
            "type": "object",
            "properties": {
                "address": {"type": "string"},
                "blockNumber": {"type": "string"},
                "contract": {"type": "string"},
                "error": {"$ref": "#/definitions/batch.ErrorInfo"},
                "event": {"$ref": "#/definitions/parser.KeyedEvent"},
                "logIndex": {"type": "string"},
                "transactionHash": {"type": "string"}
            }
        },
        "catalog.EventInfo": {
            "type": "object",
            "properties": {
                "anonymous": {"type": "boolean"},
                "name": {"type": "string"},
                "params": {"type": "array", "items": {"$ref": "#/definitions/catalog.Param"}},
                "selector": {"type": "string"},
                "signature": {"type": "string"}
            }
        },
        "catalog.Param": {
            "type": "object",
            "properties": {
                "indexed": {"type": "boolean"},
                "name": {"type": "string"},
                "type": {"type": "string"}
            }
        },
        "parser.KeyedEvent": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "name": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{"http", "https"},
	Title:            "ChainDecoder API",
	Description:      "REST API for decoding EVM event logs against configured contract ABIs",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
