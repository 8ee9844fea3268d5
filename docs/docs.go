// Package docs holds the swagger description of the modelcfg HTTP API.
// Regenerate with `swag init -g cmd/modelcfg/docs.go -o docs`.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "modelcfg maintainers"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/backends": {
            "get": {
                "produces": ["application/json"],
                "tags": ["status"],
                "summary": "Optional backend availability",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.BackendsResponse"}}
                }
            }
        },
        "/models": {
            "get": {
                "produces": ["application/json"],
                "tags": ["models"],
                "summary": "List model families",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.ModelsResponse"}}
                }
            }
        },
        "/models/{family}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["models"],
                "summary": "Get a model family",
                "parameters": [
                    {"type": "string", "description": "model family", "name": "family", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.Model"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/models/{family}/postprocess": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["models"],
                "summary": "Extract generated text from a runtime result",
                "parameters": [
                    {"type": "string", "description": "model family", "name": "family", "in": "path", "required": true},
                    {"description": "runtime result", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/types.PostprocessRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.PostprocessResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/models/{family}/prompt": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["models"],
                "summary": "Format a prompt",
                "parameters": [
                    {"type": "string", "description": "model family", "name": "family", "in": "path", "required": true},
                    {"description": "keyword request: prompt, max_new_tokens, temperature, top_k, top_p, use_default_prompt_template, extras", "name": "body", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.PromptResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "415": {"description": "Unsupported Media Type", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/quantise": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["quantise"],
                "summary": "Select a quantisation config",
                "parameters": [
                    {"description": "mode and overrides", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/types.QuantiseRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.QuantiseResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/status": {
            "get": {
                "produces": ["application/json"],
                "tags": ["status"],
                "summary": "Service status",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.StatusResponse"}}
                }
            }
        }
    },
    "definitions": {
        "types.BackendStatus": {
            "type": "object",
            "properties": {
                "available": {"type": "boolean", "example": true},
                "forced": {"type": "boolean"},
                "module": {"type": "string", "example": "bitsandbytes"},
                "name": {"type": "string", "example": "bitsandbytes"}
            }
        },
        "types.BackendsResponse": {
            "type": "object",
            "properties": {
                "backends": {"type": "array", "items": {"$ref": "#/definitions/types.BackendStatus"}},
                "error": {"type": "string"},
                "python": {"type": "string", "example": "/usr/bin/python3"}
            }
        },
        "types.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "integer", "example": 400},
                "error": {"type": "string", "example": "invalid JSON body"}
            }
        },
        "types.Generation": {
            "type": "object",
            "properties": {
                "generated_text": {"type": "string", "example": "Paris is the capital of France."}
            }
        },
        "types.GenerationConfig": {
            "type": "object",
            "properties": {
                "eos_token_id": {"type": "integer", "example": 50277},
                "max_new_tokens": {"type": "integer", "example": 256},
                "temperature": {"type": "number", "example": 0.9},
                "top_k": {"type": "integer", "example": 5},
                "top_p": {"type": "number", "example": 0.92}
            }
        },
        "types.Model": {
            "type": "object",
            "properties": {
                "architecture": {"type": "string", "example": "GPTNeoXForCausalLM"},
                "default_id": {"type": "string", "example": "databricks/dolly-v2-3b"},
                "generation_config": {"$ref": "#/definitions/types.GenerationConfig"},
                "model_ids": {"type": "array", "items": {"type": "string"}},
                "name": {"type": "string", "example": "dolly-v2"},
                "return_full_text": {"type": "boolean"},
                "template": {"type": "string"},
                "timeout": {"type": "integer", "example": 3600000},
                "url": {"type": "string", "example": "https://github.com/databrickslabs/dolly"}
            }
        },
        "types.ModelsResponse": {
            "type": "object",
            "properties": {
                "models": {"type": "array", "items": {"$ref": "#/definitions/types.Model"}}
            }
        },
        "types.PostprocessRequest": {
            "type": "object",
            "properties": {
                "prompt": {"type": "string"},
                "result": {"type": "array", "items": {"$ref": "#/definitions/types.Generation"}}
            }
        },
        "types.PostprocessResponse": {
            "type": "object",
            "properties": {
                "text": {"type": "string", "example": "Paris is the capital of France."}
            }
        },
        "types.PromptResponse": {
            "type": "object",
            "properties": {
                "generation_params": {"type": "object", "additionalProperties": true},
                "load_params": {"type": "object", "additionalProperties": true},
                "prompt": {"type": "string"},
                "templated": {"type": "boolean"}
            }
        },
        "types.QuantiseRequest": {
            "type": "object",
            "properties": {
                "model_id": {"type": "string", "example": "databricks/dolly-v2-3b"},
                "overrides": {"type": "object", "additionalProperties": true},
                "quantize": {"type": "string", "example": "int8"}
            }
        },
        "types.QuantiseResponse": {
            "type": "object",
            "properties": {
                "config": {"type": "object"},
                "extra": {"type": "object", "additionalProperties": true},
                "model_id": {"type": "string", "example": "databricks/dolly-v2-3b"},
                "quantize": {"type": "string", "example": "int8"}
            }
        },
        "types.StatusResponse": {
            "type": "object",
            "properties": {
                "default_family": {"type": "string", "example": "dolly-v2"},
                "errors_total": {"type": "integer", "example": 1},
                "families": {"type": "integer", "example": 1},
                "last_error": {"type": "string"},
                "postprocess_total": {"type": "integer", "example": 12},
                "prompts_total": {"type": "integer", "example": 12},
                "quantise_modes": {"type": "array", "items": {"type": "string"}},
                "quantise_total": {"type": "integer", "example": 3},
                "server_time_unix": {"type": "integer", "example": 1700000000},
                "uptime_seconds": {"type": "integer", "example": 3600}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "modelcfg API",
	Description:      "Model family descriptors, prompt formatting and quantisation config selection.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
