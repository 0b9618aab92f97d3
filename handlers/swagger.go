package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger serves a small Swagger UI page and the OpenAPI description
// of the CMS routes.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(swaggerHTML))
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>cms | Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

// Form posts use application/x-www-form-urlencoded; every document route
// answers 302 to /users/login without a signed-in session.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "cms", "version": "v1.0.0" },
  "components": {
    "parameters": {
      "filename": { "name": "filename", "in": "path", "required": true, "schema": { "type": "string" }, "description": "document name ending in .txt or .md" }
    }
  },
  "paths": {
    "/": { "get": { "summary": "List documents", "responses": { "200": { "description": "listing page" }, "302": { "description": "not signed in" } } } },
    "/new": {
      "get": { "summary": "New document form", "responses": { "200": { "description": "form" } } },
      "post": {
        "summary": "Create an empty document",
        "requestBody": { "content": { "application/x-www-form-urlencoded": { "schema": {"type":"object","properties":{"file_name":{"type":"string"}}}}}},
        "responses": { "302": { "description": "created, redirect to /" }, "422": { "description": "name exists, is empty or has an unsupported extension" } }
      }
    },
    "/{filename}": {
      "get": { "summary": "View a document", "parameters": [{ "$ref": "#/components/parameters/filename" }], "responses": { "200": { "description": "text/plain or rendered HTML" }, "302": { "description": "missing or unsupported document" } } }
    },
    "/{filename}/edit": {
      "get": { "summary": "Edit form", "parameters": [{ "$ref": "#/components/parameters/filename" }], "responses": { "200": { "description": "form with raw content" }, "302": { "description": "missing or unsupported document" } } },
      "post": {
        "summary": "Replace document content",
        "parameters": [{ "$ref": "#/components/parameters/filename" }],
        "requestBody": { "content": { "application/x-www-form-urlencoded": { "schema": {"type":"object","properties":{"content":{"type":"string"}}}}}},
        "responses": { "302": { "description": "saved, redirect to /" } }
      }
    },
    "/{filename}/delete": {
      "post": {
        "summary": "Delete a document",
        "parameters": [{ "$ref": "#/components/parameters/filename" }],
        "requestBody": { "content": { "application/x-www-form-urlencoded": { "schema": {"type":"object","properties":{"delete":{"type":"string"}}}}}},
        "responses": { "302": { "description": "redirect to /" } }
      }
    },
    "/users/login": {
      "get": { "summary": "Sign-in form", "responses": { "200": { "description": "form" } } },
      "post": {
        "summary": "Sign in",
        "requestBody": { "content": { "application/x-www-form-urlencoded": { "schema": {"type":"object","properties":{"username":{"type":"string"},"password":{"type":"string"}}}}}},
        "responses": { "302": { "description": "signed in, redirect to /" }, "401": { "description": "invalid credentials" } }
      }
    },
    "/users/logout": { "post": { "summary": "Sign out", "responses": { "302": { "description": "redirect to /users/login" } } } },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "text exposition format" } } } }
  }
}`
