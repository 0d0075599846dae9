// Package docs swagger spec untuk REST API cityroute, disajikan di /swagger/doc.json.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "lintang birda saputra"
        },
        "license": {
            "name": "GNU Affero General Public License v3.0",
            "url": "https://www.gnu.org/licenses/gpl-3.0.en.html"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/routes/shortest-path": {
            "get": {
                "description": "path dengan jumlah edge paling sedikit dari start_node_id ke end_node_id.",
                "produces": ["application/json"],
                "tags": ["routes"],
                "summary": "shortest path antara 2 node (pakai id).",
                "parameters": [
                    {"type": "integer", "description": "id node asal", "name": "start_node_id", "in": "query", "required": true},
                    {"type": "integer", "description": "id node tujuan", "name": "end_node_id", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/rest.ShortestPathResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/rest.ErrResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/rest.ErrResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/rest.ErrResponse"}}
                }
            }
        },
        "/routes/shortest-path-by-name": {
            "get": {
                "description": "path dengan jumlah edge paling sedikit, nama kota dicocokkan case-insensitive.",
                "produces": ["application/json"],
                "tags": ["routes"],
                "summary": "shortest path antara 2 node (pakai nama kota).",
                "parameters": [
                    {"type": "string", "description": "nama kota asal", "name": "start_city_name", "in": "query", "required": true},
                    {"type": "string", "description": "nama kota tujuan", "name": "end_city_name", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/rest.ShortestPathResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/rest.ErrResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/rest.ErrResponse"}}
                }
            }
        },
        "/routes/distance": {
            "get": {
                "description": "jarak minimum (km) dari start_node_id ke end_node_id, bobot edge = haversine distance. found=false kalau tidak ada path.",
                "produces": ["application/json"],
                "tags": ["routes"],
                "summary": "jarak minimum antara 2 node.",
                "parameters": [
                    {"type": "integer", "description": "id node asal", "name": "start_node_id", "in": "query", "required": true},
                    {"type": "integer", "description": "id node tujuan", "name": "end_node_id", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/rest.DistanceResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/rest.ErrResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/rest.ErrResponse"}},
                    "504": {"description": "Gateway Timeout", "schema": {"$ref": "#/definitions/rest.ErrResponse"}}
                }
            }
        },
        "/routes/shortest-path-by-coordinates": {
            "post": {
                "description": "kedua koordinat di-snap ke node terdekat, lalu dicari path dengan jumlah edge paling sedikit.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["routes"],
                "summary": "shortest path antara 2 koordinat.",
                "parameters": [
                    {"description": "koordinat asal & tujuan", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/rest.CoordinatePathRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/rest.ShortestPathResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/rest.ErrResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/rest.ErrResponse"}}
                }
            }
        },
        "/routes/upload-nodes": {
            "post": {
                "description": "header Id,CityName,Latitude,Longitude. Node dengan id yang sama di-replace.",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["routes"],
                "summary": "upload file csv node.",
                "parameters": [
                    {"type": "file", "description": "csv node", "name": "file", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/datastructure.Node"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/rest.ErrResponse"}}
                }
            }
        },
        "/routes/upload-edges": {
            "post": {
                "description": "format id,startPlaceName,endPlaceName. Nama tempat dicocokkan case-sensitive ke node yang sudah ada.",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["routes"],
                "summary": "upload file csv edge.",
                "parameters": [
                    {"type": "file", "description": "csv edge", "name": "file", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/datastructure.Edge"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/rest.ErrResponse"}}
                }
            }
        },
        "/nodes": {
            "get": {
                "produces": ["application/json"],
                "tags": ["nodes"],
                "summary": "semua node.",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/datastructure.Node"}}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["nodes"],
                "summary": "tambah node baru.",
                "parameters": [
                    {"description": "node baru", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/rest.NodeRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/datastructure.Node"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/rest.ErrResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/rest.ErrResponse"}}
                }
            }
        },
        "/nodes/nearest": {
            "get": {
                "produces": ["application/json"],
                "tags": ["nodes"],
                "summary": "node terdekat dari koordinat.",
                "parameters": [
                    {"type": "number", "description": "latitude", "name": "lat", "in": "query", "required": true},
                    {"type": "number", "description": "longitude", "name": "lon", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/rest.NearestNodeResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/rest.ErrResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/rest.ErrResponse"}}
                }
            }
        },
        "/nodes/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["nodes"],
                "summary": "node berdasarkan id.",
                "parameters": [{"type": "integer", "description": "id node", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/datastructure.Node"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/rest.ErrResponse"}}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["nodes"],
                "summary": "update node.",
                "parameters": [
                    {"type": "integer", "description": "id node", "name": "id", "in": "path", "required": true},
                    {"description": "data node", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/rest.NodeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/datastructure.Node"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/rest.ErrResponse"}}
                }
            },
            "delete": {
                "tags": ["nodes"],
                "summary": "hapus node. Edge yang merujuk node ini tetap ada.",
                "parameters": [{"type": "integer", "description": "id node", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/rest.ErrResponse"}}
                }
            }
        },
        "/edges": {
            "get": {
                "produces": ["application/json"],
                "tags": ["edges"],
                "summary": "semua edge.",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/datastructure.Edge"}}}
                }
            }
        }
    },
    "definitions": {
        "datastructure.Node": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "city_name": {"type": "string"},
                "latitude": {"type": "number"},
                "longitude": {"type": "number"}
            }
        },
        "datastructure.Edge": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "start_node_id": {"type": "integer"},
                "end_node_id": {"type": "integer"}
            }
        },
        "datastructure.Coordinate": {
            "type": "object",
            "properties": {
                "lat": {"type": "number"},
                "lon": {"type": "number"}
            }
        },
        "rest.ShortestPathResponse": {
            "description": "response body untuk shortest path query (jumlah edge paling sedikit)",
            "type": "object",
            "properties": {
                "path": {"type": "string"},
                "hops": {"type": "integer"},
                "found": {"type": "boolean"},
                "nodes": {"type": "array", "items": {"$ref": "#/definitions/datastructure.Node"}},
                "route": {"type": "array", "items": {"$ref": "#/definitions/datastructure.Coordinate"}}
            }
        },
        "rest.DistanceResponse": {
            "description": "response body untuk minimum distance query (km)",
            "type": "object",
            "properties": {
                "distance_km": {"type": "number"},
                "found": {"type": "boolean"}
            }
        },
        "rest.CoordinatePathRequest": {
            "description": "request body untuk shortest path antara 2 koordinat (di-snap ke node terdekat)",
            "type": "object",
            "properties": {
                "src_lat": {"type": "number"},
                "src_lon": {"type": "number"},
                "dst_lat": {"type": "number"},
                "dst_lon": {"type": "number"}
            }
        },
        "rest.NodeRequest": {
            "description": "request body untuk create / update node",
            "type": "object",
            "required": ["city_name"],
            "properties": {
                "id": {"type": "integer"},
                "city_name": {"type": "string"},
                "latitude": {"type": "number"},
                "longitude": {"type": "number"}
            }
        },
        "rest.NearestNodeResponse": {
            "description": "node terdekat dari sebuah koordinat",
            "type": "object",
            "properties": {
                "node": {"$ref": "#/definitions/datastructure.Node"},
                "distance_km": {"type": "number"}
            }
        },
        "rest.ErrResponse": {
            "description": "model untuk error response",
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "error": {"type": "string"},
                "status": {"type": "string"},
                "validation": {"type": "array", "items": {"type": "string"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:5000",
	BasePath:         "/api",
	Schemes:          []string{"http"},
	Title:            "cityroute API",
	Description:      "shortest path antar kota: jumlah edge paling sedikit (Dijkstra) dan jarak haversine minimum (DFS).",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
